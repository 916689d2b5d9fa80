package node

import (
	"fmt"

	"go.uber.org/zap"

	"ghostnode.dev/node/p2p"
	"ghostnode.dev/node/srp"
	"ghostnode.dev/node/store"
)

// Node owns every long-lived component a running ghostnode process needs:
// the stores, the Ghost connection-handler fleet, and the health-check
// listener. Grounded on the teacher's main.go's wiring order (open stores,
// build the engine, start network, block on a signal) generalized from a
// single blockstore+syncEngine into the peer/chain stores and supervisor
// this spec's Ghost layer needs.
type Node struct {
	cfg Config

	peers       *store.PeerStore
	known       *store.KnownPeerStore
	chain       *store.ChainStateStore
	book        *PeerBook
	router      *Router
	fleet       *p2p.Supervisor
	logger      *zap.Logger
	healthStop  chan struct{}
	metricsStop chan struct{}
}

func New(cfg Config, logger *zap.Logger) (*Node, error) {
	if err := ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("node: invalid config: %w", err)
	}

	peers, err := store.OpenPeerStore(cfg.DataPath)
	if err != nil {
		return nil, err
	}
	known, err := store.OpenKnownPeerStore(cfg.DataPath)
	if err != nil {
		_ = peers.Close()
		return nil, err
	}
	chain, err := store.OpenChainStateStore(cfg.DataPath)
	if err != nil {
		_ = peers.Close()
		_ = known.Close()
		return nil, err
	}

	book := NewPeerBook(cfg, peers, known)
	router := NewRouter(chain, cfg.Params(), NoSignatureVerifier{}, logger)

	fleet := p2p.NewSupervisor(p2p.FleetConfig{
		ListenAddr:       fmt.Sprintf("0.0.0.0:%d", cfg.Port),
		MaxBidirectional: cfg.MaxBidirectionalConnections,
		MaxInbound:       cfg.MaxInboundConnections,
		Group:            srp.Group1024(),
		PeerBook:         book,
		Router:           router,
		Logger:           logger,
	})

	return &Node{
		cfg:         cfg,
		peers:       peers,
		known:       known,
		chain:       chain,
		book:        book,
		router:      router,
		fleet:       fleet,
		logger:      logger,
		healthStop:  make(chan struct{}),
		metricsStop: make(chan struct{}),
	}, nil
}

// Start binds the Ghost listener, the health-check listener and the metrics
// listener and returns once all three are up; their serve loops run in
// background goroutines until Stop is called.
func (n *Node) Start() error {
	if err := n.fleet.Start(); err != nil {
		return fmt.Errorf("node: fleet start: %w", err)
	}

	healthAddr := fmt.Sprintf("0.0.0.0:%d", p2p.DefaultHealthPort)
	go func() {
		if err := p2p.ServeHealthCheck(healthAddr, n.logger, n.healthStop); err != nil {
			n.logger.Info("node: health check listener stopped", zap.Error(err))
		}
	}()

	metricsAddr := fmt.Sprintf("0.0.0.0:%d", p2p.DefaultMetricsPort)
	go func() {
		if err := p2p.ServeMetrics(metricsAddr, n.metricsStop); err != nil {
			n.logger.Info("node: metrics listener stopped", zap.Error(err))
		}
	}()

	n.logger.Info("node: started",
		zap.Int("port", n.cfg.Port),
		zap.Int("health_port", p2p.DefaultHealthPort),
		zap.Int("metrics_port", p2p.DefaultMetricsPort),
		zap.Int("max_bidirectional", n.cfg.MaxBidirectionalConnections),
		zap.Int("max_inbound", n.cfg.MaxInboundConnections),
	)
	return nil
}

func (n *Node) Stop() error {
	close(n.healthStop)
	close(n.metricsStop)
	err := n.fleet.Stop()
	_ = n.chain.Close()
	_ = n.known.Close()
	_ = n.peers.Close()
	return err
}

// ConnectedPeers is connected_handlers() projected to peer names, for
// status reporting.
func (n *Node) ConnectedPeers() []string {
	handlers := n.fleet.ConnectedHandlers()
	out := make([]string, 0, len(handlers))
	for _, h := range handlers {
		if s := h.Session(); s != nil {
			out = append(out, s.PeerName)
		}
	}
	return out
}
