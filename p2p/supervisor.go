package p2p

import (
	"fmt"
	"net"

	"go.uber.org/zap"

	"ghostnode.dev/node/ghost"
	"ghostnode.dev/node/srp"
)

// FleetConfig is the supervisor's startup configuration (spec §4.6 "Peer
// selection policy in the supervisor", §6 config keys).
type FleetConfig struct {
	ListenAddr       string
	MaxBidirectional int // default 10
	MaxInbound       int // default 90, total pool size
	Group            srp.Group
	PeerBook         PeerBook
	Router           Router
	Logger           *zap.Logger
}

const (
	DefaultMaxBidirectional = 10
	DefaultMaxInbound       = 90
)

// Supervisor owns the listen socket and the handler registry, and restarts
// each handler independently, one-for-one (spec §4.7).
type Supervisor struct {
	cfg      FleetConfig
	listener net.Listener
	registry *Registry
	handlers []*Handler
	stop     chan struct{}
}

func NewSupervisor(cfg FleetConfig) *Supervisor {
	if cfg.MaxBidirectional == 0 {
		cfg.MaxBidirectional = DefaultMaxBidirectional
	}
	if cfg.MaxInbound == 0 {
		cfg.MaxInbound = DefaultMaxInbound
	}
	return &Supervisor{cfg: cfg, registry: NewRegistry(), stop: make(chan struct{})}
}

// Start binds the listen socket and spawns the fixed-size handler pool:
// slots 1..MaxBidirectional dial-or-listen, the rest listen-only (spec
// §4.6 "Spawn handlers 1..MAX_BIDIRECTIONAL in bidirectional mode and
// MAX_BIDIRECTIONAL+1..MAX_INBOUND in inbound-only mode").
func (s *Supervisor) Start() error {
	ln, err := net.Listen("tcp", s.cfg.ListenAddr)
	if err != nil {
		return fmt.Errorf("p2p: supervisor: listen: %w", err)
	}
	s.listener = ln

	for i := 1; i <= s.cfg.MaxInbound; i++ {
		role := RoleInboundOnly
		if i <= s.cfg.MaxBidirectional {
			role = RoleBidirectional
		}
		h := NewHandler(HandlerConfig{
			Index:      i,
			Role:       role,
			ListenAddr: s.cfg.ListenAddr,
			Listener:   s.listener,
			PeerBook:   s.cfg.PeerBook,
			Group:      s.cfg.Group,
			Registry:   s.registry,
			Router:     s.cfg.Router,
			Logger:     s.cfg.Logger,
		})
		s.handlers = append(s.handlers, h)
		go s.superviseOne(h)
	}
	return nil
}

// superviseOne restarts h forever (one-for-one), replacing it with a fresh
// Handler value each time so no state leaks across a dead connection's
// lifetime into its replacement.
func (s *Supervisor) superviseOne(h *Handler) {
	for {
		select {
		case <-s.stop:
			return
		default:
		}
		h.Run()
		HandlerRestarts.WithLabelValues(roleString(h.cfg.Role).String()).Inc()
		*h = *NewHandler(h.cfg)
	}
}

func (s *Supervisor) Stop() error {
	close(s.stop)
	if s.listener != nil {
		return s.listener.Close()
	}
	return nil
}

// ConnectedHandlers is connected_handlers() (spec §4.7).
func (s *Supervisor) ConnectedHandlers() []*Handler {
	return s.registry.ConnectedHandlers()
}

// Gossip is gossip(type, payload): fire-and-forget fan-out to every
// connected handler (spec §4.7, §5 "best-effort fan-out with no
// per-peer acknowledgement").
func (s *Supervisor) Gossip(msg ghost.Message) {
	for _, h := range s.ConnectedHandlers() {
		GossipMessagesSent.Inc()
		go func(h *Handler) {
			_ = h.Send(msg)
		}(h)
	}
}
