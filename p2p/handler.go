package p2p

import (
	"fmt"
	"net"
	"time"

	"go.uber.org/zap"

	"ghostnode.dev/node/ghost"
	"ghostnode.dev/node/srp"
)

const (
	msgPing = "PING"
	msgPang = "PANG"
)

// startupDelay is the fixed pause before a freshly spawned handler consults
// its role and the peer list (spec §4.6 "IDLE: after a fixed startup delay,
// consult role and peer list") — staggers the fleet's initial dial burst.
const startupDelay = 50 * time.Millisecond

const dialTimeout = 1 * time.Second

// pingInterval is how often a READY handler actively probes its peer's
// liveness (spec §4.6 ping/pong, §3 "ping RTT"). Chosen well under the
// kernel's usual TCP keepalive timeout so a dead peer is noticed from
// application traffic, not just a socket-level timeout.
const pingInterval = 15 * time.Second

// HandlerConfig carries everything a handler needs that isn't per-connection
// state.
type HandlerConfig struct {
	Index      int // 1-based position in the fleet, spec §4.6 "handler number i"
	Role       Role
	ListenAddr string
	Listener   net.Listener
	PeerBook   PeerBook
	Group      srp.Group
	Registry   *Registry
	Router     Router
	Logger     *zap.Logger
}

// Handler is one connection-handler task: independently owns a single
// socket across its lifetime, runs the IDLE→DIAL/LISTEN→AUTHENTICATING→
// READY→DEAD state machine, and is restarted by the supervisor on death
// (spec §4.6, §4.7 "Restarts each handler independently (one-for-one)").
type Handler struct {
	cfg   HandlerConfig
	state ConnState

	session *Session
}

func NewHandler(cfg HandlerConfig) *Handler {
	return &Handler{cfg: cfg, state: StateIdle}
}

// Run executes one full handler lifecycle: IDLE through DEAD. The caller
// (the supervisor) loops this to get one-for-one restart semantics.
func (h *Handler) Run() {
	time.Sleep(startupDelay)

	conn, role, err := h.establishConnection()
	if err != nil {
		h.cfg.Logger.Warn("handler: failed to establish connection", zap.Int("handler", h.cfg.Index), zap.Error(err))
		h.state = StateDead
		return
	}
	defer conn.Close()

	h.state = StateAuthenticating
	session, err := h.authenticate(conn, role)
	if err != nil {
		HandshakesFailed.Inc()
		h.cfg.Logger.Info("handler: authentication failed", zap.Int("handler", h.cfg.Index), zap.Error(err))
		h.state = StateDead
		return
	}
	HandshakesSucceeded.Inc()

	if !h.cfg.Registry.TryRegister(session.PeerName, h) {
		DuplicateConnectionsDropped.Inc()
		h.cfg.Logger.Info("handler: duplicate connection, closing", zap.String("peer", session.PeerName))
		h.state = StateDead
		return
	}
	defer h.cfg.Registry.Unregister(session.PeerName, h)

	h.session = session
	h.state = StateReady
	PeersConnected.WithLabelValues(roleString(role).String()).Inc()
	defer PeersConnected.WithLabelValues(roleString(role).String()).Dec()
	h.cfg.Logger.Info("handler: ready", zap.String("peer", session.PeerName), zap.Stringer("role", roleString(role)))

	stopPing := make(chan struct{})
	go h.pingLoop(stopPing)
	defer close(stopPing)

	h.serve()
	h.state = StateDead
}

// pingLoop actively probes the peer every pingInterval (spec §4.6
// ping/pong): record the send time, then emit PING. The matching PANG is
// handled by serve's read loop, which turns LastPingSent into PingRTT.
func (h *Handler) pingLoop(stop <-chan struct{}) {
	h.pingEvery(pingInterval, stop)
}

// pingEvery is pingLoop with the interval pulled out so tests don't have to
// wait a real pingInterval to observe a PING go out.
func (h *Handler) pingEvery(interval time.Duration, stop <-chan struct{}) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			h.session.LastPingSent = time.Now()
			_ = h.Send(ghost.New(msgPing))
		}
	}
}

type roleString Role

func (r roleString) String() string {
	if Role(r) == RoleBidirectional {
		return "bidirectional"
	}
	return "inbound"
}

// establishConnection implements the IDLE/DIAL/LISTEN transitions (spec
// §4.6): a bidirectional handler with a known peer at its slot dials that
// peer, falling back to LISTEN on failure; every other handler listens
// directly.
func (h *Handler) establishConnection() (net.Conn, Role, error) {
	if h.cfg.Role == RoleBidirectional {
		peers := h.cfg.PeerBook.KnownPeers()
		if len(peers) == 0 {
			peers = h.cfg.PeerBook.SeedPeers()
		}
		if h.cfg.Index <= len(peers) {
			h.state = StateDialing
			addr := peers[h.cfg.Index-1]
			conn, err := net.DialTimeout("tcp", addr, dialTimeout)
			if err == nil {
				return conn, RoleBidirectional, nil
			}
			h.cfg.Logger.Info("handler: dial failed, falling back to listen", zap.Int("handler", h.cfg.Index), zap.String("addr", addr), zap.Error(err))
		}
	}

	h.state = StateListening
	conn, err := h.cfg.Listener.Accept()
	if err != nil {
		return nil, RoleInboundOnly, fmt.Errorf("p2p: accept: %w", err)
	}
	return conn, RoleInboundOnly, nil
}

func (h *Handler) authenticate(conn net.Conn, role Role) (*Session, error) {
	peername := conn.RemoteAddr().String()

	if role == RoleBidirectional {
		key, err := ClientHandshake(conn, peername, h.cfg.PeerBook, h.cfg.Group)
		if err != nil {
			return nil, err
		}
		return &Session{Conn: conn, SessionKey: key, PeerName: peername, Role: role}, nil
	}

	key, _, err := ServerHandshake(conn, h.cfg.PeerBook, h.cfg.Group)
	if err != nil {
		return nil, err
	}
	return &Session{Conn: conn, SessionKey: key, PeerName: peername, Role: role}, nil
}

// serve is the READY-state read loop (spec §4.6): decode, decrypt, dispatch
// PING/PANG locally, forward everything else to the router.
func (h *Handler) serve() {
	for {
		key := ghost.SessionKey(h.session.SessionKey)
		msg, err := ghost.ReadFrame(h.session.Conn, &key)
		if err != nil {
			h.cfg.Logger.Info("handler: connection closed", zap.String("peer", h.session.PeerName), zap.Error(err))
			return
		}

		switch msg.Type {
		case msgPing:
			_ = h.Send(ghost.New(msgPang))
		case msgPang:
			h.session.PingRTT = time.Since(h.session.LastPingSent)
			PingRTTSeconds.Observe(h.session.PingRTT.Seconds())
		default:
			if h.cfg.Router != nil {
				h.cfg.Router.Deliver(h.session, msg)
			}
		}
	}
}

// Send encodes, encrypts and writes msg to this handler's socket (spec §4.6
// "On any outbound send request (type, payload) from the parent, encode
// +encrypt+send; log on encode failure, never crash").
func (h *Handler) Send(msg ghost.Message) error {
	if h.session == nil {
		return fmt.Errorf("p2p: handler: not ready")
	}
	key := ghost.SessionKey(h.session.SessionKey)
	if err := ghost.WriteFrame(h.session.Conn, msg, &key); err != nil {
		h.cfg.Logger.Warn("handler: send failed", zap.String("peer", h.session.PeerName), zap.Error(err))
		return err
	}
	return nil
}

func (h *Handler) State() ConnState  { return h.state }
func (h *Handler) Session() *Session { return h.session }
