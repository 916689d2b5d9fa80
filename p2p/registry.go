package p2p

import "sync"

// Registry is the supervisor-owned, process-wide group of authenticated
// handlers (spec §4.6: "register self in the process-wide p2p_handlers
// group and set a connected=peername tag on self for deduplication";
// spec §4.7: "connected_handlers() — every handler whose process-local
// state includes connected"). Safe for concurrent use by every handler
// goroutine.
type Registry struct {
	mu       sync.Mutex
	byPeer   map[string]*Handler
	handlers map[*Handler]struct{}
}

func NewRegistry() *Registry {
	return &Registry{
		byPeer:   make(map[string]*Handler),
		handlers: make(map[*Handler]struct{}),
	}
}

// TryRegister registers h under peername, unless another handler already
// holds it (spec §4.6: "Before completing an inbound accept, check the
// registry: if another handler already has connected == peername, close and
// exit"). Returns false when the peername is already taken.
func (r *Registry) TryRegister(peername string, h *Handler) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, dup := r.byPeer[peername]; dup {
		return false
	}
	r.byPeer[peername] = h
	r.handlers[h] = struct{}{}
	return true
}

func (r *Registry) Unregister(peername string, h *Handler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.byPeer[peername]; ok && existing == h {
		delete(r.byPeer, peername)
	}
	delete(r.handlers, h)
}

// ConnectedHandlers returns every currently registered (READY, deduplicated)
// handler (spec §4.7 connected_handlers()).
func (r *Registry) ConnectedHandlers() []*Handler {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*Handler, 0, len(r.handlers))
	for h := range r.handlers {
		out = append(out, h)
	}
	return out
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.handlers)
}
