package p2p

import "testing"

func TestRegistry_TryRegisterDeduplicatesByPeername(t *testing.T) {
	r := NewRegistry()
	h1 := &Handler{}
	h2 := &Handler{}

	if !r.TryRegister("peer-a", h1) {
		t.Fatalf("first registration for peer-a should succeed")
	}
	if r.TryRegister("peer-a", h2) {
		t.Fatalf("second registration for the same peername should be rejected")
	}
	if r.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", r.Len())
	}
}

func TestRegistry_UnregisterFreesThePeername(t *testing.T) {
	r := NewRegistry()
	h1 := &Handler{}
	h2 := &Handler{}

	if !r.TryRegister("peer-a", h1) {
		t.Fatalf("registration should succeed")
	}
	r.Unregister("peer-a", h1)
	if r.Len() != 0 {
		t.Fatalf("Len() = %d, want 0 after unregister", r.Len())
	}
	if !r.TryRegister("peer-a", h2) {
		t.Fatalf("peername should be available again after unregister")
	}
}

func TestRegistry_UnregisterIgnoresMismatchedHandler(t *testing.T) {
	r := NewRegistry()
	h1 := &Handler{}
	h2 := &Handler{}

	r.TryRegister("peer-a", h1)
	// h2 never held peer-a, so this must be a no-op.
	r.Unregister("peer-a", h2)
	if r.Len() != 1 {
		t.Fatalf("Len() = %d, want 1 (unregister by non-owner should not remove)", r.Len())
	}
}

func TestRegistry_ConnectedHandlersReturnsAllRegistered(t *testing.T) {
	r := NewRegistry()
	h1 := &Handler{}
	h2 := &Handler{}
	r.TryRegister("peer-a", h1)
	r.TryRegister("peer-b", h2)

	got := r.ConnectedHandlers()
	if len(got) != 2 {
		t.Fatalf("ConnectedHandlers() returned %d handlers, want 2", len(got))
	}
}
