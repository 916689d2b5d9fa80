package p2p

import (
	"math/big"
	"sync"
)

// fakePeerBook is an in-memory PeerBook for tests, grounded on the teacher's
// test style of in-memory fakes standing in for external stores rather than
// mocks.
type fakePeerBook struct {
	mu         sync.Mutex
	identifier string
	password   string
	known      []string
	seed       []string

	records map[string]peerRecord
}

type peerRecord struct {
	salt                []byte
	prime, generator, v *big.Int
}

func newFakePeerBook(identifier, password string) *fakePeerBook {
	return &fakePeerBook{
		identifier: identifier,
		password:   password,
		records:    make(map[string]peerRecord),
	}
}

func (b *fakePeerBook) KnownPeers() []string { return b.known }
func (b *fakePeerBook) SeedPeers() []string  { return b.seed }
func (b *fakePeerBook) Identifier() string   { return b.identifier }
func (b *fakePeerBook) Password() string     { return b.password }

func (b *fakePeerBook) LookupVerifier(identifier string) (salt []byte, prime, generator, verifier *big.Int, ok bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	rec, found := b.records[identifier]
	if !found {
		return nil, nil, nil, nil, false
	}
	return rec.salt, rec.prime, rec.generator, rec.v, true
}

func (b *fakePeerBook) SaveVerifier(identifier string, salt []byte, prime, generator, verifier *big.Int) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.records[identifier] = peerRecord{salt: salt, prime: prime, generator: generator, v: verifier}
	return nil
}
