package node

import (
	"math/big"

	"ghostnode.dev/node/store"
)

// PeerBook adapts the node's bbolt-backed peer identity and known-peers
// stores to the p2p.PeerBook contract the connection handler consumes.
type PeerBook struct {
	identifier string
	password   string
	seedPeers  []string

	peers *store.PeerStore
	known *store.KnownPeerStore
}

func NewPeerBook(cfg Config, peers *store.PeerStore, known *store.KnownPeerStore) *PeerBook {
	return &PeerBook{
		identifier: cfg.Identifier,
		password:   cfg.Password,
		seedPeers:  cfg.SeedPeers,
		peers:      peers,
		known:      known,
	}
}

func (b *PeerBook) KnownPeers() []string {
	list, err := b.known.List()
	if err != nil {
		return nil
	}
	return list
}

func (b *PeerBook) SeedPeers() []string { return b.seedPeers }
func (b *PeerBook) Identifier() string  { return b.identifier }
func (b *PeerBook) Password() string    { return b.password }

func (b *PeerBook) LookupVerifier(identifier string) (salt []byte, prime, generator, verifier *big.Int, ok bool) {
	rec, found, err := b.peers.Get(identifier)
	if err != nil || !found {
		return nil, nil, nil, nil, false
	}
	return rec.Salt, rec.Prime, rec.Generator, rec.Verifier, true
}

func (b *PeerBook) SaveVerifier(identifier string, salt []byte, prime, generator, verifier *big.Int) error {
	return b.peers.Put(store.PeerIdentity{
		Identifier: identifier,
		Salt:       salt,
		Prime:      prime,
		Generator:  generator,
		Verifier:   verifier,
	})
}

// RememberPeer records addr in the ordered known-peers list, so future
// restarts of the bidirectional handler pool dial the same slot order (spec
// §4.6 "handler number i ... dials peers[i-1]").
func (b *PeerBook) RememberPeer(addr string) error {
	return b.known.Append(addr)
}
