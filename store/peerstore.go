// Package store holds the bbolt-backed persistence this node owns directly:
// peer SRP identities and the chain tip pointer the validator consults.
// Structured the way the teacher's store package lays out bbolt databases —
// one bucket per concern, opened once at startup, fixed-layout binary
// encoding for each record (grounded on its db.go/utxo_encoding.go).
package store

import (
	"encoding/binary"
	"fmt"
	"math/big"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"
)

var bucketPeerIdentities = []byte("peer_identities")

// PeerIdentity is the SRP-6a material persisted per peer (spec §3: "Peer
// identity (owned by the external peer store) — (identifier, salt, prime,
// generator, verifier)"). Prime and Generator are carried per-record rather
// than assumed global, so a future peer on a different group doesn't require
// a schema change.
type PeerIdentity struct {
	Identifier string
	Salt       []byte
	Prime      *big.Int
	Generator  *big.Int
	Verifier   *big.Int
}

// PeerStore is the bbolt-backed peer identity table.
type PeerStore struct {
	db *bolt.DB
}

// OpenPeerStore opens (creating if necessary) the peer identity database at
// dataDir/peers.db.
func OpenPeerStore(dataDir string) (*PeerStore, error) {
	if dataDir == "" {
		return nil, fmt.Errorf("store: datadir required")
	}
	path := filepath.Join(dataDir, "peers.db")
	bdb, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("store: open bbolt: %w", err)
	}
	if err := bdb.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketPeerIdentities)
		return err
	}); err != nil {
		_ = bdb.Close()
		return nil, fmt.Errorf("store: create bucket: %w", err)
	}
	return &PeerStore{db: bdb}, nil
}

func (s *PeerStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Put persists or overwrites a peer's SRP identity (spec §4.5 point 1:
// "persist (identifier, salt, prime, generator, verifier)").
func (s *PeerStore) Put(rec PeerIdentity) error {
	val, err := encodePeerIdentity(rec)
	if err != nil {
		return err
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketPeerIdentities).Put([]byte(rec.Identifier), val)
	})
}

// Get loads a previously registered peer's SRP identity (spec §4.5 point 2:
// "load persisted peer record").
func (s *PeerStore) Get(identifier string) (PeerIdentity, bool, error) {
	var out PeerIdentity
	var found bool
	err := s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(bucketPeerIdentities).Get([]byte(identifier))
		if v == nil {
			return nil
		}
		rec, err := decodePeerIdentity(v)
		if err != nil {
			return err
		}
		out = rec
		found = true
		return nil
	})
	if err != nil {
		return PeerIdentity{}, false, err
	}
	return out, found, nil
}

// Layout: id_len u16le | id | salt_len u16le | salt |
//         prime_len u16le | prime | gen_len u16le | gen | verifier_len u16le | verifier
func encodePeerIdentity(rec PeerIdentity) ([]byte, error) {
	if rec.Identifier == "" {
		return nil, fmt.Errorf("store: peer identity: empty identifier")
	}
	if rec.Prime == nil || rec.Generator == nil || rec.Verifier == nil {
		return nil, fmt.Errorf("store: peer identity: nil SRP material")
	}

	fields := [][]byte{
		[]byte(rec.Identifier),
		rec.Salt,
		rec.Prime.Bytes(),
		rec.Generator.Bytes(),
		rec.Verifier.Bytes(),
	}
	size := 0
	for _, f := range fields {
		size += 2 + len(f)
	}
	out := make([]byte, 0, size)
	for _, f := range fields {
		if len(f) > 0xffff {
			return nil, fmt.Errorf("store: peer identity: field too large")
		}
		var lenBuf [2]byte
		binary.LittleEndian.PutUint16(lenBuf[:], uint16(len(f)))
		out = append(out, lenBuf[:]...)
		out = append(out, f...)
	}
	return out, nil
}

func decodePeerIdentity(b []byte) (PeerIdentity, error) {
	read := func() ([]byte, error) {
		if len(b) < 2 {
			return nil, fmt.Errorf("store: peer identity: truncated length")
		}
		n := int(binary.LittleEndian.Uint16(b[:2]))
		b = b[2:]
		if len(b) < n {
			return nil, fmt.Errorf("store: peer identity: truncated field")
		}
		field := b[:n]
		b = b[n:]
		return field, nil
	}

	id, err := read()
	if err != nil {
		return PeerIdentity{}, err
	}
	salt, err := read()
	if err != nil {
		return PeerIdentity{}, err
	}
	prime, err := read()
	if err != nil {
		return PeerIdentity{}, err
	}
	gen, err := read()
	if err != nil {
		return PeerIdentity{}, err
	}
	verifier, err := read()
	if err != nil {
		return PeerIdentity{}, err
	}

	return PeerIdentity{
		Identifier: string(id),
		Salt:       append([]byte(nil), salt...),
		Prime:      new(big.Int).SetBytes(prime),
		Generator:  new(big.Int).SetBytes(gen),
		Verifier:   new(big.Int).SetBytes(verifier),
	}, nil
}
