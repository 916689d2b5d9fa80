package store

import (
	"fmt"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"
)

var (
	bucketKnownPeers = []byte("known_peers")
	knownPeersKey    = []byte("order")
)

// KnownPeerStore persists the ordered known-peers list spec §6 names
// ("Known-peers list: ordered (ip, port) list"), backed by bbolt like the
// rest of this package.
type KnownPeerStore struct {
	db *bolt.DB
}

func OpenKnownPeerStore(dataDir string) (*KnownPeerStore, error) {
	if dataDir == "" {
		return nil, fmt.Errorf("store: datadir required")
	}
	path := filepath.Join(dataDir, "known_peers.db")
	bdb, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("store: open bbolt: %w", err)
	}
	if err := bdb.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketKnownPeers)
		return err
	}); err != nil {
		_ = bdb.Close()
		return nil, fmt.Errorf("store: create bucket: %w", err)
	}
	return &KnownPeerStore{db: bdb}, nil
}

func (s *KnownPeerStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// List returns the ordered "ip:port" list, newline-joined on disk since order
// (not lookup) is what callers need.
func (s *KnownPeerStore) List() ([]string, error) {
	var peers []string
	err := s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(bucketKnownPeers).Get(knownPeersKey)
		peers = decodePeerList(v)
		return nil
	})
	return peers, err
}

// Append adds addr to the end of the list if it isn't already present (spec
// §4.6's handler-number-indexed dial order requires stable, append-only
// ordering).
func (s *KnownPeerStore) Append(addr string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketKnownPeers)
		peers := decodePeerList(b.Get(knownPeersKey))
		for _, p := range peers {
			if p == addr {
				return nil
			}
		}
		peers = append(peers, addr)
		return b.Put(knownPeersKey, encodePeerList(peers))
	})
}

func encodePeerList(peers []string) []byte {
	out := make([]byte, 0, 64)
	for i, p := range peers {
		if i > 0 {
			out = append(out, '\n')
		}
		out = append(out, p...)
	}
	return out
}

func decodePeerList(v []byte) []string {
	if len(v) == 0 {
		return nil
	}
	var peers []string
	start := 0
	for i := 0; i <= len(v); i++ {
		if i == len(v) || v[i] == '\n' {
			peers = append(peers, string(v[start:i]))
			start = i + 1
		}
	}
	return peers
}
