package store

import (
	"fmt"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"

	"ghostnode.dev/node/consensus"
)

var (
	bucketUTXOPool = []byte("utxo_pool")
	bucketTip      = []byte("chain_tip")
)

var tipKey = []byte("tip")

// ChainStateStore is a reference implementation of the externally-owned
// ledger the validator's pool_check predicate and last_block argument come
// from (spec §3 "owned by the external peer store" analog for chain state;
// spec §4.3 entry point "validate_block(block, difficulty, last_block,
// pool_check)"). Mirrors the teacher's chainstate.json in shape — tip height
// and hash, an unspent-output set — but backed by bbolt like the rest of
// this package's persistence instead of a single JSON file.
type ChainStateStore struct {
	db *bolt.DB
}

func OpenChainStateStore(dataDir string) (*ChainStateStore, error) {
	if dataDir == "" {
		return nil, fmt.Errorf("store: datadir required")
	}
	path := filepath.Join(dataDir, "chainstate.db")
	bdb, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("store: open bbolt: %w", err)
	}
	if err := bdb.Update(func(tx *bolt.Tx) error {
		for _, b := range [][]byte{bucketUTXOPool, bucketTip} {
			if _, err := tx.CreateBucketIfNotExists(b); err != nil {
				return err
			}
		}
		return nil
	}); err != nil {
		_ = bdb.Close()
		return nil, fmt.Errorf("store: create buckets: %w", err)
	}
	return &ChainStateStore{db: bdb}, nil
}

func (s *ChainStateStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Tip returns the persisted chain tip, or ok=false before genesis.
func (s *ChainStateStore) Tip() (consensus.LastBlock, bool, error) {
	var out consensus.LastBlock
	var ok bool
	err := s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(bucketTip).Get(tipKey)
		if v == nil {
			return nil
		}
		if len(v) < 8 {
			return fmt.Errorf("store: tip: truncated")
		}
		out.Index = beUint64(v[:8])
		out.Hash = string(v[8:])
		ok = true
		return nil
	})
	return out, ok, err
}

func (s *ChainStateStore) SetTip(tip consensus.LastBlock) error {
	buf := make([]byte, 8+len(tip.Hash))
	putBEUint64(buf[:8], tip.Index)
	copy(buf[8:], tip.Hash)
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketTip).Put(tipKey, buf)
	})
}

// ApplyBlock advances the UTXO pool: every input is removed, every output is
// added, and the tip is updated — all in one bbolt transaction so a crash
// mid-apply can't leave the pool and tip out of sync.
func (s *ChainStateStore) ApplyBlock(block consensus.Block) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		pool := tx.Bucket(bucketUTXOPool)
		for _, t := range block.Transactions {
			for _, in := range t.Inputs {
				if err := pool.Delete([]byte(in.TxOID)); err != nil {
					return err
				}
			}
			for _, out := range t.Outputs {
				if err := pool.Put([]byte(out.TxOID), []byte{1}); err != nil {
					return err
				}
			}
		}
		buf := make([]byte, 8+len(block.Hash))
		putBEUint64(buf[:8], block.Index)
		copy(buf[8:], block.Hash)
		return tx.Bucket(bucketTip).Put(tipKey, buf)
	})
}

// PoolCheck reports whether a UTXO is currently a member of the unspent set
// (spec §4.3.1 point 2). Its signature matches consensus.PoolCheck exactly
// so it can be passed straight into ValidateBlock.
func (s *ChainStateStore) PoolCheck(input consensus.UTXO) bool {
	var present bool
	_ = s.db.View(func(tx *bolt.Tx) error {
		present = tx.Bucket(bucketUTXOPool).Get([]byte(input.TxOID)) != nil
		return nil
	})
	return present
}

func putBEUint64(dst []byte, v uint64) {
	for i := 0; i < 8; i++ {
		dst[7-i] = byte(v)
		v >>= 8
	}
}

func beUint64(b []byte) uint64 {
	var v uint64
	for i := 0; i < 8; i++ {
		v = v<<8 | uint64(b[i])
	}
	return v
}
