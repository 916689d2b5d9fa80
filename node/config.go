// Package node wires the consensus validator, Ghost connection-handler
// fleet, and bbolt-backed stores together into a running ghostnode process.
// Grounded on the teacher's node package: a flat, JSON-tagged Config struct
// plus a DefaultConfig()/ValidateConfig() pair, populated from flags in
// cmd/ghostnode.
package node

import (
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strings"

	"ghostnode.dev/node/consensus"
)

// Config covers every key spec §6 "Configuration keys" names, read once at
// startup — no hot reload.
type Config struct {
	Port                        int      `json:"port"`
	MaxBidirectionalConnections int      `json:"max_bidirectional_connections"`
	MaxInboundConnections       int      `json:"max_inbound_connections"`
	SeedPeers                   []string `json:"seed_peers"`

	BlockSizeLimit      int    `json:"block_size_limit"`
	FutureTimeLimit     int64  `json:"future_time_limit"`
	TargetSolvetime     int64  `json:"target_solvetime"`
	RetargetingWindow   uint64 `json:"retargeting_window"`
	DiffRebalanceOffset int64  `json:"diff_rebalance_offset"`
	BlockAtFullEmission uint64 `json:"block_at_full_emission"`
	TotalTokenSupply    uint64 `json:"total_token_supply"`

	AddressVersion       uint8  `json:"address_version"`
	GhostProtocolVersion uint32 `json:"ghost_protocol_version"`

	DataPath string `json:"data_path"`

	Identifier string `json:"identifier"`
	Password   string `json:"-"`

	LogLevel string `json:"log_level"`
}

var allowedLogLevels = map[string]struct{}{
	"debug": {},
	"info":  {},
	"warn":  {},
	"error": {},
}

func DefaultDataPath() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return ".ghostnode"
	}
	return filepath.Join(home, ".ghostnode")
}

func DefaultConfig() Config {
	p := consensus.DefaultParams()
	return Config{
		Port:                        31013,
		MaxBidirectionalConnections: 10,
		MaxInboundConnections:       90,
		SeedPeers:                   nil,

		BlockSizeLimit:      p.BlockSizeLimit,
		FutureTimeLimit:     p.FutureTimeLimit,
		TargetSolvetime:     p.TargetSolvetime,
		RetargetingWindow:   p.RetargetingWindow,
		DiffRebalanceOffset: p.DiffRebalanceOffset,
		BlockAtFullEmission: p.BlockAtFullEmission,
		TotalTokenSupply:    p.TotalTokenSupply,

		AddressVersion:       0,
		GhostProtocolVersion: 1,

		DataPath: DefaultDataPath(),
		LogLevel: "info",
	}
}

// Params projects the subset of Config the validator cares about into a
// consensus.Params value.
func (c Config) Params() consensus.Params {
	return consensus.Params{
		BlockSizeLimit:      c.BlockSizeLimit,
		FutureTimeLimit:     c.FutureTimeLimit,
		TargetSolvetime:     c.TargetSolvetime,
		RetargetingWindow:   c.RetargetingWindow,
		DiffRebalanceOffset: c.DiffRebalanceOffset,
		BlockAtFullEmission: c.BlockAtFullEmission,
		TotalTokenSupply:    c.TotalTokenSupply,
	}
}

// NormalizeSeedPeers dedupes and flattens comma-separated tokens the way the
// teacher's NormalizePeers does for its bootstrap peer flag.
func NormalizeSeedPeers(raw ...string) []string {
	out := make([]string, 0, len(raw))
	seen := make(map[string]struct{}, len(raw))
	for _, token := range raw {
		for _, p := range strings.Split(token, ",") {
			p = strings.TrimSpace(p)
			if p == "" {
				continue
			}
			if _, ok := seen[p]; ok {
				continue
			}
			seen[p] = struct{}{}
			out = append(out, p)
		}
	}
	return out
}

func ValidateConfig(cfg Config) error {
	if cfg.Port <= 0 || cfg.Port > 65535 {
		return fmt.Errorf("port must be in 1..65535, got %d", cfg.Port)
	}
	if cfg.MaxBidirectionalConnections < 0 {
		return errors.New("max_bidirectional_connections must be >= 0")
	}
	if cfg.MaxInboundConnections <= 0 {
		return errors.New("max_inbound_connections must be > 0")
	}
	if cfg.MaxBidirectionalConnections > cfg.MaxInboundConnections {
		return errors.New("max_bidirectional_connections must be <= max_inbound_connections")
	}
	for _, peer := range cfg.SeedPeers {
		if err := validatePeerAddr(peer); err != nil {
			return fmt.Errorf("invalid seed peer %q: %w", peer, err)
		}
	}
	if cfg.BlockSizeLimit <= 0 {
		return errors.New("block_size_limit must be > 0")
	}
	if cfg.TargetSolvetime <= 0 {
		return errors.New("target_solvetime must be > 0")
	}
	if cfg.TotalTokenSupply == 0 {
		return errors.New("total_token_supply must be > 0")
	}
	if strings.TrimSpace(cfg.DataPath) == "" {
		return errors.New("data_path is required")
	}
	if strings.TrimSpace(cfg.Identifier) == "" {
		return errors.New("identifier is required")
	}
	logLevel := strings.ToLower(strings.TrimSpace(cfg.LogLevel))
	if _, ok := allowedLogLevels[logLevel]; !ok {
		return fmt.Errorf("invalid log_level %q", cfg.LogLevel)
	}
	return nil
}

func validatePeerAddr(addr string) error {
	if strings.TrimSpace(addr) == "" {
		return errors.New("empty address")
	}
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return err
	}
	if strings.TrimSpace(host) == "" || strings.TrimSpace(port) == "" {
		return errors.New("missing host or port")
	}
	return nil
}
