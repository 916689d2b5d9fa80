package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"go.uber.org/zap"

	"ghostnode.dev/node/node"
)

type multiStringFlag []string

func (m *multiStringFlag) String() string {
	if m == nil {
		return ""
	}
	return strings.Join(*m, ",")
}

func (m *multiStringFlag) Set(value string) error {
	*m = append(*m, value)
	return nil
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	defaults := node.DefaultConfig()
	var seedPeers multiStringFlag

	cfg := defaults
	fs := flag.NewFlagSet("ghostnode", flag.ContinueOnError)
	fs.SetOutput(stderr)

	seedPeerCSV := fs.String("seed-peers", "", "fallback bootstrap peers, comma-separated host:port")
	fs.Var(&seedPeers, "seed-peer", "single bootstrap peer host:port (repeatable)")
	fs.IntVar(&cfg.Port, "port", defaults.Port, "Ghost protocol listen port")
	fs.IntVar(&cfg.MaxBidirectionalConnections, "max-bidirectional", defaults.MaxBidirectionalConnections, "dial-or-listen handler slots")
	fs.IntVar(&cfg.MaxInboundConnections, "max-inbound", defaults.MaxInboundConnections, "total handler pool size")
	fs.StringVar(&cfg.DataPath, "data-path", defaults.DataPath, "root directory for persistent stores")
	fs.StringVar(&cfg.Identifier, "identifier", "", "this node's SRP identifier")
	fs.StringVar(&cfg.Password, "password", "", "this node's SRP password")
	fs.StringVar(&cfg.LogLevel, "log-level", defaults.LogLevel, "log level: debug|info|warn|error")
	fs.Uint64Var(&cfg.BlockAtFullEmission, "block-at-full-emission", defaults.BlockAtFullEmission, "last block index eligible for a subsidy")
	fs.Uint64Var(&cfg.TotalTokenSupply, "total-token-supply", defaults.TotalTokenSupply, "terminal token supply")
	fs.Int64Var(&cfg.TargetSolvetime, "target-solvetime", defaults.TargetSolvetime, "target seconds per block")
	dryRun := fs.Bool("dry-run", false, "validate configuration and exit")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	cfg.LogLevel = strings.ToLower(strings.TrimSpace(cfg.LogLevel))
	cfg.SeedPeers = node.NormalizeSeedPeers(append([]string{*seedPeerCSV}, seedPeers...)...)
	if err := node.ValidateConfig(cfg); err != nil {
		_, _ = fmt.Fprintf(stderr, "invalid config: %v\n", err)
		return 2
	}
	if err := os.MkdirAll(cfg.DataPath, 0o750); err != nil {
		_, _ = fmt.Fprintf(stderr, "data path create failed: %v\n", err)
		return 2
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "logger init failed: %v\n", err)
		return 2
	}
	defer logger.Sync()

	_, _ = fmt.Fprintf(stdout, "ghostnode: port=%d max_bidirectional=%d max_inbound=%d data_path=%s seed_peers=%v\n",
		cfg.Port, cfg.MaxBidirectionalConnections, cfg.MaxInboundConnections, cfg.DataPath, cfg.SeedPeers)
	if *dryRun {
		return 0
	}

	n, err := node.New(cfg, logger)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "node init failed: %v\n", err)
		return 2
	}
	if err := n.Start(); err != nil {
		_, _ = fmt.Fprintf(stderr, "node start failed: %v\n", err)
		return 2
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	_, _ = fmt.Fprintln(stdout, "ghostnode running")
	<-ctx.Done()
	_, _ = fmt.Fprintln(stdout, "ghostnode stopping")
	if err := n.Stop(); err != nil {
		_, _ = fmt.Fprintf(stderr, "node stop failed: %v\n", err)
		return 1
	}
	return 0
}

func newLogger(level string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	var lvl zap.AtomicLevel
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, err
	}
	cfg.Level = lvl
	return cfg.Build()
}
