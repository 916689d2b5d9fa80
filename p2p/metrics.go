package p2p

import (
	"context"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics gauges/counters, grounded on the pack's p2pool-go
// internal/metrics package: a package-level registered set under a single
// namespace, scraped via promhttp on the metrics HTTP listener below.
var (
	// PeersConnected is split by role ("bidirectional"/"inbound") so a
	// scrape distinguishes dial-out capacity from listen-only capacity,
	// mirroring FleetConfig's own MaxBidirectional/MaxInbound split.
	PeersConnected = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "ghostnode",
		Name:      "peers_connected",
		Help:      "Number of authenticated, deduplicated Ghost peers, by role.",
	}, []string{"role"})

	HandshakesSucceeded = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "ghostnode",
		Name:      "handshakes_succeeded_total",
		Help:      "Total successful SRP-6a handshakes.",
	})

	HandshakesFailed = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "ghostnode",
		Name:      "handshakes_failed_total",
		Help:      "Total failed or rejected SRP-6a handshakes.",
	})

	DuplicateConnectionsDropped = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "ghostnode",
		Name:      "duplicate_connections_dropped_total",
		Help:      "Inbound connections dropped because the peer was already registered.",
	})

	GossipMessagesSent = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "ghostnode",
		Name:      "gossip_messages_sent_total",
		Help:      "Total per-peer sends performed by gossip fan-out.",
	})

	HandlerRestarts = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "ghostnode",
		Name:      "handler_restarts_total",
		Help:      "Handler respawns by fleet role.",
	}, []string{"role"})

	// PingRTTSeconds observes one sample per PANG received (spec §3 "ping
	// RTT"), across every handler in the fleet.
	PingRTTSeconds = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "ghostnode",
		Name:      "ping_rtt_seconds",
		Help:      "Round-trip time between a sent PING and its PANG reply.",
		Buckets:   prometheus.DefBuckets,
	})
)

func init() {
	prometheus.MustRegister(
		PeersConnected,
		HandshakesSucceeded,
		HandshakesFailed,
		DuplicateConnectionsDropped,
		GossipMessagesSent,
		HandlerRestarts,
		PingRTTSeconds,
	)
}

// DefaultMetricsPort is the fixed port the Prometheus /metrics endpoint
// listens on — the health-check listener's HTTP sibling. Fixed rather than
// configurable, like DefaultHealthPort, since the spec's configuration table
// (§6) never names a metrics port key.
const DefaultMetricsPort = 31015

// ServeMetrics runs an HTTP server exposing /metrics via promhttp until stop
// is closed, then shuts down gracefully.
func ServeMetrics(addr string, stop <-chan struct{}) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: addr, Handler: mux}

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()

	select {
	case err := <-errc:
		return err
	case <-stop:
		return srv.Shutdown(context.Background())
	}
}
