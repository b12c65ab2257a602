package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Outcome label values.
const (
	OutcomeConnected      = "connected"
	OutcomeRejected       = "rejected"
	OutcomeFailed         = "failed"
	OutcomeNotInstalled   = "not_installed"
	OutcomeNotImplemented = "not_implemented"
	OutcomeUnknown        = "unknown"
	OutcomeSwitched       = "switched"
	OutcomeAdded          = "added"
	OutcomeAddFailed      = "add_failed"
	OutcomeUnsupported    = "unsupported"
	OutcomeSelectedOnly   = "selected_only"
	OutcomeCacheHit       = "cache_hit"
	OutcomeFetched        = "fetched"
)

var (
	WalletConnectAttempts = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wallet_connect_attempts_total",
			Help: "Wallet connection attempts by wallet and outcome.",
		},
		[]string{"wallet", "outcome"},
	)

	NetworkSwitches = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "network_switch_total",
			Help: "Network selections by network and provider outcome.",
		},
		[]string{"network", "outcome"},
	)

	ProviderEvents = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wallet_provider_events_total",
			Help: "Account and chain notifications received from wallet providers.",
		},
		[]string{"connector", "type"},
	)

	BalanceLookups = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "balance_lookups_total",
			Help: "Native balance lookups by network and outcome.",
		},
		[]string{"network", "outcome"},
	)

	PriceRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "dexscreener_request_duration_seconds",
			Help:    "Latency of DEX Screener token requests.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"chain"},
	)

	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Latency of API requests by route and status.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)

	ViewSubscribers = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "view_stream_subscribers",
			Help: "Open page event streams.",
		},
	)
)

var registerOnce sync.Once

// MustRegisterMetrics registers all collectors with the default registry. Safe to call more than once.
func MustRegisterMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			WalletConnectAttempts,
			NetworkSwitches,
			ProviderEvents,
			BalanceLookups,
			PriceRequestDuration,
			HTTPRequestDuration,
			ViewSubscribers,
		)
	})
}
