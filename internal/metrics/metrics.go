package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "shiftbook"

var (
	once sync.Once

	apiRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "api_requests_total",
			Help:      "Count of remote shift API calls by operation and outcome.",
		},
		[]string{"operation", "outcome"},
	)

	apiLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "api_request_duration_seconds",
			Help:      "Latency of remote shift API calls.",
			Buckets:   []float64{.01, .05, .1, .25, .5, 1, 2, 5, 10},
		},
		[]string{"operation"},
	)

	cacheLookups = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_lookups_total",
			Help:      "Count of shift cache lookups by result.",
		},
		[]string{"result"},
	)

	storeMutations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "store_mutations_total",
			Help:      "Count of book/cancel commands by kind and result.",
		},
		[]string{"kind", "result"},
	)

	mutationsInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "store_mutations_in_flight",
			Help:      "Book/cancel requests currently awaiting the server.",
		},
	)

	storeFetches = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "store_fetches_total",
			Help:      "Count of shift list fetches by result.",
		},
		[]string{"result"},
	)

	gatewayRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "gateway_requests_total",
			Help:      "Count of gateway HTTP requests by route and status code.",
		},
		[]string{"route", "code"},
	)
)

// Register registers metrics (idempotent).
func Register() {
	once.Do(func() {
		prometheus.MustRegister(
			apiRequests,
			apiLatency,
			cacheLookups,
			storeMutations,
			mutationsInFlight,
			storeFetches,
			gatewayRequests,
		)
	})
}

func ObserveAPIRequest(operation, outcome string, d time.Duration) {
	apiRequests.WithLabelValues(operation, outcome).Inc()
	apiLatency.WithLabelValues(operation).Observe(d.Seconds())
}

func IncCacheLookup(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	cacheLookups.WithLabelValues(result).Inc()
}

// IncMutation records a finished or rejected book/cancel. result is one of
// ok, failed or rejected.
func IncMutation(kind, result string) {
	storeMutations.WithLabelValues(kind, result).Inc()
}

func MutationStarted() {
	mutationsInFlight.Inc()
}

func MutationFinished() {
	mutationsInFlight.Dec()
}

func IncFetch(result string) {
	storeFetches.WithLabelValues(result).Inc()
}

func IncGatewayRequest(route, code string) {
	gatewayRequests.WithLabelValues(route, code).Inc()
}
