package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	namespace = "stockproxy"

	// OutcomeSuccess labels a fetch that returned a quote
	OutcomeSuccess = "success"
	// OutcomeStatus labels a fetch that got a non-2xx status
	OutcomeStatus = "status"
	// OutcomeNetwork labels a fetch that failed at the transport level
	OutcomeNetwork = "network"
	// OutcomeDecode labels a 2xx fetch with an unparseable body
	OutcomeDecode = "decode"
)

// Metrics holds the collectors for the proxy, registered on their own registry.
type Metrics struct {
	registry *prometheus.Registry

	requestCount    *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	upstreamFetches *prometheus.CounterVec
	codesPerRequest prometheus.Histogram
}

// New creates and registers all collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requestCount: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_count",
			Help:      "Request count",
		}, []string{"method", "status"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Request duration",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "status"}),
		upstreamFetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "upstream",
			Name:      "fetch_count",
			Help:      "Upstream stock fetches by outcome",
		}, []string{"outcome"}),
		codesPerRequest: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "upstream",
			Name:      "codes_per_request",
			Help:      "Number of stock codes fanned out per request",
			Buckets:   []float64{1, 2, 5, 10, 20, 50, 100},
		}),
	}

	m.registry.MustRegister(
		m.requestCount,
		m.requestDuration,
		m.upstreamFetches,
		m.codesPerRequest,
	)

	return m
}

// ObserveRequest records one handled HTTP request.
func (m *Metrics) ObserveRequest(method string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	labels := prometheus.Labels{"method": method, "status": strconv.Itoa(status)}
	m.requestCount.With(labels).Inc()
	m.requestDuration.With(labels).Observe(elapsed.Seconds())
}

// ObserveFetch records the outcome of one upstream fetch.
func (m *Metrics) ObserveFetch(outcome string) {
	if m == nil {
		return
	}
	m.upstreamFetches.WithLabelValues(outcome).Inc()
}

// ObserveFanOut records how many codes a request fanned out to.
func (m *Metrics) ObserveFanOut(n int) {
	if m == nil {
		return
	}
	m.codesPerRequest.Observe(float64(n))
}

// Registry exposes the underlying registry, mainly for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
