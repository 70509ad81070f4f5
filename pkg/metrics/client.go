package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// ClientMetrics records what the storefront engine does against the REST API.
type ClientMetrics struct {
	requestDuration *prometheus.HistogramVec
	mirrorFailures  *prometheus.CounterVec
	merges          *prometheus.CounterVec
}

// NewClientMetrics registers the client metrics on the provided registerer.
// A nil registerer yields a no-op recorder.
func NewClientMetrics(reg prometheus.Registerer) *ClientMetrics {
	if reg == nil {
		return &ClientMetrics{}
	}
	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "api_request_duration_seconds",
		Help:    "Duration of storefront REST API calls in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"endpoint", "status"})
	mirrorFailures := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cart_mirror_failures_total",
		Help: "Cart mutations whose server mirror failed and was swallowed.",
	}, []string{"op"})
	merges := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cart_merge_total",
		Help: "Guest cart merges by outcome.",
	}, []string{"outcome"})
	reg.MustRegister(requestDuration, mirrorFailures, merges)
	return &ClientMetrics{
		requestDuration: requestDuration,
		mirrorFailures:  mirrorFailures,
		merges:          merges,
	}
}

// ObserveRequest records one API call. status 0 means the request never got a response.
func (c *ClientMetrics) ObserveRequest(endpoint string, status int, duration time.Duration) {
	if c == nil || c.requestDuration == nil {
		return
	}
	c.requestDuration.WithLabelValues(normalizeLabel(endpoint), statusLabel(status)).Observe(duration.Seconds())
}

// IncMirrorFailure counts a swallowed cart mirror failure.
func (c *ClientMetrics) IncMirrorFailure(op string) {
	if c == nil || c.mirrorFailures == nil {
		return
	}
	c.mirrorFailures.WithLabelValues(normalizeLabel(op)).Inc()
}

// IncMerge counts a guest cart merge outcome (ok, partial, aborted).
func (c *ClientMetrics) IncMerge(outcome string) {
	if c == nil || c.merges == nil {
		return
	}
	c.merges.WithLabelValues(normalizeLabel(outcome)).Inc()
}

func statusLabel(status int) string {
	if status <= 0 {
		return "error"
	}
	return strconv.Itoa(status)
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
