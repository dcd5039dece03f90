package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "storefront"

// CheckoutMetrics records submission outcomes and workflow transitions.
type CheckoutMetrics struct {
	submissions *prometheus.CounterVec
	duration    *prometheus.HistogramVec
	transitions *prometheus.CounterVec
	cache       *prometheus.CounterVec
}

// NewCheckoutMetrics registers the checkout metrics on the provided registerer.
// A nil registerer yields a no-op recorder.
func NewCheckoutMetrics(reg prometheus.Registerer) *CheckoutMetrics {
	if reg == nil {
		return &CheckoutMetrics{}
	}
	submissions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "checkout_submissions_total",
		Help:      "Checkout submissions by outcome.",
	}, []string{"outcome"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "checkout_submission_duration_seconds",
		Help:      "Duration of checkout submissions in seconds.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"outcome"})
	transitions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "checkout_state_transitions_total",
		Help:      "Submission workflow state transitions.",
	}, []string{"state"})
	cache := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "shipping_settings_cache_total",
		Help:      "Shipping settings cache lookups by result.",
	}, []string{"result"})
	reg.MustRegister(submissions, duration, transitions, cache)
	return &CheckoutMetrics{
		submissions: submissions,
		duration:    duration,
		transitions: transitions,
		cache:       cache,
	}
}

// ObserveSubmission records one finished submission.
func (c *CheckoutMetrics) ObserveSubmission(outcome string, elapsed time.Duration) {
	if c == nil || c.submissions == nil {
		return
	}
	outcome = normalizeLabel(outcome)
	c.submissions.WithLabelValues(outcome).Inc()
	c.duration.WithLabelValues(outcome).Observe(elapsed.Seconds())
}

// IncTransition counts a workflow entering state.
func (c *CheckoutMetrics) IncTransition(state string) {
	if c == nil || c.transitions == nil {
		return
	}
	c.transitions.WithLabelValues(normalizeLabel(state)).Inc()
}

// IncCache counts a shipping settings cache hit or miss.
func (c *CheckoutMetrics) IncCache(hit bool) {
	if c == nil || c.cache == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	c.cache.WithLabelValues(result).Inc()
}

// HTTPMetrics records request latency by method and status.
type HTTPMetrics struct {
	requests *prometheus.HistogramVec
}

func NewHTTPMetrics(reg prometheus.Registerer) *HTTPMetrics {
	if reg == nil {
		return &HTTPMetrics{}
	}
	requests := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "status"})
	reg.MustRegister(requests)
	return &HTTPMetrics{requests: requests}
}

// ObserveRequest records one served request.
func (h *HTTPMetrics) ObserveRequest(method string, status int, elapsed time.Duration) {
	if h == nil || h.requests == nil {
		return
	}
	h.requests.WithLabelValues(normalizeLabel(method), strconv.Itoa(status)).Observe(elapsed.Seconds())
}

func normalizeLabel(v string) string {
	if v == "" {
		return "unknown"
	}
	return v
}
