package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Collector holds the Prometheus metrics of the service. A nil *Collector
// is valid and records nothing.
type Collector struct {
	requests             *prometheus.CounterVec
	requestDuration      prometheus.Histogram
	validationFailures   *prometheus.CounterVec
	conflictRetries      *prometheus.CounterVec
	onboardingsCompleted prometheus.Counter
}

// New creates the collector and registers it on reg.
func New(reg prometheus.Registerer) *Collector {
	c := &Collector{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "hrcore_http_requests_total",
			Help: "HTTP requests by status class.",
		}, []string{"status"}),
		requestDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "hrcore_http_request_duration_seconds",
			Help:    "HTTP request latency.",
			Buckets: prometheus.DefBuckets,
		}),
		validationFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "hrcore_validation_failures_total",
			Help: "Rejected sub-record writes by entity and field.",
		}, []string{"entity", "field"}),
		conflictRetries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "hrcore_conflict_retries_total",
			Help: "Optimistic-version conflicts retried by entity.",
		}, []string{"entity"}),
		onboardingsCompleted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "hrcore_onboardings_completed_total",
			Help: "Employees moved to active by onboarding completion.",
		}),
	}
	reg.MustRegister(c.requests, c.requestDuration, c.validationFailures, c.conflictRetries, c.onboardingsCompleted)
	return c
}

func (c *Collector) Record(status int, duration time.Duration) {
	if c == nil {
		return
	}
	c.requests.WithLabelValues(strconv.Itoa(status/100) + "xx").Inc()
	c.requestDuration.Observe(duration.Seconds())
}

func (c *Collector) ValidationFailed(entity, field string) {
	if c == nil {
		return
	}
	c.validationFailures.WithLabelValues(entity, field).Inc()
}

func (c *Collector) ConflictRetried(entity string) {
	if c == nil {
		return
	}
	c.conflictRetries.WithLabelValues(entity).Inc()
}

func (c *Collector) OnboardingCompleted() {
	if c == nil {
		return
	}
	c.onboardingsCompleted.Inc()
}
