package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the service's Prometheus collectors on a private registry.
// All methods are safe on a nil receiver.
type Metrics struct {
	registry             *prometheus.Registry
	requests             *prometheus.CounterVec
	requestDuration      *prometheus.HistogramVec
	errors               *prometheus.CounterVec
	registrations        prometheus.Counter
	otpIssued            *prometheus.CounterVec
	otpVerified          *prometheus.CounterVec
	notificationFailures *prometheus.CounterVec
}

// NewMetrics registers all collectors.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		requests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "portal_http_requests_total",
			Help: "HTTP requests by route, method and status",
		}, []string{"route", "method", "status"}),
		requestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "portal_http_request_duration_seconds",
			Help:    "HTTP request latency by route",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}, []string{"route", "method"}),
		errors: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "portal_http_errors_total",
			Help: "Error responses by route and error code",
		}, []string{"route", "method", "code"}),
		registrations: factory.NewCounter(prometheus.CounterOpts{
			Name: "portal_registrations_total",
			Help: "Accounts created through registration",
		}),
		otpIssued: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "portal_otp_issued_total",
			Help: "One-time codes issued by purpose",
		}, []string{"purpose"}),
		otpVerified: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "portal_otp_verifications_total",
			Help: "One-time code verification attempts by purpose and outcome",
		}, []string{"purpose", "outcome"}),
		notificationFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "portal_notification_failures_total",
			Help: "Failed outbound notifications by channel",
		}, []string{"channel"}),
	}
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// RecordRequest increments counters for requests.
func (m *Metrics) RecordRequest(route, method string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	m.requestDuration.WithLabelValues(route, method).Observe(duration.Seconds())
}

// RecordError increments error counters.
func (m *Metrics) RecordError(route, method, code string) {
	if m == nil {
		return
	}
	m.errors.WithLabelValues(route, method, code).Inc()
}

// RecordRegistration counts a created account.
func (m *Metrics) RecordRegistration() {
	if m == nil {
		return
	}
	m.registrations.Inc()
}

// RecordOTPIssued counts an issued code.
func (m *Metrics) RecordOTPIssued(purpose string) {
	if m == nil {
		return
	}
	m.otpIssued.WithLabelValues(purpose).Inc()
}

// RecordOTPVerification counts a verification attempt.
func (m *Metrics) RecordOTPVerification(purpose string, success bool) {
	if m == nil {
		return
	}
	outcome := "failure"
	if success {
		outcome = "success"
	}
	m.otpVerified.WithLabelValues(purpose, outcome).Inc()
}

// RecordNotificationFailure counts a failed delivery on channel.
func (m *Metrics) RecordNotificationFailure(channel string) {
	if m == nil {
		return
	}
	m.notificationFailures.WithLabelValues(channel).Inc()
}
