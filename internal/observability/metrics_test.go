package observability

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetricsCounters(t *testing.T) {
	m := NewMetrics()

	m.RecordRequest("/auth/register", "POST", 201, 10*time.Millisecond)
	m.RecordRequest("/auth/register", "POST", 201, 12*time.Millisecond)
	m.RecordError("/auth/login", "POST", "EMAIL_NOT_VERIFIED")
	m.RecordRegistration()
	m.RecordOTPIssued("email")
	m.RecordOTPVerification("email", false)
	m.RecordOTPVerification("email", true)
	m.RecordNotificationFailure("email")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.requests.WithLabelValues("/auth/register", "POST", "201")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.errors.WithLabelValues("/auth/login", "POST", "EMAIL_NOT_VERIFIED")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.registrations))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.otpVerified.WithLabelValues("email", "failure")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.notificationFailures.WithLabelValues("email")))
}

func TestMetricsNilReceiver(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.RecordRequest("/", "GET", 200, time.Millisecond)
		m.RecordError("/", "GET", "X")
		m.RecordRegistration()
		m.RecordOTPIssued("email")
		m.RecordOTPVerification("email", true)
		m.RecordNotificationFailure("sms")
	})
}

func TestInstancesDoNotShareRegistry(t *testing.T) {
	assert.NotPanics(t, func() {
		NewMetrics()
		NewMetrics()
	})
}
