package notify

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestVerificationEmailIncludesWorkerIDAndCode(t *testing.T) {
	msg := VerificationEmail("Asha <b>", "asha@x.com", "TN-BR-25-123456", "482913", 10*time.Minute)

	assert.Equal(t, "asha@x.com", msg.ToEmail)
	assert.Contains(t, msg.Text, "TN-BR-25-123456")
	assert.Contains(t, msg.Text, "482913")
	assert.Contains(t, msg.Text, "10 minutes")
	assert.Contains(t, msg.HTML, "Asha &lt;b&gt;")
}

func TestMaskPhone(t *testing.T) {
	assert.Equal(t, "*********3210", MaskPhone("+919876543210"))
	assert.Equal(t, "123", MaskPhone("123"))
}

func TestLogChannelsNeverLeakCodes(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	logger := zap.New(core)

	require.NoError(t, NewLogMailer(logger).SendEmail(context.Background(), VerificationEmail("A", "a@x.com", "W1", "123456", time.Minute)))
	require.NoError(t, NewLogSMSSender(logger).SendSMS(context.Background(), "+919876543210", IdentityCodeSMS("654321", time.Minute)))

	require.Equal(t, 2, logs.Len())
	for _, entry := range logs.All() {
		for _, field := range entry.Context {
			assert.NotContains(t, field.String, "123456")
			assert.NotContains(t, field.String, "654321")
		}
	}
}

func TestTwilioSenderHonoursCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := NewTwilioSender("AC123", "token", "+15550000000").SendSMS(ctx, "+919876543210", "hi")
	assert.ErrorIs(t, err, context.Canceled)
}
