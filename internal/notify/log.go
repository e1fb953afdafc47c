package notify

import (
	"context"

	"go.uber.org/zap"
)

// LogMailer records emails in the log instead of sending them. Used when no
// provider credentials are configured.
type LogMailer struct {
	logger *zap.Logger
}

// NewLogMailer builds a log-only mailer.
func NewLogMailer(logger *zap.Logger) *LogMailer {
	return &LogMailer{logger: logger}
}

func (m *LogMailer) SendEmail(_ context.Context, msg Email) error {
	m.logger.Info("email delivery skipped; no provider configured",
		zap.String("to", msg.ToEmail),
		zap.String("subject", msg.Subject))
	return nil
}

// LogSMSSender records SMS in the log instead of sending them.
type LogSMSSender struct {
	logger *zap.Logger
}

// NewLogSMSSender builds a log-only SMS sender.
func NewLogSMSSender(logger *zap.Logger) *LogSMSSender {
	return &LogSMSSender{logger: logger}
}

func (s *LogSMSSender) SendSMS(_ context.Context, to string, _ string) error {
	s.logger.Info("sms delivery skipped; no provider configured", zap.String("to", MaskPhone(to)))
	return nil
}

// MaskPhone hides all but the last four digits of a phone number.
func MaskPhone(phone string) string {
	if len(phone) <= 4 {
		return phone
	}
	masked := make([]byte, len(phone))
	for i := range phone {
		if i < len(phone)-4 {
			masked[i] = '*'
		} else {
			masked[i] = phone[i]
		}
	}
	return string(masked)
}
