package notify

import (
	"context"
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"go.uber.org/zap"
)

// SendGridMailer sends email through the SendGrid v3 API.
type SendGridMailer struct {
	client   *sendgrid.Client
	fromName string
	from     string
	logger   *zap.Logger
}

// NewSendGridMailer builds a mailer for a verified sender address.
func NewSendGridMailer(apiKey, fromName, fromEmail string, logger *zap.Logger) *SendGridMailer {
	return &SendGridMailer{
		client:   sendgrid.NewSendClient(apiKey),
		fromName: fromName,
		from:     fromEmail,
		logger:   logger,
	}
}

func (m *SendGridMailer) SendEmail(ctx context.Context, msg Email) error {
	from := mail.NewEmail(m.fromName, m.from)
	to := mail.NewEmail(msg.ToName, msg.ToEmail)
	message := mail.NewSingleEmail(from, msg.Subject, to, msg.Text, msg.HTML)

	response, err := m.client.SendWithContext(ctx, message)
	if err != nil {
		return fmt.Errorf("sendgrid send: %w", err)
	}
	if response.StatusCode >= 400 {
		m.logger.Warn("sendgrid rejected message",
			zap.Int("status", response.StatusCode),
			zap.String("body", response.Body))
		return fmt.Errorf("%w: sendgrid status %d", ErrDeliveryFailed, response.StatusCode)
	}
	m.logger.Debug("email sent", zap.String("subject", msg.Subject), zap.Int("status", response.StatusCode))
	return nil
}
