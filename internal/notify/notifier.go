// Package notify delivers outbound email and SMS.
package notify

import (
	"context"
	"errors"
)

// ErrDeliveryFailed wraps provider-side rejections.
var ErrDeliveryFailed = errors.New("notify: delivery failed")

// Email is a single outbound message.
type Email struct {
	ToName  string
	ToEmail string
	Subject string
	Text    string
	HTML    string
}

// Mailer sends transactional email.
type Mailer interface {
	SendEmail(ctx context.Context, msg Email) error
}

// SMSSender sends text messages to E.164 numbers.
type SMSSender interface {
	SendSMS(ctx context.Context, to, body string) error
}
