package notify

import (
	"fmt"
	"html"
	"time"
)

// VerificationEmail renders the one-time code message sent after
// registration and on resend.
func VerificationEmail(name, email, workerID, code string, validFor time.Duration) Email {
	minutes := int(validFor.Minutes())
	text := fmt.Sprintf(
		"Hello %s,\n\nYour worker ID is %s.\nYour verification code is %s. It expires in %d minutes.\n",
		name, workerID, code, minutes)
	body := fmt.Sprintf(
		"<p>Hello %s,</p><p>Your worker ID is <strong>%s</strong>.</p>"+
			"<p>Your verification code is <strong>%s</strong>. It expires in %d minutes.</p>",
		html.EscapeString(name), html.EscapeString(workerID), code, minutes)
	return Email{
		ToName:  name,
		ToEmail: email,
		Subject: "Verify your email address",
		Text:    text,
		HTML:    body,
	}
}

// IdentityCodeSMS renders the national-ID verification text.
func IdentityCodeSMS(code string, validFor time.Duration) string {
	return fmt.Sprintf("Your identity verification code is %s. It expires in %d minutes.", code, int(validFor.Minutes()))
}

// StatusEmail renders a short lifecycle notification.
func StatusEmail(name, email, subject, line string) Email {
	return Email{
		ToName:  name,
		ToEmail: email,
		Subject: subject,
		Text:    fmt.Sprintf("Hello %s,\n\n%s\n", name, line),
		HTML:    fmt.Sprintf("<p>Hello %s,</p><p>%s</p>", html.EscapeString(name), html.EscapeString(line)),
	}
}
