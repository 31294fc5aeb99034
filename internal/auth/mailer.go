package auth

import (
	"context"

	"portfolio-backend/internal/shared/telemetry"
)

// Mailer delivers account emails.
type Mailer interface {
	SendVerification(ctx context.Context, to, name, link string) error
}

// LogMailer writes verification links to the log instead of sending email.
type LogMailer struct{}

func (LogMailer) SendVerification(_ context.Context, to, name, link string) error {
	telemetry.Info("auth.verification_email", map[string]any{
		"to":   to,
		"name": name,
		"link": link,
	})
	return nil
}
