// Package mailer delivers sign-up verification codes.
package mailer

import (
	"context"

	"github.com/dmitrijs2005/mysterymessage/internal/logging"
	"github.com/dmitrijs2005/mysterymessage/internal/server/config"
)

type Mailer interface {
	SendVerificationCode(ctx context.Context, email, username, code string) error
}

// New returns a SendGrid mailer when an API key is configured and a LogMailer
// otherwise.
func New(cfg *config.Config, logger logging.Logger) Mailer {
	if cfg.SendGridAPIKey == "" {
		return NewLogMailer(logger)
	}
	return NewSendGridMailer(cfg.SendGridAPIKey, cfg.MailFrom, "Mystery Message")
}

// LogMailer writes the code to the log instead of sending mail. Development only.
type LogMailer struct {
	logger logging.Logger
}

func NewLogMailer(logger logging.Logger) *LogMailer {
	return &LogMailer{logger: logger.With("module", "mailer")}
}

func (m *LogMailer) SendVerificationCode(ctx context.Context, email, username, code string) error {
	m.logger.Info(ctx, "verification code", "email", email, "username", username, "code", code)
	return nil
}
