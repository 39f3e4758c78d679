package service

import (
	"context"

	"ai-governance/internal/config"
	"ai-governance/internal/logger"

	"go.uber.org/zap"
)

// Mailer delivers account e-mails.
type Mailer interface {
	SendPasswordReset(ctx context.Context, email, token string) error
}

// LogMailer stands in for an SMTP integration by logging the message.
type LogMailer struct {
	from string
}

func NewLogMailer(mailCfg config.MailConfig) *LogMailer {
	return &LogMailer{from: mailCfg.From}
}

func (m *LogMailer) SendPasswordReset(ctx context.Context, email, token string) error {
	logger.Get().Info("Password reset e-mail",
		zap.String("from", m.from),
		zap.String("to", email),
		zap.String("token", token))
	return nil
}
