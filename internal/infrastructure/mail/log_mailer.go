package mail

import (
	"context"
	"sync"

	"github.com/ideation/backend/internal/application/notification"
	"go.uber.org/zap"
)

var _ notification.Mailer = (*LogMailer)(nil)

// LogMailer logs messages instead of sending them. Used when no SMTP host is
// configured outside production.
type LogMailer struct {
	logger *zap.Logger

	mu   sync.Mutex
	sent []notification.EmailMessage
}

// NewLogMailer creates a new LogMailer
func NewLogMailer(logger *zap.Logger) *LogMailer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogMailer{logger: logger}
}

// Send records and logs the message
func (m *LogMailer) Send(ctx context.Context, msg notification.EmailMessage) error {
	if msg.To == "" {
		return ErrNoRecipient
	}
	m.mu.Lock()
	m.sent = append(m.sent, msg)
	m.mu.Unlock()

	m.logger.Info("Email not sent, no SMTP host configured",
		zap.String("to", msg.To),
		zap.String("subject", msg.Subject),
		zap.Int("html_bytes", len(msg.HTML)))
	return nil
}

// Sent returns a copy of every message recorded so far
func (m *LogMailer) Sent() []notification.EmailMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]notification.EmailMessage(nil), m.sent...)
}
