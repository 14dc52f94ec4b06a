// Package mail delivers outgoing email over SMTP and renders the recap
// digest and account emails.
package mail

import (
	"bytes"
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"mime"
	"net"
	"net/mail"
	"net/smtp"
	"strconv"
	"strings"
	"time"

	"github.com/ideation/backend/internal/application/notification"
	"github.com/ideation/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// ErrNoRecipient is returned when a message has no To address
var ErrNoRecipient = errors.New("mail: recipient is required")

const defaultSMTPTimeout = 10 * time.Second

var _ notification.Mailer = (*SMTPMailer)(nil)

// SMTPMailer sends HTML email through an SMTP relay, upgrading to TLS when
// the server offers STARTTLS.
type SMTPMailer struct {
	host     string
	addr     string
	username string
	password string
	from     mail.Address
	timeout  time.Duration
	logger   *zap.Logger
}

// NewSMTPMailer creates a new SMTPMailer
func NewSMTPMailer(cfg config.MailConfig, logger *zap.Logger) (*SMTPMailer, error) {
	if cfg.Host == "" {
		return nil, errors.New("mail host is required")
	}
	if cfg.FromAddress == "" {
		return nil, errors.New("mail from address is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	port := cfg.Port
	if port == 0 {
		port = 587
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultSMTPTimeout
	}
	return &SMTPMailer{
		host:     cfg.Host,
		addr:     net.JoinHostPort(cfg.Host, strconv.Itoa(port)),
		username: cfg.Username,
		password: cfg.Password,
		from:     mail.Address{Name: cfg.FromName, Address: cfg.FromAddress},
		timeout:  timeout,
		logger:   logger,
	}, nil
}

// Send delivers one message. The context bounds the whole SMTP exchange.
func (m *SMTPMailer) Send(ctx context.Context, msg notification.EmailMessage) error {
	if strings.TrimSpace(msg.To) == "" {
		return ErrNoRecipient
	}
	body := BuildMessage(m.from, msg, time.Now())

	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	dialer := &net.Dialer{}
	conn, err := dialer.DialContext(ctx, "tcp", m.addr)
	if err != nil {
		return fmt.Errorf("smtp dial: %w", err)
	}
	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}

	client, err := smtp.NewClient(conn, m.host)
	if err != nil {
		_ = conn.Close()
		return fmt.Errorf("smtp handshake: %w", err)
	}
	defer client.Close()

	if ok, _ := client.Extension("STARTTLS"); ok {
		if err := client.StartTLS(&tls.Config{ServerName: m.host, MinVersion: tls.VersionTLS12}); err != nil {
			return fmt.Errorf("smtp starttls: %w", err)
		}
	}
	if m.username != "" {
		if err := client.Auth(smtp.PlainAuth("", m.username, m.password, m.host)); err != nil {
			return fmt.Errorf("smtp auth: %w", err)
		}
	}
	if err := client.Mail(m.from.Address); err != nil {
		return fmt.Errorf("smtp mail from: %w", err)
	}
	if err := client.Rcpt(msg.To); err != nil {
		return fmt.Errorf("smtp rcpt: %w", err)
	}
	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("smtp data: %w", err)
	}
	if _, err := w.Write(body); err != nil {
		_ = w.Close()
		return fmt.Errorf("smtp write: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("smtp data close: %w", err)
	}
	if err := client.Quit(); err != nil {
		m.logger.Debug("SMTP quit failed", zap.Error(err))
	}

	m.logger.Debug("Email sent", zap.String("subject", msg.Subject))
	return nil
}

// BuildMessage renders an RFC 5322 message with an HTML body
func BuildMessage(from mail.Address, msg notification.EmailMessage, date time.Time) []byte {
	var b bytes.Buffer
	b.WriteString("From: " + from.String() + "\r\n")
	b.WriteString("To: " + msg.To + "\r\n")
	b.WriteString("Subject: " + mime.QEncoding.Encode("utf-8", msg.Subject) + "\r\n")
	b.WriteString("Date: " + date.Format(time.RFC1123Z) + "\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	b.WriteString("Content-Transfer-Encoding: 8bit\r\n")
	b.WriteString("\r\n")
	b.WriteString(strings.ReplaceAll(msg.HTML, "\n", "\r\n"))
	return b.Bytes()
}
