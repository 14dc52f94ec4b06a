// Package changefeed listens for row changes announced by the database
// triggers through PostgreSQL LISTEN/NOTIFY.
package changefeed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// ErrInvalidChannel is returned for channel names that are not plain identifiers
var ErrInvalidChannel = errors.New("changefeed: invalid channel name")

var channelPattern = regexp.MustCompile(`^[a-z_][a-z0-9_]{0,62}$`)

const defaultReconnectDelay = 5 * time.Second

// Change is the payload the notify trigger sends
type Change struct {
	Table string `json:"table"`
	Op    string `json:"op"`
	ID    string `json:"id,omitempty"`
}

// Handler receives decoded changes. Errors are logged.
type Handler func(ctx context.Context, change Change) error

// Listener holds one dedicated connection that LISTENs on a channel and
// reconnects after connection loss.
type Listener struct {
	dsn            string
	channel        string
	handler        Handler
	logger         *zap.Logger
	reconnectDelay time.Duration
}

// Option configures a Listener
type Option func(*Listener)

// WithReconnectDelay sets the pause between reconnect attempts
func WithReconnectDelay(d time.Duration) Option {
	return func(l *Listener) {
		if d > 0 {
			l.reconnectDelay = d
		}
	}
}

// WithLogger sets the logger
func WithLogger(logger *zap.Logger) Option {
	return func(l *Listener) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// NewListener creates a Listener for channel
func NewListener(dsn, channel string, handler Handler, opts ...Option) (*Listener, error) {
	if !channelPattern.MatchString(channel) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidChannel, channel)
	}
	if handler == nil {
		return nil, errors.New("changefeed: handler is required")
	}
	l := &Listener{
		dsn:            dsn,
		channel:        channel,
		handler:        handler,
		logger:         zap.NewNop(),
		reconnectDelay: defaultReconnectDelay,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l, nil
}

// Run listens until ctx is cancelled
func (l *Listener) Run(ctx context.Context) error {
	for {
		err := l.listen(ctx)
		if ctx.Err() != nil {
			return nil
		}
		l.logger.Warn("Change feed connection lost, reconnecting",
			zap.String("channel", l.channel),
			zap.Duration("delay", l.reconnectDelay),
			zap.Error(err))

		select {
		case <-ctx.Done():
			return nil
		case <-time.After(l.reconnectDelay):
		}
	}
}

func (l *Listener) listen(ctx context.Context) error {
	conn, err := pgx.Connect(ctx, l.dsn)
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = conn.Close(closeCtx)
	}()

	if _, err := conn.Exec(ctx, "LISTEN "+pgx.Identifier{l.channel}.Sanitize()); err != nil {
		return fmt.Errorf("listen: %w", err)
	}
	l.logger.Info("Change feed listening", zap.String("channel", l.channel))

	for {
		n, err := conn.WaitForNotification(ctx)
		if err != nil {
			return err
		}
		l.dispatch(ctx, n.Payload)
	}
}

func (l *Listener) dispatch(ctx context.Context, payload string) {
	change, err := ParseChange(payload)
	if err != nil {
		l.logger.Warn("Ignoring malformed change notification", zap.String("payload", payload), zap.Error(err))
		return
	}
	if err := l.handler(ctx, change); err != nil {
		l.logger.Warn("Change handler failed",
			zap.String("table", change.Table),
			zap.String("op", change.Op),
			zap.Error(err))
	}
}

// ParseChange decodes a trigger payload
func ParseChange(payload string) (Change, error) {
	var c Change
	if err := json.Unmarshal([]byte(payload), &c); err != nil {
		return Change{}, fmt.Errorf("decode change: %w", err)
	}
	if c.Table == "" {
		return Change{}, errors.New("change without table")
	}
	return c, nil
}
