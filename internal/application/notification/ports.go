package notification

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// EmailMessage is one outgoing email
type EmailMessage struct {
	To      string
	Subject string
	HTML    string
}

// Mailer delivers email
type Mailer interface {
	Send(ctx context.Context, msg EmailMessage) error
}

// DigestItem is one line of a recap email
type DigestItem struct {
	Message   string
	Link      string
	CreatedAt time.Time
}

// DigestData is everything a recap email shows
type DigestData struct {
	RecipientID   uuid.UUID
	RecipientName string
	Items         []DigestItem
	GeneratedAt   time.Time
}

// DigestRenderer turns digest data into an email subject and HTML body
type DigestRenderer interface {
	Render(data DigestData) (subject string, html string, err error)
}

// Metrics receives counts from the fan-out handler and the recap job. A nil
// Metrics is valid.
type Metrics interface {
	RecordMentions(ctx context.Context, kind string, created, failed int)
	RecordRecap(ctx context.Context, report RecapReport)
}
