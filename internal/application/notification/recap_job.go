package notification

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/ideation/backend/internal/domain/notification"
	"github.com/ideation/backend/internal/domain/player"
	"github.com/ideation/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// DefaultRecapWindow is how far back the recap looks for unsent notifications
const DefaultRecapWindow = 24 * time.Hour

// RecapReport summarises one recap run
type RecapReport struct {
	RunAt               time.Time `json:"run_at"`
	Recipients          int       `json:"recipients"`
	EmailsSent          int       `json:"emails_sent"`
	EmailsFailed        int       `json:"emails_failed"`
	Skipped             int       `json:"skipped"`
	Malformed           int       `json:"malformed"`
	NotificationsMarked int       `json:"notifications_marked"`
}

// RecapJobConfig configures the recap job
type RecapJobConfig struct {
	// BaseURL prefixes every link in the digest
	BaseURL string
	// Window is the look-back period; zero means DefaultRecapWindow
	Window time.Duration
}

// RecapDigestJob emails every recipient a digest of the notifications they
// received in the last window and marks them sent
type RecapDigestJob struct {
	config     RecapJobConfig
	notifRepo  notification.Repository
	playerRepo player.Repository
	mailer     Mailer
	renderer   DigestRenderer
	metrics    Metrics
	logger     *zap.Logger
}

// NewRecapDigestJob creates a new recap job
func NewRecapDigestJob(
	config RecapJobConfig,
	notifRepo notification.Repository,
	playerRepo player.Repository,
	mailer Mailer,
	renderer DigestRenderer,
	logger *zap.Logger,
) *RecapDigestJob {
	if config.Window <= 0 {
		config.Window = DefaultRecapWindow
	}
	config.BaseURL = strings.TrimRight(config.BaseURL, "/")
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RecapDigestJob{
		config:     config,
		notifRepo:  notifRepo,
		playerRepo: playerRepo,
		mailer:     mailer,
		renderer:   renderer,
		logger:     logger,
	}
}

// WithMetrics sets the metrics sink
func (j *RecapDigestJob) WithMetrics(m Metrics) *RecapDigestJob {
	j.metrics = m
	return j
}

// recipientGroup is one recipient's notifications in chronological order
type recipientGroup struct {
	recipientID   uuid.UUID
	notifications []notification.Notification
}

// Run executes one recap pass. Per-recipient failures are logged and
// counted; only a failure to load or to mark notifications is returned.
func (j *RecapDigestJob) Run(ctx context.Context, now time.Time) (*RecapReport, error) {
	report := &RecapReport{RunAt: now}

	pending, malformed, err := j.notifRepo.FindUnsentSince(ctx, now.Add(-j.config.Window))
	if err != nil {
		return nil, fmt.Errorf("load unsent notifications: %w", err)
	}
	if len(malformed) > 0 {
		report.Malformed = len(malformed)
		j.logger.Warn("Skipping malformed notifications in recap",
			zap.Int("count", len(malformed)),
			zap.Stringers("notification_ids", malformed))
	}
	if len(pending) == 0 && len(malformed) == 0 {
		j.logger.Info("Recap found no unsent notifications")
		return report, nil
	}

	groups := groupByRecipient(pending)
	report.Recipients = len(groups)

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		process = append([]uuid.UUID(nil), malformed...)
	)
	for _, g := range groups {
		p, ok := j.resolveRecipient(ctx, g)
		process = append(process, notificationIDs(g.notifications)...)
		if !ok {
			report.Skipped++
			continue
		}

		data := j.digestData(p, g, now)
		wg.Add(1)
		go func(to string, data DigestData) {
			defer wg.Done()
			err := j.send(ctx, to, data)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				report.EmailsFailed++
				j.logger.Error("Recap email failed",
					zap.String("recipient_id", data.RecipientID.String()),
					zap.Int("notifications", len(data.Items)),
					zap.Error(err))
				return
			}
			report.EmailsSent++
			j.logger.Info("Recap email sent",
				zap.String("recipient_id", data.RecipientID.String()),
				zap.Int("notifications", len(data.Items)))
		}(p.Email, data)
	}
	wg.Wait()

	if err := j.notifRepo.MarkRecapSent(ctx, process); err != nil {
		return report, fmt.Errorf("mark recap sent: %w", err)
	}
	report.NotificationsMarked = len(process)

	j.logger.Info("Recap run completed",
		zap.Int("recipients", report.Recipients),
		zap.Int("emails_sent", report.EmailsSent),
		zap.Int("emails_failed", report.EmailsFailed),
		zap.Int("skipped", report.Skipped),
		zap.Int("malformed", report.Malformed),
		zap.Int("notifications_marked", report.NotificationsMarked))
	if j.metrics != nil {
		j.metrics.RecordRecap(ctx, *report)
	}
	return report, nil
}

// resolveRecipient loads the player and their settings. ok is false when the
// recipient should be skipped.
func (j *RecapDigestJob) resolveRecipient(ctx context.Context, g recipientGroup) (*player.Player, bool) {
	p, err := j.playerRepo.FindByID(ctx, g.recipientID)
	if err != nil || p == nil || strings.TrimSpace(p.Email) == "" {
		j.logger.Warn("Recap recipient has no player or email, skipping",
			zap.String("recipient_id", g.recipientID.String()),
			zap.Int("notifications", len(g.notifications)),
			zap.Error(err))
		return nil, false
	}

	details := player.DefaultDetails(g.recipientID)
	d, err := j.playerRepo.FindDetails(ctx, g.recipientID)
	switch {
	case err == nil && d != nil:
		details = *d
	case err != nil && !errors.Is(err, shared.ErrNotFound):
		j.logger.Warn("Failed to load recap preferences, using defaults",
			zap.String("recipient_id", g.recipientID.String()),
			zap.Error(err))
	}

	if !details.ReceiveRecapEmails {
		j.logger.Info("Recipient opted out of recap emails, skipping",
			zap.String("recipient_id", g.recipientID.String()),
			zap.Int("notifications", len(g.notifications)))
		return nil, false
	}
	return p, true
}

func (j *RecapDigestJob) digestData(p *player.Player, g recipientGroup, now time.Time) DigestData {
	items := make([]DigestItem, len(g.notifications))
	for i := range g.notifications {
		n := &g.notifications[i]
		items[i] = DigestItem{
			Message:   n.Message,
			Link:      j.config.BaseURL + n.Link(),
			CreatedAt: n.CreatedAt,
		}
	}
	return DigestData{
		RecipientID:   g.recipientID,
		RecipientName: p.NameOrDefault(),
		Items:         items,
		GeneratedAt:   now,
	}
}

func (j *RecapDigestJob) send(ctx context.Context, to string, data DigestData) error {
	subject, html, err := j.renderer.Render(data)
	if err != nil {
		return fmt.Errorf("render digest: %w", err)
	}
	return j.mailer.Send(ctx, EmailMessage{To: to, Subject: subject, HTML: html})
}

// groupByRecipient keeps first-seen recipient order and the input order
// within each group
func groupByRecipient(ns []notification.Notification) []recipientGroup {
	index := make(map[uuid.UUID]int)
	var groups []recipientGroup
	for _, n := range ns {
		i, ok := index[n.RecipientID]
		if !ok {
			i = len(groups)
			index[n.RecipientID] = i
			groups = append(groups, recipientGroup{recipientID: n.RecipientID})
		}
		groups[i].notifications = append(groups[i].notifications, n)
	}
	return groups
}

func notificationIDs(ns []notification.Notification) []uuid.UUID {
	ids := make([]uuid.UUID, len(ns))
	for i := range ns {
		ids[i] = ns[i].ID
	}
	return ids
}
