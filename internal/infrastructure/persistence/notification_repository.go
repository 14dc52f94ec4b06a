package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/ideation/backend/internal/domain/notification"
	"github.com/ideation/backend/internal/domain/shared"
	"github.com/ideation/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// markSentChunk bounds the IN list of one recap update
const markSentChunk = 500

// GormNotificationRepository implements notification.Repository using GORM
type GormNotificationRepository struct {
	db *gorm.DB
}

// NewGormNotificationRepository creates a new GormNotificationRepository
func NewGormNotificationRepository(db *gorm.DB) *GormNotificationRepository {
	return &GormNotificationRepository{db: db}
}

var _ notification.Repository = (*GormNotificationRepository)(nil)

// Create inserts one notification
func (r *GormNotificationRepository) Create(ctx context.Context, n *notification.Notification) error {
	return r.db.WithContext(ctx).Create(models.NotificationModelFromDomain(n)).Error
}

// FindUnsentSince returns notifications not yet included in a recap and
// created at or after since, oldest first. A malformed row does not fail the
// query; its id comes back in skipped so the caller can retire it.
func (r *GormNotificationRepository) FindUnsentSince(ctx context.Context, since time.Time) ([]notification.Notification, []uuid.UUID, error) {
	var rows []models.NotificationModel
	if err := r.db.WithContext(ctx).
		Where("recap_sent = ? AND created_at >= ?", false, since).
		Order("created_at ASC").
		Find(&rows).Error; err != nil {
		return nil, nil, err
	}

	unsent := make([]notification.Notification, 0, len(rows))
	var skipped []uuid.UUID
	for i := range rows {
		n, err := rows[i].ToDomain()
		if err != nil {
			if !errors.Is(err, shared.ErrMalformedRecord) {
				return nil, nil, err
			}
			if rows[i].ID != uuid.Nil {
				skipped = append(skipped, rows[i].ID)
			}
			continue
		}
		unsent = append(unsent, *n)
	}
	return unsent, skipped, nil
}

// MarkRecapSent sets recap_sent on every id in a single transaction
func (r *GormNotificationRepository) MarkRecapSent(ctx context.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for start := 0; start < len(ids); start += markSentChunk {
			end := start + markSentChunk
			if end > len(ids) {
				end = len(ids)
			}
			if err := tx.Model(&models.NotificationModel{}).
				Where("id IN ?", ids[start:end]).
				Update("recap_sent", true).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// FindByRecipient returns a page of the recipient's notifications, newest first
func (r *GormNotificationRepository) FindByRecipient(ctx context.Context, recipientID uuid.UUID, unreadOnly bool, filter shared.Filter) ([]notification.Notification, error) {
	var rows []models.NotificationModel
	query := r.recipientScope(r.db.WithContext(ctx), recipientID, unreadOnly).
		Order("created_at DESC")
	if filter.PageSize > 0 {
		query = query.Offset(filter.Offset()).Limit(filter.PageSize)
	}
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return notificationsToDomain(rows)
}

// CountByRecipient counts the recipient's notifications
func (r *GormNotificationRepository) CountByRecipient(ctx context.Context, recipientID uuid.UUID, unreadOnly bool) (int64, error) {
	var count int64
	if err := r.recipientScope(r.db.WithContext(ctx), recipientID, unreadOnly).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// MarkRead marks one of the recipient's notifications read. Another user's
// notification is reported as not found.
func (r *GormNotificationRepository) MarkRead(ctx context.Context, recipientID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Model(&models.NotificationModel{}).
		Where("id = ? AND recipient_id = ?", id, recipientID).
		Update("read", true)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// MarkAllRead marks every unread notification of the recipient read
func (r *GormNotificationRepository) MarkAllRead(ctx context.Context, recipientID uuid.UUID) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.NotificationModel{}).
		Where("recipient_id = ? AND read = ?", recipientID, false).
		Update("read", true)
	return result.RowsAffected, result.Error
}

func (r *GormNotificationRepository) recipientScope(db *gorm.DB, recipientID uuid.UUID, unreadOnly bool) *gorm.DB {
	query := db.Model(&models.NotificationModel{}).Where("recipient_id = ?", recipientID)
	if unreadOnly {
		query = query.Where("read = ?", false)
	}
	return query
}

func notificationsToDomain(rows []models.NotificationModel) ([]notification.Notification, error) {
	out := make([]notification.Notification, 0, len(rows))
	for i := range rows {
		n, err := rows[i].ToDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, *n)
	}
	return out, nil
}
