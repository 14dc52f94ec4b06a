package models

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
	"github.com/ideation/backend/internal/domain/notification"
)

// NotificationModel is the persistence model for a mention notification
type NotificationModel struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key"`
	RecipientID uuid.UUID `gorm:"type:uuid;not null;index:idx_notifications_recipient"`
	SenderID    uuid.UUID `gorm:"type:uuid"`
	Type        string    `gorm:"type:varchar(30);not null"`
	EntityID    uuid.UUID `gorm:"type:uuid;not null"`
	IdeaID      uuid.UUID `gorm:"type:uuid"`
	Message     string    `gorm:"type:text;not null"`
	Read        bool      `gorm:"not null;default:false"`
	RecapSent   bool      `gorm:"not null;default:false;index:idx_notifications_recap,priority:1"`
	CreatedAt   time.Time `gorm:"not null;index:idx_notifications_recap,priority:2"`
}

// TableName returns the table name for GORM
func (NotificationModel) TableName() string {
	return "notifications"
}

// ToDomain converts the persistence model to a domain Notification
func (m *NotificationModel) ToDomain() (*notification.Notification, error) {
	err := validation.Errors{
		"id":           validation.Validate(m.ID, requiredUUID),
		"recipient_id": validation.Validate(m.RecipientID, requiredUUID),
		"entity_id":    validation.Validate(m.EntityID, requiredUUID),
		"type": validation.Validate(m.Type, validation.Required,
			validation.In(string(notification.TypeIdeaMention), string(notification.TypeCommentMention))),
		"created_at": validation.Validate(m.CreatedAt, validation.Required),
	}.Filter()
	if err := malformed("notifications", m.ID, err); err != nil {
		return nil, err
	}

	ideaID := m.IdeaID
	if ideaID == uuid.Nil && notification.Type(m.Type) == notification.TypeIdeaMention {
		ideaID = m.EntityID
	}
	return &notification.Notification{
		ID:          m.ID,
		RecipientID: m.RecipientID,
		SenderID:    m.SenderID,
		Type:        notification.Type(m.Type),
		EntityID:    m.EntityID,
		IdeaID:      ideaID,
		Message:     m.Message,
		Read:        m.Read,
		RecapSent:   m.RecapSent,
		CreatedAt:   m.CreatedAt,
	}, nil
}

// NotificationModelFromDomain creates a new persistence model from a domain Notification
func NotificationModelFromDomain(n *notification.Notification) *NotificationModel {
	return &NotificationModel{
		ID:          n.ID,
		RecipientID: n.RecipientID,
		SenderID:    n.SenderID,
		Type:        string(n.Type),
		EntityID:    n.EntityID,
		IdeaID:      n.IdeaID,
		Message:     n.Message,
		Read:        n.Read,
		RecapSent:   n.RecapSent,
		CreatedAt:   n.CreatedAt,
	}
}
