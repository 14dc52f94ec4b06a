package notification

import (
	"time"

	"github.com/google/uuid"
	"github.com/ideation/backend/internal/domain/notification"
)

// NotificationResponse represents a notification in API responses
type NotificationResponse struct {
	ID        uuid.UUID `json:"id"`
	SenderID  uuid.UUID `json:"sender_id"`
	Type      string    `json:"type"`
	EntityID  uuid.UUID `json:"entity_id"`
	IdeaID    uuid.UUID `json:"idea_id"`
	Message   string    `json:"message"`
	Link      string    `json:"link"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"created_at"`
}

// ToNotificationResponse converts a domain notification
func ToNotificationResponse(n *notification.Notification) NotificationResponse {
	return NotificationResponse{
		ID:        n.ID,
		SenderID:  n.SenderID,
		Type:      string(n.Type),
		EntityID:  n.EntityID,
		IdeaID:    n.IdeaID,
		Message:   n.Message,
		Link:      n.Link(),
		Read:      n.Read,
		CreatedAt: n.CreatedAt,
	}
}

// NotificationListResponse is a page of notifications
type NotificationListResponse struct {
	Items    []NotificationResponse `json:"items"`
	Total    int64                  `json:"total"`
	Page     int                    `json:"page"`
	PageSize int                    `json:"page_size"`
}
