package notification

import (
	"context"

	"github.com/google/uuid"
	"github.com/ideation/backend/internal/domain/notification"
	"github.com/ideation/backend/internal/domain/shared"
)

// Service is the notification inbox of a player
type Service struct {
	repo notification.Repository
}

// NewService creates a new notification Service
func NewService(repo notification.Repository) *Service {
	return &Service{repo: repo}
}

// List returns a page of the recipient's notifications, newest first
func (s *Service) List(ctx context.Context, recipientID uuid.UUID, unreadOnly bool, filter shared.Filter) (*NotificationListResponse, error) {
	ns, err := s.repo.FindByRecipient(ctx, recipientID, unreadOnly, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.repo.CountByRecipient(ctx, recipientID, unreadOnly)
	if err != nil {
		return nil, err
	}
	items := make([]NotificationResponse, len(ns))
	for i := range ns {
		items[i] = ToNotificationResponse(&ns[i])
	}
	return &NotificationListResponse{
		Items:    items,
		Total:    total,
		Page:     filter.Page,
		PageSize: filter.PageSize,
	}, nil
}

// UnreadCount returns how many notifications the recipient has not read
func (s *Service) UnreadCount(ctx context.Context, recipientID uuid.UUID) (int64, error) {
	return s.repo.CountByRecipient(ctx, recipientID, true)
}

// MarkRead marks one notification read
func (s *Service) MarkRead(ctx context.Context, recipientID, id uuid.UUID) error {
	return s.repo.MarkRead(ctx, recipientID, id)
}

// MarkAllRead marks every notification of the recipient read
func (s *Service) MarkAllRead(ctx context.Context, recipientID uuid.UUID) (int64, error) {
	return s.repo.MarkAllRead(ctx, recipientID)
}
