// Package player holds the public player profile and per-player settings.
package player

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ideation/backend/internal/domain/shared"
)

// DefaultDisplayName is used wherever a player's name cannot be resolved
const DefaultDisplayName = "Unknown User"

// Aggregate and event type constants
const (
	AggregateTypePlayer    = "Player"
	EventTypePlayerUpdated = "PlayerUpdated"
)

// Field limits
const (
	MaxDisplayNameLength = 80
	MaxTeamLength        = 80
)

// Player is the public profile of a user. Its ID equals the account ID.
type Player struct {
	ID          uuid.UUID
	DisplayName string
	Email       string
	PictureRef  string
	Team        string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Details holds player settings kept on a separate record
type Details struct {
	UserID             uuid.UUID
	IsAdmin            bool
	ReceiveRecapEmails bool
	UpdatedAt          time.Time
}

// Profile joins a player with its details
type Profile struct {
	Player
	Details Details
}

// NewPlayer creates a player profile
func NewPlayer(id uuid.UUID, displayName, email string) (*Player, error) {
	if id == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PLAYER", "Player ID cannot be empty")
	}
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, shared.NewDomainError("INVALID_EMAIL", "Email cannot be empty")
	}
	p := &Player{
		ID:        id,
		Email:     email,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	if err := p.Rename(displayName); err != nil {
		return nil, err
	}
	return p, nil
}

// DefaultDetails returns the settings a new player starts with: not an
// admin and opted in to recap emails.
func DefaultDetails(userID uuid.UUID) Details {
	return Details{
		UserID:             userID,
		ReceiveRecapEmails: true,
		UpdatedAt:          time.Now(),
	}
}

// Rename sets the display name, falling back to the email's local part
func (p *Player) Rename(displayName string) error {
	displayName = strings.TrimSpace(displayName)
	if len([]rune(displayName)) > MaxDisplayNameLength {
		return shared.NewDomainError("INVALID_DISPLAY_NAME", "Display name cannot exceed 80 characters")
	}
	if displayName == "" {
		displayName, _, _ = strings.Cut(p.Email, "@")
	}
	p.DisplayName = displayName
	p.UpdatedAt = time.Now()
	return nil
}

// SetTeam updates the team label
func (p *Player) SetTeam(team string) error {
	team = strings.TrimSpace(team)
	if len([]rune(team)) > MaxTeamLength {
		return shared.NewDomainError("INVALID_TEAM", "Team cannot exceed 80 characters")
	}
	p.Team = team
	p.UpdatedAt = time.Now()
	return nil
}

// NameOrDefault returns the display name, or DefaultDisplayName when p is
// nil or has no name.
func (p *Player) NameOrDefault() string {
	if p == nil || strings.TrimSpace(p.DisplayName) == "" {
		return DefaultDisplayName
	}
	return p.DisplayName
}

// UpdatedEvent is raised when a profile changes
type UpdatedEvent struct {
	shared.BaseDomainEvent
	PlayerID uuid.UUID `json:"player_id"`
}

// NewUpdatedEvent creates a new UpdatedEvent
func NewUpdatedEvent(id uuid.UUID) *UpdatedEvent {
	return &UpdatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePlayerUpdated, AggregateTypePlayer, id),
		PlayerID:        id,
	}
}

// EventType returns the event type name
func (e *UpdatedEvent) EventType() string {
	return EventTypePlayerUpdated
}

// Repository defines the interface for player persistence
type Repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Player, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]Player, error)
	ListAll(ctx context.Context) ([]Player, error)
	Save(ctx context.Context, p *Player) error

	// FindDetails returns the details record, or shared.ErrNotFound
	FindDetails(ctx context.Context, userID uuid.UUID) (*Details, error)
	SaveDetails(ctx context.Context, d *Details) error
}
