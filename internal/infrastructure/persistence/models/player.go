package models

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
	"github.com/ideation/backend/internal/domain/player"
)

// PlayerModel is the persistence model for the public player profile
type PlayerModel struct {
	BaseModel
	DisplayName string `gorm:"type:varchar(80);not null"`
	Email       string `gorm:"type:varchar(200);not null;index"`
	PictureRef  string `gorm:"type:varchar(500)"`
	Team        string `gorm:"type:varchar(80)"`
}

// TableName returns the table name for GORM
func (PlayerModel) TableName() string {
	return "players"
}

// ToDomain converts the persistence model to a domain Player
func (m *PlayerModel) ToDomain() (*player.Player, error) {
	err := validation.Errors{
		"id": validation.Validate(m.ID, requiredUUID),
	}.Filter()
	if err := malformed("players", m.ID, err); err != nil {
		return nil, err
	}
	return &player.Player{
		ID:          m.ID,
		DisplayName: m.DisplayName,
		Email:       m.Email,
		PictureRef:  m.PictureRef,
		Team:        m.Team,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}, nil
}

// PlayerModelFromDomain creates a new persistence model from a domain Player
func PlayerModelFromDomain(p *player.Player) *PlayerModel {
	return &PlayerModel{
		BaseModel: BaseModel{
			ID:        p.ID,
			CreatedAt: p.CreatedAt,
			UpdatedAt: p.UpdatedAt,
		},
		DisplayName: p.DisplayName,
		Email:       p.Email,
		PictureRef:  p.PictureRef,
		Team:        p.Team,
	}
}

// PlayerDetailsModel holds per-player settings, one row per user
type PlayerDetailsModel struct {
	UserID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	IsAdmin            bool      `gorm:"not null;default:false"`
	ReceiveRecapEmails bool      `gorm:"not null"`
	UpdatedAt          time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (PlayerDetailsModel) TableName() string {
	return "player_details"
}

// ToDomain converts the persistence model to domain Details
func (m *PlayerDetailsModel) ToDomain() (*player.Details, error) {
	err := validation.Errors{
		"user_id": validation.Validate(m.UserID, requiredUUID),
	}.Filter()
	if err := malformed("player_details", m.UserID, err); err != nil {
		return nil, err
	}
	return &player.Details{
		UserID:             m.UserID,
		IsAdmin:            m.IsAdmin,
		ReceiveRecapEmails: m.ReceiveRecapEmails,
		UpdatedAt:          m.UpdatedAt,
	}, nil
}

// PlayerDetailsModelFromDomain creates a new persistence model from domain Details
func PlayerDetailsModelFromDomain(d *player.Details) *PlayerDetailsModel {
	return &PlayerDetailsModel{
		UserID:             d.UserID,
		IsAdmin:            d.IsAdmin,
		ReceiveRecapEmails: d.ReceiveRecapEmails,
		UpdatedAt:          d.UpdatedAt,
	}
}
