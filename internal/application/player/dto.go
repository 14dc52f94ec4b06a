package player

import (
	"time"

	"github.com/google/uuid"
	"github.com/ideation/backend/internal/domain/player"
)

// UpdateMeRequest represents a request to edit the caller's own profile.
// Nil fields are left unchanged.
type UpdateMeRequest struct {
	DisplayName        *string `json:"display_name" binding:"omitempty,max=80"`
	Team               *string `json:"team" binding:"omitempty,max=80"`
	PictureRef         *string `json:"picture_ref" binding:"omitempty,max=500"`
	ReceiveRecapEmails *bool   `json:"receive_recap_emails"`
}

// PictureUploadRequest asks for a profile picture upload URL
type PictureUploadRequest struct {
	ContentType string `json:"content_type" binding:"required"`
}

// ProfileResponse represents a player in API responses
type ProfileResponse struct {
	ID                 uuid.UUID `json:"id"`
	DisplayName        string    `json:"display_name"`
	Email              string    `json:"email,omitempty"`
	Team               string    `json:"team"`
	PictureRef         string    `json:"picture_ref,omitempty"`
	IsAdmin            bool      `json:"is_admin"`
	ReceiveRecapEmails *bool     `json:"receive_recap_emails,omitempty"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// SummaryResponse is the short form used by the tag picker
type SummaryResponse struct {
	ID          uuid.UUID `json:"id"`
	DisplayName string    `json:"display_name"`
	Team        string    `json:"team"`
	PictureRef  string    `json:"picture_ref,omitempty"`
}

// toProfileResponse converts a profile. Email and settings are only shown
// to the owner.
func toProfileResponse(p *player.Profile, own bool) ProfileResponse {
	resp := ProfileResponse{
		ID:          p.ID,
		DisplayName: p.NameOrDefault(),
		Team:        p.Team,
		PictureRef:  p.PictureRef,
		IsAdmin:     p.Details.IsAdmin,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
	if own {
		recap := p.Details.ReceiveRecapEmails
		resp.Email = p.Email
		resp.ReceiveRecapEmails = &recap
	}
	return resp
}

func toSummaryResponse(p *player.Player) SummaryResponse {
	return SummaryResponse{
		ID:          p.ID,
		DisplayName: p.NameOrDefault(),
		Team:        p.Team,
		PictureRef:  p.PictureRef,
	}
}
