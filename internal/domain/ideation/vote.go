package ideation

import (
	"time"

	"github.com/google/uuid"
	"github.com/ideation/backend/internal/domain/shared"
)

// VoteValue is a player's stance on an idea or solution
type VoteValue string

const (
	VoteAgree    VoteValue = "agree"
	VoteDisagree VoteValue = "disagree"
)

// IsValid checks if the value is a valid VoteValue
func (v VoteValue) IsValid() bool {
	return v == VoteAgree || v == VoteDisagree
}

// Vote is keyed by (target, user); the last write wins
type Vote struct {
	TargetID  uuid.UUID
	UserID    uuid.UUID
	Value     VoteValue
	UpdatedAt time.Time
}

// NewVote validates and creates a vote
func NewVote(targetID, userID uuid.UUID, value VoteValue) (*Vote, error) {
	if targetID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_TARGET", "Vote target cannot be empty")
	}
	if userID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_USER", "Voter cannot be empty")
	}
	if !value.IsValid() {
		return nil, shared.NewDomainError("INVALID_INPUT", "Vote must be agree or disagree")
	}
	return &Vote{
		TargetID:  targetID,
		UserID:    userID,
		Value:     value,
		UpdatedAt: time.Now(),
	}, nil
}

// VoteTally summarises votes on one target
type VoteTally struct {
	TargetID uuid.UUID `json:"target_id"`
	Agree    int64     `json:"agree"`
	Disagree int64     `json:"disagree"`
}
