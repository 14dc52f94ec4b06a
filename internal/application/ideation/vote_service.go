package ideation

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/ideation/backend/internal/domain/ideation"
	"github.com/ideation/backend/internal/domain/shared"
)

// VoteService handles agree/disagree votes on ideas and solutions
type VoteService struct {
	voteRepo ideation.VoteRepository
}

// NewVoteService creates a new VoteService
func NewVoteService(voteRepo ideation.VoteRepository) *VoteService {
	return &VoteService{voteRepo: voteRepo}
}

// Cast records userID's vote on targetID, replacing any earlier vote
func (s *VoteService) Cast(ctx context.Context, userID, targetID uuid.UUID, req CastVoteRequest) (*VoteResponse, error) {
	vote, err := ideation.NewVote(targetID, userID, ideation.VoteValue(req.Value))
	if err != nil {
		return nil, err
	}
	if err := s.voteRepo.Upsert(ctx, vote); err != nil {
		return nil, err
	}
	return s.Get(ctx, userID, targetID)
}

// Retract removes userID's vote on targetID
func (s *VoteService) Retract(ctx context.Context, userID, targetID uuid.UUID) (*VoteResponse, error) {
	if err := s.voteRepo.Delete(ctx, targetID, userID); err != nil {
		return nil, err
	}
	return s.Get(ctx, userID, targetID)
}

// Get returns the tally on targetID and userID's own vote
func (s *VoteService) Get(ctx context.Context, userID, targetID uuid.UUID) (*VoteResponse, error) {
	tally, err := s.voteRepo.Tally(ctx, targetID)
	if err != nil {
		return nil, err
	}
	resp := &VoteResponse{
		TargetID: targetID,
		Agree:    tally.Agree,
		Disagree: tally.Disagree,
	}

	mine, err := s.voteRepo.FindOne(ctx, targetID, userID)
	switch {
	case err == nil:
		resp.Mine = string(mine.Value)
	case !errors.Is(err, shared.ErrNotFound):
		return nil, err
	}
	return resp, nil
}
