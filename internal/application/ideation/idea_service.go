// Package ideation implements the use cases around ideas: submission and
// editing, comments, evaluations and votes.
package ideation

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/ideation/backend/internal/domain/ideation"
	"github.com/ideation/backend/internal/domain/player"
	"github.com/ideation/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// IdeaService handles idea-related business operations
type IdeaService struct {
	ideaRepo   ideation.IdeaRepository
	playerRepo player.Repository
	publisher  shared.EventPublisher
	logger     *zap.Logger
}

// NewIdeaService creates a new IdeaService
func NewIdeaService(
	ideaRepo ideation.IdeaRepository,
	playerRepo player.Repository,
	publisher shared.EventPublisher,
	logger *zap.Logger,
) *IdeaService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &IdeaService{
		ideaRepo:   ideaRepo,
		playerRepo: playerRepo,
		publisher:  publisher,
		logger:     logger,
	}
}

// Create submits a new idea on behalf of creatorID
func (s *IdeaService) Create(ctx context.Context, creatorID uuid.UUID, req CreateIdeaRequest) (*IdeaResponse, error) {
	refs, err := s.resolveInspirations(ctx, req.InspiredBy)
	if err != nil {
		return nil, err
	}

	idea, err := ideation.NewIdea(ideation.NewIdeaInput{
		Title:            req.Title,
		ShortDescription: req.ShortDescription,
		Reasoning:        req.Reasoning,
		CostEstimate:     req.CostEstimate,
		ImageRef:         req.ImageRef,
		CreatorID:        creatorID,
		TaggedUserIDs:    req.TaggedUserIDs,
		InspiredBy:       refs,
	})
	if err != nil {
		return nil, err
	}

	if err := s.ideaRepo.Create(ctx, idea); err != nil {
		return nil, err
	}
	publishPending(ctx, s.publisher, s.logger, idea)

	resp := ToIdeaResponse(idea)
	return &resp, nil
}

// GetByID retrieves an idea by ID
func (s *IdeaService) GetByID(ctx context.Context, id uuid.UUID) (*IdeaResponse, error) {
	idea, err := s.ideaRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToIdeaResponse(idea)
	return &resp, nil
}

// List returns a page of ideas, newest first unless the filter says otherwise
func (s *IdeaService) List(ctx context.Context, filter shared.Filter) (*IdeaListResponse, error) {
	if filter.OrderBy == "" {
		filter.OrderBy = "created_at"
		filter.OrderDir = "desc"
	}
	ideas, err := s.ideaRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.ideaRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	items := make([]IdeaResponse, len(ideas))
	for i := range ideas {
		items[i] = ToIdeaResponse(&ideas[i])
	}
	return &IdeaListResponse{
		Items:    items,
		Total:    total,
		Page:     filter.Page,
		PageSize: filter.PageSize,
	}, nil
}

// Update edits an idea. Only the creator may edit.
func (s *IdeaService) Update(ctx context.Context, actorID, id uuid.UUID, req UpdateIdeaRequest) (*IdeaResponse, error) {
	idea, err := s.ideaRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	err = idea.Update(actorID, ideation.UpdateIdeaInput{
		Title:            req.Title,
		ShortDescription: req.ShortDescription,
		Reasoning:        req.Reasoning,
		CostEstimate:     req.CostEstimate,
		ImageRef:         req.ImageRef,
		TaggedUserIDs:    req.TaggedUserIDs,
	})
	if err != nil {
		return nil, err
	}

	if err := s.ideaRepo.Save(ctx, idea); err != nil {
		return nil, err
	}
	publishPending(ctx, s.publisher, s.logger, idea)

	resp := ToIdeaResponse(idea)
	return &resp, nil
}

// Approve marks an idea approved. Only admins may approve.
func (s *IdeaService) Approve(ctx context.Context, actorID, id uuid.UUID) (*IdeaResponse, error) {
	details, err := s.playerRepo.FindDetails(ctx, actorID)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}
	if details == nil || !details.IsAdmin {
		return nil, shared.NewDomainError("FORBIDDEN", "Only admins can approve ideas")
	}

	idea, err := s.ideaRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := idea.Approve(); err != nil {
		return nil, err
	}
	if err := s.ideaRepo.Save(ctx, idea); err != nil {
		return nil, err
	}
	publishPending(ctx, s.publisher, s.logger, idea)

	resp := ToIdeaResponse(idea)
	return &resp, nil
}

// resolveInspirations loads the referenced ideas and caches their title and
// image on the reference. Unknown ids are rejected.
func (s *IdeaService) resolveInspirations(ctx context.Context, ids []uuid.UUID) ([]ideation.InspirationRef, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	found, err := s.ideaRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]*ideation.Idea, len(found))
	for i := range found {
		byID[found[i].ID] = &found[i]
	}

	refs := make([]ideation.InspirationRef, 0, len(ids))
	for _, id := range ids {
		src, ok := byID[id]
		if !ok {
			return nil, shared.NewDomainError("INVALID_INSPIRATION", "Inspiring idea not found: "+id.String())
		}
		refs = append(refs, ideation.InspirationRef{
			IdeaID:   src.ID,
			Title:    src.Title,
			ImageRef: src.ImageRef,
		})
	}
	return refs, nil
}
