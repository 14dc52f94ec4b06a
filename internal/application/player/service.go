// Package player implements the profile use cases: viewing players,
// editing one's own profile and uploading a profile picture.
package player

import (
	"context"
	"errors"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/ideation/backend/internal/application/media"
	"github.com/ideation/backend/internal/domain/player"
	"github.com/ideation/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// Service handles player profile operations
type Service struct {
	repo      player.Repository
	media     *media.Service
	publisher shared.EventPublisher
	logger    *zap.Logger
}

// NewService creates a new player Service. media may be nil, in which case
// only absolute picture URLs are accepted.
func NewService(repo player.Repository, mediaService *media.Service, publisher shared.EventPublisher, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		repo:      repo,
		media:     mediaService,
		publisher: publisher,
		logger:    logger,
	}
}

// Get returns a player's profile. Email and settings are included only when
// viewerID is the player.
func (s *Service) Get(ctx context.Context, viewerID, id uuid.UUID) (*ProfileResponse, error) {
	profile, err := s.profile(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := toProfileResponse(profile, viewerID == id)
	return &resp, nil
}

// List returns every player ordered by display name
func (s *Service) List(ctx context.Context) ([]SummaryResponse, error) {
	players, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]SummaryResponse, 0, len(players))
	for i := range players {
		out = append(out, toSummaryResponse(&players[i]))
	}
	sort.SliceStable(out, func(i, j int) bool {
		return strings.ToLower(out[i].DisplayName) < strings.ToLower(out[j].DisplayName)
	})
	return out, nil
}

// UpdateMe applies the caller's profile changes and announces them
func (s *Service) UpdateMe(ctx context.Context, userID uuid.UUID, req UpdateMeRequest) (*ProfileResponse, error) {
	profile, err := s.profile(ctx, userID)
	if err != nil {
		return nil, err
	}

	p := &profile.Player
	playerChanged := false
	if req.DisplayName != nil {
		if err := p.Rename(*req.DisplayName); err != nil {
			return nil, err
		}
		playerChanged = true
	}
	if req.Team != nil {
		if err := p.SetTeam(*req.Team); err != nil {
			return nil, err
		}
		playerChanged = true
	}
	if req.PictureRef != nil {
		ref, err := s.resolvePicture(ctx, userID, *req.PictureRef)
		if err != nil {
			return nil, err
		}
		p.PictureRef = ref
		playerChanged = true
	}

	if playerChanged {
		if err := s.repo.Save(ctx, p); err != nil {
			return nil, err
		}
	}
	if req.ReceiveRecapEmails != nil && *req.ReceiveRecapEmails != profile.Details.ReceiveRecapEmails {
		profile.Details.ReceiveRecapEmails = *req.ReceiveRecapEmails
		if err := s.repo.SaveDetails(ctx, &profile.Details); err != nil {
			return nil, err
		}
	}

	if playerChanged && s.publisher != nil {
		if err := s.publisher.Publish(ctx, player.NewUpdatedEvent(p.ID)); err != nil {
			s.logger.Warn("Failed to publish player update", zap.String("player_id", p.ID.String()), zap.Error(err))
		}
	}

	resp := toProfileResponse(profile, true)
	return &resp, nil
}

// RequestPictureUpload issues an upload ticket for a new profile picture.
// The client uploads the file and then sends the ticket key as picture_ref.
func (s *Service) RequestPictureUpload(ctx context.Context, userID uuid.UUID, contentType string) (*media.UploadTicket, error) {
	if s.media == nil {
		return nil, shared.NewDomainError("STORAGE_DISABLED", "Picture uploads are not available")
	}
	if _, err := s.repo.FindByID(ctx, userID); err != nil {
		return nil, err
	}
	return s.media.RequestUpload(ctx, media.KindProfilePicture, userID, contentType)
}

func (s *Service) profile(ctx context.Context, id uuid.UUID) (*player.Profile, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	details, err := s.repo.FindDetails(ctx, id)
	if err != nil {
		if !errors.Is(err, shared.ErrNotFound) {
			return nil, err
		}
		d := player.DefaultDetails(id)
		details = &d
	}
	return &player.Profile{Player: *p, Details: *details}, nil
}

// resolvePicture accepts an empty ref, an absolute URL, or the key of an
// uploaded profile picture owned by userID, which is stored as its public URL.
func (s *Service) resolvePicture(ctx context.Context, userID uuid.UUID, ref string) (string, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" || strings.HasPrefix(ref, "https://") || strings.HasPrefix(ref, "http://") {
		return ref, nil
	}
	if s.media == nil || !media.OwnedBy(ref, media.KindProfilePicture, userID) {
		return "", shared.NewDomainError("INVALID_PICTURE", "Picture must be a URL or an uploaded profile picture")
	}
	ok, err := s.media.Exists(ctx, ref)
	if err != nil {
		return "", shared.WrapDomainError("STORAGE_ERROR", "Failed to check uploaded picture", err)
	}
	if !ok {
		return "", shared.NewDomainError("INVALID_PICTURE", "Picture has not been uploaded")
	}
	return s.media.PublicURL(ref), nil
}
