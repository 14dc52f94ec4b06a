package handler

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/ideation/backend/internal/application/identity"
	"github.com/ideation/backend/internal/application/ideation"
	"github.com/ideation/backend/internal/application/media"
	"github.com/ideation/backend/internal/application/notification"
	"github.com/ideation/backend/internal/application/player"
	"github.com/ideation/backend/internal/application/ranking"
	"github.com/ideation/backend/internal/domain/shared"
	"github.com/ideation/backend/internal/infrastructure/scheduler"
)

// The handlers depend on these narrow views of the application services.

// AuthService is implemented by identity.AuthService
type AuthService interface {
	SignUp(ctx context.Context, input identity.SignUpInput) (*identity.LoginResult, error)
	Login(ctx context.Context, input identity.LoginInput) (*identity.LoginResult, error)
	RefreshToken(ctx context.Context, input identity.RefreshTokenInput) (*identity.LoginResult, error)
	Logout(ctx context.Context, input identity.LogoutInput) error
	Me(ctx context.Context, userID uuid.UUID) (*identity.UserInfo, error)
	UpdateProfile(ctx context.Context, input identity.UpdateProfileInput) (*identity.UserInfo, error)
	SendVerification(ctx context.Context, email string) error
	ConfirmVerification(ctx context.Context, input identity.ConfirmVerificationInput) (*identity.UserInfo, error)
	RequestPasswordReset(ctx context.Context, email string, meta identity.RequestMeta) error
	ConfirmPasswordReset(ctx context.Context, input identity.ConfirmPasswordResetInput) error
}

// IdeaService is implemented by ideation.IdeaService
type IdeaService interface {
	Create(ctx context.Context, creatorID uuid.UUID, req ideation.CreateIdeaRequest) (*ideation.IdeaResponse, error)
	GetByID(ctx context.Context, id uuid.UUID) (*ideation.IdeaResponse, error)
	List(ctx context.Context, filter shared.Filter) (*ideation.IdeaListResponse, error)
	Update(ctx context.Context, actorID, id uuid.UUID, req ideation.UpdateIdeaRequest) (*ideation.IdeaResponse, error)
	Approve(ctx context.Context, actorID, id uuid.UUID) (*ideation.IdeaResponse, error)
}

// CommentService is implemented by ideation.CommentService
type CommentService interface {
	Create(ctx context.Context, authorID, ideaID uuid.UUID, req ideation.CreateCommentRequest) (*ideation.CommentResponse, error)
	ListByIdea(ctx context.Context, ideaID uuid.UUID) ([]ideation.CommentResponse, error)
	Update(ctx context.Context, actorID, id uuid.UUID, req ideation.UpdateCommentRequest) (*ideation.CommentResponse, error)
}

// EvaluationService is implemented by ideation.EvaluationService
type EvaluationService interface {
	Submit(ctx context.Context, evaluatorID, ideaID uuid.UUID, req ideation.SubmitEvaluationRequest) (*ideation.EvaluationResponse, error)
	Summary(ctx context.Context, ideaID uuid.UUID) (*ideation.EvaluationSummary, error)
}

// VoteService is implemented by ideation.VoteService
type VoteService interface {
	Cast(ctx context.Context, userID, targetID uuid.UUID, req ideation.CastVoteRequest) (*ideation.VoteResponse, error)
	Retract(ctx context.Context, userID, targetID uuid.UUID) (*ideation.VoteResponse, error)
	Get(ctx context.Context, userID, targetID uuid.UUID) (*ideation.VoteResponse, error)
}

// UploadService is implemented by media.Service
type UploadService interface {
	RequestUpload(ctx context.Context, kind media.Kind, ownerID uuid.UUID, contentType string) (*media.UploadTicket, error)
}

// RankingService is implemented by ranking.Service
type RankingService interface {
	Get(ctx context.Context, column, direction string) (*ranking.Response, error)
}

// RankingFeed is implemented by ranking.Broadcaster
type RankingFeed interface {
	Subscribe() (<-chan struct{}, func())
	Subscribers() int
}

// PlayerService is implemented by player.Service
type PlayerService interface {
	Get(ctx context.Context, viewerID, id uuid.UUID) (*player.ProfileResponse, error)
	List(ctx context.Context) ([]player.SummaryResponse, error)
	UpdateMe(ctx context.Context, userID uuid.UUID, req player.UpdateMeRequest) (*player.ProfileResponse, error)
	RequestPictureUpload(ctx context.Context, userID uuid.UUID, contentType string) (*media.UploadTicket, error)
}

// NotificationService is implemented by notification.Service
type NotificationService interface {
	List(ctx context.Context, recipientID uuid.UUID, unreadOnly bool, filter shared.Filter) (*notification.NotificationListResponse, error)
	UnreadCount(ctx context.Context, recipientID uuid.UUID) (int64, error)
	MarkRead(ctx context.Context, recipientID, id uuid.UUID) error
	MarkAllRead(ctx context.Context, recipientID uuid.UUID) (int64, error)
}

// RecapRunner runs a recap digest pass inline
type RecapRunner interface {
	Run(ctx context.Context, now time.Time) (*notification.RecapReport, error)
}

// JobSubmitter queues a background job
type JobSubmitter interface {
	Submit(kind string, scheduledFor time.Time) (*scheduler.Job, error)
}

var (
	_ AuthService         = (*identity.AuthService)(nil)
	_ IdeaService         = (*ideation.IdeaService)(nil)
	_ CommentService      = (*ideation.CommentService)(nil)
	_ EvaluationService   = (*ideation.EvaluationService)(nil)
	_ VoteService         = (*ideation.VoteService)(nil)
	_ UploadService       = (*media.Service)(nil)
	_ RankingService      = (*ranking.Service)(nil)
	_ RankingFeed         = (*ranking.Broadcaster)(nil)
	_ PlayerService       = (*player.Service)(nil)
	_ NotificationService = (*notification.Service)(nil)
	_ RecapRunner         = (*notification.RecapDigestJob)(nil)
	_ JobSubmitter        = (*scheduler.Scheduler)(nil)
)
