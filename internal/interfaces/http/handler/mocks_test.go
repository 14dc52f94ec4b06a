package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/ideation/backend/internal/application/identity"
	"github.com/ideation/backend/internal/application/ideation"
	"github.com/ideation/backend/internal/application/media"
	"github.com/ideation/backend/internal/application/notification"
	"github.com/ideation/backend/internal/application/player"
	"github.com/ideation/backend/internal/application/ranking"
	"github.com/ideation/backend/internal/domain/shared"
	"github.com/ideation/backend/internal/infrastructure/auth"
	"github.com/ideation/backend/internal/infrastructure/scheduler"
	"github.com/ideation/backend/internal/interfaces/http/middleware"
	"github.com/stretchr/testify/mock"
)

// testRouter returns an engine whose requests are authenticated as userID.
// A nil id leaves requests anonymous.
func testRouter(userID uuid.UUID) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	if userID != uuid.Nil {
		r.Use(func(c *gin.Context) {
			claims := &auth.Claims{UserID: userID.String(), EmailVerified: true}
			claims.ID = "jti-" + userID.String()[:8]
			claims.ExpiresAt = jwt.NewNumericDate(time.Now().Add(10 * time.Minute))
			c.Set(middleware.JWTClaimsKey, claims)
			c.Set(middleware.JWTUserIDKey, userID.String())
			c.Next()
		})
	}
	return r
}

func doJSON(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// MockAuthService is a mock implementation of AuthService
type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) SignUp(ctx context.Context, input identity.SignUpInput) (*identity.LoginResult, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.LoginResult), args.Error(1)
}

func (m *MockAuthService) Login(ctx context.Context, input identity.LoginInput) (*identity.LoginResult, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.LoginResult), args.Error(1)
}

func (m *MockAuthService) RefreshToken(ctx context.Context, input identity.RefreshTokenInput) (*identity.LoginResult, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.LoginResult), args.Error(1)
}

func (m *MockAuthService) Logout(ctx context.Context, input identity.LogoutInput) error {
	return m.Called(ctx, input).Error(0)
}

func (m *MockAuthService) Me(ctx context.Context, userID uuid.UUID) (*identity.UserInfo, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.UserInfo), args.Error(1)
}

func (m *MockAuthService) UpdateProfile(ctx context.Context, input identity.UpdateProfileInput) (*identity.UserInfo, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.UserInfo), args.Error(1)
}

func (m *MockAuthService) SendVerification(ctx context.Context, email string) error {
	return m.Called(ctx, email).Error(0)
}

func (m *MockAuthService) ConfirmVerification(ctx context.Context, input identity.ConfirmVerificationInput) (*identity.UserInfo, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.UserInfo), args.Error(1)
}

func (m *MockAuthService) RequestPasswordReset(ctx context.Context, email string, meta identity.RequestMeta) error {
	return m.Called(ctx, email, meta).Error(0)
}

func (m *MockAuthService) ConfirmPasswordReset(ctx context.Context, input identity.ConfirmPasswordResetInput) error {
	return m.Called(ctx, input).Error(0)
}

// MockIdeaService is a mock implementation of IdeaService
type MockIdeaService struct {
	mock.Mock
}

func (m *MockIdeaService) idea(args mock.Arguments) (*ideation.IdeaResponse, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ideation.IdeaResponse), args.Error(1)
}

func (m *MockIdeaService) Create(ctx context.Context, creatorID uuid.UUID, req ideation.CreateIdeaRequest) (*ideation.IdeaResponse, error) {
	return m.idea(m.Called(ctx, creatorID, req))
}

func (m *MockIdeaService) GetByID(ctx context.Context, id uuid.UUID) (*ideation.IdeaResponse, error) {
	return m.idea(m.Called(ctx, id))
}

func (m *MockIdeaService) List(ctx context.Context, filter shared.Filter) (*ideation.IdeaListResponse, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ideation.IdeaListResponse), args.Error(1)
}

func (m *MockIdeaService) Update(ctx context.Context, actorID, id uuid.UUID, req ideation.UpdateIdeaRequest) (*ideation.IdeaResponse, error) {
	return m.idea(m.Called(ctx, actorID, id, req))
}

func (m *MockIdeaService) Approve(ctx context.Context, actorID, id uuid.UUID) (*ideation.IdeaResponse, error) {
	return m.idea(m.Called(ctx, actorID, id))
}

// MockCommentService is a mock implementation of CommentService
type MockCommentService struct {
	mock.Mock
}

func (m *MockCommentService) Create(ctx context.Context, authorID, ideaID uuid.UUID, req ideation.CreateCommentRequest) (*ideation.CommentResponse, error) {
	args := m.Called(ctx, authorID, ideaID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ideation.CommentResponse), args.Error(1)
}

func (m *MockCommentService) ListByIdea(ctx context.Context, ideaID uuid.UUID) ([]ideation.CommentResponse, error) {
	args := m.Called(ctx, ideaID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]ideation.CommentResponse), args.Error(1)
}

func (m *MockCommentService) Update(ctx context.Context, actorID, id uuid.UUID, req ideation.UpdateCommentRequest) (*ideation.CommentResponse, error) {
	args := m.Called(ctx, actorID, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ideation.CommentResponse), args.Error(1)
}

// MockEvaluationService is a mock implementation of EvaluationService
type MockEvaluationService struct {
	mock.Mock
}

func (m *MockEvaluationService) Submit(ctx context.Context, evaluatorID, ideaID uuid.UUID, req ideation.SubmitEvaluationRequest) (*ideation.EvaluationResponse, error) {
	args := m.Called(ctx, evaluatorID, ideaID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ideation.EvaluationResponse), args.Error(1)
}

func (m *MockEvaluationService) Summary(ctx context.Context, ideaID uuid.UUID) (*ideation.EvaluationSummary, error) {
	args := m.Called(ctx, ideaID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ideation.EvaluationSummary), args.Error(1)
}

// MockVoteService is a mock implementation of VoteService
type MockVoteService struct {
	mock.Mock
}

func (m *MockVoteService) tally(args mock.Arguments) (*ideation.VoteResponse, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ideation.VoteResponse), args.Error(1)
}

func (m *MockVoteService) Cast(ctx context.Context, userID, targetID uuid.UUID, req ideation.CastVoteRequest) (*ideation.VoteResponse, error) {
	return m.tally(m.Called(ctx, userID, targetID, req))
}

func (m *MockVoteService) Retract(ctx context.Context, userID, targetID uuid.UUID) (*ideation.VoteResponse, error) {
	return m.tally(m.Called(ctx, userID, targetID))
}

func (m *MockVoteService) Get(ctx context.Context, userID, targetID uuid.UUID) (*ideation.VoteResponse, error) {
	return m.tally(m.Called(ctx, userID, targetID))
}

// MockUploadService is a mock implementation of UploadService
type MockUploadService struct {
	mock.Mock
}

func (m *MockUploadService) RequestUpload(ctx context.Context, kind media.Kind, ownerID uuid.UUID, contentType string) (*media.UploadTicket, error) {
	args := m.Called(ctx, kind, ownerID, contentType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*media.UploadTicket), args.Error(1)
}

// MockRankingService is a mock implementation of RankingService
type MockRankingService struct {
	mock.Mock
}

func (m *MockRankingService) Get(ctx context.Context, column, direction string) (*ranking.Response, error) {
	args := m.Called(ctx, column, direction)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ranking.Response), args.Error(1)
}

// MockPlayerService is a mock implementation of PlayerService
type MockPlayerService struct {
	mock.Mock
}

func (m *MockPlayerService) Get(ctx context.Context, viewerID, id uuid.UUID) (*player.ProfileResponse, error) {
	args := m.Called(ctx, viewerID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*player.ProfileResponse), args.Error(1)
}

func (m *MockPlayerService) List(ctx context.Context) ([]player.SummaryResponse, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]player.SummaryResponse), args.Error(1)
}

func (m *MockPlayerService) UpdateMe(ctx context.Context, userID uuid.UUID, req player.UpdateMeRequest) (*player.ProfileResponse, error) {
	args := m.Called(ctx, userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*player.ProfileResponse), args.Error(1)
}

func (m *MockPlayerService) RequestPictureUpload(ctx context.Context, userID uuid.UUID, contentType string) (*media.UploadTicket, error) {
	args := m.Called(ctx, userID, contentType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*media.UploadTicket), args.Error(1)
}

// MockNotificationService is a mock implementation of NotificationService
type MockNotificationService struct {
	mock.Mock
}

func (m *MockNotificationService) List(ctx context.Context, recipientID uuid.UUID, unreadOnly bool, filter shared.Filter) (*notification.NotificationListResponse, error) {
	args := m.Called(ctx, recipientID, unreadOnly, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*notification.NotificationListResponse), args.Error(1)
}

func (m *MockNotificationService) UnreadCount(ctx context.Context, recipientID uuid.UUID) (int64, error) {
	args := m.Called(ctx, recipientID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockNotificationService) MarkRead(ctx context.Context, recipientID, id uuid.UUID) error {
	return m.Called(ctx, recipientID, id).Error(0)
}

func (m *MockNotificationService) MarkAllRead(ctx context.Context, recipientID uuid.UUID) (int64, error) {
	args := m.Called(ctx, recipientID)
	return args.Get(0).(int64), args.Error(1)
}

// MockRecapRunner is a mock implementation of RecapRunner
type MockRecapRunner struct {
	mock.Mock
}

func (m *MockRecapRunner) Run(ctx context.Context, now time.Time) (*notification.RecapReport, error) {
	args := m.Called(ctx, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*notification.RecapReport), args.Error(1)
}

// MockJobSubmitter is a mock implementation of JobSubmitter
type MockJobSubmitter struct {
	mock.Mock
}

func (m *MockJobSubmitter) Submit(kind string, scheduledFor time.Time) (*scheduler.Job, error) {
	args := m.Called(kind, scheduledFor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*scheduler.Job), args.Error(1)
}
