package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/ideation/backend/internal/infrastructure/auth"
	"github.com/ideation/backend/internal/infrastructure/config"
	"github.com/ideation/backend/internal/interfaces/http/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestJWTService() *auth.JWTService {
	return auth.NewJWTService(config.JWTConfig{
		Secret:                 "middleware-test-secret-32-chars!!",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: time.Hour,
		Issuer:                 "ideation-test",
		MaxRefreshCount:        3,
	})
}

func issue(t *testing.T, svc *auth.JWTService, verified, admin bool) (*auth.TokenPair, uuid.UUID) {
	t.Helper()
	id := uuid.New()
	pair, err := svc.GenerateTokenPair(auth.GenerateTokenInput{
		UserID:        id,
		Email:         "grace@example.com",
		EmailVerified: verified,
		IsAdmin:       admin,
	})
	require.NoError(t, err)
	return pair, id
}

func authRouter(cfg JWTMiddlewareConfig, extra ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(JWTAuthMiddlewareWithConfig(cfg))
	handlers := append(extra, func(c *gin.Context) {
		id, _ := GetJWTUserUUID(c)
		c.JSON(http.StatusOK, gin.H{"user_id": id.String()})
	})
	r.GET("/api/v1/ideas", handlers...)
	r.GET("/api/v1/ranking/stream", handlers...)
	r.POST("/api/v1/auth/login", func(c *gin.Context) { c.Status(http.StatusOK) })
	return r
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.Error)
	return resp.Error.Code
}

func get(r http.Handler, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set(AuthHeaderKey, BearerPrefix+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestJWTAuthMiddleware(t *testing.T) {
	svc := newTestJWTService()
	r := authRouter(DefaultJWTConfig(svc))

	t.Run("accepts a valid token", func(t *testing.T) {
		pair, id := issue(t, svc, true, false)
		w := get(r, "/api/v1/ideas", pair.AccessToken)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), id.String())
	})

	t.Run("rejects a missing header", func(t *testing.T) {
		w := get(r, "/api/v1/ideas", "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "ERR_UNAUTHORIZED", errorCode(t, w))
	})

	t.Run("rejects a non-bearer header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/ideas", nil)
		req.Header.Set(AuthHeaderKey, "Basic abc")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("rejects a refresh token", func(t *testing.T) {
		pair, _ := issue(t, svc, true, false)
		w := get(r, "/api/v1/ideas", pair.RefreshToken)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "ERR_TOKEN_INVALID", errorCode(t, w))
	})

	t.Run("reports expired tokens", func(t *testing.T) {
		expired := auth.NewJWTService(config.JWTConfig{
			Secret:                 "middleware-test-secret-32-chars!!",
			AccessTokenExpiration:  -time.Minute,
			RefreshTokenExpiration: time.Hour,
		})
		pair, _ := issue(t, expired, true, false)
		w := get(r, "/api/v1/ideas", pair.AccessToken)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "ERR_TOKEN_EXPIRED", errorCode(t, w))
	})

	t.Run("skips public auth paths", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("accepts a query token on the stream only", func(t *testing.T) {
		pair, _ := issue(t, svc, true, false)
		w := get(r, "/api/v1/ranking/stream?access_token="+pair.AccessToken, "")
		assert.Equal(t, http.StatusOK, w.Code)

		w = get(r, "/api/v1/ideas?access_token="+pair.AccessToken, "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestJWTAuthMiddleware_Revocation(t *testing.T) {
	svc := newTestJWTService()
	revocations := auth.NewMemoryRevocationList()
	cfg := DefaultJWTConfig(svc)
	cfg.Revocations = revocations
	r := authRouter(cfg)
	ctx := context.Background()

	t.Run("rejects a logged out token", func(t *testing.T) {
		pair, _ := issue(t, svc, true, false)
		claims, err := svc.ValidateAccessToken(pair.AccessToken)
		require.NoError(t, err)
		require.NoError(t, revocations.Revoke(ctx, claims.ID, time.Minute))

		w := get(r, "/api/v1/ideas", pair.AccessToken)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "ERR_TOKEN_INVALID", errorCode(t, w))
	})

	t.Run("rejects tokens issued before a user cutoff", func(t *testing.T) {
		pair, id := issue(t, svc, true, false)
		require.NoError(t, revocations.RevokeUser(ctx, id.String(), time.Hour))

		w := get(r, "/api/v1/ideas", pair.AccessToken)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestRequireVerifiedAndAdmin(t *testing.T) {
	svc := newTestJWTService()

	t.Run("unverified players are forbidden", func(t *testing.T) {
		r := authRouter(DefaultJWTConfig(svc), RequireVerified())
		pair, _ := issue(t, svc, false, false)
		w := get(r, "/api/v1/ideas", pair.AccessToken)
		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Equal(t, "ERR_EMAIL_NOT_VERIFIED", errorCode(t, w))

		pair, _ = issue(t, svc, true, false)
		assert.Equal(t, http.StatusOK, get(r, "/api/v1/ideas", pair.AccessToken).Code)
	})

	t.Run("non admins are forbidden", func(t *testing.T) {
		r := authRouter(DefaultJWTConfig(svc), RequireAdmin())
		pair, _ := issue(t, svc, true, false)
		w := get(r, "/api/v1/ideas", pair.AccessToken)
		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Equal(t, "ERR_FORBIDDEN", errorCode(t, w))

		pair, _ = issue(t, svc, true, true)
		assert.Equal(t, http.StatusOK, get(r, "/api/v1/ideas", pair.AccessToken).Code)
	})

	t.Run("gates without claims answer 401", func(t *testing.T) {
		gin.SetMode(gin.TestMode)
		r := gin.New()
		r.GET("/x", RequireAdmin(), func(c *gin.Context) { c.Status(http.StatusOK) })
		assert.Equal(t, http.StatusUnauthorized, get(r, "/x", "").Code)
	})
}
