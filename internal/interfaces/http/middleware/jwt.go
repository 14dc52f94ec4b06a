package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/ideation/backend/internal/infrastructure/auth"
	"github.com/ideation/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// JWT context keys
const (
	JWTClaimsKey  = "jwt_claims"
	JWTUserIDKey  = "jwt_user_id"
	AuthHeaderKey = "Authorization"
	BearerPrefix  = "Bearer "

	// logUserIDKey is read by logger.GinMiddleware for the access log
	logUserIDKey = "user_id"
	// queryTokenParam carries the token for EventSource clients, which
	// cannot set headers
	queryTokenParam = "access_token"
)

// JWTMiddlewareConfig holds configuration for JWT middleware
type JWTMiddlewareConfig struct {
	// JWTService is required for token validation
	JWTService *auth.JWTService
	// Revocations is optional; when set, logged-out tokens and tokens issued
	// before a password reset are rejected
	Revocations auth.RevocationList
	// SkipPaths are paths that don't require authentication
	SkipPaths []string
	// SkipPathPrefixes are path prefixes that don't require authentication
	SkipPathPrefixes []string
	// QueryTokenPaths may pass the token as ?access_token=
	QueryTokenPaths []string
	// Optional callback if token is invalid (default: return 401)
	OnError func(c *gin.Context, err error)
	Logger  *zap.Logger
}

// DefaultJWTConfig returns default JWT middleware configuration
func DefaultJWTConfig(jwtService *auth.JWTService) JWTMiddlewareConfig {
	return JWTMiddlewareConfig{
		JWTService: jwtService,
		SkipPaths: []string{
			"/health",
			"/api/v1/system/health",
			"/api/v1/auth/signup",
			"/api/v1/auth/login",
			"/api/v1/auth/refresh",
			"/api/v1/auth/verify/send",
			"/api/v1/auth/verify/confirm",
			"/api/v1/auth/password/reset",
			"/api/v1/auth/password/confirm",
		},
		SkipPathPrefixes: []string{
			"/swagger",
		},
		QueryTokenPaths: []string{
			"/api/v1/ranking/stream",
		},
	}
}

// JWTAuthMiddleware creates JWT authentication middleware
func JWTAuthMiddleware(jwtService *auth.JWTService) gin.HandlerFunc {
	return JWTAuthMiddlewareWithConfig(DefaultJWTConfig(jwtService))
}

// JWTAuthMiddlewareWithConfig creates JWT authentication middleware with custom config
func JWTAuthMiddlewareWithConfig(cfg JWTMiddlewareConfig) gin.HandlerFunc {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		if skipAuth(cfg, path) {
			c.Next()
			return
		}

		tokenString, ok := extractToken(c, cfg, path)
		if !ok {
			handleAuthError(c, cfg, auth.ErrInvalidToken, "Missing or malformed authorization header")
			return
		}

		claims, err := cfg.JWTService.ValidateAccessToken(tokenString)
		if err != nil {
			handleAuthError(c, cfg, err, "Token validation failed")
			return
		}

		if cfg.Revocations != nil {
			if err := checkRevocation(c, cfg, claims); err != nil {
				handleAuthError(c, cfg, err, "Token has been revoked")
				return
			}
		}

		c.Set(JWTClaimsKey, claims)
		c.Set(JWTUserIDKey, claims.UserID)
		c.Set(logUserIDKey, claims.UserID)

		ctx := c.Request.Context()
		ctx, _ = logger.WithUserID(ctx, logger.FromContext(ctx), claims.UserID)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

func skipAuth(cfg JWTMiddlewareConfig, path string) bool {
	for _, p := range cfg.SkipPaths {
		if path == p {
			return true
		}
	}
	for _, prefix := range cfg.SkipPathPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

func extractToken(c *gin.Context, cfg JWTMiddlewareConfig, path string) (string, bool) {
	if header := c.GetHeader(AuthHeaderKey); header != "" {
		if !strings.HasPrefix(header, BearerPrefix) {
			return "", false
		}
		token := strings.TrimPrefix(header, BearerPrefix)
		return token, token != ""
	}
	for _, p := range cfg.QueryTokenPaths {
		if path == p {
			token := c.Query(queryTokenParam)
			return token, token != ""
		}
	}
	return "", false
}

// checkRevocation fails open when the revocation store is unavailable
func checkRevocation(c *gin.Context, cfg JWTMiddlewareConfig, claims *auth.Claims) error {
	ctx := c.Request.Context()
	if claims.ID != "" {
		revoked, err := cfg.Revocations.IsRevoked(ctx, claims.ID)
		if err != nil {
			cfg.Logger.Error("Failed to check token revocation", zap.String("jti", claims.ID), zap.Error(err))
		} else if revoked {
			return auth.ErrTokenRevoked
		}
	}
	revoked, err := cfg.Revocations.IsUserRevoked(ctx, claims.UserID, claims.GetIssuedAtTime())
	if err != nil {
		cfg.Logger.Error("Failed to check user revocation", zap.String("user_id", claims.UserID), zap.Error(err))
		return nil
	}
	if revoked {
		return auth.ErrTokenRevoked
	}
	return nil
}

func handleAuthError(c *gin.Context, cfg JWTMiddlewareConfig, err error, message string) {
	if cfg.OnError != nil {
		cfg.OnError(c, err)
		return
	}

	cfg.Logger.Warn("JWT authentication failed",
		zap.Error(err),
		zap.String("message", message),
		zap.String("path", c.Request.URL.Path),
	)

	code, msg := "ERR_UNAUTHORIZED", "Authentication required"
	switch {
	case errors.Is(err, auth.ErrExpiredToken):
		code, msg = "ERR_TOKEN_EXPIRED", "Token has expired"
	case errors.Is(err, auth.ErrTokenRevoked):
		code, msg = "ERR_TOKEN_INVALID", "Token has been revoked"
	case errors.Is(err, auth.ErrInvalidTokenType), errors.Is(err, auth.ErrTokenNotYetValid),
		errors.Is(err, auth.ErrInvalidClaims), errors.Is(err, auth.ErrMissingUserID):
		code, msg = "ERR_TOKEN_INVALID", "Invalid token"
	}
	abortWithError(c, http.StatusUnauthorized, code, msg)
}

// RequireVerified rejects players whose email is not verified yet
func RequireVerified() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := GetJWTClaims(c)
		if claims == nil {
			abortWithError(c, http.StatusUnauthorized, "ERR_UNAUTHORIZED", "Authentication required")
			return
		}
		if !claims.EmailVerified {
			abortWithError(c, http.StatusForbidden, "ERR_EMAIL_NOT_VERIFIED", "Please verify your email address")
			return
		}
		c.Next()
	}
}

// RequireAdmin rejects players without admin rights
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := GetJWTClaims(c)
		if claims == nil {
			abortWithError(c, http.StatusUnauthorized, "ERR_UNAUTHORIZED", "Authentication required")
			return
		}
		if !claims.IsAdmin {
			abortWithError(c, http.StatusForbidden, "ERR_FORBIDDEN", "Admin rights required")
			return
		}
		c.Next()
	}
}

// GetJWTClaims retrieves JWT claims from gin.Context
func GetJWTClaims(c *gin.Context) *auth.Claims {
	if claims, exists := c.Get(JWTClaimsKey); exists {
		if jwtClaims, ok := claims.(*auth.Claims); ok {
			return jwtClaims
		}
	}
	return nil
}

// GetJWTUserID retrieves the user ID from JWT claims in context
func GetJWTUserID(c *gin.Context) string {
	return c.GetString(JWTUserIDKey)
}

// GetJWTUserUUID parses the authenticated user ID
func GetJWTUserUUID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(GetJWTUserID(c))
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

func abortWithError(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	})
}
