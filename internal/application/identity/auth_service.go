package identity

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ideation/backend/internal/domain/identity"
	"github.com/ideation/backend/internal/domain/player"
	"github.com/ideation/backend/internal/domain/shared"
	"github.com/ideation/backend/internal/infrastructure/auth"
	"go.uber.org/zap"
)

// Client paths the mailed links point at
const (
	VerifyEmailPath   = "/verify-email"
	ResetPasswordPath = "/reset-password"
)

// AccountMailer sends the account lifecycle emails
type AccountMailer interface {
	SendVerification(ctx context.Context, to, link string) error
	SendPasswordReset(ctx context.Context, to, link string) error
}

// AuthServiceConfig contains configuration for the auth service
type AuthServiceConfig struct {
	BaseURL         string
	VerificationTTL time.Duration
	ResetTTL        time.Duration
}

// DefaultAuthServiceConfig returns default configuration
func DefaultAuthServiceConfig() AuthServiceConfig {
	return AuthServiceConfig{
		BaseURL:         "http://localhost:3000",
		VerificationTTL: 48 * time.Hour,
		ResetTTL:        time.Hour,
	}
}

// AuthServiceDeps groups the collaborators of AuthService
type AuthServiceDeps struct {
	Accounts    identity.AccountRepository
	Tokens      identity.TokenRepository
	Audit       identity.AuditRepository
	Players     player.Repository
	JWT         *auth.JWTService
	Revocations auth.RevocationList
	AllowList   *identity.AllowList
	Mailer      AccountMailer
	Publisher   shared.EventPublisher
}

// AuthService handles sign-up, sign-in and the account email flows
type AuthService struct {
	accounts    identity.AccountRepository
	tokens      identity.TokenRepository
	audit       identity.AuditRepository
	players     player.Repository
	jwtService  *auth.JWTService
	revocations auth.RevocationList
	allowList   *identity.AllowList
	mailer      AccountMailer
	publisher   shared.EventPublisher
	config      AuthServiceConfig
	logger      *zap.Logger
	now         func() time.Time
}

// NewAuthService creates a new authentication service
func NewAuthService(deps AuthServiceDeps, config AuthServiceConfig, logger *zap.Logger) *AuthService {
	config.BaseURL = strings.TrimRight(config.BaseURL, "/")
	return &AuthService{
		accounts:    deps.Accounts,
		tokens:      deps.Tokens,
		audit:       deps.Audit,
		players:     deps.Players,
		jwtService:  deps.JWT,
		revocations: deps.Revocations,
		allowList:   deps.AllowList,
		mailer:      deps.Mailer,
		publisher:   deps.Publisher,
		config:      config,
		logger:      logger,
		now:         time.Now,
	}
}

// SignUp creates an account with its player profile, mails a verification
// link and signs the new user in. The session stays unverified until the
// link is confirmed.
func (s *AuthService) SignUp(ctx context.Context, input SignUpInput) (*LoginResult, error) {
	email := identity.NormalizeEmail(input.Email)

	if !s.allowList.Allows(email) {
		err := shared.NewDomainError("EMAIL_NOT_ALLOWED", "This email address is not allowed to sign up")
		s.recordFailure(ctx, identity.AuditSignUp, email, nil, input.Meta, err)
		return nil, err
	}

	account, err := identity.NewAccount(email, input.Password, input.PasswordConfirmation)
	if err != nil {
		s.recordFailure(ctx, identity.AuditSignUp, email, nil, input.Meta, err)
		return nil, err
	}

	if err := s.accounts.Create(ctx, account); err != nil {
		if errors.Is(err, shared.ErrAlreadyExists) {
			err := shared.NewDomainError("EMAIL_TAKEN", "An account with this email already exists")
			s.recordFailure(ctx, identity.AuditSignUp, email, nil, input.Meta, err)
			return nil, err
		}
		s.logger.Error("Failed to create account", zap.Error(err))
		return nil, shared.WrapDomainError("INTERNAL_ERROR", "Failed to create account", err)
	}
	s.publish(ctx, account)

	profile, err := s.ensurePlayer(ctx, account, input.DisplayName)
	if err != nil {
		s.logger.Error("Failed to create player profile",
			zap.String("user_id", account.ID.String()),
			zap.Error(err))
		return nil, shared.WrapDomainError("INTERNAL_ERROR", "Failed to create player profile", err)
	}

	if err := s.sendVerification(ctx, account); err != nil {
		// The account exists; the user can ask for a new link.
		s.logger.Warn("Failed to send verification email",
			zap.String("user_id", account.ID.String()),
			zap.Error(err))
	}

	s.logger.Info("Account created",
		zap.String("user_id", account.ID.String()),
		zap.String("email", account.Email))

	return s.issue(account, profile)
}

// Login authenticates with email and password. Unverified accounts are
// rejected with EMAIL_NOT_VERIFIED.
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*LoginResult, error) {
	email := identity.NormalizeEmail(input.Email)
	s.logger.Info("Login attempt", zap.String("email", email))

	account, err := s.accounts.FindByEmail(ctx, email)
	if err != nil || !account.VerifyPassword(input.Password) {
		if err != nil && !errors.Is(err, shared.ErrNotFound) {
			s.logger.Error("Failed to load account during login", zap.Error(err))
		}
		derr := shared.NewDomainError("INVALID_CREDENTIALS", "Invalid email or password")
		s.recordFailure(ctx, identity.AuditSignIn, email, accountID(account), input.Meta, derr)
		return nil, derr
	}

	if !account.EmailVerified {
		derr := shared.NewDomainError("EMAIL_NOT_VERIFIED", "Please verify your email address before signing in")
		s.recordFailure(ctx, identity.AuditSignIn, email, &account.ID, input.Meta, derr)
		return nil, derr
	}

	profile, err := s.ensurePlayer(ctx, account, "")
	if err != nil {
		s.logger.Error("Failed to load player profile", zap.Error(err))
		return nil, shared.WrapDomainError("INTERNAL_ERROR", "Failed to load player profile", err)
	}

	account.RecordLogin(input.Meta.IP)
	if err := s.accounts.Save(ctx, account); err != nil {
		s.logger.Error("Failed to update account after successful login", zap.Error(err))
	}

	s.logger.Info("User logged in successfully", zap.String("user_id", account.ID.String()))
	return s.issue(account, profile)
}

// RefreshToken issues a new token pair carrying the account's current state
func (s *AuthService) RefreshToken(ctx context.Context, input RefreshTokenInput) (*LoginResult, error) {
	claims, err := s.jwtService.ValidateRefreshToken(input.RefreshToken)
	if err != nil {
		derr := tokenError(err)
		s.recordFailure(ctx, identity.AuditRefresh, "", nil, input.Meta, derr)
		return nil, derr
	}

	userID, err := claims.GetUserUUID()
	if err != nil {
		return nil, shared.NewDomainError("TOKEN_INVALID", "Invalid user ID in token")
	}

	if s.revocations != nil {
		revoked, err := s.revocations.IsUserRevoked(ctx, claims.UserID, claims.GetIssuedAtTime())
		if err != nil {
			s.logger.Error("Failed to check token revocation", zap.Error(err))
			return nil, shared.WrapDomainError("INTERNAL_ERROR", "Failed to validate refresh token", err)
		}
		if revoked {
			derr := tokenError(auth.ErrTokenRevoked)
			s.recordFailure(ctx, identity.AuditRefresh, "", &userID, input.Meta, derr)
			return nil, derr
		}
	}

	account, err := s.accounts.FindByID(ctx, userID)
	if err != nil {
		s.logger.Warn("Account not found during token refresh", zap.String("user_id", userID.String()))
		return nil, shared.NewDomainError("USER_NOT_FOUND", "User not found")
	}
	profile, err := s.ensurePlayer(ctx, account, "")
	if err != nil {
		return nil, shared.WrapDomainError("INTERNAL_ERROR", "Failed to load player profile", err)
	}

	pair, err := s.jwtService.RefreshTokenPair(input.RefreshToken, tokenInput(account, profile))
	if err != nil {
		derr := tokenError(err)
		s.recordFailure(ctx, identity.AuditRefresh, account.Email, &userID, input.Meta, derr)
		return nil, derr
	}
	return loginResult(pair, userInfo(account, profile)), nil
}

// Logout revokes the presented access token
func (s *AuthService) Logout(ctx context.Context, input LogoutInput) error {
	if s.revocations == nil || input.TokenJTI == "" {
		return nil
	}
	if err := s.revocations.Revoke(ctx, input.TokenJTI, input.TokenTTL); err != nil {
		s.logger.Error("Failed to revoke token on logout", zap.Error(err))
		return shared.WrapDomainError("INTERNAL_ERROR", "Failed to log out", err)
	}
	s.logger.Info("User logged out", zap.String("user_id", input.UserID.String()))
	return nil
}

// Me returns the current-user snapshot
func (s *AuthService) Me(ctx context.Context, userID uuid.UUID) (*UserInfo, error) {
	account, err := s.accounts.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	profile, err := s.ensurePlayer(ctx, account, "")
	if err != nil {
		return nil, err
	}
	info := userInfo(account, profile)
	return &info, nil
}

// UpdateProfile changes the display name and photo of the current user
func (s *AuthService) UpdateProfile(ctx context.Context, input UpdateProfileInput) (*UserInfo, error) {
	account, err := s.accounts.FindByID(ctx, input.UserID)
	if err != nil {
		return nil, err
	}
	profile, err := s.ensurePlayer(ctx, account, "")
	if err != nil {
		return nil, err
	}

	p := &profile.Player
	if input.DisplayName != nil {
		if err := p.Rename(*input.DisplayName); err != nil {
			return nil, err
		}
	}
	if input.PhotoURL != nil {
		p.PictureRef = strings.TrimSpace(*input.PhotoURL)
		p.UpdatedAt = s.now()
	}
	if err := s.players.Save(ctx, p); err != nil {
		return nil, err
	}
	s.publishEvent(ctx, player.NewUpdatedEvent(p.ID))

	info := userInfo(account, profile)
	return &info, nil
}

// SendVerification mails a new verification link. Unknown and already
// verified addresses are accepted silently so the endpoint does not reveal
// which emails have accounts.
func (s *AuthService) SendVerification(ctx context.Context, email string) error {
	account, err := s.accounts.FindByEmail(ctx, identity.NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil
		}
		return err
	}
	if account.EmailVerified {
		return nil
	}
	if err := s.sendVerification(ctx, account); err != nil {
		s.logger.Error("Failed to send verification email", zap.Error(err))
		return shared.WrapDomainError("MAIL_ERROR", "Failed to send verification email", err)
	}
	return nil
}

// ConfirmVerification consumes a verification secret and marks the email
// verified
func (s *AuthService) ConfirmVerification(ctx context.Context, input ConfirmVerificationInput) (*UserInfo, error) {
	token, err := s.consumeToken(ctx, input.Token, identity.PurposeEmailVerification)
	if err != nil {
		s.recordFailure(ctx, identity.AuditVerifyEmail, "", nil, input.Meta, err)
		return nil, err
	}

	account, err := s.accounts.FindByID(ctx, token.AccountID)
	if err != nil {
		return nil, err
	}
	if err := account.MarkEmailVerified(); err != nil {
		s.recordFailure(ctx, identity.AuditVerifyEmail, account.Email, &account.ID, input.Meta, err)
		return nil, err
	}
	if err := s.accounts.Save(ctx, account); err != nil {
		return nil, err
	}
	s.publish(ctx, account)

	profile, err := s.ensurePlayer(ctx, account, "")
	if err != nil {
		return nil, err
	}
	s.logger.Info("Email verified", zap.String("user_id", account.ID.String()))
	info := userInfo(account, profile)
	return &info, nil
}

// RequestPasswordReset mails a reset link. Unknown addresses are accepted
// silently.
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string, meta RequestMeta) error {
	email = identity.NormalizeEmail(email)
	account, err := s.accounts.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			s.recordFailure(ctx, identity.AuditPasswordReset, email, nil, meta,
				shared.NewDomainError("USER_NOT_FOUND", "No account for reset request"))
			return nil
		}
		return err
	}

	token, secret, err := identity.NewOneTimeToken(account.ID, identity.PurposePasswordReset, s.config.ResetTTL)
	if err != nil {
		return err
	}
	if err := s.tokens.Create(ctx, token); err != nil {
		return err
	}
	if err := s.mailer.SendPasswordReset(ctx, account.Email, s.link(ResetPasswordPath, secret)); err != nil {
		s.logger.Error("Failed to send password reset email", zap.Error(err))
		return shared.WrapDomainError("MAIL_ERROR", "Failed to send password reset email", err)
	}
	return nil
}

// ConfirmPasswordReset consumes a reset secret, sets the new password and
// revokes every token issued to the account before now
func (s *AuthService) ConfirmPasswordReset(ctx context.Context, input ConfirmPasswordResetInput) error {
	token, err := s.consumeToken(ctx, input.Token, identity.PurposePasswordReset)
	if err != nil {
		s.recordFailure(ctx, identity.AuditPasswordReset, "", nil, input.Meta, err)
		return err
	}

	account, err := s.accounts.FindByID(ctx, token.AccountID)
	if err != nil {
		return err
	}
	if err := account.SetPassword(input.Password, input.PasswordConfirmation); err != nil {
		s.recordFailure(ctx, identity.AuditPasswordReset, account.Email, &account.ID, input.Meta, err)
		return err
	}
	// Following the mailed link proves control of the address
	if !account.EmailVerified {
		_ = account.MarkEmailVerified()
	}
	if err := s.accounts.Save(ctx, account); err != nil {
		return err
	}
	s.publish(ctx, account)

	if s.revocations != nil {
		if err := s.revocations.RevokeUser(ctx, account.ID.String(), s.jwtService.GetRefreshTokenExpiration()); err != nil {
			s.logger.Error("Failed to revoke tokens after password reset", zap.Error(err))
		}
	}
	s.logger.Info("Password reset", zap.String("user_id", account.ID.String()))
	return nil
}

func (s *AuthService) consumeToken(ctx context.Context, secret string, purpose identity.TokenPurpose) (*identity.OneTimeToken, error) {
	secret = strings.TrimSpace(secret)
	if secret == "" {
		return nil, shared.NewDomainError("TOKEN_INVALID", "Token is required")
	}
	token, err := s.tokens.FindByHash(ctx, identity.HashSecret(secret), purpose)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("TOKEN_INVALID", "Invalid or unknown token")
		}
		return nil, err
	}
	if err := token.Consume(s.now()); err != nil {
		return nil, err
	}
	if err := s.tokens.MarkUsed(ctx, token); err != nil {
		return nil, err
	}
	return token, nil
}

func (s *AuthService) sendVerification(ctx context.Context, account *identity.Account) error {
	token, secret, err := identity.NewOneTimeToken(account.ID, identity.PurposeEmailVerification, s.config.VerificationTTL)
	if err != nil {
		return err
	}
	if err := s.tokens.Create(ctx, token); err != nil {
		return err
	}
	return s.mailer.SendVerification(ctx, account.Email, s.link(VerifyEmailPath, secret))
}

func (s *AuthService) link(path, secret string) string {
	return s.config.BaseURL + path + "?token=" + url.QueryEscape(secret)
}

// ensurePlayer loads the account's player profile, creating the player and
// its default details when they are missing
func (s *AuthService) ensurePlayer(ctx context.Context, account *identity.Account, displayName string) (*player.Profile, error) {
	p, err := s.players.FindByID(ctx, account.ID)
	if errors.Is(err, shared.ErrNotFound) {
		p, err = player.NewPlayer(account.ID, displayName, account.Email)
		if err != nil {
			return nil, err
		}
		if err := s.players.Save(ctx, p); err != nil {
			return nil, err
		}
		s.publishEvent(ctx, player.NewUpdatedEvent(p.ID))
	} else if err != nil {
		return nil, err
	}

	details, err := s.players.FindDetails(ctx, account.ID)
	if errors.Is(err, shared.ErrNotFound) {
		d := player.DefaultDetails(account.ID)
		if err := s.players.SaveDetails(ctx, &d); err != nil {
			return nil, err
		}
		details = &d
	} else if err != nil {
		return nil, err
	}

	return &player.Profile{Player: *p, Details: *details}, nil
}

func (s *AuthService) issue(account *identity.Account, profile *player.Profile) (*LoginResult, error) {
	pair, err := s.jwtService.GenerateTokenPair(tokenInput(account, profile))
	if err != nil {
		s.logger.Error("Failed to generate token pair", zap.Error(err))
		return nil, shared.WrapDomainError("INTERNAL_ERROR", "Failed to generate authentication tokens", err)
	}
	return loginResult(pair, userInfo(account, profile)), nil
}

// recordFailure appends an audit entry. Audit writes are best-effort.
func (s *AuthService) recordFailure(ctx context.Context, action identity.AuditAction, email string, id *uuid.UUID, meta RequestMeta, cause error) {
	if s.audit == nil {
		return
	}
	code, message := "UNKNOWN", cause.Error()
	var derr *shared.DomainError
	if errors.As(cause, &derr) {
		code, message = derr.Code, derr.Message
	}
	entry := identity.NewAuditEntry(action, email, code, message)
	entry.AccountID = id
	entry.IP = meta.IP
	entry.UserAgent = meta.UserAgent
	if err := s.audit.Append(ctx, entry); err != nil {
		s.logger.Warn("Failed to append auth audit entry",
			zap.String("action", string(action)),
			zap.Error(err))
	}
}

func (s *AuthService) publish(ctx context.Context, account *identity.Account) {
	events := account.GetDomainEvents()
	account.ClearDomainEvents()
	s.publishEvent(ctx, events...)
}

func (s *AuthService) publishEvent(ctx context.Context, events ...shared.DomainEvent) {
	if s.publisher == nil || len(events) == 0 {
		return
	}
	if err := s.publisher.Publish(ctx, events...); err != nil {
		s.logger.Warn("Failed to publish domain events", zap.Error(err))
	}
}

func tokenError(err error) *shared.DomainError {
	switch {
	case errors.Is(err, auth.ErrExpiredToken):
		return shared.NewDomainError("TOKEN_EXPIRED", "Refresh token has expired")
	case errors.Is(err, auth.ErrMaxRefreshExceeded):
		return shared.NewDomainError("TOKEN_MAX_REFRESH", "Maximum token refresh count exceeded. Please log in again")
	case errors.Is(err, auth.ErrTokenRevoked):
		return shared.NewDomainError("TOKEN_REVOKED", "Refresh token has been revoked")
	case errors.Is(err, auth.ErrInvalidToken), errors.Is(err, auth.ErrInvalidTokenType), errors.Is(err, auth.ErrInvalidClaims):
		return shared.NewDomainError("TOKEN_INVALID", "Invalid refresh token")
	default:
		return shared.NewDomainError("TOKEN_ERROR", "Failed to validate refresh token")
	}
}

func tokenInput(account *identity.Account, profile *player.Profile) auth.GenerateTokenInput {
	return auth.GenerateTokenInput{
		UserID:        account.ID,
		Email:         account.Email,
		EmailVerified: account.EmailVerified,
		IsAdmin:       profile.Details.IsAdmin,
	}
}

func userInfo(account *identity.Account, profile *player.Profile) UserInfo {
	return UserInfo{
		ID:            account.ID,
		Email:         account.Email,
		DisplayName:   profile.NameOrDefault(),
		PhotoURL:      profile.PictureRef,
		EmailVerified: account.EmailVerified,
		IsAdmin:       profile.Details.IsAdmin,
	}
}

func loginResult(pair *auth.TokenPair, user UserInfo) *LoginResult {
	return &LoginResult{
		AccessToken:           pair.AccessToken,
		RefreshToken:          pair.RefreshToken,
		AccessTokenExpiresAt:  pair.AccessTokenExpiresAt,
		RefreshTokenExpiresAt: pair.RefreshTokenExpiresAt,
		TokenType:             pair.TokenType,
		User:                  user,
	}
}

func accountID(a *identity.Account) *uuid.UUID {
	if a == nil {
		return nil
	}
	return &a.ID
}
