package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ideation/backend/internal/application/appstate"
	"github.com/ideation/backend/internal/application/identity"
	"github.com/ideation/backend/internal/infrastructure/config"
	"github.com/ideation/backend/internal/interfaces/http/dto"
	"github.com/ideation/backend/internal/interfaces/http/middleware"
)

// RefreshTokenCookie is the HttpOnly cookie carrying the refresh token
const RefreshTokenCookie = "refresh_token"

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	BaseHandler
	authService AuthService
	cookie      config.CookieConfig
	sessions    *appstate.SessionRegistry
}

// NewAuthHandler creates a new auth handler. sessions may be nil.
func NewAuthHandler(authService AuthService, cookie config.CookieConfig, sessions *appstate.SessionRegistry) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		cookie:      cookie,
		sessions:    sessions,
	}
}

func requestMeta(c *gin.Context) identity.RequestMeta {
	return identity.RequestMeta{IP: c.ClientIP(), UserAgent: c.Request.UserAgent()}
}

// SignUp godoc
// @Summary      Create an account
// @Description  Register with email and password. The account starts unverified and a verification mail is sent.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body SignUpRequest true "Account details"
// @Success      201 {object} dto.Response{data=AuthResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /auth/signup [post]
func (h *AuthHandler) SignUp(c *gin.Context) {
	var req SignUpRequest
	if !h.bindJSON(c, &req) {
		return
	}

	result, err := h.authService.SignUp(c.Request.Context(), identity.SignUpInput{
		Email:                req.Email,
		Password:             req.Password,
		PasswordConfirmation: req.PasswordConfirmation,
		DisplayName:          req.DisplayName,
		Meta:                 requestMeta(c),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.signedIn(c, result)
	h.Created(c, toAuthResponse(result))
}

// Login godoc
// @Summary      Sign in
// @Description  Authenticate with email and password
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body LoginRequest true "Login credentials"
// @Success      200 {object} dto.Response{data=AuthResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if !h.bindJSON(c, &req) {
		return
	}

	result, err := h.authService.Login(c.Request.Context(), identity.LoginInput{
		Email:    req.Email,
		Password: req.Password,
		Meta:     requestMeta(c),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.signedIn(c, result)
	h.Success(c, toAuthResponse(result))
}

// RefreshToken godoc
// @Summary      Refresh access token
// @Description  Exchange a refresh token, from the body or the refresh_token cookie, for a new pair
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body RefreshTokenRequest false "Refresh token"
// @Success      200 {object} dto.Response{data=AuthResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /auth/refresh [post]
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var req RefreshTokenRequest
	if c.Request.ContentLength > 0 && !h.bindJSON(c, &req) {
		return
	}
	token := strings.TrimSpace(req.RefreshToken)
	if token == "" {
		token, _ = c.Cookie(RefreshTokenCookie)
	}
	if token == "" {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeBadRequest, "Refresh token is required")
		return
	}

	result, err := h.authService.RefreshToken(c.Request.Context(), identity.RefreshTokenInput{
		RefreshToken: token,
		Meta:         requestMeta(c),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.setRefreshCookie(c, result.RefreshToken, result.RefreshTokenExpiresAt)
	if h.sessions != nil {
		store := h.sessions.Get(result.User.ID)
		state := store.State()
		switch {
		case state.User == nil:
			_, _ = store.Dispatch(appstate.SignedIn{User: sessionUser(result.User)})
		case result.User.EmailVerified && !state.User.EmailVerified:
			_, _ = store.Dispatch(appstate.EmailVerified{})
		}
	}
	h.Success(c, toAuthResponse(result))
}

// Logout godoc
// @Summary      Sign out
// @Description  Revoke the current access token and clear the refresh cookie
// @Tags         auth
// @Produce      json
// @Success      200 {object} dto.Response{data=MessageData}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	claims := middleware.GetJWTClaims(c)
	if claims == nil {
		h.Unauthorized(c, "Authentication required")
		return
	}
	userID, err := claims.GetUserUUID()
	if err != nil {
		h.Unauthorized(c, "Invalid user ID in token")
		return
	}

	err = h.authService.Logout(c.Request.Context(), identity.LogoutInput{
		UserID:   userID,
		TokenJTI: claims.ID,
		TokenTTL: claims.GetRemainingTTL(),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.clearRefreshCookie(c)
	if h.sessions != nil {
		if store, ok := h.sessions.Lookup(userID); ok {
			_, _ = store.Dispatch(appstate.SignedOut{})
		}
		h.sessions.Remove(userID)
	}
	h.Success(c, MessageData{Message: "Logged out successfully"})
}

// Me godoc
// @Summary      Get current user
// @Tags         auth
// @Produce      json
// @Success      200 {object} dto.Response{data=UserResponse}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	userID, ok := h.currentUser(c)
	if !ok {
		return
	}
	info, err := h.authService.Me(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toUserResponse(*info))
}

// UpdateProfile godoc
// @Summary      Update auth profile
// @Description  Change the display name or photo url of the signed-in user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body UpdateProfileRequest true "Profile fields"
// @Success      200 {object} dto.Response{data=UserResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /auth/profile [put]
func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	userID, ok := h.currentUser(c)
	if !ok {
		return
	}
	var req UpdateProfileRequest
	if !h.bindJSON(c, &req) {
		return
	}

	info, err := h.authService.UpdateProfile(c.Request.Context(), identity.UpdateProfileInput{
		UserID:      userID,
		DisplayName: req.DisplayName,
		PhotoURL:    req.PhotoURL,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	if h.sessions != nil {
		if store, ok := h.sessions.Lookup(userID); ok {
			_, _ = store.Dispatch(appstate.ProfileUpdated{DisplayName: info.DisplayName, PhotoURL: info.PhotoURL})
		}
	}
	h.Success(c, toUserResponse(*info))
}

// SendVerification godoc
// @Summary      Send verification mail
// @Description  Mail a fresh verification link. Unknown addresses are accepted silently.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body EmailRequest true "Account email"
// @Success      202 {object} dto.Response{data=MessageData}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /auth/verify/send [post]
func (h *AuthHandler) SendVerification(c *gin.Context) {
	var req EmailRequest
	if !h.bindJSON(c, &req) {
		return
	}
	if err := h.authService.SendVerification(c.Request.Context(), req.Email); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Accepted(c, MessageData{Message: "Verification mail sent"})
}

// ConfirmVerification godoc
// @Summary      Confirm email address
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body ConfirmVerificationRequest true "Verification secret"
// @Success      200 {object} dto.Response{data=UserResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /auth/verify/confirm [post]
func (h *AuthHandler) ConfirmVerification(c *gin.Context) {
	var req ConfirmVerificationRequest
	if !h.bindJSON(c, &req) {
		return
	}
	info, err := h.authService.ConfirmVerification(c.Request.Context(), identity.ConfirmVerificationInput{
		Token: req.Token,
		Meta:  requestMeta(c),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	if h.sessions != nil {
		if store, ok := h.sessions.Lookup(info.ID); ok {
			_, _ = store.Dispatch(appstate.EmailVerified{})
		}
	}
	h.Success(c, toUserResponse(*info))
}

// RequestPasswordReset godoc
// @Summary      Request password reset
// @Description  Mail a reset link. Unknown addresses are accepted silently.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body EmailRequest true "Account email"
// @Success      202 {object} dto.Response{data=MessageData}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /auth/password/reset [post]
func (h *AuthHandler) RequestPasswordReset(c *gin.Context) {
	var req EmailRequest
	if !h.bindJSON(c, &req) {
		return
	}
	if err := h.authService.RequestPasswordReset(c.Request.Context(), req.Email, requestMeta(c)); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Accepted(c, MessageData{Message: "If the address is registered a reset link was sent"})
}

// ConfirmPasswordReset godoc
// @Summary      Set a new password
// @Description  Consume a reset secret and set the new password. Every session of the account is revoked.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body ConfirmPasswordResetRequest true "Reset secret and password"
// @Success      200 {object} dto.Response{data=MessageData}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /auth/password/confirm [post]
func (h *AuthHandler) ConfirmPasswordReset(c *gin.Context) {
	var req ConfirmPasswordResetRequest
	if !h.bindJSON(c, &req) {
		return
	}
	err := h.authService.ConfirmPasswordReset(c.Request.Context(), identity.ConfirmPasswordResetInput{
		Token:                req.Token,
		Password:             req.Password,
		PasswordConfirmation: req.PasswordConfirmation,
		Meta:                 requestMeta(c),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, MessageData{Message: "Password changed successfully"})
}

func (h *AuthHandler) signedIn(c *gin.Context, result *identity.LoginResult) {
	h.setRefreshCookie(c, result.RefreshToken, result.RefreshTokenExpiresAt)
	if h.sessions != nil {
		_, _ = h.sessions.Get(result.User.ID).Dispatch(appstate.SignedIn{User: sessionUser(result.User)})
	}
}

func sessionUser(u identity.UserInfo) appstate.User {
	return appstate.User{
		UID:           u.ID,
		Email:         u.Email,
		DisplayName:   u.DisplayName,
		PhotoURL:      u.PhotoURL,
		EmailVerified: u.EmailVerified,
		IsAdmin:       u.IsAdmin,
	}
}

func (h *AuthHandler) setRefreshCookie(c *gin.Context, token string, expiresAt time.Time) {
	maxAge := int(time.Until(expiresAt).Seconds())
	if maxAge <= 0 {
		return
	}
	c.SetSameSite(sameSite(h.cookie.SameSite))
	c.SetCookie(RefreshTokenCookie, token, maxAge, h.cookie.Path, h.cookie.Domain, h.cookie.Secure, true)
}

func (h *AuthHandler) clearRefreshCookie(c *gin.Context) {
	c.SetSameSite(sameSite(h.cookie.SameSite))
	c.SetCookie(RefreshTokenCookie, "", -1, h.cookie.Path, h.cookie.Domain, h.cookie.Secure, true)
}

func sameSite(mode string) http.SameSite {
	switch strings.ToLower(mode) {
	case "strict":
		return http.SameSiteStrictMode
	case "none":
		return http.SameSiteNoneMode
	default:
		return http.SameSiteLaxMode
	}
}
