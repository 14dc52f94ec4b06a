package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/ideation/backend/internal/application/appstate"
	"github.com/ideation/backend/internal/interfaces/http/dto"
)

// NavigateRequest asks to move the session to another view
type NavigateRequest struct {
	To      string    `json:"to" binding:"required"`
	Subject uuid.UUID `json:"subject"`
}

// SessionHandler exposes the caller's session state
type SessionHandler struct {
	BaseHandler
	sessions    *appstate.SessionRegistry
	authService AuthService
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(sessions *appstate.SessionRegistry, authService AuthService) *SessionHandler {
	return &SessionHandler{sessions: sessions, authService: authService}
}

// Get godoc
// @Summary      Current session state
// @Description  The signed-in user snapshot and the current view. A missing session is rebuilt from the account.
// @Tags         session
// @Produce      json
// @Success      200 {object} dto.Response{data=appstate.State}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /session [get]
func (h *SessionHandler) Get(c *gin.Context) {
	store, ok := h.store(c)
	if !ok {
		return
	}
	h.Success(c, store.State())
}

// Navigate godoc
// @Summary      Move to another view
// @Description  Unverified users are held on verify_email and only admins reach admin
// @Tags         session
// @Accept       json
// @Produce      json
// @Param        request body NavigateRequest true "Target view"
// @Success      200 {object} dto.Response{data=appstate.State}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /session/navigate [post]
func (h *SessionHandler) Navigate(c *gin.Context) {
	var req NavigateRequest
	if !h.bindJSON(c, &req) {
		return
	}
	view := appstate.View(req.To)
	if !view.IsValid() {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeInvalidInput, "Unknown view "+req.To)
		return
	}
	store, ok := h.store(c)
	if !ok {
		return
	}
	state, err := store.Dispatch(appstate.Navigate{To: view, Subject: req.Subject})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, state)
}

// store returns the caller's session, signing it in from the account when
// the server has no state for it yet, e.g. after a restart
func (h *SessionHandler) store(c *gin.Context) (*appstate.Store, bool) {
	userID, ok := h.currentUser(c)
	if !ok {
		return nil, false
	}
	store := h.sessions.Get(userID)
	if store.State().User != nil {
		return store, true
	}
	info, err := h.authService.Me(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return nil, false
	}
	if _, err := store.Dispatch(appstate.SignedIn{User: sessionUser(*info)}); err != nil {
		h.HandleError(c, err)
		return nil, false
	}
	return store, true
}
