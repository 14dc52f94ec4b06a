package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/ideation/backend/internal/application/player"
)

// PlayerHandler handles player profiles
type PlayerHandler struct {
	BaseHandler
	players PlayerService
}

// NewPlayerHandler creates a new player handler
func NewPlayerHandler(players PlayerService) *PlayerHandler {
	return &PlayerHandler{players: players}
}

// List godoc
// @Summary      List players
// @Description  Short profiles for the tag picker, ordered by display name
// @Tags         players
// @Produce      json
// @Success      200 {object} dto.Response{data=[]player.SummaryResponse}
// @Security     BearerAuth
// @Router       /players [get]
func (h *PlayerHandler) List(c *gin.Context) {
	players, err := h.players.List(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, players)
}

// Get godoc
// @Summary      Get a player profile
// @Description  Email and settings are only included for the caller's own profile
// @Tags         players
// @Produce      json
// @Param        id path string true "Player ID" format(uuid)
// @Success      200 {object} dto.Response{data=player.ProfileResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /players/{id} [get]
func (h *PlayerHandler) Get(c *gin.Context) {
	userID, ok := h.currentUser(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	profile, err := h.players.Get(c.Request.Context(), userID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, profile)
}

// UpdateMe godoc
// @Summary      Update own profile
// @Tags         players
// @Accept       json
// @Produce      json
// @Param        request body player.UpdateMeRequest true "Changed fields"
// @Success      200 {object} dto.Response{data=player.ProfileResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /players/me [put]
func (h *PlayerHandler) UpdateMe(c *gin.Context) {
	userID, ok := h.currentUser(c)
	if !ok {
		return
	}
	var req player.UpdateMeRequest
	if !h.bindJSON(c, &req) {
		return
	}
	profile, err := h.players.UpdateMe(c.Request.Context(), userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, profile)
}

// RequestPictureUpload godoc
// @Summary      Presigned profile picture upload
// @Tags         players
// @Accept       json
// @Produce      json
// @Param        request body player.PictureUploadRequest true "Image content type"
// @Success      201 {object} dto.Response{data=media.UploadTicket}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      503 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /players/me/picture [post]
func (h *PlayerHandler) RequestPictureUpload(c *gin.Context) {
	userID, ok := h.currentUser(c)
	if !ok {
		return
	}
	var req player.PictureUploadRequest
	if !h.bindJSON(c, &req) {
		return
	}
	ticket, err := h.players.RequestPictureUpload(c.Request.Context(), userID, req.ContentType)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, ticket)
}
