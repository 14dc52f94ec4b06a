package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/ideation/backend/internal/application/ideation"
)

// VoteHandler handles agree/disagree votes on ideas and solutions
type VoteHandler struct {
	BaseHandler
	votes VoteService
}

// NewVoteHandler creates a new vote handler
func NewVoteHandler(votes VoteService) *VoteHandler {
	return &VoteHandler{votes: votes}
}

// Get godoc
// @Summary      Vote tally of a target
// @Tags         votes
// @Produce      json
// @Param        target path string true "Idea or solution ID" format(uuid)
// @Success      200 {object} dto.Response{data=ideation.VoteResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /votes/{target} [get]
func (h *VoteHandler) Get(c *gin.Context) {
	userID, ok := h.currentUser(c)
	if !ok {
		return
	}
	target, ok := h.pathID(c, "target")
	if !ok {
		return
	}
	tally, err := h.votes.Get(c.Request.Context(), userID, target)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, tally)
}

// Cast godoc
// @Summary      Cast or change a vote
// @Description  One vote per player and target; casting again replaces the value
// @Tags         votes
// @Accept       json
// @Produce      json
// @Param        target  path string                   true "Idea or solution ID" format(uuid)
// @Param        request body ideation.CastVoteRequest true "agree or disagree"
// @Success      200 {object} dto.Response{data=ideation.VoteResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /votes/{target} [put]
func (h *VoteHandler) Cast(c *gin.Context) {
	userID, ok := h.currentUser(c)
	if !ok {
		return
	}
	target, ok := h.pathID(c, "target")
	if !ok {
		return
	}
	var req ideation.CastVoteRequest
	if !h.bindJSON(c, &req) {
		return
	}
	tally, err := h.votes.Cast(c.Request.Context(), userID, target, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, tally)
}

// Retract godoc
// @Summary      Retract a vote
// @Tags         votes
// @Produce      json
// @Param        target path string true "Idea or solution ID" format(uuid)
// @Success      200 {object} dto.Response{data=ideation.VoteResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /votes/{target} [delete]
func (h *VoteHandler) Retract(c *gin.Context) {
	userID, ok := h.currentUser(c)
	if !ok {
		return
	}
	target, ok := h.pathID(c, "target")
	if !ok {
		return
	}
	tally, err := h.votes.Retract(c.Request.Context(), userID, target)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, tally)
}
