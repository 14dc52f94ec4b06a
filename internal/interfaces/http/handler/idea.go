package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/ideation/backend/internal/application/ideation"
	"github.com/ideation/backend/internal/application/media"
)

// ImageUploadRequest asks for a presigned upload of an idea image
type ImageUploadRequest struct {
	ContentType string `json:"content_type" binding:"required"`
}

// IdeaHandler handles ideas and the comments and evaluations attached to them
type IdeaHandler struct {
	BaseHandler
	ideas       IdeaService
	comments    CommentService
	evaluations EvaluationService
	uploads     UploadService
}

// NewIdeaHandler creates a new idea handler
func NewIdeaHandler(ideas IdeaService, comments CommentService, evaluations EvaluationService, uploads UploadService) *IdeaHandler {
	return &IdeaHandler{
		ideas:       ideas,
		comments:    comments,
		evaluations: evaluations,
		uploads:     uploads,
	}
}

// List godoc
// @Summary      List ideas
// @Description  Newest ideas first
// @Tags         ideas
// @Produce      json
// @Param        page      query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20) maximum(100)
// @Success      200 {object} dto.Response{data=[]ideation.IdeaResponse,meta=dto.Meta}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /ideas [get]
func (h *IdeaHandler) List(c *gin.Context) {
	filter, ok := h.listFilter(c)
	if !ok {
		return
	}
	result, err := h.ideas.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.PageSize)
}

// Create godoc
// @Summary      Submit an idea
// @Description  The idea gets the next sequential number. Tagged players are notified.
// @Tags         ideas
// @Accept       json
// @Produce      json
// @Param        request body ideation.CreateIdeaRequest true "Idea"
// @Success      201 {object} dto.Response{data=ideation.IdeaResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /ideas [post]
func (h *IdeaHandler) Create(c *gin.Context) {
	userID, ok := h.currentUser(c)
	if !ok {
		return
	}
	var req ideation.CreateIdeaRequest
	if !h.bindJSON(c, &req) {
		return
	}
	idea, err := h.ideas.Create(c.Request.Context(), userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, idea)
}

// Get godoc
// @Summary      Get an idea
// @Tags         ideas
// @Produce      json
// @Param        id path string true "Idea ID" format(uuid)
// @Success      200 {object} dto.Response{data=ideation.IdeaResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /ideas/{id} [get]
func (h *IdeaHandler) Get(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	idea, err := h.ideas.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, idea)
}

// Update godoc
// @Summary      Edit an idea
// @Description  Only the creator may edit. Omitted fields are left unchanged.
// @Tags         ideas
// @Accept       json
// @Produce      json
// @Param        id      path string                     true "Idea ID" format(uuid)
// @Param        request body ideation.UpdateIdeaRequest true "Changed fields"
// @Success      200 {object} dto.Response{data=ideation.IdeaResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /ideas/{id} [put]
func (h *IdeaHandler) Update(c *gin.Context) {
	userID, ok := h.currentUser(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req ideation.UpdateIdeaRequest
	if !h.bindJSON(c, &req) {
		return
	}
	idea, err := h.ideas.Update(c.Request.Context(), userID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, idea)
}

// Approve godoc
// @Summary      Approve an idea
// @Description  Only the creator may approve
// @Tags         ideas
// @Produce      json
// @Param        id path string true "Idea ID" format(uuid)
// @Success      200 {object} dto.Response{data=ideation.IdeaResponse}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /ideas/{id}/approve [post]
func (h *IdeaHandler) Approve(c *gin.Context) {
	userID, ok := h.currentUser(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	idea, err := h.ideas.Approve(c.Request.Context(), userID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, idea)
}

// ListComments godoc
// @Summary      List comments of an idea
// @Tags         comments
// @Produce      json
// @Param        id path string true "Idea ID" format(uuid)
// @Success      200 {object} dto.Response{data=[]ideation.CommentResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /ideas/{id}/comments [get]
func (h *IdeaHandler) ListComments(c *gin.Context) {
	ideaID, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	comments, err := h.comments.ListByIdea(c.Request.Context(), ideaID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, comments)
}

// CreateComment godoc
// @Summary      Comment on an idea
// @Tags         comments
// @Accept       json
// @Produce      json
// @Param        id      path string                        true "Idea ID" format(uuid)
// @Param        request body ideation.CreateCommentRequest true "Comment"
// @Success      201 {object} dto.Response{data=ideation.CommentResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /ideas/{id}/comments [post]
func (h *IdeaHandler) CreateComment(c *gin.Context) {
	userID, ok := h.currentUser(c)
	if !ok {
		return
	}
	ideaID, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req ideation.CreateCommentRequest
	if !h.bindJSON(c, &req) {
		return
	}
	comment, err := h.comments.Create(c.Request.Context(), userID, ideaID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, comment)
}

// UpdateComment godoc
// @Summary      Edit a comment
// @Description  Only the author may edit
// @Tags         comments
// @Accept       json
// @Produce      json
// @Param        id      path string                        true "Comment ID" format(uuid)
// @Param        request body ideation.UpdateCommentRequest true "Comment"
// @Success      200 {object} dto.Response{data=ideation.CommentResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /comments/{id} [put]
func (h *IdeaHandler) UpdateComment(c *gin.Context) {
	userID, ok := h.currentUser(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req ideation.UpdateCommentRequest
	if !h.bindJSON(c, &req) {
		return
	}
	comment, err := h.comments.Update(c.Request.Context(), userID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, comment)
}

// GetEvaluations godoc
// @Summary      Evaluation summary of an idea
// @Description  Every evaluation with the per-category counts
// @Tags         evaluations
// @Produce      json
// @Param        id path string true "Idea ID" format(uuid)
// @Success      200 {object} dto.Response{data=ideation.EvaluationSummary}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /ideas/{id}/evaluations [get]
func (h *IdeaHandler) GetEvaluations(c *gin.Context) {
	ideaID, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	summary, err := h.evaluations.Summary(c.Request.Context(), ideaID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, summary)
}

// SubmitEvaluation godoc
// @Summary      Evaluate an idea
// @Description  Creates or replaces the caller's evaluation
// @Tags         evaluations
// @Accept       json
// @Produce      json
// @Param        id      path string                           true "Idea ID" format(uuid)
// @Param        request body ideation.SubmitEvaluationRequest true "Impact and feasibility"
// @Success      200 {object} dto.Response{data=ideation.EvaluationResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /ideas/{id}/evaluations [put]
func (h *IdeaHandler) SubmitEvaluation(c *gin.Context) {
	userID, ok := h.currentUser(c)
	if !ok {
		return
	}
	ideaID, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req ideation.SubmitEvaluationRequest
	if !h.bindJSON(c, &req) {
		return
	}
	evaluation, err := h.evaluations.Submit(c.Request.Context(), userID, ideaID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, evaluation)
}

// RequestImageUpload godoc
// @Summary      Presigned idea image upload
// @Description  PUT the image to upload_url, then store public_url as the idea's image_ref
// @Tags         ideas
// @Accept       json
// @Produce      json
// @Param        request body ImageUploadRequest true "Image content type"
// @Success      201 {object} dto.Response{data=media.UploadTicket}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      503 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /ideas/images/upload-url [post]
func (h *IdeaHandler) RequestImageUpload(c *gin.Context) {
	userID, ok := h.currentUser(c)
	if !ok {
		return
	}
	var req ImageUploadRequest
	if !h.bindJSON(c, &req) {
		return
	}
	ticket, err := h.uploads.RequestUpload(c.Request.Context(), media.KindIdeaImage, userID, req.ContentType)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, ticket)
}
