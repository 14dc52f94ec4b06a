package handler

import (
	"github.com/gin-gonic/gin"
)

// NotificationHandler handles the caller's notification inbox
type NotificationHandler struct {
	BaseHandler
	notifications NotificationService
}

// NewNotificationHandler creates a new notification handler
func NewNotificationHandler(notifications NotificationService) *NotificationHandler {
	return &NotificationHandler{notifications: notifications}
}

// List godoc
// @Summary      List notifications
// @Description  Newest first
// @Tags         notifications
// @Produce      json
// @Param        unread    query bool false "Only unread notifications"
// @Param        page      query int  false "Page number" default(1)
// @Param        page_size query int  false "Page size" default(20) maximum(100)
// @Success      200 {object} dto.Response{data=[]notification.NotificationResponse,meta=dto.Meta}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /notifications [get]
func (h *NotificationHandler) List(c *gin.Context) {
	userID, ok := h.currentUser(c)
	if !ok {
		return
	}
	filter, ok := h.listFilter(c)
	if !ok {
		return
	}
	unread := c.Query("unread") == "true"

	result, err := h.notifications.List(c.Request.Context(), userID, unread, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.PageSize)
}

// UnreadCount godoc
// @Summary      Count unread notifications
// @Tags         notifications
// @Produce      json
// @Success      200 {object} dto.Response{data=CountData}
// @Security     BearerAuth
// @Router       /notifications/unread-count [get]
func (h *NotificationHandler) UnreadCount(c *gin.Context) {
	userID, ok := h.currentUser(c)
	if !ok {
		return
	}
	count, err := h.notifications.UnreadCount(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, CountData{Count: count})
}

// MarkRead godoc
// @Summary      Mark a notification read
// @Tags         notifications
// @Produce      json
// @Param        id path string true "Notification ID" format(uuid)
// @Success      200 {object} dto.Response{data=MessageData}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /notifications/{id}/read [post]
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	userID, ok := h.currentUser(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	if err := h.notifications.MarkRead(c.Request.Context(), userID, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, MessageData{Message: "Notification marked read"})
}

// MarkAllRead godoc
// @Summary      Mark every notification read
// @Tags         notifications
// @Produce      json
// @Success      200 {object} dto.Response{data=CountData}
// @Security     BearerAuth
// @Router       /notifications/read-all [post]
func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	userID, ok := h.currentUser(c)
	if !ok {
		return
	}
	count, err := h.notifications.MarkAllRead(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, CountData{Count: count})
}
