package handlers

import (
	"net/http"

	"github.com/SAP-F-2025/classroom-service/internal/services"
	"github.com/SAP-F-2025/classroom-service/internal/utils"
	"github.com/gin-gonic/gin"
)

type NotificationHandler struct {
	BaseHandler
	notificationService services.NotificationService
}

func NewNotificationHandler(notificationService services.NotificationService, logger utils.Logger) *NotificationHandler {
	return &NotificationHandler{
		BaseHandler:         NewBaseHandler(logger),
		notificationService: notificationService,
	}
}

// ListNotifications lists the authenticated user's notifications
// @Summary List notifications
// @Tags notifications
// @Produce json
// @Success 200 {object} SuccessResponse
// @Router /notifications [get]
func (h *NotificationHandler) ListNotifications(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	limit, offset := parseLimitOffset(c)
	unreadOnly := c.Query("unread") == "true"

	notifications, err := h.notificationService.List(c.Request.Context(), user, unreadOnly, limit, offset)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"notifications": notifications,
	})
}

// CountUnread returns the unread notification count
// @Summary Count unread notifications
// @Tags notifications
// @Produce json
// @Success 200 {object} SuccessResponse
// @Router /notifications/unread-count [get]
func (h *NotificationHandler) CountUnread(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	count, err := h.notificationService.CountUnread(c.Request.Context(), user)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"unread": count,
	})
}

// MarkNotificationRead marks a notification as read (idempotent)
// @Summary Mark notification as read
// @Tags notifications
// @Produce json
// @Param id path uint true "Notification ID"
// @Success 200 {object} models.Notification
// @Failure 404 {object} ErrorResponse
// @Router /notifications/{id}/read [post]
func (h *NotificationHandler) MarkNotificationRead(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	user, ok := currentUser(c)
	if !ok {
		return
	}

	notification, err := h.notificationService.MarkAsRead(c.Request.Context(), user, id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, notification)
}

// SendMessage sends a direct message to another user
// @Summary Send message
// @Tags messages
// @Accept json
// @Produce json
// @Param message body services.SendMessageRequest true "Message data"
// @Success 201 {object} models.Message
// @Failure 400 {object} ErrorResponse
// @Router /messages [post]
func (h *NotificationHandler) SendMessage(c *gin.Context) {
	var req services.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	user, ok := currentUser(c)
	if !ok {
		return
	}

	message, err := h.notificationService.SendMessage(c.Request.Context(), user, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, message)
}

// MarkMessageRead marks a message as read (idempotent)
// @Summary Mark message as read
// @Tags messages
// @Produce json
// @Param id path uint true "Message ID"
// @Success 200 {object} models.Message
// @Failure 404 {object} ErrorResponse
// @Router /messages/{id}/read [post]
func (h *NotificationHandler) MarkMessageRead(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	user, ok := currentUser(c)
	if !ok {
		return
	}

	message, err := h.notificationService.MarkMessageAsRead(c.Request.Context(), user, id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, message)
}

// GetConversation lists the messages exchanged with another user
// @Summary Get conversation
// @Tags messages
// @Produce json
// @Param user_id path string true "Other user ID"
// @Success 200 {object} SuccessResponse
// @Router /messages/conversation/{user_id} [get]
func (h *NotificationHandler) GetConversation(c *gin.Context) {
	otherUserID := c.Param("user_id")
	if otherUserID == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid user_id",
		})
		return
	}

	user, ok := currentUser(c)
	if !ok {
		return
	}

	limit, offset := parseLimitOffset(c)

	messages, err := h.notificationService.Conversation(c.Request.Context(), user, otherUserID, limit, offset)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"messages": messages,
	})
}
