package handlers

import (
	"net/http"

	"github.com/SAP-F-2025/classroom-service/internal/models"
	"github.com/SAP-F-2025/classroom-service/internal/services"
	"github.com/SAP-F-2025/classroom-service/internal/utils"
	"github.com/gin-gonic/gin"
)

type PresenceHandler struct {
	BaseHandler
	presenceService services.PresenceService
}

func NewPresenceHandler(presenceService services.PresenceService, logger utils.Logger) *PresenceHandler {
	return &PresenceHandler{
		BaseHandler:     NewBaseHandler(logger),
		presenceService: presenceService,
	}
}

// Connect registers the authenticated user on the online rosters
// @Summary Connect to presence
// @Tags presence
// @Produce json
// @Success 200 {object} SuccessResponse
// @Router /presence/connect [post]
func (h *PresenceHandler) Connect(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	if err := h.presenceService.Connect(c.Request.Context(), user); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Message: "Connected",
	})
}

// Disconnect removes the authenticated user from the online rosters
// @Summary Disconnect from presence
// @Tags presence
// @Produce json
// @Success 200 {object} SuccessResponse
// @Router /presence/disconnect [post]
func (h *PresenceHandler) Disconnect(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	if err := h.presenceService.Disconnect(c.Request.Context(), user); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Message: "Disconnected",
	})
}

// Heartbeat re-asserts the user's presence membership
// @Summary Presence heartbeat
// @Tags presence
// @Produce json
// @Success 200 {object} SuccessResponse
// @Router /presence/heartbeat [post]
func (h *PresenceHandler) Heartbeat(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	if err := h.presenceService.Heartbeat(c.Request.Context(), user); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Message: "OK",
	})
}

// ListOnline lists currently online users, optionally filtered by role
// @Summary List online users
// @Tags presence
// @Produce json
// @Success 200 {object} SuccessResponse
// @Router /presence/online [get]
func (h *PresenceHandler) ListOnline(c *gin.Context) {
	var members []string
	var err error

	if role := c.Query("role"); role != "" {
		members, err = h.presenceService.OnlineByRole(c.Request.Context(), models.UserRole(role))
	} else {
		members, err = h.presenceService.OnlineUsers(c.Request.Context())
	}
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"online": members,
		"count":  len(members),
	})
}
