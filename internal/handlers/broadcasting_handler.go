package handlers

import (
	"net/http"

	"github.com/SAP-F-2025/classroom-service/internal/channels"
	"github.com/SAP-F-2025/classroom-service/internal/utils"
	"github.com/gin-gonic/gin"
)

type BroadcastingHandler struct {
	BaseHandler
	authorizer *channels.Authorizer
}

func NewBroadcastingHandler(authorizer *channels.Authorizer, logger utils.Logger) *BroadcastingHandler {
	return &BroadcastingHandler{
		BaseHandler: NewBaseHandler(logger),
		authorizer:  authorizer,
	}
}

type broadcastingAuthRequest struct {
	ChannelName string `json:"channel_name" binding:"required"`
	SocketID    string `json:"socket_id"`
}

// Authorize decides a channel subscription. A grant returns the subscriber
// identity payload; anything else is a 403 with no detail about why.
// @Summary Authorize channel subscription
// @Tags broadcasting
// @Accept json
// @Produce json
// @Param request body broadcastingAuthRequest true "Channel auth request"
// @Success 200 {object} channels.Decision
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Router /broadcasting/auth [post]
func (h *BroadcastingHandler) Authorize(c *gin.Context) {
	var req broadcastingAuthRequest
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

	decision := h.authorizer.Authorize(c.Request.Context(), user, req.ChannelName)
	if !decision.Granted {
		c.JSON(http.StatusForbidden, ErrorResponse{
			Message: "Channel subscription denied",
		})
		return
	}

	c.JSON(http.StatusOK, decision)
}
