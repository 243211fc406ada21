package handlers

import (
	"net/http"

	"github.com/SAP-F-2025/classroom-service/internal/models"
	"github.com/SAP-F-2025/classroom-service/internal/services"
	"github.com/SAP-F-2025/classroom-service/internal/utils"
	"github.com/gin-gonic/gin"
)

type TicketHandler struct {
	BaseHandler
	ticketService services.TicketService
}

func NewTicketHandler(ticketService services.TicketService, logger utils.Logger) *TicketHandler {
	return &TicketHandler{
		BaseHandler:   NewBaseHandler(logger),
		ticketService: ticketService,
	}
}

// CreateTicket opens a support ticket
// @Summary Create support ticket
// @Tags tickets
// @Accept json
// @Produce json
// @Param ticket body services.CreateTicketRequest true "Ticket data"
// @Success 201 {object} models.SupportTicket
// @Failure 400 {object} ErrorResponse
// @Router /tickets [post]
func (h *TicketHandler) CreateTicket(c *gin.Context) {
	var req services.CreateTicketRequest
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

	ticket, err := h.ticketService.Create(c.Request.Context(), user, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, ticket)
}

// GetTicket retrieves a ticket; only the creator or an admin may read it
// @Summary Get support ticket
// @Tags tickets
// @Produce json
// @Param id path uint true "Ticket ID"
// @Success 200 {object} models.SupportTicket
// @Failure 403 {object} ErrorResponse
// @Router /tickets/{id} [get]
func (h *TicketHandler) GetTicket(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	user, ok := currentUser(c)
	if !ok {
		return
	}

	ticket, err := h.ticketService.GetByID(c.Request.Context(), user, id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, ticket)
}

// CloseTicket closes a ticket (idempotent)
// @Summary Close support ticket
// @Tags tickets
// @Produce json
// @Param id path uint true "Ticket ID"
// @Success 200 {object} models.SupportTicket
// @Failure 403 {object} ErrorResponse
// @Router /tickets/{id}/close [post]
func (h *TicketHandler) CloseTicket(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	user, ok := currentUser(c)
	if !ok {
		return
	}

	ticket, err := h.ticketService.Close(c.Request.Context(), user, id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, ticket)
}

// ListMyTickets lists the authenticated user's tickets
// @Summary List own tickets
// @Tags tickets
// @Produce json
// @Success 200 {object} SuccessResponse
// @Router /tickets [get]
func (h *TicketHandler) ListMyTickets(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	limit, offset := parseLimitOffset(c)

	tickets, err := h.ticketService.ListMine(c.Request.Context(), user, limit, offset)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"tickets": tickets,
	})
}

// ListTicketsByStatus lists tickets by status (admin only)
// @Summary List tickets by status
// @Tags tickets
// @Produce json
// @Param status query string true "Ticket status"
// @Success 200 {object} SuccessResponse
// @Failure 403 {object} ErrorResponse
// @Router /tickets/all [get]
func (h *TicketHandler) ListTicketsByStatus(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	status := models.TicketStatus(c.DefaultQuery("status", string(models.TicketOpen)))
	limit, offset := parseLimitOffset(c)

	tickets, err := h.ticketService.ListByStatus(c.Request.Context(), user, status, limit, offset)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"tickets": tickets,
	})
}
