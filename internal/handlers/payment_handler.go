package handlers

import (
	"net/http"

	"github.com/SAP-F-2025/classroom-service/internal/services"
	"github.com/SAP-F-2025/classroom-service/internal/utils"
	"github.com/gin-gonic/gin"
)

type PaymentHandler struct {
	BaseHandler
	paymentService services.PaymentService
}

func NewPaymentHandler(paymentService services.PaymentService, logger utils.Logger) *PaymentHandler {
	return &PaymentHandler{
		BaseHandler:    NewBaseHandler(logger),
		paymentService: paymentService,
	}
}

// CreatePayment opens a pending payment for an enrollment
// @Summary Create payment
// @Tags payments
// @Accept json
// @Produce json
// @Param payment body services.CreatePaymentRequest true "Payment data"
// @Success 201 {object} models.Payment
// @Failure 400 {object} ErrorResponse
// @Router /payments [post]
func (h *PaymentHandler) CreatePayment(c *gin.Context) {
	var req services.CreatePaymentRequest
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

	payment, err := h.paymentService.Create(c.Request.Context(), user, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, payment)
}

// GetPayment retrieves a payment by ID
// @Summary Get payment
// @Tags payments
// @Produce json
// @Param id path uint true "Payment ID"
// @Success 200 {object} models.Payment
// @Failure 404 {object} ErrorResponse
// @Router /payments/{id} [get]
func (h *PaymentHandler) GetPayment(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	user, ok := currentUser(c)
	if !ok {
		return
	}

	payment, err := h.paymentService.GetByID(c.Request.Context(), user, id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, payment)
}

// CompletePayment marks a pending payment as completed (gateway callback)
// @Summary Complete payment
// @Tags payments
// @Produce json
// @Param id path uint true "Payment ID"
// @Success 200 {object} models.Payment
// @Failure 409 {object} ErrorResponse
// @Router /payments/{id}/complete [post]
func (h *PaymentHandler) CompletePayment(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	h.LogRequest(c, "Completing payment", "payment_id", id)

	payment, err := h.paymentService.MarkCompleted(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, payment)
}

// FailPayment marks a pending payment as failed (gateway callback)
// @Summary Fail payment
// @Tags payments
// @Produce json
// @Param id path uint true "Payment ID"
// @Success 200 {object} models.Payment
// @Failure 409 {object} ErrorResponse
// @Router /payments/{id}/fail [post]
func (h *PaymentHandler) FailPayment(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	payment, err := h.paymentService.MarkFailed(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, payment)
}

// RefundPayment refunds a completed payment and cascades onto the enrollment
// @Summary Refund payment
// @Tags payments
// @Accept json
// @Produce json
// @Param id path uint true "Payment ID"
// @Success 200 {object} models.Payment
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Router /payments/{id}/refund [post]
func (h *PaymentHandler) RefundPayment(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	var body struct {
		Amount float64 `json:"amount" binding:"required,gt=0"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
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

	h.LogRequest(c, "Refunding payment", "payment_id", id, "amount", body.Amount)

	payment, err := h.paymentService.Refund(c.Request.Context(), user, id, body.Amount)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, payment)
}
