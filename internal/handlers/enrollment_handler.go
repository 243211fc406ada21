package handlers

import (
	"net/http"

	"github.com/SAP-F-2025/classroom-service/internal/models"
	"github.com/SAP-F-2025/classroom-service/internal/repositories"
	"github.com/SAP-F-2025/classroom-service/internal/services"
	"github.com/SAP-F-2025/classroom-service/internal/utils"
	"github.com/gin-gonic/gin"
)

type EnrollmentHandler struct {
	BaseHandler
	enrollmentService services.EnrollmentService
}

func NewEnrollmentHandler(enrollmentService services.EnrollmentService, logger utils.Logger) *EnrollmentHandler {
	return &EnrollmentHandler{
		BaseHandler:       NewBaseHandler(logger),
		enrollmentService: enrollmentService,
	}
}

// Enroll enrolls the authenticated student in a formation
// @Summary Enroll in formation
// @Tags enrollments
// @Accept json
// @Produce json
// @Param enrollment body services.EnrollRequest true "Enrollment data"
// @Success 201 {object} models.Enrollment
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /enrollments [post]
func (h *EnrollmentHandler) Enroll(c *gin.Context) {
	var req services.EnrollRequest
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

	h.LogRequest(c, "Enrolling student", "formation_id", req.FormationID)

	enrollment, err := h.enrollmentService.Enroll(c.Request.Context(), user, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, enrollment)
}

// GetEnrollment retrieves an enrollment by ID
// @Summary Get enrollment
// @Tags enrollments
// @Produce json
// @Param id path uint true "Enrollment ID"
// @Success 200 {object} models.Enrollment
// @Failure 404 {object} ErrorResponse
// @Router /enrollments/{id} [get]
func (h *EnrollmentHandler) GetEnrollment(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	user, ok := currentUser(c)
	if !ok {
		return
	}

	enrollment, err := h.enrollmentService.GetByID(c.Request.Context(), user, id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, enrollment)
}

// ListEnrollments lists enrollments; students only see their own
// @Summary List enrollments
// @Tags enrollments
// @Produce json
// @Success 200 {object} SuccessResponse
// @Router /enrollments [get]
func (h *EnrollmentHandler) ListEnrollments(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var filters repositories.EnrollmentFilters
	filters.Limit, filters.Offset = parseLimitOffset(c)

	if status := c.Query("status"); status != "" {
		s := models.EnrollmentStatus(status)
		filters.Status = &s
	}
	if formationID := h.parseOptionalID(c, "formation_id"); formationID != nil {
		filters.FormationID = formationID
	}
	if classID := h.parseOptionalID(c, "class_id"); classID != nil {
		filters.ClassID = classID
	}
	if studentID := c.Query("student_id"); studentID != "" {
		filters.StudentID = &studentID
	}

	enrollments, total, err := h.enrollmentService.List(c.Request.Context(), user, filters)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"enrollments": enrollments,
		"total":       total,
		"limit":       filters.Limit,
		"offset":      filters.Offset,
	})
}

// Withdraw suspends an enrollment and releases its seat
// @Summary Withdraw from enrollment
// @Tags enrollments
// @Produce json
// @Param id path uint true "Enrollment ID"
// @Success 200 {object} SuccessResponse
// @Failure 404 {object} ErrorResponse
// @Router /enrollments/{id} [delete]
func (h *EnrollmentHandler) Withdraw(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	user, ok := currentUser(c)
	if !ok {
		return
	}

	if err := h.enrollmentService.Withdraw(c.Request.Context(), user, id); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Message: "Enrollment withdrawn",
	})
}

// UpdateProgress updates the enrollment progress percentage
// @Summary Update enrollment progress
// @Tags enrollments
// @Accept json
// @Produce json
// @Param id path uint true "Enrollment ID"
// @Success 200 {object} models.Enrollment
// @Failure 400 {object} ErrorResponse
// @Router /enrollments/{id}/progress [put]
func (h *EnrollmentHandler) UpdateProgress(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	var body struct {
		Progress float64 `json:"progress" binding:"min=0,max=100"`
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

	enrollment, err := h.enrollmentService.UpdateProgress(c.Request.Context(), user, id, body.Progress)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, enrollment)
}
