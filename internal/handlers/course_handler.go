package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/SAP-F-2025/classroom-service/internal/models"
	"github.com/SAP-F-2025/classroom-service/internal/repositories"
	"github.com/SAP-F-2025/classroom-service/internal/services"
	"github.com/SAP-F-2025/classroom-service/internal/utils"
	"github.com/gin-gonic/gin"
)

type CourseHandler struct {
	BaseHandler
	courseService services.CourseService
}

func NewCourseHandler(courseService services.CourseService, logger utils.Logger) *CourseHandler {
	return &CourseHandler{
		BaseHandler:   NewBaseHandler(logger),
		courseService: courseService,
	}
}

// CreateCourse schedules a new session
// @Summary Create course
// @Tags courses
// @Accept json
// @Produce json
// @Param course body services.CreateCourseRequest true "Course data"
// @Success 201 {object} models.Course
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Router /courses [post]
func (h *CourseHandler) CreateCourse(c *gin.Context) {
	var req services.CreateCourseRequest
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

	course, err := h.courseService.Create(c.Request.Context(), user, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, course)
}

// GetCourse retrieves a course by ID
// @Summary Get course
// @Tags courses
// @Produce json
// @Param id path uint true "Course ID"
// @Success 200 {object} models.Course
// @Failure 404 {object} ErrorResponse
// @Router /courses/{id} [get]
func (h *CourseHandler) GetCourse(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	course, err := h.courseService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, course)
}

// ListCourses lists courses with filtering
// @Summary List courses
// @Tags courses
// @Produce json
// @Success 200 {object} SuccessResponse
// @Router /courses [get]
func (h *CourseHandler) ListCourses(c *gin.Context) {
	filters := repositories.CourseFilters{
		SortBy:    c.DefaultQuery("sort_by", "scheduled_at"),
		SortOrder: c.DefaultQuery("sort_order", "asc"),
	}
	filters.Limit, filters.Offset = parseLimitOffset(c)

	if status := c.Query("status"); status != "" {
		s := models.CourseStatus(status)
		filters.Status = &s
	}
	if classID := h.parseOptionalID(c, "class_id"); classID != nil {
		filters.ClassID = classID
	}
	if teacherID := c.Query("teacher_id"); teacherID != "" {
		filters.TeacherID = &teacherID
	}

	courses, total, err := h.courseService.List(c.Request.Context(), filters)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"courses": courses,
		"total":   total,
		"limit":   filters.Limit,
		"offset":  filters.Offset,
	})
}

// StartCourse transitions a scheduled course to live
// @Summary Start course
// @Tags courses
// @Produce json
// @Param id path uint true "Course ID"
// @Success 200 {object} models.Course
// @Failure 403 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /courses/{id}/start [post]
func (h *CourseHandler) StartCourse(c *gin.Context) {
	h.runTransition(c, h.courseService.Start)
}

// CompleteCourse transitions a course to completed
// @Summary Complete course
// @Tags courses
// @Produce json
// @Param id path uint true "Course ID"
// @Success 200 {object} models.Course
// @Failure 409 {object} ErrorResponse
// @Router /courses/{id}/complete [post]
func (h *CourseHandler) CompleteCourse(c *gin.Context) {
	h.runTransition(c, h.courseService.Complete)
}

// CancelCourse cancels a course with an optional reason
// @Summary Cancel course
// @Tags courses
// @Accept json
// @Produce json
// @Param id path uint true "Course ID"
// @Success 200 {object} models.Course
// @Failure 409 {object} ErrorResponse
// @Router /courses/{id}/cancel [post]
func (h *CourseHandler) CancelCourse(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	var body struct {
		Reason *string `json:"reason"`
	}
	// Body is optional for cancellation.
	_ = c.ShouldBindJSON(&body)

	user, ok := currentUser(c)
	if !ok {
		return
	}

	course, err := h.courseService.Cancel(c.Request.Context(), user, id, body.Reason)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, course)
}

// RescheduleCourse moves a course to a new time
// @Summary Reschedule course
// @Tags courses
// @Accept json
// @Produce json
// @Param id path uint true "Course ID"
// @Success 200 {object} models.Course
// @Failure 409 {object} ErrorResponse
// @Router /courses/{id}/reschedule [post]
func (h *CourseHandler) RescheduleCourse(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	var body struct {
		ScheduledAt time.Time `json:"scheduled_at" binding:"required"`
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

	course, err := h.courseService.Reschedule(c.Request.Context(), user, id, body.ScheduledAt)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, course)
}

// JoinCourse checks the join window and records attendance
// @Summary Join course
// @Tags courses
// @Produce json
// @Param id path uint true "Course ID"
// @Success 200 {object} models.Attendance
// @Failure 403 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse
// @Router /courses/{id}/join [post]
func (h *CourseHandler) JoinCourse(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	user, ok := currentUser(c)
	if !ok {
		return
	}

	h.LogRequest(c, "Joining course", "course_id", id)

	attendance, err := h.courseService.Join(c.Request.Context(), user, id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Message: "Joined course",
		Data:    attendance,
	})
}

// CheckOutCourse stamps the attendance check-out
// @Summary Check out of course
// @Tags courses
// @Produce json
// @Param id path uint true "Course ID"
// @Success 200 {object} models.Attendance
// @Router /courses/{id}/checkout [post]
func (h *CourseHandler) CheckOutCourse(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	user, ok := currentUser(c)
	if !ok {
		return
	}

	attendance, err := h.courseService.CheckOut(c.Request.Context(), user, id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, attendance)
}

func (h *CourseHandler) runTransition(c *gin.Context, fn func(ctx context.Context, principal *models.User, courseID uint) (*models.Course, error)) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	user, ok := currentUser(c)
	if !ok {
		return
	}

	course, err := fn(c.Request.Context(), user, id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, course)
}
