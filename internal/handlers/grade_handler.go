package handlers

import (
	"net/http"

	"github.com/SAP-F-2025/classroom-service/internal/services"
	"github.com/SAP-F-2025/classroom-service/internal/utils"
	"github.com/gin-gonic/gin"
)

type GradeHandler struct {
	BaseHandler
	gradeService  services.GradeService
	reportService services.ReportService
}

func NewGradeHandler(gradeService services.GradeService, reportService services.ReportService, logger utils.Logger) *GradeHandler {
	return &GradeHandler{
		BaseHandler:   NewBaseHandler(logger),
		gradeService:  gradeService,
		reportService: reportService,
	}
}

// RecordGrade records a grade for a student in a course
// @Summary Record grade
// @Tags grades
// @Accept json
// @Produce json
// @Param grade body services.RecordGradeRequest true "Grade data"
// @Success 201 {object} models.Grade
// @Failure 403 {object} ErrorResponse
// @Router /grades [post]
func (h *GradeHandler) RecordGrade(c *gin.Context) {
	var req services.RecordGradeRequest
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

	grade, err := h.gradeService.Record(c.Request.Context(), user, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, grade)
}

// UpdateGrade updates a recorded grade
// @Summary Update grade
// @Tags grades
// @Accept json
// @Produce json
// @Param id path uint true "Grade ID"
// @Success 200 {object} models.Grade
// @Failure 403 {object} ErrorResponse
// @Router /grades/{id} [put]
func (h *GradeHandler) UpdateGrade(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	var req services.UpdateGradeRequest
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

	grade, err := h.gradeService.Update(c.Request.Context(), user, id, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, grade)
}

// DeleteGrade removes a recorded grade
// @Summary Delete grade
// @Tags grades
// @Produce json
// @Param id path uint true "Grade ID"
// @Success 200 {object} SuccessResponse
// @Failure 403 {object} ErrorResponse
// @Router /grades/{id} [delete]
func (h *GradeHandler) DeleteGrade(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	user, ok := currentUser(c)
	if !ok {
		return
	}

	if err := h.gradeService.Delete(c.Request.Context(), user, id); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Message: "Grade deleted",
	})
}

// ListCourseGrades lists the grades recorded for a course
// @Summary List course grades
// @Tags grades
// @Produce json
// @Param id path uint true "Course ID"
// @Success 200 {object} SuccessResponse
// @Failure 403 {object} ErrorResponse
// @Router /courses/{id}/grades [get]
func (h *GradeHandler) ListCourseGrades(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	user, ok := currentUser(c)
	if !ok {
		return
	}

	grades, err := h.gradeService.ListByCourse(c.Request.Context(), user, id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"grades": grades,
	})
}

// ListStudentGrades lists a student's grades
// @Summary List student grades
// @Tags grades
// @Produce json
// @Param student_id path string true "Student ID"
// @Success 200 {object} SuccessResponse
// @Failure 403 {object} ErrorResponse
// @Router /grades/student/{student_id} [get]
func (h *GradeHandler) ListStudentGrades(c *gin.Context) {
	studentID := c.Param("student_id")
	if studentID == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid student_id",
		})
		return
	}

	user, ok := currentUser(c)
	if !ok {
		return
	}

	limit, offset := parseLimitOffset(c)

	grades, err := h.gradeService.ListByStudent(c.Request.Context(), user, studentID, limit, offset)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"grades": grades,
	})
}

// ExportAttendanceReport downloads the attendance sheet for a course
// @Summary Export attendance report
// @Tags reports
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param id path uint true "Course ID"
// @Success 200 {file} binary
// @Failure 403 {object} ErrorResponse
// @Router /courses/{id}/reports/attendance [get]
func (h *GradeHandler) ExportAttendanceReport(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	user, ok := currentUser(c)
	if !ok {
		return
	}

	data, err := h.reportService.ExportCourseAttendance(c.Request.Context(), user, id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.Header("Content-Disposition", "attachment; filename=attendance.xlsx")
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}

// ExportGradeReport downloads the grade sheet for a course
// @Summary Export grade report
// @Tags reports
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param id path uint true "Course ID"
// @Success 200 {file} binary
// @Failure 403 {object} ErrorResponse
// @Router /courses/{id}/reports/grades [get]
func (h *GradeHandler) ExportGradeReport(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	user, ok := currentUser(c)
	if !ok {
		return
	}

	data, err := h.reportService.ExportCourseGrades(c.Request.Context(), user, id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.Header("Content-Disposition", "attachment; filename=grades.xlsx")
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}
