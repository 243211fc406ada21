package services

import (
	"context"
	"fmt"

	"github.com/SAP-F-2025/classroom-service/internal/models"
	"github.com/SAP-F-2025/classroom-service/internal/repositories"
	"github.com/SAP-F-2025/classroom-service/internal/utils"
	"github.com/xuri/excelize/v2"
)

// ReportService exports attendance and grade sheets. Access follows the
// analytics rule: the owning teacher or an admin, never students.
type ReportService interface {
	ExportCourseAttendance(ctx context.Context, principal *models.User, courseID uint) ([]byte, error)
	ExportCourseGrades(ctx context.Context, principal *models.User, courseID uint) ([]byte, error)
}

type reportService struct {
	repo   repositories.Repository
	logger utils.Logger
}

func NewReportService(repo repositories.Repository, logger utils.Logger) ReportService {
	return &reportService{
		repo:   repo,
		logger: logger,
	}
}

func (s *reportService) ExportCourseAttendance(ctx context.Context, principal *models.User, courseID uint) ([]byte, error) {
	course, err := s.authorizeCourseReport(ctx, principal, courseID, "export_attendance")
	if err != nil {
		return nil, err
	}

	attendances, err := s.repo.Attendance().ListByCourse(ctx, courseID)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance: %w", err)
	}

	f := excelize.NewFile()
	sheetName := "Attendance"

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to create Excel sheet: %w", err)
	}
	f.SetActiveSheet(index)

	headers := []string{
		"Student ID", "Status", "Check In", "Check Out", "Duration (min)",
	}
	for i, header := range headers {
		cell := fmt.Sprintf("%c1", 'A'+i)
		f.SetCellValue(sheetName, cell, header)
	}

	for rowIndex, attendance := range attendances {
		row := attendanceRow(attendance)
		for colIndex, value := range row {
			cell := fmt.Sprintf("%c%d", 'A'+colIndex, rowIndex+2)
			f.SetCellValue(sheetName, cell, value)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write Excel file: %w", err)
	}

	s.logger.Info("Attendance report exported", "course_id", course.ID, "rows", len(attendances))
	return buf.Bytes(), nil
}

func (s *reportService) ExportCourseGrades(ctx context.Context, principal *models.User, courseID uint) ([]byte, error) {
	course, err := s.authorizeCourseReport(ctx, principal, courseID, "export_grades")
	if err != nil {
		return nil, err
	}

	grades, err := s.repo.Grade().ListByCourse(ctx, courseID)
	if err != nil {
		return nil, fmt.Errorf("failed to list grades: %w", err)
	}

	f := excelize.NewFile()
	sheetName := "Grades"

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to create Excel sheet: %w", err)
	}
	f.SetActiveSheet(index)

	headers := []string{
		"Student ID", "Subject", "Grade", "Max Grade", "Percentage", "Letter", "Mention", "Passing",
	}
	for i, header := range headers {
		cell := fmt.Sprintf("%c1", 'A'+i)
		f.SetCellValue(sheetName, cell, header)
	}

	for rowIndex, grade := range grades {
		row := gradeRow(grade)
		for colIndex, value := range row {
			cell := fmt.Sprintf("%c%d", 'A'+colIndex, rowIndex+2)
			f.SetCellValue(sheetName, cell, value)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write Excel file: %w", err)
	}

	s.logger.Info("Grade report exported", "course_id", course.ID, "rows", len(grades))
	return buf.Bytes(), nil
}

func (s *reportService) authorizeCourseReport(ctx context.Context, principal *models.User, courseID uint, action string) (*models.Course, error) {
	course, err := s.repo.Course().GetByID(ctx, courseID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrCourseNotFound
		}
		return nil, fmt.Errorf("failed to get course: %w", err)
	}

	if course.TeacherID != principal.ID && !principal.IsAdmin() {
		return nil, NewPermissionError(principal.ID, courseID, "course", action, "requires owning teacher or admin")
	}
	return course, nil
}

func attendanceRow(a *models.Attendance) []interface{} {
	checkIn, checkOut := "", ""
	if a.CheckInAt != nil {
		checkIn = a.CheckInAt.Format("2006-01-02 15:04:05")
	}
	if a.CheckOutAt != nil {
		checkOut = a.CheckOutAt.Format("2006-01-02 15:04:05")
	}
	return []interface{}{
		a.StudentID,
		string(a.Status),
		checkIn,
		checkOut,
		int(a.Duration().Minutes()),
	}
}

func gradeRow(g *models.Grade) []interface{} {
	passing := "No"
	if g.IsPassing() {
		passing = "Yes"
	}
	return []interface{}{
		g.StudentID,
		g.Subject,
		g.Grade,
		g.MaxGrade,
		fmt.Sprintf("%.1f%%", g.Percentage()),
		g.Letter(),
		g.Mention(),
		passing,
	}
}
