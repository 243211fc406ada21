package services

import (
	"context"
	"fmt"

	"github.com/SAP-F-2025/classroom-service/internal/models"
	"github.com/SAP-F-2025/classroom-service/internal/repositories"
	"github.com/SAP-F-2025/classroom-service/internal/utils"
	"github.com/SAP-F-2025/classroom-service/internal/validator"
)

type GradeService interface {
	Record(ctx context.Context, principal *models.User, req *RecordGradeRequest) (*models.Grade, error)
	Update(ctx context.Context, principal *models.User, gradeID uint, req *UpdateGradeRequest) (*models.Grade, error)
	Delete(ctx context.Context, principal *models.User, gradeID uint) error
	ListByCourse(ctx context.Context, principal *models.User, courseID uint) ([]*models.Grade, error)
	ListByStudent(ctx context.Context, principal *models.User, studentID string, limit, offset int) ([]*models.Grade, error)
}

type RecordGradeRequest struct {
	StudentID string  `json:"student_id" validate:"required"`
	CourseID  uint    `json:"course_id" validate:"required,min=1"`
	Subject   string  `json:"subject" validate:"required,min=1,max=100"`
	Grade     float64 `json:"grade" validate:"min=0"`
	MaxGrade  float64 `json:"max_grade" validate:"required,gt=0"`
	Weight    float64 `json:"weight" validate:"omitempty,min=0,max=100"`
	Comment   *string `json:"comment"`
}

type UpdateGradeRequest struct {
	Grade   *float64 `json:"grade" validate:"omitempty,min=0"`
	Comment *string  `json:"comment"`
}

type gradeService struct {
	repo      repositories.Repository
	logger    utils.Logger
	validator *validator.Validator
}

func NewGradeService(repo repositories.Repository, logger utils.Logger, validator *validator.Validator) GradeService {
	return &gradeService{
		repo:      repo,
		logger:    logger,
		validator: validator,
	}
}

// Record creates a grade for a student in a course. Only the teacher who
// owns the course (or an admin) can grade, and only enrolled students can
// be graded.
func (s *gradeService) Record(ctx context.Context, principal *models.User, req *RecordGradeRequest) (*models.Grade, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}
	if req.Grade > req.MaxGrade {
		return nil, NewValidationError("grade", "grade cannot exceed max_grade", req.Grade)
	}

	course, err := s.repo.Course().GetByID(ctx, req.CourseID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrCourseNotFound
		}
		return nil, fmt.Errorf("failed to get course: %w", err)
	}

	if course.TeacherID != principal.ID && !principal.IsAdmin() {
		return nil, NewPermissionError(principal.ID, req.CourseID, "course", "grade", "not the course teacher")
	}

	enrolled, err := s.repo.Enrollment().HasActiveByClass(ctx, req.StudentID, course.ClassID)
	if err != nil {
		return nil, fmt.Errorf("failed to check enrollment: %w", err)
	}
	if !enrolled {
		return nil, ErrEnrollmentInactive
	}

	weight := req.Weight
	if weight == 0 {
		weight = 100
	}

	grade := &models.Grade{
		StudentID: req.StudentID,
		CourseID:  req.CourseID,
		Subject:   req.Subject,
		Grade:     req.Grade,
		MaxGrade:  req.MaxGrade,
		Weight:    weight,
		Comment:   req.Comment,
		GradedBy:  principal.ID,
	}

	if err := s.repo.Grade().Create(ctx, grade); err != nil {
		return nil, fmt.Errorf("failed to create grade: %w", err)
	}

	s.logger.Info("Grade recorded", "grade_id", grade.ID, "student_id", req.StudentID, "course_id", req.CourseID)
	return grade, nil
}

func (s *gradeService) Update(ctx context.Context, principal *models.User, gradeID uint, req *UpdateGradeRequest) (*models.Grade, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	grade, err := s.repo.Grade().GetByID(ctx, gradeID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get grade: %w", err)
	}

	if grade.GradedBy != principal.ID && !principal.IsAdmin() {
		return nil, NewPermissionError(principal.ID, gradeID, "grade", "update", "not the grading teacher")
	}

	if req.Grade != nil {
		if *req.Grade > grade.MaxGrade {
			return nil, NewValidationError("grade", "grade cannot exceed max_grade", *req.Grade)
		}
		grade.Grade = *req.Grade
	}
	if req.Comment != nil {
		grade.Comment = req.Comment
	}

	if err := s.repo.Grade().Update(ctx, grade); err != nil {
		return nil, fmt.Errorf("failed to update grade: %w", err)
	}
	return grade, nil
}

func (s *gradeService) Delete(ctx context.Context, principal *models.User, gradeID uint) error {
	grade, err := s.repo.Grade().GetByID(ctx, gradeID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to get grade: %w", err)
	}

	if grade.GradedBy != principal.ID && !principal.IsAdmin() {
		return NewPermissionError(principal.ID, gradeID, "grade", "delete", "not the grading teacher")
	}

	if err := s.repo.Grade().Delete(ctx, gradeID); err != nil {
		return fmt.Errorf("failed to delete grade: %w", err)
	}
	return nil
}

func (s *gradeService) ListByCourse(ctx context.Context, principal *models.User, courseID uint) ([]*models.Grade, error) {
	course, err := s.repo.Course().GetByID(ctx, courseID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrCourseNotFound
		}
		return nil, fmt.Errorf("failed to get course: %w", err)
	}

	if course.TeacherID != principal.ID && !principal.IsAdmin() {
		return nil, NewPermissionError(principal.ID, courseID, "course", "list_grades", "not the course teacher")
	}

	grades, err := s.repo.Grade().ListByCourse(ctx, courseID)
	if err != nil {
		return nil, fmt.Errorf("failed to list grades: %w", err)
	}
	return grades, nil
}

// ListByStudent lets students read their own grades; teachers and admins
// can read anyone's.
func (s *gradeService) ListByStudent(ctx context.Context, principal *models.User, studentID string, limit, offset int) ([]*models.Grade, error) {
	if principal.IsStudent() && principal.ID != studentID {
		return nil, NewPermissionError(principal.ID, 0, "grades", "list", "students may only read their own grades")
	}
	if limit <= 0 || limit > 100 {
		limit = 50
	}

	grades, err := s.repo.Grade().ListByStudent(ctx, studentID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list grades: %w", err)
	}
	return grades, nil
}
