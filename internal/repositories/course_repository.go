package repositories

import (
	"context"
	"time"

	"github.com/SAP-F-2025/classroom-service/internal/models"
)

// CourseRepository manages scheduled sessions.
type CourseRepository interface {
	Create(ctx context.Context, course *models.Course) error
	GetByID(ctx context.Context, id uint) (*models.Course, error)
	Update(ctx context.Context, course *models.Course) error
	Delete(ctx context.Context, id uint) error // Soft delete
	List(ctx context.Context, filters CourseFilters) ([]*models.Course, int64, error)
	ListByClass(ctx context.Context, classID uint) ([]*models.Course, error)

	ExistsByID(ctx context.Context, id uint) (bool, error)

	// IsClassTeacher reports whether the teacher teaches at least one course
	// in the class. Used by the class channel predicate.
	IsClassTeacher(ctx context.Context, teacherID string, classID uint) (bool, error)

	GetUpcoming(ctx context.Context, teacherID string, from time.Time, limit int) ([]*models.Course, error)
}

// AttendanceRepository keeps one record per (student, course).
type AttendanceRepository interface {
	Create(ctx context.Context, attendance *models.Attendance) error
	GetByStudentAndCourse(ctx context.Context, studentID string, courseID uint) (*models.Attendance, error)
	Update(ctx context.Context, attendance *models.Attendance) error
	ListByCourse(ctx context.Context, courseID uint) ([]*models.Attendance, error)
	ListByStudent(ctx context.Context, studentID string, limit, offset int) ([]*models.Attendance, error)
}

// GradeRepository manages scored assessments.
type GradeRepository interface {
	Create(ctx context.Context, grade *models.Grade) error
	GetByID(ctx context.Context, id uint) (*models.Grade, error)
	Update(ctx context.Context, grade *models.Grade) error
	Delete(ctx context.Context, id uint) error
	ListByCourse(ctx context.Context, courseID uint) ([]*models.Grade, error)
	ListByStudent(ctx context.Context, studentID string, limit, offset int) ([]*models.Grade, error)
}
