package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/SAP-F-2025/classroom-service/internal/models"
	"gorm.io/gorm"
)

// ===== SHARED FILTER STRUCTS =====

type CourseFilters struct {
	Status    *models.CourseStatus `json:"status"`
	ClassID   *uint                `json:"class_id"`
	TeacherID *string              `json:"teacher_id"`
	DateFrom  *time.Time           `json:"date_from"`
	DateTo    *time.Time           `json:"date_to"`
	Limit     int                  `json:"limit"`
	Offset    int                  `json:"offset"`
	SortBy    string               `json:"sort_by"`    // "scheduled_at", "title", "created_at"
	SortOrder string               `json:"sort_order"` // "asc", "desc"
}

type EnrollmentFilters struct {
	Status      *models.EnrollmentStatus `json:"status"`
	FormationID *uint                    `json:"formation_id"`
	ClassID     *uint                    `json:"class_id"`
	StudentID   *string                  `json:"student_id"`
	Limit       int                      `json:"limit"`
	Offset      int                      `json:"offset"`
}

type FormationFilters struct {
	Status   *models.FormationStatus `json:"status"`
	Category *string                 `json:"category"`
	Limit    int                     `json:"limit"`
	Offset   int                     `json:"offset"`
}

// ===== SHARED STATISTICS STRUCTS =====

type ClassStats struct {
	TotalCourses     int     `json:"total_courses"`
	CompletedCourses int     `json:"completed_courses"`
	CancelledCourses int     `json:"cancelled_courses"`
	EnrolledStudents int     `json:"enrolled_students"`
	AttendanceRate   float64 `json:"attendance_rate"`
}

type FormationStats struct {
	TotalEnrollments     int     `json:"total_enrollments"`
	ActiveEnrollments    int     `json:"active_enrollments"`
	CompletedEnrollments int     `json:"completed_enrollments"`
	AverageProgress      float64 `json:"average_progress"`
	Revenue              float64 `json:"revenue"`
}

// ===== REPOSITORY AGGREGATE =====

// Repository aggregates the per-entity repositories. Services depend on this
// interface; the Postgres implementation lives in repositories/postgres.
type Repository interface {
	User() UserRepository
	Formation() FormationRepository
	Class() ClassRepository
	Course() CourseRepository
	Enrollment() EnrollmentRepository
	Attendance() AttendanceRepository
	Grade() GradeRepository
	Payment() PaymentRepository
	Notification() NotificationRepository
	Message() MessageRepository
	Ticket() TicketRepository
}

// TransactionRepository is implemented by repositories that can open a
// transaction-scoped Repository view.
type TransactionRepository interface {
	Repository
	Begin(ctx context.Context) (Repository, error)
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// IsNotFoundError reports whether err is the datastore's missing-row error.
func IsNotFoundError(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
