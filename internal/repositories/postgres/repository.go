package postgres

import (
	"context"
	"fmt"

	"github.com/SAP-F-2025/classroom-service/internal/repositories"
	"gorm.io/gorm"
)

// Repository is the GORM-backed aggregate. A transaction-scoped view is
// produced by Begin; Commit/Rollback only work on such a view.
type Repository struct {
	db   *gorm.DB
	inTx bool
}

func NewRepository(db *gorm.DB) repositories.TransactionRepository {
	return &Repository{db: db}
}

func (r *Repository) User() repositories.UserRepository { return NewUserPostgreSQL(r.db) }
func (r *Repository) Formation() repositories.FormationRepository {
	return NewFormationPostgreSQL(r.db)
}
func (r *Repository) Class() repositories.ClassRepository   { return NewClassPostgreSQL(r.db) }
func (r *Repository) Course() repositories.CourseRepository { return NewCoursePostgreSQL(r.db) }
func (r *Repository) Enrollment() repositories.EnrollmentRepository {
	return NewEnrollmentPostgreSQL(r.db)
}
func (r *Repository) Attendance() repositories.AttendanceRepository {
	return NewAttendancePostgreSQL(r.db)
}
func (r *Repository) Grade() repositories.GradeRepository     { return NewGradePostgreSQL(r.db) }
func (r *Repository) Payment() repositories.PaymentRepository { return NewPaymentPostgreSQL(r.db) }
func (r *Repository) Notification() repositories.NotificationRepository {
	return NewNotificationPostgreSQL(r.db)
}
func (r *Repository) Message() repositories.MessageRepository { return NewMessagePostgreSQL(r.db) }
func (r *Repository) Ticket() repositories.TicketRepository   { return NewTicketPostgreSQL(r.db) }

func (r *Repository) Begin(ctx context.Context) (repositories.Repository, error) {
	tx := r.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", tx.Error)
	}
	return &Repository{db: tx, inTx: true}, nil
}

func (r *Repository) Commit(ctx context.Context) error {
	if !r.inTx {
		return fmt.Errorf("commit called outside a transaction")
	}
	return r.db.Commit().Error
}

func (r *Repository) Rollback(ctx context.Context) error {
	if !r.inTx {
		return fmt.Errorf("rollback called outside a transaction")
	}
	return r.db.Rollback().Error
}
