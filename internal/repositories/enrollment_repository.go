package repositories

import (
	"context"

	"github.com/SAP-F-2025/classroom-service/internal/models"
)

// EnrollmentRepository is the enrollment ledger. The Has* existence checks
// back the channel authorization predicates and are re-evaluated per call;
// authorization must reflect current database state, so there is no cache.
type EnrollmentRepository interface {
	Create(ctx context.Context, enrollment *models.Enrollment) error
	GetByID(ctx context.Context, id uint) (*models.Enrollment, error)
	GetByStudentAndFormation(ctx context.Context, studentID string, formationID uint) (*models.Enrollment, error)
	Update(ctx context.Context, enrollment *models.Enrollment) error
	List(ctx context.Context, filters EnrollmentFilters) ([]*models.Enrollment, int64, error)

	HasActiveByClass(ctx context.Context, studentID string, classID uint) (bool, error)
	HasActiveByFormation(ctx context.Context, studentID string, formationID uint) (bool, error)

	UpdatePaymentStatus(ctx context.Context, id uint, status models.EnrollmentPaymentStatus) error
}

// PaymentRepository manages gateway charge records.
type PaymentRepository interface {
	Create(ctx context.Context, payment *models.Payment) error
	GetByID(ctx context.Context, id uint) (*models.Payment, error)
	GetByTransactionID(ctx context.Context, transactionID string) (*models.Payment, error)
	Update(ctx context.Context, payment *models.Payment) error
	ListByEnrollment(ctx context.Context, enrollmentID uint) ([]*models.Payment, error)
	ListByStudent(ctx context.Context, studentID string, limit, offset int) ([]*models.Payment, error)
}

// NotificationRepository manages in-app notifications.
type NotificationRepository interface {
	Create(ctx context.Context, notification *models.Notification) error
	GetByID(ctx context.Context, id uint) (*models.Notification, error)
	Update(ctx context.Context, notification *models.Notification) error
	ListByRecipient(ctx context.Context, recipientID string, unreadOnly bool, limit, offset int) ([]*models.Notification, error)
	CountUnread(ctx context.Context, recipientID string) (int64, error)
}

// MessageRepository manages direct messages.
type MessageRepository interface {
	Create(ctx context.Context, message *models.Message) error
	GetByID(ctx context.Context, id uint) (*models.Message, error)
	Update(ctx context.Context, message *models.Message) error
	ListConversation(ctx context.Context, userA, userB string, limit, offset int) ([]*models.Message, error)
}

// TicketRepository manages support tickets.
type TicketRepository interface {
	Create(ctx context.Context, ticket *models.SupportTicket) error
	GetByID(ctx context.Context, id uint) (*models.SupportTicket, error)
	Update(ctx context.Context, ticket *models.SupportTicket) error
	ListByCreator(ctx context.Context, creatorID string, limit, offset int) ([]*models.SupportTicket, error)
	ListByStatus(ctx context.Context, status models.TicketStatus, limit, offset int) ([]*models.SupportTicket, error)
}
