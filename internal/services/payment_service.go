package services

import (
	"context"
	"fmt"
	"time"

	"github.com/SAP-F-2025/classroom-service/internal/channels"
	"github.com/SAP-F-2025/classroom-service/internal/events"
	"github.com/SAP-F-2025/classroom-service/internal/models"
	"github.com/SAP-F-2025/classroom-service/internal/repositories"
	"github.com/SAP-F-2025/classroom-service/internal/utils"
	"github.com/SAP-F-2025/classroom-service/internal/validator"
	"github.com/google/uuid"
)

// PaymentService drives the payment lifecycle. Payment is the single writer
// of enrollment payment state: completing a payment activates a pending
// enrollment, refunding cascades the refunded status back onto it.
type PaymentService interface {
	Create(ctx context.Context, principal *models.User, req *CreatePaymentRequest) (*models.Payment, error)
	GetByID(ctx context.Context, principal *models.User, paymentID uint) (*models.Payment, error)
	MarkCompleted(ctx context.Context, paymentID uint) (*models.Payment, error)
	MarkFailed(ctx context.Context, paymentID uint) (*models.Payment, error)
	Refund(ctx context.Context, principal *models.User, paymentID uint, amount float64) (*models.Payment, error)
}

type CreatePaymentRequest struct {
	EnrollmentID uint    `json:"enrollment_id" validate:"required,min=1"`
	Amount       float64 `json:"amount" validate:"required,gt=0"`
	Currency     string  `json:"currency" validate:"omitempty,len=3"`
	Method       string  `json:"method" validate:"omitempty,oneof=card transfer cash"`
}

type paymentService struct {
	repo      repositories.Repository
	publisher events.EventPublisher
	logger    utils.Logger
	validator *validator.Validator
}

func NewPaymentService(repo repositories.Repository, publisher events.EventPublisher, logger utils.Logger, validator *validator.Validator) PaymentService {
	return &paymentService{
		repo:      repo,
		publisher: publisher,
		logger:    logger,
		validator: validator,
	}
}

func (s *paymentService) Create(ctx context.Context, principal *models.User, req *CreatePaymentRequest) (*models.Payment, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	enrollment, err := s.repo.Enrollment().GetByID(ctx, req.EnrollmentID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrEnrollmentNotFound
		}
		return nil, fmt.Errorf("failed to get enrollment: %w", err)
	}

	if enrollment.StudentID != principal.ID && !principal.IsAdmin() {
		return nil, NewPermissionError(principal.ID, req.EnrollmentID, "enrollment", "pay", "not the enrolled student")
	}

	currency := req.Currency
	if currency == "" {
		currency = "EUR"
	}

	payment := &models.Payment{
		EnrollmentID:  req.EnrollmentID,
		StudentID:     enrollment.StudentID,
		Amount:        req.Amount,
		Currency:      currency,
		Method:        models.PaymentMethod(req.Method),
		TransactionID: uuid.NewString(),
		Status:        models.PaymentPending,
	}

	if err := s.repo.Payment().Create(ctx, payment); err != nil {
		return nil, fmt.Errorf("failed to create payment: %w", err)
	}

	s.logger.Info("Payment created", "payment_id", payment.ID, "transaction_id", payment.TransactionID)
	return payment, nil
}

func (s *paymentService) GetByID(ctx context.Context, principal *models.User, paymentID uint) (*models.Payment, error) {
	payment, err := s.repo.Payment().GetByID(ctx, paymentID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrPaymentNotFound
		}
		return nil, fmt.Errorf("failed to get payment: %w", err)
	}

	if payment.StudentID != principal.ID && !principal.IsAdmin() {
		return nil, NewPermissionError(principal.ID, paymentID, "payment", "read", "not the payer")
	}
	return payment, nil
}

// MarkCompleted is invoked by the gateway callback. It transitions the
// payment and cascades onto the enrollment: payment_status becomes paid and
// a pending enrollment becomes active.
func (s *paymentService) MarkCompleted(ctx context.Context, paymentID uint) (*models.Payment, error) {
	payment, err := s.repo.Payment().GetByID(ctx, paymentID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrPaymentNotFound
		}
		return nil, fmt.Errorf("failed to get payment: %w", err)
	}
	if payment.Status != models.PaymentPending {
		return nil, ErrPaymentNotPending
	}

	txRepo, err := s.repo.(repositories.TransactionRepository).Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			txRepo.(repositories.TransactionRepository).Rollback(ctx)
		}
	}()

	now := time.Now()
	payment.Status = models.PaymentCompleted
	payment.PaidAt = &now
	if err = txRepo.Payment().Update(ctx, payment); err != nil {
		return nil, fmt.Errorf("failed to update payment: %w", err)
	}

	enrollment, gerr := txRepo.Enrollment().GetByID(ctx, payment.EnrollmentID)
	if gerr != nil {
		err = gerr
		return nil, fmt.Errorf("failed to get enrollment: %w", gerr)
	}

	enrollment.PaymentStatus = models.PaymentPaid
	if enrollment.Status == models.EnrollmentPending {
		enrollment.Status = models.EnrollmentActive
	}
	if err = txRepo.Enrollment().Update(ctx, enrollment); err != nil {
		return nil, fmt.Errorf("failed to cascade payment onto enrollment: %w", err)
	}

	if err = txRepo.(repositories.TransactionRepository).Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	s.publishPaymentEvent(ctx, events.EventPaymentCompleted, payment)
	if enrollment.Status == models.EnrollmentActive {
		s.publishEnrollmentActivated(ctx, enrollment)
	}

	s.logger.Info("Payment completed", "payment_id", paymentID, "enrollment_id", payment.EnrollmentID)
	return payment, nil
}

func (s *paymentService) MarkFailed(ctx context.Context, paymentID uint) (*models.Payment, error) {
	payment, err := s.repo.Payment().GetByID(ctx, paymentID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrPaymentNotFound
		}
		return nil, fmt.Errorf("failed to get payment: %w", err)
	}
	if payment.Status != models.PaymentPending {
		return nil, ErrPaymentNotPending
	}

	payment.Status = models.PaymentFailed
	if err := s.repo.Payment().Update(ctx, payment); err != nil {
		return nil, fmt.Errorf("failed to update payment: %w", err)
	}
	return payment, nil
}

// Refund reverses a completed payment and cascades payment_status=refunded
// onto the enrollment; a later read of the enrollment reflects the refund
// without further calls.
func (s *paymentService) Refund(ctx context.Context, principal *models.User, paymentID uint, amount float64) (*models.Payment, error) {
	if !principal.IsAdmin() {
		return nil, NewPermissionError(principal.ID, paymentID, "payment", "refund", "requires admin role")
	}

	payment, err := s.repo.Payment().GetByID(ctx, paymentID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrPaymentNotFound
		}
		return nil, fmt.Errorf("failed to get payment: %w", err)
	}
	if payment.Status != models.PaymentCompleted {
		return nil, ErrPaymentNotRefundable
	}
	if amount <= 0 || amount > payment.Amount {
		return nil, ErrRefundExceedsAmount
	}

	txRepo, err := s.repo.(repositories.TransactionRepository).Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			txRepo.(repositories.TransactionRepository).Rollback(ctx)
		}
	}()

	now := time.Now()
	payment.Status = models.PaymentRecordRefunded
	payment.RefundedAmount = amount
	payment.RefundedAt = &now
	if err = txRepo.Payment().Update(ctx, payment); err != nil {
		return nil, fmt.Errorf("failed to update payment: %w", err)
	}

	if err = txRepo.Enrollment().UpdatePaymentStatus(ctx, payment.EnrollmentID, models.PaymentRefunded); err != nil {
		return nil, fmt.Errorf("failed to cascade refund onto enrollment: %w", err)
	}

	if err = txRepo.(repositories.TransactionRepository).Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	s.publishPaymentEvent(ctx, events.EventPaymentRefunded, payment)

	s.logger.Info("Payment refunded", "payment_id", paymentID, "amount", amount)
	return payment, nil
}

func (s *paymentService) publishPaymentEvent(ctx context.Context, eventType events.EventType, payment *models.Payment) {
	event := events.NewDomainEvent(eventType, channels.UserChannel(payment.StudentID), &events.PaymentEvent{
		PaymentID:     payment.ID,
		EnrollmentID:  payment.EnrollmentID,
		StudentID:     payment.StudentID,
		TransactionID: payment.TransactionID,
		Amount:        payment.Amount,
		Status:        string(payment.Status),
	})
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.LogError(err, "Failed to publish payment event", "payment_id", payment.ID)
	}
}

func (s *paymentService) publishEnrollmentActivated(ctx context.Context, enrollment *models.Enrollment) {
	event := events.NewDomainEvent(events.EventEnrollmentActivated, channels.UserChannel(enrollment.StudentID), &events.EnrollmentEvent{
		EnrollmentID: enrollment.ID,
		StudentID:    enrollment.StudentID,
		FormationID:  enrollment.FormationID,
		ClassID:      enrollment.ClassID,
		Status:       string(enrollment.Status),
	})
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.LogError(err, "Failed to publish enrollment event", "enrollment_id", enrollment.ID)
	}
}
