package services

import (
	"context"
	"fmt"
	"time"

	"github.com/SAP-F-2025/classroom-service/internal/events"
	"github.com/SAP-F-2025/classroom-service/internal/models"
	"github.com/SAP-F-2025/classroom-service/internal/repositories"
	"github.com/SAP-F-2025/classroom-service/internal/utils"
	"github.com/SAP-F-2025/classroom-service/internal/validator"
)

// EnrollmentService manages the enrollment ledger: registration, seat
// claims, progress and withdrawal.
type EnrollmentService interface {
	Enroll(ctx context.Context, principal *models.User, req *EnrollRequest) (*models.Enrollment, error)
	Withdraw(ctx context.Context, principal *models.User, enrollmentID uint) error
	UpdateProgress(ctx context.Context, principal *models.User, enrollmentID uint, progress float64) (*models.Enrollment, error)
	GetByID(ctx context.Context, principal *models.User, enrollmentID uint) (*models.Enrollment, error)
	List(ctx context.Context, principal *models.User, filters repositories.EnrollmentFilters) ([]*models.Enrollment, int64, error)
}

type EnrollRequest struct {
	FormationID uint  `json:"formation_id" validate:"required,min=1"`
	ClassID     *uint `json:"class_id" validate:"omitempty,min=1"`
}

type enrollmentService struct {
	repo      repositories.Repository
	publisher events.EventPublisher
	logger    utils.Logger
	validator *validator.Validator
}

func NewEnrollmentService(repo repositories.Repository, publisher events.EventPublisher, logger utils.Logger, validator *validator.Validator) EnrollmentService {
	return &enrollmentService{
		repo:      repo,
		publisher: publisher,
		logger:    logger,
		validator: validator,
	}
}

// Enroll registers the principal (a student) into a formation, optionally
// claiming a seat in a cohort class. The seat claim is a single atomic
// compare-and-increment in the database, so two students racing for the last
// seat cannot both get it, and the formation counter moves in the same
// transaction as the enrollment row.
func (s *enrollmentService) Enroll(ctx context.Context, principal *models.User, req *EnrollRequest) (*models.Enrollment, error) {
	s.logger.Info("Enrolling student", "student_id", principal.ID, "formation_id", req.FormationID)

	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}
	if !principal.IsStudent() {
		return nil, NewPermissionError(principal.ID, req.FormationID, "formation", "enroll", "only students can enroll")
	}

	formation, err := s.repo.Formation().GetByID(ctx, req.FormationID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrFormationNotFound
		}
		return nil, fmt.Errorf("failed to get formation: %w", err)
	}
	if !formation.IsPublished() {
		return nil, ErrFormationNotPublished
	}

	// Reject duplicates before opening the transaction.
	existing, err := s.repo.Enrollment().GetByStudentAndFormation(ctx, principal.ID, req.FormationID)
	if err != nil && !repositories.IsNotFoundError(err) {
		return nil, fmt.Errorf("failed to check existing enrollment: %w", err)
	}
	if existing != nil {
		return nil, ErrAlreadyEnrolled
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

	if req.ClassID != nil {
		class, cerr := txRepo.Class().GetByID(ctx, *req.ClassID)
		if cerr != nil {
			err = cerr
			if repositories.IsNotFoundError(cerr) {
				return nil, ErrClassNotFound
			}
			return nil, fmt.Errorf("failed to get class: %w", cerr)
		}
		if class.FormationID != req.FormationID {
			err = NewValidationError("class_id", "class does not belong to formation", *req.ClassID)
			return nil, err
		}

		claimed, cerr := txRepo.Class().ClaimSeat(ctx, *req.ClassID)
		if cerr != nil {
			err = cerr
			return nil, fmt.Errorf("failed to claim seat: %w", cerr)
		}
		if !claimed {
			err = ErrClassFull
			return nil, err
		}
	}

	enrollment := &models.Enrollment{
		StudentID:     principal.ID,
		FormationID:   req.FormationID,
		ClassID:       req.ClassID,
		Status:        models.EnrollmentPending,
		PaymentStatus: models.PaymentUnpaid,
		EnrolledAt:    time.Now(),
	}

	if err = txRepo.Enrollment().Create(ctx, enrollment); err != nil {
		return nil, fmt.Errorf("failed to create enrollment: %w", err)
	}

	if err = txRepo.Formation().AdjustEnrolledCount(ctx, req.FormationID, 1); err != nil {
		return nil, fmt.Errorf("failed to bump enrolled count: %w", err)
	}

	if err = txRepo.(repositories.TransactionRepository).Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	s.publishEnrollmentEvent(ctx, events.EventEnrollmentCreated, enrollment)

	s.logger.Info("Enrollment created", "enrollment_id", enrollment.ID, "student_id", principal.ID)
	return enrollment, nil
}

// Withdraw suspends the enrollment and releases the class seat and the
// formation counter.
func (s *enrollmentService) Withdraw(ctx context.Context, principal *models.User, enrollmentID uint) error {
	s.logger.Info("Withdrawing enrollment", "enrollment_id", enrollmentID, "user_id", principal.ID)

	enrollment, err := s.repo.Enrollment().GetByID(ctx, enrollmentID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrEnrollmentNotFound
		}
		return fmt.Errorf("failed to get enrollment: %w", err)
	}

	if enrollment.StudentID != principal.ID && !principal.IsAdmin() {
		return NewPermissionError(principal.ID, enrollmentID, "enrollment", "withdraw", "not the enrolled student")
	}
	if enrollment.Status == models.EnrollmentSuspended {
		return nil // already withdrawn
	}

	wasActive := enrollment.Status == models.EnrollmentActive || enrollment.Status == models.EnrollmentPending

	txRepo, err := s.repo.(repositories.TransactionRepository).Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			txRepo.(repositories.TransactionRepository).Rollback(ctx)
		}
	}()

	enrollment.Status = models.EnrollmentSuspended
	if err = txRepo.Enrollment().Update(ctx, enrollment); err != nil {
		return fmt.Errorf("failed to update enrollment: %w", err)
	}

	if wasActive {
		if enrollment.ClassID != nil {
			if err = txRepo.Class().ReleaseSeat(ctx, *enrollment.ClassID); err != nil {
				return fmt.Errorf("failed to release seat: %w", err)
			}
		}
		if err = txRepo.Formation().AdjustEnrolledCount(ctx, enrollment.FormationID, -1); err != nil {
			return fmt.Errorf("failed to decrement enrolled count: %w", err)
		}
	}

	if err = txRepo.(repositories.TransactionRepository).Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	s.logger.Info("Enrollment withdrawn", "enrollment_id", enrollmentID)
	return nil
}

// UpdateProgress moves the progress percentage; hitting 100 completes the
// enrollment and stamps the completion date exactly once.
func (s *enrollmentService) UpdateProgress(ctx context.Context, principal *models.User, enrollmentID uint, progress float64) (*models.Enrollment, error) {
	enrollment, err := s.repo.Enrollment().GetByID(ctx, enrollmentID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrEnrollmentNotFound
		}
		return nil, fmt.Errorf("failed to get enrollment: %w", err)
	}

	if !principal.IsAdmin() && !principal.IsTeacher() && enrollment.StudentID != principal.ID {
		return nil, NewPermissionError(principal.ID, enrollmentID, "enrollment", "update_progress", "not the enrolled student")
	}
	if !enrollment.IsActive() && enrollment.Status != models.EnrollmentCompleted {
		return nil, ErrEnrollmentInactive
	}

	wasCompleted := enrollment.Status == models.EnrollmentCompleted
	enrollment.UpdateProgress(progress, time.Now())

	if err := s.repo.Enrollment().Update(ctx, enrollment); err != nil {
		return nil, fmt.Errorf("failed to update progress: %w", err)
	}

	if !wasCompleted && enrollment.Status == models.EnrollmentCompleted {
		s.publishEnrollmentEvent(ctx, events.EventEnrollmentCompleted, enrollment)
	}

	return enrollment, nil
}

func (s *enrollmentService) GetByID(ctx context.Context, principal *models.User, enrollmentID uint) (*models.Enrollment, error) {
	enrollment, err := s.repo.Enrollment().GetByID(ctx, enrollmentID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrEnrollmentNotFound
		}
		return nil, fmt.Errorf("failed to get enrollment: %w", err)
	}

	if enrollment.StudentID != principal.ID && !principal.IsAdmin() && !principal.IsTeacher() {
		return nil, NewPermissionError(principal.ID, enrollmentID, "enrollment", "read", "not the enrolled student")
	}
	return enrollment, nil
}

func (s *enrollmentService) List(ctx context.Context, principal *models.User, filters repositories.EnrollmentFilters) ([]*models.Enrollment, int64, error) {
	// Students only ever see their own ledger.
	if principal.IsStudent() {
		filters.StudentID = &principal.ID
	}

	enrollments, total, err := s.repo.Enrollment().List(ctx, filters)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list enrollments: %w", err)
	}
	return enrollments, total, nil
}

func (s *enrollmentService) publishEnrollmentEvent(ctx context.Context, eventType events.EventType, enrollment *models.Enrollment) {
	event := events.NewDomainEvent(eventType, "", &events.EnrollmentEvent{
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
