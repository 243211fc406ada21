package services

import (
	"errors"
	"fmt"

	apperrors "github.com/SAP-F-2025/classroom-service/internal/errors"
	"github.com/SAP-F-2025/classroom-service/internal/models"
)

// ===== COMMON SERVICE ERRORS =====

var (
	// Generic errors
	ErrNotFound         = errors.New("resource not found")
	ErrUnauthorized     = errors.New("unauthorized access")
	ErrForbidden        = errors.New("forbidden - insufficient permissions")
	ErrValidationFailed = errors.New("validation failed")
	ErrConflict         = errors.New("resource conflict")

	// User errors
	ErrUserNotFound  = errors.New("user not found")
	ErrUserNotActive = errors.New("user account is not active")
	ErrUserSuspended = errors.New("user account is suspended")

	// Formation / class errors
	ErrFormationNotFound     = errors.New("formation not found")
	ErrFormationNotPublished = errors.New("formation is not published")
	ErrClassNotFound         = errors.New("class not found")
	ErrClassFull             = errors.New("class has no available seats")

	// Enrollment errors
	ErrEnrollmentNotFound = errors.New("enrollment not found")
	ErrAlreadyEnrolled    = errors.New("student already enrolled in this formation")
	ErrEnrollmentInactive = errors.New("enrollment is not active")

	// Course errors
	ErrCourseNotFound    = errors.New("course not found")
	ErrCourseNotJoinable = errors.New("course cannot be joined outside its window")

	// Payment errors
	ErrPaymentNotFound      = errors.New("payment not found")
	ErrPaymentNotPending    = errors.New("payment is not pending")
	ErrPaymentNotRefundable = errors.New("payment cannot be refunded")
	ErrRefundExceedsAmount  = errors.New("refund amount exceeds payment amount")

	// Messaging errors
	ErrNotificationNotFound = errors.New("notification not found")
	ErrMessageNotFound      = errors.New("message not found")
	ErrRecipientRequired    = errors.New("notification recipient is required")
	ErrSelfMessage          = errors.New("cannot send a message to yourself")
	ErrTicketNotFound       = errors.New("support ticket not found")
)

// ===== CUSTOM ERROR TYPES =====

// Use shared validation errors from the errors package.
type ValidationError = apperrors.ValidationError
type ValidationErrors = apperrors.ValidationErrors

// PermissionError reports a denied operation with enough context to log and
// surface a meaningful message.
type PermissionError struct {
	UserID     string `json:"user_id"`
	ResourceID uint   `json:"resource_id"`
	Resource   string `json:"resource"`
	Action     string `json:"action"`
	Reason     string `json:"reason"`
}

func (pe *PermissionError) Error() string {
	return fmt.Sprintf("permission denied: user %s cannot %s %s %d - %s",
		pe.UserID, pe.Action, pe.Resource, pe.ResourceID, pe.Reason)
}

func NewPermissionError(userID string, resourceID uint, resource, action, reason string) *PermissionError {
	return &PermissionError{
		UserID:     userID,
		ResourceID: resourceID,
		Resource:   resource,
		Action:     action,
		Reason:     reason,
	}
}

func NewValidationError(field, message string, value interface{}) *ValidationError {
	return apperrors.NewValidationError(field, message, value)
}

// ===== ERROR CLASSIFIERS =====

func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrUserNotFound) ||
		errors.Is(err, ErrFormationNotFound) ||
		errors.Is(err, ErrClassNotFound) ||
		errors.Is(err, ErrEnrollmentNotFound) ||
		errors.Is(err, ErrCourseNotFound) ||
		errors.Is(err, ErrPaymentNotFound) ||
		errors.Is(err, ErrNotificationNotFound) ||
		errors.Is(err, ErrMessageNotFound) ||
		errors.Is(err, ErrTicketNotFound)
}

func IsUnauthorized(err error) bool {
	if errors.Is(err, ErrUnauthorized) || errors.Is(err, ErrForbidden) || errors.Is(err, ErrUserSuspended) {
		return true
	}
	var pe *PermissionError
	return errors.As(err, &pe)
}

func IsValidation(err error) bool {
	if errors.Is(err, ErrValidationFailed) ||
		errors.Is(err, ErrRecipientRequired) ||
		errors.Is(err, ErrSelfMessage) ||
		errors.Is(err, ErrRefundExceedsAmount) {
		return true
	}
	var ve apperrors.ValidationErrors
	if errors.As(err, &ve) {
		return true
	}
	var single *apperrors.ValidationError
	return errors.As(err, &single)
}

func IsConflict(err error) bool {
	return errors.Is(err, ErrConflict) ||
		errors.Is(err, ErrAlreadyEnrolled) ||
		errors.Is(err, ErrClassFull) ||
		errors.Is(err, ErrPaymentNotPending) ||
		errors.Is(err, ErrPaymentNotRefundable)
}

// IsInvalidTransition reports a lifecycle transition rejected by the state
// machine.
func IsInvalidTransition(err error) bool {
	var ite *models.InvalidTransitionError
	return errors.As(err, &ite)
}
