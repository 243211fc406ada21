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
)

type NotificationService interface {
	Send(ctx context.Context, req *SendNotificationRequest) (*models.Notification, error)
	SendBulk(ctx context.Context, recipientIDs []string, req *SendNotificationRequest) ([]*models.Notification, error)
	MarkAsRead(ctx context.Context, principal *models.User, notificationID uint) (*models.Notification, error)
	List(ctx context.Context, principal *models.User, unreadOnly bool, limit, offset int) ([]*models.Notification, error)
	CountUnread(ctx context.Context, principal *models.User) (int64, error)

	SendMessage(ctx context.Context, principal *models.User, req *SendMessageRequest) (*models.Message, error)
	MarkMessageAsRead(ctx context.Context, principal *models.User, messageID uint) (*models.Message, error)
	Conversation(ctx context.Context, principal *models.User, otherUserID string, limit, offset int) ([]*models.Message, error)
}

type SendNotificationRequest struct {
	Type         models.NotificationType     `json:"type" validate:"required"`
	Title        string                      `json:"title" validate:"required,max=255"`
	Message      string                      `json:"message" validate:"max=5000"`
	RecipientID  *string                     `json:"recipient_id"`
	CourseID     *uint                       `json:"course_id"`
	EnrollmentID *uint                       `json:"enrollment_id"`
	Priority     models.NotificationPriority `json:"priority" validate:"omitempty,min=1,max=4"`
}

type SendMessageRequest struct {
	RecipientID string `json:"recipient_id" validate:"required"`
	Body        string `json:"body" validate:"required,min=1,max=5000"`
}

type notificationService struct {
	repo      repositories.Repository
	publisher events.EventPublisher
	logger    utils.Logger
	validator *validator.Validator
	now       func() time.Time
}

func NewNotificationService(repo repositories.Repository, publisher events.EventPublisher, logger utils.Logger, validator *validator.Validator) NotificationService {
	return &notificationService{
		repo:      repo,
		publisher: publisher,
		logger:    logger,
		validator: validator,
		now:       time.Now,
	}
}

func (s *notificationService) Send(ctx context.Context, req *SendNotificationRequest) (*models.Notification, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}
	if req.RecipientID == nil || *req.RecipientID == "" {
		return nil, ErrRecipientRequired
	}

	priority := req.Priority
	if priority == 0 {
		priority = models.PriorityNormal
	}

	now := s.now()
	notification := &models.Notification{
		Type:         req.Type,
		Title:        req.Title,
		Message:      req.Message,
		RecipientID:  req.RecipientID,
		CourseID:     req.CourseID,
		EnrollmentID: req.EnrollmentID,
		Priority:     priority,
		SentAt:       &now,
	}

	if err := s.repo.Notification().Create(ctx, notification); err != nil {
		return nil, fmt.Errorf("failed to create notification: %w", err)
	}

	s.publishNotificationEvent(ctx, notification)
	return notification, nil
}

// SendBulk fans one notification out to a list of recipients. Per-recipient
// failures are logged and skipped so one bad row does not block the rest.
func (s *notificationService) SendBulk(ctx context.Context, recipientIDs []string, req *SendNotificationRequest) ([]*models.Notification, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	sent := make([]*models.Notification, 0, len(recipientIDs))
	for _, recipientID := range recipientIDs {
		recipientID := recipientID
		perRecipient := *req
		perRecipient.RecipientID = &recipientID
		notification, err := s.Send(ctx, &perRecipient)
		if err != nil {
			s.logger.LogError(err, "Failed to send bulk notification", "recipient_id", recipientID)
			continue
		}
		sent = append(sent, notification)
	}
	return sent, nil
}

// MarkAsRead is idempotent: the first call stamps read_at, later calls
// return the notification unchanged.
func (s *notificationService) MarkAsRead(ctx context.Context, principal *models.User, notificationID uint) (*models.Notification, error) {
	notification, err := s.repo.Notification().GetByID(ctx, notificationID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrNotificationNotFound
		}
		return nil, fmt.Errorf("failed to get notification: %w", err)
	}

	if notification.RecipientID == nil || *notification.RecipientID != principal.ID {
		return nil, NewPermissionError(principal.ID, notificationID, "notification", "mark_read", "not the recipient")
	}

	if !notification.MarkAsRead(s.now()) {
		return notification, nil
	}

	if err := s.repo.Notification().Update(ctx, notification); err != nil {
		return nil, fmt.Errorf("failed to update notification: %w", err)
	}
	return notification, nil
}

func (s *notificationService) List(ctx context.Context, principal *models.User, unreadOnly bool, limit, offset int) ([]*models.Notification, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	notifications, err := s.repo.Notification().ListByRecipient(ctx, principal.ID, unreadOnly, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	return notifications, nil
}

func (s *notificationService) CountUnread(ctx context.Context, principal *models.User) (int64, error) {
	count, err := s.repo.Notification().CountUnread(ctx, principal.ID)
	if err != nil {
		return 0, fmt.Errorf("failed to count unread notifications: %w", err)
	}
	return count, nil
}

func (s *notificationService) SendMessage(ctx context.Context, principal *models.User, req *SendMessageRequest) (*models.Message, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}
	if req.RecipientID == principal.ID {
		return nil, ErrSelfMessage
	}

	recipient, err := s.repo.User().GetByID(ctx, req.RecipientID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get recipient: %w", err)
	}
	if !recipient.IsActive() {
		return nil, ErrUserNotActive
	}

	message := &models.Message{
		SenderID:    principal.ID,
		RecipientID: req.RecipientID,
		Body:        req.Body,
	}
	if err := s.repo.Message().Create(ctx, message); err != nil {
		return nil, fmt.Errorf("failed to create message: %w", err)
	}

	event := events.NewDomainEvent(events.EventNotificationCreated, channels.ChatChannel(req.RecipientID), message)
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.LogError(err, "Failed to publish message event", "message_id", message.ID)
	}

	return message, nil
}

func (s *notificationService) MarkMessageAsRead(ctx context.Context, principal *models.User, messageID uint) (*models.Message, error) {
	message, err := s.repo.Message().GetByID(ctx, messageID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrMessageNotFound
		}
		return nil, fmt.Errorf("failed to get message: %w", err)
	}

	if message.RecipientID != principal.ID {
		return nil, NewPermissionError(principal.ID, messageID, "message", "mark_read", "not the recipient")
	}

	if !message.MarkAsRead(s.now()) {
		return message, nil
	}

	if err := s.repo.Message().Update(ctx, message); err != nil {
		return nil, fmt.Errorf("failed to update message: %w", err)
	}
	return message, nil
}

func (s *notificationService) Conversation(ctx context.Context, principal *models.User, otherUserID string, limit, offset int) ([]*models.Message, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	messages, err := s.repo.Message().ListConversation(ctx, principal.ID, otherUserID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list conversation: %w", err)
	}
	return messages, nil
}

func (s *notificationService) publishNotificationEvent(ctx context.Context, notification *models.Notification) {
	if notification.RecipientID == nil {
		return
	}
	event := events.NewDomainEvent(events.EventNotificationCreated, channels.NotificationsChannel(*notification.RecipientID), &events.NotificationEvent{
		NotificationID: notification.ID,
		RecipientID:    *notification.RecipientID,
		Type:           string(notification.Type),
		Title:          notification.Title,
		Priority:       int(notification.Priority),
	})
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.LogError(err, "Failed to publish notification event", "notification_id", notification.ID)
	}
}
