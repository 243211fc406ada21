package services

import (
	"context"
	"testing"

	"github.com/SAP-F-2025/classroom-service/internal/models"
	"github.com/stretchr/testify/assert"
)

func stringPtr(s string) *string { return &s }

func TestNotificationService_Send(t *testing.T) {
	ctx := context.Background()

	t.Run("Stamps_SentAt_And_Publishes", func(t *testing.T) {
		repo := newMemRepository()
		publisher := newTestPublisher()
		service := NewNotificationService(repo, publisher, newTestLogger(), newTestValidator())

		notification, err := service.Send(ctx, &SendNotificationRequest{
			Type:        models.NotificationCourseStarted,
			Title:       "Class is starting",
			RecipientID: stringPtr("student-1"),
		})

		assert.NoError(t, err)
		assert.NotNil(t, notification.SentAt)
		assert.Equal(t, models.PriorityNormal, notification.Priority)
		assert.Len(t, publisher.PublishedEvents(), 1)
		assert.Equal(t, "notifications.student-1", publisher.PublishedEvents()[0].Channel)
	})

	t.Run("Missing_Recipient_Rejected", func(t *testing.T) {
		service := NewNotificationService(newMemRepository(), newTestPublisher(), newTestLogger(), newTestValidator())

		_, err := service.Send(ctx, &SendNotificationRequest{Type: models.NotificationCourseStarted, Title: "No one to tell"})
		assert.ErrorIs(t, err, ErrRecipientRequired)
	})
}

func TestNotificationService_SendBulk(t *testing.T) {
	ctx := context.Background()
	repo := newMemRepository()
	publisher := newTestPublisher()
	service := NewNotificationService(repo, publisher, newTestLogger(), newTestValidator())

	sent, err := service.SendBulk(ctx, []string{"student-1", "student-2", ""}, &SendNotificationRequest{
		Type:  models.NotificationCourseCancelled,
		Title: "Session cancelled",
	})

	// The empty recipient is skipped, the rest go out as individual copies.
	assert.NoError(t, err)
	assert.Len(t, sent, 2)
	assert.Equal(t, "student-1", *sent[0].RecipientID)
	assert.Equal(t, "student-2", *sent[1].RecipientID)
	assert.Len(t, publisher.PublishedEvents(), 2)
}

func TestNotificationService_MarkAsRead(t *testing.T) {
	ctx := context.Background()

	seed := func(repo *memRepository, recipientID string) *models.Notification {
		notification := &models.Notification{
			Type:        models.NotificationCourseStarted,
			Title:       "Class is starting",
			RecipientID: &recipientID,
		}
		_ = repo.notifications.Create(ctx, notification)
		return notification
	}

	t.Run("First_Call_Stamps_Later_Calls_Noop", func(t *testing.T) {
		repo := newMemRepository()
		notification := seed(repo, "student-1")
		service := NewNotificationService(repo, newTestPublisher(), newTestLogger(), newTestValidator())

		read, err := service.MarkAsRead(ctx, testStudent("student-1"), notification.ID)
		assert.NoError(t, err)
		assert.NotNil(t, read.ReadAt)
		assert.Equal(t, 1, repo.notifications.updates)

		firstReadAt := *read.ReadAt
		read, err = service.MarkAsRead(ctx, testStudent("student-1"), notification.ID)
		assert.NoError(t, err)
		assert.Equal(t, firstReadAt, *read.ReadAt)
		assert.Equal(t, 1, repo.notifications.updates)
	})

	t.Run("Non_Recipient_Denied", func(t *testing.T) {
		repo := newMemRepository()
		notification := seed(repo, "student-1")
		service := NewNotificationService(repo, newTestPublisher(), newTestLogger(), newTestValidator())

		_, err := service.MarkAsRead(ctx, testStudent("student-2"), notification.ID)
		assert.True(t, IsUnauthorized(err))
	})

	t.Run("Missing_Notification_Rejected", func(t *testing.T) {
		service := NewNotificationService(newMemRepository(), newTestPublisher(), newTestLogger(), newTestValidator())

		_, err := service.MarkAsRead(ctx, testStudent("student-1"), 99)
		assert.ErrorIs(t, err, ErrNotificationNotFound)
	})
}

func TestNotificationService_SendMessage(t *testing.T) {
	ctx := context.Background()

	setup := func() (*memRepository, NotificationService) {
		repo := newMemRepository()
		repo.users.users["student-2"] = testStudent("student-2")
		repo.users.users["suspended-1"] = &models.User{ID: "suspended-1", Role: models.RoleStudent, Status: models.UserSuspended}
		return repo, NewNotificationService(repo, newTestPublisher(), newTestLogger(), newTestValidator())
	}

	t.Run("Delivers_To_Active_Recipient", func(t *testing.T) {
		repo := newMemRepository()
		repo.users.users["student-2"] = testStudent("student-2")
		publisher := newTestPublisher()
		service := NewNotificationService(repo, publisher, newTestLogger(), newTestValidator())

		message, err := service.SendMessage(ctx, testStudent("student-1"), &SendMessageRequest{
			RecipientID: "student-2",
			Body:        "hey, did you catch the recording?",
		})

		assert.NoError(t, err)
		assert.Equal(t, "student-1", message.SenderID)
		assert.Equal(t, "chat.student-2", publisher.PublishedEvents()[0].Channel)
	})

	t.Run("Self_Message_Rejected", func(t *testing.T) {
		_, service := setup()
		_, err := service.SendMessage(ctx, testStudent("student-1"), &SendMessageRequest{RecipientID: "student-1", Body: "note to self"})
		assert.ErrorIs(t, err, ErrSelfMessage)
	})

	t.Run("Inactive_Recipient_Rejected", func(t *testing.T) {
		_, service := setup()
		_, err := service.SendMessage(ctx, testStudent("student-1"), &SendMessageRequest{RecipientID: "suspended-1", Body: "hello?"})
		assert.ErrorIs(t, err, ErrUserNotActive)
	})

	t.Run("Unknown_Recipient_Rejected", func(t *testing.T) {
		_, service := setup()
		_, err := service.SendMessage(ctx, testStudent("student-1"), &SendMessageRequest{RecipientID: "ghost", Body: "hello?"})
		assert.ErrorIs(t, err, ErrUserNotFound)
	})
}

func TestNotificationService_MarkMessageAsRead(t *testing.T) {
	ctx := context.Background()
	repo := newMemRepository()
	message := &models.Message{SenderID: "student-1", RecipientID: "student-2", Body: "ping"}
	_ = repo.messages.Create(ctx, message)
	service := NewNotificationService(repo, newTestPublisher(), newTestLogger(), newTestValidator())

	t.Run("Recipient_Only", func(t *testing.T) {
		_, err := service.MarkMessageAsRead(ctx, testStudent("student-1"), message.ID)
		assert.True(t, IsUnauthorized(err))

		read, err := service.MarkMessageAsRead(ctx, testStudent("student-2"), message.ID)
		assert.NoError(t, err)
		assert.NotNil(t, read.ReadAt)
	})

	t.Run("Second_Read_Is_Noop", func(t *testing.T) {
		updates := repo.messages.updates
		_, err := service.MarkMessageAsRead(ctx, testStudent("student-2"), message.ID)
		assert.NoError(t, err)
		assert.Equal(t, updates, repo.messages.updates)
	})
}
