package services

import (
	"context"
	"sort"
	"testing"

	"github.com/SAP-F-2025/classroom-service/internal/models"
	"github.com/stretchr/testify/assert"
)

type memPresenceStore struct {
	channels map[string]map[string]bool
}

func newMemPresenceStore() *memPresenceStore {
	return &memPresenceStore{channels: map[string]map[string]bool{}}
}

func (s *memPresenceStore) Join(_ context.Context, channel, userID string) error {
	if s.channels[channel] == nil {
		s.channels[channel] = map[string]bool{}
	}
	s.channels[channel][userID] = true
	return nil
}

func (s *memPresenceStore) Leave(_ context.Context, channel, userID string) error {
	delete(s.channels[channel], userID)
	return nil
}

func (s *memPresenceStore) Heartbeat(ctx context.Context, channel, userID string) error {
	return s.Join(ctx, channel, userID)
}

func (s *memPresenceStore) Members(_ context.Context, channel string) ([]string, error) {
	var members []string
	for userID := range s.channels[channel] {
		members = append(members, userID)
	}
	sort.Strings(members)
	return members, nil
}

func (s *memPresenceStore) IsOnline(_ context.Context, channel, userID string) (bool, error) {
	return s.channels[channel][userID], nil
}

func TestPresenceService(t *testing.T) {
	ctx := context.Background()

	t.Run("Connect_Lands_On_Global_And_Role_Channel", func(t *testing.T) {
		store := newMemPresenceStore()
		service := NewPresenceService(store, newTestLogger())

		assert.NoError(t, service.Connect(ctx, testStudent("student-1")))
		assert.NoError(t, service.Connect(ctx, testTeacher("teacher-1")))
		assert.NoError(t, service.Connect(ctx, testAdmin("admin-1")))

		all, err := service.OnlineUsers(ctx)
		assert.NoError(t, err)
		assert.Equal(t, []string{"admin-1", "student-1", "teacher-1"}, all)

		students, err := service.OnlineByRole(ctx, models.RoleStudent)
		assert.NoError(t, err)
		assert.Equal(t, []string{"student-1"}, students)

		teachers, err := service.OnlineByRole(ctx, models.RoleTeacher)
		assert.NoError(t, err)
		assert.Equal(t, []string{"teacher-1"}, teachers)
	})

	t.Run("Admins_Have_No_Role_Channel", func(t *testing.T) {
		store := newMemPresenceStore()
		service := NewPresenceService(store, newTestLogger())
		assert.NoError(t, service.Connect(ctx, testAdmin("admin-1")))

		_, err := service.OnlineByRole(ctx, models.RoleAdmin)
		assert.Error(t, err)
	})

	t.Run("Disconnect_Removes_From_Both_Channels", func(t *testing.T) {
		store := newMemPresenceStore()
		service := NewPresenceService(store, newTestLogger())
		student := testStudent("student-1")

		assert.NoError(t, service.Connect(ctx, student))
		assert.NoError(t, service.Disconnect(ctx, student))

		online, err := service.IsOnline(ctx, "student-1")
		assert.NoError(t, err)
		assert.False(t, online)

		students, _ := service.OnlineByRole(ctx, models.RoleStudent)
		assert.Empty(t, students)
	})

	t.Run("Heartbeat_Rejoins_After_Expiry", func(t *testing.T) {
		store := newMemPresenceStore()
		service := NewPresenceService(store, newTestLogger())
		student := testStudent("student-1")

		assert.NoError(t, service.Heartbeat(ctx, student))

		online, err := service.IsOnline(ctx, "student-1")
		assert.NoError(t, err)
		assert.True(t, online)
	})

	t.Run("Inactive_User_Rejected", func(t *testing.T) {
		service := NewPresenceService(newMemPresenceStore(), newTestLogger())
		suspended := &models.User{ID: "student-1", Role: models.RoleStudent, Status: models.UserSuspended}

		assert.ErrorIs(t, service.Connect(ctx, suspended), ErrUserNotActive)
		assert.ErrorIs(t, service.Heartbeat(ctx, suspended), ErrUserNotActive)
	})
}
