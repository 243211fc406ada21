package services

import (
	"context"
	"fmt"

	"github.com/SAP-F-2025/classroom-service/internal/cache"
	"github.com/SAP-F-2025/classroom-service/internal/models"
	"github.com/SAP-F-2025/classroom-service/internal/utils"
)

// PresenceService keeps the online rosters. Every active user lands on the
// global "online" channel; students and teachers are additionally tracked
// on their role-scoped channel.
type PresenceService interface {
	Connect(ctx context.Context, principal *models.User) error
	Disconnect(ctx context.Context, principal *models.User) error
	Heartbeat(ctx context.Context, principal *models.User) error
	OnlineUsers(ctx context.Context) ([]string, error)
	OnlineByRole(ctx context.Context, role models.UserRole) ([]string, error)
	IsOnline(ctx context.Context, userID string) (bool, error)
}

const globalPresenceChannel = "online"

type presenceService struct {
	store  cache.PresenceStore
	logger utils.Logger
}

func NewPresenceService(store cache.PresenceStore, logger utils.Logger) PresenceService {
	return &presenceService{
		store:  store,
		logger: logger,
	}
}

func (s *presenceService) Connect(ctx context.Context, principal *models.User) error {
	if !principal.IsActive() {
		return ErrUserNotActive
	}

	if err := s.store.Join(ctx, globalPresenceChannel, principal.ID); err != nil {
		return err
	}
	if channel, ok := cache.PresenceChannelForRole(principal.Role); ok {
		if err := s.store.Join(ctx, channel, principal.ID); err != nil {
			return err
		}
	}

	s.logger.Debug("User connected", "user_id", principal.ID, "role", principal.Role)
	return nil
}

func (s *presenceService) Disconnect(ctx context.Context, principal *models.User) error {
	if err := s.store.Leave(ctx, globalPresenceChannel, principal.ID); err != nil {
		return err
	}
	if channel, ok := cache.PresenceChannelForRole(principal.Role); ok {
		if err := s.store.Leave(ctx, channel, principal.ID); err != nil {
			return err
		}
	}

	s.logger.Debug("User disconnected", "user_id", principal.ID)
	return nil
}

func (s *presenceService) Heartbeat(ctx context.Context, principal *models.User) error {
	if !principal.IsActive() {
		return ErrUserNotActive
	}

	if err := s.store.Heartbeat(ctx, globalPresenceChannel, principal.ID); err != nil {
		return err
	}
	if channel, ok := cache.PresenceChannelForRole(principal.Role); ok {
		if err := s.store.Heartbeat(ctx, channel, principal.ID); err != nil {
			return err
		}
	}
	return nil
}

func (s *presenceService) OnlineUsers(ctx context.Context) ([]string, error) {
	return s.store.Members(ctx, globalPresenceChannel)
}

func (s *presenceService) OnlineByRole(ctx context.Context, role models.UserRole) ([]string, error) {
	channel, ok := cache.PresenceChannelForRole(role)
	if !ok {
		return nil, fmt.Errorf("no presence channel for role %s", role)
	}
	return s.store.Members(ctx, channel)
}

func (s *presenceService) IsOnline(ctx context.Context, userID string) (bool, error) {
	return s.store.IsOnline(ctx, globalPresenceChannel, userID)
}
