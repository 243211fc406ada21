package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/SAP-F-2025/classroom-service/internal/models"
	"github.com/redis/go-redis/v9"
)

// memberTTL bounds how long a member stays listed without a heartbeat. Each
// member key is tracked separately so one silent client does not keep the
// whole set alive.
const memberTTL = 90 * time.Second

// PresenceStore tracks which users are currently connected to a presence
// channel. Membership is re-asserted by heartbeats; absence of a heartbeat
// expires the member.
type PresenceStore interface {
	Join(ctx context.Context, channel, userID string) error
	Leave(ctx context.Context, channel, userID string) error
	Heartbeat(ctx context.Context, channel, userID string) error
	Members(ctx context.Context, channel string) ([]string, error)
	IsOnline(ctx context.Context, channel, userID string) (bool, error)
}

type redisPresenceStore struct {
	client *redis.Client
}

func NewRedisPresenceStore(client *redis.Client) PresenceStore {
	return &redisPresenceStore{client: client}
}

func memberKey(channel, userID string) string {
	return fmt.Sprintf("presence:%s:%s", channel, userID)
}

func channelPattern(channel string) string {
	return fmt.Sprintf("presence:%s:*", channel)
}

func (s *redisPresenceStore) Join(ctx context.Context, channel, userID string) error {
	if err := s.client.Set(ctx, memberKey(channel, userID), time.Now().Unix(), memberTTL).Err(); err != nil {
		return fmt.Errorf("failed to join presence channel %s: %w", channel, err)
	}
	return nil
}

func (s *redisPresenceStore) Leave(ctx context.Context, channel, userID string) error {
	if err := s.client.Del(ctx, memberKey(channel, userID)).Err(); err != nil {
		return fmt.Errorf("failed to leave presence channel %s: %w", channel, err)
	}
	return nil
}

func (s *redisPresenceStore) Heartbeat(ctx context.Context, channel, userID string) error {
	// SET with TTL rather than EXPIRE so a heartbeat after expiry re-joins.
	return s.Join(ctx, channel, userID)
}

func (s *redisPresenceStore) Members(ctx context.Context, channel string) ([]string, error) {
	var members []string
	prefix := fmt.Sprintf("presence:%s:", channel)

	iter := s.client.Scan(ctx, 0, channelPattern(channel), 100).Iterator()
	for iter.Next(ctx) {
		key := iter.Val()
		if len(key) > len(prefix) {
			members = append(members, key[len(prefix):])
		}
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan presence channel %s: %w", channel, err)
	}
	return members, nil
}

func (s *redisPresenceStore) IsOnline(ctx context.Context, channel, userID string) (bool, error) {
	n, err := s.client.Exists(ctx, memberKey(channel, userID)).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check presence: %w", err)
	}
	return n > 0, nil
}

// PresenceChannelForRole maps a role onto its scoped presence channel name.
func PresenceChannelForRole(role models.UserRole) (string, bool) {
	switch role {
	case models.RoleStudent:
		return "online.students", true
	case models.RoleTeacher:
		return "online.teachers", true
	}
	return "", false
}
