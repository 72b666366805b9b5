package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/turfworks/greenmaster/internal/core/domain"
	"github.com/turfworks/greenmaster/internal/core/ports"
)

const (
	// Sessions outlive restarts but not forever; re-login refreshes the slot.
	sessionTTL = 30 * 24 * time.Hour
	// Drafts are transient by definition.
	draftTTL = 7 * 24 * time.Hour
)

// SessionStore implements ports.SessionStore on Redis.
// Key formats: session:<user_id> and draft:<form_name>.
type SessionStore struct {
	client *redis.Client
}

// NewSessionStore wraps the given Redis client.
func NewSessionStore(client *redis.Client) *SessionStore {
	return &SessionStore{client: client}
}

var _ ports.SessionStore = (*SessionStore)(nil)

func (s *SessionStore) SaveSession(ctx context.Context, user domain.User) error {
	data, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("session marshal: %w", err)
	}
	return s.client.Set(ctx, sessionKey(user.ID), data, sessionTTL).Err()
}

func (s *SessionStore) LoadSession(ctx context.Context, userID string) (*domain.User, error) {
	data, err := s.client.Get(ctx, sessionKey(userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("session load: %w", err)
	}
	var user domain.User
	if err := json.Unmarshal(data, &user); err != nil {
		return nil, fmt.Errorf("session unmarshal: %w", err)
	}
	return &user, nil
}

func (s *SessionStore) ClearSession(ctx context.Context, userID string) error {
	return s.client.Del(ctx, sessionKey(userID)).Err()
}

func (s *SessionStore) SaveDraft(ctx context.Context, form string, payload []byte) error {
	return s.client.Set(ctx, draftKey(form), payload, draftTTL).Err()
}

func (s *SessionStore) LoadDraft(ctx context.Context, form string) ([]byte, error) {
	data, err := s.client.Get(ctx, draftKey(form)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, domain.ErrNotFound
	}
	return data, err
}

func (s *SessionStore) ClearDraft(ctx context.Context, form string) error {
	return s.client.Del(ctx, draftKey(form)).Err()
}

func sessionKey(userID string) string { return "session:" + userID }
func draftKey(form string) string     { return "draft:" + form }
