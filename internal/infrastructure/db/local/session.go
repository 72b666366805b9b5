package local

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/turfworks/greenmaster/internal/core/domain"
	"github.com/turfworks/greenmaster/internal/core/ports"
)

// SessionStore persists session users and form drafts as JSON file slots,
// the mock-mode counterpart of the Redis session store.
type SessionStore struct {
	dir string
	mu  sync.Mutex
}

// NewSessionStore creates the slot directory if needed.
func NewSessionStore(dir string) (*SessionStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("session store: create dir: %w", err)
	}
	return &SessionStore{dir: dir}, nil
}

var _ ports.SessionStore = (*SessionStore)(nil)

func (s *SessionStore) SaveSession(_ context.Context, user domain.User) error {
	data, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("session store: marshal user: %w", err)
	}
	return s.writeSlot("session_"+user.ID, data)
}

func (s *SessionStore) LoadSession(_ context.Context, userID string) (*domain.User, error) {
	data, err := s.readSlot("session_" + userID)
	if err != nil {
		return nil, err
	}
	var user domain.User
	if err := json.Unmarshal(data, &user); err != nil {
		return nil, fmt.Errorf("session store: unmarshal user: %w", err)
	}
	return &user, nil
}

func (s *SessionStore) ClearSession(_ context.Context, userID string) error {
	return s.clearSlot("session_" + userID)
}

func (s *SessionStore) SaveDraft(_ context.Context, form string, payload []byte) error {
	return s.writeSlot("draft_"+form, payload)
}

func (s *SessionStore) LoadDraft(_ context.Context, form string) ([]byte, error) {
	return s.readSlot("draft_" + form)
}

func (s *SessionStore) ClearDraft(_ context.Context, form string) error {
	return s.clearSlot("draft_" + form)
}

func (s *SessionStore) writeSlot(name string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return writeFileAtomic(filepath.Join(s.dir, name+".json"), data, 0o600)
}

func (s *SessionStore) readSlot(name string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, err := os.ReadFile(filepath.Join(s.dir, name+".json"))
	if os.IsNotExist(err) {
		return nil, domain.ErrNotFound
	}
	return data, err
}

func (s *SessionStore) clearSlot(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	err := os.Remove(filepath.Join(s.dir, name+".json"))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
