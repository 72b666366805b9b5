package service

import (
	"context"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/turfworks/greenmaster/internal/api/metrics"
	"github.com/turfworks/greenmaster/internal/core/domain"
	"github.com/turfworks/greenmaster/internal/core/ports"
)

// SessionManager resolves the active user per session and keeps every active
// session live against the users collection: role or status edits made by an
// administrator propagate without re-login.
type SessionManager struct {
	sync      *Synchronizer
	store     ports.SessionStore
	jwtSecret string
	tokenTTL  time.Duration
	log       zerolog.Logger

	mu     sync.RWMutex
	active map[string]*ports.Session

	stopWatch func()
}

// NewSessionManager wires the manager over the synchronizer's users snapshot
// and the given session persistence.
func NewSessionManager(syncer *Synchronizer, store ports.SessionStore, jwtSecret string, tokenTTL time.Duration, log zerolog.Logger) *SessionManager {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &SessionManager{
		sync:      syncer,
		store:     store,
		jwtSecret: jwtSecret,
		tokenTTL:  tokenTTL,
		log:       log.With().Str("component", "sessions").Logger(),
		active:    make(map[string]*ports.Session),
	}
}

var _ ports.SessionService = (*SessionManager)(nil)

// Start begins watching the users snapshot for live re-resolution.
func (m *SessionManager) Start() {
	m.stopWatch = m.sync.Watch(domain.CollectionUsers, m.onUsers)
}

// Stop detaches the users watch.
func (m *SessionManager) Stop() {
	if m.stopWatch != nil {
		m.stopWatch()
		m.stopWatch = nil
	}
}

// onUsers re-resolves every active session against the new users snapshot.
// A session whose user id has disappeared keeps its last-known profile until
// explicit logout.
func (m *SessionManager) onUsers(docs []domain.Document) {
	byID := make(map[string]domain.Document, len(docs))
	for _, doc := range docs {
		byID[doc.ID()] = doc
	}

	m.mu.Lock()
	var refreshed []domain.User
	for id, sess := range m.active {
		doc, ok := byID[id]
		if !ok {
			continue
		}
		user, err := domain.Decode[domain.User](doc)
		if err != nil {
			m.log.Warn().Err(err).Str("user_id", id).Msg("users snapshot entry undecodable")
			continue
		}
		if user == sess.User {
			continue
		}
		m.active[id] = &ports.Session{User: user, Caps: domain.CapabilitiesFor(user.Role)}
		refreshed = append(refreshed, user)
	}
	m.mu.Unlock()

	for _, user := range refreshed {
		if err := m.store.SaveSession(context.Background(), user); err != nil {
			m.log.Warn().Err(err).Str("user_id", user.ID).Msg("session re-persist failed")
		}
		m.log.Info().Str("user_id", user.ID).Str("role", user.Role).Msg("session re-resolved from users snapshot")
	}
}

// Login authenticates by email alone against the users snapshot and gates on
// approval status. Success persists the session and appends a LOGIN audit
// event.
func (m *SessionManager) Login(ctx context.Context, email string) (*ports.Session, string, error) {
	users, err := m.sync.Users()
	if err != nil {
		return nil, "", err
	}

	normalized := domain.NormalizeEmail(email)
	var match *domain.User
	for i := range users {
		if domain.NormalizeEmail(users[i].Email) == normalized {
			match = &users[i]
			break
		}
	}
	if match == nil {
		return nil, "", domain.ErrUnregisteredEmail
	}

	switch match.Status {
	case domain.StatusApproved:
	case domain.StatusPending:
		return nil, "", domain.ErrAwaitingApproval
	default:
		return nil, "", domain.ErrRejected
	}

	sess := &ports.Session{User: *match, Caps: domain.CapabilitiesFor(match.Role)}

	m.mu.Lock()
	m.active[match.ID] = sess
	metrics.SessionsActive.Set(float64(len(m.active)))
	m.mu.Unlock()

	if err := m.store.SaveSession(ctx, *match); err != nil {
		return nil, "", err
	}
	if err := m.sync.Audit(ctx, sess, domain.ActionLogin, domain.TargetUser, match.Name, ""); err != nil {
		return nil, "", err
	}

	token, err := m.signToken(match)
	if err != nil {
		return nil, "", err
	}

	m.log.Info().Str("user_id", match.ID).Str("role", match.Role).Msg("login")
	return sess, token, nil
}

// Register creates a pending-approval user. It never authenticates and is
// deliberately unaudited (no session actor exists yet).
func (m *SessionManager) Register(ctx context.Context, name, email, department string) (*domain.User, error) {
	users, err := m.sync.Users()
	if err != nil {
		return nil, err
	}
	normalized := domain.NormalizeEmail(email)
	for _, u := range users {
		if domain.NormalizeEmail(u.Email) == normalized {
			return nil, domain.ErrAlreadyRegistered
		}
	}

	user := domain.User{
		Name:       name,
		Email:      domain.NormalizeEmail(email),
		Department: department,
		Role:       domain.RoleViewer,
		Status:     domain.StatusPending,
		CreatedAt:  domain.NowStamp(),
	}
	id, err := m.sync.AddUser(ctx, nil, user)
	if err != nil {
		return nil, err
	}
	user.ID = id

	m.log.Info().Str("user_id", id).Str("email", user.Email).Msg("registration pending approval")
	return &user, nil
}

// Logout clears the in-memory session and its persisted slot.
func (m *SessionManager) Logout(ctx context.Context, userID string) error {
	m.mu.Lock()
	delete(m.active, userID)
	metrics.SessionsActive.Set(float64(len(m.active)))
	m.mu.Unlock()

	if err := m.store.ClearSession(ctx, userID); err != nil {
		return err
	}
	m.log.Info().Str("user_id", userID).Msg("logout")
	return nil
}

// Current returns the in-memory session for a user id.
func (m *SessionManager) Current(userID string) (*ports.Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	sess, ok := m.active[userID]
	return sess, ok
}

// Resume reactivates a persisted session, preferring the live users snapshot
// over the stored profile when both exist.
func (m *SessionManager) Resume(ctx context.Context, userID string) (*ports.Session, error) {
	stored, err := m.store.LoadSession(ctx, userID)
	if err != nil {
		return nil, err
	}

	user := *stored
	users, err := m.sync.Users()
	if err == nil {
		for _, u := range users {
			if u.ID == userID {
				user = u
				break
			}
		}
	}

	sess := &ports.Session{User: user, Caps: domain.CapabilitiesFor(user.Role)}
	m.mu.Lock()
	m.active[userID] = sess
	metrics.SessionsActive.Set(float64(len(m.active)))
	m.mu.Unlock()
	return sess, nil
}

func (m *SessionManager) signToken(user *domain.User) (string, error) {
	claims := jwt.MapClaims{
		"sub":   user.ID,
		"email": user.Email,
		"role":  user.Role,
		"exp":   time.Now().Add(m.tokenTTL).Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(m.jwtSecret))
}
