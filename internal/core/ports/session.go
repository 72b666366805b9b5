package ports

import (
	"context"

	"github.com/turfworks/greenmaster/internal/core/domain"
)

// Session is one authenticated identity with its role-derived capabilities.
type Session struct {
	User domain.User
	Caps domain.Capabilities
}

// SessionStore persists session users and transient form drafts. Backed by
// Redis in remote mode and by a JSON file slot in mock mode.
type SessionStore interface {
	SaveSession(ctx context.Context, user domain.User) error
	// LoadSession returns domain.ErrNotFound when no slot exists.
	LoadSession(ctx context.Context, userID string) (*domain.User, error)
	ClearSession(ctx context.Context, userID string) error

	// Draft slots hold in-progress, not-yet-submitted form state keyed by
	// logical form name. Best-effort; drafts may expire.
	SaveDraft(ctx context.Context, form string, payload []byte) error
	LoadDraft(ctx context.Context, form string) ([]byte, error)
	ClearDraft(ctx context.Context, form string) error
}

// SessionService resolves who the current user is and keeps that resolution
// live against the users collection snapshot.
type SessionService interface {
	// Login authenticates by email alone. Outcomes: ErrUnregisteredEmail,
	// ErrAwaitingApproval, ErrRejected, or a session plus a signed token.
	Login(ctx context.Context, email string) (*Session, string, error)

	// Register creates a pending-approval user. It never authenticates;
	// approval happens out of band. ErrAlreadyRegistered on duplicate email.
	Register(ctx context.Context, name, email, department string) (*domain.User, error)

	// Logout clears the in-memory session and its persisted slot.
	Logout(ctx context.Context, userID string) error

	// Current returns the live session for a user id, if one is active.
	Current(userID string) (*Session, bool)

	// Resume reactivates a session from its persisted slot, re-resolving the
	// user against the current users snapshot. Used after process restart
	// when a still-valid token arrives for a session not held in memory.
	Resume(ctx context.Context, userID string) (*Session, error)
}
