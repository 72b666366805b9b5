package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/turfworks/greenmaster/internal/core/domain"
)

const testSecret = "test-secret"

func seededUsers() SeedFunc {
	return func(collection string) []domain.Document {
		if collection != domain.CollectionUsers {
			return nil
		}
		return []domain.Document{
			{"id": "u1", "name": "Admin", "email": "admin@greenmaster.com", "role": "admin", "status": "approved"},
			{"id": "u2", "name": "Minji Seo", "email": "minji.seo@greenmaster.com", "role": "manager", "status": "approved"},
			{"id": "u3", "name": "Hojin Park", "email": "hojin.park@greenmaster.com", "role": "viewer", "status": "pending"},
			{"id": "u4", "name": "Gone", "email": "gone@greenmaster.com", "role": "staff", "status": "rejected"},
		}
	}
}

func newTestManager(t *testing.T) (*SessionManager, *Synchronizer, *fakeSessionStore) {
	t.Helper()
	store := newFakeStore()
	syncer := startSync(t, store, seededUsers())
	slots := newFakeSessionStore()
	m := NewSessionManager(syncer, slots, testSecret, time.Hour, zerolog.Nop())
	m.Start()
	t.Cleanup(m.Stop)
	return m, syncer, slots
}

func TestLoginUnregisteredEmail(t *testing.T) {
	m, _, _ := newTestManager(t)
	_, _, err := m.Login(context.Background(), "stranger@greenmaster.com")
	if !errors.Is(err, domain.ErrUnregisteredEmail) {
		t.Fatalf("want ErrUnregisteredEmail, got %v", err)
	}
}

func TestLoginStatusGating(t *testing.T) {
	m, _, _ := newTestManager(t)
	ctx := context.Background()

	if _, _, err := m.Login(ctx, "hojin.park@greenmaster.com"); !errors.Is(err, domain.ErrAwaitingApproval) {
		t.Fatalf("pending account: want ErrAwaitingApproval, got %v", err)
	}
	if _, _, err := m.Login(ctx, "gone@greenmaster.com"); !errors.Is(err, domain.ErrRejected) {
		t.Fatalf("rejected account: want ErrRejected, got %v", err)
	}
}

func TestLoginApproved(t *testing.T) {
	m, syncer, slots := newTestManager(t)
	ctx := context.Background()

	// email matching is normalized
	sess, token, err := m.Login(ctx, "  ADMIN@GreenMaster.com ")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if sess.User.ID != "u1" || !sess.Caps.Admin {
		t.Fatalf("session mismatch: %+v", sess)
	}

	claims := jwt.MapClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return []byte(testSecret), nil
	})
	if err != nil || !parsed.Valid {
		t.Fatalf("token invalid: %v", err)
	}
	if claims["sub"] != "u1" || claims["role"] != "admin" {
		t.Fatalf("claims mismatch: %v", claims)
	}

	if _, err := slots.LoadSession(ctx, "u1"); err != nil {
		t.Fatalf("session slot not persisted: %v", err)
	}

	events, err := syncer.AuditLog()
	if err != nil {
		t.Fatalf("AuditLog: %v", err)
	}
	if len(events) != 1 || events[0].Action != domain.ActionLogin || events[0].ActorID != "u1" {
		t.Fatalf("login audit event missing: %+v", events)
	}
}

func TestRoleChangePropagatesToActiveSession(t *testing.T) {
	m, syncer, _ := newTestManager(t)
	ctx := context.Background()

	sess, _, err := m.Login(ctx, "minji.seo@greenmaster.com")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if sess.Caps.Admin {
		t.Fatal("manager must not start with admin capability")
	}

	admin := actorFor("u1", "Admin", domain.RoleAdmin)
	if err := syncer.UpdateUser(ctx, admin, "u2", map[string]any{"role": "admin"}); err != nil {
		t.Fatalf("UpdateUser: %v", err)
	}

	current, ok := m.Current("u2")
	if !ok {
		t.Fatal("session vanished after role change")
	}
	if current.User.Role != domain.RoleAdmin || !current.Caps.Admin {
		t.Fatalf("role change did not propagate: %+v", current)
	}
}

func TestDeletedUserKeepsLastKnownProfile(t *testing.T) {
	m, syncer, _ := newTestManager(t)
	ctx := context.Background()

	if _, _, err := m.Login(ctx, "minji.seo@greenmaster.com"); err != nil {
		t.Fatalf("Login: %v", err)
	}
	if err := syncer.DeleteUser(ctx, nil, "u2"); err != nil {
		t.Fatalf("DeleteUser: %v", err)
	}

	current, ok := m.Current("u2")
	if !ok {
		t.Fatal("session must survive user deletion until logout")
	}
	if current.User.Email != "minji.seo@greenmaster.com" {
		t.Fatalf("last-known profile lost: %+v", current.User)
	}
}

func TestLogoutClearsSessionAndSlot(t *testing.T) {
	m, _, slots := newTestManager(t)
	ctx := context.Background()

	if _, _, err := m.Login(ctx, "admin@greenmaster.com"); err != nil {
		t.Fatalf("Login: %v", err)
	}
	if err := m.Logout(ctx, "u1"); err != nil {
		t.Fatalf("Logout: %v", err)
	}

	if _, ok := m.Current("u1"); ok {
		t.Fatal("session still active after logout")
	}
	if _, err := slots.LoadSession(ctx, "u1"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("slot not cleared: %v", err)
	}
}

func TestRegisterCreatesPendingViewer(t *testing.T) {
	m, syncer, _ := newTestManager(t)
	ctx := context.Background()

	user, err := m.Register(ctx, "New Hire", "New.Hire@greenmaster.com", "turf ops")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if user.Role != domain.RoleViewer || user.Status != domain.StatusPending {
		t.Fatalf("registration defaults wrong: %+v", user)
	}
	if user.Email != "new.hire@greenmaster.com" {
		t.Fatalf("email not normalized: %q", user.Email)
	}

	// registration never authenticates
	if _, _, err := m.Login(ctx, "new.hire@greenmaster.com"); !errors.Is(err, domain.ErrAwaitingApproval) {
		t.Fatalf("fresh registration must await approval, got %v", err)
	}

	users, _ := syncer.Users()
	if len(users) != 5 {
		t.Fatalf("users = %d, want 5", len(users))
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	m, _, _ := newTestManager(t)
	_, err := m.Register(context.Background(), "Imposter", "ADMIN@greenmaster.com", "")
	if !errors.Is(err, domain.ErrAlreadyRegistered) {
		t.Fatalf("want ErrAlreadyRegistered, got %v", err)
	}
}

func TestResumeFromPersistedSlot(t *testing.T) {
	m, _, slots := newTestManager(t)
	ctx := context.Background()

	// a slot left by a previous process
	if err := slots.SaveSession(ctx, domain.User{ID: "u2", Name: "Minji Seo", Email: "minji.seo@greenmaster.com", Role: domain.RoleViewer, Status: domain.StatusApproved}); err != nil {
		t.Fatalf("SaveSession: %v", err)
	}

	sess, err := m.Resume(ctx, "u2")
	if err != nil {
		t.Fatalf("Resume: %v", err)
	}
	// live snapshot wins over the stale stored profile
	if sess.User.Role != domain.RoleManager {
		t.Fatalf("resume must prefer the live users snapshot, got role %q", sess.User.Role)
	}
	if _, ok := m.Current("u2"); !ok {
		t.Fatal("resume did not reactivate the session")
	}
}

func TestResumeWithoutSlot(t *testing.T) {
	m, _, _ := newTestManager(t)
	if _, err := m.Resume(context.Background(), "u1"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}
