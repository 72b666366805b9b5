package local

import (
	"context"
	"errors"
	"testing"

	"github.com/turfworks/greenmaster/internal/core/domain"
)

func TestSessionSlotRoundTrip(t *testing.T) {
	store, err := NewSessionStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewSessionStore: %v", err)
	}
	ctx := context.Background()

	user := domain.User{ID: "u1", Name: "Admin", Email: "admin@greenmaster.com", Role: domain.RoleAdmin}
	if err := store.SaveSession(ctx, user); err != nil {
		t.Fatalf("SaveSession: %v", err)
	}

	got, err := store.LoadSession(ctx, "u1")
	if err != nil {
		t.Fatalf("LoadSession: %v", err)
	}
	if got.Email != user.Email || got.Role != user.Role {
		t.Fatalf("loaded session mismatch: %+v", got)
	}

	if err := store.ClearSession(ctx, "u1"); err != nil {
		t.Fatalf("ClearSession: %v", err)
	}
	if _, err := store.LoadSession(ctx, "u1"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("cleared slot should be ErrNotFound, got %v", err)
	}
}

func TestLoadSessionAbsent(t *testing.T) {
	store, err := NewSessionStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewSessionStore: %v", err)
	}
	if _, err := store.LoadSession(context.Background(), "nobody"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestDraftSlotRoundTrip(t *testing.T) {
	store, err := NewSessionStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewSessionStore: %v", err)
	}
	ctx := context.Background()
	payload := []byte(`{"course_id":"c1","content":"half-written"}`)

	if err := store.SaveDraft(ctx, "visit_log", payload); err != nil {
		t.Fatalf("SaveDraft: %v", err)
	}
	got, err := store.LoadDraft(ctx, "visit_log")
	if err != nil {
		t.Fatalf("LoadDraft: %v", err)
	}
	if string(got) != string(payload) {
		t.Fatalf("draft mismatch: %s", got)
	}

	if err := store.ClearDraft(ctx, "visit_log"); err != nil {
		t.Fatalf("ClearDraft: %v", err)
	}
	if _, err := store.LoadDraft(ctx, "visit_log"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("cleared draft should be ErrNotFound, got %v", err)
	}
}
