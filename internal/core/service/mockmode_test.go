package service

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/turfworks/greenmaster/internal/core/domain"
	"github.com/turfworks/greenmaster/internal/core/seed"
	"github.com/turfworks/greenmaster/internal/infrastructure/db/local"
)

// Full mock-mode pass over the real file-backed mirror: seed, authenticate,
// mutate, and verify the audit trail, exactly as a fresh deployment without a
// database behaves.
func TestMockModeEndToEnd(t *testing.T) {
	dir := t.TempDir()
	mirror, err := local.NewMirror(dir, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewMirror: %v", err)
	}
	store := local.NewStore(mirror, zerolog.Nop())

	syncer := NewSynchronizer(store, seed.For, zerolog.Nop())
	if err := syncer.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer syncer.Stop()

	slots, err := local.NewSessionStore(dir)
	if err != nil {
		t.Fatalf("NewSessionStore: %v", err)
	}
	sessions := NewSessionManager(syncer, slots, "e2e-secret", time.Hour, zerolog.Nop())
	sessions.Start()
	defer sessions.Stop()

	// seeded sample data is live
	courses, err := syncer.Courses()
	if err != nil {
		t.Fatalf("Courses: %v", err)
	}
	if len(courses) != 2 {
		t.Fatalf("seeded courses = %d, want 2", len(courses))
	}

	ctx := context.Background()
	sess, token, err := sessions.Login(ctx, "admin@greenmaster.com")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if token == "" || !sess.Caps.Admin {
		t.Fatalf("admin login incomplete: token=%q caps=%+v", token, sess.Caps)
	}

	if err := syncer.UpdateCourse(ctx, sess, "c1", map[string]any{"description": "renovation extended through autumn"}); err != nil {
		t.Fatalf("UpdateCourse: %v", err)
	}

	courses, err = syncer.Courses()
	if err != nil {
		t.Fatalf("Courses: %v", err)
	}
	var updated *domain.Course
	for i := range courses {
		if courses[i].ID == "c1" {
			updated = &courses[i]
		}
	}
	if updated == nil || updated.Description != "renovation extended through autumn" {
		t.Fatalf("update not reflected: %+v", updated)
	}
	if updated.Name != "Pinebrook Country Club" {
		t.Fatalf("field merge lost untouched fields: %+v", updated)
	}

	events, err := syncer.AuditLog()
	if err != nil {
		t.Fatalf("AuditLog: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("audit events = %d, want login + update", len(events))
	}
	if events[0].Action != domain.ActionLogin || events[1].Action != domain.ActionUpdate {
		t.Fatalf("audit sequence: %+v", events)
	}
	if events[1].TargetKind != domain.TargetCourse || events[1].TargetName != "Pinebrook Country Club" {
		t.Fatalf("update audit event: %+v", events[1])
	}

	// everything above survived to disk: a second process sees the same state
	mirror2, err := local.NewMirror(dir, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewMirror reload: %v", err)
	}
	persisted := mirror2.Read(domain.CollectionAuditLog)
	if len(persisted) != 2 {
		t.Fatalf("audit log not durable: %d records", len(persisted))
	}
}
