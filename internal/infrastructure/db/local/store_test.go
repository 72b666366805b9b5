package local

import (
	"context"
	"strconv"
	"sync"
	"testing"

	"github.com/rs/zerolog"

	"github.com/turfworks/greenmaster/internal/core/domain"
)

func newTestStore(t *testing.T) (*Store, *Mirror) {
	t.Helper()
	mirror, err := NewMirror(t.TempDir(), zerolog.Nop())
	if err != nil {
		t.Fatalf("NewMirror: %v", err)
	}
	return NewStore(mirror, zerolog.Nop()), mirror
}

func TestSaveAssignsIdentity(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	id, err := store.Save(ctx, "courses", domain.Document{"name": "Pinebrook"})
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if id == "" {
		t.Fatal("expected a generated id")
	}

	id2, err := store.Save(ctx, "courses", domain.Document{"id": "tmp-1", "name": "Lakeview"})
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if id2 == "" || id2 == "tmp-1" {
		t.Fatalf("temporary id not replaced: %q", id2)
	}
}

func TestSubscribeReplaysCurrentContents(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	if _, err := store.Save(ctx, "courses", domain.Document{"id": "c1", "name": "Pinebrook"}); err != nil {
		t.Fatalf("Save: %v", err)
	}

	var got []domain.Document
	cancel, err := store.Subscribe(ctx, "courses", func(docs []domain.Document) {
		got = docs
	})
	if err != nil {
		t.Fatalf("Subscribe: %v", err)
	}
	defer cancel()

	if len(got) != 1 || got[0].ID() != "c1" {
		t.Fatalf("replay-on-subscribe missing: %v", got)
	}
}

func TestMutationNotifiesSynchronously(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	var deliveries [][]domain.Document
	cancel, err := store.Subscribe(ctx, "courses", func(docs []domain.Document) {
		deliveries = append(deliveries, docs)
	})
	if err != nil {
		t.Fatalf("Subscribe: %v", err)
	}
	defer cancel()

	if _, err := store.Save(ctx, "courses", domain.Document{"id": "c1", "name": "Pinebrook"}); err != nil {
		t.Fatalf("Save: %v", err)
	}

	// replay plus one change, already delivered when Save returned
	if len(deliveries) != 2 {
		t.Fatalf("deliveries = %d, want 2", len(deliveries))
	}
	if len(deliveries[1]) != 1 || deliveries[1][0]["name"] != "Pinebrook" {
		t.Fatalf("change delivery mismatch: %v", deliveries[1])
	}
}

func TestSaveMergesExistingRecord(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	if _, err := store.Save(ctx, "courses", domain.Document{"id": "c1", "name": "Pinebrook", "region": "north"}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if _, err := store.Save(ctx, "courses", domain.Document{"id": "c1", "memo": "visited"}); err != nil {
		t.Fatalf("Save: %v", err)
	}

	docs := store.mirror.Read("courses")
	if len(docs) != 1 {
		t.Fatalf("expected one record, got %d", len(docs))
	}
	if docs[0]["region"] != "north" || docs[0]["memo"] != "visited" {
		t.Fatalf("field merge lost data: %v", docs[0])
	}
}

func TestUpdateAbsentRecordIsNoop(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	notified := 0
	cancel, _ := store.Subscribe(ctx, "courses", func([]domain.Document) { notified++ })
	defer cancel()

	if err := store.Update(ctx, "courses", "ghost", map[string]any{"name": "x"}); err != nil {
		t.Fatalf("Update of absent record should not error: %v", err)
	}
	if notified != 1 { // replay only
		t.Fatalf("unexpected notification on no-op update: %d", notified)
	}
}

func TestDeleteAbsentRecordDoesNotNotify(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	notified := 0
	cancel, _ := store.Subscribe(ctx, "courses", func([]domain.Document) { notified++ })
	defer cancel()

	if err := store.Delete(ctx, "courses", "ghost"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if notified != 1 {
		t.Fatalf("unexpected notification on no-op delete: %d", notified)
	}
}

func TestSeedIfEmptyOnlySeedsOnce(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()
	seeds := []domain.Document{{"id": "c1", "name": "Pinebrook"}}

	if err := store.SeedIfEmpty(ctx, "courses", seeds); err != nil {
		t.Fatalf("SeedIfEmpty: %v", err)
	}
	if err := store.SeedIfEmpty(ctx, "courses", []domain.Document{{"id": "c2"}}); err != nil {
		t.Fatalf("SeedIfEmpty: %v", err)
	}

	docs := store.mirror.Read("courses")
	if len(docs) != 1 || docs[0].ID() != "c1" {
		t.Fatalf("second seed should be a no-op: %v", docs)
	}
}

func TestConcurrentSavesKeepEveryRecordInOrder(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	var mu sync.Mutex
	var sizes []int
	cancel, err := store.Subscribe(ctx, "logs", func(docs []domain.Document) {
		mu.Lock()
		sizes = append(sizes, len(docs))
		mu.Unlock()
	})
	if err != nil {
		t.Fatalf("Subscribe: %v", err)
	}
	defer cancel()

	const writers = 16
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			if _, err := store.Save(ctx, "logs", domain.Document{"content": strconv.Itoa(n)}); err != nil {
				t.Errorf("Save: %v", err)
			}
		}(i)
	}
	wg.Wait()

	if docs := store.mirror.Read("logs"); len(docs) != writers {
		t.Fatalf("records = %d, want %d (concurrent save lost an update)", len(docs), writers)
	}

	// replay plus one delivery per save, each one record larger than the last
	mu.Lock()
	defer mu.Unlock()
	if len(sizes) != writers+1 {
		t.Fatalf("deliveries = %d, want %d", len(sizes), writers+1)
	}
	for i := 1; i < len(sizes); i++ {
		if sizes[i] != sizes[i-1]+1 {
			t.Fatalf("deliveries arrived out of commit order: %v", sizes)
		}
	}
}

func TestMirrorPersistsAcrossReload(t *testing.T) {
	dir := t.TempDir()
	mirror, err := NewMirror(dir, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewMirror: %v", err)
	}
	store := NewStore(mirror, zerolog.Nop())
	if _, err := store.Save(context.Background(), "courses", domain.Document{"id": "c1", "name": "Pinebrook"}); err != nil {
		t.Fatalf("Save: %v", err)
	}

	reloaded, err := NewMirror(dir, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewMirror reload: %v", err)
	}
	docs := reloaded.Read("courses")
	if len(docs) != 1 || docs[0]["name"] != "Pinebrook" {
		t.Fatalf("persisted data lost on reload: %v", docs)
	}
}

func TestCancelledSubscriptionStopsDeliveries(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	notified := 0
	cancel, _ := store.Subscribe(ctx, "courses", func([]domain.Document) { notified++ })
	cancel()

	if _, err := store.Save(ctx, "courses", domain.Document{"id": "c1"}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if notified != 1 { // replay only, nothing after cancel
		t.Fatalf("cancelled subscriber still notified: %d", notified)
	}
}
