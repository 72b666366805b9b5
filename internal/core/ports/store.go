package ports

import (
	"context"

	"github.com/turfworks/greenmaster/internal/core/domain"
)

// CancelFunc tears down a subscription. Safe to call more than once.
type CancelFunc func()

// SnapshotFunc receives the full current contents of a collection. The first
// delivery happens synchronously inside Subscribe (replay-on-subscribe), then
// again after every change.
type SnapshotFunc func(docs []domain.Document)

// DocumentStore is the uniform interface over the backing document store.
// Two implementations exist: the MongoDB store (remote mode, change-feed
// driven) and the local mirror store (mock mode, file backed). The choice is
// made once at startup by the composition root.
type DocumentStore interface {
	// Subscribe delivers the current snapshot immediately, then on every
	// subsequent change, until the returned CancelFunc is called.
	Subscribe(ctx context.Context, collection string, fn SnapshotFunc) (CancelFunc, error)

	// Save upserts by id. A document without a persistent id gets a fresh
	// identity, which is returned. For existing records the write is a
	// field-level merge: fields absent from doc are left untouched.
	Save(ctx context.Context, collection string, doc domain.Document) (string, error)

	// Update applies a partial field merge to the record with the given id.
	// In local mode a missing id is a no-op, not an error.
	Update(ctx context.Context, collection, id string, fields map[string]any) error

	// Delete removes the record with the given id. No-op if absent.
	Delete(ctx context.Context, collection, id string) error

	// SeedIfEmpty writes docs as the initial content if and only if the
	// collection currently has zero records, preserving any ids they carry.
	SeedIfEmpty(ctx context.Context, collection string, docs []domain.Document) error
}
