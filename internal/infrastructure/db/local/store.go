package local

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/turfworks/greenmaster/internal/core/domain"
	"github.com/turfworks/greenmaster/internal/core/ports"
)

// Store adapts the Mirror to ports.DocumentStore. All operations are
// synchronous: a mutation's listener fan-out completes before the call
// returns, so local-mode callers observe strict program order.
type Store struct {
	mirror *Mirror
	log    zerolog.Logger
}

// NewStore wraps a mirror as a DocumentStore.
func NewStore(mirror *Mirror, log zerolog.Logger) *Store {
	return &Store{mirror: mirror, log: log.With().Str("component", "local_store").Logger()}
}

var _ ports.DocumentStore = (*Store)(nil)

func (s *Store) Subscribe(_ context.Context, collection string, fn ports.SnapshotFunc) (ports.CancelFunc, error) {
	remove := s.mirror.AddListener(collection, fn)
	return ports.CancelFunc(remove), nil
}

// Save upserts by id with field-level merge semantics. Documents without a
// persistent id are assigned a fresh one, which is returned. The whole
// read-modify-write runs inside the mirror's per-collection lock.
func (s *Store) Save(_ context.Context, collection string, doc domain.Document) (string, error) {
	var id string
	err := s.mirror.Mutate(collection, func(docs []domain.Document) ([]domain.Document, bool) {
		if doc.HasPersistentID() {
			id = doc.ID()
			for i, existing := range docs {
				if existing.ID() == id {
					merged := existing.Clone()
					merged.Merge(map[string]any(doc))
					docs[i] = merged
					return docs, true
				}
			}
			// unknown but persistent id: create that exact record
			return append(docs, doc.Clone()), true
		}

		created := doc.Clone()
		created[domain.FieldID] = uuid.NewString()
		id = created.ID()
		return append(docs, created), true
	})
	return id, err
}

// Update merges fields into the record with the given id. A missing id is a
// no-op, not an error.
func (s *Store) Update(_ context.Context, collection, id string, fields map[string]any) error {
	return s.mirror.Mutate(collection, func(docs []domain.Document) ([]domain.Document, bool) {
		for i, existing := range docs {
			if existing.ID() == id {
				merged := existing.Clone()
				merged.Merge(fields)
				docs[i] = merged
				return docs, true
			}
		}
		s.log.Debug().Str("collection", collection).Str("id", id).Msg("update of absent record skipped")
		return nil, false
	})
}

// Delete removes the record with the given id. No-op (and no notification)
// if absent.
func (s *Store) Delete(_ context.Context, collection, id string) error {
	return s.mirror.Mutate(collection, func(docs []domain.Document) ([]domain.Document, bool) {
		kept := docs[:0]
		for _, existing := range docs {
			if existing.ID() != id {
				kept = append(kept, existing)
			}
		}
		if len(kept) == len(docs) {
			return nil, false
		}
		return kept, true
	})
}

// SeedIfEmpty writes docs as initial content only when the collection has
// zero records, preserving caller-supplied ids.
func (s *Store) SeedIfEmpty(_ context.Context, collection string, docs []domain.Document) error {
	return s.mirror.Mutate(collection, func(current []domain.Document) ([]domain.Document, bool) {
		if len(current) > 0 {
			return nil, false
		}
		s.log.Info().Str("collection", collection).Int("count", len(docs)).Msg("seeding empty collection")
		return domain.CloneAll(docs), true
	})
}
