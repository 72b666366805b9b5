package service

import (
	"context"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/turfworks/greenmaster/internal/api/metrics"
	"github.com/turfworks/greenmaster/internal/core/domain"
	"github.com/turfworks/greenmaster/internal/core/ports"
)

// SeedFunc returns the bundled sample documents for a collection, or nil.
type SeedFunc func(collection string) []domain.Document

// Synchronizer owns one live in-memory snapshot per tracked collection,
// mirrored from the document store through subscriptions. The subscription
// callback is the sole writer to a snapshot: mutations go through the store
// and arrive back via the change notification, never directly.
type Synchronizer struct {
	store    ports.DocumentStore
	seeds    SeedFunc
	validate *validator.Validate
	log      zerolog.Logger

	mu        sync.RWMutex
	snapshots map[string][]domain.Document
	received  map[string]bool
	watchers  map[string]map[int]ports.SnapshotFunc
	nextWatch int
	cancels   []ports.CancelFunc

	// seedOnce guards against double-seeding within this process. Two
	// separate processes observing the same empty collection can still both
	// seed; that race is accepted.
	seedOnce map[string]*sync.Once
}

// NewSynchronizer wires a synchronizer over the given store. Call Start to
// open subscriptions.
func NewSynchronizer(store ports.DocumentStore, seeds SeedFunc, log zerolog.Logger) *Synchronizer {
	s := &Synchronizer{
		store:     store,
		seeds:     seeds,
		validate:  validator.New(),
		log:       log.With().Str("component", "synchronizer").Logger(),
		snapshots: make(map[string][]domain.Document),
		received:  make(map[string]bool),
		watchers:  make(map[string]map[int]ports.SnapshotFunc),
		seedOnce:  make(map[string]*sync.Once),
	}
	for _, c := range domain.TrackedCollections() {
		s.seedOnce[c] = &sync.Once{}
	}
	return s
}

// Start opens one subscription per tracked collection. The first delivered
// snapshot of an empty collection triggers seeding; the seeded contents
// arrive back through the same subscription.
func (s *Synchronizer) Start(ctx context.Context) error {
	for _, collection := range domain.TrackedCollections() {
		c := collection
		cancel, err := s.store.Subscribe(ctx, c, func(docs []domain.Document) {
			s.onSnapshot(ctx, c, docs)
		})
		if err != nil {
			s.Stop()
			return err
		}
		s.mu.Lock()
		s.cancels = append(s.cancels, cancel)
		s.mu.Unlock()
	}
	return nil
}

// Stop tears down every open subscription.
func (s *Synchronizer) Stop() {
	s.mu.Lock()
	cancels := s.cancels
	s.cancels = nil
	s.mu.Unlock()
	for _, cancel := range cancels {
		cancel()
	}
}

func (s *Synchronizer) onSnapshot(ctx context.Context, collection string, docs []domain.Document) {
	s.mu.Lock()
	first := !s.received[collection]
	s.received[collection] = true
	s.snapshots[collection] = domain.CloneAll(docs)
	watchers := s.watchersFor(collection)
	s.mu.Unlock()

	metrics.SnapshotDocs.WithLabelValues(collection).Set(float64(len(docs)))
	for _, fn := range watchers {
		fn(domain.CloneAll(docs))
	}

	if first && len(docs) == 0 {
		s.maybeSeed(ctx, collection)
	}
}

func (s *Synchronizer) maybeSeed(ctx context.Context, collection string) {
	set := s.seeds(collection)
	if len(set) == 0 {
		return
	}
	once := s.seedOnce[collection]
	if once == nil {
		return
	}
	once.Do(func() {
		if err := s.store.SeedIfEmpty(ctx, collection, set); err != nil {
			s.log.Error().Err(err).Str("collection", collection).Msg("seeding failed")
			return
		}
		metrics.SeedsAppliedTotal.WithLabelValues(collection).Inc()
	})
}

// watchersFor snapshots the watcher set in registration order. Caller holds mu.
func (s *Synchronizer) watchersFor(collection string) []ports.SnapshotFunc {
	reg := s.watchers[collection]
	ids := make([]int, 0, len(reg))
	for id := range reg {
		ids = append(ids, id)
	}
	for i := 1; i < len(ids); i++ {
		for j := i; j > 0 && ids[j-1] > ids[j]; j-- {
			ids[j-1], ids[j] = ids[j], ids[j-1]
		}
	}
	fns := make([]ports.SnapshotFunc, 0, len(ids))
	for _, id := range ids {
		fns = append(fns, reg[id])
	}
	return fns
}

// Watch registers fn for a collection's snapshot changes and invokes it once
// immediately with the current snapshot. The returned func removes the
// registration.
func (s *Synchronizer) Watch(collection string, fn ports.SnapshotFunc) func() {
	s.mu.Lock()
	if s.watchers[collection] == nil {
		s.watchers[collection] = make(map[int]ports.SnapshotFunc)
	}
	id := s.nextWatch
	s.nextWatch++
	s.watchers[collection][id] = fn
	current := domain.CloneAll(s.snapshots[collection])
	s.mu.Unlock()

	fn(current)

	return func() {
		s.mu.Lock()
		delete(s.watchers[collection], id)
		s.mu.Unlock()
	}
}

// Snapshot returns a copy of the current snapshot for a collection.
func (s *Synchronizer) Snapshot(collection string) []domain.Document {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return domain.CloneAll(s.snapshots[collection])
}

// Audit appends one immutable event to the audit log. Mutations with no
// session actor are deliberately unaudited, so a nil actor is a no-op.
// An append failure propagates as part of the triggering mutation's call
// chain; there is no independent fallback.
func (s *Synchronizer) Audit(ctx context.Context, actor *ports.Session, action, targetKind, targetName, detail string) error {
	if actor == nil {
		return nil
	}
	doc, err := domain.Encode(domain.AuditEvent{
		At:         domain.NowStamp(),
		ActorID:    actor.User.ID,
		ActorName:  actor.User.Name,
		Action:     action,
		TargetKind: targetKind,
		TargetName: targetName,
		Detail:     detail,
	})
	if err != nil {
		return err
	}
	if _, err := s.store.Save(ctx, domain.CollectionAuditLog, doc); err != nil {
		return err
	}
	metrics.AuditEventsTotal.Inc()
	return nil
}

// displayName resolves a human-readable label for a record, for audit events.
func (s *Synchronizer) displayName(collection, id string) string {
	for _, doc := range s.Snapshot(collection) {
		if doc.ID() != id {
			continue
		}
		for _, field := range []string{"name", "title", "course_name", "email"} {
			if v, _ := doc[field].(string); v != "" {
				return v
			}
		}
		break
	}
	return id
}

// ── Typed snapshot accessors ─────────────────────────────────────────────────

func (s *Synchronizer) Courses() ([]domain.Course, error) {
	return domain.DecodeAll[domain.Course](s.Snapshot(domain.CollectionCourses))
}

func (s *Synchronizer) Logs() ([]domain.VisitLog, error) {
	return domain.DecodeAll[domain.VisitLog](s.Snapshot(domain.CollectionLogs))
}

// VisibleLogs applies the issues-only restriction for roles without full data
// visibility.
func (s *Synchronizer) VisibleLogs(caps domain.Capabilities) ([]domain.VisitLog, error) {
	logs, err := s.Logs()
	if err != nil || caps.ViewAllData {
		return logs, err
	}
	restricted := make([]domain.VisitLog, 0, len(logs))
	for _, l := range logs {
		if l.HasIssues() {
			restricted = append(restricted, l)
		}
	}
	return restricted, nil
}

func (s *Synchronizer) People() ([]domain.Person, error) {
	return domain.DecodeAll[domain.Person](s.Snapshot(domain.CollectionPeople))
}

func (s *Synchronizer) Users() ([]domain.User, error) {
	return domain.DecodeAll[domain.User](s.Snapshot(domain.CollectionUsers))
}

func (s *Synchronizer) Events() ([]domain.ExternalEvent, error) {
	return domain.DecodeAll[domain.ExternalEvent](s.Snapshot(domain.CollectionEvents))
}

func (s *Synchronizer) Financials() ([]domain.Financial, error) {
	return domain.DecodeAll[domain.Financial](s.Snapshot(domain.CollectionFinancials))
}

func (s *Synchronizer) Materials() ([]domain.Material, error) {
	return domain.DecodeAll[domain.Material](s.Snapshot(domain.CollectionMaterials))
}

func (s *Synchronizer) AuditLog() ([]domain.AuditEvent, error) {
	return domain.DecodeAll[domain.AuditEvent](s.Snapshot(domain.CollectionAuditLog))
}
