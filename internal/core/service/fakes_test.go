package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/turfworks/greenmaster/internal/core/domain"
	"github.com/turfworks/greenmaster/internal/core/ports"
)

// fakeStore is an in-memory DocumentStore with the same synchronous
// notification contract as the file-backed mirror.
type fakeStore struct {
	mu        sync.Mutex
	data      map[string][]domain.Document
	subs      map[string]map[int]ports.SnapshotFunc
	nextSub   int
	nextID    int
	seedCalls map[string]int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		data:      make(map[string][]domain.Document),
		subs:      make(map[string]map[int]ports.SnapshotFunc),
		seedCalls: make(map[string]int),
	}
}

var _ ports.DocumentStore = (*fakeStore)(nil)

func (f *fakeStore) Subscribe(_ context.Context, collection string, fn ports.SnapshotFunc) (ports.CancelFunc, error) {
	f.mu.Lock()
	if f.subs[collection] == nil {
		f.subs[collection] = make(map[int]ports.SnapshotFunc)
	}
	id := f.nextSub
	f.nextSub++
	f.subs[collection][id] = fn
	current := domain.CloneAll(f.data[collection])
	f.mu.Unlock()

	fn(current)
	return func() {
		f.mu.Lock()
		delete(f.subs[collection], id)
		f.mu.Unlock()
	}, nil
}

func (f *fakeStore) notify(collection string) {
	f.mu.Lock()
	fns := make([]ports.SnapshotFunc, 0, len(f.subs[collection]))
	for _, fn := range f.subs[collection] {
		fns = append(fns, fn)
	}
	docs := domain.CloneAll(f.data[collection])
	f.mu.Unlock()

	for _, fn := range fns {
		fn(domain.CloneAll(docs))
	}
}

func (f *fakeStore) Save(_ context.Context, collection string, doc domain.Document) (string, error) {
	f.mu.Lock()
	docs := f.data[collection]
	var id string
	if doc.HasPersistentID() {
		id = doc.ID()
		merged := false
		for i, existing := range docs {
			if existing.ID() == id {
				next := existing.Clone()
				next.Merge(map[string]any(doc))
				docs[i] = next
				merged = true
				break
			}
		}
		if !merged {
			docs = append(docs, doc.Clone())
		}
	} else {
		f.nextID++
		id = fmt.Sprintf("gen-%d", f.nextID)
		created := doc.Clone()
		created[domain.FieldID] = id
		docs = append(docs, created)
	}
	f.data[collection] = docs
	f.mu.Unlock()

	f.notify(collection)
	return id, nil
}

func (f *fakeStore) Update(_ context.Context, collection, id string, fields map[string]any) error {
	f.mu.Lock()
	changed := false
	for i, existing := range f.data[collection] {
		if existing.ID() == id {
			next := existing.Clone()
			next.Merge(fields)
			f.data[collection][i] = next
			changed = true
			break
		}
	}
	f.mu.Unlock()

	if changed {
		f.notify(collection)
	}
	return nil
}

func (f *fakeStore) Delete(_ context.Context, collection, id string) error {
	f.mu.Lock()
	docs := f.data[collection]
	kept := docs[:0]
	for _, existing := range docs {
		if existing.ID() != id {
			kept = append(kept, existing)
		}
	}
	changed := len(kept) != len(docs)
	f.data[collection] = kept
	f.mu.Unlock()

	if changed {
		f.notify(collection)
	}
	return nil
}

func (f *fakeStore) SeedIfEmpty(_ context.Context, collection string, docs []domain.Document) error {
	f.mu.Lock()
	f.seedCalls[collection]++
	if len(f.data[collection]) > 0 {
		f.mu.Unlock()
		return nil
	}
	f.data[collection] = domain.CloneAll(docs)
	f.mu.Unlock()

	f.notify(collection)
	return nil
}

// fakeSessionStore is an in-memory SessionStore.
type fakeSessionStore struct {
	mu       sync.Mutex
	sessions map[string]domain.User
	drafts   map[string][]byte
}

func newFakeSessionStore() *fakeSessionStore {
	return &fakeSessionStore{
		sessions: make(map[string]domain.User),
		drafts:   make(map[string][]byte),
	}
}

var _ ports.SessionStore = (*fakeSessionStore)(nil)

func (f *fakeSessionStore) SaveSession(_ context.Context, user domain.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sessions[user.ID] = user
	return nil
}

func (f *fakeSessionStore) LoadSession(_ context.Context, userID string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.sessions[userID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &user, nil
}

func (f *fakeSessionStore) ClearSession(_ context.Context, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.sessions, userID)
	return nil
}

func (f *fakeSessionStore) SaveDraft(_ context.Context, form string, payload []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.drafts[form] = payload
	return nil
}

func (f *fakeSessionStore) LoadDraft(_ context.Context, form string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	payload, ok := f.drafts[form]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return payload, nil
}

func (f *fakeSessionStore) ClearDraft(_ context.Context, form string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.drafts, form)
	return nil
}

// stubGenerator returns canned output and records the last request.
type stubGenerator struct {
	out   string
	err   error
	last  ports.GenerateRequest
	calls int
}

func (g *stubGenerator) Generate(_ context.Context, req ports.GenerateRequest) (string, error) {
	g.calls++
	g.last = req
	return g.out, g.err
}

// actorFor builds a session for a role, for audit attribution in tests.
func actorFor(id, name, role string) *ports.Session {
	return &ports.Session{
		User: domain.User{ID: id, Name: name, Role: role, Status: domain.StatusApproved},
		Caps: domain.CapabilitiesFor(role),
	}
}
