// Package local implements mock mode: a file-backed mirror of the document
// store used when no MongoDB endpoint is configured.
package local

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog"

	"github.com/turfworks/greenmaster/internal/core/domain"
)

// Mirror is a durable, synchronous, collection-scoped store with change
// notification. Each collection persists as one JSON array file under dir.
type Mirror struct {
	dir string
	log zerolog.Logger

	mu        sync.Mutex
	cache     map[string][]domain.Document
	loaded    map[string]bool
	listeners map[string]map[int]func([]domain.Document)
	nextID    int

	// writeLocks serializes write+notify per collection: a commit's fan-out
	// completes before the next commit to the same collection begins, so
	// listeners observe writes in commit order. A listener must therefore
	// never write back into its own collection; seeding happens inside the
	// replay of AddListener, which does not hold this lock.
	writeLocks map[string]*sync.Mutex
}

// NewMirror creates the data directory if needed and returns an empty mirror.
// Collection files are loaded lazily on first read.
func NewMirror(dir string, log zerolog.Logger) (*Mirror, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("mirror: create data dir: %w", err)
	}
	return &Mirror{
		dir:        dir,
		log:        log,
		cache:      make(map[string][]domain.Document),
		loaded:     make(map[string]bool),
		listeners:  make(map[string]map[int]func([]domain.Document)),
		writeLocks: make(map[string]*sync.Mutex),
	}, nil
}

// Read returns the persisted array for collection. Absent data is empty data,
// never an error; an unreadable file logs a warning and reads as empty.
func (m *Mirror) Read(collection string) []domain.Document {
	m.mu.Lock()
	defer m.mu.Unlock()
	return domain.CloneAll(m.readLocked(collection))
}

func (m *Mirror) readLocked(collection string) []domain.Document {
	if m.loaded[collection] {
		return m.cache[collection]
	}
	m.loaded[collection] = true

	data, err := os.ReadFile(m.path(collection))
	if err != nil {
		if !os.IsNotExist(err) {
			m.log.Warn().Err(err).Str("collection", collection).Msg("mirror file unreadable, treating as empty")
		}
		m.cache[collection] = nil
		return nil
	}

	var docs []domain.Document
	if err := json.Unmarshal(data, &docs); err != nil {
		m.log.Warn().Err(err).Str("collection", collection).Msg("mirror file corrupt, treating as empty")
		m.cache[collection] = nil
		return nil
	}
	m.cache[collection] = docs
	return docs
}

// Write replaces the entire persisted array for collection, then synchronously
// invokes every registered listener with the new contents. Persistence either
// fully succeeds or the call fails with no cache update and no notification.
// Writes to one collection are fully serialized, notification included.
func (m *Mirror) Write(collection string, docs []domain.Document) error {
	lock := m.collectionLock(collection)
	lock.Lock()
	defer lock.Unlock()
	return m.commit(collection, docs)
}

// Mutate atomically transforms a collection's contents: fn receives a copy of
// the current array and returns the replacement. Returning false skips the
// write and the notification entirely. Concurrent Mutate calls on the same
// collection never interleave, so read-modify-write callers cannot lose
// updates to each other.
func (m *Mirror) Mutate(collection string, fn func([]domain.Document) ([]domain.Document, bool)) error {
	lock := m.collectionLock(collection)
	lock.Lock()
	defer lock.Unlock()

	m.mu.Lock()
	current := domain.CloneAll(m.readLocked(collection))
	m.mu.Unlock()

	next, changed := fn(current)
	if !changed {
		return nil
	}
	return m.commit(collection, next)
}

// commit persists and fans out one write. Caller holds the collection lock.
func (m *Mirror) commit(collection string, docs []domain.Document) error {
	m.mu.Lock()

	data, err := json.MarshalIndent(docs, "", "  ")
	if err != nil {
		m.mu.Unlock()
		return fmt.Errorf("mirror: marshal %s: %w", collection, err)
	}
	if err := writeFileAtomic(m.path(collection), data, 0o644); err != nil {
		m.mu.Unlock()
		return fmt.Errorf("mirror: persist %s: %w", collection, err)
	}

	m.cache[collection] = domain.CloneAll(docs)
	m.loaded[collection] = true
	fns := m.listenersFor(collection)
	m.mu.Unlock()

	for _, fn := range fns {
		fn(domain.CloneAll(docs))
	}
	return nil
}

func (m *Mirror) collectionLock(collection string) *sync.Mutex {
	m.mu.Lock()
	defer m.mu.Unlock()
	lock := m.writeLocks[collection]
	if lock == nil {
		lock = &sync.Mutex{}
		m.writeLocks[collection] = lock
	}
	return lock
}

// AddListener registers fn for collection and invokes it once immediately with
// the current contents (replay-on-subscribe). The returned func removes the
// registration.
func (m *Mirror) AddListener(collection string, fn func([]domain.Document)) func() {
	m.mu.Lock()
	if m.listeners[collection] == nil {
		m.listeners[collection] = make(map[int]func([]domain.Document))
	}
	id := m.nextID
	m.nextID++
	m.listeners[collection][id] = fn
	current := domain.CloneAll(m.readLocked(collection))
	m.mu.Unlock()

	fn(current)

	return func() {
		m.mu.Lock()
		delete(m.listeners[collection], id)
		m.mu.Unlock()
	}
}

// listenersFor snapshots the callback set in registration order. Caller holds mu.
func (m *Mirror) listenersFor(collection string) []func([]domain.Document) {
	reg := m.listeners[collection]
	ids := make([]int, 0, len(reg))
	for id := range reg {
		ids = append(ids, id)
	}
	// map iteration order is random; keep notification order stable
	for i := 1; i < len(ids); i++ {
		for j := i; j > 0 && ids[j-1] > ids[j]; j-- {
			ids[j-1], ids[j] = ids[j], ids[j-1]
		}
	}
	fns := make([]func([]domain.Document), 0, len(ids))
	for _, id := range ids {
		fns = append(fns, reg[id])
	}
	return fns
}

func (m *Mirror) path(collection string) string {
	return filepath.Join(m.dir, collection+".json")
}
