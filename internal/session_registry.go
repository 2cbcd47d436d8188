package internal

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/lychee-technology/formbuilder"
	"go.uber.org/zap"
)

type sessionEntry struct {
	schema    formbuilder.FormSchema
	history   []formbuilder.FormSchema
	revision  int
	updatedAt time.Time
}

func (e *sessionEntry) snapshot(id uuid.UUID) formbuilder.Session {
	return formbuilder.Session{
		ID:        id,
		Schema:    e.schema,
		Revision:  e.revision,
		UndoDepth: len(e.history),
		UpdatedAt: e.updatedAt,
	}
}

// RegistryOption customises a session registry.
type RegistryOption func(*sessionRegistry)

// WithClock replaces time.Now, mainly for idle eviction tests.
func WithClock(now func() time.Time) RegistryOption {
	return func(r *sessionRegistry) {
		if now != nil {
			r.now = now
		}
	}
}

// WithSessionIDGenerator replaces the UUIDv7 session id source.
func WithSessionIDGenerator(gen IDGenerator) RegistryOption {
	return func(r *sessionRegistry) {
		if gen != nil {
			r.newID = gen
		}
	}
}

// sessionRegistry stores snapshots only. Snapshots produced by the schema
// store are never mutated, so they are handed out without copying.
type sessionRegistry struct {
	store  formbuilder.SchemaStore
	config formbuilder.SessionConfig
	now    func() time.Time
	newID  IDGenerator

	mu       sync.Mutex
	sessions map[uuid.UUID]*sessionEntry
}

// NewSessionRegistry creates an in-memory registry backed by store.
func NewSessionRegistry(store formbuilder.SchemaStore, config formbuilder.SessionConfig, opts ...RegistryOption) formbuilder.SessionRegistry {
	r := &sessionRegistry{
		store:    store,
		config:   config,
		now:      time.Now,
		newID:    uuid.NewV7,
		sessions: make(map[uuid.UUID]*sessionEntry),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *sessionRegistry) Create(title string) (formbuilder.Session, error) {
	schema := r.store.NewSchema()
	if title != "" {
		schema = r.store.SetTitle(schema, title)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.sessions) >= r.config.MaxSessions {
		r.evictIdleLocked()
	}
	if len(r.sessions) >= r.config.MaxSessions {
		zap.S().Warnw("session limit reached", "maxSessions", r.config.MaxSessions)
		return formbuilder.Session{}, formbuilder.NewSessionLimitReachedError(r.config.MaxSessions)
	}

	id, err := r.newID()
	if err != nil {
		return formbuilder.Session{}, formbuilder.NewInternalError("failed to generate session id", err)
	}
	if _, exists := r.sessions[id]; exists {
		return formbuilder.Session{}, formbuilder.NewInternalError("session id collision", nil).
			WithDetail("session_id", id.String())
	}

	entry := &sessionEntry{schema: schema, updatedAt: r.now()}
	r.sessions[id] = entry

	zap.S().Infow("session created", "sessionID", id, "title", schema.Title, "sessions", len(r.sessions))
	return entry.snapshot(id), nil
}

func (r *sessionRegistry) Get(id uuid.UUID) (formbuilder.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.sessions[id]
	if !ok {
		return formbuilder.Session{}, formbuilder.NewSessionNotFoundError(id.String())
	}
	return entry.snapshot(id), nil
}

// Apply runs fn against the current snapshot while holding the registry
// lock, so concurrent edits of one session are serialised.
func (r *sessionRegistry) Apply(id uuid.UUID, fn formbuilder.Mutation) (formbuilder.Session, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.sessions[id]
	if !ok {
		return formbuilder.Session{}, false, formbuilder.NewSessionNotFoundError(id.String())
	}

	next, changed, err := fn(entry.schema)
	if err != nil {
		return entry.snapshot(id), false, err
	}
	entry.updatedAt = r.now()
	if !changed {
		return entry.snapshot(id), false, nil
	}

	if r.config.HistoryLimit > 0 {
		entry.history = append(entry.history, entry.schema)
		if over := len(entry.history) - r.config.HistoryLimit; over > 0 {
			entry.history = append([]formbuilder.FormSchema(nil), entry.history[over:]...)
		}
	}
	entry.schema = next
	entry.revision++

	zap.S().Debugw("session updated", "sessionID", id, "revision", entry.revision, "fields", next.Len())
	return entry.snapshot(id), true, nil
}

func (r *sessionRegistry) Undo(id uuid.UUID) (formbuilder.Session, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.sessions[id]
	if !ok {
		return formbuilder.Session{}, false, formbuilder.NewSessionNotFoundError(id.String())
	}
	if len(entry.history) == 0 {
		return entry.snapshot(id), false, nil
	}

	last := len(entry.history) - 1
	entry.schema = entry.history[last]
	entry.history = entry.history[:last]
	entry.revision++
	entry.updatedAt = r.now()

	zap.S().Debugw("session rolled back", "sessionID", id, "revision", entry.revision, "undoDepth", last)
	return entry.snapshot(id), true, nil
}

func (r *sessionRegistry) Delete(id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.sessions[id]; !ok {
		return formbuilder.NewSessionNotFoundError(id.String())
	}
	delete(r.sessions, id)

	zap.S().Infow("session deleted", "sessionID", id, "sessions", len(r.sessions))
	return nil
}

func (r *sessionRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

func (r *sessionRegistry) EvictIdle() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.evictIdleLocked()
}

func (r *sessionRegistry) evictIdleLocked() int {
	if r.config.IdleTTL <= 0 {
		return 0
	}
	cutoff := r.now().Add(-r.config.IdleTTL)
	evicted := 0
	for id, entry := range r.sessions {
		if entry.updatedAt.Before(cutoff) {
			delete(r.sessions, id)
			evicted++
		}
	}
	if evicted > 0 {
		zap.S().Infow("idle sessions evicted", "count", evicted, "remaining", len(r.sessions))
	}
	return evicted
}
