package internal

import (
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/lychee-technology/formbuilder"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func newTestRegistry(t *testing.T, mutate func(*formbuilder.SessionConfig), opts ...RegistryOption) (formbuilder.SessionRegistry, formbuilder.SchemaStore) {
	t.Helper()
	config := formbuilder.DefaultConfig()
	if mutate != nil {
		mutate(&config.Session)
	}
	require.NoError(t, config.Validate())
	store := NewSchemaStore(config)
	return NewSessionRegistry(store, config.Session, opts...), store
}

func addFieldMutation(store formbuilder.SchemaStore, ft formbuilder.FieldType) formbuilder.Mutation {
	return func(s formbuilder.FormSchema) (formbuilder.FormSchema, bool, error) {
		out, _, err := store.AddField(s, ft)
		return out, err == nil, err
	}
}

func TestSessionRegistryCreateAndGet(t *testing.T) {
	registry, _ := newTestRegistry(t, nil)

	session, err := registry.Create("")
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, session.ID)
	assert.Equal(t, "New form", session.Schema.Title)
	assert.Equal(t, 0, session.Revision)

	titled, err := registry.Create("Survey")
	require.NoError(t, err)
	assert.Equal(t, "Survey", titled.Schema.Title)

	got, err := registry.Get(session.ID)
	require.NoError(t, err)
	assert.Equal(t, session, got)
	assert.Equal(t, 2, registry.Len())

	_, err = registry.Get(uuid.New())
	assert.True(t, formbuilder.IsNotFoundError(err))
	assert.True(t, formbuilder.HasCode(err, formbuilder.ErrCodeSessionNotFound))
}

func TestSessionRegistryApplyAndUndo(t *testing.T) {
	registry, store := newTestRegistry(t, nil)
	session, err := registry.Create("")
	require.NoError(t, err)

	updated, changed, err := registry.Apply(session.ID, addFieldMutation(store, formbuilder.FieldTypeEmail))
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, 1, updated.Schema.Len())
	assert.Equal(t, 1, updated.Revision)
	assert.Equal(t, 1, updated.UndoDepth)

	// unchanged results are not recorded
	same, changed, err := registry.Apply(session.ID, func(s formbuilder.FormSchema) (formbuilder.FormSchema, bool, error) {
		out, changed := store.RemoveField(s, uuid.New())
		return out, changed, nil
	})
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, 1, same.UndoDepth)

	// failed mutations leave the snapshot alone
	_, _, err = registry.Apply(session.ID, func(s formbuilder.FormSchema) (formbuilder.FormSchema, bool, error) {
		out, err := store.MoveField(s, 0, 1)
		return out, err == nil, err
	})
	assert.True(t, formbuilder.HasCode(err, formbuilder.ErrCodeIndexOutOfRange))

	undone, changed, err := registry.Undo(session.ID)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, 0, undone.Schema.Len())
	assert.Equal(t, 0, undone.UndoDepth)

	_, changed, err = registry.Undo(session.ID)
	require.NoError(t, err)
	assert.False(t, changed)

	_, _, err = registry.Apply(uuid.New(), addFieldMutation(store, formbuilder.FieldTypeDate))
	assert.True(t, formbuilder.IsNotFoundError(err))
	_, _, err = registry.Undo(uuid.New())
	assert.True(t, formbuilder.IsNotFoundError(err))
}

func TestSessionRegistryHistoryIsBounded(t *testing.T) {
	registry, store := newTestRegistry(t, func(c *formbuilder.SessionConfig) { c.HistoryLimit = 2 })
	session, err := registry.Create("")
	require.NoError(t, err)

	for i := 0; i < 4; i++ {
		session, _, err = registry.Apply(session.ID, addFieldMutation(store, formbuilder.FieldTypeShortText))
		require.NoError(t, err)
	}
	assert.Equal(t, 2, session.UndoDepth)

	session, _, err = registry.Undo(session.ID)
	require.NoError(t, err)
	session, _, err = registry.Undo(session.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, session.Schema.Len())

	_, changed, err := registry.Undo(session.ID)
	require.NoError(t, err)
	assert.False(t, changed)
}

func TestSessionRegistryLimitAndDelete(t *testing.T) {
	registry, _ := newTestRegistry(t, func(c *formbuilder.SessionConfig) { c.MaxSessions = 2 })

	first, err := registry.Create("")
	require.NoError(t, err)
	_, err = registry.Create("")
	require.NoError(t, err)

	_, err = registry.Create("")
	require.Error(t, err)
	assert.True(t, formbuilder.IsLimitError(err))

	require.NoError(t, registry.Delete(first.ID))
	assert.True(t, formbuilder.IsNotFoundError(registry.Delete(first.ID)))

	_, err = registry.Create("")
	assert.NoError(t, err)
}

func TestSessionRegistryEvictsIdleSessions(t *testing.T) {
	clock := &fakeClock{now: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}
	registry, store := newTestRegistry(t, func(c *formbuilder.SessionConfig) {
		c.MaxSessions = 2
		c.IdleTTL = time.Hour
	}, WithClock(clock.Now))

	stale, err := registry.Create("stale")
	require.NoError(t, err)
	clock.Advance(45 * time.Minute)
	active, err := registry.Create("active")
	require.NoError(t, err)

	clock.Advance(30 * time.Minute)
	_, _, err = registry.Apply(active.ID, addFieldMutation(store, formbuilder.FieldTypeNumber))
	require.NoError(t, err)

	// a full registry makes room by dropping idle sessions first
	_, err = registry.Create("fresh")
	require.NoError(t, err)

	_, err = registry.Get(stale.ID)
	assert.True(t, formbuilder.IsNotFoundError(err))
	_, err = registry.Get(active.ID)
	assert.NoError(t, err)

	clock.Advance(2 * time.Hour)
	assert.Equal(t, 2, registry.EvictIdle())
	assert.Equal(t, 0, registry.Len())
}

func TestSessionRegistryConcurrentApply(t *testing.T) {
	registry, store := newTestRegistry(t, nil)
	session, err := registry.Create("")
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _, err := registry.Apply(session.ID, addFieldMutation(store, formbuilder.FieldTypeShortText))
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	got, err := registry.Get(session.ID)
	require.NoError(t, err)
	assert.Equal(t, 20, got.Schema.Len())
	assert.Equal(t, 20, got.Revision)
}
