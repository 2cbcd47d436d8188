package formbuilder

import (
	"time"

	"github.com/google/uuid"
)

// SchemaStore provides the mutation operations of the builder. Every
// operation takes the caller's snapshot and returns a new one; the input is
// never modified, so retained snapshots stay valid.
type SchemaStore interface {
	// NewSchema returns an empty schema carrying the default title.
	NewSchema() FormSchema

	// Field operations
	AddField(schema FormSchema, fieldType FieldType) (FormSchema, Field, error)
	UpdateField(schema FormSchema, id uuid.UUID, patch FieldPatch) (FormSchema, bool, error)
	ChangeFieldType(schema FormSchema, id uuid.UUID, fieldType FieldType) (FormSchema, bool, error)
	SetExcludedTime(schema FormSchema, id uuid.UUID, label string, excluded bool) (FormSchema, bool, error)
	RemoveField(schema FormSchema, id uuid.UUID) (FormSchema, bool)
	MoveField(schema FormSchema, index, direction int) (FormSchema, error)

	// Form operations
	SetTitle(schema FormSchema, title string) FormSchema
}

// Session is one in-memory editing context: the current snapshot plus how
// far it can be rolled back.
type Session struct {
	ID        uuid.UUID  `json:"id"`
	Schema    FormSchema `json:"schema"`
	Revision  int        `json:"revision"`
	UndoDepth int        `json:"undoDepth"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

// Mutation derives the next snapshot of a session. It reports whether the
// snapshot changed; unchanged results are not recorded in the undo history.
type Mutation func(FormSchema) (FormSchema, bool, error)

// SessionRegistry keeps editing sessions for the HTTP server. It is safe for
// concurrent use.
type SessionRegistry interface {
	Create(title string) (Session, error)
	Get(id uuid.UUID) (Session, error)
	Apply(id uuid.UUID, fn Mutation) (Session, bool, error)
	Undo(id uuid.UUID) (Session, bool, error)
	Delete(id uuid.UUID) error
	Len() int

	// EvictIdle drops sessions untouched for longer than the idle TTL and
	// returns how many were removed.
	EvictIdle() int
}
