package internal

import (
	"slices"

	"github.com/google/uuid"
	"github.com/lychee-technology/formbuilder"
	"go.uber.org/zap"
)

// maxIDAttempts bounds the retries when a generated id collides with an
// existing field.
const maxIDAttempts = 8

// IDGenerator produces candidate field ids.
type IDGenerator func() (uuid.UUID, error)

// StoreOption customises a schema store.
type StoreOption func(*schemaStore)

// WithIDGenerator replaces the UUIDv7 id source.
func WithIDGenerator(gen IDGenerator) StoreOption {
	return func(s *schemaStore) {
		if gen != nil {
			s.newID = gen
		}
	}
}

type schemaStore struct {
	defaults formbuilder.BuilderConfig
	newID    IDGenerator
}

// NewSchemaStore creates a SchemaStore applying the builder defaults of config.
// The config must have passed Validate.
func NewSchemaStore(config *formbuilder.Config, opts ...StoreOption) formbuilder.SchemaStore {
	s := &schemaStore{
		defaults: config.Builder,
		newID:    uuid.NewV7,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *schemaStore) NewSchema() formbuilder.FormSchema {
	return formbuilder.FormSchema{
		Title:  s.defaults.DefaultTitle,
		Fields: []formbuilder.Field{},
	}
}

func (s *schemaStore) AddField(schema formbuilder.FormSchema, fieldType formbuilder.FieldType) (formbuilder.FormSchema, formbuilder.Field, error) {
	cfg := s.defaults.FieldDefaults(fieldType)
	if cfg == nil {
		return schema, formbuilder.Field{}, formbuilder.NewUnknownFieldTypeError(string(fieldType))
	}

	id, err := s.freshID(schema)
	if err != nil {
		return schema, formbuilder.Field{}, err
	}

	field := formbuilder.Field{
		ID:     id,
		Label:  s.defaults.DefaultFieldLabel,
		Config: cfg,
	}

	fields := make([]formbuilder.Field, 0, len(schema.Fields)+1)
	fields = append(fields, schema.Fields...)
	fields = append(fields, field)

	zap.S().Debugw("field added", "fieldID", id, "type", fieldType, "position", len(fields)-1)
	return formbuilder.FormSchema{Title: schema.Title, Fields: fields}, field.Clone(), nil
}

func (s *schemaStore) UpdateField(schema formbuilder.FormSchema, id uuid.UUID, patch formbuilder.FieldPatch) (formbuilder.FormSchema, bool, error) {
	if patch.Type != nil && !patch.Type.Valid() {
		return schema, false, formbuilder.NewUnknownFieldTypeError(string(*patch.Type))
	}

	idx := schema.IndexOf(id)
	if idx < 0 {
		zap.S().Debugw("update ignored, field not found", "fieldID", id)
		return schema, false, nil
	}

	updated, err := s.applyPatch(schema.Fields[idx], patch)
	if err != nil {
		return schema, false, err
	}

	fields := slices.Clone(schema.Fields)
	fields[idx] = updated

	zap.S().Debugw("field updated", "fieldID", id, "type", updated.Type())
	return formbuilder.FormSchema{Title: schema.Title, Fields: fields}, true, nil
}

func (s *schemaStore) ChangeFieldType(schema formbuilder.FormSchema, id uuid.UUID, fieldType formbuilder.FieldType) (formbuilder.FormSchema, bool, error) {
	if !fieldType.Valid() {
		return schema, false, formbuilder.NewUnknownFieldTypeError(string(fieldType))
	}
	field, ok := schema.FieldByID(id)
	if !ok || field.Type() == fieldType {
		return schema, false, nil
	}
	return s.UpdateField(schema, id, formbuilder.FieldPatch{Type: &fieldType})
}

func (s *schemaStore) SetExcludedTime(schema formbuilder.FormSchema, id uuid.UUID, label string, excluded bool) (formbuilder.FormSchema, bool, error) {
	idx := schema.IndexOf(id)
	if idx < 0 {
		return schema, false, nil
	}

	field := schema.Fields[idx]
	cfg, ok := field.Config.(formbuilder.TimeslotConfig)
	if !ok {
		return schema, false, formbuilder.NewAttributeMismatchError("excludedTimes", field.Type())
	}

	label, err := normaliseSlotLabel(label)
	if err != nil {
		return schema, false, err
	}

	set := NewSet(cfg.ExcludedTimes...)
	var changed bool
	if excluded {
		changed = set.Add(label)
	} else {
		changed = set.Remove(label)
	}
	if !changed {
		return schema, false, nil
	}

	cfg.ExcludedTimes = set.ToSlice()
	field.Config = cfg

	fields := slices.Clone(schema.Fields)
	fields[idx] = field

	zap.S().Debugw("exclusion toggled", "fieldID", id, "label", label, "excluded", excluded)
	return formbuilder.FormSchema{Title: schema.Title, Fields: fields}, true, nil
}

func (s *schemaStore) RemoveField(schema formbuilder.FormSchema, id uuid.UUID) (formbuilder.FormSchema, bool) {
	idx := schema.IndexOf(id)
	if idx < 0 {
		zap.S().Debugw("remove ignored, field not found", "fieldID", id)
		return schema, false
	}

	fields := make([]formbuilder.Field, 0, len(schema.Fields)-1)
	fields = append(fields, schema.Fields[:idx]...)
	fields = append(fields, schema.Fields[idx+1:]...)

	zap.S().Debugw("field removed", "fieldID", id, "position", idx)
	return formbuilder.FormSchema{Title: schema.Title, Fields: fields}, true
}

// MoveField takes the field at index out and reinserts it at index+direction.
// With a step of one this is a swap of the two neighbours.
func (s *schemaStore) MoveField(schema formbuilder.FormSchema, index, direction int) (formbuilder.FormSchema, error) {
	if direction != -1 && direction != 1 {
		return schema, formbuilder.NewInvalidDirectionError(direction)
	}

	n := len(schema.Fields)
	target := index + direction
	if index < 0 || index >= n || target < 0 || target >= n {
		return schema, formbuilder.NewIndexOutOfRangeError(index, target, n)
	}

	fields := slices.Clone(schema.Fields)
	fields[index], fields[target] = fields[target], fields[index]

	zap.S().Debugw("field moved", "from", index, "to", target)
	return formbuilder.FormSchema{Title: schema.Title, Fields: fields}, nil
}

func (s *schemaStore) SetTitle(schema formbuilder.FormSchema, title string) formbuilder.FormSchema {
	fields := slices.Clone(schema.Fields)
	if fields == nil {
		fields = []formbuilder.Field{}
	}
	return formbuilder.FormSchema{Title: title, Fields: fields}
}

func (s *schemaStore) freshID(schema formbuilder.FormSchema) (uuid.UUID, error) {
	for attempt := 0; attempt < maxIDAttempts; attempt++ {
		id, err := s.newID()
		if err != nil {
			return uuid.Nil, formbuilder.NewInternalError("failed to generate field id", err)
		}
		if id != uuid.Nil && schema.IndexOf(id) < 0 {
			return id, nil
		}
		zap.S().Warnw("generated field id collides, retrying", "fieldID", id, "attempt", attempt+1)
	}
	return uuid.Nil, formbuilder.NewInternalError("could not generate a unique field id", nil).
		WithDetail("attempts", maxIDAttempts)
}

// applyPatch merges patch into a copy of field. A type change re-derives the
// configuration from the new type's defaults before the remaining
// attributes are merged.
func (s *schemaStore) applyPatch(field formbuilder.Field, patch formbuilder.FieldPatch) (formbuilder.Field, error) {
	out := field.Clone()
	cfg := out.Config

	if patch.Type != nil && *patch.Type != out.Type() {
		cfg = s.defaults.FieldDefaults(*patch.Type)
	}
	if cfg == nil {
		return field, formbuilder.NewInvalidAttributeError("type", "field has no configuration")
	}
	if patch.Label != nil {
		out.Label = *patch.Label
	}
	if patch.Required != nil {
		out.Required = *patch.Required
	}

	if patch.Options != nil {
		c, ok := cfg.(formbuilder.SelectConfig)
		if !ok {
			return field, formbuilder.NewAttributeMismatchError("options", cfg.Kind())
		}
		c.Options = slices.Clone(*patch.Options)
		cfg = c
	}

	if patch.MaxStars != nil {
		c, ok := cfg.(formbuilder.RatingConfig)
		if !ok {
			return field, formbuilder.NewAttributeMismatchError("maxStars", cfg.Kind())
		}
		c.MaxStars = *patch.MaxStars
		cfg = c
	}

	if patch.AcceptedFileTypes != nil {
		c, ok := cfg.(formbuilder.FileConfig)
		if !ok {
			return field, formbuilder.NewAttributeMismatchError("acceptedFileTypes", cfg.Kind())
		}
		c.AcceptedFileTypes = Unique(*patch.AcceptedFileTypes)
		cfg = c
	}

	if patch.TimeSettings != nil {
		if _, ok := cfg.(formbuilder.TimeslotConfig); !ok {
			return field, formbuilder.NewAttributeMismatchError("timeSettings", cfg.Kind())
		}
		c := *patch.TimeSettings
		excluded := NewSet[string]()
		for _, label := range c.ExcludedTimes {
			label, err := normaliseSlotLabel(label)
			if err != nil {
				return field, err
			}
			excluded.Add(label)
		}
		c.ExcludedTimes = excluded.ToSlice()
		cfg = c
	}

	if err := cfg.Validate(); err != nil {
		return field, err
	}

	out.Config = cfg
	return out, nil
}

// normaliseSlotLabel rewrites a time of day into the "HH:MM" form the
// generator emits, so exclusions always match generated labels.
func normaliseSlotLabel(label string) (string, error) {
	clock, err := formbuilder.ParseClock(label)
	if err != nil {
		return "", formbuilder.NewInvalidTimeError("excludedTimes", label)
	}
	return clock.String(), nil
}
