package formbuilder

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"github.com/google/uuid"
)

// FieldType identifies the kind of input a field renders.
type FieldType string

const (
	FieldTypeShortText    FieldType = "text"
	FieldTypeLongText     FieldType = "textarea"
	FieldTypeNumber       FieldType = "number"
	FieldTypeEmail        FieldType = "email"
	FieldTypePhone        FieldType = "tel"
	FieldTypeSingleSelect FieldType = "select"
	FieldTypeCheckbox     FieldType = "checkbox"
	FieldTypeDate         FieldType = "date"
	FieldTypeFile         FieldType = "file"
	FieldTypeRating       FieldType = "rating"
	FieldTypeTimeslot     FieldType = "timeslot"
)

// FieldTypeDescriptor is one entry of the builder's field palette.
type FieldTypeDescriptor struct {
	Type  FieldType `json:"type"`
	Label string    `json:"label"`
}

var fieldTypeCatalog = []FieldTypeDescriptor{
	{Type: FieldTypeShortText, Label: "Short text"},
	{Type: FieldTypeLongText, Label: "Long text"},
	{Type: FieldTypeNumber, Label: "Number"},
	{Type: FieldTypeEmail, Label: "Email"},
	{Type: FieldTypePhone, Label: "Phone"},
	{Type: FieldTypeSingleSelect, Label: "Dropdown list"},
	{Type: FieldTypeCheckbox, Label: "Checkbox"},
	{Type: FieldTypeDate, Label: "Date"},
	{Type: FieldTypeFile, Label: "File"},
	{Type: FieldTypeRating, Label: "Stars"},
	{Type: FieldTypeTimeslot, Label: "Time slot"},
}

// FieldTypeCatalog returns the supported field types in palette order.
func FieldTypeCatalog() []FieldTypeDescriptor {
	return slices.Clone(fieldTypeCatalog)
}

// Valid reports whether t is one of the supported field types.
func (t FieldType) Valid() bool {
	for _, d := range fieldTypeCatalog {
		if d.Type == t {
			return true
		}
	}
	return false
}

// ParseFieldType validates a wire value against the supported field types.
func ParseFieldType(s string) (FieldType, error) {
	t := FieldType(strings.TrimSpace(s))
	if !t.Valid() {
		return "", NewUnknownFieldTypeError(s)
	}
	return t, nil
}

// FieldConfig is the type-specific configuration of a field. Exactly one
// implementation exists per field type, so the configuration determines the
// type.
type FieldConfig interface {
	Kind() FieldType
	Validate() error
	clone() FieldConfig
}

// PlainConfig is used by field types without extra attributes.
type PlainConfig struct {
	Type FieldType
}

func (c PlainConfig) Kind() FieldType { return c.Type }

func (c PlainConfig) Validate() error {
	switch c.Type {
	case FieldTypeShortText, FieldTypeLongText, FieldTypeNumber, FieldTypeEmail,
		FieldTypePhone, FieldTypeCheckbox, FieldTypeDate:
		return nil
	}
	if !c.Type.Valid() {
		return NewUnknownFieldTypeError(string(c.Type))
	}
	return NewAttributeMismatchError("type", c.Type)
}

func (c PlainConfig) clone() FieldConfig { return c }

// SelectConfig holds the ordered options of a single-select field.
type SelectConfig struct {
	Options []string
}

func (c SelectConfig) Kind() FieldType { return FieldTypeSingleSelect }

func (c SelectConfig) Validate() error {
	if len(c.Options) == 0 {
		return NewInvalidAttributeError("options", "at least one option is required")
	}
	return nil
}

func (c SelectConfig) clone() FieldConfig {
	return SelectConfig{Options: slices.Clone(c.Options)}
}

// RatingConfig holds the star count of a rating field.
type RatingConfig struct {
	MaxStars int
}

func (c RatingConfig) Kind() FieldType { return FieldTypeRating }

func (c RatingConfig) Validate() error {
	if c.MaxStars <= 0 {
		return NewInvalidAttributeError("maxStars", "must be greater than 0").
			WithDetail("maxStars", c.MaxStars)
	}
	return nil
}

func (c RatingConfig) clone() FieldConfig { return c }

// FileConfig holds the accepted extension patterns of a file field. The
// patterns behave as a set; the first-seen order is kept for rendering.
type FileConfig struct {
	AcceptedFileTypes []string
}

func (c FileConfig) Kind() FieldType { return FieldTypeFile }

func (c FileConfig) Validate() error {
	for _, ext := range c.AcceptedFileTypes {
		if strings.TrimSpace(ext) == "" {
			return NewInvalidAttributeError("acceptedFileTypes", "file type patterns must not be blank")
		}
	}
	return nil
}

func (c FileConfig) clone() FieldConfig {
	return FileConfig{AcceptedFileTypes: slices.Clone(c.AcceptedFileTypes)}
}

// Accept renders the patterns the way an HTML accept attribute expects them.
func (c FileConfig) Accept() string {
	return strings.Join(c.AcceptedFileTypes, ",")
}

// TimeslotConfig holds the slot generation rule of a timeslot field.
// ExcludedTimes behaves as a set of generated labels.
type TimeslotConfig struct {
	StartTime     Clock    `json:"startTime"`
	EndTime       Clock    `json:"endTime"`
	Interval      int      `json:"interval"`
	ExcludedTimes []string `json:"excludedTimes"`
}

func (c TimeslotConfig) Kind() FieldType { return FieldTypeTimeslot }

func (c TimeslotConfig) Validate() error {
	if c.Interval <= 0 {
		return NewInvalidIntervalError(c.Interval)
	}
	if !c.StartTime.Valid() {
		return NewInvalidTimeError("startTime", c.StartTime.String())
	}
	if !c.EndTime.Valid() {
		return NewInvalidTimeError("endTime", c.EndTime.String())
	}
	return nil
}

func (c TimeslotConfig) clone() FieldConfig {
	c.ExcludedTimes = slices.Clone(c.ExcludedTimes)
	return c
}

// IsExcluded reports whether label is in the exclusion set.
func (c TimeslotConfig) IsExcluded(label string) bool {
	return slices.Contains(c.ExcludedTimes, label)
}

// MarshalJSON always emits excludedTimes as an array.
func (c TimeslotConfig) MarshalJSON() ([]byte, error) {
	type alias TimeslotConfig
	a := alias(c)
	if a.ExcludedTimes == nil {
		a.ExcludedTimes = []string{}
	}
	return json.Marshal(a)
}

// UnmarshalJSON requires startTime and endTime; a timeSettings object always
// replaces the whole configuration, so a missing bound is never midnight.
func (c *TimeslotConfig) UnmarshalJSON(data []byte) error {
	var in struct {
		StartTime     *Clock   `json:"startTime"`
		EndTime       *Clock   `json:"endTime"`
		Interval      int      `json:"interval"`
		ExcludedTimes []string `json:"excludedTimes"`
	}
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	if in.StartTime == nil {
		return NewInvalidAttributeError("startTime", "startTime is required")
	}
	if in.EndTime == nil {
		return NewInvalidAttributeError("endTime", "endTime is required")
	}

	c.StartTime = *in.StartTime
	c.EndTime = *in.EndTime
	c.Interval = in.Interval
	c.ExcludedTimes = in.ExcludedTimes
	return nil
}

// Field is one input definition within a form schema.
type Field struct {
	ID       uuid.UUID
	Label    string
	Required bool
	Config   FieldConfig
}

// Type returns the field type carried by the configuration.
func (f Field) Type() FieldType {
	if f.Config == nil {
		return ""
	}
	return f.Config.Kind()
}

// Clone returns a copy that shares no slices with f.
func (f Field) Clone() Field {
	if f.Config != nil {
		f.Config = f.Config.clone()
	}
	return f
}

type fieldJSON struct {
	ID                uuid.UUID       `json:"id"`
	Type              FieldType       `json:"type"`
	Label             string          `json:"label"`
	Required          bool            `json:"required"`
	Options           []string        `json:"options,omitempty"`
	MaxStars          *int            `json:"maxStars,omitempty"`
	AcceptedFileTypes []string        `json:"acceptedFileTypes,omitempty"`
	TimeSettings      *TimeslotConfig `json:"timeSettings,omitempty"`
}

// MarshalJSON flattens the configuration variant into the field record.
func (f Field) MarshalJSON() ([]byte, error) {
	out := fieldJSON{
		ID:       f.ID,
		Type:     f.Type(),
		Label:    f.Label,
		Required: f.Required,
	}
	switch cfg := f.Config.(type) {
	case SelectConfig:
		out.Options = cfg.Options
	case RatingConfig:
		stars := cfg.MaxStars
		out.MaxStars = &stars
	case FileConfig:
		out.AcceptedFileTypes = cfg.AcceptedFileTypes
	case TimeslotConfig:
		out.TimeSettings = &cfg
	}
	return json.Marshal(out)
}

// UnmarshalJSON uses "type" as the discriminator for the configuration
// variant. Missing type-specific attributes fall back to the built-in
// defaults of the type.
func (f *Field) UnmarshalJSON(data []byte) error {
	var in fieldJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}

	fieldType, err := ParseFieldType(string(in.Type))
	if err != nil {
		return err
	}

	cfg := DefaultFieldConfig(fieldType)
	switch c := cfg.(type) {
	case SelectConfig:
		if in.Options != nil {
			c.Options = in.Options
		}
		cfg = c
	case RatingConfig:
		if in.MaxStars != nil {
			c.MaxStars = *in.MaxStars
		}
		cfg = c
	case FileConfig:
		if in.AcceptedFileTypes != nil {
			c.AcceptedFileTypes = in.AcceptedFileTypes
		}
		cfg = c
	case TimeslotConfig:
		if in.TimeSettings != nil {
			c = *in.TimeSettings
		}
		cfg = c
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("field %s: %w", in.ID, err)
	}

	f.ID = in.ID
	f.Label = in.Label
	f.Required = in.Required
	f.Config = cfg
	return nil
}

// DefaultFieldConfig returns the built-in configuration a new field of type t
// starts with. It returns nil for an unsupported type.
func DefaultFieldConfig(t FieldType) FieldConfig {
	switch t {
	case FieldTypeSingleSelect:
		return SelectConfig{Options: []string{"Option 1"}}
	case FieldTypeRating:
		return RatingConfig{MaxStars: 5}
	case FieldTypeFile:
		return FileConfig{AcceptedFileTypes: []string{".pdf", ".doc", ".docx"}}
	case FieldTypeTimeslot:
		return TimeslotConfig{
			StartTime:     MustParseClock("09:00"),
			EndTime:       MustParseClock("18:00"),
			Interval:      30,
			ExcludedTimes: []string{},
		}
	}
	if !t.Valid() {
		return nil
	}
	return PlainConfig{Type: t}
}

// FormSchema is the aggregate root: a title plus the ordered fields.
type FormSchema struct {
	Title  string  `json:"title"`
	Fields []Field `json:"fields"`
}

// MarshalJSON always emits fields as an array.
func (s FormSchema) MarshalJSON() ([]byte, error) {
	type alias FormSchema
	a := alias(s)
	if a.Fields == nil {
		a.Fields = []Field{}
	}
	return json.Marshal(a)
}

// Clone deep-copies the schema.
func (s FormSchema) Clone() FormSchema {
	out := FormSchema{Title: s.Title, Fields: make([]Field, len(s.Fields))}
	for i, f := range s.Fields {
		out.Fields[i] = f.Clone()
	}
	return out
}

// Len returns the number of fields.
func (s FormSchema) Len() int { return len(s.Fields) }

// IndexOf returns the position of the field with the given id, or -1.
func (s FormSchema) IndexOf(id uuid.UUID) int {
	return slices.IndexFunc(s.Fields, func(f Field) bool { return f.ID == id })
}

// FieldByID looks a field up by id.
func (s FormSchema) FieldByID(id uuid.UUID) (Field, bool) {
	idx := s.IndexOf(id)
	if idx < 0 {
		return Field{}, false
	}
	return s.Fields[idx], true
}

// FieldPatch is a shallow merge onto a field: nil attributes are absent and
// preserved, non-nil attributes overwrite.
type FieldPatch struct {
	Type              *FieldType      `json:"type,omitempty"`
	Label             *string         `json:"label,omitempty"`
	Required          *bool           `json:"required,omitempty"`
	Options           *[]string       `json:"options,omitempty"`
	MaxStars          *int            `json:"maxStars,omitempty"`
	AcceptedFileTypes *[]string       `json:"acceptedFileTypes,omitempty"`
	TimeSettings      *TimeslotConfig `json:"timeSettings,omitempty"`
}

// IsEmpty reports whether the patch carries no attribute at all.
func (p FieldPatch) IsEmpty() bool {
	return p.Type == nil && p.Label == nil && p.Required == nil && p.Options == nil &&
		p.MaxStars == nil && p.AcceptedFileTypes == nil && p.TimeSettings == nil
}

// ViewMode selects how a schema is rendered.
type ViewMode string

const (
	ViewModeEdit    ViewMode = "edit"
	ViewModePreview ViewMode = "preview"
)

// ParseViewMode validates a view mode; empty input means edit.
func ParseViewMode(s string) (ViewMode, error) {
	switch ViewMode(strings.ToLower(strings.TrimSpace(s))) {
	case "", ViewModeEdit:
		return ViewModeEdit, nil
	case ViewModePreview:
		return ViewModePreview, nil
	}
	return "", NewInvalidViewModeError(s)
}
