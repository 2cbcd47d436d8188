package internal

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/lychee-technology/formbuilder"
	"github.com/lychee-technology/formbuilder/timeslot"
	"go.uber.org/zap"
)

const (
	selectPrompt   = "Select an option"
	timeslotPrompt = "Select a time slot"
)

// FieldView is the render model of one field.
type FieldView struct {
	ID       uuid.UUID             `json:"id"`
	Type     formbuilder.FieldType `json:"type"`
	Label    string                `json:"label"`
	Required bool                  `json:"required"`

	// Preview attributes
	Placeholder string   `json:"placeholder,omitempty"`
	Prompt      string   `json:"prompt,omitempty"`
	Options     []string `json:"options,omitempty"`
	Accept      string   `json:"accept,omitempty"`
	Stars       int      `json:"stars,omitempty"`
	Slots       []string `json:"slots,omitempty"`

	// Edit attributes
	CanMoveUp       bool                        `json:"canMoveUp,omitempty"`
	CanMoveDown     bool                        `json:"canMoveDown,omitempty"`
	TimeSettings    *formbuilder.TimeslotConfig `json:"timeSettings,omitempty"`
	IntervalChoices []int                       `json:"intervalChoices,omitempty"`
	Checklist       []timeslot.ChecklistItem    `json:"checklist,omitempty"`
}

// FormView is the render model of a whole schema in one mode.
type FormView struct {
	Title      string               `json:"title"`
	Mode       formbuilder.ViewMode `json:"mode"`
	Fields     []FieldView          `json:"fields"`
	ShowSubmit bool                 `json:"showSubmit"`
}

// BuildView renders schema for the given mode. The field palette and the
// title editor are not part of the view; they are static.
func BuildView(schema formbuilder.FormSchema, mode formbuilder.ViewMode) (FormView, error) {
	if mode != formbuilder.ViewModeEdit && mode != formbuilder.ViewModePreview {
		return FormView{}, formbuilder.NewInvalidViewModeError(string(mode))
	}

	view := FormView{
		Title:  schema.Title,
		Mode:   mode,
		Fields: make([]FieldView, 0, len(schema.Fields)),
	}

	for i, field := range schema.Fields {
		var (
			fv  FieldView
			err error
		)
		if mode == formbuilder.ViewModePreview {
			fv, err = previewField(field)
		} else {
			fv, err = editField(field, i, len(schema.Fields))
		}
		if err != nil {
			return FormView{}, fmt.Errorf("render field %s: %w", field.ID, err)
		}
		view.Fields = append(view.Fields, fv)
	}

	view.ShowSubmit = mode == formbuilder.ViewModePreview && len(view.Fields) > 0
	return view, nil
}

func baseView(field formbuilder.Field) FieldView {
	return FieldView{
		ID:       field.ID,
		Type:     field.Type(),
		Label:    field.Label,
		Required: field.Required,
	}
}

func previewField(field formbuilder.Field) (FieldView, error) {
	fv := baseView(field)

	switch cfg := field.Config.(type) {
	case formbuilder.SelectConfig:
		fv.Prompt = selectPrompt
		fv.Options = append([]string(nil), cfg.Options...)
	case formbuilder.RatingConfig:
		fv.Stars = cfg.MaxStars
	case formbuilder.FileConfig:
		fv.Accept = cfg.Accept()
	case formbuilder.TimeslotConfig:
		slots, err := timeslot.Selectable(cfg)
		if err != nil {
			return fv, err
		}
		fv.Prompt = timeslotPrompt
		fv.Slots = slots
	case formbuilder.PlainConfig:
		if takesPlaceholder(cfg.Type) {
			fv.Placeholder = "Enter " + strings.ToLower(field.Label)
		}
	}
	return fv, nil
}

func editField(field formbuilder.Field, index, count int) (FieldView, error) {
	fv := baseView(field)
	fv.CanMoveUp = index > 0
	fv.CanMoveDown = index < count-1

	if cfg, ok := field.Config.(formbuilder.TimeslotConfig); ok {
		checklist, err := timeslot.Checklist(cfg)
		if err != nil {
			return fv, err
		}
		if stale, err := timeslot.Stale(cfg); err == nil && len(stale) > 0 {
			zap.S().Debugw("exclusions no longer generated", "fieldID", field.ID, "labels", stale)
		}
		settings := cfg
		fv.TimeSettings = &settings
		fv.IntervalChoices = timeslot.IntervalChoices()
		fv.Checklist = checklist
	}
	return fv, nil
}

// takesPlaceholder reports whether the input kind shows an "Enter ..." hint.
func takesPlaceholder(t formbuilder.FieldType) bool {
	switch t {
	case formbuilder.FieldTypeShortText, formbuilder.FieldTypeLongText, formbuilder.FieldTypeNumber,
		formbuilder.FieldTypeEmail, formbuilder.FieldTypePhone:
		return true
	}
	return false
}
