package internal

import (
	"fmt"
	"strings"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/lychee-technology/formbuilder"
	"github.com/lychee-technology/formbuilder/timeslot"
	"go.uber.org/zap"
)

// BuildSubmissionSchema describes the answers object an end user submits for
// schema: one property per field, keyed by the field id.
func BuildSubmissionSchema(schema formbuilder.FormSchema) (*jsonschema.Schema, error) {
	out := &jsonschema.Schema{
		Title:      schema.Title,
		Type:       "object",
		Properties: make(map[string]*jsonschema.Schema, len(schema.Fields)),
		// additional answers are rejected
		AdditionalProperties: &jsonschema.Schema{Not: &jsonschema.Schema{}},
	}

	for _, field := range schema.Fields {
		prop, err := answerSchema(field)
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", field.ID, err)
		}
		key := field.ID.String()
		out.Properties[key] = prop
		if field.Required {
			out.Required = append(out.Required, key)
		}
	}
	return out, nil
}

func answerSchema(field formbuilder.Field) (*jsonschema.Schema, error) {
	s := &jsonschema.Schema{Title: field.Label}

	switch cfg := field.Config.(type) {
	case formbuilder.SelectConfig:
		s.Type = "string"
		s.Enum = toAny(cfg.Options)
	case formbuilder.RatingConfig:
		s.Type = "integer"
		s.Minimum = float64Ptr(1)
		s.Maximum = float64Ptr(float64(cfg.MaxStars))
	case formbuilder.FileConfig:
		s.Type = "string"
		if accept := cfg.Accept(); accept != "" {
			s.Description = "accepts " + accept
		}
	case formbuilder.TimeslotConfig:
		slots, err := timeslot.Selectable(cfg)
		if err != nil {
			return nil, err
		}
		s.Type = "string"
		s.Enum = toAny(slots)
	case formbuilder.PlainConfig:
		switch cfg.Type {
		case formbuilder.FieldTypeNumber:
			s.Type = "number"
		case formbuilder.FieldTypeCheckbox:
			s.Type = "boolean"
		case formbuilder.FieldTypeEmail:
			s.Type = "string"
			s.Format = "email"
		case formbuilder.FieldTypeDate:
			s.Type = "string"
			s.Format = "date"
		default:
			s.Type = "string"
		}
	default:
		return nil, formbuilder.NewUnknownFieldTypeError(string(field.Type()))
	}
	return s, nil
}

// ValidateSubmission checks answers, a decoded JSON object keyed by field id,
// against schema. Missing required answers are reported together as
// REQUIRED_FIELD_MISSING; anything else is checked by the JSON Schema and
// reported as VALIDATION_FAILED.
func ValidateSubmission(schema formbuilder.FormSchema, answers map[string]any) error {
	verrs := formbuilder.NewValidationErrors()
	payload := make(map[string]any, len(answers))

	for key, value := range answers {
		if isBlank(value) {
			continue
		}
		payload[key] = value
	}

	for _, field := range schema.Fields {
		if !field.Required {
			continue
		}
		value, ok := payload[field.ID.String()]
		if !ok || (field.Type() == formbuilder.FieldTypeCheckbox && value == false) {
			verrs.Add(formbuilder.NewRequiredFieldMissingError(field.ID.String(), field.Label))
		}
	}
	if verrs.HasErrors() {
		zap.S().Debugw("submission is missing required answers", "title", schema.Title, "missing", len(verrs.Errors))
		return verrs.ToError()
	}

	js, err := BuildSubmissionSchema(schema)
	if err != nil {
		return err
	}
	resolved, err := js.Resolve(&jsonschema.ResolveOptions{})
	if err != nil {
		return formbuilder.NewInternalError("failed to resolve submission schema", err)
	}

	if err := resolved.Validate(payload); err != nil {
		return formbuilder.NewBuilderError(formbuilder.ErrorTypeValidation, formbuilder.ErrCodeValidationFailed,
			"submission does not match the form").WithCause(err)
	}
	return nil
}

// isBlank treats null and whitespace-only strings as unanswered.
func isBlank(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(t) == ""
	}
	return false
}

func toAny(values []string) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}

func float64Ptr(v float64) *float64 { return &v }
