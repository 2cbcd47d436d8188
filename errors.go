package formbuilder

import (
	"errors"
	"fmt"
)

// ErrorType represents the category of error
type ErrorType string

const (
	ErrorTypeValidation ErrorType = "validation"
	ErrorTypeNotFound   ErrorType = "not_found"
	ErrorTypeLimit      ErrorType = "limit"
	ErrorTypeInternal   ErrorType = "internal"
)

// BuilderError is the structured error returned by schema and slot operations.
type BuilderError struct {
	Type    ErrorType      `json:"type"`
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Field   string         `json:"field,omitempty"`
	Details map[string]any `json:"details,omitempty"`
	Cause   error          `json:"-"`
}

func (e *BuilderError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("[%s:%s] field '%s': %s", e.Type, e.Code, e.Field, e.Message)
	}
	return fmt.Sprintf("[%s:%s] %s", e.Type, e.Code, e.Message)
}

func (e *BuilderError) Unwrap() error {
	return e.Cause
}

// WithDetail adds a single detail to a BuilderError
func (e *BuilderError) WithDetail(key string, value any) *BuilderError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// WithCause adds a cause to a BuilderError
func (e *BuilderError) WithCause(cause error) *BuilderError {
	e.Cause = cause
	return e
}

// WithField adds field context to a BuilderError
func (e *BuilderError) WithField(field string) *BuilderError {
	e.Field = field
	return e
}

// Error codes
const (
	ErrCodeInvalidInterval      = "INVALID_INTERVAL"
	ErrCodeUnknownFieldType     = "UNKNOWN_FIELD_TYPE"
	ErrCodeIndexOutOfRange      = "INDEX_OUT_OF_RANGE"
	ErrCodeInvalidDirection     = "INVALID_DIRECTION"
	ErrCodeInvalidTime          = "INVALID_TIME"
	ErrCodeAttributeMismatch    = "ATTRIBUTE_MISMATCH"
	ErrCodeInvalidAttribute     = "INVALID_ATTRIBUTE"
	ErrCodeInvalidViewMode      = "INVALID_VIEW_MODE"
	ErrCodeRequiredFieldMissing = "REQUIRED_FIELD_MISSING"
	ErrCodeValidationFailed     = "VALIDATION_FAILED"
	ErrCodeSessionNotFound      = "SESSION_NOT_FOUND"
	ErrCodeSessionLimitReached  = "SESSION_LIMIT_REACHED"
	ErrCodeInvalidJSON          = "INVALID_JSON"
	ErrCodeInternalError        = "INTERNAL_ERROR"
)

// NewBuilderError creates a new BuilderError
func NewBuilderError(errorType ErrorType, code, message string) *BuilderError {
	return &BuilderError{
		Type:    errorType,
		Code:    code,
		Message: message,
	}
}

// NewInvalidIntervalError is returned when a slot interval does not advance.
func NewInvalidIntervalError(interval int) *BuilderError {
	return &BuilderError{
		Type:    ErrorTypeValidation,
		Code:    ErrCodeInvalidInterval,
		Message: fmt.Sprintf("interval must be a positive number of minutes, got %d", interval),
		Field:   "interval",
		Details: map[string]any{"interval": interval},
	}
}

func NewUnknownFieldTypeError(fieldType string) *BuilderError {
	return &BuilderError{
		Type:    ErrorTypeValidation,
		Code:    ErrCodeUnknownFieldType,
		Message: fmt.Sprintf("unknown field type '%s'", fieldType),
		Field:   "type",
		Details: map[string]any{"type": fieldType},
	}
}

func NewIndexOutOfRangeError(index, target, length int) *BuilderError {
	return &BuilderError{
		Type:    ErrorTypeValidation,
		Code:    ErrCodeIndexOutOfRange,
		Message: fmt.Sprintf("cannot move field from index %d to %d in a form of %d fields", index, target, length),
		Details: map[string]any{
			"index":  index,
			"target": target,
			"length": length,
		},
	}
}

func NewInvalidDirectionError(direction int) *BuilderError {
	return &BuilderError{
		Type:    ErrorTypeValidation,
		Code:    ErrCodeInvalidDirection,
		Message: fmt.Sprintf("direction must be -1 or +1, got %d", direction),
		Details: map[string]any{"direction": direction},
	}
}

func NewInvalidTimeError(field, value string) *BuilderError {
	return &BuilderError{
		Type:    ErrorTypeValidation,
		Code:    ErrCodeInvalidTime,
		Message: fmt.Sprintf("invalid time of day '%s', expected HH:MM", value),
		Field:   field,
		Details: map[string]any{"value": value},
	}
}

// NewAttributeMismatchError reports an attribute that the field type does not carry.
func NewAttributeMismatchError(attribute string, fieldType FieldType) *BuilderError {
	return &BuilderError{
		Type:    ErrorTypeValidation,
		Code:    ErrCodeAttributeMismatch,
		Message: fmt.Sprintf("attribute '%s' does not apply to field type '%s'", attribute, fieldType),
		Field:   attribute,
		Details: map[string]any{"type": string(fieldType)},
	}
}

func NewInvalidAttributeError(attribute, message string) *BuilderError {
	return &BuilderError{
		Type:    ErrorTypeValidation,
		Code:    ErrCodeInvalidAttribute,
		Message: message,
		Field:   attribute,
	}
}

func NewInvalidViewModeError(mode string) *BuilderError {
	return &BuilderError{
		Type:    ErrorTypeValidation,
		Code:    ErrCodeInvalidViewMode,
		Message: fmt.Sprintf("unknown view mode '%s', expected edit or preview", mode),
	}
}

// NewRequiredFieldMissingError names the required field by id and label.
func NewRequiredFieldMissingError(fieldID, label string) *BuilderError {
	return &BuilderError{
		Type:    ErrorTypeValidation,
		Code:    ErrCodeRequiredFieldMissing,
		Message: fmt.Sprintf("'%s' is required", label),
		Field:   fieldID,
	}
}

func NewSessionNotFoundError(sessionID string) *BuilderError {
	return &BuilderError{
		Type:    ErrorTypeNotFound,
		Code:    ErrCodeSessionNotFound,
		Message: fmt.Sprintf("session '%s' not found", sessionID),
		Details: map[string]any{"session_id": sessionID},
	}
}

func NewSessionLimitReachedError(limit int) *BuilderError {
	return &BuilderError{
		Type:    ErrorTypeLimit,
		Code:    ErrCodeSessionLimitReached,
		Message: fmt.Sprintf("session limit of %d reached", limit),
		Details: map[string]any{"max_sessions": limit},
	}
}

// NewInternalError creates an internal error
func NewInternalError(message string, cause error) *BuilderError {
	return &BuilderError{
		Type:    ErrorTypeInternal,
		Code:    ErrCodeInternalError,
		Message: message,
		Cause:   cause,
	}
}

// ============================================================================
// ValidationErrors
// ============================================================================

// ValidationErrors represents multiple validation errors
type ValidationErrors struct {
	Errors []*BuilderError `json:"errors"`
}

// Error implements the error interface for ValidationErrors
func (ve *ValidationErrors) Error() string {
	if len(ve.Errors) == 0 {
		return "no validation errors"
	}
	if len(ve.Errors) == 1 {
		return ve.Errors[0].Error()
	}
	return fmt.Sprintf("multiple validation errors: %d errors found", len(ve.Errors))
}

// Add adds a new error to the collection
func (ve *ValidationErrors) Add(err *BuilderError) {
	ve.Errors = append(ve.Errors, err)
}

// HasErrors returns true if there are any errors
func (ve *ValidationErrors) HasErrors() bool {
	return len(ve.Errors) > 0
}

// ToError returns the ValidationErrors as an error if there are any errors, nil otherwise
func (ve *ValidationErrors) ToError() error {
	if ve.HasErrors() {
		return ve
	}
	return nil
}

// NewValidationErrors creates a new ValidationErrors instance
func NewValidationErrors() *ValidationErrors {
	return &ValidationErrors{
		Errors: make([]*BuilderError, 0),
	}
}

// ============================================================================
// Error checking utilities
// ============================================================================

// HasCode reports whether err, or anything it wraps, is a BuilderError with code.
func HasCode(err error, code string) bool {
	var be *BuilderError
	if errors.As(err, &be) {
		return be.Code == code
	}
	var ve *ValidationErrors
	if errors.As(err, &ve) {
		for _, e := range ve.Errors {
			if e.Code == code {
				return true
			}
		}
	}
	return false
}

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool {
	var be *BuilderError
	if errors.As(err, &be) {
		return be.Type == ErrorTypeValidation
	}
	var ve *ValidationErrors
	return errors.As(err, &ve)
}

// IsNotFoundError checks if an error is a not found error
func IsNotFoundError(err error) bool {
	var be *BuilderError
	if errors.As(err, &be) {
		return be.Type == ErrorTypeNotFound
	}
	return false
}

// IsLimitError checks if an error is a capacity error
func IsLimitError(err error) bool {
	var be *BuilderError
	if errors.As(err, &be) {
		return be.Type == ErrorTypeLimit
	}
	return false
}
