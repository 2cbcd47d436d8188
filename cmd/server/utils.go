package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/lychee-technology/formbuilder"
	"go.uber.org/zap"
)

// maxBodyBytes caps request bodies; forms are small.
const maxBodyBytes = 1 << 20

// APIResponse is the standard response format
type APIResponse struct {
	Success bool                        `json:"success"`
	Data    any                         `json:"data,omitempty"`
	Error   string                      `json:"error,omitempty"`
	Code    string                      `json:"code,omitempty"`
	Field   string                      `json:"field,omitempty"`
	Details map[string]any              `json:"details,omitempty"`
	Errors  []*formbuilder.BuilderError `json:"errors,omitempty"`
}

// writeJSON writes JSON response to http.ResponseWriter
func writeJSON(w http.ResponseWriter, statusCode int, data any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	return json.NewEncoder(w).Encode(data)
}

// writeSuccess writes a success response
func writeSuccess(w http.ResponseWriter, statusCode int, data any) error {
	return writeJSON(w, statusCode, APIResponse{Success: true, Data: data})
}

// writeError writes an error response, deriving the status from the error type
func writeError(w http.ResponseWriter, err error) error {
	resp := APIResponse{Success: false, Error: err.Error()}

	var verrs *formbuilder.ValidationErrors
	var be *formbuilder.BuilderError
	switch {
	case errors.As(err, &verrs):
		resp.Code = formbuilder.ErrCodeRequiredFieldMissing
		resp.Errors = verrs.Errors
	case errors.As(err, &be):
		resp.Error = be.Message
		if be.Cause != nil {
			resp.Error = fmt.Sprintf("%s: %v", be.Message, be.Cause)
		}
		resp.Code = be.Code
		resp.Field = be.Field
		resp.Details = be.Details
	}

	status := statusForError(err)
	if status == http.StatusInternalServerError {
		zap.S().Errorw("request failed", "error", err)
	}
	return writeJSON(w, status, resp)
}

// statusForError maps error categories to HTTP status codes
func statusForError(err error) int {
	switch {
	case formbuilder.IsValidationError(err):
		return http.StatusBadRequest
	case formbuilder.IsNotFoundError(err):
		return http.StatusNotFound
	case formbuilder.IsLimitError(err):
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// badRequest wraps a malformed request as a validation error.
func badRequest(code, field, message string) *formbuilder.BuilderError {
	return formbuilder.NewBuilderError(formbuilder.ErrorTypeValidation, code, message).WithField(field)
}

// parseUUID parses a UUID path value
func parseUUID(r *http.Request, name string) (uuid.UUID, error) {
	raw := r.PathValue(name)
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, badRequest(formbuilder.ErrCodeInvalidAttribute, name, fmt.Sprintf("invalid %s '%s'", name, raw))
	}
	return id, nil
}

// readJSONBody reads and decodes JSON from request body
func readJSONBody(w http.ResponseWriter, r *http.Request, v any) error {
	defer r.Body.Close()
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		var be *formbuilder.BuilderError
		if errors.As(err, &be) {
			return be
		}
		return badRequest(formbuilder.ErrCodeInvalidJSON, "", fmt.Sprintf("invalid json body: %v", err))
	}
	return nil
}

// parseSlotQuery extracts start, end, interval and exclude from query parameters
func parseSlotQuery(q url.Values) (start, end string, interval int, exclude []string, err error) {
	start = q.Get("start")
	end = q.Get("end")
	if start == "" || end == "" {
		return "", "", 0, nil, badRequest(formbuilder.ErrCodeInvalidTime, "start", "start and end are required")
	}

	interval, err = strconv.Atoi(q.Get("interval"))
	if err != nil {
		return "", "", 0, nil, badRequest(formbuilder.ErrCodeInvalidInterval, "interval",
			fmt.Sprintf("interval must be an integer, got '%s'", q.Get("interval")))
	}

	for _, value := range q["exclude"] {
		for _, label := range strings.Split(value, ",") {
			if label = strings.TrimSpace(label); label != "" {
				exclude = append(exclude, label)
			}
		}
	}
	return start, end, interval, exclude, nil
}
