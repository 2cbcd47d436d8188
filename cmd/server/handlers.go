package main

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/lychee-technology/formbuilder"
	"github.com/lychee-technology/formbuilder/internal"
	"github.com/lychee-technology/formbuilder/timeslot"
)

// RegisterRoutes registers all API routes
func (s *Server) RegisterRoutes() {
	s.mux.HandleFunc("GET /api/v1/field-types", s.handleFieldTypes)
	s.mux.HandleFunc("GET /api/v1/slots", s.handleSlots)

	s.mux.HandleFunc("POST /api/v1/forms", s.handleCreateForm)
	s.mux.HandleFunc("GET /api/v1/forms/{id}", s.handleGetForm)
	s.mux.HandleFunc("DELETE /api/v1/forms/{id}", s.handleDeleteForm)
	s.mux.HandleFunc("PUT /api/v1/forms/{id}/title", s.handleSetTitle)
	s.mux.HandleFunc("POST /api/v1/forms/{id}/fields", s.handleAddField)
	s.mux.HandleFunc("PATCH /api/v1/forms/{id}/fields/{fieldId}", s.handleUpdateField)
	s.mux.HandleFunc("DELETE /api/v1/forms/{id}/fields/{fieldId}", s.handleRemoveField)
	s.mux.HandleFunc("PUT /api/v1/forms/{id}/fields/{fieldId}/excluded-times/{label}", s.handleExcludeTime(true))
	s.mux.HandleFunc("DELETE /api/v1/forms/{id}/fields/{fieldId}/excluded-times/{label}", s.handleExcludeTime(false))
	s.mux.HandleFunc("POST /api/v1/forms/{id}/move", s.handleMoveField)
	s.mux.HandleFunc("POST /api/v1/forms/{id}/undo", s.handleUndo)
	s.mux.HandleFunc("GET /api/v1/forms/{id}/view", s.handleView)
	s.mux.HandleFunc("GET /api/v1/forms/{id}/json-schema", s.handleJSONSchema)
	s.mux.HandleFunc("POST /api/v1/forms/{id}/submissions/validate", s.handleValidateSubmission)
}

// mutationResult is returned by every editing endpoint
type mutationResult struct {
	Session formbuilder.Session `json:"session"`
	Changed bool                `json:"changed"`
	Field   *formbuilder.Field  `json:"field,omitempty"`
}

// apply runs fn against session id and writes the outcome
func (s *Server) apply(w http.ResponseWriter, id uuid.UUID, status int, fn formbuilder.Mutation) {
	session, changed, err := s.sessions.Apply(id, fn)
	if err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, status, mutationResult{Session: session, Changed: changed})
}

// handleFieldTypes handles GET /api/v1/field-types
func (s *Server) handleFieldTypes(w http.ResponseWriter, r *http.Request) {
	writeSuccess(w, http.StatusOK, map[string]any{
		"fieldTypes":      formbuilder.FieldTypeCatalog(),
		"intervalChoices": timeslot.IntervalChoices(),
	})
}

// handleSlots handles GET /api/v1/slots?start=&end=&interval=&exclude=
func (s *Server) handleSlots(w http.ResponseWriter, r *http.Request) {
	start, end, interval, exclude, err := parseSlotQuery(r.URL.Query())
	if err != nil {
		writeError(w, err)
		return
	}

	slots, err := timeslot.GenerateFromText(start, end, interval)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, map[string]any{
		"slots":      timeslot.FilterExcluded(slots, exclude),
		"generated":  len(slots),
		"excluded":   exclude,
		"interval":   interval,
		"rangeStart": start,
		"rangeEnd":   end,
	})
}

// handleCreateForm handles POST /api/v1/forms
func (s *Server) handleCreateForm(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Title string `json:"title"`
	}
	if r.ContentLength != 0 {
		if err := readJSONBody(w, r, &body); err != nil {
			writeError(w, err)
			return
		}
	}

	session, err := s.sessions.Create(body.Title)
	if err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, http.StatusCreated, session)
}

// handleGetForm handles GET /api/v1/forms/{id}
func (s *Server) handleGetForm(w http.ResponseWriter, r *http.Request) {
	id, err := parseUUID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	session, err := s.sessions.Get(id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, session)
}

// handleDeleteForm handles DELETE /api/v1/forms/{id}
func (s *Server) handleDeleteForm(w http.ResponseWriter, r *http.Request) {
	id, err := parseUUID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	if err := s.sessions.Delete(id); err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, map[string]any{"deleted": id})
}

// handleSetTitle handles PUT /api/v1/forms/{id}/title
func (s *Server) handleSetTitle(w http.ResponseWriter, r *http.Request) {
	id, err := parseUUID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	var body struct {
		Title *string `json:"title"`
	}
	if err := readJSONBody(w, r, &body); err != nil {
		writeError(w, err)
		return
	}
	if body.Title == nil {
		writeError(w, badRequest(formbuilder.ErrCodeInvalidAttribute, "title", "title is required"))
		return
	}

	s.apply(w, id, http.StatusOK, func(schema formbuilder.FormSchema) (formbuilder.FormSchema, bool, error) {
		if schema.Title == *body.Title {
			return schema, false, nil
		}
		return s.store.SetTitle(schema, *body.Title), true, nil
	})
}

// handleAddField handles POST /api/v1/forms/{id}/fields
func (s *Server) handleAddField(w http.ResponseWriter, r *http.Request) {
	id, err := parseUUID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	var body struct {
		Type string `json:"type"`
	}
	if err := readJSONBody(w, r, &body); err != nil {
		writeError(w, err)
		return
	}
	fieldType, err := formbuilder.ParseFieldType(body.Type)
	if err != nil {
		writeError(w, err)
		return
	}

	var added formbuilder.Field
	session, changed, err := s.sessions.Apply(id, func(schema formbuilder.FormSchema) (formbuilder.FormSchema, bool, error) {
		out, field, err := s.store.AddField(schema, fieldType)
		if err != nil {
			return schema, false, err
		}
		added = field
		return out, true, nil
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, http.StatusCreated, mutationResult{Session: session, Changed: changed, Field: &added})
}

// handleUpdateField handles PATCH /api/v1/forms/{id}/fields/{fieldId}
func (s *Server) handleUpdateField(w http.ResponseWriter, r *http.Request) {
	id, err := parseUUID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	fieldID, err := parseUUID(r, "fieldId")
	if err != nil {
		writeError(w, err)
		return
	}

	var patch formbuilder.FieldPatch
	if err := readJSONBody(w, r, &patch); err != nil {
		writeError(w, err)
		return
	}
	if patch.IsEmpty() {
		writeError(w, badRequest(formbuilder.ErrCodeInvalidAttribute, "", "patch carries no attribute"))
		return
	}

	s.apply(w, id, http.StatusOK, func(schema formbuilder.FormSchema) (formbuilder.FormSchema, bool, error) {
		return s.store.UpdateField(schema, fieldID, patch)
	})
}

// handleRemoveField handles DELETE /api/v1/forms/{id}/fields/{fieldId}
func (s *Server) handleRemoveField(w http.ResponseWriter, r *http.Request) {
	id, err := parseUUID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	fieldID, err := parseUUID(r, "fieldId")
	if err != nil {
		writeError(w, err)
		return
	}

	s.apply(w, id, http.StatusOK, func(schema formbuilder.FormSchema) (formbuilder.FormSchema, bool, error) {
		out, changed := s.store.RemoveField(schema, fieldID)
		return out, changed, nil
	})
}

// handleExcludeTime handles PUT and DELETE on
// /api/v1/forms/{id}/fields/{fieldId}/excluded-times/{label}
func (s *Server) handleExcludeTime(excluded bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseUUID(r, "id")
		if err != nil {
			writeError(w, err)
			return
		}
		fieldID, err := parseUUID(r, "fieldId")
		if err != nil {
			writeError(w, err)
			return
		}
		label := r.PathValue("label")

		s.apply(w, id, http.StatusOK, func(schema formbuilder.FormSchema) (formbuilder.FormSchema, bool, error) {
			return s.store.SetExcludedTime(schema, fieldID, label, excluded)
		})
	}
}

// handleMoveField handles POST /api/v1/forms/{id}/move
func (s *Server) handleMoveField(w http.ResponseWriter, r *http.Request) {
	id, err := parseUUID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	var body struct {
		Index     *int `json:"index"`
		Direction int  `json:"direction"`
	}
	if err := readJSONBody(w, r, &body); err != nil {
		writeError(w, err)
		return
	}
	if body.Index == nil {
		writeError(w, badRequest(formbuilder.ErrCodeIndexOutOfRange, "index", "index is required"))
		return
	}

	s.apply(w, id, http.StatusOK, func(schema formbuilder.FormSchema) (formbuilder.FormSchema, bool, error) {
		out, err := s.store.MoveField(schema, *body.Index, body.Direction)
		if err != nil {
			return schema, false, err
		}
		return out, true, nil
	})
}

// handleUndo handles POST /api/v1/forms/{id}/undo
func (s *Server) handleUndo(w http.ResponseWriter, r *http.Request) {
	id, err := parseUUID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	session, changed, err := s.sessions.Undo(id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, mutationResult{Session: session, Changed: changed})
}

// handleView handles GET /api/v1/forms/{id}/view?mode=preview|edit
func (s *Server) handleView(w http.ResponseWriter, r *http.Request) {
	id, err := parseUUID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	mode, err := formbuilder.ParseViewMode(r.URL.Query().Get("mode"))
	if err != nil {
		writeError(w, err)
		return
	}

	session, err := s.sessions.Get(id)
	if err != nil {
		writeError(w, err)
		return
	}

	view, err := internal.BuildView(session.Schema, mode)
	if err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, view)
}

// handleJSONSchema handles GET /api/v1/forms/{id}/json-schema
func (s *Server) handleJSONSchema(w http.ResponseWriter, r *http.Request) {
	id, err := parseUUID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	session, err := s.sessions.Get(id)
	if err != nil {
		writeError(w, err)
		return
	}

	js, err := internal.BuildSubmissionSchema(session.Schema)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, js)
}

// handleValidateSubmission handles POST /api/v1/forms/{id}/submissions/validate
func (s *Server) handleValidateSubmission(w http.ResponseWriter, r *http.Request) {
	id, err := parseUUID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	var answers map[string]any
	if err := readJSONBody(w, r, &answers); err != nil {
		writeError(w, err)
		return
	}

	session, err := s.sessions.Get(id)
	if err != nil {
		writeError(w, err)
		return
	}

	if err := internal.ValidateSubmission(session.Schema, answers); err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, map[string]any{"valid": true})
}
