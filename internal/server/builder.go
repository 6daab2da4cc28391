package server

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/goliatone/go-formbuilder/pkg/model"
	"github.com/goliatone/go-formbuilder/pkg/store"
	"github.com/goliatone/go-formbuilder/pkg/templates"
	"github.com/goliatone/go-formbuilder/pkg/validation"
)

func (s *Server) handleBuilderState(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, s.store.Snapshot())
}

func (s *Server) handleAddField(w http.ResponseWriter, r *http.Request) {
	var field model.Field
	if err := decodeJSON(r, &field); err != nil {
		s.writeError(w, http.StatusBadRequest, "INVALID_BODY", err.Error())
		return
	}
	if !field.Type.Valid() {
		s.writeError(w, http.StatusBadRequest, "INVALID_FIELD_TYPE", "unknown field type: "+string(field.Type))
		return
	}
	if field.ID == "" {
		field.ID = uuid.NewString()
	}

	if err := s.store.AddField(field); err != nil {
		s.fieldError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, s.store.Snapshot())
}

func (s *Server) handleUpdateField(w http.ResponseWriter, r *http.Request) {
	fieldID := chi.URLParam(r, "fieldID")

	var patch store.FieldPatch
	if err := decodeJSON(r, &patch); err != nil {
		s.writeError(w, http.StatusBadRequest, "INVALID_BODY", err.Error())
		return
	}
	if patch.Type != nil && !patch.Type.Valid() {
		s.writeError(w, http.StatusBadRequest, "INVALID_FIELD_TYPE", "unknown field type: "+string(*patch.Type))
		return
	}

	if err := s.store.UpdateField(fieldID, patch); err != nil {
		s.fieldError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, s.store.Snapshot())
}

func (s *Server) handleReorder(w http.ResponseWriter, r *http.Request) {
	var req struct {
		From int `json:"from"`
		To   int `json:"to"`
	}
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, "INVALID_BODY", err.Error())
		return
	}

	s.store.ReorderFields(req.From, req.To)
	s.writeJSON(w, http.StatusOK, s.store.Snapshot())
}

func (s *Server) handleSetStep(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Step int `json:"step"`
	}
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, "INVALID_BODY", err.Error())
		return
	}

	s.store.SetCurrentStep(req.Step)
	s.writeJSON(w, http.StatusOK, s.store.Snapshot())
}

func (s *Server) handleSelectField(w http.ResponseWriter, r *http.Request) {
	var req struct {
		FieldID string `json:"fieldId"`
	}
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, "INVALID_BODY", err.Error())
		return
	}

	if req.FieldID == "" {
		s.store.SetCurrentField(nil)
		s.writeJSON(w, http.StatusOK, s.store.Snapshot())
		return
	}

	for _, field := range s.store.Fields() {
		if field.ID == req.FieldID {
			s.store.SetCurrentField(&field)
			s.writeJSON(w, http.StatusOK, s.store.Snapshot())
			return
		}
	}
	s.writeError(w, http.StatusNotFound, "FIELD_NOT_FOUND", "no field with id "+req.FieldID)
}

func (s *Server) handleLoadTemplate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		TemplateID string `json:"templateId"`
	}
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, "INVALID_BODY", err.Error())
		return
	}

	tpl, err := s.library.Get(req.TemplateID)
	if err != nil {
		if errors.Is(err, templates.ErrTemplateNotFound) {
			s.writeError(w, http.StatusNotFound, "TEMPLATE_NOT_FOUND", err.Error())
			return
		}
		s.log.Error("load template", zap.Error(err))
		s.writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		return
	}

	s.store.LoadTemplate(tpl)
	s.writeJSON(w, http.StatusOK, s.store.Snapshot())
}

func (s *Server) handleUndo(w http.ResponseWriter, _ *http.Request) {
	s.store.Undo()
	s.writeJSON(w, http.StatusOK, s.store.Snapshot())
}

func (s *Server) handleSaveDraft(w http.ResponseWriter, _ *http.Request) {
	if err := s.gateway.SaveDraft(s.store.Fields()); err != nil {
		s.log.Error("save draft", zap.Error(err))
		s.writeError(w, http.StatusInternalServerError, "SAVE_FAILED", "could not save draft")
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "saved"})
}

func (s *Server) fieldError(w http.ResponseWriter, err error) {
	var patternErr *validation.PatternError
	if errors.As(err, &patternErr) {
		s.writeError(w, http.StatusBadRequest, "INVALID_PATTERN", patternErr.Error())
		return
	}
	s.log.Error("field mutation", zap.Error(err))
	s.writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
}
