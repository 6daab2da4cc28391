package server

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/goliatone/go-formbuilder/pkg/export"
	"github.com/goliatone/go-formbuilder/pkg/model"
	"github.com/goliatone/go-formbuilder/pkg/persist"
	"github.com/goliatone/go-formbuilder/pkg/render"
)

func (s *Server) handlePublishForm(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ID string `json:"id"`
	}
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, "INVALID_BODY", err.Error())
		return
	}

	form := model.Form{ID: req.ID, Fields: s.store.Fields()}
	saved, err := s.gateway.SaveForm(form)
	if err != nil {
		if errors.Is(err, persist.ErrEmptyForm) {
			s.writeError(w, http.StatusBadRequest, "EMPTY_FORM", "cannot publish a form with no fields")
			return
		}
		s.log.Error("publish form", zap.Error(err))
		s.writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		return
	}
	s.writeJSON(w, http.StatusCreated, map[string]any{
		"form":     saved,
		"shareUrl": "/form/" + saved.ID,
	})
}

func (s *Server) handleListForms(w http.ResponseWriter, _ *http.Request) {
	forms, err := s.gateway.ListForms()
	if err != nil {
		s.gatewayError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"forms": forms})
}

func (s *Server) handleGetForm(w http.ResponseWriter, r *http.Request) {
	form, ok := s.loadForm(w, r)
	if !ok {
		return
	}
	s.writeJSON(w, http.StatusOK, form)
}

func (s *Server) handleDeleteForm(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.loadForm(w, r); !ok {
		return
	}
	if err := s.gateway.DeleteForm(chi.URLParam(r, "formID")); err != nil {
		s.gatewayError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleResponsesJSON(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.loadForm(w, r); !ok {
		return
	}
	submissions, err := s.gateway.Submissions(chi.URLParam(r, "formID"))
	if err != nil {
		s.gatewayError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"submissions": submissions})
}

func (s *Server) handleSubmitJSON(w http.ResponseWriter, r *http.Request) {
	form, ok := s.loadForm(w, r)
	if !ok {
		return
	}

	var req struct {
		Values map[string]any `json:"values"`
	}
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, "INVALID_BODY", err.Error())
		return
	}

	if errs := render.FormErrors(form.Fields, req.Values); len(errs) > 0 {
		s.writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"code":   "VALIDATION_FAILED",
			"errors": errs,
		})
		return
	}

	if err := s.gateway.AppendSubmission(form.ID, req.Values); err != nil {
		s.gatewayError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, map[string]string{"status": "recorded"})
}

func (s *Server) handleExportOpenAPI(w http.ResponseWriter, r *http.Request) {
	form, ok := s.loadForm(w, r)
	if !ok {
		return
	}

	data, err := export.OpenAPIJSON(form)
	if err != nil {
		s.log.Error("export openapi", zap.Error(err))
		s.writeError(w, http.StatusInternalServerError, "EXPORT_FAILED", "could not export form")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(data)
}

func (s *Server) handleListTemplates(w http.ResponseWriter, _ *http.Request) {
	list, err := s.library.List()
	if err != nil {
		s.gatewayError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"templates": list})
}

func (s *Server) handleSaveTemplate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, "INVALID_BODY", err.Error())
		return
	}

	tpl, err := s.library.Save(req.Name, s.store.Fields())
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "SAVE_FAILED", err.Error())
		return
	}
	s.writeJSON(w, http.StatusCreated, tpl)
}

func (s *Server) handleGetTheme(w http.ResponseWriter, _ *http.Request) {
	theme, err := s.gateway.Theme()
	if err != nil {
		s.gatewayError(w, err)
		return
	}
	if theme == "" {
		theme = s.defaultTheme
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"theme": theme})
}

func (s *Server) handleSetTheme(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Theme string `json:"theme"`
	}
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, "INVALID_BODY", err.Error())
		return
	}

	if err := s.gateway.SaveTheme(req.Theme); err != nil {
		s.writeError(w, http.StatusBadRequest, "INVALID_THEME", err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"theme": req.Theme})
}

// loadForm resolves the formID path parameter, writing the error
// response when it cannot.
func (s *Server) loadForm(w http.ResponseWriter, r *http.Request) (model.Form, bool) {
	formID := chi.URLParam(r, "formID")
	form, err := s.gateway.LoadForm(formID)
	if err != nil {
		if errors.Is(err, persist.ErrFormNotFound) {
			s.writeError(w, http.StatusNotFound, "FORM_NOT_FOUND", "no form with id "+formID)
			return model.Form{}, false
		}
		s.gatewayError(w, err)
		return model.Form{}, false
	}
	return form, true
}

func (s *Server) gatewayError(w http.ResponseWriter, err error) {
	var corrupt *persist.CorruptRecordError
	if errors.As(err, &corrupt) {
		s.log.Error("corrupt record", zap.String("key", corrupt.Key), zap.Error(corrupt.Err))
		s.writeError(w, http.StatusInternalServerError, "CORRUPT_RECORD", "stored record could not be decoded")
		return
	}
	s.log.Error("gateway", zap.Error(err))
	s.writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
}
