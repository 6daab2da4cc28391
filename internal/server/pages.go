package server

import (
	"errors"
	"fmt"
	"html"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/goliatone/go-formbuilder/pkg/model"
	"github.com/goliatone/go-formbuilder/pkg/persist"
	"github.com/goliatone/go-formbuilder/pkg/render"
)

func (s *Server) handleFormPage(w http.ResponseWriter, r *http.Request) {
	formID := chi.URLParam(r, "formID")
	form, err := s.gateway.LoadForm(formID)
	if err != nil {
		if errors.Is(err, persist.ErrFormNotFound) {
			s.notFoundPage(w, formID)
			return
		}
		s.gatewayError(w, err)
		return
	}

	s.renderFormPage(w, r, form, http.StatusOK, nil, nil)
}

func (s *Server) handleFormSubmit(w http.ResponseWriter, r *http.Request) {
	formID := chi.URLParam(r, "formID")
	form, err := s.gateway.LoadForm(formID)
	if err != nil {
		if errors.Is(err, persist.ErrFormNotFound) {
			s.notFoundPage(w, formID)
			return
		}
		s.gatewayError(w, err)
		return
	}

	if err := r.ParseForm(); err != nil {
		s.writeError(w, http.StatusBadRequest, "INVALID_FORM", err.Error())
		return
	}
	values := submittedValues(form, r)

	if errs := render.FormErrors(form.Fields, values); len(errs) > 0 {
		s.renderFormPage(w, r, form, http.StatusUnprocessableEntity, values, errs)
		return
	}

	if err := s.gateway.AppendSubmission(form.ID, values); err != nil {
		s.gatewayError(w, err)
		return
	}
	s.thankYouPage(w, form.ID)
}

func (s *Server) handleResponsesPage(w http.ResponseWriter, r *http.Request) {
	formID := chi.URLParam(r, "formID")
	form, err := s.gateway.LoadForm(formID)
	if err != nil {
		if errors.Is(err, persist.ErrFormNotFound) {
			s.notFoundPage(w, formID)
			return
		}
		s.gatewayError(w, err)
		return
	}

	submissions, err := s.gateway.Submissions(formID)
	if err != nil {
		s.gatewayError(w, err)
		return
	}

	var b strings.Builder
	b.WriteString("<!DOCTYPE html><html><head><meta charset=\"utf-8\">")
	fmt.Fprintf(&b, "<title>Responses: %s</title></head><body>", html.EscapeString(formID))
	fmt.Fprintf(&b, "<h1>Responses for %s</h1>", html.EscapeString(formID))

	if len(submissions) == 0 {
		b.WriteString("<p>No responses yet.</p>")
	} else {
		b.WriteString(`<table class="responses"><thead><tr><th>Submitted</th>`)
		for _, field := range form.Fields {
			fmt.Fprintf(&b, "<th>%s</th>", html.EscapeString(field.Label))
		}
		b.WriteString("</tr></thead><tbody>")
		for _, sub := range submissions {
			b.WriteString("<tr>")
			fmt.Fprintf(&b, "<td>%s</td>", sub.SubmittedAt.Format("2006-01-02 15:04:05"))
			for _, field := range form.Fields {
				fmt.Fprintf(&b, "<td>%s</td>", html.EscapeString(displayValue(sub.Values[field.ID])))
			}
			b.WriteString("</tr>")
		}
		b.WriteString("</tbody></table>")
	}
	b.WriteString("</body></html>")

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(b.String()))
}

func (s *Server) renderFormPage(w http.ResponseWriter, r *http.Request, form model.Form, status int, values map[string]any, errs map[string]string) {
	options := render.RenderOptions{
		Values: values,
		Errors: errs,
		Theme:  s.currentTheme(),
	}

	renderer, err := s.renderers.Get(s.pageName)
	if err != nil {
		s.log.Error("resolve renderer", zap.String("renderer", s.pageName), zap.Error(err))
		s.writeError(w, http.StatusInternalServerError, "RENDER_FAILED", "could not render form")
		return
	}

	page, err := renderer.Render(r.Context(), form, options)
	if err != nil {
		s.log.Error("render form", zap.String("form", form.ID), zap.Error(err))
		s.writeError(w, http.StatusInternalServerError, "RENDER_FAILED", "could not render form")
		return
	}

	w.Header().Set("Content-Type", renderer.ContentType())
	w.WriteHeader(status)
	w.Write(page)
}

// currentTheme resolves the stored theme choice, falling back to the
// configured default when the record is unusable.
func (s *Server) currentTheme() *render.ThemeConfig {
	name, err := s.gateway.Theme()
	if err != nil || name == "" {
		name = s.defaultTheme
	}
	sel, err := s.themes.Select(name, "")
	if err != nil {
		return nil
	}
	return render.ConfigFromSelection(sel)
}

func (s *Server) notFoundPage(w http.ResponseWriter, formID string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusNotFound)
	fmt.Fprintf(w, "<!DOCTYPE html><html><head><meta charset=\"utf-8\"><title>Form not found</title></head><body><h1>Form not found</h1><p>There is no form with id %s.</p></body></html>", html.EscapeString(formID))
}

func (s *Server) thankYouPage(w http.ResponseWriter, formID string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprintf(w, "<!DOCTYPE html><html><head><meta charset=\"utf-8\"><title>Thank you</title></head><body><h1>Thank you!</h1><p>Your response to %s has been recorded.</p></body></html>", html.EscapeString(formID))
}

// submittedValues collects the posted entries: checkbox groups keep
// every checked value, everything else takes the single form value.
func submittedValues(form model.Form, r *http.Request) map[string]any {
	values := make(map[string]any, len(form.Fields))
	for _, field := range form.Fields {
		if field.Type.Multi() {
			if selected, ok := r.PostForm[field.ID]; ok {
				values[field.ID] = append([]string(nil), selected...)
			} else {
				values[field.ID] = []string{}
			}
			continue
		}
		values[field.ID] = r.PostFormValue(field.ID)
	}
	return values
}

func displayValue(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case []string:
		return strings.Join(v, ", ")
	case []any:
		parts := make([]string, 0, len(v))
		for _, item := range v {
			parts = append(parts, fmt.Sprint(item))
		}
		return strings.Join(parts, ", ")
	default:
		return fmt.Sprint(v)
	}
}
