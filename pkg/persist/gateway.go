package persist

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-formbuilder/pkg/model"
)

// Key layout. Form and response records key on the form id; the rest
// are singletons.
const (
	keyFormPrefix     = "form:"
	keyResponsePrefix = "responses:"
	keyTemplates      = "formTemplates"
	keyDraft          = "draftForm"
	keyTheme          = "theme"
)

var (
	// ErrFormNotFound is returned when no form exists under the given id.
	ErrFormNotFound = errors.New("persist: form not found")

	// ErrEmptyForm rejects publishing a form with no fields.
	ErrEmptyForm = errors.New("persist: cannot save a form with no fields")

	// ErrNoDraft is returned when no draft has been saved yet.
	ErrNoDraft = errors.New("persist: no draft saved")
)

// CorruptRecordError reports a stored value that no longer decodes. The
// record is left in place so it can be inspected.
type CorruptRecordError struct {
	Key string
	Err error
}

func (e *CorruptRecordError) Error() string {
	return fmt.Sprintf("persist: corrupt record %q: %v", e.Key, e.Err)
}

func (e *CorruptRecordError) Unwrap() error {
	return e.Err
}

// Gateway is the typed persistence layer over a Store.
type Gateway struct {
	store Store
}

// NewGateway wraps the given Store.
func NewGateway(store Store) *Gateway {
	return &Gateway{store: store}
}

// SaveForm publishes a form. A blank id gets a generated one; the
// resulting form is returned.
func (g *Gateway) SaveForm(form model.Form) (model.Form, error) {
	if len(form.Fields) == 0 {
		return model.Form{}, ErrEmptyForm
	}
	if form.ID == "" {
		form.ID = uuid.NewString()
	}

	if err := g.setJSON(keyFormPrefix+form.ID, form); err != nil {
		return model.Form{}, err
	}
	return form, nil
}

// LoadForm fetches a published form by id.
func (g *Gateway) LoadForm(formID string) (model.Form, error) {
	var form model.Form
	err := g.getJSON(keyFormPrefix+formID, &form)
	if errors.Is(err, ErrKeyNotFound) {
		return model.Form{}, fmt.Errorf("persist: form %q: %w", formID, ErrFormNotFound)
	}
	if err != nil {
		return model.Form{}, err
	}
	return form, nil
}

// ListForms returns every published form, ordered by id.
func (g *Gateway) ListForms() ([]model.Form, error) {
	keys, err := g.store.List(keyFormPrefix)
	if err != nil {
		return nil, fmt.Errorf("persist: list forms: %w", err)
	}
	sort.Strings(keys)

	forms := make([]model.Form, 0, len(keys))
	for _, key := range keys {
		var form model.Form
		if err := g.getJSON(key, &form); err != nil {
			return nil, err
		}
		forms = append(forms, form)
	}
	return forms, nil
}

// DeleteForm removes a published form and its submissions.
func (g *Gateway) DeleteForm(formID string) error {
	if err := g.store.Remove(keyFormPrefix + formID); err != nil {
		return fmt.Errorf("persist: delete form %q: %w", formID, err)
	}
	if err := g.store.Remove(keyResponsePrefix + formID); err != nil {
		return fmt.Errorf("persist: delete responses %q: %w", formID, err)
	}
	return nil
}

// AppendSubmission records a submission against a form. The log is
// append-only; earlier submissions are never rewritten.
func (g *Gateway) AppendSubmission(formID string, values map[string]any) error {
	if _, err := g.LoadForm(formID); err != nil {
		return err
	}

	submissions, err := g.Submissions(formID)
	if err != nil {
		return err
	}
	submissions = append(submissions, model.Submission{
		Values:      model.CloneValues(values),
		SubmittedAt: time.Now().UTC(),
	})
	return g.setJSON(keyResponsePrefix+formID, submissions)
}

// Submissions returns the submission log for a form, oldest first.
func (g *Gateway) Submissions(formID string) ([]model.Submission, error) {
	var submissions []model.Submission
	err := g.getJSON(keyResponsePrefix+formID, &submissions)
	if errors.Is(err, ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return submissions, nil
}

// SaveDraft stores the builder's working field list. The draft is a
// singleton; each save replaces the last.
func (g *Gateway) SaveDraft(fields []model.Field) error {
	return g.setJSON(keyDraft, fields)
}

// LoadDraft returns the saved working field list.
func (g *Gateway) LoadDraft() ([]model.Field, error) {
	var fields []model.Field
	err := g.getJSON(keyDraft, &fields)
	if errors.Is(err, ErrKeyNotFound) {
		return nil, ErrNoDraft
	}
	if err != nil {
		return nil, err
	}
	return fields, nil
}

// UserTemplates returns templates users saved, in saved order.
func (g *Gateway) UserTemplates() ([]model.Template, error) {
	var templates []model.Template
	err := g.getJSON(keyTemplates, &templates)
	if errors.Is(err, ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return templates, nil
}

// SaveUserTemplate appends a template to the user template list.
func (g *Gateway) SaveUserTemplate(tpl model.Template) error {
	templates, err := g.UserTemplates()
	if err != nil {
		return err
	}
	templates = append(templates, tpl)
	return g.setJSON(keyTemplates, templates)
}

// Theme returns the stored theme name, defaulting to "light".
func (g *Gateway) Theme() (string, error) {
	value, err := g.store.Get(keyTheme)
	if errors.Is(err, ErrKeyNotFound) {
		return "light", nil
	}
	if err != nil {
		return "", fmt.Errorf("persist: get theme: %w", err)
	}

	theme := strings.TrimSpace(string(value))
	if theme != "light" && theme != "dark" {
		return "", &CorruptRecordError{Key: keyTheme, Err: fmt.Errorf("unknown theme %q", theme)}
	}
	return theme, nil
}

// SaveTheme stores the theme name. Only "light" and "dark" are valid.
func (g *Gateway) SaveTheme(theme string) error {
	if theme != "light" && theme != "dark" {
		return fmt.Errorf("persist: unknown theme %q", theme)
	}
	if err := g.store.Set(keyTheme, []byte(theme)); err != nil {
		return fmt.Errorf("persist: save theme: %w", err)
	}
	return nil
}

func (g *Gateway) setJSON(key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("persist: encode %q: %w", key, err)
	}
	if err := g.store.Set(key, data); err != nil {
		return fmt.Errorf("persist: write %q: %w", key, err)
	}
	return nil
}

func (g *Gateway) getJSON(key string, out any) error {
	data, err := g.store.Get(key)
	if err != nil {
		if errors.Is(err, ErrKeyNotFound) {
			return err
		}
		return fmt.Errorf("persist: read %q: %w", key, err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return &CorruptRecordError{Key: key, Err: err}
	}
	return nil
}
