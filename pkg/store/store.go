// Package store holds the authoritative in-memory state for the form under
// construction: the ordered field list, current selection, current preview
// step, and a linear undo history. All mutation funnels through the named
// operations so every change to the field list pushes the prior snapshot;
// nothing else may touch the state directly.
package store

import (
	"sync"

	"github.com/goliatone/go-formbuilder/pkg/model"
	"github.com/goliatone/go-formbuilder/pkg/validation"
)

// DraftWriter is the slice of the persistence gateway SaveForm needs.
type DraftWriter interface {
	SaveDraft(fields []model.Field) error
}

// Option customises a Store at construction time.
type Option func(*Store)

// WithDraftWriter wires the gateway SaveForm writes drafts through. Without
// one, SaveForm is a no-op.
func WithDraftWriter(w DraftWriter) Option {
	return func(s *Store) {
		s.draft = w
	}
}

// WithSaveErrorHandler registers a callback for persistence failures during
// SaveForm. Failures never touch the in-memory state; the handler is the only
// place they surface.
func WithSaveErrorHandler(fn func(error)) Option {
	return func(s *Store) {
		if fn != nil {
			s.onSaveError = fn
		}
	}
}

// Store is the builder-session state machine. It lives for one builder
// session, starts empty, and is discarded on teardown; only explicit saves
// project it into the persistence gateway.
//
// The mutex exists because the periodic autosave runs off the caller's
// goroutine; everything else assumes the single event-loop ownership the
// builder UI provides.
type Store struct {
	mu sync.Mutex

	fields       []model.Field
	currentStep  int
	currentField *model.Field
	history      [][]model.Field

	draft       DraftWriter
	onSaveError func(error)
}

// New creates an empty Store for a fresh builder session.
func New(options ...Option) *Store {
	s := &Store{currentStep: 1}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(s)
	}
	return s
}

// Snapshot is a read-only view of the store's state.
type Snapshot struct {
	Fields       []model.Field `json:"fields"`
	CurrentStep  int           `json:"currentStep"`
	CurrentField *model.Field  `json:"currentField,omitempty"`
	HistoryDepth int           `json:"historyDepth"`
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{
		Fields:       model.CloneFields(s.fields),
		CurrentStep:  s.currentStep,
		HistoryDepth: len(s.history),
	}
	if s.currentField != nil {
		f := model.CloneField(*s.currentField)
		snap.CurrentField = &f
	}
	return snap
}

// Fields returns a copy of the ordered field list.
func (s *Store) Fields() []model.Field {
	s.mu.Lock()
	defer s.mu.Unlock()
	return model.CloneFields(s.fields)
}

// CurrentStep returns the step the preview is on.
func (s *Store) CurrentStep() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currentStep
}

// CurrentField returns a copy of the selected field, or nil.
func (s *Store) CurrentField() *model.Field {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.currentField == nil {
		return nil
	}
	f := model.CloneField(*s.currentField)
	return &f
}

// AddField appends a field to the end of the list, pushing the pre-mutation
// list onto history. Fields carrying a malformed pattern are rejected before
// any state changes.
func (s *Store) AddField(field model.Field) error {
	if err := validation.CheckField(field); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.pushHistory()
	s.fields = append(s.fields, model.CloneField(field))
	return nil
}

// ReorderFields moves the element at from to position to, using list-splice
// semantics: from names a position in the list before removal, to a position
// after removal. Out-of-range indices leave the list untouched.
func (s *Store) ReorderFields(from, to int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if from < 0 || from >= len(s.fields) || to < 0 || to >= len(s.fields) {
		return
	}
	// A move onto itself still pushes history: every reorder records the
	// pre-mutation list, same as the other mutating operations.
	s.pushHistory()

	fields := model.CloneFields(s.fields)
	moved := fields[from]
	fields = append(fields[:from], fields[from+1:]...)
	rest := append(fields[:to:to], moved)
	s.fields = append(rest, fields[to:]...)
}

// UpdateField merges patch onto the field with the given id, pushing the
// pre-mutation list onto history. Unknown ids are a silent no-op. When the
// targeted field is the current selection, the selection is refreshed to the
// updated value. A patch introducing a malformed pattern is rejected.
func (s *Store) UpdateField(fieldID string, patch FieldPatch) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := -1
	for i := range s.fields {
		if s.fields[i].ID == fieldID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil
	}

	updated := patch.apply(s.fields[idx])
	if err := validation.CheckField(updated); err != nil {
		return err
	}

	s.pushHistory()
	s.fields[idx] = updated
	if s.currentField != nil && s.currentField.ID == fieldID {
		refreshed := model.CloneField(updated)
		s.currentField = &refreshed
	}
	return nil
}

// SetCurrentField changes the selection. Pure navigation; history untouched.
// Selection is by id-equality against the field list, not identity, so the
// caller may pass any copy.
func (s *Store) SetCurrentField(field *model.Field) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if field == nil {
		s.currentField = nil
		return
	}
	f := model.CloneField(*field)
	s.currentField = &f
}

// SetCurrentStep changes the preview step. Pure navigation; history
// untouched. The store does not clamp: callers only request steps that
// exist in the rendered step list.
func (s *Store) SetCurrentStep(step int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.currentStep = step
}

// LoadTemplate replaces the entire field list with the template's fields and
// resets history to a single baseline entry holding the new list. Loading is
// therefore not undoable past that point.
func (s *Store) LoadTemplate(template model.Template) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.fields = model.CloneFields(template.Fields)
	s.history = [][]model.Field{model.CloneFields(template.Fields)}
}

// Undo restores the most recent history entry. With an empty history it is a
// no-op.
func (s *Store) Undo() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.history) == 0 {
		return
	}
	last := len(s.history) - 1
	s.fields = s.history[last]
	s.history = s.history[:last]
}

// Redo is an intentional no-op. History only records the state before each
// mutation, so the store supports one-directional undo; a symmetric
// past/future stack would be needed for true redo.
func (s *Store) Redo() {}

// SaveForm serializes the current field list through the draft writer. It is
// fire-and-forget: failures go to the save-error handler and never corrupt
// the in-memory state.
func (s *Store) SaveForm() {
	s.mu.Lock()
	fields := model.CloneFields(s.fields)
	draft := s.draft
	handler := s.onSaveError
	s.mu.Unlock()

	if draft == nil {
		return
	}
	if err := draft.SaveDraft(fields); err != nil && handler != nil {
		handler(err)
	}
}

func (s *Store) pushHistory() {
	s.history = append(s.history, model.CloneFields(s.fields))
}
