package render

import "github.com/goliatone/go-formbuilder/pkg/model"

// FillState accumulates a respondent's entries while a form is filled
// out. Scalar controls hold a string; checkbox groups hold the selected
// options in the order they were picked.
type FillState struct {
	values map[string]any
}

// NewFillState returns an empty fill state.
func NewFillState() *FillState {
	return &FillState{values: make(map[string]any)}
}

// NewFillStateFrom seeds the state with previously entered values, for
// re-rendering a page after a failed submit. A nil map starts empty.
func NewFillStateFrom(values map[string]any) *FillState {
	cloned := model.CloneValues(values)
	if cloned == nil {
		cloned = make(map[string]any)
	}
	return &FillState{values: cloned}
}

// SetValue records a scalar entry for a field.
func (s *FillState) SetValue(fieldID, value string) {
	s.values[fieldID] = value
}

// SetSelection replaces a checkbox group's selection wholesale.
func (s *FillState) SetSelection(fieldID string, options []string) {
	s.values[fieldID] = append([]string(nil), options...)
}

// ToggleSelection flips one option in a checkbox group. Selecting
// appends to the end; deselecting removes the option and keeps the
// rest in place. Toggling twice restores the previous selection.
func (s *FillState) ToggleSelection(fieldID, option string) {
	current := s.Selection(fieldID)
	for i, existing := range current {
		if existing == option {
			s.values[fieldID] = append(current[:i:i], current[i+1:]...)
			return
		}
	}
	s.values[fieldID] = append(current, option)
}

// Value returns the scalar entry for a field, or "".
func (s *FillState) Value(fieldID string) string {
	if v, ok := s.values[fieldID].(string); ok {
		return v
	}
	return ""
}

// Selection returns the checked options for a checkbox group.
func (s *FillState) Selection(fieldID string) []string {
	switch v := s.values[fieldID].(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if str, ok := item.(string); ok {
				out = append(out, str)
			}
		}
		return out
	default:
		return nil
	}
}

// Selected reports whether an option is currently checked.
func (s *FillState) Selected(fieldID, option string) bool {
	for _, existing := range s.Selection(fieldID) {
		if existing == option {
			return true
		}
	}
	return false
}

// Values returns a copy of everything entered so far, ready to submit.
func (s *FillState) Values() map[string]any {
	return model.CloneValues(s.values)
}
