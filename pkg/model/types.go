package model

import "time"

// FieldType enumerates the input kinds the builder can place on a form.
type FieldType string

const (
	FieldTypeText     FieldType = "text"
	FieldTypeTextArea FieldType = "textarea"
	FieldTypeDropdown FieldType = "dropdown"
	FieldTypeCheckbox FieldType = "checkbox"
	FieldTypeDate     FieldType = "date"
)

// FieldTypes lists every supported type in display order.
func FieldTypes() []FieldType {
	return []FieldType{
		FieldTypeText,
		FieldTypeTextArea,
		FieldTypeDropdown,
		FieldTypeCheckbox,
		FieldTypeDate,
	}
}

// Valid reports whether t is one of the supported field types.
func (t FieldType) Valid() bool {
	switch t {
	case FieldTypeText, FieldTypeTextArea, FieldTypeDropdown, FieldTypeCheckbox, FieldTypeDate:
		return true
	default:
		return false
	}
}

// Multi reports whether the type collects an ordered list of values rather
// than a single string.
func (t FieldType) Multi() bool {
	return t == FieldTypeCheckbox
}

// Field models one configurable input inside a form. IDs are assigned by the
// caller at creation time and stay stable for the field's lifetime; they must
// be unique within the owning field list. Options order is authoritative and
// duplicates are preserved. Zero MinLength/MaxLength and an empty Pattern
// mean the constraint is unset.
type Field struct {
	ID          string    `json:"id"`
	Type        FieldType `json:"type"`
	Label       string    `json:"label,omitempty"`
	Placeholder string    `json:"placeholder,omitempty"`
	HelpText    string    `json:"helpText,omitempty"`
	Required    bool      `json:"required,omitempty"`
	Options     []string  `json:"options,omitempty"`
	Step        int       `json:"step,omitempty"`
	MinLength   int       `json:"minLength,omitempty"`
	MaxLength   int       `json:"maxLength,omitempty"`
	Pattern     string    `json:"pattern,omitempty"`
}

// EffectiveStep resolves the page a field belongs to; fields without an
// explicit step live on step 1.
func (f Field) EffectiveStep() int {
	if f.Step <= 0 {
		return 1
	}
	return f.Step
}

// Form is a saved, shareable snapshot of a field list. Saves always write a
// full replacement, never a partial patch.
type Form struct {
	ID     string  `json:"id,omitempty"`
	Fields []Field `json:"fields"`
}

// Template is a named seed list of fields. Loading one replaces the builder's
// field list wholesale; it never merges.
type Template struct {
	ID     string  `json:"id,omitempty"`
	Name   string  `json:"name"`
	Fields []Field `json:"fields"`
}

// Submission records one filled-out response. Values maps field id to the
// entered value: a string for single-value fields, or an ordered []string for
// multi-select checkbox fields. Submissions are append-only.
type Submission struct {
	Values      map[string]any `json:"values"`
	SubmittedAt time.Time      `json:"submittedAt"`
}
