package store

import "github.com/goliatone/go-formbuilder/pkg/model"

// FieldPatch carries partial updates for UpdateField. nil members are left
// untouched; set members replace the field's value wholesale. Options is
// replaced as a whole list, never merged.
type FieldPatch struct {
	Type        *model.FieldType `json:"type,omitempty"`
	Label       *string          `json:"label,omitempty"`
	Placeholder *string          `json:"placeholder,omitempty"`
	HelpText    *string          `json:"helpText,omitempty"`
	Required    *bool            `json:"required,omitempty"`
	Options     *[]string        `json:"options,omitempty"`
	Step        *int             `json:"step,omitempty"`
	MinLength   *int             `json:"minLength,omitempty"`
	MaxLength   *int             `json:"maxLength,omitempty"`
	Pattern     *string          `json:"pattern,omitempty"`
}

func (p FieldPatch) apply(field model.Field) model.Field {
	out := model.CloneField(field)
	if p.Type != nil {
		out.Type = *p.Type
	}
	if p.Label != nil {
		out.Label = *p.Label
	}
	if p.Placeholder != nil {
		out.Placeholder = *p.Placeholder
	}
	if p.HelpText != nil {
		out.HelpText = *p.HelpText
	}
	if p.Required != nil {
		out.Required = *p.Required
	}
	if p.Options != nil {
		out.Options = append([]string(nil), (*p.Options)...)
	}
	if p.Step != nil {
		out.Step = *p.Step
	}
	if p.MinLength != nil {
		out.MinLength = *p.MinLength
	}
	if p.MaxLength != nil {
		out.MaxLength = *p.MaxLength
	}
	if p.Pattern != nil {
		out.Pattern = *p.Pattern
	}
	return out
}
