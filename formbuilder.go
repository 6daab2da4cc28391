package formbuilder

import (
	"context"

	"github.com/goliatone/go-formbuilder/pkg/model"
	"github.com/goliatone/go-formbuilder/pkg/render"
	"github.com/goliatone/go-formbuilder/pkg/renderers/vanilla"
	"github.com/goliatone/go-formbuilder/pkg/store"
	"github.com/goliatone/go-formbuilder/pkg/validation"
)

// Field describes a single form control; alias exported via the root package
// for convenience.
type Field = model.Field

// Form is a published collection of fields.
type Form = model.Form

// RenderOptions describes per-request overrides that renderers can use to
// prefill values or surface server-side validation errors.
type RenderOptions = render.RenderOptions

// NewStore exposes the form store constructor from the top-level module.
func NewStore(options ...store.Option) *store.Store {
	return store.New(options...)
}

// ValidateField checks a value against a field's constraints and returns the
// first failing message, or "" when the value is acceptable.
func ValidateField(field Field, value any) string {
	return validation.Validate(field, value)
}

// RenderHTML renders a form as a standalone HTML page using the vanilla
// renderer. It is the simplest entry point for callers that just want markup.
func RenderHTML(ctx context.Context, form Form, opts RenderOptions) ([]byte, error) {
	r, err := vanilla.New()
	if err != nil {
		return nil, err
	}
	return r.Render(ctx, form, opts)
}
