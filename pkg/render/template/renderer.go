// Package template defines the engine seam HTML renderers depend on, so
// the template backend can be swapped without touching renderer code.
package template

import "io"

// TemplateRenderer is the engine contract. Render accepts either a
// template name or inline template content; RenderTemplate and
// RenderString pin one interpretation.
type TemplateRenderer interface {
	Render(name string, data any, out ...io.Writer) (string, error)
	RenderTemplate(name string, data any, out ...io.Writer) (string, error)
	RenderString(templateContent string, data any, out ...io.Writer) (string, error)
	RegisterFilter(name string, fn func(input any, param any) (any, error)) error
	GlobalContext(data any) error
}
