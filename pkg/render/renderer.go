// Package render defines the renderer contract shared by every output
// surface plus the helpers they lean on: step grouping, fill state and
// theme resolution.
package render

import (
	"context"

	"github.com/goliatone/go-formbuilder/pkg/model"
)

// Renderer converts a form into a byte representation (HTML, terminal
// output, etc.).
type Renderer interface {
	Name() string
	ContentType() string
	Render(ctx context.Context, form model.Form, options RenderOptions) ([]byte, error)
}
