// Package vanilla renders forms as dependency-free HTML pages.
package vanilla

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"sort"
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"github.com/goliatone/go-formbuilder/pkg/model"
	"github.com/goliatone/go-formbuilder/pkg/render"
	rendertemplate "github.com/goliatone/go-formbuilder/pkg/render/template"
	"github.com/goliatone/go-formbuilder/pkg/render/template/pongo"
)

type Option func(*config)

type config struct {
	templateFS       fs.FS
	templateRenderer rendertemplate.TemplateRenderer
	action           string
}

// WithTemplatesFS supplies an alternate template bundle via fs.FS.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templateFS = files
	}
}

// WithTemplatesDir loads templates from a directory on disk.
func WithTemplatesDir(path string) Option {
	return func(cfg *config) {
		if path == "" {
			return
		}
		cfg.templateFS = os.DirFS(path)
	}
}

// WithTemplateRenderer injects a custom template renderer implementation.
func WithTemplateRenderer(renderer rendertemplate.TemplateRenderer) Option {
	return func(cfg *config) {
		if renderer != nil {
			cfg.templateRenderer = renderer
		}
	}
}

// WithAction overrides the form's submit target. The default posts back
// to the current URL.
func WithAction(action string) Option {
	return func(cfg *config) {
		cfg.action = action
	}
}

type Renderer struct {
	templates rendertemplate.TemplateRenderer
	policy    *bluemonday.Policy
	action    string
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs the vanilla renderer applying any provided options.
func New(options ...Option) (*Renderer, error) {
	cfg := config{templateFS: TemplatesFS()}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}

	if cfg.templateFS == nil {
		cfg.templateFS = TemplatesFS()
	}

	renderer := cfg.templateRenderer
	if renderer == nil {
		engine, err := pongo.New(
			pongo.WithFS(cfg.templateFS),
			pongo.WithExtension(".tmpl"),
		)
		if err != nil {
			return nil, fmt.Errorf("vanilla renderer: configure template renderer: %w", err)
		}
		renderer = engine
	}

	return &Renderer{
		templates: renderer,
		policy:    bluemonday.StrictPolicy(),
		action:    cfg.action,
	}, nil
}

func (r *Renderer) Name() string {
	return "vanilla"
}

func (r *Renderer) ContentType() string {
	return "text/html; charset=utf-8"
}

// Render produces the full HTML page for a form. Options select the
// step to show, pre-fill entered values, surface validation errors and
// carry the resolved theme.
func (r *Renderer) Render(_ context.Context, form model.Form, options render.RenderOptions) ([]byte, error) {
	if r.templates == nil {
		return nil, fmt.Errorf("vanilla renderer: template renderer is nil")
	}

	state := render.NewFillStateFrom(options.Values)

	steps := render.Steps(form.Fields)
	if options.Step > 0 {
		steps = []int{options.Step}
	}

	stepViews := make([]map[string]any, 0, len(steps))
	for _, step := range steps {
		fields := render.FieldsForStep(form.Fields, step)
		views := make([]map[string]any, 0, len(fields))
		for _, field := range fields {
			views = append(views, r.fieldView(field, state, options.Errors))
		}
		stepViews = append(stepViews, map[string]any{
			"number": step,
			"fields": views,
		})
	}

	data := map[string]any{
		"title":            r.sanitize(formTitle(form)),
		"action":           r.action,
		"steps":            stepViews,
		"show_step_legend": len(render.Steps(form.Fields)) > 1,
		"theme_name":       "",
		"theme_css":        "",
		"stylesheet_url":   "",
	}
	if options.Theme != nil {
		data["theme_name"] = options.Theme.Theme
		data["theme_css"] = themeCSS(options.Theme)
		if options.Theme.AssetURL != nil {
			data["stylesheet_url"] = options.Theme.AssetURL("stylesheet")
		}
	}

	result, err := r.templates.RenderTemplate("templates/form.tmpl", data)
	if err != nil {
		return nil, fmt.Errorf("vanilla renderer: render template: %w", err)
	}
	return []byte(result), nil
}

func (r *Renderer) fieldView(field model.Field, state *render.FillState, errors map[string]string) map[string]any {
	options := make([]map[string]any, 0, len(field.Options))
	for _, option := range field.Options {
		active := false
		switch field.Type {
		case model.FieldTypeCheckbox:
			active = state.Selected(field.ID, option)
		case model.FieldTypeDropdown:
			active = state.Value(field.ID) == option
		}
		options = append(options, map[string]any{
			"value":  r.sanitize(option),
			"active": active,
		})
	}

	return map[string]any{
		"id":          field.ID,
		"type":        string(field.Type),
		"label":       r.sanitize(field.Label),
		"placeholder": r.sanitize(field.Placeholder),
		"help_text":   r.sanitize(field.HelpText),
		"required":    field.Required,
		"value":       r.sanitize(state.Value(field.ID)),
		"options":     options,
		"error":       r.sanitize(errors[field.ID]),
	}
}

// sanitize strips markup from display strings before they reach the
// template, where they are emitted verbatim.
func (r *Renderer) sanitize(s string) string {
	return r.policy.Sanitize(s)
}

func formTitle(form model.Form) string {
	if form.ID != "" {
		return form.ID
	}
	return "Form"
}

// themeCSS flattens the theme's CSS variables into a :root block.
func themeCSS(cfg *render.ThemeConfig) string {
	if cfg == nil || len(cfg.CSSVars) == 0 {
		return ""
	}
	keys := make([]string, 0, len(cfg.CSSVars))
	for key := range cfg.CSSVars {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(":root{")
	for _, key := range keys {
		b.WriteString(key)
		b.WriteByte(':')
		b.WriteString(cfg.CSSVars[key])
		b.WriteByte(';')
	}
	b.WriteString("}")
	return b.String()
}
