// Package templates loads predefined form templates and merges them with
// user saved ones.
package templates

import (
	_ "embed"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-formbuilder/pkg/model"
)

//go:embed builtin.yaml
var builtinYAML []byte

// ErrTemplateNotFound is returned when a template id matches neither a
// builtin nor a user template.
var ErrTemplateNotFound = errors.New("templates: template not found")

// UserSource persists templates created by users. The builtins never
// pass through it.
type UserSource interface {
	UserTemplates() ([]model.Template, error)
	SaveUserTemplate(tpl model.Template) error
}

type builtinFile struct {
	Templates []builtinTemplate `yaml:"templates"`
}

type builtinTemplate struct {
	ID     string         `yaml:"id"`
	Name   string         `yaml:"name"`
	Fields []builtinField `yaml:"fields"`
}

type builtinField struct {
	Type        string   `yaml:"type"`
	Label       string   `yaml:"label"`
	Placeholder string   `yaml:"placeholder"`
	HelpText    string   `yaml:"helpText"`
	Required    bool     `yaml:"required"`
	Options     []string `yaml:"options"`
	Step        int      `yaml:"step"`
	MinLength   int      `yaml:"minLength"`
	MaxLength   int      `yaml:"maxLength"`
	Pattern     string   `yaml:"pattern"`
}

// Library serves the merged template set, builtins first.
type Library struct {
	builtins []builtinTemplate
	users    UserSource
}

// Option configures a Library.
type Option func(*Library)

// WithUserSource attaches a store for user saved templates.
func WithUserSource(src UserSource) Option {
	return func(l *Library) {
		l.users = src
	}
}

// NewLibrary parses the embedded builtins and applies options.
func NewLibrary(opts ...Option) (*Library, error) {
	var file builtinFile
	if err := yaml.Unmarshal(builtinYAML, &file); err != nil {
		return nil, fmt.Errorf("templates: parse builtins: %w", err)
	}

	lib := &Library{builtins: file.Templates}
	for _, tpl := range lib.builtins {
		for _, f := range tpl.Fields {
			if !model.FieldType(f.Type).Valid() {
				return nil, fmt.Errorf("templates: builtin %q: unknown field type %q", tpl.ID, f.Type)
			}
		}
	}

	for _, opt := range opts {
		opt(lib)
	}
	return lib, nil
}

// List returns every available template: builtins followed by user
// templates, in saved order. Builtin fields are instantiated with fresh
// ids on every call so two loads of the same template never collide.
func (l *Library) List() ([]model.Template, error) {
	out := make([]model.Template, 0, len(l.builtins))
	for _, tpl := range l.builtins {
		out = append(out, instantiate(tpl))
	}

	if l.users != nil {
		users, err := l.users.UserTemplates()
		if err != nil {
			return nil, fmt.Errorf("templates: list user templates: %w", err)
		}
		out = append(out, users...)
	}
	return out, nil
}

// Get resolves a template by id.
func (l *Library) Get(id string) (model.Template, error) {
	for _, tpl := range l.builtins {
		if tpl.ID == id {
			return instantiate(tpl), nil
		}
	}

	if l.users != nil {
		users, err := l.users.UserTemplates()
		if err != nil {
			return model.Template{}, fmt.Errorf("templates: get %q: %w", id, err)
		}
		for _, tpl := range users {
			if tpl.ID == id {
				return tpl, nil
			}
		}
	}
	return model.Template{}, fmt.Errorf("templates: %q: %w", id, ErrTemplateNotFound)
}

// Save stores the given fields as a new user template. The name must be
// non-empty; the id is generated.
func (l *Library) Save(name string, fields []model.Field) (model.Template, error) {
	if l.users == nil {
		return model.Template{}, errors.New("templates: no user template source configured")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return model.Template{}, errors.New("templates: template name is required")
	}

	tpl := model.Template{
		ID:     uuid.NewString(),
		Name:   name,
		Fields: model.CloneFields(fields),
	}
	if err := l.users.SaveUserTemplate(tpl); err != nil {
		return model.Template{}, fmt.Errorf("templates: save %q: %w", name, err)
	}
	return tpl, nil
}

func instantiate(tpl builtinTemplate) model.Template {
	fields := make([]model.Field, len(tpl.Fields))
	for i, f := range tpl.Fields {
		fields[i] = model.Field{
			ID:          uuid.NewString(),
			Type:        model.FieldType(f.Type),
			Label:       f.Label,
			Placeholder: f.Placeholder,
			HelpText:    f.HelpText,
			Required:    f.Required,
			Options:     append([]string(nil), f.Options...),
			Step:        f.Step,
			MinLength:   f.MinLength,
			MaxLength:   f.MaxLength,
			Pattern:     f.Pattern,
		}
	}
	return model.Template{ID: tpl.ID, Name: tpl.Name, Fields: fields}
}
