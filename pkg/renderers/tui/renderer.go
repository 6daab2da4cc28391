// Package tui fills forms interactively in the terminal using survey
// prompts.
package tui

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/goliatone/go-formbuilder/pkg/model"
	"github.com/goliatone/go-formbuilder/pkg/render"
	"github.com/goliatone/go-formbuilder/pkg/validation"
)

const skipOption = "(none)"

// Renderer implements render.Renderer for terminal-driven fill
// sessions. Render prompts for every field step by step and returns the
// collected submission values.
type Renderer struct {
	driver       PromptDriver
	outputFormat OutputFormat
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs a TUI renderer with defaults (survey driver, JSON output).
func New(options ...Option) (*Renderer, error) {
	driver, err := newSurveyDriver()
	if err != nil {
		return nil, err
	}

	r := &Renderer{
		driver:       driver,
		outputFormat: OutputFormatJSON,
	}

	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(r)
	}
	return r, nil
}

// Name reports the renderer identifier.
func (r *Renderer) Name() string {
	return "tui"
}

// ContentType reports the serialization format used by Render.
func (r *Renderer) ContentType() string {
	if r.outputFormat == OutputFormatPrettyText {
		return "text/plain"
	}
	return "application/json"
}

// Render walks the form's steps in order, prompting per field. Invalid
// entries reprompt with the validation message; the returned bytes hold
// the collected values.
func (r *Renderer) Render(ctx context.Context, form model.Form, opts render.RenderOptions) ([]byte, error) {
	if ctx == nil {
		return nil, errors.New("tui: context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if r.driver == nil {
		return nil, errors.New("tui: prompt driver is nil")
	}

	state := render.NewFillStateFrom(opts.Values)

	steps := render.Steps(form.Fields)
	if opts.Step > 0 {
		steps = []int{opts.Step}
	}
	multiStep := len(steps) > 1

	for _, step := range steps {
		if multiStep {
			if err := r.driver.Info(ctx, fmt.Sprintf("-- Step %d --", step)); err != nil {
				return nil, err
			}
		}
		for _, field := range render.FieldsForStep(form.Fields, step) {
			if err := r.promptField(ctx, field, state); err != nil {
				return nil, err
			}
		}
	}

	return r.serialize(state.Values())
}

func (r *Renderer) promptField(ctx context.Context, field model.Field, state *render.FillState) error {
	switch field.Type {
	case model.FieldTypeTextArea:
		return r.promptTextArea(ctx, field, state)
	case model.FieldTypeDropdown:
		return r.promptDropdown(ctx, field, state)
	case model.FieldTypeCheckbox:
		return r.promptCheckbox(ctx, field, state)
	case model.FieldTypeDate:
		return r.promptDate(ctx, field, state)
	default:
		return r.promptText(ctx, field, state)
	}
}

func (r *Renderer) promptText(ctx context.Context, field model.Field, state *render.FillState) error {
	for {
		response, err := r.driver.Input(ctx, InputConfig{
			Message: promptMessage(field),
			Default: state.Value(field.ID),
			Help:    field.HelpText,
		})
		if err != nil {
			return err
		}
		if msg := validation.Validate(field, response); msg != "" {
			if err := r.driver.Info(ctx, msg); err != nil {
				return err
			}
			continue
		}
		state.SetValue(field.ID, response)
		return nil
	}
}

func (r *Renderer) promptTextArea(ctx context.Context, field model.Field, state *render.FillState) error {
	for {
		response, err := r.driver.TextArea(ctx, TextAreaConfig{
			Message: promptMessage(field),
			Default: state.Value(field.ID),
			Help:    field.HelpText,
		})
		if err != nil {
			return err
		}
		if msg := validation.Validate(field, response); msg != "" {
			if err := r.driver.Info(ctx, msg); err != nil {
				return err
			}
			continue
		}
		state.SetValue(field.ID, response)
		return nil
	}
}

func (r *Renderer) promptDropdown(ctx context.Context, field model.Field, state *render.FillState) error {
	options := append([]string(nil), field.Options...)
	if !field.Required {
		options = append([]string{skipOption}, options...)
	}

	defaultIdx := -1
	if current := state.Value(field.ID); current != "" {
		defaultIdx = indexOf(options, current)
	}

	for {
		idx, err := r.driver.Select(ctx, SelectConfig{
			Message:      promptMessage(field),
			Options:      options,
			DefaultIndex: defaultIdx,
			Help:         field.HelpText,
		})
		if err != nil {
			return err
		}
		if idx < 0 || idx >= len(options) {
			if err := r.driver.Info(ctx, "Invalid selection"); err != nil {
				return err
			}
			continue
		}

		selected := options[idx]
		if selected == skipOption {
			selected = ""
		}
		if msg := validation.Validate(field, selected); msg != "" {
			if err := r.driver.Info(ctx, msg); err != nil {
				return err
			}
			continue
		}
		state.SetValue(field.ID, selected)
		return nil
	}
}

func (r *Renderer) promptCheckbox(ctx context.Context, field model.Field, state *render.FillState) error {
	defaults := indicesOf(field.Options, state.Selection(field.ID))

	for {
		indices, err := r.driver.MultiSelect(ctx, SelectConfig{
			Message:  promptMessage(field),
			Options:  field.Options,
			Defaults: defaults,
			Help:     field.HelpText,
		})
		if err != nil {
			return err
		}

		selected := make([]string, 0, len(indices))
		for _, idx := range indices {
			if idx >= 0 && idx < len(field.Options) {
				selected = append(selected, field.Options[idx])
			}
		}
		if msg := validation.Validate(field, selected); msg != "" {
			if err := r.driver.Info(ctx, msg); err != nil {
				return err
			}
			continue
		}
		state.SetSelection(field.ID, selected)
		return nil
	}
}

func (r *Renderer) promptDate(ctx context.Context, field model.Field, state *render.FillState) error {
	for {
		response, err := r.driver.Input(ctx, InputConfig{
			Message: promptMessage(field) + " (YYYY-MM-DD)",
			Default: state.Value(field.ID),
			Help:    field.HelpText,
		})
		if err != nil {
			return err
		}

		trimmed := strings.TrimSpace(response)
		if trimmed != "" {
			if _, err := time.Parse("2006-01-02", trimmed); err != nil {
				if err := r.driver.Info(ctx, validation.MsgInvalidFormat); err != nil {
					return err
				}
				continue
			}
		}
		if msg := validation.Validate(field, trimmed); msg != "" {
			if err := r.driver.Info(ctx, msg); err != nil {
				return err
			}
			continue
		}
		state.SetValue(field.ID, trimmed)
		return nil
	}
}

func (r *Renderer) serialize(values map[string]any) ([]byte, error) {
	if r.outputFormat == OutputFormatPrettyText {
		return []byte(prettyPrint(values)), nil
	}
	return json.Marshal(values)
}

func promptMessage(field model.Field) string {
	label := field.Label
	if label == "" {
		label = field.ID
	}
	if field.Required {
		return label + " *"
	}
	return label
}

func prettyPrint(values map[string]any) string {
	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, key := range keys {
		switch v := values[key].(type) {
		case []string:
			fmt.Fprintf(&b, "%s=%s\n", key, strings.Join(v, ", "))
		default:
			fmt.Fprintf(&b, "%s=%v\n", key, v)
		}
	}
	return b.String()
}
