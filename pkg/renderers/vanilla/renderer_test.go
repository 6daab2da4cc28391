package vanilla

import (
	"context"
	"strings"
	"testing"

	"github.com/goliatone/go-formbuilder/pkg/model"
	"github.com/goliatone/go-formbuilder/pkg/render"
	"github.com/goliatone/go-formbuilder/pkg/validation"
)

func renderForm(t *testing.T, form model.Form, options render.RenderOptions) string {
	t.Helper()
	renderer, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	out, err := renderer.Render(context.Background(), form, options)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	return string(out)
}

func sampleForm() model.Form {
	return model.Form{
		ID: "contact",
		Fields: []model.Field{
			{ID: "name", Type: model.FieldTypeText, Label: "Name", Placeholder: "Your name", Required: true},
			{ID: "bio", Type: model.FieldTypeTextArea, Label: "Bio", HelpText: "A few words about you"},
			{ID: "rating", Type: model.FieldTypeDropdown, Label: "Rating", Options: []string{"1", "2", "3"}},
			{ID: "tags", Type: model.FieldTypeCheckbox, Label: "Tags", Options: []string{"go", "web"}},
			{ID: "birthday", Type: model.FieldTypeDate, Label: "Birthday"},
		},
	}
}

func TestRender_ControlPerFieldType(t *testing.T) {
	html := renderForm(t, sampleForm(), render.RenderOptions{})

	for _, want := range []string{
		`<input type="text" id="name" name="name"`,
		`<textarea id="bio" name="bio"`,
		`<select id="rating" name="rating"`,
		`<input type="checkbox" name="tags" value="go"`,
		`<input type="checkbox" name="tags" value="web"`,
		`<input type="date" id="birthday" name="birthday"`,
	} {
		if !strings.Contains(html, want) {
			t.Errorf("missing control markup %q", want)
		}
	}
}

func TestRender_RequiredMarker(t *testing.T) {
	html := renderForm(t, sampleForm(), render.RenderOptions{})

	if !strings.Contains(html, `<span class="required-mark" aria-hidden="true">*</span>`) {
		t.Error("required field missing marker")
	}
	if !strings.Contains(html, ` required>`) {
		t.Error("required attribute not emitted")
	}
}

func TestRender_ValuesAndErrors(t *testing.T) {
	html := renderForm(t, sampleForm(), render.RenderOptions{
		Values: map[string]any{
			"name":   "Ann",
			"rating": "2",
			"tags":   []string{"web"},
		},
		Errors: map[string]string{
			"bio": validation.MsgRequired,
		},
	})

	if !strings.Contains(html, `value="Ann"`) {
		t.Error("text value not pre-filled")
	}
	if !strings.Contains(html, `<option value="2" selected>`) {
		t.Error("dropdown selection not applied")
	}
	if !strings.Contains(html, `value="web" checked`) {
		t.Error("checkbox selection not applied")
	}
	if strings.Contains(html, `value="go" checked`) {
		t.Error("unchecked option marked checked")
	}
	if !strings.Contains(html, `<p class="field-error" role="alert">`+validation.MsgRequired+`</p>`) {
		t.Error("validation error not rendered")
	}
}

func TestRender_StepFiltering(t *testing.T) {
	form := model.Form{
		ID: "wizard",
		Fields: []model.Field{
			{ID: "a", Type: model.FieldTypeText, Label: "First"},
			{ID: "b", Type: model.FieldTypeText, Label: "Second", Step: 2},
		},
	}

	html := renderForm(t, form, render.RenderOptions{Step: 2})
	if strings.Contains(html, `name="a"`) {
		t.Error("step filter leaked another step's field")
	}
	if !strings.Contains(html, `name="b"`) {
		t.Error("requested step's field missing")
	}
	if !strings.Contains(html, `<legend>Step 2</legend>`) {
		t.Error("step legend missing for multi-step form")
	}

	// A single-step form renders without legends.
	single := renderForm(t, sampleForm(), render.RenderOptions{})
	if strings.Contains(single, "<legend>") {
		t.Error("single-step form should not show step legends")
	}
}

func TestRender_SanitizesDisplayStrings(t *testing.T) {
	form := model.Form{
		ID: "f",
		Fields: []model.Field{
			{ID: "a", Type: model.FieldTypeText, Label: `<script>alert("x")</script>Name`},
		},
	}

	html := renderForm(t, form, render.RenderOptions{
		Values: map[string]any{"a": `<img src=x onerror=alert(1)>hello`},
	})
	if strings.Contains(html, "<script>") || strings.Contains(html, "<img") {
		t.Fatal("markup in display strings not stripped")
	}
	if !strings.Contains(html, "Name") || !strings.Contains(html, "hello") {
		t.Fatal("sanitizing removed legitimate text")
	}
}

func TestRender_ThemeCSS(t *testing.T) {
	themes, err := render.BuiltinThemes()
	if err != nil {
		t.Fatalf("BuiltinThemes: %v", err)
	}
	sel, err := themes.Select("dark", "")
	if err != nil {
		t.Fatalf("Select: %v", err)
	}

	html := renderForm(t, sampleForm(), render.RenderOptions{
		Theme: render.ConfigFromSelection(sel),
	})
	if !strings.Contains(html, `data-theme="dark"`) {
		t.Error("theme name not applied to document")
	}
	if !strings.Contains(html, "--bg:#111827;") {
		t.Error("theme css vars not emitted")
	}
	if !strings.Contains(html, `href="/assets/themes/dark/theme.css"`) {
		t.Error("theme stylesheet link missing")
	}
}
