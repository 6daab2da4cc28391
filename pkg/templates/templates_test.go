package templates

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formbuilder/pkg/model"
)

type memSource struct {
	templates []model.Template
	saveErr   error
}

func (m *memSource) UserTemplates() ([]model.Template, error) {
	return m.templates, nil
}

func (m *memSource) SaveUserTemplate(tpl model.Template) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.templates = append(m.templates, tpl)
	return nil
}

func TestNewLibrary_ParsesBuiltins(t *testing.T) {
	lib, err := NewLibrary()
	if err != nil {
		t.Fatalf("NewLibrary: %v", err)
	}

	list, err := lib.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 builtins, got %d", len(list))
	}
	if list[0].Name != "Contact Us" || list[1].Name != "Feedback Form" {
		t.Fatalf("unexpected builtin names: %q, %q", list[0].Name, list[1].Name)
	}

	contact := list[0]
	if len(contact.Fields) != 3 {
		t.Fatalf("contact-us: expected 3 fields, got %d", len(contact.Fields))
	}
	msg := contact.Fields[2]
	if msg.Type != model.FieldTypeTextArea || !msg.Required || msg.MinLength != 10 {
		t.Fatalf("unexpected message field: %+v", msg)
	}

	rating := list[1].Fields[0]
	want := []string{"1", "2", "3", "4", "5"}
	if diff := cmp.Diff(want, rating.Options); diff != "" {
		t.Fatalf("rating options (-want +got):\n%s", diff)
	}
}

func TestList_FreshFieldIDsPerCall(t *testing.T) {
	lib, err := NewLibrary()
	if err != nil {
		t.Fatalf("NewLibrary: %v", err)
	}

	first, _ := lib.List()
	second, _ := lib.List()

	for i := range first[0].Fields {
		a, b := first[0].Fields[i].ID, second[0].Fields[i].ID
		if a == "" || a == b {
			t.Fatalf("field ids must be fresh per load: %q vs %q", a, b)
		}
	}
}

func TestList_MergesUserTemplatesAfterBuiltins(t *testing.T) {
	src := &memSource{templates: []model.Template{
		{ID: "u1", Name: "Survey", Fields: []model.Field{{ID: "f1", Type: model.FieldTypeText, Label: "Q1"}}},
	}}
	lib, err := NewLibrary(WithUserSource(src))
	if err != nil {
		t.Fatalf("NewLibrary: %v", err)
	}

	list, err := lib.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 3 {
		t.Fatalf("expected builtins + 1 user template, got %d", len(list))
	}
	if list[2].ID != "u1" {
		t.Fatalf("user template must come after builtins: %+v", list[2])
	}
}

func TestGet(t *testing.T) {
	src := &memSource{templates: []model.Template{{ID: "u1", Name: "Survey"}}}
	lib, err := NewLibrary(WithUserSource(src))
	if err != nil {
		t.Fatalf("NewLibrary: %v", err)
	}

	tpl, err := lib.Get("feedback")
	if err != nil {
		t.Fatalf("Get(feedback): %v", err)
	}
	if tpl.Name != "Feedback Form" {
		t.Fatalf("unexpected template: %+v", tpl)
	}

	if _, err := lib.Get("u1"); err != nil {
		t.Fatalf("Get(u1): %v", err)
	}

	if _, err := lib.Get("nope"); !errors.Is(err, ErrTemplateNotFound) {
		t.Fatalf("expected ErrTemplateNotFound, got %v", err)
	}
}

func TestSave(t *testing.T) {
	src := &memSource{}
	lib, err := NewLibrary(WithUserSource(src))
	if err != nil {
		t.Fatalf("NewLibrary: %v", err)
	}

	fields := []model.Field{{ID: "f1", Type: model.FieldTypeText, Label: "Name"}}
	tpl, err := lib.Save("My Form", fields)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if tpl.ID == "" || tpl.Name != "My Form" {
		t.Fatalf("unexpected saved template: %+v", tpl)
	}
	if len(src.templates) != 1 {
		t.Fatalf("template not persisted")
	}

	// Saved fields must not alias the caller's slice.
	fields[0].Label = "changed"
	if src.templates[0].Fields[0].Label != "Name" {
		t.Fatal("saved template aliases caller fields")
	}
}

func TestSave_RequiresName(t *testing.T) {
	lib, err := NewLibrary(WithUserSource(&memSource{}))
	if err != nil {
		t.Fatalf("NewLibrary: %v", err)
	}
	if _, err := lib.Save("   ", nil); err == nil {
		t.Fatal("expected error for blank name")
	}
}
