package persist

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formbuilder/pkg/model"
)

func testForm() model.Form {
	return model.Form{
		ID: "f1",
		Fields: []model.Field{
			{ID: "name", Type: model.FieldTypeText, Label: "Name", Required: true},
			{ID: "tags", Type: model.FieldTypeCheckbox, Label: "Tags", Options: []string{"a", "b"}},
		},
	}
}

func TestGateway_SaveAndLoadForm(t *testing.T) {
	g := NewGateway(NewMemory())

	saved, err := g.SaveForm(testForm())
	if err != nil {
		t.Fatalf("SaveForm: %v", err)
	}

	loaded, err := g.LoadForm(saved.ID)
	if err != nil {
		t.Fatalf("LoadForm: %v", err)
	}
	if diff := cmp.Diff(saved, loaded); diff != "" {
		t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestGateway_SaveForm_GeneratesID(t *testing.T) {
	g := NewGateway(NewMemory())

	form := testForm()
	form.ID = ""
	saved, err := g.SaveForm(form)
	if err != nil {
		t.Fatalf("SaveForm: %v", err)
	}
	if saved.ID == "" {
		t.Fatal("expected a generated id")
	}
	if _, err := g.LoadForm(saved.ID); err != nil {
		t.Fatalf("LoadForm(%s): %v", saved.ID, err)
	}
}

func TestGateway_SaveForm_RejectsEmpty(t *testing.T) {
	g := NewGateway(NewMemory())
	if _, err := g.SaveForm(model.Form{ID: "f1"}); !errors.Is(err, ErrEmptyForm) {
		t.Fatalf("expected ErrEmptyForm, got %v", err)
	}
}

func TestGateway_LoadForm_NotFound(t *testing.T) {
	g := NewGateway(NewMemory())
	if _, err := g.LoadForm("missing"); !errors.Is(err, ErrFormNotFound) {
		t.Fatalf("expected ErrFormNotFound, got %v", err)
	}
}

func TestGateway_ListForms(t *testing.T) {
	g := NewGateway(NewMemory())

	a := testForm()
	a.ID = "a"
	b := testForm()
	b.ID = "b"
	for _, f := range []model.Form{b, a} {
		if _, err := g.SaveForm(f); err != nil {
			t.Fatalf("SaveForm(%s): %v", f.ID, err)
		}
	}

	forms, err := g.ListForms()
	if err != nil {
		t.Fatalf("ListForms: %v", err)
	}
	if len(forms) != 2 || forms[0].ID != "a" || forms[1].ID != "b" {
		t.Fatalf("unexpected listing: %+v", forms)
	}
}

func TestGateway_Submissions_AppendOnly(t *testing.T) {
	g := NewGateway(NewMemory())
	if _, err := g.SaveForm(testForm()); err != nil {
		t.Fatalf("SaveForm: %v", err)
	}

	if err := g.AppendSubmission("f1", map[string]any{"name": "Ann"}); err != nil {
		t.Fatalf("AppendSubmission: %v", err)
	}
	if err := g.AppendSubmission("f1", map[string]any{"name": "Bob", "tags": []string{"a"}}); err != nil {
		t.Fatalf("AppendSubmission: %v", err)
	}

	subs, err := g.Submissions("f1")
	if err != nil {
		t.Fatalf("Submissions: %v", err)
	}
	if len(subs) != 2 {
		t.Fatalf("expected 2 submissions, got %d", len(subs))
	}
	if subs[0].Values["name"] != "Ann" || subs[1].Values["name"] != "Bob" {
		t.Fatalf("submissions out of order: %+v", subs)
	}
	if subs[0].SubmittedAt.IsZero() {
		t.Fatal("submission timestamp not set")
	}
}

func TestGateway_AppendSubmission_UnknownForm(t *testing.T) {
	g := NewGateway(NewMemory())
	err := g.AppendSubmission("missing", map[string]any{"name": "Ann"})
	if !errors.Is(err, ErrFormNotFound) {
		t.Fatalf("expected ErrFormNotFound, got %v", err)
	}
}

func TestGateway_Submissions_NoneYet(t *testing.T) {
	g := NewGateway(NewMemory())
	subs, err := g.Submissions("f1")
	if err != nil || subs != nil {
		t.Fatalf("expected empty log, got %v, %v", subs, err)
	}
}

func TestGateway_Draft(t *testing.T) {
	g := NewGateway(NewMemory())

	if _, err := g.LoadDraft(); !errors.Is(err, ErrNoDraft) {
		t.Fatalf("expected ErrNoDraft, got %v", err)
	}

	fields := testForm().Fields
	if err := g.SaveDraft(fields); err != nil {
		t.Fatalf("SaveDraft: %v", err)
	}

	loaded, err := g.LoadDraft()
	if err != nil {
		t.Fatalf("LoadDraft: %v", err)
	}
	if diff := cmp.Diff(fields, loaded); diff != "" {
		t.Fatalf("draft round trip (-want +got):\n%s", diff)
	}

	// A second save replaces the first.
	if err := g.SaveDraft(fields[:1]); err != nil {
		t.Fatalf("SaveDraft: %v", err)
	}
	loaded, err = g.LoadDraft()
	if err != nil {
		t.Fatalf("LoadDraft: %v", err)
	}
	if len(loaded) != 1 {
		t.Fatalf("draft not replaced: %+v", loaded)
	}
}

func TestGateway_UserTemplates(t *testing.T) {
	g := NewGateway(NewMemory())

	templates, err := g.UserTemplates()
	if err != nil || templates != nil {
		t.Fatalf("expected empty template list, got %v, %v", templates, err)
	}

	tpl := model.Template{ID: "t1", Name: "Survey", Fields: testForm().Fields}
	if err := g.SaveUserTemplate(tpl); err != nil {
		t.Fatalf("SaveUserTemplate: %v", err)
	}
	if err := g.SaveUserTemplate(model.Template{ID: "t2", Name: "Other"}); err != nil {
		t.Fatalf("SaveUserTemplate: %v", err)
	}

	templates, err = g.UserTemplates()
	if err != nil {
		t.Fatalf("UserTemplates: %v", err)
	}
	if len(templates) != 2 || templates[0].ID != "t1" || templates[1].ID != "t2" {
		t.Fatalf("unexpected templates: %+v", templates)
	}
}

func TestGateway_Theme(t *testing.T) {
	g := NewGateway(NewMemory())

	theme, err := g.Theme()
	if err != nil || theme != "light" {
		t.Fatalf("default theme: got %q, %v", theme, err)
	}

	if err := g.SaveTheme("dark"); err != nil {
		t.Fatalf("SaveTheme: %v", err)
	}
	theme, err = g.Theme()
	if err != nil || theme != "dark" {
		t.Fatalf("after save: got %q, %v", theme, err)
	}

	if err := g.SaveTheme("sepia"); err == nil {
		t.Fatal("expected error for unknown theme")
	}
}

func TestGateway_CorruptRecord(t *testing.T) {
	mem := NewMemory()
	g := NewGateway(mem)

	if err := mem.Set("form:bad", []byte("{not json")); err != nil {
		t.Fatalf("Set: %v", err)
	}

	_, err := g.LoadForm("bad")
	var corrupt *CorruptRecordError
	if !errors.As(err, &corrupt) {
		t.Fatalf("expected *CorruptRecordError, got %v", err)
	}
	if corrupt.Key != "form:bad" {
		t.Fatalf("unexpected key: %q", corrupt.Key)
	}

	// The record stays in place for inspection.
	if _, err := mem.Get("form:bad"); err != nil {
		t.Fatalf("corrupt record was removed: %v", err)
	}
}

func TestGateway_DeleteForm(t *testing.T) {
	g := NewGateway(NewMemory())
	if _, err := g.SaveForm(testForm()); err != nil {
		t.Fatalf("SaveForm: %v", err)
	}
	if err := g.AppendSubmission("f1", map[string]any{"name": "Ann"}); err != nil {
		t.Fatalf("AppendSubmission: %v", err)
	}

	if err := g.DeleteForm("f1"); err != nil {
		t.Fatalf("DeleteForm: %v", err)
	}
	if _, err := g.LoadForm("f1"); !errors.Is(err, ErrFormNotFound) {
		t.Fatalf("form still present: %v", err)
	}
	subs, err := g.Submissions("f1")
	if err != nil || subs != nil {
		t.Fatalf("submissions still present: %v, %v", subs, err)
	}
}

func TestSQLiteStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "forms.db")
	store, err := NewSQLite(path)
	if err != nil {
		t.Fatalf("NewSQLite: %v", err)
	}
	defer store.Close()

	if _, err := store.Get("missing"); !errors.Is(err, ErrKeyNotFound) {
		t.Fatalf("expected ErrKeyNotFound, got %v", err)
	}

	if err := store.Set("form:a", []byte(`{"id":"a"}`)); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := store.Set("form:a", []byte(`{"id":"a2"}`)); err != nil {
		t.Fatalf("Set (overwrite): %v", err)
	}
	if err := store.Set("form:b", []byte(`{"id":"b"}`)); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := store.Set("theme", []byte("dark")); err != nil {
		t.Fatalf("Set: %v", err)
	}

	value, err := store.Get("form:a")
	if err != nil || string(value) != `{"id":"a2"}` {
		t.Fatalf("Get: got %q, %v", value, err)
	}

	keys, err := store.List("form:")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if diff := cmp.Diff([]string{"form:a", "form:b"}, keys); diff != "" {
		t.Fatalf("List (-want +got):\n%s", diff)
	}

	if err := store.Remove("form:a"); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if _, err := store.Get("form:a"); !errors.Is(err, ErrKeyNotFound) {
		t.Fatalf("expected ErrKeyNotFound after remove, got %v", err)
	}
}

func TestGatewayOnSQLite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "forms.db")
	store, err := NewSQLite(path)
	if err != nil {
		t.Fatalf("NewSQLite: %v", err)
	}
	defer store.Close()

	g := NewGateway(store)
	saved, err := g.SaveForm(testForm())
	if err != nil {
		t.Fatalf("SaveForm: %v", err)
	}
	loaded, err := g.LoadForm(saved.ID)
	if err != nil {
		t.Fatalf("LoadForm: %v", err)
	}
	if diff := cmp.Diff(saved, loaded); diff != "" {
		t.Fatalf("sqlite round trip (-want +got):\n%s", diff)
	}
}
