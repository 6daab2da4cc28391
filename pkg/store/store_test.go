package store

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formbuilder/pkg/model"
	"github.com/goliatone/go-formbuilder/pkg/validation"
)

func field(id string, label string) model.Field {
	return model.Field{ID: id, Type: model.FieldTypeText, Label: label}
}

func mustAdd(t *testing.T, s *Store, f model.Field) {
	t.Helper()
	if err := s.AddField(f); err != nil {
		t.Fatalf("AddField(%s): %v", f.ID, err)
	}
}

func TestAddField_Appends(t *testing.T) {
	s := New()
	mustAdd(t, s, field("a", "Name"))
	mustAdd(t, s, field("b", "Email"))

	fields := s.Fields()
	if len(fields) != 2 || fields[0].ID != "a" || fields[1].ID != "b" {
		t.Fatalf("unexpected field order: %+v", fields)
	}
}

func TestAddField_UndoRestoresExactList(t *testing.T) {
	s := New()
	mustAdd(t, s, field("a", "Name"))
	before := s.Fields()

	mustAdd(t, s, field("b", "Email"))
	s.Undo()

	if diff := cmp.Diff(before, s.Fields()); diff != "" {
		t.Fatalf("undo did not restore pre-add list (-want +got):\n%s", diff)
	}
}

func TestAddField_RejectsMalformedPattern(t *testing.T) {
	s := New()
	bad := field("a", "Name")
	bad.Pattern = `([`

	err := s.AddField(bad)
	var patternErr *validation.PatternError
	if !errors.As(err, &patternErr) {
		t.Fatalf("expected *validation.PatternError, got %v", err)
	}
	if len(s.Fields()) != 0 {
		t.Fatalf("rejected field must not be stored")
	}
	if s.Snapshot().HistoryDepth != 0 {
		t.Fatalf("rejected mutation must not push history")
	}
}

func TestReorderFields_InverseMoveRestoresOrder(t *testing.T) {
	s := New()
	mustAdd(t, s, field("a", ""))
	mustAdd(t, s, field("b", ""))
	mustAdd(t, s, field("c", ""))
	original := s.Fields()

	s.ReorderFields(0, 2)
	if got := ids(s.Fields()); !cmp.Equal(got, []string{"b", "c", "a"}) {
		t.Fatalf("unexpected order after move: %v", got)
	}

	s.ReorderFields(2, 0)
	if diff := cmp.Diff(original, s.Fields()); diff != "" {
		t.Fatalf("inverse move did not restore order (-want +got):\n%s", diff)
	}
}

func TestReorderFields_OutOfRangeIsNoop(t *testing.T) {
	s := New()
	mustAdd(t, s, field("a", ""))
	mustAdd(t, s, field("b", ""))
	before := s.Snapshot()

	s.ReorderFields(-1, 1)
	s.ReorderFields(0, 2)
	s.ReorderFields(5, 0)

	after := s.Snapshot()
	if diff := cmp.Diff(before.Fields, after.Fields); diff != "" {
		t.Fatalf("out-of-range reorder changed fields (-want +got):\n%s", diff)
	}
	if after.HistoryDepth != before.HistoryDepth {
		t.Fatalf("out-of-range reorder pushed history")
	}
}

func TestUpdateField_TouchesOnlyTarget(t *testing.T) {
	s := New()
	mustAdd(t, s, field("a", "Name"))
	other := field("b", "Email")
	other.Placeholder = "you@example.com"
	mustAdd(t, s, other)

	label := "X"
	if err := s.UpdateField("a", FieldPatch{Label: &label}); err != nil {
		t.Fatalf("UpdateField: %v", err)
	}

	fields := s.Fields()
	if fields[0].Label != "X" {
		t.Fatalf("target label not updated: %+v", fields[0])
	}
	if fields[0].Placeholder != "" || fields[0].Required {
		t.Fatalf("other attributes of the target changed: %+v", fields[0])
	}
	if diff := cmp.Diff(other, fields[1]); diff != "" {
		t.Fatalf("untargeted field changed (-want +got):\n%s", diff)
	}
}

func TestUpdateField_UnknownIDIsNoop(t *testing.T) {
	s := New()
	mustAdd(t, s, field("a", "Name"))
	before := s.Snapshot()

	label := "X"
	if err := s.UpdateField("missing", FieldPatch{Label: &label}); err != nil {
		t.Fatalf("UpdateField on unknown id must not error, got %v", err)
	}

	after := s.Snapshot()
	if diff := cmp.Diff(before.Fields, after.Fields); diff != "" {
		t.Fatalf("unknown-id update changed fields (-want +got):\n%s", diff)
	}
	if after.HistoryDepth != before.HistoryDepth {
		t.Fatalf("unknown-id update pushed history")
	}
}

func TestUpdateField_RefreshesSelection(t *testing.T) {
	s := New()
	f := field("a", "Name")
	mustAdd(t, s, f)
	s.SetCurrentField(&f)

	label := "Full name"
	if err := s.UpdateField("a", FieldPatch{Label: &label}); err != nil {
		t.Fatalf("UpdateField: %v", err)
	}

	current := s.CurrentField()
	if current == nil || current.Label != "Full name" {
		t.Fatalf("selection not refreshed: %+v", current)
	}
}

func TestUpdateField_RejectsMalformedPattern(t *testing.T) {
	s := New()
	mustAdd(t, s, field("a", "Name"))
	before := s.Snapshot()

	bad := `([`
	if err := s.UpdateField("a", FieldPatch{Pattern: &bad}); err == nil {
		t.Fatalf("expected pattern error")
	}

	after := s.Snapshot()
	if diff := cmp.Diff(before.Fields, after.Fields); diff != "" {
		t.Fatalf("rejected update changed fields (-want +got):\n%s", diff)
	}
	if after.HistoryDepth != before.HistoryDepth {
		t.Fatalf("rejected update pushed history")
	}
}

func TestSetCurrentFieldAndStep_DoNotTouchHistory(t *testing.T) {
	s := New()
	f := field("a", "Name")
	mustAdd(t, s, f)
	depth := s.Snapshot().HistoryDepth

	s.SetCurrentField(&f)
	s.SetCurrentStep(2)
	s.SetCurrentField(nil)

	snap := s.Snapshot()
	if snap.HistoryDepth != depth {
		t.Fatalf("navigation pushed history")
	}
	if snap.CurrentStep != 2 {
		t.Fatalf("step not applied: %d", snap.CurrentStep)
	}
	if snap.CurrentField != nil {
		t.Fatalf("selection not cleared")
	}
}

func TestLoadTemplate_ReplacesAndResetsHistory(t *testing.T) {
	s := New()
	mustAdd(t, s, field("old", "Old"))

	tpl := model.Template{
		Name: "Contact Us",
		Fields: []model.Field{
			field("name", "Name"),
			field("email", "Email"),
		},
	}
	s.LoadTemplate(tpl)

	if diff := cmp.Diff(tpl.Fields, s.Fields()); diff != "" {
		t.Fatalf("template not loaded (-want +got):\n%s", diff)
	}

	// Undo after a template load is a no-op on the field list: the history
	// was reset to a single baseline holding the template fields.
	s.Undo()
	if diff := cmp.Diff(tpl.Fields, s.Fields()); diff != "" {
		t.Fatalf("undo past template load changed fields (-want +got):\n%s", diff)
	}
}

func TestUndo_EmptyHistoryIsNoop(t *testing.T) {
	s := New()
	s.Undo()
	if len(s.Fields()) != 0 {
		t.Fatalf("undo on empty store changed fields")
	}
}

func TestRedo_IsNoop(t *testing.T) {
	s := New()
	mustAdd(t, s, field("a", "Name"))
	before := s.Fields()

	s.Redo()

	if diff := cmp.Diff(before, s.Fields()); diff != "" {
		t.Fatalf("redo changed fields (-want +got):\n%s", diff)
	}
}

type draftRecorder struct {
	saved [][]model.Field
	err   error
}

func (d *draftRecorder) SaveDraft(fields []model.Field) error {
	d.saved = append(d.saved, fields)
	return d.err
}

func TestSaveForm_WritesDraft(t *testing.T) {
	draft := &draftRecorder{}
	s := New(WithDraftWriter(draft))
	mustAdd(t, s, field("a", "Name"))

	s.SaveForm()

	if len(draft.saved) != 1 {
		t.Fatalf("expected one draft write, got %d", len(draft.saved))
	}
	if diff := cmp.Diff(s.Fields(), draft.saved[0]); diff != "" {
		t.Fatalf("draft contents mismatch (-want +got):\n%s", diff)
	}
}

func TestSaveForm_FailureDoesNotCorruptState(t *testing.T) {
	var seen error
	draft := &draftRecorder{err: errors.New("disk full")}
	s := New(WithDraftWriter(draft), WithSaveErrorHandler(func(err error) { seen = err }))
	mustAdd(t, s, field("a", "Name"))
	before := s.Snapshot()

	s.SaveForm()

	if seen == nil {
		t.Fatalf("save error not reported")
	}
	after := s.Snapshot()
	if diff := cmp.Diff(before.Fields, after.Fields); diff != "" {
		t.Fatalf("persistence failure corrupted state (-want +got):\n%s", diff)
	}
	if after.HistoryDepth != before.HistoryDepth {
		t.Fatalf("persistence failure touched history")
	}
}

func TestEndToEnd_AddValidate(t *testing.T) {
	s := New()
	f := model.Field{ID: "a", Type: model.FieldTypeText, Label: "Name", Required: true}
	mustAdd(t, s, f)

	fields := s.Fields()
	if len(fields) != 1 || fields[0].ID != "a" {
		t.Fatalf("unexpected fields: %+v", fields)
	}
	if got := validation.Validate(fields[0], ""); got != validation.MsgRequired {
		t.Fatalf("empty value: got %q", got)
	}
	if got := validation.Validate(fields[0], "Bob"); got != "" {
		t.Fatalf("satisfying value: got %q", got)
	}
}

func ids(fields []model.Field) []string {
	out := make([]string, len(fields))
	for i, f := range fields {
		out[i] = f.ID
	}
	return out
}
