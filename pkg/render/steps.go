package render

import (
	"sort"

	"github.com/goliatone/go-formbuilder/pkg/model"
	"github.com/goliatone/go-formbuilder/pkg/validation"
)

// Steps returns the distinct step numbers present in the field list, in
// ascending order. Fields without an explicit step count as step 1.
func Steps(fields []model.Field) []int {
	seen := make(map[int]bool)
	for _, f := range fields {
		seen[f.EffectiveStep()] = true
	}

	steps := make([]int, 0, len(seen))
	for step := range seen {
		steps = append(steps, step)
	}
	sort.Ints(steps)
	return steps
}

// FieldsForStep returns the fields belonging to the given step, in list
// order.
func FieldsForStep(fields []model.Field, step int) []model.Field {
	var out []model.Field
	for _, f := range fields {
		if f.EffectiveStep() == step {
			out = append(out, f)
		}
	}
	return out
}

// StepErrors validates the fields of one step against the entered
// values. The result maps field id to the first failing rule's message;
// an empty map means the step is clean and navigation may advance.
func StepErrors(fields []model.Field, step int, values map[string]any) map[string]string {
	errs := make(map[string]string)
	for _, f := range FieldsForStep(fields, step) {
		if msg := validation.Validate(f, values[f.ID]); msg != "" {
			errs[f.ID] = msg
		}
	}
	return errs
}

// FormErrors validates every field regardless of step. Used on final
// submission.
func FormErrors(fields []model.Field, values map[string]any) map[string]string {
	errs := make(map[string]string)
	for _, f := range fields {
		if msg := validation.Validate(f, values[f.ID]); msg != "" {
			errs[f.ID] = msg
		}
	}
	return errs
}
