// Package validation evaluates a field's constraint attributes against a
// candidate value. Validate is pure: the same (field, value) pair always
// yields the same message and nothing is mutated, so renderers can call it on
// every change.
package validation

import (
	"fmt"
	"regexp"

	"github.com/goliatone/go-formbuilder/pkg/model"
)

const (
	// MsgRequired is returned when a required field is empty or absent.
	MsgRequired = "This field is required"
	// MsgInvalidFormat is returned when a value does not match the field's
	// pattern over its full length.
	MsgInvalidFormat = "Invalid format"
)

// PatternError reports a field whose pattern attribute is not a valid regular
// expression. It is a configuration problem, not a user-input problem, and is
// surfaced when the field is created or edited rather than at fill time.
type PatternError struct {
	FieldID string
	Pattern string
	Err     error
}

func (e *PatternError) Error() string {
	return fmt.Sprintf("validation: field %q pattern %q: %v", e.FieldID, e.Pattern, e.Err)
}

func (e *PatternError) Unwrap() error {
	return e.Err
}

// CheckField verifies the field's constraint configuration; today that means
// compiling its pattern. A nil return means the field is safe to store.
func CheckField(field model.Field) error {
	if field.Pattern == "" {
		return nil
	}
	if _, err := regexp.Compile(field.Pattern); err != nil {
		return &PatternError{FieldID: field.ID, Pattern: field.Pattern, Err: err}
	}
	return nil
}

// Validate evaluates value against the field's constraints and returns an
// error message, or "" when the value passes. Rules apply in a fixed order
// with the first failure winning: required, then minLength, then maxLength,
// then pattern. Length and pattern rules only fire for non-empty values.
//
// value may be a string, an ordered []string (checkbox selections), or nil.
func Validate(field model.Field, value any) string {
	text, list, isList := coerce(value)

	if field.Required && isEmpty(text, list, isList) {
		return MsgRequired
	}
	if isEmpty(text, list, isList) {
		return ""
	}

	length := len(text)
	if isList {
		length = len(list)
	}
	if field.MinLength > 0 && length < field.MinLength {
		return fmt.Sprintf("Minimum length is %d characters", field.MinLength)
	}
	if field.MaxLength > 0 && length > field.MaxLength {
		return fmt.Sprintf("Maximum length is %d characters", field.MaxLength)
	}

	if field.Pattern != "" && !isList {
		re, err := regexp.Compile(fullMatch(field.Pattern))
		if err != nil {
			// A malformed pattern is rejected when the field is edited; if one
			// slips through it must never validate clean.
			return MsgInvalidFormat
		}
		if !re.MatchString(text) {
			return MsgInvalidFormat
		}
	}
	return ""
}

func fullMatch(pattern string) string {
	return `\A(?:` + pattern + `)\z`
}

func coerce(value any) (text string, list []string, isList bool) {
	switch v := value.(type) {
	case nil:
		return "", nil, false
	case string:
		return v, nil, false
	case []string:
		return "", v, true
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			out = append(out, fmt.Sprint(item))
		}
		return "", out, true
	default:
		return fmt.Sprint(v), nil, false
	}
}

func isEmpty(text string, list []string, isList bool) bool {
	if isList {
		return len(list) == 0
	}
	return text == ""
}
