// Package field implements the Field sum type from spec §4.3: typed
// parsing and validation for bool/date/email/number/select/text answers.
// Every kind shares the same two-stage contract — Coerce then Validate —
// so a Question can treat its fields uniformly while each kind enforces
// its own constraints.
package field

import (
	"fmt"

	"github.com/oes-interview/engine/location"
	"github.com/oes-interview/engine/template"
)

// ValidationError carries the offending field's name and a human-readable
// reason, per spec §4.3 ("a validation error is produced carrying the
// field name and reason").
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// AskField is the client-facing render view of a Field: only
// client-facing constraints travel here (spec §4.3, "the server-
// authoritative constraints remain in the field definition").
type AskField struct {
	Type         string   `json:"type"`
	Optional     bool     `json:"optional"`
	Label        string   `json:"label,omitempty"`
	Default      any      `json:"default,omitempty"`
	Min          any      `json:"min,omitempty"`
	Max          any      `json:"max,omitempty"`
	Integer      bool     `json:"integer,omitempty"`
	Options      []string `json:"options,omitempty"`
	RegexJS      string   `json:"regex_js,omitempty"`
	InputMode    string   `json:"input_mode,omitempty"`
	Autocomplete string   `json:"autocomplete,omitempty"`
}

// Field is a single typed input in a Question. set is the Location the
// coerced value is written to (nil for a field that only participates in
// require_value checks without persisting anywhere).
type Field interface {
	// Kind returns the field's discriminator tag ("bool", "date", ...).
	Kind() string
	// SetLocation returns the Location to write the coerced value to, or
	// nil if the field has no set target.
	SetLocation() location.Location
	// Coerce normalizes raw input (trim strings, empty->nil when
	// optional, "today" -> current date) without enforcing constraints.
	Coerce(raw any) (any, error)
	// Validate enforces the field's constraints against an
	// already-coerced value and returns the final stored value.
	Validate(name string, coerced any) (any, error)
	// AskField renders the client-facing view for ctx.
	AskField(ctx map[string]any) (AskField, error)
}

// CoerceThenValidate runs a Field's two-stage contract in order, as every
// caller (Question.parse_response) is expected to.
func CoerceThenValidate(f Field, name string, raw any) (any, error) {
	coerced, err := f.Coerce(raw)
	if err != nil {
		return nil, &ValidationError{Field: name, Reason: err.Error()}
	}
	v, err := f.Validate(name, coerced)
	if err != nil {
		if _, ok := err.(*ValidationError); ok {
			return nil, err
		}
		return nil, &ValidationError{Field: name, Reason: err.Error()}
	}
	return v, nil
}

// renderLabel renders an optional label Template, returning "" for a nil
// Template.
func renderLabel(t *template.Template, ctx map[string]any) (string, error) {
	if t == nil {
		return "", nil
	}
	return t.Render(ctx)
}
