package field

import (
	"github.com/oes-interview/engine/location"
	"github.com/oes-interview/engine/template"
)

// BoolField accepts only the Go bool type: not 0/1, not "true"/"false"
// strings (spec §4.3, "not 0/1, not strings").
type BoolField struct {
	Set      location.Location
	Optional bool
	Default  *bool
	Label    *template.Template

	RequireValue        *bool
	RequireValueMessage string
}

func (f *BoolField) Kind() string                  { return "bool" }
func (f *BoolField) SetLocation() location.Location { return f.Set }

func (f *BoolField) Coerce(raw any) (any, error) {
	if raw == nil {
		return nil, nil
	}
	b, ok := raw.(bool)
	if !ok {
		return nil, &ValidationError{Reason: "expected a boolean"}
	}
	return b, nil
}

func (f *BoolField) Validate(name string, coerced any) (any, error) {
	if coerced == nil {
		if !f.Optional {
			return nil, &ValidationError{Field: name, Reason: "a value is required"}
		}
		return nil, nil
	}
	b := coerced.(bool)
	if f.RequireValue != nil && b != *f.RequireValue {
		msg := f.RequireValueMessage
		if msg == "" {
			msg = "required"
		}
		return nil, &ValidationError{Field: name, Reason: msg}
	}
	return b, nil
}

func (f *BoolField) AskField(ctx map[string]any) (AskField, error) {
	label, err := renderLabel(f.Label, ctx)
	if err != nil {
		return AskField{}, err
	}
	var def any
	if f.Default != nil {
		def = *f.Default
	}
	return AskField{Type: "bool", Optional: f.Optional, Label: label, Default: def}, nil
}
