package field

import (
	"github.com/oes-interview/engine/location"
	"github.com/oes-interview/engine/template"
)

// NumberField accepts int or float64. Integer forces an integral result;
// trailing fractional digits on an Integer field are rejected rather than
// truncated (spec §4.3's no-silent-cast rule).
type NumberField struct {
	Set      location.Location
	Optional bool
	Default  *float64
	Label    *template.Template

	Min     *float64
	Max     *float64
	Integer bool

	RequireValue        *float64
	RequireValueMessage string
}

func (f *NumberField) Kind() string                  { return "number" }
func (f *NumberField) SetLocation() location.Location { return f.Set }

func (f *NumberField) Coerce(raw any) (any, error) {
	if raw == nil {
		return nil, nil
	}
	switch v := raw.(type) {
	case int:
		return float64(v), nil
	case float64:
		return v, nil
	default:
		return nil, &ValidationError{Reason: "expected a number"}
	}
}

func (f *NumberField) Validate(name string, coerced any) (any, error) {
	if coerced == nil {
		if !f.Optional {
			return nil, &ValidationError{Field: name, Reason: "a value is required"}
		}
		return nil, nil
	}
	n := coerced.(float64)
	if f.Integer && n != float64(int64(n)) {
		return nil, &ValidationError{Field: name, Reason: "must be an integer"}
	}
	if f.Min != nil && n < *f.Min {
		return nil, &ValidationError{Field: name, Reason: "value is too small"}
	}
	if f.Max != nil && n > *f.Max {
		return nil, &ValidationError{Field: name, Reason: "value is too large"}
	}
	if f.RequireValue != nil && n != *f.RequireValue {
		msg := f.RequireValueMessage
		if msg == "" {
			msg = "required"
		}
		return nil, &ValidationError{Field: name, Reason: msg}
	}
	if f.Integer {
		return int64(n), nil
	}
	return n, nil
}

func (f *NumberField) AskField(ctx map[string]any) (AskField, error) {
	label, err := renderLabel(f.Label, ctx)
	if err != nil {
		return AskField{}, err
	}
	a := AskField{Type: "number", Optional: f.Optional, Label: label, Integer: f.Integer}
	if f.Min != nil {
		a.Min = *f.Min
	}
	if f.Max != nil {
		a.Max = *f.Max
	}
	if f.Default != nil {
		a.Default = *f.Default
	}
	return a, nil
}
