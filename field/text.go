package field

import (
	"regexp"
	"strings"

	"github.com/oes-interview/engine/location"
	"github.com/oes-interview/engine/template"
)

// TextField trims input and maps an empty, optional value to nil. Regex
// is enforced server-side; RegexJS is an opaque pattern that travels to
// clients and is never evaluated here (spec §4.3).
type TextField struct {
	Set      location.Location
	Optional bool
	Default  *string
	Label    *template.Template

	Min     int
	Max     int
	Regex   *regexp.Regexp
	RegexJS string

	RequireValue        *string
	RequireValueMessage string
}

func (f *TextField) Kind() string                  { return "text" }
func (f *TextField) SetLocation() location.Location { return f.Set }

func (f *TextField) Coerce(raw any) (any, error) {
	if raw == nil {
		return nil, nil
	}
	s, ok := raw.(string)
	if !ok {
		return nil, &ValidationError{Reason: "expected a string"}
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	return s, nil
}

func (f *TextField) Validate(name string, coerced any) (any, error) {
	if coerced == nil {
		if !f.Optional {
			return nil, &ValidationError{Field: name, Reason: "a value is required"}
		}
		return nil, nil
	}
	s := coerced.(string)
	if f.Min > 0 && len(s) < f.Min {
		return nil, &ValidationError{Field: name, Reason: "too short"}
	}
	if f.Max > 0 && len(s) > f.Max {
		return nil, &ValidationError{Field: name, Reason: "too long"}
	}
	if f.Regex != nil && !f.Regex.MatchString(s) {
		return nil, &ValidationError{Field: name, Reason: "does not match the required pattern"}
	}
	if f.RequireValue != nil && s != *f.RequireValue {
		msg := f.RequireValueMessage
		if msg == "" {
			msg = "required"
		}
		return nil, &ValidationError{Field: name, Reason: msg}
	}
	return s, nil
}

func (f *TextField) AskField(ctx map[string]any) (AskField, error) {
	label, err := renderLabel(f.Label, ctx)
	if err != nil {
		return AskField{}, err
	}
	a := AskField{Type: "text", Optional: f.Optional, Label: label, RegexJS: f.RegexJS}
	if f.Min > 0 {
		a.Min = f.Min
	}
	if f.Max > 0 {
		a.Max = f.Max
	}
	if f.Default != nil {
		a.Default = *f.Default
	}
	return a, nil
}
