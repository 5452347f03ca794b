package field

import (
	"time"

	"github.com/oes-interview/engine/location"
	"github.com/oes-interview/engine/template"
)

const dateLayout = "2006-01-02"

// today is resolved fresh on every Coerce/bound-check call rather than
// cached, so a hook that spans midnight UTC sees "today" move forward
// like the source system does.
func today() time.Time {
	return time.Now().UTC().Truncate(24 * time.Hour)
}

// DateBound is either a literal calendar date or the "today" sentinel,
// resolved at evaluation time.
type DateBound struct {
	Today bool
	Value time.Time
}

func (b DateBound) resolve() time.Time {
	if b.Today {
		return today()
	}
	return b.Value
}

// DateField accepts an RFC-3339 date string or the sentinel "today".
type DateField struct {
	Set      location.Location
	Optional bool
	Default  *DateBound
	Label    *template.Template

	Min *DateBound
	Max *DateBound

	RequireValue        *DateBound
	RequireValueMessage string
}

func (f *DateField) Kind() string                  { return "date" }
func (f *DateField) SetLocation() location.Location { return f.Set }

func (f *DateField) Coerce(raw any) (any, error) {
	if raw == nil {
		return nil, nil
	}
	s, ok := raw.(string)
	if !ok {
		return nil, &ValidationError{Reason: "expected a date string"}
	}
	if s == "today" {
		return today(), nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return nil, &ValidationError{Reason: "not a valid date"}
	}
	return t, nil
}

func (f *DateField) Validate(name string, coerced any) (any, error) {
	if coerced == nil {
		if !f.Optional {
			return nil, &ValidationError{Field: name, Reason: "a value is required"}
		}
		return nil, nil
	}
	d := coerced.(time.Time)
	if f.Min != nil && d.Before(f.Min.resolve()) {
		return nil, &ValidationError{Field: name, Reason: "date is too early"}
	}
	if f.Max != nil && d.After(f.Max.resolve()) {
		return nil, &ValidationError{Field: name, Reason: "date is too late"}
	}
	if f.RequireValue != nil && !d.Equal(f.RequireValue.resolve()) {
		msg := f.RequireValueMessage
		if msg == "" {
			msg = "required"
		}
		return nil, &ValidationError{Field: name, Reason: msg}
	}
	return d, nil
}

func (f *DateField) AskField(ctx map[string]any) (AskField, error) {
	label, err := renderLabel(f.Label, ctx)
	if err != nil {
		return AskField{}, err
	}
	a := AskField{Type: "date", Optional: f.Optional, Label: label}
	if f.Min != nil {
		a.Min = f.Min.resolve().Format(dateLayout)
	}
	if f.Max != nil {
		a.Max = f.Max.resolve().Format(dateLayout)
	}
	if f.Default != nil {
		a.Default = f.Default.resolve().Format(dateLayout)
	}
	return a, nil
}
