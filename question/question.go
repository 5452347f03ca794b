// Package question implements the Question type from spec §4.4: a set
// of Fields plus optional Buttons, producing the Location->value pairs a
// submitted response resolves to.
package question

import (
	"fmt"

	"github.com/oes-interview/engine/field"
	"github.com/oes-interview/engine/location"
	"github.com/oes-interview/engine/template"
)

// Button is one choice a question can offer alongside its fields.
type Button struct {
	Label   *template.Template
	Value   any
	Primary bool
	Default bool
}

// Question is immutable after construction; Provides is computed once
// and never changes across the question's lifetime (spec §4.4).
type Question struct {
	ID          string
	Title       *template.Template
	Description *template.Template
	Fields      []field.Field
	Buttons     []Button
	ButtonsSet  location.Location
	When        template.Condition

	provides map[string]location.Location
}

// New constructs a Question and computes its provides set once.
func New(id string, title, description *template.Template, fields []field.Field, buttons []Button, buttonsSet location.Location, when template.Condition) *Question {
	provides := map[string]location.Location{}
	for _, f := range fields {
		if loc := f.SetLocation(); loc != nil {
			provides[location.Key(loc)] = loc
		}
	}
	return &Question{
		ID:          id,
		Title:       title,
		Description: description,
		Fields:      fields,
		Buttons:     buttons,
		ButtonsSet:  buttonsSet,
		When:        when,
		provides:    provides,
	}
}

// Provides returns the set of Locations this question can populate.
func (q *Question) Provides() map[string]location.Location {
	return q.provides
}

// fieldName returns the field_i name used in both the request body shape
// and the AskResult's fields map (spec §4.4).
func fieldName(i int) string { return fmt.Sprintf("field_%d", i) }

// AskFields renders the client-facing view for every field.
func (q *Question) AskFields(ctx map[string]any) (map[string]field.AskField, error) {
	out := make(map[string]field.AskField, len(q.Fields))
	for i, f := range q.Fields {
		af, err := f.AskField(ctx)
		if err != nil {
			return nil, err
		}
		out[fieldName(i)] = af
	}
	return out, nil
}

// ParseResponseFields structures responses through the per-field
// field_0..field_{n-1} shape, coerces and validates each, and returns the
// Location->value pairs for fields with a set target (spec §4.4 step 1-2).
func (q *Question) ParseResponseFields(responses map[string]any) (map[location.Location]any, error) {
	if responses == nil {
		responses = map[string]any{}
	}
	out := map[location.Location]any{}
	for i, f := range q.Fields {
		name := fieldName(i)
		raw, present := responses[name]
		if !present {
			raw = nil
		}
		v, err := field.CoerceThenValidate(f, name, raw)
		if err != nil {
			return nil, err
		}
		if loc := f.SetLocation(); loc != nil {
			out[loc] = v
		}
	}
	return out, nil
}

// ParseButtonValue validates a submitted button index against Buttons,
// returning the Location/value pair to record if ButtonsSet is set
// (spec §4.4 step 3-4).
func (q *Question) ParseButtonValue(button *int) (location.Location, any, error) {
	if button == nil {
		if q.Buttons != nil {
			return nil, nil, &field.ValidationError{Field: "button", Reason: "a button selection is required"}
		}
		return nil, nil, nil
	}
	if q.Buttons == nil {
		// spec §4.4: "If buttons is undefined: ignore any submitted button."
		return nil, nil, nil
	}
	idx := *button
	if idx < 0 || idx >= len(q.Buttons) {
		return nil, nil, &field.ValidationError{Field: "button", Reason: "invalid button value"}
	}
	if q.ButtonsSet == nil {
		return nil, nil, nil
	}
	return q.ButtonsSet, q.Buttons[idx].Value, nil
}

// ParseResponse combines ParseResponseFields and ParseButtonValue into
// the complete Location->value map for one submission (spec §4.4).
func (q *Question) ParseResponse(responses map[string]any, button *int) (map[location.Location]any, error) {
	out, err := q.ParseResponseFields(responses)
	if err != nil {
		return nil, err
	}
	btnLoc, btnVal, err := q.ParseButtonValue(button)
	if err != nil {
		return nil, err
	}
	if btnLoc != nil {
		out[btnLoc] = btnVal
	}
	return out, nil
}
