package field

import (
	"sort"

	"github.com/oes-interview/engine/location"
	"github.com/oes-interview/engine/template"
)

// SelectOption pairs a stored Value with its rendered display label.
type SelectOption struct {
	Value any
	Label *template.Template
}

// SelectField accepts one index (Max==1) or a list of indices (Max>1),
// translates them to the option's declared Value, and enforces
// min<=count<=max with no duplicates (spec §4.3).
type SelectField struct {
	Set      location.Location
	Optional bool
	Default  any
	Label    *template.Template

	Min, Max int
	Options  []SelectOption

	RequireValue        any // int, or []any of ints when Max>1; matched after translation
	RequireValueMessage string
}

func (f *SelectField) Kind() string                  { return "select" }
func (f *SelectField) SetLocation() location.Location { return f.Set }

func (f *SelectField) optionValue(index int) (any, error) {
	if index < 0 || index >= len(f.Options) {
		return nil, &ValidationError{Reason: "not a valid option"}
	}
	return f.Options[index].Value, nil
}

// Coerce accepts either a single int (Max==1) or a []any of ints
// (Max>1), validates index range/duplicates, and translates to stored
// option values.
func (f *SelectField) Coerce(raw any) (any, error) {
	if raw == nil {
		return nil, nil
	}
	if f.Max <= 1 {
		idx, ok := asInt(raw)
		if !ok {
			return nil, &ValidationError{Reason: "expected an option index"}
		}
		v, err := f.optionValue(idx)
		if err != nil {
			return nil, err
		}
		return v, nil
	}

	list, ok := raw.([]any)
	if !ok {
		return nil, &ValidationError{Reason: "expected a list of option indices"}
	}
	indices := make([]int, 0, len(list))
	for _, item := range list {
		idx, ok := asInt(item)
		if !ok {
			return nil, &ValidationError{Reason: "expected option indices"}
		}
		indices = append(indices, idx)
	}
	sort.Ints(indices)
	seen := map[int]bool{}
	values := make([]any, 0, len(indices))
	for _, idx := range indices {
		if seen[idx] {
			return nil, &ValidationError{Reason: "duplicate option index"}
		}
		seen[idx] = true
		v, err := f.optionValue(idx)
		if err != nil {
			return nil, err
		}
		values = append(values, v)
	}
	return values, nil
}

func asInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case float64:
		if n == float64(int(n)) {
			return int(n), true
		}
	}
	return 0, false
}

func (f *SelectField) Validate(name string, coerced any) (any, error) {
	if coerced == nil {
		if f.Max <= 1 {
			if f.Min >= 1 && !f.Optional {
				return nil, &ValidationError{Field: name, Reason: "a value is required"}
			}
			return nil, nil
		}
	}
	if f.Max > 1 {
		values, _ := coerced.([]any)
		if len(values) < f.Min {
			return nil, &ValidationError{Field: name, Reason: "too few items selected"}
		}
		if len(values) > f.Max {
			return nil, &ValidationError{Field: name, Reason: "too many items selected"}
		}
		if f.RequireValue != nil {
			rawReq, ok := f.RequireValue.([]any)
			if !ok {
				return nil, &ValidationError{Field: name, Reason: "invalid required value configuration"}
			}
			reqIndices := make([]int, 0, len(rawReq))
			for _, item := range rawReq {
				idx, ok := asInt(item)
				if !ok {
					return nil, &ValidationError{Field: name, Reason: "invalid required value configuration"}
				}
				reqIndices = append(reqIndices, idx)
			}
			sort.Ints(reqIndices)
			req := make([]any, 0, len(reqIndices))
			for _, idx := range reqIndices {
				v, err := f.optionValue(idx)
				if err != nil {
					return nil, &ValidationError{Field: name, Reason: "invalid required value configuration"}
				}
				req = append(req, v)
			}
			if !sameValues(values, req) {
				return nil, &ValidationError{Field: name, Reason: requireMsg(f.RequireValueMessage)}
			}
		}
		return values, nil
	}

	if f.RequireValue != nil && coerced != nil {
		reqIdx, _ := asInt(f.RequireValue)
		reqValue, err := f.optionValue(reqIdx)
		if err == nil && !valueEqual(coerced, reqValue) {
			return nil, &ValidationError{Field: name, Reason: requireMsg(f.RequireValueMessage)}
		}
	}
	return coerced, nil
}

func requireMsg(msg string) string {
	if msg == "" {
		return "required"
	}
	return msg
}

func valueEqual(a, b any) bool {
	return a == b
}

func sameValues(a, b []any) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !valueEqual(a[i], b[i]) {
			return false
		}
	}
	return true
}

func (f *SelectField) AskField(ctx map[string]any) (AskField, error) {
	label, err := renderLabel(f.Label, ctx)
	if err != nil {
		return AskField{}, err
	}
	opts := make([]string, 0, len(f.Options))
	for _, o := range f.Options {
		l, err := renderLabel(o.Label, ctx)
		if err != nil {
			return AskField{}, err
		}
		opts = append(opts, l)
	}
	return AskField{
		Type:     "select",
		Optional: f.Optional,
		Label:    label,
		Min:      f.Min,
		Max:      f.Max,
		Options:  opts,
		Default:  f.Default,
	}, nil
}
