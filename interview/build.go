package interview

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/oes-interview/engine/field"
	"github.com/oes-interview/engine/location"
	"github.com/oes-interview/engine/question"
	"github.com/oes-interview/engine/step"
	"github.com/oes-interview/engine/template"
)

// rawQuestion is either an inline question definition or a plain string
// naming a YAML file of further questions to load, resolved relative to
// the file that references it (spec §6).
type rawQuestion struct {
	isPath bool
	path   string

	ID          string     `yaml:"id"`
	Title       string     `yaml:"title"`
	Description string     `yaml:"description"`
	When        []string   `yaml:"when"`
	Fields      []rawField `yaml:"fields"`
	Buttons     []rawButton `yaml:"buttons"`
	ButtonsSet  string     `yaml:"buttons_set"`
}

func (r *rawQuestion) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		r.isPath = true
		return value.Decode(&r.path)
	}
	type alias rawQuestion
	var a alias
	if err := value.Decode(&a); err != nil {
		return err
	}
	*r = rawQuestion(a)
	return nil
}

type rawOption struct {
	Label string `yaml:"label"`
	Value any    `yaml:"value"`
}

type rawButton struct {
	Label   string `yaml:"label"`
	Value   any    `yaml:"value"`
	Primary bool   `yaml:"primary"`
	Default bool   `yaml:"default"`
}

type rawField struct {
	Type     string `yaml:"type"`
	Set      string `yaml:"set"`
	Optional bool   `yaml:"optional"`
	Label    string `yaml:"label"`
	Default  any    `yaml:"default"`
	Min      any    `yaml:"min"`
	Max      any    `yaml:"max"`
	Integer  bool   `yaml:"integer"`

	Regex   string `yaml:"regex"`
	RegexJS string `yaml:"regex_js"`

	Options []rawOption `yaml:"options"`

	// CheckSuffix disables EmailField's public suffix check when set to
	// false; nil means "use the default list" (spec §9 Open Questions).
	CheckSuffix *bool `yaml:"check_suffix"`

	RequireValue        any    `yaml:"require_value"`
	RequireValueMessage string `yaml:"require_value_message"`

	InputMode    string `yaml:"input_mode"`
	Autocomplete string `yaml:"autocomplete"`
}

// buildQuestions loads every question in raws, following file-path
// entries relative to baseDir, and returns the flat list bank.New expects.
func buildQuestions(raws []rawQuestion, baseDir string) ([]*question.Question, error) {
	var out []*question.Question
	for _, rq := range raws {
		if rq.isPath {
			loaded, err := loadQuestionFile(filepath.Join(baseDir, rq.path))
			if err != nil {
				return nil, err
			}
			out = append(out, loaded...)
			continue
		}
		q, err := buildQuestion(rq)
		if err != nil {
			return nil, err
		}
		out = append(out, q)
	}
	return out, nil
}

func loadQuestionFile(path string) ([]*question.Question, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read question file %s: %w", path, err)
	}
	var raws []rawQuestion
	if err := yaml.Unmarshal(data, &raws); err != nil {
		return nil, fmt.Errorf("parse question file %s: %w", path, err)
	}
	return buildQuestions(raws, filepath.Dir(path))
}

func buildQuestion(rq rawQuestion) (*question.Question, error) {
	title, err := compileOptional(rq.Title)
	if err != nil {
		return nil, err
	}
	description, err := compileOptional(rq.Description)
	if err != nil {
		return nil, err
	}
	when, err := template.ParseCondition(rq.When...)
	if err != nil {
		return nil, fmt.Errorf("question %q: when: %w", rq.ID, err)
	}

	fields := make([]field.Field, 0, len(rq.Fields))
	for i, rf := range rq.Fields {
		f, err := buildField(rf)
		if err != nil {
			return nil, fmt.Errorf("question %q: field %d: %w", rq.ID, i, err)
		}
		fields = append(fields, f)
	}

	var buttons []question.Button
	for _, rb := range rq.Buttons {
		label, err := compileOptional(rb.Label)
		if err != nil {
			return nil, err
		}
		buttons = append(buttons, question.Button{Label: label, Value: rb.Value, Primary: rb.Primary, Default: rb.Default})
	}

	var buttonsSet location.Location
	if rq.ButtonsSet != "" {
		buttonsSet, err = location.Parse(rq.ButtonsSet)
		if err != nil {
			return nil, fmt.Errorf("question %q: buttons_set: %w", rq.ID, err)
		}
	}

	return question.New(rq.ID, title, description, fields, buttons, buttonsSet, when), nil
}

func compileOptional(raw string) (*template.Template, error) {
	if raw == "" {
		return nil, nil
	}
	return template.Compile(raw)
}

func setLocation(raw string) (location.Location, error) {
	if raw == "" {
		return nil, nil
	}
	return location.Parse(raw)
}

func buildField(rf rawField) (field.Field, error) {
	set, err := setLocation(rf.Set)
	if err != nil {
		return nil, fmt.Errorf("set: %w", err)
	}
	label, err := compileOptional(rf.Label)
	if err != nil {
		return nil, err
	}

	switch rf.Type {
	case "bool":
		var def, req *bool
		if rf.Default != nil {
			b, _ := rf.Default.(bool)
			def = &b
		}
		if rf.RequireValue != nil {
			b, _ := rf.RequireValue.(bool)
			req = &b
		}
		return &field.BoolField{
			Set: set, Optional: rf.Optional, Default: def, Label: label,
			RequireValue: req, RequireValueMessage: rf.RequireValueMessage,
		}, nil

	case "number":
		def, err := numPtr(rf.Default)
		if err != nil {
			return nil, err
		}
		min, err := numPtr(rf.Min)
		if err != nil {
			return nil, err
		}
		max, err := numPtr(rf.Max)
		if err != nil {
			return nil, err
		}
		req, err := numPtr(rf.RequireValue)
		if err != nil {
			return nil, err
		}
		return &field.NumberField{
			Set: set, Optional: rf.Optional, Default: def, Label: label,
			Min: min, Max: max, Integer: rf.Integer,
			RequireValue: req, RequireValueMessage: rf.RequireValueMessage,
		}, nil

	case "text":
		var def, req *string
		if rf.Default != nil {
			s, _ := rf.Default.(string)
			def = &s
		}
		if rf.RequireValue != nil {
			s, _ := rf.RequireValue.(string)
			req = &s
		}
		var re *regexp.Regexp
		if rf.Regex != "" {
			re, err = regexp.Compile(rf.Regex)
			if err != nil {
				return nil, fmt.Errorf("regex: %w", err)
			}
		}
		min, _ := intOf(rf.Min)
		max, _ := intOf(rf.Max)
		return &field.TextField{
			Set: set, Optional: rf.Optional, Default: def, Label: label,
			Min: min, Max: max, Regex: re, RegexJS: rf.RegexJS,
			RequireValue: req, RequireValueMessage: rf.RequireValueMessage,
		}, nil

	case "email":
		var def, req *string
		if rf.Default != nil {
			s, _ := rf.Default.(string)
			def = &s
		}
		if rf.RequireValue != nil {
			s, _ := rf.RequireValue.(string)
			req = &s
		}
		suffixes := field.DefaultPublicSuffixList
		if rf.CheckSuffix != nil && !*rf.CheckSuffix {
			suffixes = nil
		}
		return &field.EmailField{
			Set: set, Optional: rf.Optional, Default: def, Label: label,
			Suffixes: suffixes,
			RequireValue: req, RequireValueMessage: rf.RequireValueMessage,
		}, nil

	case "date":
		def, err := dateBoundPtr(rf.Default)
		if err != nil {
			return nil, err
		}
		min, err := dateBoundPtr(rf.Min)
		if err != nil {
			return nil, err
		}
		max, err := dateBoundPtr(rf.Max)
		if err != nil {
			return nil, err
		}
		req, err := dateBoundPtr(rf.RequireValue)
		if err != nil {
			return nil, err
		}
		return &field.DateField{
			Set: set, Optional: rf.Optional, Default: def, Label: label,
			Min: min, Max: max,
			RequireValue: req, RequireValueMessage: rf.RequireValueMessage,
		}, nil

	case "select":
		opts := make([]field.SelectOption, 0, len(rf.Options))
		for _, ro := range rf.Options {
			lbl, err := compileOptional(ro.Label)
			if err != nil {
				return nil, err
			}
			opts = append(opts, field.SelectOption{Value: ro.Value, Label: lbl})
		}
		min, _ := intOf(rf.Min)
		max, _ := intOf(rf.Max)
		if max == 0 {
			max = 1
		}
		return &field.SelectField{
			Set: set, Optional: rf.Optional, Default: rf.Default, Label: label,
			Min: min, Max: max, Options: opts,
			RequireValue: rf.RequireValue, RequireValueMessage: rf.RequireValueMessage,
		}, nil

	default:
		return nil, fmt.Errorf("unknown field type: %q", rf.Type)
	}
}

func numPtr(v any) (*float64, error) {
	if v == nil {
		return nil, nil
	}
	switch n := v.(type) {
	case int:
		f := float64(n)
		return &f, nil
	case float64:
		return &n, nil
	default:
		return nil, fmt.Errorf("expected a number, got %T", v)
	}
}

func intOf(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case float64:
		return int(n), true
	}
	return 0, false
}

func dateBoundPtr(v any) (*field.DateBound, error) {
	if v == nil {
		return nil, nil
	}
	s, ok := v.(string)
	if !ok {
		return nil, fmt.Errorf("expected a date string, got %T", v)
	}
	if s == "today" {
		return &field.DateBound{Today: true}, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return &field.DateBound{Value: t}, nil
}
