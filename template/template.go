package template

import (
	"fmt"
	"strings"
)

// Template is a compiled string with zero or more {{ expr }} interpolation
// segments (spec §4.2). Rendering concatenates literal segments verbatim
// and substitutes each expression's string form.
type Template struct {
	segments []segment
	raw      string
}

type segment struct {
	literal string // used when expr == nil
	expr    Expr
}

// Compile parses raw, splitting it into literal and {{ expr }} segments.
// An unterminated {{ is a compile-time error rather than passed through
// literally, so a malformed interview definition fails at load time
// instead of rendering garbage at request time (spec §7, Configuration
// errors). A "}}" with no opening {{ is ordinary literal text.
func Compile(raw string) (*Template, error) {
	var segs []segment
	rest := raw
	for {
		start := strings.Index(rest, "{{")
		if start == -1 {
			segs = append(segs, segment{literal: rest})
			break
		}
		if start > 0 {
			segs = append(segs, segment{literal: rest[:start]})
		}
		rest = rest[start+2:]
		end := strings.Index(rest, "}}")
		if end == -1 {
			return nil, fmt.Errorf("unterminated {{ in template %q", raw)
		}
		exprSrc := strings.TrimSpace(rest[:end])
		e, err := Parse(exprSrc)
		if err != nil {
			return nil, fmt.Errorf("invalid expression %q in template %q: %w", exprSrc, raw, err)
		}
		segs = append(segs, segment{expr: e})
		rest = rest[end+2:]
	}
	return &Template{segments: segs, raw: raw}, nil
}

// MustCompile is a convenience for static interview definitions loaded at
// startup, mirroring location.MustParse.
func MustCompile(raw string) *Template {
	t, err := Compile(raw)
	if err != nil {
		panic(err)
	}
	return t
}

// String returns the original uncompiled template text.
func (t *Template) String() string { return t.raw }

// Render evaluates every expression segment against ctx and concatenates
// the result. An UndefinedError from any segment aborts rendering and
// propagates unchanged, so the stepper can recognize which variable is
// missing (spec §4.7).
func (t *Template) Render(ctx map[string]any) (string, error) {
	var b strings.Builder
	for _, s := range t.segments {
		if s.expr == nil {
			b.WriteString(s.literal)
			continue
		}
		v, err := s.expr.Eval(ctx)
		if err != nil {
			return "", err
		}
		b.WriteString(formatValue(v))
	}
	return b.String(), nil
}

func formatValue(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case bool:
		if val {
			return "true"
		}
		return "false"
	default:
		return fmt.Sprintf("%v", val)
	}
}
