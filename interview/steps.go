package interview

import (
	"fmt"

	"github.com/oes-interview/engine/location"
	"github.com/oes-interview/engine/step"
	"github.com/oes-interview/engine/template"
)

// rawStep mirrors one entry of a `steps:` list (spec §4.6, §6). Exactly
// one of Block/Set/Ask/Exit/Eval/Hook is expected to be set per entry.
type rawStep struct {
	When  []string   `yaml:"when"`
	Block []rawStep  `yaml:"block"`
	Set   *rawSet    `yaml:"set"`
	Ask   *string    `yaml:"ask"`
	Exit  *rawExit   `yaml:"exit"`
	Eval  []string   `yaml:"eval"`
	Hook  *rawHook   `yaml:"hook"`
}

type rawSet struct {
	Target    string `yaml:"target"`
	Value     any    `yaml:"value"`
	ValueExpr string `yaml:"value_expr"`
	Always    bool   `yaml:"always"`
}

type rawExit struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
}

type rawHook struct {
	Kind   string `yaml:"kind"`
	Target string `yaml:"target"`
}

func buildSteps(raws []rawStep) ([]step.StepOrBlock, error) {
	out := make([]step.StepOrBlock, 0, len(raws))
	for i, r := range raws {
		built, err := buildStep(r)
		if err != nil {
			return nil, fmt.Errorf("step %d: %w", i, err)
		}
		out = append(out, built)
	}
	return out, nil
}

func buildStep(r rawStep) (step.StepOrBlock, error) {
	when, err := template.ParseCondition(r.When...)
	if err != nil {
		return nil, fmt.Errorf("when: %w", err)
	}

	switch {
	case r.Block != nil:
		inner, err := buildSteps(r.Block)
		if err != nil {
			return nil, err
		}
		return step.Block{Steps: inner, When: when}, nil

	case r.Set != nil:
		target, err := location.Parse(r.Set.Target)
		if err != nil {
			return nil, fmt.Errorf("set target: %w", err)
		}
		value, err := buildValueOrExpr(r.Set.Value, r.Set.ValueExpr)
		if err != nil {
			return nil, err
		}
		return step.Set{Target: target, Value: value, Always: r.Set.Always, When: when}, nil

	case r.Ask != nil:
		return step.Ask{AskID: *r.Ask, When: when}, nil

	case r.Exit != nil:
		title, err := compileOptional(r.Exit.Title)
		if err != nil {
			return nil, err
		}
		description, err := compileOptional(r.Exit.Description)
		if err != nil {
			return nil, err
		}
		return step.Exit{Title: title, Description: description, When: when}, nil

	case r.Eval != nil:
		exprs := make([]step.ValueOrExpr, 0, len(r.Eval))
		for _, src := range r.Eval {
			e, err := template.Parse(src)
			if err != nil {
				return nil, fmt.Errorf("eval: %w", err)
			}
			exprs = append(exprs, step.ValueOrExpr{Expr: e})
		}
		return step.Eval{Exprs: exprs, When: when}, nil

	case r.Hook != nil:
		kind, err := hookKind(r.Hook.Kind)
		if err != nil {
			return nil, err
		}
		return step.Hook{Kind: kind, Target: r.Hook.Target, When: when}, nil

	default:
		return nil, fmt.Errorf("step has no recognized action")
	}
}

func buildValueOrExpr(literal any, expr string) (step.ValueOrExpr, error) {
	if expr != "" {
		e, err := template.Parse(expr)
		if err != nil {
			return step.ValueOrExpr{}, fmt.Errorf("value_expr: %w", err)
		}
		return step.ValueOrExpr{Expr: e}, nil
	}
	return step.ValueOrExpr{Literal: literal}, nil
}

func hookKind(s string) (step.HookKind, error) {
	switch s {
	case "inline":
		return step.HookInline, nil
	case "executable":
		return step.HookExecutable, nil
	case "http":
		return step.HookHTTP, nil
	default:
		return 0, fmt.Errorf("unknown hook kind: %q", s)
	}
}
