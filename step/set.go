package step

import (
	"context"

	"github.com/oes-interview/engine/location"
	"github.com/oes-interview/engine/state"
	"github.com/oes-interview/engine/template"
)

// Set assigns Value at the Location Target unless it already evaluates
// and Always is false (spec §4.6).
type Set struct {
	Target Location
	Value  ValueOrExpr
	Always bool
	When   template.Condition
}

// Location is a thin alias kept local to this package so callers building
// a configuration tree don't need to import the location package just to
// wire up a Set step.
type Location = location.Location

// ValueOrExpr is either a literal value or a template.Expr evaluated
// against the state's template context.
type ValueOrExpr struct {
	Literal any
	Expr    template.Expr
}

func (v ValueOrExpr) resolve(ctx map[string]any) (any, error) {
	if v.Expr != nil {
		return v.Expr.Eval(ctx)
	}
	return v.Literal, nil
}

func (s Set) Guard() template.Condition { return s.When }

func (s Set) Handle(_ context.Context, st *state.InterviewState, _ Deps) (*state.InterviewState, Result, error) {
	ctx := st.TemplateContext()
	if !s.Always {
		_, err := location.Evaluate(s.Target, ctx)
		switch {
		case err == nil:
			return st, notChanged(), nil
		case isUndefined(err):
			// fall through and assign a value
		default:
			return nil, Result{}, err
		}
	}
	value, err := s.Value.resolve(ctx)
	if err != nil {
		return nil, Result{}, err
	}
	next := st.Clone()
	if err := location.Assign(s.Target, value, next.Data); err != nil {
		return nil, Result{}, err
	}
	return next, changed(), nil
}
