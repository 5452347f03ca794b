package step

import (
	"context"

	"github.com/oes-interview/engine/state"
	"github.com/oes-interview/engine/template"
)

// Eval evaluates each expression purely for its UndefinedError side
// effect: if everything resolves, the step never changes state (spec
// §4.6).
type Eval struct {
	Exprs []ValueOrExpr
	When  template.Condition
}

func (e Eval) Guard() template.Condition { return e.When }

func (e Eval) Handle(_ context.Context, st *state.InterviewState, _ Deps) (*state.InterviewState, Result, error) {
	ctx := st.TemplateContext()
	for _, v := range e.Exprs {
		if _, err := v.resolve(ctx); err != nil {
			return nil, Result{}, err
		}
	}
	return st, notChanged(), nil
}
