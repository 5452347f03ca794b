// Package stepper implements advance(), the core interview-progression
// algorithm from spec §4.7: applying a submitted response, scanning the
// flattened step list, and inserting questions on demand when a step
// needs an answer it doesn't have.
package stepper

import (
	"context"
	"fmt"

	"github.com/oes-interview/engine/location"
	"github.com/oes-interview/engine/question"
	"github.com/oes-interview/engine/state"
	"github.com/oes-interview/engine/step"
)

// ErrComplete is returned when Advance is called on a state that already
// finished the interview (spec §4.7 step 1).
var ErrComplete = fmt.Errorf("interview state is already complete")

// NoQuestionForLocationError means recursive_ask exhausted the bank
// without finding an unanswered, matching question that provides L
// (spec §4.7's recursive_ask step 1).
type NoQuestionForLocationError struct {
	Location location.Location
}

func (e *NoQuestionForLocationError) Error() string {
	return fmt.Sprintf("no question provides %s", e.Location)
}

// Completed is the terminal, non-question result of Advance.
type Completed struct{}

// Result is the outcome of one Advance call: exactly one of Ask, Exit, or
// Complete is set.
type Result struct {
	Ask      *step.AskResult
	Exit     *step.ExitResult
	Complete bool
}

// Response is the caller-submitted payload applied at the top of Advance
// when state.QuestionID is set (spec §4.7 step 2).
type Response struct {
	Fields map[string]any
	Button *int
}

// Advance runs one request's worth of interview progression.
func Advance(ctx context.Context, st *state.InterviewState, steps []step.Step, deps step.Deps, resp *Response) (*state.InterviewState, Result, error) {
	if st.Complete {
		return nil, Result{}, ErrComplete
	}

	cur := st
	if cur.QuestionID != "" {
		q := deps.Bank.ByID(cur.QuestionID)
		if q == nil {
			return nil, Result{}, fmt.Errorf("question id not found: %q", cur.QuestionID)
		}
		var fields map[string]any
		var button *int
		if resp != nil {
			fields = resp.Fields
			button = resp.Button
		}
		assignments, err := q.ParseResponse(fields, button)
		if err != nil {
			return nil, Result{}, err
		}
		next := cur.Clone()
		for loc, v := range assignments {
			if err := location.Assign(loc, v, next.Data); err != nil {
				return nil, Result{}, err
			}
		}
		next.QuestionID = ""
		cur = next
	}

	return scan(ctx, cur, steps, deps)
}

// scan repeatedly walks steps from the top, restarting on any change,
// until it finds a terminal result or runs the whole list with no
// changes (spec §4.7 steps 3-4).
func scan(ctx context.Context, cur *state.InterviewState, steps []step.Step, deps step.Deps) (*state.InterviewState, Result, error) {
	for {
		anyChanged := false
		for _, s := range steps {
			tmplCtx := cur.TemplateContext()
			ok, err := s.Guard().Matches(tmplCtx)
			if err != nil {
				if undef, isU := err.(*location.UndefinedError); isU {
					return recursiveAsk(ctx, cur, steps, deps, undef.Location)
				}
				return nil, Result{}, err
			}
			if !ok {
				continue
			}

			next, result, err := s.Handle(ctx, cur, deps)
			if err != nil {
				if undef, isU := err.(*location.UndefinedError); isU {
					return recursiveAsk(ctx, cur, steps, deps, undef.Location)
				}
				return nil, Result{}, err
			}

			if result.Ask != nil {
				return next, Result{Ask: result.Ask}, nil
			}
			if result.Exit != nil {
				return next, Result{Exit: result.Exit}, nil
			}
			if result.Status == step.Changed {
				cur = next
				anyChanged = true
				break // restart scan from the top
			}
		}
		if !anyChanged {
			done := cur.Clone()
			done.Complete = true
			return done, Result{Complete: true}, nil
		}
	}
}

// recursiveAsk implements spec §4.7's recursive_ask(L): find an
// unanswered, matching question that provides L, render it, and recurse
// if rendering itself hits a further UndefinedError.
func recursiveAsk(ctx context.Context, cur *state.InterviewState, steps []step.Step, deps step.Deps, loc location.Location) (*state.InterviewState, Result, error) {
	tmplCtx := cur.TemplateContext()
	candidates, err := deps.Bank.Providing(loc, tmplCtx)
	if err != nil {
		return nil, Result{}, err
	}

	var chosen *question.Question
	for _, q := range candidates {
		if cur.AnsweredQuestions[q.ID] {
			continue
		}
		ok, err := q.When.Matches(tmplCtx)
		if err != nil {
			if undef, isU := err.(*location.UndefinedError); isU {
				return recursiveAsk(ctx, cur, steps, deps, undef.Location)
			}
			return nil, Result{}, err
		}
		if !ok {
			continue
		}
		chosen = q
		break
	}
	if chosen == nil {
		return nil, Result{}, &NoQuestionForLocationError{Location: loc}
	}

	ask, err := step.RenderAsk(chosen, tmplCtx)
	if err != nil {
		if undef, isU := err.(*location.UndefinedError); isU {
			return recursiveAsk(ctx, cur, steps, deps, undef.Location)
		}
		return nil, Result{}, err
	}
	ask.QuestionID = chosen.ID

	next := cur.Clone()
	next.AnsweredQuestions[chosen.ID] = true
	next.QuestionID = chosen.ID
	return next, Result{Ask: ask}, nil
}
