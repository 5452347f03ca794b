// Package step implements the Step sum type from spec §4.6: Set, Ask,
// Exit, Eval, Hook, and Block, plus Block flattening into a flat,
// declaration-ordered list of non-Block steps.
package step

import (
	"context"
	"fmt"

	"github.com/oes-interview/engine/bank"
	"github.com/oes-interview/engine/field"
	"github.com/oes-interview/engine/location"
	"github.com/oes-interview/engine/state"
	"github.com/oes-interview/engine/template"
)

func isUndefined(err error) bool {
	_, ok := err.(*location.UndefinedError)
	return ok
}

// ResultStatus is the non-terminal outcome of handling a step: either it
// changed state or it didn't (spec §4.6).
type ResultStatus int

const (
	NotChanged ResultStatus = iota
	Changed
)

// AskResult is produced by an Ask step once its question is selected.
type AskResult struct {
	Title       string
	Description string
	Fields      map[string]field.AskField
	Buttons     []AskButton
	QuestionID  string
}

// AskButton is the render view of a question.Button.
type AskButton struct {
	Label   string
	Primary bool
	Default bool
}

// ExitResult is produced by an Exit step.
type ExitResult struct {
	Title       string
	Description string
}

// Result is whatever handle() returns beyond a bare ResultStatus: nil
// means "use Status", otherwise it's an *AskResult or *ExitResult.
type Result struct {
	Status ResultStatus
	Ask    *AskResult
	Exit   *ExitResult
}

func changed() Result    { return Result{Status: Changed} }
func notChanged() Result { return Result{Status: NotChanged} }

// HookDispatcher is the runtime service a Hook step delegates to (spec
// §4.8); it lives in the hook package to keep this package free of the
// inline/executable/http transport details.
type HookDispatcher interface {
	Dispatch(ctx context.Context, kind HookKind, target string, s *state.InterviewState) (*state.InterviewState, Result, error)
}

// Deps bundles the request-scoped collaborators a step needs to run:
// the question bank it was compiled against and the hook dispatcher for
// Hook steps. Both are safe to share across requests (spec §5).
type Deps struct {
	Bank  *bank.QuestionBank
	Hooks HookDispatcher
}

// Step is handled against an *state.InterviewState, returning the
// (possibly new) state and a Result. An UndefinedError must propagate out
// unhandled — that's the stepper's signal to insert an ask (spec §4.6).
type Step interface {
	Handle(ctx context.Context, s *state.InterviewState, deps Deps) (*state.InterviewState, Result, error)
	Guard() template.Condition
}

// Block is never handled directly; it is eliminated by Flatten before the
// stepper ever sees a list of steps.
type Block struct {
	Steps []StepOrBlock
	When  template.Condition
}

// StepOrBlock is either a Step or a Block, as they appear in the raw
// (unflattened) configuration tree.
type StepOrBlock interface{}

// Flatten performs the depth-first traversal from spec §4.6: each
// emitted step's When becomes the conjunction of every enclosing Block's
// When and the step's own When.
func Flatten(steps []StepOrBlock) ([]Step, error) {
	var out []Step
	for _, s := range steps {
		switch v := s.(type) {
		case Block:
			inner, err := flattenBlock(v)
			if err != nil {
				return nil, err
			}
			flat, err := Flatten(inner)
			if err != nil {
				return nil, err
			}
			out = append(out, flat...)
		case Step:
			out = append(out, v)
		default:
			return nil, fmt.Errorf("unknown step/block value: %T", s)
		}
	}
	return out, nil
}

func flattenBlock(b Block) ([]StepOrBlock, error) {
	out := make([]StepOrBlock, 0, len(b.Steps))
	for _, inner := range b.Steps {
		switch v := inner.(type) {
		case Block:
			out = append(out, Block{Steps: v.Steps, When: b.When.And(v.When)})
		case Step:
			out = append(out, withWhen(v, b.When.And(v.Guard())))
		default:
			return nil, fmt.Errorf("unknown step/block value: %T", inner)
		}
	}
	return out, nil
}

// withWhen returns a copy of s with its Guard replaced by combined,
// dispatching on the concrete step type since each is an immutable value
// type with its own When field.
func withWhen(s Step, combined template.Condition) Step {
	switch v := s.(type) {
	case Set:
		v.When = combined
		return v
	case Ask:
		v.When = combined
		return v
	case Exit:
		v.When = combined
		return v
	case Eval:
		v.When = combined
		return v
	case Hook:
		v.When = combined
		return v
	default:
		return s
	}
}
