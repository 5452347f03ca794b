package step

import (
	"context"
	"fmt"

	"github.com/oes-interview/engine/state"
	"github.com/oes-interview/engine/template"
)

// HookKind selects which of the three hook transports a Hook step uses
// (spec §4.8).
type HookKind int

const (
	HookInline HookKind = iota
	HookExecutable
	HookHTTP
)

func (k HookKind) String() string {
	switch k {
	case HookInline:
		return "inline"
	case HookExecutable:
		return "executable"
	case HookHTTP:
		return "http"
	default:
		return "unknown"
	}
}

// Hook delegates to the configured HookDispatcher. Target means different
// things per Kind: an inline hook's "module:name" reference, an
// executable's path, or an HTTP hook's URL.
type Hook struct {
	Kind   HookKind
	Target string
	When   template.Condition
}

func (h Hook) Guard() template.Condition { return h.When }

func (h Hook) Handle(ctx context.Context, st *state.InterviewState, deps Deps) (*state.InterviewState, Result, error) {
	if deps.Hooks == nil {
		return nil, Result{}, fmt.Errorf("no hook dispatcher configured for hook %q", h.Target)
	}
	return deps.Hooks.Dispatch(ctx, h.Kind, h.Target, st)
}
