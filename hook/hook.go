// Package hook implements the Hook dispatcher from spec §4.8: inline,
// executable, and http hook kinds sharing one (state', result) contract,
// cancellable via the request's context deadline (spec §5).
package hook

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/oes-interview/engine/common/logger"
	"github.com/oes-interview/engine/state"
	"github.com/oes-interview/engine/step"
)

// wireState/wireResult are the JSON shapes exchanged with executable and
// http hooks (spec §4.8: "state is serialized as a JSON document",
// "parse as {state, result}").
type wireState struct {
	SubmissionID      string         `json:"submission_id"`
	InterviewID       string         `json:"interview_id"`
	InterviewVersion  string         `json:"interview_version"`
	ExpirationDate    time.Time      `json:"expiration_date"`
	TargetURL         string         `json:"target_url"`
	Complete          bool           `json:"complete"`
	Context           map[string]any `json:"context"`
	AnsweredQuestions []string       `json:"answered_question_ids"`
	QuestionID        string         `json:"question_id,omitempty"`
	Data              map[string]any `json:"data"`
}

type wireEnvelope struct {
	State  wireState      `json:"state"`
	Result *wireHookResult `json:"result,omitempty"`
}

// wireHookResult mirrors step.Result for the subset a hook may return: a
// bare status, or nothing (meaning not_changed).
type wireHookResult struct {
	Status string `json:"status,omitempty"` // "changed" | "not_changed"
}

func toWire(s *state.InterviewState) wireState {
	ids := make([]string, 0, len(s.AnsweredQuestions))
	for id := range s.AnsweredQuestions {
		ids = append(ids, id)
	}
	return wireState{
		SubmissionID:      s.SubmissionID,
		InterviewID:       s.InterviewID,
		InterviewVersion:  s.InterviewVersion,
		ExpirationDate:    s.ExpirationDate,
		TargetURL:         s.TargetURL,
		Complete:          s.Complete,
		Context:           s.Context,
		AnsweredQuestions: ids,
		QuestionID:        s.QuestionID,
		Data:              s.Data,
	}
}

func fromWire(w wireState) *state.InterviewState {
	answered := make(map[string]bool, len(w.AnsweredQuestions))
	for _, id := range w.AnsweredQuestions {
		answered[id] = true
	}
	return &state.InterviewState{
		SubmissionID:      w.SubmissionID,
		InterviewID:       w.InterviewID,
		InterviewVersion:  w.InterviewVersion,
		ExpirationDate:    w.ExpirationDate,
		TargetURL:         w.TargetURL,
		Complete:          w.Complete,
		Context:           w.Context,
		AnsweredQuestions: answered,
		QuestionID:        w.QuestionID,
		Data:              w.Data,
	}
}

// InlineFunc is a named in-process hook implementation, looked up by its
// "module:name" reference (spec §4.8).
type InlineFunc func(ctx context.Context, s *state.InterviewState) (*state.InterviewState, step.Result, error)

// IdempotencyCache deduplicates hook invocations that were already
// applied for a given submission, using a Redis-backed SETNX so a
// retried request (e.g. a client retry after a network blip) doesn't
// re-run a side-effecting hook (not required by spec §4.8, but the
// dispatcher owns no retry logic of its own and this keeps at-most-once
// semantics when a host chooses to enable it).
type IdempotencyCache struct {
	Client *redis.Client
	TTL    time.Duration
}

// Claim returns true if this is the first time key has been seen within
// TTL. A nil cache always claims (no deduplication).
func (c *IdempotencyCache) Claim(ctx context.Context, key string) (bool, error) {
	if c == nil || c.Client == nil {
		return true, nil
	}
	ttl := c.TTL
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	ok, err := c.Client.SetNX(ctx, "hook-idempotency:"+key, 1, ttl).Result()
	if err != nil {
		return false, fmt.Errorf("idempotency cache: %w", err)
	}
	return ok, nil
}

// Dispatcher implements step.HookDispatcher across all three hook kinds.
type Dispatcher struct {
	Inline     map[string]InlineFunc
	Executable ExecutableRunner
	HTTP       HTTPCaller
	Cache      *IdempotencyCache
}

var _ step.HookDispatcher = (*Dispatcher)(nil)

func (d *Dispatcher) Dispatch(ctx context.Context, kind step.HookKind, target string, s *state.InterviewState) (*state.InterviewState, step.Result, error) {
	sc := logger.StartSpan(ctx, "hook.dispatch."+kind.String())
	defer sc.End()
	ctx = sc.Context()

	next, result, err := d.dispatch(ctx, kind, target, s)
	if err != nil {
		sc.RecordError(err)
	}
	return next, result, err
}

func (d *Dispatcher) dispatch(ctx context.Context, kind step.HookKind, target string, s *state.InterviewState) (*state.InterviewState, step.Result, error) {
	if d.Cache != nil {
		key := s.SubmissionID + ":" + target
		first, err := d.Cache.Claim(ctx, key)
		if err != nil {
			return nil, step.Result{}, err
		}
		if !first {
			return s, step.Result{Status: step.NotChanged}, nil
		}
	}

	switch kind {
	case step.HookInline:
		return d.dispatchInline(ctx, target, s)
	case step.HookExecutable:
		return d.dispatchExecutable(ctx, target, s)
	case step.HookHTTP:
		return d.dispatchHTTP(ctx, target, s)
	default:
		return nil, step.Result{}, fmt.Errorf("unknown hook kind: %v", kind)
	}
}

func (d *Dispatcher) dispatchInline(ctx context.Context, target string, s *state.InterviewState) (*state.InterviewState, step.Result, error) {
	fn, ok := d.Inline[target]
	if !ok {
		return nil, step.Result{}, fmt.Errorf("no inline hook registered: %q", target)
	}
	return fn(ctx, s)
}

// marshalForTransport is shared by the executable and http transports,
// both of which exchange the same {state, result} envelope shape over
// stdin/stdout or an HTTP body (spec §4.8).
func marshalForTransport(s *state.InterviewState) ([]byte, error) {
	return json.Marshal(wireEnvelope{State: toWire(s)})
}

func parseEnvelope(data []byte, fallback *state.InterviewState) (*state.InterviewState, step.Result, error) {
	if len(data) == 0 {
		return fallback, step.Result{Status: step.NotChanged}, nil
	}
	var env wireEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, step.Result{}, fmt.Errorf("invalid hook response: %w", err)
	}
	next := fromWire(env.State)
	result := step.Result{Status: step.NotChanged}
	if env.Result != nil && env.Result.Status == "changed" {
		result.Status = step.Changed
	}
	return next, result, nil
}
