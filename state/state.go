// Package state defines InterviewState, the value threaded through every
// advance() call and the payload the token codec encrypts (spec §4.9).
package state

import "time"

// InterviewState is immutable by convention: every mutation in this repo
// produces a new value via Clone rather than mutating fields in place,
// matching the stepper's "deep-copy data, then assign" contract (spec
// §4.6).
type InterviewState struct {
	SubmissionID      string
	InterviewID       string
	InterviewVersion  string
	ExpirationDate    time.Time
	TargetURL         string
	Complete          bool
	Context           map[string]any
	AnsweredQuestions map[string]bool
	QuestionID        string // "" means no question is currently pending
	Data              map[string]any
}

// TemplateContext returns the combined view used when evaluating
// Templates/Conditions: Data merged with Context, Data taking precedence
// on key collision (spec §4.2 mirrors the source's `{**data, **context}`
// merge order, reversed here because Go map literals apply later writes
// last — Context is written first, then Data overwrites it).
func (s *InterviewState) TemplateContext() map[string]any {
	ctx := make(map[string]any, len(s.Context)+len(s.Data))
	for k, v := range s.Context {
		ctx[k] = v
	}
	for k, v := range s.Data {
		ctx[k] = v
	}
	return ctx
}

// Clone deep-copies Data, AnsweredQuestions, and Context so a step handler
// can mutate the copy freely while the caller's original state is
// untouched until the new state is actually returned (spec §4.6's
// "deep-copy state.data, assign at set, return state'").
func (s *InterviewState) Clone() *InterviewState {
	clone := *s
	clone.Data = deepCopyMap(s.Data)
	clone.Context = deepCopyMap(s.Context)
	clone.AnsweredQuestions = make(map[string]bool, len(s.AnsweredQuestions))
	for k, v := range s.AnsweredQuestions {
		clone.AnsweredQuestions[k] = v
	}
	return &clone
}

func deepCopyMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = deepCopyValue(v)
	}
	return out
}

func deepCopyValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		return deepCopyMap(val)
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = deepCopyValue(item)
		}
		return out
	default:
		return val
	}
}

// IsExpired reports whether now is at or past ExpirationDate (spec §4.9:
// "reject if now >= expiration_date").
func (s *InterviewState) IsExpired(now time.Time) bool {
	return !now.Before(s.ExpirationDate)
}

// IsCurrentVersion reports whether currentVersion matches the state's
// recorded interview version.
func (s *InterviewState) IsCurrentVersion(currentVersion string) bool {
	return s.InterviewVersion == currentVersion
}
