// Package bank implements the QuestionBank from spec §4.5: an index over
// a question list keyed by the Locations each question provides.
package bank

import (
	"log/slog"

	"github.com/oes-interview/engine/location"
	"github.com/oes-interview/engine/question"
)

// entry pairs a question with one of the raw (possibly variable-indexed)
// Locations it provides.
type entry struct {
	loc location.Location
	q   *question.Question
}

// QuestionBank is immutable after construction and safe to share across
// requests without locks (spec §5).
type QuestionBank struct {
	byID    map[string]*question.Question
	entries []entry // declaration order, preserved for deterministic ordering
}

// New builds a QuestionBank from a question list. Duplicate ids are
// logged and the last definition wins (spec §4.5).
func New(questions []*question.Question, logger *slog.Logger) *QuestionBank {
	if logger == nil {
		logger = slog.Default()
	}
	b := &QuestionBank{byID: map[string]*question.Question{}}
	for _, q := range questions {
		if prev, exists := b.byID[q.ID]; exists {
			logger.Warn("duplicate question id, last definition wins", "question_id", q.ID)
			kept := b.entries[:0]
			for _, e := range b.entries {
				if e.q != prev {
					kept = append(kept, e)
				}
			}
			b.entries = kept
		}
		b.byID[q.ID] = q
		for _, loc := range q.Provides() {
			b.entries = append(b.entries, entry{loc: loc, q: q})
		}
	}
	return b
}

// ByID looks up a question by its declared id.
func (b *QuestionBank) ByID(id string) *question.Question {
	return b.byID[id]
}

// Providing returns, in original declaration order, every question whose
// provides set contains the index-evaluated form of loc under ctx (spec
// §4.5). Each stored candidate Location is re-evaluated under the same
// ctx before comparison, since a provides entry may itself carry a
// variable index (e.g. items[i].name) that only resolves to a concrete
// path once ctx is known.
func (b *QuestionBank) Providing(loc location.Location, ctx map[string]any) ([]*question.Question, error) {
	target, err := location.EvaluateIndexes(loc, ctx)
	if err != nil {
		return nil, err
	}
	targetKey := location.Key(target)

	seen := map[string]bool{}
	var out []*question.Question
	for _, e := range b.entries {
		candidate, err := location.EvaluateIndexes(e.loc, ctx)
		if err != nil {
			// A candidate that can't be evaluated under the current
			// context (its own index depends on something not yet
			// answered) simply can't match this lookup.
			continue
		}
		if location.Key(candidate) != targetKey {
			continue
		}
		if seen[e.q.ID] {
			continue
		}
		seen[e.q.ID] = true
		out = append(out, e.q)
	}
	return out, nil
}
