package step

import (
	"context"
	"fmt"

	"github.com/oes-interview/engine/question"
	"github.com/oes-interview/engine/state"
	"github.com/oes-interview/engine/template"
)

// Ask references a question by id. Handle is a no-op once AskID has
// already been answered (spec §4.6); otherwise it renders the question
// and records it.
type Ask struct {
	AskID string
	When  template.Condition
}

func (a Ask) Guard() template.Condition { return a.When }

func (a Ask) Handle(_ context.Context, st *state.InterviewState, deps Deps) (*state.InterviewState, Result, error) {
	if st.AnsweredQuestions[a.AskID] {
		return st, notChanged(), nil
	}
	q := deps.Bank.ByID(a.AskID)
	if q == nil {
		return nil, Result{}, fmt.Errorf("question id not found: %q", a.AskID)
	}
	ask, err := RenderAsk(q, st.TemplateContext())
	if err != nil {
		return nil, Result{}, err
	}
	ask.QuestionID = a.AskID

	next := st.Clone()
	next.QuestionID = a.AskID
	next.AnsweredQuestions[a.AskID] = true
	return next, Result{Status: Changed, Ask: ask}, nil
}

// RenderAsk builds the AskResult view for a question under ctx, used both
// by Ask.Handle and by the stepper's recursive_ask (spec §4.7 step 2-3).
func RenderAsk(q *question.Question, ctx map[string]any) (*AskResult, error) {
	var title, description string
	var err error
	if q.Title != nil {
		if title, err = q.Title.Render(ctx); err != nil {
			return nil, err
		}
	}
	if q.Description != nil {
		if description, err = q.Description.Render(ctx); err != nil {
			return nil, err
		}
	}
	fields, err := q.AskFields(ctx)
	if err != nil {
		return nil, err
	}
	var buttons []AskButton
	for _, b := range q.Buttons {
		label := ""
		if b.Label != nil {
			if label, err = b.Label.Render(ctx); err != nil {
				return nil, err
			}
		}
		buttons = append(buttons, AskButton{Label: label, Primary: b.Primary, Default: b.Default})
	}
	return &AskResult{Title: title, Description: description, Fields: fields, Buttons: buttons}, nil
}
