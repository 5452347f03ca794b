package step

import (
	"context"

	"github.com/oes-interview/engine/state"
	"github.com/oes-interview/engine/template"
)

// Exit ends the interview with a message; it never mutates state (spec
// §4.6).
type Exit struct {
	Title       *template.Template
	Description *template.Template
	When        template.Condition
}

func (e Exit) Guard() template.Condition { return e.When }

func (e Exit) Handle(_ context.Context, st *state.InterviewState, _ Deps) (*state.InterviewState, Result, error) {
	ctx := st.TemplateContext()
	title, err := e.Title.Render(ctx)
	if err != nil {
		return nil, Result{}, err
	}
	var description string
	if e.Description != nil {
		if description, err = e.Description.Render(ctx); err != nil {
			return nil, Result{}, err
		}
	}
	return st, Result{Status: NotChanged, Exit: &ExitResult{Title: title, Description: description}}, nil
}
