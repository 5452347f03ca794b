// Package dto holds the JSON request/response shapes of the /update
// endpoint (spec §6), kept separate from the engine's internal Result
// types so the wire format can evolve independently.
package dto

import "github.com/oes-interview/engine/field"

// UpdateRequest is the body of POST /update.
type UpdateRequest struct {
	State     string         `json:"state" binding:"required"`
	Responses map[string]any `json:"responses,omitempty"`
	Button    *int           `json:"button,omitempty"`
}

// AskButton is the render view of a question.Button in a response.
type AskButton struct {
	Label   string `json:"label"`
	Primary bool   `json:"primary,omitempty"`
	Default bool   `json:"default,omitempty"`
}

// AskContent is an AskResult rendered for the wire (spec §6).
type AskContent struct {
	Type        string                      `json:"type"`
	Title       string                      `json:"title,omitempty"`
	Description string                      `json:"description,omitempty"`
	Fields      map[string]field.AskField   `json:"fields"`
	Buttons     []AskButton                 `json:"buttons,omitempty"`
}

// ExitContent is an ExitResult rendered for the wire (spec §6).
type ExitContent struct {
	Type        string `json:"type"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}

// IncompleteResponse is returned while the interview is still in
// progress: a new token plus the absolute URL to post it back to.
type IncompleteResponse struct {
	State     string `json:"state"`
	UpdateURL string `json:"update_url"`
	Content   any    `json:"content"`
}

// CompleteResponse is returned once the interview finishes.
type CompleteResponse struct {
	State     string `json:"state"`
	TargetURL string `json:"target_url"`
	Complete  bool   `json:"complete"`
}

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}
