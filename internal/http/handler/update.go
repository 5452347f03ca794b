// Package handler implements the /update endpoint from spec §6: decrypt
// a state token, apply a submitted response, drive the stepper, and
// re-encrypt the result.
package handler

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oes-interview/engine/field"
	"github.com/oes-interview/engine/internal/http/dto"
	"github.com/oes-interview/engine/interview"
	"github.com/oes-interview/engine/location"
	"github.com/oes-interview/engine/step"
	"github.com/oes-interview/engine/stepper"
	"github.com/oes-interview/engine/token"
)

// UpdateHandler serves POST /update against a loaded interview.Config.
type UpdateHandler struct {
	Config *interview.Config
	Key    *[token.KeySize]byte
	Hooks  step.HookDispatcher
	Now    func() time.Time
}

func (h *UpdateHandler) now() time.Time {
	if h.Now != nil {
		return h.Now()
	}
	return time.Now().UTC()
}

func (h *UpdateHandler) Update(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, dto.ErrorResponse{Error: "invalid request"})
		return
	}

	st, err := token.Decrypt(req.State, h.Key)
	if err != nil {
		c.JSON(http.StatusConflict, dto.ErrorResponse{Error: "invalid or expired state"})
		return
	}

	iv := h.Config.Get(st.InterviewID)
	if iv == nil {
		c.JSON(http.StatusUnprocessableEntity, dto.ErrorResponse{Error: "interview not found"})
		return
	}

	if err := token.Validate(st, iv.Version, h.now()); err != nil {
		c.JSON(http.StatusConflict, dto.ErrorResponse{Error: "invalid or expired state"})
		return
	}

	deps := step.Deps{Bank: iv.Bank, Hooks: h.Hooks}
	resp := &stepper.Response{Fields: req.Responses, Button: req.Button}

	next, result, err := stepper.Advance(ctx, st, iv.Steps, deps, resp)
	if err != nil {
		h.handleAdvanceError(c, err)
		return
	}

	encoded, err := token.Encrypt(next, h.Key)
	if err != nil {
		slog.ErrorContext(ctx, "failed to encrypt interview state", "error", err)
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "internal error"})
		return
	}

	if result.Complete {
		c.JSON(http.StatusOK, dto.CompleteResponse{
			State:     encoded,
			TargetURL: next.TargetURL,
			Complete:  true,
		})
		return
	}

	var content any
	switch {
	case result.Ask != nil:
		content = dto.AskContent{
			Type:        "question",
			Title:       result.Ask.Title,
			Description: result.Ask.Description,
			Fields:      emptyFieldsIfNil(result.Ask.Fields),
			Buttons:     buttonsToDTO(result.Ask.Buttons),
		}
	case result.Exit != nil:
		content = dto.ExitContent{
			Type:        "exit",
			Title:       result.Exit.Title,
			Description: result.Exit.Description,
		}
	}

	c.JSON(http.StatusOK, dto.IncompleteResponse{
		State:     encoded,
		UpdateURL: absoluteUpdateURL(c),
		Content:   content,
	})
}

func (h *UpdateHandler) handleAdvanceError(c *gin.Context, err error) {
	var valErr *field.ValidationError
	var noQuestion *stepper.NoQuestionForLocationError
	var undefined *location.UndefinedError

	switch {
	case errors.Is(err, stepper.ErrComplete):
		c.JSON(http.StatusConflict, dto.ErrorResponse{Error: "interview is already complete"})
	case errors.As(err, &valErr):
		c.JSON(http.StatusUnprocessableEntity, dto.ErrorResponse{Error: valErr.Reason, Field: valErr.Field})
	case errors.As(err, &noQuestion):
		slog.ErrorContext(c.Request.Context(), "no question provides a required variable", "location", noQuestion.Location)
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "internal error"})
	case errors.As(err, &undefined):
		slog.ErrorContext(c.Request.Context(), "undefined variable escaped the stepper", "location", undefined.Location)
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "internal error"})
	default:
		slog.ErrorContext(c.Request.Context(), "hook or step failure", "error", err)
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "internal error"})
	}
}

func emptyFieldsIfNil(m map[string]field.AskField) map[string]field.AskField {
	if m == nil {
		return map[string]field.AskField{}
	}
	return m
}

func buttonsToDTO(buttons []step.AskButton) []dto.AskButton {
	if buttons == nil {
		return nil
	}
	out := make([]dto.AskButton, 0, len(buttons))
	for _, b := range buttons {
		out = append(out, dto.AskButton{Label: b.Label, Primary: b.Primary, Default: b.Default})
	}
	return out
}

func absoluteUpdateURL(c *gin.Context) string {
	scheme := "https"
	if c.Request.TLS == nil && c.GetHeader("X-Forwarded-Proto") != "https" {
		scheme = "http"
	}
	return fmt.Sprintf("%s://%s/update", scheme, c.Request.Host)
}
