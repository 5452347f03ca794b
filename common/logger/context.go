package logger

import "context"

type contextKey string

const logFieldsKey contextKey = "log_fields"

// LogFields contains structured fields automatically added to all logs within a context.
// Fields flow through context enrichment, enabling zero-touch logging where business
// context (submission_id, interview_id, etc.) is automatically included in all log statements.
type LogFields struct {
	SubmissionID     *string // Interview submission id (token subject)
	InterviewID      *string // Interview definition id
	InterviewVersion *string // Interview definition version
	QuestionID       *string // Question id currently being answered, if any
	StepIndex        *int    // Index into the flattened step list, if applicable
	Component        string  // Component name (OTel semantic convention style, e.g., "interview.stepper")
}

// WithLogFields enriches context with structured log fields.
// Multiple calls merge fields, with newer non-nil/non-empty values taking precedence.
// Context timeouts and cancellation are preserved.
func WithLogFields(ctx context.Context, fields LogFields) context.Context {
	existing := GetLogFields(ctx)
	merged := mergeFields(existing, fields)
	return context.WithValue(ctx, logFieldsKey, merged)
}

// GetLogFields retrieves log fields from context.
// Returns empty LogFields if none are set.
func GetLogFields(ctx context.Context) LogFields {
	if fields, ok := ctx.Value(logFieldsKey).(LogFields); ok {
		return fields
	}
	return LogFields{}
}

// mergeFields merges two LogFields, preferring non-nil/non-empty values from 'new'.
func mergeFields(existing, new LogFields) LogFields {
	result := existing

	if new.SubmissionID != nil {
		result.SubmissionID = new.SubmissionID
	}
	if new.InterviewID != nil {
		result.InterviewID = new.InterviewID
	}
	if new.InterviewVersion != nil {
		result.InterviewVersion = new.InterviewVersion
	}
	if new.QuestionID != nil {
		result.QuestionID = new.QuestionID
	}
	if new.StepIndex != nil {
		result.StepIndex = new.StepIndex
	}
	if new.Component != "" {
		result.Component = new.Component
	}

	return result
}

// Ptr is a helper to create a pointer from a value.
// Useful for setting LogFields inline: logger.WithLogFields(ctx, logger.LogFields{SubmissionID: logger.Ptr(id)})
func Ptr[T any](v T) *T {
	return &v
}

// Truncate truncates a string to maxLen characters, appending "..." if truncated.
// Useful for logging potentially long strings like queries or error messages.
func Truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
