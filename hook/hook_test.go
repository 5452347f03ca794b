package hook_test

import (
	"context"
	"net/http"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/oes-interview/engine/hook"
	"github.com/oes-interview/engine/state"
	"github.com/oes-interview/engine/step"
)

func TestHook(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "hook suite")
}

func newState() *state.InterviewState {
	return &state.InterviewState{
		SubmissionID:      "sub-1",
		Data:              map[string]any{},
		Context:           map[string]any{},
		AnsweredQuestions: map[string]bool{},
	}
}

var _ = Describe("Dispatcher inline", func() {
	It("dispatches to a registered inline function", func() {
		called := false
		d := &hook.Dispatcher{
			Inline: map[string]hook.InlineFunc{
				"module:fn": func(ctx context.Context, s *state.InterviewState) (*state.InterviewState, step.Result, error) {
					called = true
					return s, step.Result{Status: step.Changed}, nil
				},
			},
		}
		_, result, err := d.Dispatch(context.Background(), step.HookInline, "module:fn", newState())
		Expect(err).NotTo(HaveOccurred())
		Expect(called).To(BeTrue())
		Expect(result.Status).To(Equal(step.Changed))
	})

	It("errors on an unregistered inline hook", func() {
		d := &hook.Dispatcher{Inline: map[string]hook.InlineFunc{}}
		_, _, err := d.Dispatch(context.Background(), step.HookInline, "module:missing", newState())
		Expect(err).To(HaveOccurred())
	})
})

type stubRunner struct {
	stdout []byte
	err    error
}

func (r stubRunner) Run(ctx context.Context, path string, stdin []byte) ([]byte, error) {
	return r.stdout, r.err
}

var _ = Describe("Dispatcher executable", func() {
	It("parses empty stdout as not_changed", func() {
		d := &hook.Dispatcher{Executable: stubRunner{stdout: nil}}
		s := newState()
		next, result, err := d.Dispatch(context.Background(), step.HookExecutable, "/bin/true", s)
		Expect(err).NotTo(HaveOccurred())
		Expect(result.Status).To(Equal(step.NotChanged))
		Expect(next).To(Equal(s))
	})

	It("parses a {state, result} envelope from stdout", func() {
		body := `{"state":{"submission_id":"sub-1","interview_id":"","interview_version":"","expiration_date":"0001-01-01T00:00:00Z","target_url":"","complete":false,"context":{},"answered_question_ids":[],"data":{"x":1}},"result":{"status":"changed"}}`
		d := &hook.Dispatcher{Executable: stubRunner{stdout: []byte(body)}}
		next, result, err := d.Dispatch(context.Background(), step.HookExecutable, "/bin/true", newState())
		Expect(err).NotTo(HaveOccurred())
		Expect(result.Status).To(Equal(step.Changed))
		Expect(next.Data["x"]).To(Equal(float64(1)))
	})
})

type stubCaller struct {
	status int
	body   []byte
	err    error
}

func (c stubCaller) Post(ctx context.Context, url string, payload []byte) (int, []byte, error) {
	return c.status, c.body, c.err
}

var _ = Describe("Dispatcher http", func() {
	It("treats 204 as not_changed", func() {
		d := &hook.Dispatcher{HTTP: stubCaller{status: http.StatusNoContent}}
		s := newState()
		next, result, err := d.Dispatch(context.Background(), step.HookHTTP, "http://example.com/hook", s)
		Expect(err).NotTo(HaveOccurred())
		Expect(result.Status).To(Equal(step.NotChanged))
		Expect(next).To(Equal(s))
	})

	It("treats non-2xx as a fatal error", func() {
		d := &hook.Dispatcher{HTTP: stubCaller{status: http.StatusInternalServerError}}
		_, _, err := d.Dispatch(context.Background(), step.HookHTTP, "http://example.com/hook", newState())
		Expect(err).To(HaveOccurred())
	})
})
