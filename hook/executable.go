package hook

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"

	"github.com/oes-interview/engine/state"
	"github.com/oes-interview/engine/step"
)

// ExecutableRunner runs a local program with the state on stdin and
// captures stdout, matching spec §4.8's executable hook kind. This
// mirrors the command-execution shape the teacher repo uses for its own
// subprocess integration (exec.CommandContext, combined output capture),
// generalized here to also pipe stdin.
type ExecutableRunner interface {
	Run(ctx context.Context, path string, stdin []byte) (stdout []byte, err error)
}

// ExecRunner is the production ExecutableRunner, backed by os/exec.
type ExecRunner struct {
	Env []string
}

func (r ExecRunner) Run(ctx context.Context, path string, stdin []byte) ([]byte, error) {
	cmd := exec.CommandContext(ctx, path)
	cmd.Stdin = bytes.NewReader(stdin)
	if len(r.Env) > 0 {
		cmd.Env = append(os.Environ(), r.Env...)
	}
	out, err := cmd.Output()
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			return nil, fmt.Errorf("hook executable %q exited %d: %s", path, exitErr.ExitCode(), exitErr.Stderr)
		}
		return nil, fmt.Errorf("hook executable %q: %w", path, err)
	}
	return out, nil
}

func (d *Dispatcher) dispatchExecutable(ctx context.Context, target string, s *state.InterviewState) (*state.InterviewState, step.Result, error) {
	if d.Executable == nil {
		return nil, step.Result{}, fmt.Errorf("no executable hook runner configured")
	}
	payload, err := marshalForTransport(s)
	if err != nil {
		return nil, step.Result{}, err
	}
	out, err := d.Executable.Run(ctx, target, payload)
	if err != nil {
		return nil, step.Result{}, err
	}
	return parseEnvelope(bytes.TrimSpace(out), s)
}
