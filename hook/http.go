package hook

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/oes-interview/engine/state"
	"github.com/oes-interview/engine/step"
)

// HTTPCaller posts the state as JSON to target and returns the response
// body, matching spec §4.8's http hook kind (204 -> not_changed, 2xx with
// body -> parse as {state, result}, non-2xx -> fatal).
type HTTPCaller interface {
	Post(ctx context.Context, url string, body []byte) (status int, respBody []byte, err error)
}

// HTTPClient is the production HTTPCaller, backed by net/http.
type HTTPClient struct {
	Client *http.Client
}

func (c HTTPClient) Post(ctx context.Context, url string, body []byte) (int, []byte, error) {
	client := c.Client
	if client == nil {
		client = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := client.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()
	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, err
	}
	return resp.StatusCode, respBody, nil
}

func (d *Dispatcher) dispatchHTTP(ctx context.Context, target string, s *state.InterviewState) (*state.InterviewState, step.Result, error) {
	if d.HTTP == nil {
		return nil, step.Result{}, fmt.Errorf("no HTTP hook caller configured")
	}
	payload, err := marshalForTransport(s)
	if err != nil {
		return nil, step.Result{}, err
	}
	status, body, err := d.HTTP.Post(ctx, target, payload)
	if err != nil {
		return nil, step.Result{}, err
	}
	if status == http.StatusNoContent {
		return s, step.Result{Status: step.NotChanged}, nil
	}
	if status < 200 || status >= 300 {
		return nil, step.Result{}, fmt.Errorf("hook %q returned non-2xx status %d", target, status)
	}
	return parseEnvelope(body, s)
}
