package advice

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// ErrBackendFailed wraps every failure of a remote backend
var ErrBackendFailed = errors.New("advice backend failed")

// maxResponseBytes caps how much of a backend response is read
const maxResponseBytes = 1 << 20

// Backend generates free text for a prompt
type Backend interface {
	Name() string
	Generate(ctx context.Context, prompt string) (string, error)
}

// Result is the outcome of one backend attempt
type Result struct {
	Backend  string
	Text     string
	Err      error
	Duration time.Duration
}

// OK reports whether the attempt produced usable text
func (r Result) OK() bool {
	return r.Err == nil
}

// attempt runs a single backend call bounded by timeout
func attempt(ctx context.Context, b Backend, prompt string, timeout time.Duration) Result {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	started := time.Now()
	text, err := b.Generate(ctx, prompt)
	result := Result{Backend: b.Name(), Duration: time.Since(started)}
	if err != nil {
		if !errors.Is(err, ErrBackendFailed) {
			err = fmt.Errorf("%w: %s: %v", ErrBackendFailed, b.Name(), err)
		}
		result.Err = err
		return result
	}

	text = strings.TrimSpace(text)
	if text == "" {
		result.Err = fmt.Errorf("%w: %s: empty response", ErrBackendFailed, b.Name())
		return result
	}
	result.Text = text
	return result
}

// postJSON sends body as JSON and decodes a 200 response into out
func postJSON(ctx context.Context, client *http.Client, url string, headers map[string]string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("%w: failed to encode request: %v", ErrBackendFailed, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("%w: failed to create request: %v", ErrBackendFailed, err)
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: request failed: %v", ErrBackendFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		// Drain so the connection can be reused
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseBytes))
		return fmt.Errorf("%w: unexpected status code: %d", ErrBackendFailed, resp.StatusCode)
	}

	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(out); err != nil {
		return fmt.Errorf("%w: failed to decode response: %v", ErrBackendFailed, err)
	}
	return nil
}
