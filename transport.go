package getmotion

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync/atomic"
	"time"
)

// noTimeout disables the per-request deadline for a single call. The
// caller's context still bounds the request.
const noTimeout time.Duration = -1

// transport issues authenticated JSON requests against the GetMotion API
// and classifies failures into the package error taxonomy. Retry policy
// deliberately does not live here: not every failure is safe to repeat
// (a 409 conflict in particular), so retries belong to the caller or to
// the wait engine's explicit poll loop.
type transport struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	timeout    time.Duration
	logger     *slog.Logger

	closed atomic.Bool
}

func (t *transport) get(ctx context.Context, path string, query url.Values, out any) error {
	return t.do(ctx, http.MethodGet, path, query, nil, out, t.timeout)
}

func (t *transport) post(ctx context.Context, path string, query url.Values, body, out any) error {
	return t.do(ctx, http.MethodPost, path, query, body, out, t.timeout)
}

// do performs a single HTTP round trip. A positive timeout bounds the
// request with a derived context; noTimeout leaves only the caller's
// context in charge (used for the LLM-backed storyboard chat, which has
// no sensible upper bound).
func (t *transport) do(ctx context.Context, method, path string, query url.Values, body, out any, timeout time.Duration) error {
	if t.closed.Load() {
		return ErrClientClosed
	}

	var bodyReader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("getmotion: marshal request: %w", err)
		}
		bodyReader = bytes.NewReader(b)
	}

	reqURL := t.baseURL + path
	if len(query) > 0 {
		reqURL += "?" + query.Encode()
	}

	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, bodyReader)
	if err != nil {
		return fmt.Errorf("getmotion: create request: %w", err)
	}

	req.Header.Set("X-API-Key", t.apiKey)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	t.logger.Debug("api request",
		slog.String("method", method),
		slog.String("url", reqURL),
	)

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s %s: %w", ErrTransport, method, reqURL, err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: read response: %w", ErrTransport, err)
	}

	t.logger.Debug("api response",
		slog.String("method", method),
		slog.String("url", reqURL),
		slog.Int("status", resp.StatusCode),
	)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return newAPIError(resp.StatusCode, errorDetail(respBody))
	}

	if out != nil {
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("getmotion: unmarshal response: %w", err)
		}
	}

	return nil
}

// errorDetail extracts the "detail" field the API puts in error bodies,
// falling back to the raw response text.
func errorDetail(body []byte) string {
	var parsed struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(body, &parsed); err == nil && parsed.Detail != "" {
		return parsed.Detail
	}
	return strings.TrimSpace(string(body))
}

// close marks the transport unusable and releases pooled connections.
// Subsequent calls through a closed transport fail with ErrClientClosed.
func (t *transport) close() {
	if t.closed.CompareAndSwap(false, true) {
		t.httpClient.CloseIdleConnections()
	}
}
