package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/hashicorp/go-hclog"

	"github.com/canvas-tools/canvasctl/pkg/errcode"
)

// defaultRetryAfter is used when a 429 response carries no usable
// Retry-After header.
const defaultRetryAfter = 1000 * time.Millisecond

// Client performs Canvas API calls. It is purely functional given a Request
// and its Config: no state beyond the underlying transport.
type Client struct {
	cfg  Config
	http *http.Client
	log  hclog.Logger
}

// Response is the successful outcome of a call.
type Response struct {
	StatusCode int
	Body       []byte
}

// Decode unmarshals the response body into v. An empty body is a no-op.
func (r *Response) Decode(v any) error {
	if len(r.Body) == 0 {
		return nil
	}
	if err := json.Unmarshal(r.Body, v); err != nil {
		return errcode.New(errcode.InternalError, "failed to decode API response").WithCause(err)
	}
	return nil
}

// New creates a client. The transport itself carries no timeout; each
// attempt is bounded individually inside Do.
func New(cfg Config, log hclog.Logger) *Client {
	return &Client{
		cfg:  cfg,
		http: &http.Client{},
		log:  log.Named("apiclient"),
	}
}

// Do executes the request with up to MaxRetries+1 physical attempts:
// another attempt only after a 429 (waiting the Retry-After signal) or a
// per-attempt timeout (retried immediately). Any other failure surfaces
// at once.
func (c *Client) Do(ctx context.Context, req Request) (*Response, error) {
	if err := ValidatePath(req.Path); err != nil {
		return nil, err
	}

	if req.JSON != nil && req.Form != nil {
		return nil, errcode.New(errcode.InvalidArgument, "request has both JSON and multipart bodies")
	}
	// The body is rendered once so retries can replay the same bytes; the
	// multipart file reader is only consumable a single time.
	var body []byte
	var bodyContentType string
	switch {
	case req.JSON != nil:
		b, err := json.Marshal(req.JSON)
		if err != nil {
			return nil, errcode.New(errcode.InvalidArgument, "failed to marshal request body").WithCause(err)
		}
		body, bodyContentType = b, "application/json"
	case req.Form != nil:
		b, formType, err := req.Form.encode()
		if err != nil {
			return nil, errcode.New(errcode.InvalidArgument, "failed to encode multipart body").WithCause(err)
		}
		body, bodyContentType = b, formType
	}

	attempts := c.cfg.MaxRetries + 1
	var lastErr *errcode.Error

	for attempt := 1; attempt <= attempts; attempt++ {
		resp, attemptErr := c.attempt(ctx, req, body, bodyContentType)
		if attemptErr != nil {
			if ctx.Err() != nil {
				return nil, errcode.New(errcode.Timeout, "request canceled").WithCause(ctx.Err())
			}
			if errors.Is(attemptErr, context.DeadlineExceeded) {
				lastErr = errcode.Newf(errcode.Timeout,
					"request timed out after %s", c.cfg.Timeout).WithCause(attemptErr)
				c.log.Debug("attempt timed out", "attempt", attempt, "path", req.Path)
				continue
			}
			// Unknown transport failure: retry immediately, bounded by the
			// attempt budget.
			lastErr = errcode.From(attemptErr)
			c.log.Debug("attempt failed", "attempt", attempt, "path", req.Path, "error", attemptErr)
			continue
		}

		if resp.StatusCode == http.StatusTooManyRequests && attempt < attempts {
			delay := retryAfter(resp.Header)
			c.log.Debug("rate limited, backing off", "attempt", attempt, "delay", delay)
			select {
			case <-ctx.Done():
				return nil, errcode.New(errcode.Timeout, "request canceled during rate-limit backoff").WithCause(ctx.Err())
			case <-time.After(delay):
			}
			lastErr = c.statusError(resp)
			continue
		}

		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			out, readErr := io.ReadAll(resp.Body)
			resp.Body.Close()
			if readErr != nil {
				return nil, errcode.New(errcode.InternalError, "failed to read API response").WithCause(readErr)
			}
			return &Response{StatusCode: resp.StatusCode, Body: out}, nil
		}

		return nil, c.statusError(resp)
	}

	return nil, lastErr
}

// attempt performs one physical request bounded by the configured timeout.
func (c *Client) attempt(ctx context.Context, req Request, rawBody []byte, bodyContentType string) (*http.Response, error) {
	attemptCtx := ctx
	if c.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		attemptCtx, cancel = context.WithTimeout(ctx, c.cfg.Timeout)
		defer cancel()
	}

	var body io.Reader
	if rawBody != nil {
		body = bytes.NewReader(rawBody)
	}

	endpoint := c.cfg.BaseURL + req.Path
	if len(req.Query) > 0 {
		endpoint += "?" + req.Query.Encode()
	}

	httpReq, err := http.NewRequestWithContext(attemptCtx, req.Method, endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	httpReq.Header.Set("Canvas-Version", c.cfg.APIVersion)
	httpReq.Header.Set("Accept", "application/json")
	if c.cfg.Token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.cfg.Token)
	}
	switch {
	case req.ContentType != "":
		httpReq.Header.Set("Content-Type", req.ContentType)
	case body != nil:
		httpReq.Header.Set("Content-Type", bodyContentType)
	}
	if req.IdempotencyKey != "" {
		httpReq.Header.Set("Idempotency-Key", req.IdempotencyKey)
	}
	for k, v := range req.Headers {
		httpReq.Header.Set(k, v)
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		if attemptCtx.Err() == context.DeadlineExceeded {
			return nil, context.DeadlineExceeded
		}
		return nil, err
	}
	return resp, nil
}

// upstreamError is the documented Canvas error body shape.
type upstreamError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// statusError reads and closes the response body and maps the non-2xx
// status onto the taxonomy, attaching the upstream status and code as
// structured context.
func (c *Client) statusError(resp *http.Response) *errcode.Error {
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()

	var upstream upstreamError
	_ = json.Unmarshal(body, &upstream)

	message := upstream.Message
	if message == "" {
		message = fmt.Sprintf("API returned status %d", resp.StatusCode)
	}

	err := errcode.New(mapStatus(resp.StatusCode), message).
		WithContext("http_status", resp.StatusCode)
	if upstream.Code != "" {
		err = err.WithContext("upstream_code", upstream.Code)
	}
	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
		err = err.WithRecoverable(true)
	}
	return err
}

// mapStatus translates an HTTP status into a taxonomy code.
func mapStatus(status int) errcode.Code {
	switch {
	case status == http.StatusBadRequest:
		return errcode.InvalidArgument
	case status == http.StatusUnauthorized:
		return errcode.AuthFailed
	case status == http.StatusForbidden:
		return errcode.PermissionDenied
	case status == http.StatusNotFound:
		return errcode.ResourceNotFound
	case status == http.StatusRequestTimeout:
		return errcode.Timeout
	case status == http.StatusConflict:
		return errcode.Conflict
	case status == http.StatusPreconditionFailed:
		return errcode.PreconditionFailed
	case status == http.StatusTooManyRequests:
		return errcode.RateLimited
	default:
		return errcode.InternalError
	}
}

// retryAfter reads the Retry-After signal in whole seconds, falling back to
// one second when absent or malformed.
func retryAfter(h http.Header) time.Duration {
	raw := h.Get("Retry-After")
	if raw == "" {
		return defaultRetryAfter
	}
	secs, err := strconv.Atoi(raw)
	if err != nil || secs < 0 {
		return defaultRetryAfter
	}
	return time.Duration(secs) * time.Second
}
