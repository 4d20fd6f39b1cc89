package advisory

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

	"github.com/rs/zerolog"
)

// advicePath is the fixed relative path of the advice endpoint on the
// advisory backend.
const advicePath = "/generate-advice"

// DefaultTimeout bounds a single advisory call when the caller's
// context carries no deadline of its own.
const DefaultTimeout = 30 * time.Second

// Client is the HTTP client for the separately-hosted AI advisory
// backend. It performs exactly one attempt per call: retry and backoff
// policy belongs to the caller, which keeps the failure semantics here
// simple and testable.
//
// The underlying transport (connection pool) is shared across all
// calls and safe for concurrent use; configuration is immutable after
// construction.
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        zerolog.Logger
}

// NewClient creates an advisory backend client. A missing base address
// is a deployment mistake, not a transient condition, so it fails here
// rather than at call time.
func NewClient(baseURL string, timeout time.Duration, log zerolog.Logger) (*Client, error) {
	if strings.TrimSpace(baseURL) == "" {
		return nil, &Error{
			Kind: KindConfiguration,
			Err:  errors.New("advisory backend base address is not configured"),
		}
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log.With().Str("client", "advisory").Logger(),
	}, nil
}

// Call POSTs the wire request to the backend and returns the raw 2xx
// response body. The full body is read on every status so non-2xx
// diagnostic text is available to callers. Outcomes are classified by
// status class:
//
//	2xx -> body returned for decoding
//	4xx -> KindClient (fix the request, do not retry as-is)
//	5xx -> KindUpstream (caller may retry)
//	transport failure -> KindTransport
//	context cancellation or deadline -> KindCancelled
func (c *Client) Call(ctx context.Context, req RequestWire) ([]byte, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, newError(KindClient, fmt.Errorf("marshaling wire request: %w", err))
	}

	url := c.baseURL + advicePath
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, newError(KindTransport, fmt.Errorf("creating request: %w", err))
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	c.log.Debug().
		Str("url", url).
		Str("user_id", req.UserID).
		Msg("Calling advisory backend")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, c.classifyTransport(ctx, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, c.classifyTransport(ctx, fmt.Errorf("reading response body: %w", err))
	}

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return body, nil
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		return nil, &Error{
			Kind:   KindClient,
			Status: resp.StatusCode,
			Body:   string(body),
			Err:    fmt.Errorf("advisory backend rejected request with status %d", resp.StatusCode),
		}
	case resp.StatusCode >= 500:
		return nil, &Error{
			Kind:   KindUpstream,
			Status: resp.StatusCode,
			Body:   string(body),
			Err:    fmt.Errorf("advisory backend failed with status %d", resp.StatusCode),
		}
	default:
		// 1xx/3xx never appear in the backend contract.
		return nil, &Error{
			Kind:   KindUpstream,
			Status: resp.StatusCode,
			Body:   string(body),
			Err:    fmt.Errorf("advisory backend returned unexpected status %d", resp.StatusCode),
		}
	}
}

// HealthCheck probes the backend's health endpoint.
func (c *Client) HealthCheck(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return newError(KindTransport, fmt.Errorf("creating health check request: %w", err))
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return c.classifyTransport(ctx, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return &Error{
			Kind:   KindUpstream,
			Status: resp.StatusCode,
			Err:    fmt.Errorf("advisory backend health check returned status %d", resp.StatusCode),
		}
	}
	return nil
}

// classifyTransport separates "the caller gave up" from "the network
// failed". Cancellation is never reclassified as a generic failure.
func (c *Client) classifyTransport(ctx context.Context, err error) *Error {
	if ctx.Err() != nil ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded) {
		cause := ctx.Err()
		if cause == nil {
			cause = err
		}
		return newError(KindCancelled, cause)
	}
	return newError(KindTransport, err)
}
