// internal/gateway/client.go
package gateway

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

	"ragdeck/internal/logging"
)

// ErrUnreachable marks transport-level failures (DNS, refused
// connection, timeout) as distinct from errors the gateway returned.
var ErrUnreachable = errors.New("gateway unreachable")

// StatusError carries an application error returned by the gateway.
// Its message is the gateway's own `error` field when present.
type StatusError struct {
	StatusCode int
	Message    string
}

// Error returns the gateway's message verbatim, or a generic
// status-code message when the body carried none.
func (e *StatusError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("request failed with status %d", e.StatusCode)
}

// Client issues JSON POST requests against a configured gateway base
// address. A single failed attempt surfaces immediately; retries are
// left to the caller.
type Client struct {
	base   string
	client *http.Client
}

// DefaultBase is the gateway address used when none is configured.
const DefaultBase = "http://localhost:8000"

// NormalizeBase trims whitespace and strips a trailing slash, falling
// back to DefaultBase for empty input.
func NormalizeBase(base string) string {
	base = strings.TrimSpace(base)
	if base == "" {
		return DefaultBase
	}
	return strings.TrimSuffix(base, "/")
}

// New constructs a Client for the given base address.
func New(base string, timeout time.Duration) *Client {
	return &Client{
		base: NormalizeBase(base),
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

// Base returns the normalized gateway base address.
func (c *Client) Base() string {
	return c.base
}

// post serializes payload as the JSON body of a POST to base+path and
// decodes a successful response into out.
func (c *Client) post(ctx context.Context, path string, body []byte, out any) error {
	endpoint := c.base + path
	logging.LogRequest("RAGDECK->GATEWAY", c.base, path, body)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnreachable, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnreachable, err)
	}
	logging.LogRequest("GATEWAY->RAGDECK", c.base, path, respBody)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var parsed struct {
			Error string `json:"error"`
		}
		// An unparseable error body degrades to the status-code message.
		_ = json.Unmarshal(respBody, &parsed)
		return &StatusError{StatusCode: resp.StatusCode, Message: parsed.Error}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	return nil
}

// Setup configures the gateway pipeline, validating the payload against
// the per-kind schema before any network traffic.
func (c *Client) Setup(ctx context.Context, req SetupRequest) (*SetupResult, error) {
	req.applyDefaults()
	if err := req.Validate(); err != nil {
		return nil, err
	}
	body, err := marshalSetup(req)
	if err != nil {
		return nil, err
	}
	var result SetupResult
	if err := c.post(ctx, "/setup", body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Ingest submits a document batch. An empty batch is rejected locally.
func (c *Client) Ingest(ctx context.Context, documents []Document) (*IngestResult, error) {
	if len(documents) == 0 {
		return nil, fmt.Errorf("no documents to ingest")
	}
	body, err := json.Marshal(IngestRequest{Documents: documents})
	if err != nil {
		return nil, err
	}
	var result IngestResult
	if err := c.post(ctx, "/ingest", body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Query asks the gateway a question over the ingested corpus.
func (c *Client) Query(ctx context.Context, req QueryRequest) (*QueryResult, error) {
	if req.K == 0 {
		req.K = DefaultQueryK
	}
	req.Question = strings.TrimSpace(req.Question)
	if err := req.Validate(); err != nil {
		return nil, err
	}
	body, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}
	var result QueryResult
	if err := c.post(ctx, "/query", body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}
