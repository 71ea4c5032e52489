package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/topcoder-platform/topcoder-cli/internal/config"
)

const maxErrorBody = 4 << 10

// buildHTTPClient returns a client that retries connection errors and 5xx
// responses up to retryMax times with backoff. The final response of an
// exhausted retry loop is handed back unchanged so callers can report its
// status.
//
// HTTPTimeout bounds the wait for response headers only. Bodies are streamed
// and may take as long as the transfer needs.
func buildHTTPClient(endpoints *config.Endpoints, retryMax int) *http.Client {
	rc := retryablehttp.NewClient()
	rc.RetryMax = retryMax
	rc.RetryWaitMin = 500 * time.Millisecond
	rc.RetryWaitMax = 5 * time.Second
	rc.ErrorHandler = retryablehttp.PassthroughErrorHandler
	rc.Logger = nil

	if transport, ok := rc.HTTPClient.Transport.(*http.Transport); ok {
		transport.ResponseHeaderTimeout = endpoints.HTTPTimeout
	}
	return rc.StandardClient()
}

// do sends req through the retrying client.
func (c *Client) do(req *http.Request) (*http.Response, error) {
	return c.send(c.http, req)
}

// send sends req with the bearer token attached. Transport failures become
// ConnectionError; non-2xx responses become StatusError with the body read.
func (c *Client) send(hc *http.Client, req *http.Request) (*http.Response, error) {
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	res, err := hc.Do(req)
	if err != nil {
		return nil, &ConnectionError{Err: err}
	}

	if res.StatusCode < 200 || res.StatusCode > 299 {
		defer func() { _ = res.Body.Close() }()
		body, _ := io.ReadAll(io.LimitReader(res.Body, maxErrorBody))
		return nil, &StatusError{
			Method:     req.Method,
			URL:        req.URL.Redacted(),
			StatusCode: res.StatusCode,
			Body:       string(body),
		}
	}
	return res, nil
}

// doJSON sends payload (if any) as JSON and decodes the response into out
// (if non-nil). It returns the response headers.
func (c *Client) doJSON(ctx context.Context, method, endpoint string, payload, out any) (http.Header, error) {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	res, err := c.do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = res.Body.Close() }()

	if out != nil {
		if err := json.NewDecoder(res.Body).Decode(out); err != nil {
			return nil, fmt.Errorf("failed to decode response from %s: %w", endpoint, err)
		}
	}
	return res.Header, nil
}

// ID is an identifier the platform may encode as either a JSON string or a
// JSON number.
type ID string

func (id *ID) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	switch {
	case raw == "null":
		return nil
	case strings.HasPrefix(raw, `"`):
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(s)
	default:
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return fmt.Errorf("id must be a string or number: %w", err)
		}
		*id = ID(n.String())
	}
	return nil
}

func (id ID) String() string { return string(id) }
