// Package api implements the HTTPS JSON client for the Satisfactory
// dedicated server management API (v1): login, server state, server
// options and advanced game settings queries.
package api

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// apiPath is the fixed endpoint all API functions are posted to.
const apiPath = "/api/v1"

// DefaultTimeout bounds a single API exchange when no timeout is configured.
const DefaultTimeout = 30 * time.Second

// Options configures the transport behavior of the Client.
type Options struct {
	// Timeout bounds the whole HTTP exchange, from dial to body read.
	Timeout time.Duration

	// InsecureTLS accepts any server certificate. Dedicated servers ship
	// with a self-signed certificate out of the box, so this stays an
	// explicit opt-in rather than a default.
	InsecureTLS bool
}

// Client issues calls against a single dedicated server API endpoint.
type Client struct {
	http     *http.Client
	endpoint string
}

// NewClient creates a Client for the server at baseURL (scheme, host and
// port; the API path is appended internally).
func NewClient(baseURL string, opts Options) *Client {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}

	transport := &http.Transport{
		TLSClientConfig: &tls.Config{
			MinVersion:         tls.VersionTLS12,
			InsecureSkipVerify: opts.InsecureTLS,
		},
	}

	return &Client{
		endpoint: strings.TrimSuffix(baseURL, "/") + apiPath,
		http: &http.Client{
			Timeout:   opts.Timeout,
			Transport: transport,
		},
	}
}

// request is the wire format of an API call.
type request struct {
	Data     any    `json:"data,omitempty"`
	Function string `json:"function"`
}

// envelope is the wire format of an API response. A successful call
// carries Data, a failed one ErrorCode and ErrorMessage.
type envelope struct {
	Data         json.RawMessage `json:"data"`
	ErrorCode    string          `json:"errorCode"`
	ErrorMessage string          `json:"errorMessage"`
}

// apiError converts a server-reported error envelope into an APIError,
// or returns nil when the envelope signals success.
func (e *envelope) apiError() error {
	if e.ErrorCode == "" {
		return nil
	}

	return &APIError{Code: e.ErrorCode, Message: e.ErrorMessage}
}

// call posts one API function and returns the decoded response envelope.
// The bearer token is attached when non-empty. Transport failures are
// reported as NetworkError; interpretation of the envelope is left to
// the caller.
func (c *Client) call(ctx context.Context, function string, data any, token string) (*envelope, error) {
	body, err := json.Marshal(request{Function: function, Data: data})
	if err != nil {
		return nil, fmt.Errorf("encode %s request: %w", function, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build %s request: %w", function, err)
	}

	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	log.Trace().
		Str("function", function).
		Str("url", c.endpoint).
		Msg("Calling server API")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &NetworkError{Kind: classify(err), Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &NetworkError{Kind: MalformedResponse, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &NetworkError{
			Kind: NonSuccessStatus,
			Err:  fmt.Errorf("%s returned %s", function, resp.Status),
		}
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, &NetworkError{Kind: MalformedResponse, Err: err}
	}

	return &env, nil
}

// classify maps a http.Client error to a NetworkErrorKind.
func classify(err error) NetworkErrorKind {
	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Timeout() {
		return Timeout
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return Timeout
	}

	return ConnectionFailed
}
