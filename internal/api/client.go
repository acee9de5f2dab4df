// Package api is the single HTTP surface of trolley. Every storefront
// endpoint the client consumes lives here; the rest of the program deals in
// the decoded types and the error taxonomy, never in raw responses.
//
// Authentication is a server-managed session cookie, so the client carries a
// cookie jar and the caller never sees tokens.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"strings"
	"time"

	"github.com/google/uuid"

	"trolley/internal/logging"
)

// DefaultBaseURL points at a local storefront server.
const DefaultBaseURL = "http://localhost:8080"

// Client talks to the storefront REST API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a Client for the given base URL with a session cookie jar.
func New(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	jar, _ := cookiejar.New(nil)
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
			Jar:     jar,
		},
	}
}

// NewWithHTTPClient creates a Client using the supplied http.Client.
// Used by tests to point at an httptest server or inject a failing transport.
func NewWithHTTPClient(baseURL string, hc *http.Client) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: hc,
	}
}

// BaseURL returns the configured API root.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// errorBody is the structured message shape most 4xx responses carry.
type errorBody struct {
	Message string `json:"message"`
}

// do issues one request and decodes a 2xx JSON body into out (out may be nil
// for endpoints returning no content). Non-2xx responses are mapped onto the
// error taxonomy in errors.go.
func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())

	timer := logging.StartTimer(logging.CategoryAPI, method+" "+path)
	resp, err := c.httpClient.Do(req)
	timer.StopWithThreshold(2 * time.Second)
	if err != nil {
		logging.Get(logging.CategoryAPI).Warn("%s %s: transport error: %v", method, path, err)
		return &NetworkError{Op: method + " " + path, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return &NetworkError{Op: method + " " + path, Err: err}
	}

	logging.APIDebug("%s %s -> %d (%d bytes)", method, path, resp.StatusCode, len(data))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return mapError(resp.StatusCode, data, method+" "+path)
	}

	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to parse response from %s: %w", path, err)
	}
	return nil
}

// mapError converts a non-2xx response into the client error taxonomy.
func mapError(status int, body []byte, op string) error {
	if status == http.StatusUnauthorized {
		return ErrUnauthenticated
	}

	msg := extractMessage(body)

	if status >= 400 && status < 500 {
		if msg == "" {
			msg = fmt.Sprintf("request rejected (%d)", status)
		}
		return &ValidationError{Status: status, Message: msg}
	}

	// 5xx responses are transient from the client's point of view.
	return &NetworkError{Op: op, Err: fmt.Errorf("server returned %d: %s", status, msg)}
}

// extractMessage pulls the structured message out of an error body, falling
// back to the raw text for the endpoints that return plain strings.
func extractMessage(body []byte) string {
	var eb errorBody
	if err := json.Unmarshal(body, &eb); err == nil && eb.Message != "" {
		return eb.Message
	}
	return strings.TrimSpace(string(body))
}
