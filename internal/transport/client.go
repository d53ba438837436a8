// Package transport provides shared HTTP client functionality for the
// provider APIs.
package transport

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/denvermesh/meshsync/pkg/constants"
	"github.com/denvermesh/meshsync/pkg/errors"
)

// Client wraps an http.Client with default headers and JSON decoding.
type Client struct {
	http    *http.Client
	headers map[string]string
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout overrides the default request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.http.Timeout = d
	}
}

// WithHeader sets a default header applied to every request.
func WithHeader(key, value string) Option {
	return func(c *Client) {
		c.headers[key] = value
	}
}

// New creates a transport client with the default timeout and user agent.
func New(opts ...Option) *Client {
	c := &Client{
		http: &http.Client{Timeout: constants.DefaultHTTPTimeout},
		headers: map[string]string{
			"User-Agent": constants.UserAgent,
			"Accept":     "application/json",
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// GetJSON performs a GET request against url and decodes the JSON response
// body into v. Non-200 responses and undecodable bodies are reported as
// typed errors carrying the provider name.
func (c *Client) GetJSON(ctx context.Context, provider, url string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return errors.WrapAPI(provider, 0, err)
	}
	for key, value := range c.headers {
		req.Header.Set(key, value)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &errors.APIError{
			Provider: provider,
			Endpoint: url,
			Message:  "request failed",
			Err:      err,
		}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return &errors.APIError{
			Provider:   provider,
			Endpoint:   url,
			StatusCode: resp.StatusCode,
			Message:    resp.Status,
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return errors.WrapParse("json", url, err)
	}
	return nil
}
