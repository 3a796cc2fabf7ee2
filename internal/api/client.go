// Package api is the typed client of the presensi REST API.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// LoginRoute is where the client navigates when the API rejects the session.
const LoginRoute = "/login"

// Credentials is the part of the session store the client depends on.
type Credentials interface {
	// PersistedToken returns the stored bearer token, or "" when there is none.
	PersistedToken(ctx context.Context) string
	// Expire removes the stored token and user.
	Expire(ctx context.Context)
}

// Navigator moves the user interface to another route.
type Navigator interface {
	Navigate(ctx context.Context, route string)
}

// NavigatorFunc adapts a function to Navigator.
type NavigatorFunc func(ctx context.Context, route string)

func (f NavigatorFunc) Navigate(ctx context.Context, route string) { f(ctx, route) }

// Client issues JSON requests against the API base URL.
type Client struct {
	baseURL string
	http    *http.Client
	creds   Credentials
	nav     Navigator
}

type Option func(*Client)

// WithHTTPClient replaces the default instrumented http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithNavigator sets the navigator invoked on 401 responses.
func WithNavigator(nav Navigator) Option {
	return func(c *Client) { c.nav = nav }
}

// NewClient creates a Client for baseURL. creds may be nil, in which case
// requests are sent without an Authorization header.
func NewClient(baseURL string, creds Credentials, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http: &http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		creds: creds,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the configured API base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Get sends a GET request. Parameters with empty values are left out.
func (c *Client) Get(ctx context.Context, endpoint string, params map[string]string, out any) error {
	return c.request(ctx, http.MethodGet, endpoint, params, nil, out)
}

// Post sends a POST request; a nil body sends no payload.
func (c *Client) Post(ctx context.Context, endpoint string, body, out any) error {
	return c.request(ctx, http.MethodPost, endpoint, nil, body, out)
}

func (c *Client) Put(ctx context.Context, endpoint string, body, out any) error {
	return c.request(ctx, http.MethodPut, endpoint, nil, body, out)
}

func (c *Client) Patch(ctx context.Context, endpoint string, body, out any) error {
	return c.request(ctx, http.MethodPatch, endpoint, nil, body, out)
}

func (c *Client) Delete(ctx context.Context, endpoint string, out any) error {
	return c.request(ctx, http.MethodDelete, endpoint, nil, nil, out)
}

func (c *Client) request(ctx context.Context, method, endpoint string, params map[string]string, body, out any) error {
	target := c.buildURL(endpoint, params)

	var payload io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		payload = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, payload)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.creds != nil {
		if token := c.creds.PersistedToken(ctx); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("failed to call %s %s: %w", method, endpoint, err)
	}
	defer resp.Body.Close()

	log.Ctx(ctx).Debug().
		Str("method", method).
		Str("endpoint", endpoint).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(start)).
		Msg("API request")

	if resp.StatusCode == http.StatusUnauthorized {
		_, _ = io.Copy(io.Discard, resp.Body)
		c.handleUnauthorized(ctx)
		return ErrUnauthorized
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return newRequestError(resp.StatusCode, data)
	}

	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// handleUnauthorized clears the session before navigating, and both happen
// before the caller sees ErrUnauthorized.
func (c *Client) handleUnauthorized(ctx context.Context) {
	log.Ctx(ctx).Warn().Msg("Session rejected by API, signing out")
	if c.creds != nil {
		c.creds.Expire(ctx)
	}
	if c.nav != nil {
		c.nav.Navigate(ctx, LoginRoute)
	}
}

func (c *Client) buildURL(endpoint string, params map[string]string) string {
	target := c.baseURL + endpoint

	query := url.Values{}
	for k, v := range params {
		if v != "" {
			query.Set(k, v)
		}
	}
	if encoded := query.Encode(); encoded != "" {
		target += "?" + encoded
	}
	return target
}
