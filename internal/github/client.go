// Copyright (c) 2026 Komsos Paroki Digital Team
// All rights reserved. See LICENSE for details.

// Package github is a typed client for the GitHub REST API, covering the
// endpoints the parish content repository needs: git data (blobs, trees,
// commits, refs), repository contents, collaborators, and issues.
// Authentication is either a GitHub App installation (JWT exchange with
// automatic token rotation) or a static token.
package github

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// apiVersion is the GitHub REST API version header. Pinned so behavior
// stays consistent as GitHub evolves the API.
const apiVersion = "2022-11-28"

// defaultBaseURL is the base URL for the public GitHub API.
const defaultBaseURL = "https://api.github.com"

// Config holds the settings for creating a Client.
//
// Exactly one authentication mode must be configured:
//   - App authentication: AppID, PrivateKey, and InstallationID
//   - Token authentication: Token
type Config struct {
	// BaseURL is the root URL for API requests. Defaults to
	// "https://api.github.com". Must use HTTPS.
	BaseURL string

	// AppID is the GitHub App's numeric ID. Required for App auth.
	AppID int64

	// PrivateKey is the PEM-encoded RSA private key for the GitHub App.
	// Required for App auth.
	PrivateKey []byte

	// InstallationID is the App installation's numeric ID. Required for
	// App auth.
	InstallationID int64

	// Token is a personal access or fine-grained token. Mutually
	// exclusive with the App auth fields.
	Token string

	// HTTPClient is used for all requests. Defaults to http.DefaultClient.
	HTTPClient *http.Client

	// Now supplies the current time. Defaults to time.Now. Inject a fixed
	// clock in tests for deterministic token rotation.
	Now func() time.Time

	// Logger is used for structured logging. Defaults to slog.Default().
	Logger *slog.Logger
}

// Client is a GitHub REST API client with automatic authentication,
// rate-limit tracking, and structured error handling.
type Client struct {
	baseURL    string
	httpClient *http.Client
	auth       authenticator
	rateLimit  *rateLimitTracker
	now        func() time.Time
	logger     *slog.Logger
}

// NewClient creates a client from the given configuration. Returns an
// error for invalid configuration: no (or ambiguous) auth mode, a
// non-HTTPS base URL, or an unparseable private key.
func NewClient(cfg Config) (*Client, error) {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	baseURL = strings.TrimRight(baseURL, "/")

	if !strings.HasPrefix(baseURL, "https://") {
		return nil, fmt.Errorf("github: API client requires HTTPS (got %q)", baseURL)
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	hasApp := cfg.AppID != 0 || len(cfg.PrivateKey) > 0 || cfg.InstallationID != 0
	hasToken := cfg.Token != ""

	if hasApp && hasToken {
		return nil, fmt.Errorf("github: cannot configure both App auth and token auth")
	}
	if !hasApp && !hasToken {
		return nil, fmt.Errorf("github: no authentication configured (set AppID+PrivateKey+InstallationID or Token)")
	}

	var auth authenticator
	if hasApp {
		if cfg.AppID == 0 {
			return nil, fmt.Errorf("github: AppID is required for App auth")
		}
		if len(cfg.PrivateKey) == 0 {
			return nil, fmt.Errorf("github: PrivateKey is required for App auth")
		}
		if cfg.InstallationID == 0 {
			return nil, fmt.Errorf("github: InstallationID is required for App auth")
		}

		appAuth, err := newAppAuth(cfg.AppID, cfg.InstallationID, cfg.PrivateKey, now)
		if err != nil {
			return nil, err
		}
		// The auth needs the client's transport for the token exchange
		// request; the client needs the auth for headers.
		appAuth.httpClient = httpClient
		appAuth.baseURL = baseURL
		auth = appAuth
	} else {
		auth = newTokenAuth(cfg.Token)
	}

	return &Client{
		baseURL:    baseURL,
		httpClient: httpClient,
		auth:       auth,
		rateLimit:  newRateLimitTracker(now),
		now:        now,
		logger:     logger,
	}, nil
}

// do executes an authenticated request against a path relative to the
// base URL. Non-GET requests JSON-encode body (pass nil for no body).
// Returns the raw response bytes; non-2xx responses become *APIError.
func (c *Client) do(ctx context.Context, method, path string, body any) ([]byte, error) {
	return c.doWithRetry(ctx, method, path, body, false)
}

// doWithRetry is do with a retry flag to stop recursion on persistent
// rate limiting: a rate-limited request is retried at most once.
func (c *Client) doWithRetry(ctx context.Context, method, path string, body any, isRetry bool) ([]byte, error) {
	if err := c.rateLimit.wait(ctx); err != nil {
		return nil, err
	}

	var bodyReader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("github: encoding request body: %w", err)
		}
		bodyReader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("github: creating request: %w", err)
	}

	authHeader, err := c.auth.AuthorizationHeader(ctx)
	if err != nil {
		return nil, fmt.Errorf("github: authentication: %w", err)
	}
	req.Header.Set("Authorization", authHeader)
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("X-GitHub-Api-Version", apiVersion)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("github: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	c.rateLimit.update(resp.Header)

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("github: reading response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		if !isRetry && (resp.StatusCode == 429 || (resp.StatusCode == 403 && isRateLimitMessage(string(respBody)))) {
			backoff := c.rateLimit.retryAfter(resp.Header)
			if backoff > 0 {
				c.logger.Info("github rate limited, backing off",
					"duration", backoff,
					"method", method,
					"path", path,
				)
				select {
				case <-time.After(backoff):
				case <-ctx.Done():
					return nil, ctx.Err()
				}
				return c.doWithRetry(ctx, method, path, body, true)
			}
		}
		return nil, parseAPIError(resp.StatusCode, respBody)
	}

	return respBody, nil
}

// get executes a GET request and decodes the JSON response into result.
func (c *Client) get(ctx context.Context, path string, result any) error {
	body, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	return json.Unmarshal(body, result)
}

// post executes a POST request and, when result is non-nil, decodes the
// JSON response into it.
func (c *Client) post(ctx context.Context, path string, body any, result any) error {
	respBody, err := c.do(ctx, http.MethodPost, path, body)
	if err != nil {
		return err
	}
	if result != nil {
		return json.Unmarshal(respBody, result)
	}
	return nil
}

// patch executes a PATCH request and, when result is non-nil, decodes the
// JSON response into it.
func (c *Client) patch(ctx context.Context, path string, body any, result any) error {
	respBody, err := c.do(ctx, http.MethodPatch, path, body)
	if err != nil {
		return err
	}
	if result != nil {
		return json.Unmarshal(respBody, result)
	}
	return nil
}

// parseAPIError parses a GitHub error payload from a non-2xx response.
func parseAPIError(statusCode int, body []byte) *APIError {
	apiErr := &APIError{StatusCode: statusCode}

	var wire struct {
		Message          string            `json:"message"`
		DocumentationURL string            `json:"documentation_url"`
		Errors           []ValidationError `json:"errors"`
	}
	if json.Unmarshal(body, &wire) == nil && wire.Message != "" {
		apiErr.Message = wire.Message
		apiErr.DocumentationURL = wire.DocumentationURL
		apiErr.Errors = wire.Errors
	} else {
		apiErr.Message = string(body)
	}

	return apiErr
}
