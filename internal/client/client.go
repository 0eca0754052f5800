// ABOUTME: HTTP client for the Firefly Mental Health API
// ABOUTME: Attaches bearer tokens and transparently refreshes expired credentials

package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/sync/singleflight"
)

const (
	loginPath    = "/auth/login"
	registerPath = "/auth/register"
	refreshPath  = "/auth/refresh"
	logoutPath   = "/auth/logout"
	mePath       = "/auth/me"
)

// ErrNotAuthenticated indicates a request required credentials and none are stored
var ErrNotAuthenticated = errors.New("not authenticated")

// CredentialStore is the durable storage for the access/refresh token pair.
// The client reads tokens from it on every request and writes the new pair
// after a successful refresh; it never caches tokens itself.
type CredentialStore interface {
	Tokens() (access, refresh string)
	SetTokens(access, refresh string) error
	ClearTokens() error
}

// APIError is a non-2xx response from the backend
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("backend error (%d): %s", e.StatusCode, e.Message)
}

// Client is the API client for the Firefly backend. Every outbound request
// passes through it; authenticated requests carry the stored access token and
// a 401 triggers at most one refresh-and-retry per request.
type Client struct {
	baseURL       string
	httpClient    *http.Client
	creds         CredentialStore
	clientID      string
	refreshLeeway time.Duration
	refreshGroup  singleflight.Group
	onAuthExpired func()
}

// New creates a new API client with the given base URL and credential store
func New(baseURL string, creds CredentialStore) *Client {
	return &Client{
		baseURL: baseURL,
		creds:   creds,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		refreshLeeway: 30 * time.Second,
	}
}

// SetTimeout overrides the per-request HTTP timeout
func (c *Client) SetTimeout(d time.Duration) {
	c.httpClient.Timeout = d
}

// SetRefreshLeeway sets how close to expiry the access token may get before
// a request refreshes it proactively. Zero disables proactive refresh.
func (c *Client) SetRefreshLeeway(d time.Duration) {
	c.refreshLeeway = d
}

// SetClientID sets the per-install identifier sent as X-Client-ID
func (c *Client) SetClientID(id string) {
	c.clientID = id
}

// OnAuthExpired registers the callback invoked when a refresh attempt fails
// and the stored credentials have been cleared. The UI uses it to force
// navigation back to the login screen.
func (c *Client) OnAuthExpired(fn func()) {
	c.onAuthExpired = fn
}

// requestOpts controls auth handling for a single request
type requestOpts struct {
	noAuth  bool // endpoint does not take a bearer token
	retried bool // this request has already been retried after a refresh
}

// do issues an authenticated JSON request and decodes the response into out.
// On a 401 it attempts exactly one refresh (shared across concurrent callers)
// and re-issues the original request with the new access token.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	return c.send(ctx, method, path, body, out, requestOpts{})
}

// doNoAuth issues a request to an endpoint that takes no bearer token
func (c *Client) doNoAuth(ctx context.Context, method, path string, body, out any) error {
	return c.send(ctx, method, path, body, out, requestOpts{noAuth: true})
}

func (c *Client) send(ctx context.Context, method, path string, body, out any, opts requestOpts) error {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
	}

	if !opts.noAuth && !opts.retried && c.refreshLeeway > 0 {
		// Refresh ahead of a guaranteed 401. A failure here is not fatal:
		// the request proceeds with the old token and the 401 path decides.
		if access, refresh := c.creds.Tokens(); refresh != "" && tokenExpiring(access, c.refreshLeeway) {
			_ = c.refreshTokens()
		}
	}

	req, err := c.newRequest(ctx, method, path, payload, opts)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return c.handleRequestError(ctx, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized && !opts.noAuth && !opts.retried {
		if _, refresh := c.creds.Tokens(); refresh != "" {
			if refreshErr := c.refreshTokens(); refreshErr != nil {
				c.authExpired()
				return fmt.Errorf("session expired: %w", refreshErr)
			}
			opts.retried = true
			return c.send(ctx, method, path, body, out, opts)
		}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.handleErrorResponse(resp)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("invalid response from backend: %w", err)
	}
	return nil
}

func (c *Client) newRequest(ctx context.Context, method, path string, payload []byte, opts requestOpts) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.clientID != "" {
		req.Header.Set("X-Client-ID", c.clientID)
	}
	if !opts.noAuth {
		access, _ := c.creds.Tokens()
		if access == "" {
			return nil, ErrNotAuthenticated
		}
		req.Header.Set("Authorization", "Bearer "+access)
	}
	return req, nil
}

// refreshTimeout bounds the shared refresh round-trip
const refreshTimeout = 30 * time.Second

// refreshTokens exchanges the stored refresh token for a new credential pair.
// Concurrent callers collapse onto a single round-trip; every caller resumes
// only after the new pair is persisted, so retried requests all pick up the
// same access token. The round-trip runs on its own context: the outcome is
// shared, so one caller's cancellation or short deadline must not fail the
// refresh for everyone collapsed onto it.
func (c *Client) refreshTokens() error {
	_, err, _ := c.refreshGroup.Do("refresh", func() (any, error) {
		_, refresh := c.creds.Tokens()
		if refresh == "" {
			return nil, ErrNotAuthenticated
		}

		ctx, cancel := context.WithTimeout(context.Background(), refreshTimeout)
		defer cancel()

		var pair TokenPair
		if err := c.doNoAuth(ctx, http.MethodPost, refreshPath, RefreshRequest{RefreshToken: refresh}, &pair); err != nil {
			return nil, err
		}
		if err := c.creds.SetTokens(pair.AccessToken, pair.RefreshToken); err != nil {
			return nil, fmt.Errorf("failed to store refreshed tokens: %w", err)
		}
		return nil, nil
	})
	return err
}

// authExpired clears credentials and notifies the registered handler
func (c *Client) authExpired() {
	_ = c.creds.ClearTokens()
	if c.onAuthExpired != nil {
		c.onAuthExpired()
	}
}

// tokenExpiring reports whether the access token's exp claim falls within
// the leeway window. Unparseable tokens are treated as not expiring; the
// server remains the authority via the 401 path.
func tokenExpiring(access string, leeway time.Duration) bool {
	if access == "" {
		return false
	}
	token, _, err := jwt.NewParser().ParseUnverified(access, jwt.MapClaims{})
	if err != nil {
		return false
	}
	exp, err := token.Claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return time.Until(exp.Time) <= leeway
}

// handleRequestError converts context errors to user-friendly messages
func (c *Client) handleRequestError(ctx context.Context, err error) error {
	if ctx.Err() == context.Canceled {
		return fmt.Errorf("request canceled")
	}
	if ctx.Err() == context.DeadlineExceeded {
		return fmt.Errorf("request timed out")
	}
	return fmt.Errorf("cannot connect to backend at %s: %w", c.baseURL, err)
}

// handleErrorResponse parses API error responses. The backend reports errors
// as {"detail": "..."}.
func (c *Client) handleErrorResponse(resp *http.Response) error {
	var errResp struct {
		Detail string `json:"detail"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&errResp); err != nil || errResp.Detail == "" {
		return &APIError{StatusCode: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
	}
	return &APIError{StatusCode: resp.StatusCode, Message: errResp.Detail}
}
