// ABOUTME: Authentication endpoint wrappers
// ABOUTME: Login, registration, refresh, logout, and current-user lookup

package client

import (
	"context"
	"net/http"
)

// Login calls POST /auth/login. The returned pair is not persisted here;
// the token lifecycle manager owns that.
func (c *Client) Login(ctx context.Context, email, password string) (*TokenPair, error) {
	var pair TokenPair
	if err := c.doNoAuth(ctx, http.MethodPost, loginPath, LoginRequest{Email: email, Password: password}, &pair); err != nil {
		return nil, err
	}
	return &pair, nil
}

// Register calls POST /auth/register. The server creates the account; the
// caller logs in with the same credentials afterwards.
func (c *Client) Register(ctx context.Context, req RegisterRequest) (*User, error) {
	var user User
	if err := c.doNoAuth(ctx, http.MethodPost, registerPath, req, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Refresh calls POST /auth/refresh directly, bypassing the interceptor.
// Normal callers never need this; the 401 path refreshes on its own.
func (c *Client) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	var pair TokenPair
	if err := c.doNoAuth(ctx, http.MethodPost, refreshPath, RefreshRequest{RefreshToken: refreshToken}, &pair); err != nil {
		return nil, err
	}
	return &pair, nil
}

// Logout calls POST /auth/logout. The response body is ignored.
func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, logoutPath, nil, nil)
}

// Me calls GET /auth/me and returns the current user
func (c *Client) Me(ctx context.Context) (*User, error) {
	var user User
	if err := c.do(ctx, http.MethodGet, mePath, nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}
