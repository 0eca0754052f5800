// ABOUTME: Token lifecycle manager for login, registration, logout, and startup restore
// ABOUTME: Keeps the session authenticated across token expiry without duplicate refreshes

package auth

import (
	"context"
	"errors"

	"github.com/firefly-health/firefly-cli/internal/client"
)

const genericLoginError = "Unable to sign in. Please try again."

// Manager owns every mutation of the session store and the credential pair.
// The refresh protocol itself lives inside the API client; the manager wires
// its failure path back into the session via HandleAuthExpired.
type Manager struct {
	api     *client.Client
	creds   *CredStore
	session *Store
}

// NewManager creates a lifecycle manager and registers the auth-expired
// handler on the client so a failed refresh forces the session out.
func NewManager(api *client.Client, creds *CredStore, session *Store) *Manager {
	m := &Manager{api: api, creds: creds, session: session}
	api.OnAuthExpired(m.HandleAuthExpired)
	return m
}

// Session returns the observable session store
func (m *Manager) Session() *Store {
	return m.session
}

// Login authenticates, persists the credential pair, and loads the user.
// On failure the session carries the server's message (or a generic fallback)
// and the error is returned so the UI can react.
func (m *Manager) Login(ctx context.Context, email, password string) error {
	m.session.setLoading(true)

	pair, err := m.api.Login(ctx, email, password)
	if err != nil {
		m.session.setUnauthenticated(userMessage(err))
		return err
	}
	if err := m.creds.SetTokens(pair.AccessToken, pair.RefreshToken); err != nil {
		m.session.setUnauthenticated(genericLoginError)
		return err
	}

	user, err := m.api.Me(ctx)
	if err != nil {
		_ = m.creds.ClearTokens()
		m.session.setUnauthenticated(userMessage(err))
		return err
	}

	_ = m.creds.SaveSnapshot(user)
	m.session.setAuthenticated(user)
	return nil
}

// Register creates the account and then performs the login flow with the
// same credentials. A failure at either step surfaces as one registration
// error.
func (m *Manager) Register(ctx context.Context, req client.RegisterRequest) error {
	m.session.setLoading(true)

	if _, err := m.api.Register(ctx, req); err != nil {
		m.session.setUnauthenticated(userMessage(err))
		return err
	}

	return m.Login(ctx, req.Email, req.Password)
}

// FetchUser restores the session at startup. With no stored access token it
// marks the session unauthenticated without a network call; otherwise it
// loads the user, clearing credentials on failure. It never returns an
// error: this path runs speculatively on every launch.
func (m *Manager) FetchUser(ctx context.Context) {
	access, _ := m.creds.Tokens()
	if access == "" {
		m.session.setUnauthenticated("")
		return
	}

	m.session.setLoading(true)
	user, err := m.api.Me(ctx)
	if err != nil {
		_ = m.creds.ClearTokens()
		_ = m.creds.ClearSnapshot()
		m.session.setUnauthenticated("")
		return
	}

	_ = m.creds.SaveSnapshot(user)
	m.session.setAuthenticated(user)
}

// Logout notifies the server best-effort, then unconditionally clears the
// credential pair and the session. Logout always succeeds locally.
func (m *Manager) Logout(ctx context.Context) {
	_ = m.api.Logout(ctx)
	_ = m.creds.ClearTokens()
	_ = m.creds.ClearSnapshot()
	m.session.setUnauthenticated("")
}

// HandleAuthExpired transitions the session out after a failed refresh.
// The client has already cleared the stored tokens by the time this runs.
func (m *Manager) HandleAuthExpired() {
	_ = m.creds.ClearSnapshot()
	m.session.setUnauthenticated("Your session has expired. Please sign in again.")
}

// userMessage extracts the server-supplied message for display, falling back
// to a generic one for transport-level failures
func userMessage(err error) string {
	var apiErr *client.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return genericLoginError
}
