// ABOUTME: Durable storage for the credential pair and session snapshot
// ABOUTME: Persists JSON files in the XDG config directory

package auth

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"

	"github.com/firefly-health/firefly-cli/internal/client"
)

const (
	credentialsFile = "credentials.json"
	sessionFile     = "session.json"
)

// credentialsData is the on-disk shape of the stored credentials
type credentialsData struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ClientID     string `json:"client_id"`
}

// snapshotData is the on-disk shape of the session snapshot used to restore
// the signed-in view across restarts before /auth/me confirms it
type snapshotData struct {
	User            *client.User `json:"user"`
	IsAuthenticated bool         `json:"is_authenticated"`
}

// CredStore is the single owner of the persisted access/refresh token pair.
// It implements client.CredentialStore. No other component writes tokens.
type CredStore struct {
	mu        sync.Mutex
	configDir string
	creds     credentialsData
	snapshot  snapshotData
}

// NewCredStore creates a store rooted at the given config directory and loads
// any previously persisted state. A missing or unreadable file starts fresh.
func NewCredStore(configDir string) *CredStore {
	s := &CredStore{configDir: configDir}
	s.load()
	return s
}

func (s *CredStore) load() {
	if data, err := os.ReadFile(filepath.Join(s.configDir, credentialsFile)); err == nil {
		// Invalid JSON starts fresh
		_ = json.Unmarshal(data, &s.creds)
	}
	if data, err := os.ReadFile(filepath.Join(s.configDir, sessionFile)); err == nil {
		_ = json.Unmarshal(data, &s.snapshot)
	}
}

// Tokens returns the stored credential pair
func (s *CredStore) Tokens() (string, string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.creds.AccessToken, s.creds.RefreshToken
}

// SetTokens persists a new credential pair
func (s *CredStore) SetTokens(access, refresh string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.creds.AccessToken = access
	s.creds.RefreshToken = refresh
	return s.writeCredentials()
}

// ClearTokens removes the credential pair, keeping the install id
func (s *CredStore) ClearTokens() error {
	return s.SetTokens("", "")
}

// ClientID returns the per-install identifier, generating and persisting one
// on first use
func (s *CredStore) ClientID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.creds.ClientID == "" {
		s.creds.ClientID = uuid.NewString()
		_ = s.writeCredentials()
	}
	return s.creds.ClientID
}

// SaveSnapshot persists the session snapshot for restoration across restarts
func (s *CredStore) SaveSnapshot(user *client.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot = snapshotData{User: user, IsAuthenticated: user != nil}
	return s.writeJSON(sessionFile, s.snapshot)
}

// ClearSnapshot removes the persisted session snapshot
func (s *CredStore) ClearSnapshot() error {
	return s.SaveSnapshot(nil)
}

// Snapshot returns the persisted session snapshot, if any
func (s *CredStore) Snapshot() (*client.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot.User, s.snapshot.IsAuthenticated
}

func (s *CredStore) writeCredentials() error {
	return s.writeJSON(credentialsFile, s.creds)
}

func (s *CredStore) writeJSON(name string, v any) error {
	if err := os.MkdirAll(s.configDir, 0700); err != nil {
		return err
	}
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(s.configDir, name), data, 0600)
}
