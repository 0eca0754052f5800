// ABOUTME: Tests for the Firefly API client
// ABOUTME: Uses httptest to verify bearer handling and the refresh protocol

package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// memStore is an in-memory CredentialStore for tests
type memStore struct {
	mu      sync.Mutex
	access  string
	refresh string
}

func (m *memStore) Tokens() (string, string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.access, m.refresh
}

func (m *memStore) SetTokens(access, refresh string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.access = access
	m.refresh = refresh
	return nil
}

func (m *memStore) ClearTokens() error {
	return m.SetTokens("", "")
}

func newTestClient(serverURL string, store *memStore) *Client {
	c := New(serverURL, store)
	c.SetRefreshLeeway(0)
	return c
}

func TestMe_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/me" {
			t.Errorf("expected path /auth/me, got %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer tok-1" {
			t.Errorf("expected bearer tok-1, got %q", got)
		}
		json.NewEncoder(w).Encode(User{ID: "u1", Email: "a@b.test"})
	}))
	defer server.Close()

	store := &memStore{access: "tok-1", refresh: "ref-1"}
	c := newTestClient(server.URL, store)

	user, err := c.Me(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.Email != "a@b.test" {
		t.Errorf("expected email a@b.test, got %s", user.Email)
	}
}

func TestMe_NoAccessToken(t *testing.T) {
	store := &memStore{}
	c := newTestClient("http://localhost:0", store)

	_, err := c.Me(context.Background())
	if err == nil {
		t.Fatal("expected error without credentials, got nil")
	}
}

func TestClientID_Header(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("X-Client-ID"); got != "install-42" {
			t.Errorf("expected X-Client-ID install-42, got %q", got)
		}
		json.NewEncoder(w).Encode(User{ID: "u1"})
	}))
	defer server.Close()

	store := &memStore{access: "tok-1", refresh: "ref-1"}
	c := newTestClient(server.URL, store)
	c.SetClientID("install-42")

	if _, err := c.Me(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestRefresh_SingleFlightUnderConcurrency(t *testing.T) {
	var refreshCalls int64

	mux := http.NewServeMux()
	mux.HandleFunc("/auth/me", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer tok-new" {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]string{"detail": "Could not validate credentials"})
			return
		}
		json.NewEncoder(w).Encode(User{ID: "u1"})
	})
	mux.HandleFunc("/auth/refresh", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&refreshCalls, 1)
		// Hold the refresh open so all concurrent 401s pile onto it
		time.Sleep(50 * time.Millisecond)
		json.NewEncoder(w).Encode(TokenPair{AccessToken: "tok-new", RefreshToken: "ref-new"})
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	store := &memStore{access: "tok-stale", refresh: "ref-1"}
	c := newTestClient(server.URL, store)

	const callers = 5
	errs := make(chan error, callers)
	for i := 0; i < callers; i++ {
		go func() {
			_, err := c.Me(context.Background())
			errs <- err
		}()
	}
	for i := 0; i < callers; i++ {
		if err := <-errs; err != nil {
			t.Errorf("caller %d: unexpected error: %v", i, err)
		}
	}

	if n := atomic.LoadInt64(&refreshCalls); n != 1 {
		t.Errorf("expected exactly 1 refresh call, got %d", n)
	}

	access, refresh := store.Tokens()
	if access != "tok-new" || refresh != "ref-new" {
		t.Errorf("expected refreshed pair persisted, got access=%q refresh=%q", access, refresh)
	}
}

func TestRefresh_FailureClearsCredentials(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/me", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"detail": "Could not validate credentials"})
	})
	mux.HandleFunc("/auth/refresh", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"detail": "Invalid refresh token"})
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	store := &memStore{access: "tok-stale", refresh: "ref-bad"}
	c := newTestClient(server.URL, store)

	var expiredCalled bool
	c.OnAuthExpired(func() { expiredCalled = true })

	_, err := c.Me(context.Background())
	if err == nil {
		t.Fatal("expected error after failed refresh, got nil")
	}

	access, refresh := store.Tokens()
	if access != "" || refresh != "" {
		t.Errorf("expected cleared credentials, got access=%q refresh=%q", access, refresh)
	}
	if !expiredCalled {
		t.Error("expected auth-expired handler to be called")
	}
}

func TestRefresh_CallerCancellationDoesNotFailSharedRefresh(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/me", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer tok-new" {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]string{"detail": "expired"})
			return
		}
		json.NewEncoder(w).Encode(User{ID: "u1"})
	})
	mux.HandleFunc("/auth/refresh", func(w http.ResponseWriter, r *http.Request) {
		// Outlive the triggering caller's deadline
		time.Sleep(150 * time.Millisecond)
		json.NewEncoder(w).Encode(TokenPair{AccessToken: "tok-new", RefreshToken: "ref-new"})
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	store := &memStore{access: "tok-stale", refresh: "ref-1"}
	c := newTestClient(server.URL, store)

	var expiredCalled bool
	c.OnAuthExpired(func() { expiredCalled = true })

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Millisecond)
	defer cancel()

	// The caller's own retry dies with its deadline, but the refresh it
	// triggered must complete and persist the new pair
	if _, err := c.Me(ctx); err == nil {
		t.Fatal("expected the caller's deadline to fail its retry")
	}

	access, refresh := store.Tokens()
	if access != "tok-new" || refresh != "ref-new" {
		t.Errorf("expected refreshed pair persisted despite caller cancellation, got access=%q refresh=%q", access, refresh)
	}
	if expiredCalled {
		t.Error("a caller's cancellation must not force a logout")
	}
}

func TestRefresh_RequestRetriedAtMostOnce(t *testing.T) {
	var meCalls, refreshCalls int64

	mux := http.NewServeMux()
	mux.HandleFunc("/auth/me", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&meCalls, 1)
		// Still 401 even with the new token: the retried request must not
		// trigger a second refresh round
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"detail": "nope"})
	})
	mux.HandleFunc("/auth/refresh", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&refreshCalls, 1)
		json.NewEncoder(w).Encode(TokenPair{AccessToken: "tok-new", RefreshToken: "ref-new"})
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	store := &memStore{access: "tok-stale", refresh: "ref-1"}
	c := newTestClient(server.URL, store)

	_, err := c.Me(context.Background())
	if err == nil {
		t.Fatal("expected error, got nil")
	}

	if n := atomic.LoadInt64(&meCalls); n != 2 {
		t.Errorf("expected original + 1 retry = 2 calls, got %d", n)
	}
	if n := atomic.LoadInt64(&refreshCalls); n != 1 {
		t.Errorf("expected 1 refresh call, got %d", n)
	}
}

func TestRefresh_NoRefreshTokenSkipsProtocol(t *testing.T) {
	var refreshCalls int64

	mux := http.NewServeMux()
	mux.HandleFunc("/auth/me", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"detail": "expired"})
	})
	mux.HandleFunc("/auth/refresh", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&refreshCalls, 1)
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	store := &memStore{access: "tok-stale"}
	c := newTestClient(server.URL, store)

	_, err := c.Me(context.Background())
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if n := atomic.LoadInt64(&refreshCalls); n != 0 {
		t.Errorf("expected no refresh calls without a refresh token, got %d", n)
	}
}

func TestProactiveRefresh_ExpiringToken(t *testing.T) {
	// A real (unverified) JWT that expired a minute ago
	expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "u1",
		"exp": time.Now().Add(-time.Minute).Unix(),
	}).SignedString([]byte("test-key"))
	if err != nil {
		t.Fatalf("failed to sign test token: %v", err)
	}

	var refreshCalls int64
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/me", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer tok-new" {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]string{"detail": "expired"})
			return
		}
		json.NewEncoder(w).Encode(User{ID: "u1"})
	})
	mux.HandleFunc("/auth/refresh", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&refreshCalls, 1)
		json.NewEncoder(w).Encode(TokenPair{AccessToken: "tok-new", RefreshToken: "ref-new"})
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	store := &memStore{access: expired, refresh: "ref-1"}
	c := New(server.URL, store)
	c.SetRefreshLeeway(30 * time.Second)

	if _, err := c.Me(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n := atomic.LoadInt64(&refreshCalls); n != 1 {
		t.Errorf("expected 1 proactive refresh, got %d", n)
	}
}

func TestLogin_ServerErrorMessage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"detail": "Incorrect email or password"})
	}))
	defer server.Close()

	c := newTestClient(server.URL, &memStore{})
	_, err := c.Login(context.Background(), "a@b.test", "wrong")
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	apiErr, ok := err.(*APIError)
	if !ok {
		t.Fatalf("expected *APIError, got %T", err)
	}
	if apiErr.Message != "Incorrect email or password" {
		t.Errorf("expected server message, got %q", apiErr.Message)
	}
}

func TestCreateCheckin_ContextCancellation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(100 * time.Millisecond)
		json.NewEncoder(w).Encode(CheckinResult{})
	}))
	defer server.Close()

	store := &memStore{access: "tok-1", refresh: "ref-1"}
	c := newTestClient(server.URL, store)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.CreateCheckin(ctx, CheckinCreate{MoodScore: 5, EnergyLevel: 5, EmotionTags: []string{"calm"}})
	if err == nil {
		t.Error("expected error for canceled context, got nil")
	}
}
