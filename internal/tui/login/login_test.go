// ABOUTME: Tests for the sign-in screen's submission and error handling
// ABOUTME: Uses a real auth manager against an httptest backend

package login

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/firefly-health/firefly-cli/internal/auth"
	"github.com/firefly-health/firefly-cli/internal/client"
)

func authBackend(t *testing.T) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/login", func(rw http.ResponseWriter, r *http.Request) {
		var req client.LoginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode login: %v", err)
		}
		if req.Password != "correct horse" {
			rw.WriteHeader(http.StatusUnauthorized)
			rw.Write([]byte(`{"detail": "Incorrect email or password"}`))
			return
		}
		json.NewEncoder(rw).Encode(client.TokenPair{AccessToken: "acc-1", RefreshToken: "ref-1"})
	})
	mux.HandleFunc("/auth/me", func(rw http.ResponseWriter, r *http.Request) {
		json.NewEncoder(rw).Encode(client.User{ID: "u1", Email: "a@b.c", DisplayName: "Ada"})
	})
	return mux
}

func newTestModel(t *testing.T, serverURL string) *Model {
	t.Helper()
	creds := auth.NewCredStore(t.TempDir())
	api := client.New(serverURL, creds)
	api.SetRefreshLeeway(0)
	return New(auth.NewManager(api, creds, auth.NewStore()))
}

// runSubmit executes the submit batch and feeds the auth result back
func runSubmit(t *testing.T, m *Model) tea.Cmd {
	t.Helper()
	var next tea.Cmd
	msg := m.submit()()
	batch, ok := msg.(tea.BatchMsg)
	if !ok {
		t.Fatalf("expected a batch, got %T", msg)
	}
	for _, c := range batch {
		if res, isResult := c().(authResultMsg); isResult {
			_, next = m.Update(res)
		}
	}
	return next
}

func TestSubmitSuccessEmitsAuthenticated(t *testing.T) {
	srv := httptest.NewServer(authBackend(t))
	defer srv.Close()

	m := newTestModel(t, srv.URL)
	m.emailBuf = "a@b.c"
	m.passwordBuf = "correct horse"

	cmd := runSubmit(t, m)
	if cmd == nil {
		t.Fatal("expected a follow-up message")
	}
	if _, ok := cmd().(AuthenticatedMsg); !ok {
		t.Error("expected AuthenticatedMsg after a successful sign-in")
	}

	sess := m.manager.Session().Snapshot()
	if !sess.IsAuthenticated || sess.User == nil || sess.User.DisplayName != "Ada" {
		t.Errorf("session not established: %+v", sess)
	}
}

func TestSubmitBadPasswordShowsServerMessage(t *testing.T) {
	srv := httptest.NewServer(authBackend(t))
	defer srv.Close()

	m := newTestModel(t, srv.URL)
	m.emailBuf = "a@b.c"
	m.passwordBuf = "wrong password"

	cmd := runSubmit(t, m)
	if cmd != nil {
		t.Error("a failed sign-in should not emit AuthenticatedMsg")
	}
	if m.Err() != "Incorrect email or password" {
		t.Errorf("expected the server detail, got %q", m.Err())
	}
	if m.busy {
		t.Error("busy flag should clear after the result")
	}
}

func TestToggleSwitchesToRegister(t *testing.T) {
	m := newTestModel(t, "http://unused.invalid")

	m.Update(tea.KeyMsg{Type: tea.KeyCtrlR})
	if m.mode != modeRegister {
		t.Errorf("expected register mode, got %v", m.mode)
	}

	m.Update(tea.KeyMsg{Type: tea.KeyCtrlR})
	if m.mode != modeSignIn {
		t.Errorf("expected sign-in mode, got %v", m.mode)
	}
}

func TestEscQuits(t *testing.T) {
	m := newTestModel(t, "http://unused.invalid")

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if cmd == nil {
		t.Fatal("expected a quit message")
	}
	if _, ok := cmd().(QuitMsg); !ok {
		t.Error("expected QuitMsg on esc")
	}
}
