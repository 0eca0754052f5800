// ABOUTME: Tests for the dashboard's loading and rendering
// ABOUTME: Backed by an httptest server serving stats and history

package dashboard

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/firefly-health/firefly-cli/internal/client"
)

type memStore struct {
	access, refresh string
}

func (m *memStore) Tokens() (string, string) { return m.access, m.refresh }
func (m *memStore) SetTokens(access, refresh string) error {
	m.access, m.refresh = access, refresh
	return nil
}
func (m *memStore) ClearTokens() error { return m.SetTokens("", "") }

func statsBackend(t *testing.T) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/checkins/stats", func(rw http.ResponseWriter, r *http.Request) {
		avg7 := 6.4
		json.NewEncoder(rw).Encode(client.CheckinStats{
			StreakLength:     4,
			AverageMood7Days: &avg7,
			MoodTrend:        "improving",
			TotalCheckins:    12,
		})
	})
	mux.HandleFunc("/checkins/", func(rw http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("page_size"); got != "5" {
			t.Errorf("expected page_size=5, got %q", got)
		}
		json.NewEncoder(rw).Encode(client.CheckinList{
			Checkins: []client.Checkin{
				{ID: "c1", CreatedAt: time.Now(), MoodScore: 7, EnergyLevel: 5, EmotionTags: []string{"calm"}},
			},
			Total: 1, Page: 1, PageSize: 5,
		})
	})
	return mux
}

func loadModel(t *testing.T, serverURL string) *Model {
	t.Helper()
	api := client.New(serverURL, &memStore{access: "tok"})
	api.SetRefreshLeeway(0)
	m := New(api)

	msg := m.load()()
	batch, ok := msg.(tea.BatchMsg)
	if !ok {
		t.Fatalf("expected a batch, got %T", msg)
	}
	for _, c := range batch {
		switch res := c().(type) {
		case statsMsg, historyMsg:
			m.Update(res)
		}
	}
	return m
}

func TestLoadPopulatesStatsAndHistory(t *testing.T) {
	srv := httptest.NewServer(statsBackend(t))
	defer srv.Close()

	m := loadModel(t, srv.URL)

	if m.loading != 0 {
		t.Errorf("expected all loads settled, loading=%d", m.loading)
	}
	if m.stats == nil || m.stats.StreakLength != 4 {
		t.Fatalf("stats not loaded: %+v", m.stats)
	}
	if m.history == nil || len(m.history.Checkins) != 1 {
		t.Fatalf("history not loaded: %+v", m.history)
	}

	view := m.View()
	if !strings.Contains(view, "4 days") {
		t.Error("view should show the streak")
	}
	if !strings.Contains(view, "6.4") {
		t.Error("view should show the 7-day mood average")
	}
}

func TestLoadFailureShowsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
		rw.WriteHeader(http.StatusInternalServerError)
		rw.Write([]byte(`{"detail": "stats unavailable"}`))
	}))
	defer srv.Close()

	m := loadModel(t, srv.URL)

	if m.errMsg == "" {
		t.Error("expected an error message after failed loads")
	}
	if !strings.Contains(m.View(), "retry") {
		t.Error("error view should offer a retry")
	}
}

func TestEscLeavesDashboard(t *testing.T) {
	api := client.New("http://unused.invalid", &memStore{})
	m := New(api)

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if cmd == nil {
		t.Fatal("expected a back message")
	}
	if _, ok := cmd().(BackMsg); !ok {
		t.Error("expected BackMsg on esc")
	}
}
