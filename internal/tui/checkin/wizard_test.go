// ABOUTME: Tests for the check-in wizard step machine and crisis branching
// ABOUTME: Drives the model with messages against httptest backends

package checkin

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

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

func newTestWizard(serverURL string) *Wizard {
	api := client.New(serverURL, &memStore{access: "tok"})
	api.SetRefreshLeeway(0)
	return New(api)
}

// runCmd executes a command tree synchronously and returns the messages it
// produced, flattening batches
func runCmd(t *testing.T, cmd tea.Cmd) []tea.Msg {
	t.Helper()
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var msgs []tea.Msg
		for _, c := range batch {
			msgs = append(msgs, runCmd(t, c)...)
		}
		return msgs
	}
	return []tea.Msg{msg}
}

// deliver finds the first message of interest and feeds it back to the model
func deliver(t *testing.T, w *Wizard, cmd tea.Cmd) tea.Cmd {
	t.Helper()
	var next tea.Cmd
	for _, msg := range runCmd(t, cmd) {
		switch msg.(type) {
		case submittedMsg, safeAckMsg, DoneMsg, CancelledMsg:
			_, next = w.Update(msg)
		}
	}
	return next
}

func fillValidDraft(w *Wizard) {
	w.draft.Mood = 6
	w.draft.Energy = 4
	w.draft.Toggle("calm")
}

func checkinResult(crisis bool) client.CheckinResult {
	res := client.CheckinResult{
		Checkin: client.Checkin{
			ID:          "chk-1",
			MoodScore:   6,
			EnergyLevel: 4,
			EmotionTags: []string{"calm"},
		},
		Recommendations: []client.Recommendation{
			{InterventionID: "int-1", Name: "Box breathing", DurationSeconds: 120},
		},
		CrisisAlert: crisis,
	}
	if crisis {
		res.CrisisResources = &client.CrisisResources{
			Message:  "Support is available right now.",
			Hotlines: []client.Hotline{{Name: "988 Lifeline", Number: "988"}},
		}
	}
	return res
}

func TestNextRequiresCurrentStepField(t *testing.T) {
	w := newTestWizard("http://unused.invalid")

	if w.Step() != StepMood {
		t.Fatalf("expected StepMood, got %v", w.Step())
	}
	if w.Next() {
		t.Error("Next should refuse while mood is unset")
	}
	if w.Step() != StepMood {
		t.Errorf("step moved to %v without a mood", w.Step())
	}

	w.draft.Mood = 7
	if !w.Next() {
		t.Fatal("Next should advance once mood is set")
	}
	if w.Step() != StepEnergy {
		t.Errorf("expected StepEnergy, got %v", w.Step())
	}

	if w.Next() {
		t.Error("Next should refuse while energy is unset")
	}
	w.draft.Energy = 3
	if !w.Next() {
		t.Fatal("Next should advance once energy is set")
	}

	if w.Next() {
		t.Error("Next should refuse while no emotions are selected")
	}
	w.draft.Toggle("tired")
	if !w.Next() {
		t.Fatal("Next should advance once an emotion is selected")
	}
	if w.Step() != StepContext {
		t.Errorf("expected StepContext, got %v", w.Step())
	}

	// Context has no requirement
	if !w.Next() {
		t.Fatal("Next should advance past Context unconditionally")
	}
	if w.Step() != StepJournal {
		t.Errorf("expected StepJournal, got %v", w.Step())
	}

	// Journal is left via submission, never via Next
	if w.Next() {
		t.Error("Next should refuse at the journal step")
	}
}

func TestBackNeverPassesMood(t *testing.T) {
	w := newTestWizard("http://unused.invalid")

	if w.Back() {
		t.Error("Back should refuse at the first step")
	}

	w.draft.Mood = 5
	w.Next()
	if !w.Back() {
		t.Fatal("Back should return from Energy to Mood")
	}
	if w.Step() != StepMood {
		t.Errorf("expected StepMood, got %v", w.Step())
	}
}

func TestToggleEmotionTwiceRestoresDraft(t *testing.T) {
	d := NewDraft()
	d.Toggle("calm")
	d.Toggle("anxious")
	d.Toggle("anxious")

	tags := d.Tags()
	if len(tags) != 1 || tags[0] != "calm" {
		t.Errorf("expected [calm], got %v", tags)
	}
}

func TestSubmitInvalidDraftNeverReachesNetwork(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		rw.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	w := newTestWizard(srv.URL)
	w.step = StepJournal // draft still empty

	cmd := w.submit()
	deliver(t, w, cmd)

	if n := atomic.LoadInt32(&calls); n != 0 {
		t.Errorf("invalid draft reached the network %d times", n)
	}
	if w.Err() == "" {
		t.Error("expected a validation message for the incomplete draft")
	}
	if w.Step() != StepJournal {
		t.Errorf("expected to stay at StepJournal, got %v", w.Step())
	}
}

func TestSubmitHappyPathCompletes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/checkins/" || r.Method != http.MethodPost {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		var req client.CheckinCreate
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode checkin: %v", err)
		}
		if req.MoodScore != 6 || req.EnergyLevel != 4 {
			t.Errorf("unexpected payload: mood=%d energy=%d", req.MoodScore, req.EnergyLevel)
		}
		rw.WriteHeader(http.StatusCreated)
		json.NewEncoder(rw).Encode(checkinResult(false))
	}))
	defer srv.Close()

	w := newTestWizard(srv.URL)
	fillValidDraft(w)
	w.step = StepJournal

	deliver(t, w, w.submit())

	if w.Step() != StepComplete {
		t.Errorf("expected StepComplete, got %v", w.Step())
	}
	if w.InCrisis() {
		t.Error("no crisis was flagged by the server")
	}
	if w.Result() == nil || len(w.Result().Recommendations) != 1 {
		t.Error("expected the server's recommendations on the result")
	}
}

func TestSubmitFailureKeepsJournalAndDraft(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
		rw.WriteHeader(http.StatusInternalServerError)
		rw.Write([]byte(`{"detail": "something went wrong"}`))
	}))
	defer srv.Close()

	w := newTestWizard(srv.URL)
	fillValidDraft(w)
	w.draft.Journal = "long day"
	w.step = StepJournal

	deliver(t, w, w.submit())

	if w.Step() != StepJournal {
		t.Errorf("expected to stay at StepJournal, got %v", w.Step())
	}
	if w.Err() != "something went wrong" {
		t.Errorf("expected the server detail, got %q", w.Err())
	}
	if w.Draft().Journal != "long day" {
		t.Error("draft should survive a failed submission")
	}
}

func TestKeysIgnoredWhileSubmitting(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
		rw.WriteHeader(http.StatusCreated)
		json.NewEncoder(rw).Encode(checkinResult(false))
	}))
	defer srv.Close()

	w := newTestWizard(srv.URL)
	fillValidDraft(w)
	w.step = StepJournal

	cmd := w.submit()
	if !w.submitting {
		t.Fatal("expected submitting after submit")
	}

	// Neither cancel nor back may move the wizard mid-flight
	_, escCmd := w.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if escCmd != nil {
		t.Error("esc should be ignored while submitting")
	}
	w.Update(tea.KeyMsg{Type: tea.KeyCtrlB})
	if w.Step() != StepJournal {
		t.Errorf("step moved during submission, got %v", w.Step())
	}

	deliver(t, w, cmd)
	if w.Step() != StepComplete {
		t.Errorf("expected StepComplete after the response, got %v", w.Step())
	}
}

func TestCrisisAlertShowsOverlayBeforeComplete(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
		rw.WriteHeader(http.StatusCreated)
		json.NewEncoder(rw).Encode(checkinResult(true))
	}))
	defer srv.Close()

	w := newTestWizard(srv.URL)
	fillValidDraft(w)
	w.draft.Mood = 1
	w.step = StepJournal

	deliver(t, w, w.submit())

	if !w.InCrisis() {
		t.Fatal("expected the crisis overlay after a crisis alert")
	}
	if w.Step() == StepComplete {
		t.Error("completion must wait for the safety acknowledgement")
	}
	if w.resources == nil || len(w.resources.Hotlines) == 0 {
		t.Error("expected crisis hotlines on the overlay")
	}
}

func TestSafeAckCompletesEvenWhenServerFails(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/crisis/safe-now" {
			rw.WriteHeader(http.StatusInternalServerError)
			rw.Write([]byte(`{"detail": "unavailable"}`))
			return
		}
		rw.WriteHeader(http.StatusCreated)
		json.NewEncoder(rw).Encode(checkinResult(true))
	}))
	defer srv.Close()

	w := newTestWizard(srv.URL)
	fillValidDraft(w)
	w.step = StepJournal
	deliver(t, w, w.submit())

	if !w.InCrisis() {
		t.Fatal("expected the crisis overlay")
	}

	_, cmd := w.Update(tea.KeyMsg{Type: tea.KeyEnter})
	deliver(t, w, cmd)

	if w.InCrisis() {
		t.Error("overlay should close on acknowledgement")
	}
	if w.Step() != StepComplete {
		t.Errorf("expected StepComplete despite the server failure, got %v", w.Step())
	}
}

func TestBackDisabledDuringCrisis(t *testing.T) {
	w := newTestWizard("http://unused.invalid")
	fillValidDraft(w)
	w.step = StepJournal
	w.crisis = true

	if w.Back() {
		t.Error("Back must be disabled while the crisis overlay is up")
	}
}

func TestStartNewResetsEverything(t *testing.T) {
	w := newTestWizard("http://unused.invalid")
	fillValidDraft(w)
	w.draft.Journal = "notes"
	w.step = StepComplete
	w.result = &client.CheckinResult{}
	w.errMsg = "stale"

	w.StartNew()

	if w.Step() != StepMood {
		t.Errorf("expected StepMood, got %v", w.Step())
	}
	if w.Draft().Valid() {
		t.Error("draft should be empty after reset")
	}
	if w.Result() != nil || w.Err() != "" {
		t.Error("result and error should clear on reset")
	}
}

func TestCompleteKeysStartNewAndDone(t *testing.T) {
	w := newTestWizard("http://unused.invalid")
	fillValidDraft(w)
	w.step = StepComplete

	_, cmd := w.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'n'}})
	if w.Step() != StepMood {
		t.Errorf("'n' should start a new check-in, step=%v", w.Step())
	}
	_ = cmd

	w.step = StepComplete
	_, cmd = w.Update(tea.KeyMsg{Type: tea.KeyEsc})
	msgs := runCmd(t, cmd)
	if len(msgs) != 1 {
		t.Fatalf("expected one message, got %d", len(msgs))
	}
	if _, ok := msgs[0].(DoneMsg); !ok {
		t.Errorf("expected DoneMsg, got %T", msgs[0])
	}
}

func TestEscCancelsMidFlow(t *testing.T) {
	w := newTestWizard("http://unused.invalid")
	w.draft.Mood = 5
	w.Next()

	_, cmd := w.Update(tea.KeyMsg{Type: tea.KeyEsc})
	msgs := runCmd(t, cmd)
	if len(msgs) != 1 {
		t.Fatalf("expected one message, got %d", len(msgs))
	}
	if _, ok := msgs[0].(CancelledMsg); !ok {
		t.Errorf("expected CancelledMsg, got %T", msgs[0])
	}
}
