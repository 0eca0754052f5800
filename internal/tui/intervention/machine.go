// ABOUTME: Timed intervention session machine as a bubbletea model
// ABOUTME: Idle to Running to AwaitingFeedback, with a cancellable countdown

package intervention

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/firefly-health/firefly-cli/internal/client"
	"github.com/firefly-health/firefly-cli/internal/tui/debuglog"
	"github.com/firefly-health/firefly-cli/internal/tui/styles"
)

// State is the session machine's position
type State int

const (
	Idle State = iota
	Running
	AwaitingFeedback
)

// DoneMsg is sent when a session finishes, with or without feedback
type DoneMsg struct {
	Session *client.InterventionSession
}

// CancelledMsg is sent when the user leaves without starting a session
type CancelledMsg struct{}

// tickMsg drives the countdown. The run number pins each tick to the run
// that scheduled it so ticks from an abandoned run are discarded.
type tickMsg struct {
	run int
}

// startedMsg carries the server's session record. It is keyed by attempt,
// not run: leaving Running must not discard a start response still in
// flight, or the server session would never be reconciled.
type startedMsg struct {
	attempt int
	session *client.InterventionSession
	err     error
}

// completedMsg carries the feedback submission outcome
type completedMsg struct {
	session *client.InterventionSession
	err     error
}

// skippedMsg carries the best-effort skip outcome
type skippedMsg struct {
	err error
}

// ErrSessionActive is returned by Start while a session is already underway
var ErrSessionActive = errors.New("a session is already in progress")

// Machine runs one timed intervention attempt at a time. Start is rejected
// until the previous attempt has fully returned to Idle.
type Machine struct {
	api   *client.Client
	state State
	width int

	intervention client.Intervention
	session      *client.InterventionSession
	checkinID    string
	emotion      string

	total     int
	remaining int
	run       int // increments on every Start and teardown; orphans stale ticks
	attempt   int // increments only on Start; keys the start response

	startPending    bool                    // start response not yet delivered
	pendingComplete *client.SessionComplete // feedback held until the start lands

	feedback    *huh.Form
	ratingBuf   string
	feedbackBuf string
	submitting  bool
	spin        spinner.Model
	errMsg      string
}

// NewMachine creates an idle session machine
func NewMachine(api *client.Client) *Machine {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(styles.Primary)

	return &Machine{api: api, spin: sp}
}

// State returns the machine's current state
func (m *Machine) State() State {
	return m.state
}

// Remaining returns the countdown's remaining seconds
func (m *Machine) Remaining() int {
	return m.remaining
}

// Session returns the server's record for the active or last attempt
func (m *Machine) Session() *client.InterventionSession {
	return m.session
}

// Err returns the current user-facing error message
func (m *Machine) Err() string {
	return m.errMsg
}

// SetWidth sets the render width
func (m *Machine) SetWidth(width int) {
	m.width = width
}

// Init implements tea.Model
func (m *Machine) Init() tea.Cmd {
	return nil
}

// Start begins a timed attempt at the given intervention. Only an Idle
// machine may start: a Running or AwaitingFeedback machine rejects re-entry.
func (m *Machine) Start(in client.Intervention, checkinID, emotion string) (tea.Cmd, error) {
	if m.state != Idle {
		return nil, ErrSessionActive
	}

	m.run++
	m.attempt++
	m.state = Running
	m.intervention = in
	m.session = nil
	m.startPending = true
	m.pendingComplete = nil
	m.checkinID = checkinID
	m.emotion = emotion
	m.total = in.DurationSeconds
	m.remaining = in.DurationSeconds
	m.errMsg = ""

	attempt := m.attempt
	api := m.api
	req := client.SessionStart{
		InterventionID: in.ID,
		CheckinID:      checkinID,
		StartedAt:      time.Now().UTC(),
		ContextEmotion: emotion,
	}

	start := func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		session, err := api.StartSession(ctx, req)
		return startedMsg{attempt: attempt, session: session, err: err}
	}

	return tea.Batch(start, m.tick()), nil
}

// tick schedules the next one-second countdown step for the current run
func (m *Machine) tick() tea.Cmd {
	run := m.run
	return tea.Tick(time.Second, func(time.Time) tea.Msg {
		return tickMsg{run: run}
	})
}

// Update implements tea.Model
func (m *Machine) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case tickMsg:
		return m.handleTick(msg)

	case startedMsg:
		return m.handleStarted(msg)

	case completedMsg:
		return m.handleCompleted(msg)

	case skippedMsg:
		// The machine is already back in Idle; the skip is best effort
		debuglog.Error("session skip", msg.err)
		return m, nil

	case spinner.TickMsg:
		if m.submitting {
			var cmd tea.Cmd
			m.spin, cmd = m.spin.Update(msg)
			return m, cmd
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	if m.state == AwaitingFeedback && !m.submitting {
		return m.updateFeedback(msg)
	}
	return m, nil
}

func (m *Machine) handleTick(msg tickMsg) (tea.Model, tea.Cmd) {
	if m.state != Running || msg.run != m.run {
		return m, nil
	}

	m.remaining--
	if m.remaining <= 0 {
		m.finishCountdown()
		return m, m.feedback.Init()
	}
	return m, m.tick()
}

func (m *Machine) handleStarted(msg startedMsg) (tea.Model, tea.Cmd) {
	if msg.attempt != m.attempt {
		// A newer attempt superseded this one while it was in flight.
		// The server session still exists; reconcile it as skipped.
		if msg.err == nil && msg.session != nil {
			return m, m.skipOrphan(msg.session.ID)
		}
		return m, nil
	}
	m.startPending = false

	if msg.err != nil {
		switch m.state {
		case Running:
			// The attempt never became a server session; tear the run down
			m.teardown()
			m.errMsg = errorMessage(msg.err)
		case AwaitingFeedback:
			// The exercise ran, but nothing exists server-side to complete
			m.errMsg = errorMessage(msg.err)
			if m.pendingComplete != nil {
				m.pendingComplete = nil
				m.teardown()
				return m, func() tea.Msg { return DoneMsg{Session: nil} }
			}
		default:
			debuglog.Error("session start", msg.err)
		}
		return m, nil
	}

	switch m.state {
	case Running:
		m.session = msg.session
		return m, nil
	case AwaitingFeedback:
		// The countdown or an early "done" outpaced the start response
		m.session = msg.session
		if m.pendingComplete != nil {
			req := *m.pendingComplete
			m.pendingComplete = nil
			return m, m.completeSession(msg.session.ID, req)
		}
		return m, nil
	default:
		// Ended early before the server confirmed the start
		return m, m.skipOrphan(msg.session.ID)
	}
}

// skipOrphan records a server session the user already walked away from
func (m *Machine) skipOrphan(id string) tea.Cmd {
	api := m.api
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_, err := api.SkipSession(ctx, id)
		return skippedMsg{err: err}
	}
}

// finishCountdown moves Running to AwaitingFeedback with the timer drained
func (m *Machine) finishCountdown() {
	m.run++ // orphan any tick still in flight
	m.remaining = 0
	m.state = AwaitingFeedback
	m.ratingBuf = "0"
	m.feedbackBuf = ""
	m.feedback = m.createFeedbackForm()
}

// teardown returns the machine to Idle and orphans pending ticks
func (m *Machine) teardown() {
	m.run++
	m.state = Idle
	m.remaining = 0
	m.submitting = false
	m.pendingComplete = nil
	m.feedback = nil
	m.ratingBuf = ""
	m.feedbackBuf = ""
}

func (m *Machine) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.state {
	case Running:
		switch msg.String() {
		case "d", "enter":
			// Done early still counts as completed; skip straight to feedback
			m.finishCountdown()
			return m, m.feedback.Init()
		case "e", "esc":
			return m, m.endEarly()
		}
		return m, nil

	case AwaitingFeedback:
		if msg.String() == "esc" && !m.submitting {
			// Leaving feedback abandons the rating but keeps the session done
			session := m.session
			m.teardown()
			return m, func() tea.Msg { return DoneMsg{Session: session} }
		}
		if !m.submitting {
			return m.updateFeedback(msg)
		}
		return m, nil

	default:
		if msg.String() == "esc" {
			return m, func() tea.Msg { return CancelledMsg{} }
		}
		return m, nil
	}
}

// endEarly abandons the countdown and records the attempt as skipped
func (m *Machine) endEarly() tea.Cmd {
	session := m.session
	m.teardown()

	if session == nil {
		// The start response has not landed; handleStarted reconciles the
		// orphan with a skip when it does
		return func() tea.Msg { return DoneMsg{Session: nil} }
	}

	return tea.Batch(
		m.skipOrphan(session.ID),
		func() tea.Msg { return DoneMsg{Session: session} },
	)
}

func (m *Machine) updateFeedback(msg tea.Msg) (tea.Model, tea.Cmd) {
	form, cmd := m.feedback.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.feedback = f
	}

	if m.feedback.State == huh.StateCompleted {
		return m, m.submitFeedback()
	}
	return m, cmd
}

// submitFeedback sends the completion record with the collected rating
func (m *Machine) submitFeedback() tea.Cmd {
	req := client.SessionComplete{
		CompletedAt:  time.Now().UTC(),
		WasCompleted: true,
		FeedbackText: strings.TrimSpace(m.feedbackBuf),
	}
	if rating, _ := strconv.Atoi(m.ratingBuf); rating >= 1 && rating <= 5 {
		req.EffectivenessRating = &rating
	}

	if m.session == nil {
		if m.startPending {
			// Hold the completion until the start response lands
			m.pendingComplete = &req
			m.submitting = true
			m.errMsg = ""
			return m.spin.Tick
		}
		// The start call failed; nothing exists server-side to complete
		m.teardown()
		return func() tea.Msg { return DoneMsg{Session: nil} }
	}

	m.submitting = true
	m.errMsg = ""
	return tea.Batch(m.spin.Tick, m.completeSession(m.session.ID, req))
}

// completeSession issues the complete call for the given session
func (m *Machine) completeSession(id string, req client.SessionComplete) tea.Cmd {
	api := m.api
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		session, err := api.CompleteSession(ctx, id, req)
		return completedMsg{session: session, err: err}
	}
}

func (m *Machine) handleCompleted(msg completedMsg) (tea.Model, tea.Cmd) {
	m.submitting = false

	if msg.err != nil {
		// Stay on feedback so the rating is not lost
		m.errMsg = errorMessage(msg.err)
		m.feedback = m.createFeedbackForm()
		return m, m.feedback.Init()
	}

	session := msg.session
	m.teardown()
	return m, func() tea.Msg { return DoneMsg{Session: session} }
}

func errorMessage(err error) string {
	var apiErr *client.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return err.Error()
}
