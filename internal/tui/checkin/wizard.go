// ABOUTME: Five-step check-in wizard as a bubbletea model
// ABOUTME: Collects a validated draft, submits it, and branches into the crisis flow

package checkin

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

// Step is the wizard's position. StepComplete renders the result screen.
type Step int

const (
	StepMood Step = iota
	StepEnergy
	StepEmotions
	StepContext
	StepJournal
	StepComplete
)

var stepNames = []string{"Mood", "Energy", "Emotions", "Context", "Journal"}

// DoneMsg is sent when the user leaves the wizard from the result screen
type DoneMsg struct{}

// CancelledMsg is sent when the user abandons the check-in flow
type CancelledMsg struct{}

// submittedMsg carries the create-checkin response
type submittedMsg struct {
	result *client.CheckinResult
	err    error
}

// safeAckMsg carries the best-effort safe-now acknowledgement outcome
type safeAckMsg struct {
	err error
}

// emotionTags is the selectable tag set
var emotionTags = []string{
	"joy", "calm", "content", "hopeful", "focused",
	"anxious", "stressed", "overwhelmed", "restless",
	"sad", "angry", "frustrated", "tired", "numb",
}

// Wizard collects a check-in across ordered steps and submits it.
// The step machine (CanProceed/Next/Back) is independent of the forms so the
// transition rules hold no matter how input arrives.
type Wizard struct {
	api   *client.Client
	draft Draft
	step  Step
	form  *huh.Form
	width int

	crisis     bool
	resources  *client.CrisisResources
	result     *client.CheckinResult
	submitting bool
	spin       spinner.Model
	errMsg     string

	// Form field buffers (strings for huh)
	moodBuf     string
	energyBuf   string
	anxietyBuf  string
	stressBuf   string
	emotionsBuf []string
	locationBuf string
	activityBuf string
	socialBuf   string
	journalBuf  string
}

// New creates a wizard starting at the mood step with an empty draft
func New(api *client.Client) *Wizard {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(styles.Primary)

	w := &Wizard{
		api:        api,
		draft:      NewDraft(),
		anxietyBuf: "0",
		stressBuf:  "0",
		spin:       sp,
	}
	w.form = w.createForm()
	return w
}

// Step returns the wizard's current position
func (w *Wizard) Step() Step {
	return w.step
}

// Draft returns the accumulated draft
func (w *Wizard) Draft() *Draft {
	return &w.draft
}

// InCrisis reports whether the crisis overlay is active
func (w *Wizard) InCrisis() bool {
	return w.crisis
}

// Result returns the server response after a successful submission
func (w *Wizard) Result() *client.CheckinResult {
	return w.result
}

// Err returns the current user-facing error message
func (w *Wizard) Err() string {
	return w.errMsg
}

// CanProceed reports whether the current step's required field is set.
// Context and Journal have no requirement.
func (w *Wizard) CanProceed() bool {
	switch w.step {
	case StepMood:
		return w.draft.Mood >= 1 && w.draft.Mood <= 10
	case StepEnergy:
		return w.draft.Energy >= 1 && w.draft.Energy <= 10
	case StepEmotions:
		return len(w.draft.Emotions) > 0
	case StepContext, StepJournal:
		return true
	default:
		return false
	}
}

// Next advances one step when the current step's requirement holds.
// Leaving Journal happens through submission, never through Next.
func (w *Wizard) Next() bool {
	if w.step >= StepJournal || !w.CanProceed() {
		return false
	}
	w.step++
	w.form = w.createForm()
	return true
}

// Back moves one step backward without validation
func (w *Wizard) Back() bool {
	if w.step <= StepMood || w.step >= StepComplete || w.crisis {
		return false
	}
	w.step--
	w.form = w.createForm()
	return true
}

// StartNew resets the draft and returns to the mood step
func (w *Wizard) StartNew() {
	w.draft = NewDraft()
	w.step = StepMood
	w.crisis = false
	w.resources = nil
	w.result = nil
	w.errMsg = ""
	w.moodBuf = ""
	w.energyBuf = ""
	w.anxietyBuf = "0"
	w.stressBuf = "0"
	w.emotionsBuf = nil
	w.locationBuf = ""
	w.activityBuf = ""
	w.socialBuf = ""
	w.journalBuf = ""
	w.form = w.createForm()
}

// Init implements tea.Model
func (w *Wizard) Init() tea.Cmd {
	return w.form.Init()
}

// SetWidth sets the wizard width for proper rendering
func (w *Wizard) SetWidth(width int) {
	w.width = width
}

// Update implements tea.Model
func (w *Wizard) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		w.width = msg.Width
		form, cmd := w.form.Update(msg)
		if f, ok := form.(*huh.Form); ok {
			w.form = f
		}
		return w, cmd

	case tea.KeyMsg:
		if w.crisis {
			return w.updateCrisis(msg)
		}
		if w.step == StepComplete {
			return w.updateComplete(msg)
		}
		if w.submitting {
			// No navigation while the submission is in flight; the response
			// decides the next step
			return w, nil
		}
		switch msg.String() {
		case "esc":
			return w, func() tea.Msg { return CancelledMsg{} }
		case "ctrl+b":
			w.Back()
			return w, w.form.Init()
		}

	case submittedMsg:
		return w.handleSubmitted(msg)

	case safeAckMsg:
		// Best effort only; the transition to Complete already happened
		debuglog.Error("safe-now acknowledgement", msg.err)
		return w, nil

	case spinner.TickMsg:
		if w.submitting {
			var cmd tea.Cmd
			w.spin, cmd = w.spin.Update(msg)
			return w, cmd
		}
		return w, nil
	}

	if w.submitting || w.crisis || w.step == StepComplete {
		return w, nil
	}

	form, cmd := w.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		w.form = f
	}

	if w.form.State == huh.StateCompleted {
		return w.advanceStep()
	}

	return w, cmd
}

// advanceStep parses the completed form into the draft and moves forward.
// Completing the Journal form submits.
func (w *Wizard) advanceStep() (tea.Model, tea.Cmd) {
	switch w.step {
	case StepMood:
		w.draft.Mood, _ = strconv.Atoi(w.moodBuf)
	case StepEnergy:
		w.draft.Energy, _ = strconv.Atoi(w.energyBuf)
		w.draft.Anxiety, _ = strconv.Atoi(w.anxietyBuf)
		w.draft.Stress, _ = strconv.Atoi(w.stressBuf)
	case StepEmotions:
		w.draft.Emotions = make(map[string]struct{}, len(w.emotionsBuf))
		for _, tag := range w.emotionsBuf {
			w.draft.Emotions[tag] = struct{}{}
		}
	case StepContext:
		w.draft.Location = strings.TrimSpace(w.locationBuf)
		w.draft.Activity = strings.TrimSpace(w.activityBuf)
		w.draft.Social = strings.TrimSpace(w.socialBuf)
	case StepJournal:
		w.draft.Journal = strings.TrimSpace(w.journalBuf)
		return w, w.submit()
	}

	if !w.Next() {
		// Requirement not met; re-open the same step
		w.form = w.createForm()
	}
	return w, w.form.Init()
}

// submit issues the create-checkin call. An invalid draft never reaches the
// network: the advance controls keep this unreachable, so hitting it means a
// bug upstream, not a user-facing validation case.
func (w *Wizard) submit() tea.Cmd {
	if !w.draft.Valid() {
		w.errMsg = "Check-in is incomplete"
		w.form = w.createForm()
		return w.form.Init()
	}

	w.submitting = true
	w.errMsg = ""
	req := w.draft.Request()
	api := w.api

	return tea.Batch(w.spin.Tick, func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
		defer cancel()
		result, err := api.CreateCheckin(ctx, req)
		return submittedMsg{result: result, err: err}
	})
}

func (w *Wizard) handleSubmitted(msg submittedMsg) (tea.Model, tea.Cmd) {
	w.submitting = false

	if msg.err != nil {
		// Stay on Journal with the draft intact so the user retries in place
		w.errMsg = errorMessage(msg.err)
		w.form = w.createForm()
		return w, w.form.Init()
	}

	w.result = msg.result
	if msg.result.CrisisAlert {
		w.crisis = true
		w.resources = msg.result.CrisisResources
		return w, nil
	}

	w.step = StepComplete
	return w, nil
}

func (w *Wizard) updateCrisis(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter", "s":
		return w, w.acknowledgeSafe()
	}
	return w, nil
}

// acknowledgeSafe leaves the crisis overlay. The server notification is
// best-effort: the local transition to Complete does not wait on it.
func (w *Wizard) acknowledgeSafe() tea.Cmd {
	w.crisis = false
	w.step = StepComplete
	api := w.api

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return safeAckMsg{err: api.MarkSafeNow(ctx)}
	}
}

func (w *Wizard) updateComplete(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "n":
		w.StartNew()
		return w, w.form.Init()
	case "esc", "q", "enter":
		return w, func() tea.Msg { return DoneMsg{} }
	}
	return w, nil
}

func errorMessage(err error) string {
	var apiErr *client.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return err.Error()
}
