// ABOUTME: Crisis support screen as a bubbletea model
// ABOUTME: Shows hotlines immediately and lets the user self-report

package crisis

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/firefly-health/firefly-cli/internal/client"
	"github.com/firefly-health/firefly-cli/internal/tui/debuglog"
	"github.com/firefly-health/firefly-cli/internal/tui/icons"
	"github.com/firefly-health/firefly-cli/internal/tui/styles"
)

// BackMsg is sent when the user leaves the crisis screen
type BackMsg struct{}

// resourcesMsg carries the hotline listing
type resourcesMsg struct {
	resources *client.CrisisResources
	err       error
}

// reportedMsg carries the self-report outcome
type reportedMsg struct {
	report *client.CrisisReport
	err    error
}

// fallbackResources is shown when the server cannot be reached. The screen
// must never be empty: a hotline the user can dial always renders.
var fallbackResources = client.CrisisResources{
	Message: "If you are in immediate danger, call your local emergency number.",
	Hotlines: []client.Hotline{
		{Name: "988 Suicide & Crisis Lifeline", Number: "988", Description: "24/7 call or text", Type: "call"},
		{Name: "Crisis Text Line", Number: "741741", Description: "Text HOME", Type: "text"},
	},
}

// Model is the crisis support screen
type Model struct {
	api   *client.Client
	width int

	resources *client.CrisisResources
	report    *client.CrisisReport
	reported  bool
	offline   bool
}

// New creates a crisis screen that loads resources on Init
func New(api *client.Client) *Model {
	return &Model{api: api, resources: &fallbackResources}
}

// Init implements tea.Model
func (m *Model) Init() tea.Cmd {
	api := m.api
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		resources, err := api.CrisisResources(ctx)
		return resourcesMsg{resources: resources, err: err}
	}
}

// SetWidth sets the render width
func (m *Model) SetWidth(width int) {
	m.width = width
}

// Update implements tea.Model
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case resourcesMsg:
		if msg.err != nil {
			// Keep the built-in hotlines on screen
			debuglog.Error("crisis resources", msg.err)
			m.offline = true
			return m, nil
		}
		m.offline = false
		m.resources = msg.resources
		return m, nil

	case reportedMsg:
		if msg.err != nil {
			debuglog.Error("crisis report", msg.err)
			return m, nil
		}
		m.report = msg.report
		m.resources = &msg.report.Resources
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "r":
			if !m.reported {
				m.reported = true
				return m, m.reportCrisis()
			}
		case "esc", "q":
			return m, func() tea.Msg { return BackMsg{} }
		}
	}
	return m, nil
}

// reportCrisis records a user-initiated crisis so a follow-up can happen
func (m *Model) reportCrisis() tea.Cmd {
	api := m.api
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		report, err := api.ReportCrisis(ctx)
		return reportedMsg{report: report, err: err}
	}
}

// View implements tea.Model
func (m *Model) View() string {
	var b strings.Builder

	b.WriteString(styles.StatusCritical.Render(fmt.Sprintf("%s Crisis Support", icons.Shield)))
	b.WriteString("\n\n")

	if m.report != nil && m.report.Message != "" {
		b.WriteString(m.report.Message)
		b.WriteString("\n\n")
	} else if m.resources.Message != "" {
		b.WriteString(m.resources.Message)
		b.WriteString("\n\n")
	}

	for _, h := range m.resources.Hotlines {
		b.WriteString(fmt.Sprintf("%s %s  %s\n", icons.Lifeline,
			styles.ValueStyle.Render(h.Name),
			styles.KeyStyle.Render(h.Number)))
		if h.Description != "" {
			b.WriteString("   " + styles.Subtitle.Render(h.Description) + "\n")
		}
	}

	if m.offline {
		b.WriteString("\n")
		b.WriteString(styles.Subtitle.Render("Showing built-in numbers; the full list could not be loaded."))
	}

	b.WriteString("\n")
	if m.reported {
		b.WriteString(styles.StatusOK.Render(fmt.Sprintf("%s Someone will reach out to check on you.", icons.CheckOK)))
		b.WriteString("\n")
	}
	b.WriteString(styles.Help.Render(fmt.Sprintf("%s I need help now · %s back",
		styles.KeyStyle.Render("r"), styles.KeyStyle.Render("esc"))))

	panel := styles.CrisisPanel.Render(b.String())
	if m.width > 0 {
		return lipgloss.Place(m.width, lipgloss.Height(panel)+2, lipgloss.Center, lipgloss.Top, panel)
	}
	return panel
}
