// ABOUTME: Main menu for the TUI
// ABOUTME: Routes to check-in, interventions, dashboard, and crisis support

package menu

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/firefly-health/firefly-cli/internal/tui/icons"
	"github.com/firefly-health/firefly-cli/internal/tui/styles"
)

// Action is the destination the user picked
type Action int

const (
	ActionCheckin Action = iota
	ActionInterventions
	ActionDashboard
	ActionCrisis
	ActionLogout
)

// SelectedMsg is sent when the user picks a menu entry
type SelectedMsg struct {
	Action Action
}

// QuitMsg is sent when the user quits from the menu
type QuitMsg struct{}

type entry struct {
	icon  icons.Icon
	label string
	hint  string
	value Action
}

// Menu is the main menu model
type Menu struct {
	entries  []entry
	cursor   int
	greeting string
	width    int
}

// New creates the main menu. The greeting, usually the user's display name,
// shows in the header.
func New(greeting string) *Menu {
	return &Menu{
		greeting: greeting,
		entries: []entry{
			{icons.Heart, "Daily check-in", "a minute to notice how you feel", ActionCheckin},
			{icons.Timer, "Interventions", "guided exercises for right now", ActionInterventions},
			{icons.Streak, "Dashboard", "your streak and mood trends", ActionDashboard},
			{icons.Lifeline, "Crisis support", "immediate help, any time", ActionCrisis},
			{icons.Quit, "Sign out", "", ActionLogout},
		},
	}
}

// Init implements tea.Model
func (m *Menu) Init() tea.Cmd {
	return nil
}

// SetWidth sets the render width
func (m *Menu) SetWidth(width int) {
	m.width = width
}

// Update implements tea.Model
func (m *Menu) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.entries)-1 {
				m.cursor++
			}
		case "enter":
			action := m.entries[m.cursor].value
			return m, func() tea.Msg { return SelectedMsg{Action: action} }
		case "c":
			return m, selectCmd(ActionCheckin)
		case "i":
			return m, selectCmd(ActionInterventions)
		case "d":
			return m, selectCmd(ActionDashboard)
		case "h":
			return m, selectCmd(ActionCrisis)
		case "q", "esc":
			return m, func() tea.Msg { return QuitMsg{} }
		}
	}
	return m, nil
}

func selectCmd(action Action) tea.Cmd {
	return func() tea.Msg { return SelectedMsg{Action: action} }
}

// View implements tea.Model
func (m *Menu) View() string {
	var b strings.Builder

	b.WriteString(styles.Title.Render(fmt.Sprintf("%s Firefly", icons.App)))
	b.WriteString("\n")
	if m.greeting != "" {
		b.WriteString(styles.Subtitle.Render("Hi " + m.greeting + ". What would help right now?"))
	} else {
		b.WriteString(styles.Subtitle.Render("What would help right now?"))
	}
	b.WriteString("\n\n")

	for i, e := range m.entries {
		line := fmt.Sprintf("%s %s", e.icon, e.label)
		if i == m.cursor {
			b.WriteString(styles.KeyStyle.Render("> " + line))
			if e.hint != "" {
				b.WriteString(styles.Subtitle.Render("  — " + e.hint))
			}
		} else {
			b.WriteString("  " + line)
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(styles.Help.Render(fmt.Sprintf("%s/%s move · %s select · %s quit",
		styles.KeyStyle.Render("↑"), styles.KeyStyle.Render("↓"),
		styles.KeyStyle.Render("enter"), styles.KeyStyle.Render("q"))))

	return b.String()
}
