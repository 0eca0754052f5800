// ABOUTME: Sign-in and registration screen as a bubbletea model
// ABOUTME: Toggles between the two huh forms and drives the auth manager

package login

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/firefly-health/firefly-cli/internal/auth"
	"github.com/firefly-health/firefly-cli/internal/client"
	"github.com/firefly-health/firefly-cli/internal/tui/icons"
	"github.com/firefly-health/firefly-cli/internal/tui/styles"
)

// mode selects which form is showing
type mode int

const (
	modeSignIn mode = iota
	modeRegister
)

// AuthenticatedMsg is sent after a successful sign-in or registration
type AuthenticatedMsg struct{}

// QuitMsg is sent when the user backs out of the login screen
type QuitMsg struct{}

// authResultMsg carries the manager's outcome
type authResultMsg struct {
	err error
}

// Model is the authentication screen
type Model struct {
	manager *auth.Manager
	mode    mode
	form    *huh.Form
	width   int

	busy   bool
	spin   spinner.Model
	errMsg string

	emailBuf       string
	passwordBuf    string
	displayNameBuf string
}

// New creates the login screen in sign-in mode
func New(manager *auth.Manager) *Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(styles.Primary)

	m := &Model{manager: manager, spin: sp}
	m.form = m.createForm()
	return m
}

// Init implements tea.Model
func (m *Model) Init() tea.Cmd {
	return m.form.Init()
}

// SetWidth sets the render width
func (m *Model) SetWidth(width int) {
	m.width = width
}

// Err returns the current user-facing error message
func (m *Model) Err() string {
	return m.errMsg
}

func (m *Model) createForm() *huh.Form {
	theme := huh.ThemeBase()
	theme.Focused.Title = lipgloss.NewStyle().Foreground(styles.Accent).Bold(true)
	theme.Focused.Base = lipgloss.NewStyle().
		PaddingLeft(1).
		BorderStyle(lipgloss.ThickBorder()).
		BorderLeft(true).
		BorderForeground(styles.Primary)
	theme.Focused.TextInput.Prompt = lipgloss.NewStyle().Foreground(styles.Primary)
	theme.Blurred = theme.Focused
	theme.Blurred.Base = lipgloss.NewStyle().
		PaddingLeft(1).
		BorderStyle(lipgloss.HiddenBorder()).
		BorderLeft(true)

	email := huh.NewInput().
		Title("Email").
		Placeholder("you@example.com").
		Value(&m.emailBuf).
		Validate(func(v string) error {
			if !strings.Contains(v, "@") {
				return fmt.Errorf("enter a valid email address")
			}
			return nil
		})

	password := huh.NewInput().
		Title("Password").
		EchoMode(huh.EchoModePassword).
		Value(&m.passwordBuf).
		Validate(func(v string) error {
			if len(v) < 8 {
				return fmt.Errorf("password must be at least 8 characters")
			}
			return nil
		})

	if m.mode == modeRegister {
		name := huh.NewInput().
			Title("Display name").
			Placeholder("How should we greet you?").
			CharLimit(60).
			Value(&m.displayNameBuf)
		return huh.NewForm(
			huh.NewGroup(name, email, password).Title("Create your account"),
		).WithTheme(theme)
	}

	return huh.NewForm(
		huh.NewGroup(email, password).Title("Welcome back"),
	).WithTheme(theme)
}

// Update implements tea.Model
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case authResultMsg:
		m.busy = false
		if msg.err != nil {
			// The manager already put a friendly message on the session
			m.errMsg = m.manager.Session().Snapshot().Err
			if m.errMsg == "" {
				m.errMsg = "Something went wrong. Please try again."
			}
			m.form = m.createForm()
			return m, m.form.Init()
		}
		return m, func() tea.Msg { return AuthenticatedMsg{} }

	case spinner.TickMsg:
		if m.busy {
			var cmd tea.Cmd
			m.spin, cmd = m.spin.Update(msg)
			return m, cmd
		}
		return m, nil

	case tea.KeyMsg:
		if m.busy {
			return m, nil
		}
		switch msg.String() {
		case "esc":
			return m, func() tea.Msg { return QuitMsg{} }
		case "ctrl+r":
			m.toggleMode()
			return m, m.form.Init()
		}
	}

	if m.busy {
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		return m, m.submit()
	}
	return m, cmd
}

func (m *Model) toggleMode() {
	if m.mode == modeSignIn {
		m.mode = modeRegister
	} else {
		m.mode = modeSignIn
	}
	m.errMsg = ""
	m.form = m.createForm()
}

func (m *Model) submit() tea.Cmd {
	m.busy = true
	m.errMsg = ""

	manager := m.manager
	email := strings.TrimSpace(m.emailBuf)
	password := m.passwordBuf
	displayName := strings.TrimSpace(m.displayNameBuf)
	register := m.mode == modeRegister

	return tea.Batch(m.spin.Tick, func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
		defer cancel()

		var err error
		if register {
			err = manager.Register(ctx, client.RegisterRequest{
				Email:       email,
				Password:    password,
				DisplayName: displayName,
			})
		} else {
			err = manager.Login(ctx, email, password)
		}
		return authResultMsg{err: err}
	})
}

// View implements tea.Model
func (m *Model) View() string {
	var b strings.Builder

	b.WriteString(styles.Title.Render(fmt.Sprintf("%s Firefly", icons.App)))
	b.WriteString("\n")
	b.WriteString(styles.Subtitle.Render("A quiet moment for your mind"))
	b.WriteString("\n\n")

	if m.busy {
		b.WriteString(fmt.Sprintf("%s Signing you in...\n", m.spin.View()))
	} else {
		b.WriteString(m.form.View())
	}

	if m.errMsg != "" {
		b.WriteString("\n")
		b.WriteString(styles.ErrorBanner.Render(fmt.Sprintf("%s %s", icons.Warning, m.errMsg)))
	}

	toggle := "create an account"
	if m.mode == modeRegister {
		toggle = "sign in instead"
	}
	b.WriteString("\n")
	b.WriteString(styles.Help.Render(fmt.Sprintf("%s %s · %s quit",
		styles.KeyStyle.Render("ctrl+r"), toggle, styles.KeyStyle.Render("esc"))))

	return b.String()
}
