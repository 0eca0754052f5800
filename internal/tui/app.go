// ABOUTME: Root bubbletea model for the TUI application
// ABOUTME: Manages screen state and routes messages to child components

package tui

import (
	"context"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/firefly-health/firefly-cli/internal/auth"
	"github.com/firefly-health/firefly-cli/internal/client"
	"github.com/firefly-health/firefly-cli/internal/tui/checkin"
	"github.com/firefly-health/firefly-cli/internal/tui/crisis"
	"github.com/firefly-health/firefly-cli/internal/tui/dashboard"
	"github.com/firefly-health/firefly-cli/internal/tui/intervention"
	"github.com/firefly-health/firefly-cli/internal/tui/login"
	"github.com/firefly-health/firefly-cli/internal/tui/menu"
	"github.com/firefly-health/firefly-cli/internal/tui/styles"
)

// Screen represents the current TUI screen
type Screen int

const (
	ScreenLogin Screen = iota
	ScreenMenu
	ScreenCheckin
	ScreenPicker
	ScreenSession
	ScreenDashboard
	ScreenCrisis
)

// sessionChangedMsg is delivered whenever the auth session store mutates
type sessionChangedMsg struct {
	session auth.Session
}

// loggedOutMsg is delivered after a sign-out completes
type loggedOutMsg struct{}

// App is the root model for the TUI
type App struct {
	api     *client.Client
	manager *auth.Manager
	screen  Screen
	width   int
	height  int

	sessionCh chan auth.Session

	// Child models
	loginScreen   *login.Model
	mainMenu      *menu.Menu
	wizard        *checkin.Wizard
	picker        *intervention.Picker
	session       *intervention.Machine
	dashboardView *dashboard.Model
	crisisView    *crisis.Model

	// The latest completed check-in seeds the intervention flow
	lastCheckin *client.CheckinResult
}

// New creates the root TUI application. The starting screen depends on
// whether a session snapshot restored at startup.
func New(api *client.Client, manager *auth.Manager) *App {
	a := &App{
		api:       api,
		manager:   manager,
		sessionCh: make(chan auth.Session, 8),
	}

	manager.Session().Subscribe(func(s auth.Session) {
		select {
		case a.sessionCh <- s:
		default:
		}
	})

	if manager.Session().Snapshot().IsAuthenticated {
		a.showMenu()
	} else {
		a.screen = ScreenLogin
		a.loginScreen = login.New(manager)
	}
	return a
}

// Init implements tea.Model
func (a *App) Init() tea.Cmd {
	cmds := []tea.Cmd{a.waitForSession()}
	if a.screen == ScreenLogin {
		cmds = append(cmds, a.loginScreen.Init())
	}
	return tea.Batch(cmds...)
}

// waitForSession relays session store changes into the message loop
func (a *App) waitForSession() tea.Cmd {
	ch := a.sessionCh
	return func() tea.Msg {
		return sessionChangedMsg{session: <-ch}
	}
}

func (a *App) showMenu() {
	var greeting string
	if sess := a.manager.Session().Snapshot(); sess.User != nil {
		greeting = sess.User.DisplayName
	}
	a.screen = ScreenMenu
	a.mainMenu = menu.New(greeting)
	a.mainMenu.SetWidth(a.width)
	a.wizard = nil
	a.picker = nil
	a.session = nil
	a.dashboardView = nil
	a.crisisView = nil
}

// Update implements tea.Model
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		return a, a.forward(msg)

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		return a, a.forward(msg)

	case sessionChangedMsg:
		return a.handleSessionChanged(msg)

	case login.AuthenticatedMsg:
		a.loginScreen = nil
		a.showMenu()
		return a, nil

	case login.QuitMsg:
		return a, tea.Quit

	case menu.SelectedMsg:
		return a.handleMenuSelection(msg.Action)

	case menu.QuitMsg:
		return a, tea.Quit

	case checkin.DoneMsg:
		if a.wizard != nil {
			a.lastCheckin = a.wizard.Result()
		}
		a.showMenu()
		return a, nil

	case checkin.CancelledMsg:
		a.showMenu()
		return a, nil

	case intervention.PickedMsg:
		return a.startSession(msg.Intervention)

	case intervention.DoneMsg:
		a.showMenu()
		return a, nil

	case intervention.CancelledMsg:
		a.showMenu()
		return a, nil

	case dashboard.BackMsg:
		a.showMenu()
		return a, nil

	case crisis.BackMsg:
		a.showMenu()
		return a, nil

	case loggedOutMsg:
		a.screen = ScreenLogin
		a.loginScreen = login.New(a.manager)
		a.loginScreen.SetWidth(a.width)
		return a, a.loginScreen.Init()
	}

	return a, a.forward(msg)
}

// forward routes a message to the active child model
func (a *App) forward(msg tea.Msg) tea.Cmd {
	switch a.screen {
	case ScreenLogin:
		if a.loginScreen == nil {
			return nil
		}
		model, cmd := a.loginScreen.Update(msg)
		a.loginScreen = model.(*login.Model)
		return cmd
	case ScreenMenu:
		if a.mainMenu == nil {
			return nil
		}
		model, cmd := a.mainMenu.Update(msg)
		a.mainMenu = model.(*menu.Menu)
		return cmd
	case ScreenCheckin:
		if a.wizard == nil {
			return nil
		}
		model, cmd := a.wizard.Update(msg)
		a.wizard = model.(*checkin.Wizard)
		return cmd
	case ScreenPicker:
		if a.picker == nil {
			return nil
		}
		model, cmd := a.picker.Update(msg)
		a.picker = model.(*intervention.Picker)
		return cmd
	case ScreenSession:
		if a.session == nil {
			return nil
		}
		model, cmd := a.session.Update(msg)
		a.session = model.(*intervention.Machine)
		return cmd
	case ScreenDashboard:
		if a.dashboardView == nil {
			return nil
		}
		model, cmd := a.dashboardView.Update(msg)
		a.dashboardView = model.(*dashboard.Model)
		return cmd
	case ScreenCrisis:
		if a.crisisView == nil {
			return nil
		}
		model, cmd := a.crisisView.Update(msg)
		a.crisisView = model.(*crisis.Model)
		return cmd
	}
	return nil
}

func (a *App) handleMenuSelection(action menu.Action) (tea.Model, tea.Cmd) {
	switch action {
	case menu.ActionCheckin:
		a.screen = ScreenCheckin
		a.wizard = checkin.New(a.api)
		a.wizard.SetWidth(a.width)
		return a, a.wizard.Init()

	case menu.ActionInterventions:
		a.screen = ScreenPicker
		a.picker = intervention.NewPicker(a.api, a.pickerFilter())
		return a, a.picker.Init()

	case menu.ActionDashboard:
		a.screen = ScreenDashboard
		a.dashboardView = dashboard.New(a.api)
		a.dashboardView.SetWidth(a.width)
		return a, a.dashboardView.Init()

	case menu.ActionCrisis:
		a.screen = ScreenCrisis
		a.crisisView = crisis.New(a.api)
		a.crisisView.SetWidth(a.width)
		return a, a.crisisView.Init()

	case menu.ActionLogout:
		manager := a.manager
		return a, func() tea.Msg {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			manager.Logout(ctx)
			return loggedOutMsg{}
		}
	}
	return a, nil
}

// pickerFilter narrows the library toward the latest check-in's first emotion
func (a *App) pickerFilter() client.InterventionFilter {
	var filter client.InterventionFilter
	if a.lastCheckin != nil && len(a.lastCheckin.Checkin.EmotionTags) > 0 {
		filter.TargetEmotion = a.lastCheckin.Checkin.EmotionTags[0]
	}
	return filter
}

func (a *App) startSession(in client.Intervention) (tea.Model, tea.Cmd) {
	if a.session == nil {
		a.session = intervention.NewMachine(a.api)
		a.session.SetWidth(a.width)
	}

	var checkinID, emotion string
	if a.lastCheckin != nil {
		checkinID = a.lastCheckin.Checkin.ID
		if len(a.lastCheckin.Checkin.EmotionTags) > 0 {
			emotion = a.lastCheckin.Checkin.EmotionTags[0]
		}
	}

	cmd, err := a.session.Start(in, checkinID, emotion)
	if err != nil {
		// A session is already underway; stay where we are
		return a, nil
	}
	a.screen = ScreenSession
	return a, cmd
}

func (a *App) handleSessionChanged(msg sessionChangedMsg) (tea.Model, tea.Cmd) {
	next := a.waitForSession()

	// An expired session yanks any screen back to sign-in
	if !msg.session.IsAuthenticated && !msg.session.IsLoading && a.screen != ScreenLogin && msg.session.Err != "" {
		a.screen = ScreenLogin
		a.loginScreen = login.New(a.manager)
		a.loginScreen.SetWidth(a.width)
		a.wizard = nil
		a.picker = nil
		a.session = nil
		a.dashboardView = nil
		a.crisisView = nil
		return a, tea.Batch(next, a.loginScreen.Init())
	}
	return a, next
}

// View implements tea.Model
func (a *App) View() string {
	var body string
	switch a.screen {
	case ScreenLogin:
		body = a.loginScreen.View()
	case ScreenMenu:
		body = a.mainMenu.View()
	case ScreenCheckin:
		body = a.wizard.View()
	case ScreenPicker:
		body = a.picker.View()
	case ScreenSession:
		body = a.session.View()
	case ScreenDashboard:
		body = a.dashboardView.View()
	case ScreenCrisis:
		body = a.crisisView.View()
	}

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(body)
	b.WriteString("\n")
	if sess := a.manager.Session().Snapshot(); a.screen != ScreenLogin && sess.Err != "" {
		b.WriteString(styles.ErrorBanner.Render(sess.Err))
		b.WriteString("\n")
	}
	return b.String()
}
