// ABOUTME: Wellness dashboard as a bubbletea model
// ABOUTME: Streak and mood metrics plus the most recent check-ins

package dashboard

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/firefly-health/firefly-cli/internal/client"
	"github.com/firefly-health/firefly-cli/internal/tui/icons"
	"github.com/firefly-health/firefly-cli/internal/tui/styles"
	"github.com/firefly-health/firefly-cli/internal/tui/widgets"
)

// BackMsg is sent when the user leaves the dashboard
type BackMsg struct{}

// statsMsg carries the stats summary
type statsMsg struct {
	stats *client.CheckinStats
	err   error
}

// historyMsg carries the latest check-in page
type historyMsg struct {
	list *client.CheckinList
	err  error
}

// Model is the dashboard screen
type Model struct {
	api   *client.Client
	width int

	stats   *client.CheckinStats
	history *client.CheckinList
	loading int // outstanding loads
	spin    spinner.Model
	errMsg  string
}

// New creates a dashboard that loads on Init
func New(api *client.Client) *Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(styles.Primary)

	return &Model{api: api, spin: sp}
}

// Init implements tea.Model
func (m *Model) Init() tea.Cmd {
	return m.load()
}

// SetWidth sets the render width
func (m *Model) SetWidth(width int) {
	m.width = width
}

func (m *Model) load() tea.Cmd {
	m.loading = 2
	m.errMsg = ""
	api := m.api

	return tea.Batch(
		m.spin.Tick,
		func() tea.Msg {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			stats, err := api.CheckinStats(ctx)
			return statsMsg{stats: stats, err: err}
		},
		func() tea.Msg {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			list, err := api.Checkins(ctx, 1, 5)
			return historyMsg{list: list, err: err}
		},
	)
}

// Update implements tea.Model
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case statsMsg:
		m.loading--
		if msg.err != nil {
			m.errMsg = msg.err.Error()
			return m, nil
		}
		m.stats = msg.stats
		return m, nil

	case historyMsg:
		m.loading--
		if msg.err != nil {
			m.errMsg = msg.err.Error()
			return m, nil
		}
		m.history = msg.list
		return m, nil

	case spinner.TickMsg:
		if m.loading > 0 {
			var cmd tea.Cmd
			m.spin, cmd = m.spin.Update(msg)
			return m, cmd
		}
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "r":
			return m, m.load()
		case "esc", "q":
			return m, func() tea.Msg { return BackMsg{} }
		}
	}
	return m, nil
}

// View implements tea.Model
func (m *Model) View() string {
	var b strings.Builder

	b.WriteString(styles.Title.Render(fmt.Sprintf("%s Your Wellness", icons.Heart)))
	b.WriteString("\n\n")

	if m.loading > 0 {
		b.WriteString(fmt.Sprintf("%s Loading your dashboard...\n", m.spin.View()))
		return b.String()
	}

	if m.errMsg != "" {
		b.WriteString(styles.ErrorBanner.Render(fmt.Sprintf("%s %s", icons.Warning, m.errMsg)))
		b.WriteString("\n")
		b.WriteString(styles.Help.Render(fmt.Sprintf("%s retry · %s back",
			styles.KeyStyle.Render("r"), styles.KeyStyle.Render("esc"))))
		return b.String()
	}

	if m.stats != nil {
		b.WriteString(m.viewMetrics())
		b.WriteString("\n")
	}
	if m.history != nil {
		b.WriteString(m.viewHistory())
	}

	b.WriteString("\n")
	b.WriteString(styles.Help.Render(fmt.Sprintf("%s refresh · %s back",
		styles.KeyStyle.Render("r"), styles.KeyStyle.Render("esc"))))

	return b.String()
}

func (m *Model) viewMetrics() string {
	cfg := widgets.DefaultMetricBlockConfig()

	streak := widgets.MetricBlock(icons.Streak, "Streak",
		fmt.Sprintf("%d days", m.stats.StreakLength),
		fmt.Sprintf("%d check-ins total", m.stats.TotalCheckins), cfg)

	mood7 := widgets.MetricBlock(icons.Mood, "Mood · 7d",
		formatAverage(m.stats.AverageMood7Days),
		"out of 10", cfg)

	trend := widgets.MetricBlock(trendIcon(m.stats.MoodTrend), "Trend",
		trendLabel(m.stats.MoodTrend),
		formatAverage(m.stats.AverageMood30Days)+" over 30d", cfg)

	return lipgloss.JoinHorizontal(lipgloss.Top, streak, " ", mood7, " ", trend)
}

func (m *Model) viewHistory() string {
	var b strings.Builder
	b.WriteString(styles.Subtitle.Render("Recent check-ins"))
	b.WriteString("\n")

	if len(m.history.Checkins) == 0 {
		b.WriteString(styles.Subtitle.Render("No check-ins yet. Your first one starts the streak."))
		b.WriteString("\n")
		return b.String()
	}

	for _, c := range m.history.Checkins {
		line := fmt.Sprintf("%s  %s mood %s · %s energy %s",
			c.CreatedAt.Local().Format("Jan 2 15:04"),
			icons.Mood, styles.ValueStyle.Render(fmt.Sprintf("%d", c.MoodScore)),
			icons.Energy, styles.ValueStyle.Render(fmt.Sprintf("%d", c.EnergyLevel)))
		if len(c.EmotionTags) > 0 {
			line += styles.Subtitle.Render("  " + strings.Join(c.EmotionTags, ", "))
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	return b.String()
}

func formatAverage(v *float64) string {
	if v == nil {
		return "—"
	}
	return fmt.Sprintf("%.1f", *v)
}

func trendIcon(trend string) icons.Icon {
	switch trend {
	case "improving":
		return icons.TrendUp
	case "declining":
		return icons.TrendDown
	default:
		return icons.Info
	}
}

func trendLabel(trend string) string {
	switch trend {
	case "improving":
		return "Improving"
	case "declining":
		return "Declining"
	case "stable":
		return "Stable"
	default:
		return "Not enough data"
	}
}
