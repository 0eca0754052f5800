// ABOUTME: Rendering for the session machine
// ABOUTME: Countdown screen with instructions and the feedback form

package intervention

import (
	"fmt"
	"strings"

	"github.com/firefly-health/firefly-cli/internal/tui/icons"
	"github.com/firefly-health/firefly-cli/internal/tui/styles"
	"github.com/firefly-health/firefly-cli/internal/tui/widgets"
)

// View implements tea.Model
func (m *Machine) View() string {
	switch m.state {
	case Running:
		return m.viewRunning()
	case AwaitingFeedback:
		return m.viewFeedback()
	default:
		return m.viewIdle()
	}
}

func (m *Machine) viewIdle() string {
	var b strings.Builder
	b.WriteString(styles.Title.Render(fmt.Sprintf("%s Interventions", icons.Timer)))
	b.WriteString("\n")
	b.WriteString(styles.Subtitle.Render("No session in progress."))
	if m.errMsg != "" {
		b.WriteString("\n")
		b.WriteString(styles.ErrorBanner.Render(fmt.Sprintf("%s %s", icons.Warning, m.errMsg)))
	}
	return b.String()
}

func (m *Machine) viewRunning() string {
	var b strings.Builder

	b.WriteString(styles.Title.Render(fmt.Sprintf("%s %s", icons.Timer, m.intervention.Name)))
	b.WriteString("\n")

	if m.intervention.DetailedInstructions != "" {
		b.WriteString(m.intervention.DetailedInstructions)
		b.WriteString("\n\n")
	} else if m.intervention.ShortDescription != "" {
		b.WriteString(styles.Subtitle.Render(m.intervention.ShortDescription))
		b.WriteString("\n\n")
	}

	width := 30
	if m.width > 0 && m.width < 40 {
		width = m.width - 10
	}
	b.WriteString(widgets.CountdownBar(m.remaining, m.total, width, styles.Primary, styles.Muted))
	b.WriteString("\n")

	b.WriteString(styles.Help.Render(fmt.Sprintf("%s done · %s end early",
		styles.KeyStyle.Render("d"), styles.KeyStyle.Render("esc"))))

	return styles.ActivePanel.Render(b.String())
}

func (m *Machine) viewFeedback() string {
	var b strings.Builder

	b.WriteString(styles.StatusOK.Render(fmt.Sprintf("%s %s finished", icons.CheckOK, m.intervention.Name)))
	b.WriteString("\n\n")

	if m.submitting {
		b.WriteString(fmt.Sprintf("%s Recording your session...\n", m.spin.View()))
	} else if m.feedback != nil {
		b.WriteString(m.feedback.View())
	}

	if m.errMsg != "" {
		b.WriteString("\n")
		b.WriteString(styles.ErrorBanner.Render(fmt.Sprintf("%s %s", icons.Warning, m.errMsg)))
	}

	b.WriteString("\n")
	b.WriteString(styles.Help.Render(fmt.Sprintf("%s skip feedback", styles.KeyStyle.Render("esc"))))

	return b.String()
}
