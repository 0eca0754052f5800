// ABOUTME: Rendering for the check-in wizard
// ABOUTME: Step header, active form, crisis overlay, and the completion screen

package checkin

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/firefly-health/firefly-cli/internal/tui/icons"
	"github.com/firefly-health/firefly-cli/internal/tui/styles"
	"github.com/firefly-health/firefly-cli/internal/tui/widgets"
)

// View implements tea.Model
func (w *Wizard) View() string {
	if w.crisis {
		return w.viewCrisis()
	}
	if w.step == StepComplete {
		return w.viewComplete()
	}

	var b strings.Builder

	b.WriteString(styles.Title.Render(fmt.Sprintf("%s Daily Check-In", icons.Heart)))
	b.WriteString("\n")
	b.WriteString(w.viewProgress())
	b.WriteString("\n\n")

	if w.submitting {
		b.WriteString(fmt.Sprintf("%s Saving your check-in...\n", w.spin.View()))
	} else {
		b.WriteString(w.form.View())
	}

	if w.errMsg != "" {
		b.WriteString("\n")
		b.WriteString(styles.ErrorBanner.Render(fmt.Sprintf("%s %s", icons.Warning, w.errMsg)))
	}

	b.WriteString("\n")
	b.WriteString(styles.Help.Render(w.helpLine()))

	return b.String()
}

func (w *Wizard) viewProgress() string {
	dots := widgets.StepDots(int(w.step), len(stepNames), styles.Secondary, styles.Primary, styles.Muted)
	label := styles.Subtitle.Render(fmt.Sprintf("Step %d of %d · %s", int(w.step)+1, len(stepNames), stepNames[w.step]))
	return lipgloss.JoinVertical(lipgloss.Left, dots, label)
}

func (w *Wizard) helpLine() string {
	help := fmt.Sprintf("%s quit", styles.KeyStyle.Render("esc"))
	if w.step > StepMood {
		help = fmt.Sprintf("%s back · %s", styles.KeyStyle.Render("ctrl+b"), help)
	}
	return help
}

func (w *Wizard) viewCrisis() string {
	var b strings.Builder

	b.WriteString(styles.StatusCritical.Render(fmt.Sprintf("%s You are not alone", icons.Shield)))
	b.WriteString("\n\n")

	if w.resources != nil && w.resources.Message != "" {
		b.WriteString(w.resources.Message)
	} else {
		b.WriteString("It sounds like you are going through a hard moment. Support is available right now.")
	}
	b.WriteString("\n\n")

	if w.resources != nil {
		for _, h := range w.resources.Hotlines {
			line := fmt.Sprintf("%s %s  %s", icons.Lifeline,
				styles.ValueStyle.Render(h.Name),
				styles.KeyStyle.Render(h.Number))
			b.WriteString(line)
			if h.Description != "" {
				b.WriteString("\n   " + styles.Subtitle.Render(h.Description))
			}
			b.WriteString("\n")
		}
		for _, opt := range w.resources.SafeNowOptions {
			b.WriteString(fmt.Sprintf(" · %s\n", opt))
		}
	}

	b.WriteString("\n")
	b.WriteString(styles.Help.Render(fmt.Sprintf("%s I'm safe now", styles.KeyStyle.Render("enter"))))

	panel := styles.CrisisPanel.Render(b.String())
	if w.width > 0 {
		return lipgloss.Place(w.width, lipgloss.Height(panel)+2, lipgloss.Center, lipgloss.Top, panel)
	}
	return panel
}

func (w *Wizard) viewComplete() string {
	var b strings.Builder

	b.WriteString(styles.StatusOK.Render(fmt.Sprintf("%s Check-in recorded", icons.CheckOK)))
	b.WriteString("\n\n")

	if w.result != nil {
		c := w.result.Checkin
		b.WriteString(fmt.Sprintf("%s Mood %s   %s Energy %s\n",
			icons.Mood, styles.ValueStyle.Render(fmt.Sprintf("%d/10", c.MoodScore)),
			icons.Energy, styles.ValueStyle.Render(fmt.Sprintf("%d/10", c.EnergyLevel))))
		if len(c.EmotionTags) > 0 {
			b.WriteString(styles.Subtitle.Render("Feeling: " + strings.Join(c.EmotionTags, ", ")))
			b.WriteString("\n")
		}

		if len(w.result.Recommendations) > 0 {
			b.WriteString("\n")
			b.WriteString(styles.Title.Render(fmt.Sprintf("%s Suggested for you", icons.Wizard)))
			b.WriteString("\n")
			for _, rec := range w.result.Recommendations {
				b.WriteString(fmt.Sprintf("  %s %s (%s)\n",
					icons.Timer,
					styles.ValueStyle.Render(rec.Name),
					widgets.FormatSeconds(rec.DurationSeconds)))
				if rec.WhyRecommended != "" {
					b.WriteString("    " + styles.Subtitle.Render(rec.WhyRecommended) + "\n")
				}
			}
		}
	}

	b.WriteString("\n")
	b.WriteString(styles.Help.Render(fmt.Sprintf("%s new check-in · %s done",
		styles.KeyStyle.Render("n"), styles.KeyStyle.Render("esc"))))

	return styles.Panel.Render(b.String())
}
