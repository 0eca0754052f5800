// ABOUTME: Feedback form builder for finished intervention sessions
// ABOUTME: Optional effectiveness rating and free-text notes

package intervention

import (
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/firefly-health/firefly-cli/internal/tui/styles"
)

func feedbackTheme() *huh.Theme {
	t := huh.ThemeBase()

	t.Group.Title = lipgloss.NewStyle().
		Foreground(styles.Primary).
		Bold(true).
		MarginBottom(1)

	t.Focused.Base = lipgloss.NewStyle().
		PaddingLeft(1).
		BorderStyle(lipgloss.ThickBorder()).
		BorderLeft(true).
		BorderForeground(styles.Primary)
	t.Focused.Title = lipgloss.NewStyle().
		Foreground(styles.Accent).
		Bold(true)
	t.Focused.Description = lipgloss.NewStyle().
		Foreground(styles.Muted)
	t.Focused.SelectSelector = lipgloss.NewStyle().
		Foreground(styles.Primary).
		SetString("> ")
	t.Focused.SelectedOption = lipgloss.NewStyle().
		Foreground(styles.Primary).
		Bold(true)
	t.Focused.TextInput.Cursor = lipgloss.NewStyle().Foreground(styles.Primary)
	t.Focused.TextInput.Prompt = lipgloss.NewStyle().Foreground(styles.Primary)

	t.Blurred = t.Focused
	t.Blurred.Base = lipgloss.NewStyle().
		PaddingLeft(1).
		BorderStyle(lipgloss.HiddenBorder()).
		BorderLeft(true)
	t.Blurred.Title = lipgloss.NewStyle().Foreground(styles.Muted)

	return t
}

func (m *Machine) createFeedbackForm() *huh.Form {
	ratings := []huh.Option[string]{
		huh.NewOption("skip", "0"),
		huh.NewOption("1 · not helpful", "1"),
		huh.NewOption("2", "2"),
		huh.NewOption("3 · somewhat", "3"),
		huh.NewOption("4", "4"),
		huh.NewOption("5 · very helpful", "5"),
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("How helpful was that?").
				Description("Optional · Enter to continue").
				Options(ratings...).
				Value(&m.ratingBuf),
			huh.NewText().
				Title("Any notes? (optional)").
				CharLimit(500).
				Value(&m.feedbackBuf),
		).Title("Session feedback"),
	).WithTheme(feedbackTheme())
}
