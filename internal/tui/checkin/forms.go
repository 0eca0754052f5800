// ABOUTME: Per-step huh forms for the check-in wizard
// ABOUTME: One form per step, recreated on every transition

package checkin

import (
	"fmt"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/firefly-health/firefly-cli/internal/tui/styles"
)

// createTheme returns a huh theme in the Firefly palette
func createTheme() *huh.Theme {
	t := huh.ThemeBase()

	t.Group.Title = lipgloss.NewStyle().
		Foreground(styles.Primary).
		Bold(true).
		MarginBottom(1)
	t.Group.Description = lipgloss.NewStyle().
		Foreground(styles.Muted).
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
	t.Focused.ErrorMessage = lipgloss.NewStyle().
		Foreground(styles.Danger)

	t.Focused.SelectSelector = lipgloss.NewStyle().
		Foreground(styles.Primary).
		SetString("> ")
	t.Focused.SelectedOption = lipgloss.NewStyle().
		Foreground(styles.Primary).
		Bold(true)
	t.Focused.MultiSelectSelector = lipgloss.NewStyle().
		Foreground(styles.Primary).
		SetString("> ")
	t.Focused.SelectedPrefix = lipgloss.NewStyle().
		Foreground(styles.Secondary).
		SetString("[✓] ")
	t.Focused.UnselectedPrefix = lipgloss.NewStyle().
		Foreground(styles.Muted).
		SetString("[ ] ")

	t.Focused.TextInput.Cursor = lipgloss.NewStyle().Foreground(styles.Primary)
	t.Focused.TextInput.Placeholder = lipgloss.NewStyle().Foreground(styles.Muted)
	t.Focused.TextInput.Prompt = lipgloss.NewStyle().Foreground(styles.Primary)

	t.Blurred = t.Focused
	t.Blurred.Base = lipgloss.NewStyle().
		PaddingLeft(1).
		BorderStyle(lipgloss.HiddenBorder()).
		BorderLeft(true)
	t.Blurred.Title = lipgloss.NewStyle().Foreground(styles.Muted)

	return t
}

// scaleOptions builds 1..10 options with anchors at the extremes
func scaleOptions(low, high string) []huh.Option[string] {
	opts := make([]huh.Option[string], 0, 10)
	for i := 1; i <= 10; i++ {
		label := fmt.Sprintf("%d", i)
		switch i {
		case 1:
			label = fmt.Sprintf("1 · %s", low)
		case 10:
			label = fmt.Sprintf("10 · %s", high)
		}
		opts = append(opts, huh.NewOption(label, fmt.Sprintf("%d", i)))
	}
	return opts
}

// optionalScaleOptions prepends a skip entry to a 1..10 scale
func optionalScaleOptions(low, high string) []huh.Option[string] {
	return append([]huh.Option[string]{huh.NewOption("skip", "0")}, scaleOptions(low, high)...)
}

func (w *Wizard) createForm() *huh.Form {
	switch w.step {
	case StepMood:
		return w.createMoodForm()
	case StepEnergy:
		return w.createEnergyForm()
	case StepEmotions:
		return w.createEmotionsForm()
	case StepContext:
		return w.createContextForm()
	default:
		return w.createJournalForm()
	}
}

func (w *Wizard) createMoodForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("How is your mood right now?").
				Description("Use ↑/↓ to select, Enter to continue").
				Options(scaleOptions("at my lowest", "at my best")...).
				Value(&w.moodBuf),
		).Title("Step 1: Mood"),
	).WithTheme(createTheme())
}

func (w *Wizard) createEnergyForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("How much energy do you have?").
				Description("Use ↑/↓ to select, Enter to confirm").
				Options(scaleOptions("completely drained", "fully charged")...).
				Value(&w.energyBuf),
			huh.NewSelect[string]().
				Title("Anxiety level (optional)").
				Options(optionalScaleOptions("barely any", "overwhelming")...).
				Value(&w.anxietyBuf),
			huh.NewSelect[string]().
				Title("Stress level (optional)").
				Options(optionalScaleOptions("barely any", "overwhelming")...).
				Value(&w.stressBuf),
		).Title("Step 2: Energy"),
	).WithTheme(createTheme())
}

func (w *Wizard) createEmotionsForm() *huh.Form {
	opts := make([]huh.Option[string], 0, len(emotionTags))
	for _, tag := range emotionTags {
		opts = append(opts, huh.NewOption(tag, tag))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewMultiSelect[string]().
				Title("Which emotions are present?").
				Description("Space to toggle, Enter to continue · at least one").
				Options(opts...).
				Value(&w.emotionsBuf).
				Validate(func(selected []string) error {
					if len(selected) == 0 {
						return fmt.Errorf("pick at least one emotion")
					}
					return nil
				}),
		).Title("Step 3: Emotions"),
	).WithTheme(createTheme())
}

func (w *Wizard) createContextForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Where are you? (optional)").
				Placeholder("e.g., home, office, outside").
				CharLimit(60).
				Value(&w.locationBuf),
			huh.NewInput().
				Title("What are you doing? (optional)").
				Placeholder("e.g., working, resting, commuting").
				CharLimit(60).
				Value(&w.activityBuf),
			huh.NewInput().
				Title("Who are you with? (optional)").
				Placeholder("e.g., alone, friends, family").
				CharLimit(60).
				Value(&w.socialBuf),
		).Title("Step 4: Context").
			Description("All of this is optional — skip anything with Enter"),
	).WithTheme(createTheme())
}

func (w *Wizard) createJournalForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewText().
				Title("Anything on your mind? (optional)").
				Description("Enter submits the check-in").
				CharLimit(2000).
				Value(&w.journalBuf),
		).Title("Step 5: Journal"),
	).WithTheme(createTheme())
}
