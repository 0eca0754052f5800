// ABOUTME: Progress bar widgets for wizard steps and session countdowns
// ABOUTME: Simple colored bars without threshold logic

package widgets

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// SimpleProgressBar renders a basic colored bar
func SimpleProgressBar(percent float64, width int, filledColor, emptyColor lipgloss.Color) string {
	if width <= 0 {
		width = 20
	}

	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}

	filled := int(percent / 100.0 * float64(width))

	var bar strings.Builder
	bar.WriteString("[")

	filledStyle := lipgloss.NewStyle().Foreground(filledColor)
	emptyStyle := lipgloss.NewStyle().Foreground(emptyColor)

	for i := 0; i < width; i++ {
		if i < filled {
			bar.WriteString(filledStyle.Render("█"))
		} else {
			bar.WriteString(emptyStyle.Render("░"))
		}
	}

	bar.WriteString("]")
	return bar.String()
}

// CountdownBar renders the remaining portion of a session alongside m:ss text
func CountdownBar(remaining, total, width int, color, emptyColor lipgloss.Color) string {
	percent := 0.0
	if total > 0 {
		percent = float64(remaining) / float64(total) * 100.0
	}
	bar := SimpleProgressBar(percent, width, color, emptyColor)
	return fmt.Sprintf("%s %s", bar, FormatSeconds(remaining))
}

// FormatSeconds renders a second count as m:ss
func FormatSeconds(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}

// StepDots renders a compact step indicator like "● ● ○ ○ ○"
func StepDots(current, total int, doneColor, activeColor, futureColor lipgloss.Color) string {
	var parts []string
	for i := 0; i < total; i++ {
		switch {
		case i < current:
			parts = append(parts, lipgloss.NewStyle().Foreground(doneColor).Render("●"))
		case i == current:
			parts = append(parts, lipgloss.NewStyle().Foreground(activeColor).Bold(true).Render("●"))
		default:
			parts = append(parts, lipgloss.NewStyle().Foreground(futureColor).Render("○"))
		}
	}
	return strings.Join(parts, " ")
}
