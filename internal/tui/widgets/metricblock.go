// ABOUTME: Compact metric block widget for dashboard displays
// ABOUTME: Combines icon, value, and subtitle in a bordered panel

package widgets

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/firefly-health/firefly-cli/internal/tui/icons"
)

// MetricBlockConfig holds configuration for a metric block
type MetricBlockConfig struct {
	Width       int
	BorderColor lipgloss.Color
	TitleColor  lipgloss.Color
	ValueColor  lipgloss.Color
}

// DefaultMetricBlockConfig returns sensible defaults
func DefaultMetricBlockConfig() MetricBlockConfig {
	return MetricBlockConfig{
		Width:       22,
		BorderColor: lipgloss.Color("#6B7280"), // Muted gray
		TitleColor:  lipgloss.Color("#0D9488"), // Teal
		ValueColor:  lipgloss.Color("#F9FAFB"), // Light
	}
}

// MetricBlock renders a compact metric display block
func MetricBlock(icon icons.Icon, title string, value string, subtitle string, config MetricBlockConfig) string {
	if config.Width <= 0 {
		config.Width = 22
	}

	innerWidth := config.Width - 4

	titleStr := fmt.Sprintf("%s %s", icon.String(), title)
	if len(titleStr) > innerWidth {
		titleStr = titleStr[:innerWidth]
	}

	titleStyle := lipgloss.NewStyle().Foreground(config.TitleColor)
	borderStyle := lipgloss.NewStyle().Foreground(config.BorderColor)

	topBorder := borderStyle.Render("┌─ ") + titleStyle.Render(titleStr) +
		borderStyle.Render(" "+strings.Repeat("─", max(0, innerWidth-lipgloss.Width(titleStr)-1))+"┐")

	valueStyle := lipgloss.NewStyle().Foreground(config.ValueColor).Bold(true)
	valuePad := max(0, innerWidth-lipgloss.Width(value))
	valueLine := borderStyle.Render("│  ") + valueStyle.Render(value) +
		strings.Repeat(" ", valuePad) + borderStyle.Render("│")

	subtitleStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
	if len(subtitle) > innerWidth {
		subtitle = subtitle[:innerWidth]
	}
	subPad := max(0, innerWidth-lipgloss.Width(subtitle))
	subtitleLine := borderStyle.Render("│  ") + subtitleStyle.Render(subtitle) +
		strings.Repeat(" ", subPad) + borderStyle.Render("│")

	bottomBorder := borderStyle.Render("└" + strings.Repeat("─", config.Width-2) + "┘")

	return strings.Join([]string{topBorder, valueLine, subtitleLine, bottomBorder}, "\n")
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
