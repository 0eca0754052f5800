// ABOUTME: Shared lipgloss styles for consistent TUI appearance
// ABOUTME: Defines the calm Firefly palette used across components

package styles

import "github.com/charmbracelet/lipgloss"

var (
	// Colors - Core palette
	Primary   = lipgloss.Color("#0D9488") // Teal
	Secondary = lipgloss.Color("#10B981") // Green
	Warning   = lipgloss.Color("#F59E0B") // Amber
	Danger    = lipgloss.Color("#EF4444") // Red
	Muted     = lipgloss.Color("#6B7280") // Gray
	Text      = lipgloss.Color("#F9FAFB") // Light
	BgDark    = lipgloss.Color("#1F2937") // Dark gray

	// Colors - Extended palette
	Accent  = lipgloss.Color("#2DD4BF") // Lighter teal for highlights
	Surface = lipgloss.Color("#374151") // Elevated surface background
	Info    = lipgloss.Color("#3B82F6") // Blue - informational
	Calm    = lipgloss.Color("#A5B4FC") // Soft indigo - journal and quotes

	// Base styles
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Primary).
		MarginBottom(1)

	Subtitle = lipgloss.NewStyle().
			Foreground(Muted).
			MarginBottom(1)

	// Status indicators
	StatusOK = lipgloss.NewStyle().
			Foreground(Secondary).
			Bold(true)

	StatusWarning = lipgloss.NewStyle().
			Foreground(Warning).
			Bold(true)

	StatusCritical = lipgloss.NewStyle().
			Foreground(Danger).
			Bold(true)

	// Panels
	Panel = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Muted).
		Padding(1, 2)

	ActivePanel = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Primary).
			Padding(1, 2)

	// Crisis overlay panel
	CrisisPanel = lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(Danger).
			Padding(1, 2)

	// Help text
	Help = lipgloss.NewStyle().
		Foreground(Muted).
		MarginTop(1)

	// Key style for keyboard shortcuts
	KeyStyle = lipgloss.NewStyle().
			Foreground(Accent).
			Bold(true)

	// Value style for emphasized data
	ValueStyle = lipgloss.NewStyle().
			Foreground(Text).
			Bold(true)

	// Error banner shown alongside the last good state
	ErrorBanner = lipgloss.NewStyle().
			Foreground(Danger).
			Bold(true).
			MarginTop(1)
)
