// Package style defines lipgloss styles for the TUI.
package style

import "github.com/charmbracelet/lipgloss"

// Names omit a "Style" suffix since they're read as style.Title etc.
var (
	// Title is used for the app name, stage headings and spinner labels.
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("205"))

	// Subtitle is used for secondary text.
	Subtitle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	// Success marks finished steps and the copied indicator.
	Success = lipgloss.NewStyle().
		Foreground(lipgloss.Color("42"))

	// Error is used for alerts and the live recording marker.
	Error = lipgloss.NewStyle().
		Foreground(lipgloss.Color("196"))

	// Warning flags retryable stages and an over-long tweet.
	Warning = lipgloss.NewStyle().
		Foreground(lipgloss.Color("214"))

	// Viewport frames the transcript and each draft.
	Viewport = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(0, 1)

	// Help is used for keyboard shortcut hints.
	Help = lipgloss.NewStyle().
		Foreground(lipgloss.Color("241"))

	// Key is used for highlighting keyboard keys.
	Key = lipgloss.NewStyle().
		Foreground(lipgloss.Color("205")).
		Bold(true)

	// Progress colours the input level meter.
	Progress = lipgloss.NewStyle().
			Foreground(lipgloss.Color("63"))

	// Label is used for platform names.
	Label = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("255"))

	// Muted is used for counters and upcoming stages.
	Muted = lipgloss.NewStyle().
		Foreground(lipgloss.Color("245"))

	// Bullet is used for list item markers.
	Bullet = lipgloss.NewStyle().
		Foreground(lipgloss.Color("205"))
)
