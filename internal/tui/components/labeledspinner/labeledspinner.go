// Package labeledspinner shows a spinner while a request is in flight.
package labeledspinner

import (
	"strings"

	"github.com/alkime/voicepost/internal/tui/style"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

// Model displays a spinner with a title and a muted subtitle.
type Model struct {
	Spinner  spinner.Model
	Title    string
	Subtitle string
}

// New creates a labeled spinner.
func New(s spinner.Spinner, title, subtitle string) Model {
	sp := spinner.New()
	sp.Spinner = s

	return Model{
		Spinner:  sp,
		Title:    title,
		Subtitle: subtitle,
	}
}

// Relabel swaps the text while keeping the animation frame.
func (ls Model) Relabel(title, subtitle string) Model {
	ls.Title = title
	ls.Subtitle = subtitle

	return ls
}

// Init returns the first tick.
func (ls Model) Init() tea.Cmd {
	return ls.Spinner.Tick
}

// Update handles spinner tick messages.
func (ls Model) Update(teaMsg tea.Msg) (Model, tea.Cmd) {
	if tickMsg, ok := teaMsg.(spinner.TickMsg); ok {
		var cmd tea.Cmd
		ls.Spinner, cmd = ls.Spinner.Update(tickMsg)

		return ls, cmd
	}

	return ls, nil
}

func (ls Model) View() string {
	var sb strings.Builder

	sb.WriteString(ls.Spinner.View())
	sb.WriteString(" ")
	sb.WriteString(style.Title.Render(ls.Title))

	if ls.Subtitle != "" {
		sb.WriteString("\n")
		sb.WriteString(style.Subtitle.Render(ls.Subtitle))
	}

	return sb.String()
}
