// Package stages renders the flow breadcrumb shown above every screen.
package stages

import (
	"strings"

	"github.com/alkime/voicepost/internal/tui/style"
)

const separator = " › "

type Model struct {
	names []string
	curr  int
}

func New(names ...string) Model {
	return Model{names: names}
}

// Select marks name as the current stage. Unknown names are ignored.
func (m Model) Select(name string) Model {
	for i, n := range m.names {
		if n == name {
			m.curr = i
		}
	}

	return m
}

func (m Model) Current() string {
	if len(m.names) == 0 {
		return ""
	}

	return m.names[m.curr]
}

func (m Model) View() string {
	parts := make([]string, len(m.names))
	for i, n := range m.names {
		switch {
		case i == m.curr:
			parts[i] = style.Title.Render("[" + n + "]")
		case i < m.curr:
			parts[i] = style.Success.Render(n)
		default:
			parts[i] = style.Muted.Render(n)
		}
	}

	return strings.Join(parts, style.Muted.Render(separator))
}
