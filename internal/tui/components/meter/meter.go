// Package meter draws a one-line input level meter while recording.
package meter

import (
	"math"
	"strings"
	"time"

	"github.com/alkime/voicepost/internal/tui/style"
	tea "github.com/charmbracelet/bubbletea"
)

// Block characters for amplitude, index 0 is silence.
const blockChars = " ▁▂▃▄▅▆▇█"

// Interval between redraws while the meter is live.
const Interval = 50 * time.Millisecond

// TickMsg triggers a meter redraw.
type TickMsg struct{}

// Source provides recent peak amplitudes, oldest first.
type Source interface {
	Levels() []int16
}

// Model renders the most recent peaks right-aligned, newest on the right.
type Model struct {
	source Source
	width  int
}

// New returns a meter width columns wide. A nil source renders a flat line.
func New(source Source, width int) Model {
	return Model{source: source, width: max(1, width)}
}

// Tick schedules the next redraw.
func (m Model) Tick() tea.Cmd {
	return tea.Tick(Interval, func(time.Time) tea.Msg {
		return TickMsg{}
	})
}

// View renders the meter.
func (m Model) View() string {
	var peaks []int16
	if m.source != nil {
		peaks = m.source.Levels()
	}

	if len(peaks) == 0 {
		return style.Muted.Render(strings.Repeat("▁", m.width))
	}

	if len(peaks) > m.width {
		peaks = peaks[len(peaks)-m.width:]
	}

	runes := []rune(blockChars)

	var sb strings.Builder
	sb.WriteString(strings.Repeat(" ", m.width-len(peaks)))
	for _, p := range peaks {
		sb.WriteRune(runes[level(p, len(runes)-1)])
	}

	return style.Progress.Render(sb.String())
}

// level maps an amplitude onto 0..top with a square-root curve so quiet
// speech still registers.
func level(amp int16, top int) int {
	if amp <= 0 {
		return 0
	}

	const maxAmp = 32767.0
	if amp == maxAmp {
		return top
	}

	scaled := math.Sqrt(float64(amp)/maxAmp) * float64(top)

	return min(max(int(scaled), 1), top)
}
