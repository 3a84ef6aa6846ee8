package stages_test

import (
	"testing"

	"github.com/alkime/voicepost/internal/tui/components/stages"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
)

//nolint:gochecknoinits // recommend for CI by bubbletea folks
func init() {
	lipgloss.SetColorProfile(termenv.Ascii)
}

func TestStages(t *testing.T) {
	m := stages.New("record", "transcribe", "generate", "post")

	assert.Equal(t, "record", m.Current())
	assert.Equal(t, "[record] › transcribe › generate › post", m.View())

	m = m.Select("generate")
	assert.Equal(t, "generate", m.Current())
	assert.Equal(t, "record › transcribe › [generate] › post", m.View())

	m = m.Select("publish")
	assert.Equal(t, "generate", m.Current(), "unknown stage ignored")
}

func TestStages_Empty(t *testing.T) {
	m := stages.New()

	assert.Empty(t, m.Current())
	assert.Empty(t, m.View())
}
