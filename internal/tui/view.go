package tui

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/alkime/voicepost/internal/content"
	"github.com/alkime/voicepost/internal/flow"
	"github.com/alkime/voicepost/internal/tui/style"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
)

func (m *model) View() string {
	snap := m.ctrl.Snapshot()
	m.stages = m.stages.Select(string(snap.Stage()))

	var sb strings.Builder

	sb.WriteString(style.Title.Render("VoicePost"))
	sb.WriteString("  ")
	sb.WriteString(m.stages.View())
	sb.WriteString("\n\n")

	switch snap.Stage() {
	case flow.StageRecord:
		sb.WriteString(m.recordView(snap))
	case flow.StageTranscribe:
		sb.WriteString(m.transcribeView(snap))
	case flow.StageGenerate:
		sb.WriteString(m.generateView(snap))
	case flow.StagePost:
		sb.WriteString(m.postView(snap))
	}

	if m.alert != "" {
		sb.WriteString("\n")
		sb.WriteString(style.Error.Render("Error: " + m.alert))
		sb.WriteString("\n")
	}

	sb.WriteString("\n")
	sb.WriteString(renderKeyHelp(m.keys.Reset, " "))
	sb.WriteString(renderKeyHelp(m.keys.Quit, "\n"))

	return sb.String()
}

func (m *model) recordView(snap flow.Snapshot) string {
	var sb strings.Builder

	sb.WriteString(style.Title.Render("Record your thoughts"))
	sb.WriteString("\n\n")

	switch {
	case snap.Recording():
		sb.WriteString(style.Error.Render("● Recording"))
		sb.WriteString("\n")
		sb.WriteString(m.meter.View())
		sb.WriteString("\n\n")
		sb.WriteString(renderKeyHelp(m.keys.Record, "\n"))

	case snap.HasCapture():
		sb.WriteString(style.Success.Render("Recording captured"))
		sb.WriteString("\n\n")
		sb.WriteString(renderKeyHelp(withDesc(m.keys.Continue, "transcribe"), "\n"))

	default:
		sb.WriteString(style.Subtitle.Render("Speak your idea; VoicePost turns it into posts."))
		sb.WriteString("\n\n")
		sb.WriteString(renderKeyHelp(m.keys.Record, "\n"))
	}

	return sb.String()
}

func (m *model) transcribeView(snap flow.Snapshot) string {
	if snap.Busy || m.waiting {
		return m.spinner.View() + "\n"
	}

	// A failed transcription leaves the clip in place for another attempt.
	return style.Warning.Render("Transcription did not finish") + "\n\n" +
		renderKeyHelp(withDesc(m.keys.Continue, "try again"), "\n")
}

func (m *model) generateView(snap flow.Snapshot) string {
	var sb strings.Builder

	sb.WriteString(style.Label.Render("Transcript"))
	sb.WriteString("\n")
	sb.WriteString(style.Viewport.Render(m.wrap(snap.Transcript(), 4)))
	sb.WriteString("\n\n")

	if snap.Busy || m.waiting {
		sb.WriteString(m.spinner.View())
		sb.WriteString("\n")

		return sb.String()
	}

	sb.WriteString(renderKeyHelp(withDesc(m.keys.Continue, "generate posts"), "\n"))

	return sb.String()
}

func (m *model) postView(snap flow.Snapshot) string {
	drafts := snap.Drafts()

	var sb strings.Builder

	for _, p := range content.Platforms() {
		d := drafts[p]

		sb.WriteString(style.Bullet.Render("• "))
		sb.WriteString(style.Label.Render(p.DisplayName()))

		if p == content.Twitter {
			sb.WriteString(" ")
			sb.WriteString(charCounter(d.Text))
		}

		if snap.Copied[p] {
			sb.WriteString(" ")
			sb.WriteString(style.Success.Render("Copied!"))
		}

		sb.WriteString("\n")

		switch d.Status {
		case content.DraftGenerated:
			sb.WriteString(style.Viewport.Render(m.wrap(d.Text, 4)))
		default:
			sb.WriteString(style.Muted.Render(fmt.Sprintf("(no draft: %s)", d.Status)))
		}

		sb.WriteString("\n")
		sb.WriteString(renderKeyHelp(m.keys.Copy[p], "\n\n"))
	}

	sb.WriteString(renderKeyHelp(withDesc(m.keys.Publish, "publish "+m.selected.DisplayName()), "\n"))

	return sb.String()
}

// charCounter renders "n/280", highlighted once the limit is exceeded.
func charCounter(text string) string {
	n := utf8.RuneCountInString(text)
	label := fmt.Sprintf("%d/%d", n, content.TwitterCharLimit)

	if n > content.TwitterCharLimit {
		return style.Warning.Render(label)
	}

	return style.Muted.Render(label)
}

func (m *model) wrap(text string, padding int) string {
	width := m.width - padding
	if width <= 0 {
		return text
	}

	return lipgloss.NewStyle().Width(width).Render(text)
}

func withDesc(b key.Binding, desc string) key.Binding {
	b.SetHelp(b.Help().Key, desc)

	return b
}

func renderKeyHelp(keyBinding key.Binding, suffix ...string) string {
	s := style.Help.Render("[") + style.Key.Render(keyBinding.Help().Key) +
		style.Help.Render("] ") +
		style.Help.Render(keyBinding.Help().Desc)

	s += strings.Join(suffix, "")

	return s
}
