// Package tui is the terminal front end of the VoicePost client.
package tui

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/alkime/voicepost/internal/content"
	"github.com/alkime/voicepost/internal/flow"
	"github.com/alkime/voicepost/internal/tui/components/labeledspinner"
	"github.com/alkime/voicepost/internal/tui/components/meter"
	"github.com/alkime/voicepost/internal/tui/components/stages"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

// Controller is the flow the UI drives.
type Controller interface {
	Snapshot() flow.Snapshot
	StartRecording(ctx context.Context) error
	StopRecording(ctx context.Context) error
	Transcribe(ctx context.Context) error
	Generate(ctx context.Context) error
	Copy(p content.Platform) error
	Publish(p content.Platform) error
	Reset()
	CopiedFor() time.Duration
}

// Config wires the UI to its collaborators.
type Config struct {
	// Levels feeds the recording meter; nil draws a flat line.
	Levels meter.Source
	// Cancel is called on quit.
	Cancel context.CancelFunc
}

type transcribeDoneMsg struct{ err error }

type generateDoneMsg struct{ err error }

type copiedExpiredMsg struct{}

type model struct {
	ctx      context.Context
	ctrl     Controller
	config   Config
	keys     KeyMap
	spinner  labeledspinner.Model
	meter    meter.Model
	stages   stages.Model
	selected content.Platform
	alert    string
	waiting  bool
	width    int
}

// New returns the root model.
func New(ctx context.Context, ctrl Controller, config Config) tea.Model {
	return &model{
		ctx:      ctx,
		ctrl:     ctrl,
		config:   config,
		keys:     DefaultKeyMap(),
		spinner:  labeledspinner.New(spinner.Dot, "", ""),
		meter:    meter.New(config.Levels, 40),
		stages:   stages.New(stageNames()...),
		selected: content.Twitter,
		width:    80,
	}
}

func stageNames() []string {
	return []string{
		string(flow.StageRecord),
		string(flow.StageTranscribe),
		string(flow.StageGenerate),
		string(flow.StagePost),
	}
}

func (m *model) Init() tea.Cmd {
	return nil
}

func (m *model) Update(teaMsg tea.Msg) (tea.Model, tea.Cmd) {
	switch typedMsg := teaMsg.(type) {
	case tea.WindowSizeMsg:
		m.width = typedMsg.Width

		return m, nil

	case tea.KeyMsg:
		return m.handleKey(typedMsg)

	case transcribeDoneMsg:
		m.finishCall(typedMsg.err)

		return m, nil

	case generateDoneMsg:
		m.finishCall(typedMsg.err)

		return m, nil

	case copiedExpiredMsg:
		// Redraw only; the controller already dropped the mark.
		return m, nil

	case meter.TickMsg:
		if m.ctrl.Snapshot().Recording() {
			return m, m.meter.Tick()
		}

		return m, nil

	case spinner.TickMsg:
		if !m.waiting {
			return m, nil
		}

		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(typedMsg)

		return m, cmd
	}

	return m, nil
}

func (m *model) handleKey(km tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(km, m.keys.ForceQuit), key.Matches(km, m.keys.Quit):
		m.ctrl.Reset()
		if m.config.Cancel != nil {
			m.config.Cancel()
		}

		return m, tea.Quit

	case key.Matches(km, m.keys.Reset):
		m.ctrl.Reset()
		m.alert = ""
		m.waiting = false
		m.selected = content.Twitter

		return m, nil
	}

	snap := m.ctrl.Snapshot()

	switch snap.Stage() {
	case flow.StageRecord:
		return m.handleRecordKey(km, snap)

	case flow.StageTranscribe, flow.StageGenerate:
		if key.Matches(km, m.keys.Continue) && !snap.Busy && !m.waiting {
			return m, m.advance(snap.Stage())
		}

	case flow.StagePost:
		return m.handlePostKey(km)
	}

	return m, nil
}

func (m *model) handleRecordKey(km tea.KeyMsg, snap flow.Snapshot) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(km, m.keys.Record):
		m.alert = ""

		if snap.Recording() {
			m.setAlert(m.ctrl.StopRecording(m.ctx))
			return m, nil
		}

		if err := m.ctrl.StartRecording(m.ctx); err != nil {
			m.setAlert(err)
			return m, nil
		}

		return m, m.meter.Tick()

	case key.Matches(km, m.keys.Continue) && snap.HasCapture() && !snap.Recording() && !m.waiting:
		return m, m.advance(flow.StageTranscribe)
	}

	return m, nil
}

func (m *model) handlePostKey(km tea.KeyMsg) (tea.Model, tea.Cmd) {
	for _, p := range content.Platforms() {
		if key.Matches(km, m.keys.Copy[p]) {
			m.selected = p
			if err := m.ctrl.Copy(p); err != nil {
				m.setAlert(err)
				return m, nil
			}

			m.alert = ""

			return m, tea.Tick(m.ctrl.CopiedFor(), func(time.Time) tea.Msg {
				return copiedExpiredMsg{}
			})
		}
	}

	if key.Matches(km, m.keys.Publish) {
		m.setAlert(m.ctrl.Publish(m.selected))
	}

	return m, nil
}

// advance starts the network call for stage and spins until it returns.
func (m *model) advance(stage flow.Stage) tea.Cmd {
	m.alert = ""

	var call tea.Cmd
	switch stage {
	case flow.StageTranscribe:
		m.spinner = m.spinner.Relabel("Transcribing audio...", "Sending to Whisper")
		call = func() tea.Msg {
			return transcribeDoneMsg{err: m.ctrl.Transcribe(m.ctx)}
		}
	case flow.StageGenerate:
		m.spinner = m.spinner.Relabel("Generating posts...", "Writing Twitter/X, LinkedIn and Instagram drafts")
		call = func() tea.Msg {
			return generateDoneMsg{err: m.ctrl.Generate(m.ctx)}
		}
	default:
		return nil
	}

	m.waiting = true

	return tea.Batch(call, m.spinner.Init())
}

// finishCall stops the spinner once a network call returns. A result dropped
// by a reset belongs to an earlier call, so a spinner started since keeps going.
func (m *model) finishCall(err error) {
	if errors.Is(err, flow.ErrDiscarded) {
		return
	}

	m.waiting = false
	m.setAlert(err)
}

// setAlert shows err to the user. Results dropped by a reset are not errors.
func (m *model) setAlert(err error) {
	if err == nil || errors.Is(err, flow.ErrDiscarded) {
		return
	}

	slog.Debug("Showing alert", "error", err)
	m.alert = err.Error()
}
