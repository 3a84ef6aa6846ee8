package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alecthomas/kong"
	"github.com/alkime/voicepost/internal/api"
	"github.com/alkime/voicepost/internal/audio"
	"github.com/alkime/voicepost/internal/clipboard"
	"github.com/alkime/voicepost/internal/content"
	"github.com/alkime/voicepost/internal/flow"
	"github.com/alkime/voicepost/internal/keyring"
	"github.com/alkime/voicepost/internal/logger"
	"github.com/alkime/voicepost/internal/tui"
	tea "github.com/charmbracelet/bubbletea"
)

// Globals are shared by every command.
type Globals struct {
	Server  string        `flag:"" env:"VOICEPOST_SERVER" default:"http://localhost:8080" help:"VoicePost server URL"`
	Timeout time.Duration `flag:"" default:"0s" help:"Per-request timeout (0 waits indefinitely)"`
	Debug   bool          `flag:"" help:"Enable debug logging"`
}

func (g *Globals) client() *api.Client {
	return api.NewClient(g.Server, &http.Client{Timeout: g.Timeout})
}

// CLI defines the voicepost command structure.
type CLI struct {
	Globals

	// Default TUI command (runs when no subcommand given)
	TUI TUICmd `cmd:"" default:"withargs" help:"Record and turn your voice into posts"`

	// Subcommands
	Transcribe TranscribeCmd `cmd:"" help:"Transcribe an audio file through the server"`
	Generate   GenerateCmd   `cmd:"" help:"Generate platform drafts from a transcript"`
	Devices    DevicesCmd    `cmd:"" help:"List available audio devices"`
	Config     ConfigCmd     `cmd:"" help:"Manage configuration"`
}

// TUICmd is the default command that runs the TUI.
type TUICmd struct {
	LogFile string `flag:"" type:"path" help:"Write logs here while the UI is running"`
}

// Run executes the TUI command.
func (c *TUICmd) Run(g *Globals) error {
	logOut := io.Discard
	if c.LogFile != "" {
		f, err := os.OpenFile(c.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		defer f.Close()

		logOut = f
	}

	log := logger.SetupCLILogger(logOut, g.Debug)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	mic := audio.NewMicrophone(audio.DefaultDeviceConfig(), audio.WithMicrophoneLogger(log))
	ctrl := flow.NewController(g.client(), mic, clipboard.New(), flow.WithLogger(log))

	p := tea.NewProgram(tui.New(ctx, ctrl, tui.Config{
		Levels: mic,
		Cancel: cancel,
	}))

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}

	// Never leave the microphone open behind us.
	mic.Release()

	return nil
}

// TranscribeCmd uploads an existing recording.
type TranscribeCmd struct {
	File string `arg:"" type:"existingfile" help:"Audio file (mp3, webm, wav, m4a, ...)"`
}

// Run executes the transcribe command.
func (c *TranscribeCmd) Run(g *Globals) error {
	data, err := os.ReadFile(c.File)
	if err != nil {
		return fmt.Errorf("failed to read audio file: %w", err)
	}

	text, err := g.client().Transcribe(context.Background(), audioFromFile(c.File, data))
	if err != nil {
		return err
	}

	fmt.Println(text)

	return nil
}

// GenerateCmd drafts posts from a transcript.
type GenerateCmd struct {
	Transcript string `arg:"" help:"Transcript text, or - to read stdin"`
	Copy       string `flag:"" placeholder:"PLATFORM" help:"Also copy one platform's draft (twitter, linkedin, instagram) to the clipboard"`
}

// Run executes the generate command.
func (c *GenerateCmd) Run(g *Globals) error {
	transcript := c.Transcript
	if transcript == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return fmt.Errorf("failed to read stdin: %w", err)
		}

		transcript = string(data)
	}

	drafts, err := g.client().Generate(context.Background(), transcript)
	if err != nil {
		return err
	}

	printDrafts(os.Stdout, drafts)

	if c.Copy == "" {
		return nil
	}

	p, err := content.ParsePlatform(c.Copy)
	if err != nil {
		return err
	}

	if err := clipboard.New().Copy(drafts.Text(p)); err != nil {
		return err
	}

	fmt.Printf("%s draft copied to clipboard\n", p.DisplayName())

	return nil
}

// DevicesCmd lists available audio devices.
type DevicesCmd struct{}

// Run executes the devices command.
func (dcmd *DevicesCmd) Run() error {
	slog.Info("Enumerating audio devices...")

	devices, err := audio.EnumerateDevices(context.Background())
	if err != nil {
		return fmt.Errorf("failed to enumerate audio devices: %w", err)
	}

	for _, dev := range devices {
		slog.Info("Audio Device",
			"name", dev.Name,
			"isDefault", dev.IsDefault,
			"formats", dev.Formats,
		)
	}

	return nil
}

// ConfigCmd groups configuration-related subcommands.
type ConfigCmd struct {
	SetKey    SetKeyCmd    `cmd:"" help:"Store an API key in system keychain"`
	ListKeys  ListKeysCmd  `cmd:"" name:"list-keys" help:"Show which API keys are configured"`
	DeleteKey DeleteKeyCmd `cmd:"" name:"delete-key" help:"Remove an API key from the system keychain"`
}

// SetKeyCmd stores an API key in the system keychain.
type SetKeyCmd struct {
	Service string `arg:"" enum:"openai,anthropic" help:"Service name (openai or anthropic)"`
	Secret  string `arg:"" help:"API key value"`
}

// Run executes the set-key command.
func (c *SetKeyCmd) Run() error {
	if strings.TrimSpace(c.Secret) == "" {
		return errors.New("API key cannot be empty")
	}

	apiKey, err := keyring.APIKeyFromServiceName(c.Service)
	if err != nil {
		return fmt.Errorf("invalid service: %w", err)
	}

	if err := keyring.Set(apiKey, c.Secret); err != nil {
		return fmt.Errorf("failed to store API key: %w", err)
	}

	fmt.Printf("%s API key stored in keychain\n", c.Service)

	return nil
}

// ListKeysCmd shows which API keys are configured.
type ListKeysCmd struct{}

// Run executes the list-keys command.
//
//nolint:unparam // error return required by Kong interface
func (c *ListKeysCmd) Run() error {
	allSet := true

	for _, apiKey := range keyring.AllAPIKeys() {
		value, err := keyring.Get(apiKey)
		if err != nil {
			fmt.Printf("%s: not set\n", apiKey.DisplayName())
			allSet = false

			continue
		}

		fmt.Printf("%s: %s\n", apiKey.DisplayName(), keyring.Mask(value))
	}

	if !allSet {
		fmt.Println("\nRun 'voicepost config set-key <service> <key>' to configure.")
	}

	return nil
}

// DeleteKeyCmd removes an API key from the system keychain.
type DeleteKeyCmd struct {
	Service string `arg:"" enum:"openai,anthropic" help:"Service name (openai or anthropic)"`
}

// Run executes the delete-key command.
func (c *DeleteKeyCmd) Run() error {
	apiKey, err := keyring.APIKeyFromServiceName(c.Service)
	if err != nil {
		return fmt.Errorf("invalid service: %w", err)
	}

	if err := keyring.Delete(apiKey); err != nil {
		return err
	}

	fmt.Printf("%s API key removed from keychain\n", c.Service)

	return nil
}

func main() {
	cli := &CLI{} //nolint:exhaustruct // Kong fills in command fields
	ctx := kong.Parse(cli,
		kong.Name("voicepost"),
		kong.Description("Record your thoughts and turn them into social posts."),
		kong.Bind(&cli.Globals),
		kong.Configuration(yamlConfig, configPath()),
	)

	// The TUI command redirects logging itself.
	logger.SetupCLILogger(os.Stderr, cli.Debug)

	err := ctx.Run()
	ctx.FatalIfErrorf(err)
	os.Exit(0)
}

// audioFromFile labels the clip by sniffing its container, not its extension.
func audioFromFile(path string, data []byte) content.Audio {
	return content.DetectAudio(data, filepath.Base(path))
}

func printDrafts(w io.Writer, drafts content.DraftSet) {
	for _, p := range content.Platforms() {
		d := drafts[p]

		fmt.Fprintf(w, "== %s", p.DisplayName())
		if p == content.Twitter {
			fmt.Fprintf(w, " (%d/%d)", len([]rune(d.Text)), content.TwitterCharLimit)
		}
		fmt.Fprintln(w, " ==")

		if d.Status != content.DraftGenerated {
			fmt.Fprintf(w, "(no draft: %s)\n\n", d.Status)
			continue
		}

		fmt.Fprintf(w, "%s\n\n", d.Text)
	}
}
