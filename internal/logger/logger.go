package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/alkime/voicepost/internal/config"
)

// SetupLogger configures structured logging based on environment.
func SetupLogger(cfg *config.Config) *slog.Logger {
	return setup(os.Stdout, cfg)
}

func setup(w io.Writer, cfg *config.Config) *slog.Logger {
	//nolint:exhaustruct // Using default values for other HandlerOptions fields
	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: Level(cfg),
	})

	logger := slog.New(handler)

	// Set as default logger
	slog.SetDefault(logger)

	return logger
}

// Level resolves the log level: debug in development or when LOG_LEVEL asks
// for it, warn/error when LOG_LEVEL says so, info otherwise.
func Level(cfg *config.Config) slog.Level {
	switch strings.ToLower(cfg.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}

	if cfg.Env == "development" {
		return slog.LevelDebug
	}

	return slog.LevelInfo
}

// SetupCLILogger installs a text logger for the terminal client. While the
// TUI owns the terminal, logs go to w (a file, or io.Discard).
func SetupCLILogger(w io.Writer, debug bool) *slog.Logger {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}

	//nolint:exhaustruct // Using default values for other HandlerOptions fields
	logger := slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return logger
}
