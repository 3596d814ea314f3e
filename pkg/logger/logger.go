package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

type Options struct {
	Service   string
	Env       string
	Level     string
	AddSource bool

	// Out defaults to stdout. Tests point it elsewhere.
	Out io.Writer
}

func New(opts Options) *slog.Logger {
	out := opts.Out
	if out == nil {
		out = os.Stdout
	}

	h := slog.NewJSONHandler(out, &slog.HandlerOptions{
		Level:     parseLevel(opts.Level),
		AddSource: opts.AddSource,
	})

	base := slog.New(h).With(
		"service", opts.Service,
		"env", opts.Env,
	)

	slog.SetDefault(base)
	return base
}

// Discard returns a logger that drops everything, for tests.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func parseLevel(lvl string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(lvl)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
