package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/lmittmann/tint"
	"github.com/mattn/go-isatty"
)

// New constructs a logger with the desired log level. Output is plain text
// unless stdout is a terminal or LOG_FORMAT=tint asks for colour.
func New(service string) *slog.Logger {
	tty := isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
	return NewWithWriter(os.Stdout, service, os.Getenv("LOG_FORMAT"), tty)
}

// NewWithWriter builds the logger New returns on an arbitrary writer.
func NewWithWriter(w io.Writer, service, format string, tty bool) *slog.Logger {
	level := parseLevel(os.Getenv("LOG_LEVEL"))

	var h slog.Handler
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "tint":
		h = tint.NewHandler(w, &tint.Options{Level: level, TimeFormat: time.TimeOnly, NoColor: !tty})
	case "text":
		h = slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})
	case "json":
		h = slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
	default:
		if tty {
			h = tint.NewHandler(w, &tint.Options{Level: level, TimeFormat: time.TimeOnly})
		} else {
			h = slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})
		}
	}
	return slog.New(h).With("service", service)
}

func parseLevel(raw string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
