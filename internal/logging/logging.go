package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/natefinch/lumberjack.v2"
)

// New returns a JSON logger writing to a rotated file under dir. The client
// cannot log to stdout/stderr because the terminal is the drawing surface.
// When dir is empty the user config directory is used.
func New(level, dir string) *slog.Logger {
	if dir == "" {
		var err error
		dir, err = os.UserConfigDir()
		if err != nil {
			dir = "."
		} else {
			dir = filepath.Join(dir, "trainmap")
		}
	}

	w := &lumberjack.Logger{
		Filename:   filepath.Join(dir, "trainmap.slog"),
		MaxSize:    32, // MB
		MaxBackups: 1,
	}

	lvl := slog.LevelInfo
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "info":
		lvl = slog.LevelInfo
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		fmt.Fprintf(os.Stderr, "%s: invalid log level\n", level)
	}

	lg := slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: lvl}))
	lg.Info("logging started",
		slog.String("GOARCH", runtime.GOARCH),
		slog.String("GOOS", runtime.GOOS),
		slog.String("file", w.Filename))
	return lg
}

// Discard returns a logger that drops everything. Used by tests.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
