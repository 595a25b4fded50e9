package logging

import (
	"io"
	"log/slog"
	"os"
)

var stdout io.Writer = os.Stdout

// Setup initializes the global slog logger with JSON output to stdout.
func Setup() {
	slog.SetDefault(slog.New(NewStdoutHandler()))
}

func NewStdoutHandler() slog.Handler {
	return slog.NewJSONHandler(stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
}
