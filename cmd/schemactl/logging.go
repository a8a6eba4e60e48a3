package main

import (
	"io"
	"log/slog"
)

// newLogger returns a text logger writing to w at the given level.
func newLogger(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
