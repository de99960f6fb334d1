package testutil

import (
	"bytes"
	"log/slog"
)

// NewBufferLogger returns a debug-level slog logger writing to a buffer, plus
// the buffer for log assertions.
func NewBufferLogger() (*slog.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	handler := slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})
	return slog.New(handler), &buf
}
