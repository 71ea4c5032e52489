package logging

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"DEBUG":   slog.LevelDebug,
		"info":    slog.LevelInfo,
		"warn":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}
	for name, want := range cases {
		assert.Equal(t, want, ParseLevel(name), name)
	}
}

func TestHandlerWritesMessageAndAttrs(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, slog.LevelInfo)

	logger.Info("File saved", "size", "1.2 kB")

	out := buf.String()
	assert.Contains(t, out, "File saved")
	assert.Contains(t, out, "size=1.2 kB")
	assert.Contains(t, out, "info")
}

func TestHandlerFiltersBelowLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, slog.LevelWarn)

	logger.Info("hidden")
	logger.Warn("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}

func TestHandlerWithAttrsAndGroup(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, slog.LevelInfo).With("cmd", "submit").WithGroup("req")

	logger.Info("sent", "id", 7)

	out := buf.String()
	assert.Contains(t, out, "cmd=submit")
	assert.Contains(t, out, "req.id=7")
}
