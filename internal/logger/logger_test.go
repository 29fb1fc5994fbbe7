package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"chatty", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLevel(tt.input))
		})
	}
}

func TestValidLevel(t *testing.T) {
	assert.True(t, ValidLevel("warning"))
	assert.True(t, ValidLevel(""))
	assert.False(t, ValidLevel("trace"))
}

func TestNew_TextRespectsLevel(t *testing.T) {
	t.Setenv(DebugEnv, "")
	var buf bytes.Buffer
	log := New(&buf, "warn", FormatText)

	log.Info("tick complete", "ok", 3)
	assert.Empty(t, buf.String())

	log.Warn("node unreachable", "host", "node07", "error", errors.New("timeout"))
	out := buf.String()
	assert.Contains(t, out, "node unreachable")
	assert.Contains(t, out, "node07")
	assert.Contains(t, out, "timeout")
	// bytes.Buffer is not a terminal, so no escape codes
	assert.NotContains(t, out, "\x1b[")
}

func TestNew_JSON(t *testing.T) {
	t.Setenv(DebugEnv, "")
	var buf bytes.Buffer
	log := New(&buf, "info", FormatJSON)

	log.Info("tick complete", "ok", 47, "error", 1)

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "tick complete", rec["msg"])
	assert.EqualValues(t, 47, rec["ok"])
}

func TestNew_DebugEnvOverride(t *testing.T) {
	t.Setenv(DebugEnv, "1")
	var buf bytes.Buffer
	log := New(&buf, "error", FormatText)

	log.Debug("parsed snapshot")
	assert.Contains(t, buf.String(), "parsed snapshot")
}

func TestNewFile(t *testing.T) {
	t.Setenv(DebugEnv, "")
	path := filepath.Join(t.TempDir(), "ctop.log")

	log, closeFn, err := NewFile(path, "info", FormatText)
	require.NoError(t, err)
	log.Info("hello")
	require.NoError(t, closeFn())

	_, _, err = NewFile(filepath.Join(t.TempDir(), "missing", "dir", "x.log"), "info", FormatText)
	assert.Error(t, err)
}

func TestNoop(t *testing.T) {
	log := Noop()
	require.NotNil(t, log)
	log.Error("discarded")
	assert.False(t, log.Enabled(context.Background(), slog.LevelError))
}

func TestSetDefault(t *testing.T) {
	orig := Default()
	defer SetDefault(orig)

	l := Noop()
	SetDefault(l)
	assert.Same(t, l, Default())
}
