package logging

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"DEBUG", slog.LevelDebug},
		{"unknown", slog.LevelInfo},
		{"", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, parseLevel(tt.input))
		})
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, "text", cfg.Format)
	assert.Equal(t, "info", cfg.Level)
}

func TestSetupAndGet(t *testing.T) {
	Setup(Config{Format: "json", Level: "debug"})
	assert.NotNil(t, Get())
	assert.True(t, Get().Enabled(nil, slog.LevelDebug))

	Setup(Config{Format: "text", Level: "error"})
	assert.False(t, Get().Enabled(nil, slog.LevelWarn))
}

func TestGet_BeforeSetup(t *testing.T) {
	// Package functions must be usable without Setup.
	assert.NotNil(t, Get())
	Debug("debug message")
	Info("info message")
}
