package logger

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestParseLevel(t *testing.T) {
	for input, want := range map[string]slog.Level{
		"debug":   slog.LevelDebug,
		" INFO ":  slog.LevelInfo,
		"":        slog.LevelInfo,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
	} {
		got, ok := ParseLevel(input)
		assert.True(t, ok, input)
		assert.Equal(t, want, got, input)
	}

	got, ok := ParseLevel("verbose")
	assert.False(t, ok)
	assert.Equal(t, slog.LevelInfo, got)
}

func TestInitZapRoutesAdapter(t *testing.T) {
	t.Cleanup(func() { InitSlog("INFO") })

	core, logs := observer.New(zapcore.DebugLevel)
	InitZap(zap.New(core), "warn")

	l := NewSlogAdapter()
	l.Info("dropped")
	l.Warn("wallet bridge down", "connector", "injected")

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "wallet bridge down", entry.Message)
	assert.Equal(t, zapcore.WarnLevel, entry.Level)
	assert.Equal(t, "injected", entry.ContextMap()["connector"])
}

func TestNewZapLevel(t *testing.T) {
	z, err := NewZap("error", false)
	require.NoError(t, err)
	assert.False(t, z.Core().Enabled(zapcore.WarnLevel))
	assert.True(t, z.Core().Enabled(zapcore.ErrorLevel))
}
