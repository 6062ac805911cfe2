package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/GoSim-25-26J-441/issue-tracker/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func captureOutput(t *testing.T) *bytes.Buffer {
	t.Helper()
	buf := &bytes.Buffer{}
	prev := stdout
	stdout = buf
	t.Cleanup(func() { stdout = prev })
	return buf
}

func TestNew_Levels(t *testing.T) {
	lg, err := New(config.AppConfig{LogLevel: "debug"})
	require.NoError(t, err)
	assert.True(t, lg.Core().Enabled(zapcore.DebugLevel))

	lg, err = New(config.AppConfig{LogLevel: "warn"})
	require.NoError(t, err)
	assert.False(t, lg.Core().Enabled(zapcore.InfoLevel))
	assert.True(t, lg.Core().Enabled(zapcore.WarnLevel))
}

func TestNew_InvalidLevel(t *testing.T) {
	_, err := New(config.AppConfig{LogLevel: "loud"})
	assert.ErrorContains(t, err, "invalid LOG_LEVEL")
}

func TestNew_ProductionWritesJSON(t *testing.T) {
	buf := captureOutput(t)

	lg, err := New(config.AppConfig{
		LogLevel:    "info",
		Environment: "production",
		ServiceName: "issue-tracker",
		Version:     "1.2.3",
	})
	require.NoError(t, err)
	lg.Info("issue created")
	require.NoError(t, lg.Sync())

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "issue created", entry["msg"])
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "issue-tracker", entry["service"])
	assert.Equal(t, "1.2.3", entry["version"])
	assert.Contains(t, entry, "time")
}

func TestNew_DevelopmentWritesConsole(t *testing.T) {
	buf := captureOutput(t)

	lg, err := New(config.AppConfig{LogLevel: "info", Environment: "development", ServiceName: "issue-tracker"})
	require.NoError(t, err)
	lg.Info("listening")

	out := buf.String()
	assert.Contains(t, out, "listening")
	assert.Contains(t, out, `"service": "issue-tracker"`)
	assert.False(t, json.Valid(bytes.TrimSpace(buf.Bytes())))
}

func TestInit_InstallsGlobal(t *testing.T) {
	buf := captureOutput(t)

	require.NoError(t, Init(config.AppConfig{LogLevel: "info", Environment: "production"}))
	GetLogger().Info("from global")
	assert.Contains(t, buf.String(), "from global")

	assert.Error(t, Init(config.AppConfig{LogLevel: "loud"}))
	GetLogger().Info("still installed")
	assert.Contains(t, buf.String(), "still installed")
}
