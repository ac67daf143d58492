package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/questevent/questevent-api/internal/config"
)

func TestInit_WritesToFile(t *testing.T) {
	prev := zap.L()
	t.Cleanup(func() { zap.ReplaceGlobals(prev) })

	path := filepath.Join(t.TempDir(), "quest.log")
	level, err := Init("production", &config.LogConfig{Level: "info", File: path, MaxSizeMB: 1, MaxBackups: 1})
	require.NoError(t, err)
	assert.Equal(t, zapcore.InfoLevel, level.Level())

	zap.L().Info("settled", zap.Uint("program_id", 7))
	_ = zap.L().Sync()

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), `"program_id":7`)
}

func TestInit_InvalidLevel(t *testing.T) {
	_, err := Init("development", &config.LogConfig{Level: "loud"})
	assert.Error(t, err)
}

func TestSetLevel(t *testing.T) {
	level := zap.NewAtomicLevelAt(zapcore.InfoLevel)

	require.NoError(t, SetLevel(level, "error"))
	assert.Equal(t, zapcore.ErrorLevel, level.Level())

	assert.Error(t, SetLevel(level, "nope"))
	assert.Equal(t, zapcore.ErrorLevel, level.Level())
}
