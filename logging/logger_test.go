package util_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	logger "github.com/dev-mohitbeniwal/accessledger/logging"
)

func TestDefaultLoggerIsNoop(t *testing.T) {
	assert.False(t, logger.Log.Core().Enabled(zapcore.ErrorLevel))
	assert.NotPanics(t, func() {
		logger.Info("info", zap.String("k", "v"))
		logger.Warn("warn")
		logger.Error("error", zap.Error(assert.AnError))
		logger.Debug("debug")
		logger.WithContext(zap.String("requestID", "r1")).Info("child")
		_ = logger.Sync()
	})
}

func TestNewLogger(t *testing.T) {
	t.Run("WritesToLogDirectory", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "logs")
		l, err := logger.NewLogger(dir, "")
		require.NoError(t, err)

		l.Info("grant changed", zap.String("principal", "user:u1"))
		l.Debug("hidden")
		_ = l.Sync()

		data, err := os.ReadFile(filepath.Join(dir, "accessledger.log"))
		require.NoError(t, err)
		assert.Contains(t, string(data), `"msg":"grant changed"`)
		assert.Contains(t, string(data), `"principal":"user:u1"`)
		assert.Contains(t, string(data), `"timestamp":`)
		assert.NotContains(t, string(data), "hidden")
	})

	t.Run("Level", func(t *testing.T) {
		l, err := logger.NewLogger("", "warn")
		require.NoError(t, err)
		assert.False(t, l.Core().Enabled(zapcore.InfoLevel))
		assert.True(t, l.Core().Enabled(zapcore.WarnLevel))
	})

	t.Run("InvalidLevel", func(t *testing.T) {
		_, err := logger.NewLogger("", "loud")
		assert.Error(t, err)
	})

	t.Run("UnusableDirectory", func(t *testing.T) {
		file := filepath.Join(t.TempDir(), "file")
		require.NoError(t, os.WriteFile(file, nil, 0o644))

		_, err := logger.NewLogger(filepath.Join(file, "logs"), "")
		assert.Error(t, err)
	})
}

func TestInitLoggerKeepsPreviousOnError(t *testing.T) {
	previous := logger.Log
	t.Cleanup(func() { logger.Log = previous })

	file := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(file, nil, 0o644))

	assert.Error(t, logger.InitLogger(filepath.Join(file, "logs")))
	assert.Same(t, previous, logger.Log)
}
