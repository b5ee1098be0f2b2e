package logger_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"employee-portal/internal/core/config"
	"employee-portal/internal/core/logger"
)

func TestNew_WritesRotatedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "portal.log")

	l, cleanup := logger.New(config.Log{
		Level: "info",
		JSON:  true,
		File:  config.FileRotate{Enable: true, Filename: path, MaxSizeMB: 1},
	})
	l.Info("employee created")
	l.Debug("dropped below level")
	cleanup()

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"msg":"employee created"`)
	assert.NotContains(t, string(b), "dropped below level")
}

func TestNew_BadLevelFallsBackToInfo(t *testing.T) {
	l, cleanup := logger.New(config.Log{Level: "loud"})
	defer cleanup()

	assert.True(t, l.Core().Enabled(zapcore.InfoLevel))
	assert.False(t, l.Core().Enabled(zapcore.DebugLevel))
}
