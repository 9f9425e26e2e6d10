package logger

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestNewWithWriter(t *testing.T) {
	t.Run("Should filter entries below the level", func(t *testing.T) {
		var buf bytes.Buffer
		log, err := NewWithWriter("warn", &buf)
		require.NoError(t, err)
		log.Info("hidden")
		log.Warn("shown", zap.Int("version", 3))
		require.NoError(t, log.Sync())
		assert.NotContains(t, buf.String(), "hidden")
		assert.Contains(t, buf.String(), "shown")
		assert.Contains(t, buf.String(), `"version"`)
	})
	t.Run("Should reject unknown levels", func(t *testing.T) {
		_, err := NewWithWriter("loud", &bytes.Buffer{})
		assert.ErrorContains(t, err, "invalid log level")
	})
}

func TestParseLevel(t *testing.T) {
	lvl, err := ParseLevel("")
	require.NoError(t, err)
	assert.Equal(t, zapcore.InfoLevel, lvl)
	lvl, err = ParseLevel("debug")
	require.NoError(t, err)
	assert.Equal(t, zapcore.DebugLevel, lvl)
}
