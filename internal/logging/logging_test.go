package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNew(t *testing.T) {
	t.Run("release mode defaults to info", func(t *testing.T) {
		log, err := New("release", "")
		require.NoError(t, err)
		assert.False(t, log.Core().Enabled(zapcore.DebugLevel))
		assert.True(t, log.Core().Enabled(zapcore.InfoLevel))
	})

	t.Run("debug mode logs debug", func(t *testing.T) {
		log, err := New("debug", "")
		require.NoError(t, err)
		assert.True(t, log.Core().Enabled(zapcore.DebugLevel))
	})

	t.Run("explicit level wins", func(t *testing.T) {
		log, err := New("debug", "warn")
		require.NoError(t, err)
		assert.False(t, log.Core().Enabled(zapcore.InfoLevel))
		assert.True(t, log.Core().Enabled(zapcore.WarnLevel))
	})

	t.Run("rejects unknown level", func(t *testing.T) {
		_, err := New("release", "loud")
		assert.Error(t, err)
	})
}
