package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestInit(t *testing.T) {
	t.Cleanup(func() { Set(nil) })

	t.Run("debug level json", func(t *testing.T) {
		require.NoError(t, Init("debug", "json"))
		assert.True(t, Logger().Core().Enabled(zap.DebugLevel))
	})

	t.Run("unknown level falls back to info", func(t *testing.T) {
		require.NoError(t, Init("loud", "console"))
		assert.False(t, Logger().Core().Enabled(zap.DebugLevel))
		assert.True(t, Logger().Core().Enabled(zap.InfoLevel))
	})
}

func TestSetNilInstallsNop(t *testing.T) {
	Set(nil)
	assert.NotNil(t, Logger())
	assert.False(t, Logger().Core().Enabled(zap.ErrorLevel))
}

func TestWithModule(t *testing.T) {
	core, recorded := observer.New(zap.InfoLevel)
	Set(zap.New(core))
	t.Cleanup(func() { Set(nil) })

	WithModule("products").Info("lookup")

	entries := recorded.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "products", entries[0].ContextMap()["module"])
}
