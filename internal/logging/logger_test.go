package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAcceptsLevels(t *testing.T) {
	for _, level := range []string{"", "debug", "info", "warn", "error"} {
		logger := New(level)
		require.NotNil(t, logger, level)
		assert.NotPanics(t, func() {
			logger.Debug().Str("level", level).Msg("debug line")
			logger.Info().Int("n", 1).Msg("info line")
		})
	}
}

func TestNopLogger(t *testing.T) {
	logger := Nop()
	require.NotNil(t, logger)
	assert.NotPanics(t, func() { logger.Warn().Msg("dropped") })
}
