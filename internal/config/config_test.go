package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DART_API_KEY", "your_dart_api_key_here")
	t.Setenv("GEMINI_MODELS", "")
	t.Setenv("RANGE_WORKERS", "0")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Empty(t, cfg.DartAPIKey, "placeholder key counts as missing")
	assert.Equal(t, "https://opendart.fss.or.kr/api", cfg.DartAPIBaseURL)
	assert.Equal(t, 1, cfg.RangeWorkers)
	assert.Equal(t, []string{"gemini-2.0-flash", "gemini-1.5-flash", "gemini-1.5-pro"}, cfg.GeminiModels)
	assert.Equal(t, 30*time.Second, cfg.DartTimeout())
	assert.Error(t, cfg.Require("DART_API_KEY", cfg.DartAPIKey))
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DART_API_KEY", "abc123")
	t.Setenv("GEMINI_MODELS", "m1, ,m2")
	t.Setenv("DIRECTORY_REFRESH_INTERVAL", "90m")
	t.Setenv("DART_TIMEOUT_MS", "not-a-number")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "abc123", cfg.DartAPIKey)
	assert.Equal(t, []string{"m1", "m2"}, cfg.GeminiModels)
	assert.Equal(t, 90*time.Minute, cfg.DirectoryRefreshInterval)
	assert.Equal(t, 30000, cfg.DartTimeoutMs)
	assert.NoError(t, cfg.Require("DART_API_KEY", cfg.DartAPIKey))
}
