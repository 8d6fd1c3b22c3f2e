package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	t.Run("reads yaml and fills defaults", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		require.NoError(t, os.WriteFile(path, []byte(`
gateway:
  base_url: https://scoring.example.com
identity:
  app_version: 2.0.1
  source: scorecard-pwa
`), 0o600))

		cfg, err := LoadConfig(path)
		require.NoError(t, err)

		assert.Equal(t, "https://scoring.example.com", cfg.Gateway.BaseURL)
		assert.Equal(t, "2.0.1", cfg.Identity.AppVersion)
		assert.Equal(t, "scorecard-pwa", cfg.Identity.Source)
		// Defaults.
		assert.NotEmpty(t, cfg.Identity.DeviceID)
		assert.Equal(t, float64(10), cfg.Gateway.RequestsPerSecond)
		assert.Equal(t, "info", cfg.Logging.Level)
	})

	t.Run("env vars override the file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		require.NoError(t, os.WriteFile(path, []byte(`
gateway:
  base_url: https://scoring.example.com
`), 0o600))
		t.Setenv("GATEWAY_BASE_URL", "https://staging.example.com")
		t.Setenv("LOG_LEVEL", "debug")

		cfg, err := LoadConfig(path)
		require.NoError(t, err)

		assert.Equal(t, "https://staging.example.com", cfg.Gateway.BaseURL)
		assert.Equal(t, "debug", cfg.Logging.Level)
	})

	t.Run("missing file falls back to env", func(t *testing.T) {
		t.Setenv("GATEWAY_BASE_URL", "https://env-only.example.com")

		cfg, err := LoadConfig(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
		require.NoError(t, err)
		assert.Equal(t, "https://env-only.example.com", cfg.Gateway.BaseURL)
	})

	t.Run("missing base url is an error", func(t *testing.T) {
		t.Setenv("GATEWAY_BASE_URL", "")
		_, err := LoadConfig(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
		require.Error(t, err)
	})
}
