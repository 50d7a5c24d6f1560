package config_test

import (
	"testing"

	"github.com/marcelsud/webhook-logger/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetConfig(t *testing.T) {
	t.Run("defaults apply without a config file", func(t *testing.T) {
		cfg, err := config.GetConfig()
		require.NoError(t, err)

		assert.Equal(t, "3000", cfg.Port)
		assert.Equal(t, "webhooks", cfg.WebhooksDir)
		assert.Equal(t, "logs", cfg.LogsDir)
		assert.Equal(t, "file", cfg.StorageBackend)
		assert.Equal(t, int64(1048576), cfg.MaxBodyBytes)
	})

	t.Run("environment overrides defaults", func(t *testing.T) {
		t.Setenv("PORT", "8080")
		t.Setenv("STORAGE_BACKEND", "redis")
		t.Setenv("GITHUB_SECRET", "topsecret")

		cfg, err := config.GetConfig()
		require.NoError(t, err)

		assert.Equal(t, "8080", cfg.Port)
		assert.Equal(t, "redis", cfg.StorageBackend)
		assert.Equal(t, "topsecret", cfg.GithubSecret)
	})
}
