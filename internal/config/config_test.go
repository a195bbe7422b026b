package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFrom_Defaults(t *testing.T) {
	cfg, err := LoadFrom(map[string]string{})
	require.NoError(t, err)

	assert.Equal(t, BackendFile, cfg.Backend)
	assert.Equal(t, "token.txt", cfg.TelegramTokenFile)
	assert.Equal(t, "resources", cfg.ResourcesDir)
	assert.Equal(t, "logs", cfg.LogsDir)
	assert.Equal(t, 24*time.Hour, cfg.SessionTTL)
	assert.Equal(t, 5*time.Minute, cfg.SearchTimeout)
	assert.Equal(t, slog.LevelInfo, cfg.Level())
	assert.Empty(t, cfg.AllowedChats)
}

func TestLoadFrom_Overrides(t *testing.T) {
	cfg, err := LoadFrom(map[string]string{
		"RENFEBOT_BACKEND":        "redis",
		"RENFEBOT_REDIS_URL":      "redis://cache:6379/2",
		"RENFEBOT_LOG_LEVEL":      "debug",
		"RENFEBOT_ALLOWED_CHATS":  "12,-34",
		"RENFEBOT_SEARCH_TIMEOUT": "90s",
		"RENFEBOT_SEARCH_COMMAND": "python3 scraper.py",
		"TELEGRAM_TOKEN":          "ignored without prefix",
	})
	require.NoError(t, err)

	assert.Equal(t, BackendRedis, cfg.Backend)
	assert.Equal(t, "redis://cache:6379/2", cfg.RedisURL)
	assert.Equal(t, slog.LevelDebug, cfg.Level())
	assert.Equal(t, []int64{12, -34}, cfg.AllowedChats)
	assert.Equal(t, 90*time.Second, cfg.SearchTimeout)
	assert.Equal(t, "python3 scraper.py", cfg.SearchCommand)
	assert.Empty(t, cfg.TelegramToken)
}

func TestLoadFrom_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"Unknown backend", map[string]string{"RENFEBOT_BACKEND": "sqlite"}},
		{"Bad level", map[string]string{"RENFEBOT_LOG_LEVEL": "loud"}},
		{"Bad duration", map[string]string{"RENFEBOT_SESSION_TTL": "tomorrow"}},
		{"Bad chat id", map[string]string{"RENFEBOT_ALLOWED_CHATS": "abc"}},
		{"Both search settings", map[string]string{
			"RENFEBOT_SEARCH_COMMAND": "scraper",
			"RENFEBOT_SEARCH_CONFIG":  "search.yaml",
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFrom(tt.env)
			assert.Error(t, err)
		})
	}
}

func TestToken(t *testing.T) {
	dir := t.TempDir()
	tokenFile := filepath.Join(dir, "token.txt")
	require.NoError(t, os.WriteFile(tokenFile, []byte("  123:abc\n"), 0o600))

	t.Run("Variable wins", func(t *testing.T) {
		token, err := Config{TelegramToken: "456:def", TelegramTokenFile: tokenFile}.Token()
		require.NoError(t, err)
		assert.Equal(t, "456:def", token)
	})

	t.Run("File", func(t *testing.T) {
		token, err := Config{TelegramTokenFile: tokenFile}.Token()
		require.NoError(t, err)
		assert.Equal(t, "123:abc", token)
	})

	t.Run("Missing", func(t *testing.T) {
		_, err := Config{TelegramTokenFile: filepath.Join(dir, "nope")}.Token()
		assert.ErrorIs(t, err, ErrNoToken)

		_, err = Config{}.Token()
		assert.ErrorIs(t, err, ErrNoToken)
	})

	t.Run("Empty file", func(t *testing.T) {
		empty := filepath.Join(dir, "empty.txt")
		require.NoError(t, os.WriteFile(empty, []byte("\n"), 0o600))
		_, err := Config{TelegramTokenFile: empty}.Token()
		assert.ErrorIs(t, err, ErrNoToken)
	})
}
