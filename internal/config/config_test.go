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

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestLoad(t *testing.T) {
	t.Run("Applies defaults for missing keys", func(t *testing.T) {
		// Given: a config file with only the log level
		path := writeConfig(t, "log-level: debug\n")

		// When: it is loaded
		conf, err := Load(path)

		// Then: everything else falls back to defaults
		require.NoError(t, err)
		assert.Equal(t, "debug", conf.LogLevel)
		assert.Equal(t, "8000", conf.SocketPort)
		assert.Equal(t, "9090", conf.HTTPPort)
		assert.Equal(t, 0, conf.MaxSessions)
		assert.Equal(t, 6, conf.Board.Rows)
		assert.Equal(t, 7, conf.Board.Columns)
		assert.False(t, conf.Redis.Enabled)
		assert.Equal(t, time.Hour, conf.Redis.SessionTTL)
		assert.Equal(t, 5*time.Second, conf.Redis.DialTimeout)
		assert.Equal(t, 0, conf.Redis.DB)
		assert.Empty(t, conf.Redis.Password)
		assert.Equal(t, "localhost:6379", conf.Redis.GetRedisAddr())
	})

	t.Run("Reads nested sections", func(t *testing.T) {
		path := writeConfig(t, `
socket-port: "8100"
max-sessions: 16
board:
  rows: 8
  columns: 9
redis:
  enabled: true
  host: cache
  port: "6380"
  session-ttl: 30m
  db: 2
  dial-timeout: 1s
`)

		conf, err := Load(path)

		require.NoError(t, err)
		assert.Equal(t, "8100", conf.SocketPort)
		assert.Equal(t, 16, conf.MaxSessions)
		assert.Equal(t, 8, conf.Board.Rows)
		assert.Equal(t, 9, conf.Board.Columns)
		assert.True(t, conf.Redis.Enabled)
		assert.Equal(t, "cache:6380", conf.Redis.GetRedisAddr())
		assert.Equal(t, 30*time.Minute, conf.Redis.SessionTTL)
		assert.Equal(t, 2, conf.Redis.DB)
		assert.Equal(t, time.Second, conf.Redis.DialTimeout)
	})

	t.Run("Environment overrides the file", func(t *testing.T) {
		path := writeConfig(t, "socket-port: \"8100\"\n")
		t.Setenv("SOCKET_PORT", "8200")

		conf, err := Load(path)

		require.NoError(t, err)
		assert.Equal(t, "8200", conf.SocketPort)
	})

	t.Run("Missing file is an error", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "absent.yml"))

		require.Error(t, err)
	})
}

func TestConfig_SlogLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		"warn":    slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}

	for value, expected := range tests {
		conf := &Config{LogLevel: value}

		assert.Equal(t, expected, conf.SlogLevel(), "log level %q", value)
	}
}
