package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadYAMLWithEnvExpansion(t *testing.T) {
	t.Setenv("WATERYY_TEST_TOKEN", "123:abc")
	path := writeConfig(t, `
telegram:
  bot_token: ${WATERYY_TEST_TOKEN}
database:
  url: postgres://u:p@localhost/wateryy
  timezone: UTC
reminders:
  check_interval: 30s
  max_concurrent_sends: 2
redis:
  address: localhost:6379
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "123:abc", cfg.Telegram.BotToken)
	assert.Equal(t, "postgres://u:p@localhost/wateryy", cfg.Database.URL)
	assert.Equal(t, 30*time.Second, cfg.Reminders.CheckInterval)
	assert.Equal(t, 2, cfg.Reminders.MaxConcurrentSends)
	assert.Equal(t, "localhost:6379", cfg.Redis.Address)
	assert.Equal(t, 16, cfg.Telegram.MaxConcurrentUpdates)
	assert.Equal(t, 20, cfg.RateLimit.CommandsPerMinute)
	assert.NoError(t, cfg.Validate())
}

func TestEnvOverridesFile(t *testing.T) {
	path := writeConfig(t, `
telegram:
  bot_token: from-file
log:
  level: warn
`)
	t.Setenv("BOT_TOKEN", "from-env")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("REMINDERS_CHECK_INTERVAL", "2m")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "from-env", cfg.Telegram.BotToken)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, 2*time.Minute, cfg.Reminders.CheckInterval)
}

func TestLoadDefaultsWithoutFile(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("WATERYY_CONFIG", "")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("BOT_TOKEN", "123:abc")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Empty(t, cfg.Database.URL)
	assert.ErrorContains(t, cfg.Validate(), "database.url")
	assert.Equal(t, time.Minute, cfg.Reminders.CheckInterval)
	assert.Equal(t, 4, cfg.Reminders.MaxConcurrentSends)
	assert.Equal(t, 8090, cfg.Monitoring.Port)
	assert.Equal(t, 24*time.Hour, cfg.BackupInterval())
}

func TestLoadDatabaseURLFromEnv(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("WATERYY_CONFIG", "")
	t.Setenv("BOT_TOKEN", "123:abc")
	t.Setenv("DATABASE_URL", "file:data/wateryy.db")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "file:data/wateryy.db", cfg.Database.URL)
	assert.NoError(t, cfg.Validate())
}

func TestLoadExplicitMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "valid", mutate: func(*Config) {}},
		{name: "missing token", mutate: func(c *Config) { c.Telegram.BotToken = "" }, wantErr: true},
		{name: "placeholder token", mutate: func(c *Config) { c.Telegram.BotToken = "YOUR_BOT_TOKEN_HERE" }, wantErr: true},
		{name: "missing database", mutate: func(c *Config) { c.Database.URL = "" }, wantErr: true},
		{name: "blank database", mutate: func(c *Config) { c.Database.URL = " " }, wantErr: true},
		{name: "bad timezone", mutate: func(c *Config) { c.Database.Timezone = "Mars/Olympus" }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{}
			cfg.Telegram.BotToken = "123:abc"
			cfg.Database.URL = "data/wateryy.db"
			cfg.applyDefaults()
			cfg.Database.Timezone = "UTC"
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
