package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const defaultPath = "configs/config.yaml"

type Config struct {
	Telegram struct {
		BotToken             string `yaml:"bot_token" env:"BOT_TOKEN"`
		Debug                bool   `yaml:"debug" env:"TELEGRAM_DEBUG"`
		APIEndpoint          string `yaml:"api_endpoint" env:"TELEGRAM_API_ENDPOINT"`
		MaxConcurrentUpdates int    `yaml:"max_concurrent_updates" env:"TELEGRAM_MAX_CONCURRENT_UPDATES"`
	} `yaml:"telegram"`

	Database struct {
		URL      string `yaml:"url" env:"DATABASE_URL"`
		Timezone string `yaml:"timezone" env:"TZ_NAME"`
	} `yaml:"database"`

	Redis struct {
		Address  string `yaml:"address" env:"REDIS_ADDR"`
		Password string `yaml:"password" env:"REDIS_PASSWORD"`
		DB       int    `yaml:"db" env:"REDIS_DB"`
	} `yaml:"redis"`

	Log struct {
		Level  string `yaml:"level" env:"LOG_LEVEL"`
		Format string `yaml:"format" env:"LOG_FORMAT"`
	} `yaml:"log"`

	Reminders struct {
		CheckInterval      time.Duration `yaml:"check_interval" env:"REMINDERS_CHECK_INTERVAL"`
		MaxConcurrentSends int           `yaml:"max_concurrent_sends" env:"REMINDERS_MAX_CONCURRENT_SENDS"`
		SendsPerSecond     float64       `yaml:"sends_per_second" env:"REMINDERS_SENDS_PER_SECOND"`
		Burst              int           `yaml:"burst" env:"REMINDERS_BURST"`
	} `yaml:"reminders"`

	RateLimit struct {
		CommandsPerMinute int `yaml:"commands_per_minute" env:"RATE_LIMIT_COMMANDS_PER_MINUTE"`
	} `yaml:"rate_limit"`

	Backup struct {
		Enabled       bool   `yaml:"enabled" env:"BACKUP_ENABLED"`
		IntervalHours int    `yaml:"interval_hours" env:"BACKUP_INTERVAL_HOURS"`
		Path          string `yaml:"path" env:"BACKUP_PATH"`
		RetentionDays int    `yaml:"retention_days" env:"BACKUP_RETENTION_DAYS"`
	} `yaml:"backup"`

	Monitoring struct {
		Port int `yaml:"port" env:"MONITORING_PORT"`
	} `yaml:"monitoring"`
}

// Load reads the YAML file at path (WATERYY_CONFIG or configs/config.yaml when
// empty), then overlays environment variables. A missing file is not an error.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if path == "" {
		path = os.Getenv("WATERYY_CONFIG")
		explicit = path != ""
	}
	if path == "" {
		path = defaultPath
	}

	// .env is optional; real environment wins over it.
	_ = godotenv.Load()

	var cfg Config
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		// Support ${ENV_VAR} placeholders in YAML config.
		data = []byte(os.ExpandEnv(string(data)))
		if err = yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist) && !explicit:
	default:
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	if err = env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Database.Timezone == "" {
		c.Database.Timezone = "Local"
	}
	if c.Telegram.MaxConcurrentUpdates <= 0 {
		c.Telegram.MaxConcurrentUpdates = 16
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "console"
	}
	if c.Reminders.CheckInterval <= 0 {
		c.Reminders.CheckInterval = time.Minute
	}
	if c.Reminders.MaxConcurrentSends <= 0 {
		c.Reminders.MaxConcurrentSends = 4
	}
	if c.Reminders.SendsPerSecond <= 0 {
		c.Reminders.SendsPerSecond = 25
	}
	if c.Reminders.Burst <= 0 {
		c.Reminders.Burst = 30
	}
	if c.RateLimit.CommandsPerMinute <= 0 {
		c.RateLimit.CommandsPerMinute = 20
	}
	if c.Backup.IntervalHours <= 0 {
		c.Backup.IntervalHours = 24
	}
	if c.Backup.Path == "" {
		c.Backup.Path = "backups"
	}
	if c.Backup.RetentionDays <= 0 {
		c.Backup.RetentionDays = 14
	}
	if c.Monitoring.Port == 0 {
		c.Monitoring.Port = 8090
	}
}

// Validate checks settings the bot cannot start without.
func (c *Config) Validate() error {
	if c.Telegram.BotToken == "" || c.Telegram.BotToken == "YOUR_BOT_TOKEN_HERE" {
		return errors.New("telegram.bot_token (BOT_TOKEN) is required")
	}
	if strings.TrimSpace(c.Database.URL) == "" {
		return errors.New("database.url (DATABASE_URL) is required")
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}

// Location resolves the timezone used for daily stats buckets.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Database.Timezone)
	if err != nil {
		return nil, fmt.Errorf("database.timezone %q: %w", c.Database.Timezone, err)
	}
	return loc, nil
}

func (c *Config) BackupInterval() time.Duration {
	return time.Duration(c.Backup.IntervalHours) * time.Hour
}

