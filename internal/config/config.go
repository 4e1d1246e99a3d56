package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	Data struct {
		Path          string `yaml:"path" validate:"required"`
		Timezone      string `yaml:"timezone"`
		SkipMalformed bool   `yaml:"skip_malformed"`
	} `yaml:"data"`
	Indicators struct {
		Window int `yaml:"window" validate:"gte=1"`
	} `yaml:"indicators"`
	Report struct {
		Path     string `yaml:"path"`
		Store    string `yaml:"store" validate:"oneof=file redis"`
		RedisKey string `yaml:"redis_key"`
	} `yaml:"report"`
	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db" validate:"gte=0"`
	} `yaml:"redis"`
	Schedule struct {
		ReportCron  string `yaml:"report_cron" validate:"required"`
		RefreshCron string `yaml:"refresh_cron" validate:"required"`
	} `yaml:"schedule"`
	HTTP struct {
		Addr string `yaml:"addr" validate:"required"`
	} `yaml:"http"`
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Log struct {
		Level string `yaml:"level" validate:"omitempty,oneof=debug info warn error"`
	} `yaml:"log"`
	Proxy string `yaml:"proxy"`
}

// Load reads config from a YAML file, then applies .env and environment variable overrides.
// A missing file is not an error: defaults apply.
func Load(path string) (*Config, error) {
	loadDotenv()

	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("DATA_PATH"); v != "" {
		cfg.Data.Path = v
	}
	if v := os.Getenv("REPORT_PATH"); v != "" {
		cfg.Report.Path = v
	}
	if v := os.Getenv("HTTP_ADDR"); v != "" {
		cfg.HTTP.Addr = v
	}
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		cfg.Telegram.ChatID = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		cfg.Redis.Addr = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		cfg.Redis.Password = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("CRON_REPORT"); v != "" {
		cfg.Schedule.ReportCron = v
	}
	if v := os.Getenv("CRON_REFRESH"); v != "" {
		cfg.Schedule.RefreshCron = v
	}
	if v := os.Getenv("INDICATOR_WINDOW"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Indicators.Window = n
		}
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}

	// Defaults
	if cfg.Data.Path == "" {
		cfg.Data.Path = "data.csv"
	}
	if cfg.Data.Timezone == "" {
		cfg.Data.Timezone = "UTC"
	}
	if cfg.Indicators.Window == 0 {
		cfg.Indicators.Window = 48
	}
	if cfg.Report.Path == "" {
		cfg.Report.Path = "report.txt"
	}
	if cfg.Report.Store == "" {
		cfg.Report.Store = "file"
	}
	if cfg.Report.RedisKey == "" {
		cfg.Report.RedisKey = "gold:daily_report"
	}
	if cfg.Schedule.ReportCron == "" {
		cfg.Schedule.ReportCron = "0 */10 * * * *"
	}
	if cfg.Schedule.RefreshCron == "" {
		cfg.Schedule.RefreshCron = "0 */5 * * * *"
	}
	if cfg.HTTP.Addr == "" {
		cfg.HTTP.Addr = "0.0.0.0:8050"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}

	return cfg, nil
}

// Validate checks field constraints, cron specs and cross-field requirements.
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	parser := cron.NewParser(cron.Second | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)
	if _, err := parser.Parse(c.Schedule.ReportCron); err != nil {
		return fmt.Errorf("schedule.report_cron: %w", err)
	}
	if _, err := parser.Parse(c.Schedule.RefreshCron); err != nil {
		return fmt.Errorf("schedule.refresh_cron: %w", err)
	}
	if _, err := c.Location(); err != nil {
		return fmt.Errorf("data.timezone: %w", err)
	}
	if c.Report.Store == "redis" && c.Redis.Addr == "" {
		return fmt.Errorf("redis.addr is required when report.store is redis")
	}
	if (c.Telegram.BotToken == "") != (c.Telegram.ChatID == "") {
		return fmt.Errorf("telegram.bot_token and telegram.chat_id must be set together")
	}
	return nil
}

// Location resolves the timezone price timestamps are written in.
func (c *Config) Location() (*time.Location, error) {
	return time.LoadLocation(c.Data.Timezone)
}

// TelegramEnabled reports whether report publication to Telegram is configured.
func (c *Config) TelegramEnabled() bool {
	return c.Telegram.BotToken != "" && c.Telegram.ChatID != ""
}

// loadDotenv loads a .env file without overriding variables already set.
// ENV_FILE points at an explicit file; NO_DOTENV=1 disables loading.
func loadDotenv() {
	if os.Getenv("NO_DOTENV") == "1" {
		return
	}
	if envFile := os.Getenv("ENV_FILE"); envFile != "" {
		_ = godotenv.Load(envFile)
		return
	}
	_ = godotenv.Load(".env")
}
