package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvDevelopment exposes internal error detail in API responses.
const EnvDevelopment = "development"

// Config keeps runtime settings for the server and the client commands.
type Config struct {
	Addr           string
	Env            string
	DatabaseDSN    string
	Seed           bool
	ReportInterval time.Duration
	ReportDailyAt  string
	TelegramToken  string
	TelegramChatID int64
	ClientServer   string
	LogLevel       string
	LogFormat      string
}

// Development reports whether the server runs in development mode.
func (c Config) Development() bool {
	return strings.EqualFold(c.Env, EnvDevelopment)
}

// SetDefaults registers default values and environment binding on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", ":3000")
	v.SetDefault("env", "production")
	v.SetDefault("database.dsn", "file:todos?mode=memory&cache=shared")
	v.SetDefault("seed", true)
	v.SetDefault("report.interval", time.Hour)
	v.SetDefault("report.daily_at", "")
	v.SetDefault("telegram.token", "")
	v.SetDefault("telegram.chat_id", int64(0))
	v.SetDefault("client.server", "http://localhost:3000")
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")

	v.SetEnvPrefix("TODO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
}

// ReadFile loads an optional YAML config file. A missing default file is not an error.
func ReadFile(v *viper.Viper, path string) error {
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("todo")
		v.SetConfigType("yaml")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path == "" && errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}
	return nil
}

// Load reads configuration from v and validates it.
func Load(v *viper.Viper) (Config, error) {
	cfg := Config{
		Addr:           strings.TrimSpace(v.GetString("server.addr")),
		Env:            strings.TrimSpace(v.GetString("env")),
		DatabaseDSN:    strings.TrimSpace(v.GetString("database.dsn")),
		Seed:           v.GetBool("seed"),
		ReportInterval: v.GetDuration("report.interval"),
		ReportDailyAt:  strings.TrimSpace(v.GetString("report.daily_at")),
		TelegramToken:  strings.TrimSpace(v.GetString("telegram.token")),
		TelegramChatID: v.GetInt64("telegram.chat_id"),
		ClientServer:   strings.TrimRight(strings.TrimSpace(v.GetString("client.server")), "/"),
		LogLevel:       strings.ToLower(strings.TrimSpace(v.GetString("logging.level"))),
		LogFormat:      strings.ToLower(strings.TrimSpace(v.GetString("logging.format"))),
	}

	if cfg.Addr == "" {
		return cfg, fmt.Errorf("server.addr is required")
	}
	if cfg.ReportInterval < 0 {
		return cfg, fmt.Errorf("report.interval must not be negative, got %s", cfg.ReportInterval)
	}
	if cfg.TelegramToken != "" && cfg.TelegramChatID == 0 {
		return cfg, fmt.Errorf("telegram.chat_id is required when telegram.token is set")
	}
	if _, err := ParseLevel(cfg.LogLevel); err != nil {
		return cfg, err
	}
	switch cfg.LogFormat {
	case "console", "json":
	default:
		return cfg, fmt.Errorf("invalid log format: %s", cfg.LogFormat)
	}

	return cfg, nil
}
