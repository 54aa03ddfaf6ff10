// internal/common/config/config.go
package config

import "fmt"

// Config is the main application configuration struct.
type Config struct {
	App      AppConfig      `mapstructure:"app"`
	Telegram TelegramConfig `mapstructure:"telegram"`
	RCON     RCONConfig     `mapstructure:"rcon"`
	Database DatabaseConfig `mapstructure:"database"`
	Review   ReviewConfig   `mapstructure:"review"`
	Metrics  MetricsConfig  `mapstructure:"metrics"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// --- Core App/Infrastructure Config ---
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

// TelegramConfig holds settings for the messaging channel.
type TelegramConfig struct {
	Token          string `mapstructure:"token"`
	PollTimeout    int    `mapstructure:"poll_timeout"`    // seconds
	RetryBackoff   int    `mapstructure:"retry_backoff"`   // seconds between reconnect attempts
	WebhookCleanup bool   `mapstructure:"webhook_cleanup"` // drop a stale webhook before polling
}

// RCONConfig holds settings for the remote access-grant channel.
type RCONConfig struct {
	Host             string `mapstructure:"host"`
	Port             int    `mapstructure:"port"`
	Password         string `mapstructure:"password"`
	Timeout          int    `mapstructure:"timeout"` // milliseconds
	WhitelistCommand string `mapstructure:"whitelist_command"`
}

// Address returns the host:port dial target.
func (r RCONConfig) Address() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

type DatabaseConfig struct {
	Postgres PostgresConfig `mapstructure:"postgres"`
	Redis    RedisConfig    `mapstructure:"redis"`
}

type PostgresConfig struct {
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	Database       string `mapstructure:"database"`
	User           string `mapstructure:"user"`
	Password       string `mapstructure:"password"`
	MaxConnections int    `mapstructure:"max_connections"`
	MaxIdle        int    `mapstructure:"max_idle"`
	SSLMode        string `mapstructure:"sslmode"`
}

// GetDSN returns the PostgreSQL connection string
func (p PostgresConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode,
	)
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// ReviewConfig holds settings for the review workflow.
type ReviewConfig struct {
	RosterPath   string `mapstructure:"roster_path"`   // reviewer roster JSON file
	CooldownDays int    `mapstructure:"cooldown_days"` // re-submission cooldown after rejection
	SessionTTL   int    `mapstructure:"session_ttl"`   // conversation session TTL, seconds
}

// MetricsConfig holds settings for the metrics/pprof endpoint.
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Address string `mapstructure:"address"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}
