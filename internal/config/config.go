package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Addr         string        `yaml:"addr"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
	IdleTimeout  time.Duration `yaml:"idle_timeout"`
	CORSOrigins  []string      `yaml:"cors_origins"`
	AdminAPIKey  string        `yaml:"admin_api_key"`
}

// RedisConfig holds Redis connection configuration
type RedisConfig struct {
	Enabled      bool   `yaml:"enabled"`
	URL          string `yaml:"url"`
	StreamMaxLen int64  `yaml:"stream_max_len"`
	// StreamFanout feeds WebSocket clients from the update stream instead of
	// this process's own updates.
	StreamFanout bool `yaml:"stream_fanout"`
}

// PostgresConfig holds snapshot database configuration. An empty DSN
// disables snapshot persistence.
type PostgresConfig struct {
	DSN string `yaml:"dsn"`
}

// SourceConfig describes where scorecards are fetched from
type SourceConfig struct {
	BaseURL             string        `yaml:"base_url"`
	DefaultTournamentID string        `yaml:"default_tournament_id"`
	UserAgent           string        `yaml:"user_agent"`
	Timeout             time.Duration `yaml:"timeout"`
	MaxAttempts         int           `yaml:"max_attempts"`
	RetryDelay          time.Duration `yaml:"retry_delay"`
	RequestsPerSecond   float64       `yaml:"requests_per_second"`
	Mode                string        `yaml:"mode"` // "http" or "browser"
	ChromePath          string        `yaml:"chrome_path"`
}

// PollerConfig controls background refresh of tracked matches
type PollerConfig struct {
	Enabled      bool          `yaml:"enabled"`
	Interval     time.Duration `yaml:"interval"`
	AutoSnapshot bool          `yaml:"auto_snapshot"`
}

// DebugConfig controls raw document capture. S3Bucket takes precedence over Dir.
type DebugConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Dir      string `yaml:"dir"`
	S3Bucket string `yaml:"s3_bucket"`
	S3Prefix string `yaml:"s3_prefix"`
	S3Region string `yaml:"s3_region"`
}

// TelegramConfig holds alert bot settings. An empty token disables alerts.
type TelegramConfig struct {
	BotToken string `yaml:"bot_token"`
	ChatID   int64  `yaml:"chat_id"`
}

// LoggingConfig selects log level and format
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // "text" or "json"
}

// Config holds all application configuration
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Redis    RedisConfig    `yaml:"redis"`
	Postgres PostgresConfig `yaml:"postgres"`
	Source   SourceConfig   `yaml:"source"`
	Poller   PollerConfig   `yaml:"poller"`
	Debug    DebugConfig    `yaml:"debug"`
	Telegram TelegramConfig `yaml:"telegram"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:         ":5000",
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  60 * time.Second,
			CORSOrigins:  []string{"*"},
			AdminAPIKey:  "demo_admin_key",
		},
		Redis: RedisConfig{
			Enabled:      true,
			URL:          "redis://localhost:6379",
			StreamMaxLen: 10000,
		},
		Source: SourceConfig{
			BaseURL:             "https://www.bing.com/cricketdetails",
			DefaultTournamentID: "8307",
			UserAgent:           "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
			Timeout:             15 * time.Second,
			MaxAttempts:         3,
			RetryDelay:          500 * time.Millisecond,
			RequestsPerSecond:   1,
			Mode:                "http",
		},
		Poller: PollerConfig{
			Enabled:  true,
			Interval: 30 * time.Second,
		},
		Debug: DebugConfig{
			Dir:      "debug_html",
			S3Prefix: "debug_html/",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// LoadConfig builds configuration from defaults, then the YAML file named by
// CONFIG_FILE if set, then environment variables.
func LoadConfig() (*Config, error) {
	cfg := Default()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}
	return nil
}

func (c *Config) applyEnv() error {
	c.Server.Addr = getEnv("SERVER_ADDR", c.Server.Addr)
	c.Server.AdminAPIKey = getEnv("ADMIN_API_KEY", c.Server.AdminAPIKey)
	if origins := os.Getenv("CORS_ORIGINS"); origins != "" {
		c.Server.CORSOrigins = splitList(origins)
	}

	c.Redis.URL = getEnv("REDIS_URL", c.Redis.URL)
	c.Postgres.DSN = getEnv("DATABASE_URL", c.Postgres.DSN)

	c.Source.BaseURL = getEnv("SOURCE_BASE_URL", c.Source.BaseURL)
	c.Source.DefaultTournamentID = getEnv("DEFAULT_TOURNAMENT_ID", c.Source.DefaultTournamentID)
	c.Source.UserAgent = getEnv("SOURCE_USER_AGENT", c.Source.UserAgent)
	c.Source.Mode = getEnv("SOURCE_MODE", c.Source.Mode)
	c.Source.ChromePath = getEnv("CHROME_PATH", c.Source.ChromePath)

	c.Debug.Dir = getEnv("DEBUG_DIR", c.Debug.Dir)
	c.Debug.S3Bucket = getEnv("DEBUG_S3_BUCKET", c.Debug.S3Bucket)
	c.Debug.S3Region = getEnv("AWS_REGION", c.Debug.S3Region)

	c.Telegram.BotToken = getEnv("TELEGRAM_BOT_TOKEN", c.Telegram.BotToken)

	c.Logging.Level = getEnv("LOG_LEVEL", c.Logging.Level)
	c.Logging.Format = getEnv("LOG_FORMAT", c.Logging.Format)

	var err error
	if c.Redis.Enabled, err = getEnvBool("REDIS_ENABLED", c.Redis.Enabled); err != nil {
		return err
	}
	if c.Redis.StreamFanout, err = getEnvBool("REDIS_STREAM_FANOUT", c.Redis.StreamFanout); err != nil {
		return err
	}
	if c.Poller.Enabled, err = getEnvBool("POLLER_ENABLED", c.Poller.Enabled); err != nil {
		return err
	}
	if c.Poller.AutoSnapshot, err = getEnvBool("POLLER_AUTO_SNAPSHOT", c.Poller.AutoSnapshot); err != nil {
		return err
	}
	if c.Debug.Enabled, err = getEnvBool("DEBUG_CAPTURE", c.Debug.Enabled); err != nil {
		return err
	}
	if c.Poller.Interval, err = getEnvDuration("POLL_INTERVAL", c.Poller.Interval); err != nil {
		return err
	}
	if c.Source.Timeout, err = getEnvDuration("SOURCE_TIMEOUT", c.Source.Timeout); err != nil {
		return err
	}
	if c.Source.MaxAttempts, err = getEnvInt("SOURCE_MAX_ATTEMPTS", c.Source.MaxAttempts); err != nil {
		return err
	}
	if c.Telegram.ChatID, err = getEnvInt64("TELEGRAM_CHAT_ID", c.Telegram.ChatID); err != nil {
		return err
	}

	// PORT is honoured for platforms that only set a port
	if port := os.Getenv("PORT"); port != "" && os.Getenv("SERVER_ADDR") == "" {
		c.Server.Addr = ":" + port
	}
	return nil
}

// Validate rejects configurations the service cannot start with.
func (c *Config) Validate() error {
	if c.Source.BaseURL == "" {
		return fmt.Errorf("source base url is required")
	}
	if c.Source.Mode != "http" && c.Source.Mode != "browser" {
		return fmt.Errorf("unknown source mode %q", c.Source.Mode)
	}
	if c.Source.MaxAttempts < 1 {
		return fmt.Errorf("source max attempts must be at least 1, got %d", c.Source.MaxAttempts)
	}
	if c.Poller.Enabled && c.Poller.Interval <= 0 {
		return fmt.Errorf("poller interval must be positive, got %s", c.Poller.Interval)
	}
	return nil
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) (bool, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %w", key, err)
	}
	return b, nil
}

func getEnvInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func getEnvInt64(key string, defaultValue int64) (int64, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func getEnvDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
