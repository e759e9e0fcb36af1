package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"
)

// Provider names, in default rotation order
const (
	ProviderYahoo        = "yahoo"
	ProviderTwelveData   = "twelvedata"
	ProviderAlphaVantage = "alphavantage"
)

// Config holds all application configuration
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Providers []ProviderConfig
	Fetcher   FetcherConfig
	Scheduler SchedulerConfig
	Monitor   MonitorConfig
	Redis     RedisConfig
	Logging   LoggingConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// DatabaseConfig holds PostgreSQL configuration
type DatabaseConfig struct {
	URL             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
	MigrationsPath  string
}

// ProviderConfig holds the settings of one quote API. An empty BaseURL
// keeps the adapter's default endpoint.
type ProviderConfig struct {
	Name         string
	Enabled      bool
	RequiresKey  bool
	BaseURL      string
	APIKey       string
	BatchSize    int
	BatchDelay   time.Duration
	Timeout      time.Duration
	MaxRetries   int
	RetryBackoff time.Duration
}

// FetcherConfig holds provider health settings
type FetcherConfig struct {
	FailureThreshold  int
	RateLimitCooldown time.Duration
}

// SchedulerConfig holds update scheduling configuration
type SchedulerConfig struct {
	Enabled          bool
	ConfigFile       string
	RunTimeout       time.Duration
	GroupDelay       time.Duration
	RespectCalendar  bool
	HistoryRetention time.Duration
}

// MonitorConfig holds alerting configuration
type MonitorConfig struct {
	CheckInterval time.Duration
	AlertHistory  int
}

// RedisConfig holds the alert publisher configuration. An empty URL disables it.
type RedisConfig struct {
	URL      string
	Channel  string
	AlertTTL time.Duration
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string
	Format string
}

// Load reads configuration from environment variables with defaults
func Load() (*Config, error) {
	return &Config{
		Server: ServerConfig{
			Port:         getEnvInt("SERVER_PORT", 8080),
			ReadTimeout:  getEnvDuration("SERVER_READ_TIMEOUT", 15*time.Second),
			WriteTimeout: getEnvDuration("SERVER_WRITE_TIMEOUT", 60*time.Second),
			IdleTimeout:  getEnvDuration("SERVER_IDLE_TIMEOUT", 60*time.Second),
		},
		Database: DatabaseConfig{
			URL:             getEnvString("DATABASE_URL", ""),
			MaxOpenConns:    getEnvInt("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns:    getEnvInt("DB_MAX_IDLE_CONNS", 2),
			ConnMaxLifetime: getEnvDuration("DB_CONN_MAX_LIFETIME", 30*time.Minute),
			ConnMaxIdleTime: getEnvDuration("DB_CONN_MAX_IDLE_TIME", 5*time.Minute),
			MigrationsPath:  getEnvString("DB_MIGRATIONS_PATH", "file://migrations"),
		},
		Providers: []ProviderConfig{
			loadProvider(ProviderYahoo, "YAHOO", false, 5, time.Second),
			loadProvider(ProviderTwelveData, "TWELVEDATA", true, 8, 8*time.Second),
			loadProvider(ProviderAlphaVantage, "ALPHAVANTAGE", true, 5, 15*time.Second),
		},
		Fetcher: FetcherConfig{
			FailureThreshold:  getEnvInt("FETCHER_FAILURE_THRESHOLD", 2),
			RateLimitCooldown: getEnvDuration("FETCHER_RATE_LIMIT_COOLDOWN", 10*time.Minute),
		},
		Scheduler: SchedulerConfig{
			Enabled:          getEnvBool("SCHEDULER_ENABLED", true),
			ConfigFile:       getEnvString("SCHEDULER_CONFIG_FILE", ""),
			RunTimeout:       getEnvDuration("SCHEDULER_RUN_TIMEOUT", 15*time.Minute),
			GroupDelay:       getEnvDuration("SCHEDULER_GROUP_DELAY", 2*time.Second),
			RespectCalendar:  getEnvBool("SCHEDULER_RESPECT_CALENDAR", true),
			HistoryRetention: getEnvDuration("HISTORY_RETENTION", 90*24*time.Hour),
		},
		Monitor: MonitorConfig{
			CheckInterval: getEnvDuration("MONITOR_CHECK_INTERVAL", time.Hour),
			AlertHistory:  getEnvInt("MONITOR_ALERT_HISTORY", 100),
		},
		Redis: RedisConfig{
			URL:      getEnvString("REDIS_URL", ""),
			Channel:  getEnvString("REDIS_ALERT_CHANNEL", "moneyflow:alerts"),
			AlertTTL: getEnvDuration("REDIS_ALERT_TTL", 24*time.Hour),
		},
		Logging: LoggingConfig{
			Level:  getEnvString("LOG_LEVEL", "info"),
			Format: getEnvString("LOG_FORMAT", "json"),
		},
	}, nil
}

// loadProvider reads <PREFIX>_* variables. A keyed provider is enabled by
// default only when its key is present.
func loadProvider(name, prefix string, requiresKey bool, batchSize int, batchDelay time.Duration) ProviderConfig {
	key := ""
	if requiresKey {
		key = os.Getenv(prefix + "_API_KEY")
	}

	return ProviderConfig{
		Name:         name,
		Enabled:      getEnvBool(prefix+"_ENABLED", !requiresKey || key != ""),
		RequiresKey:  requiresKey,
		BaseURL:      getEnvString(prefix+"_BASE_URL", ""),
		APIKey:       key,
		BatchSize:    getEnvInt(prefix+"_BATCH_SIZE", batchSize),
		BatchDelay:   getEnvDuration(prefix+"_BATCH_DELAY", batchDelay),
		Timeout:      getEnvDuration(prefix+"_TIMEOUT", 10*time.Second),
		MaxRetries:   getEnvInt(prefix+"_MAX_RETRIES", 2),
		RetryBackoff: getEnvDuration(prefix+"_RETRY_BACKOFF", 500*time.Millisecond),
	}
}

// EnabledProviders returns the enabled providers in rotation order
func (c *Config) EnabledProviders() []ProviderConfig {
	out := make([]ProviderConfig, 0, len(c.Providers))
	for _, p := range c.Providers {
		if p.Enabled {
			out = append(out, p)
		}
	}
	return out
}

// Validate ensures configuration is valid
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if c.Database.URL == "" {
		return fmt.Errorf("database URL is required")
	}

	for _, p := range c.Providers {
		if !p.Enabled {
			continue
		}
		if p.RequiresKey && p.APIKey == "" {
			return fmt.Errorf("provider %s is enabled but has no API key", p.Name)
		}
		if p.BaseURL != "" {
			if u, err := url.Parse(p.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
				return fmt.Errorf("provider %s base URL is invalid: %q", p.Name, p.BaseURL)
			}
		}
		if p.BatchSize < 1 {
			return fmt.Errorf("provider %s batch size must be at least 1", p.Name)
		}
		if p.BatchDelay < 0 {
			return fmt.Errorf("provider %s batch delay cannot be negative", p.Name)
		}
		if p.Timeout <= 0 {
			return fmt.Errorf("provider %s timeout must be positive", p.Name)
		}
		if p.MaxRetries < 0 {
			return fmt.Errorf("provider %s max retries cannot be negative", p.Name)
		}
	}

	if len(c.EnabledProviders()) == 0 {
		return fmt.Errorf("at least one price provider must be enabled")
	}

	if c.Fetcher.FailureThreshold < 1 {
		return fmt.Errorf("fetcher failure threshold must be at least 1")
	}

	if c.Fetcher.RateLimitCooldown <= 0 {
		return fmt.Errorf("rate limit cooldown must be positive")
	}

	if c.Scheduler.RunTimeout < time.Minute {
		return fmt.Errorf("scheduler run timeout must be at least 1 minute")
	}

	if c.Monitor.CheckInterval < time.Minute {
		return fmt.Errorf("monitor check interval must be at least 1 minute")
	}

	if c.Monitor.AlertHistory < 1 {
		return fmt.Errorf("monitor alert history must be at least 1")
	}

	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true,
	}
	if !validLogLevels[c.Logging.Level] {
		return fmt.Errorf("invalid log level: %s", c.Logging.Level)
	}

	validLogFormats := map[string]bool{
		"json": true, "text": true,
	}
	if !validLogFormats[c.Logging.Format] {
		return fmt.Errorf("invalid log format: %s", c.Logging.Format)
	}

	return nil
}

// Helper functions
func getEnvString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
