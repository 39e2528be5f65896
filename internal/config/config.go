// Package config provides application configuration management.
// Configuration is read from environment variables, optionally seeded from a
// dotenv file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

// DefaultConfigFile is loaded when CONFIG_FILE is unset. It may be absent.
const DefaultConfigFile = ".env"

// MaxRetries caps RETRY_MAX so the backoff stays within sane waits.
const MaxRetries = 10

// Cache backends.
const (
	CacheBackendMemory = "memory"
	CacheBackendRedis  = "redis"
)

// APISettings locates the upstream user directory.
type APISettings struct {
	BaseURL string `env:"API_BASE_URL" envDefault:"https://reqres.in/api"`
	APIKey  string `env:"API_KEY" envDefault:"reqres-free-v1"`
}

// Config holds all application configuration.
type Config struct {
	API APISettings

	// Application settings
	AppEnv  string `env:"APP_ENV" envDefault:"development"`
	AppPort int    `env:"APP_PORT" envDefault:"8080"`

	// Logging
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"text"`

	// Cache
	CacheBackend   string        `env:"CACHE_BACKEND" envDefault:"memory"`
	CacheTTL       time.Duration `env:"CACHE_TTL" envDefault:"10m"`
	RedisURL       string        `env:"REDIS_URL"`
	RedisKeyPrefix string        `env:"REDIS_KEY_PREFIX" envDefault:"userdir:"`

	// Outbound HTTP
	HTTPTimeout    time.Duration `env:"HTTP_TIMEOUT" envDefault:"60s"`
	RetryMax       int           `env:"RETRY_MAX" envDefault:"3"`
	RetryBaseDelay time.Duration `env:"RETRY_BASE_DELAY" envDefault:"1s"`

	// Server timeouts
	ReadTimeout     time.Duration `env:"READ_TIMEOUT" envDefault:"5s"`
	WriteTimeout    time.Duration `env:"WRITE_TIMEOUT" envDefault:"60s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"30s"`
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

// Validate checks values env tags cannot express.
func (c *Config) Validate() error {
	u, err := url.Parse(c.API.BaseURL)
	if err != nil {
		return fmt.Errorf("invalid API_BASE_URL: %w", err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("API_BASE_URL must be an absolute http(s) URL, got %q", c.API.BaseURL)
	}

	switch c.CacheBackend {
	case CacheBackendMemory:
	case CacheBackendRedis:
		if c.RedisURL == "" {
			return errors.New("REDIS_URL is required when CACHE_BACKEND=redis")
		}
	default:
		return fmt.Errorf("unknown CACHE_BACKEND %q", c.CacheBackend)
	}

	if c.CacheTTL <= 0 {
		return fmt.Errorf("CACHE_TTL must be positive, got %s", c.CacheTTL)
	}
	if c.RetryMax < 0 || c.RetryMax > MaxRetries {
		return fmt.Errorf("RETRY_MAX must be between 0 and %d, got %d", MaxRetries, c.RetryMax)
	}

	durations := []struct {
		name  string
		value time.Duration
	}{
		{"RETRY_BASE_DELAY", c.RetryBaseDelay},
		{"HTTP_TIMEOUT", c.HTTPTimeout},
		{"READ_TIMEOUT", c.ReadTimeout},
		{"WRITE_TIMEOUT", c.WriteTimeout},
		{"SHUTDOWN_TIMEOUT", c.ShutdownTimeout},
	}
	for _, d := range durations {
		if d.value <= 0 {
			return fmt.Errorf("%s must be positive, got %s", d.name, d.value)
		}
	}
	return nil
}

// Load reads the dotenv file named by CONFIG_FILE (default .env), then parses
// environment variables. Variables already set in the environment win over
// the file. A missing default file is ignored; a missing named file is not.
func Load() (*Config, error) {
	path, named := os.LookupEnv("CONFIG_FILE")
	if !named || path == "" {
		path = DefaultConfigFile
		named = false
	}

	if err := godotenv.Load(path); err != nil {
		if named || !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
