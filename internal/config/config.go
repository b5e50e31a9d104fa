// Package config provides environment-driven configuration for borderhop.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Secret wraps a sensitive string to prevent accidental logging or marshalling.
type Secret string

// String implements fmt.Stringer, returning a redacted placeholder.
func (s Secret) String() string { return "[REDACTED]" }

// GoString implements fmt.GoStringer, returning a redacted placeholder.
func (s Secret) GoString() string { return "[REDACTED]" }

// MarshalText implements encoding.TextMarshaler, returning a redacted placeholder.
func (s Secret) MarshalText() ([]byte, error) { return []byte("[REDACTED]"), nil }

// Value returns the underlying secret string.
func (s Secret) Value() string { return string(s) }

// Config holds all application configuration values.
type Config struct {
	DatabaseURL     Secret // optional; enables search history
	Port            string
	ListenHost      string
	MetricsPort     string
	LogLevel        string
	CountriesAPIURL string
	RequestTimeout  time.Duration
	ResolverRate    float64
	ResolverBurst   int
	MaxHops         int
	CORSOrigins     []string
	HistoryQueue    int
}

// Load reads configuration from environment variables with sensible defaults.
func Load() (*Config, error) {
	cfg := &Config{
		DatabaseURL:     Secret(envOrDefault("DATABASE_URL", "")),
		Port:            envOrDefault("PORT", "3040"),
		ListenHost:      envOrDefault("LISTEN_HOST", "127.0.0.1"),
		MetricsPort:     envOrDefault("METRICS_PORT", "9092"),
		LogLevel:        envOrDefault("LOG_LEVEL", "info"),
		CountriesAPIURL: strings.TrimRight(envOrDefault("COUNTRIES_API_URL", "https://restcountries.com/v3.1"), "/"),
	}

	timeout, err := time.ParseDuration(envOrDefault("REQUEST_TIMEOUT", "10s"))
	if err != nil {
		return nil, fmt.Errorf("REQUEST_TIMEOUT must be a duration such as 10s: %w", err)
	}
	cfg.RequestTimeout = timeout

	rate, err := strconv.ParseFloat(envOrDefault("RESOLVER_RATE", "5"), 64)
	if err != nil {
		return nil, fmt.Errorf("RESOLVER_RATE must be a number: %w", err)
	}
	cfg.ResolverRate = rate

	if cfg.ResolverBurst, err = envInt("RESOLVER_BURST", 1); err != nil {
		return nil, err
	}

	if cfg.MaxHops, err = envInt("MAX_HOPS", 10); err != nil {
		return nil, err
	}

	if cfg.HistoryQueue, err = envInt("HISTORY_QUEUE", 1000); err != nil {
		return nil, err
	}

	origins := envOrDefault("CORS_ORIGINS", "http://localhost:3000")
	cfg.CORSOrigins = strings.Split(origins, ",")

	for i, o := range cfg.CORSOrigins {
		cfg.CORSOrigins[i] = strings.TrimSpace(o)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

// Addr returns the listen address in host:port format.
func (c *Config) Addr() string {
	return c.ListenHost + ":" + c.Port
}

// MetricsAddr returns the metrics listen address in host:port format.
func (c *Config) MetricsAddr() string {
	return c.ListenHost + ":" + c.MetricsPort
}

// HistoryEnabled reports whether a database is configured for search history.
func (c *Config) HistoryEnabled() bool {
	return c.DatabaseURL.Value() != ""
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return fallback
}

func envInt(key string, fallback int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}

	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", key, err)
	}

	return v, nil
}
