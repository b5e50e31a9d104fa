package config

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// Bounds for tunables.
const (
	maxResolverRate  = 100
	maxResolverBurst = 100
	maxMaxHops       = 50
	minTimeout       = time.Second
	maxTimeout       = 2 * time.Minute
)

func (c *Config) validate() error {
	validators := []func() error{
		c.validateDatabase,
		c.validateNetwork,
		c.validateCountriesAPI,
		c.validateSearch,
		c.validateCORS,
		c.validateLogLevel,
	}

	for _, v := range validators {
		if err := v(); err != nil {
			return err
		}
	}

	return nil
}

// validateDatabase checks DATABASE_URL when set; history is optional.
func (c *Config) validateDatabase() error {
	if c.DatabaseURL.Value() == "" {
		return nil
	}

	dbURL, err := url.Parse(c.DatabaseURL.Value())
	if err != nil {
		return fmt.Errorf("DATABASE_URL is not a valid URL: %w", err)
	}

	if dbURL.Scheme != "postgres" && dbURL.Scheme != "postgresql" {
		return fmt.Errorf("DATABASE_URL scheme must be postgres:// or postgresql://")
	}

	if dbURL.Hostname() == "" {
		return fmt.Errorf("DATABASE_URL must include a host")
	}

	if !isLoopback(dbURL.Hostname()) && dbURL.Query().Get("sslmode") == "disable" {
		return fmt.Errorf("DATABASE_URL sslmode=disable is not allowed for non-local host %q", dbURL.Hostname())
	}

	if c.HistoryQueue < 1 || c.HistoryQueue > 100_000 {
		return fmt.Errorf("HISTORY_QUEUE must be between 1 and 100000")
	}

	return nil
}

func (c *Config) validateNetwork() error {
	port, err := strconv.Atoi(c.Port)
	if err != nil {
		return fmt.Errorf("PORT must be a valid integer: %w", err)
	}

	if port < 1 || port > 65535 {
		return fmt.Errorf("PORT must be between 1 and 65535")
	}

	// Loopback for local use; 0.0.0.0/:: for containers where the network
	// boundary is enforced externally.
	validHosts := map[string]bool{
		"127.0.0.1": true,
		"::1":       true,
		"localhost": true,
		"0.0.0.0":   true,
		"::":        true,
	}
	if !validHosts[c.ListenHost] {
		return fmt.Errorf("LISTEN_HOST must be a loopback address or 0.0.0.0/:: for containers (got %q)", c.ListenHost)
	}

	metricsPort, err := strconv.Atoi(c.MetricsPort)
	if err != nil {
		return fmt.Errorf("METRICS_PORT must be a valid integer: %w", err)
	}

	if metricsPort < 1 || metricsPort > 65535 {
		return fmt.Errorf("METRICS_PORT must be between 1 and 65535")
	}

	if metricsPort == port {
		return fmt.Errorf("METRICS_PORT must differ from PORT")
	}

	return nil
}

func (c *Config) validateCountriesAPI() error {
	u, err := url.ParseRequestURI(c.CountriesAPIURL)
	if err != nil {
		return fmt.Errorf("COUNTRIES_API_URL is not a valid URL: %w", err)
	}

	switch {
	case u.Host == "":
		return fmt.Errorf("COUNTRIES_API_URL must include a host")
	case u.Scheme == "https":
	case u.Scheme == "http" && isLoopback(u.Hostname()):
	default:
		return fmt.Errorf("COUNTRIES_API_URL must use https for non-local hosts")
	}

	if c.RequestTimeout < minTimeout || c.RequestTimeout > maxTimeout {
		return fmt.Errorf("REQUEST_TIMEOUT must be between %s and %s", minTimeout, maxTimeout)
	}

	return nil
}

func (c *Config) validateSearch() error {
	if c.ResolverRate <= 0 || c.ResolverRate > maxResolverRate {
		return fmt.Errorf("RESOLVER_RATE must be greater than 0 and at most %d", maxResolverRate)
	}

	if c.ResolverBurst < 1 || c.ResolverBurst > maxResolverBurst {
		return fmt.Errorf("RESOLVER_BURST must be between 1 and %d", maxResolverBurst)
	}

	if c.MaxHops < 1 || c.MaxHops > maxMaxHops {
		return fmt.Errorf("MAX_HOPS must be between 1 and %d", maxMaxHops)
	}

	return nil
}

func (c *Config) validateCORS() error {
	for _, origin := range c.CORSOrigins {
		if origin == "*" {
			return fmt.Errorf("CORS_ORIGINS must not contain wildcard '*'")
		}
		if strings.ContainsAny(origin, "*?[]") {
			return fmt.Errorf("CORS_ORIGINS must not contain glob characters (*?[]), got %q", origin)
		}
		u, err := url.Parse(origin)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("CORS_ORIGINS contains invalid origin %q (must have scheme and host)", origin)
		}
	}

	return nil
}

func (c *Config) validateLogLevel() error {
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("LOG_LEVEL: %w", err)
	}

	return nil
}

func isLoopback(host string) bool {
	return host == "localhost" || host == "127.0.0.1" || host == "::1"
}
