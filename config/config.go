package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"
)

// Config holds collector configuration.
type Config struct {
	BaseURL         string
	Country         string
	Entity          string
	Limit           int
	Delay           time.Duration
	Timeout         time.Duration
	UserAgent       string
	OutputDir       string
	OutputPrefix    string
	OutputFormat    string // csv, json, or dual
	MetricsAddr     string
	LookupCacheSize int
	Verbose         bool
}

// MaxLimit is the hard cap the search endpoint places on a single page.
const MaxLimit = 200

// DefaultConfig returns conservative defaults for the public endpoint.
func DefaultConfig() *Config {
	return &Config{
		BaseURL:         "https://itunes.apple.com",
		Country:         "tr",
		Entity:          "software",
		Limit:           MaxLimit,
		Delay:           500 * time.Millisecond,
		Timeout:         10 * time.Second,
		UserAgent:       "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36",
		OutputDir:       "data/raw/api",
		OutputPrefix:    "apps",
		OutputFormat:    "json",
		MetricsAddr:     "",
		LookupCacheSize: 1024,
		Verbose:         false,
	}
}

// Validate ensures all configuration values are coherent.
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("base URL cannot be empty")
	}

	parsedURL, err := url.Parse(c.BaseURL)
	if err != nil {
		return fmt.Errorf("invalid base URL: %w", err)
	}
	if parsedURL.Host == "" {
		return fmt.Errorf("base URL must include a host")
	}

	if c.Country == "" {
		return fmt.Errorf("country cannot be empty")
	}
	if c.Entity == "" {
		return fmt.Errorf("entity cannot be empty")
	}
	if c.Limit <= 0 {
		return fmt.Errorf("limit must be positive")
	}
	if c.Limit > MaxLimit {
		return fmt.Errorf("limit cannot exceed %d", MaxLimit)
	}
	if c.Delay < 0 {
		return fmt.Errorf("delay cannot be negative")
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	if c.UserAgent == "" {
		return fmt.Errorf("user agent cannot be empty")
	}
	if c.OutputDir == "" {
		return fmt.Errorf("output dir cannot be empty")
	}
	if c.OutputPrefix == "" {
		return fmt.Errorf("output prefix cannot be empty")
	}
	if c.OutputFormat != "csv" && c.OutputFormat != "json" && c.OutputFormat != "dual" {
		return fmt.Errorf("output format must be csv, json, or dual")
	}
	if c.LookupCacheSize <= 0 {
		return fmt.Errorf("lookup cache size must be positive")
	}

	return nil
}

// EnvString reads a string environment override.
func EnvString(key string) (string, bool) {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return "", false
	}
	return value, true
}

// EnvInt reads an integer environment override.
func EnvInt(key string) (int, bool, error) {
	raw, ok := os.LookupEnv(key)
	if !ok || raw == "" {
		return 0, false, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false, fmt.Errorf("parse %s: %w", key, err)
	}
	return value, true, nil
}

// EnvDuration reads a duration environment override ("500ms", "2s", ...).
func EnvDuration(key string) (time.Duration, bool, error) {
	raw, ok := os.LookupEnv(key)
	if !ok || raw == "" {
		return 0, false, nil
	}
	value, err := time.ParseDuration(raw)
	if err != nil {
		return 0, false, fmt.Errorf("parse %s: %w", key, err)
	}
	return value, true, nil
}
