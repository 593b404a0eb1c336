// Package config provides configuration management for PromoFilter.
package config

import (
	"fmt"
	"time"
)

// FilterConfig holds configuration for the filter engine and CLI.
type FilterConfig struct {
	DatabaseURL     string
	CacheTTL        time.Duration
	CacheGCInterval time.Duration
	LogLevel        string
	LogFormat       string
}

// DefaultFilterConfig returns configuration with default values.
func DefaultFilterConfig() *FilterConfig {
	return &FilterConfig{
		DatabaseURL:     "",
		CacheTTL:        10 * time.Minute,
		CacheGCInterval: 5 * time.Minute,
		LogLevel:        "info",
		LogFormat:       "json",
	}
}

// Validate checks value ranges. A zero CacheTTL disables caching; negative
// durations are configuration mistakes.
func (c *FilterConfig) Validate() error {
	if c.CacheTTL < 0 {
		return fmt.Errorf("cache_ttl must not be negative, got %v", c.CacheTTL)
	}
	if c.CacheGCInterval < 0 {
		return fmt.Errorf("cache_gc_interval must not be negative, got %v", c.CacheGCInterval)
	}
	switch c.LogFormat {
	case "json", "text":
	default:
		return fmt.Errorf("log_format must be json or text, got %q", c.LogFormat)
	}
	return nil
}
