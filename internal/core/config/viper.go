package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// LoadConfig loads configuration from file using viper.
// CLI flags > environment > config file > defaults precedence.
// Environment variables use the PF_ prefix with underscores, e.g.
// PF_FILTER_CACHE_TTL=30m.
func LoadConfig(configPath string) (*FilterConfig, error) {
	v := viper.New()

	// Defaults matching DefaultFilterConfig
	v.SetDefault("filter.database_url", "")
	v.SetDefault("filter.cache_ttl", "10m")
	v.SetDefault("filter.cache_gc_interval", "5m")
	v.SetDefault("filter.log_level", "info")
	v.SetDefault("filter.log_format", "json")

	v.SetEnvPrefix("PF")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := &FilterConfig{
		DatabaseURL:     v.GetString("filter.database_url"),
		CacheTTL:        v.GetDuration("filter.cache_ttl"),
		CacheGCInterval: v.GetDuration("filter.cache_gc_interval"),
		LogLevel:        v.GetString("filter.log_level"),
		LogFormat:       v.GetString("filter.log_format"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}
