package config

import (
	"context"
	"time"
)

// Config represents the complete configuration for the node runtime.
// It provides type-safe access to all configuration values with validation.
type Config struct {
	Runtime  RuntimeConfig  `koanf:"runtime"  validate:"required"`
	HTTP     HTTPConfig     `koanf:"http"     validate:"required"`
	Chatwoot ChatwootConfig `koanf:"chatwoot"`
}

// RuntimeConfig contains logging and process behavior.
type RuntimeConfig struct {
	LogLevel  string `koanf:"log_level"  validate:"oneof=debug info warn error disabled" env:"RUNTIME_LOG_LEVEL"`
	LogJSON   bool   `koanf:"log_json"                                                    env:"RUNTIME_LOG_JSON"`
	LogSource bool   `koanf:"log_source"                                                  env:"RUNTIME_LOG_SOURCE"`
}

// HTTPConfig controls the outbound transport shared by every node.
type HTTPConfig struct {
	Timeout          time.Duration `koanf:"timeout"            validate:"min=0" env:"HTTP_TIMEOUT"`
	MaxRedirects     int           `koanf:"max_redirects"      validate:"min=0" env:"HTTP_MAX_REDIRECTS"`
	MaxDownloadBytes int64         `koanf:"max_download_bytes" validate:"min=0" env:"HTTP_MAX_DOWNLOAD_BYTES"`
	RetryCount       int           `koanf:"retry_count"        validate:"min=0" env:"HTTP_RETRY_COUNT"`
	UserAgent        string        `koanf:"user_agent"                          env:"HTTP_USER_AGENT"`
}

// ChatwootConfig holds the default credential plus any named profiles.
type ChatwootConfig struct {
	URL         string                   `koanf:"url"          validate:"omitempty,url"                 env:"CHATWOOT_URL"`
	AccessToken SensitiveString          `koanf:"access_token"                                          env:"CHATWOOT_ACCESS_TOKEN" sensitive:"true"`
	Profiles    map[string]ProfileConfig `koanf:"profiles"     validate:"dive,keys,profile_name,endkeys"`
}

// ProfileConfig is a named credential profile.
type ProfileConfig struct {
	URL         string          `koanf:"url"          validate:"omitempty,url"`
	AccessToken SensitiveString `koanf:"access_token"                          sensitive:"true"`
}

// Service loads and validates configuration.
type Service interface {
	Load(ctx context.Context, sources ...Source) (*Config, error)
	Validate(config *Config) error
	GetSource(key string) SourceType
}

// Metadata tracks where each configuration key came from.
type Metadata struct {
	Sources  map[string]SourceType
	LoadedAt time.Time
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Runtime: RuntimeConfig{
			LogLevel: "info",
		},
		HTTP: HTTPConfig{
			Timeout:          60 * time.Second,
			MaxRedirects:     5,
			MaxDownloadBytes: 25 * 1024 * 1024,
			RetryCount:       0,
			UserAgent:        "chatwoot-nodes",
		},
	}
}
