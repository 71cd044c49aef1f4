package config

import (
	"context"
	"fmt"

	"github.com/caarlos0/env/v9"
	"github.com/go-logr/logr"
)

// Settings holds process-level options read from the environment.
type Settings struct {
	ConfigRegion string `env:"CONFIG_S3_REGION" envDefault:"us-west-2"`
	ConfigBucket string `env:"CONFIG_S3_BUCKET"`
	ConfigKey    string `env:"CONFIG_S3_KEY" envDefault:"config.json"`
	ConfigFile   string `env:"CONFIG_FILE"` // local document, replaces S3 when set

	Provider string `env:"DNS_PROVIDER" envDefault:"route53"`

	LogLevel       int  `env:"LOG_LEVEL" envDefault:"0"`
	LogDevelopment bool `env:"LOG_DEVELOPMENT" envDefault:"false"`

	HTTPAddr string `env:"HTTP_ADDR" envDefault:":8080"`
}

// LoadSettings reads Settings from environment variables and validates them.
func LoadSettings() (*Settings, error) {
	var s Settings
	if err := env.Parse(&s); err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Validate checks that a configuration source and a provider are set.
func (s *Settings) Validate() error {
	if s.ConfigFile == "" {
		if s.ConfigBucket == "" {
			return fmt.Errorf("CONFIG_S3_BUCKET is required (or set CONFIG_FILE)")
		}
		if s.ConfigKey == "" {
			return fmt.Errorf("CONFIG_S3_KEY must not be empty")
		}
		if s.ConfigRegion == "" {
			return fmt.Errorf("CONFIG_S3_REGION must not be empty")
		}
	}
	if s.Provider == "" {
		return fmt.Errorf("DNS_PROVIDER must not be empty")
	}
	if s.LogLevel < 0 {
		return fmt.Errorf("LOG_LEVEL must not be negative, got %d", s.LogLevel)
	}
	return nil
}

// NewStore returns the configuration store selected by the settings.
func (s *Settings) NewStore(ctx context.Context, log logr.Logger) (Store, error) {
	if s.ConfigFile != "" {
		return NewFileStore(log, s.ConfigFile), nil
	}
	return NewS3Store(ctx, log, s.ConfigRegion, s.ConfigBucket, s.ConfigKey)
}
