package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Environment string `envconfig:"ENVIRONMENT" default:"local"`
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info"`

	TranslationURL            string        `envconfig:"ANSA_TRANSLATION_URL" required:"true"`
	TranslationConnectTimeout time.Duration `envconfig:"ANSA_TRANSLATION_CONNECT_TIMEOUT" default:"5s"`
	TranslationReadTimeout    time.Duration `envconfig:"ANSA_TRANSLATION_READ_TIMEOUT" default:"30s"`

	PhotoAPI            string        `envconfig:"ANSA_PHOTO_API" required:"true"`
	PhotoUsername       string        `envconfig:"ANSA_PHOTO_USERNAME" default:""`
	PhotoPassword       string        `envconfig:"ANSA_PHOTO_PASSWORD" default:""`
	PhotoConnectTimeout time.Duration `envconfig:"ANSA_PHOTO_CONNECT_TIMEOUT" default:"5s"`
	PhotoReadTimeout    time.Duration `envconfig:"ANSA_PHOTO_READ_TIMEOUT" default:"25s"`

	DatabaseURL string `envconfig:"DATABASE_URL" default:""`
	DBMinConns  int32  `envconfig:"DB_MIN_CONNS" default:"1"`
	DBMaxConns  int32  `envconfig:"DB_MAX_CONNS" default:"8"`

	PublicBaseURL string `envconfig:"PUBLIC_BASE_URL" default:"http://localhost:8090"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if err := validateAbsoluteURL("ANSA_TRANSLATION_URL", c.TranslationURL); err != nil {
		return err
	}
	if err := validateAbsoluteURL("ANSA_PHOTO_API", c.PhotoAPI); err != nil {
		return err
	}
	if err := validateAbsoluteURL("PUBLIC_BASE_URL", c.PublicBaseURL); err != nil {
		return err
	}
	if c.TranslationConnectTimeout <= 0 || c.TranslationReadTimeout <= 0 {
		return fmt.Errorf("ANSA_TRANSLATION_CONNECT_TIMEOUT and ANSA_TRANSLATION_READ_TIMEOUT must be > 0")
	}
	if c.PhotoConnectTimeout <= 0 || c.PhotoReadTimeout <= 0 {
		return fmt.Errorf("ANSA_PHOTO_CONNECT_TIMEOUT and ANSA_PHOTO_READ_TIMEOUT must be > 0")
	}
	if c.DBMinConns < 0 {
		return fmt.Errorf("DB_MIN_CONNS must be >= 0")
	}
	if c.DBMaxConns < 1 {
		return fmt.Errorf("DB_MAX_CONNS must be >= 1")
	}
	if c.DBMinConns > c.DBMaxConns {
		return fmt.Errorf("DB_MIN_CONNS (%d) cannot exceed DB_MAX_CONNS (%d)", c.DBMinConns, c.DBMaxConns)
	}
	return nil
}

// HasDatabase reports whether media should be persisted in Postgres.
func (c *Config) HasDatabase() bool {
	return c != nil && strings.TrimSpace(c.DatabaseURL) != ""
}

func validateAbsoluteURL(name, raw string) error {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return fmt.Errorf("%s is required", name)
	}
	parsed, err := url.Parse(trimmed)
	if err != nil {
		return fmt.Errorf("%s is not a valid URL: %w", name, err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("%s must be an absolute URL", name)
	}
	return nil
}
