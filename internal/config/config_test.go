package config

import (
	"strings"
	"testing"
	"time"
)

func validConfig() Config {
	return Config{
		Environment:               "local",
		LogLevel:                  "info",
		TranslationURL:            "http://translate.example.com/api",
		TranslationConnectTimeout: 5 * time.Second,
		TranslationReadTimeout:    30 * time.Second,
		PhotoAPI:                  "https://photo.example.com/api/",
		PhotoConnectTimeout:       5 * time.Second,
		PhotoReadTimeout:          25 * time.Second,
		DBMinConns:                1,
		DBMaxConns:                8,
		PublicBaseURL:             "http://localhost:8090",
	}
}

func TestValidateAcceptsDefaults(t *testing.T) {
	t.Parallel()

	cfg := validConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected valid config, got %v", err)
	}
	if cfg.HasDatabase() {
		t.Fatalf("did not expect database without DATABASE_URL")
	}
}

func TestValidateRejectsRelativePhotoAPI(t *testing.T) {
	t.Parallel()

	cfg := validConfig()
	cfg.PhotoAPI = "photo/api"
	err := cfg.Validate()
	if err == nil {
		t.Fatalf("expected validation error")
	}
	if !strings.Contains(err.Error(), "ANSA_PHOTO_API") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidateRejectsMissingTranslationURL(t *testing.T) {
	t.Parallel()

	cfg := validConfig()
	cfg.TranslationURL = "  "
	if err := cfg.Validate(); err == nil || !strings.Contains(err.Error(), "ANSA_TRANSLATION_URL is required") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidateRejectsConnBounds(t *testing.T) {
	t.Parallel()

	cfg := validConfig()
	cfg.DBMinConns = 10
	cfg.DBMaxConns = 2
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected validation error for min > max")
	}
}

func TestLoadReadsEnvironment(t *testing.T) {
	t.Setenv("ANSA_TRANSLATION_URL", "http://translate.example.com")
	t.Setenv("ANSA_PHOTO_API", "https://photo.example.com/api/")
	t.Setenv("ANSA_PHOTO_USERNAME", "user")
	t.Setenv("ANSA_PHOTO_PASSWORD", "secret")
	t.Setenv("ANSA_PHOTO_READ_TIMEOUT", "10s")
	t.Setenv("DATABASE_URL", "postgres://localhost/ansa")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.PhotoUsername != "user" || cfg.PhotoPassword != "secret" {
		t.Fatalf("unexpected credentials: %q/%q", cfg.PhotoUsername, cfg.PhotoPassword)
	}
	if cfg.PhotoReadTimeout != 10*time.Second {
		t.Fatalf("unexpected read timeout: %s", cfg.PhotoReadTimeout)
	}
	if cfg.TranslationReadTimeout != 30*time.Second {
		t.Fatalf("unexpected translation read timeout: %s", cfg.TranslationReadTimeout)
	}
	if !cfg.HasDatabase() {
		t.Fatalf("expected database to be enabled")
	}
}
