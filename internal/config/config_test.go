package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ironsheep/receipt-crop/internal/apperrors"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "receipt-crop.toml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
	return path
}

// clearEnv blanks every variable the loader reads; empty values are treated
// as unset.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"HOST", "PORT", "REQUEST_TIMEOUT", "MAX_REQUEST_BODY_SIZE", "LOG_LEVEL", "WORKERS",
		"RECEIPT_MIN_AREA_RATIO", "RECEIPT_APPROX_EPSILON", "RECEIPT_MIN_ASPECT",
		"RECEIPT_MAX_ASPECT", "RECEIPT_TARGET_WIDTH", "RECEIPT_JPEG_QUALITY",
	} {
		t.Setenv(key, "")
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Port != 5001 {
		t.Errorf("Expected default port 5001, got %d", cfg.Port)
	}
	if cfg.RequestTimeout != 30*time.Second {
		t.Errorf("Expected default timeout 30s, got %s", cfg.RequestTimeout)
	}
	if cfg.MaxRequestBodySize != 10*1024*1024 {
		t.Errorf("Expected default body size 10MB, got %d", cfg.MaxRequestBodySize)
	}
	if cfg.Workers < 1 {
		t.Errorf("Expected at least one worker, got %d", cfg.Workers)
	}
	if cfg.Pipeline.TargetWidth != 600 {
		t.Errorf("Expected default target width 600, got %d", cfg.Pipeline.TargetWidth)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Expected defaults to validate, got %v", err)
	}
	if cfg.ServerAddress() != "0.0.0.0:5001" {
		t.Errorf("Unexpected server address %q", cfg.ServerAddress())
	}
}

func TestLoadFromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("HOST", "127.0.0.1")
	t.Setenv("PORT", "8080")
	t.Setenv("REQUEST_TIMEOUT", "5s")
	t.Setenv("MAX_REQUEST_BODY_SIZE", "2048")
	t.Setenv("WORKERS", "3")
	t.Setenv("RECEIPT_MIN_AREA_RATIO", "0.1")
	t.Setenv("RECEIPT_APPROX_EPSILON", "0.02")
	t.Setenv("RECEIPT_MIN_ASPECT", "1.2")
	t.Setenv("RECEIPT_MAX_ASPECT", "8")
	t.Setenv("RECEIPT_TARGET_WIDTH", "800")
	t.Setenv("RECEIPT_JPEG_QUALITY", "80")

	cfg, err := LoadFromEnv()
	if err != nil {
		t.Fatalf("LoadFromEnv failed: %v", err)
	}

	if cfg.ServerAddress() != "127.0.0.1:8080" {
		t.Errorf("Unexpected server address %q", cfg.ServerAddress())
	}
	if cfg.RequestTimeout != 5*time.Second {
		t.Errorf("Expected timeout 5s, got %s", cfg.RequestTimeout)
	}
	if cfg.MaxRequestBodySize != 2048 {
		t.Errorf("Expected body size 2048, got %d", cfg.MaxRequestBodySize)
	}
	if cfg.Workers != 3 {
		t.Errorf("Expected 3 workers, got %d", cfg.Workers)
	}

	p := cfg.Pipeline
	if p.MinAreaRatio != 0.1 || p.ApproxEpsilonRatio != 0.02 || p.MinAspect != 1.2 || p.MaxAspect != 8 {
		t.Errorf("Unexpected pipeline thresholds: %+v", p)
	}
	if p.TargetWidth != 800 || p.JPEGQuality != 80 {
		t.Errorf("Unexpected pipeline output settings: %+v", p)
	}
}

func TestLoadFromEnv_IgnoresUnparsableValues(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "not-a-port")
	t.Setenv("REQUEST_TIMEOUT", "soon")
	t.Setenv("RECEIPT_MIN_ASPECT", "tall")

	cfg, err := LoadFromEnv()
	if err != nil {
		t.Fatalf("LoadFromEnv failed: %v", err)
	}
	if cfg.Port != DefaultPort {
		t.Errorf("Expected default port, got %d", cfg.Port)
	}
	if cfg.RequestTimeout != DefaultRequestTimeout {
		t.Errorf("Expected default timeout, got %s", cfg.RequestTimeout)
	}
	if cfg.Pipeline.MinAspect != 1.5 {
		t.Errorf("Expected default min aspect, got %f", cfg.Pipeline.MinAspect)
	}
}

func TestLoadFromEnv_InvalidValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"port out of range", "PORT", "70000"},
		{"zero timeout", "REQUEST_TIMEOUT", "0s"},
		{"negative body size", "MAX_REQUEST_BODY_SIZE", "-1"},
		{"zero workers", "WORKERS", "0"},
		{"zero target width", "RECEIPT_TARGET_WIDTH", "0"},
		{"inverted aspect bounds", "RECEIPT_MAX_ASPECT", "1.0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.value)
			_, err := LoadFromEnv()
			if !errors.Is(err, apperrors.ErrInvalidConfig) {
				t.Errorf("Expected ErrInvalidConfig, got %v", err)
			}
		})
	}
}

func TestLoad_File(t *testing.T) {
	clearEnv(t)
	path := writeConfigFile(t, `
[server]
host = "localhost"
port = 9000
request_timeout = "45s"

[pipeline]
min_aspect = 1.3
target_width = 720
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Host != "localhost" || cfg.Port != 9000 {
		t.Errorf("Unexpected address %q", cfg.ServerAddress())
	}
	if cfg.RequestTimeout != 45*time.Second {
		t.Errorf("Expected timeout 45s, got %s", cfg.RequestTimeout)
	}
	if cfg.Pipeline.MinAspect != 1.3 || cfg.Pipeline.TargetWidth != 720 {
		t.Errorf("Unexpected pipeline params: %+v", cfg.Pipeline)
	}

	// Keys absent from the file keep their defaults.
	if cfg.MaxRequestBodySize != DefaultMaxRequestBodySize {
		t.Errorf("Expected default body size, got %d", cfg.MaxRequestBodySize)
	}
	if cfg.Pipeline.MaxAspect != 10 || cfg.Pipeline.JPEGQuality != 95 {
		t.Errorf("Expected untouched pipeline defaults, got %+v", cfg.Pipeline)
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	clearEnv(t)
	path := writeConfigFile(t, `
[server]
port = 9000

[pipeline]
target_width = 720
`)
	t.Setenv("PORT", "9100")
	t.Setenv("RECEIPT_TARGET_WIDTH", "640")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Port != 9100 {
		t.Errorf("Expected env port 9100, got %d", cfg.Port)
	}
	if cfg.Pipeline.TargetWidth != 640 {
		t.Errorf("Expected env target width 640, got %d", cfg.Pipeline.TargetWidth)
	}
}

func TestLoad_FileErrors(t *testing.T) {
	clearEnv(t)
	tests := []struct {
		name    string
		content string
	}{
		{"unknown key", "[server]\nprot = 9000\n"},
		{"malformed toml", "[server\nport = 9000\n"},
		{"bad duration", "[server]\nrequest_timeout = \"soon\"\n"},
		{"wrong type", "[server]\nport = \"high\"\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfigFile(t, tt.content))
			if !errors.Is(err, apperrors.ErrInvalidConfig) {
				t.Errorf("Expected ErrInvalidConfig, got %v", err)
			}
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	if err == nil {
		t.Fatal("Expected error for missing file")
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Expected not-exist error, got %v", err)
	}
}
