// Package config loads service settings from defaults, an optional TOML
// file and environment variables, in increasing order of precedence.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"runtime"
	"strconv"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/ironsheep/receipt-crop/internal/apperrors"
	"github.com/ironsheep/receipt-crop/internal/logger"
	"github.com/ironsheep/receipt-crop/internal/pipeline"
)

// Defaults for the HTTP front-end.
const (
	DefaultHost               = "0.0.0.0"
	DefaultPort               = 5001
	DefaultRequestTimeout     = 30 * time.Second
	DefaultMaxRequestBodySize = 10 * 1024 * 1024 // 10MB
	DefaultLogLevel           = "info"
)

// Config holds every runtime setting.
type Config struct {
	Host               string
	Port               int
	RequestTimeout     time.Duration
	MaxRequestBodySize int64
	LogLevel           string

	// Workers bounds the number of images processed at once by batch
	// commands.
	Workers int

	Pipeline pipeline.Params
}

// fileConfig mirrors the TOML layout:
//
//	[server]
//	host = "0.0.0.0"
//	port = 5001
//	request_timeout = "30s"
//
//	[pipeline]
//	target_width = 600
type fileConfig struct {
	Server   serverSection   `toml:"server"`
	Pipeline pipeline.Params `toml:"pipeline"`
}

type serverSection struct {
	Host               string `toml:"host"`
	Port               int    `toml:"port"`
	RequestTimeout     string `toml:"request_timeout"`
	MaxRequestBodySize int64  `toml:"max_request_body_size"`
	LogLevel           string `toml:"log_level"`
	Workers            int    `toml:"workers"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Host:               DefaultHost,
		Port:               DefaultPort,
		RequestTimeout:     DefaultRequestTimeout,
		MaxRequestBodySize: DefaultMaxRequestBodySize,
		LogLevel:           DefaultLogLevel,
		Workers:            runtime.NumCPU(),
		Pipeline:           pipeline.DefaultParams(),
	}
}

// ServerAddress returns the host:port the HTTP server listens on.
func (c *Config) ServerAddress() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// LoadFromEnv returns the defaults overridden by environment variables.
func LoadFromEnv() (*Config, error) {
	return Load("")
}

// Load builds the configuration from defaults, the TOML file at path (when
// path is not empty) and the environment, then validates it.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		if err := cfg.LoadFile(path); err != nil {
			return nil, err
		}
	}
	cfg.ApplyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFile overlays the settings present in a TOML file. Keys missing from
// the file keep their current values; unknown keys are an error.
func (c *Config) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	fc := fileConfig{
		Server: serverSection{
			Host:               c.Host,
			Port:               c.Port,
			RequestTimeout:     c.RequestTimeout.String(),
			MaxRequestBodySize: c.MaxRequestBodySize,
			LogLevel:           c.LogLevel,
			Workers:            c.Workers,
		},
		Pipeline: c.Pipeline,
	}

	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&fc); err != nil {
		var strict *toml.StrictMissingError
		if errors.As(err, &strict) {
			return apperrors.NewInvalidConfigError(fmt.Sprintf("unknown keys in %s:\n%s", path, strict.String()))
		}
		return apperrors.NewInvalidConfigError(fmt.Sprintf("failed to parse %s: %v", path, err))
	}

	timeout, err := time.ParseDuration(fc.Server.RequestTimeout)
	if err != nil {
		return apperrors.NewInvalidConfigError(fmt.Sprintf("invalid request_timeout %q: %v", fc.Server.RequestTimeout, err))
	}

	c.Host = fc.Server.Host
	c.Port = fc.Server.Port
	c.RequestTimeout = timeout
	c.MaxRequestBodySize = fc.Server.MaxRequestBodySize
	c.LogLevel = fc.Server.LogLevel
	c.Workers = fc.Server.Workers
	c.Pipeline = fc.Pipeline
	return nil
}

// ApplyEnv overrides settings from environment variables. Values that do
// not parse are ignored with a warning.
func (c *Config) ApplyEnv() {
	c.Host = getEnvOrDefault("HOST", c.Host)
	c.Port = parseIntOrDefault("PORT", c.Port)
	c.RequestTimeout = parseDurationOrDefault("REQUEST_TIMEOUT", c.RequestTimeout)
	c.MaxRequestBodySize = parseInt64OrDefault("MAX_REQUEST_BODY_SIZE", c.MaxRequestBodySize)
	c.LogLevel = getEnvOrDefault("LOG_LEVEL", c.LogLevel)
	c.Workers = parseIntOrDefault("WORKERS", c.Workers)

	c.Pipeline.MinAreaRatio = parseFloatOrDefault("RECEIPT_MIN_AREA_RATIO", c.Pipeline.MinAreaRatio)
	c.Pipeline.ApproxEpsilonRatio = parseFloatOrDefault("RECEIPT_APPROX_EPSILON", c.Pipeline.ApproxEpsilonRatio)
	c.Pipeline.MinAspect = parseFloatOrDefault("RECEIPT_MIN_ASPECT", c.Pipeline.MinAspect)
	c.Pipeline.MaxAspect = parseFloatOrDefault("RECEIPT_MAX_ASPECT", c.Pipeline.MaxAspect)
	c.Pipeline.TargetWidth = parseIntOrDefault("RECEIPT_TARGET_WIDTH", c.Pipeline.TargetWidth)
	c.Pipeline.JPEGQuality = parseIntOrDefault("RECEIPT_JPEG_QUALITY", c.Pipeline.JPEGQuality)
}

// Validate checks every setting, including the pipeline parameters.
func (c *Config) Validate() error {
	switch {
	case c.Port < 1 || c.Port > 65535:
		return apperrors.NewInvalidConfigError(fmt.Sprintf("port must be within [1, 65535], got %d", c.Port))
	case c.RequestTimeout <= 0:
		return apperrors.NewInvalidConfigError(fmt.Sprintf("request timeout must be positive, got %s", c.RequestTimeout))
	case c.MaxRequestBodySize <= 0:
		return apperrors.NewInvalidConfigError(fmt.Sprintf("max request body size must be positive, got %d", c.MaxRequestBodySize))
	case c.Workers < 1:
		return apperrors.NewInvalidConfigError(fmt.Sprintf("workers must be at least 1, got %d", c.Workers))
	}
	return c.Pipeline.Validate()
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
		warnIgnored(key, value)
	}
	return defaultValue
}

func parseIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
		warnIgnored(key, value)
	}
	return defaultValue
}

func parseInt64OrDefault(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
		warnIgnored(key, value)
	}
	return defaultValue
}

func parseFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
		warnIgnored(key, value)
	}
	return defaultValue
}

func warnIgnored(key, value string) {
	logger.WithField("variable", key).WithField("value", value).Warn("Ignoring unparsable environment variable")
}
