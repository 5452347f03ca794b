package config

import (
	"fmt"
	"os"
)

// Config holds all application configuration.
type Config struct {
	// Env is the environment name (development, staging, production)
	Env string

	// Port is the HTTP server port
	Port string

	// EncryptionKeyFile points at a file holding the 32-byte symmetric
	// key used to seal interview state tokens (spec §4.9, §6).
	EncryptionKeyFile string

	// ConfigFile points at the YAML interview definitions (spec §6).
	ConfigFile string

	// RootPathPrefix is the service's root path prefix, read from
	// ROOT_PATH_PREFIX. Nothing in this module applies it: routes are
	// registered at the root, and question-file paths resolve against the
	// directory of the file that references them.
	RootPathPrefix string

	// RedisAddr is the optional hook-idempotency cache backend; empty
	// disables the cache and every hook dispatch runs unconditionally.
	RedisAddr string

	// OTel holds tracing exporter configuration.
	OTel OTelConfig
}

// OTelConfig configures the tracing-only telemetry pipeline (spec's
// ambient stack; metrics/log export are out of scope).
type OTelConfig struct {
	Endpoint       string
	Headers        string
	ServiceName    string
	ServiceVersion string
}

// Enabled reports whether an OTLP trace exporter should be started.
func (c OTelConfig) Enabled() bool {
	return c.Endpoint != ""
}

// Load loads configuration from environment variables, providing
// sensible defaults for local development.
func Load() Config {
	return Config{
		Env:               getEnv("INTERVIEW_ENV", "development"),
		Port:              getEnv("PORT", "8080"),
		EncryptionKeyFile: getEnv("ENCRYPTION_KEY_FILE", ""),
		ConfigFile:        getEnv("CONFIG_FILE", "interview.yml"),
		RootPathPrefix:    getEnv("ROOT_PATH_PREFIX", ""),
		RedisAddr:         getEnv("REDIS_ADDR", ""),
		OTel: OTelConfig{
			Endpoint:       getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
			Headers:        getEnv("OTEL_EXPORTER_OTLP_HEADERS", ""),
			ServiceName:    getEnv("OTEL_SERVICE_NAME", "oes-interview-engine"),
			ServiceVersion: getEnv("SERVICE_VERSION", "dev"),
		},
	}
}

// IsProduction returns true if running in production environment.
func (c Config) IsProduction() bool {
	return c.Env == "production"
}

// IsDevelopment returns true if running in development environment.
func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

// RequireEncryptionKeyFile fails fast when the token codec has nothing
// to load a key from.
func (c Config) RequireEncryptionKeyFile() error {
	if c.EncryptionKeyFile == "" {
		return fmt.Errorf("ENCRYPTION_KEY_FILE is required")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}
