// Package config provides centralized configuration management for the service.
// It loads configuration from environment variables with sensible defaults and
// validates all settings on startup to fail fast on misconfiguration.
package config

import (
	"fmt"
	"time"
)

// Config holds all application configuration.
// All settings can be configured via environment variables.
type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	Ingest     IngestConfig
	Load       LoadConfig
	Quarantine QuarantineConfig
	Events     EventsConfig
	Logging    LoggingConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	// Host is the interface to bind to (default: 0.0.0.0)
	Host string `env:"SERVER_HOST" default:"0.0.0.0"`

	// Port is the port to listen on (default: 8080)
	Port int `env:"SERVER_PORT" default:"8080"`

	// ReadTimeout is the maximum duration for reading the request body (default: 30s)
	ReadTimeout time.Duration `env:"SERVER_READ_TIMEOUT" default:"30s"`

	// WriteTimeout is the maximum duration for writing the response (default: 120s)
	WriteTimeout time.Duration `env:"SERVER_WRITE_TIMEOUT" default:"120s"`

	// IdleTimeout is the keep-alive timeout (default: 60s)
	IdleTimeout time.Duration `env:"SERVER_IDLE_TIMEOUT" default:"60s"`

	// ShutdownTimeout is the maximum duration to wait for graceful shutdown (default: 30s)
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" default:"30s"`

	// RequestTimeout is the middleware timeout for requests (default: 120s)
	RequestTimeout time.Duration `env:"SERVER_REQUEST_TIMEOUT" default:"120s"`
}

// DatabaseConfig holds warehouse connection settings.
type DatabaseConfig struct {
	// URL is the PostgreSQL connection string (required).
	// Supports both DATABASE_URL and DB_URL env vars for compatibility.
	URL string `env:"DATABASE_URL" envAlt:"DB_URL" required:"true"`

	// MaxConns is the maximum number of connections in the pool (default: 10)
	MaxConns int `env:"DB_MAX_CONNS" default:"10"`

	// MinConns is the minimum number of connections to keep open (default: 2)
	MinConns int `env:"DB_MIN_CONNS" default:"2"`

	// MaxConnLifetime is the maximum lifetime of a connection (default: 1h)
	MaxConnLifetime time.Duration `env:"DB_MAX_CONN_LIFETIME" default:"1h"`

	// MaxConnIdleTime is the maximum idle time before a connection is closed (default: 30m)
	MaxConnIdleTime time.Duration `env:"DB_MAX_CONN_IDLE_TIME" default:"30m"`
}

// IngestConfig holds CSV ingest settings.
type IngestConfig struct {
	// MaxFileSize is the maximum allowed file size in bytes (default: 100MB)
	MaxFileSize int64 `env:"INGEST_MAX_FILE_SIZE" default:"104857600"`
}

// LoadConfig holds warehouse load settings.
type LoadConfig struct {
	// BatchSize is the number of records per upsert batch (default: 250)
	BatchSize int `env:"LOAD_BATCH_SIZE" default:"250"`

	// BatchInterval is the pause between batch upserts (default: 100ms)
	BatchInterval time.Duration `env:"LOAD_BATCH_INTERVAL" default:"100ms"`

	// RetryInterval is the pause between per-record fallback upserts (default: 25ms)
	RetryInterval time.Duration `env:"LOAD_RETRY_INTERVAL" default:"25ms"`
}

// QuarantineConfig holds quarantine sink settings.
type QuarantineConfig struct {
	// FallbackPath is the local NDJSON file used when the remote sink is
	// unavailable (default: quarantine_fallback.ndjson)
	FallbackPath string `env:"QUARANTINE_FALLBACK_PATH" default:"quarantine_fallback.ndjson"`
}

// EventsConfig holds flight-delay event consumer settings.
type EventsConfig struct {
	// Enabled controls whether the Kafka consumer starts (default: false)
	Enabled bool `env:"EVENTS_ENABLED" default:"false"`

	// Brokers is a comma-separated list of Kafka brokers
	Brokers []string `env:"EVENTS_BROKERS"`

	// Topic is the flight-delay event topic (default: flight-delays)
	Topic string `env:"EVENTS_TOPIC" default:"flight-delays"`

	// ConsumerGroup is the Kafka consumer group (default: aeroload)
	ConsumerGroup string `env:"EVENTS_CONSUMER_GROUP" default:"aeroload"`

	// InsuranceDelayThreshold is the delay in minutes at which a flight
	// becomes insurance-eligible (default: 45)
	InsuranceDelayThreshold int `env:"EVENTS_INSURANCE_DELAY_THRESHOLD" default:"45"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error (default: info)
	Level string `env:"LOG_LEVEL" default:"info"`

	// Format is the log output format: text, json (default: text)
	Format string `env:"LOG_FORMAT" default:"text"`
}

// Validate checks the configuration for invalid or inconsistent values.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server port must be 1-65535, got %d", c.Server.Port)
	}

	if c.Database.URL == "" {
		return fmt.Errorf("database URL is required")
	}

	if c.Database.MaxConns < 1 {
		return fmt.Errorf("db max conns must be at least 1, got %d", c.Database.MaxConns)
	}

	if c.Database.MinConns > c.Database.MaxConns {
		return fmt.Errorf("db min conns (%d) cannot exceed max conns (%d)",
			c.Database.MinConns, c.Database.MaxConns)
	}

	if c.Ingest.MaxFileSize < 1 {
		return fmt.Errorf("ingest max file size must be positive, got %d", c.Ingest.MaxFileSize)
	}

	if c.Load.BatchSize < 1 {
		return fmt.Errorf("load batch size must be at least 1, got %d", c.Load.BatchSize)
	}

	if c.Load.BatchInterval < 0 || c.Load.RetryInterval < 0 {
		return fmt.Errorf("load pacing intervals cannot be negative")
	}

	if c.Quarantine.FallbackPath == "" {
		return fmt.Errorf("quarantine fallback path is required")
	}

	if c.Events.Enabled && len(c.Events.Brokers) == 0 {
		return fmt.Errorf("events enabled but no brokers configured")
	}

	if c.Events.InsuranceDelayThreshold < 0 {
		return fmt.Errorf("insurance delay threshold cannot be negative, got %d",
			c.Events.InsuranceDelayThreshold)
	}

	return nil
}
