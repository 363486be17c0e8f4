package config

import (
	"os"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	// Set only required env var
	os.Setenv("DATABASE_URL", "postgres://localhost/test")
	defer os.Unsetenv("DATABASE_URL")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	// Verify defaults
	if cfg.Server.Host != "0.0.0.0" {
		t.Errorf("Server.Host = %q, want %q", cfg.Server.Host, "0.0.0.0")
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port = %d, want %d", cfg.Server.Port, 8080)
	}
	if cfg.Ingest.MaxFileSize != 104857600 {
		t.Errorf("Ingest.MaxFileSize = %d, want %d", cfg.Ingest.MaxFileSize, 104857600)
	}
	if cfg.Load.BatchSize != 250 {
		t.Errorf("Load.BatchSize = %d, want %d", cfg.Load.BatchSize, 250)
	}
	if cfg.Load.BatchInterval != 100*time.Millisecond {
		t.Errorf("Load.BatchInterval = %v, want %v", cfg.Load.BatchInterval, 100*time.Millisecond)
	}
	if cfg.Quarantine.FallbackPath != "quarantine_fallback.ndjson" {
		t.Errorf("Quarantine.FallbackPath = %q, want %q",
			cfg.Quarantine.FallbackPath, "quarantine_fallback.ndjson")
	}
	if cfg.Events.Enabled {
		t.Error("Events.Enabled = true, want false by default")
	}
	if cfg.Events.InsuranceDelayThreshold != 45 {
		t.Errorf("Events.InsuranceDelayThreshold = %d, want 45", cfg.Events.InsuranceDelayThreshold)
	}
}

func TestLoad_OverrideDefaults(t *testing.T) {
	os.Setenv("DATABASE_URL", "postgres://localhost/test")
	os.Setenv("SERVER_PORT", "9090")
	os.Setenv("LOAD_BATCH_SIZE", "50")
	os.Setenv("LOG_LEVEL", "debug")
	defer func() {
		os.Unsetenv("DATABASE_URL")
		os.Unsetenv("SERVER_PORT")
		os.Unsetenv("LOAD_BATCH_SIZE")
		os.Unsetenv("LOG_LEVEL")
	}()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("Server.Port = %d, want %d", cfg.Server.Port, 9090)
	}
	if cfg.Load.BatchSize != 50 {
		t.Errorf("Load.BatchSize = %d, want %d", cfg.Load.BatchSize, 50)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want %q", cfg.Logging.Level, "debug")
	}
}

func TestLoad_AltEnvVar(t *testing.T) {
	// Test that DB_URL works as fallback
	os.Setenv("DB_URL", "postgres://localhost/alttest")
	defer os.Unsetenv("DB_URL")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Database.URL != "postgres://localhost/alttest" {
		t.Errorf("Database.URL = %q, want %q", cfg.Database.URL, "postgres://localhost/alttest")
	}
}

func TestLoad_MissingRequired(t *testing.T) {
	// Ensure DATABASE_URL is not set
	os.Unsetenv("DATABASE_URL")
	os.Unsetenv("DB_URL")

	_, err := Load()
	if err == nil {
		t.Fatal("Load() expected error for missing DATABASE_URL")
	}
}

func TestLoad_BrokerList(t *testing.T) {
	os.Setenv("DATABASE_URL", "postgres://localhost/test")
	os.Setenv("EVENTS_ENABLED", "true")
	os.Setenv("EVENTS_BROKERS", "kafka-1:9092, kafka-2:9092")
	defer func() {
		os.Unsetenv("DATABASE_URL")
		os.Unsetenv("EVENTS_ENABLED")
		os.Unsetenv("EVENTS_BROKERS")
	}()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if len(cfg.Events.Brokers) != 2 {
		t.Fatalf("Events.Brokers = %v, want 2 brokers", cfg.Events.Brokers)
	}
	if cfg.Events.Brokers[1] != "kafka-2:9092" {
		t.Errorf("Events.Brokers[1] = %q, want %q", cfg.Events.Brokers[1], "kafka-2:9092")
	}
}

func TestValidate_EventsNeedBrokers(t *testing.T) {
	os.Setenv("DATABASE_URL", "postgres://localhost/test")
	os.Setenv("EVENTS_ENABLED", "true")
	defer func() {
		os.Unsetenv("DATABASE_URL")
		os.Unsetenv("EVENTS_ENABLED")
	}()

	if _, err := Load(); err == nil {
		t.Fatal("Load() expected error when events enabled without brokers")
	}
}
