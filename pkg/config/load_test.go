package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
	return path
}

func TestLoadConfig_ValidFile(t *testing.T) {
	path := writeConfig(t, t.TempDir(), `
server:
  listen_address: "0.0.0.0:9000"
  read_timeout: "60s"
  cors:
    enabled: false
  rate_limit:
    enabled: true
    requests_per_second: 5
    burst: 10

catalog:
  path: "./pricing.toml"
  watch: false
  reload_schedule: "*/15 * * * *"

tokens:
  chars_per_token: 3

estimate:
  default_usage: low

telemetry:
  logging:
    level: "debug"
    format: "console"
  metrics:
    enabled: false
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Server.ListenAddress != "0.0.0.0:9000" {
		t.Errorf("expected listen address %q, got %q", "0.0.0.0:9000", cfg.Server.ListenAddress)
	}
	if cfg.Server.ReadTimeout != 60*time.Second {
		t.Errorf("expected read timeout 60s, got %v", cfg.Server.ReadTimeout)
	}
	if cfg.Server.WriteTimeout != DefaultWriteTimeout {
		t.Errorf("expected default write timeout, got %v", cfg.Server.WriteTimeout)
	}
	if cfg.Server.CORS.Enabled {
		t.Error("explicit cors.enabled=false was overridden")
	}
	if !cfg.Server.RateLimit.Enabled || cfg.Server.RateLimit.Burst != 10 {
		t.Errorf("unexpected rate limit: %+v", cfg.Server.RateLimit)
	}
	if cfg.Catalog.Watch {
		t.Error("explicit catalog.watch=false was overridden")
	}
	if cfg.Catalog.Path != "./pricing.toml" {
		t.Errorf("unexpected catalog path %q", cfg.Catalog.Path)
	}
	if cfg.Tokens.CharsPerToken != 3 {
		t.Errorf("expected chars_per_token 3, got %d", cfg.Tokens.CharsPerToken)
	}
	if cfg.Estimate.DefaultUsage != "low" || cfg.Estimate.Currency != "USD" {
		t.Errorf("unexpected estimate config: %+v", cfg.Estimate)
	}
	if cfg.Telemetry.Metrics.Enabled {
		t.Error("explicit metrics.enabled=false was overridden")
	}
	if cfg.Telemetry.Logging.Format != "console" {
		t.Errorf("expected console format, got %q", cfg.Telemetry.Logging.Format)
	}
}

func TestLoadConfig_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantMsg string
	}{
		{
			name:    "invalid yaml",
			content: "server: [",
			wantMsg: "failed to parse",
		},
		{
			name:    "invalid log level",
			content: "telemetry:\n  logging:\n    level: verbose\n",
			wantMsg: "invalid logging level",
		},
		{
			name:    "bad cron schedule",
			content: "catalog:\n  reload_schedule: \"every minute\"\n",
			wantMsg: "catalog.reload_schedule",
		},
		{
			name:    "unsupported catalog extension",
			content: "catalog:\n  path: prices.json\n",
			wantMsg: "unsupported catalog file",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, t.TempDir(), tt.content)
			_, err := LoadConfig(path)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("error %q does not contain %q", err.Error(), tt.wantMsg)
			}
		})
	}
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected not-exist error, got %v", err)
	}
}

func TestLoadConfigWithEnvOverrides(t *testing.T) {
	path := writeConfig(t, t.TempDir(), `
server:
  listen_address: "127.0.0.1:8080"
telemetry:
  logging:
    level: "info"
`)

	t.Setenv("PRICEBOOK_SERVER_LISTEN_ADDRESS", "0.0.0.0:7070")
	t.Setenv("PRICEBOOK_SERVER_READ_TIMEOUT", "5s")
	t.Setenv("PRICEBOOK_CATALOG_WATCH", "false")
	t.Setenv("PRICEBOOK_TOKENS_CHARS_PER_TOKEN", "5")
	t.Setenv("PRICEBOOK_INGEST_MAX_BYTES", "2048")
	t.Setenv("PRICEBOOK_TELEMETRY_LOGGING_LEVEL", "debug")
	t.Setenv("PRICEBOOK_TELEMETRY_TRACING_SAMPLE_RATIO", "not-a-number")

	cfg, err := LoadConfigWithEnvOverrides(path)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Server.ListenAddress != "0.0.0.0:7070" {
		t.Errorf("expected env listen address, got %q", cfg.Server.ListenAddress)
	}
	if cfg.Server.ReadTimeout != 5*time.Second {
		t.Errorf("expected env read timeout, got %v", cfg.Server.ReadTimeout)
	}
	if cfg.Catalog.Watch {
		t.Error("expected env to disable catalog watch")
	}
	if cfg.Tokens.CharsPerToken != 5 {
		t.Errorf("expected env chars per token, got %d", cfg.Tokens.CharsPerToken)
	}
	if cfg.Ingest.MaxBytes != 2048 {
		t.Errorf("expected env max bytes, got %d", cfg.Ingest.MaxBytes)
	}
	if cfg.Telemetry.Logging.Level != "debug" {
		t.Errorf("expected env log level, got %q", cfg.Telemetry.Logging.Level)
	}
	if cfg.Telemetry.Tracing.SampleRatio != DefaultTracingSamplingRate {
		t.Errorf("malformed env value should be ignored, got %v", cfg.Telemetry.Tracing.SampleRatio)
	}
}

func TestLoadConfigWithEnvOverrides_InvalidAfterOverride(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "server:\n  listen_address: \"127.0.0.1:8080\"\n")
	t.Setenv("PRICEBOOK_ESTIMATE_CURRENCY", "dollars")

	_, err := LoadConfigWithEnvOverrides(path)
	var verr ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestLoadConfigWithEnvOverrides_DefaultPath(t *testing.T) {
	t.Run("missing default file uses defaults", func(t *testing.T) {
		t.Chdir(t.TempDir())

		cfg, err := LoadConfigWithEnvOverrides("")
		if err != nil {
			t.Fatalf("expected defaults, got error: %v", err)
		}
		if cfg.Server.ListenAddress != DefaultListenAddress {
			t.Errorf("expected default listen address, got %q", cfg.Server.ListenAddress)
		}
	})

	t.Run("present default file is read", func(t *testing.T) {
		dir := t.TempDir()
		writeConfig(t, dir, "estimate:\n  default_usage: high\n")
		t.Chdir(dir)

		cfg, err := LoadConfigWithEnvOverrides("")
		if err != nil {
			t.Fatalf("failed to load config: %v", err)
		}
		if cfg.Estimate.DefaultUsage != "high" {
			t.Errorf("expected usage from default file, got %q", cfg.Estimate.DefaultUsage)
		}
	})

	t.Run("explicit missing path is an error", func(t *testing.T) {
		if _, err := LoadConfigWithEnvOverrides(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
			t.Error("expected error for explicit missing path")
		}
	})
}
