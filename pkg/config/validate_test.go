package config

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestValidate_ValidConfig(t *testing.T) {
	if err := Validate(Default()); err != nil {
		t.Errorf("expected valid config, got error: %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		field   string
		wantMsg string
	}{
		{
			name:   "missing listen address",
			modify: func(c *Config) { c.Server.ListenAddress = "" },
			field:  "server.listen_address",
		},
		{
			name:    "listen address without port",
			modify:  func(c *Config) { c.Server.ListenAddress = "localhost" },
			field:   "server.listen_address",
			wantMsg: "must be host:port",
		},
		{
			name:   "zero write timeout",
			modify: func(c *Config) { c.Server.WriteTimeout = 0 },
			field:  "server.write_timeout",
		},
		{
			name: "rate limit without burst",
			modify: func(c *Config) {
				c.Server.RateLimit.Enabled = true
				c.Server.RateLimit.Burst = 0
			},
			field: "server.rate_limit.burst",
		},
		{
			name:   "tls without key",
			modify: func(c *Config) { c.Server.TLS.Enabled = true; c.Server.TLS.CertFile = "server.crt" },
			field:  "server.tls.key_file",
		},
		{
			name:    "tls 1.1",
			modify:  func(c *Config) { c.Server.TLS.MinVersion = "1.1" },
			field:   "server.tls.min_version",
			wantMsg: "must be '1.2' or '1.3'",
		},
		{
			name:   "cors without origins",
			modify: func(c *Config) { c.Server.CORS.AllowedOrigins = nil },
			field:  "server.cors.allowed_origins",
		},
		{
			name:   "bad reload schedule",
			modify: func(c *Config) { c.Catalog.ReloadSchedule = "61 * * * *" },
			field:  "catalog.reload_schedule",
		},
		{
			name:   "negative debounce",
			modify: func(c *Config) { c.Catalog.Debounce = -time.Second },
			field:  "catalog.debounce",
		},
		{
			name:   "zero chars per token",
			modify: func(c *Config) { c.Tokens.CharsPerToken = 0 },
			field:  "tokens.chars_per_token",
		},
		{
			name:   "lowercase currency",
			modify: func(c *Config) { c.Estimate.Currency = "usd" },
			field:  "estimate.currency",
		},
		{
			name:   "empty default usage",
			modify: func(c *Config) { c.Estimate.DefaultUsage = "  " },
			field:  "estimate.default_usage",
		},
		{
			name:   "zero ingest limit",
			modify: func(c *Config) { c.Ingest.MaxBytes = 0 },
			field:  "ingest.max_bytes",
		},
		{
			name:    "relative metrics path",
			modify:  func(c *Config) { c.Telemetry.Metrics.Path = "metrics" },
			field:   "telemetry.metrics.path",
			wantMsg: "must start with /",
		},
		{
			name:   "tracing without endpoint",
			modify: func(c *Config) { c.Telemetry.Tracing.Enabled = true },
			field:  "telemetry.tracing.endpoint",
		},
		{
			name:   "unknown sampler",
			modify: func(c *Config) { c.Telemetry.Tracing.Sampler = "sometimes" },
			field:  "telemetry.tracing.sampler",
		},
		{
			name:   "sample ratio above one",
			modify: func(c *Config) { c.Telemetry.Tracing.SampleRatio = 1.5 },
			field:  "telemetry.tracing.sample_ratio",
		},
		{
			name:    "health timeout too long",
			modify:  func(c *Config) { c.Telemetry.Health.CheckTimeout = 2 * time.Minute },
			field:   "telemetry.health.check_timeout",
			wantMsg: "exceeds reasonable limit",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)

			err := Validate(cfg)
			var verr ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}

			found := false
			for _, fe := range verr.Errors {
				if fe.Field == tt.field && strings.Contains(fe.Message, tt.wantMsg) {
					found = true
				}
			}
			if !found {
				t.Errorf("expected error on %s containing %q, got %v", tt.field, tt.wantMsg, verr.Errors)
			}
		})
	}
}

func TestValidate_MultipleErrors(t *testing.T) {
	cfg := Default()
	cfg.Server.ListenAddress = ""
	cfg.Tokens.CharsPerToken = -1
	cfg.Telemetry.Logging.Format = "xml"

	err := Validate(cfg)
	var verr ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if len(verr.Errors) != 3 {
		t.Errorf("expected 3 errors, got %d: %v", len(verr.Errors), verr.Errors)
	}
}

func TestValidate_Nil(t *testing.T) {
	if err := Validate(nil); err == nil {
		t.Error("expected error for nil config")
	}
}

func TestValidationError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      ValidationError
		contains []string
	}{
		{
			name:     "no errors",
			err:      ValidationError{},
			contains: []string{"configuration validation failed"},
		},
		{
			name:     "single error",
			err:      ValidationError{Errors: []FieldError{{Field: "server.listen_address", Message: "required"}}},
			contains: []string{"configuration validation failed: server.listen_address: required"},
		},
		{
			name: "multiple errors",
			err: ValidationError{Errors: []FieldError{
				{Field: "a", Message: "one"},
				{Field: "b", Message: "two"},
			}},
			contains: []string{"with 2 errors", "  - a: one", "  - b: two"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := tt.err.Error()
			for _, want := range tt.contains {
				if !strings.Contains(msg, want) {
					t.Errorf("error %q does not contain %q", msg, want)
				}
			}
		})
	}
}
