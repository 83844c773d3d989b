package config

import "time"

// Config is the root configuration structure for pricebook.
// It contains the API server, the pricing catalog source, estimation
// defaults, file ingestion limits and telemetry settings.
type Config struct {
	// Server contains HTTP API server configuration including listen address,
	// timeouts, CORS and rate limiting.
	Server ServerConfig `yaml:"server"`

	// Catalog controls where pricing data comes from and how it is reloaded.
	Catalog CatalogConfig `yaml:"catalog"`

	// Tokens contains token estimation configuration.
	Tokens TokensConfig `yaml:"tokens"`

	// Estimate contains defaults applied to cost estimates.
	Estimate EstimateConfig `yaml:"estimate"`

	// Ingest contains file ingestion limits.
	Ingest IngestConfig `yaml:"ingest"`

	// Telemetry contains configuration for observability including logging,
	// metrics, tracing and health checks.
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// ServerConfig contains configuration for the HTTP API server.
type ServerConfig struct {
	// ListenAddress is the address and port for the server to listen on.
	// Format: "host:port" (e.g., "127.0.0.1:8080", "0.0.0.0:8080").
	// Default: "127.0.0.1:8080"
	ListenAddress string `yaml:"listen_address"`

	// ReadTimeout is the maximum duration for reading the entire request.
	// Default: 30s
	ReadTimeout time.Duration `yaml:"read_timeout"`

	// WriteTimeout is the maximum duration before timing out writes of the response.
	// Default: 30s
	WriteTimeout time.Duration `yaml:"write_timeout"`

	// IdleTimeout is the maximum amount of time to wait for the next request
	// when keep-alives are enabled.
	// Default: 120s
	IdleTimeout time.Duration `yaml:"idle_timeout"`

	// ShutdownTimeout bounds graceful shutdown.
	// Default: 30s
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`

	// MaxHeaderBytes controls the maximum number of bytes the server will
	// read parsing the request header.
	// Default: 1048576 (1MB)
	MaxHeaderBytes int `yaml:"max_header_bytes"`

	// CORS contains Cross-Origin Resource Sharing configuration for the
	// browser front end.
	CORS CORSConfig `yaml:"cors"`

	// RateLimit contains per-client request rate limiting.
	RateLimit RateLimitConfig `yaml:"rate_limit"`

	// TLS serves the API over HTTPS when enabled.
	TLS TLSConfig `yaml:"tls"`
}

// TLSConfig contains HTTPS configuration for the API server.
type TLSConfig struct {
	// Enabled serves HTTPS instead of plain HTTP.
	// Default: false
	Enabled bool `yaml:"enabled"`

	// CertFile is the PEM-encoded certificate (chain) file.
	CertFile string `yaml:"cert_file"`

	// KeyFile is the PEM-encoded private key file.
	KeyFile string `yaml:"key_file"`

	// MinVersion is the minimum TLS version to accept ("1.2" or "1.3").
	// Default: "1.3"
	MinVersion string `yaml:"min_version"`

	// ReloadInterval is how often the certificate files are checked for
	// changes, so renewed certificates are picked up without a restart.
	// Default: 5m
	ReloadInterval time.Duration `yaml:"reload_interval"`
}

// CORSConfig contains CORS (Cross-Origin Resource Sharing) configuration.
type CORSConfig struct {
	// Enabled controls whether CORS is enabled.
	// Default: true
	Enabled bool `yaml:"enabled"`

	// AllowedOrigins is a list of allowed origins for CORS requests.
	// Default: ["*"]
	AllowedOrigins []string `yaml:"allowed_origins"`

	// AllowedMethods is a list of allowed HTTP methods for CORS requests.
	// Default: ["GET", "POST", "OPTIONS"]
	AllowedMethods []string `yaml:"allowed_methods"`

	// AllowedHeaders is a list of allowed HTTP headers for CORS requests.
	// Default: ["Content-Type", "X-Request-ID"]
	AllowedHeaders []string `yaml:"allowed_headers"`

	// MaxAge is the maximum age (in seconds) for preflight request cache.
	// Default: 3600 (1 hour)
	MaxAge int `yaml:"max_age"`
}

// RateLimitConfig contains token-bucket rate limiting configuration.
// Limits are tracked per client address.
type RateLimitConfig struct {
	// Enabled controls whether rate limiting is applied.
	// Default: false
	Enabled bool `yaml:"enabled"`

	// RequestsPerSecond is the sustained request rate per client.
	// Default: 10
	RequestsPerSecond float64 `yaml:"requests_per_second"`

	// Burst is the maximum burst size per client.
	// Default: 20
	Burst int `yaml:"burst"`
}

// CatalogConfig contains pricing catalog configuration.
type CatalogConfig struct {
	// Path is the catalog file (.yaml, .yml or .toml).
	// Empty selects the compiled-in catalog.
	// Default: ""
	Path string `yaml:"path"`

	// Watch reloads the catalog when the file changes.
	// Ignored when Path is empty.
	// Default: true
	Watch bool `yaml:"watch"`

	// Debounce is the quiet period after a file event before reloading.
	// Default: 100ms
	Debounce time.Duration `yaml:"debounce"`

	// ReloadSchedule is an optional standard cron expression for periodic
	// reloads (e.g., "*/15 * * * *"). Ignored when Path is empty.
	// Default: ""
	ReloadSchedule string `yaml:"reload_schedule"`
}

// TokensConfig contains token estimation configuration.
type TokensConfig struct {
	// CharsPerToken is the character-to-token ratio of the estimator.
	// Default: 4
	CharsPerToken int `yaml:"chars_per_token"`
}

// EstimateConfig contains defaults for cost estimates.
type EstimateConfig struct {
	// DefaultUsage is the usage profile used when none is requested.
	// Default: "medium"
	DefaultUsage string `yaml:"default_usage"`

	// Currency is the ISO currency code attached to estimates.
	// Default: "USD"
	Currency string `yaml:"currency"`
}

// IngestConfig contains file ingestion configuration.
type IngestConfig struct {
	// MaxBytes is the largest file accepted for ingestion.
	// Default: 10485760 (10MB)
	MaxBytes int64 `yaml:"max_bytes"`
}

// TelemetryConfig contains observability configuration.
type TelemetryConfig struct {
	// Logging contains logging configuration.
	Logging LoggingConfig `yaml:"logging"`

	// Metrics contains metrics collection configuration.
	Metrics MetricsConfig `yaml:"metrics"`

	// Tracing contains distributed tracing configuration.
	Tracing TracingConfig `yaml:"tracing"`

	// Health contains health check configuration.
	Health HealthConfig `yaml:"health"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	// Level is the minimum log level to emit.
	// Options: "debug", "info", "warn", "error"
	// Default: "info"
	Level string `yaml:"level"`

	// Format controls the log output format.
	// Options: "json", "text", "console"
	// Default: "json"
	Format string `yaml:"format"`

	// AddSource includes file and line number in log entries.
	// Default: false
	AddSource bool `yaml:"add_source"`
}

// MetricsConfig contains metrics collection configuration.
type MetricsConfig struct {
	// Enabled controls whether metrics collection is active.
	// Default: true
	Enabled bool `yaml:"enabled"`

	// Path is the HTTP path for the Prometheus metrics endpoint.
	// Default: "/metrics"
	Path string `yaml:"path"`

	// Namespace is the metric name prefix.
	// Default: "pricebook"
	Namespace string `yaml:"namespace"`

	// Subsystem is the metric subsystem name.
	// Default: "engine"
	Subsystem string `yaml:"subsystem"`

	// TokenCountBuckets defines histogram buckets for token counts.
	// Default: [100, 500, 1000, 5000, 10000, 50000, 100000]
	TokenCountBuckets []float64 `yaml:"token_count_buckets"`

	// CostBuckets defines histogram buckets for estimated request cost.
	// Default: [0.0001, 0.001, 0.01, 0.1, 1, 10]
	CostBuckets []float64 `yaml:"cost_buckets"`
}

// TracingConfig contains distributed tracing configuration.
type TracingConfig struct {
	// Enabled controls whether distributed tracing is active.
	// Default: false
	Enabled bool `yaml:"enabled"`

	// Sampler determines the sampling strategy.
	// Options: "always", "never", "ratio"
	// Default: "ratio"
	Sampler string `yaml:"sampler"`

	// SampleRatio is the fraction of traces to sample (0.0 to 1.0).
	// Only used when Sampler is "ratio".
	// Default: 0.1 (10%)
	SampleRatio float64 `yaml:"sample_ratio"`

	// Endpoint is the OTLP gRPC collector endpoint.
	// Example: "localhost:4317"
	Endpoint string `yaml:"endpoint"`

	// Insecure disables TLS for the OTLP connection.
	// Default: true
	Insecure bool `yaml:"insecure"`

	// ServiceName is the service name in traces.
	// Default: "pricebook"
	ServiceName string `yaml:"service_name"`
}

// HealthConfig contains health check configuration.
type HealthConfig struct {
	// CheckTimeout is the timeout for individual component health checks.
	// Default: 5s
	CheckTimeout time.Duration `yaml:"check_timeout"`
}
