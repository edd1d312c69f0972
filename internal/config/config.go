// Package config loads the dashboard's settings from environment variables,
// applies defaults, and validates everything on startup so a bad deployment
// fails before the dataset is read.
package config

import (
	"strconv"
	"time"
)

// Config holds all application configuration.
// All settings can be configured via environment variables.
type Config struct {
	Server   ServerConfig
	Data     DataConfig
	Charts   ChartConfig
	Rate     RateLimitConfig
	Security SecurityConfig
	Logging  LoggingConfig
	Metrics  MetricsConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	// Host is the interface to bind to (default: 0.0.0.0)
	Host string `env:"SERVER_HOST" default:"0.0.0.0"`

	// Port is the port to listen on (default: 8080)
	Port int `env:"SERVER_PORT" default:"8080"`

	ReadTimeout  time.Duration `env:"SERVER_READ_TIMEOUT" default:"15s"`
	WriteTimeout time.Duration `env:"SERVER_WRITE_TIMEOUT" default:"30s"`
	IdleTimeout  time.Duration `env:"SERVER_IDLE_TIMEOUT" default:"60s"`

	// ShutdownTimeout is the maximum duration to wait for graceful shutdown (default: 15s)
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" default:"15s"`

	// RequestTimeout is the middleware timeout for requests (default: 30s)
	RequestTimeout time.Duration `env:"SERVER_REQUEST_TIMEOUT" default:"30s"`
}

// DataConfig describes the observation file served by the dashboard.
type DataConfig struct {
	// Path is a local file path or an http(s) URL (required).
	// Supports both DATA_PATH and WILDLIFE_CSV.
	Path string `env:"DATA_PATH" envAlt:"WILDLIFE_CSV" required:"true"`

	// MaxFileSize is the maximum accepted file size in bytes (default: 50MB)
	MaxFileSize int64 `env:"DATA_MAX_FILE_SIZE" default:"52428800"`

	// LoadTimeout bounds reading and parsing the file (default: 2m)
	LoadTimeout time.Duration `env:"DATA_LOAD_TIMEOUT" default:"2m"`
}

// ChartConfig holds chart rendering settings.
type ChartConfig struct {
	Width  int `env:"CHART_WIDTH" default:"720"`
	Height int `env:"CHART_HEIGHT" default:"360"`

	// MaxConcurrent is the number of chart renders and exports allowed at once (default: 4)
	MaxConcurrent int `env:"RENDER_MAX_CONCURRENT" default:"4"`

	// MaxWaitTime is how long a request waits for a render slot (default: 10s)
	MaxWaitTime time.Duration `env:"RENDER_MAX_WAIT_TIME" default:"10s"`

	// CacheSets is how many filter selections keep their rendered charts (default: 4)
	CacheSets int `env:"CHART_CACHE_SETS" default:"4"`
}

// RateLimitConfig holds rate limiting settings per time window.
type RateLimitConfig struct {
	// Enabled controls whether rate limiting is active (default: true)
	Enabled bool `env:"RATE_LIMIT_ENABLED" default:"true"`

	// RequestsPerMinute is the default rate limit per IP (default: 300)
	RequestsPerMinute int `env:"RATE_LIMIT_REQUESTS_PER_MINUTE" default:"300"`

	// ExportLimit is requests per minute for the CSV export endpoint (default: 30)
	ExportLimit int `env:"RATE_LIMIT_EXPORT" default:"30"`
}

// SecurityConfig holds security-related settings.
type SecurityConfig struct {
	// TrustedProxies is a comma-separated list of trusted proxy CIDRs
	TrustedProxies []string `env:"TRUSTED_PROXIES"`

	// EnableCSP enables Content-Security-Policy headers (default: true)
	EnableCSP bool `env:"SECURITY_ENABLE_CSP" default:"true"`

	// RequireAPIKey protects /api routes with an X-API-Key header (default: false)
	RequireAPIKey bool `env:"REQUIRE_API_KEY" default:"false"`

	// APIKeys is a comma-separated list of accepted keys
	APIKeys []string `env:"API_KEYS"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error (default: info)
	Level string `env:"LOG_LEVEL" default:"info"`

	// Format is the log format: text or json (default: text)
	Format string `env:"LOG_FORMAT" default:"text"`
}

// MetricsConfig controls the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool   `env:"METRICS_ENABLED" default:"true"`
	Path    string `env:"METRICS_PATH" default:"/metrics"`
}

// Addr returns the server listen address in host:port format.
func (c *ServerConfig) Addr() string {
	return c.Host + ":" + strconv.Itoa(c.Port)
}
