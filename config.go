package qonos

import "time"

// Config holds configuration for the API server process. It is passed
// explicitly to the server at startup; there is no process-wide registry.
type Config struct {
	// Addr is the listen address for the HTTP API, e.g. ":8080".
	Addr string `yaml:"addr"`

	// Store selects the persistence backend: "memory", "sqlite",
	// "postgres", or "redis".
	Store string `yaml:"store"`

	// DSN is the backend connection string. Ignored by the memory store.
	// sqlite: a file path; postgres: a pgx connection URL; redis: host:port.
	DSN string `yaml:"dsn"`

	// ShutdownTimeout is the maximum time to wait for in-flight requests
	// to drain on shutdown.
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`

	// RequestsPerSecond bounds the API rate limiter. Zero disables limiting.
	RequestsPerSecond float64 `yaml:"requests_per_second"`

	// CORSOrigins lists allowed origins for browser clients. Empty disables
	// the CORS layer.
	CORSOrigins []string `yaml:"cors_origins"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Addr:            ":8080",
		Store:           "memory",
		ShutdownTimeout: 30 * time.Second,
	}
}
