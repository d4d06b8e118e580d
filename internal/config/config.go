// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() initializer to build a Config with defaults.
// - Load layers a YAML file and environment variables over the defaults.
// - Validation errors wrap ErrInvalidConfig.
package config

import (
	"runtime"
)

// Data source names accepted by DataSource.
const (
	SourceMemory   = "memory"
	SourceFile     = "file"
	SourcePostgres = "postgres"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log handler: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// QueueSize bounds the in-memory report job queue.
	QueueSize int `koanf:"queue_size"`

	// WorkerCount sets the number of report workers.
	WorkerCount int `koanf:"worker_count"`

	// DedupeSize sets how many report request ids are remembered.
	DedupeSize int `koanf:"dedupe_size"`

	// ReportCacheSize caps the number of report jobs kept in memory.
	ReportCacheSize int `koanf:"report_cache_size"`

	// DataSource selects where snapshots come from: memory, file or postgres.
	DataSource string `koanf:"data_source"`

	// SnapshotPath is the YAML snapshot read by the file source.
	SnapshotPath string `koanf:"snapshot_path"`

	// DatabaseDSN is the lib/pq connection string for the postgres source.
	DatabaseDSN string `koanf:"database_dsn"`

	// ScorerEndpoint is the remote fit scorer URL. Empty means local scoring only.
	ScorerEndpoint string `koanf:"scorer_endpoint"`

	// ScorerAPIKey is sent as a bearer token to the remote scorer.
	ScorerAPIKey string `koanf:"scorer_api_key"`

	// ScorerTimeoutMS bounds a single remote scorer call.
	ScorerTimeoutMS int `koanf:"scorer_timeout_ms"`

	// SkillWeights maps skill names to their weights in local fit scoring.
	SkillWeights map[string]float64 `koanf:"skill_weights"`

	// DefaultSkillWeight is used for skills missing from SkillWeights.
	DefaultSkillWeight float64 `koanf:"default_skill_weight"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:           "info",
		LogFormat:          "text",
		Addr:               ":9080",
		QueueSize:          1_000,
		WorkerCount:        runtime.NumCPU(),
		DedupeSize:         10_000,
		ReportCacheSize:    1_000,
		DataSource:         SourceMemory,
		ScorerTimeoutMS:    2_000,
		SkillWeights:       map[string]float64{},
		DefaultSkillWeight: 1.0,
	}
}

// Validate checks cross-field constraints.
func (c *Config) Validate() error {
	if c.Addr == "" {
		return wrapInvalid("addr must not be empty")
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		return wrapInvalid("log_format must be text or json, got %q", c.LogFormat)
	}
	switch c.DataSource {
	case SourceMemory:
	case SourceFile:
		if c.SnapshotPath == "" {
			return wrapInvalid("snapshot_path is required for the file data source")
		}
	case SourcePostgres:
		if c.DatabaseDSN == "" {
			return wrapInvalid("database_dsn is required for the postgres data source")
		}
	default:
		return wrapInvalid("unknown data_source %q", c.DataSource)
	}
	if c.ScorerEndpoint != "" && c.ScorerTimeoutMS <= 0 {
		return wrapInvalid("scorer_timeout_ms must be positive when scorer_endpoint is set")
	}
	return nil
}
