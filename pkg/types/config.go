package types

import (
	"errors"
	"time"
)

// Config selects and parameterizes the store behind a catalog.
type Config struct {
	// Backend is "sqlite" or "postgres".
	Backend string `json:"backend" yaml:"backend" mapstructure:"backend"`

	// DataDir holds the sqlite database file. Ignored by postgres.
	DataDir string `json:"data_dir" yaml:"data_dir" mapstructure:"data_dir"`

	// DSN is the postgres connection string. Required for postgres.
	DSN string `json:"dsn" yaml:"dsn" mapstructure:"dsn"`

	// BusyTimeout bounds how long a sqlite writer waits for the write lock.
	BusyTimeout time.Duration `json:"busy_timeout" yaml:"busy_timeout" mapstructure:"busy_timeout"`

	// CacheTTL enables the in-process identity cache when positive.
	CacheTTL time.Duration `json:"cache_ttl" yaml:"cache_ttl" mapstructure:"cache_ttl"`
}

// Supported backend names.
const (
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
)

// DefaultBusyTimeout applies when Config.BusyTimeout is zero.
const DefaultBusyTimeout = 5 * time.Second

// Config validation errors.
var (
	ErrBackendEmpty    = errors.New("backend must not be empty")
	ErrBackendUnknown  = errors.New("unknown backend")
	ErrDSNRequired     = errors.New("dsn is required for the postgres backend")
	ErrNegativeTimeout = errors.New("durations must not be negative")
)

// knownBackends lists the backends that Validate accepts.
var knownBackends = map[string]bool{
	BackendSQLite:   true,
	BackendPostgres: true,
}

// Validate checks that the Config is well-formed.
func (c Config) Validate() error {
	if c.Backend == "" {
		return ErrBackendEmpty
	}
	if !knownBackends[c.Backend] {
		return ErrBackendUnknown
	}
	if c.Backend == BackendPostgres && c.DSN == "" {
		return ErrDSNRequired
	}
	if c.BusyTimeout < 0 || c.CacheTTL < 0 {
		return ErrNegativeTimeout
	}
	return nil
}

// GetBusyTimeout returns BusyTimeout or DefaultBusyTimeout when unset.
func (c Config) GetBusyTimeout() time.Duration {
	if c.BusyTimeout == 0 {
		return DefaultBusyTimeout
	}
	return c.BusyTimeout
}
