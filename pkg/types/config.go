package types

import (
	"errors"
	"time"
)

// Config selects and parameterizes the gateway a store talks to.
type Config struct {
	Backend     string        `json:"backend" yaml:"backend"`
	DataDir     string        `json:"data_dir" yaml:"data_dir"`
	APIURL      string        `json:"api_url" yaml:"api_url"`
	Timeout     time.Duration `json:"timeout" yaml:"timeout"`
	Collections []string      `json:"collections" yaml:"collections"`
}

// Supported backend names.
const (
	BackendSQLite = "sqlite"
	BackendHTTP   = "http"
)

// Config validation errors.
var (
	ErrBackendEmpty   = errors.New("backend must not be empty")
	ErrBackendUnknown = errors.New("unknown backend")
	ErrAPIURLEmpty    = errors.New("api_url must not be empty for the http backend")
)

var knownBackends = map[string]bool{
	BackendSQLite: true,
	BackendHTTP:   true,
}

// Validate checks that the Config is well-formed. It returns a sentinel error
// from this package on failure.
func (c Config) Validate() error {
	if c.Backend == "" {
		return ErrBackendEmpty
	}
	if !knownBackends[c.Backend] {
		return ErrBackendUnknown
	}
	if c.Backend == BackendHTTP && c.APIURL == "" {
		return ErrAPIURLEmpty
	}
	return nil
}

// Registry returns the configured collections, or DefaultCollections.
func (c Config) Registry() Registry {
	if len(c.Collections) == 0 {
		return Registry(DefaultCollections)
	}
	return Registry(c.Collections)
}
