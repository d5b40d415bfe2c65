package store

import (
	"github.com/apex/log"

	"github.com/mesh-intelligence/herostore/pkg/types"
)

// Option configures a Store.
type Option func(*Store)

// WithRegistry restricts the store to the given collection names. The default
// registry is types.DefaultCollections.
func WithRegistry(r types.Registry) Option {
	return func(s *Store) {
		s.registry = r
	}
}

// WithLogger sets the logger used for cache transitions.
func WithLogger(l log.Interface) Option {
	return func(s *Store) {
		s.logger = l
	}
}

// WithStrictOrdering gives every collection a logical version. A fetch whose
// result arrives after another transition was applied to the same collection
// is returned to its caller but not written to the cache.
func WithStrictOrdering() Option {
	return func(s *Store) {
		s.strict = true
	}
}
