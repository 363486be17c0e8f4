// Package resolver verifies that foreign-key references point at rows that
// exist in the warehouse, creating minimal placeholders when they do not.
//
// Healing forward is a deliberate policy: a flight that references an
// airport we have never seen still loads, against a clearly auto-generated
// airport row, instead of bouncing to quarantine. The synthesized rows are
// named so analysts can find and backfill them later.
package resolver

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/skydeck/aeroload/internal/standardize"
)

// Store is the warehouse surface the resolver needs: an existence check and
// a placeholder insert.
type Store interface {
	AirportExists(ctx context.Context, key string) (bool, error)
	CreateAirport(ctx context.Context, rec standardize.Record) error
}

// Airports resolves airport references for one load run. The existence cache
// is owned exclusively by that run and is not safe for concurrent use.
type Airports struct {
	store Store
	cache map[string]bool
	log   *slog.Logger
}

// NewAirports returns a resolver with an empty cache.
func NewAirports(store Store, log *slog.Logger) *Airports {
	if log == nil {
		log = slog.Default()
	}
	return &Airports{
		store: store,
		cache: make(map[string]bool),
		log:   log,
	}
}

// Ensure guarantees that the airport key exists in the warehouse before a
// dependent record is loaded: cache first, then a store lookup, then a
// placeholder insert as a last resort. The cache is updated either way so
// each key costs at most one lookup per run.
func (a *Airports) Ensure(ctx context.Context, key string) error {
	if a.cache[key] {
		return nil
	}

	exists, err := a.store.AirportExists(ctx, key)
	if err != nil {
		return fmt.Errorf("airport existence check for %q: %w", key, err)
	}

	if !exists {
		if err := a.store.CreateAirport(ctx, standardize.PlaceholderAirport(key)); err != nil {
			return fmt.Errorf("create placeholder airport %q: %w", key, err)
		}
		a.log.Info("created placeholder airport for unresolved reference", "airport_key", key)
	}

	a.cache[key] = true
	return nil
}

// CacheSize returns the number of keys known to the cache.
func (a *Airports) CacheSize() int {
	return len(a.cache)
}
