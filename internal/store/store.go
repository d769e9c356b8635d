// Package store keeps the last successfully ingested point list for the
// lifetime of the process.
package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"dmmap/internal/geom"
)

var (
	ErrUnknownDriver = errors.New("unknown store driver")
	ErrPersistentDSN = errors.New("store dsn must name an in-memory database")
)

type Store interface {
	// Put replaces the stored list.
	Put(ctx context.Context, pts []geom.Point) error
	// Get returns the stored list, empty (never nil) when nothing was put.
	Get(ctx context.Context) ([]geom.Point, error)
	Close() error
}

// Open returns the store selected by driver ("memory" or "sqlite").
func Open(ctx context.Context, driver, dsn string) (Store, error) {
	switch strings.ToLower(driver) {
	case "", "memory":
		return NewMemory(), nil
	case "sqlite":
		if !InMemoryDSN(dsn) {
			return nil, fmt.Errorf("%w: %q", ErrPersistentDSN, dsn)
		}
		return OpenSQLite(ctx, dsn)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, driver)
	}
}

// InMemoryDSN reports whether dsn names an sqlite database that is gone
// when the process exits.
func InMemoryDSN(dsn string) bool {
	switch {
	case dsn == "", dsn == DefaultSQLiteDSN:
		return true
	case strings.HasPrefix(dsn, "file::memory:"):
		return true
	case strings.HasPrefix(dsn, "file:") && strings.Contains(dsn, "mode=memory"):
		return true
	}
	return false
}
