// Package backend selects and wires a storage implementation at composition
// time. Callers receive the repository ports plus a cleanup function and
// never see the concrete store.
package backend

import (
	"context"

	"workpulse/internal/ledger"
)

// Type names a storage implementation.
type Type string

const (
	Memory   Type = "memory"
	SQLite   Type = "sqlite"
	Postgres Type = "postgres"
)

// String implements fmt.Stringer
func (t Type) String() string {
	return string(t)
}

// IsValid returns true if the backend type is valid
func (t Type) IsValid() bool {
	switch t {
	case Memory, SQLite, Postgres:
		return true
	default:
		return false
	}
}

// CleanupFunc releases the resources behind a backend.
type CleanupFunc func() error

// Result bundles the repositories a backend provides.
type Result struct {
	Activities ledger.ActivityRepository
	Categories ledger.CategoryRepository
	Cleanup    CleanupFunc
}

// Config holds what the factory needs to build any backend.
type Config struct {
	Type Type

	// SQLite specific
	SQLiteDBPath string

	// Postgres specific
	PostgresURL string
}

// Factory creates backends based on configuration.
type Factory interface {
	CreateBackend(ctx context.Context, config Config) (*Result, error)
}
