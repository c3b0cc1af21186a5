// Package store is the namespaced key-value persistence contract used by the
// repositories. Every record carries a version; writes are conditional on the
// version the caller read, which gives each aggregate a single-writer
// discipline without transactions.
package store

import (
	"context"
	"errors"
)

// Namespace groups records of one entity kind.
type Namespace string

const (
	NamespaceProperties   Namespace = "properties"
	NamespaceWorkpapers   Namespace = "workpapers"
	NamespaceEvidence     Namespace = "evidence"
	NamespaceContributors Namespace = "contributors"
	NamespaceActivities   Namespace = "activities"
	NamespaceTaxReturns   Namespace = "taxreturns"
	NamespaceSettings     Namespace = "settings"
)

// Store errors
var (
	// ErrVersionConflict means the record changed (or appeared) since it was read.
	ErrVersionConflict = errors.New("record version conflict")
)

// Record is a stored JSON document and its version.
// Version 0 means "not yet stored".
type Record struct {
	ID      string
	Data    []byte
	Version int64
}

// Store defines the persistence operations the engine needs.
type Store interface {
	// Get returns the record, or nil, nil when it does not exist.
	Get(ctx context.Context, ns Namespace, id string) (*Record, error)

	// List returns every record in the namespace ordered by id.
	List(ctx context.Context, ns Namespace) ([]Record, error)

	// Put writes rec if the stored version equals rec.Version (0 for insert)
	// and returns the new version. Returns ErrVersionConflict otherwise.
	Put(ctx context.Context, ns Namespace, rec Record) (int64, error)

	// Delete removes the record. Deleting a missing record is not an error.
	Delete(ctx context.Context, ns Namespace, id string) error

	// Ping checks that the backend is reachable.
	Ping(ctx context.Context) error

	// Close releases backend resources.
	Close() error
}
