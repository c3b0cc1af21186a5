package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/stwalsh4118/rentaltax/internal/database"
)

// PostgresStore keeps records in the kv_records table.
type PostgresStore struct {
	db *database.Database
}

// NewPostgresStore creates a store over an open, migrated database.
func NewPostgresStore(db *database.Database) *PostgresStore {
	return &PostgresStore{db: db}
}

// Get implements Store.
func (s *PostgresStore) Get(ctx context.Context, ns Namespace, id string) (*Record, error) {
	query := `SELECT id, version, data FROM kv_records WHERE namespace = $1 AND id = $2`

	var rec Record
	err := s.db.Pool.QueryRow(ctx, query, string(ns), id).Scan(&rec.ID, &rec.Version, &rec.Data)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get %s/%s: %w", ns, id, err)
	}
	return &rec, nil
}

// List implements Store.
func (s *PostgresStore) List(ctx context.Context, ns Namespace) ([]Record, error) {
	query := `SELECT id, version, data FROM kv_records WHERE namespace = $1 ORDER BY id`

	rows, err := s.db.Pool.Query(ctx, query, string(ns))
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", ns, err)
	}
	defer rows.Close()

	records := make([]Record, 0)
	for rows.Next() {
		var rec Record
		if err := rows.Scan(&rec.ID, &rec.Version, &rec.Data); err != nil {
			return nil, fmt.Errorf("failed to scan %s record: %w", ns, err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating %s: %w", ns, err)
	}
	return records, nil
}

// Put implements Store. An insert that loses a race and an update against a
// stale or deleted version both affect zero rows.
func (s *PostgresStore) Put(ctx context.Context, ns Namespace, rec Record) (int64, error) {
	if rec.Version == 0 {
		query := `
			INSERT INTO kv_records (namespace, id, version, data)
			VALUES ($1, $2, 1, $3)
			ON CONFLICT (namespace, id) DO NOTHING
		`
		tag, err := s.db.Pool.Exec(ctx, query, string(ns), rec.ID, rec.Data)
		if err != nil {
			return 0, fmt.Errorf("failed to insert %s/%s: %w", ns, rec.ID, err)
		}
		if tag.RowsAffected() == 0 {
			return 0, ErrVersionConflict
		}
		return 1, nil
	}

	query := `
		UPDATE kv_records
		SET data = $4, version = version + 1, updated_at = NOW()
		WHERE namespace = $1 AND id = $2 AND version = $3
		RETURNING version
	`
	var next int64
	err := s.db.Pool.QueryRow(ctx, query, string(ns), rec.ID, rec.Version, rec.Data).Scan(&next)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, ErrVersionConflict
		}
		return 0, fmt.Errorf("failed to update %s/%s: %w", ns, rec.ID, err)
	}
	return next, nil
}

// Delete implements Store.
func (s *PostgresStore) Delete(ctx context.Context, ns Namespace, id string) error {
	query := `DELETE FROM kv_records WHERE namespace = $1 AND id = $2`
	if _, err := s.db.Pool.Exec(ctx, query, string(ns), id); err != nil {
		return fmt.Errorf("failed to delete %s/%s: %w", ns, id, err)
	}
	return nil
}

// Ping implements Store.
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}

// Close implements Store.
func (s *PostgresStore) Close() error {
	s.db.Close()
	return nil
}
