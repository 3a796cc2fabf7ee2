package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// PostgresStorage keeps client state in a PostgreSQL table, one row per key
// and namespace. Shared kiosks use the namespace to keep one session per device.
type PostgresStorage struct {
	DB        *sql.DB
	Namespace string
}

// NewPostgresStorage create new instance
func NewPostgresStorage(db *sql.DB, namespace string) *PostgresStorage {
	return &PostgresStorage{DB: db, Namespace: namespace}
}

// EnsureSchema creates the client_state table when it does not exist yet.
func (r *PostgresStorage) EnsureSchema(ctx context.Context) error {
	query := `CREATE TABLE IF NOT EXISTS client_state (
                  namespace  TEXT NOT NULL,
                  key        TEXT NOT NULL,
                  value      TEXT NOT NULL,
                  updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
                  PRIMARY KEY (namespace, key)
              )`

	if _, err := r.DB.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("failed to create client_state table: %w", err)
	}
	return nil
}

// Get reads one entry.
func (r *PostgresStorage) Get(ctx context.Context, key string) (string, bool, error) {
	trace.SpanFromContext(ctx).SetAttributes(attribute.String("app.state_key", key))

	var value string
	query := `SELECT value FROM client_state WHERE namespace = $1 AND key = $2`

	err := r.DB.QueryRowContext(ctx, query, r.Namespace, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

// Set upserts one entry.
func (r *PostgresStorage) Set(ctx context.Context, key, value string) error {
	trace.SpanFromContext(ctx).SetAttributes(attribute.String("app.state_key", key))

	query := `INSERT INTO client_state (namespace, key, value, updated_at)
              VALUES ($1, $2, $3, now())
              ON CONFLICT (namespace, key)
              DO UPDATE SET value = EXCLUDED.value, updated_at = now()`

	_, err := r.DB.ExecContext(ctx, query, r.Namespace, key, value)
	return err
}

// Remove deletes one entry.
func (r *PostgresStorage) Remove(ctx context.Context, key string) error {
	query := `DELETE FROM client_state WHERE namespace = $1 AND key = $2`
	_, err := r.DB.ExecContext(ctx, query, r.Namespace, key)
	return err
}
