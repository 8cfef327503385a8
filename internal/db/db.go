// Package db provides PostgreSQL storage for scraped listings and scraping settings.
package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// schema is applied by Migrate. Statements are idempotent.
const schema = `
CREATE TABLE IF NOT EXISTS listings (
	seq                 BIGSERIAL PRIMARY KEY,
	id                  UUID NOT NULL UNIQUE,
	name                TEXT NOT NULL,
	address             TEXT NOT NULL DEFAULT '',
	phone               TEXT NOT NULL DEFAULT '',
	additional_phones   TEXT[],
	website             TEXT NOT NULL DEFAULT '',
	email               TEXT NOT NULL DEFAULT '',
	additional_emails   TEXT[],
	social_media        TEXT[],
	additional_contacts TEXT[],
	rating              TEXT NOT NULL DEFAULT '',
	scraped_at          TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	UNIQUE (name, address)
);

CREATE TABLE IF NOT EXISTS settings (
	id         SMALLINT PRIMARY KEY DEFAULT 1 CHECK (id = 1),
	data       JSONB NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
`

// DB wraps a PostgreSQL connection pool
type DB struct {
	pool *pgxpool.Pool
}

// Connect establishes a connection pool to the database
func Connect(ctx context.Context, databaseURL string) (*DB, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Verify connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{pool: pool}, nil
}

// Migrate creates the listings and settings tables when missing.
func (db *DB) Migrate(ctx context.Context) error {
	if _, err := db.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}

// Close closes the connection pool
func (db *DB) Close() error {
	if db.pool != nil {
		db.pool.Close()
	}
	return nil
}
