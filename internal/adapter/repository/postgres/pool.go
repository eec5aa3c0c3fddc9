package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// NewPool opens a pgx pool and pings it before returning.
func NewPool(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to create postgres pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to connect postgres: %w", err)
	}
	return pool, nil
}

const schemaSQL = `
CREATE TABLE IF NOT EXISTS listings (
	id TEXT PRIMARY KEY,
	user_id TEXT NOT NULL,
	campus_id TEXT,
	title TEXT NOT NULL,
	description TEXT,
	price INTEGER NOT NULL CHECK (price >= 0),
	room_type TEXT NOT NULL,
	bedrooms INTEGER,
	bathrooms INTEGER,
	city TEXT,
	state TEXT,
	lat DOUBLE PRECISION,
	lng DOUBLE PRECISION,
	move_in DATE,
	move_out DATE,
	amenities TEXT[] NOT NULL DEFAULT '{}',
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_listings_city ON listings (lower(city));
CREATE INDEX IF NOT EXISTS idx_listings_state ON listings (lower(state));

CREATE TABLE IF NOT EXISTS favorites (
	id TEXT PRIMARY KEY,
	user_id TEXT NOT NULL,
	listing_id TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	UNIQUE (user_id, listing_id)
);

CREATE INDEX IF NOT EXISTS idx_favorites_user ON favorites (user_id, created_at DESC);
`

// EnsureSchema creates the listings and favorites tables when missing.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	ctx, cancel := context.WithTimeout(ctx, 20*time.Second)
	defer cancel()

	if _, err := pool.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("failed to ensure schema: %w", err)
	}
	return nil
}
