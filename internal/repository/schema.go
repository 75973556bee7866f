package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// EnsureSchema creates the tables this service owns if they do not exist.
// Idempotent; safe to run on every startup.
func EnsureSchema(ctx context.Context, db *pgxpool.Pool) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS athletes (
			id        INTEGER PRIMARY KEY,
			name      TEXT NOT NULL,
			gender    TEXT NOT NULL CHECK (gender IN ('men', 'women')),
			salary    INTEGER NOT NULL DEFAULT 5000,
			rank      INTEGER,
			confirmed BOOLEAN NOT NULL DEFAULT TRUE
		)`,
		`CREATE TABLE IF NOT EXISTS roster_sessions (
			id         UUID PRIMARY KEY,
			payload    JSONB NOT NULL,
			is_locked  BOOLEAN NOT NULL DEFAULT FALSE,
			version    INTEGER NOT NULL DEFAULT 1,
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_athletes_confirmed_rank
			ON athletes (confirmed, rank)`,
	}
	for _, stmt := range stmts {
		if _, err := db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}
