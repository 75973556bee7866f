package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// SessionRecord is one persisted draft session: the engine's serialized blob
// plus the storage metadata the engine itself is agnostic to.
type SessionRecord struct {
	ID        string
	Payload   []byte
	Locked    bool
	Version   int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// SessionRepository handles persistence for draft sessions.
//
// The engine offers no atomicity of its own; two concurrent writers racing on
// the same session are resolved here with an optimistic version check rather
// than row locks, since edits are per-player and conflicts are rare.
type SessionRepository struct {
	db *pgxpool.Pool
}

// NewSessionRepository constructs a SessionRepository.
func NewSessionRepository(db *pgxpool.Pool) *SessionRepository {
	return &SessionRepository{db: db}
}

// Create inserts a new session record at version 1.
func (r *SessionRepository) Create(ctx context.Context, rec *SessionRecord) error {
	now := time.Now().UTC()
	rec.Version = 1
	rec.CreatedAt = now
	rec.UpdatedAt = now

	_, err := r.db.Exec(ctx,
		`INSERT INTO roster_sessions (id, payload, is_locked, version, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		rec.ID, rec.Payload, rec.Locked, rec.Version, rec.CreatedAt, rec.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert session: %w", err)
	}
	return nil
}

// Get returns a session record or ErrNotFound.
func (r *SessionRepository) Get(ctx context.Context, id string) (*SessionRecord, error) {
	var rec SessionRecord
	err := r.db.QueryRow(ctx,
		`SELECT id, payload, is_locked, version, created_at, updated_at
		 FROM roster_sessions WHERE id = $1`,
		id,
	).Scan(&rec.ID, &rec.Payload, &rec.Locked, &rec.Version, &rec.CreatedAt, &rec.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get session: %w", err)
	}
	return &rec, nil
}

// Save persists the record if and only if nobody else has written a newer
// version since it was read. On success the record's version is bumped; a
// lost race returns ErrVersionConflict so the caller can reload and retry.
func (r *SessionRepository) Save(ctx context.Context, rec *SessionRecord) error {
	now := time.Now().UTC()
	tag, err := r.db.Exec(ctx,
		`UPDATE roster_sessions
		 SET payload = $2, is_locked = $3, version = version + 1, updated_at = $4
		 WHERE id = $1 AND version = $5`,
		rec.ID, rec.Payload, rec.Locked, now, rec.Version,
	)
	if err != nil {
		return fmt.Errorf("update session: %w", err)
	}
	if tag.RowsAffected() == 0 {
		// Either the row is gone or someone else won the race.
		var exists bool
		if probeErr := r.db.QueryRow(ctx,
			`SELECT EXISTS (SELECT 1 FROM roster_sessions WHERE id = $1)`, rec.ID,
		).Scan(&exists); probeErr != nil {
			return fmt.Errorf("probe session: %w", probeErr)
		}
		if !exists {
			return ErrNotFound
		}
		return ErrVersionConflict
	}
	rec.Version++
	rec.UpdatedAt = now
	return nil
}
