// Package repository implements all database queries for the roster service.
// It uses pgx directly (no ORM) for transparency and performance.
package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/stridefantasy/roster-engine/internal/roster"
)

// ErrNotFound is returned when a requested resource does not exist.
var ErrNotFound = errors.New("not found")

// ErrVersionConflict is returned when a session save loses an optimistic
// concurrency race: another writer persisted a newer version first.
var ErrVersionConflict = errors.New("session was modified concurrently")

// AthleteRepository handles persistence for the draftable athlete pool.
type AthleteRepository struct {
	db *pgxpool.Pool
}

// NewAthleteRepository constructs an AthleteRepository.
func NewAthleteRepository(db *pgxpool.Pool) *AthleteRepository {
	return &AthleteRepository{db: db}
}

// List returns the confirmed athlete pool, best rank first, unranked last.
func (r *AthleteRepository) List(ctx context.Context) ([]roster.Athlete, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, name, gender, salary, COALESCE(rank, 0)
		 FROM athletes
		 WHERE confirmed
		 ORDER BY CASE WHEN rank IS NULL OR rank = 0 THEN 1 ELSE 0 END, rank, id`,
	)
	if err != nil {
		return nil, fmt.Errorf("list athletes: %w", err)
	}
	defer rows.Close()

	var pool []roster.Athlete
	for rows.Next() {
		var a roster.Athlete
		if err := rows.Scan(&a.ID, &a.Name, &a.Gender, &a.Salary, &a.Rank); err != nil {
			return nil, fmt.Errorf("scan athlete: %w", err)
		}
		pool = append(pool, a)
	}
	return pool, rows.Err()
}

// GetByID returns a single confirmed athlete or ErrNotFound.
func (r *AthleteRepository) GetByID(ctx context.Context, id int) (*roster.Athlete, error) {
	var a roster.Athlete
	err := r.db.QueryRow(ctx,
		`SELECT id, name, gender, salary, COALESCE(rank, 0)
		 FROM athletes WHERE id = $1 AND confirmed`,
		id,
	).Scan(&a.ID, &a.Name, &a.Gender, &a.Salary, &a.Rank)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get athlete: %w", err)
	}
	return &a, nil
}

// Upsert inserts or refreshes one athlete. Used by the seeding tooling; the
// interactive service never writes athletes.
func (r *AthleteRepository) Upsert(ctx context.Context, a roster.Athlete) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO athletes (id, name, gender, salary, rank, confirmed)
		 VALUES ($1, $2, $3, $4, NULLIF($5, 0), TRUE)
		 ON CONFLICT (id) DO UPDATE
		 SET name = EXCLUDED.name, gender = EXCLUDED.gender,
		     salary = EXCLUDED.salary, rank = EXCLUDED.rank, confirmed = TRUE`,
		a.ID, a.Name, a.Gender, a.Salary, a.Rank,
	)
	if err != nil {
		return fmt.Errorf("upsert athlete %d: %w", a.ID, err)
	}
	return nil
}
