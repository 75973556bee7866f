// Package seed loads athlete pools from fixture files and generates
// realistic filled rosters for demo and test data. Generated teams are
// persisted through the same session storage as interactively built ones.
package seed

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"os"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/stridefantasy/roster-engine/internal/builder"
	"github.com/stridefantasy/roster-engine/internal/metrics"
	"github.com/stridefantasy/roster-engine/internal/repository"
	"github.com/stridefantasy/roster-engine/internal/roster"
	"github.com/stridefantasy/roster-engine/internal/session"
)

// AthleteWriter is the storage sink for pool imports.
type AthleteWriter interface {
	Upsert(ctx context.Context, a roster.Athlete) error
}

// SessionWriter is the storage sink for generated sessions.
type SessionWriter interface {
	Create(ctx context.Context, rec *repository.SessionRecord) error
}

// PoolFile is the YAML fixture shape for an athlete pool.
type PoolFile struct {
	Athletes []roster.Athlete `yaml:"athletes"`
}

// LoadPool reads and validates an athlete pool fixture.
func LoadPool(path string) ([]roster.Athlete, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read pool file: %w", err)
	}
	var pf PoolFile
	if err := yaml.Unmarshal(raw, &pf); err != nil {
		return nil, fmt.Errorf("parse pool file: %w", err)
	}
	if len(pf.Athletes) == 0 {
		return nil, fmt.Errorf("pool file %s has no athletes", path)
	}

	seen := make(map[int]bool, len(pf.Athletes))
	for _, a := range pf.Athletes {
		if a.ID <= 0 {
			return nil, fmt.Errorf("athlete %q has no id", a.Name)
		}
		if seen[a.ID] {
			return nil, fmt.Errorf("duplicate athlete id %d in pool file", a.ID)
		}
		seen[a.ID] = true
		if a.Gender != roster.GenderMen && a.Gender != roster.GenderWomen {
			return nil, fmt.Errorf("athlete %d has unknown gender %q", a.ID, a.Gender)
		}
	}
	return pf.Athletes, nil
}

// ImportPool writes every athlete into storage, returning how many landed.
func ImportPool(ctx context.Context, w AthleteWriter, pool []roster.Athlete) (int, error) {
	for i, a := range pool {
		if err := w.Upsert(ctx, a); err != nil {
			return i, err
		}
	}
	return len(pool), nil
}

// SplitByGender partitions a pool into men and women candidate lists.
func SplitByGender(pool []roster.Athlete) (men, women []roster.Athlete) {
	for _, a := range pool {
		switch a.Gender {
		case roster.GenderMen:
			men = append(men, a)
		case roster.GenderWomen:
			women = append(women, a)
		}
	}
	return men, women
}

// NewSeededRNG creates a seeded random number generator. A zero seed uses
// the current time and logs the chosen seed so a run can be reproduced.
func NewSeededRNG(seed int64) *rand.Rand {
	if seed == 0 {
		seed = time.Now().UnixNano()
		log.Printf("seed: using rng seed %d", seed)
	}
	return rand.New(rand.NewSource(seed))
}

// GenerateTeams builds count rosters, rotating through the given strategies,
// and persists each as a draft session. An infeasible budget split aborts the
// whole run: a partial or invalid team must never land in storage.
func GenerateTeams(ctx context.Context, sessions SessionWriter, pool []roster.Athlete, strategies []builder.Strategy, count int, cfg roster.Config, rng *rand.Rand) ([]string, error) {
	if count <= 0 {
		return nil, fmt.Errorf("count must be positive, got %d", count)
	}
	if len(strategies) == 0 {
		return nil, fmt.Errorf("no strategies given")
	}
	men, women := SplitByGender(pool)

	ids := make([]string, 0, count)
	for i := 0; i < count; i++ {
		strat := strategies[i%len(strategies)]

		team, err := builder.BuildTeam(men, women, strat, cfg, rng)
		if err != nil {
			return ids, fmt.Errorf("team %d (%s): %w", i+1, strat.Name, err)
		}

		// Drive the team through the state machine so generated sessions are
		// indistinguishable from interactively built ones.
		sess := session.New(cfg)
		for _, slot := range roster.AllSlots {
			sess.AddAthlete(slot, team[slot])
		}
		if !sess.CanSubmit() {
			return ids, fmt.Errorf("team %d (%s): generated session is not submittable", i+1, strat.Name)
		}

		payload, err := sess.Serialize()
		if err != nil {
			return ids, fmt.Errorf("team %d (%s): %w", i+1, strat.Name, err)
		}
		rec := &repository.SessionRecord{
			ID:      uuid.New().String(),
			Payload: payload,
		}
		if err := sessions.Create(ctx, rec); err != nil {
			return ids, fmt.Errorf("team %d (%s): %w", i+1, strat.Name, err)
		}

		metrics.TeamsGeneratedTotal.WithLabelValues(strat.Name).Inc()
		ids = append(ids, rec.ID)
	}
	return ids, nil
}
