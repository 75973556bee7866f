// cmd/seed is the demo-data seeding CLI. It imports athlete pool fixtures and
// generates valid rosters with the team builder, writing both through the
// same repositories the server uses.
package main

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/spf13/cobra"

	"github.com/stridefantasy/roster-engine/internal/builder"
	"github.com/stridefantasy/roster-engine/internal/config"
	"github.com/stridefantasy/roster-engine/internal/database"
	"github.com/stridefantasy/roster-engine/internal/repository"
	"github.com/stridefantasy/roster-engine/internal/seed"
)

func main() {
	root := &cobra.Command{
		Use:   "seed",
		Short: "Seed the roster service with athletes and generated teams",
	}
	root.AddCommand(athletesCmd(), teamsCmd())

	if err := root.Execute(); err != nil {
		log.Fatal(err)
	}
}

func athletesCmd() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "athletes",
		Short: "Import an athlete pool from a YAML fixture",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			pool, err := seed.LoadPool(file)
			if err != nil {
				return err
			}

			repo, cleanup, err := openRepos(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			n, err := seed.ImportPool(ctx, repo.athletes, pool)
			if err != nil {
				return fmt.Errorf("imported %d of %d athletes: %w", n, len(pool), err)
			}
			log.Printf("imported %d athletes from %s", n, file)
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "fixtures/athletes.yaml", "athlete pool YAML file")
	return cmd
}

func teamsCmd() *cobra.Command {
	var (
		count    int
		strategy string
		rngSeed  int64
	)

	cmd := &cobra.Command{
		Use:   "teams",
		Short: "Generate valid rosters with the team builder and persist them",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			strategies, err := resolveStrategies(strategy)
			if err != nil {
				return err
			}

			repo, cleanup, err := openRepos(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			pool, err := repo.athletes.List(ctx)
			if err != nil {
				return err
			}

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			ids, err := seed.GenerateTeams(ctx, repo.sessions, pool, strategies, count,
				cfg.Game.RosterConfig(), seed.NewSeededRNG(rngSeed))
			if err != nil {
				// An infeasible budget is a setup failure: report the minimum
				// cost the error carries, never swallow it.
				return fmt.Errorf("generated %d of %d teams: %w", len(ids), count, err)
			}

			log.Printf("generated %d teams", len(ids))
			for _, id := range ids {
				fmt.Println(id)
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&count, "count", "n", 6, "number of teams to generate")
	cmd.Flags().StringVarP(&strategy, "strategy", "s", "mixed", "strategy: premium|value|elite|contrarian|mixed")
	cmd.Flags().Int64Var(&rngSeed, "seed", 0, "rng seed for randomized strategies (0 = time-based)")
	return cmd
}

// resolveStrategies maps the flag onto builder strategies; "mixed" rotates
// through all four.
func resolveStrategies(name string) ([]builder.Strategy, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "mixed" || name == "" {
		return []builder.Strategy{builder.Premium, builder.Value, builder.Elite, builder.Contrarian}, nil
	}
	strat, ok := builder.Strategies[name]
	if !ok {
		return nil, fmt.Errorf("unknown strategy %q", name)
	}
	return []builder.Strategy{strat}, nil
}

type repos struct {
	athletes *repository.AthleteRepository
	sessions *repository.SessionRepository
}

func openRepos(ctx context.Context) (*repos, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	pool, err := database.NewPool(ctx, cfg.DB)
	if err != nil {
		return nil, nil, err
	}
	if err := repository.EnsureSchema(ctx, pool); err != nil {
		pool.Close()
		return nil, nil, err
	}
	return &repos{
		athletes: repository.NewAthleteRepository(pool),
		sessions: repository.NewSessionRepository(pool),
	}, pool.Close, nil
}
