// Package config loads service configuration from environment variables.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/stridefantasy/roster-engine/internal/roster"
)

// Config aggregates every tunable of the service.
type Config struct {
	Port string `env:"PORT" envDefault:"8080"`
	DB   DB
	Game Game
}

// DB holds PostgreSQL connection settings.
type DB struct {
	Host     string `env:"DB_HOST" envDefault:"localhost"`
	Port     string `env:"DB_PORT" envDefault:"5432"`
	User     string `env:"DB_USER" envDefault:"postgres"`
	Password string `env:"DB_PASSWORD" envDefault:"postgres"`
	Name     string `env:"DB_NAME" envDefault:"rosterengine"`
	SSLMode  string `env:"DB_SSLMODE" envDefault:"disable"`
}

// DSN builds a libpq-compatible connection string.
func (d DB) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode,
	)
}

// Game holds the salary-cap game settings. RosterLockTime is the race-start
// deadline (RFC 3339); empty means rosters never auto-lock.
type Game struct {
	TotalBudget   int    `env:"GAME_TOTAL_BUDGET" envDefault:"30000"`
	RosterLockRaw string `env:"ROSTER_LOCK_TIME"`

	RosterLockTime time.Time `env:"-"`
}

// RosterConfig converts the game settings into the engine's budget config.
func (g Game) RosterConfig() roster.Config {
	cfg := roster.DefaultConfig()
	cfg.TotalBudget = g.TotalBudget
	return cfg.Normalized()
}

// Load parses the environment into a Config.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if cfg.Game.RosterLockRaw != "" {
		t, err := time.Parse(time.RFC3339, cfg.Game.RosterLockRaw)
		if err != nil {
			return Config{}, fmt.Errorf("parse ROSTER_LOCK_TIME: %w", err)
		}
		cfg.Game.RosterLockTime = t
	}
	return cfg, nil
}
