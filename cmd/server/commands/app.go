package commands

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"starwars-api/internal/auth"
	"starwars-api/internal/favorite"
	"starwars-api/internal/people"
	"starwars-api/internal/planet"
	"starwars-api/internal/seed"
	"starwars-api/internal/shared/config"
	"starwars-api/internal/shared/database"
	"starwars-api/internal/shared/obs"
	"starwars-api/internal/shared/redis"
	"starwars-api/internal/user"
	"starwars-api/migrations"
)

const revocationCleanupInterval = 5 * time.Minute

// app holds the wired services shared by every subcommand.
type app struct {
	cfg       *config.Config
	db        *database.DB
	metrics   *obs.Metrics
	users     *user.Service
	people    *people.Service
	planets   *planet.Service
	favorites *favorite.Service
	importer  *seed.Importer
	closers   []func()
}

func newApp(ctx context.Context) (*app, error) {
	cfg := config.GlobalConfig
	logger := slog.Default()
	logger.Debug("Loaded configuration", "config", cfg)

	db, err := database.Connect(cfg)
	if err != nil {
		return nil, err
	}

	a := &app{cfg: cfg, db: db, metrics: obs.NewMetrics()}
	a.closers = append(a.closers, func() {
		if err := db.Close(); err != nil {
			logger.Error("Failed to close database", "error", err)
		}
	})

	if err := db.RunMigrations(ctx, migrations.FS); err != nil {
		a.close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	a.users = user.NewService(user.NewRepository(db, logger), db, logger)
	a.people = people.NewService(people.NewRepository(db, logger), db, logger)
	a.planets = planet.NewService(planet.NewRepository(db, logger), db, logger)
	a.favorites = favorite.NewService(favorite.NewRepository(db, logger), db, a.people, a.planets, logger)
	a.importer = seed.NewImporter(seed.NewClient(cfg.Seed, logger), a.people, a.planets, a.metrics.SeedRows, logger)

	if err := a.ensureAdmin(ctx); err != nil {
		a.close()
		return nil, err
	}

	return a, nil
}

func (a *app) ensureAdmin(ctx context.Context) error {
	if !a.cfg.Admin.Configured() {
		slog.Debug("No bootstrap user configured")
		return nil
	}

	if _, _, err := a.users.EnsureUser(ctx, a.cfg.Admin.Email, a.cfg.Admin.Password); err != nil {
		return fmt.Errorf("failed to ensure bootstrap user: %w", err)
	}
	return nil
}

// revoker picks Redis when it is enabled and an in-memory store otherwise.
func (a *app) revoker(ctx context.Context) (auth.Revoker, error) {
	client, err := redis.Connect(ctx, a.cfg.Redis)
	if err != nil {
		return nil, err
	}

	if client != nil {
		a.closers = append(a.closers, func() { _ = client.Close() })
		return auth.NewRedisRevoker(client), nil
	}

	memory := auth.NewMemoryRevoker()
	memory.StartCleanup(revocationCleanupInterval)
	a.closers = append(a.closers, memory.Stop)
	return memory, nil
}

func (a *app) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}
