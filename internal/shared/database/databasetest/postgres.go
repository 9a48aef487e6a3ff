//go:build integration

package databasetest

import (
	"context"
	"testing"
	"time"

	"starwars-api/internal/shared/config"
	"starwars-api/internal/shared/database"
	"starwars-api/migrations"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// StartPostgres runs a throwaway PostgreSQL container, applies the embedded
// migrations and returns a connected DB. Everything is torn down with t.Cleanup.
func StartPostgres(t *testing.T) *database.DB {
	t.Helper()
	testcontainers.SkipIfProviderIsNotHealthy(t)

	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("starwars"),
		postgres.WithUsername("starwars"),
		postgres.WithPassword("starwars"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	if err != nil {
		t.Fatalf("Failed to start PostgreSQL container: %v", err)
	}
	t.Cleanup(func() {
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("Failed to terminate container: %v", err)
		}
	})

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("Failed to get connection string: %v", err)
	}

	cfg := &config.Config{
		Database: config.DatabaseConfig{
			URL:                    connStr,
			MaxOpenConns:           5,
			MaxIdleConns:           2,
			ConnMaxLifetimeMinutes: 5,
		},
	}

	db, err := database.Connect(cfg)
	if err != nil {
		t.Fatalf("Failed to connect: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err := db.RunMigrations(ctx, migrations.FS); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}

	return db
}
