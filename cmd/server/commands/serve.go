package commands

import (
	"context"
	"log/slog"
	"os/signal"
	"syscall"

	"starwars-api/internal/auth"
	"starwars-api/internal/middleware"
	"starwars-api/internal/server"
	"starwars-api/internal/shared/cookies"
	"starwars-api/internal/shared/obs"

	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Long: `Connect to PostgreSQL, apply pending migrations, ensure the bootstrap
user exists and serve the API until SIGINT or SIGTERM.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		return runServe(ctx)
	},
}

func runServe(ctx context.Context) error {
	logger := slog.With("component", "serve")

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	shutdownTracer, err := obs.InitTracer(ctx, a.cfg.Tracing, a.cfg.Server.Environment)
	if err != nil {
		return err
	}
	defer func() {
		if err := shutdownTracer(context.Background()); err != nil {
			logger.Warn("Failed to flush traces", "error", err)
		}
	}()

	revoker, err := a.revoker(ctx)
	if err != nil {
		return err
	}

	tokens := auth.NewTokenManager(a.cfg.Auth.JWTSecret, a.cfg.Auth.TokenExpiration())
	authService := auth.NewService(a.users, tokens, revoker, slog.Default())

	routes := server.NewRoutes(server.RoutesConfig{
		DB:              a.db,
		AuthService:     authService,
		AuthHandler:     auth.NewHandler(authService, cookies.NewPolicy(a.cfg)),
		UserService:     a.users,
		PeopleService:   a.people,
		PlanetService:   a.planets,
		FavoriteService: a.favorites,
		Importer:        a.importer,
		Metrics:         a.metrics,
	})

	limiter := middleware.NewRateLimiter(a.cfg.RateLimit)
	defer limiter.Stop()

	handler := server.Chain(routes.Setup(), middleware.NewCORS(a.cfg.Frontend), limiter, a.metrics, a.cfg.Seed.ImportDeadline())

	return server.New(a.cfg.Server, handler, slog.Default()).Run(ctx)
}
