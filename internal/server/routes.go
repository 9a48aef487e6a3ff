package server

import (
	"log/slog"
	"net/http"

	"starwars-api/internal/auth"
	"starwars-api/internal/favorite"
	"starwars-api/internal/middleware"
	"starwars-api/internal/people"
	"starwars-api/internal/planet"
	serverHandlers "starwars-api/internal/server/handlers"
	"starwars-api/internal/seed"
	"starwars-api/internal/shared/obs"
	"starwars-api/internal/user"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Routes struct {
	db              serverHandlers.Pinger
	authService     *auth.Service
	authHandler     *auth.Handler
	userService     *user.Service
	peopleService   *people.Service
	planetService   *planet.Service
	favoriteService *favorite.Service
	importer        *seed.Importer
	metrics         *obs.Metrics
}

type RoutesConfig struct {
	DB              serverHandlers.Pinger
	AuthService     *auth.Service
	AuthHandler     *auth.Handler
	UserService     *user.Service
	PeopleService   *people.Service
	PlanetService   *planet.Service
	FavoriteService *favorite.Service
	Importer        *seed.Importer
	Metrics         *obs.Metrics
}

func NewRoutes(cfg RoutesConfig) *Routes {
	return &Routes{
		db:              cfg.DB,
		authService:     cfg.AuthService,
		authHandler:     cfg.AuthHandler,
		userService:     cfg.UserService,
		peopleService:   cfg.PeopleService,
		planetService:   cfg.PlanetService,
		favoriteService: cfg.FavoriteService,
		importer:        cfg.Importer,
		metrics:         cfg.Metrics,
	}
}

func (r *Routes) Setup() *http.ServeMux {
	logger := slog.With("component", "routes", "operation", "setup")
	logger.Debug("Setting up application routes")

	mux := http.NewServeMux()
	requireAuth := middleware.RequireAuth(r.authService)

	// Public endpoints
	mux.Handle("GET /health", serverHandlers.NewHealthHandler(r.db))
	mux.Handle("GET /metrics", promhttp.HandlerFor(r.metrics.Registry, promhttp.HandlerOpts{}))
	mux.HandleFunc("POST /login", r.authHandler.Login)

	// Protected endpoints
	mux.Handle("POST /logout", requireAuth(http.HandlerFunc(r.authHandler.Logout)))

	user.NewHandler(r.userService).Register(mux, "/user", requireAuth)
	people.NewHandler(r.peopleService).Register(mux, "/people", requireAuth)
	planet.NewHandler(r.planetService).Register(mux, "/planets", requireAuth)
	favorite.NewHandler(r.favoriteService).Register(mux, "/user/favorites", requireAuth)

	mux.Handle("POST /population/{resource}", requireAuth(http.HandlerFunc(seed.NewHandler(r.importer).Populate)))

	logger.Info("Routes configured successfully",
		"public_endpoints", []string{"/health", "/metrics", "/login"},
		"protected_endpoints", []string{"/logout", "/user", "/people", "/planets", "/user/favorites", "/population"},
	)

	return mux
}
