package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"starwars-api/internal/middleware"
	"starwars-api/internal/shared/config"
	"starwars-api/internal/shared/obs"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const shutdownTimeout = 10 * time.Second

type Server struct {
	http   *http.Server
	logger *slog.Logger
}

// isPopulate matches the seed import route, whose requests run one upstream
// call per imported row.
func isPopulate(r *http.Request) bool {
	return r.Method == http.MethodPost && strings.HasPrefix(r.URL.Path, "/population/")
}

// Chain wraps the mux in the outer middleware stack. Metrics sits directly on
// the mux so it can read the matched pattern. seedDeadline is the write
// deadline for seed imports; zero keeps the server WriteTimeout.
func Chain(mux *http.ServeMux, cors *middleware.CORSMiddleware, limiter *middleware.RateLimiter, metrics *obs.Metrics, seedDeadline time.Duration) http.Handler {
	var handler http.Handler = mux
	handler = middleware.Metrics(metrics)(handler)
	handler = otelhttp.NewHandler(handler, "http.server")
	handler = middleware.WriteDeadline(seedDeadline, isPopulate)(handler)
	handler = middleware.RequestLogger(handler)
	handler = limiter.Middleware(handler)
	handler = cors.Middleware(handler)
	return handler
}

func New(cfg config.ServerConfig, handler http.Handler, logger *slog.Logger) *Server {
	return &Server{
		http: &http.Server{
			Addr:         ":" + cfg.Port,
			Handler:      handler,
			ReadTimeout:  cfg.ReadTimeout(),
			WriteTimeout: cfg.WriteTimeout(),
			IdleTimeout:  cfg.IdleTimeout(),
		},
		logger: logger,
	}
}

// Run serves until ctx is cancelled, then drains in-flight requests.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Server starting", "addr", s.http.Addr)
		if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("Shutting down server", "timeout", shutdownTimeout)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := s.http.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}

	s.logger.Info("Server stopped")
	return nil
}
