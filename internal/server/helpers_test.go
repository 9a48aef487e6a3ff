package server

import (
	"starwars-api/internal/middleware"
	"starwars-api/internal/shared/config"
)

func newCORS() *middleware.CORSMiddleware {
	return middleware.NewCORS(config.FrontendConfig{URL: "http://localhost:3000"})
}

func newLimiter() *middleware.RateLimiter {
	return middleware.NewRateLimiter(config.RateLimitConfig{Enabled: false})
}
