package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"starwars-api/internal/auth"
	"starwars-api/internal/shared/cookies"
	"starwars-api/internal/shared/response"
)

type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*auth.Claims, error)
}

// RequireAuth accepts a bearer token and falls back to the auth cookie.
func RequireAuth(authn Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			logger := slog.With(
				"middleware", "jwt",
				"method", r.Method,
				"path", r.URL.Path,
				"remote_addr", r.RemoteAddr,
			)

			claims, err := authn.Authenticate(r.Context(), tokenFromRequest(r))
			if err != nil {
				response.Error(w, r, logger, err)
				return
			}

			logger.Debug("JWT authentication successful", "user_id", claims.UserID)
			next.ServeHTTP(w, r.WithContext(auth.WithClaims(r.Context(), claims)))
		})
	}
}

func tokenFromRequest(r *http.Request) string {
	if header := r.Header.Get("Authorization"); header != "" {
		scheme, token, ok := strings.Cut(header, " ")
		if ok && strings.EqualFold(scheme, "Bearer") {
			return strings.TrimSpace(token)
		}
		return ""
	}

	if cookie, err := r.Cookie(cookies.AuthCookieName); err == nil {
		return cookie.Value
	}
	return ""
}

func GetUserFromContext(r *http.Request) *auth.Claims {
	return auth.ClaimsFromContext(r.Context())
}
