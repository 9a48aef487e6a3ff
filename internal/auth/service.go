package auth

import (
	"context"
	"log/slog"
	"strings"

	"starwars-api/internal/shared/crud"
	"starwars-api/internal/shared/errors"
	"starwars-api/internal/user"
)

type UserFinder interface {
	FindByEmail(ctx context.Context, email string) (*user.User, error)
}

type Service struct {
	users   UserFinder
	tokens  *TokenManager
	revoker Revoker
	logger  *slog.Logger
}

func NewService(users UserFinder, tokens *TokenManager, revoker Revoker, logger *slog.Logger) *Service {
	logger.Debug("Initializing auth service")

	return &Service{
		users:   users,
		tokens:  tokens,
		revoker: revoker,
		logger:  logger,
	}
}

// Login checks the credentials and issues a token. An unknown email and a
// wrong password produce the same NotFound error.
func (s *Service) Login(ctx context.Context, req LoginRequest) (*LoginResult, error) {
	logger := s.logger.With("component", "auth_service", "operation", "login")

	email := strings.TrimSpace(req.Email)
	var missing []string
	if email == "" {
		missing = append(missing, "email")
	}
	if req.Password == "" {
		missing = append(missing, "password")
	}
	if err := crud.MissingFields(missing); err != nil {
		return nil, err
	}

	u, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, errors.ErrorTypeNotFound) {
			logger.Debug("Login for unknown email")
			return nil, errors.NotFound("invalid email or password")
		}
		return nil, err
	}

	if !user.CheckPassword(u.PasswordHash, req.Password) {
		logger.Debug("Login with wrong password", "user_id", u.ID)
		return nil, errors.NotFound("invalid email or password")
	}

	token, _, err := s.tokens.Generate(u.ID, u.Email)
	if err != nil {
		return nil, errors.WrapInternal("failed to issue token", err)
	}

	logger.Info("User logged in", "user_id", u.ID)
	return &LoginResult{Email: u.Email, Token: token, UserID: u.ID}, nil
}

func (s *Service) Authenticate(ctx context.Context, token string) (*Claims, error) {
	if token == "" {
		return nil, errors.Unauthorized("authentication required")
	}

	claims, err := s.tokens.Validate(token)
	if err != nil {
		return nil, errors.WrapUnauthorized("invalid token", err)
	}

	revoked, err := s.revoker.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, errors.WrapInternal("failed to check token revocation", err)
	}
	if revoked {
		return nil, errors.Unauthorized("token has been revoked")
	}

	return claims, nil
}

func (s *Service) Logout(ctx context.Context, claims *Claims) error {
	if claims == nil {
		return errors.Unauthorized("authentication required")
	}

	if err := s.revoker.Revoke(ctx, claims.ID, claims.ExpiresAt.Time); err != nil {
		return errors.WrapInternal("failed to revoke token", err)
	}

	s.logger.Info("User logged out", "component", "auth_service", "user_id", claims.UserID)
	return nil
}
