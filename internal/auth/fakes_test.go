package auth

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"starwars-api/internal/shared/errors"
	"starwars-api/internal/user"
)

const testSecret = "0123456789abcdef0123456789abcdef"

type userTable map[string]*user.User

func (u userTable) FindByEmail(_ context.Context, email string) (*user.User, error) {
	if found, ok := u[email]; ok {
		return found, nil
	}
	return nil, errors.NotFound("user not found")
}

func newTestService(t *testing.T) (*Service, *MemoryRevoker) {
	t.Helper()

	hash, err := user.HashPassword("usetheforce")
	require.NoError(t, err)

	users := userTable{
		"luke@rebellion.org": {ID: 7, Email: "luke@rebellion.org", PasswordHash: hash},
	}
	revoker := NewMemoryRevoker()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewService(users, NewTokenManager(testSecret, time.Hour), revoker, logger), revoker
}
