package user

import (
	"context"
	"log/slog"

	"starwars-api/internal/shared/crud"
	"starwars-api/internal/shared/database"
	"starwars-api/internal/shared/errors"
)

// bcrypt ignores everything past 72 bytes and newer versions reject it.
const maxPasswordBytes = 72

const maxEmailLength = 120

type Store interface {
	List(ctx context.Context) ([]User, error)
	GetByID(ctx context.Context, id int) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	Create(ctx context.Context, email, passwordHash string, tx *database.Tx) (*User, error)
	Update(ctx context.Context, id int, email, passwordHash string, tx *database.Tx) (*User, error)
	Delete(ctx context.Context, id int, tx *database.Tx) error
}

type Service struct {
	repo   Store
	db     database.TxRunner
	logger *slog.Logger
}

var _ crud.Service[*User, Input] = (*Service)(nil)

func NewService(repo Store, db database.TxRunner, logger *slog.Logger) *Service {
	logger.Debug("Initializing user service")

	return &Service{
		repo:   repo,
		db:     db,
		logger: logger,
	}
}

func (s *Service) List(ctx context.Context) ([]*User, error) {
	users, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]*User, 0, len(users))
	for i := range users {
		out = append(out, &users[i])
	}
	return out, nil
}

func (s *Service) Get(ctx context.Context, id int) (*User, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) FindByEmail(ctx context.Context, email string) (*User, error) {
	return s.repo.GetByEmail(ctx, email)
}

func (s *Service) Create(ctx context.Context, in Input) (*User, error) {
	in = in.normalized()
	if err := validate(in); err != nil {
		return nil, err
	}

	hash, err := HashPassword(in.Password)
	if err != nil {
		return nil, errors.WrapInternal("failed to hash password", err)
	}

	var created *User
	err = s.db.WithTx(ctx, func(tx *database.Tx) error {
		created, err = s.repo.Create(ctx, in.Email, hash, tx)
		return err
	})
	if err != nil {
		return nil, err
	}

	return created, nil
}

func (s *Service) Update(ctx context.Context, id int, in Input) (*User, error) {
	in = in.normalized()
	if err := validate(in); err != nil {
		return nil, err
	}

	hash, err := HashPassword(in.Password)
	if err != nil {
		return nil, errors.WrapInternal("failed to hash password", err)
	}

	var updated *User
	err = s.db.WithTx(ctx, func(tx *database.Tx) error {
		updated, err = s.repo.Update(ctx, id, in.Email, hash, tx)
		return err
	})
	if err != nil {
		return nil, err
	}

	return updated, nil
}

func (s *Service) Delete(ctx context.Context, id int) error {
	return s.db.WithTx(ctx, func(tx *database.Tx) error {
		return s.repo.Delete(ctx, id, tx)
	})
}

// EnsureUser creates the account when no user has the email yet. An existing
// account is returned untouched, password included.
func (s *Service) EnsureUser(ctx context.Context, email, password string) (*User, bool, error) {
	logger := s.logger.With("component", "user_service", "operation", "ensure_user")

	existing, err := s.repo.GetByEmail(ctx, email)
	if err == nil {
		logger.Debug("Bootstrap user already exists", "user_id", existing.ID)
		return existing, false, nil
	}
	if !errors.Is(err, errors.ErrorTypeNotFound) {
		return nil, false, err
	}

	created, err := s.Create(ctx, Input{Email: email, Password: password})
	if err != nil {
		return nil, false, err
	}

	logger.Info("Bootstrap user created", "user_id", created.ID)
	return created, true, nil
}

func validate(in Input) error {
	if err := crud.MissingFields(in.missingFields()); err != nil {
		return err
	}
	if err := crud.CheckLength("email", in.Email, maxEmailLength); err != nil {
		return err
	}
	if len(in.Password) > maxPasswordBytes {
		return errors.Validationf("password must be at most %d bytes", maxPasswordBytes)
	}
	return nil
}
