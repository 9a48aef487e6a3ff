package people

import (
	"context"
	"log/slog"

	"starwars-api/internal/shared/crud"
	"starwars-api/internal/shared/database"
)

type Store interface {
	List(ctx context.Context) ([]Person, error)
	GetByID(ctx context.Context, id int, tx *database.Tx) (*Person, error)
	LockByID(ctx context.Context, id int, tx *database.Tx) (*Person, error)
	Create(ctx context.Context, p Person, tx *database.Tx) (*Person, error)
	Update(ctx context.Context, id int, p Person, tx *database.Tx) (*Person, error)
	Delete(ctx context.Context, id int, tx *database.Tx) error
}

type Service struct {
	repo   Store
	db     database.TxRunner
	logger *slog.Logger
}

var _ crud.Service[*Person, Input] = (*Service)(nil)

func NewService(repo Store, db database.TxRunner, logger *slog.Logger) *Service {
	logger.Debug("Initializing people service")

	return &Service{
		repo:   repo,
		db:     db,
		logger: logger,
	}
}

func (s *Service) List(ctx context.Context) ([]*Person, error) {
	people, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]*Person, 0, len(people))
	for i := range people {
		out = append(out, &people[i])
	}
	return out, nil
}

func (s *Service) Get(ctx context.Context, id int) (*Person, error) {
	return s.repo.GetByID(ctx, id, nil)
}

// NameOf resolves a person's name inside tx, returning NotFound when the
// row is gone. The row stays locked against deletion until tx ends.
func (s *Service) NameOf(ctx context.Context, id int, tx *database.Tx) (string, error) {
	p, err := s.repo.LockByID(ctx, id, tx)
	if err != nil {
		return "", err
	}
	return p.Name, nil
}

func (s *Service) Create(ctx context.Context, in Input) (*Person, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	var created *Person
	err := s.db.WithTx(ctx, func(tx *database.Tx) error {
		var err error
		created, err = s.repo.Create(ctx, in.person(), tx)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Person created", "component", "people_service", "person_id", created.ID, "name", created.Name)
	return created, nil
}

func (s *Service) Update(ctx context.Context, id int, in Input) (*Person, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	var updated *Person
	err := s.db.WithTx(ctx, func(tx *database.Tx) error {
		var err error
		updated, err = s.repo.Update(ctx, id, in.person(), tx)
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
