package planet

import (
	"context"
	"log/slog"

	"starwars-api/internal/shared/crud"
	"starwars-api/internal/shared/database"
)

type Store interface {
	GetAll(ctx context.Context) ([]Planet, error)
	GetByID(ctx context.Context, id int, tx *database.Tx) (*Planet, error)
	LockByID(ctx context.Context, id int, tx *database.Tx) (*Planet, error)
	Create(ctx context.Context, p Planet, tx *database.Tx) (*Planet, error)
	Update(ctx context.Context, id int, p Planet, tx *database.Tx) (*Planet, error)
	Delete(ctx context.Context, id int, tx *database.Tx) error
}

type Service struct {
	repo   Store
	db     database.TxRunner
	logger *slog.Logger
}

var _ crud.Service[*Planet, Input] = (*Service)(nil)

func NewService(repo Store, db database.TxRunner, logger *slog.Logger) *Service {
	logger.Debug("Initializing planet service")

	return &Service{
		repo:   repo,
		db:     db,
		logger: logger,
	}
}

func (s *Service) List(ctx context.Context) ([]*Planet, error) {
	planets, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]*Planet, 0, len(planets))
	for i := range planets {
		out = append(out, &planets[i])
	}
	return out, nil
}

func (s *Service) Get(ctx context.Context, id int) (*Planet, error) {
	return s.repo.GetByID(ctx, id, nil)
}

// NameOf resolves a planet's name and locks the row against deletion until
// tx ends.
func (s *Service) NameOf(ctx context.Context, id int, tx *database.Tx) (string, error) {
	p, err := s.repo.LockByID(ctx, id, tx)
	if err != nil {
		return "", err
	}
	return p.Name, nil
}

func (s *Service) Create(ctx context.Context, in Input) (*Planet, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	var created *Planet
	err := s.db.WithTx(ctx, func(tx *database.Tx) error {
		var err error
		created, err = s.repo.Create(ctx, in.planet(), tx)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Planet created", "component", "planet_service", "planet_id", created.ID, "name", created.Name)
	return created, nil
}

func (s *Service) Update(ctx context.Context, id int, in Input) (*Planet, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	var updated *Planet
	err := s.db.WithTx(ctx, func(tx *database.Tx) error {
		var err error
		updated, err = s.repo.Update(ctx, id, in.planet(), tx)
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
