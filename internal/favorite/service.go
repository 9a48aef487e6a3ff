package favorite

import (
	"context"
	"log/slog"

	"starwars-api/internal/shared/database"
	"starwars-api/internal/shared/errors"
)

// NameResolver looks up the display name of a catalog row, returning
// NotFound when it does not exist. Implementations lock the row for the rest
// of tx so the favorite cannot outlive it.
type NameResolver interface {
	NameOf(ctx context.Context, id int, tx *database.Tx) (string, error)
}

type Store interface {
	ListByUser(ctx context.Context, userID int) ([]Favorite, error)
	ListByNature(ctx context.Context, userID int, nature Nature) ([]Favorite, error)
	Get(ctx context.Context, userID int, nature Nature, natureID int, tx *database.Tx) (*Favorite, error)
	Create(ctx context.Context, f Favorite, tx *database.Tx) (*Favorite, error)
	Update(ctx context.Context, userID int, nature Nature, natureID int, newNatureID int, name string, tx *database.Tx) (*Favorite, error)
	Delete(ctx context.Context, userID int, nature Nature, natureID int, tx *database.Tx) error
}

type Service struct {
	repo      Store
	db        database.TxRunner
	resolvers map[Nature]NameResolver
	logger    *slog.Logger
}

func NewService(repo Store, db database.TxRunner, people, planets NameResolver, logger *slog.Logger) *Service {
	logger.Debug("Initializing favorite service")

	return &Service{
		repo: repo,
		db:   db,
		resolvers: map[Nature]NameResolver{
			NaturePeople:  people,
			NaturePlanets: planets,
		},
		logger: logger,
	}
}

func pointers(favorites []Favorite) []*Favorite {
	out := make([]*Favorite, 0, len(favorites))
	for i := range favorites {
		out = append(out, &favorites[i])
	}
	return out
}

func (s *Service) ListAll(ctx context.Context, userID int) ([]*Favorite, error) {
	favorites, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return pointers(favorites), nil
}

func (s *Service) ListByNature(ctx context.Context, userID int, nature Nature) ([]*Favorite, error) {
	favorites, err := s.repo.ListByNature(ctx, userID, nature)
	if err != nil {
		return nil, err
	}
	return pointers(favorites), nil
}

func (s *Service) Get(ctx context.Context, userID int, nature Nature, natureID int) (*Favorite, error) {
	return s.repo.Get(ctx, userID, nature, natureID, nil)
}

// resolveName checks the referenced row exists inside tx and returns the
// name to store: the caller's choice, or the row's own name.
func (s *Service) resolveName(ctx context.Context, nature Nature, in Input, tx *database.Tx) (string, error) {
	resolver, ok := s.resolvers[nature]
	if !ok {
		return "", errors.Validationf("unknown favorite nature %q", nature)
	}

	rowName, err := resolver.NameOf(ctx, *in.NatureID, tx)
	if err != nil {
		return "", err
	}

	if name := in.name(); name != "" {
		return name, nil
	}
	return rowName, nil
}

func (s *Service) Create(ctx context.Context, userID int, nature Nature, in Input) (*Favorite, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	var created *Favorite
	err := s.db.WithTx(ctx, func(tx *database.Tx) error {
		name, err := s.resolveName(ctx, nature, in, tx)
		if err != nil {
			return err
		}

		created, err = s.repo.Create(ctx, Favorite{
			UserID:   userID,
			Name:     name,
			Nature:   nature,
			NatureID: *in.NatureID,
		}, tx)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Favorite created",
		"component", "favorite_service",
		"user_id", userID,
		"nature", nature,
		"nature_id", created.NatureID)
	return created, nil
}

func (s *Service) Update(ctx context.Context, userID int, nature Nature, natureID int, in Input) (*Favorite, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	var updated *Favorite
	err := s.db.WithTx(ctx, func(tx *database.Tx) error {
		if _, err := s.repo.Get(ctx, userID, nature, natureID, tx); err != nil {
			return err
		}

		name, err := s.resolveName(ctx, nature, in, tx)
		if err != nil {
			return err
		}

		updated, err = s.repo.Update(ctx, userID, nature, natureID, *in.NatureID, name, tx)
		return err
	})
	if err != nil {
		return nil, err
	}

	return updated, nil
}

func (s *Service) Delete(ctx context.Context, userID int, nature Nature, natureID int) error {
	return s.db.WithTx(ctx, func(tx *database.Tx) error {
		return s.repo.Delete(ctx, userID, nature, natureID, tx)
	})
}
