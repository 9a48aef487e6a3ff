package favorite

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"time"

	"starwars-api/internal/shared/database"
	"starwars-api/internal/shared/database/databasetest"
	"starwars-api/internal/shared/errors"
)

type catalog map[int]string

func (c catalog) NameOf(_ context.Context, id int, _ *database.Tx) (string, error) {
	name, ok := c[id]
	if !ok {
		return "", errors.NotFoundf("row %d not found", id)
	}
	return name, nil
}

type memoryStore struct {
	mu        sync.Mutex
	nextID    int
	favorites []Favorite
}

func (m *memoryStore) find(userID int, nature Nature, natureID int) int {
	for i, f := range m.favorites {
		if f.UserID == userID && f.Nature == nature && f.NatureID == natureID {
			return i
		}
	}
	return -1
}

func (m *memoryStore) filter(keep func(Favorite) bool) []Favorite {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []Favorite
	for _, f := range m.favorites {
		if keep(f) {
			out = append(out, f)
		}
	}
	return out
}

func (m *memoryStore) ListByUser(_ context.Context, userID int) ([]Favorite, error) {
	return m.filter(func(f Favorite) bool { return f.UserID == userID }), nil
}

func (m *memoryStore) ListByNature(_ context.Context, userID int, nature Nature) ([]Favorite, error) {
	return m.filter(func(f Favorite) bool { return f.UserID == userID && f.Nature == nature }), nil
}

func (m *memoryStore) Get(_ context.Context, userID int, nature Nature, natureID int, _ *database.Tx) (*Favorite, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.find(userID, nature, natureID)
	if i < 0 {
		return nil, errors.NotFoundf("favorite %s %d not found", nature, natureID)
	}
	f := m.favorites[i]
	return &f, nil
}

func (m *memoryStore) Create(_ context.Context, f Favorite, _ *database.Tx) (*Favorite, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.find(f.UserID, f.Nature, f.NatureID) >= 0 {
		return nil, errors.WrapConflict("favorite already exists", databasetest.ErrUniqueViolation)
	}
	m.nextID++
	f.ID = m.nextID
	f.CreatedAt = time.Now()
	m.favorites = append(m.favorites, f)
	return &f, nil
}

func (m *memoryStore) Update(_ context.Context, userID int, nature Nature, natureID int, newNatureID int, name string, _ *database.Tx) (*Favorite, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.find(userID, nature, natureID)
	if i < 0 {
		return nil, errors.NotFoundf("favorite %s %d not found", nature, natureID)
	}
	if j := m.find(userID, nature, newNatureID); j >= 0 && j != i {
		return nil, errors.WrapConflict("favorite already exists", databasetest.ErrUniqueViolation)
	}
	m.favorites[i].NatureID = newNatureID
	m.favorites[i].Name = name
	f := m.favorites[i]
	return &f, nil
}

func (m *memoryStore) Delete(_ context.Context, userID int, nature Nature, natureID int, _ *database.Tx) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.find(userID, nature, natureID)
	if i < 0 {
		return errors.NotFoundf("favorite %s %d not found", nature, natureID)
	}
	m.favorites = append(m.favorites[:i], m.favorites[i+1:]...)
	return nil
}

func newTestService() *Service {
	people := catalog{1: "Luke Skywalker", 4: "Darth Vader"}
	planets := catalog{1: "Tatooine", 2: "Alderaan"}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewService(&memoryStore{}, databasetest.NoTx{}, people, planets, logger)
}
