package planet

import (
	"context"
	"sync"

	"starwars-api/internal/shared/database"
	"starwars-api/internal/shared/database/databasetest"
	"starwars-api/internal/shared/errors"
)

type memoryStore struct {
	mu      sync.Mutex
	nextID  int
	planets map[int]Planet
	locked  []int
}

func newMemoryStore() *memoryStore {
	return &memoryStore{nextID: 1, planets: map[int]Planet{}}
}

func (m *memoryStore) GetAll(_ context.Context) ([]Planet, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []Planet
	for id := 1; id < m.nextID; id++ {
		if p, ok := m.planets[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *memoryStore) GetByID(_ context.Context, id int, _ *database.Tx) (*Planet, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.planets[id]
	if !ok {
		return nil, errors.NotFoundf("planet %d not found", id)
	}
	return &p, nil
}

func (m *memoryStore) LockByID(ctx context.Context, id int, tx *database.Tx) (*Planet, error) {
	m.mu.Lock()
	m.locked = append(m.locked, id)
	m.mu.Unlock()

	return m.GetByID(ctx, id, tx)
}

func (m *memoryStore) nameTaken(name string, except int) bool {
	for id, p := range m.planets {
		if id != except && p.Name == name {
			return true
		}
	}
	return false
}

func (m *memoryStore) Create(_ context.Context, p Planet, _ *database.Tx) (*Planet, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.nameTaken(p.Name, 0) {
		return nil, errors.WrapConflict("a planet with this name already exists", databasetest.ErrUniqueViolation)
	}
	p.ID = m.nextID
	m.planets[p.ID] = p
	m.nextID++
	return &p, nil
}

func (m *memoryStore) Update(_ context.Context, id int, p Planet, _ *database.Tx) (*Planet, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.planets[id]; !ok {
		return nil, errors.NotFoundf("planet %d not found", id)
	}
	if m.nameTaken(p.Name, id) {
		return nil, errors.WrapConflict("a planet with this name already exists", databasetest.ErrUniqueViolation)
	}
	p.ID = id
	m.planets[id] = p
	return &p, nil
}

func (m *memoryStore) Delete(_ context.Context, id int, _ *database.Tx) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.planets[id]; !ok {
		return errors.NotFoundf("planet %d not found", id)
	}
	delete(m.planets, id)
	return nil
}
