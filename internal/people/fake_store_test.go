package people

import (
	"context"
	"sync"

	"starwars-api/internal/shared/database"
	"starwars-api/internal/shared/database/databasetest"
	"starwars-api/internal/shared/errors"
)

type memoryStore struct {
	mu     sync.Mutex
	nextID int
	people map[int]Person
	locked []int
}

func newMemoryStore() *memoryStore {
	return &memoryStore{nextID: 1, people: map[int]Person{}}
}

func (m *memoryStore) List(_ context.Context) ([]Person, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []Person
	for id := 1; id < m.nextID; id++ {
		if p, ok := m.people[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *memoryStore) GetByID(_ context.Context, id int, _ *database.Tx) (*Person, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.people[id]
	if !ok {
		return nil, errors.NotFoundf("person %d not found", id)
	}
	return &p, nil
}

func (m *memoryStore) LockByID(ctx context.Context, id int, tx *database.Tx) (*Person, error) {
	m.mu.Lock()
	m.locked = append(m.locked, id)
	m.mu.Unlock()

	return m.GetByID(ctx, id, tx)
}

func (m *memoryStore) nameTaken(name string, except int) bool {
	for id, p := range m.people {
		if id != except && p.Name == name {
			return true
		}
	}
	return false
}

func (m *memoryStore) Create(_ context.Context, p Person, _ *database.Tx) (*Person, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.nameTaken(p.Name, 0) {
		return nil, errors.WrapConflict("a person with this name already exists", databasetest.ErrUniqueViolation)
	}
	p.ID = m.nextID
	m.people[p.ID] = p
	m.nextID++
	return &p, nil
}

func (m *memoryStore) Update(_ context.Context, id int, p Person, _ *database.Tx) (*Person, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.people[id]; !ok {
		return nil, errors.NotFoundf("person %d not found", id)
	}
	if m.nameTaken(p.Name, id) {
		return nil, errors.WrapConflict("a person with this name already exists", databasetest.ErrUniqueViolation)
	}
	p.ID = id
	m.people[id] = p
	return &p, nil
}

func (m *memoryStore) Delete(_ context.Context, id int, _ *database.Tx) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.people[id]; !ok {
		return errors.NotFoundf("person %d not found", id)
	}
	delete(m.people, id)
	return nil
}
