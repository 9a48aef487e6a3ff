package user

import (
	"context"
	"sync"
	"time"

	"starwars-api/internal/shared/database"
	"starwars-api/internal/shared/database/databasetest"
	"starwars-api/internal/shared/errors"
)

// memoryStore mimics the users table, including the unique email constraint.
type memoryStore struct {
	mu     sync.Mutex
	nextID int
	users  map[int]User
}

func newMemoryStore() *memoryStore {
	return &memoryStore{nextID: 1, users: map[int]User{}}
}

func (m *memoryStore) List(_ context.Context) ([]User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []User
	for id := 1; id < m.nextID; id++ {
		if u, ok := m.users[id]; ok {
			out = append(out, u)
		}
	}
	return out, nil
}

func (m *memoryStore) GetByID(_ context.Context, id int) (*User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	u, ok := m.users[id]
	if !ok {
		return nil, errors.NotFoundf("user %d not found", id)
	}
	return &u, nil
}

func (m *memoryStore) GetByEmail(_ context.Context, email string) (*User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, u := range m.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, errors.NotFound("user not found")
}

func (m *memoryStore) emailTaken(email string, except int) bool {
	for id, u := range m.users {
		if id != except && u.Email == email {
			return true
		}
	}
	return false
}

func (m *memoryStore) Create(_ context.Context, email, passwordHash string, _ *database.Tx) (*User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.emailTaken(email, 0) {
		return nil, errors.WrapConflict("email already registered", databasetest.ErrUniqueViolation)
	}

	now := time.Now()
	u := User{ID: m.nextID, Email: email, PasswordHash: passwordHash, CreatedAt: now, UpdatedAt: now}
	m.users[u.ID] = u
	m.nextID++
	return &u, nil
}

func (m *memoryStore) Update(_ context.Context, id int, email, passwordHash string, _ *database.Tx) (*User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	u, ok := m.users[id]
	if !ok {
		return nil, errors.NotFoundf("user %d not found", id)
	}
	if m.emailTaken(email, id) {
		return nil, errors.WrapConflict("email already registered", databasetest.ErrUniqueViolation)
	}

	u.Email = email
	u.PasswordHash = passwordHash
	u.UpdatedAt = time.Now()
	m.users[id] = u
	return &u, nil
}

func (m *memoryStore) Delete(_ context.Context, id int, _ *database.Tx) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.users[id]; !ok {
		return errors.NotFoundf("user %d not found", id)
	}
	delete(m.users, id)
	return nil
}
