package auth

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"starwars-api/internal/shared/redis"

	goredis "github.com/redis/go-redis/v9"
)

// Revoker remembers logged-out token ids until the token would have expired
// anyway.
type Revoker interface {
	Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

type MemoryRevoker struct {
	revoked map[string]time.Time
	mutex   sync.RWMutex
	now     func() time.Time
	stop    chan struct{}
	once    sync.Once
}

func NewMemoryRevoker() *MemoryRevoker {
	return &MemoryRevoker{
		revoked: make(map[string]time.Time),
		now:     time.Now,
		stop:    make(chan struct{}),
	}
}

func (m *MemoryRevoker) Revoke(_ context.Context, tokenID string, expiresAt time.Time) error {
	m.mutex.Lock()
	m.revoked[tokenID] = expiresAt
	m.mutex.Unlock()
	return nil
}

func (m *MemoryRevoker) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	expiresAt, ok := m.revoked[tokenID]
	return ok && m.now().Before(expiresAt), nil
}

// StartCleanup prunes expired entries every interval until Stop is called.
func (m *MemoryRevoker) StartCleanup(interval time.Duration) {
	ticker := time.NewTicker(interval)

	logger := slog.With("component", "token_revoker", "operation", "cleanup")
	logger.Debug("Starting revocation cleanup goroutine", "interval", interval)

	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				m.cleanupExpired()
			case <-m.stop:
				return
			}
		}
	}()
}

func (m *MemoryRevoker) Stop() {
	m.once.Do(func() { close(m.stop) })
}

func (m *MemoryRevoker) cleanupExpired() int {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	now := m.now()
	expiredCount := 0
	for id, expiresAt := range m.revoked {
		if !now.Before(expiresAt) {
			delete(m.revoked, id)
			expiredCount++
		}
	}

	if expiredCount > 0 {
		slog.Debug("Cleaned up expired revocations",
			"component", "token_revoker",
			"expired_count", expiredCount,
			"remaining_count", len(m.revoked))
	}
	return expiredCount
}

type RedisRevoker struct {
	client *redis.Client
	now    func() time.Time
}

func NewRedisRevoker(client *redis.Client) *RedisRevoker {
	return &RedisRevoker{client: client, now: time.Now}
}

func revokedKey(tokenID string) string {
	return "auth:revoked:" + tokenID
}

func (r *RedisRevoker) Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error {
	ttl := expiresAt.Sub(r.now())
	if ttl <= 0 {
		return nil
	}

	if err := r.client.Set(ctx, revokedKey(tokenID), 1, ttl).Err(); err != nil {
		return fmt.Errorf("failed to store revocation: %w", err)
	}
	return nil
}

func (r *RedisRevoker) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	err := r.client.Get(ctx, revokedKey(tokenID)).Err()
	switch {
	case err == nil:
		return true, nil
	case err == goredis.Nil:
		return false, nil
	default:
		return false, fmt.Errorf("failed to check revocation: %w", err)
	}
}
