package auth

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
)

// SessionStore remembers which sessions were logged out before they expired.
type SessionStore interface {
	Revoke(ctx context.Context, sessionID string, until time.Time) error
	Revoked(ctx context.Context, sessionID string) (bool, error)
}

// MemoryStore keeps revocations in process memory.
type MemoryStore struct {
	mu      sync.Mutex
	revoked map[string]time.Time
	now     func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{revoked: make(map[string]time.Time), now: time.Now}
}

func (m *MemoryStore) Revoke(_ context.Context, sessionID string, until time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	for id, exp := range m.revoked {
		if now.After(exp) {
			delete(m.revoked, id)
		}
	}
	m.revoked[sessionID] = until
	return nil
}

func (m *MemoryStore) Revoked(_ context.Context, sessionID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.revoked[sessionID]
	return ok, nil
}

// RedisStore keeps revocations in Redis, expiring with the token.
type RedisStore struct {
	rdb *redis.Client
}

func NewRedisStore(rdb *redis.Client) *RedisStore {
	return &RedisStore{rdb: rdb}
}

func revokedKey(sessionID string) string {
	return "session:revoked:" + sessionID
}

func (r *RedisStore) Revoke(ctx context.Context, sessionID string, until time.Time) error {
	ttl := time.Until(until)
	if ttl <= 0 {
		return nil
	}
	return r.rdb.Set(ctx, revokedKey(sessionID), 1, ttl).Err()
}

func (r *RedisStore) Revoked(ctx context.Context, sessionID string) (bool, error) {
	n, err := r.rdb.Exists(ctx, revokedKey(sessionID)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// NewRedisClient connects and pings.
func NewRedisClient(addr, password string, db int) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           db,
		PoolSize:     10,
		MinIdleConns: 2,
		MaxRetries:   3,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	pong, err := rdb.Ping(ctx).Result()
	if err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	log.Printf("Redis connected: %s", pong)
	return rdb, nil
}
