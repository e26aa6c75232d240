// Package tokenstore records revoked refresh-token IDs until they would have expired anyway.
package tokenstore

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/dmehra2102/prod-golang-projects/cuidarplus/internal/config"
	"github.com/redis/go-redis/v9"
)

type Store interface {
	// Revoke marks tokenID as used. It is an atomic claim: of concurrent calls
	// for one ID exactly one gets alreadyRevoked == false.
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) (alreadyRevoked bool, err error)
}

const keyPrefix = "cuidarplus:revoked:"

// minTTL keeps an entry for tokens that are past expiry but still inside the
// validator's leeway.
const minTTL = time.Minute

func clampTTL(ttl time.Duration) time.Duration {
	return max(ttl, minTTL)
}

type RedisStore struct {
	client *redis.Client
}

func NewRedisClient(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("pinging redis: %w", err)
	}
	return client, nil
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Revoke(ctx context.Context, tokenID string, ttl time.Duration) (bool, error) {
	set, err := s.client.SetNX(ctx, keyPrefix+tokenID, 1, clampTTL(ttl)).Result()
	if err != nil {
		return false, fmt.Errorf("revoking token: %w", err)
	}
	return !set, nil
}

// MemoryStore is a single-process Store for development and tests.
type MemoryStore struct {
	mu      sync.Mutex
	revoked map[string]time.Time
	now     func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{revoked: make(map[string]time.Time), now: time.Now}
}

func (s *MemoryStore) Revoke(_ context.Context, tokenID string, ttl time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for id, until := range s.revoked {
		if !now.Before(until) {
			delete(s.revoked, id)
		}
	}

	if _, ok := s.revoked[tokenID]; ok {
		return true, nil
	}
	s.revoked[tokenID] = now.Add(clampTTL(ttl))
	return false, nil
}
