package otp

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

var (
	// ErrCodeNotFound means no code was ever issued for the user, or it was consumed.
	ErrCodeNotFound = errors.New("otp not found")
	// ErrCodeExpired means a code was issued but its TTL has passed.
	ErrCodeExpired = errors.New("otp expired")
)

// CodeStore holds the pending code per user.
type CodeStore interface {
	Put(ctx context.Context, userID, code string, ttl time.Duration) error
	Get(ctx context.Context, userID string) (string, error)
	Delete(ctx context.Context, userID string) error
}

const keyPrefix = "otp:"

// RedisCodeStore keeps codes under otp:<userID> with a TTL. Redis drops
// expired keys itself, so an expired code reads as ErrCodeNotFound.
type RedisCodeStore struct {
	client redis.Cmdable
}

func NewRedisCodeStore(client redis.Cmdable) *RedisCodeStore {
	return &RedisCodeStore{client: client}
}

func (s *RedisCodeStore) Put(ctx context.Context, userID, code string, ttl time.Duration) error {
	if err := s.client.Set(ctx, keyPrefix+userID, code, ttl).Err(); err != nil {
		return fmt.Errorf("store otp: %w", err)
	}
	return nil
}

func (s *RedisCodeStore) Get(ctx context.Context, userID string) (string, error) {
	code, err := s.client.Get(ctx, keyPrefix+userID).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrCodeNotFound
	}
	if err != nil {
		return "", fmt.Errorf("load otp: %w", err)
	}
	return code, nil
}

func (s *RedisCodeStore) Delete(ctx context.Context, userID string) error {
	if err := s.client.Del(ctx, keyPrefix+userID).Err(); err != nil {
		return fmt.Errorf("delete otp: %w", err)
	}
	return nil
}

type memoryEntry struct {
	code      string
	expiresAt time.Time
}

// MemoryCodeStore is the in-process store used when Redis is disabled.
// A zero ttl never expires.
type MemoryCodeStore struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	now     func() time.Time
}

func NewMemoryCodeStore() *MemoryCodeStore {
	return &MemoryCodeStore{entries: make(map[string]memoryEntry), now: time.Now}
}

func (s *MemoryCodeStore) Put(_ context.Context, userID, code string, ttl time.Duration) error {
	e := memoryEntry{code: code}
	if ttl > 0 {
		e.expiresAt = s.now().Add(ttl)
	}
	s.mu.Lock()
	s.entries[userID] = e
	s.mu.Unlock()
	return nil
}

func (s *MemoryCodeStore) Get(_ context.Context, userID string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[userID]
	if !ok {
		return "", ErrCodeNotFound
	}
	if !e.expiresAt.IsZero() && !s.now().Before(e.expiresAt) {
		delete(s.entries, userID)
		return "", ErrCodeExpired
	}
	return e.code, nil
}

func (s *MemoryCodeStore) Delete(_ context.Context, userID string) error {
	s.mu.Lock()
	delete(s.entries, userID)
	s.mu.Unlock()
	return nil
}
