package locker

import (
	"context"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Locker serializes slot generation per (doctor, date). TryLock returns
// the fencing value on success; Unlock only releases when the value still
// matches, so an expired holder cannot free someone else's lock.
type Locker interface {
	TryLock(ctx context.Context, key string, ttl time.Duration) (bool, string, error)
	Unlock(ctx context.Context, key string, value string) error
}

// ===============================
// Redis
// ===============================

type RedisLocker struct {
	client *redis.Client
	log    *zap.Logger
}

func NewRedis(client *redis.Client, log *zap.Logger) *RedisLocker {
	return &RedisLocker{client: client, log: log}
}

func (l *RedisLocker) TryLock(ctx context.Context, key string, ttl time.Duration) (bool, string, error) {
	value := uuid.NewString()

	acquired, err := l.client.SetNX(ctx, key, value, ttl).Result()
	if err != nil {
		l.log.Error("locker: SETNX failed", zap.String("key", key), zap.Error(err))
		return false, "", err
	}
	if !acquired {
		return false, "", nil
	}
	return true, value, nil
}

func (l *RedisLocker) Unlock(ctx context.Context, key, value string) error {
	stored, err := l.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return nil
	}
	if err != nil {
		return err
	}
	if stored != value {
		// lock expired and was re-acquired by another holder
		l.log.Warn("locker: fencing value mismatch", zap.String("key", key))
		return nil
	}
	return l.client.Del(ctx, key).Err()
}

// ===============================
// In-process fallback
// ===============================

// MemoryLocker covers single-node deployments without redis and keeps
// tests hermetic. TTL is ignored; locks live until Unlock.
type MemoryLocker struct {
	mu   sync.Mutex
	held map[string]string
}

func NewMemory() *MemoryLocker {
	return &MemoryLocker{held: map[string]string{}}
}

func (l *MemoryLocker) TryLock(_ context.Context, key string, _ time.Duration) (bool, string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, taken := l.held[key]; taken {
		return false, "", nil
	}
	value := uuid.NewString()
	l.held[key] = value
	return true, value, nil
}

func (l *MemoryLocker) Unlock(_ context.Context, key, value string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.held[key] == value {
		delete(l.held, key)
	}
	return nil
}
