package analysis

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Locker guards against concurrent analysis of the same document.
// Acquire reports false when another run already holds the lock.
type Locker interface {
	Acquire(ctx context.Context, documentID string, ttl time.Duration) (bool, error)
	Release(ctx context.Context, documentID string)
}

// RedisLocker implements Locker with SET NX so the lock holds across
// multiple API instances. The TTL bounds how long a crashed run can
// keep a document stuck.
type RedisLocker struct {
	Client *redis.Client
}

func NewRedisLocker(redisURL string) (*RedisLocker, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}
	return &RedisLocker{Client: redis.NewClient(opts)}, nil
}

func (l *RedisLocker) Acquire(ctx context.Context, documentID string, ttl time.Duration) (bool, error) {
	key := "analysis:lock:" + documentID
	return l.Client.SetNX(ctx, key, time.Now().UTC().Format(time.RFC3339Nano), ttl).Result()
}

func (l *RedisLocker) Release(ctx context.Context, documentID string) {
	l.Client.Del(ctx, "analysis:lock:"+documentID)
}

// MemoryLocker is the single-instance fallback used when Redis is not
// configured.
type MemoryLocker struct {
	mu    sync.Mutex
	locks map[string]time.Time
}

func NewMemoryLocker() *MemoryLocker {
	return &MemoryLocker{locks: make(map[string]time.Time)}
}

func (l *MemoryLocker) Acquire(_ context.Context, documentID string, ttl time.Duration) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	now := time.Now()
	if expires, held := l.locks[documentID]; held && now.Before(expires) {
		return false, nil
	}
	l.locks[documentID] = now.Add(ttl)
	return true, nil
}

func (l *MemoryLocker) Release(_ context.Context, documentID string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.locks, documentID)
}
