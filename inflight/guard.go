// Package inflight rejects a second submission of an action while the first
// one is still running.
package inflight

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

var ErrInProgress = errors.New("action already in progress")

type Guard interface {
	// Acquire holds key until the returned release is called.
	Acquire(ctx context.Context, key string) (release func(), err error)
}

// Do runs fn while holding key. The key is released whatever fn returns.
func Do(ctx context.Context, g Guard, key string, fn func(ctx context.Context) error) error {
	release, err := g.Acquire(ctx, key)
	if err != nil {
		return err
	}
	defer release()
	return fn(ctx)
}

type MemoryGuard struct {
	mu   sync.Mutex
	held map[string]struct{}
}

func NewMemoryGuard() *MemoryGuard {
	return &MemoryGuard{held: map[string]struct{}{}}
}

func (g *MemoryGuard) Acquire(_ context.Context, key string) (func(), error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, ok := g.held[key]; ok {
		return nil, fmt.Errorf("%w: %s", ErrInProgress, key)
	}
	g.held[key] = struct{}{}

	var once sync.Once
	return func() {
		once.Do(func() {
			g.mu.Lock()
			delete(g.held, key)
			g.mu.Unlock()
		})
	}, nil
}

// RedisGuard shares held keys between replicas. TTL bounds how long a crashed
// holder can block the key.
type RedisGuard struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisGuard(client *redis.Client, ttl time.Duration) *RedisGuard {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &RedisGuard{client: client, ttl: ttl}
}

// releaseIfHeld deletes KEYS[1] only while it still holds this holder's token,
// so a holder that outlived the TTL cannot free a later holder's key.
var releaseIfHeld = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

func (g *RedisGuard) Acquire(ctx context.Context, key string) (func(), error) {
	redisKey := "inflight:" + key
	token := uuid.NewString()
	acquired, err := g.client.SetNX(ctx, redisKey, token, g.ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("acquire %s: %w", key, err)
	}
	if !acquired {
		return nil, fmt.Errorf("%w: %s", ErrInProgress, key)
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			// released even if the request context is already cancelled
			err := releaseIfHeld.Run(context.WithoutCancel(ctx), g.client, []string{redisKey}, token).Err()
			if err != nil {
				log.Printf("⚠️  release %s: %v", key, err)
			}
		})
	}, nil
}
