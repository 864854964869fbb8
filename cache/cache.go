package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// ListCache stores whole serialized list responses. A Set replaces the previous
// value; there is no merging.
//
// Every key carries a generation that Invalidate bumps. A reader takes the
// generation before it queries the database and passes it to Set, which stores
// nothing when a write has invalidated the key in between.
type ListCache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Generation(ctx context.Context, key string) (int64, error)
	Set(ctx context.Context, key string, gen int64, value []byte) error
	Invalidate(ctx context.Context, key string) error
}

type Config struct {
	Addr     string
	Password string
	DB       int
}

func NewClient(ctx context.Context, cfg Config) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	return client, nil
}

type Redis struct {
	client    *redis.Client
	ttl       time.Duration
	prefix    string
	genPrefix string
}

func NewRedis(client *redis.Client, ttl time.Duration) *Redis {
	return &Redis{client: client, ttl: ttl, prefix: "list:", genPrefix: "listgen:"}
}

// setIfGeneration writes KEYS[1] only while KEYS[2] still holds ARGV[1].
// A missing generation reads as 0.
var setIfGeneration = redis.NewScript(`
local gen = redis.call("GET", KEYS[2])
if not gen then gen = "0" end
if gen ~= ARGV[1] then
	return 0
end
local ttl = tonumber(ARGV[3])
if ttl > 0 then
	redis.call("SET", KEYS[1], ARGV[2], "PX", ttl)
else
	redis.call("SET", KEYS[1], ARGV[2])
end
return 1
`)

func (r *Redis) Get(ctx context.Context, key string) ([]byte, bool, error) {
	val, err := r.client.Get(ctx, r.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return val, true, nil
}

func (r *Redis) Generation(ctx context.Context, key string) (int64, error) {
	gen, err := r.client.Get(ctx, r.genPrefix+key).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return gen, err
}

func (r *Redis) Set(ctx context.Context, key string, gen int64, value []byte) error {
	keys := []string{r.prefix + key, r.genPrefix + key}
	return setIfGeneration.Run(ctx, r.client, keys, strconv.FormatInt(gen, 10), value, r.ttl.Milliseconds()).Err()
}

func (r *Redis) Invalidate(ctx context.Context, key string) error {
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, r.genPrefix+key)
		pipe.Del(ctx, r.prefix+key)
		return nil
	})
	return err
}
