package throttle

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "throttle:login:"

// Redis is a Limiter shared by every API instance using the same Redis.
type Redis struct {
	rdb *redis.Client
	cfg Config
}

// NewRedisClient creates and pings a Redis client.
func NewRedisClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return rdb, nil
}

// NewRedis creates a Limiter that keeps its counters in rdb.
func NewRedis(rdb *redis.Client, cfg Config) *Redis {
	return &Redis{rdb: rdb, cfg: cfg}
}

// Allow reports whether key may attempt another login.
func (r *Redis) Allow(ctx context.Context, key string) (bool, error) {
	n, err := r.rdb.Get(ctx, redisKey(key)).Int()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return true, nil
		}
		return false, fmt.Errorf("read attempts: %w", err)
	}
	return n < r.cfg.MaxAttempts, nil
}

// Fail records a failed attempt for key. The counter and its expiry are set
// in one MULTI/EXEC so a counter never exists without a TTL.
func (r *Redis) Fail(ctx context.Context, key string) error {
	_, err := r.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		queueFail(ctx, pipe, redisKey(key), r.cfg.Window)
		return nil
	})
	if err != nil {
		return fmt.Errorf("count attempt: %w", err)
	}
	return nil
}

// queueFail starts the window with SET NX EX, then counts the attempt. INCR
// keeps the TTL of an existing key.
func queueFail(ctx context.Context, pipe redis.Pipeliner, k string, window time.Duration) (*redis.BoolCmd, *redis.IntCmd) {
	start := pipe.SetNX(ctx, k, 0, window)
	count := pipe.Incr(ctx, k)
	return start, count
}

// Reset forgets the failures of key.
func (r *Redis) Reset(ctx context.Context, key string) error {
	if err := r.rdb.Del(ctx, redisKey(key)).Err(); err != nil {
		return fmt.Errorf("reset attempts: %w", err)
	}
	return nil
}

// Close closes the underlying client.
func (r *Redis) Close() error {
	return r.rdb.Close()
}

func redisKey(key string) string {
	return keyPrefix + key
}
