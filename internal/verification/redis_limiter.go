package verification

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisLimiter shares failure counters between instances through Redis.
type RedisLimiter struct {
	policy Policy
	rdb    *redis.Client
}

// NewRedisLimiter creates a Redis-backed limiter.
func NewRedisLimiter(rdb *redis.Client, policy Policy) *RedisLimiter {
	return &RedisLimiter{policy: policy, rdb: rdb}
}

func lockKey(key string) string {
	return key + ":locked"
}

func (l *RedisLimiter) Allow(ctx context.Context, key string) (bool, error) {
	n, err := l.rdb.Exists(ctx, lockKey(key)).Result()
	if err != nil {
		return false, fmt.Errorf("redis exists: %w", err)
	}
	return n == 0, nil
}

func (l *RedisLimiter) Fail(ctx context.Context, key string) error {
	n, err := l.rdb.Incr(ctx, key).Result()
	if err != nil {
		return fmt.Errorf("redis incr: %w", err)
	}
	if n == 1 {
		if err := l.rdb.Expire(ctx, key, l.policy.Window).Err(); err != nil {
			return fmt.Errorf("redis expire: %w", err)
		}
	}
	if n >= int64(l.policy.MaxAttempts) {
		pipe := l.rdb.TxPipeline()
		pipe.Set(ctx, lockKey(key), 1, l.policy.Lockout)
		pipe.Del(ctx, key)
		if _, err := pipe.Exec(ctx); err != nil {
			return fmt.Errorf("redis lock: %w", err)
		}
	}
	return nil
}

func (l *RedisLimiter) Reset(ctx context.Context, key string) error {
	if err := l.rdb.Del(ctx, key, lockKey(key)).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}

var _ Limiter = (*RedisLimiter)(nil)
