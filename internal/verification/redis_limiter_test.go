package verification

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func newRedisLimiter(t *testing.T, policy Policy) (*RedisLimiter, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewRedisLimiter(rdb, policy), mr
}

func TestRedisLimiter_LocksAfterMaxAttempts(t *testing.T) {
	ctx := context.Background()
	l, mr := newRedisLimiter(t, Policy{MaxAttempts: 3, Window: time.Minute, Lockout: time.Hour})
	key := Key("t-1", "u-1")

	for i := 0; i < 2; i++ {
		ok, err := l.Allow(ctx, key)
		require.NoError(t, err)
		require.True(t, ok)
		require.NoError(t, l.Fail(ctx, key))
	}
	ok, err := l.Allow(ctx, key)
	require.NoError(t, err)
	require.True(t, ok)
	require.NoError(t, l.Fail(ctx, key))

	ok, err = l.Allow(ctx, key)
	require.NoError(t, err)
	require.False(t, ok)

	// the counter is folded into the lock
	require.False(t, mr.Exists(key))
	require.Equal(t, time.Hour, mr.TTL(lockKey(key)))

	ok, _ = l.Allow(ctx, Key("t-1", "u-2"))
	require.True(t, ok)
}

func TestRedisLimiter_WindowStartsAtFirstFailure(t *testing.T) {
	ctx := context.Background()
	l, mr := newRedisLimiter(t, Policy{MaxAttempts: 5, Window: time.Minute, Lockout: time.Minute})

	require.NoError(t, l.Fail(ctx, "k"))
	require.Equal(t, time.Minute, mr.TTL("k"))

	mr.FastForward(40 * time.Second)
	require.NoError(t, l.Fail(ctx, "k"))
	require.Equal(t, 20*time.Second, mr.TTL("k"))

	// failures older than the window are forgotten
	mr.FastForward(30 * time.Second)
	require.False(t, mr.Exists("k"))
	require.NoError(t, l.Fail(ctx, "k"))
	v, err := mr.Get("k")
	require.NoError(t, err)
	require.Equal(t, "1", v)
}

func TestRedisLimiter_LockoutExpires(t *testing.T) {
	ctx := context.Background()
	l, mr := newRedisLimiter(t, Policy{MaxAttempts: 1, Window: time.Minute, Lockout: time.Minute})

	require.NoError(t, l.Fail(ctx, "k"))
	ok, _ := l.Allow(ctx, "k")
	require.False(t, ok)

	mr.FastForward(2 * time.Minute)
	ok, err := l.Allow(ctx, "k")
	require.NoError(t, err)
	require.True(t, ok)
}

func TestRedisLimiter_Reset(t *testing.T) {
	ctx := context.Background()
	l, mr := newRedisLimiter(t, Policy{MaxAttempts: 2, Window: time.Minute, Lockout: time.Minute})
	require.NoError(t, l.Fail(ctx, "k"))
	require.NoError(t, l.Reset(ctx, "k"))
	require.NoError(t, l.Fail(ctx, "k"))

	ok, _ := l.Allow(ctx, "k")
	require.True(t, ok)

	require.NoError(t, l.Fail(ctx, "k"))
	require.True(t, mr.Exists(lockKey("k")))
	require.NoError(t, l.Reset(ctx, "k"))
	ok, _ = l.Allow(ctx, "k")
	require.True(t, ok)
}

func TestRedisLimiter_ServerDown(t *testing.T) {
	ctx := context.Background()
	l, mr := newRedisLimiter(t, Policy{MaxAttempts: 2, Window: time.Minute, Lockout: time.Minute})
	mr.Close()

	_, err := l.Allow(ctx, "k")
	require.Error(t, err)
	require.Error(t, l.Fail(ctx, "k"))
}
