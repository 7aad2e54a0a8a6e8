package verification

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestMemoryLimiter_LocksAfterMaxAttempts(t *testing.T) {
	ctx := context.Background()
	l := NewMemoryLimiter(Policy{MaxAttempts: 3, Window: time.Minute, Lockout: time.Hour})
	key := Key("t-1", "u-1")

	for i := 0; i < 2; i++ {
		ok, err := l.Allow(ctx, key)
		require.NoError(t, err)
		require.True(t, ok)
		require.NoError(t, l.Fail(ctx, key))
	}
	ok, _ := l.Allow(ctx, key)
	require.True(t, ok)
	require.NoError(t, l.Fail(ctx, key))

	ok, _ = l.Allow(ctx, key)
	require.False(t, ok)

	// other users and tasks are unaffected
	ok, _ = l.Allow(ctx, Key("t-1", "u-2"))
	require.True(t, ok)
}

func TestMemoryLimiter_LockoutExpires(t *testing.T) {
	ctx := context.Background()
	base := time.Now()
	l := NewMemoryLimiter(Policy{MaxAttempts: 1, Window: time.Minute, Lockout: time.Minute})
	l.now = func() time.Time { return base }

	require.NoError(t, l.Fail(ctx, "k"))
	ok, _ := l.Allow(ctx, "k")
	require.False(t, ok)

	base = base.Add(2 * time.Minute)
	ok, _ = l.Allow(ctx, "k")
	require.True(t, ok)
}

func TestMemoryLimiter_Reset(t *testing.T) {
	ctx := context.Background()
	l := NewMemoryLimiter(Policy{MaxAttempts: 2, Window: time.Minute, Lockout: time.Minute})
	require.NoError(t, l.Fail(ctx, "k"))
	require.NoError(t, l.Reset(ctx, "k"))
	require.NoError(t, l.Fail(ctx, "k"))

	ok, _ := l.Allow(ctx, "k")
	require.True(t, ok)
}

func TestNopLimiter(t *testing.T) {
	var l Limiter = NopLimiter{}
	for i := 0; i < 100; i++ {
		require.NoError(t, l.Fail(context.Background(), "k"))
	}
	ok, err := l.Allow(context.Background(), "k")
	require.NoError(t, err)
	require.True(t, ok)
}

func TestMemoryLimiter_ResetClearsLock(t *testing.T) {
	ctx := context.Background()
	l := NewMemoryLimiter(Policy{MaxAttempts: 1, Window: time.Minute, Lockout: time.Minute})
	require.NoError(t, l.Fail(ctx, "k"))
	ok, _ := l.Allow(ctx, "k")
	require.False(t, ok)

	require.NoError(t, l.Reset(ctx, "k"))
	ok, _ = l.Allow(ctx, "k")
	require.True(t, ok)
}
