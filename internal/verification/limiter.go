package verification

import (
	"context"
	"time"

	"task-marketplace-api/internal/cache"
)

// Limiter throttles failed code submissions per key.
type Limiter interface {
	// Allow reports whether another attempt may be made for key.
	Allow(ctx context.Context, key string) (bool, error)
	// Fail records a failed attempt.
	Fail(ctx context.Context, key string) error
	// Reset forgets the failures recorded for key.
	Reset(ctx context.Context, key string) error
}

// Policy configures a Limiter: MaxAttempts failures within Window lock the key for Lockout.
type Policy struct {
	MaxAttempts int
	Window      time.Duration
	Lockout     time.Duration
}

// Enabled reports whether the policy limits anything.
func (p Policy) Enabled() bool {
	return p.MaxAttempts > 0
}

// Key builds the limiter key of a user verifying a task.
func Key(taskID, userID string) string {
	return "verify:" + taskID + ":" + userID
}

// NopLimiter never refuses an attempt.
type NopLimiter struct{}

func (NopLimiter) Allow(context.Context, string) (bool, error) { return true, nil }
func (NopLimiter) Fail(context.Context, string) error          { return nil }
func (NopLimiter) Reset(context.Context, string) error         { return nil }

type attempts struct {
	count       int
	lockedUntil time.Time
}

// MemoryLimiter keeps failure counters in a TTL cache; it suits a single instance.
type MemoryLimiter struct {
	policy Policy
	store  *cache.TTLCache[string, attempts]
	now    func() time.Time
}

// NewMemoryLimiter creates an in-process limiter.
func NewMemoryLimiter(policy Policy) *MemoryLimiter {
	return &MemoryLimiter{
		policy: policy,
		store:  cache.NewTTLCache[string, attempts](),
		now:    time.Now,
	}
}

func (l *MemoryLimiter) Allow(_ context.Context, key string) (bool, error) {
	a, ok := l.store.Get(key)
	if !ok {
		return true, nil
	}
	return !l.now().Before(a.lockedUntil), nil
}

func (l *MemoryLimiter) Fail(_ context.Context, key string) error {
	at := l.now()
	l.store.Update(key, l.policy.Window, func(a attempts, _ bool) attempts {
		a.count++
		if a.count >= l.policy.MaxAttempts && a.lockedUntil.IsZero() {
			a.lockedUntil = at.Add(l.policy.Lockout)
		}
		return a
	})
	if a, ok := l.store.Get(key); ok && !a.lockedUntil.IsZero() {
		// keep the record alive for the whole lockout
		l.store.Set(key, a, a.lockedUntil.Sub(at))
	}
	l.store.PurgeExpired()
	return nil
}

func (l *MemoryLimiter) Reset(_ context.Context, key string) error {
	l.store.Delete(key)
	return nil
}

var (
	_ Limiter = NopLimiter{}
	_ Limiter = (*MemoryLimiter)(nil)
)
