package store

import (
	"context"
	"sync/atomic"
	"time"

	"task-marketplace-api/internal/cache"
	"task-marketplace-api/internal/models"
	"task-marketplace-api/internal/realtime"
)

// DefaultProfileTTL bounds how long a cached profile is served.
const DefaultProfileTTL = 5 * time.Minute

// ProfileCache is a read-through cache of profiles used to enrich task, application
// and chat views. Writers drop the entries they change with Invalidate; the feed
// watcher catches the rest, and the TTL bounds whatever both miss.
type ProfileCache struct {
	store *Store
	cache cache.Cache[string, models.Profile]
	ttl   time.Duration
	// bumped by Invalidate; a load that raced an invalidation is not cached
	gen atomic.Uint64
}

// NewProfileCache wraps store with c. A ttl <= 0 means DefaultProfileTTL.
func NewProfileCache(store *Store, c cache.Cache[string, models.Profile], ttl time.Duration) *ProfileCache {
	if ttl <= 0 {
		ttl = DefaultProfileTTL
	}
	return &ProfileCache{store: store, cache: c, ttl: ttl}
}

// Get returns the profile, loading it from the store on a miss.
func (p *ProfileCache) Get(ctx context.Context, id string) (models.Profile, error) {
	gen := p.gen.Load()
	if prof, ok := p.cache.Get(id); ok {
		return prof, nil
	}
	prof, err := p.store.GetProfile(ctx, id)
	if err != nil {
		return models.Profile{}, err
	}
	if p.gen.Load() == gen {
		p.cache.Set(id, prof, p.ttl)
	}
	return prof, nil
}

// Username returns the username for id, or fallback when it cannot be resolved.
func (p *ProfileCache) Username(ctx context.Context, id, fallback string) string {
	prof, err := p.Get(ctx, id)
	if err != nil {
		return fallback
	}
	return prof.Username
}

// Invalidate drops a cached profile.
func (p *ProfileCache) Invalidate(id string) {
	p.gen.Add(1)
	p.cache.Delete(id)
}

// Watch invalidates entries on profile changes until ctx is done.
func (p *ProfileCache) Watch(ctx context.Context, feed *realtime.Feed) {
	sub := feed.Subscribe(models.Profile{}.TableName(), nil, realtime.KindUpdate)
	go func() {
		defer sub.Unsubscribe()
		for {
			select {
			case <-ctx.Done():
				return
			case evt, ok := <-sub.C:
				if !ok {
					return
				}
				p.Invalidate(evt.ID)
			}
		}
	}()
}
