package cache

import (
	"time"

	"github.com/dgraph-io/ristretto/v2"
)

// RistrettoCache is a bounded in-process cache backed by ristretto.
// Every entry costs 1, so maxItems bounds the number of entries.
type RistrettoCache[V any] struct {
	c *ristretto.Cache[string, V]
}

// NewRistrettoCache creates a cache holding at most maxItems entries.
func NewRistrettoCache[V any](maxItems int64) (*RistrettoCache[V], error) {
	if maxItems <= 0 {
		maxItems = 1000
	}
	c, err := ristretto.NewCache(&ristretto.Config[string, V]{
		NumCounters: maxItems * 10,
		MaxCost:     maxItems,
		BufferItems: 64,
	})
	if err != nil {
		return nil, err
	}
	return &RistrettoCache[V]{c: c}, nil
}

// Get implements Cache.Get.
func (r *RistrettoCache[V]) Get(key string) (V, bool) {
	return r.c.Get(key)
}

// Set implements Cache.Set. Writes are buffered by ristretto; Set waits for them
// to be applied so a following Get observes the value.
func (r *RistrettoCache[V]) Set(key string, value V, ttl time.Duration) {
	if ttl < 0 {
		ttl = 0
	}
	r.c.SetWithTTL(key, value, 1, ttl)
	r.c.Wait()
}

// Delete implements Cache.Delete.
func (r *RistrettoCache[V]) Delete(key string) {
	r.c.Del(key)
}

// Close stops ristretto's background goroutines.
func (r *RistrettoCache[V]) Close() {
	r.c.Close()
}

var _ Cache[string, int] = (*RistrettoCache[int])(nil)
