package cache

import (
	"sync"
	"testing"
	"time"
)

func TestTTLCache_SetGet_NoTTL(t *testing.T) {
	c := NewTTLCache[string, int]()
	c.Set("a", 1, 0)
	if v, ok := c.Get("a"); !ok || v != 1 {
		t.Fatalf("expected hit with value 1, got ok=%v v=%v", ok, v)
	}
	if c.Len() != 1 {
		t.Fatalf("expected Len=1, got %d", c.Len())
	}
}

func TestTTLCache_TTL_Expiry(t *testing.T) {
	c := NewTTLCache[string, string]()

	// Freeze time via now indirection
	base := time.Now()
	now = func() time.Time { return base }
	t.Cleanup(func() { now = time.Now })

	c.Set("k", "v", time.Second)
	if v, ok := c.Get("k"); !ok || v != "v" {
		t.Fatalf("expected hit before expiry")
	}

	base = base.Add(2 * time.Second)
	if _, ok := c.Get("k"); ok {
		t.Fatalf("expected miss after expiry")
	}
	c.PurgeExpired()
	if c.Len() != 0 {
		t.Fatalf("expected Len=0 after purge, got %d", c.Len())
	}
}

func TestTTLCache_UpdateKeepsExpiryOfLiveEntry(t *testing.T) {
	c := NewTTLCache[string, int]()
	base := time.Now()
	now = func() time.Time { return base }
	t.Cleanup(func() { now = time.Now })

	inc := func(v int, _ bool) int { return v + 1 }

	if got := c.Update("k", time.Minute, inc); got != 1 {
		t.Fatalf("expected 1, got %d", got)
	}
	base = base.Add(40 * time.Second)
	if got := c.Update("k", time.Minute, inc); got != 2 {
		t.Fatalf("expected 2, got %d", got)
	}
	// the window started at the first update, so it has elapsed now
	base = base.Add(30 * time.Second)
	if _, ok := c.Get("k"); ok {
		t.Fatalf("expected entry to expire one minute after creation")
	}
	if got := c.Update("k", time.Minute, inc); got != 1 {
		t.Fatalf("expected a fresh counter, got %d", got)
	}
}

func TestTTLCache_ConcurrentUpdate(t *testing.T) {
	c := NewTTLCache[string, int]()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for r := 0; r < 100; r++ {
				c.Update("hits", 0, func(v int, _ bool) int { return v + 1 })
			}
		}()
	}
	wg.Wait()
	if v, _ := c.Get("hits"); v != 5000 {
		t.Fatalf("expected 5000, got %d", v)
	}
}

func TestTTLCache_Delete(t *testing.T) {
	c := NewTTLCache[int, int]()
	c.Set(1, 10, 0)
	c.Set(2, 20, 0)
	c.Delete(1)
	if _, ok := c.Get(1); ok {
		t.Fatalf("expected key 1 to be deleted")
	}
	if c.Len() != 1 {
		t.Fatalf("expected Len=1, got %d", c.Len())
	}
}
