package cache

import (
	"fmt"
	"sync"
	"testing"
	"time"
)

func TestMemoryCache_GetSet(t *testing.T) {
	c := NewMemoryCache[string](10, time.Minute)

	if _, ok := c.Get("missing"); ok {
		t.Error("expected miss for unknown key")
	}

	c.Set("k", "v", 0)
	if v, ok := c.Get("k"); !ok || v != "v" {
		t.Errorf("Get = %q, %v; want v, true", v, ok)
	}

	c.Set("k", "v2", 0)
	if v, _ := c.Get("k"); v != "v2" {
		t.Errorf("overwrite failed, got %q", v)
	}

	if _, ok := c.Get("other"); ok {
		t.Error("expected miss for unknown key")
	}

	stats := c.Stats()
	if stats.Hits != 2 || stats.Misses != 2 {
		t.Errorf("stats = %+v, want 2 hits / 2 misses", stats)
	}
}

func TestMemoryCache_Expiry(t *testing.T) {
	c := NewMemoryCache[int](10, 30*time.Minute)
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	c.Set("default", 1, 0)
	c.Set("short", 2, time.Minute)

	now = now.Add(2 * time.Minute)
	if _, ok := c.Get("short"); ok {
		t.Error("short entry should have expired")
	}
	if v, ok := c.Get("default"); !ok || v != 1 {
		t.Error("default-TTL entry should still be present")
	}

	now = now.Add(30 * time.Minute)
	if removed := c.Clean(); removed != 1 {
		t.Errorf("Clean removed %d, want 1", removed)
	}
	if c.Stats().Items != 0 {
		t.Errorf("items = %d, want 0", c.Stats().Items)
	}
}

func TestMemoryCache_LRUEviction(t *testing.T) {
	c := NewMemoryCache[int](2, time.Minute)
	c.Set("a", 1, 0)
	c.Set("b", 2, 0)
	c.Get("a") // a becomes most recent
	c.Set("c", 3, 0)

	if _, ok := c.Get("b"); ok {
		t.Error("b should have been evicted")
	}
	if _, ok := c.Get("a"); !ok {
		t.Error("a should survive")
	}
	if _, ok := c.Get("c"); !ok {
		t.Error("c should be present")
	}
}

func TestMemoryCache_NilPointerValues(t *testing.T) {
	type stat struct{ v int }
	c := NewMemoryCache[*stat](4, time.Minute)
	c.Set("none", nil, 0)
	v, ok := c.Get("none")
	if !ok || v != nil {
		t.Errorf("cached nil should be a hit with nil value, got %v, %v", v, ok)
	}
}

func TestMemoryCache_Concurrent(t *testing.T) {
	c := NewMemoryCache[int](50, time.Minute)
	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				key := fmt.Sprintf("k%d", i%70)
				c.Set(key, i, 0)
				c.Get(key)
			}
		}(g)
	}
	wg.Wait()

	if n := c.Stats().Items; n > 50 {
		t.Errorf("items = %d, exceeds max 50", n)
	}
}
