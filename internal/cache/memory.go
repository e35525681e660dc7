// Package cache provides an in-memory LRU cache with per-entry TTL.
package cache

import (
	"container/list"
	"sync"
	"time"
)

// MemoryCache is an LRU cache whose entries also expire after a TTL.
// It is safe for concurrent use.
type MemoryCache[V any] struct {
	maxSize    int
	defaultTTL time.Duration
	items      map[string]*list.Element
	lru        *list.List
	mu         sync.Mutex
	now        func() time.Time

	hits, misses int64
}

type entry[V any] struct {
	key       string
	value     V
	expiresAt time.Time
}

// Stats is a point-in-time view of cache usage.
type Stats struct {
	Items   int
	MaxSize int
	Hits    int64
	Misses  int64
}

// NewMemoryCache creates a cache holding at most maxSize entries.
func NewMemoryCache[V any](maxSize int, defaultTTL time.Duration) *MemoryCache[V] {
	if maxSize < 1 {
		maxSize = 1
	}
	return &MemoryCache[V]{
		maxSize:    maxSize,
		defaultTTL: defaultTTL,
		items:      make(map[string]*list.Element),
		lru:        list.New(),
		now:        time.Now,
	}
}

// Get returns the value for key if present and not expired.
func (m *MemoryCache[V]) Get(key string) (V, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var zero V
	element, exists := m.items[key]
	if !exists {
		m.misses++
		return zero, false
	}

	e := element.Value.(*entry[V])
	if !m.now().Before(e.expiresAt) {
		m.removeElement(element)
		m.misses++
		return zero, false
	}

	m.lru.MoveToFront(element)
	m.hits++
	return e.value, true
}

// Set stores value under key. A zero ttl uses the cache default.
func (m *MemoryCache[V]) Set(key string, value V, ttl time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if ttl <= 0 {
		ttl = m.defaultTTL
	}
	e := &entry[V]{key: key, value: value, expiresAt: m.now().Add(ttl)}

	if element, exists := m.items[key]; exists {
		element.Value = e
		m.lru.MoveToFront(element)
		return
	}

	m.items[key] = m.lru.PushFront(e)
	for len(m.items) > m.maxSize {
		m.removeElement(m.lru.Back())
	}
}

// Clean removes expired entries and returns how many were dropped.
func (m *MemoryCache[V]) Clean() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	removed := 0
	for element := m.lru.Back(); element != nil; {
		prev := element.Prev()
		if !now.Before(element.Value.(*entry[V]).expiresAt) {
			m.removeElement(element)
			removed++
		}
		element = prev
	}
	return removed
}

// Stats returns cache statistics.
func (m *MemoryCache[V]) Stats() Stats {
	m.mu.Lock()
	defer m.mu.Unlock()
	return Stats{Items: len(m.items), MaxSize: m.maxSize, Hits: m.hits, Misses: m.misses}
}

func (m *MemoryCache[V]) removeElement(element *list.Element) {
	delete(m.items, element.Value.(*entry[V]).key)
	m.lru.Remove(element)
}
