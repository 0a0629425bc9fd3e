package dictionary

import (
	"container/list"
	"sync"
	"sync/atomic"
	"time"
)

// cacheEntry is one cached validity verdict
type cacheEntry struct {
	key         string
	valid       bool
	insertedAt  time.Time
	accessCount int64
}

// Cache is a bounded, concurrency-safe LRU cache of validity verdicts
// keyed by lowercased word + language
type Cache struct {
	mu       sync.Mutex
	capacity int
	items    map[string]*list.Element
	lruList  *list.List
	stats    CacheStats
}

// CacheStats holds read-only cache counters
type CacheStats struct {
	Hits      int64 `json:"hits"`
	Misses    int64 `json:"misses"`
	Evictions int64 `json:"evictions"`
	Size      int   `json:"size"`
}

// NewCache creates a cache bounded to capacity entries
func NewCache(capacity int) *Cache {
	if capacity <= 0 {
		capacity = 1000
	}
	return &Cache{
		capacity: capacity,
		items:    make(map[string]*list.Element),
		lruList:  list.New(),
	}
}

// Get retrieves a cached verdict and marks the entry recently used
func (c *Cache) Get(key string) (valid bool, found bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.items[key]; ok {
		c.lruList.MoveToFront(elem)
		entry := elem.Value.(*cacheEntry)
		entry.accessCount++
		atomic.AddInt64(&c.stats.Hits, 1)
		return entry.valid, true
	}

	atomic.AddInt64(&c.stats.Misses, 1)
	return false, false
}

// Set stores a verdict, evicting the least recently used entry when the
// cache is at capacity
func (c *Cache) Set(key string, valid bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.items[key]; ok {
		c.lruList.MoveToFront(elem)
		entry := elem.Value.(*cacheEntry)
		entry.valid = valid
		entry.insertedAt = time.Now()
		return
	}

	elem := c.lruList.PushFront(&cacheEntry{
		key:        key,
		valid:      valid,
		insertedAt: time.Now(),
	})
	c.items[key] = elem

	for c.lruList.Len() > c.capacity {
		c.evictOldest()
	}
}

// evictOldest removes the least recently used entry; callers hold c.mu
func (c *Cache) evictOldest() {
	elem := c.lruList.Back()
	if elem == nil {
		return
	}
	c.lruList.Remove(elem)
	delete(c.items, elem.Value.(*cacheEntry).key)
	atomic.AddInt64(&c.stats.Evictions, 1)
}

// Len returns the current number of cached entries
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// Stats returns a snapshot of the cache counters
func (c *Cache) Stats() CacheStats {
	return CacheStats{
		Hits:      atomic.LoadInt64(&c.stats.Hits),
		Misses:    atomic.LoadInt64(&c.stats.Misses),
		Evictions: atomic.LoadInt64(&c.stats.Evictions),
		Size:      c.Len(),
	}
}
