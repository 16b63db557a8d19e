package cache

import (
	"container/list"
	"sync"

	"github.com/greenmobile/heatglass/internal/domain/panel"
)

// DefaultCapacity covers one search session's working set without unbounded
// growth.
const DefaultCapacity = 512

type lruEntry struct {
	key    SolveKey
	result *panel.SolveResult
}

// Stats is a snapshot of the cache hit/miss counters.
type Stats struct {
	Hits    uint64
	Misses  uint64
	Entries int
}

// SolveCache is a bounded LRU map from quantized solve keys to results. It
// is the only shared mutable state on the search hot path; a single coarse
// mutex is sufficient because a lookup is trivially cheap next to a solve.
type SolveCache struct {
	mu       sync.Mutex
	capacity int
	order    *list.List // front = most recently used
	entries  map[SolveKey]*list.Element
	hits     uint64
	misses   uint64
}

// NewSolveCache builds an LRU cache; non-positive capacity falls back to
// DefaultCapacity.
func NewSolveCache(capacity int) *SolveCache {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &SolveCache{
		capacity: capacity,
		order:    list.New(),
		entries:  make(map[SolveKey]*list.Element, capacity),
	}
}

// Get returns the cached result for the key and marks it most recently
// used. The result pointer is shared; SolveResult is immutable by contract.
func (c *SolveCache) Get(key SolveKey) (*panel.SolveResult, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.entries[key]
	if !ok {
		c.misses++
		return nil, false
	}
	c.hits++
	c.order.MoveToFront(el)
	return el.Value.(*lruEntry).result, true
}

// Put stores the result, evicting the least recently used entry once the
// capacity is exceeded. Storing an existing key refreshes its recency.
func (c *SolveCache) Put(key SolveKey, result *panel.SolveResult) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.entries[key]; ok {
		el.Value.(*lruEntry).result = result
		c.order.MoveToFront(el)
		return
	}
	c.entries[key] = c.order.PushFront(&lruEntry{key: key, result: result})
	if c.order.Len() > c.capacity {
		oldest := c.order.Back()
		c.order.Remove(oldest)
		delete(c.entries, oldest.Value.(*lruEntry).key)
	}
}

// Len returns the current entry count.
func (c *SolveCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}

// Stats returns a snapshot of the counters.
func (c *SolveCache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Stats{Hits: c.hits, Misses: c.misses, Entries: c.order.Len()}
}

// Purge drops every entry but keeps the counters.
func (c *SolveCache) Purge() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.order.Init()
	c.entries = make(map[SolveKey]*list.Element, c.capacity)
}
