package cache

import "sync"

// Config controls cache capacity and locking behavior.
//
//   - Capacity must be > 0; New rejects anything else.
//   - TouchOnRead promotes on every Get hit. When false, hits (and updates of
//     existing keys) only reorder once the cache is full.
//   - SharedReads lets Gets that do not promote run under the read lock.
//     The default is one exclusive lock for every operation.
//   - OnEvict, if set, is called for each entry dropped to stay within
//     capacity, after the cache lock has been released.
type Config[K comparable, V any] struct {
	Capacity    int
	TouchOnRead bool
	SharedReads bool
	OnEvict     func(key K, value V)
	Metrics     *Metrics
}

// Cache is a fixed-capacity, concurrency-safe LRU cache.
//
// A map gives O(1) key lookup and a doubly-linked list maintains recency
// ordering; the tail of the list is always the next eviction victim.
// Len never exceeds the configured capacity, as observed by any goroutine.
type Cache[K comparable, V any] struct {
	mu  sync.RWMutex
	lru *lru[K, V]

	sharedReads bool
	onEvict     func(K, V)
	metrics     *Metrics
	stats       counters
}

// New validates cfg and constructs an empty cache.
func New[K comparable, V any](cfg Config[K, V]) (*Cache[K, V], error) {
	if err := validateCapacity(cfg.Capacity); err != nil {
		return nil, err
	}

	return &Cache[K, V]{
		lru:         newLRU[K, V](cfg.Capacity, cfg.TouchOnRead),
		sharedReads: cfg.SharedReads,
		onEvict:     cfg.OnEvict,
		metrics:     cfg.Metrics,
	}, nil
}

// Get reads a key. A miss returns the zero value and false.
//
// With SharedReads, the lookup first runs under the read lock. If the entry
// needs promoting, the read lock is dropped and the lookup is redone under
// the write lock, because the key could have been evicted in between.
func (c *Cache[K, V]) Get(key K) (V, bool) {
	var o observation

	if c.sharedReads {
		c.mu.RLock()
		v, ok := c.lru.lookup(key)
		if !ok || !c.lru.promoteDue() {
			c.mu.RUnlock()
			o.hit, o.miss = ok, !ok
			c.observe(o)
			return v, ok
		}
		c.mu.RUnlock()
	}

	c.mu.Lock()
	v, ok, promoted := c.lru.get(key)
	c.mu.Unlock()

	o.hit, o.miss, o.promoted = ok, !ok, promoted
	c.observe(o)
	return v, ok
}

// Put writes or overwrites a key. A new key inserted into a full cache
// evicts the least recently used entry first.
func (c *Cache[K, V]) Put(key K, value V) {
	c.mu.Lock()
	ev, promoted := c.lru.put(key, value)
	c.metrics.setSizes(c.lru.len(), -1)
	c.mu.Unlock()

	c.observe(observation{promoted: promoted, evicted: ev.ok})

	if ev.ok && c.onEvict != nil {
		c.onEvict(ev.key, ev.value)
	}
}

// Peek reads a key without changing its recency.
func (c *Cache[K, V]) Peek(key K) (V, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lru.lookup(key)
}

// Contains reports whether key is cached, without changing its recency.
func (c *Cache[K, V]) Contains(key K) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.lru.index[key]
	return ok
}

// Remove deletes key and reports whether it was present.
// OnEvict is not called for removed entries.
func (c *Cache[K, V]) Remove(key K) bool {
	c.mu.Lock()
	_, ok := c.lru.remove(key)
	c.metrics.setSizes(c.lru.len(), -1)
	c.mu.Unlock()
	return ok
}

// Purge drops every entry. OnEvict is not called.
func (c *Cache[K, V]) Purge() {
	c.mu.Lock()
	c.lru.purge()
	c.metrics.setSizes(0, -1)
	c.mu.Unlock()
}

// Len returns the number of live entries. It is always <= Cap.
func (c *Cache[K, V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lru.len()
}

// Cap returns the configured capacity.
func (c *Cache[K, V]) Cap() int { return c.lru.capacity }

// Keys returns keys in MRU -> LRU order.
func (c *Cache[K, V]) Keys() []K {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lru.keys()
}

// Stats returns a snapshot of the activity counters.
func (c *Cache[K, V]) Stats() Stats {
	return c.stats.snapshot()
}

func (c *Cache[K, V]) observe(o observation) {
	c.stats.record(o)
	c.metrics.record(o)
}
