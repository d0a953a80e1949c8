package cache

import (
	"context"
	"sync"
	"time"
	"weak"
)

// TieredConfig controls a Tiered cache.
//
// SweepInterval <= 0 disables the background sweeper; reclaimed overflow
// entries are then dropped lazily on lookup and whenever the overflow map
// doubles in size.
type TieredConfig struct {
	Capacity      int
	TouchOnRead   bool
	SweepInterval time.Duration
	Metrics       *Metrics
}

// Tiered is a two-tier cache: a strict LRU hot tier bounded by Capacity, and
// an overflow tier holding whatever the hot tier evicts through weak pointers.
//
// Overflow retention is best-effort. An overflow value stays reachable only
// while something outside the cache still references it; once the garbage
// collector reclaims it the entry behaves as a miss. Use Cache when strict
// recency guarantees are needed.
//
// Ownership model:
// Tiered owns its sweeper goroutine (if enabled). Call Close to stop it.
type Tiered[K comparable, T any] struct {
	mu       sync.Mutex
	hot      *lru[K, *T]
	overflow map[K]weak.Pointer[T]
	sweepAt  int

	metrics *Metrics
	stats   counters

	// Goroutine ownership.
	ctx        context.Context
	cancel     context.CancelFunc
	wg         sync.WaitGroup
	sweepEvery time.Duration
	closed     bool
}

// NewTiered validates cfg, constructs the cache, and starts the sweeper if
// SweepInterval > 0.
func NewTiered[K comparable, T any](cfg TieredConfig) (*Tiered[K, T], error) {
	if err := validateCapacity(cfg.Capacity); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	c := &Tiered[K, T]{
		hot:        newLRU[K, *T](cfg.Capacity, cfg.TouchOnRead),
		overflow:   make(map[K]weak.Pointer[T]),
		sweepAt:    cfg.Capacity,
		metrics:    cfg.Metrics,
		ctx:        ctx,
		cancel:     cancel,
		sweepEvery: cfg.SweepInterval,
	}

	if c.sweepEvery > 0 {
		c.wg.Add(1)
		go c.sweepLoop()
	}

	return c, nil
}

// Close stops the sweeper. The cache stays usable afterwards.
//
// Close is safe to call multiple times.
func (c *Tiered[K, T]) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	cancel := c.cancel
	c.mu.Unlock()

	cancel()
	c.wg.Wait()
	return nil
}

// Get checks the hot tier, then the overflow tier. An overflow value that is
// still alive is moved back into the hot tier, which may demote the hot
// tail into overflow.
func (c *Tiered[K, T]) Get(key K) (*T, bool) {
	var o observation

	c.mu.Lock()
	v, ok, promoted := c.hot.get(key)
	if ok {
		c.mu.Unlock()
		o.hit, o.promoted = true, promoted
		c.observe(o)
		return v, true
	}

	wp, inOverflow := c.overflow[key]
	if inOverflow {
		delete(c.overflow, key)
		if v = wp.Value(); v != nil {
			ev, _ := c.hot.put(key, v)
			o.evicted = c.demoteLocked(ev)
			o.hit, o.overflowHit = true, true
			o.reclaimed = c.maybeSweepLocked()
		} else {
			o.reclaimed = 1
		}
	}
	o.miss = !o.hit
	c.metrics.setSizes(c.hot.len(), len(c.overflow))
	c.mu.Unlock()

	c.observe(o)
	return v, o.hit
}

// Put writes or overwrites key in the hot tier and discards any overflow copy.
func (c *Tiered[K, T]) Put(key K, value *T) {
	c.mu.Lock()
	delete(c.overflow, key)
	ev, promoted := c.hot.put(key, value)
	evicted := c.demoteLocked(ev)
	reclaimed := c.maybeSweepLocked()
	c.metrics.setSizes(c.hot.len(), len(c.overflow))
	c.mu.Unlock()

	c.observe(observation{promoted: promoted, evicted: evicted, reclaimed: reclaimed})
}

// Remove deletes key from both tiers and reports whether it was present.
func (c *Tiered[K, T]) Remove(key K) bool {
	c.mu.Lock()
	_, ok := c.hot.remove(key)
	if _, inOverflow := c.overflow[key]; inOverflow {
		delete(c.overflow, key)
		ok = true
	}
	c.metrics.setSizes(c.hot.len(), len(c.overflow))
	c.mu.Unlock()
	return ok
}

// Purge drops both tiers.
func (c *Tiered[K, T]) Purge() {
	c.mu.Lock()
	c.hot.purge()
	clear(c.overflow)
	c.sweepAt = c.hot.capacity
	c.metrics.setSizes(0, 0)
	c.mu.Unlock()
}

// Len returns the hot tier size. It is always <= Cap.
func (c *Tiered[K, T]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hot.len()
}

// OverflowLen returns the number of overflow entries not yet swept. Some of
// them may already have been reclaimed.
func (c *Tiered[K, T]) OverflowLen() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.overflow)
}

// Cap returns the hot tier capacity.
func (c *Tiered[K, T]) Cap() int { return c.hot.capacity }

// Keys returns hot tier keys in MRU -> LRU order.
func (c *Tiered[K, T]) Keys() []K {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hot.keys()
}

// Sweep drops overflow entries whose values have been reclaimed and returns
// how many were dropped.
func (c *Tiered[K, T]) Sweep() int {
	c.mu.Lock()
	n := c.sweepLocked()
	c.metrics.setSizes(-1, len(c.overflow))
	c.mu.Unlock()

	c.observe(observation{reclaimed: n})
	return n
}

// Stats returns a snapshot of the activity counters.
func (c *Tiered[K, T]) Stats() Stats {
	return c.stats.snapshot()
}

// demoteLocked moves a hot tier victim into the overflow tier.
func (c *Tiered[K, T]) demoteLocked(ev eviction[K, *T]) bool {
	if !ev.ok {
		return false
	}
	if ev.value != nil {
		c.overflow[ev.key] = weak.Make(ev.value)
	}
	return true
}

// maybeSweepLocked sweeps once the overflow map reaches sweepAt, then moves
// the threshold to twice the surviving size so sweeps stay amortized O(1).
func (c *Tiered[K, T]) maybeSweepLocked() int {
	if len(c.overflow) < c.sweepAt {
		return 0
	}
	n := c.sweepLocked()
	c.sweepAt = max(c.hot.capacity, 2*len(c.overflow))
	return n
}

// sweepLocked is O(n) over the overflow tier.
func (c *Tiered[K, T]) sweepLocked() int {
	removed := 0
	for key, wp := range c.overflow {
		if wp.Value() == nil {
			delete(c.overflow, key)
			removed++
		}
	}
	return removed
}

func (c *Tiered[K, T]) observe(o observation) {
	c.stats.record(o)
	c.metrics.record(o)
}
