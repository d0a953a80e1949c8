package cache

import "sync/atomic"

// Stats is a point-in-time snapshot of cache activity.
//
// Hit ratio can be derived as Hits / (Hits + Misses).
type Stats struct {
	Hits       uint64
	Misses     uint64
	Evictions  uint64
	Promotions uint64

	// Tiered only: overflow hits moved back into the hot tier, and overflow
	// entries found reclaimed by the garbage collector.
	OverflowHits      uint64
	OverflowReclaimed uint64
}

// counters are bumped with atomics because shared-read Gets record hits
// while holding only the read lock.
type counters struct {
	hits              atomic.Uint64
	misses            atomic.Uint64
	evictions         atomic.Uint64
	promotions        atomic.Uint64
	overflowHits      atomic.Uint64
	overflowReclaimed atomic.Uint64
}

func (c *counters) snapshot() Stats {
	return Stats{
		Hits:              c.hits.Load(),
		Misses:            c.misses.Load(),
		Evictions:         c.evictions.Load(),
		Promotions:        c.promotions.Load(),
		OverflowHits:      c.overflowHits.Load(),
		OverflowReclaimed: c.overflowReclaimed.Load(),
	}
}

// observation is what one operation did. It is collected under the lock and
// recorded after it is released.
type observation struct {
	hit, miss   bool
	promoted    bool
	evicted     bool
	overflowHit bool
	reclaimed   int
}

func (c *counters) record(o observation) {
	if o.hit {
		c.hits.Add(1)
	}
	if o.miss {
		c.misses.Add(1)
	}
	if o.promoted {
		c.promotions.Add(1)
	}
	if o.evicted {
		c.evictions.Add(1)
	}
	if o.overflowHit {
		c.overflowHits.Add(1)
	}
	if o.reclaimed > 0 {
		c.overflowReclaimed.Add(uint64(o.reclaimed))
	}
}
