package cache

// lru is the unsynchronized core shared by Cache and Tiered: a map index for
// O(1) lookup and a recency list for eviction order.
//
// Invariant after every method: len(index) == list.len() <= capacity, and
// every indexed key points at the slot holding it.
type lru[K comparable, V any] struct {
	capacity    int
	touchOnRead bool

	index map[K]int32
	list  *recencyList[K, V]
}

// eviction describes the entry reclaimed by a put, if any.
type eviction[K comparable, V any] struct {
	key   K
	value V
	ok    bool
}

func newLRU[K comparable, V any](capacity int, touchOnRead bool) *lru[K, V] {
	return &lru[K, V]{
		capacity:    capacity,
		touchOnRead: touchOnRead,
		index:       make(map[K]int32, min(capacity, preallocLimit)),
		list:        newRecencyList[K, V](capacity),
	}
}

// promoteDue reports whether an access should move the entry to the head.
// With touchOnRead disabled, reordering is deferred until the cache is full:
// below capacity nothing can be evicted, so the order does not matter yet.
func (c *lru[K, V]) promoteDue() bool {
	return c.touchOnRead || c.list.len() >= c.capacity
}

// lookup returns the value for key without touching recency order.
func (c *lru[K, V]) lookup(key K) (V, bool) {
	i, ok := c.index[key]
	if !ok {
		var zero V
		return zero, false
	}
	return c.list.at(i).value, true
}

// get returns the value for key, promoting it when the policy says so.
// promoted reports whether the recency order was changed.
func (c *lru[K, V]) get(key K) (value V, ok, promoted bool) {
	i, ok := c.index[key]
	if !ok {
		return value, false, false
	}
	if c.promoteDue() && c.list.head != i {
		c.list.moveToFront(i)
		promoted = true
	}
	return c.list.at(i).value, true, promoted
}

// put inserts or updates key. When key is new and the cache is full the tail
// is reclaimed first, so the size never exceeds capacity.
func (c *lru[K, V]) put(key K, value V) (ev eviction[K, V], promoted bool) {
	if i, ok := c.index[key]; ok {
		c.list.at(i).value = value
		if c.promoteDue() && c.list.head != i {
			c.list.moveToFront(i)
			promoted = true
		}
		return ev, promoted
	}

	if c.list.len() >= c.capacity {
		ev = c.evictOldest()
	}

	c.index[key] = c.list.pushFront(key, value)
	return ev, false
}

func (c *lru[K, V]) evictOldest() eviction[K, V] {
	i := c.list.back()
	if i == nilSlot {
		return eviction[K, V]{}
	}
	k, v := c.list.remove(i)
	delete(c.index, k)
	return eviction[K, V]{key: k, value: v, ok: true}
}

// remove deletes key if present and returns its value.
func (c *lru[K, V]) remove(key K) (V, bool) {
	i, ok := c.index[key]
	if !ok {
		var zero V
		return zero, false
	}
	delete(c.index, key)
	_, v := c.list.remove(i)
	return v, true
}

func (c *lru[K, V]) len() int { return c.list.len() }

func (c *lru[K, V]) keys() []K { return c.list.keys() }

func (c *lru[K, V]) purge() {
	clear(c.index)
	c.list.reset()
}
