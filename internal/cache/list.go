package cache

// nilSlot marks the absence of a neighbour (or an empty list).
const nilSlot int32 = -1

// preallocLimit caps the up-front allocation for large capacities; the arena
// grows on demand past it.
const preallocLimit = 1024

// slot is one element of the recency list. Links are slot indices into the
// owning arena, not pointers, so a slot handle stays valid for as long as the
// entry lives and a freed slot can be reused without dangling references.
type slot[K comparable, V any] struct {
	key   K
	value V
	prev  int32
	next  int32
}

// recencyList is a doubly-linked list stored in a slice.
// Head = most recently used, tail = least recently used.
//
// It is not safe for concurrent use; the owning cache serializes access.
type recencyList[K comparable, V any] struct {
	slots []slot[K, V]
	free  []int32
	head  int32
	tail  int32
	n     int
}

func newRecencyList[K comparable, V any](capacity int) *recencyList[K, V] {
	return &recencyList[K, V]{
		slots: make([]slot[K, V], 0, min(capacity, preallocLimit)),
		head:  nilSlot,
		tail:  nilSlot,
	}
}

func (l *recencyList[K, V]) len() int { return l.n }

// back returns the LRU slot, or nilSlot when empty.
func (l *recencyList[K, V]) back() int32 { return l.tail }

// pushFront stores key/value in a free slot (or a new one) and links it at
// the head. It returns the slot index.
func (l *recencyList[K, V]) pushFront(key K, value V) int32 {
	var i int32
	if n := len(l.free); n > 0 {
		i = l.free[n-1]
		l.free = l.free[:n-1]
		l.slots[i] = slot[K, V]{key: key, value: value}
	} else {
		i = int32(len(l.slots))
		l.slots = append(l.slots, slot[K, V]{key: key, value: value})
	}
	l.linkFront(i)
	l.n++
	return i
}

// moveToFront promotes slot i to the head. No-op if it is already there.
func (l *recencyList[K, V]) moveToFront(i int32) {
	if l.head == i {
		return
	}
	l.unlink(i)
	l.linkFront(i)
}

// remove unlinks slot i, clears it so the key and value can be collected,
// and puts it on the free list. It returns the removed key and value.
func (l *recencyList[K, V]) remove(i int32) (K, V) {
	l.unlink(i)
	s := l.slots[i]
	l.slots[i] = slot[K, V]{prev: nilSlot, next: nilSlot}
	l.free = append(l.free, i)
	l.n--
	return s.key, s.value
}

// reset drops every slot while keeping the allocated arena.
func (l *recencyList[K, V]) reset() {
	clear(l.slots)
	l.slots = l.slots[:0]
	l.free = l.free[:0]
	l.head, l.tail = nilSlot, nilSlot
	l.n = 0
}

func (l *recencyList[K, V]) at(i int32) *slot[K, V] { return &l.slots[i] }

// keys returns keys in MRU -> LRU order.
func (l *recencyList[K, V]) keys() []K {
	out := make([]K, 0, l.n)
	for i := l.head; i != nilSlot; i = l.slots[i].next {
		out = append(out, l.slots[i].key)
	}
	return out
}

func (l *recencyList[K, V]) linkFront(i int32) {
	s := &l.slots[i]
	s.prev = nilSlot
	s.next = l.head
	if l.head != nilSlot {
		l.slots[l.head].prev = i
	}
	l.head = i
	if l.tail == nilSlot {
		l.tail = i
	}
}

func (l *recencyList[K, V]) unlink(i int32) {
	s := &l.slots[i]
	if s.prev != nilSlot {
		l.slots[s.prev].next = s.next
	} else {
		l.head = s.next
	}
	if s.next != nilSlot {
		l.slots[s.next].prev = s.prev
	} else {
		l.tail = s.prev
	}
	s.prev, s.next = nilSlot, nilSlot
}
