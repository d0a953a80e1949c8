package cache

import (
	"slices"
	"testing"
)

func TestRecencyList_PushMoveRemove(t *testing.T) {
	l := newRecencyList[string, int](4)

	a := l.pushFront("a", 1)
	b := l.pushFront("b", 2)
	c := l.pushFront("c", 3)

	if got, want := l.keys(), []string{"c", "b", "a"}; !slices.Equal(got, want) {
		t.Fatalf("keys = %v, want %v", got, want)
	}
	if l.back() != a {
		t.Fatalf("expected a at the tail")
	}

	l.moveToFront(a)
	if got, want := l.keys(), []string{"a", "c", "b"}; !slices.Equal(got, want) {
		t.Fatalf("keys after move = %v, want %v", got, want)
	}

	// Moving the head is a no-op.
	l.moveToFront(a)
	if got, want := l.keys(), []string{"a", "c", "b"}; !slices.Equal(got, want) {
		t.Fatalf("keys after head move = %v, want %v", got, want)
	}

	// Remove from the middle.
	k, v := l.remove(c)
	if k != "c" || v != 3 {
		t.Fatalf("removed (%s, %d), want (c, 3)", k, v)
	}
	if got, want := l.keys(), []string{"a", "b"}; !slices.Equal(got, want) {
		t.Fatalf("keys after remove = %v, want %v", got, want)
	}
	if l.back() != b || l.len() != 2 {
		t.Fatalf("expected b at the tail and len 2, got tail=%d len=%d", l.back(), l.len())
	}
}

func TestRecencyList_ReusesFreedSlots(t *testing.T) {
	l := newRecencyList[int, int](2)

	first := l.pushFront(1, 1)
	l.pushFront(2, 2)
	l.remove(first)

	reused := l.pushFront(3, 3)
	if reused != first {
		t.Fatalf("expected slot %d to be reused, got %d", first, reused)
	}
	if len(l.slots) != 2 {
		t.Fatalf("expected arena of 2 slots, got %d", len(l.slots))
	}
	if got, want := l.keys(), []int{3, 2}; !slices.Equal(got, want) {
		t.Fatalf("keys = %v, want %v", got, want)
	}
}

func TestRecencyList_RemoveLastAndReset(t *testing.T) {
	l := newRecencyList[string, int](1)

	i := l.pushFront("only", 1)
	l.remove(i)
	if l.len() != 0 || l.head != nilSlot || l.tail != nilSlot {
		t.Fatalf("expected empty list, got len=%d head=%d tail=%d", l.len(), l.head, l.tail)
	}

	l.pushFront("x", 1)
	l.pushFront("y", 2)
	l.reset()
	if l.len() != 0 || len(l.keys()) != 0 || l.back() != nilSlot {
		t.Fatalf("expected empty list after reset")
	}
}
