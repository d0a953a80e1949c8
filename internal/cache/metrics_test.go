package cache

import (
	"runtime"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetrics_RecordsCacheActivity(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg, "test", "layout")

	c, err := New(Config[string, int]{Capacity: 2, TouchOnRead: true, Metrics: m})
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	c.Put("a", 1)
	c.Put("b", 2)
	c.Get("a")
	c.Get("missing")
	c.Put("c", 3)

	checks := map[string]struct {
		c    prometheus.Collector
		want float64
	}{
		"hits":       {m.Hits, 1},
		"misses":     {m.Misses, 1},
		"promotions": {m.Promotions, 1},
		"evictions":  {m.Evictions, 1},
		"size":       {m.Size, 2},
	}
	for name, check := range checks {
		if got := testutil.ToFloat64(check.c); got != check.want {
			t.Errorf("%s = %v, want %v", name, got, check.want)
		}
	}

	if n, err := testutil.GatherAndCount(reg, "test_cache_hits_total"); err != nil || n != 1 {
		t.Fatalf("expected one registered hits series, got %d (%v)", n, err)
	}
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	m.record(observation{hit: true})
	m.setSizes(3, -1)

	c, err := New(Config[int, int]{Capacity: 1})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	c.Put(1, 1)
	c.Get(1)
}

func TestMetrics_SharedRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	first := NewMetrics(reg, "test", "first")
	second := NewMetrics(reg, "test", "second")

	first.Hits.Inc()
	second.Hits.Add(2)

	if n, err := testutil.GatherAndCount(reg, "test_cache_hits_total"); err != nil || n != 2 {
		t.Fatalf("expected two labeled hits series, got %d (%v)", n, err)
	}
}

func TestMetrics_TieredOverflow(t *testing.T) {
	m := NewMetrics(nil, "test", "tiered")
	c, err := NewTiered[string, layout](TieredConfig{Capacity: 1, Metrics: m})
	if err != nil {
		t.Fatalf("new tiered: %v", err)
	}
	defer c.Close()

	a, b := &layout{name: "a"}, &layout{name: "b"}
	c.Put("a", a)
	c.Put("b", b) // demotes a
	if _, ok := c.Get("a"); !ok {
		t.Fatalf("expected overflow hit")
	}

	if got := testutil.ToFloat64(m.OverflowHits); got != 1 {
		t.Fatalf("overflow hits = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.OverflowSize); got != 1 {
		t.Fatalf("overflow size = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.Size); got != 1 {
		t.Fatalf("size = %v, want 1", got)
	}
	runtime.KeepAlive(a)
	runtime.KeepAlive(b)
}

func TestMetrics_SizeGaugeMatchesLenAfterConcurrentWrites(t *testing.T) {
	for _, shared := range []bool{false, true} {
		m := NewMetrics(nil, "test", "concurrent")
		c, err := New(Config[int, int]{Capacity: 256, SharedReads: shared, Metrics: m})
		if err != nil {
			t.Fatalf("new: %v", err)
		}

		var wg sync.WaitGroup
		for g := 0; g < 8; g++ {
			wg.Add(1)
			go func(g int) {
				defer wg.Done()
				for i := 0; i < 50; i++ {
					k := g*50 + i
					c.Put(k, k)
					if i%7 == 0 {
						c.Remove(k - 1)
					}
				}
			}(g)
		}
		wg.Wait()

		if got, want := testutil.ToFloat64(m.Size), float64(c.Len()); got != want {
			t.Fatalf("shared=%v: size gauge = %v, Len = %v", shared, got, want)
		}
	}
}

func TestMetrics_TieredGaugesMatchAfterConcurrentWrites(t *testing.T) {
	m := NewMetrics(nil, "test", "tiered_concurrent")
	c, err := NewTiered[int, layout](TieredConfig{Capacity: 16, Metrics: m})
	if err != nil {
		t.Fatalf("new tiered: %v", err)
	}
	defer c.Close()

	held := make([]*layout, 8*50)
	for i := range held {
		held[i] = &layout{name: "v"}
	}

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				k := g*50 + i
				c.Put(k, held[k])
				c.Get(k / 2)
			}
		}(g)
	}
	wg.Wait()

	if got, want := testutil.ToFloat64(m.Size), float64(c.Len()); got != want {
		t.Fatalf("size gauge = %v, Len = %v", got, want)
	}
	if got, want := testutil.ToFloat64(m.OverflowSize), float64(c.OverflowLen()); got != want {
		t.Fatalf("overflow gauge = %v, OverflowLen = %v", got, want)
	}
	runtime.KeepAlive(held)
}
