package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"math/rand/v2"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"sync"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"gocache/internal/cache"
)

// config holds command-line settings.
type config struct {
	Capacity    int
	TouchOnRead bool
	SharedReads bool
	Workers     int
	Keys        int
	Duration    time.Duration
	MetricsAddr string
}

func parseFlags() (config, error) {
	cfg := config{}

	flag.IntVar(&cfg.Capacity, "capacity", 1024, "Maximum number of cached entries")
	flag.BoolVar(&cfg.TouchOnRead, "touch-on-read", true, "Promote on every hit (false: only once the cache is full)")
	flag.BoolVar(&cfg.SharedReads, "shared-reads", false, "Serve non-promoting reads under a shared lock")
	flag.IntVar(&cfg.Workers, "workers", 8, "Number of concurrent load goroutines")
	flag.IntVar(&cfg.Keys, "keys", 4096, "Size of the key space used by the load")
	flag.DurationVar(&cfg.Duration, "duration", 5*time.Second, "How long to run the load (0 disables it)")
	flag.StringVar(&cfg.MetricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address (e.g. :9090)")

	flag.Parse()

	return cfg, cfg.validate()
}

// validate rejects settings the load driver cannot run with. Capacity is
// left to cache.New.
func (c config) validate() error {
	if c.Workers <= 0 {
		return fmt.Errorf("workers must be positive, got %d", c.Workers)
	}
	if c.Keys <= 0 {
		return fmt.Errorf("keys must be positive, got %d", c.Keys)
	}
	if c.Duration < 0 {
		return fmt.Errorf("duration must not be negative, got %s", c.Duration)
	}
	return nil
}

func main() {
	cfg, err := parseFlags()
	if err != nil {
		log.Fatalf("flags: %v", err)
	}

	// Signal-aware context is the root of ownership for long-lived background work.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reg := prometheus.NewRegistry()

	log.Println("GoCache demo starting")
	log.Printf("config: capacity=%d touchOnRead=%v sharedReads=%v workers=%d keys=%d duration=%s",
		cfg.Capacity, cfg.TouchOnRead, cfg.SharedReads, cfg.Workers, cfg.Keys, cfg.Duration)

	if cfg.MetricsAddr != "" {
		srv := newMetricsServer(cfg.MetricsAddr, reg)
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Printf("metrics server: %v", err)
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				log.Printf("metrics server shutdown: %v", err)
			}
		}()
		log.Printf("metrics on http://%s/metrics", cfg.MetricsAddr)
	}

	if err := demoEviction(); err != nil {
		log.Fatalf("eviction demo: %v", err)
	}
	if err := demoTiered(reg); err != nil {
		log.Fatalf("tiered demo: %v", err)
	}
	if cfg.Duration > 0 {
		if err := runLoad(ctx, cfg, reg); err != nil {
			log.Fatalf("load: %v", err)
		}
	}

	fmt.Println("Done.")
}

// demoEviction walks through the capacity=2 scenario: touching A makes B the
// least recently used, so inserting C evicts B.
func demoEviction() error {
	c, err := cache.New(cache.Config[string, int]{
		Capacity:    2,
		TouchOnRead: true,
		OnEvict: func(k string, v int) {
			log.Printf("evicted %s=%d", k, v)
		},
	})
	if err != nil {
		return err
	}

	c.Put("A", 1)
	c.Put("B", 2)
	if v, ok := c.Get("A"); ok {
		log.Printf("GET A = %d (touches A -> MRU)", v)
	}
	c.Put("C", 3)

	if _, ok := c.Get("B"); !ok {
		log.Println("GET B: missing (evicted as LRU)")
	}
	log.Printf("keys after eviction (MRU->LRU): %v size=%d", c.Keys(), c.Len())
	return nil
}

type layout struct {
	name  string
	lines []int
}

// demoTiered shows a value surviving in the overflow tier while the caller
// still holds it.
func demoTiered(reg prometheus.Registerer) error {
	c, err := cache.NewTiered[string, layout](cache.TieredConfig{
		Capacity:      2,
		TouchOnRead:   true,
		SweepInterval: time.Second,
		Metrics:       cache.NewMetrics(reg, "gocache", "tiered"),
	})
	if err != nil {
		return err
	}
	defer func() {
		if err := c.Close(); err != nil {
			log.Printf("tiered close: %v", err)
		}
	}()

	held := &layout{name: "held", lines: []int{1, 2, 3}}
	c.Put("held", held)
	c.Put("x", &layout{name: "x"})
	c.Put("y", &layout{name: "y"}) // demotes "held" into overflow

	log.Printf("tiered: hot=%v overflow=%d", c.Keys(), c.OverflowLen())
	if v, ok := c.Get("held"); ok {
		log.Printf("tiered: GET held = %s (overflow hit, back in hot tier)", v.name)
	}
	runtime.KeepAlive(held)
	log.Printf("tiered: hot=%v overflow=%d stats=%+v", c.Keys(), c.OverflowLen(), c.Stats())
	return nil
}

// runLoad hammers a cache from cfg.Workers goroutines until cfg.Duration
// elapses or ctx is cancelled.
func runLoad(ctx context.Context, cfg config, reg prometheus.Registerer) error {
	c, err := cache.New(cache.Config[int, int]{
		Capacity:    cfg.Capacity,
		TouchOnRead: cfg.TouchOnRead,
		SharedReads: cfg.SharedReads,
		Metrics:     cache.NewMetrics(reg, "gocache", "load"),
	})
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, cfg.Duration)
	defer cancel()

	start := time.Now()
	var wg sync.WaitGroup
	for i := 0; i < cfg.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for ctx.Err() == nil {
				k := rand.IntN(cfg.Keys)
				if _, ok := c.Get(k); !ok {
					c.Put(k, k)
				}
			}
		}()
	}
	wg.Wait()

	s := c.Stats()
	total := s.Hits + s.Misses
	ratio := 0.0
	if total > 0 {
		ratio = float64(s.Hits) / float64(total)
	}
	log.Printf("load finished after %s: gets=%d hitRatio=%.3f evictions=%d promotions=%d size=%d/%d",
		time.Since(start).Round(time.Millisecond), total, ratio, s.Evictions, s.Promotions, c.Len(), c.Cap())
	return nil
}

func newMetricsServer(addr string, reg *prometheus.Registry) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	return &http.Server{
		Addr:    addr,
		Handler: mux,
	}
}
