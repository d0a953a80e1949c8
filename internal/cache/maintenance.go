package cache

import "time"

// sweepLoop periodically drops overflow entries the garbage collector has
// reclaimed, so keys written once and never read again do not pile up in the
// overflow map.
func (c *Tiered[K, T]) sweepLoop() {
	defer c.wg.Done()

	ticker := time.NewTicker(c.sweepEvery)
	defer ticker.Stop()

	for {
		select {
		case <-c.ctx.Done():
			return
		case <-ticker.C:
			c.Sweep()
		}
	}
}
