// Package cache implements a fixed-capacity, in-memory LRU cache.
//
// Goals for this package:
//   - Make the core data structures explicit (map index + doubly-linked recency list)
//   - Provide O(1) Get/Put via the map index and slot-indexed list links
//   - Never hold more than Capacity entries, as seen by any goroutine
//   - Be concurrency-safe with one lock per instance, optionally allowing
//     shared reads when a Get does not need to reorder
//   - Offer a two-tier variant whose overflow tier is reclaimed by the
//     garbage collector (best-effort retention)
package cache
