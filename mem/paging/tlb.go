package paging

import (
	"sync"

	"github.com/joshuapare/memkit/mem"
)

// Flusher receives translation-cache invalidations from the mapper. A newly
// installed or removed mapping must be flushed before it is relied on.
type Flusher interface {
	// Flush invalidates the cached translation for one page.
	Flush(page mem.Page)

	// FlushAll invalidates every cached translation.
	FlushAll()
}

type noopFlusher struct{}

func (noopFlusher) Flush(mem.Page) {}
func (noopFlusher) FlushAll()      {}

// TLB models the hardware translation cache: a page-to-frame lookaside that
// must be explicitly invalidated when the underlying tables change. It
// implements Flusher so it can be handed straight to the mapper.
type TLB struct {
	mu      sync.Mutex
	entries map[mem.Page]mem.Frame

	hits    uint64
	misses  uint64
	flushes uint64
}

// TLBStats is a point-in-time snapshot of cache counters.
type TLBStats struct {
	Entries int
	Hits    uint64
	Misses  uint64
	Flushes uint64
}

// NewTLB creates an empty translation cache.
func NewTLB() *TLB {
	return &TLB{entries: make(map[mem.Page]mem.Frame)}
}

// Lookup returns the cached frame for page, if present.
func (c *TLB) Lookup(page mem.Page) (mem.Frame, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	f, ok := c.entries[page]
	if ok {
		c.hits++
	} else {
		c.misses++
	}
	return f, ok
}

// Insert caches a translation after a successful table walk.
func (c *TLB) Insert(page mem.Page, f mem.Frame) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[page] = f
}

// Flush invalidates the cached translation for one page.
func (c *TLB) Flush(page mem.Page) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, page)
	c.flushes++
}

// FlushAll invalidates the whole cache.
func (c *TLB) FlushAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	clear(c.entries)
	c.flushes++
}

// Stats returns a snapshot of the cache counters.
func (c *TLB) Stats() TLBStats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return TLBStats{
		Entries: len(c.entries),
		Hits:    c.hits,
		Misses:  c.misses,
		Flushes: c.flushes,
	}
}

var _ Flusher = (*TLB)(nil)
