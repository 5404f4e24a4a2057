package frame

import (
	"github.com/joshuapare/memkit/internal/arch"
	"github.com/joshuapare/memkit/mem"
)

// Allocator hands out unused physical frames. Implementations must return a
// distinct frame on every successful call for the lifetime of the allocator.
type Allocator interface {
	// AllocFrame returns one unused frame, or ErrExhausted when no usable
	// frames remain.
	AllocFrame() (mem.Frame, error)
}

// span is one usable region reduced to its whole frames.
type span struct {
	first mem.Frame
	count uint64
}

// BootInfoAllocator serves frames from the usable regions of the boot
// memory map. The cursor is monotonic: it never decreases and never revisits
// a frame. BootInfoAllocator is not safe for concurrent use.
type BootInfoAllocator struct {
	spans []span
	total uint64
	next  uint64
}

// NewBootInfo creates an allocator over the usable regions of m. Region
// boundaries need not be frame-aligned; only whole frames inside a usable
// region are offered.
func NewBootInfo(m mem.Map) *BootInfoAllocator {
	a := &BootInfoAllocator{}
	for _, r := range m {
		if !r.Usable {
			continue
		}
		n := r.FrameCount()
		if n == 0 {
			continue
		}
		a.spans = append(a.spans, span{first: r.FirstFrame(), count: n})
		a.total += n
	}
	return a
}

// AllocFrame returns the frame at the cursor and advances it.
func (a *BootInfoAllocator) AllocFrame() (mem.Frame, error) {
	if a.next >= a.total {
		return 0, ErrExhausted
	}
	idx := a.next
	a.next++
	for _, sp := range a.spans {
		if idx < sp.count {
			return mem.Frame(uint64(sp.first) + idx*arch.PageSize), nil
		}
		idx -= sp.count
	}
	// Unreachable: next < total implies the spans cover idx.
	return 0, ErrExhausted
}

// Allocated returns the number of frames handed out so far.
func (a *BootInfoAllocator) Allocated() uint64 {
	return a.next
}

// Remaining returns the number of frames still available.
func (a *BootInfoAllocator) Remaining() uint64 {
	return a.total - a.next
}

// Total returns the number of whole frames inside usable regions.
func (a *BootInfoAllocator) Total() uint64 {
	return a.total
}
