package heap

import (
	"fmt"
	"sync"

	"github.com/joshuapare/memkit/internal/arch"
	"github.com/joshuapare/memkit/mem"
)

// Bump is the bump-pointer heap allocator. All state lives under one mutex:
// next is the bump pointer, live counts outstanding allocations.
//
// Invariant: start <= next <= end at all times.
type Bump struct {
	mu    sync.Mutex
	start mem.VirtAddr
	end   mem.VirtAddr
	next  mem.VirtAddr
	live  uint64
}

// Stats is a point-in-time snapshot of the arena.
type Stats struct {
	Start mem.VirtAddr
	End   mem.VirtAddr
	Next  mem.VirtAddr
	Live  uint64
}

// New creates a bump allocator over the virtual range [start, start+size).
// The range must be non-empty and must not wrap the address space. The
// caller guarantees every page covering the range is mapped and writable.
func New(start mem.VirtAddr, size uint64) (*Bump, error) {
	if size == 0 {
		return nil, fmt.Errorf("%w: empty arena", ErrBadRange)
	}
	end := start + mem.VirtAddr(size)
	if end < start {
		return nil, fmt.Errorf("%w: [%#x, %#x+%#x) wraps", ErrBadRange,
			uint64(start), uint64(start), size)
	}
	return &Bump{start: start, end: end, next: start}, nil
}

// Alloc returns the start of a fresh size-byte block aligned to align.
// align must be a power of two. On ErrOutOfMemory no state changes; callers
// handle the failure, it is never fatal to the allocator itself.
func (b *Bump) Alloc(size, align uint64) (mem.VirtAddr, error) {
	if !arch.IsPowerOfTwo(align) {
		return 0, fmt.Errorf("%w: %d", ErrBadAlign, align)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	aligned := mem.VirtAddr(arch.AlignUp(uint64(b.next), align))
	if aligned < b.next {
		return 0, ErrOutOfMemory // alignment wrapped the address space
	}
	allocEnd := aligned + mem.VirtAddr(size)
	if allocEnd < aligned || allocEnd > b.end {
		return 0, ErrOutOfMemory
	}

	b.next = allocEnd
	b.live++
	return aligned, nil
}

// Dealloc records that one outstanding allocation was released. When the
// live count returns to zero the bump pointer resets to the start of the
// arena: bulk reclamation, never per-block.
//
// Releasing an address that Alloc never returned, or releasing twice, is
// undefined behavior: the allocator keeps no per-allocation metadata and
// cannot detect it. That discipline is the caller's obligation.
func (b *Bump) Dealloc() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.live--
	if b.live == 0 {
		b.next = b.start
	}
}

// Stats returns a snapshot of the arena state.
func (b *Bump) Stats() Stats {
	b.mu.Lock()
	defer b.mu.Unlock()
	return Stats{Start: b.start, End: b.end, Next: b.next, Live: b.live}
}

// Remaining returns the bytes left before the end of the arena, ignoring
// alignment padding a future allocation may need.
func (b *Bump) Remaining() uint64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return uint64(b.end - b.next)
}
