// Package phys models the machine's physical address space as an explicit
// arena. Every access to physical memory (page-table reads and writes
// included) goes through the Space accessor, which realizes the offset
// mapping: physical address n is byte n of the arena. On unix builds the
// arena is an anonymous mapping so large spaces stay out of the Go heap.
package phys

import (
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/joshuapare/memkit/internal/arch"
	"github.com/joshuapare/memkit/mem"
)

var (
	// ErrOutOfRange indicates a physical address or range outside the arena.
	ErrOutOfRange = errors.New("phys: address out of range")

	// ErrNoRootTable indicates that no root page table has been installed.
	ErrNoRootTable = errors.New("phys: root table register not set")
)

// Space is the physical-memory arena. The zero value is not usable; construct
// with New and release with Close.
//
// Space also carries the two pieces of per-machine paging state: the root
// page-table register (the CR3 model) and the one-shot guard that hands out
// the single live mutable page-table view.
type Space struct {
	data    []byte
	release func() error

	root    mem.Frame
	hasRoot bool

	tablesTaken atomic.Bool
}

// New creates a physical address space of the given size. size must be a
// non-zero multiple of the page size.
func New(size uint64) (*Space, error) {
	if size == 0 || !arch.IsAligned(size, arch.PageSize) {
		return nil, fmt.Errorf("phys: size %#x is not a positive page multiple", size)
	}
	if size > uint64(^uint(0)>>1) {
		return nil, fmt.Errorf("phys: size %#x too large for this platform", size)
	}
	data, release, err := arena(int(size))
	if err != nil {
		return nil, fmt.Errorf("phys: creating %d-byte arena: %w", size, err)
	}
	return &Space{data: data, release: release}, nil
}

// Size returns the arena size in bytes.
func (s *Space) Size() uint64 { return uint64(len(s.data)) }

// Bytes returns the raw arena. Intended for tooling and tests; regular code
// uses Slice.
func (s *Space) Bytes() []byte { return s.data }

// Slice returns the n bytes of physical memory starting at pa. This is the
// offset-mapping accessor: the only sanctioned path from a physical address
// to bytes.
func (s *Space) Slice(pa mem.PhysAddr, n int) ([]byte, error) {
	if n < 0 || uint64(pa) > s.Size() || uint64(n) > s.Size()-uint64(pa) {
		return nil, fmt.Errorf("%w: [%#x, %#x+%d)", ErrOutOfRange, uint64(pa), uint64(pa), n)
	}
	return s.data[pa : uint64(pa)+uint64(n) : uint64(pa)+uint64(n)], nil
}

// ZeroFrame clears one frame of physical memory. New page tables must be
// zeroed before they are linked in.
func (s *Space) ZeroFrame(f mem.Frame) error {
	b, err := s.Slice(f.Start(), arch.PageSize)
	if err != nil {
		return err
	}
	clear(b)
	return nil
}

// Contains reports whether the frame lies fully inside the arena.
func (s *Space) Contains(f mem.Frame) bool {
	return uint64(f.End()) <= s.Size()
}

// RootTable returns the frame held in the root page-table register.
func (s *Space) RootTable() (mem.Frame, error) {
	if !s.hasRoot {
		return 0, ErrNoRootTable
	}
	return s.root, nil
}

// SetRootTable installs the root page-table frame. The boot handoff sets it
// exactly once; it is never reassigned afterwards.
func (s *Space) SetRootTable(f mem.Frame) error {
	if !s.Contains(f) {
		return fmt.Errorf("%w: root table %v", ErrOutOfRange, f)
	}
	if s.hasRoot {
		return errors.New("phys: root table already set")
	}
	s.root = f
	s.hasRoot = true
	return nil
}

// HasRootTable reports whether a root table has been installed.
func (s *Space) HasRootTable() bool { return s.hasRoot }

// AcquirePageTables consumes the one-shot right to mutate this space's page
// tables. A second acquisition would create two live mutable views of the
// same table memory, so it faults rather than returning an error.
func (s *Space) AcquirePageTables() {
	if !s.tablesTaken.CompareAndSwap(false, true) {
		panic("phys: page tables already acquired for this space")
	}
}

// PageTablesAcquired reports whether the mutable page-table view has been
// handed out.
func (s *Space) PageTablesAcquired() bool { return s.tablesTaken.Load() }

// Close releases the arena. The Space must not be used afterwards.
func (s *Space) Close() error {
	if s.release == nil {
		return nil
	}
	err := s.release()
	s.release = nil
	s.data = nil
	return err
}
