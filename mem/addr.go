package mem

import (
	"fmt"

	"github.com/joshuapare/memkit/internal/arch"
)

// PhysAddr is an address in physical memory.
type PhysAddr uint64

// VirtAddr is an address in virtual memory.
type VirtAddr uint64

// AlignedDown returns the address aligned down to align bytes.
func (a PhysAddr) AlignedDown(align uint64) PhysAddr {
	return PhysAddr(arch.AlignDown(uint64(a), align))
}

// AlignedUp returns the address aligned up to align bytes.
func (a PhysAddr) AlignedUp(align uint64) PhysAddr {
	return PhysAddr(arch.AlignUp(uint64(a), align))
}

// IsAligned reports whether the address is a multiple of align.
func (a PhysAddr) IsAligned(align uint64) bool {
	return arch.IsAligned(uint64(a), align)
}

func (a PhysAddr) String() string { return fmt.Sprintf("p:%#x", uint64(a)) }

// PageOffset returns the low 12 bits: the byte offset within the page.
func (a VirtAddr) PageOffset() uint64 {
	return uint64(a) & arch.PageOffsetMask
}

// TableIndex returns the 9-bit page-table index for the given level.
// Level 4 is the root; level 1 indexes the leaf table.
func (a VirtAddr) TableIndex(level int) int {
	if level < 1 || level > arch.PageLevels {
		panic(fmt.Sprintf("mem: table index level %d out of range", level))
	}
	return int(uint64(a) >> arch.LevelShifts[arch.PageLevels-level] & arch.TableIndexMask)
}

// AlignedDown returns the address aligned down to align bytes.
func (a VirtAddr) AlignedDown(align uint64) VirtAddr {
	return VirtAddr(arch.AlignDown(uint64(a), align))
}

// AlignedUp returns the address aligned up to align bytes.
func (a VirtAddr) AlignedUp(align uint64) VirtAddr {
	return VirtAddr(arch.AlignUp(uint64(a), align))
}

// IsAligned reports whether the address is a multiple of align.
func (a VirtAddr) IsAligned(align uint64) bool {
	return arch.IsAligned(uint64(a), align)
}

func (a VirtAddr) String() string { return fmt.Sprintf("v:%#x", uint64(a)) }

// Frame is a 4096-byte-aligned unit of physical memory.
type Frame PhysAddr

// FrameContaining returns the frame holding addr.
func FrameContaining(addr PhysAddr) Frame {
	return Frame(addr.AlignedDown(arch.PageSize))
}

// FrameAt returns the frame starting exactly at addr.
func FrameAt(addr PhysAddr) (Frame, error) {
	if !addr.IsAligned(arch.PageSize) {
		return 0, fmt.Errorf("mem: %v is not frame-aligned", addr)
	}
	return Frame(addr), nil
}

// Start returns the first physical address of the frame.
func (f Frame) Start() PhysAddr { return PhysAddr(f) }

// End returns the physical address one past the frame.
func (f Frame) End() PhysAddr { return PhysAddr(f) + arch.PageSize }

func (f Frame) String() string { return fmt.Sprintf("frame:%#x", uint64(f)) }

// Page is a 4096-byte-aligned unit of virtual address space.
type Page VirtAddr

// PageContaining returns the page holding addr.
func PageContaining(addr VirtAddr) Page {
	return Page(addr.AlignedDown(arch.PageSize))
}

// PageAt returns the page starting exactly at addr.
func PageAt(addr VirtAddr) (Page, error) {
	if !addr.IsAligned(arch.PageSize) {
		return 0, fmt.Errorf("mem: %v is not page-aligned", addr)
	}
	return Page(addr), nil
}

// Start returns the first virtual address of the page.
func (p Page) Start() VirtAddr { return VirtAddr(p) }

// End returns the virtual address one past the page.
func (p Page) End() VirtAddr { return VirtAddr(p) + arch.PageSize }

// Next returns the page immediately following p.
func (p Page) Next() Page { return Page(VirtAddr(p) + arch.PageSize) }

func (p Page) String() string { return fmt.Sprintf("page:%#x", uint64(p)) }

// PageCountCovering returns the number of pages PagesCovering would yield
// for the byte range [start, start+size), without materializing them. The
// range must not wrap the address space.
func PageCountCovering(start VirtAddr, size uint64) uint64 {
	if size == 0 {
		return 0
	}
	first := PageContaining(start)
	last := PageContaining(start + VirtAddr(size) - 1)
	return (uint64(last)-uint64(first))/arch.PageSize + 1
}

// PagesCovering returns the inclusive run of pages covering the byte range
// [start, start+size). The caller bounds size: the whole run is
// materialized, so counts beyond what it can back belong in
// PageCountCovering first.
func PagesCovering(start VirtAddr, size uint64) []Page {
	if size == 0 {
		return nil
	}
	first := PageContaining(start)
	last := PageContaining(start + VirtAddr(size) - 1)
	pages := make([]Page, 0, PageCountCovering(start, size))
	for p := first; ; p = p.Next() {
		pages = append(pages, p)
		if p == last {
			break
		}
	}
	return pages
}
