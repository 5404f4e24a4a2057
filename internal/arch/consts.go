// Package arch houses the x86-64 4-level paging constants and low-level
// entry codecs. The goal is to keep the bit-layout knowledge in one place,
// allocation-free, and independent from the public API so higher-level
// packages can work with typed addresses instead of raw shifts and masks.
package arch

const (
	// PageSize is the size of a page and of a frame in bytes. Only 4 KiB
	// pages are supported; huge-page entries are an error condition.
	PageSize = 4096

	// PageShift is the number of virtual-address bits consumed by the
	// byte offset within a page.
	PageShift = 12

	// PageOffsetMask extracts the within-page byte offset from a virtual
	// address.
	PageOffsetMask = PageSize - 1

	// PageLevels is the number of page-table levels (L4 down to L1).
	PageLevels = 4

	// TableEntryCount is the number of entries in one page table.
	TableEntryCount = 512

	// TableIndexMask extracts one 9-bit table index from a shifted
	// virtual address.
	TableIndexMask = TableEntryCount - 1

	// EntrySize is the size of one page-table entry in bytes.
	EntrySize = 8

	// TableBytes is the size of one page table in bytes. A table occupies
	// exactly one frame.
	TableBytes = TableEntryCount * EntrySize

	// EntryAddrMask extracts the physical frame address from a page-table
	// entry. Bits 12-51 hold the address; the remaining bits are flags or
	// reserved.
	EntryAddrMask uint64 = 0x000ffffffffff000
)

// LevelShifts holds the right-shift needed to bring each level's 9-bit index
// into the low bits of a virtual address. Index 0 is the L4 (root) level,
// index 3 is L1.
var LevelShifts = [PageLevels]uint{39, 30, 21, 12}
