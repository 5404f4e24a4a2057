// Package paging implements the 4-level page-table structure: bounds-checked
// entry and table views over physical memory, read-only address translation,
// and the mapper that installs new virtual-to-physical mappings.
//
// Tables live inside the phys.Space arena as 512 little-endian 64-bit
// entries, one frame per table. A virtual address splits into four 9-bit
// indices (L4 down to L1) plus a 12-bit page offset; each non-leaf entry
// points at the next-level table's frame and L1 entries point at the mapped
// data frame.
//
// Translation is read-only and may be performed by anyone holding the Space.
// Mutation is exclusive: the PageTables mapper consumes the Space's one-shot
// acquisition token, so at most one live mutable view of the table structure
// can exist. Nothing serializes translation against concurrent mutation:
// the single-core, boot-time-only mutation discipline is enforced by
// construction, not by a lock.
package paging
