// Package mem defines the core vocabulary of the memory manager: typed
// physical and virtual addresses, page- and frame-granular wrappers around
// them, and the firmware-supplied memory map.
//
// # Addresses
//
// PhysAddr and VirtAddr are distinct named types and never implicitly
// interchangeable. The only sanctioned way to turn a physical address into
// accessible bytes is the phys.Space accessor, which realizes the offset
// mapping: the entire physical address space is linearly visible through a
// single arena. No other code computes raw offsets.
//
// # Frames and pages
//
// A Frame is a 4096-byte-aligned unit of physical memory; a Page is the
// virtual-space counterpart. Both are constructed through containing-address
// or strict constructors so an unaligned value cannot circulate.
//
// # Memory map
//
// Map is the ordered sequence of physical regions reported by the boot
// environment, each classified usable or not. It is an immutable fact:
// consumed by the frame allocator, never mutated.
//
// Subpackages build the rest of the core on this vocabulary:
//
//   - mem/phys:   the physical-memory arena and offset-mapping accessor
//   - mem/paging: page-table views, translation, mapping, TLB model
//   - mem/frame:  the boot-map frame allocator
//   - mem/heap:   the bump heap allocator
//   - mem/boot:   the one-shot boot sequence tying them together
package mem
