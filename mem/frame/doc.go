// Package frame allocates unused physical frames from the boot memory map.
//
// The BootInfoAllocator flattens the usable regions of the map into one
// logical sequence of frame-aligned addresses and walks it with a monotonic
// cursor. Every frame it returns is distinct and lies fully inside a region
// marked usable; once the sequence is consumed it reports exhaustion
// permanently. Frames are never reclaimed or reused, even if the page they
// back is later unmapped. That is a deliberate property of the boot
// allocator, and callers decide whether exhaustion is fatal.
package frame
