// Package boot wires the memory core together in the one documented order:
// frame allocator over the boot memory map, then the exclusive page-table
// mapper, then the heap bootstrap, after which the general allocator is
// live. Init runs exactly once per space; the resulting Kernel handle is
// the rest of the system's only entry point into translation and dynamic
// allocation.
package boot
