// Package heap provides the kernel's general-purpose allocator: a
// bump-pointer allocator over the virtual range bootstrapped for the heap.
//
// Allocation advances a single pointer forward; individual deallocations
// only decrement a live-allocation counter. Memory is reclaimed in bulk:
// when the counter returns to zero the pointer resets to the start of the
// arena. Freed blocks are never reusable before that point. This is a
// deliberate policy, not a missing feature: downstream code may depend on
// the worst-case memory-reuse timing, so it must not be upgraded to a
// free list.
//
// The allocator is a process-wide singleton guarded by a mutex; the lock is
// held only for O(1) bookkeeping.
package heap
