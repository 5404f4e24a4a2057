package arch

// Alignment utilities for page- and frame-granular addresses. All callers
// pass power-of-two alignments; these helpers do not validate that.

// AlignDown returns addr aligned down to the previous multiple of align.
//
// Example:
//
//	AlignDown(4097, 4096) = 4096
//	AlignDown(4096, 4096) = 4096
func AlignDown(addr, align uint64) uint64 {
	return addr &^ (align - 1)
}

// AlignUp returns addr aligned up to the next multiple of align. The result
// wraps to 0 if addr lies within align-1 bytes of the top of the address
// space; callers that can reach that range must check for wraparound.
//
// Example:
//
//	AlignUp(1, 4096)    = 4096
//	AlignUp(4096, 4096) = 4096
//	AlignUp(4097, 4096) = 8192
func AlignUp(addr, align uint64) uint64 {
	return (addr + align - 1) &^ (align - 1)
}

// IsAligned reports whether addr is a multiple of align.
func IsAligned(addr, align uint64) bool {
	return addr&(align-1) == 0
}

// IsPowerOfTwo reports whether n is a power of two. Zero is not.
func IsPowerOfTwo(n uint64) bool {
	return n != 0 && n&(n-1) == 0
}
