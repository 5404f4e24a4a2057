package heap

import "errors"

var (
	// ErrOutOfMemory indicates the arena has no capacity for the requested
	// size and alignment. An ordinary allocation failure, not a fault;
	// allocator state is left unchanged.
	ErrOutOfMemory = errors.New("heap: out of memory")

	// ErrBadAlign indicates an alignment that is zero or not a power of two.
	ErrBadAlign = errors.New("heap: alignment must be a power of two")

	// ErrBadRange indicates an invalid arena range at construction.
	ErrBadRange = errors.New("heap: bad arena range")
)
