package frame

import "errors"

// ErrExhausted indicates the allocator's usable-frame sequence is consumed.
// The condition is permanent: no wraparound, no reclamation.
var ErrExhausted = errors.New("frame: usable frames exhausted")
