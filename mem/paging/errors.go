package paging

import "errors"

var (
	// ErrUnmapped indicates a not-present entry on the translation path.
	// Recoverable; the address simply has no mapping.
	ErrUnmapped = errors.New("paging: address not mapped")

	// ErrHugePage indicates a huge-page entry on the translation path.
	// The core assumes uniform 4 KiB frames, so this is an
	// unsupported-configuration fault, not a valid state.
	ErrHugePage = errors.New("paging: huge page entry (unsupported)")

	// ErrAlreadyMapped indicates an attempt to map a page that already has
	// a live leaf mapping. Never silently resolved: overwriting would
	// corrupt whatever the old frame held.
	ErrAlreadyMapped = errors.New("paging: page already mapped")
)
