package arch

// EntryFlags is the flag portion of a page-table entry.
type EntryFlags uint64

const (
	// FlagPresent is set when the entry maps a frame (or, on non-leaf
	// levels, points at a next-level table).
	FlagPresent EntryFlags = 1 << iota

	// FlagWritable is set if the mapped page can be written to.
	FlagWritable

	// FlagUser is set if user-mode code can access the page. If clear,
	// only kernel code can.
	FlagUser

	// FlagWriteThrough selects write-through caching for the page.
	FlagWriteThrough

	// FlagNoCache prevents the page from being cached.
	FlagNoCache

	// FlagAccessed is set by the CPU when the page is accessed.
	FlagAccessed

	// FlagDirty is set by the CPU when the page is written.
	FlagDirty

	// FlagHuge marks a 2 MiB (L2) or 1 GiB (L3) mapping. Unsupported:
	// the rest of the core assumes uniform 4 KiB frames, so encountering
	// this flag during a walk is an error condition, not a valid state.
	FlagHuge

	// FlagGlobal keeps the translation cached across root-table switches.
	FlagGlobal
)

// FlagNoExecute marks a page as non-executable.
const FlagNoExecute EntryFlags = 1 << 63

// Has reports whether every flag in want is set.
func (f EntryFlags) Has(want EntryFlags) bool { return f&want == want }
