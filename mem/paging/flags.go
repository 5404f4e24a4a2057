package paging

import "github.com/joshuapare/memkit/internal/arch"

// Flags is the public name for page-table entry flags.
type Flags = arch.EntryFlags

// Re-exported flag bits. Core logic only consults Present, Writable and
// Huge; the remainder pass through to entries untouched.
const (
	FlagPresent   = arch.FlagPresent
	FlagWritable  = arch.FlagWritable
	FlagUser      = arch.FlagUser
	FlagHuge      = arch.FlagHuge
	FlagGlobal    = arch.FlagGlobal
	FlagNoExecute = arch.FlagNoExecute
)
