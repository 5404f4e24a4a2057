package paging

import (
	"github.com/joshuapare/memkit/internal/arch"
	"github.com/joshuapare/memkit/mem"
)

// Entry is one page-table entry: a frame address in bits 12-51 plus flags.
type Entry uint64

// NewEntry builds an entry pointing at f with the given flags.
func NewEntry(f mem.Frame, flags arch.EntryFlags) Entry {
	return Entry(uint64(f.Start())&arch.EntryAddrMask | uint64(flags))
}

// Present reports whether the entry maps anything.
func (e Entry) Present() bool { return e.Flags().Has(arch.FlagPresent) }

// Writable reports whether the mapped page can be written.
func (e Entry) Writable() bool { return e.Flags().Has(arch.FlagWritable) }

// Huge reports whether the entry is a huge-page mapping.
func (e Entry) Huge() bool { return e.Flags().Has(arch.FlagHuge) }

// Flags returns the flag portion of the entry.
func (e Entry) Flags() arch.EntryFlags {
	return arch.EntryFlags(uint64(e) &^ arch.EntryAddrMask)
}

// PointedFrame returns the frame the entry points at: the next-level table
// for non-leaf levels, the mapped data frame at L1. Only meaningful for
// present, non-huge entries.
func (e Entry) PointedFrame() mem.Frame {
	return mem.Frame(uint64(e) & arch.EntryAddrMask)
}
