package paging

import (
	"fmt"

	"github.com/joshuapare/memkit/internal/arch"
	"github.com/joshuapare/memkit/mem"
	"github.com/joshuapare/memkit/mem/phys"
)

// table is a zero-copy view of one page table stored in physical memory.
// All access is by numeric index, bounds-checked against the 512-entry
// layout; no code outside this type computes entry offsets.
type table struct {
	raw []byte // exactly arch.TableBytes
}

// tableAt returns the table stored in frame f.
func tableAt(s *phys.Space, f mem.Frame) (table, error) {
	b, err := s.Slice(f.Start(), arch.TableBytes)
	if err != nil {
		return table{}, fmt.Errorf("paging: table at %v: %w", f, err)
	}
	return table{raw: b}, nil
}

func (t table) entry(i int) Entry {
	if i < 0 || i >= arch.TableEntryCount {
		panic(fmt.Sprintf("paging: table index %d out of range", i))
	}
	return Entry(arch.ReadEntry(t.raw, i*arch.EntrySize))
}

func (t table) setEntry(i int, e Entry) {
	if i < 0 || i >= arch.TableEntryCount {
		panic(fmt.Sprintf("paging: table index %d out of range", i))
	}
	arch.PutEntry(t.raw, i*arch.EntrySize, uint64(e))
}
