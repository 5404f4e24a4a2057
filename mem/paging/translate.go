package paging

import (
	"fmt"

	"github.com/joshuapare/memkit/internal/arch"
	"github.com/joshuapare/memkit/mem"
	"github.com/joshuapare/memkit/mem/phys"
)

// Translate resolves a virtual address to its mapped physical address by
// walking the live table structure from the root register. Returns
// ErrUnmapped if any entry on the path is not present, ErrHugePage if an
// entry unexpectedly maps a huge page.
//
// Translate is read-only over existing tables. It must not race with a
// page-table mutation on another execution context; nothing detects
// concurrent table writes.
func Translate(s *phys.Space, addr mem.VirtAddr) (mem.PhysAddr, error) {
	f, _, err := TranslatePage(s, mem.PageContaining(addr))
	if err != nil {
		return 0, err
	}
	return f.Start() + mem.PhysAddr(addr.PageOffset()), nil
}

// TranslatePage resolves a page to its mapped frame and the leaf entry's
// flags.
func TranslatePage(s *phys.Space, page mem.Page) (mem.Frame, Flags, error) {
	f, err := s.RootTable()
	if err != nil {
		return 0, 0, fmt.Errorf("paging: %w", err)
	}

	var e Entry
	for level := arch.PageLevels; level >= 1; level-- {
		t, err := tableAt(s, f)
		if err != nil {
			return 0, 0, err
		}
		e = t.entry(mem.VirtAddr(page).TableIndex(level))
		if !e.Present() {
			return 0, 0, ErrUnmapped
		}
		if e.Huge() {
			return 0, 0, fmt.Errorf("%w: L%d entry for %v", ErrHugePage, level, page)
		}
		f = e.PointedFrame()
	}
	return f, e.Flags(), nil
}
