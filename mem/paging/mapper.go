package paging

import (
	"fmt"

	"github.com/joshuapare/memkit/internal/arch"
	"github.com/joshuapare/memkit/mem"
	"github.com/joshuapare/memkit/mem/frame"
	"github.com/joshuapare/memkit/mem/phys"
)

// tableFlags are the flags given to every intermediate (non-leaf) table
// entry so leaf permissions alone decide access.
const tableFlags = arch.FlagPresent | arch.FlagWritable

// PageTables is the exclusive mutable view of a space's page-table
// structure. Constructing it consumes the space's one-shot acquisition
// token; a second construction for the same space faults.
type PageTables struct {
	space *phys.Space
	root  mem.Frame
	flush Flusher
}

// New creates the mapper for s. The root table register must already be
// installed. flush receives an invalidation for every mapping change; pass
// nil when no translation cache is in use.
func New(s *phys.Space, flush Flusher) (*PageTables, error) {
	root, err := s.RootTable()
	if err != nil {
		return nil, fmt.Errorf("paging: %w", err)
	}
	s.AcquirePageTables()
	if flush == nil {
		flush = noopFlusher{}
	}
	return &PageTables{space: s, root: root, flush: flush}, nil
}

// Map installs a mapping from page to f with the given flags, creating any
// missing intermediate tables with frames from alloc. The present flag is
// implied. A live leaf mapping for page is reported as ErrAlreadyMapped,
// never overwritten. If an intermediate allocation fails the operation
// aborts; tables created before the failure stay allocated (no rollback,
// an accepted boot-time trade-off). On success the translation cache entry
// for page is invalidated before Map returns.
func (pt *PageTables) Map(page mem.Page, f mem.Frame, flags Flags, alloc frame.Allocator) error {
	leaf, err := pt.leafTable(page, alloc)
	if err != nil {
		return err
	}
	idx := mem.VirtAddr(page).TableIndex(1)
	if leaf.entry(idx).Present() {
		return fmt.Errorf("%w: %v", ErrAlreadyMapped, page)
	}
	leaf.setEntry(idx, NewEntry(f, flags|arch.FlagPresent))
	pt.flush.Flush(page)
	return nil
}

// MapRange maps every page in pages to a freshly allocated frame with the
// given flags. The first failure aborts the run; earlier pages stay mapped.
func (pt *PageTables) MapRange(pages []mem.Page, flags Flags, alloc frame.Allocator) error {
	for _, p := range pages {
		f, err := alloc.AllocFrame()
		if err != nil {
			return fmt.Errorf("paging: no frame for %v: %w", p, err)
		}
		if err := pt.Map(p, f, flags, alloc); err != nil {
			return err
		}
	}
	return nil
}

// Unmap removes the leaf mapping for page and returns the frame it pointed
// at. The frame is not returned to any allocator; the boot frame allocator
// never reuses frames. Intermediate tables stay in place.
func (pt *PageTables) Unmap(page mem.Page) (mem.Frame, error) {
	leaf, err := pt.leafTable(page, nil)
	if err != nil {
		return 0, err
	}
	idx := mem.VirtAddr(page).TableIndex(1)
	e := leaf.entry(idx)
	if !e.Present() {
		return 0, ErrUnmapped
	}
	if e.Huge() {
		return 0, fmt.Errorf("%w: L1 entry for %v", ErrHugePage, page)
	}
	leaf.setEntry(idx, 0)
	pt.flush.Flush(page)
	return e.PointedFrame(), nil
}

// leafTable walks L4 down to the L1 table covering page. With a non-nil
// alloc, missing intermediate tables are created: a fresh frame is
// allocated, zeroed, and only then linked in. With alloc nil the walk fails
// with ErrUnmapped at the first hole.
func (pt *PageTables) leafTable(page mem.Page, alloc frame.Allocator) (table, error) {
	f := pt.root
	for level := arch.PageLevels; level >= 2; level-- {
		t, err := tableAt(pt.space, f)
		if err != nil {
			return table{}, err
		}
		idx := mem.VirtAddr(page).TableIndex(level)
		e := t.entry(idx)
		switch {
		case e.Huge():
			return table{}, fmt.Errorf("%w: L%d entry for %v", ErrHugePage, level, page)
		case e.Present():
			f = e.PointedFrame()
		case alloc == nil:
			return table{}, ErrUnmapped
		default:
			nf, err := alloc.AllocFrame()
			if err != nil {
				return table{}, fmt.Errorf("paging: allocating L%d table for %v: %w",
					level-1, page, err)
			}
			if err := pt.space.ZeroFrame(nf); err != nil {
				return table{}, err
			}
			t.setEntry(idx, NewEntry(nf, tableFlags))
			f = nf
		}
	}
	return tableAt(pt.space, f)
}
