package paging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/memkit/mem"
	"github.com/joshuapare/memkit/mem/frame"
	"github.com/joshuapare/memkit/mem/phys"
)

const spaceSize = 1 << 20 // 256 frames

func newSpace(t *testing.T) *phys.Space {
	t.Helper()
	s, err := phys.New(spaceSize)
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, s.Close()) })
	return s
}

func newAlloc() *frame.BootInfoAllocator {
	return frame.NewBootInfo(mem.Map{{Start: 0, End: spaceSize, Usable: true}})
}

// newEnv returns a space with an installed empty root table, the exclusive
// mapper over it, and the allocator feeding both.
func newEnv(t *testing.T, flush Flusher) (*phys.Space, *PageTables, *frame.BootInfoAllocator) {
	t.Helper()
	s := newSpace(t)
	alloc := newAlloc()

	root, err := alloc.AllocFrame()
	require.NoError(t, err)
	require.NoError(t, s.ZeroFrame(root))
	require.NoError(t, s.SetRootTable(root))

	pt, err := New(s, flush)
	require.NoError(t, err)
	return s, pt, alloc
}

func mustPage(t *testing.T, addr mem.VirtAddr) mem.Page {
	t.Helper()
	p, err := mem.PageAt(addr)
	require.NoError(t, err)
	return p
}

func TestMapTranslate_RoundTrip(t *testing.T) {
	s, pt, alloc := newEnv(t, nil)

	page := mustPage(t, 0xdead_b000)
	f, err := alloc.AllocFrame()
	require.NoError(t, err)

	require.NoError(t, pt.Map(page, f, FlagWritable, alloc))

	// For any offset O, translate(page.start+O) == frame.start+O.
	for _, off := range []uint64{0, 1, 0x123, 4095} {
		pa, err := Translate(s, page.Start()+mem.VirtAddr(off))
		require.NoError(t, err)
		assert.Equal(t, f.Start()+mem.PhysAddr(off), pa)
	}

	got, flags, err := TranslatePage(s, page)
	require.NoError(t, err)
	assert.Equal(t, f, got)
	assert.True(t, flags.Has(FlagPresent|FlagWritable))
}

func TestTranslate_Unmapped(t *testing.T) {
	s, pt, alloc := newEnv(t, nil)

	// Nothing mapped at all: the L4 entry itself is a hole.
	_, err := Translate(s, 0xdead_b000)
	require.ErrorIs(t, err, ErrUnmapped)

	// A mapping nearby fills the upper levels; an unmapped sibling page
	// still reports unmapped, never a stale or partial address.
	page := mustPage(t, 0xdead_b000)
	f, err := alloc.AllocFrame()
	require.NoError(t, err)
	require.NoError(t, pt.Map(page, f, FlagWritable, alloc))

	_, err = Translate(s, 0xdead_c000)
	require.ErrorIs(t, err, ErrUnmapped)
}

func TestTranslate_NoRootTable(t *testing.T) {
	s := newSpace(t)
	_, err := Translate(s, 0x1000)
	require.Error(t, err)
}

func TestTranslate_HugePageIsFault(t *testing.T) {
	s := newSpace(t)
	alloc := newAlloc()

	root, err := alloc.AllocFrame()
	require.NoError(t, err)
	require.NoError(t, s.ZeroFrame(root))
	require.NoError(t, s.SetRootTable(root))

	l3, err := alloc.AllocFrame()
	require.NoError(t, err)
	require.NoError(t, s.ZeroFrame(l3))

	// Hand-build an L3 huge-page entry (a 1 GiB mapping).
	addr := mem.VirtAddr(0x4000_0000)
	rootTable, err := tableAt(s, root)
	require.NoError(t, err)
	rootTable.setEntry(addr.TableIndex(4), NewEntry(l3, FlagPresent|FlagWritable))

	hugeTarget, err := alloc.AllocFrame()
	require.NoError(t, err)
	l3Table, err := tableAt(s, l3)
	require.NoError(t, err)
	l3Table.setEntry(addr.TableIndex(3), NewEntry(hugeTarget, FlagPresent|FlagHuge))

	_, err = Translate(s, addr)
	require.ErrorIs(t, err, ErrHugePage)
}

func TestMap_Collision(t *testing.T) {
	_, pt, alloc := newEnv(t, nil)

	page := mustPage(t, 0x4444_0000)
	f1, err := alloc.AllocFrame()
	require.NoError(t, err)
	require.NoError(t, pt.Map(page, f1, FlagWritable, alloc))

	f2, err := alloc.AllocFrame()
	require.NoError(t, err)
	err = pt.Map(page, f2, FlagWritable, alloc)
	require.ErrorIs(t, err, ErrAlreadyMapped)

	// A sibling page in the same leaf table still maps fine.
	require.NoError(t, pt.Map(page.Next(), f2, FlagWritable, alloc))
}

func TestMap_IntermediateTableCreation(t *testing.T) {
	_, pt, alloc := newEnv(t, nil)
	base := alloc.Allocated()

	page := mustPage(t, 0x1234_5000)
	f, err := alloc.AllocFrame()
	require.NoError(t, err)

	// First mapping in a fresh corner of the address space creates the
	// L3, L2 and L1 tables.
	require.NoError(t, pt.Map(page, f, FlagWritable, alloc))
	assert.Equal(t, base+4, alloc.Allocated(), "data frame plus three table frames")

	// The adjacent page reuses all of them.
	f2, err := alloc.AllocFrame()
	require.NoError(t, err)
	require.NoError(t, pt.Map(page.Next(), f2, FlagWritable, alloc))
	assert.Equal(t, base+5, alloc.Allocated(), "only the data frame is new")
}

func TestMap_OutOfFrames(t *testing.T) {
	s := newSpace(t)

	// Three usable frames: root, data frame, one table. Not enough for
	// the three intermediate levels a fresh mapping needs.
	alloc := frame.NewBootInfo(mem.Map{{Start: 0, End: 3 * 4096, Usable: true}})

	root, err := alloc.AllocFrame()
	require.NoError(t, err)
	require.NoError(t, s.ZeroFrame(root))
	require.NoError(t, s.SetRootTable(root))

	pt, err := New(s, nil)
	require.NoError(t, err)

	f, err := alloc.AllocFrame()
	require.NoError(t, err)

	err = pt.Map(mustPage(t, 0x4444_0000), f, FlagWritable, alloc)
	require.ErrorIs(t, err, frame.ErrExhausted)

	// No rollback: the table created before the failure stays consumed.
	assert.Equal(t, uint64(0), alloc.Remaining())
}

func TestMapRange(t *testing.T) {
	s, pt, alloc := newEnv(t, nil)

	pages := mem.PagesCovering(0x4444_0000, 8*4096)
	require.NoError(t, pt.MapRange(pages, FlagWritable, alloc))

	seen := make(map[mem.Frame]bool)
	for _, p := range pages {
		f, _, err := TranslatePage(s, p)
		require.NoError(t, err)
		assert.False(t, seen[f], "frame %v mapped twice", f)
		seen[f] = true
	}
}

func TestUnmap(t *testing.T) {
	s, pt, alloc := newEnv(t, nil)

	page := mustPage(t, 0x4444_0000)
	f, err := alloc.AllocFrame()
	require.NoError(t, err)
	require.NoError(t, pt.Map(page, f, FlagWritable, alloc))

	got, err := pt.Unmap(page)
	require.NoError(t, err)
	assert.Equal(t, f, got)

	_, err = Translate(s, page.Start())
	require.ErrorIs(t, err, ErrUnmapped)

	_, err = pt.Unmap(page)
	require.ErrorIs(t, err, ErrUnmapped)
}

func TestMapUnmap_FlushesTranslationCache(t *testing.T) {
	tlb := NewTLB()
	_, pt, alloc := newEnv(t, tlb)

	page := mustPage(t, 0x4444_0000)

	// A stale cached translation must not survive a mapping change.
	tlb.Insert(page, mem.Frame(0xb000))

	f, err := alloc.AllocFrame()
	require.NoError(t, err)
	require.NoError(t, pt.Map(page, f, FlagWritable, alloc))

	_, ok := tlb.Lookup(page)
	assert.False(t, ok, "Map must invalidate the cached entry")

	tlb.Insert(page, f)
	_, err = pt.Unmap(page)
	require.NoError(t, err)

	_, ok = tlb.Lookup(page)
	assert.False(t, ok, "Unmap must invalidate the cached entry")
}

func TestNew_RequiresRootTable(t *testing.T) {
	s := newSpace(t)
	_, err := New(s, nil)
	require.Error(t, err)
}

func TestNew_SecondMapperFaults(t *testing.T) {
	s, _, _ := newEnv(t, nil)
	assert.Panics(t, func() {
		_, _ = New(s, nil)
	})
}

func TestEntry_Accessors(t *testing.T) {
	f := mem.Frame(0x7000)
	e := NewEntry(f, FlagPresent|FlagWritable|FlagNoExecute)

	assert.True(t, e.Present())
	assert.True(t, e.Writable())
	assert.False(t, e.Huge())
	assert.Equal(t, f, e.PointedFrame())
	assert.True(t, e.Flags().Has(FlagNoExecute))

	assert.False(t, Entry(0).Present())
}
