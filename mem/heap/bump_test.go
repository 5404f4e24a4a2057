package heap

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/memkit/mem"
)

func TestNew_Validation(t *testing.T) {
	_, err := New(0x1000, 0)
	require.ErrorIs(t, err, ErrBadRange)

	_, err = New(mem.VirtAddr(^uint64(0)-10), 100)
	require.ErrorIs(t, err, ErrBadRange)

	b, err := New(0x1000, 4096)
	require.NoError(t, err)
	st := b.Stats()
	assert.Equal(t, mem.VirtAddr(0x1000), st.Start)
	assert.Equal(t, mem.VirtAddr(0x2000), st.End)
	assert.Equal(t, st.Start, st.Next)
}

// TestScenario_100ByteArena walks the canonical allocate/release script over
// a 100-byte arena starting at 0.
func TestScenario_100ByteArena(t *testing.T) {
	b, err := New(0, 100)
	require.NoError(t, err)

	// alloc(10, 1) -> 0; next=10, live=1
	a1, err := b.Alloc(10, 1)
	require.NoError(t, err)
	assert.Equal(t, mem.VirtAddr(0), a1)
	assert.Equal(t, Stats{Start: 0, End: 100, Next: 10, Live: 1}, b.Stats())

	// alloc(20, 8) aligns 10 up to 16 -> 16; next=36, live=2
	a2, err := b.Alloc(20, 8)
	require.NoError(t, err)
	assert.Equal(t, mem.VirtAddr(16), a2)
	assert.Equal(t, Stats{Start: 0, End: 100, Next: 36, Live: 2}, b.Stats())

	// alloc(70, 1): 36+70 > 100 -> failure, state unchanged
	_, err = b.Alloc(70, 1)
	require.ErrorIs(t, err, ErrOutOfMemory)
	assert.Equal(t, Stats{Start: 0, End: 100, Next: 36, Live: 2}, b.Stats())

	// two releases: live 2 -> 1 -> 0, next resets to 0
	b.Dealloc()
	assert.Equal(t, uint64(1), b.Stats().Live)
	b.Dealloc()
	assert.Equal(t, Stats{Start: 0, End: 100, Next: 0, Live: 0}, b.Stats())

	// bulk reclamation: the next allocation starts over at 0
	a3, err := b.Alloc(5, 1)
	require.NoError(t, err)
	assert.Equal(t, mem.VirtAddr(0), a3)
}

func TestAlloc_NonOverlapAndMonotonic(t *testing.T) {
	b, err := New(0x1000, 1<<16)
	require.NoError(t, err)

	sizes := []uint64{1, 7, 8, 13, 64, 100, 3}
	aligns := []uint64{1, 2, 8, 16, 4, 32, 1}

	prevEnd := mem.VirtAddr(0)
	prevNext := b.Stats().Next
	for i := range sizes {
		addr, err := b.Alloc(sizes[i], aligns[i])
		require.NoError(t, err)

		assert.GreaterOrEqual(t, addr, prevEnd, "allocation %d overlaps its predecessor", i)
		assert.True(t, addr.IsAligned(aligns[i]))
		prevEnd = addr + mem.VirtAddr(sizes[i])

		next := b.Stats().Next
		assert.GreaterOrEqual(t, next, prevNext, "bump pointer moved backwards")
		prevNext = next
	}
}

func TestAlloc_CapacityBoundary(t *testing.T) {
	b, err := New(0x1000, 64)
	require.NoError(t, err)

	_, err = b.Alloc(60, 1)
	require.NoError(t, err)
	before := b.Stats()

	// round_up(next, align) + size > end: failure leaves next/live alone.
	_, err = b.Alloc(8, 8)
	require.ErrorIs(t, err, ErrOutOfMemory)
	assert.Equal(t, before, b.Stats())

	// An exactly-fitting request still succeeds.
	_, err = b.Alloc(4, 1)
	require.NoError(t, err)
}

func TestAlloc_BadAlign(t *testing.T) {
	b, err := New(0x1000, 4096)
	require.NoError(t, err)

	_, err = b.Alloc(8, 0)
	require.ErrorIs(t, err, ErrBadAlign)
	_, err = b.Alloc(8, 3)
	require.ErrorIs(t, err, ErrBadAlign)
	assert.Equal(t, uint64(0), b.Stats().Live)
}

func TestAlloc_OverflowChecked(t *testing.T) {
	// An arena ending at the very top of the address space must not let
	// allocation arithmetic wrap.
	start := mem.VirtAddr(^uint64(0) - 4094)
	b, err := New(start, 4094)
	require.NoError(t, err)

	_, err = b.Alloc(4094, 1)
	require.NoError(t, err)
	_, err = b.Alloc(1, 1)
	require.ErrorIs(t, err, ErrOutOfMemory)

	// Alignment past the top wraps too; that is out-of-memory, not a
	// bogus low address.
	_, err = b.Alloc(1, 4096)
	require.ErrorIs(t, err, ErrOutOfMemory)
}

func TestDealloc_ResetOnlyAtZero(t *testing.T) {
	b, err := New(0, 1024)
	require.NoError(t, err)

	_, err = b.Alloc(100, 1)
	require.NoError(t, err)
	_, err = b.Alloc(100, 1)
	require.NoError(t, err)

	// Releasing one of two outstanding allocations reclaims nothing.
	b.Dealloc()
	assert.Equal(t, mem.VirtAddr(200), b.Stats().Next)

	a, err := b.Alloc(10, 1)
	require.NoError(t, err)
	assert.Equal(t, mem.VirtAddr(200), a)
}

func TestAlloc_Concurrent(t *testing.T) {
	b, err := New(0x1000, 1<<20)
	require.NoError(t, err)

	const workers = 8
	const perWorker = 100

	addrs := make([][]mem.VirtAddr, workers)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				addr, err := b.Alloc(16, 8)
				if err != nil {
					return
				}
				addrs[w] = append(addrs[w], addr)
			}
		}(w)
	}
	wg.Wait()

	seen := make(map[mem.VirtAddr]bool)
	for _, list := range addrs {
		for _, a := range list {
			require.False(t, seen[a], "address %v returned twice", a)
			seen[a] = true
		}
	}
	assert.Equal(t, uint64(workers*perWorker), b.Stats().Live)
}

func TestRemaining(t *testing.T) {
	b, err := New(0, 128)
	require.NoError(t, err)
	assert.Equal(t, uint64(128), b.Remaining())

	_, err = b.Alloc(28, 1)
	require.NoError(t, err)
	assert.Equal(t, uint64(100), b.Remaining())
}
