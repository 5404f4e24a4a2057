// Package testutil provides shared fixtures for memory-core tests: physical
// spaces with cleanup wired in, memory maps with deliberately awkward region
// boundaries, and fully booted kernels.
package testutil

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/joshuapare/memkit/mem"
	"github.com/joshuapare/memkit/mem/boot"
	"github.com/joshuapare/memkit/mem/phys"
)

// DefaultSpaceSize comfortably fits the default heap plus page tables.
const DefaultSpaceSize = 16 * 1024 * 1024

// NewSpace creates a physical space and releases it when the test ends.
func NewSpace(t *testing.T, size uint64) *phys.Space {
	t.Helper()
	s, err := phys.New(size)
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, s.Close())
	})
	return s
}

// DemoMap builds a memory map covering a space of the given size, shaped
// like a small machine's firmware report: a reserved low region, a usable
// region with unaligned boundaries, a reserved hole, and a large usable
// remainder.
func DemoMap(spaceSize uint64) mem.Map {
	if spaceSize < 1024*1024 {
		panic("testutil: demo map needs at least 1 MiB")
	}
	return mem.Map{
		{Start: 0x0, End: 0x9fc00, Usable: false},
		{Start: 0x9fc00, End: 0xf0000, Usable: true},
		{Start: 0xf0000, End: 0x100000, Usable: false},
		{Start: 0x100000, End: mem.PhysAddr(spaceSize), Usable: true},
	}
}

// Boot creates a default-sized space with the demo map and runs the boot
// sequence over it.
func Boot(t *testing.T) *boot.Kernel {
	t.Helper()
	s := NewSpace(t, DefaultSpaceSize)
	k, err := boot.Init(s, DemoMap(DefaultSpaceSize), boot.Options{})
	require.NoError(t, err)
	return k
}
