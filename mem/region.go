package mem

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/joshuapare/memkit/internal/arch"
)

// Region is one record of the boot memory map: a half-open physical range
// [Start, End) with a usability classification. Regions are immutable facts
// from the boot environment.
type Region struct {
	Start  PhysAddr `json:"start"`
	End    PhysAddr `json:"end"`
	Usable bool     `json:"usable"`
}

// FirstFrame returns the first whole frame inside the region. Region
// boundaries need not be frame-aligned; only full frames within the region
// are offered to the allocator.
func (r Region) FirstFrame() Frame {
	return Frame(r.Start.AlignedUp(arch.PageSize))
}

// FrameCount returns the number of whole frames inside the region.
func (r Region) FrameCount() uint64 {
	first := r.Start.AlignedUp(arch.PageSize)
	last := r.End.AlignedDown(arch.PageSize)
	if last <= first {
		return 0
	}
	return uint64(last-first) / arch.PageSize
}

// Contains reports whether addr lies inside the region.
func (r Region) Contains(addr PhysAddr) bool {
	return addr >= r.Start && addr < r.End
}

func (r Region) String() string {
	kind := "reserved"
	if r.Usable {
		kind = "usable"
	}
	return fmt.Sprintf("[%#x-%#x) %s", uint64(r.Start), uint64(r.End), kind)
}

// Map is the ordered memory map handed over by the boot environment.
type Map []Region

// ErrBadRegion indicates a malformed record in a parsed memory map.
var ErrBadRegion = errors.New("mem: bad memory map region")

// ParseMap decodes a memory map from its JSON interchange form: an array of
// {"start": ..., "end": ..., "usable": ...} records. Records must be
// well-formed (End > Start) and non-overlapping in ascending order.
func ParseMap(data []byte) (Map, error) {
	var m Map
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("mem: parsing memory map: %w", err)
	}
	var prevEnd PhysAddr
	for i, r := range m {
		if r.End <= r.Start {
			return nil, fmt.Errorf("%w: region %d has end %#x <= start %#x",
				ErrBadRegion, i, uint64(r.End), uint64(r.Start))
		}
		if r.Start < prevEnd {
			return nil, fmt.Errorf("%w: region %d overlaps or is out of order", ErrBadRegion, i)
		}
		prevEnd = r.End
	}
	return m, nil
}

// Usable returns the usable regions, in map order.
func (m Map) Usable() []Region {
	var out []Region
	for _, r := range m {
		if r.Usable {
			out = append(out, r)
		}
	}
	return out
}

// UsableFrames returns the total number of whole frames inside usable
// regions.
func (m Map) UsableFrames() uint64 {
	var n uint64
	for _, r := range m {
		if r.Usable {
			n += r.FrameCount()
		}
	}
	return n
}

// MaxAddr returns one past the highest physical address named by the map.
func (m Map) MaxAddr() PhysAddr {
	var max PhysAddr
	for _, r := range m {
		if r.End > max {
			max = r.End
		}
	}
	return max
}
