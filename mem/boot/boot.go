package boot

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/joshuapare/memkit/mem"
	"github.com/joshuapare/memkit/mem/frame"
	"github.com/joshuapare/memkit/mem/heap"
	"github.com/joshuapare/memkit/mem/paging"
	"github.com/joshuapare/memkit/mem/phys"
)

const (
	// DefaultHeapStart is the virtual address where the kernel heap begins.
	// Kernel-controlled policy, fixed at build time, not negotiated with
	// the boot environment.
	DefaultHeapStart mem.VirtAddr = 0x4444_4444_0000

	// DefaultHeapSize is the kernel heap size in bytes.
	DefaultHeapSize uint64 = 700 * 1024
)

var (
	// ErrAlreadyInitialized indicates a second Init for the same space.
	// The boot sequence runs exactly once; re-running it would create a
	// second mutable view of the live page tables.
	ErrAlreadyInitialized = errors.New("boot: memory core already initialized")

	// ErrHeapBootstrap indicates the heap page range could not be fully
	// mapped. Unrecoverable: the kernel cannot proceed without a heap.
	ErrHeapBootstrap = errors.New("boot: heap bootstrap failed")

	// ErrBadMemoryMap indicates a memory map that does not fit the space
	// or offers no usable frames.
	ErrBadMemoryMap = errors.New("boot: unusable memory map")
)

// Options configures the boot sequence. The zero value selects the default
// heap placement and a silent logger.
type Options struct {
	// HeapStart is the first virtual address of the heap arena.
	HeapStart mem.VirtAddr

	// HeapSize is the heap arena size in bytes.
	HeapSize uint64

	// Logger receives boot milestones. nil discards them.
	Logger *slog.Logger
}

func (o *Options) setDefaults() {
	if o.HeapStart == 0 {
		o.HeapStart = DefaultHeapStart
	}
	if o.HeapSize == 0 {
		o.HeapSize = DefaultHeapSize
	}
	if o.Logger == nil {
		o.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
}

// Kernel is the initialized memory core: translation, mapping, and the
// general allocator. All fields are wired once by Init and never replaced.
type Kernel struct {
	space  *phys.Space
	tables *paging.PageTables
	frames *frame.BootInfoAllocator
	heap   *heap.Bump
	tlb    *paging.TLB
	log    *slog.Logger
}

// Init runs the boot sequence over the given space and memory map and
// returns the live kernel handle. It must be called exactly once per space;
// a second call reports ErrAlreadyInitialized. Frame exhaustion or a
// mapping failure during the heap bootstrap is unrecoverable and reported
// as an ErrHeapBootstrap-wrapped error.
func Init(space *phys.Space, memMap mem.Map, opts Options) (*Kernel, error) {
	opts.setDefaults()
	log := opts.Logger

	if space.PageTablesAcquired() {
		return nil, ErrAlreadyInitialized
	}
	if memMap.UsableFrames() == 0 {
		return nil, fmt.Errorf("%w: no usable frames", ErrBadMemoryMap)
	}
	if uint64(memMap.MaxAddr()) > space.Size() {
		return nil, fmt.Errorf("%w: map ends at %#x, space is %#x bytes",
			ErrBadMemoryMap, uint64(memMap.MaxAddr()), space.Size())
	}

	// The heap range is checked up front so an absurd request fails as an
	// error before any page run is built or any frame is consumed.
	if opts.HeapStart+mem.VirtAddr(opts.HeapSize) < opts.HeapStart {
		return nil, fmt.Errorf("%w: heap range %s+%#x wraps the address space",
			ErrHeapBootstrap, opts.HeapStart, opts.HeapSize)
	}
	if n := mem.PageCountCovering(opts.HeapStart, opts.HeapSize); n > memMap.UsableFrames() {
		return nil, fmt.Errorf("%w: heap needs %d pages, map offers %d usable frames",
			ErrHeapBootstrap, n, memMap.UsableFrames())
	}

	frames := frame.NewBootInfo(memMap)
	log.Info("frame allocator ready",
		"regions", len(memMap), "usable_frames", frames.Total())

	// The boot handoff normally installs the root table before the kernel
	// runs; when it has not, take one frame and start from an empty table.
	if !space.HasRootTable() {
		root, err := frames.AllocFrame()
		if err != nil {
			return nil, fmt.Errorf("boot: allocating root table: %w", err)
		}
		if err := space.ZeroFrame(root); err != nil {
			return nil, err
		}
		if err := space.SetRootTable(root); err != nil {
			return nil, err
		}
		log.Info("root table installed", "frame", root.String())
	}

	tlb := paging.NewTLB()
	tables, err := paging.New(space, tlb)
	if err != nil {
		return nil, err
	}

	pages := mem.PagesCovering(opts.HeapStart, opts.HeapSize)
	if err := tables.MapRange(pages, paging.FlagPresent|paging.FlagWritable, frames); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrHeapBootstrap, err)
	}
	log.Info("heap mapped",
		"start", opts.HeapStart.String(), "size", opts.HeapSize, "pages", len(pages))

	bump, err := heap.New(opts.HeapStart, opts.HeapSize)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrHeapBootstrap, err)
	}
	log.Info("memory core initialized", "frames_used", frames.Allocated())

	return &Kernel{
		space:  space,
		tables: tables,
		frames: frames,
		heap:   bump,
		tlb:    tlb,
		log:    log,
	}, nil
}

// MustInit is Init for callers that treat any boot failure as fatal.
func MustInit(space *phys.Space, memMap mem.Map, opts Options) *Kernel {
	k, err := Init(space, memMap, opts)
	if err != nil {
		panic(fmt.Sprintf("boot: %v", err))
	}
	return k
}

// Translate resolves a virtual address to its mapped physical address,
// consulting the translation cache first. Diagnostic interface; returns
// paging.ErrUnmapped for addresses with no mapping.
func (k *Kernel) Translate(addr mem.VirtAddr) (mem.PhysAddr, error) {
	page := mem.PageContaining(addr)
	if f, ok := k.tlb.Lookup(page); ok {
		return f.Start() + mem.PhysAddr(addr.PageOffset()), nil
	}
	f, _, err := paging.TranslatePage(k.space, page)
	if err != nil {
		return 0, err
	}
	k.tlb.Insert(page, f)
	return f.Start() + mem.PhysAddr(addr.PageOffset()), nil
}

// Allocate is the global allocation entry point: size bytes aligned to
// align out of the kernel heap. Failure is an ordinary result, never a
// fault.
func (k *Kernel) Allocate(size, align uint64) (mem.VirtAddr, error) {
	return k.heap.Alloc(size, align)
}

// Deallocate releases one allocation previously returned by Allocate. The
// size and align of the original request are accepted for contract symmetry
// and ignored: the bump allocator keeps no per-allocation metadata.
func (k *Kernel) Deallocate(_ mem.VirtAddr, _, _ uint64) {
	k.heap.Dealloc()
}

// Map installs an additional virtual-to-physical mapping, drawing any
// intermediate tables from the boot frame allocator.
func (k *Kernel) Map(page mem.Page, f mem.Frame, flags paging.Flags) error {
	return k.tables.Map(page, f, flags, k.frames)
}

// Unmap removes a mapping and returns the frame it pointed at. The boot
// frame allocator never takes frames back; what the caller does with the
// frame is its own business.
func (k *Kernel) Unmap(page mem.Page) (mem.Frame, error) {
	return k.tables.Unmap(page)
}

// Frames exposes the boot frame allocator for diagnostics.
func (k *Kernel) Frames() *frame.BootInfoAllocator { return k.frames }

// Heap exposes the heap allocator for diagnostics.
func (k *Kernel) Heap() *heap.Bump { return k.heap }

// TLB exposes the translation cache for diagnostics.
func (k *Kernel) TLB() *paging.TLB { return k.tlb }

// Space exposes the physical address space.
func (k *Kernel) Space() *phys.Space { return k.space }
