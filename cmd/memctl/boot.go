package main

import (
	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/joshuapare/memkit/mem/boot"
)

func init() {
	rootCmd.AddCommand(newBootCmd())
}

func addBootFlags(cmd *cobra.Command) {
	cmd.Flags().Uint64Var(&spaceSize, "space-size", 16*1024*1024,
		"Physical space size in bytes")
	cmd.Flags().Uint64Var(&heapStart, "heap-start", uint64(boot.DefaultHeapStart),
		"Heap start virtual address")
	cmd.Flags().Uint64Var(&heapSize, "heap-size", boot.DefaultHeapSize,
		"Heap size in bytes")
}

func newBootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "boot [memmap.json]",
		Short: "Run the boot sequence and report memory-core state",
		Long: `The boot command creates a simulated physical space, runs the one-shot
boot sequence over the given memory map (or the built-in demo map), and
reports frame-allocator and heap state.

Example:
  memctl boot
  memctl boot e820.json --heap-size 1048576 -v`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) == 1 {
				path = args[0]
			}
			return runBoot(path)
		},
	}
	addBootFlags(cmd)
	return cmd
}

func runBoot(path string) error {
	k, err := setupKernel(path)
	if err != nil {
		return err
	}
	defer k.Space().Close()

	hs := k.Heap().Stats()
	if jsonOut {
		return printJSON(struct {
			UsableFrames    uint64 `json:"usable_frames"`
			FramesAllocated uint64 `json:"frames_allocated"`
			FramesRemaining uint64 `json:"frames_remaining"`
			HeapStart       uint64 `json:"heap_start"`
			HeapEnd         uint64 `json:"heap_end"`
		}{
			k.Frames().Total(), k.Frames().Allocated(), k.Frames().Remaining(),
			uint64(hs.Start), uint64(hs.End),
		})
	}

	p := message.NewPrinter(language.English)
	printInfo("Boot complete.\n")
	printInfo("  Usable frames:   %s\n", p.Sprintf("%d", k.Frames().Total()))
	printInfo("  Frames consumed: %s\n", p.Sprintf("%d", k.Frames().Allocated()))
	printInfo("  Frames left:     %s\n", p.Sprintf("%d", k.Frames().Remaining()))
	printInfo("  Heap:            [%#x, %#x) (%s bytes)\n",
		uint64(hs.Start), uint64(hs.End), p.Sprintf("%d", uint64(hs.End-hs.Start)))
	return nil
}
