package main

import (
	"github.com/spf13/cobra"

	"github.com/joshuapare/memkit/mem"
)

func init() {
	rootCmd.AddCommand(newAllocDemoCmd())
}

func newAllocDemoCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "alloc-demo [memmap.json]",
		Short: "Boot and run a scripted bump-allocator scenario",
		Long: `The alloc-demo command boots the memory core and walks the heap through
an allocate/release script, printing the returned addresses and arena state
after each step. Useful for seeing bump allocation and bulk reclamation in
action.

Example:
  memctl alloc-demo -v`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) == 1 {
				path = args[0]
			}
			return runAllocDemo(path)
		},
	}
	addBootFlags(cmd)
	return cmd
}

func runAllocDemo(path string) error {
	k, err := setupKernel(path)
	if err != nil {
		return err
	}
	defer k.Space().Close()

	steps := []struct {
		size  uint64
		align uint64
	}{
		{size: 10, align: 1},
		{size: 20, align: 8},
		{size: 4096, align: 4096},
		{size: 1, align: 64},
	}

	var addrs []mem.VirtAddr
	for _, st := range steps {
		addr, err := k.Allocate(st.size, st.align)
		if err != nil {
			printInfo("alloc(size=%d, align=%d) -> %v\n", st.size, st.align, err)
			continue
		}
		addrs = append(addrs, addr)
		hs := k.Heap().Stats()
		printInfo("alloc(size=%d, align=%d) -> %v  (next=%#x live=%d)\n",
			st.size, st.align, addr, uint64(hs.Next), hs.Live)
	}

	for _, addr := range addrs {
		k.Deallocate(addr, 0, 0)
	}
	hs := k.Heap().Stats()
	printInfo("released all: next=%#x live=%d (reset to start=%v)\n",
		uint64(hs.Next), hs.Live, hs.Next == hs.Start)

	// One more allocation lands back at the start of the arena.
	addr, err := k.Allocate(5, 1)
	if err != nil {
		return err
	}
	printInfo("alloc(size=5, align=1) -> %v (bulk reclamation)\n", addr)
	k.Deallocate(addr, 5, 1)
	return nil
}
