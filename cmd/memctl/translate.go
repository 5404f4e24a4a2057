package main

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/joshuapare/memkit/mem"
	"github.com/joshuapare/memkit/mem/paging"
)

func init() {
	rootCmd.AddCommand(newTranslateCmd())
}

func newTranslateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "translate <vaddr> [memmap.json]",
		Short: "Translate a virtual address after a simulated boot",
		Long: `The translate command boots the memory core and resolves the given
virtual address through the live page tables. Heap pages are the only
mappings installed at boot, so addresses inside the heap range translate and
everything else reports unmapped.

Example:
  memctl translate 0x444444440000
  memctl translate 0x444444440123 e820.json`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) == 2 {
				path = args[1]
			}
			return runTranslate(args[0], path)
		},
	}
	addBootFlags(cmd)
	return cmd
}

func runTranslate(addrArg, path string) error {
	raw, err := strconv.ParseUint(addrArg, 0, 64)
	if err != nil {
		return fmt.Errorf("bad virtual address %q: %w", addrArg, err)
	}
	vaddr := mem.VirtAddr(raw)

	k, err := setupKernel(path)
	if err != nil {
		return err
	}
	defer k.Space().Close()

	paddr, err := k.Translate(vaddr)
	switch {
	case errors.Is(err, paging.ErrUnmapped):
		if jsonOut {
			return printJSON(map[string]any{"vaddr": raw, "mapped": false})
		}
		printInfo("%v is not mapped\n", vaddr)
		return nil
	case err != nil:
		return err
	}

	if jsonOut {
		return printJSON(map[string]any{"vaddr": raw, "mapped": true, "paddr": uint64(paddr)})
	}
	printInfo("%v -> %v\n", vaddr, paddr)
	return nil
}
