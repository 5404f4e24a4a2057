package main

import (
	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/joshuapare/memkit/mem"
)

func init() {
	rootCmd.AddCommand(newInfoCmd())
}

func newInfoCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "info [memmap.json]",
		Short: "Summarize a boot memory map",
		Long: `The info command parses a boot memory map and reports its regions and
how many whole usable frames it offers to the frame allocator. With no file
argument the built-in demo map is used.

Example:
  memctl info e820.json
  memctl info e820.json --json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) == 1 {
				path = args[0]
			}
			return runInfo(path)
		},
	}
	cmd.Flags().Uint64Var(&spaceSize, "space-size", 16*1024*1024,
		"Physical space size in bytes for the demo map")
	return cmd
}

func runInfo(path string) error {
	if path == "" {
		printVerbose("No map file given, using the built-in demo map\n")
	} else {
		printVerbose("Parsing memory map: %s\n", path)
	}

	m, err := loadMap(path)
	if err != nil {
		return err
	}

	if jsonOut {
		return printJSON(struct {
			Regions      mem.Map `json:"regions"`
			UsableFrames uint64  `json:"usable_frames"`
			UsableBytes  uint64  `json:"usable_bytes"`
		}{m, m.UsableFrames(), m.UsableFrames() * 4096})
	}

	p := message.NewPrinter(language.English)
	printInfo("Memory map (%d regions):\n", len(m))
	for _, r := range m {
		printInfo("  %s", r.String())
		if r.Usable {
			printInfo("  (%s frames)", p.Sprintf("%d", r.FrameCount()))
		}
		printInfo("\n")
	}
	printInfo("\nUsable frames: %s (%s bytes)\n",
		p.Sprintf("%d", m.UsableFrames()),
		p.Sprintf("%d", m.UsableFrames()*4096))
	return nil
}
