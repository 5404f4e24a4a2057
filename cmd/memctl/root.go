package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/joshuapare/memkit/mem"
	"github.com/joshuapare/memkit/mem/boot"
	"github.com/joshuapare/memkit/mem/phys"
)

var (
	// Global flags
	verbose bool
	quiet   bool
	jsonOut bool

	// Boot shaping flags shared by the simulating commands.
	spaceSize uint64
	heapStart uint64
	heapSize  uint64
)

var rootCmd = &cobra.Command{
	Use:   "memctl",
	Short: "Inspect memory maps and simulate the kernel memory core",
	Long: `memctl is a tool for inspecting boot memory maps and for exercising
the memory core (frame allocation, page-table mapping, address translation,
and the bump heap) against a simulated physical address space.`,
	Version: "0.1.0",
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().
		BoolVarP(&quiet, "quiet", "q", false, "Suppress all output except errors")
	rootCmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "Output in JSON format")
}

func execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// bootLogger returns the slog logger used for boot milestones: stderr text
// when verbose, discarded otherwise.
func bootLogger() *slog.Logger {
	if verbose && !quiet {
		return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
	}
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// loadMap reads a memory map from a JSON file, or returns the built-in demo
// map when path is empty.
func loadMap(path string) (mem.Map, error) {
	if path == "" {
		return demoMap(spaceSize), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading memory map: %w", err)
	}
	m, err := mem.ParseMap(data)
	if err != nil {
		return nil, err
	}
	return m, nil
}

// demoMap is the built-in map used when no file is given: a reserved low
// region, two usable regions with unaligned edges, and a reserved hole.
func demoMap(size uint64) mem.Map {
	return mem.Map{
		{Start: 0x0, End: 0x9fc00, Usable: false},
		{Start: 0x9fc00, End: 0xf0000, Usable: true},
		{Start: 0xf0000, End: 0x100000, Usable: false},
		{Start: 0x100000, End: mem.PhysAddr(size), Usable: true},
	}
}

// setupKernel builds a space sized to the map and boots the memory core.
func setupKernel(mapPath string) (*boot.Kernel, error) {
	m, err := loadMap(mapPath)
	if err != nil {
		return nil, err
	}
	size := spaceSize
	if mx := uint64(m.MaxAddr()); mx > size {
		size = mx
	}
	space, err := phys.New(size)
	if err != nil {
		return nil, err
	}
	k, err := boot.Init(space, m, boot.Options{
		HeapStart: mem.VirtAddr(heapStart),
		HeapSize:  heapSize,
		Logger:    bootLogger(),
	})
	if err != nil {
		space.Close()
		return nil, err
	}
	return k, nil
}

// printInfo prints an info message if not in quiet mode
func printInfo(format string, args ...interface{}) {
	if !quiet {
		fmt.Fprintf(os.Stdout, format, args...)
	}
}

// printVerbose prints a verbose message if verbose mode is enabled
func printVerbose(format string, args ...interface{}) {
	if verbose && !quiet {
		fmt.Fprintf(os.Stdout, format, args...)
	}
}

// printJSON outputs data as JSON
func printJSON(v interface{}) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
