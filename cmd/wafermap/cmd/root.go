package cmd

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/cap1tan/wafermap/pkg/wafer"
	"github.com/cap1tan/wafermap/pkg/waferfile"
)

var (
	// Global flags
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "wafermap",
	Short: "Circular wafer grid maps",
	Long: `wafermap lays a rectangular die grid over a circular wafer and renders
annotated wafer maps from .wafer description files.

Examples:
  wafermap info lot7.wafer                  # Show grid information
  wafermap info --cells lot7.wafer          # List every cell
  wafermap render lot7.wafer -o lot7.html   # Interactive Leaflet map
  wafermap render lot7.wafer -o lot7.png    # Static image
  wafermap render lot7.wafer -o maps.db     # Save to a SQLite store
  wafermap inspect lot7.sexp                # Summarize a saved map
  wafermap view lot7.wafer                  # Open the interactive viewer`,
	Version:       "0.4.0",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

// logger is where the library reports skipped annotations.
func logger() *log.Logger {
	if verbose {
		return log.New(os.Stderr, "wafermap: ", 0)
	}
	return log.New(io.Discard, "", 0)
}

// loadMap parses a .wafer file and builds its map. Image paths are relative
// to the file.
func loadMap(filename string) (*wafer.Map, error) {
	parser, err := waferfile.NewParser()
	if err != nil {
		return nil, fmt.Errorf("failed to create parser: %w", err)
	}

	file, err := parser.ParseFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to parse file: %w", err)
	}

	m, err := file.Build(filepath.Dir(filename), wafer.WithLogger(logger()))
	if err != nil {
		return nil, fmt.Errorf("failed to build wafer map: %w", err)
	}
	return m, nil
}
