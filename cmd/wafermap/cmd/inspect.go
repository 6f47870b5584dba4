package cmd

import (
	"bytes"
	"fmt"
	"os"
	"sort"

	"github.com/chewxy/sexp"
	"github.com/spf13/cobra"

	"github.com/cap1tan/wafermap/pkg/render"
	"github.com/cap1tan/wafermap/pkg/render/sexpmap"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <sexp-file>",
	Short: "Summarize a wafer map saved as an s-expression",
	Long: `Read a .sexp file written by "wafermap render" and print its wafer
parameters, layers and primitive counts.

Examples:
  wafermap inspect lot7.sexp`,
	Args: cobra.ExactArgs(1),
	RunE: runInspect,
}

func init() {
	rootCmd.AddCommand(inspectCmd)
}

func runInspect(cmd *cobra.Command, args []string) error {
	filename := args[0]

	data, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}

	if verbose {
		fmt.Printf("File size: %d bytes\n", len(data))
		// Generic s-expression statistics, independent of the wafermap schema
		if sexps, err := sexp.ParseString(string(data)); err != nil {
			fmt.Printf("Generic parse failed: %v\n", err)
		} else {
			leaves := 0
			for _, s := range sexps {
				if s.IsLeaf() {
					leaves++
				} else {
					leaves += s.LeafCount()
				}
			}
			fmt.Printf("S-expressions: %d, leaves: %d\n", len(sexps), leaves)
		}
	}

	doc, err := sexpmap.Decode(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("failed to decode wafer map: %w", err)
	}

	fmt.Printf("Wafer map: %s\n", doc.Title)
	fmt.Printf("  Radius:         %.3f\n", doc.Radius)
	fmt.Printf("  Edge exclusion: %.3f\n", doc.EdgeExclusion)
	fmt.Printf("  Notch:          %.1f°\n", doc.NotchOrientation)
	fmt.Printf("  Background:     %s\n", doc.Background)

	fmt.Printf("\nLayers:\n")
	for _, l := range doc.Layers {
		fmt.Printf("  %-15s %5d items%s\n", l.Name, len(l.Items), hiddenNote(l))
	}

	counts := doc.Count()
	kinds := make([]render.Kind, 0, len(counts))
	for k := range counts {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })

	fmt.Printf("\nPrimitives:\n")
	for _, k := range kinds {
		fmt.Printf("  %-10s %d\n", k, counts[k])
	}
	return nil
}
