package cmd

import (
	"fmt"
	"math"

	"github.com/spf13/cobra"

	"github.com/cap1tan/wafermap/pkg/geom"
	"github.com/cap1tan/wafermap/pkg/render"
)

var showCells bool

var infoCmd = &cobra.Command{
	Use:   "info <wafer-file>",
	Short: "Show grid information for a wafer file",
	Long: `Build the grid of a .wafer file and print its geometry and annotations.

Examples:
  wafermap info lot7.wafer
  wafermap info --cells lot7.wafer`,
	Args: cobra.ExactArgs(1),
	RunE: runInfo,
}

func init() {
	rootCmd.AddCommand(infoCmd)

	infoCmd.Flags().BoolVarP(&showCells, "cells", "c", false,
		"list every cell with its center in cartesian and polar form")
}

func runInfo(cmd *cobra.Command, args []string) error {
	m, err := loadMap(args[0])
	if err != nil {
		return err
	}
	spec := m.Spec()
	grid := m.Grid()

	fmt.Printf("Wafer: %s\n", m.Title())
	fmt.Printf("  Radius:         %.3f\n", spec.Radius)
	fmt.Printf("  Cell size:      %.3f x %.3f\n", spec.CellSize.X, spec.CellSize.Y)
	fmt.Printf("  Coverage:       %s\n", spec.Coverage)
	fmt.Printf("  Edge exclusion: %.3f\n", spec.EdgeExclusion)
	fmt.Printf("  Notch:          %.1f°\n", spec.NotchOrientation)
	fmt.Printf("  Cells:          %d\n", grid.Len())

	if lo, hi, ok := grid.Extent(); ok {
		b := grid.Bounds()
		fmt.Printf("  Index range:    %s .. %s\n", lo, hi)
		fmt.Printf("  Grid bounds:    (%.3f, %.3f) .. (%.3f, %.3f)\n", b.X.Lo, b.Y.Lo, b.X.Hi, b.Y.Hi)
	}

	fmt.Printf("\nAnnotations:\n")
	fmt.Printf("  Points:  %d\n", len(m.Points()))
	fmt.Printf("  Vectors: %d\n", len(m.Vectors()))
	fmt.Printf("  Labels:  %d\n", len(m.Labels()))
	fmt.Printf("  Images:  %d\n", len(m.Images()))

	if verbose {
		doc := m.Document()
		fmt.Printf("\nLayers:\n")
		for _, l := range doc.Layers {
			fmt.Printf("  %-15s %5d items%s\n", l.Name, len(l.Items), hiddenNote(l))
		}
	}

	if showCells {
		fmt.Printf("\nCells:\n")
		for _, c := range grid.Cells() {
			center := c.Center()
			rho, phi := geom.ToPolar(center)
			fmt.Printf("  %-12s center (%.3f, %.3f)  polar %.3f @ %.1f°\n",
				c.Index, center.X, center.Y, rho, phi*180/math.Pi)
		}
	}
	return nil
}

func hiddenNote(l *render.Layer) string {
	if l.Visible {
		return ""
	}
	return " (hidden)"
}
