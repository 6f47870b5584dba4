package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cap1tan/wafermap/pkg/render"
	"github.com/cap1tan/wafermap/pkg/render/htmlmap"
	"github.com/cap1tan/wafermap/pkg/render/raster"
	"github.com/cap1tan/wafermap/pkg/render/sexpmap"
	"github.com/cap1tan/wafermap/pkg/store"
)

var (
	outputPath   string
	outputFormat string
)

var renderCmd = &cobra.Command{
	Use:   "render <wafer-file>",
	Short: "Render a wafer map to HTML, PNG, s-expression or SQLite",
	Long: `Render a .wafer file. The format follows the output extension unless
--format is given:

  .html          Leaflet page (the .html extension is always enforced)
  .png           static image, labels shown
  .sexp          s-expression document, readable by "wafermap inspect"
  .db, .sqlite   appended to a SQLite store, see "wafermap list"

Examples:
  wafermap render lot7.wafer
  wafermap render lot7.wafer -o out/lot7.png
  wafermap render lot7.wafer -o maps.db`,
	Args: cobra.ExactArgs(1),
	RunE: runRender,
}

func init() {
	rootCmd.AddCommand(renderCmd)

	renderCmd.Flags().StringVarP(&outputPath, "output", "o", "",
		"output file (default: input name with .html)")
	renderCmd.Flags().StringVarP(&outputFormat, "format", "f", "",
		"output format: html, png, sexp or db")
}

// formatFor picks the output format from the flag or the file extension.
func formatFor(path, format string) (string, error) {
	if format != "" {
		switch f := strings.ToLower(format); f {
		case "html", "png", "sexp", "db":
			return f, nil
		}
		return "", fmt.Errorf("unknown format %q", format)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm":
		return "html", nil
	case ".png":
		return "png", nil
	case ".sexp":
		return "sexp", nil
	case ".db", ".sqlite":
		return "db", nil
	}
	return "", fmt.Errorf("cannot infer format from %q, use --format", path)
}

func runRender(cmd *cobra.Command, args []string) error {
	filename := args[0]

	out := outputPath
	if out == "" {
		out = strings.TrimSuffix(filename, filepath.Ext(filename)) + ".html"
	}
	format, err := formatFor(out, outputFormat)
	if err != nil {
		return err
	}
	if format == "html" && !strings.EqualFold(filepath.Ext(out), ".html") {
		out += ".html"
	}

	if verbose {
		fmt.Printf("Loading wafer: %s\n", filename)
	}
	m, err := loadMap(filename)
	if err != nil {
		return err
	}
	doc := m.Document()

	if format == "db" {
		s, err := store.Open(context.Background(), out, store.WithLogger(logger()))
		if err != nil {
			return err
		}
		defer s.Close()
		id, err := s.SaveGrid(context.Background(), m.Title(), m.Grid(), doc)
		if err != nil {
			return err
		}
		fmt.Printf("✓ Saved %q to %s as wafer %d (%d cells)\n", m.Title(), out, id, m.Grid().Len())
		return nil
	}

	encoders := map[string]render.Encoder{
		"html": htmlmap.NewEncoder(),
		"png":  raster.NewEncoder(),
		"sexp": sexpmap.NewEncoder(),
	}
	if err := writeFile(out, encoders[format], doc); err != nil {
		return err
	}
	fmt.Printf("✓ Wrote %s (%s, %d cells)\n", out, format, m.Grid().Len())
	return nil
}

func writeFile(path string, enc render.Encoder, doc *render.Document) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output: %w", err)
	}
	w := bufio.NewWriter(f)
	if err := enc.Encode(w, doc); err != nil {
		f.Close()
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return f.Close()
}
