package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/cap1tan/wafermap/pkg/store"
)

var listCmd = &cobra.Command{
	Use:   "list <db-file>",
	Short: "List wafer maps saved in a SQLite store",
	Long: `List the wafers saved by "wafermap render -o <file>.db".

Examples:
  wafermap list maps.db`,
	Args: cobra.ExactArgs(1),
	RunE: runList,
}

func init() {
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	filename := args[0]
	if _, err := os.Stat(filename); err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}

	ctx := context.Background()
	s, err := store.Open(ctx, filename, store.WithLogger(logger()))
	if err != nil {
		return err
	}
	defer s.Close()

	wafers, err := s.ListWafers(ctx)
	if err != nil {
		return err
	}

	fmt.Printf("Found %d wafer(s) in %s\n", len(wafers), filename)
	for _, w := range wafers {
		fmt.Printf("  %3d  %-20s radius %.1f  cells %d  %s  %s\n",
			w.ID, w.Name, w.Radius, w.Cells, w.Coverage, w.CreatedAt.Format("2006-01-02 15:04"))
	}
	return nil
}
