package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/fortuna/plutus/internal/export"
)

func newExportCmd(a *app) *cobra.Command {
	var (
		dir      string
		withJSON bool
	)

	cmd := &cobra.Command{
		Use:   "export [--dir <path>]",
		Short: "Writes per-team, league-wide, summary and top-100 CSV files.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			season, err := a.currentSeason()
			if err != nil {
				return err
			}

			snap, err := a.salaries.Snapshot(cmd.Context(), season, false)
			if err != nil {
				return err
			}

			files, err := export.WriteSeasonBundle(dir, season, snap.Records)
			if err != nil {
				return err
			}

			if withJSON {
				path := filepath.Join(dir, export.Filename("players", season, export.FormatJSON, time.Now()))
				if err := writeJSONFile(path, snap.Records); err != nil {
					return err
				}
				files = append(files, path)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Exported %d players to %s\n", len(snap.Records), dir)
			for _, file := range files {
				fmt.Fprintf(out, "  %s\n", file)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&dir, "dir", "exports", "output directory")
	cmd.Flags().BoolVar(&withJSON, "json", false, "also write the players as JSON")
	return cmd
}

func writeJSONFile(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	if err := export.WriteJSON(f, v); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}
