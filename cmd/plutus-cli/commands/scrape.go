package commands

import (
	"fmt"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func newScrapeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "scrape [--season <year>]",
		Short: "Scrapes a season's salaries and stores the snapshot.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			season, err := a.currentSeason()
			if err != nil {
				return err
			}

			start := time.Now()
			snap, err := a.salaries.Refresh(cmd.Context(), season)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Scraped %d players from %s in %v\n",
				snap.League.PlayerCount, snap.Source, time.Since(start).Round(time.Millisecond))

			t := newTable(out)
			t.AppendHeader(table.Row{"Season", "Teams", "Players", "Total Payroll", "Median", "Over $20M"})
			t.AppendRow(table.Row{
				snap.Season,
				snap.League.TeamCount,
				snap.League.PlayerCount,
				money(snap.League.TotalPayroll),
				moneyf(snap.League.MedianSalary),
				snap.League.PlayersOver20M,
			})
			t.Render()
			return nil
		},
	}
}
