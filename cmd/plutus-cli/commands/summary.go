package commands

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func newSummaryCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Prints every team's payroll summary, highest payroll first.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			season, err := a.currentSeason()
			if err != nil {
				return err
			}

			summaries, err := a.salaries.TeamSummaries(cmd.Context(), season)
			if err != nil {
				return err
			}

			t := newTable(cmd.OutOrStdout())
			t.AppendHeader(table.Row{"#", "Team", "Payroll", "Players", "Average", "Median", "Highest Paid", "Over $20M"})
			for i, team := range summaries {
				t.AppendRow(table.Row{
					i + 1,
					team.TeamAbbreviation,
					money(team.TotalPayroll),
					team.PlayerCount,
					moneyf(team.AverageSalary),
					moneyf(team.MedianSalary),
					fmt.Sprintf("%s (%s)", team.HighestPaidPlayer, money(team.HighestSalary)),
					team.PlayersOver20M,
				})
			}
			t.Render()
			return nil
		},
	}
}
