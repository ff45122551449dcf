package commands

import (
	"github.com/spf13/cobra"
)

func newTopCmd(a *app) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "top [--limit <n>]",
		Short: "Lists the highest paid players.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			season, err := a.currentSeason()
			if err != nil {
				return err
			}

			players, err := a.salaries.TopPaid(cmd.Context(), season, limit)
			if err != nil {
				return err
			}

			renderPlayers(cmd.OutOrStdout(), players, season)
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 10, "number of players to list")
	return cmd
}
