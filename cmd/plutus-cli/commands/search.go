package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newSearchCmd(a *app) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Finds players whose name or team contains the query.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			season, err := a.currentSeason()
			if err != nil {
				return err
			}

			query := strings.Join(args, " ")
			players, err := a.salaries.Search(cmd.Context(), season, query, limit)
			if err != nil {
				return err
			}

			if len(players) == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "No players matching %q\n", query)
				return nil
			}
			renderPlayers(cmd.OutOrStdout(), players, season)
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 20, "maximum number of matches")
	return cmd
}
