package commands

import (
	"io"
	"math"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/fortuna/plutus/internal/salary"
)

func newTable(out io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.SetOutputMirror(out)
	return t
}

// money renders whole dollars, e.g. $55,761,216
func money(amount int64) string {
	return "$" + humanize.Comma(amount)
}

func moneyf(amount float64) string {
	return money(int64(math.Round(amount)))
}

// renderPlayers prints ranked players with their salary for season
func renderPlayers(out io.Writer, records []salary.Record, season salary.Season) {
	t := newTable(out)
	t.AppendHeader(table.Row{"#", "Player", "Team", "Salary " + string(season)})
	for i, record := range records {
		amount, _ := record.SalaryFor(season)
		t.AppendRow(table.Row{i + 1, record.PlayerName, record.TeamAbbreviation, money(amount)})
	}
	t.Render()
}
