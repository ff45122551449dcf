package bbref

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fortuna/plutus/internal/salary"
)

const fixture = `
<html><body>
<table id="contracts">
  <thead><tr><th>Rk</th><th>Player</th><th>Tm</th><th>2024-25</th><th>2025-26</th><th>2026-27</th><th>2027-28</th><th>2028-29</th><th>Guaranteed</th></tr></thead>
  <tbody>
    <tr>
      <th data-stat="ranker">1</th>
      <td data-stat="player"><a href="/players/c/curryst01.html">Stephen Curry</a></td>
      <td data-stat="team_id"><a href="/teams/GSW/2025.html">GSW</a></td>
      <td>$55,761,216</td><td>$59,606,817</td><td></td><td></td><td></td>
      <td>$115,368,033</td>
    </tr>
    <tr class="thead"><th>Rk</th><th>Player</th><th>Tm</th></tr>
    <tr>
      <th>2</th>
      <td><a href="/players/d/duranke01.html">Kevin Durant</a></td>
      <td><a href="/teams/PHO/2025.html">PHO</a></td>
      <td>$51,179,021</td><td>$54,708,609</td><td>-</td><td></td><td></td>
      <td></td>
    </tr>
    <tr>
      <th>3</th>
      <td>Unlinked Name</td>
      <td>BRK</td>
      <td>$3,000,000</td>
    </tr>
    <tr>
      <th>4</th>
      <td></td>
      <td>BOS</td>
      <td>$1,000,000</td>
    </tr>
  </tbody>
</table>
</body></html>`

func TestParse(t *testing.T) {
	records, err := Parse(fixture, "2025")
	require.NoError(t, err)
	require.Len(t, records, 3)

	curry := records[0]
	assert.Equal(t, "Stephen Curry", curry.PlayerName)
	assert.Equal(t, "GSW", curry.TeamAbbreviation)
	assert.Equal(t, "Golden State Warriors", curry.TeamName)
	assert.Equal(t, salary.SeasonSalaries{"2025": 55_761_216, "2026": 59_606_817}, curry.SalaryBySeason)
	assert.Equal(t, int64(115_368_033), curry.TotalGuaranteed)
	assert.Equal(t, SourceName, curry.DataSource)

	// blank guaranteed column falls back to the listed years
	durant := records[1]
	assert.Equal(t, "PHX", durant.TeamAbbreviation)
	assert.Equal(t, int64(51_179_021+54_708_609), durant.TotalGuaranteed)

	assert.Equal(t, "Unlinked Name", records[2].PlayerName)
	assert.Equal(t, "BKN", records[2].TeamAbbreviation)
}

func TestParseMissingTable(t *testing.T) {
	_, err := Parse(`<table id="other"></table>`, "2025")
	require.Error(t, err)
}

type pageFetcher string

func (p pageFetcher) Fetch(context.Context, string) (string, error) {
	return string(p), nil
}

func TestCollect(t *testing.T) {
	source := NewSource(pageFetcher(fixture), "")
	records, err := source.Collect(context.Background(), "2025")
	require.NoError(t, err)
	assert.Len(t, records, 3)
	assert.Equal(t, "Basketball Reference", source.Name())
}
