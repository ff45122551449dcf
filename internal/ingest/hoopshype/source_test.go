package hoopshype

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fortuna/plutus/internal/salary"
)

const fixture = `
<html><body>
<table>
  <thead><tr><th>Player</th><th>2024/25</th><th>2025/26</th><th>2026/27</th><th>2027/28</th></tr></thead>
  <tbody>
    <tr>
      <td><img alt="Golden State Warriors" src="gsw.png"><a href="/player/stephen-curry">Stephen Curry</a></td>
      <td>$55,761,216</td><td>$59,606,817</td><td>$62,587,158</td><td></td>
    </tr>
    <tr>
      <td><img alt="Celtics" src="bos.png"><a href="/player/jaylen-brown">Jaylen Brown</a></td>
      <td>$49.2M</td><td>-</td><td>N/A</td><td>$57,129,150</td>
    </tr>
    <tr>
      <td><img alt="Seattle SuperSonics" src="sea.png"><a href="/player/ghost">Ghost Player</a></td>
      <td>$1,000,000</td><td></td><td></td><td></td>
    </tr>
    <tr>
      <td>no link</td><td>$2,000,000</td>
    </tr>
  </tbody>
</table>
</body></html>`

func TestParse(t *testing.T) {
	records, err := Parse(fixture, "2025")
	require.NoError(t, err)
	require.Len(t, records, 3)

	want := salary.Record{
		PlayerName:       "Stephen Curry",
		TeamAbbreviation: "GSW",
		TeamName:         "Golden State Warriors",
		SalaryBySeason: salary.SeasonSalaries{
			"2025": 55_761_216,
			"2026": 59_606_817,
			"2027": 62_587_158,
		},
		TotalGuaranteed: 55_761_216 + 59_606_817 + 62_587_158,
		DataSource:      SourceName,
	}
	if diff := cmp.Diff(want, records[0]); diff != "" {
		t.Errorf("curry mismatch (-want +got):\n%s", diff)
	}

	brown := records[1]
	assert.Equal(t, "BOS", brown.TeamAbbreviation)
	assert.Equal(t, salary.SeasonSalaries{"2025": 49_200_000, "2028": 57_129_150}, brown.SalaryBySeason)

	// unresolved teams are kept raw for the ingester to judge
	assert.Equal(t, "SEATTLE SUPERSONICS", records[2].TeamAbbreviation)
	assert.Empty(t, records[2].TeamName)
}

func TestParseWithoutTable(t *testing.T) {
	_, err := Parse("<html><body>blocked</body></html>", "2025")
	require.Error(t, err)
}

type stubFetcher struct {
	html string
	err  error
	urls []string
}

func (f *stubFetcher) Fetch(_ context.Context, url string) (string, error) {
	f.urls = append(f.urls, url)
	return f.html, f.err
}

func TestCollect(t *testing.T) {
	fetcher := &stubFetcher{html: fixture}
	source := NewSource(fetcher, "http://example.test/")

	records, err := source.Collect(context.Background(), "2025")
	require.NoError(t, err)
	assert.Len(t, records, 3)
	assert.Equal(t, []string{"http://example.test/salaries/players/"}, fetcher.urls)
	assert.Equal(t, "HoopsHype", source.Name())
}

func TestCollectFetchError(t *testing.T) {
	source := NewSource(&stubFetcher{err: errors.New("boom")}, "")

	_, err := source.Collect(context.Background(), "2025")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
}
