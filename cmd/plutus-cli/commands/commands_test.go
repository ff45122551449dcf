package commands

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fortuna/plutus/internal/config"
	"github.com/fortuna/plutus/internal/ingest"
	"github.com/fortuna/plutus/internal/salary"
	"github.com/fortuna/plutus/internal/salary/salarytest"
	"github.com/fortuna/plutus/internal/service"
)

type stubCollector struct {
	calls int
	err   error
}

func (s *stubCollector) Collect(_ context.Context, season salary.Season) (*ingest.Result, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return &ingest.Result{
		Season: season,
		Source: "HoopsHype",
		Records: []salary.Record{
			salarytest.Player("Stephen Curry", "GSW", "Golden State Warriors", season, 55_761_216),
			salarytest.Player("Draymond Green", "GSW", "Golden State Warriors", season, 25_806_468),
			salarytest.Player("Jayson Tatum", "BOS", "Boston Celtics", season, 34_848_340),
		},
	}, nil
}

func run(t *testing.T, collector *stubCollector, args ...string) (string, error) {
	t.Helper()

	dir := t.TempDir()
	t.Setenv("DATABASE_DSN", "sqlite://"+filepath.Join(dir, "plutus.db"))

	cmd := NewRootCmd(func(config.Config) (service.Collector, func()) {
		return collector, func() {}
	})
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs(append([]string{"--config", filepath.Join(dir, "missing.json5"), "--season", "2025"}, args...))

	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestScrape(t *testing.T) {
	collector := &stubCollector{}
	out, err := run(t, collector, "scrape")
	require.NoError(t, err)

	assert.Equal(t, 1, collector.calls)
	assert.Contains(t, out, "Scraped 3 players from HoopsHype")
	assert.Contains(t, out, "$116,416,024")
}

func TestScrapeFailure(t *testing.T) {
	_, err := run(t, &stubCollector{err: errors.New("blocked")}, "scrape")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "blocked")
}

func TestSummary(t *testing.T) {
	out, err := run(t, &stubCollector{}, "summary")
	require.NoError(t, err)

	assert.Contains(t, out, "GSW")
	assert.Contains(t, out, "$81,567,684")
	assert.Contains(t, out, "Stephen Curry ($55,761,216)")
	assert.Less(t, bytes.Index([]byte(out), []byte("GSW")), bytes.Index([]byte(out), []byte("BOS")))
}

func TestTopAndSearch(t *testing.T) {
	out, err := run(t, &stubCollector{}, "top", "--limit", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "Stephen Curry")
	assert.NotContains(t, out, "Jayson Tatum")

	out, err = run(t, &stubCollector{}, "search", "celtics")
	require.NoError(t, err)
	assert.Contains(t, out, "Jayson Tatum")

	out, err = run(t, &stubCollector{}, "search", "nobody")
	require.NoError(t, err)
	assert.Contains(t, out, `No players matching "nobody"`)
}

func TestExport(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "exports")
	out, err := run(t, &stubCollector{}, "export", "--dir", dir, "--json")
	require.NoError(t, err)
	assert.Contains(t, out, "Exported 3 players")

	for _, name := range []string{
		"GSW_Golden_State_Warriors_salaries_2025.csv",
		"BOS_Boston_Celtics_salaries_2025.csv",
		"all_nba_salaries_2025.csv",
		"team_salary_summaries_2025.csv",
		"top_100_highest_paid_2025.csv",
	} {
		_, err := os.Stat(filepath.Join(dir, name))
		assert.NoError(t, err, name)
	}

	matches, err := filepath.Glob(filepath.Join(dir, "nba_players_2025_*.json"))
	require.NoError(t, err)
	assert.Len(t, matches, 1)
}

func TestInvalidSeason(t *testing.T) {
	collector := &stubCollector{}
	cmd := NewRootCmd(func(config.Config) (service.Collector, func()) { return collector, func() {} })
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{"--no-store", "--config", "", "--season", "2024-25", "top"})

	err := cmd.ExecuteContext(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid season")
	assert.Zero(t, collector.calls)
}

func TestMoney(t *testing.T) {
	assert.Equal(t, "$55,761,216", money(55_761_216))
	assert.Equal(t, "$0", money(0))
	assert.Equal(t, "$1,000", moneyf(999.6))
}
