package export

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fortuna/plutus/internal/salary"
	"github.com/fortuna/plutus/internal/salary/salarytest"
)

func TestWritePlayersCSVIsExact(t *testing.T) {
	records := []salary.Record{
		salarytest.RecordFixture(func(r *salary.Record) {
			r.PlayerName = "Stephen Curry"
			r.TeamAbbreviation = "GSW"
			r.TeamName = "Golden State Warriors"
			r.SalaryBySeason = salary.SeasonSalaries{"2025": 55_761_216, "2026": 59_606_817}
			r.TotalGuaranteed = 115_368_033
		}),
		salarytest.Player(`Dennis "The Worm" Rodman`, "CHI", "Chicago Bulls", "2025", 1_000_000),
		// no 2025 salary, skipped
		salarytest.Player("Future Guy", "BOS", "Boston Celtics", "2026", 5_000_000),
		salarytest.Player("Comma, Name", "LAC", "LA Clippers", "2025", 2_500_000),
	}

	var buf bytes.Buffer
	require.NoError(t, WritePlayersCSV(&buf, records, "2025"))

	want := "Player Name,Team,Team Name,Salary,Total Guaranteed\n" +
		`"Stephen Curry","GSW","Golden State Warriors",55761216,115368033` + "\n" +
		`"Dennis ""The Worm"" Rodman","CHI","Chicago Bulls",1000000,1000000` + "\n" +
		`"Comma, Name","LAC","LA Clippers",2500000,2500000` + "\n"
	assert.Equal(t, want, buf.String())
}

func TestWritePlayersCSVEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WritePlayersCSV(&buf, nil, "2025"))
	assert.Equal(t, PlayersHeader+"\n", buf.String())
}

func TestWriteSummariesCSV(t *testing.T) {
	summaries := salary.Aggregate([]salary.Record{
		salarytest.Player("A", "TMX", "TeamX", "2025", 10_000_000),
		salarytest.Player("B", "TMX", "TeamX", "2025", 20_000_001),
	}, "2025")

	var buf bytes.Buffer
	require.NoError(t, WriteSummariesCSV(&buf, summaries))

	want := SummariesHeader + "\n" +
		`"TMX","TeamX",30000001,15000000.5,15000000.5,"B",20000001,"A",10000000,2,1,1,0` + "\n"
	assert.Equal(t, want, buf.String())
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat(" CSV ")
	require.NoError(t, err)
	assert.Equal(t, FormatCSV, f)
	assert.Equal(t, "application/json", FormatJSON.ContentType())

	_, err = ParseFormat("xlsx")
	assert.Error(t, err)
}

func TestFilename(t *testing.T) {
	at := time.Date(2025, time.March, 4, 5, 6, 7, 0, time.UTC)
	assert.Equal(t, "nba_players_2025_20250304_050607.csv", Filename("players", "2025", FormatCSV, at))
}

func TestWriteSeasonBundle(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "bundle")
	records := []salary.Record{
		salarytest.Player("A", "LAL", "Los Angeles Lakers", "2025", 10_000_000),
		salarytest.Player("B", "LAL", "Los Angeles Lakers", "2025", 30_000_000),
		salarytest.Player("C", "BOS", "Boston Celtics", "2025", 20_000_000),
	}

	files, err := WriteSeasonBundle(dir, "2025", records)
	require.NoError(t, err)

	names := make([]string, len(files))
	for i, f := range files {
		names[i] = filepath.Base(f)
	}
	assert.Equal(t, []string{
		"BOS_Boston_Celtics_salaries_2025.csv",
		"LAL_Los_Angeles_Lakers_salaries_2025.csv",
		"all_nba_salaries_2025.csv",
		"team_salary_summaries_2025.csv",
		"top_100_highest_paid_2025.csv",
	}, names)

	lakers, err := os.ReadFile(filepath.Join(dir, "LAL_Los_Angeles_Lakers_salaries_2025.csv"))
	require.NoError(t, err)
	assert.Equal(t, PlayersHeader+"\n"+
		`"B","LAL","Los Angeles Lakers",30000000,30000000`+"\n"+
		`"A","LAL","Los Angeles Lakers",10000000,10000000`+"\n", string(lakers))
}
