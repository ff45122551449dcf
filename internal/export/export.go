// Package export writes salary data as CSV and JSON files.
package export

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/fortuna/plutus/internal/salary"
)

// PlayersHeader is the header row of every player CSV
const PlayersHeader = "Player Name,Team,Team Name,Salary,Total Guaranteed"

// SummariesHeader is the header row of the team summary CSV
const SummariesHeader = "Team,Team Name,Total Payroll,Average Salary,Median Salary," +
	"Highest Paid Player,Highest Salary,Lowest Paid Player,Lowest Salary," +
	"Players,Players Over 10M,Players Over 20M,Players Over 30M"

// TopPlayersLimit caps the top earners file in a season bundle
const TopPlayersLimit = 100

// Format is an export file format
type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
)

// ParseFormat accepts "csv" or "json" in any case
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatCSV, FormatJSON:
		return f, nil
	default:
		return "", fmt.Errorf("unsupported export format %q", s)
	}
}

// ContentType returns the HTTP content type for f
func (f Format) ContentType() string {
	if f == FormatJSON {
		return "application/json"
	}
	return "text/csv; charset=utf-8"
}

// quote wraps s in double quotes, doubling embedded quotes
func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

// WritePlayersCSV writes one row per record that has a salary for season, in the given order.
// Strings are always quoted, numbers are raw and lines end in \n.
func WritePlayersCSV(w io.Writer, records []salary.Record, season salary.Season) error {
	bw := bufio.NewWriter(w)

	if _, err := bw.WriteString(PlayersHeader + "\n"); err != nil {
		return err
	}

	for _, record := range records {
		amount, ok := record.SalaryFor(season)
		if !ok {
			continue
		}
		line := strings.Join([]string{
			quote(record.PlayerName),
			quote(record.TeamAbbreviation),
			quote(record.TeamName),
			strconv.FormatInt(amount, 10),
			strconv.FormatInt(record.TotalGuaranteed, 10),
		}, ",")
		if _, err := bw.WriteString(line + "\n"); err != nil {
			return err
		}
	}

	return bw.Flush()
}

// WriteSummariesCSV writes one row per team summary
func WriteSummariesCSV(w io.Writer, summaries []salary.TeamSummary) error {
	bw := bufio.NewWriter(w)

	if _, err := bw.WriteString(SummariesHeader + "\n"); err != nil {
		return err
	}

	for _, s := range summaries {
		line := strings.Join([]string{
			quote(s.TeamAbbreviation),
			quote(s.TeamName),
			strconv.FormatInt(s.TotalPayroll, 10),
			formatFloat(s.AverageSalary),
			formatFloat(s.MedianSalary),
			quote(s.HighestPaidPlayer),
			strconv.FormatInt(s.HighestSalary, 10),
			quote(s.LowestPaidPlayer),
			strconv.FormatInt(s.LowestSalary, 10),
			strconv.Itoa(s.PlayerCount),
			strconv.Itoa(s.PlayersOver10M),
			strconv.Itoa(s.PlayersOver20M),
			strconv.Itoa(s.PlayersOver30M),
		}, ",")
		if _, err := bw.WriteString(line + "\n"); err != nil {
			return err
		}
	}

	return bw.Flush()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// WriteJSON writes v as indented JSON
func WriteJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// Filename builds a timestamped export name such as nba_players_2025_20250101_120000.csv
func Filename(kind string, season salary.Season, format Format, at time.Time) string {
	return fmt.Sprintf("nba_%s_%s_%s.%s", kind, season, at.Format("20060102_150405"), format)
}

// WriteSeasonBundle writes per-team rosters, the full player list, team summaries and
// the top earners for season into dir. It returns the files written.
func WriteSeasonBundle(dir string, season salary.Season, records []salary.Record) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create export dir: %w", err)
	}

	var written []string
	write := func(name string, fn func(io.Writer) error) error {
		path := filepath.Join(dir, name)
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("create %s: %w", name, err)
		}
		if err := fn(f); err != nil {
			f.Close()
			return fmt.Errorf("write %s: %w", name, err)
		}
		if err := f.Close(); err != nil {
			return fmt.Errorf("close %s: %w", name, err)
		}
		written = append(written, path)
		return nil
	}

	rosters := salary.GroupByTeam(records, season)
	abbrs := make([]string, 0, len(rosters))
	for abbr := range rosters {
		abbrs = append(abbrs, abbr)
	}
	slices.Sort(abbrs)

	for _, abbr := range abbrs {
		roster := rosters[abbr]
		teamName := strings.ReplaceAll(roster[0].TeamName, " ", "_")
		name := fmt.Sprintf("%s_%s_salaries_%s.csv", abbr, teamName, season)
		err := write(name, func(w io.Writer) error {
			return WritePlayersCSV(w, roster, season)
		})
		if err != nil {
			return written, err
		}
	}

	steps := []struct {
		name string
		fn   func(io.Writer) error
	}{
		{fmt.Sprintf("all_nba_salaries_%s.csv", season), func(w io.Writer) error {
			return WritePlayersCSV(w, records, season)
		}},
		{fmt.Sprintf("team_salary_summaries_%s.csv", season), func(w io.Writer) error {
			return WriteSummariesCSV(w, salary.Aggregate(records, season))
		}},
		{fmt.Sprintf("top_%d_highest_paid_%s.csv", TopPlayersLimit, season), func(w io.Writer) error {
			return WritePlayersCSV(w, salary.TopPaid(records, season, TopPlayersLimit), season)
		}},
	}
	for _, step := range steps {
		if err := write(step.name, step.fn); err != nil {
			return written, err
		}
	}

	return written, nil
}
