package salary

import (
	"strconv"
	"time"
)

// Season identifies a salary cap year, e.g. "2025" for the 2024-25 season
type Season string

// SeasonFor returns the season in progress at t.
// The NBA season runs October to June, so October onwards belongs to next year's season.
func SeasonFor(t time.Time) Season {
	year := t.Year()
	if t.Month() >= time.October {
		year++
	}
	return Season(strconv.Itoa(year))
}

// Offset returns the season n years after s. Non-numeric seasons are returned unchanged.
func (s Season) Offset(n int) Season {
	year, err := strconv.Atoi(string(s))
	if err != nil {
		return s
	}
	return Season(strconv.Itoa(year + n))
}

// Valid reports whether s is a four-digit year
func (s Season) Valid() bool {
	if len(s) != 4 {
		return false
	}
	_, err := strconv.Atoi(string(s))
	return err == nil
}

// SeasonSalaries maps a season to the salary owed for it
type SeasonSalaries map[Season]int64

// Lookup returns the salary for season and whether the contract covers it
func (m SeasonSalaries) Lookup(season Season) (int64, bool) {
	if m == nil {
		return 0, false
	}
	amount, ok := m[season]
	return amount, ok
}

// Seasons returns the covered seasons in ascending order
func (m SeasonSalaries) Seasons() []Season {
	seasons := make([]Season, 0, len(m))
	for season := range m {
		seasons = append(seasons, season)
	}
	sortSeasons(seasons)
	return seasons
}

// Record is one player's contract as supplied by a data provider
type Record struct {
	PlayerName       string         `json:"player_name"`
	TeamAbbreviation string         `json:"team_abbr"`
	TeamName         string         `json:"team_name"`
	SalaryBySeason   SeasonSalaries `json:"salary_by_season"`
	TotalGuaranteed  int64          `json:"total_guaranteed"`
	DataSource       string         `json:"data_source,omitempty"`
}

// SalaryFor returns the record's salary for season
func (r Record) SalaryFor(season Season) (int64, bool) {
	return r.SalaryBySeason.Lookup(season)
}

// Clone returns a deep copy of r
func (r Record) Clone() Record {
	cpy := r
	if r.SalaryBySeason != nil {
		cpy.SalaryBySeason = make(SeasonSalaries, len(r.SalaryBySeason))
		for season, amount := range r.SalaryBySeason {
			cpy.SalaryBySeason[season] = amount
		}
	}
	return cpy
}

// seasonEntry pairs a record with its salary for the season under analysis
type seasonEntry struct {
	record Record
	salary int64
}

// entriesFor collects records that carry a salary for season, preserving input order
func entriesFor(records []Record, season Season) []seasonEntry {
	entries := make([]seasonEntry, 0, len(records))
	for _, record := range records {
		amount, ok := record.SalaryFor(season)
		if !ok {
			continue
		}
		entries = append(entries, seasonEntry{record: record, salary: amount})
	}
	return entries
}
