package salary

import (
	"cmp"
	"slices"
	"strconv"
	"strings"
)

// FilterSpec selects records for a season view. Empty fields are inactive.
type FilterSpec struct {
	SearchText       string `json:"search_text,omitempty"`
	TeamAbbreviation string `json:"team_abbr,omitempty"`
	// SalaryRange is "X+" for a floor or "X-Y" for an inclusive range
	SalaryRange string `json:"salary_range,omitempty"`
}

// SalaryRange bounds a season salary. Max is ignored when Open is set.
type SalaryRange struct {
	Min  int64
	Max  int64
	Open bool
}

// Contains reports whether amount falls inside the range
func (r SalaryRange) Contains(amount int64) bool {
	if amount < r.Min {
		return false
	}
	return r.Open || amount <= r.Max
}

// ParseSalaryRange parses "X+" or "X-Y".
// Anything else, including non-numeric or negative bounds and X > Y, yields ok=false.
func ParseSalaryRange(expr string) (r SalaryRange, ok bool) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return SalaryRange{}, false
	}

	if floor, found := strings.CutSuffix(expr, "+"); found {
		lower, ok := parseBound(floor)
		if !ok {
			return SalaryRange{}, false
		}
		return SalaryRange{Min: lower, Open: true}, true
	}

	lo, hi, found := strings.Cut(expr, "-")
	if !found {
		return SalaryRange{}, false
	}
	lower, ok := parseBound(lo)
	if !ok {
		return SalaryRange{}, false
	}
	upper, ok := parseBound(hi)
	if !ok || lower > upper {
		return SalaryRange{}, false
	}
	return SalaryRange{Min: lower, Max: upper}, true
}

func parseBound(text string) (int64, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return 0, false
	}
	v, err := strconv.ParseInt(text, 10, 64)
	if err != nil || v < 0 {
		return 0, false
	}
	return v, true
}

// predicate is a compiled FilterSpec
type predicate struct {
	search   string
	team     string
	salary   SalaryRange
	hasRange bool
}

func compile(spec FilterSpec) predicate {
	p := predicate{
		search: strings.ToLower(spec.SearchText),
		team:   strings.TrimSpace(spec.TeamAbbreviation),
	}
	p.salary, p.hasRange = ParseSalaryRange(spec.SalaryRange)
	return p
}

func (p predicate) matches(entry seasonEntry) bool {
	if p.search != "" {
		name := strings.ToLower(entry.record.PlayerName)
		team := strings.ToLower(entry.record.TeamName)
		if !strings.Contains(name, p.search) && !strings.Contains(team, p.search) {
			return false
		}
	}
	if p.team != "" && entry.record.TeamAbbreviation != p.team {
		return false
	}
	if p.hasRange && !p.salary.Contains(entry.salary) {
		return false
	}
	return true
}

// Filter returns the records with a salary for season that satisfy every active
// predicate of the filter, ordered by season salary descending. Equal salaries keep
// their input order. The returned records are copies; records is not modified.
func Filter(records []Record, season Season, spec FilterSpec) []Record {
	p := compile(spec)

	matched := make([]seasonEntry, 0, len(records))
	for _, entry := range entriesFor(records, season) {
		if p.matches(entry) {
			matched = append(matched, entry)
		}
	}

	return sortedRecords(matched)
}

// TopPaid returns the limit best-paid players for season. limit <= 0 returns all.
func TopPaid(records []Record, season Season, limit int) []Record {
	ranked := Filter(records, season, FilterSpec{})
	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

// Search matches query against player and team names, best paid first
func Search(records []Record, season Season, query string, limit int) []Record {
	results := Filter(records, season, FilterSpec{SearchText: query})
	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	return results
}

// GroupByTeam returns each team's roster for season, best paid first
func GroupByTeam(records []Record, season Season) map[string][]Record {
	rosters := make(map[string][]Record)
	for _, group := range groupEntries(entriesFor(records, season)) {
		rosters[group.abbreviation] = sortedRecords(group.entries)
	}
	return rosters
}

func sortedRecords(entries []seasonEntry) []Record {
	owned := slices.Clone(entries)
	slices.SortStableFunc(owned, func(a, b seasonEntry) int {
		return cmp.Compare(b.salary, a.salary)
	})

	out := make([]Record, len(owned))
	for i, entry := range owned {
		out[i] = entry.record.Clone()
	}
	return out
}
