package salary

import (
	"cmp"
	"slices"
)

// Threshold is a salary tier cutoff
type Threshold int64

const (
	Threshold10M Threshold = 10_000_000
	Threshold20M Threshold = 20_000_000
	Threshold30M Threshold = 30_000_000
	Threshold40M Threshold = 40_000_000
)

// TeamThresholds are the tiers tracked on every TeamSummary
var TeamThresholds = []Threshold{Threshold10M, Threshold20M, Threshold30M}

// TeamSummary is the payroll picture of one team for one season.
// It is derived from records and always rebuilt wholesale.
type TeamSummary struct {
	TeamAbbreviation  string  `json:"team_abbr"`
	TeamName          string  `json:"team_name"`
	TotalPayroll      int64   `json:"total_payroll"`
	AverageSalary     float64 `json:"average_salary"`
	MedianSalary      float64 `json:"median_salary"`
	HighestPaidPlayer string  `json:"highest_paid_player"`
	HighestSalary     int64   `json:"highest_salary"`
	LowestPaidPlayer  string  `json:"lowest_paid_player"`
	LowestSalary      int64   `json:"lowest_salary"`
	PlayerCount       int     `json:"num_players"`
	PlayersOver10M    int     `json:"players_over_10m"`
	PlayersOver20M    int     `json:"players_over_20m"`
	PlayersOver30M    int     `json:"players_over_30m"`
}

// PlayersAboveThreshold returns the number of players paid strictly more than t.
// ok is false for thresholds not tracked per team.
func (s TeamSummary) PlayersAboveThreshold(t Threshold) (count int, ok bool) {
	switch t {
	case Threshold10M:
		return s.PlayersOver10M, true
	case Threshold20M:
		return s.PlayersOver20M, true
	case Threshold30M:
		return s.PlayersOver30M, true
	default:
		return 0, false
	}
}

// teamGroup accumulates a team's qualifying entries in input order
type teamGroup struct {
	abbreviation string
	name         string
	entries      []seasonEntry
}

// Aggregate builds one TeamSummary per team with at least one salary for season.
// Summaries are ordered by total payroll descending, then abbreviation ascending.
// Records without a salary for season are skipped. records is not modified.
func Aggregate(records []Record, season Season) []TeamSummary {
	groups := groupEntries(entriesFor(records, season))

	summaries := make([]TeamSummary, 0, len(groups))
	for _, group := range groups {
		summaries = append(summaries, summarizeTeam(group))
	}

	slices.SortFunc(summaries, func(a, b TeamSummary) int {
		if c := cmp.Compare(b.TotalPayroll, a.TotalPayroll); c != 0 {
			return c
		}
		return cmp.Compare(a.TeamAbbreviation, b.TeamAbbreviation)
	})

	return summaries
}

// groupEntries splits entries by team abbreviation, keeping first-seen team order
func groupEntries(entries []seasonEntry) []*teamGroup {
	byTeam := make(map[string]*teamGroup)
	order := make([]*teamGroup, 0)

	for _, entry := range entries {
		abbr := entry.record.TeamAbbreviation
		group, exists := byTeam[abbr]
		if !exists {
			group = &teamGroup{abbreviation: abbr, name: entry.record.TeamName}
			byTeam[abbr] = group
			order = append(order, group)
		}
		if group.name == "" {
			group.name = entry.record.TeamName
		}
		group.entries = append(group.entries, entry)
	}

	return order
}

func summarizeTeam(group *teamGroup) TeamSummary {
	salaries := make([]int64, len(group.entries))
	for i, entry := range group.entries {
		salaries[i] = entry.salary
	}

	highest, lowest := group.entries[0], group.entries[0]
	var total int64
	for _, entry := range group.entries {
		total += entry.salary
		// strict comparisons keep the first record on ties
		if entry.salary > highest.salary {
			highest = entry
		}
		if entry.salary < lowest.salary {
			lowest = entry
		}
	}

	return TeamSummary{
		TeamAbbreviation:  group.abbreviation,
		TeamName:          group.name,
		TotalPayroll:      total,
		AverageSalary:     float64(total) / float64(len(salaries)),
		MedianSalary:      Median(salaries),
		HighestPaidPlayer: highest.record.PlayerName,
		HighestSalary:     highest.salary,
		LowestPaidPlayer:  lowest.record.PlayerName,
		LowestSalary:      lowest.salary,
		PlayerCount:       len(salaries),
		PlayersOver10M:    CountAbove(salaries, Threshold10M),
		PlayersOver20M:    CountAbove(salaries, Threshold20M),
		PlayersOver30M:    CountAbove(salaries, Threshold30M),
	}
}
