package salary

import "math"

// LeagueSummary holds league-wide salary statistics for one season
type LeagueSummary struct {
	Season         Season  `json:"season"`
	PlayerCount    int     `json:"player_count"`
	TeamCount      int     `json:"team_count"`
	TotalPayroll   int64   `json:"total_payroll"`
	AverageSalary  float64 `json:"average_salary"`
	MedianSalary   float64 `json:"median_salary"`
	HighestSalary  int64   `json:"highest_salary"`
	LowestSalary   int64   `json:"lowest_salary"`
	PlayersOver10M int     `json:"players_over_10m"`
	PlayersOver20M int     `json:"players_over_20m"`
	PlayersOver30M int     `json:"players_over_30m"`
	PlayersOver40M int     `json:"players_over_40m"`
}

// SummarizeLeague computes league-wide statistics for season.
// With no qualifying records it returns a zero summary for the season.
func SummarizeLeague(records []Record, season Season) LeagueSummary {
	entries := entriesFor(records, season)
	summary := LeagueSummary{Season: season}
	if len(entries) == 0 {
		return summary
	}

	salaries := make([]int64, len(entries))
	teams := make(map[string]struct{})
	summary.HighestSalary = entries[0].salary
	summary.LowestSalary = entries[0].salary
	for i, entry := range entries {
		salaries[i] = entry.salary
		teams[entry.record.TeamAbbreviation] = struct{}{}
		summary.TotalPayroll += entry.salary
		summary.HighestSalary = max(summary.HighestSalary, entry.salary)
		summary.LowestSalary = min(summary.LowestSalary, entry.salary)
	}

	summary.PlayerCount = len(salaries)
	summary.TeamCount = len(teams)
	summary.AverageSalary = float64(summary.TotalPayroll) / float64(len(salaries))
	summary.MedianSalary = Median(salaries)
	summary.PlayersOver10M = CountAbove(salaries, Threshold10M)
	summary.PlayersOver20M = CountAbove(salaries, Threshold20M)
	summary.PlayersOver30M = CountAbove(salaries, Threshold30M)
	summary.PlayersOver40M = CountAbove(salaries, Threshold40M)

	return summary
}

// DistributionBucket counts players whose salary falls in [Min, Max)
type DistributionBucket struct {
	Label      string  `json:"label"`
	Min        int64   `json:"min"`
	Max        int64   `json:"max,omitempty"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

// distributionRanges are the dashboard salary bands. math.MaxInt64 marks the open top band.
var distributionRanges = []DistributionBucket{
	{Label: "Under $5M", Min: 0, Max: 5_000_000},
	{Label: "$5M - $10M", Min: 5_000_000, Max: 10_000_000},
	{Label: "$10M - $20M", Min: 10_000_000, Max: 20_000_000},
	{Label: "$20M - $30M", Min: 20_000_000, Max: 30_000_000},
	{Label: "$30M - $40M", Min: 30_000_000, Max: 40_000_000},
	{Label: "Over $40M", Min: 40_000_000, Max: math.MaxInt64},
}

// Distribution buckets season salaries into the dashboard bands.
// Percentages are of qualifying players, rounded to one decimal.
func Distribution(records []Record, season Season) []DistributionBucket {
	entries := entriesFor(records, season)

	buckets := make([]DistributionBucket, len(distributionRanges))
	copy(buckets, distributionRanges)

	for _, entry := range entries {
		for i := range buckets {
			if entry.salary >= buckets[i].Min && entry.salary < buckets[i].Max {
				buckets[i].Count++
				break
			}
		}
	}

	for i := range buckets {
		if len(entries) > 0 {
			buckets[i].Percentage = roundTo(float64(buckets[i].Count)/float64(len(entries))*100, 1)
		}
		if buckets[i].Max == math.MaxInt64 {
			buckets[i].Max = 0
		}
	}

	return buckets
}
