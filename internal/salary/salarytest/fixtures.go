package salarytest

import "github.com/fortuna/plutus/internal/salary"

// RecordFixture creates a Record with sensible defaults for season "2025"
func RecordFixture(overrides ...func(*salary.Record)) salary.Record {
	record := salary.Record{
		PlayerName:       "Test Player",
		TeamAbbreviation: "LAL",
		TeamName:         "Los Angeles Lakers",
		SalaryBySeason:   salary.SeasonSalaries{"2025": 10_000_000},
		TotalGuaranteed:  10_000_000,
		DataSource:       "fixture",
	}

	for _, override := range overrides {
		override(&record)
	}

	return record
}

// Player creates a single-season record for player on the given team
func Player(name, abbr, teamName string, season salary.Season, amount int64) salary.Record {
	return RecordFixture(func(r *salary.Record) {
		r.PlayerName = name
		r.TeamAbbreviation = abbr
		r.TeamName = teamName
		r.SalaryBySeason = salary.SeasonSalaries{season: amount}
		r.TotalGuaranteed = amount
	})
}
