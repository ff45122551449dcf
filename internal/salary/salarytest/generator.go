// Package salarytest builds reproducible salary fixtures for tests and demos.
package salarytest

import (
	"fmt"
	"math/rand/v2"

	"github.com/fortuna/plutus/internal/salary"
	"github.com/fortuna/plutus/internal/teams"
)

var firstNames = []string{
	"Marcus", "Andre", "Jalen", "Tyrese", "Darius", "Malik", "Devin", "Isaiah",
	"Cameron", "Jordan", "Trey", "Kendall", "Rashad", "Elijah", "Zion", "Luka",
}

var lastNames = []string{
	"Williams", "Johnson", "Brown", "Davis", "Mitchell", "Harris", "Robinson", "Walker",
	"Thompson", "Carter", "Bridges", "Holmes", "Porter", "Murray", "Green", "Allen",
}

// tier is a salary band with a relative draw weight
type tier struct {
	weight int
	min    int64
	max    int64
}

// tiers skew toward rookie and mid-level deals like a real league
var tiers = []tier{
	{weight: 40, min: 1_100_000, max: 5_000_000},
	{weight: 25, min: 5_000_000, max: 12_000_000},
	{weight: 18, min: 12_000_000, max: 25_000_000},
	{weight: 12, min: 25_000_000, max: 40_000_000},
	{weight: 5, min: 40_000_000, max: 55_000_000},
}

// Generator produces deterministic salary records from a seed
type Generator struct {
	rng *rand.Rand
}

// New returns a Generator; the same seed always yields the same records
func New(seed uint64) *Generator {
	return &Generator{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// Records generates perTeam contracts for every team, starting at season.
// Each contract covers 1-4 seasons and guaranteed money is the sum of those years.
func (g *Generator) Records(season salary.Season, perTeam int) []salary.Record {
	all := teams.All()
	records := make([]salary.Record, 0, len(all)*perTeam)

	for _, team := range all {
		for i := 0; i < perTeam; i++ {
			records = append(records, g.record(season, team))
		}
	}

	return records
}

// Record generates a single contract for team
func (g *Generator) Record(season salary.Season, team teams.Team) salary.Record {
	return g.record(season, team)
}

func (g *Generator) record(season salary.Season, team teams.Team) salary.Record {
	name := fmt.Sprintf("%s %s",
		firstNames[g.rng.IntN(len(firstNames))],
		lastNames[g.rng.IntN(len(lastNames))],
	)

	base := g.salary()
	years := 1 + g.rng.IntN(4)

	bySeason := make(salary.SeasonSalaries, years)
	var guaranteed int64
	for y := 0; y < years; y++ {
		// 5% annual raises, rounded to the dollar
		amount := base + base*int64(y)*5/100
		bySeason[season.Offset(y)] = amount
		guaranteed += amount
	}

	return salary.Record{
		PlayerName:       name,
		TeamAbbreviation: team.Abbreviation,
		TeamName:         team.FullName,
		SalaryBySeason:   bySeason,
		TotalGuaranteed:  guaranteed,
		DataSource:       "generated",
	}
}

func (g *Generator) salary() int64 {
	total := 0
	for _, t := range tiers {
		total += t.weight
	}

	pick := g.rng.IntN(total)
	for _, t := range tiers {
		if pick < t.weight {
			return t.min + g.rng.Int64N(t.max-t.min)
		}
		pick -= t.weight
	}
	return tiers[0].min
}
