package service

import (
	"time"

	"github.com/fortuna/plutus/internal/publisher"
	"github.com/fortuna/plutus/internal/salary"
)

// Origin records where a snapshot's records came from
type Origin string

const (
	OriginScrape   Origin = "scrape"
	OriginCache    Origin = "cache"
	OriginDatabase Origin = "database"
)

// Snapshot is an immutable view of one season. Callers must not modify its slices.
type Snapshot struct {
	Season   salary.Season        `json:"season"`
	Records  []salary.Record      `json:"records"`
	Teams    []salary.TeamSummary `json:"teams"`
	League   salary.LeagueSummary `json:"league"`
	Source   string               `json:"source"`
	Origin   Origin               `json:"origin"`
	LoadedAt time.Time            `json:"loaded_at"`
}

func newSnapshot(season salary.Season, records []salary.Record, source string, origin Origin, loadedAt time.Time) *Snapshot {
	if source == "" && len(records) > 0 {
		source = records[0].DataSource
	}
	return &Snapshot{
		Season:   season,
		Records:  records,
		Teams:    salary.Aggregate(records, season),
		League:   salary.SummarizeLeague(records, season),
		Source:   source,
		Origin:   origin,
		LoadedAt: loadedAt,
	}
}

// Team returns the summary for abbr
func (s *Snapshot) Team(abbr string) (salary.TeamSummary, bool) {
	for _, team := range s.Teams {
		if team.TeamAbbreviation == abbr {
			return team, true
		}
	}
	return salary.TeamSummary{}, false
}

// Event describes the snapshot for refresh subscribers
func (s *Snapshot) Event() publisher.SeasonRefreshed {
	return publisher.SeasonRefreshed{
		Season:       s.Season,
		Source:       s.Source,
		PlayerCount:  s.League.PlayerCount,
		TeamCount:    s.League.TeamCount,
		TotalPayroll: s.League.TotalPayroll,
		RefreshedAt:  s.LoadedAt,
	}
}

// SeasonStatus is the health view of a loaded season
type SeasonStatus struct {
	Season      salary.Season `json:"season"`
	Source      string        `json:"source"`
	Origin      Origin        `json:"origin"`
	PlayerCount int           `json:"player_count"`
	TeamCount   int           `json:"team_count"`
	LoadedAt    time.Time     `json:"loaded_at"`
	Stale       bool          `json:"stale"`
}

// TeamPayroll is a team's summary with its roster, best paid first
type TeamPayroll struct {
	Summary salary.TeamSummary `json:"summary"`
	Players []salary.Record    `json:"players"`
}
