// Package hoopshype scrapes the HoopsHype player salary table.
package hoopshype

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/fortuna/plutus/internal/ingest/scrape"
	"github.com/fortuna/plutus/internal/salary"
	"github.com/fortuna/plutus/internal/teams"
)

const (
	// BaseURL of the site
	BaseURL = "https://hoopshype.com"

	// SourceName is stamped on every record as its data source
	SourceName = "HoopsHype"

	salariesPath = "/salaries/players/"

	// maxContractYears is the number of season columns read per row
	maxContractYears = 4
)

// Source reads every player's contract from the league-wide salary page
type Source struct {
	fetcher scrape.Fetcher
	baseURL string
}

// NewSource creates a HoopsHype source. An empty baseURL uses BaseURL.
func NewSource(fetcher scrape.Fetcher, baseURL string) *Source {
	if baseURL == "" {
		baseURL = BaseURL
	}
	return &Source{fetcher: fetcher, baseURL: strings.TrimSuffix(baseURL, "/")}
}

// Name identifies the source in logs and snapshots
func (s *Source) Name() string {
	return SourceName
}

// Collect fetches the salary page and parses it for season
func (s *Source) Collect(ctx context.Context, season salary.Season) ([]salary.Record, error) {
	url := s.baseURL + salariesPath
	log.Printf("Fetching HoopsHype salaries from %s", url)

	html, err := s.fetcher.Fetch(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("fetch hoopshype salaries: %w", err)
	}

	return Parse(html, season)
}

// Parse extracts records from the salary table. The first column holds the
// player link and team logo; the next four hold seasons S through S+3.
func Parse(html string, season salary.Season) ([]salary.Record, error) {
	doc, err := scrape.ParseHTML(html)
	if err != nil {
		return nil, err
	}

	table := doc.Find("table").First()
	if table.Length() == 0 {
		return nil, fmt.Errorf("hoopshype: salary table not found")
	}

	records := make([]salary.Record, 0)
	table.Find("tr").Each(func(i int, row *goquery.Selection) {
		if row.Find("th").Length() > 0 && row.Find("td").Length() == 0 {
			return // header
		}

		record, ok := parseRow(row, season)
		if ok {
			records = append(records, record)
		}
	})

	log.Printf("✓ HoopsHype: parsed %d players", len(records))
	return records, nil
}

func parseRow(row *goquery.Selection, season salary.Season) (salary.Record, bool) {
	cells := row.Find("td")

	// rank columns come before the player cell on some layouts
	playerIdx := -1
	cells.EachWithBreak(func(i int, cell *goquery.Selection) bool {
		if cell.Find("a").Length() > 0 {
			playerIdx = i
			return false
		}
		return true
	})
	if playerIdx < 0 {
		return salary.Record{}, false
	}

	playerCell := cells.Eq(playerIdx)
	name := strings.TrimSpace(playerCell.Find("a").First().Text())
	if name == "" {
		return salary.Record{}, false
	}

	record := salary.Record{
		PlayerName:     name,
		SalaryBySeason: make(salary.SeasonSalaries),
		DataSource:     SourceName,
	}
	record.TeamAbbreviation, record.TeamName = teamOf(row, playerCell)

	for year := 0; year < maxContractYears; year++ {
		idx := playerIdx + 1 + year
		if idx >= cells.Length() {
			break
		}
		amount := scrape.ParseAmount(cells.Eq(idx).Text())
		if amount <= 0 {
			continue
		}
		record.SalaryBySeason[season.Offset(year)] = amount
		record.TotalGuaranteed += amount
	}

	return record, true
}

// teamOf reads the team from the logo alt text, falling back to a team cell
func teamOf(row, playerCell *goquery.Selection) (abbr, name string) {
	candidates := make([]string, 0, 3)
	if alt, ok := playerCell.Find("img").First().Attr("alt"); ok {
		candidates = append(candidates, alt)
	}
	if dataTeam, ok := row.Attr("data-team"); ok {
		candidates = append(candidates, dataTeam)
	}
	if cell := row.Find("td.team, td[data-stat='team']"); cell.Length() > 0 {
		candidates = append(candidates, cell.First().Text())
	}

	for _, candidate := range candidates {
		if team, ok := teams.Resolve(candidate); ok {
			return team.Abbreviation, team.FullName
		}
	}

	if len(candidates) > 0 {
		return strings.ToUpper(strings.TrimSpace(candidates[0])), ""
	}
	return "", ""
}
