// Package bbref scrapes the Basketball-Reference player contracts table.
package bbref

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
	BaseURL = "https://www.basketball-reference.com"

	// SourceName is stamped on every record as its data source
	SourceName = "Basketball Reference"

	contractsPath = "/contracts/players.html"

	// column layout: rank, player, team, four seasons, ..., guaranteed
	playerCol    = 1
	teamCol      = 2
	firstYearCol = 3
	contractYrs  = 4
	// rows wider than this carry a trailing guaranteed column
	minGuaranteedCols = 8
)

// Source reads the contracts table
type Source struct {
	fetcher scrape.Fetcher
	baseURL string
}

// NewSource creates a Basketball-Reference source. An empty baseURL uses BaseURL.
func NewSource(fetcher scrape.Fetcher, baseURL string) *Source {
	if baseURL == "" {
		baseURL = BaseURL
	}
	return &Source{fetcher: fetcher, baseURL: strings.TrimSuffix(baseURL, "/")}
}

func (s *Source) Name() string {
	return SourceName
}

// Collect fetches the contracts page and parses it for season
func (s *Source) Collect(ctx context.Context, season salary.Season) ([]salary.Record, error) {
	url := s.baseURL + contractsPath
	log.Printf("Fetching Basketball-Reference contracts from %s", url)

	html, err := s.fetcher.Fetch(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("fetch bbref contracts: %w", err)
	}

	return Parse(html, season)
}

// Parse extracts records from table#contracts
func Parse(html string, season salary.Season) ([]salary.Record, error) {
	doc, err := scrape.ParseHTML(html)
	if err != nil {
		return nil, err
	}

	table := doc.Find("table#contracts")
	if table.Length() == 0 {
		return nil, fmt.Errorf("bbref: contracts table not found")
	}

	records := make([]salary.Record, 0)
	table.Find("tbody tr").Each(func(i int, row *goquery.Selection) {
		// repeated header rows inside tbody
		if row.HasClass("thead") || row.HasClass("over_header") {
			return
		}

		record, ok := parseRow(row, season)
		if ok {
			records = append(records, record)
		}
	})

	log.Printf("✓ Basketball-Reference: parsed %d players", len(records))
	return records, nil
}

func parseRow(row *goquery.Selection, season salary.Season) (salary.Record, bool) {
	cells := row.Find("th, td")
	if cells.Length() < firstYearCol+1 {
		return salary.Record{}, false
	}

	name := cellText(cells.Eq(playerCol))
	if name == "" {
		return salary.Record{}, false
	}

	record := salary.Record{
		PlayerName:     name,
		SalaryBySeason: make(salary.SeasonSalaries),
		DataSource:     SourceName,
	}

	teamText := cellText(cells.Eq(teamCol))
	if team, ok := teams.Resolve(teamText); ok {
		record.TeamAbbreviation = team.Abbreviation
		record.TeamName = team.FullName
	} else {
		record.TeamAbbreviation = strings.ToUpper(teamText)
	}

	var listed int64
	for year := 0; year < contractYrs; year++ {
		idx := firstYearCol + year
		if idx >= cells.Length() {
			break
		}
		amount := scrape.ParseAmount(cells.Eq(idx).Text())
		if amount <= 0 {
			continue
		}
		record.SalaryBySeason[season.Offset(year)] = amount
		listed += amount
	}

	record.TotalGuaranteed = listed
	if cells.Length() >= minGuaranteedCols {
		if guaranteed := scrape.ParseAmount(cells.Last().Text()); guaranteed > 0 {
			record.TotalGuaranteed = guaranteed
		}
	}

	return record, true
}

// cellText prefers the link text inside a cell
func cellText(cell *goquery.Selection) string {
	if link := cell.Find("a"); link.Length() > 0 {
		return strings.TrimSpace(link.First().Text())
	}
	return strings.TrimSpace(cell.Text())
}
