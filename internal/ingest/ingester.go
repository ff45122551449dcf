package ingest

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/fortuna/plutus/internal/salary"
	"github.com/fortuna/plutus/internal/teams"
)

// ErrNoRecords is returned when no source produced a usable record
var ErrNoRecords = errors.New("no salary records from any source")

// Source is one salary data provider
type Source interface {
	Name() string
	Collect(ctx context.Context, season salary.Season) ([]salary.Record, error)
}

// Result is the outcome of a successful collection
type Result struct {
	Season      salary.Season
	Source      string
	Records     []salary.Record
	Dropped     int
	CollectedAt time.Time
}

// Ingester tries its sources in priority order.
// Primary: HoopsHype (complete multi-year table)
// Fallback: Basketball-Reference
type Ingester struct {
	sources []Source
}

// NewIngester creates an ingester; sources are tried in the order given
func NewIngester(sources ...Source) *Ingester {
	return &Ingester{sources: sources}
}

// Sources returns the configured source names in priority order
func (in *Ingester) Sources() []string {
	names := make([]string, len(in.sources))
	for i, source := range in.sources {
		names[i] = source.Name()
	}
	return names
}

// Collect returns records from the first source yielding at least one valid record.
// Records without a player name or with an unknown team are dropped.
func (in *Ingester) Collect(ctx context.Context, season salary.Season) (*Result, error) {
	log.Printf("Ingesting %s salaries (sources: %s)...", season, strings.Join(in.Sources(), " → "))

	var errs []error
	for _, source := range in.sources {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		raw, err := source.Collect(ctx, season)
		if err != nil {
			log.Printf("⚠️  %s ingestion failed: %v (trying next source)", source.Name(), err)
			errs = append(errs, fmt.Errorf("%s: %w", source.Name(), err))
			continue
		}

		records, dropped := normalize(raw, source.Name())
		if len(records) == 0 {
			log.Printf("⚠️  %s returned no usable records (%d dropped)", source.Name(), dropped)
			errs = append(errs, fmt.Errorf("%s: %w", source.Name(), ErrNoRecords))
			continue
		}

		if dropped > 0 {
			log.Printf("⚠️  %s: dropped %d records with missing player or unknown team", source.Name(), dropped)
		}
		log.Printf("✓ %s: collected %d players", source.Name(), len(records))

		return &Result{
			Season:      season,
			Source:      source.Name(),
			Records:     records,
			Dropped:     dropped,
			CollectedAt: time.Now().UTC(),
		}, nil
	}

	log.Printf("❌ All sources failed for season %s", season)
	if len(errs) == 0 {
		return nil, ErrNoRecords
	}
	return nil, fmt.Errorf("collect season %s: %w", season, errors.Join(append([]error{ErrNoRecords}, errs...)...))
}

// normalize resolves team names to the canonical directory and drops unusable rows
func normalize(raw []salary.Record, sourceName string) ([]salary.Record, int) {
	records := make([]salary.Record, 0, len(raw))
	dropped := 0

	for _, record := range raw {
		record.PlayerName = strings.TrimSpace(record.PlayerName)
		if record.PlayerName == "" {
			dropped++
			continue
		}

		team, ok := teams.Resolve(record.TeamAbbreviation)
		if !ok {
			team, ok = teams.Resolve(record.TeamName)
		}
		if !ok {
			dropped++
			continue
		}

		record.TeamAbbreviation = team.Abbreviation
		record.TeamName = team.FullName
		if record.DataSource == "" {
			record.DataSource = sourceName
		}
		records = append(records, record)
	}

	return records, dropped
}
