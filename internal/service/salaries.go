package service

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"log"
	"slices"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/fortuna/plutus/internal/ingest"
	"github.com/fortuna/plutus/internal/publisher"
	"github.com/fortuna/plutus/internal/salary"
	"github.com/fortuna/plutus/internal/store"
	"github.com/fortuna/plutus/internal/teams"
)

var (
	// ErrNoData is returned when a season cannot be loaded from any tier
	ErrNoData = errors.New("no salary data available")

	// ErrTeamNotFound is returned for abbreviations outside the directory
	ErrTeamNotFound = errors.New("team not found")
)

// DefaultTTL is how long a loaded season is served before reloading
const DefaultTTL = time.Hour

// LoadTimeout bounds a shared load, which outlives any single caller
const LoadTimeout = 5 * time.Minute

// Collector scrapes a season from the configured sources
type Collector interface {
	Collect(ctx context.Context, season salary.Season) (*ingest.Result, error)
}

// SeasonStore persists scraped seasons
type SeasonStore interface {
	ReplaceSeason(ctx context.Context, season salary.Season, scrapedAt time.Time, records []salary.Record) error
	LoadSeason(ctx context.Context, season salary.Season) ([]salary.Record, error)
	GetSeasonInfo(ctx context.Context, season salary.Season) (*store.SeasonInfo, error)
}

// SeasonCache is the shared cache in front of the store
type SeasonCache interface {
	GetSeason(ctx context.Context, season salary.Season) ([]salary.Record, error)
	SetSeason(ctx context.Context, season salary.Season, records []salary.Record) error
}

// EventPublisher announces refreshed seasons
type EventPublisher interface {
	PublishSeasonRefreshed(ctx context.Context, event publisher.SeasonRefreshed) error
}

// Dependencies are the optional collaborators of SalaryService; nil fields are skipped
type Dependencies struct {
	Store     SeasonStore
	Cache     SeasonCache
	Publisher EventPublisher
	TTL       time.Duration
	Now       func() time.Time
}

// SalaryService loads seasons through memory → cache → database → scrape and
// answers queries from immutable snapshots
type SalaryService struct {
	collector Collector
	store     SeasonStore
	cache     SeasonCache
	publisher EventPublisher
	ttl       time.Duration
	now       func() time.Time

	mu        sync.RWMutex
	snapshots map[salary.Season]*Snapshot
	listeners []func(*Snapshot)

	loads singleflight.Group
}

// NewSalaryService creates a new salary service
func NewSalaryService(collector Collector, deps Dependencies) *SalaryService {
	if deps.TTL <= 0 {
		deps.TTL = DefaultTTL
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}

	return &SalaryService{
		collector: collector,
		store:     deps.Store,
		cache:     deps.Cache,
		publisher: deps.Publisher,
		ttl:       deps.TTL,
		now:       deps.Now,
		snapshots: make(map[salary.Season]*Snapshot),
	}
}

// OnRefresh registers fn to run after every successful scrape
func (s *SalaryService) OnRefresh(fn func(*Snapshot)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

// Snapshot returns the season's snapshot. force skips every cached tier and scrapes.
// Concurrent calls for the same season share one load.
func (s *SalaryService) Snapshot(ctx context.Context, season salary.Season, force bool) (*Snapshot, error) {
	if !force {
		if snap, ok := s.fresh(season); ok {
			return snap, nil
		}
	}

	key := string(season)
	if force {
		key += ":force"
	}

	// the load is shared, so one caller giving up must not cancel it for the rest
	results := s.loads.DoChan(key, func() (interface{}, error) {
		loadCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), LoadTimeout)
		defer cancel()
		return s.load(loadCtx, season, force)
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-results:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*Snapshot), nil
	}
}

// Refresh scrapes season now
func (s *SalaryService) Refresh(ctx context.Context, season salary.Season) (*Snapshot, error) {
	return s.Snapshot(ctx, season, true)
}

func (s *SalaryService) fresh(season salary.Season) (*Snapshot, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap, ok := s.snapshots[season]
	if !ok || s.now().Sub(snap.LoadedAt) >= s.ttl {
		return nil, false
	}
	return snap, true
}

func (s *SalaryService) load(ctx context.Context, season salary.Season, force bool) (*Snapshot, error) {
	var stale *Snapshot

	if !force {
		if snap, ok := s.fresh(season); ok {
			return snap, nil
		}

		if snap := s.fromCache(ctx, season); snap != nil {
			s.keep(snap)
			return snap, nil
		}

		if snap, isFresh := s.fromStore(ctx, season); snap != nil {
			if isFresh {
				s.keep(snap)
				s.warmCache(ctx, snap)
				return snap, nil
			}
			stale = snap
		}
	}

	snap, err := s.scrape(ctx, season)
	if err == nil {
		return snap, nil
	}

	if force {
		return nil, fmt.Errorf("refresh season %s: %w", season, err)
	}

	if stale == nil {
		s.mu.RLock()
		stale = s.snapshots[season]
		s.mu.RUnlock()
	}
	if stale != nil {
		log.Printf("⚠️  Scrape failed for %s, serving %s data from %s: %v", season, stale.Origin, stale.LoadedAt.Format(time.RFC3339), err)
		s.keep(stale)
		return stale, nil
	}

	return nil, fmt.Errorf("%w: season %s: %w", ErrNoData, season, err)
}

func (s *SalaryService) fromCache(ctx context.Context, season salary.Season) *Snapshot {
	if s.cache == nil {
		return nil
	}

	records, err := s.cache.GetSeason(ctx, season)
	if err != nil || len(records) == 0 {
		return nil
	}

	log.Printf("✓ Loaded %s from cache (%d players)", season, len(records))
	return newSnapshot(season, records, "", OriginCache, s.now())
}

// fromStore returns the stored snapshot and whether it is within the TTL
func (s *SalaryService) fromStore(ctx context.Context, season salary.Season) (*Snapshot, bool) {
	if s.store == nil {
		return nil, false
	}

	info, err := s.store.GetSeasonInfo(ctx, season)
	if err != nil {
		return nil, false
	}

	records, err := s.store.LoadSeason(ctx, season)
	if err != nil {
		log.Printf("⚠️  Failed to load %s from database: %v", season, err)
		return nil, false
	}

	log.Printf("✓ Loaded %s from database (%d players, scraped %s)", season, len(records), info.ScrapedAt.Format(time.RFC3339))
	snap := newSnapshot(season, records, info.DataSource, OriginDatabase, info.ScrapedAt)
	return snap, s.now().Sub(info.ScrapedAt) < s.ttl
}

func (s *SalaryService) scrape(ctx context.Context, season salary.Season) (*Snapshot, error) {
	if s.collector == nil {
		return nil, ingest.ErrNoRecords
	}

	result, err := s.collector.Collect(ctx, season)
	if err != nil {
		return nil, err
	}

	snap := newSnapshot(season, result.Records, result.Source, OriginScrape, s.now())
	s.keep(snap)

	if s.store != nil {
		if err := s.store.ReplaceSeason(ctx, season, snap.LoadedAt, snap.Records); err != nil {
			log.Printf("⚠️  Failed to persist %s: %v", season, err)
		}
	}
	s.warmCache(ctx, snap)

	if s.publisher != nil {
		if err := s.publisher.PublishSeasonRefreshed(ctx, snap.Event()); err != nil {
			log.Printf("⚠️  Failed to publish refresh for %s: %v", season, err)
		}
	}

	s.mu.RLock()
	listeners := slices.Clone(s.listeners)
	s.mu.RUnlock()
	for _, fn := range listeners {
		fn(snap)
	}

	log.Printf("✓ Refreshed %s from %s: %d players, %d teams", season, snap.Source, snap.League.PlayerCount, snap.League.TeamCount)
	return snap, nil
}

func (s *SalaryService) warmCache(ctx context.Context, snap *Snapshot) {
	if s.cache == nil {
		return
	}
	if err := s.cache.SetSeason(ctx, snap.Season, snap.Records); err != nil {
		log.Printf("⚠️  Failed to cache %s: %v", snap.Season, err)
	}
}

func (s *SalaryService) keep(snap *Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshots[snap.Season] = snap
}

// Status reports every season held in memory, oldest season first
func (s *SalaryService) Status() []SeasonStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()

	statuses := make([]SeasonStatus, 0, len(s.snapshots))
	for _, snap := range s.snapshots {
		statuses = append(statuses, SeasonStatus{
			Season:      snap.Season,
			Source:      snap.Source,
			Origin:      snap.Origin,
			PlayerCount: snap.League.PlayerCount,
			TeamCount:   snap.League.TeamCount,
			LoadedAt:    snap.LoadedAt,
			Stale:       s.now().Sub(snap.LoadedAt) >= s.ttl,
		})
	}
	slices.SortFunc(statuses, func(a, b SeasonStatus) int {
		return cmp.Compare(a.Season, b.Season)
	})
	return statuses
}

// TeamSummaries returns every team's summary, highest payroll first
func (s *SalaryService) TeamSummaries(ctx context.Context, season salary.Season) ([]salary.TeamSummary, error) {
	snap, err := s.Snapshot(ctx, season, false)
	if err != nil {
		return nil, err
	}
	return snap.Teams, nil
}

// TeamPayroll returns one team's summary and roster. abbr may be any alias.
func (s *SalaryService) TeamPayroll(ctx context.Context, season salary.Season, abbr string) (*TeamPayroll, error) {
	team, ok := teams.ByAbbreviation(abbr)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrTeamNotFound, abbr)
	}

	snap, err := s.Snapshot(ctx, season, false)
	if err != nil {
		return nil, err
	}

	summary, ok := snap.Team(team.Abbreviation)
	if !ok {
		return nil, fmt.Errorf("%w: no %s salaries for %s", ErrNoData, team.Abbreviation, season)
	}

	return &TeamPayroll{
		Summary: summary,
		Players: salary.Filter(snap.Records, season, salary.FilterSpec{TeamAbbreviation: team.Abbreviation}),
	}, nil
}

// Filter applies the filter to the season's records
func (s *SalaryService) Filter(ctx context.Context, season salary.Season, spec salary.FilterSpec) ([]salary.Record, error) {
	snap, err := s.Snapshot(ctx, season, false)
	if err != nil {
		return nil, err
	}
	return salary.Filter(snap.Records, season, spec), nil
}

// Search matches query against player and team names
func (s *SalaryService) Search(ctx context.Context, season salary.Season, query string, limit int) ([]salary.Record, error) {
	snap, err := s.Snapshot(ctx, season, false)
	if err != nil {
		return nil, err
	}
	return salary.Search(snap.Records, season, query, limit), nil
}

// TopPaid returns the limit best-paid players
func (s *SalaryService) TopPaid(ctx context.Context, season salary.Season, limit int) ([]salary.Record, error) {
	snap, err := s.Snapshot(ctx, season, false)
	if err != nil {
		return nil, err
	}
	return salary.TopPaid(snap.Records, season, limit), nil
}

// Distribution buckets the season's salaries
func (s *SalaryService) Distribution(ctx context.Context, season salary.Season) ([]salary.DistributionBucket, error) {
	snap, err := s.Snapshot(ctx, season, false)
	if err != nil {
		return nil, err
	}
	return salary.Distribution(snap.Records, season), nil
}

// League returns league-wide statistics
func (s *SalaryService) League(ctx context.Context, season salary.Season) (salary.LeagueSummary, error) {
	snap, err := s.Snapshot(ctx, season, false)
	if err != nil {
		return salary.LeagueSummary{}, err
	}
	return snap.League, nil
}
