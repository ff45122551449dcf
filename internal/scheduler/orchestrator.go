package scheduler

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/fortuna/plutus/internal/salary"
	"github.com/fortuna/plutus/internal/service"
)

// Refresher re-scrapes a season
type Refresher interface {
	Refresh(ctx context.Context, season salary.Season) (*service.Snapshot, error)
}

// Orchestrator keeps the current season's salaries fresh
type Orchestrator struct {
	refresher Refresher
	config    *Config
	cancel    context.CancelFunc
	wg        sync.WaitGroup

	mu        sync.Mutex
	stopped   bool
	lastRun   time.Time
	lastError error
	runs      int
}

// Config holds scheduler configuration
type Config struct {
	CurrentSeason      salary.Season
	DailyRefreshHour   int           // Default: 6 (6 AM)
	EnableDailyRefresh bool          // Default: true
	RefreshOnStart     bool          // Default: true
	MaxRetries         int           // Default: 3
	RetryDelay         time.Duration // Default: 30s
}

// DefaultConfig returns default scheduler configuration
func DefaultConfig() *Config {
	return &Config{
		CurrentSeason:      salary.SeasonFor(time.Now()),
		DailyRefreshHour:   6,
		EnableDailyRefresh: true,
		RefreshOnStart:     true,
		MaxRetries:         3,
		RetryDelay:         30 * time.Second,
	}
}

// NewOrchestrator creates a new scheduler orchestrator
func NewOrchestrator(refresher Refresher, config *Config) *Orchestrator {
	if config == nil {
		config = DefaultConfig()
	}
	if config.MaxRetries < 1 {
		config.MaxRetries = 1
	}

	return &Orchestrator{
		refresher: refresher,
		config:    config,
	}
}

// Start runs the scheduled refreshes and blocks until ctx is cancelled or Stop is called
func (o *Orchestrator) Start(ctx context.Context) {
	log.Printf("Scheduler: season %s, refresh on start: %v, daily: %v (at %02d:00)",
		o.config.CurrentSeason, o.config.RefreshOnStart, o.config.EnableDailyRefresh, o.config.DailyRefreshHour)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	o.mu.Lock()
	if o.stopped {
		o.mu.Unlock()
		return
	}
	o.cancel = cancel
	o.mu.Unlock()

	if o.config.RefreshOnStart {
		o.wg.Add(1)
		go func() {
			defer o.wg.Done()
			o.TriggerRefresh(ctx)
		}()
	}

	if o.config.EnableDailyRefresh {
		o.wg.Add(1)
		go func() {
			defer o.wg.Done()
			o.runDailyRefresh(ctx)
		}()
	}

	<-ctx.Done()
	o.wg.Wait()
	log.Println("Scheduler orchestrator stopping...")
}

// runDailyRefresh sleeps until the configured hour, refreshes, and repeats
func (o *Orchestrator) runDailyRefresh(ctx context.Context) {
	for {
		nextRun := NextRun(time.Now(), o.config.DailyRefreshHour)
		wait := time.Until(nextRun)
		log.Printf("  Next salary refresh: %s (in %v)", nextRun.Format("2006-01-02 15:04:05"), wait.Round(time.Second))

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			log.Println("→ Daily refresh scheduler stopped")
			return
		case <-timer.C:
			o.TriggerRefresh(ctx)
		}
	}
}

// TriggerRefresh refreshes the current season, retrying with a fixed delay
func (o *Orchestrator) TriggerRefresh(ctx context.Context) error {
	start := time.Now()
	season := o.config.CurrentSeason

	var err error
retry:
	for attempt := 1; attempt <= o.config.MaxRetries; attempt++ {
		var snap *service.Snapshot
		snap, err = o.refresher.Refresh(ctx, season)
		if err == nil {
			log.Printf("✓ Refreshed %s in %v (%d players)", season, time.Since(start).Round(time.Millisecond), snap.League.PlayerCount)
			break
		}

		log.Printf("  ⚠️  Refresh attempt %d/%d failed: %v", attempt, o.config.MaxRetries, err)
		if attempt == o.config.MaxRetries {
			break
		}

		select {
		case <-ctx.Done():
			err = ctx.Err()
			break retry
		case <-time.After(o.config.RetryDelay):
		}
	}

	o.mu.Lock()
	o.lastRun = start
	o.lastError = err
	o.runs++
	o.mu.Unlock()

	if err != nil {
		log.Printf("  ❌ Refresh of %s gave up: %v", season, err)
		return fmt.Errorf("refresh season %s: %w", season, err)
	}
	return nil
}

// Stop gracefully stops the scheduler
func (o *Orchestrator) Stop() {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.stopped = true
	if o.cancel != nil {
		o.cancel()
	}
}

// GetStatus returns current scheduler status
func (o *Orchestrator) GetStatus() map[string]interface{} {
	o.mu.Lock()
	defer o.mu.Unlock()

	status := map[string]interface{}{
		"current_season":     o.config.CurrentSeason,
		"daily_refresh":      o.config.EnableDailyRefresh,
		"daily_refresh_hour": o.config.DailyRefreshHour,
		"refresh_on_start":   o.config.RefreshOnStart,
		"runs":               o.runs,
	}
	if !o.lastRun.IsZero() {
		status["last_run"] = o.lastRun
	}
	if o.lastError != nil {
		status["last_error"] = o.lastError.Error()
	}
	return status
}

// NextRun is the first time at hour:00 strictly after now
func NextRun(now time.Time, hour int) time.Time {
	next := time.Date(now.Year(), now.Month(), now.Day(), hour, 0, 0, 0, now.Location())
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}
