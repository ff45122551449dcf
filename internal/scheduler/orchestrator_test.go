package scheduler

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fortuna/plutus/internal/salary"
	"github.com/fortuna/plutus/internal/service"
)

type flakyRefresher struct {
	mu       sync.Mutex
	failures int
	calls    []salary.Season
}

func (f *flakyRefresher) Refresh(_ context.Context, season salary.Season) (*service.Snapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls = append(f.calls, season)
	if f.failures > 0 {
		f.failures--
		return nil, errors.New("hoopshype unavailable")
	}
	return &service.Snapshot{Season: season}, nil
}

func (f *flakyRefresher) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func testConfig() *Config {
	return &Config{
		CurrentSeason: "2025",
		MaxRetries:    3,
		RetryDelay:    time.Millisecond,
	}
}

func TestTriggerRefreshRetries(t *testing.T) {
	refresher := &flakyRefresher{failures: 2}
	o := NewOrchestrator(refresher, testConfig())

	require.NoError(t, o.TriggerRefresh(context.Background()))
	assert.Equal(t, []salary.Season{"2025", "2025", "2025"}, refresher.calls)

	status := o.GetStatus()
	assert.Equal(t, 1, status["runs"])
	assert.NotContains(t, status, "last_error")
}

func TestTriggerRefreshGivesUp(t *testing.T) {
	refresher := &flakyRefresher{failures: 10}
	o := NewOrchestrator(refresher, testConfig())

	err := o.TriggerRefresh(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "hoopshype unavailable")
	assert.Equal(t, 3, refresher.callCount())
	assert.Equal(t, "hoopshype unavailable", o.GetStatus()["last_error"])
}

func TestTriggerRefreshStopsOnCancel(t *testing.T) {
	cfg := testConfig()
	cfg.RetryDelay = time.Hour
	refresher := &flakyRefresher{failures: 10}
	o := NewOrchestrator(refresher, cfg)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := o.TriggerRefresh(ctx)
	require.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, 1, refresher.callCount())
}

func TestStartRefreshesOnStart(t *testing.T) {
	cfg := testConfig()
	cfg.RefreshOnStart = true
	refresher := &flakyRefresher{}
	o := NewOrchestrator(refresher, cfg)

	done := make(chan struct{})
	go func() {
		o.Start(context.Background())
		close(done)
	}()

	require.Eventually(t, func() bool { return refresher.callCount() == 1 }, time.Second, 5*time.Millisecond)
	o.Stop()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("scheduler did not stop")
	}
}

func TestStopFromAnotherGoroutine(t *testing.T) {
	cfg := testConfig()
	cfg.EnableDailyRefresh = true
	o := NewOrchestrator(&flakyRefresher{}, cfg)

	done := make(chan struct{})
	go func() {
		o.Start(context.Background())
		close(done)
	}()

	// Stop may land before or after Start has set up its context
	o.Stop()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("scheduler did not stop")
	}
}

func TestStopBeforeStart(t *testing.T) {
	refresher := &flakyRefresher{}
	cfg := testConfig()
	cfg.RefreshOnStart = true
	o := NewOrchestrator(refresher, cfg)

	o.Stop()
	o.Start(context.Background())
	assert.Zero(t, refresher.callCount())
}

func TestNextRun(t *testing.T) {
	loc := time.UTC
	tests := []struct {
		name string
		now  time.Time
		want time.Time
	}{
		{"before hour", time.Date(2025, 3, 1, 4, 30, 0, 0, loc), time.Date(2025, 3, 1, 6, 0, 0, 0, loc)},
		{"after hour", time.Date(2025, 3, 1, 7, 0, 0, 0, loc), time.Date(2025, 3, 2, 6, 0, 0, 0, loc)},
		{"exactly on hour", time.Date(2025, 3, 1, 6, 0, 0, 0, loc), time.Date(2025, 3, 2, 6, 0, 0, 0, loc)},
		{"month rollover", time.Date(2025, 3, 31, 23, 0, 0, 0, loc), time.Date(2025, 4, 1, 6, 0, 0, 0, loc)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NextRun(tt.now, 6))
		})
	}
}

func TestNewOrchestratorDefaults(t *testing.T) {
	o := NewOrchestrator(&flakyRefresher{}, nil)
	assert.Equal(t, 3, o.config.MaxRetries)
	assert.True(t, o.config.CurrentSeason.Valid())
}
