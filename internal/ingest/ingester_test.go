package ingest

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fortuna/plutus/internal/salary"
	"github.com/fortuna/plutus/internal/salary/salarytest"
)

type fakeSource struct {
	name    string
	records []salary.Record
	err     error
	calls   int
}

func (f *fakeSource) Name() string { return f.name }

func (f *fakeSource) Collect(context.Context, salary.Season) ([]salary.Record, error) {
	f.calls++
	return f.records, f.err
}

func TestCollectUsesPrimaryWhenHealthy(t *testing.T) {
	primary := &fakeSource{name: "primary", records: []salary.Record{
		salarytest.Player("A", "LAL", "", "2025", 1_000_000),
	}}
	fallback := &fakeSource{name: "fallback"}

	result, err := NewIngester(primary, fallback).Collect(context.Background(), "2025")
	require.NoError(t, err)
	assert.Equal(t, "primary", result.Source)
	assert.Len(t, result.Records, 1)
	assert.Equal(t, "Los Angeles Lakers", result.Records[0].TeamName)
	assert.Zero(t, fallback.calls)
}

func TestCollectFallsBack(t *testing.T) {
	tests := []struct {
		name    string
		primary *fakeSource
	}{
		{"primary errors", &fakeSource{name: "primary", err: errors.New("403")}},
		{"primary empty", &fakeSource{name: "primary"}},
		{"primary unusable", &fakeSource{name: "primary", records: []salary.Record{
			salarytest.Player("", "LAL", "", "2025", 1),
			salarytest.Player("X", "SEA", "Seattle SuperSonics", "2025", 1),
		}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fallback := &fakeSource{name: "fallback", records: []salary.Record{
				salarytest.Player("B", "BRK", "", "2025", 2_000_000),
			}}

			result, err := NewIngester(tt.primary, fallback).Collect(context.Background(), "2025")
			require.NoError(t, err)
			assert.Equal(t, "fallback", result.Source)
			require.Len(t, result.Records, 1)
			assert.Equal(t, "BKN", result.Records[0].TeamAbbreviation)
		})
	}
}

func TestCollectCountsDropped(t *testing.T) {
	source := &fakeSource{name: "only", records: []salary.Record{
		salarytest.Player("Good", "MIA", "", "2025", 1),
		salarytest.Player("  ", "MIA", "", "2025", 1),
		salarytest.Player("Bad Team", "XYZ", "", "2025", 1),
	}}

	result, err := NewIngester(source).Collect(context.Background(), "2025")
	require.NoError(t, err)
	assert.Len(t, result.Records, 1)
	assert.Equal(t, 2, result.Dropped)
}

func TestCollectAllSourcesFail(t *testing.T) {
	a := &fakeSource{name: "a", err: errors.New("timeout")}
	b := &fakeSource{name: "b"}

	_, err := NewIngester(a, b).Collect(context.Background(), "2025")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNoRecords)
	assert.Contains(t, err.Error(), "timeout")
}

func TestCollectHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	source := &fakeSource{name: "a"}
	_, err := NewIngester(source).Collect(ctx, "2025")
	require.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, source.calls)
}

func TestNewDefaultIngester(t *testing.T) {
	in, closeFn := NewDefaultIngester(Options{})
	defer closeFn()

	assert.Equal(t, []string{"HoopsHype", "Basketball Reference"}, in.Sources())
}
