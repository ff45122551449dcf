package cache

import (
	"context"
	"fmt"
	"io"
	"log"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/fortuna/plutus/internal/salary/salarytest"
)

func startRedis(t *testing.T) string {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping redis container test in short mode")
	}

	// suppress logging
	testcontainers.Logger = log.New(io.Discard, "", 0)

	ctx := context.Background()
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		Started: true,
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections"),
		},
	})
	if err != nil {
		t.Skipf("docker unavailable: %v", err)
	}
	t.Cleanup(func() { container.Terminate(context.Background()) })

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "6379")
	require.NoError(t, err)

	return fmt.Sprintf("redis://%s:%s/0", host, port.Port())
}

func TestSeasonRoundTrip(t *testing.T) {
	rc, err := NewRedisCache(startRedis(t), time.Minute)
	require.NoError(t, err)
	defer rc.Close()

	ctx := context.Background()
	require.NoError(t, rc.HealthCheck(ctx))

	_, err = rc.GetSeason(ctx, "2025")
	require.ErrorIs(t, err, ErrMiss)

	records := salarytest.New(9).Records("2025", 2)
	require.NoError(t, rc.SetSeason(ctx, "2025", records))

	cached, err := rc.GetSeason(ctx, "2025")
	require.NoError(t, err)
	assert.Equal(t, records, cached)

	ttl, err := rc.Client().TTL(ctx, SeasonKey("2025")).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))

	require.NoError(t, rc.InvalidateSeason(ctx, "2025"))
	_, err = rc.GetSeason(ctx, "2025")
	assert.ErrorIs(t, err, ErrMiss)
}

func TestSeasonKey(t *testing.T) {
	assert.Equal(t, "plutus:salaries:2025", SeasonKey("2025"))
}

func TestNewRedisCacheRejectsBadURL(t *testing.T) {
	_, err := NewRedisCache("not a url", 0)
	require.Error(t, err)
}
