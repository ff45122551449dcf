package publisher

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func TestPublishSeasonRefreshed(t *testing.T) {
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
	defer container.Terminate(ctx)

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "6379")
	require.NoError(t, err)

	client := redis.NewClient(&redis.Options{Addr: fmt.Sprintf("%s:%s", host, port.Port())})
	defer client.Close()

	event := SeasonRefreshed{
		Season:       "2025",
		Source:       "HoopsHype",
		PlayerCount:  450,
		TeamCount:    30,
		TotalPayroll: 5_000_000_000,
		RefreshedAt:  time.Date(2025, time.February, 1, 6, 0, 0, 0, time.UTC),
	}
	require.NoError(t, NewRedisPublisher(client).PublishSeasonRefreshed(ctx, event))

	entries, err := client.XRange(ctx, SeasonRefreshedStream, "-", "+").Result()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "2025", entries[0].Values["season"])

	var got SeasonRefreshed
	require.NoError(t, json.Unmarshal([]byte(entries[0].Values["data"].(string)), &got))
	assert.Equal(t, event, got)
}
