package publisher

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/fortuna/plutus/internal/salary"
)

// SeasonRefreshedStream receives an entry every time a season is re-scraped
const SeasonRefreshedStream = "salaries.refreshed.basketball_nba"

// SeasonRefreshed announces a new salary snapshot
type SeasonRefreshed struct {
	Season       salary.Season `json:"season"`
	Source       string        `json:"source"`
	PlayerCount  int           `json:"player_count"`
	TeamCount    int           `json:"team_count"`
	TotalPayroll int64         `json:"total_payroll"`
	RefreshedAt  time.Time     `json:"refreshed_at"`
}

// RedisPublisher publishes events to Redis streams
type RedisPublisher struct {
	client *redis.Client
	maxLen int64
}

// NewRedisPublisher creates a new Redis stream publisher from existing client
func NewRedisPublisher(client *redis.Client) *RedisPublisher {
	return &RedisPublisher{
		client: client,
		maxLen: 1000,
	}
}

// PublishSeasonRefreshed appends event to the refresh stream
func (rp *RedisPublisher) PublishSeasonRefreshed(ctx context.Context, event SeasonRefreshed) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}

	return rp.client.XAdd(ctx, &redis.XAddArgs{
		Stream: SeasonRefreshedStream,
		MaxLen: rp.maxLen,
		Approx: true,
		Values: map[string]interface{}{
			"season":    string(event.Season),
			"data":      string(data),
			"timestamp": event.RefreshedAt.Unix(),
		},
	}).Err()
}
