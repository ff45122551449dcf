package websocket

import (
	"slices"
	"time"

	"github.com/fortuna/plutus/internal/publisher"
)

const (
	MessageTypeWelcome         = "welcome"
	MessageTypeSeasonRefreshed = "season_refreshed"
	MessageTypeSubscribed      = "subscribed"
	MessageTypePong            = "pong"
	MessageTypeError           = "error"
)

// ServerMessage is every frame the server sends
type ServerMessage struct {
	Type      string      `json:"type"`
	Payload   interface{} `json:"payload,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// ClientMessage is a frame received from a client.
// {"type":"subscribe","seasons":["2025"]} limits updates to those seasons; an empty list means all.
type ClientMessage struct {
	Type    string   `json:"type"`
	Seasons []string `json:"seasons,omitempty"`
}

// SubscriptionFilter selects which season updates a client receives
type SubscriptionFilter struct {
	Seasons []string `json:"seasons"`
}

// Matches reports whether event passes the filter
func (f SubscriptionFilter) Matches(event publisher.SeasonRefreshed) bool {
	return len(f.Seasons) == 0 || slices.Contains(f.Seasons, string(event.Season))
}
