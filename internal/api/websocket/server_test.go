package websocket

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fortuna/plutus/internal/ingest"
	"github.com/fortuna/plutus/internal/publisher"
	"github.com/fortuna/plutus/internal/salary"
	"github.com/fortuna/plutus/internal/salary/salarytest"
	"github.com/fortuna/plutus/internal/service"
)

type stubCollector struct{}

func (stubCollector) Collect(_ context.Context, season salary.Season) (*ingest.Result, error) {
	return &ingest.Result{
		Season: season,
		Source: "HoopsHype",
		Records: []salary.Record{
			salarytest.Player("Stephen Curry", "GSW", "Golden State Warriors", season, 55_761_216),
			salarytest.Player("Jayson Tatum", "BOS", "Boston Celtics", season, 34_848_340),
		},
	}, nil
}

type frame struct {
	Type      string          `json:"type"`
	Payload   json.RawMessage `json:"payload"`
	Timestamp time.Time       `json:"timestamp"`
}

func startServer(t *testing.T) (*Server, *service.SalaryService, string) {
	t.Helper()

	svc := service.NewSalaryService(stubCollector{}, service.Dependencies{})
	srv := NewServer("0", svc)

	ctx, cancel := context.WithCancel(context.Background())
	go srv.Hub().Run(ctx)

	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(func() {
		cancel()
		ts.Close()
	})

	return srv, svc, "ws" + strings.TrimPrefix(ts.URL, "http")
}

func dial(t *testing.T, url string) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(url+"/ws/salaries", nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func read(t *testing.T, conn *websocket.Conn) frame {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var f frame
	require.NoError(t, conn.ReadJSON(&f))
	return f
}

func TestRefreshIsBroadcast(t *testing.T) {
	_, svc, url := startServer(t)
	conn := dial(t, url)

	welcome := read(t, conn)
	assert.Equal(t, MessageTypeWelcome, welcome.Type)
	assert.Contains(t, string(welcome.Payload), "client_id")

	_, err := svc.Refresh(context.Background(), "2025")
	require.NoError(t, err)

	msg := read(t, conn)
	require.Equal(t, MessageTypeSeasonRefreshed, msg.Type)

	var event publisher.SeasonRefreshed
	require.NoError(t, json.Unmarshal(msg.Payload, &event))
	assert.Equal(t, salary.Season("2025"), event.Season)
	assert.Equal(t, "HoopsHype", event.Source)
	assert.Equal(t, 2, event.PlayerCount)
	assert.Equal(t, 2, event.TeamCount)
	assert.Equal(t, int64(55_761_216+34_848_340), event.TotalPayroll)
}

func TestSubscribeFiltersSeasons(t *testing.T) {
	_, svc, url := startServer(t)
	conn := dial(t, url)
	read(t, conn) // welcome

	require.NoError(t, conn.WriteJSON(ClientMessage{Type: "subscribe", Seasons: []string{"2026"}}))
	assert.Equal(t, MessageTypeSubscribed, read(t, conn).Type)

	_, err := svc.Refresh(context.Background(), "2025")
	require.NoError(t, err)
	_, err = svc.Refresh(context.Background(), "2026")
	require.NoError(t, err)

	msg := read(t, conn)
	require.Equal(t, MessageTypeSeasonRefreshed, msg.Type)
	var event publisher.SeasonRefreshed
	require.NoError(t, json.Unmarshal(msg.Payload, &event))
	assert.Equal(t, salary.Season("2026"), event.Season)
}

func TestPingAndUnknownMessages(t *testing.T) {
	_, _, url := startServer(t)
	conn := dial(t, url)
	read(t, conn)

	require.NoError(t, conn.WriteJSON(ClientMessage{Type: "ping"}))
	assert.Equal(t, MessageTypePong, read(t, conn).Type)

	require.NoError(t, conn.WriteJSON(ClientMessage{Type: "dance"}))
	assert.Equal(t, MessageTypeError, read(t, conn).Type)
}

func TestHealth(t *testing.T) {
	srv, _, url := startServer(t)
	conn := dial(t, url)
	read(t, conn)

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ws/health", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, float64(1), body["clients"])
}

func TestSubscriptionFilter(t *testing.T) {
	event := publisher.SeasonRefreshed{Season: "2025"}

	assert.True(t, SubscriptionFilter{}.Matches(event))
	assert.True(t, SubscriptionFilter{Seasons: []string{"2024", "2025"}}.Matches(event))
	assert.False(t, SubscriptionFilter{Seasons: []string{"2026"}}.Matches(event))
}

func TestSlowClientIsDropped(t *testing.T) {
	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.Run(ctx)

	client := &Client{ID: "slow", send: make(chan ServerMessage), hub: hub}
	hub.Register(client)
	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, time.Second, 10*time.Millisecond)

	hub.Broadcast(publisher.SeasonRefreshed{Season: "2025"})
	require.Eventually(t, func() bool { return hub.ClientCount() == 0 }, time.Second, 10*time.Millisecond)
}
