package api_test

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"

	"github.com/persistorai/borderhop/internal/api"
	"github.com/persistorai/borderhop/internal/models"
	"github.com/persistorai/borderhop/internal/ws"
)

// wsURL turns an httptest URL and path into a ws:// URL.
func wsURL(srv *httptest.Server, path string) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http") + path
}

func TestRouter_FeedUpgradesAndBroadcasts(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	hub := ws.NewHub(testLogger())
	go hub.Run(ctx)

	r := api.NewRouter(ctx, &api.RouterDeps{
		Log:         testLogger(),
		Hub:         hub,
		Routes:      &mockRouteRepo{},
		Countries:   &mockCountryRepo{loaded: true},
		CORSOrigins: []string{"http://localhost:3000"},
		Version:     "test",
	})
	srv := httptest.NewServer(r)
	defer srv.Close()

	conn, _, err := websocket.Dial(ctx, wsURL(srv, "/api/v1/feed"), nil)
	if err != nil {
		t.Fatalf("dial feed: %v", err)
	}
	defer conn.CloseNow() //nolint:errcheck // test cleanup

	deadline := time.Now().Add(2 * time.Second)
	for hub.ClientCount() != 1 {
		if time.Now().After(deadline) {
			t.Fatal("feed client never registered")
		}
		time.Sleep(10 * time.Millisecond)
	}

	hub.Publish(ws.EventRoute, models.HistoryEntry{ID: "r-1", FromCode: "PRT", ToCode: "FRA", Status: models.StatusFound})

	evt := readStreamEvent(t, ctx, conn)
	if evt.Type != ws.EventRoute {
		t.Fatalf("event type = %q, want route", evt.Type)
	}
	if !strings.Contains(string(evt.Data), `"r-1"`) {
		t.Errorf("event data = %s", evt.Data)
	}
}

func TestRouter_RouteStreamUpgrades(t *testing.T) {
	repo := &mockRouteRepo{
		progress: []models.RouteProgress{{Code: "PRT", Name: "Portugal", RequestCount: 1}},
		findFn: func(_ context.Context, _, _ string) (*models.RouteResult, error) {
			return foundResult(), nil
		},
	}
	srv := httptest.NewServer(newFullRouter(t, repo))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conn, _, err := websocket.Dial(ctx, wsURL(srv, "/api/v1/route/stream?from=PRT&to=FRA"), nil)
	if err != nil {
		t.Fatalf("dial stream: %v", err)
	}
	defer conn.CloseNow() //nolint:errcheck // test cleanup

	if evt := readStreamEvent(t, ctx, conn); evt.Type != ws.EventProgress {
		t.Fatalf("first event = %q, want progress", evt.Type)
	}
	if evt := readStreamEvent(t, ctx, conn); evt.Type != ws.EventResult {
		t.Fatalf("second event = %q, want result", evt.Type)
	}

	_, _, err = conn.Read(ctx)
	if got := websocket.CloseStatus(err); got != websocket.StatusNormalClosure {
		t.Errorf("close status = %v, want normal closure (err %v)", got, err)
	}
}
