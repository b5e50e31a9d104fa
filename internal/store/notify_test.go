package store

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/persistorai/borderhop/internal/models"
)

func TestNotifyPayload_KeepsPaths(t *testing.T) {
	e := &models.HistoryEntry{
		ID:       "4b1d3c9e-0000-4000-8000-000000000001",
		FromCode: "PRT",
		ToCode:   "FRA",
		Status:   models.StatusFound,
		Hops:     2,
		Paths:    [][]string{{"PRT", "ESP", "FRA"}},
	}

	var got models.HistoryEntry
	if err := json.Unmarshal(notifyPayload(e), &got); err != nil {
		t.Fatalf("payload is not JSON: %v", err)
	}
	if got.ID != e.ID || got.Status != models.StatusFound {
		t.Errorf("got %+v", got)
	}
	if len(got.Paths) != 1 {
		t.Errorf("paths dropped: %v", got.Paths)
	}
}

func TestNotifyPayload_DropsOversizedPaths(t *testing.T) {
	route := make([]string, 0, 12)
	for range 12 {
		route = append(route, "XYZ")
	}
	paths := make([][]string, 200)
	for i := range paths {
		paths[i] = route
	}

	e := &models.HistoryEntry{ID: "id-1", FromCode: "CHN", ToCode: "FRA", Status: models.StatusFound, Paths: paths}
	payload := notifyPayload(e)

	if len(payload) > maxNotifyPayload {
		t.Fatalf("payload is %d bytes", len(payload))
	}
	if !strings.Contains(string(payload), `"id":"id-1"`) {
		t.Errorf("payload lost the id: %s", payload)
	}
	if len(e.Paths) != 200 {
		t.Error("notifyPayload must not modify the entry")
	}
}
