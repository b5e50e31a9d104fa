package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/persistorai/borderhop/internal/models"
	"github.com/persistorai/borderhop/internal/pathfind"
)

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

// mockDirectory is an in-memory Directory.
type mockDirectory struct {
	countries map[string]models.Country
	loadErr   error
}

func newMockDirectory(names map[string]string) *mockDirectory {
	d := &mockDirectory{countries: make(map[string]models.Country, len(names))}
	for code, name := range names {
		d.countries[code] = models.Country{Code: code, Name: name}
	}
	return d
}

func (d *mockDirectory) Load(context.Context) error { return d.loadErr }

func (d *mockDirectory) Lookup(nameOrCode string) (models.Country, error) {
	if c, ok := d.countries[strings.ToUpper(nameOrCode)]; ok {
		return c, nil
	}
	for _, c := range d.countries {
		if strings.EqualFold(c.Name, nameOrCode) {
			return c, nil
		}
	}
	return models.Country{}, fmt.Errorf("%w: %q", models.ErrUnknownCountry, nameOrCode)
}

func (d *mockDirectory) Name(code string) string {
	if c, ok := d.countries[code]; ok {
		return c.Name
	}
	return code
}

// europe is a small slice of the real border graph.
var europe = map[pathfind.NodeID][]pathfind.NodeID{
	"PRT": {"ESP"},
	"ESP": {"AND", "FRA", "GIB", "PRT", "MAR"},
	"AND": {"FRA", "ESP"},
	"FRA": {"AND", "BEL", "DEU", "ITA", "LUX", "MCO", "ESP", "CHE"},
	"GIB": {"ESP"},
	"MAR": {"DZA", "ESH", "ESP"},
	"BEL": {"FRA", "DEU", "LUX", "NLD"},
	"DEU": {"AUT", "BEL", "CZE", "DNK", "FRA", "LUX", "NLD", "POL", "CHE"},
	"ISL": {},
}

var europeNames = map[string]string{
	"PRT": "Portugal", "ESP": "Spain", "AND": "Andorra", "FRA": "France",
	"GIB": "Gibraltar", "MAR": "Morocco", "BEL": "Belgium", "DEU": "Germany",
	"ISL": "Iceland", "LUX": "Luxembourg", "NLD": "Netherlands",
}

var errUpstream = errors.New("upstream unavailable")

// mapResolver serves neighbours from a fixed graph and can fail on one node.
type mapResolver struct {
	graph  map[pathfind.NodeID][]pathfind.NodeID
	failOn pathfind.NodeID
	mu     sync.Mutex
	calls  []pathfind.NodeID
}

func (r *mapResolver) Resolve(_ context.Context, node pathfind.NodeID) ([]pathfind.NodeID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if node == r.failOn {
		return nil, errUpstream
	}
	r.calls = append(r.calls, node)
	return r.graph[node], nil
}

// mockHistoryQueue collects enqueued results.
type mockHistoryQueue struct {
	mu      sync.Mutex
	results []*models.RouteResult
}

func (q *mockHistoryQueue) Enqueue(r *models.RouteResult) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.results = append(q.results, r)
}

// mockFeed collects published events.
type mockFeed struct {
	mu     sync.Mutex
	events []string
	data   []any
}

func (f *mockFeed) Publish(eventType string, data any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, eventType)
	f.data = append(f.data, data)
}

// mockRecorder records RouteRecord calls.
type mockRecorder struct {
	mu      sync.Mutex
	entries []*models.HistoryEntry
	err     error
}

func (m *mockRecorder) RecordRoute(_ context.Context, e *models.HistoryEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, e)
	return m.err
}

func (m *mockRecorder) getEntries() []*models.HistoryEntry {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*models.HistoryEntry, len(m.entries))
	copy(out, m.entries)
	return out
}

// mockHistoryStore returns a configured response and captures the query.
type mockHistoryStore struct {
	got     models.HistoryQueryOpts
	entries []models.HistoryEntry
	err     error
}

func (m *mockHistoryStore) RecentRoutes(_ context.Context, opts models.HistoryQueryOpts) ([]models.HistoryEntry, error) {
	m.got = opts
	return m.entries, m.err
}
