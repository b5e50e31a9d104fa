package api_test

import (
	"context"

	"github.com/persistorai/borderhop/internal/models"
)

// mockRouteRepo implements api.RouteRepository for testing.
type mockRouteRepo struct {
	findFn   func(ctx context.Context, from, to string) (*models.RouteResult, error)
	progress []models.RouteProgress
	lastFrom string
	lastTo   string
}

func (m *mockRouteRepo) FindRoute(ctx context.Context, from, to string) (*models.RouteResult, error) {
	m.lastFrom, m.lastTo = from, to
	return m.findFn(ctx, from, to)
}

func (m *mockRouteRepo) StreamRoute(
	ctx context.Context, from, to string, onProgress func(models.RouteProgress),
) (*models.RouteResult, error) {
	for _, p := range m.progress {
		onProgress(p)
	}
	return m.FindRoute(ctx, from, to)
}

// mockCountryRepo implements api.CountryRepository for testing.
type mockCountryRepo struct {
	loadErr   error
	loaded    bool
	countries []models.Country
}

func (m *mockCountryRepo) Load(context.Context) error {
	if m.loadErr == nil {
		m.loaded = true
	}
	return m.loadErr
}

func (m *mockCountryRepo) Loaded() bool { return m.loaded }

func (m *mockCountryRepo) Suggestions() []models.Country { return m.countries }

// mockHistoryRepo implements api.HistoryRepository for testing.
type mockHistoryRepo struct {
	recentFn func(ctx context.Context, opts models.HistoryQueryOpts) ([]models.HistoryEntry, error)
	lastOpts models.HistoryQueryOpts
}

func (m *mockHistoryRepo) RecentRoutes(ctx context.Context, opts models.HistoryQueryOpts) ([]models.HistoryEntry, error) {
	m.lastOpts = opts
	return m.recentFn(ctx, opts)
}

func foundResult() *models.RouteResult {
	return &models.RouteResult{
		ID:           "r1",
		From:         models.Country{Code: "PRT", Name: "Portugal"},
		To:           models.Country{Code: "FRA", Name: "France"},
		Status:       models.StatusFound,
		Paths:        [][]string{{"PRT", "ESP", "FRA"}},
		NamedPaths:   [][]string{{"Portugal", "Spain", "France"}},
		Hops:         2,
		RequestCount: 3,
	}
}
