// Package domain defines the canonical service interfaces shared across the
// API, the CLI and the service layer. Consumers should depend on these
// interfaces rather than re-declaring equivalent ones.
package domain

import (
	"context"

	"github.com/persistorai/borderhop/internal/models"
)

// RouteService finds shortest land routes between two countries.
type RouteService interface {
	FindRoute(ctx context.Context, from, to string) (*models.RouteResult, error)
	StreamRoute(ctx context.Context, from, to string, onProgress func(models.RouteProgress)) (*models.RouteResult, error)
}

// CountryService exposes the country directory.
type CountryService interface {
	Load(ctx context.Context) error
	Loaded() bool
	Suggestions() []models.Country
}

// HistoryService reads recorded route searches.
type HistoryService interface {
	RecentRoutes(ctx context.Context, opts models.HistoryQueryOpts) ([]models.HistoryEntry, error)
}

// HistoryRecorder persists one route search.
type HistoryRecorder interface {
	RecordRoute(ctx context.Context, entry *models.HistoryEntry) error
}
