package api

import (
	"context"

	"github.com/persistorai/borderhop/internal/models"
)

// RouteRepository defines route search operations used by RouteHandler.
type RouteRepository interface {
	FindRoute(ctx context.Context, from, to string) (*models.RouteResult, error)
	StreamRoute(ctx context.Context, from, to string, onProgress func(models.RouteProgress)) (*models.RouteResult, error)
}

// CountryRepository defines directory operations used by CountryHandler and health checks.
type CountryRepository interface {
	Load(ctx context.Context) error
	Loaded() bool
	Suggestions() []models.Country
}

// HistoryRepository defines history queries used by HistoryHandler.
type HistoryRepository interface {
	RecentRoutes(ctx context.Context, opts models.HistoryQueryOpts) ([]models.HistoryEntry, error)
}
