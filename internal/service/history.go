package service

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/persistorai/borderhop/internal/domain"
	"github.com/persistorai/borderhop/internal/models"
)

// History list bounds.
const (
	defaultHistoryLimit = 20
	maxHistoryLimit     = 200
)

// HistoryStore is the data-access interface HistoryService depends on.
// It reuses domain.HistoryService since the method sets are identical, avoiding duplication.
type HistoryStore = domain.HistoryService

// Compile-time check: *HistoryService must satisfy domain.HistoryService.
var _ domain.HistoryService = (*HistoryService)(nil)

// HistoryService wraps HistoryStore with limit clamping and logging.
type HistoryService struct {
	store HistoryStore
	log   *logrus.Logger
}

// NewHistoryService creates a HistoryService.
func NewHistoryService(store HistoryStore, log *logrus.Logger) *HistoryService {
	return &HistoryService{store: store, log: log}
}

// RecentRoutes returns the most recent searches, newest first.
func (s *HistoryService) RecentRoutes(ctx context.Context, opts models.HistoryQueryOpts) ([]models.HistoryEntry, error) {
	switch {
	case opts.Limit <= 0:
		opts.Limit = defaultHistoryLimit
	case opts.Limit > maxHistoryLimit:
		opts.Limit = maxHistoryLimit
	}

	s.log.WithFields(logrus.Fields{
		"status": opts.Status,
		"limit":  opts.Limit,
	}).Debug("history.recent_routes")

	return s.store.RecentRoutes(ctx, opts)
}
