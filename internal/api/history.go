package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/persistorai/borderhop/internal/models"
)

// HistoryHandler serves recorded route searches.
type HistoryHandler struct {
	repo HistoryRepository
	log  *logrus.Logger
}

// NewHistoryHandler creates a HistoryHandler. repo may be nil when no
// database is configured.
func NewHistoryHandler(repo HistoryRepository, log *logrus.Logger) *HistoryHandler {
	return &HistoryHandler{repo: repo, log: log}
}

// Recent handles GET /api/v1/history?limit=&status=.
func (h *HistoryHandler) Recent(c *gin.Context) {
	if h.repo == nil {
		respondError(c, http.StatusNotFound, ErrCodeNotConfigured, models.ErrHistoryDisabled.Error())
		return
	}

	opts := models.HistoryQueryOpts{
		Status: models.RouteStatus(c.Query("status")),
		Limit:  parseInt(c.Query("limit"), 0),
	}

	switch opts.Status {
	case "", models.StatusFound, models.StatusNoPath, models.StatusTooFar,
		models.StatusResolverError, models.StatusInternalError:
	default:
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, "unknown status filter")
		return
	}

	entries, err := h.repo.RecentRoutes(c.Request.Context(), opts)
	if err != nil {
		h.log.WithError(err).Error("history query failed")
		respondError(c, http.StatusInternalServerError, ErrCodeInternalError, "internal server error")
		return
	}

	if entries == nil {
		entries = []models.HistoryEntry{}
	}

	c.JSON(http.StatusOK, gin.H{"entries": entries, "count": len(entries)})
}
