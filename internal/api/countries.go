package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// CountryHandler serves the country suggestion list.
type CountryHandler struct {
	repo CountryRepository
	log  *logrus.Logger
}

// NewCountryHandler creates a CountryHandler.
func NewCountryHandler(repo CountryRepository, log *logrus.Logger) *CountryHandler {
	return &CountryHandler{repo: repo, log: log}
}

// List handles GET /api/v1/countries, largest countries first.
func (h *CountryHandler) List(c *gin.Context) {
	if err := h.repo.Load(c.Request.Context()); err != nil {
		h.log.WithError(err).Warn("countries: directory load failed")
		respondError(c, http.StatusServiceUnavailable, ErrCodeUnavailable, "country directory is unavailable, try again later")
		return
	}

	countries := h.repo.Suggestions()
	c.JSON(http.StatusOK, gin.H{"countries": countries, "count": len(countries)})
}
