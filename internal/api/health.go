// Package api provides HTTP handlers for borderhop.
package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/persistorai/borderhop/internal/dbpool"
	"github.com/persistorai/borderhop/internal/ws"
)

// HealthHandler serves health check endpoints.
type HealthHandler struct {
	pool      *dbpool.Pool
	hub       *ws.Hub
	countries CountryRepository
	log       *logrus.Logger
	version   string
	startTime time.Time
}

// NewHealthHandler creates a HealthHandler with the given dependencies.
// pool and hub may be nil.
func NewHealthHandler(pool *dbpool.Pool, hub *ws.Hub, countries CountryRepository, log *logrus.Logger, version string) *HealthHandler {
	return &HealthHandler{
		pool:      pool,
		hub:       hub,
		countries: countries,
		log:       log,
		version:   version,
		startTime: time.Now(),
	}
}

// readinessResponse is the JSON payload returned by the readiness endpoint.
type readinessResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// healthResponse is the JSON payload returned by the health/liveness endpoint.
type healthResponse struct {
	Status        string  `json:"status"`
	Version       string  `json:"version"`
	Directory     string  `json:"directory"`
	History       string  `json:"history"`
	FeedClients   int     `json:"feed_clients"`
	UptimeSeconds float64 `json:"uptime_seconds"`
}

// Liveness handles GET /api/v1/health. It never calls the countries API.
func (h *HealthHandler) Liveness(c *gin.Context) {
	resp := healthResponse{
		Status:        "ok",
		Version:       h.version,
		Directory:     "not_loaded",
		History:       "not_configured",
		UptimeSeconds: time.Since(h.startTime).Seconds(),
	}

	if h.countries != nil && h.countries.Loaded() {
		resp.Directory = "loaded"
	}

	if h.hub != nil {
		resp.FeedClients = h.hub.ClientCount()
	}

	// Best-effort database ping (non-fatal for liveness).
	if h.pool != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		resp.History = "connected"
		if err := h.pool.HealthCheck(ctx); err != nil {
			resp.History = "disconnected"
		}
	}

	c.JSON(http.StatusOK, resp)
}

// Readiness handles GET /api/v1/ready: the country directory must be
// loadable, and the history table reachable when history is configured.
func (h *HealthHandler) Readiness(c *gin.Context) {
	checks := map[string]string{
		"directory": "ok",
		"history":   "not_configured",
	}
	status := "ready"
	statusCode := http.StatusOK

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	if err := h.countries.Load(ctx); err != nil {
		h.log.WithError(err).Error("readiness: country directory unavailable")
		checks["directory"] = "error"
		status = "not_ready"
		statusCode = http.StatusServiceUnavailable
	}

	if h.pool != nil {
		checks["history"] = "ok"
		if err := h.checkSchema(ctx); err != nil {
			h.log.WithError(err).Warn("readiness: history check failed")
			checks["history"] = "degraded"
		}

		acquired, total := h.pool.Stats()
		checks["history_conns"] = fmt.Sprintf("%d/%d", acquired, total)
	}

	c.JSON(statusCode, readinessResponse{
		Status: status,
		Checks: checks,
	})
}

// checkSchema verifies the history table exists.
func (h *HealthHandler) checkSchema(ctx context.Context) error {
	var count int
	err := h.pool.QueryRow(ctx, "SELECT COUNT(*) FROM route_history").Scan(&count)
	if err != nil {
		return fmt.Errorf("schema check: %w", err)
	}

	return nil
}
