package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/persistorai/borderhop/internal/dbpool"
	"github.com/persistorai/borderhop/internal/middleware"
	"github.com/persistorai/borderhop/internal/ws"
)

// RouterDeps holds all dependencies needed by the router.
type RouterDeps struct {
	Log         *logrus.Logger
	Pool        *dbpool.Pool // nil when history is not configured
	Hub         *ws.Hub
	Routes      RouteRepository
	Countries   CountryRepository
	History     HistoryRepository // nil when history is not configured
	CORSOrigins []string
	Version     string
}

// Router-level limits.
const (
	maxBodySize = 1 << 10 // the API takes no request bodies
	rateLimit   = 50      // requests per second per IP
	rateBurst   = 100     // token bucket burst size
	searchRate  = 0.5     // route searches per second per IP
	searchBurst = 5
)

// setupMiddleware configures all middleware on the Gin engine.
func setupMiddleware(ctx context.Context, r *gin.Engine, deps *RouterDeps) {
	r.SetTrustedProxies(nil) //nolint:errcheck // nil always succeeds.
	r.Use(middleware.RequestID(deps.Log))
	r.Use(ginLogger(deps.Log))
	r.Use(gin.Recovery())
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.MaxBodySize(maxBodySize))
	r.Use(cors.New(cors.Config{
		AllowOrigins:     deps.CORSOrigins,
		AllowMethods:     []string{"GET", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type"},
		ExposeHeaders:    []string{middleware.RequestIDHeader},
		MaxAge:           1 * time.Hour,
		AllowCredentials: false,
	}))
	r.Use(middleware.NewRateLimiter(ctx, rateLimit, rateBurst).Handler())
	r.Use(middleware.PrometheusMiddleware("/metrics"))

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
}

// registerRoutes sets up all API route handlers on the given router group.
func registerRoutes(ctx context.Context, api *gin.RouterGroup, deps *RouterDeps) {
	log := deps.Log
	origins := originHosts(deps.CORSOrigins)

	health := NewHealthHandler(deps.Pool, deps.Hub, deps.Countries, log, deps.Version)
	countries := NewCountryHandler(deps.Countries, log)
	routes := NewRouteHandler(deps.Routes, log, origins)
	history := NewHistoryHandler(deps.History, log)

	api.GET("/health", health.Liveness)
	api.GET("/ready", health.Readiness)

	api.GET("/countries", countries.List)

	// Every search fans out into many upstream lookups, so searches get
	// their own, much tighter, per-IP budget.
	searchLimit := middleware.NewRateLimiter(ctx, searchRate, searchBurst).
		WithMessage("too many route searches, slow down")
	api.GET("/route", searchLimit.Handler(), routes.Find)
	api.GET("/route/stream", searchLimit.Handler(), routes.Stream)

	api.GET("/history", history.Recent)

	if deps.Hub != nil {
		api.GET("/feed", feedHandler(ctx, log, deps.Hub, origins))
	}
}

// NewRouter creates and configures the Gin engine with all middleware and routes.
func NewRouter(ctx context.Context, deps *RouterDeps) http.Handler {
	r := gin.New()
	setupMiddleware(ctx, r, deps)
	registerRoutes(ctx, r.Group("/api/v1"), deps)

	return r
}
