package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/persistorai/borderhop/client"
	"github.com/persistorai/borderhop/internal/api"
	"github.com/persistorai/borderhop/internal/borders"
	"github.com/persistorai/borderhop/internal/config"
	"github.com/persistorai/borderhop/internal/db"
	"github.com/persistorai/borderhop/internal/db/migrations"
	"github.com/persistorai/borderhop/internal/dbpool"
	"github.com/persistorai/borderhop/internal/directory"
	"github.com/persistorai/borderhop/internal/service"
	"github.com/persistorai/borderhop/internal/store"
	"github.com/persistorai/borderhop/internal/ws"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: "Serve the route API, the live feed and prometheus metrics.\n" +
			"Configuration is read from the environment (PORT, COUNTRIES_API_URL,\n" +
			"RESOLVER_RATE, MAX_HOPS, DATABASE_URL, ...); search history is\n" +
			"enabled when DATABASE_URL is set.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			return runServe(cmd.Context(), cfg)
		},
	}
}

func newServerLogger(level string) *logrus.Logger {
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})
	if lvl, err := logrus.ParseLevel(level); err == nil {
		log.SetLevel(lvl)
	}
	return log
}

func runServe(ctx context.Context, cfg *config.Config) error {
	log := newServerLogger(cfg.LogLevel)
	gin.SetMode(gin.ReleaseMode)

	countries := client.New(cfg.CountriesAPIURL,
		client.WithTimeout(cfg.RequestTimeout),
		client.WithUserAgent("borderhop/"+config.Version),
	)
	resolver := borders.New(countries.Countries, log, borders.WithRate(cfg.ResolverRate, cfg.ResolverBurst))
	dir := directory.New(countries.Countries, log)
	hub := ws.NewHub(log)

	g, gctx := errgroup.WithContext(ctx)

	deps := &api.RouterDeps{
		Log:         log,
		Hub:         hub,
		Countries:   dir,
		CORSOrigins: cfg.CORSOrigins,
		Version:     config.Version,
	}
	opts := []service.RouteOption{service.WithMaxHops(cfg.MaxHops)}

	if cfg.HistoryEnabled() {
		pool, err := dbpool.NewPool(ctx, cfg.DatabaseURL.Value())
		if err != nil {
			return fmt.Errorf("connecting to database: %w", err)
		}
		defer pool.Close()

		if err := db.RunMigrations(ctx, pool, log, migrations.FS); err != nil {
			return err
		}

		histories := store.NewHistoryStore(store.Base{Pool: pool, Log: log})
		worker := service.NewHistoryWorker(histories, log, cfg.HistoryQueue)
		g.Go(func() error {
			worker.Run(gctx)
			return nil
		})

		// Recorded searches reach the feed through NOTIFY so every instance sees them.
		if err := db.NewNotifyBridge(log, pool, hub).Start(gctx); err != nil {
			return err
		}

		opts = append(opts, service.WithHistory(worker))
		deps.Pool = pool
		deps.History = service.NewHistoryService(histories, log)
	} else {
		opts = append(opts, service.WithFeed(hub))
	}

	deps.Routes = service.NewRouteService(dir, resolver, log, opts...)

	g.Go(func() error {
		hub.Run(gctx)
		return nil
	})

	// Warm the directory; a failure is retried by the first request.
	g.Go(func() error {
		if err := dir.Load(gctx); err != nil {
			log.WithError(err).Warn("country directory warm-up failed")
		}
		return nil
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           api.NewRouter(gctx, deps),
		ReadHeaderTimeout: 10 * time.Second,
	}

	metricsMux := http.NewServeMux()
	metricsMux.Handle("/metrics", promhttp.Handler())
	metricsSrv := &http.Server{
		Addr:              cfg.MetricsAddr(),
		Handler:           metricsMux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	for _, s := range []*http.Server{srv, metricsSrv} {
		g.Go(func() error {
			log.WithField("addr", s.Addr).Info("listening")
			if err := s.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("serving %s: %w", s.Addr, err)
			}
			return nil
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		return errors.Join(srv.Shutdown(shutdownCtx), metricsSrv.Shutdown(shutdownCtx))
	})

	log.WithFields(logrus.Fields{
		"version":   config.Version,
		"countries": cfg.CountriesAPIURL,
		"history":   cfg.HistoryEnabled(),
	}).Info("borderhop started")

	return g.Wait()
}
