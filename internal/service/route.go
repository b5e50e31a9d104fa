// Package service provides business logic between API handlers and data stores.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/persistorai/borderhop/internal/domain"
	"github.com/persistorai/borderhop/internal/metrics"
	"github.com/persistorai/borderhop/internal/models"
	"github.com/persistorai/borderhop/internal/pathfind"
)

// Banners shown for searches that end without a route.
const (
	MessageNoPath        = "no land route exists"
	MessageTooFar        = "Very far... take a plane?"
	messageResolverError = "error while contacting the countries service"
	messageInternalError = "unexpected internal error"
)

// Directory resolves user input to countries and codes to names.
type Directory interface {
	Load(ctx context.Context) error
	Lookup(nameOrCode string) (models.Country, error)
	Name(code string) string
}

// HistoryQueue accepts finished searches for asynchronous recording.
type HistoryQueue interface {
	Enqueue(result *models.RouteResult)
}

// outcomeCancelled labels searches abandoned by their caller. They are not
// recorded in history or published to the feed.
const outcomeCancelled = "cancelled"

// Feed receives every finished search for live subscribers.
type Feed interface {
	Publish(eventType string, data any)
}

// Compile-time check: *RouteService must satisfy domain.RouteService.
var _ domain.RouteService = (*RouteService)(nil)

// RouteService runs one path search per call against the border resolver.
type RouteService struct {
	dir      Directory
	resolver pathfind.EdgeResolver
	log      *logrus.Logger
	maxHops  int
	history  HistoryQueue
	feed     Feed
}

// RouteOption configures a RouteService.
type RouteOption func(*RouteService)

// WithMaxHops caps route length in border crossings.
func WithMaxHops(n int) RouteOption {
	return func(s *RouteService) { s.maxHops = n }
}

// WithHistory records every finished search through q.
func WithHistory(q HistoryQueue) RouteOption {
	return func(s *RouteService) { s.history = q }
}

// WithFeed publishes every finished search to f.
func WithFeed(f Feed) RouteOption {
	return func(s *RouteService) { s.feed = f }
}

// NewRouteService creates a RouteService.
func NewRouteService(dir Directory, resolver pathfind.EdgeResolver, log *logrus.Logger, opts ...RouteOption) *RouteService {
	s := &RouteService{
		dir:      dir,
		resolver: resolver,
		log:      log,
		maxHops:  pathfind.DefaultMaxHops,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// FindRoute searches for every shortest land route between from and to.
// Errors are returned only for bad input or an unavailable directory;
// every search outcome is reported in the result.
func (s *RouteService) FindRoute(ctx context.Context, from, to string) (*models.RouteResult, error) {
	return s.StreamRoute(ctx, from, to, nil)
}

// StreamRoute is FindRoute with a progress callback invoked after every lookup.
func (s *RouteService) StreamRoute(
	ctx context.Context, from, to string, onProgress func(models.RouteProgress),
) (*models.RouteResult, error) {
	req := models.RouteRequest{From: from, To: to}
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	if err := s.dir.Load(ctx); err != nil {
		return nil, err
	}

	fromCountry, err := s.dir.Lookup(req.From)
	if err != nil {
		return nil, fmt.Errorf("from: %w", err)
	}

	toCountry, err := s.dir.Lookup(req.To)
	if err != nil {
		return nil, fmt.Errorf("to: %w", err)
	}

	log := s.log.WithFields(logrus.Fields{
		"from": fromCountry.Code,
		"to":   toCountry.Code,
	})
	log.Debug("route.search")

	opts := []pathfind.Option{pathfind.WithMaxHops(s.maxHops)}
	opts = append(opts, pathfind.WithOnExpand(func(node pathfind.NodeID, step, requests int) {
		log.WithFields(logrus.Fields{
			"node":     node,
			"step":     step,
			"requests": requests,
		}).Trace("route.expand")

		if onProgress != nil {
			onProgress(models.RouteProgress{
				Code:         string(node),
				Name:         s.dir.Name(string(node)),
				Step:         step,
				RequestCount: requests,
			})
		}
	}))

	start := time.Now()
	out := pathfind.Search(ctx, pathfind.NodeID(fromCountry.Code), pathfind.NodeID(toCountry.Code), s.resolver, opts...)
	result := s.toResult(out, fromCountry, toCountry, time.Since(start))

	// A caller that went away mid-search is not an upstream failure.
	if result.Failed() && ctx.Err() != nil {
		metrics.SearchesTotal.WithLabelValues(outcomeCancelled).Inc()
		log.WithFields(logrus.Fields{
			"requests": result.RequestCount,
		}).WithError(ctx.Err()).Info("route search cancelled")
		return result, nil
	}

	metrics.SearchesTotal.WithLabelValues(string(result.Status)).Inc()
	metrics.SearchRequests.Observe(float64(result.RequestCount))
	if result.Status == models.StatusFound {
		metrics.RouteHops.Observe(float64(result.Hops))
	}

	entry := log.WithFields(logrus.Fields{
		"status":   result.Status,
		"paths":    len(result.Paths),
		"requests": result.RequestCount,
		"duration": time.Duration(result.DurationMS) * time.Millisecond,
	})
	if result.Failed() {
		entry.WithError(out.Err).Warn("route search failed")
	} else {
		entry.Info("route search finished")
	}

	if s.history != nil {
		s.history.Enqueue(result)
	}
	if s.feed != nil {
		summary := models.NewHistoryEntry(result)
		summary.CreatedAt = time.Now().UTC()
		s.feed.Publish("route", summary)
	}

	return result, nil
}

func (s *RouteService) toResult(out pathfind.Outcome, from, to models.Country, elapsed time.Duration) *models.RouteResult {
	r := &models.RouteResult{
		ID:           uuid.NewString(),
		From:         from,
		To:           to,
		Paths:        [][]string{},
		NamedPaths:   [][]string{},
		RequestCount: out.Requests,
		DurationMS:   elapsed.Milliseconds(),
	}

	switch out.Kind {
	case pathfind.Found:
		r.Status = models.StatusFound
		r.Hops = out.Depth
		for _, p := range out.Paths {
			codes := make([]string, len(p))
			names := make([]string, len(p))
			for i, n := range p {
				codes[i] = string(n)
				names[i] = s.dir.Name(string(n))
			}
			r.Paths = append(r.Paths, codes)
			r.NamedPaths = append(r.NamedPaths, names)
		}
	case pathfind.NoPath:
		r.Status = models.StatusNoPath
		r.Message = MessageNoPath
	case pathfind.DepthExceeded:
		r.Status = models.StatusTooFar
		r.Hops = out.Depth
		r.Message = MessageTooFar
	case pathfind.ResolveFailure:
		r.Status = models.StatusResolverError
		r.Error = errorText(out.Err)
		r.Message = messageResolverError + ": " + r.Error
	default:
		r.Status = models.StatusInternalError
		r.Error = errorText(out.Err)
		r.Message = messageInternalError + ": " + r.Error
	}

	return r
}

// errorText strips the engine's classification prefix so the banner shows the cause.
func errorText(err error) string {
	if err == nil {
		return "unknown error"
	}
	msg := err.Error()
	for _, sentinel := range []error{pathfind.ErrResolve, pathfind.ErrInternal} {
		if errors.Is(err, sentinel) {
			msg = strings.TrimPrefix(msg, sentinel.Error()+": ")
		}
	}
	return msg
}
