// Package borders adapts the countries API to the route engine's EdgeResolver.
package borders

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/persistorai/borderhop/client"
	"github.com/persistorai/borderhop/internal/metrics"
	"github.com/persistorai/borderhop/internal/pathfind"
)

// Default pacing for border lookups.
const (
	DefaultRate  = 5.0
	DefaultBurst = 1
)

var (
	// ErrLookup is matched by every error Resolve returns.
	ErrLookup = errors.New("border lookup failed")

	// ErrMalformed means the API answered 2xx without a borders field.
	ErrMalformed = errors.New("response has no borders field")
)

// ResolveError reports which country could not be resolved and why.
type ResolveError struct {
	Code string
	Err  error
}

// Error implements the error interface.
func (e *ResolveError) Error() string {
	return fmt.Sprintf("borders of %s: %v", e.Code, e.Err)
}

// Unwrap exposes both ErrLookup and the underlying cause.
func (e *ResolveError) Unwrap() []error {
	return []error{ErrLookup, e.Err}
}

// Lookup is the single call Resolver needs from the API client.
// *client.CountryService satisfies it.
type Lookup interface {
	Borders(ctx context.Context, code string) (*client.BordersResponse, error)
}

// Compile-time check: *Resolver must satisfy pathfind.EdgeResolver.
var _ pathfind.EdgeResolver = (*Resolver)(nil)

// Resolver performs one paced border lookup per Resolve call. It never retries.
type Resolver struct {
	lookup  Lookup
	limiter *rate.Limiter
	log     *logrus.Logger
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithRate sets lookups per second and burst. perSecond <= 0 disables pacing.
func WithRate(perSecond float64, burst int) Option {
	return func(r *Resolver) {
		limit := rate.Limit(perSecond)
		if perSecond <= 0 {
			limit = rate.Inf
		}
		if burst < 1 {
			burst = 1
		}
		r.limiter = rate.NewLimiter(limit, burst)
	}
}

// New creates a Resolver paced at DefaultRate lookups per second.
func New(lookup Lookup, log *logrus.Logger, opts ...Option) *Resolver {
	r := &Resolver{
		lookup:  lookup,
		limiter: rate.NewLimiter(rate.Limit(DefaultRate), DefaultBurst),
		log:     log,
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Resolve returns the land neighbours of node, upper-cased and deduplicated.
// An island yields an empty, non-nil slice.
func (r *Resolver) Resolve(ctx context.Context, node pathfind.NodeID) ([]pathfind.NodeID, error) {
	code := string(node)

	if err := r.limiter.Wait(ctx); err != nil {
		metrics.ResolverRequests.WithLabelValues("rate_wait").Inc()
		return nil, &ResolveError{Code: code, Err: fmt.Errorf("waiting for rate limiter: %w", err)}
	}

	start := time.Now()
	resp, err := r.lookup.Borders(ctx, code)
	elapsed := time.Since(start)
	metrics.ResolverDuration.Observe(elapsed.Seconds())

	if err != nil {
		metrics.ResolverRequests.WithLabelValues("error").Inc()
		return nil, &ResolveError{Code: code, Err: err}
	}

	if resp == nil || resp.Borders == nil {
		metrics.ResolverRequests.WithLabelValues("malformed").Inc()
		return nil, &ResolveError{Code: code, Err: ErrMalformed}
	}

	metrics.ResolverRequests.WithLabelValues("ok").Inc()

	neighbors := normalize(*resp.Borders)

	r.log.WithFields(logrus.Fields{
		"code":      code,
		"neighbors": len(neighbors),
		"duration":  elapsed.String(),
	}).Debug("borders.resolve")

	return neighbors, nil
}

func normalize(codes []string) []pathfind.NodeID {
	out := make([]pathfind.NodeID, 0, len(codes))
	seen := make(map[string]struct{}, len(codes))

	for _, c := range codes {
		c = strings.ToUpper(strings.TrimSpace(c))
		if c == "" {
			continue
		}
		if _, dup := seen[c]; dup {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, pathfind.NodeID(c))
	}

	return out
}
