package models

import "strings"

// maxCountryInput caps the length of a from/to query value.
const maxCountryInput = 100

// RouteStatus is the user-facing terminal state of a route search.
type RouteStatus string

// Route statuses. Exactly one banner is shown per status.
const (
	StatusFound         RouteStatus = "found"
	StatusNoPath        RouteStatus = "no_path"
	StatusTooFar        RouteStatus = "too_far"
	StatusResolverError RouteStatus = "resolver_error"
	StatusInternalError RouteStatus = "internal_error"
)

// RouteRequest names the two countries to connect, by common name or cca3 code.
type RouteRequest struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// Normalize trims surrounding whitespace from both fields.
func (r *RouteRequest) Normalize() {
	r.From = strings.TrimSpace(r.From)
	r.To = strings.TrimSpace(r.To)
}

// Validate checks required fields and lengths.
func (r *RouteRequest) Validate() error {
	if r.From == "" {
		return ErrMissingFrom
	}

	if r.To == "" {
		return ErrMissingTo
	}

	if len(r.From) > maxCountryInput {
		return ErrFieldTooLong("from", maxCountryInput)
	}

	if len(r.To) > maxCountryInput {
		return ErrFieldTooLong("to", maxCountryInput)
	}

	return nil
}

// RouteResult is the outcome of one route search, ready to render.
type RouteResult struct {
	ID           string      `json:"id"`
	From         Country     `json:"from"`
	To           Country     `json:"to"`
	Status       RouteStatus `json:"status"`
	Message      string      `json:"message,omitempty"`
	Paths        [][]string  `json:"paths"`
	NamedPaths   [][]string  `json:"named_paths"`
	Hops         int         `json:"hops"`
	RequestCount int         `json:"request_count"`
	Error        string      `json:"error,omitempty"`
	DurationMS   int64       `json:"duration_ms"`
}

// Failed reports whether the search ended on a resolver or internal error.
func (r *RouteResult) Failed() bool {
	return r.Status == StatusResolverError || r.Status == StatusInternalError
}

// RouteProgress is emitted after every border lookup of a running search.
type RouteProgress struct {
	Code         string `json:"code"`
	Name         string `json:"name"`
	Step         int    `json:"step"`
	RequestCount int    `json:"request_count"`
}
