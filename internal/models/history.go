package models

import "time"

// HistoryEntry is one recorded route search.
type HistoryEntry struct {
	ID           string      `json:"id"`
	FromCode     string      `json:"from_code"`
	ToCode       string      `json:"to_code"`
	Status       RouteStatus `json:"status"`
	Hops         int         `json:"hops"`
	RequestCount int         `json:"request_count"`
	Paths        [][]string  `json:"paths"`
	Error        string      `json:"error,omitempty"`
	DurationMS   int64       `json:"duration_ms"`
	CreatedAt    time.Time   `json:"created_at"`
}

// HistoryQueryOpts filters recent history.
type HistoryQueryOpts struct {
	Status RouteStatus
	Limit  int
}

// NewHistoryEntry captures the persisted part of a RouteResult.
func NewHistoryEntry(r *RouteResult) *HistoryEntry {
	return &HistoryEntry{
		ID:           r.ID,
		FromCode:     r.From.Code,
		ToCode:       r.To.Code,
		Status:       r.Status,
		Hops:         r.Hops,
		RequestCount: r.RequestCount,
		Paths:        r.Paths,
		Error:        r.Error,
		DurationMS:   r.DurationMS,
	}
}
