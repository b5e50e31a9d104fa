package store

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/persistorai/borderhop/internal/db"
	"github.com/persistorai/borderhop/internal/models"
)

// maxNotifyPayload keeps NOTIFY payloads well below PostgreSQL's 8000 byte limit.
const maxNotifyPayload = 4000

// HistoryStore provides data access for the route_history table.
type HistoryStore struct {
	Base
}

// NewHistoryStore creates a HistoryStore.
func NewHistoryStore(base Base) *HistoryStore {
	return &HistoryStore{Base: base}
}

// RecordRoute inserts one finished search and announces it on the history channel.
func (s *HistoryStore) RecordRoute(ctx context.Context, e *models.HistoryEntry) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	id := e.ID
	if _, err := uuid.Parse(id); err != nil {
		id = uuid.NewString()
	}

	paths := e.Paths
	if paths == nil {
		paths = [][]string{}
	}

	pathsJSON, err := json.Marshal(paths)
	if err != nil {
		return fmt.Errorf("marshaling paths: %w", err)
	}

	err = s.Pool.QueryRow(ctx, `
		INSERT INTO route_history (id, from_code, to_code, status, hops, request_count, paths, error, duration_ms)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at`,
		id, e.FromCode, e.ToCode, string(e.Status), e.Hops, e.RequestCount, pathsJSON, e.Error, e.DurationMS,
	).Scan(&e.CreatedAt)
	if err != nil {
		return fmt.Errorf("inserting route history: %w", err)
	}
	e.ID = id

	s.notify(db.HistoryChannel, notifyPayload(e))

	return nil
}

// notifyPayload is the entry as the live feed shows it. Paths are dropped
// when they would push the payload past maxNotifyPayload.
func notifyPayload(e *models.HistoryEntry) []byte {
	payload, err := json.Marshal(e)
	if err == nil && len(payload) <= maxNotifyPayload {
		return payload
	}

	compact := *e
	compact.Paths = nil
	payload, _ = json.Marshal(&compact) //nolint:errcheck // scalar fields only, cannot fail.

	return payload
}

// RecentRoutes returns the most recent searches, newest first.
func (s *HistoryStore) RecentRoutes(ctx context.Context, opts models.HistoryQueryOpts) ([]models.HistoryEntry, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	query := `
		SELECT id, from_code, to_code, status, hops, request_count, paths, error, duration_ms, created_at
		FROM route_history`
	var args []any

	if opts.Status != "" {
		args = append(args, string(opts.Status))
		query += " WHERE status = $" + strconv.Itoa(len(args))
	}

	args = append(args, opts.Limit)
	query += " ORDER BY created_at DESC LIMIT $" + strconv.Itoa(len(args))

	rows, err := s.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying route history: %w", err)
	}

	entries, err := pgx.CollectRows(rows, scanHistoryEntry)
	if err != nil {
		return nil, fmt.Errorf("scanning route history: %w", err)
	}

	return entries, nil
}

func scanHistoryEntry(row pgx.CollectableRow) (models.HistoryEntry, error) {
	var (
		e         models.HistoryEntry
		id        uuid.UUID
		status    string
		pathsJSON []byte
	)

	if err := row.Scan(
		&id, &e.FromCode, &e.ToCode, &status, &e.Hops, &e.RequestCount,
		&pathsJSON, &e.Error, &e.DurationMS, &e.CreatedAt,
	); err != nil {
		return e, err
	}

	e.ID = id.String()
	e.Status = models.RouteStatus(status)

	if err := json.Unmarshal(pathsJSON, &e.Paths); err != nil {
		return e, fmt.Errorf("decoding paths of %s: %w", e.ID, err)
	}

	return e, nil
}
