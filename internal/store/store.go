// Package store provides data access for the optional search history.
//
// Stores embed shared helpers (Pool, logger) via the Base struct and never
// import each other.
package store

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/persistorai/borderhop/internal/dbpool"
)

const defaultQueryTimeout = 30 * time.Second

// Base contains shared dependencies for all stores.
// Embed this in each store struct.
type Base struct {
	Pool *dbpool.Pool
	Log  *logrus.Logger
}

// withTimeout creates a context with the default query timeout.
func withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, defaultQueryTimeout)
}

// notify sends a pg_notify on channel (best-effort, post-commit).
func (b *Base) notify(channel string, payload []byte) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := b.Pool.Exec(ctx, "SELECT pg_notify($1, $2)", channel, string(payload)); err != nil {
		b.Log.WithError(err).WithField("channel", channel).Warn("failed to send notification")
	}
}
