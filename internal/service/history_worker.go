package service

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/persistorai/borderhop/internal/domain"
	"github.com/persistorai/borderhop/internal/metrics"
	"github.com/persistorai/borderhop/internal/models"
)

// HistoryWorker buffers finished searches and writes them via a single worker goroutine.
type HistoryWorker struct {
	recorder domain.HistoryRecorder
	log      *logrus.Logger
	jobs     chan *models.HistoryEntry
}

// NewHistoryWorker creates a HistoryWorker with the given queue capacity.
func NewHistoryWorker(recorder domain.HistoryRecorder, log *logrus.Logger, queueSize int) *HistoryWorker {
	if queueSize <= 0 {
		queueSize = 1000
	}
	return &HistoryWorker{
		recorder: recorder,
		log:      log,
		jobs:     make(chan *models.HistoryEntry, queueSize),
	}
}

// Enqueue adds a search result. Non-blocking; drops the entry if the queue is full.
func (w *HistoryWorker) Enqueue(result *models.RouteResult) {
	entry := models.NewHistoryEntry(result)
	select {
	case w.jobs <- entry:
		metrics.HistoryQueueDepth.Set(float64(len(w.jobs)))
	default:
		w.log.WithFields(logrus.Fields{
			"from": entry.FromCode,
			"to":   entry.ToCode,
		}).Warn("history queue full, dropping entry")
	}
}

// Run processes history entries until the context is cancelled, then drains remaining entries.
func (w *HistoryWorker) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			w.drain()
			return
		case entry := <-w.jobs:
			w.process(entry)
		}
	}
}

func (w *HistoryWorker) drain() {
	for {
		select {
		case entry := <-w.jobs:
			w.process(entry)
		default:
			return
		}
	}
}

func (w *HistoryWorker) process(entry *models.HistoryEntry) {
	metrics.HistoryQueueDepth.Set(float64(len(w.jobs)))
	if err := w.recorder.RecordRoute(context.Background(), entry); err != nil {
		w.log.WithError(err).WithField("id", entry.ID).Warn("history record failed")
	}
}
