package ws

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/coder/websocket"

	"github.com/persistorai/borderhop/internal/metrics"
)

// Stream carries the events of one route search over its own connection:
// any number of progress events, then a single result or error event.
// Writes are serialized; after the first failed write every Send is a no-op
// returning that error.
type Stream struct {
	conn *websocket.Conn
	seq  EventSequence

	mu  sync.Mutex
	err error
}

// NewStream wraps an accepted connection.
func NewStream(conn *websocket.Conn) *Stream {
	metrics.WSStreams.Inc()
	return &Stream{conn: conn}
}

// Send writes one event.
func (s *Stream) Send(ctx context.Context, eventType string, data any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.err != nil {
		return s.err
	}

	evt, err := newEvent(&s.seq, eventType, data)
	if err != nil {
		return err
	}

	msg, err := json.Marshal(evt)
	if err != nil {
		return err
	}

	writeCtx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	if err := s.conn.Write(writeCtx, websocket.MessageText, msg); err != nil {
		s.err = err
		return err
	}

	return nil
}

// Close ends the stream with a normal closure.
func (s *Stream) Close(reason string) error {
	metrics.WSStreams.Dec()
	return s.conn.Close(websocket.StatusNormalClosure, reason)
}
