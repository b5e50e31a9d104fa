package ws

import (
	"encoding/json"
	"sync/atomic"
	"time"
)

// Event types sent to WebSocket clients.
const (
	EventProgress = "progress"
	EventResult   = "result"
	EventError    = "error"
	EventRoute    = "route"
	EventReset    = "reset"
)

// Event is the structured message sent to WebSocket clients.
type Event struct {
	Type string          `json:"type"`
	ID   uint64          `json:"id"`
	Data json.RawMessage `json:"data"`
	Time time.Time       `json:"time"`
}

// SubscribeMsg is sent by a feed client on connect to request event replay.
type SubscribeMsg struct {
	Type        string `json:"type"`
	LastEventID uint64 `json:"last_event_id"`
}

// ResetMsg tells the client to do a full refresh (requested events too old).
type ResetMsg struct {
	Type   string `json:"type"`
	Reason string `json:"reason"`
}

// EventSequence hands out monotonic event IDs starting at 1.
type EventSequence struct {
	n atomic.Uint64
}

// Next returns the next sequence number.
func (es *EventSequence) Next() uint64 {
	return es.n.Add(1)
}

func newEvent(seq *EventSequence, eventType string, data any) (Event, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return Event{}, err
	}
	return Event{
		Type: eventType,
		ID:   seq.Next(),
		Data: raw,
		Time: time.Now(),
	}, nil
}
