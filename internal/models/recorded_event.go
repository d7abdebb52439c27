package models

import "time"

// RecordedEvent is a locally persisted state change.
type RecordedEvent struct {
	EventID    string    `json:"event_id"`
	OccurredAt time.Time `json:"occurred_at"`
	Type       EventType `json:"type"`
	Value      string    `json:"value"`
}
