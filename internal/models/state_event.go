package models

import "time"

// EventType names the single field a StateUpdateEvent changes.
type EventType string

const (
	EventTemperature EventType = "TEMPERATURE"
	EventLight       EventType = "LIGHT"
	EventDoor        EventType = "DOOR"
	EventHeat        EventType = "HEAT"
)

// TrueToken is the wire literal for an enabled boolean field.
const TrueToken = "true"

// Valid reports whether t is one of the known field discriminants.
func (t EventType) Valid() bool {
	switch t {
	case EventTemperature, EventLight, EventDoor, EventHeat:
		return true
	default:
		return false
	}
}

// StateUpdateEvent is one atomic field change pushed by the server.
type StateUpdateEvent struct {
	Type  EventType `json:"type"`
	Value string    `json:"value"` // "true"/"false" or decimal text
}

// HistoryEvent is one row of the server's /history listing.
type HistoryEvent struct {
	ID        int       `json:"id"`
	Type      EventType `json:"type"`
	Value     string    `json:"value"`
	CreatedAt time.Time `json:"createdAt"`
}
