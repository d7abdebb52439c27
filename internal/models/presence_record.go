package models

import "time"

// PresenceRecord is the persisted form of the latest occupancy judgment.
type PresenceRecord struct {
	IsPresent    bool       `json:"is_present"`
	Confidence   string     `json:"confidence"`
	Reason       string     `json:"reason"`
	Score        int        `json:"score"`
	LastActivity *time.Time `json:"last_activity,omitempty"`
	UpdatedAt    time.Time  `json:"updated_at"`
}
