// Package publisher mirrors dashboard state onto an MQTT broker so other
// home automation tools can react to it.
package publisher

import (
	"encoding/json"
	"time"

	"myhouse/internal/models"
	"myhouse/internal/notify"
	"myhouse/internal/presence"
)

// Topics.
const (
	TopicState         = "myhouse/dashboard/state"
	TopicPresence      = "myhouse/dashboard/presence"
	TopicNotifications = "myhouse/dashboard/notifications"
)

// Message is one outgoing publish.
type Message struct {
	Topic    string
	Payload  []byte
	QoS      byte
	Retained bool
}

// Publisher delivers messages to a broker.
type Publisher interface {
	// Publish returns an error if delivery fails; callers log and move on.
	Publish(msg Message) error

	// Close disconnects from the broker.
	Close() error
}

// StatePayload is the body published on TopicState.
type StatePayload struct {
	Timestamp string           `json:"timestamp"`
	State     models.HomeState `json:"state"`
}

// PresencePayload is the body published on TopicPresence.
type PresencePayload struct {
	Timestamp string            `json:"timestamp"`
	Presence  presence.Judgment `json:"presence"`
}

// StateMessage formats a snapshot.
func StateMessage(st models.HomeState, at time.Time) (Message, error) {
	b, err := json.Marshal(StatePayload{Timestamp: stamp(at), State: st})
	if err != nil {
		return Message{}, err
	}
	return Message{Topic: TopicState, Payload: b}, nil
}

// PresenceMessage formats a judgment. It is retained so late subscribers
// see the current verdict.
func PresenceMessage(j presence.Judgment, at time.Time) (Message, error) {
	b, err := json.Marshal(PresencePayload{Timestamp: stamp(at), Presence: j})
	if err != nil {
		return Message{}, err
	}
	return Message{Topic: TopicPresence, Payload: b, QoS: 1, Retained: true}, nil
}

// NotificationMessage formats a notification.
func NotificationMessage(n notify.Notification) (Message, error) {
	b, err := json.Marshal(n)
	if err != nil {
		return Message{}, err
	}
	return Message{Topic: TopicNotifications, Payload: b}, nil
}

func stamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
