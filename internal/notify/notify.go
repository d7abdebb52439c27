// Package notify turns individual field transitions into short-lived
// dashboard notifications. It only reacts to incremental updates; a full
// INIT snapshot never produces notifications.
package notify

import (
	"fmt"
	"math"
	"sync"
	"time"

	"myhouse/internal/models"
	"myhouse/internal/presence"
	"myhouse/internal/state"
)

// Level is the visual weight of a notification.
type Level string

const (
	LevelSuccess Level = "success"
	LevelInfo    Level = "info"
	LevelWarning Level = "warning"
)

const (
	tempSwingC     = 2.0
	hotThresholdC  = 25.0
	fieldTTL       = 4 * time.Second
	temperatureTTL = 5 * time.Second
	warningTTL     = 7 * time.Second

	// DefaultHistory is how many notifications Recent keeps.
	DefaultHistory = 50
)

// Notification is one transient message. ID is a dedupe key: a newer
// notification with the same ID replaces the older one on screen.
type Notification struct {
	ID          string        `json:"id"`
	Level       Level         `json:"level"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	TTL         time.Duration `json:"ttl"`
	At          time.Time     `json:"at"`
}

// Sink receives every produced notification.
type Sink func(Notification)

// Notifier derives notifications from store changes.
type Notifier struct {
	now func() time.Time

	mu     sync.Mutex
	sinks  []Sink
	recent []Notification
	limit  int
}

// NewNotifier keeps the last limit notifications for Recent.
func NewNotifier(now func() time.Time, limit int) *Notifier {
	if now == nil {
		now = time.Now
	}
	if limit <= 0 {
		limit = DefaultHistory
	}
	return &Notifier{now: now, limit: limit}
}

// AddSink registers a delivery target.
func (n *Notifier) AddSink(s Sink) {
	n.mu.Lock()
	n.sinks = append(n.sinks, s)
	n.mu.Unlock()
}

// Attach follows the store and returns the detach func.
func (n *Notifier) Attach(s *state.Store) func() {
	return s.Subscribe(n.Handle)
}

// Recent returns the retained notifications, oldest first.
func (n *Notifier) Recent() []Notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]Notification(nil), n.recent...)
}

// Handle processes one store change.
func (n *Notifier) Handle(c state.Change) {
	if c.Event == nil {
		return
	}
	out := Derive(c.Prev, *c.Event)
	if len(out) == 0 {
		return
	}

	at := n.now()
	n.mu.Lock()
	for i := range out {
		out[i].At = at
		n.recent = append(n.recent, out[i])
	}
	if over := len(n.recent) - n.limit; over > 0 {
		n.recent = append([]Notification(nil), n.recent[over:]...)
	}
	sinks := append([]Sink(nil), n.sinks...)
	n.mu.Unlock()

	for _, note := range out {
		for _, sink := range sinks {
			sink(note)
		}
	}
}

// Derive returns the notifications for ev applied on top of prev.
func Derive(prev models.HomeState, ev models.StateUpdateEvent) []Notification {
	prevTemp := presence.ParseTemperature(prev.Temperature)
	on := ev.Value == models.TrueToken

	switch ev.Type {
	case models.EventTemperature:
		next := presence.ParseTemperature(ev.Value)
		if prevTemp == 0 || math.Abs(next-prevTemp) <= tempSwingC {
			return nil
		}
		note := Notification{
			ID:          fmt.Sprintf("temp-%s", formatTemp(next)),
			Description: fmt.Sprintf("%s°C → %s°C", formatTemp(prevTemp), formatTemp(next)),
			TTL:         temperatureTTL,
		}
		if next > prevTemp {
			note.Level, note.Title = LevelSuccess, "Temperature rising"
		} else {
			note.Level, note.Title = LevelInfo, "Temperature falling"
		}
		return []Notification{note}

	case models.EventLight:
		if on {
			return []Notification{{ID: "light-" + ev.Value, Level: LevelSuccess, Title: "Light on", Description: "Lighting enabled", TTL: fieldTTL}}
		}
		return []Notification{{ID: "light-" + ev.Value, Level: LevelInfo, Title: "Light off", Description: "Lighting disabled", TTL: fieldTTL}}

	case models.EventDoor:
		if !on {
			return []Notification{{ID: "door-" + ev.Value, Level: LevelInfo, Title: "Door closed", Description: "Entrance secured", TTL: fieldTTL}}
		}
		out := []Notification{{ID: "door-" + ev.Value, Level: LevelSuccess, Title: "Door opened", Description: "Entry detected", TTL: fieldTTL}}
		if prev.Heat {
			out = append(out, Notification{
				ID: "door-heat-warning", Level: LevelWarning, Title: "Door open while heating",
				Description: "Close the door to save energy", TTL: warningTTL,
			})
		}
		return out

	case models.EventHeat:
		if !on {
			return []Notification{{
				ID: "heat-" + ev.Value, Level: LevelInfo, Title: "Heating off",
				Description: fmt.Sprintf("Eco mode - current temperature: %s°C", formatTemp(prevTemp)), TTL: temperatureTTL,
			}}
		}
		out := []Notification{{
			ID: "heat-" + ev.Value, Level: LevelSuccess, Title: "Heating on",
			Description: fmt.Sprintf("Comfort mode - current temperature: %s°C", formatTemp(prevTemp)), TTL: temperatureTTL,
		}}
		if prevTemp >= hotThresholdC {
			out = append(out, Notification{
				ID: "heat-temp-warning", Level: LevelWarning, Title: "High temperature detected",
				Description: fmt.Sprintf("%s°C - heating may be unnecessary", formatTemp(prevTemp)), TTL: warningTTL,
			})
		}
		return out
	}
	return nil
}

func formatTemp(v float64) string {
	return fmt.Sprintf("%.1f", v)
}
