// Package presence infers occupancy from the mirrored home state.
//
// The result is a best-effort heuristic built from four actuator/sensor
// fields. It is meant for dashboard display and automations that tolerate
// mistakes, not as a security or safety signal.
package presence

import (
	"math"
	"strconv"
	"strings"
	"sync"
	"time"

	"myhouse/internal/clock"
	"myhouse/internal/models"
	"myhouse/internal/state"
)

// Score weights.
const (
	WeightLight          = 40
	WeightDoor           = 20
	WeightHeat           = 30
	WeightComfortBand    = 10
	WeightRecentActivity = 20
)

// Classification thresholds.
const (
	ThresholdHigh   = 70
	ThresholdMedium = 40
	ThresholdLow    = 20
)

// Activity detection and comfort band tuning.
const (
	ComfortMinC          = 19.0
	ComfortMaxC          = 23.0
	TemperatureActivityC = 0.5
	RecentActivityWindow = 5 * time.Minute
)

// Reason fragments.
const (
	reasonLight    = "light on"
	reasonDoor     = "door open"
	reasonHeat     = "heating active"
	reasonActivity = "activity detected"

	ReasonWaiting    = "waiting for data"
	ReasonNoActivity = "no activity detected"
)

// Confidence is an ordinal certainty level.
type Confidence string

const (
	ConfidenceLow    Confidence = "low"
	ConfidenceMedium Confidence = "medium"
	ConfidenceHigh   Confidence = "high"
)

// Judgment is one occupancy verdict. It supersedes every earlier one.
type Judgment struct {
	IsPresent    bool       `json:"is_present"`
	Confidence   Confidence `json:"confidence"`
	Reason       string     `json:"reason"`
	Score        int        `json:"score"`
	LastActivity *time.Time `json:"last_activity,omitempty"`
}

// Subscriber receives every recomputed judgment.
type Subscriber func(Judgment)

// Estimator recomputes a Judgment for each observed snapshot.
type Estimator struct {
	clock clock.Clock

	mu           sync.Mutex
	prev         *models.HomeState
	lastActivity time.Time
	current      Judgment
	subs         []Subscriber
}

// NewEstimator returns an estimator whose activity window starts now.
func NewEstimator(c clock.Clock) *Estimator {
	if c == nil {
		c = clock.Real()
	}
	return &Estimator{
		clock:        c,
		lastActivity: c.Now(),
		current: Judgment{
			Confidence: ConfidenceLow,
			Reason:     ReasonWaiting,
		},
	}
}

// Current returns the latest judgment.
func (e *Estimator) Current() Judgment {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.current
}

// Subscribe registers fn for every later judgment.
func (e *Estimator) Subscribe(fn Subscriber) {
	e.mu.Lock()
	e.subs = append(e.subs, fn)
	e.mu.Unlock()
}

// Attach makes the estimator follow store changes and returns the detach func.
func (e *Estimator) Attach(s *state.Store) func() {
	return s.Subscribe(func(c state.Change) { e.Observe(c.Next) })
}

// Observe folds in a new snapshot and returns the recomputed judgment.
func (e *Estimator) Observe(st models.HomeState) Judgment {
	e.mu.Lock()
	now := e.clock.Now()

	active := false
	if e.prev != nil {
		active = activityBetween(*e.prev, st)
	}
	if active {
		e.lastActivity = now
	}
	cur := st
	e.prev = &cur

	j := evaluate(st, active, now.Sub(e.lastActivity))
	last := e.lastActivity
	j.LastActivity = &last
	e.current = j
	subs := append([]Subscriber(nil), e.subs...)
	e.mu.Unlock()

	for _, fn := range subs {
		fn(j)
	}
	return j
}

func activityBetween(prev, next models.HomeState) bool {
	if prev.Light != next.Light || prev.Door != next.Door || prev.Heat != next.Heat {
		return true
	}
	return math.Abs(ParseTemperature(next.Temperature)-ParseTemperature(prev.Temperature)) > TemperatureActivityC
}

func evaluate(st models.HomeState, active bool, sinceActivity time.Duration) Judgment {
	score := 0
	var reasons []string

	if st.Light {
		score += WeightLight
		reasons = append(reasons, reasonLight)
	}
	if st.Door {
		score += WeightDoor
		reasons = append(reasons, reasonDoor)
	}
	if st.Heat {
		score += WeightHeat
		reasons = append(reasons, reasonHeat)
	}
	if t := ParseTemperature(st.Temperature); t >= ComfortMinC && t <= ComfortMaxC {
		score += WeightComfortBand
	}
	if active && sinceActivity < RecentActivityWindow {
		score += WeightRecentActivity
		reasons = append(reasons, reasonActivity)
	}

	j := Judgment{Score: score}
	listed := strings.Join(reasons, ", ")
	switch {
	case score >= ThresholdHigh:
		j.IsPresent, j.Confidence = true, ConfidenceHigh
		j.Reason = "presence confirmed (" + listed + ")"
	case score >= ThresholdMedium:
		j.IsPresent, j.Confidence = true, ConfidenceMedium
		j.Reason = "presence likely (" + listed + ")"
	case score >= ThresholdLow:
		j.IsPresent, j.Confidence = true, ConfidenceLow
		j.Reason = "presence possible (" + listed + ")"
	default:
		j.Confidence = ConfidenceLow
		j.Reason = ReasonNoActivity
	}
	return j
}

// ParseTemperature reads a wire temperature; anything unparsable is 0.
func ParseTemperature(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
