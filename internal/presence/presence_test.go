package presence

import (
	"testing"
	"time"

	"myhouse/internal/clock"
	"myhouse/internal/models"
	"myhouse/internal/state"
)

var start = time.Date(2025, 11, 3, 18, 30, 0, 0, time.UTC)

func TestEstimator_InitialJudgmentIsWaiting(t *testing.T) {
	e := NewEstimator(clock.NewFake(start))
	j := e.Current()
	if j.IsPresent || j.Confidence != ConfidenceLow || j.Reason != ReasonWaiting || j.LastActivity != nil {
		t.Fatalf("initial judgment = %+v", j)
	}
}

func TestEstimator_Scenarios(t *testing.T) {
	cases := []struct {
		name    string
		prev    *models.HomeState
		next    models.HomeState
		present bool
		conf    Confidence
		score   int
		reason  string
	}{
		{
			name:    "light and comfort band without activity",
			next:    models.HomeState{Temperature: "21", Light: true},
			present: true, conf: ConfidenceMedium, score: 50,
			reason: "presence likely (light on)",
		},
		{
			name:    "everything off and cold",
			next:    models.HomeState{Temperature: "15"},
			present: false, conf: ConfidenceLow, score: 0,
			reason: ReasonNoActivity,
		},
		{
			name:    "light turns on with door already open",
			prev:    &models.HomeState{Temperature: "22", Door: true},
			next:    models.HomeState{Temperature: "22", Light: true, Door: true},
			present: true, conf: ConfidenceHigh, score: 90,
			reason: "presence confirmed (light on, door open, activity detected)",
		},
		{
			name:    "door only is possible presence",
			next:    models.HomeState{Temperature: "10", Door: true},
			present: true, conf: ConfidenceLow, score: 20,
			reason: "presence possible (door open)",
		},
		{
			name:    "comfort band alone is absent",
			next:    models.HomeState{Temperature: "19"},
			present: false, conf: ConfidenceLow, score: 10,
			reason: ReasonNoActivity,
		},
		{
			name:    "heat and band at upper edge",
			next:    models.HomeState{Temperature: "23", Heat: true},
			present: true, conf: ConfidenceMedium, score: 40,
			reason: "presence likely (heating active)",
		},
		{
			name:    "everything on reaches high",
			next:    models.HomeState{Temperature: "30", Light: true, Door: true, Heat: true},
			present: true, conf: ConfidenceHigh, score: 90,
			reason: "presence confirmed (light on, door open, heating active)",
		},
		{
			name:    "temperature jump alone is activity",
			prev:    &models.HomeState{Temperature: "15"},
			next:    models.HomeState{Temperature: "15.6"},
			present: true, conf: ConfidenceLow, score: 20,
			reason: "presence possible (activity detected)",
		},
		{
			name:    "temperature delta of exactly half a degree is not activity",
			prev:    &models.HomeState{Temperature: "15"},
			next:    models.HomeState{Temperature: "15.5"},
			present: false, conf: ConfidenceLow, score: 0,
			reason: ReasonNoActivity,
		},
		{
			name:    "malformed temperature is zero",
			next:    models.HomeState{Temperature: "warm", Light: true},
			present: true, conf: ConfidenceMedium, score: 40,
			reason: "presence likely (light on)",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := NewEstimator(clock.NewFake(start))
			if tc.prev != nil {
				e.Observe(*tc.prev)
			}
			j := e.Observe(tc.next)
			if j.IsPresent != tc.present || j.Confidence != tc.conf || j.Score != tc.score {
				t.Fatalf("judgment = %+v, want present=%v conf=%s score=%d", j, tc.present, tc.conf, tc.score)
			}
			if j.Reason != tc.reason {
				t.Fatalf("reason = %q, want %q", j.Reason, tc.reason)
			}
			if e.Current() != j {
				t.Fatalf("Current() = %+v, want %+v", e.Current(), j)
			}
		})
	}
}

func TestEstimator_FirstSnapshotHasNoActivity(t *testing.T) {
	c := clock.NewFake(start)
	e := NewEstimator(c)
	c.Advance(time.Minute)

	j := e.Observe(models.HomeState{Temperature: "40", Light: true, Door: true, Heat: true})
	if j.Score != WeightLight+WeightDoor+WeightHeat {
		t.Fatalf("score = %d, first snapshot must not count as activity", j.Score)
	}
	if j.LastActivity == nil || !j.LastActivity.Equal(start) {
		t.Fatalf("last activity = %v, want construction time %v", j.LastActivity, start)
	}
}

func TestEstimator_LastActivityPersistsAcrossJudgments(t *testing.T) {
	c := clock.NewFake(start)
	e := NewEstimator(c)
	e.Observe(models.HomeState{Temperature: "20"})

	c.Advance(2 * time.Minute)
	toggled := models.HomeState{Temperature: "20", Light: true}
	j := e.Observe(toggled)
	wantActivity := start.Add(2 * time.Minute)
	if !j.LastActivity.Equal(wantActivity) {
		t.Fatalf("last activity = %v, want %v", j.LastActivity, wantActivity)
	}

	c.Advance(10 * time.Minute)
	j = e.Observe(toggled)
	if !j.LastActivity.Equal(wantActivity) {
		t.Fatalf("last activity moved to %v without activity", j.LastActivity)
	}
	if j.Score != WeightLight+WeightComfortBand {
		t.Fatalf("score = %d, recent-activity bonus must not apply", j.Score)
	}
}

func TestEstimator_AttachFollowsStoreInOrder(t *testing.T) {
	s := state.NewStore()
	e := NewEstimator(clock.NewFake(start))
	detach := e.Attach(s)

	var seen []Judgment
	e.Subscribe(func(j Judgment) { seen = append(seen, j) })

	s.Replace(models.HomeState{Temperature: "21"})
	s.ApplyUpdate(models.StateUpdateEvent{Type: models.EventLight, Value: "true"})

	if len(seen) != 2 {
		t.Fatalf("got %d judgments, want 2", len(seen))
	}
	if seen[0].IsPresent {
		t.Fatalf("first judgment = %+v", seen[0])
	}
	if seen[1].Confidence != ConfidenceHigh || seen[1].Score != 70 {
		t.Fatalf("second judgment = %+v", seen[1])
	}

	detach()
	s.ApplyUpdate(models.StateUpdateEvent{Type: models.EventDoor, Value: "true"})
	if len(seen) != 2 {
		t.Fatal("estimator still attached after detach")
	}
}

func TestParseTemperature(t *testing.T) {
	cases := map[string]float64{
		"21":    21,
		" 19.5": 19.5,
		"-3.25": -3.25,
		"":      0,
		"abc":   0,
		"NaN":   0,
		"Inf":   0,
	}
	for in, want := range cases {
		if got := ParseTemperature(in); got != want {
			t.Errorf("ParseTemperature(%q) = %v, want %v", in, got, want)
		}
	}
}
