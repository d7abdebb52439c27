package db_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"myhouse/internal/models"
	"myhouse/internal/repository"
	"myhouse/internal/repository/db"
)

func TestInitDB_RoundTrip(t *testing.T) {
	conn, err := db.InitDB(filepath.Join(t.TempDir(), "myhouse.db"))
	if err != nil {
		t.Fatalf("InitDB: %v", err)
	}
	defer conn.Close()

	repos := repository.NewRepository(conn)
	ctx := context.Background()
	base := time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC)

	for i, ev := range []models.RecordedEvent{
		{OccurredAt: base, Type: models.EventLight, Value: "true"},
		{OccurredAt: base.Add(time.Minute), Type: models.EventTemperature, Value: "21.5"},
		{OccurredAt: base.Add(2 * time.Minute), Type: models.EventLight, Value: "false"},
	} {
		if err := repos.EventRepo.Append(ctx, ev); err != nil {
			t.Fatalf("Append %d: %v", i, err)
		}
	}

	all, err := repos.EventRepo.List(ctx, time.Time{}, time.Time{}, "")
	if err != nil || len(all) != 3 {
		t.Fatalf("List all = %d, %v", len(all), err)
	}
	if !all[1].OccurredAt.Equal(base.Add(time.Minute)) || all[1].Value != "21.5" {
		t.Fatalf("second event = %+v", all[1])
	}

	lights, err := repos.EventRepo.List(ctx, base.Add(30*time.Second), time.Time{}, "light")
	if err != nil || len(lights) != 1 || lights[0].Value != "false" {
		t.Fatalf("filtered = %+v, %v", lights, err)
	}

	if _, ok, err := repos.PresenceRepo.Load(ctx); ok || err != nil {
		t.Fatalf("empty presence: ok=%v err=%v", ok, err)
	}
	for _, score := range []int{40, 70} {
		if err := repos.PresenceRepo.Save(ctx, models.PresenceRecord{IsPresent: true, Confidence: "high", Score: score, UpdatedAt: base}); err != nil {
			t.Fatalf("Save: %v", err)
		}
	}
	got, ok, err := repos.PresenceRepo.Load(ctx)
	if err != nil || !ok || got.Score != 70 || got.LastActivity != nil {
		t.Fatalf("Load = %+v, %v, %v", got, ok, err)
	}
}
