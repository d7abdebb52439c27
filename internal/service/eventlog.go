package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"myhouse/internal/models"
	"myhouse/internal/repository"
)

// LogFilter narrows the recorded history.
type LogFilter struct {
	From time.Time // inclusive; zero means no lower bound
	To   time.Time // inclusive; zero means no upper bound
	Type string    // "", "TEMPERATURE", "LIGHT", "DOOR", "HEAT"
}

type EventLogService struct {
	eventRepo repository.EventRepo
}

func NewEventLogService(eventRepo repository.EventRepo) *EventLogService {
	return &EventLogService{eventRepo: eventRepo}
}

var (
	ErrInvalidTimeRange = errors.New("invalid time range: from must be <= to")
	ErrInvalidEventType = errors.New("invalid event type: must be TEMPERATURE, LIGHT, DOOR, or HEAT")
)

// normalizeToUTC returns t in UTC, preserving zero time values.
func normalizeToUTC(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	return t.UTC()
}

func normalizeEventType(s string) string {
	return strings.TrimSpace(strings.ToUpper(s))
}

func normalizeAndValidateFilter(f LogFilter) (time.Time, time.Time, string, error) {
	from := normalizeToUTC(f.From)
	to := normalizeToUTC(f.To)

	if !from.IsZero() && !to.IsZero() && from.After(to) {
		return time.Time{}, time.Time{}, "", ErrInvalidTimeRange
	}

	eventType := normalizeEventType(f.Type)
	if eventType != "" && !models.EventType(eventType).Valid() {
		return time.Time{}, time.Time{}, "", ErrInvalidEventType
	}
	return from, to, eventType, nil
}

func (s *EventLogService) List(ctx context.Context, f LogFilter) ([]models.RecordedEvent, error) {
	from, to, typ, err := normalizeAndValidateFilter(f)
	if err != nil {
		return nil, err
	}
	return s.eventRepo.List(ctx, from, to, typ)
}
