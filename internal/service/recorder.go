package service

import (
	"context"
	"sync/atomic"
	"time"

	"myhouse/internal/logger"
	"myhouse/internal/models"
	"myhouse/internal/presence"
	"myhouse/internal/repository"
	"myhouse/internal/state"

	"github.com/google/uuid"
)

const (
	DefaultRecorderBuffer = 256
	flushTimeout          = 5 * time.Second
)

// recordJob carries exactly one of event or judgment.
type recordJob struct {
	event    *models.RecordedEvent
	judgment *models.PresenceRecord
}

// RecorderService persists state changes and presence judgments off the
// socket reader's goroutine. Enqueueing never blocks; a full queue drops.
type RecorderService struct {
	events   repository.EventRepo
	presence repository.PresenceRepo
	log      *logger.Logger
	now      func() time.Time

	queue   chan recordJob
	dropped atomic.Int64
}

// NewRecorderService returns a recorder with a queue of buffer jobs.
func NewRecorderService(events repository.EventRepo, presence repository.PresenceRepo, log *logger.Logger, buffer int) *RecorderService {
	if buffer <= 0 {
		buffer = DefaultRecorderBuffer
	}
	return &RecorderService{
		events:   events,
		presence: presence,
		log:      logger.OrNop(log),
		now:      time.Now,
		queue:    make(chan recordJob, buffer),
	}
}

// Attach subscribes to the store and returns the detach func.
func (s *RecorderService) Attach(store *state.Store) func() {
	return store.Subscribe(s.RecordChange)
}

// RecordChange queues UPDATE-caused changes. Full replacements are skipped.
func (s *RecorderService) RecordChange(c state.Change) {
	if c.Event == nil {
		return
	}
	s.enqueue(recordJob{event: &models.RecordedEvent{
		EventID:    uuid.NewString(),
		OccurredAt: s.now().UTC(),
		Type:       c.Event.Type,
		Value:      c.Event.Value,
	}})
}

// RecordJudgment queues the latest occupancy verdict.
func (s *RecorderService) RecordJudgment(j presence.Judgment) {
	rec := ToPresenceRecord(j, s.now())
	s.enqueue(recordJob{judgment: &rec})
}

// Dropped reports how many jobs were discarded because the queue was full.
func (s *RecorderService) Dropped() int64 { return s.dropped.Load() }

func (s *RecorderService) enqueue(j recordJob) {
	select {
	case s.queue <- j:
	default:
		n := s.dropped.Add(1)
		s.log.Warnw("recorder_queue_full", "dropped_total", n)
	}
}

// Run drains the queue until ctx is canceled, then flushes what is left.
func (s *RecorderService) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			s.flush()
			return
		case j := <-s.queue:
			s.write(ctx, j)
		}
	}
}

func (s *RecorderService) flush() {
	ctx, cancel := context.WithTimeout(context.Background(), flushTimeout)
	defer cancel()
	for {
		select {
		case j := <-s.queue:
			s.write(ctx, j)
		default:
			return
		}
	}
}

func (s *RecorderService) write(ctx context.Context, j recordJob) {
	switch {
	case j.event != nil:
		if err := s.events.Append(ctx, *j.event); err != nil {
			s.log.Errorw("recorder_event_failed", "type", j.event.Type, "err", err)
		}
	case j.judgment != nil:
		if err := s.presence.Save(ctx, *j.judgment); err != nil {
			s.log.Errorw("recorder_presence_failed", "err", err)
		}
	}
}

// LastPresence loads the judgment saved by the previous run.
func (s *RecorderService) LastPresence(ctx context.Context) (models.PresenceRecord, bool, error) {
	return s.presence.Load(ctx)
}

// ToPresenceRecord converts a judgment into its stored form.
func ToPresenceRecord(j presence.Judgment, at time.Time) models.PresenceRecord {
	rec := models.PresenceRecord{
		IsPresent:  j.IsPresent,
		Confidence: string(j.Confidence),
		Reason:     j.Reason,
		Score:      j.Score,
		UpdatedAt:  at.UTC(),
	}
	if j.LastActivity != nil {
		t := j.LastActivity.UTC()
		rec.LastActivity = &t
	}
	return rec
}
