package publisher

import (
	"context"
	"sync/atomic"
	"time"

	"myhouse/internal/logger"
	"myhouse/internal/notify"
	"myhouse/internal/presence"
	"myhouse/internal/state"
)

const DefaultForwarderBuffer = 128

// Forwarder moves dashboard events onto a Publisher from its own goroutine,
// so a slow broker never stalls the socket reader.
type Forwarder struct {
	pub Publisher
	log *logger.Logger
	now func() time.Time

	queue   chan Message
	dropped atomic.Int64
}

func NewForwarder(pub Publisher, log *logger.Logger, buffer int) *Forwarder {
	if buffer <= 0 {
		buffer = DefaultForwarderBuffer
	}
	return &Forwarder{
		pub:   pub,
		log:   logger.OrNop(log),
		now:   time.Now,
		queue: make(chan Message, buffer),
	}
}

// Attach subscribes to all three sources. The returned func detaches from
// the store; estimator and notifier subscriptions live as long as they do.
func (f *Forwarder) Attach(store *state.Store, est *presence.Estimator, n *notify.Notifier) func() {
	est.Subscribe(f.OnJudgment)
	n.AddSink(f.OnNotification)
	return store.Subscribe(func(c state.Change) { f.OnState(c) })
}

func (f *Forwarder) OnState(c state.Change) {
	msg, err := StateMessage(c.Next, f.now())
	f.enqueue(msg, err)
}

func (f *Forwarder) OnJudgment(j presence.Judgment) {
	msg, err := PresenceMessage(j, f.now())
	f.enqueue(msg, err)
}

func (f *Forwarder) OnNotification(n notify.Notification) {
	msg, err := NotificationMessage(n)
	f.enqueue(msg, err)
}

// Dropped reports messages discarded because the queue was full.
func (f *Forwarder) Dropped() int64 { return f.dropped.Load() }

func (f *Forwarder) enqueue(msg Message, err error) {
	if err != nil {
		f.log.Errorw("mqtt_format_failed", "err", err)
		return
	}
	select {
	case f.queue <- msg:
	default:
		f.log.Warnw("mqtt_queue_full", "topic", msg.Topic, "dropped_total", f.dropped.Add(1))
	}
}

// Run publishes queued messages until ctx is canceled.
func (f *Forwarder) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg := <-f.queue:
			if err := f.pub.Publish(msg); err != nil {
				f.log.Warnw("mqtt_publish_failed", "topic", msg.Topic, "err", err)
			}
		}
	}
}
