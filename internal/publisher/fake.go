package publisher

import "sync"

// FakePublisher records messages for test assertions.
type FakePublisher struct {
	mu       sync.Mutex
	messages []Message

	// PublishError, if set, is returned by Publish after recording.
	PublishError error
	Closed       bool
}

func NewFakePublisher() *FakePublisher { return &FakePublisher{} }

func (f *FakePublisher) Publish(msg Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.messages = append(f.messages, msg)
	return f.PublishError
}

func (f *FakePublisher) Close() error {
	f.mu.Lock()
	f.Closed = true
	f.mu.Unlock()
	return nil
}

// Messages returns a copy of everything published so far.
func (f *FakePublisher) Messages() []Message {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Message(nil), f.messages...)
}
