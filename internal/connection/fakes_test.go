package connection

import (
	"context"
	"encoding/binary"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

const testURL = "ws://home.test:3000/ws"

var epoch = time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)

// ---- fake transport ----

type readItem struct {
	frame []byte
	err   error
}

type fakeConn struct {
	reads     chan readItem
	closed    chan struct{}
	closeOnce sync.Once

	mu         sync.Mutex
	closeCodes []int
}

func newFakeConn() *fakeConn {
	return &fakeConn{
		reads:  make(chan readItem, 32),
		closed: make(chan struct{}),
	}
}

func (c *fakeConn) push(frame string) { c.reads <- readItem{frame: []byte(frame)} }

func (c *fakeConn) fail(err error) { c.reads <- readItem{err: err} }

func (c *fakeConn) ReadMessage() (int, []byte, error) {
	select {
	case it := <-c.reads:
		if it.err != nil {
			return 0, nil, it.err
		}
		return websocket.TextMessage, it.frame, nil
	case <-c.closed:
		return 0, nil, &websocket.CloseError{Code: websocket.CloseAbnormalClosure, Text: "use of closed connection"}
	}
}

func (c *fakeConn) WriteControl(messageType int, data []byte, _ time.Time) error {
	if messageType == websocket.CloseMessage && len(data) >= 2 {
		c.mu.Lock()
		c.closeCodes = append(c.closeCodes, int(binary.BigEndian.Uint16(data)))
		c.mu.Unlock()
	}
	return nil
}

func (c *fakeConn) Close() error {
	c.closeOnce.Do(func() { close(c.closed) })
	return nil
}

func (c *fakeConn) isClosed() bool {
	select {
	case <-c.closed:
		return true
	default:
		return false
	}
}

func (c *fakeConn) sentCloseCodes() []int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]int(nil), c.closeCodes...)
}

type dialResult struct {
	conn *fakeConn
	err  error
}

// fakeDialer replays script in order, then returns fallback forever.
type fakeDialer struct {
	gate chan struct{} // when set, Dial blocks until it is closed

	mu       sync.Mutex
	dials    int
	script   []dialResult
	fallback dialResult
}

func (d *fakeDialer) Dial(ctx context.Context, endpoint string) (Conn, error) {
	d.mu.Lock()
	d.dials++
	res := d.fallback
	if len(d.script) > 0 {
		res = d.script[0]
		d.script = d.script[1:]
	}
	d.mu.Unlock()

	if d.gate != nil {
		<-d.gate
	}
	if res.err != nil {
		return nil, res.err
	}
	return res.conn, nil
}

func (d *fakeDialer) count() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.dials
}

// ---- helpers ----

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}
