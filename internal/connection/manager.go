// Package connection keeps the dashboard attached to the home server's state
// socket. A Manager owns at most one transport at a time, feeds decoded
// frames into the state store in arrival order, and reconnects with capped
// exponential backoff until it is stopped.
package connection

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sync"
	"time"

	"myhouse/internal/clock"
	"myhouse/internal/logger"
	"myhouse/internal/protocol"
	"myhouse/internal/state"

	"github.com/gorilla/websocket"
)

const (
	closeNormal   = websocket.CloseNormalClosure   // 1000
	closeAbnormal = websocket.CloseAbnormalClosure // 1006

	closeWriteWait   = 2 * time.Second
	stopCloseReason  = "dashboard shutting down"
	maxFrameLogBytes = 256
)

// Config holds the endpoint and retry tuning.
type Config struct {
	URL       string
	BaseDelay time.Duration
	MaxDelay  time.Duration
}

func (c Config) withDefaults() Config {
	if c.BaseDelay <= 0 {
		c.BaseDelay = DefaultBaseDelay
	}
	if c.MaxDelay <= 0 {
		c.MaxDelay = DefaultMaxDelay
	}
	return c
}

// Manager is safe for concurrent use. Start and Stop may be called from any
// goroutine; frames are handled by one reader goroutine per session.
type Manager struct {
	cfg    Config
	dialer Dialer
	store  *state.Store
	clock  clock.Clock
	log    *logger.Logger

	mu         sync.Mutex
	conn       Conn
	connecting bool
	stopped    bool
	session    uint64 // bumped per attempt; stale callbacks compare against it
	timer      clock.Timer
	status     Status
	listeners  []func(Status)
}

// NewManager wires a manager. A nil clock means the real one.
func NewManager(cfg Config, dialer Dialer, store *state.Store, c clock.Clock, log *logger.Logger) *Manager {
	if c == nil {
		c = clock.Real()
	}
	return &Manager{
		cfg:    cfg.withDefaults(),
		dialer: dialer,
		store:  store,
		clock:  c,
		log:    logger.OrNop(log),
	}
}

// Status returns the current connection health.
func (m *Manager) Status() Status {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.status
}

// OnStatus registers fn for every status transition.
func (m *Manager) OnStatus(fn func(Status)) {
	m.mu.Lock()
	m.listeners = append(m.listeners, fn)
	m.mu.Unlock()
}

// Start opens a connection unless one is already open or being opened.
func (m *Manager) Start() {
	m.mu.Lock()
	m.stopped = false
	m.mu.Unlock()
	m.connect()
}

// Stop cancels a pending reconnection and closes the transport with a
// normal-closure frame. An attempt already dialing is allowed to finish and
// is then closed without retrying.
func (m *Manager) Stop() {
	m.mu.Lock()
	m.stopped = true
	if m.timer != nil {
		m.timer.Stop()
		m.timer = nil
	}
	conn := m.conn
	if conn != nil {
		m.conn = nil
		m.session++
	}
	m.status.Connected = false
	st := m.status
	m.mu.Unlock()

	if conn != nil {
		closeClean(conn)
		m.log.Infow("ws_stopped", "url", m.cfg.URL)
	}
	m.emit(st)
}

func (m *Manager) connect() {
	m.mu.Lock()
	if m.stopped || m.connecting || m.conn != nil {
		m.mu.Unlock()
		return
	}
	if m.timer != nil {
		m.timer.Stop()
		m.timer = nil
	}
	if err := validateEndpoint(m.cfg.URL); err != nil {
		m.status.Error = fmt.Sprintf(msgInvalidURL, err)
		st := m.status
		m.mu.Unlock()
		m.log.Errorw("ws_create_failed", "url", m.cfg.URL, "err", err)
		m.emit(st)
		return
	}
	m.connecting = true
	m.session++
	id := m.session
	m.status.Error = ""
	st := m.status
	m.mu.Unlock()

	m.log.Infow("ws_connecting", "url", m.cfg.URL, "attempt", st.ReconnectAttempt)
	m.emit(st)
	go m.run(id)
}

func (m *Manager) run(id uint64) {
	conn, err := m.dialer.Dial(context.Background(), m.cfg.URL)
	if err != nil {
		m.handleError(id, err)
		m.handleClose(id, closeAbnormal, err.Error())
		return
	}
	if !m.handleOpen(id, conn) {
		closeClean(conn)
		return
	}

	for {
		_, frame, err := conn.ReadMessage()
		if err != nil {
			code, reason := closeCodeOf(err)
			if code == closeAbnormal {
				m.handleError(id, err)
			}
			m.handleClose(id, code, reason)
			return
		}
		m.dispatch(frame)
	}
}

func (m *Manager) handleOpen(id uint64, conn Conn) bool {
	m.mu.Lock()
	if id != m.session || m.stopped {
		m.connecting = false
		m.mu.Unlock()
		m.log.Infow("ws_open_after_stop", "url", m.cfg.URL)
		return false
	}
	m.conn = conn
	m.connecting = false
	m.status = Status{Connected: true}
	st := m.status
	m.mu.Unlock()

	m.log.Infow("ws_connected", "url", m.cfg.URL)
	m.emit(st)
	return true
}

func (m *Manager) handleError(id uint64, err error) {
	m.mu.Lock()
	if id != m.session || m.stopped {
		m.mu.Unlock()
		return
	}
	m.status.Error = MsgTransportError
	m.mu.Unlock()

	m.log.Warnw("ws_error", "url", m.cfg.URL, "err", err)
}

func (m *Manager) handleClose(id uint64, code int, reason string) {
	m.mu.Lock()
	if id != m.session {
		m.mu.Unlock()
		return
	}
	if m.conn != nil {
		_ = m.conn.Close()
		m.conn = nil
	}
	m.connecting = false
	m.status.Connected = false

	if m.stopped {
		st := m.status
		m.mu.Unlock()
		m.emit(st)
		return
	}
	if msg, ok := closeMessage(code); ok {
		m.status.Error = msg
	}
	if code == closeNormal {
		st := m.status
		m.mu.Unlock()
		m.log.Infow("ws_disconnected", "code", code, "reason", reasonOrNone(reason))
		m.emit(st)
		return
	}

	attempt := m.status.ReconnectAttempt
	delay := Backoff(attempt, m.cfg.BaseDelay, m.cfg.MaxDelay)
	m.status.ReconnectAttempt = attempt + 1
	m.timer = m.clock.AfterFunc(delay, func() { m.reconnect(id) })
	st := m.status
	m.mu.Unlock()

	m.log.Infow("ws_disconnected", "code", code, "reason", reasonOrNone(reason))
	m.log.Infow("ws_reconnect_scheduled", "delay", delay, "attempt", st.ReconnectAttempt)
	m.emit(st)
}

// reconnect runs from the backoff timer scheduled by session id.
func (m *Manager) reconnect(id uint64) {
	m.mu.Lock()
	if id != m.session || m.stopped {
		m.mu.Unlock()
		return
	}
	m.timer = nil
	m.mu.Unlock()
	m.connect()
}

// dispatch applies one frame. Bad frames are dropped; the session stays up.
func (m *Manager) dispatch(frame []byte) {
	msg, err := protocol.Decode(frame)
	if err != nil {
		if errors.Is(err, protocol.ErrUnknownKind) {
			m.log.Debugw("ws_message_ignored", "err", err)
			return
		}
		m.log.Warnw("ws_message_malformed", "err", err, "frame", truncate(frame))
		return
	}

	switch msg := msg.(type) {
	case protocol.InitMessage:
		m.log.Debugw("ws_message_received", "type", msg.Kind())
		m.store.Replace(msg.State)
	case protocol.UpdateMessage:
		m.log.Debugw("ws_state_update", "field", msg.Event.Type, "value", msg.Event.Value)
		if !m.store.ApplyUpdate(msg.Event) {
			m.log.Debugw("ws_update_ignored", "field", msg.Event.Type)
		}
	}
}

func (m *Manager) emit(st Status) {
	m.mu.Lock()
	listeners := make([]func(Status), len(m.listeners))
	copy(listeners, m.listeners)
	m.mu.Unlock()
	for _, fn := range listeners {
		fn(st)
	}
}

func validateEndpoint(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return err
	}
	if u.Scheme != "ws" && u.Scheme != "wss" {
		return fmt.Errorf("unsupported scheme %q", u.Scheme)
	}
	if u.Host == "" {
		return errors.New("missing host")
	}
	return nil
}

// closeCodeOf extracts the peer's close code; anything else is abnormal.
func closeCodeOf(err error) (int, string) {
	var ce *websocket.CloseError
	if errors.As(err, &ce) {
		return ce.Code, ce.Text
	}
	return closeAbnormal, err.Error()
}

func closeClean(conn Conn) {
	msg := websocket.FormatCloseMessage(closeNormal, stopCloseReason)
	_ = conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(closeWriteWait))
	_ = conn.Close()
}

func reasonOrNone(reason string) string {
	if reason == "" {
		return "none"
	}
	return reason
}

func truncate(frame []byte) string {
	if len(frame) > maxFrameLogBytes {
		return string(frame[:maxFrameLogBytes]) + "..."
	}
	return string(frame)
}
