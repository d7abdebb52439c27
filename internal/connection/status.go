package connection

import "fmt"

// Human-readable error strings surfaced through Status.Error.
const (
	MsgTransportError = "connection error - server may be unreachable"
	MsgConnectionLost = "connection lost - server unreachable"
	msgClosedWithCode = "connection closed (code %d)"
	msgInvalidURL     = "failed to create connection: %v"
)

// Status is the observable health of the live connection.
type Status struct {
	Connected        bool   `json:"is_connected"`
	Error            string `json:"connection_error,omitempty"`
	ReconnectAttempt int    `json:"reconnect_attempt"`
}

// Badge is the short label the dashboard shows next to the clock.
func (s Status) Badge() string {
	switch {
	case s.Connected:
		return "Connected"
	case s.ReconnectAttempt > 0:
		return fmt.Sprintf("Reconnecting... (%d)", s.ReconnectAttempt)
	default:
		return "Disconnected"
	}
}

// closeMessage maps a close code to the error text it should leave behind.
// ok is false when the code must not touch the current error.
func closeMessage(code int) (msg string, ok bool) {
	switch code {
	case closeNormal:
		return "", false
	case closeAbnormal:
		return MsgConnectionLost, true
	default:
		return fmt.Sprintf(msgClosedWithCode, code), true
	}
}
