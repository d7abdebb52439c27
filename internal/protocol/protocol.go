// Package protocol decodes the JSON text frames pushed by the home server.
//
//	Envelope    := { "type": "INIT" | "UPDATE", "data": <payload> }
//	INIT.data   := { "temperature": string, "light": bool, "door": bool, "heat": bool }
//	UPDATE.data := { "type": "TEMPERATURE"|"LIGHT"|"DOOR"|"HEAT", "value": string }
package protocol

import (
	"encoding/json"
	"errors"
	"fmt"

	"myhouse/internal/models"
)

// Kind is the envelope discriminant.
type Kind string

const (
	KindInit   Kind = "INIT"
	KindUpdate Kind = "UPDATE"
)

var (
	// ErrUnknownKind is returned for a well-formed envelope of an unsupported kind.
	ErrUnknownKind = errors.New("unknown envelope kind")
	// ErrMissingData is returned when an envelope carries no payload.
	ErrMissingData = errors.New("envelope has no data")
)

// Envelope is the outer wire message.
type Envelope struct {
	Type Kind            `json:"type"`
	Data json.RawMessage `json:"data"`
}

// Message is implemented by InitMessage and UpdateMessage only.
type Message interface {
	Kind() Kind
	isMessage()
}

// InitMessage carries a full snapshot.
type InitMessage struct {
	State models.HomeState
}

// UpdateMessage carries one field change.
type UpdateMessage struct {
	Event models.StateUpdateEvent
}

func (InitMessage) Kind() Kind   { return KindInit }
func (UpdateMessage) Kind() Kind { return KindUpdate }
func (InitMessage) isMessage()   {}
func (UpdateMessage) isMessage() {}

// initPayload uses pointers so a missing field can be told apart from false.
type initPayload struct {
	Temperature *json.RawMessage `json:"temperature"`
	Light       *bool            `json:"light"`
	Door        *bool            `json:"door"`
	Heat        *bool            `json:"heat"`
}

// Decode parses one frame.
func Decode(frame []byte) (Message, error) {
	var env Envelope
	if err := json.Unmarshal(frame, &env); err != nil {
		return nil, fmt.Errorf("decode envelope: %w", err)
	}

	switch env.Type {
	case KindInit:
		if isEmpty(env.Data) {
			return nil, fmt.Errorf("decode INIT: %w", ErrMissingData)
		}
		st, err := decodeInit(env.Data)
		if err != nil {
			return nil, fmt.Errorf("decode INIT: %w", err)
		}
		return InitMessage{State: st}, nil
	case KindUpdate:
		if isEmpty(env.Data) {
			return nil, fmt.Errorf("decode UPDATE: %w", ErrMissingData)
		}
		var ev models.StateUpdateEvent
		if err := json.Unmarshal(env.Data, &ev); err != nil {
			return nil, fmt.Errorf("decode UPDATE: %w", err)
		}
		return UpdateMessage{Event: ev}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, env.Type)
	}
}

// decodeInit fills a fully populated snapshot. Absent fields keep their
// defaults and the temperature may arrive as a JSON string or number.
func decodeInit(data json.RawMessage) (models.HomeState, error) {
	var p initPayload
	if err := json.Unmarshal(data, &p); err != nil {
		return models.HomeState{}, err
	}

	st := models.DefaultHomeState()
	if p.Temperature != nil {
		temp, err := temperatureText(*p.Temperature)
		if err != nil {
			return models.HomeState{}, err
		}
		st.Temperature = temp
	}
	if p.Light != nil {
		st.Light = *p.Light
	}
	if p.Door != nil {
		st.Door = *p.Door
	}
	if p.Heat != nil {
		st.Heat = *p.Heat
	}
	return st, nil
}

func temperatureText(raw json.RawMessage) (string, error) {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, nil
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return "", fmt.Errorf("temperature: %w", err)
	}
	return n.String(), nil
}

func isEmpty(raw json.RawMessage) bool {
	return len(raw) == 0 || string(raw) == "null"
}

// EncodeInit builds an INIT frame.
func EncodeInit(st models.HomeState) ([]byte, error) {
	return encode(KindInit, st)
}

// EncodeUpdate builds an UPDATE frame.
func EncodeUpdate(ev models.StateUpdateEvent) ([]byte, error) {
	return encode(KindUpdate, ev)
}

func encode(kind Kind, payload any) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Envelope{Type: kind, Data: data})
}
