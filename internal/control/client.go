// Package control talks to the home server's HTTP control API. Commands are
// fire-and-forget from the dashboard's point of view: the resulting state
// change comes back later as an UPDATE frame on the socket.
package control

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"myhouse/internal/models"
)

const (
	defaultTimeout = 10 * time.Second
	maxErrorBody   = 512
)

// Actuator names accepted by Toggle.
const (
	ActuatorLight = "light"
	ActuatorDoor  = "door"
	ActuatorHeat  = "heat"
)

// ErrInvalidActuator is returned by Toggle for unknown names.
var ErrInvalidActuator = errors.New("invalid actuator")

// StatusError is returned for non-2xx responses.
type StatusError struct {
	Method string
	Path   string
	Code   int
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s: unexpected status %d: %s", e.Method, e.Path, e.Code, e.Body)
}

// Config for Client.
type Config struct {
	BaseURL string
	Auth    string // sent verbatim as the Authorization header
	Timeout time.Duration
}

// Client is safe for concurrent use.
type Client struct {
	baseURL string
	auth    string
	http    *http.Client
}

// NewClient builds a client. A zero timeout uses the default.
func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		auth:    cfg.Auth,
		http:    &http.Client{Timeout: timeout},
	}
}

// ValidActuator reports whether name can be toggled.
func ValidActuator(name string) bool {
	switch name {
	case ActuatorLight, ActuatorDoor, ActuatorHeat:
		return true
	default:
		return false
	}
}

// Toggle flips the named actuator server-side.
func (c *Client) Toggle(ctx context.Context, actuator string) (map[string]any, error) {
	if !ValidActuator(actuator) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidActuator, actuator)
	}
	var out map[string]any
	if err := c.do(ctx, http.MethodPost, "/toggle/"+actuator, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ToggleLight flips the light.
func (c *Client) ToggleLight(ctx context.Context) (map[string]any, error) {
	return c.Toggle(ctx, ActuatorLight)
}

// ToggleDoor flips the door.
func (c *Client) ToggleDoor(ctx context.Context) (map[string]any, error) {
	return c.Toggle(ctx, ActuatorDoor)
}

// ToggleHeat flips the heating.
func (c *Client) ToggleHeat(ctx context.Context) (map[string]any, error) {
	return c.Toggle(ctx, ActuatorHeat)
}

type tempRequest struct {
	Temp string `json:"temp"`
}

// SetTemperature posts a temperature reading.
func (c *Client) SetTemperature(ctx context.Context, temp string) (map[string]any, error) {
	var out map[string]any
	if err := c.do(ctx, http.MethodPost, "/temp", tempRequest{Temp: temp}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

type historyResponse struct {
	Data []models.HistoryEvent `json:"data"`
}

// History fetches the server's event history.
func (c *Client) History(ctx context.Context) ([]models.HistoryEvent, error) {
	var out historyResponse
	if err := c.do(ctx, http.MethodGet, "/history", nil, &out); err != nil {
		return nil, err
	}
	return out.Data, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s body: %w", path, err)
		}
		rdr = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rdr)
	if err != nil {
		return fmt.Errorf("build %s %s: %w", method, path, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", c.auth)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &StatusError{Method: method, Path: path, Code: resp.StatusCode, Body: strings.TrimSpace(string(b))}
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	return nil
}
