package service

import (
	"context"
	"errors"
	"math"
	"strconv"
	"strings"

	"myhouse/internal/control"
	"myhouse/internal/logger"
	"myhouse/internal/models"
)

var (
	ErrInvalidDevice      = errors.New("invalid device: must be light, door, or heat")
	ErrInvalidTemperature = errors.New("invalid temperature: must be a finite number")
)

// ControlAPI is the subset of the control client the service uses.
type ControlAPI interface {
	Toggle(ctx context.Context, actuator string) (map[string]any, error)
	SetTemperature(ctx context.Context, temp string) (map[string]any, error)
	History(ctx context.Context) ([]models.HistoryEvent, error)
}

type ControlService struct {
	api ControlAPI
	log *logger.Logger
}

func NewControlService(api ControlAPI, log *logger.Logger) *ControlService {
	return &ControlService{api: api, log: log}
}

// Toggle validates the device name before hitting the network.
func (s *ControlService) Toggle(ctx context.Context, device string) (map[string]any, error) {
	device = strings.ToLower(strings.TrimSpace(device))
	if !control.ValidActuator(device) {
		return nil, ErrInvalidDevice
	}
	out, err := s.api.Toggle(ctx, device)
	if err != nil {
		s.log.Warnw("control_toggle_failed", "device", device, "err", err)
		return nil, err
	}
	s.log.Infow("control_toggle_sent", "device", device)
	return out, nil
}

func (s *ControlService) SetTemperature(ctx context.Context, temp string) (map[string]any, error) {
	temp = strings.TrimSpace(temp)
	v, err := strconv.ParseFloat(temp, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil, ErrInvalidTemperature
	}
	out, err := s.api.SetTemperature(ctx, temp)
	if err != nil {
		s.log.Warnw("control_temp_failed", "temp", temp, "err", err)
		return nil, err
	}
	s.log.Infow("control_temp_sent", "temp", temp)
	return out, nil
}

func (s *ControlService) RemoteHistory(ctx context.Context) ([]models.HistoryEvent, error) {
	return s.api.History(ctx)
}
