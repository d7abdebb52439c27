package service

import (
	"context"

	"myhouse/internal/connection"
	"myhouse/internal/logger"
	"myhouse/internal/models"
	"myhouse/internal/notify"
	"myhouse/internal/presence"
	"myhouse/internal/repository"
)

// Dashboard exposes the live, in-memory view of the house.
type Dashboard interface {
	State() models.HomeState
	Presence() presence.Judgment
	Connection() connection.Status
}

// Control forwards commands to the home server's HTTP API.
type Control interface {
	Toggle(ctx context.Context, device string) (map[string]any, error)
	SetTemperature(ctx context.Context, temp string) (map[string]any, error)
	RemoteHistory(ctx context.Context) ([]models.HistoryEvent, error)
}

// EventLog exposes the locally recorded state changes with filtering.
type EventLog interface {
	List(ctx context.Context, f LogFilter) ([]models.RecordedEvent, error)
}

// Notifications exposes recently derived notifications.
type Notifications interface {
	Recent() []notify.Notification
}

// Inventory exposes the device and workflow listings.
type Inventory interface {
	Devices(q string) []models.Device
	Workflows(q string) []models.Workflow
}

// Service aggregates everything the HTTP layer needs.
type Service struct {
	Dashboard
	Control
	EventLog
	Notifications
	Inventory
}

// Deps are the long-lived components built in main.
type Deps struct {
	Repos     *repository.Repository
	Store     StateReader
	Estimator JudgmentReader
	Manager   StatusReader
	API       ControlAPI
	Notifier  Notifications
	Inventory Inventory
	Log       *logger.Logger
}

// NewService wires the concrete services.
func NewService(d Deps) *Service {
	return &Service{
		Dashboard:     NewDashboardService(d.Store, d.Estimator, d.Manager),
		Control:       NewControlService(d.API, logger.OrNop(d.Log)),
		EventLog:      NewEventLogService(d.Repos.EventRepo),
		Notifications: d.Notifier,
		Inventory:     d.Inventory,
	}
}
