package handlers

import (
	"context"
	"time"

	"myhouse/internal/connection"
	"myhouse/internal/models"
	"myhouse/internal/notify"
	"myhouse/internal/presence"
	"myhouse/internal/service"

	"github.com/gin-gonic/gin"
)

// ---- Service Mocks ----

type mockDashboard struct {
	state    models.HomeState
	judgment presence.Judgment
	status   connection.Status
}

func (m *mockDashboard) State() models.HomeState       { return m.state }
func (m *mockDashboard) Presence() presence.Judgment   { return m.judgment }
func (m *mockDashboard) Connection() connection.Status { return m.status }

type mockControl struct {
	toggleResp map[string]any
	toggleErr  error
	tempErr    error
	history    []models.HistoryEvent
	historyErr error

	lastDevice string
	lastTemp   string
	calls      int
}

func (m *mockControl) Toggle(_ context.Context, device string) (map[string]any, error) {
	m.calls++
	m.lastDevice = device
	return m.toggleResp, m.toggleErr
}

func (m *mockControl) SetTemperature(_ context.Context, temp string) (map[string]any, error) {
	m.calls++
	m.lastTemp = temp
	return map[string]any{"temp": temp}, m.tempErr
}

func (m *mockControl) RemoteHistory(context.Context) ([]models.HistoryEvent, error) {
	m.calls++
	return m.history, m.historyErr
}

type mockEventLog struct {
	resp     []models.RecordedEvent
	err      error
	lastFrom time.Time
	lastTo   time.Time
	lastType string
	calls    int
}

func (m *mockEventLog) List(_ context.Context, f service.LogFilter) ([]models.RecordedEvent, error) {
	m.calls++
	m.lastFrom = f.From
	m.lastTo = f.To
	m.lastType = f.Type
	return m.resp, m.err
}

type mockNotifications struct {
	items []notify.Notification
}

func (m *mockNotifications) Recent() []notify.Notification { return m.items }

type mockInventory struct {
	devices   []models.Device
	workflows []models.Workflow
	lastQuery string
}

func (m *mockInventory) Devices(q string) []models.Device {
	m.lastQuery = q
	return m.devices
}

func (m *mockInventory) Workflows(q string) []models.Workflow {
	m.lastQuery = q
	return m.workflows
}

// ---- Shared Test Helpers ----

func newTestRouter(s *service.Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	return NewHandler(s, nil).InitRoutes()
}
