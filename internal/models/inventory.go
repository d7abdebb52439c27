package models

// Device statuses.
const (
	DeviceOnline  = "online"
	DeviceOffline = "offline"
)

// Workflow statuses.
const (
	WorkflowActive = "active"
	WorkflowPaused = "paused"
)

// Device is a controller or client board attached to the house.
type Device struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Type   string `json:"type"`
	Status string `json:"status"` // online | offline
	IP     string `json:"ip"`
}

// Workflow is an automation rule shown in the dashboard.
type Workflow struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Trigger     string `json:"trigger"`
	Action      string `json:"action"`
	Status      string `json:"status"` // active | paused
}
