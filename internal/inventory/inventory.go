// Package inventory serves the static device and workflow listings shown on
// the dashboard.
package inventory

import (
	"strings"

	"myhouse/internal/models"
)

// Default board addresses used when configuration leaves them empty.
const (
	DefaultServerIP  = "192.168.4.1"
	DefaultClient1IP = "192.168.4.3"
	DefaultClient2IP = "192.168.4.4"
)

// MainControllerType marks the board that runs the home server.
const MainControllerType = "Main controller"

// Addresses of the three boards.
type Addresses struct {
	ServerIP  string
	Client1IP string
	Client2IP string
}

// Inventory is immutable after construction.
type Inventory struct {
	devices   []models.Device
	workflows []models.Workflow
}

// New builds the listings.
func New(addr Addresses) *Inventory {
	return &Inventory{
		devices: []models.Device{
			{ID: "1", Name: "ESP32 Server", Type: MainControllerType, Status: models.DeviceOnline, IP: orDefault(addr.ServerIP, DefaultServerIP)},
			{ID: "2", Name: "ESP32 Client 1", Type: "Living room", Status: models.DeviceOnline, IP: orDefault(addr.Client1IP, DefaultClient1IP)},
			{ID: "3", Name: "ESP32 Client 2", Type: "Bedroom", Status: models.DeviceOnline, IP: orDefault(addr.Client2IP, DefaultClient2IP)},
		},
		workflows: []models.Workflow{
			{
				ID:          "1",
				Name:        "Morning heating",
				Description: "Switches to Comfort mode at 07:00 on weekdays.",
				Trigger:     "Time: 07:00",
				Action:      "Comfort mode",
				Status:      models.WorkflowActive,
			},
			{
				ID:          "2",
				Name:        "Extended absence",
				Description: "Switches to Eco mode after 1h without movement.",
				Trigger:     "No movement for 1h",
				Action:      "Eco mode",
				Status:      models.WorkflowActive,
			},
			{
				ID:          "3",
				Name:        "Living room evening lights",
				Description: "Turns the living room lights on at sunset.",
				Trigger:     "Sunset",
				Action:      "Lights on",
				Status:      models.WorkflowPaused,
			},
		},
	}
}

// Devices returns boards whose name or type contains q (case-insensitive)
// or whose IP contains q verbatim. An empty query returns everything.
func (inv *Inventory) Devices(q string) []models.Device {
	needle := strings.ToLower(q)
	out := make([]models.Device, 0, len(inv.devices))
	for _, d := range inv.devices {
		if containsFold(d.Name, needle) || containsFold(d.Type, needle) || strings.Contains(d.IP, q) {
			out = append(out, d)
		}
	}
	return out
}

// Workflows returns rules whose name, description or trigger contains q,
// ignoring case.
func (inv *Inventory) Workflows(q string) []models.Workflow {
	needle := strings.ToLower(q)
	out := make([]models.Workflow, 0, len(inv.workflows))
	for _, w := range inv.workflows {
		if containsFold(w.Name, needle) || containsFold(w.Description, needle) || containsFold(w.Trigger, needle) {
			out = append(out, w)
		}
	}
	return out
}

// CountByStatus tallies workflows per status.
func (inv *Inventory) CountByStatus() map[string]int {
	counts := map[string]int{models.WorkflowActive: 0, models.WorkflowPaused: 0}
	for _, w := range inv.workflows {
		counts[w.Status]++
	}
	return counts
}

func containsFold(s, lowerNeedle string) bool {
	return strings.Contains(strings.ToLower(s), lowerNeedle)
}

func orDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}
