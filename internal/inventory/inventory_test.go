package inventory

import (
	"testing"

	"myhouse/internal/models"
)

func deviceNames(ds []models.Device) []string {
	out := make([]string, 0, len(ds))
	for _, d := range ds {
		out = append(out, d.Name)
	}
	return out
}

func TestDevices_Search(t *testing.T) {
	inv := New(Addresses{Client2IP: "10.0.0.42"})

	cases := []struct {
		q    string
		want []string
	}{
		{"", []string{"ESP32 Server", "ESP32 Client 1", "ESP32 Client 2"}},
		{"client", []string{"ESP32 Client 1", "ESP32 Client 2"}},
		{"MAIN", []string{"ESP32 Server"}},
		{"bedroom", []string{"ESP32 Client 2"}},
		{"192.168.4.3", []string{"ESP32 Client 1"}},
		{"10.0.0", []string{"ESP32 Client 2"}},
		{"garage", []string{}},
	}
	for _, tc := range cases {
		t.Run(tc.q, func(t *testing.T) {
			got := deviceNames(inv.Devices(tc.q))
			if len(got) != len(tc.want) {
				t.Fatalf("Devices(%q) = %v, want %v", tc.q, got, tc.want)
			}
			for i := range got {
				if got[i] != tc.want[i] {
					t.Fatalf("Devices(%q) = %v, want %v", tc.q, got, tc.want)
				}
			}
		})
	}
}

func TestDevices_DefaultAddresses(t *testing.T) {
	ds := New(Addresses{ServerIP: "  "}).Devices("")
	want := []string{DefaultServerIP, DefaultClient1IP, DefaultClient2IP}
	for i, d := range ds {
		if d.IP != want[i] {
			t.Fatalf("device %s ip = %q, want %q", d.Name, d.IP, want[i])
		}
		if d.Status != models.DeviceOnline {
			t.Fatalf("device %s status = %q", d.Name, d.Status)
		}
	}
}

func TestWorkflows_Search(t *testing.T) {
	inv := New(Addresses{})

	cases := []struct {
		q    string
		want int
	}{
		{"", 3},
		{"heating", 1},
		{"ECO", 1},    // description
		{"sunset", 1}, // trigger and description
		{"mode", 2},   // descriptions only; actions are not searched
		{"garage", 0},
	}
	for _, tc := range cases {
		if got := inv.Workflows(tc.q); len(got) != tc.want {
			t.Errorf("Workflows(%q) = %d results, want %d", tc.q, len(got), tc.want)
		}
	}
}

func TestCountByStatus(t *testing.T) {
	counts := New(Addresses{}).CountByStatus()
	if counts[models.WorkflowActive] != 2 || counts[models.WorkflowPaused] != 1 {
		t.Fatalf("counts = %v", counts)
	}
}
