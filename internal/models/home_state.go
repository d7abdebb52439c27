package models

// Temperature literal used before the first INIT arrives.
const DefaultTemperature = "0"

// HomeState is the full snapshot of the home as last reported by the server.
type HomeState struct {
	Temperature string `json:"temperature"` // °C, kept as received
	Light       bool   `json:"light"`
	Door        bool   `json:"door"` // true = open
	Heat        bool   `json:"heat"` // true = heating active
}

// DefaultHomeState returns the snapshot used before any INIT is received.
func DefaultHomeState() HomeState {
	return HomeState{Temperature: DefaultTemperature}
}
