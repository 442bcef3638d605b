package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// defaultDashboardYAML is the built-in demo dashboard used when no
// document is supplied. The "Heating" tab is gated on a switch state and
// the "Alerts" tab on a template expression, so conditional visibility is
// observable out of the box (toggle with the demo key).
const defaultDashboardYAML = `# tabdeck demo dashboard
alignment: center
pre-load: false

tabs:
  - title: Overview
    icon: "●"
    card:
      type: entities
      title: All entities
      entities:
        - switch.heating
        - sensor.outside_temp
        - light.desk

  - title: Heating
    icon: "▲"
    conditions:
      - entity: switch.heating
        state: "on"
    card:
      type: entities
      title: Heating
      entities:
        - switch.heating
        - sensor.outside_temp

  - title: Alerts
    icon: "!"
    conditions:
      - template: "Number(states['sensor.outside_temp'].state) < 5"
    card:
      type: text
      title: Cold outside
      content: Outside temperature dropped below 5 degrees.

  - title: About
    card:
      type: text
      title: tabdeck
      content: Conditionally-visible dashboard tabs for the terminal.
`

// loadDashboard reads a dashboard document into the raw mapping the deck
// validates in Apply. An empty path yields the built-in demo dashboard.
func loadDashboard(path string) (map[string]any, error) {
	data := []byte(defaultDashboardYAML)
	if path != "" {
		var err error
		data, err = os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read dashboard: %w", err)
		}
	}
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse dashboard: %w", err)
	}
	return raw, nil
}
