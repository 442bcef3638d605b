package main

import (
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/tabdeck/tabdeck/core"

	"github.com/tabdeck/tabdeck/state"
)

// demoFeed drives the built-in dashboard without a real state source:
// it seeds the demo entities and drifts the temperature sensor so the
// template-gated tab appears and disappears on its own.
type demoFeed struct {
	store *state.Store
	done  chan struct{}
	once  sync.Once
}

func newDemoFeed(store *state.Store) *demoFeed {
	return &demoFeed{store: store, done: make(chan struct{})}
}

func (d *demoFeed) Start() {
	d.store.SetMany(map[string]core.Entity{
		"switch.heating":      {State: "off"},
		"light.desk":          {State: "on"},
		"sensor.outside_temp": {State: "12.0", Attrs: map[string]any{"unit": "°C"}},
	})
	go d.loop()
}

func (d *demoFeed) Stop() {
	d.once.Do(func() { close(d.done) })
}

func (d *demoFeed) loop() {
	temp := 12.0
	ticker := time.NewTicker(2 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-d.done:
			return
		case <-ticker.C:
			temp += rand.Float64()*6 - 3
			if temp < -5 {
				temp = -5
			}
			if temp > 25 {
				temp = 25
			}
			d.store.SetState("sensor.outside_temp", fmt.Sprintf("%.1f", temp))
		}
	}
}

// toggleHeating flips the demo switch, which gates the Heating tab.
func (d *demoFeed) toggleHeating() {
	next := "on"
	if ent, ok := d.store.Get("switch.heating"); ok && ent.State == "on" {
		next = "off"
	}
	d.store.SetState("switch.heating", next)
}
