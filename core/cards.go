package core

import (
	"errors"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"
)

// Panel is a created card: externally-constructed content shown when its
// tab is active (or kept mounted in preload mode).
type Panel interface {
	// SetContext applies the latest host state snapshot to the panel.
	SetContext(states Snapshot)
	View(width, height int) string
}

// PanelFactory is the host's panel-construction helper. Construction may
// block; each call is independent.
type PanelFactory interface {
	CreateElement(cardConfig any) (Panel, error)
}

// ErrNoFactory is returned when a card must be created but no panel
// factory is available. Per-card construction failures are absorbed; a
// missing factory is not.
var ErrNoFactory = errors.New("panel factory is not available")

type slotState int

const (
	slotEmpty slotState = iota
	slotCreated
	slotFailed
)

type cardSlot struct {
	state slotState
	panel Panel
}

// cardSet owns the panel slots for one applied configuration, one slot
// per tab index. Slots are mutated only here.
type cardSet struct {
	factory PanelFactory
	log     logrus.FieldLogger
	slots   []cardSlot
}

func newCardSet(factory PanelFactory, n int, log logrus.FieldLogger) *cardSet {
	return &cardSet{factory: factory, log: log, slots: make([]cardSlot, n)}
}

// buildCard constructs one panel. Failures (errors or panics out of the
// factory) are logged and recorded as a failed slot, never propagated.
func (s *cardSet) buildCard(spec TabSpec) (slot cardSlot) {
	defer func() {
		if r := recover(); r != nil {
			s.log.WithField("tab", spec.Title).Warnf("card construction panicked: %v", r)
			slot = cardSlot{state: slotFailed}
		}
	}()
	p, err := s.factory.CreateElement(spec.Card)
	if err != nil {
		s.log.WithError(err).WithField("tab", spec.Title).Warn("card construction failed")
		return cardSlot{state: slotFailed}
	}
	return cardSlot{state: slotCreated, panel: p}
}

// ensureCard constructs and stores the slot for index i only if it is
// still empty. Idempotent.
func (s *cardSet) ensureCard(spec TabSpec, i int) error {
	if i < 0 || i >= len(s.slots) {
		return fmt.Errorf("card index %d out of range", i)
	}
	if s.slots[i].state != slotEmpty {
		return nil
	}
	if s.factory == nil {
		return ErrNoFactory
	}
	s.slots[i] = s.buildCard(spec)
	return nil
}

// createAll populates every slot, fanning the constructions out as
// independent tasks and joining all outcomes. One card failing never
// blocks or invalidates its siblings.
func (s *cardSet) createAll(tabs []TabSpec) error {
	if s.factory == nil {
		return ErrNoFactory
	}
	results := make([]cardSlot, len(tabs))
	var wg sync.WaitGroup
	for i, spec := range tabs {
		wg.Add(1)
		go func(i int, spec TabSpec) {
			defer wg.Done()
			results[i] = s.buildCard(spec)
		}(i, spec)
	}
	wg.Wait()
	s.slots = results
	return nil
}

// propagateContext hands the latest snapshot to every created panel.
// Un-created and failed slots are left untouched.
func (s *cardSet) propagateContext(states Snapshot) {
	for _, slot := range s.slots {
		if slot.state == slotCreated && slot.panel != nil {
			slot.panel.SetContext(states)
		}
	}
}

func (s *cardSet) panel(i int) (Panel, slotState) {
	if i < 0 || i >= len(s.slots) {
		return nil, slotEmpty
	}
	return s.slots[i].panel, s.slots[i].state
}

func (s *cardSet) createdCount() int {
	n := 0
	for _, slot := range s.slots {
		if slot.state == slotCreated {
			n++
		}
	}
	return n
}
