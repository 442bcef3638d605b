package core

import (
	"errors"
	"sync"
	"testing"

	"github.com/sirupsen/logrus"
)

type fakePanel struct {
	mu     sync.Mutex
	states Snapshot
	body   string
}

func (p *fakePanel) SetContext(states Snapshot) {
	p.mu.Lock()
	p.states = states
	p.mu.Unlock()
}

func (p *fakePanel) View(width, height int) string { return p.body }

func (p *fakePanel) lastStates() Snapshot {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.states
}

// fakeFactory fails construction for card configs carrying "fail": true.
type fakeFactory struct {
	mu    sync.Mutex
	calls int
}

func (f *fakeFactory) CreateElement(cfg any) (Panel, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	if m, ok := cfg.(map[string]any); ok {
		if fail, _ := m["fail"].(bool); fail {
			return nil, errors.New("malformed card")
		}
		if boom, _ := m["panic"].(bool); boom {
			panic("factory exploded")
		}
	}
	return &fakePanel{body: "panel"}, nil
}

func (f *fakeFactory) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func quietLog() logrus.FieldLogger {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return log
}

func TestEnsureCardIsIdempotent(t *testing.T) {
	factory := &fakeFactory{}
	set := newCardSet(factory, 2, quietLog())
	spec := TabSpec{Title: "A", Card: map[string]any{}}
	if err := set.ensureCard(spec, 0); err != nil {
		t.Fatalf("ensure: %v", err)
	}
	if err := set.ensureCard(spec, 0); err != nil {
		t.Fatalf("second ensure: %v", err)
	}
	if factory.callCount() != 1 {
		t.Fatalf("factory called %d times, want 1", factory.callCount())
	}
}

func TestEnsureCardWithoutFactory(t *testing.T) {
	set := newCardSet(nil, 1, quietLog())
	err := set.ensureCard(TabSpec{Title: "A"}, 0)
	if !errors.Is(err, ErrNoFactory) {
		t.Fatalf("expected ErrNoFactory, got %v", err)
	}
}

func TestCreateAllSettlesEverySlot(t *testing.T) {
	factory := &fakeFactory{}
	set := newCardSet(factory, 3, quietLog())
	tabs := []TabSpec{
		{Title: "A", Card: map[string]any{}},
		{Title: "B", Card: map[string]any{"fail": true}},
		{Title: "C", Card: map[string]any{}},
	}
	if err := set.createAll(tabs); err != nil {
		t.Fatalf("createAll: %v", err)
	}
	if got := set.createdCount(); got != 2 {
		t.Fatalf("created = %d, want 2 despite one failure", got)
	}
	if _, st := set.panel(1); st != slotFailed {
		t.Fatalf("failing slot should be marked failed")
	}
}

func TestCreateAllAbsorbsFactoryPanics(t *testing.T) {
	factory := &fakeFactory{}
	set := newCardSet(factory, 2, quietLog())
	tabs := []TabSpec{
		{Title: "A", Card: map[string]any{"panic": true}},
		{Title: "B", Card: map[string]any{}},
	}
	if err := set.createAll(tabs); err != nil {
		t.Fatalf("createAll: %v", err)
	}
	if got := set.createdCount(); got != 1 {
		t.Fatalf("created = %d, want 1", got)
	}
}

func TestPropagateContextSkipsUncreatedSlots(t *testing.T) {
	factory := &fakeFactory{}
	set := newCardSet(factory, 3, quietLog())
	if err := set.ensureCard(TabSpec{Title: "B", Card: map[string]any{}}, 1); err != nil {
		t.Fatalf("ensure: %v", err)
	}
	states := Snapshot{"x": {State: "on"}}
	set.propagateContext(states)

	p, st := set.panel(1)
	if st != slotCreated {
		t.Fatalf("slot 1 should be created")
	}
	if got := p.(*fakePanel).lastStates(); got["x"].State != "on" {
		t.Fatalf("created panel did not receive context")
	}
	if _, st := set.panel(0); st != slotEmpty {
		t.Fatalf("un-created slot must stay empty")
	}
}
