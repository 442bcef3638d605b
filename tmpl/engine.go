// Package tmpl evaluates template expressions against the live entity
// state and delivers results over subscriptions. Expressions are
// JavaScript, run by an embedded goja runtime:
//
//	states['switch.heating'].state === 'on'
//	is_state('light.desk', 'on') && !is_state('lock.door', 'locked')
//
// Every store update re-evaluates all live subscriptions. Evaluation is
// serialized on one engine goroutine (goja runtimes are not
// goroutine-safe), so results are always delivered asynchronously with
// respect to Subscribe — the contract core.TemplateService requires.
package tmpl

import (
	"fmt"
	"sync"

	"github.com/dop251/goja"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/tabdeck/tabdeck/core"
	"github.com/tabdeck/tabdeck/state"
)

type subscription struct {
	id   string
	expr string
	prog *goja.Program
	fn   func(any)
}

// Engine implements core.TemplateService on top of a state.Store.
type Engine struct {
	store *state.Store
	log   logrus.FieldLogger

	mu      sync.Mutex
	subs    map[string]*subscription
	storeID string

	tasks     chan func(vm *goja.Runtime)
	done      chan struct{}
	closeOnce sync.Once
}

var _ core.TemplateService = (*Engine)(nil)

func NewEngine(store *state.Store, log logrus.FieldLogger) *Engine {
	if log == nil {
		log = logrus.StandardLogger()
	}
	e := &Engine{
		store: store,
		log:   log,
		subs:  make(map[string]*subscription),
		tasks: make(chan func(*goja.Runtime), 64),
		done:  make(chan struct{}),
	}
	e.storeID = store.Subscribe(func(snap core.Snapshot) {
		e.post(func(vm *goja.Runtime) { e.evalAll(vm, snap) })
	})
	go e.loop()
	return e
}

// Subscribe compiles the expression and registers it for evaluation. The
// first result is delivered asynchronously from the current store state;
// later results follow store updates. The returned func releases the
// subscription and is safe to call more than once.
func (e *Engine) Subscribe(expression string, fn func(result any)) (func() error, error) {
	prog, err := goja.Compile("template", expression, true)
	if err != nil {
		return nil, fmt.Errorf("compile template %q: %w", expression, err)
	}
	sub := &subscription{id: uuid.NewString(), expr: expression, prog: prog, fn: fn}

	e.mu.Lock()
	e.subs[sub.id] = sub
	e.mu.Unlock()

	snap := e.store.Snapshot()
	e.post(func(vm *goja.Runtime) { e.evalOne(vm, snap, sub) })

	cancel := func() error {
		e.mu.Lock()
		delete(e.subs, sub.id)
		e.mu.Unlock()
		return nil
	}
	return cancel, nil
}

// Close stops the engine goroutine and detaches from the store.
// Idempotent.
func (e *Engine) Close() {
	e.closeOnce.Do(func() {
		e.store.Unsubscribe(e.storeID)
		close(e.done)
	})
}

func (e *Engine) loop() {
	vm := goja.New()
	for {
		select {
		case task := <-e.tasks:
			task(vm)
		case <-e.done:
			return
		}
	}
}

func (e *Engine) post(task func(*goja.Runtime)) {
	select {
	case e.tasks <- task:
	case <-e.done:
	}
}

func (e *Engine) evalAll(vm *goja.Runtime, snap core.Snapshot) {
	e.mu.Lock()
	subs := make([]*subscription, 0, len(e.subs))
	for _, sub := range e.subs {
		subs = append(subs, sub)
	}
	e.mu.Unlock()

	if len(subs) == 0 {
		return
	}
	bindSnapshot(vm, snap)
	for _, sub := range subs {
		e.run(vm, sub)
	}
}

func (e *Engine) evalOne(vm *goja.Runtime, snap core.Snapshot, sub *subscription) {
	e.mu.Lock()
	_, live := e.subs[sub.id]
	e.mu.Unlock()
	if !live {
		return
	}
	bindSnapshot(vm, snap)
	e.run(vm, sub)
}

// run executes one compiled expression and delivers its exported value.
// Evaluation errors deliver nothing: the channel may legitimately produce
// zero results for a broken expression.
func (e *Engine) run(vm *goja.Runtime, sub *subscription) {
	v, err := vm.RunProgram(sub.prog)
	if err != nil {
		e.log.WithError(err).WithField("template", sub.expr).Debug("template evaluation failed")
		return
	}
	if v == nil {
		return
	}
	sub.fn(v.Export())
}

func bindSnapshot(vm *goja.Runtime, snap core.Snapshot) {
	states := make(map[string]map[string]any, len(snap))
	for id, ent := range snap {
		states[id] = map[string]any{"state": ent.State, "attrs": ent.Attrs}
	}
	_ = vm.Set("states", states)
	_ = vm.Set("is_state", func(id, want string) bool {
		ent, ok := snap[id]
		return ok && ent.State == want
	})
}
