package core

import (
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/tabdeck/tabdeck/widgets"
)

// teardownDelay is how long a detached deck waits before releasing its
// subscriptions. A reattach inside the window cancels the teardown, so
// transient detach/reattach cycles (reparenting) keep subscriptions and
// panels alive.
const teardownDelay = 10 * time.Millisecond

// Deck is the tab-deck component: it decides which tabs are visible on
// every state update, manages lazy/eager card creation, keeps the
// template subscription set in sync with the applied configuration, and
// renders the strip plus the active panel.
//
// A single mutex guards all state because template results arrive on the
// evaluation service's goroutine. The OnDirty callback is invoked outside
// the lock and must not call back into the deck synchronously.
type Deck struct {
	mu      sync.Mutex
	log     logrus.FieldLogger
	factory PanelFactory
	svc     TemplateService

	cfg     Config
	applied bool
	cards   *cardSet
	subs    subscriptionSet
	cache   visCache
	states  Snapshot

	selected int
	dirty    bool
	onDirty  func()

	attached  bool
	detachGen uint64
	teardown  *time.Timer
}

func NewDeck(factory PanelFactory, svc TemplateService) *Deck {
	log := logrus.StandardLogger()
	d := &Deck{
		factory:  factory,
		svc:      svc,
		log:      log,
		selected: -1,
	}
	d.subs = subscriptionSet{svc: svc, log: log}
	return d
}

// SetLogger replaces the deck's logger. Call before Apply.
func (d *Deck) SetLogger(log logrus.FieldLogger) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.log = log
	d.subs.log = log
	if d.cards != nil {
		d.cards.log = log
	}
}

// SetOnDirty registers the host's repaint trigger. It fires whenever
// configuration, visibility, selection, or panel state changed.
func (d *Deck) SetOnDirty(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.onDirty = fn
}

// Apply validates and installs a configuration. On shape errors the
// active configuration is left unchanged. Cards and subscriptions are
// rebuilt only when the tabs sequence materially changed; style-only
// updates commit without touching either.
func (d *Deck) Apply(raw map[string]any) error {
	cfg, err := ParseConfig(raw)
	if err != nil {
		return err
	}

	d.mu.Lock()
	rebuild := !d.applied || tabsChanged(d.cfg.Tabs, cfg.Tabs)
	if rebuild {
		cards := newCardSet(d.factory, len(cfg.Tabs), d.log)
		if cfg.Preload {
			if err := cards.createAll(cfg.Tabs); err != nil {
				d.mu.Unlock()
				return err
			}
			cards.propagateContext(d.states)
		}
		d.cache = make(visCache)
		if err := d.subs.subscribeAll(cfg.Tabs, d.templateResult); err != nil {
			d.log.WithError(err).Warn("template subscription incomplete")
		}
		d.cards = cards
	}
	d.cfg = cfg
	d.applied = true
	d.reconcileLocked()
	fire := d.markDirtyLocked()
	d.mu.Unlock()

	if fire != nil {
		fire()
	}
	return nil
}

// SetStates pushes a new host state snapshot. Created panels always
// receive the context; a re-render is signalled only when an entity
// referenced by some condition actually changed.
func (d *Deck) SetStates(states Snapshot) {
	d.mu.Lock()
	prev := d.states
	d.states = states
	if d.cards != nil {
		d.cards.propagateContext(states)
	}
	var fire func()
	if d.applied && referencesChanged(d.cfg.Tabs, prev, states) {
		d.reconcileLocked()
		fire = d.markDirtyLocked()
	}
	d.mu.Unlock()

	if fire != nil {
		fire()
	}
}

// templateResult is the subscription sink. Results subscribed under a
// retired generation, or addressing a tab index that no longer exists,
// are discarded.
func (d *Deck) templateResult(gen uint64, key condKey, result any) {
	d.mu.Lock()
	if gen != d.subs.gen || key.tab >= len(d.cfg.Tabs) {
		d.mu.Unlock()
		return
	}
	val := normalizeResult(result)
	if cur, ok := d.cache[key]; ok && cur == val {
		d.mu.Unlock()
		return
	}
	d.cache[key] = val
	d.reconcileLocked()
	fire := d.markDirtyLocked()
	d.mu.Unlock()

	if fire != nil {
		fire()
	}
}

// Attach marks the deck as mounted in the host tree, cancelling any
// pending teardown. If a previous teardown already ran, subscriptions are
// re-established for the applied configuration.
func (d *Deck) Attach() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.detachGen++
	if d.teardown != nil {
		d.teardown.Stop()
		d.teardown = nil
	}
	if d.attached {
		return
	}
	d.attached = true
	if d.applied && !d.subs.active {
		d.cache = make(visCache)
		if err := d.subs.subscribeAll(d.cfg.Tabs, d.templateResult); err != nil {
			d.log.WithError(err).Warn("template subscription incomplete")
		}
		d.reconcileLocked()
	}
}

// Detach schedules a deferred subscription teardown keyed by a generation
// counter. Only the latest scheduled teardown for the latest detach runs;
// a reattach in between turns it into a no-op.
func (d *Deck) Detach() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.attached {
		return
	}
	d.attached = false
	d.detachGen++
	gen := d.detachGen
	d.teardown = time.AfterFunc(teardownDelay, func() {
		d.mu.Lock()
		defer d.mu.Unlock()
		if gen != d.detachGen || d.attached {
			return
		}
		d.subs.unsubscribeAll()
	})
}

// Select activates the tab at index i if it is currently visible.
func (d *Deck) Select(i int) {
	d.mu.Lock()
	var fire func()
	for _, v := range d.visibleLocked() {
		if v == i && d.selected != i {
			d.selected = i
			fire = d.markDirtyLocked()
			break
		}
	}
	d.mu.Unlock()
	if fire != nil {
		fire()
	}
}

// Next and Prev move the selection among the visible tabs, wrapping at
// the ends.
func (d *Deck) Next() { d.step(1) }
func (d *Deck) Prev() { d.step(-1) }

func (d *Deck) step(delta int) {
	d.mu.Lock()
	vis := d.visibleLocked()
	var fire func()
	if len(vis) > 1 {
		pos := 0
		for p, v := range vis {
			if v == d.selected {
				pos = p
				break
			}
		}
		d.selected = vis[(pos+delta+len(vis))%len(vis)]
		fire = d.markDirtyLocked()
	}
	d.mu.Unlock()
	if fire != nil {
		fire()
	}
}

// Selected returns the active tab index, -1 when no tab is visible.
func (d *Deck) Selected() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.selected
}

// VisibleTabs returns the indices of the currently visible tabs.
func (d *Deck) VisibleTabs() []int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.visibleLocked()
}

// TabCount returns the number of configured tabs (and panel slots).
func (d *Deck) TabCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.cfg.Tabs)
}

// CreatedPanels returns how many panels have been constructed so far.
func (d *Deck) CreatedPanels() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.cards == nil {
		return 0
	}
	return d.cards.createdCount()
}

// Dirty reports and clears the pending-repaint flag.
func (d *Deck) Dirty() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	was := d.dirty
	d.dirty = false
	return was
}

func (d *Deck) visibleLocked() []int {
	return visibleIndices(d.cfg.Tabs, d.states, d.cache)
}

func (d *Deck) reconcileLocked() {
	d.selected = reconcileSelection(d.visibleLocked(), d.selected)
}

// markDirtyLocked flags the deck stale and returns the host callback to
// run after the lock is released.
func (d *Deck) markDirtyLocked() func() {
	d.dirty = true
	return d.onDirty
}

// View renders the tab strip and the active panel. Any panic during
// assembly is caught at this boundary and replaced with a static error
// panel rather than crashing the host view.
func (d *Deck) View(width, height int) (out string) {
	defer func() {
		if r := recover(); r != nil {
			d.log.WithField("panic", r).Error("tab deck render failed")
			out = widgets.ErrorPanel{Message: "tab deck render failed"}.Render(width, height)
		}
	}()

	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.applied || width <= 0 || height <= 0 {
		return ""
	}
	d.reconcileLocked()

	strip := d.renderStripLocked(width)
	contentHeight := height - 1
	if contentHeight <= 0 {
		return strip
	}
	content := d.renderContentLocked(width, contentHeight)
	return strip + "\n" + content
}

func (d *Deck) renderStripLocked(width int) string {
	vis := d.visibleLocked()
	labels := make([]widgets.TabLabel, 0, len(vis))
	selPos := -1
	for p, i := range vis {
		if i == d.selected {
			selPos = p
		}
		labels = append(labels, widgets.TabLabel{
			Title:    d.cfg.Tabs[i].Title,
			Icon:     d.cfg.Tabs[i].Icon,
			Selected: i == d.selected,
		})
	}

	content := 0
	selStart, selWidth := 0, 0
	for p, l := range labels {
		w := widgets.LabelWidth(l)
		if p == selPos {
			selStart, selWidth = content, w
		}
		content += w
	}
	offset := centerOffset(selStart, selWidth, width, content)
	ov := computeOverflow(offset, width, content)

	return widgets.TabStrip{
		Tabs:      labels,
		Align:     stripAlign(d.cfg.Align),
		Offset:    offset,
		FadeLeft:  ov.Left,
		FadeRight: ov.Right,
		Styles:    stripStyles(d.cfg.Styles),
	}.Render(width)
}

func (d *Deck) renderContentLocked(width, height int) string {
	if d.selected < 0 {
		return widgets.FitPanel("", width, height)
	}
	if !d.cfg.Preload {
		if err := d.cards.ensureCard(d.cfg.Tabs[d.selected], d.selected); err != nil {
			d.log.WithError(err).Error("cannot create card")
			return widgets.ErrorPanel{Message: err.Error()}.Render(width, height)
		}
		if p, st := d.cards.panel(d.selected); st == slotCreated && p != nil {
			p.SetContext(d.states)
		}
	}
	panel, st := d.cards.panel(d.selected)
	if st != slotCreated || panel == nil {
		return widgets.ErrorPanel{Message: "card unavailable"}.Render(width, height)
	}
	return widgets.FitPanel(panel.View(width, height), width, height)
}

func stripAlign(a Alignment) widgets.Align {
	switch a {
	case AlignStart:
		return widgets.AlignStart
	case AlignEnd:
		return widgets.AlignEnd
	default:
		return widgets.AlignCenter
	}
}

func stripStyles(s StyleOverrides) widgets.StripStyles {
	return widgets.StripStyles{
		TabColor:          s.TabColor,
		SelectedTabColor:  s.SelectedTabColor,
		TextColor:         s.TextColor,
		SelectedTextColor: s.SelectedTextColor,
		Background:        s.BackgroundColor,
		FadeColor:         s.FadeColor,
	}
}
