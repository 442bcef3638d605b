package main

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/tabdeck/tabdeck/core"
)

// cardFactory is the host's panel-construction helper. Card configs are
// mappings with a "type" discriminator; unknown or malformed configs fail
// construction for that card only.
type cardFactory struct{}

func (cardFactory) CreateElement(cfg any) (core.Panel, error) {
	m, ok := cfg.(map[string]any)
	if !ok || len(m) == 0 {
		return nil, fmt.Errorf("card config must be a non-empty mapping")
	}
	switch t := strings.TrimSpace(cardString(m, "type")); t {
	case "text":
		return newTextPanel(m), nil
	case "entities":
		return newEntitiesPanel(m)
	default:
		return nil, fmt.Errorf("unknown card type %q", t)
	}
}

func cardString(m map[string]any, key string) string {
	if s, ok := m[key].(string); ok {
		return s
	}
	return ""
}

// ---------------------------------------------------------------------------
// text card: static title + body
// ---------------------------------------------------------------------------

type textPanel struct {
	title string
	body  string
}

func newTextPanel(m map[string]any) *textPanel {
	return &textPanel{
		title: cardString(m, "title"),
		body:  cardString(m, "content"),
	}
}

func (p *textPanel) SetContext(core.Snapshot) {}

func (p *textPanel) View(width, height int) string {
	var b strings.Builder
	if p.title != "" {
		b.WriteString(panelTitleStyle.Render(ansi.Truncate(p.title, max(1, width), "")))
		b.WriteString("\n\n")
	}
	b.WriteString(lipgloss.NewStyle().Width(max(1, width)).Render(p.body))
	return b.String()
}

// ---------------------------------------------------------------------------
// entities card: live state listing for a set of entity ids
// ---------------------------------------------------------------------------

type entitiesPanel struct {
	title string
	ids   []string

	mu     sync.Mutex
	states core.Snapshot
}

func newEntitiesPanel(m map[string]any) (*entitiesPanel, error) {
	raw, ok := m["entities"].([]any)
	if !ok || len(raw) == 0 {
		return nil, fmt.Errorf("entities card needs a non-empty entities list")
	}
	ids := make([]string, 0, len(raw))
	for i, item := range raw {
		id, ok := item.(string)
		if !ok || strings.TrimSpace(id) == "" {
			return nil, fmt.Errorf("entities[%d]: must be an entity id", i)
		}
		ids = append(ids, id)
	}
	return &entitiesPanel{title: cardString(m, "title"), ids: ids}, nil
}

func (p *entitiesPanel) SetContext(states core.Snapshot) {
	p.mu.Lock()
	p.states = states
	p.mu.Unlock()
}

func (p *entitiesPanel) View(width, height int) string {
	p.mu.Lock()
	states := p.states
	p.mu.Unlock()

	lines := make([]string, 0, len(p.ids)+2)
	if p.title != "" {
		lines = append(lines, panelTitleStyle.Render(ansi.Truncate(p.title, max(1, width), "")), "")
	}
	ids := append([]string(nil), p.ids...)
	sort.Strings(ids)
	for _, id := range ids {
		st := "unknown"
		if ent, ok := states[id]; ok {
			st = ent.State
		}
		dots := width - ansi.StringWidth(id) - ansi.StringWidth(st) - 2
		if dots < 1 {
			dots = 1
		}
		line := id + " " + panelDotsStyle.Render(strings.Repeat("·", dots)) + " " + panelStateStyle.Render(st)
		lines = append(lines, ansi.Truncate(line, max(1, width), ""))
	}
	return strings.Join(lines, "\n")
}

var (
	panelTitleStyle = lipgloss.NewStyle().Foreground(colorAccent).Bold(true)
	panelDotsStyle  = lipgloss.NewStyle().Foreground(colorOverlay0)
	panelStateStyle = lipgloss.NewStyle().Foreground(colorBlue)
)
