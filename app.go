package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/tabdeck/tabdeck/core"
	"github.com/tabdeck/tabdeck/state"
)

// dirtyMsg is pumped into the event loop whenever the deck reports it
// needs a repaint (template result, state change, selection change).
type dirtyMsg struct{}

type appModel struct {
	deck          *core.Deck
	store         *state.Store
	demo          *demoFeed
	keys          keyMap
	dashboardPath string

	dirty     chan struct{}
	width     int
	height    int
	status    string
	statusErr bool
	quitting  bool
}

func newApp(deck *core.Deck, store *state.Store, demo *demoFeed, dashboardPath string) appModel {
	return appModel{
		deck:          deck,
		store:         store,
		demo:          demo,
		keys:          defaultKeyMap(),
		dashboardPath: dashboardPath,
		dirty:         make(chan struct{}, 1),
		width:         100,
		height:        32,
		status:        "Ready",
	}
}

// notifyDirty is registered as the deck's repaint trigger. Coalescing
// send: a pending repaint absorbs further signals.
func (m appModel) notifyDirty() {
	select {
	case m.dirty <- struct{}{}:
	default:
	}
}

func (m appModel) Init() tea.Cmd {
	return m.waitDirty()
}

func (m appModel) waitDirty() tea.Cmd {
	dirty := m.dirty
	return func() tea.Msg {
		<-dirty
		return dirtyMsg{}
	}
}

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil
	case dirtyMsg:
		return m, m.waitDirty()
	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m appModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		m.deck.Detach()
		return m, tea.Quit
	case key.Matches(msg, m.keys.Prev):
		m.deck.Prev()
	case key.Matches(msg, m.keys.Next):
		m.deck.Next()
	case key.Matches(msg, m.keys.Toggle):
		if m.demo != nil {
			m.demo.toggleHeating()
			m.setStatus("Toggled switch.heating")
		}
	case key.Matches(msg, m.keys.Reload):
		raw, err := loadDashboard(m.dashboardPath)
		if err == nil {
			err = m.deck.Apply(raw)
		}
		if err != nil {
			m.setError(err)
		} else {
			m.setStatus("Dashboard reloaded")
		}
	default:
		// number keys jump to the nth visible tab
		if s := msg.String(); len(s) == 1 && s[0] >= '1' && s[0] <= '9' {
			vis := m.deck.VisibleTabs()
			if n := int(s[0] - '1'); n < len(vis) {
				m.deck.Select(vis[n])
			}
		}
	}
	return m, nil
}

func (m *appModel) setStatus(text string) {
	m.status = text
	m.statusErr = false
}

func (m *appModel) setError(err error) {
	m.status = err.Error()
	m.statusErr = true
}

func (m appModel) View() string {
	if m.quitting {
		return "Goodbye\n"
	}
	header := m.renderHeader()
	status := m.renderStatus()
	footer := m.renderFooter()
	bodyHeight := m.height - lipgloss.Height(header) - lipgloss.Height(status) - lipgloss.Height(footer)
	if bodyHeight < 0 {
		bodyHeight = 0
	}
	body := ""
	if bodyHeight > 0 {
		body = m.deck.View(max(1, m.width), bodyHeight)
	}
	body = fitHeight(body, bodyHeight)
	view := strings.Join([]string{header, status, body, footer}, "\n")
	return appStyle.Width(max(1, m.width)).MaxWidth(max(1, m.width)).Render(fitHeight(view, max(1, m.height)))
}

func (m appModel) renderHeader() string {
	left := headerAppStyle.Render("tabdeck")
	right := fmt.Sprintf("%d/%d tabs visible", len(m.deck.VisibleTabs()), m.deck.TabCount())
	leftW := ansi.StringWidth(left)
	rightW := ansi.StringWidth(right)
	gap := 1
	if leftW+rightW+1 < m.width {
		gap = m.width - leftW - rightW
	}
	return renderBar(headerBarStyle, max(1, m.width), left+strings.Repeat(" ", gap)+right)
}

func (m appModel) renderStatus() string {
	style := statusBarStyle
	if m.statusErr {
		style = statusErrBarStyle
	}
	return renderBar(style, max(1, m.width), " "+m.status)
}

func (m appModel) renderFooter() string {
	parts := make([]string, 0, 8)
	for _, b := range m.keys.helpBindings() {
		h := b.Help()
		parts = append(parts, keyStyle.Render(h.Key)+" "+helpDescStyle.Render(h.Desc))
	}
	return renderBar(footerStyle, max(1, m.width), " "+strings.Join(parts, "  "))
}

func renderBar(style lipgloss.Style, width int, line string) string {
	line = ansi.Truncate(strings.ReplaceAll(line, "\n", " "), width, "")
	lineW := ansi.StringWidth(line)
	if lineW < width {
		line += strings.Repeat(" ", width-lineW)
	}
	return style.Width(width).MaxWidth(width).Render(line)
}

func fitHeight(s string, height int) string {
	if height <= 0 {
		return ""
	}
	lines := strings.Split(s, "\n")
	if len(lines) > height {
		lines = lines[:height]
	}
	for len(lines) < height {
		lines = append(lines, "")
	}
	return strings.Join(lines, "\n")
}
