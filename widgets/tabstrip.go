package widgets

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// Align positions the strip when all tabs fit in the viewport.
type Align int

const (
	AlignCenter Align = iota
	AlignStart
	AlignEnd
)

// TabLabel is one rendered strip entry.
type TabLabel struct {
	Title    string
	Icon     string
	Selected bool
}

// StripStyles carries optional color overrides; empty fields fall back to
// the built-in palette.
type StripStyles struct {
	TabColor          string
	SelectedTabColor  string
	TextColor         string
	SelectedTextColor string
	Background        string
	FadeColor         string
}

const (
	defaultTabColor          = "#181825"
	defaultSelectedTabColor  = "#313244"
	defaultTextColor         = "#a6adc8"
	defaultSelectedTextColor = "#f5c2e7"
	defaultBackground        = "#11111b"
	defaultFadeColor         = "#6c7086"
)

func (s StripStyles) withDefaults() StripStyles {
	pick := func(v, def string) string {
		if strings.TrimSpace(v) == "" {
			return def
		}
		return v
	}
	return StripStyles{
		TabColor:          pick(s.TabColor, defaultTabColor),
		SelectedTabColor:  pick(s.SelectedTabColor, defaultSelectedTabColor),
		TextColor:         pick(s.TextColor, defaultTextColor),
		SelectedTextColor: pick(s.SelectedTextColor, defaultSelectedTextColor),
		Background:        pick(s.Background, defaultBackground),
		FadeColor:         pick(s.FadeColor, defaultFadeColor),
	}
}

// TabStrip renders a single-line row of tab labels. When the labels
// exceed the width, Offset slides a window over them and the fade
// chevrons mark the clipped sides.
type TabStrip struct {
	Tabs      []TabLabel
	Align     Align
	Offset    int
	FadeLeft  bool
	FadeRight bool
	Styles    StripStyles
}

func labelText(l TabLabel) string {
	if l.Icon != "" {
		return " " + l.Icon + " " + l.Title + " "
	}
	return " " + l.Title + " "
}

// LabelWidth reports the cell width one label occupies in the strip.
func LabelWidth(l TabLabel) int {
	return ansi.StringWidth(labelText(l))
}

func (s TabStrip) Render(width int) string {
	if width <= 0 {
		return ""
	}
	st := s.Styles.withDefaults()
	bg := lipgloss.NewStyle().Background(lipgloss.Color(st.Background))
	tab := lipgloss.NewStyle().
		Background(lipgloss.Color(st.TabColor)).
		Foreground(lipgloss.Color(st.TextColor))
	selected := lipgloss.NewStyle().
		Background(lipgloss.Color(st.SelectedTabColor)).
		Foreground(lipgloss.Color(st.SelectedTextColor)).
		Bold(true)
	fade := lipgloss.NewStyle().
		Background(lipgloss.Color(st.Background)).
		Foreground(lipgloss.Color(st.FadeColor))

	parts := make([]string, 0, len(s.Tabs))
	total := 0
	for _, l := range s.Tabs {
		text := labelText(l)
		total += ansi.StringWidth(text)
		if l.Selected {
			parts = append(parts, selected.Render(text))
		} else {
			parts = append(parts, tab.Render(text))
		}
	}
	row := strings.Join(parts, "")

	if total <= width {
		gap := width - total
		var left int
		switch s.Align {
		case AlignStart:
			left = 0
		case AlignEnd:
			left = gap
		default:
			left = gap / 2
		}
		return bg.Render(strings.Repeat(" ", left)) + row + bg.Render(strings.Repeat(" ", gap-left))
	}

	row = ansi.Cut(row, s.Offset, s.Offset+width)
	if s.FadeLeft {
		row = fade.Render("‹") + ansi.Cut(row, 1, width)
	}
	if s.FadeRight {
		row = ansi.Cut(row, 0, width-1) + fade.Render("›")
	}
	return row
}
