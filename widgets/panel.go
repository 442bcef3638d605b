package widgets

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// FitPanel clips and pads content to exactly width x height so panel
// output never bleeds into surrounding chrome.
func FitPanel(content string, width, height int) string {
	if width <= 0 || height <= 0 {
		return ""
	}
	lines := strings.Split(content, "\n")
	if len(lines) > height {
		lines = lines[:height]
	}
	out := make([]string, 0, height)
	for _, line := range lines {
		out = append(out, ansi.Truncate(line, width, ""))
	}
	for len(out) < height {
		out = append(out, "")
	}
	return strings.Join(out, "\n")
}

// ErrorPanel is the render-fault fallback: a static bordered box shown in
// place of content that failed to assemble.
type ErrorPanel struct {
	Message string
}

func (e ErrorPanel) Render(width, height int) string {
	if width <= 0 || height <= 0 {
		return ""
	}
	msg := e.Message
	if strings.TrimSpace(msg) == "" {
		msg = "something went wrong"
	}
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#f38ba8")).
		Foreground(lipgloss.Color("#f38ba8")).
		Padding(0, 1).
		Render(ansi.Truncate("✗ "+msg, max(1, width-4), "…"))
	return FitPanel(lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, box), width, height)
}
