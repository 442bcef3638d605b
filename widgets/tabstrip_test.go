package widgets

import (
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"
)

func plainLabels(titles ...string) []TabLabel {
	out := make([]TabLabel, 0, len(titles))
	for _, t := range titles {
		out = append(out, TabLabel{Title: t})
	}
	return out
}

func TestLabelWidthCountsIconAndPadding(t *testing.T) {
	if got := LabelWidth(TabLabel{Title: "abc"}); got != 5 {
		t.Fatalf("width = %d, want 5 (padded title)", got)
	}
	if got := LabelWidth(TabLabel{Title: "abc", Icon: "x"}); got != 7 {
		t.Fatalf("width = %d, want 7 (icon adds two cells)", got)
	}
}

func TestRenderFitsToExactWidth(t *testing.T) {
	s := TabStrip{Tabs: plainLabels("one", "two")}
	for _, width := range []int{20, 40, 11} {
		out := s.Render(width)
		if got := ansi.StringWidth(out); got != width {
			t.Fatalf("rendered width = %d, want %d", got, width)
		}
	}
	if s.Render(0) != "" {
		t.Fatalf("zero width must render nothing")
	}
}

func TestRenderAlignment(t *testing.T) {
	tabs := plainLabels("ab") // 4 cells
	start := ansi.Strip(TabStrip{Tabs: tabs, Align: AlignStart}.Render(10))
	if start != " ab       " {
		t.Fatalf("start-aligned = %q", start)
	}
	end := ansi.Strip(TabStrip{Tabs: tabs, Align: AlignEnd}.Render(10))
	if end != "       ab " {
		t.Fatalf("end-aligned = %q", end)
	}
	center := ansi.Strip(TabStrip{Tabs: tabs, Align: AlignCenter}.Render(10))
	if center != "    ab    " {
		t.Fatalf("center-aligned = %q", center)
	}
}

func TestRenderOverflowWindowAndFades(t *testing.T) {
	tabs := plainLabels("alpha", "bravo", "charlie", "delta") // 7+7+9+7 cells
	s := TabStrip{Tabs: tabs, Offset: 7, FadeLeft: true, FadeRight: true}
	out := s.Render(12)
	if got := ansi.StringWidth(out); got != 12 {
		t.Fatalf("overflowed width = %d, want 12", got)
	}
	plain := ansi.Strip(out)
	if !strings.HasPrefix(plain, "‹") || !strings.HasSuffix(plain, "›") {
		t.Fatalf("fade chevrons missing: %q", plain)
	}
	if !strings.Contains(plain, "bravo") {
		t.Fatalf("window at offset 7 should show bravo, got %q", plain)
	}
	if strings.Contains(plain, "alpha") {
		t.Fatalf("alpha lies left of the window: %q", plain)
	}
}

func TestRenderOverflowWithoutFades(t *testing.T) {
	tabs := plainLabels("alpha", "bravo", "charlie")
	out := ansi.Strip(TabStrip{Tabs: tabs}.Render(10))
	if !strings.HasPrefix(out, " alpha") {
		t.Fatalf("offset 0 window should start at the first label: %q", out)
	}
	if strings.ContainsAny(out, "‹›") {
		t.Fatalf("no fades requested, got %q", out)
	}
}

func TestFitPanelClipsAndPads(t *testing.T) {
	out := FitPanel("abcdef\nxy", 4, 3)
	lines := strings.Split(out, "\n")
	if len(lines) != 3 {
		t.Fatalf("line count = %d, want 3", len(lines))
	}
	if lines[0] != "abcd" || lines[1] != "xy" || lines[2] != "" {
		t.Fatalf("unexpected fit: %q", lines)
	}
	if got := FitPanel("a\nb\nc\nd", 4, 2); strings.Count(got, "\n") != 1 {
		t.Fatalf("overflow lines must be dropped: %q", got)
	}
}

func TestErrorPanelCarriesMessage(t *testing.T) {
	out := ansi.Strip(ErrorPanel{Message: "boom"}.Render(30, 7))
	if !strings.Contains(out, "✗ boom") {
		t.Fatalf("message missing from error panel: %q", out)
	}
	fallback := ansi.Strip(ErrorPanel{}.Render(30, 7))
	if !strings.Contains(fallback, "something went wrong") {
		t.Fatalf("empty message needs a fallback: %q", fallback)
	}
	if (ErrorPanel{Message: "x"}).Render(0, 5) != "" {
		t.Fatalf("degenerate size must render nothing")
	}
}
