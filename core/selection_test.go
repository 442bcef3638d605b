package core

import "testing"

func TestReconcileSelectionKeepsVisibleSelection(t *testing.T) {
	if got := reconcileSelection([]int{0, 2, 3}, 2); got != 2 {
		t.Fatalf("still-visible selection changed: %d", got)
	}
}

func TestReconcileSelectionFallsBackToFirstVisible(t *testing.T) {
	if got := reconcileSelection([]int{1, 3}, 2); got != 1 {
		t.Fatalf("expected first visible index, got %d", got)
	}
}

func TestReconcileSelectionEmptyVisibleSet(t *testing.T) {
	if got := reconcileSelection(nil, 2); got != -1 {
		t.Fatalf("expected -1 with nothing visible, got %d", got)
	}
}

func TestComputeOverflow(t *testing.T) {
	cases := []struct {
		offset, viewport, content int
		left, right               bool
	}{
		{0, 80, 40, false, false},  // everything fits
		{0, 80, 120, false, true},  // at the left edge
		{20, 80, 120, true, true},  // mid-scroll
		{40, 80, 120, true, false}, // at the right edge
		{99, 80, 120, true, false}, // clamped past the end
		{0, 0, 120, false, false},  // degenerate viewport
	}
	for _, c := range cases {
		got := computeOverflow(c.offset, c.viewport, c.content)
		if got.Left != c.left || got.Right != c.right {
			t.Fatalf("computeOverflow(%d,%d,%d) = %+v, want left=%v right=%v",
				c.offset, c.viewport, c.content, got, c.left, c.right)
		}
	}
}

func TestCenterOffsetClamps(t *testing.T) {
	if got := centerOffset(0, 10, 80, 40); got != 0 {
		t.Fatalf("no scroll needed, got offset %d", got)
	}
	// selected span centered: start 60, width 10, viewport 80 → 60+5-40 = 25
	if got := centerOffset(60, 10, 80, 200); got != 25 {
		t.Fatalf("center offset = %d, want 25", got)
	}
	if got := centerOffset(0, 10, 80, 200); got != 0 {
		t.Fatalf("left clamp failed: %d", got)
	}
	if got := centerOffset(195, 5, 80, 200); got != 120 {
		t.Fatalf("right clamp failed: %d", got)
	}
}
