package core

// reconcileSelection re-validates the current selection against the
// visible set: unchanged while still visible, otherwise the first visible
// index, or -1 when nothing is visible. Runs on every render pass because
// visibility is a function of live state.
func reconcileSelection(visible []int, cur int) int {
	for _, i := range visible {
		if i == cur {
			return cur
		}
	}
	if len(visible) == 0 {
		return -1
	}
	return visible[0]
}

// Overflow reports whether the tab strip can scroll further left or
// right; it drives the fade indicators at the strip edges.
type Overflow struct {
	Left  bool
	Right bool
}

// computeOverflow derives scroll affordance purely from geometry: the
// current offset against the scrollable range.
func computeOverflow(offset, viewport, content int) Overflow {
	if viewport <= 0 || content <= viewport {
		return Overflow{}
	}
	limit := content - viewport
	if offset > limit {
		offset = limit
	}
	if offset < 0 {
		offset = 0
	}
	return Overflow{Left: offset > 0, Right: offset < limit}
}

// centerOffset returns the scroll offset that centers the span
// [start, start+width) within the viewport, clamped to the scrollable
// range. With everything in view the offset is always zero.
func centerOffset(start, width, viewport, content int) int {
	if viewport <= 0 || content <= viewport {
		return 0
	}
	off := start + width/2 - viewport/2
	if off > content-viewport {
		off = content - viewport
	}
	if off < 0 {
		off = 0
	}
	return off
}
