// Package widgets contains dumb render primitives.
//
// Allowed here:
// - stateless drawing/composition helpers (tab strip, panel chrome, error panel)
//
// Not allowed here:
// - visibility policy, card lifecycle, subscriptions, or host state
package widgets
