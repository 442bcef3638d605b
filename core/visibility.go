package core

// Entity is one entry of the host state snapshot. The deck itself only
// reads State; Attrs ride along for the panels.
type Entity struct {
	State string
	Attrs map[string]any
}

// Snapshot maps entity identifiers to their latest state. Supplied by the
// host, never mutated here.
type Snapshot map[string]Entity

// condKey addresses one template-condition slot in the visibility cache.
type condKey struct {
	tab  int
	cond int
}

// visCache holds the latest normalized template results. It is reset
// wholesale whenever subscriptions are re-established, so entries never
// outlive the tabs sequence they were keyed against.
type visCache map[condKey]bool

// tabVisible evaluates one tab's conditions against the snapshot and the
// template cache. All conditions must hold. A template condition whose
// slot has not received a result yet counts as unsatisfied: tabs stay
// hidden until the first evaluation arrives (fail closed).
func tabVisible(tab TabSpec, idx int, states Snapshot, cache visCache) bool {
	for ci, c := range tab.Conditions {
		switch c.Kind {
		case StateCondition:
			ent, ok := states[c.Entity]
			if !ok || ent.State != c.State {
				return false
			}
		case TemplateCondition:
			if !cache[condKey{tab: idx, cond: ci}] {
				return false
			}
		}
	}
	return true
}

func visibleIndices(tabs []TabSpec, states Snapshot, cache visCache) []int {
	out := make([]int, 0, len(tabs))
	for i, tab := range tabs {
		if tabVisible(tab, i, states, cache) {
			out = append(out, i)
		}
	}
	return out
}

// referencesChanged reports whether any state condition across the tabs
// refers to an entity whose state differs between the two snapshots. Used
// to skip re-renders on unrelated state churn.
func referencesChanged(tabs []TabSpec, prev, next Snapshot) bool {
	for _, tab := range tabs {
		for _, c := range tab.Conditions {
			if c.Kind != StateCondition {
				continue
			}
			pe, pok := prev[c.Entity]
			ne, nok := next[c.Entity]
			if pok != nok || pe.State != ne.State {
				return true
			}
		}
	}
	return false
}
