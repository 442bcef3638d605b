package core

import "testing"

func TestTabWithNoConditionsIsAlwaysVisible(t *testing.T) {
	tab := TabSpec{Title: "A"}
	if !tabVisible(tab, 0, nil, nil) {
		t.Fatalf("unconditional tab must be visible with empty state")
	}
}

func TestStateConditionAgainstSnapshot(t *testing.T) {
	tab := TabSpec{Title: "A", Conditions: []Condition{{Kind: StateCondition, Entity: "switch.x", State: "on"}}}
	states := Snapshot{"switch.x": {State: "off"}}
	if tabVisible(tab, 0, states, nil) {
		t.Fatalf("state mismatch must hide tab")
	}
	states = Snapshot{"switch.x": {State: "on"}}
	if !tabVisible(tab, 0, states, nil) {
		t.Fatalf("state match must show tab")
	}
}

func TestUnknownEntityIsNeverVisible(t *testing.T) {
	tab := TabSpec{Title: "A", Conditions: []Condition{{Kind: StateCondition, Entity: "ghost", State: "on"}}}
	if tabVisible(tab, 0, Snapshot{}, nil) {
		t.Fatalf("unknown entity must not satisfy its condition")
	}
}

func TestTemplateConditionFailsClosedUntilFirstResult(t *testing.T) {
	tab := TabSpec{Title: "A", Conditions: []Condition{{Kind: TemplateCondition, Template: "x"}}}
	cache := make(visCache)
	if tabVisible(tab, 2, nil, cache) {
		t.Fatalf("template tab must stay hidden before the first result")
	}
	cache[condKey{tab: 2, cond: 0}] = true
	if !tabVisible(tab, 2, nil, cache) {
		t.Fatalf("template tab must show once its slot is true")
	}
	// cache slots are keyed per tab index
	if tabVisible(tab, 3, nil, cache) {
		t.Fatalf("another tab index must not read this slot")
	}
}

func TestAllConditionsCombineWithAnd(t *testing.T) {
	tab := TabSpec{Title: "A", Conditions: []Condition{
		{Kind: StateCondition, Entity: "switch.x", State: "on"},
		{Kind: TemplateCondition, Template: "x"},
	}}
	states := Snapshot{"switch.x": {State: "on"}}
	cache := visCache{condKey{tab: 0, cond: 1}: false}
	if tabVisible(tab, 0, states, cache) {
		t.Fatalf("one failing condition must hide the tab")
	}
	cache[condKey{tab: 0, cond: 1}] = true
	if !tabVisible(tab, 0, states, cache) {
		t.Fatalf("all conditions satisfied must show the tab")
	}
}

func TestVisibleIndicesOrder(t *testing.T) {
	tabs := []TabSpec{
		{Title: "A"},
		{Title: "B", Conditions: []Condition{{Kind: StateCondition, Entity: "x", State: "on"}}},
		{Title: "C"},
	}
	got := visibleIndices(tabs, Snapshot{"x": {State: "off"}}, nil)
	if len(got) != 2 || got[0] != 0 || got[1] != 2 {
		t.Fatalf("visible = %v, want [0 2]", got)
	}
}

func TestReferencesChangedIgnoresUnrelatedChurn(t *testing.T) {
	tabs := []TabSpec{{Title: "B", Conditions: []Condition{{Kind: StateCondition, Entity: "x", State: "on"}}}}
	prev := Snapshot{"x": {State: "on"}, "noise": {State: "1"}}
	next := Snapshot{"x": {State: "on"}, "noise": {State: "2"}}
	if referencesChanged(tabs, prev, next) {
		t.Fatalf("unrelated entity churn must not force a re-render")
	}
	next = Snapshot{"x": {State: "off"}, "noise": {State: "2"}}
	if !referencesChanged(tabs, prev, next) {
		t.Fatalf("referenced entity change must force a re-render")
	}
	if !referencesChanged(tabs, prev, Snapshot{}) {
		t.Fatalf("referenced entity disappearing must force a re-render")
	}
}
