package core

import (
	"reflect"
	"slices"
)

// Equal reports deep structural equality over decoded-configuration values:
// string-keyed maps by key set and per-key recursion, slices element-wise
// after a length check, scalars by value. Cyclic input is out of scope.
func Equal(a, b any) bool {
	switch av := a.(type) {
	case nil:
		return b == nil
	case map[string]any:
		bv, ok := b.(map[string]any)
		if !ok || len(av) != len(bv) {
			return false
		}
		for k, v := range av {
			w, ok := bv[k]
			if !ok || !Equal(v, w) {
				return false
			}
		}
		return true
	case []any:
		bv, ok := b.([]any)
		if !ok || len(av) != len(bv) {
			return false
		}
		for i := range av {
			if !Equal(av[i], bv[i]) {
				return false
			}
		}
		return true
	default:
		return reflect.DeepEqual(a, b)
	}
}

// tabsChanged compares only the fields that require a card/subscription
// rebuild. Style-only configuration updates never pass through here, so
// recoloring the strip leaves cards and subscriptions alone.
func tabsChanged(old, next []TabSpec) bool {
	if len(old) != len(next) {
		return true
	}
	for i := range old {
		if old[i].Title != next[i].Title || old[i].Icon != next[i].Icon {
			return true
		}
		if !Equal(old[i].Card, next[i].Card) {
			return true
		}
		if !slices.Equal(old[i].Conditions, next[i].Conditions) {
			return true
		}
	}
	return false
}
