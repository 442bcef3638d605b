package core

import (
	"errors"
	"reflect"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
)

// TemplateService is the host's asynchronous template-evaluation channel.
// Subscribe registers an expression and returns an unsubscribe func. The
// service may deliver zero, one, or many results over the subscription's
// lifetime, in arbitrary order relative to other subscriptions — but
// never synchronously from within Subscribe itself.
type TemplateService interface {
	Subscribe(expression string, fn func(result any)) (func() error, error)
}

// subscriptionSet owns the live template subscriptions for the applied
// tabs sequence. All methods are called with the deck lock held; results
// are routed back through the deck, tagged with the generation they were
// subscribed under so stale deliveries can be discarded.
type subscriptionSet struct {
	svc     TemplateService
	log     logrus.FieldLogger
	gen     uint64
	active  bool
	cancels []func() error
}

// subscribeAll replaces any prior subscription set with one subscription
// per template condition across the given tabs. Establishment fans out as
// independent tasks awaited together; individual subscribe failures are
// joined into the returned error but do not abort the rest.
func (s *subscriptionSet) subscribeAll(tabs []TabSpec, fn func(gen uint64, key condKey, result any)) error {
	s.unsubscribeAll()
	s.gen++
	s.active = true
	if s.svc == nil {
		return nil
	}
	gen := s.gen

	type target struct {
		key  condKey
		expr string
	}
	var targets []target
	for ti, tab := range tabs {
		for ci, c := range tab.Conditions {
			if c.Kind == TemplateCondition {
				targets = append(targets, target{key: condKey{tab: ti, cond: ci}, expr: c.Template})
			}
		}
	}

	cancels := make([]func() error, len(targets))
	errs := make([]error, len(targets))
	var wg sync.WaitGroup
	for i, tg := range targets {
		wg.Add(1)
		go func(i int, tg target) {
			defer wg.Done()
			key := tg.key
			cancels[i], errs[i] = s.svc.Subscribe(tg.expr, func(result any) {
				fn(gen, key, result)
			})
		}(i, tg)
	}
	wg.Wait()

	for _, cancel := range cancels {
		if cancel != nil {
			s.cancels = append(s.cancels, cancel)
		}
	}
	return errors.Join(errs...)
}

// unsubscribeAll releases every handle. Idempotent; a failing release is
// logged and the remaining handles are still released.
func (s *subscriptionSet) unsubscribeAll() {
	for _, cancel := range s.cancels {
		if err := cancel(); err != nil {
			s.log.WithError(err).Warn("template unsubscribe failed")
		}
	}
	s.cancels = nil
	s.active = false
}

// normalizeResult coerces a delivered template result to a boolean.
// Strings are truthy unless empty or "false" after trimming and
// lowercasing, so "true" and any other non-empty string count as true.
// This permissive policy is intentional: hosts deliver locale- and
// type-variable results.
func normalizeResult(v any) bool {
	switch tv := v.(type) {
	case nil:
		return false
	case bool:
		return tv
	case string:
		s := strings.ToLower(strings.TrimSpace(tv))
		return s != "" && s != "false"
	case int:
		return tv != 0
	case int64:
		return tv != 0
	case float64:
		return tv != 0
	default:
		return !reflect.ValueOf(v).IsZero()
	}
}
