package core

import (
	"fmt"
	"strings"
)

// ConditionKind discriminates the two condition variants. All evaluation
// and subscription code switches exhaustively on it.
type ConditionKind int

const (
	// StateCondition is satisfied when an entity's state equals an
	// expected value in the latest snapshot.
	StateCondition ConditionKind = iota
	// TemplateCondition is satisfied when the most recent asynchronous
	// template result for its slot normalized to true.
	TemplateCondition
)

// Condition gates a tab's visibility. Exactly one variant is populated.
type Condition struct {
	Kind     ConditionKind
	Entity   string
	State    string
	Template string
}

// Alignment positions the tab strip within the available width.
type Alignment int

const (
	AlignCenter Alignment = iota
	AlignStart
	AlignEnd
)

// StyleOverrides carries the optional color overrides from the
// configuration document. Empty strings mean "use the theme default".
type StyleOverrides struct {
	TabColor          string
	SelectedTabColor  string
	TextColor         string
	SelectedTextColor string
	BackgroundColor   string
	FadeColor         string
}

// TabSpec is one configured tab. Immutable once part of an applied
// configuration; a new configuration replaces specs wholesale.
type TabSpec struct {
	Title      string
	Icon       string
	Card       any
	Conditions []Condition
}

// Config is a validated tab-deck configuration.
type Config struct {
	Tabs    []TabSpec
	Preload bool
	Align   Alignment
	Styles  StyleOverrides
}

// ParseConfig validates and decodes a raw configuration document (a
// decoded YAML/JSON mapping). Shape failures reject the whole document;
// the caller's active configuration is left untouched on error.
//
// Accepted spellings: "pre-load" (canonical) or "preload"; tabs without a
// "conditions" key are the legacy always-visible shape.
func ParseConfig(raw map[string]any) (Config, error) {
	if raw == nil {
		return Config{}, fmt.Errorf("configuration is required")
	}
	tabsRaw, ok := raw["tabs"]
	if !ok {
		return Config{}, fmt.Errorf("configuration: tabs is required")
	}
	list, ok := tabsRaw.([]any)
	if !ok {
		return Config{}, fmt.Errorf("configuration: tabs must be a list")
	}
	if len(list) == 0 {
		return Config{}, fmt.Errorf("configuration: tabs must not be empty")
	}

	cfg := Config{Align: AlignCenter}
	for i, item := range list {
		m, ok := item.(map[string]any)
		if !ok {
			return Config{}, fmt.Errorf("tabs[%d]: must be a mapping", i)
		}
		spec := TabSpec{
			Title: strings.TrimSpace(stringField(m, "title")),
			Icon:  strings.TrimSpace(stringField(m, "icon")),
			Card:  m["card"],
		}
		if spec.Title == "" {
			return Config{}, fmt.Errorf("tabs[%d]: title is required", i)
		}
		conds, err := parseConditions(m["conditions"], i)
		if err != nil {
			return Config{}, err
		}
		spec.Conditions = conds
		cfg.Tabs = append(cfg.Tabs, spec)
	}

	cfg.Preload = boolField(m2(raw, "pre-load", "preload"))
	cfg.Align = parseAlignment(stringField(raw, "alignment"))
	cfg.Styles = StyleOverrides{
		TabColor:          stringField(raw, "tab-color"),
		SelectedTabColor:  stringField(raw, "selected-tab-color"),
		TextColor:         stringField(raw, "text-color"),
		SelectedTextColor: stringField(raw, "selected-text-color"),
		BackgroundColor:   stringField(raw, "background-color"),
		FadeColor:         stringField(raw, "fade-color"),
	}
	return cfg, nil
}

func parseConditions(raw any, tab int) ([]Condition, error) {
	if raw == nil {
		return nil, nil
	}
	list, ok := raw.([]any)
	if !ok {
		return nil, fmt.Errorf("tabs[%d]: conditions must be a list", tab)
	}
	out := make([]Condition, 0, len(list))
	for ci, item := range list {
		m, ok := item.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("tabs[%d].conditions[%d]: must be a mapping", tab, ci)
		}
		if tmplExpr := stringField(m, "template"); tmplExpr != "" {
			out = append(out, Condition{Kind: TemplateCondition, Template: tmplExpr})
			continue
		}
		entity := stringField(m, "entity")
		if entity == "" {
			return nil, fmt.Errorf("tabs[%d].conditions[%d]: needs entity or template", tab, ci)
		}
		out = append(out, Condition{
			Kind:   StateCondition,
			Entity: entity,
			State:  stringField(m, "state"),
		})
	}
	return out, nil
}

func parseAlignment(s string) Alignment {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "start":
		return AlignStart
	case "end":
		return AlignEnd
	default:
		return AlignCenter
	}
}

func stringField(m map[string]any, key string) string {
	if v, ok := m[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

func boolField(v any) bool {
	switch tv := v.(type) {
	case bool:
		return tv
	case string:
		return strings.EqualFold(strings.TrimSpace(tv), "true")
	default:
		return false
	}
}

func m2(m map[string]any, key, alt string) any {
	if v, ok := m[key]; ok {
		return v
	}
	return m[alt]
}
