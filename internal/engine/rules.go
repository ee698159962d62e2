package engine

import (
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"
)

// Direction states which way a metric degrades.
type Direction string

const (
	HigherIsWorse Direction = "higher_is_worse"
	LowerIsWorse  Direction = "lower_is_worse"
)

// highImpactWeight marks a category as high blast radius. Categories at or
// above this weight get the flat severity bonus and can trigger the
// immediate-hotfix recommendation.
const highImpactWeight = 70

// Environment risk floors. OS versions below the floor count as old.
const (
	androidVersionFloor = 8.0
	iosVersionFloor     = 13.0
	lowMemoryFloorGB    = 2.0
)

// MetricRule maps a metric value onto quality zones. Thresholds must be
// strictly ordered in the worse direction: excellent < acceptable < critical
// for higher_is_worse, reversed for lower_is_worse.
type MetricRule struct {
	Metric     string    `yaml:"metric" json:"metric"`
	Excellent  float64   `yaml:"excellent" json:"excellent"`
	Acceptable float64   `yaml:"acceptable" json:"acceptable"`
	Critical   float64   `yaml:"critical" json:"critical"`
	Direction  Direction `yaml:"direction" json:"direction"`
}

// metricZone is how far past its thresholds a metric value sits.
type metricZone int

const (
	zoneNone     metricZone = iota // within excellent
	zoneModerate                   // worse than excellent
	zoneDegraded                   // worse than acceptable; counts as a category hit
	zoneCritical                   // worse than critical
)

// zone returns the quality zone for a value. Values exactly on a threshold
// belong to the better zone.
func (r *MetricRule) zone(value float64) metricZone {
	worse := func(v, threshold float64) bool {
		if r.Direction == LowerIsWorse {
			return v < threshold
		}
		return v > threshold
	}
	switch {
	case worse(value, r.Critical):
		return zoneCritical
	case worse(value, r.Acceptable):
		return zoneDegraded
	case worse(value, r.Excellent):
		return zoneModerate
	}
	return zoneNone
}

// RuleDefinition is one category's static classification rule.
type RuleDefinition struct {
	Category           string           `yaml:"category" json:"category"`
	TextPatterns       []string         `yaml:"text_patterns" json:"text_patterns,omitempty"`
	MetricRule         *MetricRule      `yaml:"metric_rule" json:"metric_rule,omitempty"`
	BaseImpactWeight   int              `yaml:"base_impact_weight" json:"base_impact_weight"`
	RootCauses         []string         `yaml:"root_causes" json:"root_causes,omitempty"`
	Actions            []Recommendation `yaml:"actions" json:"actions,omitempty"`
	InvestigationSteps []string         `yaml:"investigation_steps" json:"investigation_steps,omitempty"`
}

// RuleBaseError reports a malformed rule definition. Rule-base construction
// is the only fallible engine operation; a partial rule base never runs.
type RuleBaseError struct {
	Category string
	Reason   string
	Err      error
}

func (e *RuleBaseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("rule base: category %q: %s: %v", e.Category, e.Reason, e.Err)
	}
	return fmt.Sprintf("rule base: category %q: %s", e.Category, e.Reason)
}

func (e *RuleBaseError) Unwrap() error { return e.Err }

// rule is a RuleDefinition with its patterns compiled.
type rule struct {
	def      RuleDefinition
	patterns []*regexp.Regexp
}

// RuleBase is the immutable catalog of category rules. Construct once via
// LoadRuleBase and share freely; it is never mutated after construction, so
// concurrent evaluations need no locking.
type RuleBase struct {
	rules      []*rule
	byCategory map[string]*rule
}

// LoadRuleBase compiles and validates rule definitions. Declaration order is
// preserved and used as the final resolver tie-break.
func LoadRuleBase(defs []RuleDefinition) (*RuleBase, error) {
	rb := &RuleBase{
		byCategory: make(map[string]*rule, len(defs)),
	}

	for _, def := range defs {
		if def.Category == "" {
			return nil, &RuleBaseError{Category: def.Category, Reason: "category must not be empty"}
		}
		if _, dup := rb.byCategory[def.Category]; dup {
			return nil, &RuleBaseError{Category: def.Category, Reason: "duplicate category"}
		}
		if def.BaseImpactWeight < 0 || def.BaseImpactWeight > 100 {
			return nil, &RuleBaseError{Category: def.Category, Reason: "base_impact_weight must be in [0,100]"}
		}

		r := &rule{def: def}
		for _, p := range def.TextPatterns {
			re, err := regexp.Compile("(?i)" + p)
			if err != nil {
				return nil, &RuleBaseError{
					Category: def.Category,
					Reason:   fmt.Sprintf("pattern %q does not compile", p),
					Err:      err,
				}
			}
			r.patterns = append(r.patterns, re)
		}

		if mr := def.MetricRule; mr != nil {
			if mr.Metric == "" {
				return nil, &RuleBaseError{Category: def.Category, Reason: "metric_rule.metric must not be empty"}
			}
			switch mr.Direction {
			case HigherIsWorse:
				if !(mr.Excellent < mr.Acceptable && mr.Acceptable < mr.Critical) {
					return nil, &RuleBaseError{
						Category: def.Category,
						Reason:   "metric thresholds must be strictly ascending for higher_is_worse",
					}
				}
			case LowerIsWorse:
				if !(mr.Excellent > mr.Acceptable && mr.Acceptable > mr.Critical) {
					return nil, &RuleBaseError{
						Category: def.Category,
						Reason:   "metric thresholds must be strictly descending for lower_is_worse",
					}
				}
			default:
				return nil, &RuleBaseError{
					Category: def.Category,
					Reason:   fmt.Sprintf("metric_rule.direction %q is not valid", mr.Direction),
				}
			}
		}

		rb.rules = append(rb.rules, r)
		rb.byCategory[def.Category] = r
	}

	return rb, nil
}

// ruleFile is the on-disk YAML shape for a rule base.
type ruleFile struct {
	Rules []RuleDefinition `yaml:"rules"`
}

// LoadRuleBaseFile reads a YAML rule catalog from disk.
func LoadRuleBaseFile(path string) (*RuleBase, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read rule file: %w", err)
	}

	var file ruleFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse rule file: %w", err)
	}
	if len(file.Rules) == 0 {
		return nil, fmt.Errorf("rule file %s defines no rules", path)
	}

	return LoadRuleBase(file.Rules)
}

// DefaultRuleBase compiles the built-in catalog. The catalog is covered by
// tests, so a compilation failure here is a programming error.
func DefaultRuleBase() *RuleBase {
	rb, err := LoadRuleBase(DefaultRules())
	if err != nil {
		panic(err)
	}
	return rb
}

// Categories lists rule categories in declaration order.
func (rb *RuleBase) Categories() []string {
	out := make([]string, 0, len(rb.rules))
	for _, r := range rb.rules {
		out = append(out, r.def.Category)
	}
	return out
}

// Rules returns a copy of the rule definitions in declaration order.
func (rb *RuleBase) Rules() []RuleDefinition {
	out := make([]RuleDefinition, 0, len(rb.rules))
	for _, r := range rb.rules {
		out = append(out, r.def)
	}
	return out
}

// Len reports the number of rules in the catalog.
func (rb *RuleBase) Len() int { return len(rb.rules) }

// HighImpact reports whether a category is in the high blast-radius set.
func (rb *RuleBase) HighImpact(category string) bool {
	r, ok := rb.byCategory[category]
	return ok && r.def.BaseImpactWeight >= highImpactWeight
}

func (rb *RuleBase) lookup(category string) *rule {
	return rb.byCategory[category]
}
