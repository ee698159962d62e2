package engine

// metricBreach records how one category's metric rule judged an event value.
type metricBreach struct {
	category string
	metric   string
	value    float64
	zone     metricZone
}

// fired reports whether the breach counts as a category hit: the value must
// cross the acceptable threshold in the worse direction.
func (b metricBreach) fired() bool { return b.zone >= zoneDegraded }

// evaluateMetrics checks every rule's metric rule against the event's metric
// values, in declaration order. Metrics the event does not carry simply
// produce no breach.
func evaluateMetrics(event Event, rb *RuleBase) map[string]metricBreach {
	breaches := make(map[string]metricBreach)
	for _, r := range rb.rules {
		mr := r.def.MetricRule
		if mr == nil {
			continue
		}
		value, ok := event.Metrics[mr.Metric]
		if !ok {
			continue
		}
		zone := mr.zone(value)
		if zone == zoneNone {
			continue
		}
		breaches[r.def.Category] = metricBreach{
			category: r.def.Category,
			metric:   mr.Metric,
			value:    value,
			zone:     zone,
		}
	}
	return breaches
}

// resolveCategory reduces pattern and metric hits to the single primary
// category. The category with the strictly highest hit count wins; ties
// prefer a category whose metric rule fired over a text-only match, then
// earlier rule declaration order. No hits at all resolves to unknown.
func resolveCategory(sig signals, breaches map[string]metricBreach, rb *RuleBase) string {
	best := CategoryUnknown
	bestCount := 0
	bestMetricFired := false

	for _, r := range rb.rules {
		category := r.def.Category
		count := len(sig.patternHits[category])
		breach, ok := breaches[category]
		metricFired := ok && breach.fired()
		if metricFired {
			count++
		}
		if count == 0 {
			continue
		}

		switch {
		case count > bestCount:
			best, bestCount, bestMetricFired = category, count, metricFired
		case count == bestCount && metricFired && !bestMetricFired:
			best, bestMetricFired = category, true
		}
	}

	return best
}
