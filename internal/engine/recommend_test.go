package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRankRecommendationsPriorityOrder(t *testing.T) {
	rb := DefaultRuleBase()
	recs := rankRecommendations("network", rb.lookup("network"), SeverityHigh, nil, rb)

	require.NotEmpty(t, recs)
	for i := 1; i < len(recs); i++ {
		assert.LessOrEqual(t,
			priorityRank(recs[i-1].Priority),
			priorityRank(recs[i].Priority),
			"recommendation %d out of order", i)
	}
}

func TestRankRecommendationsHotfixOnlyWhenCriticalAndHighImpact(t *testing.T) {
	rb := DefaultRuleBase()

	recs := rankRecommendations("memory", rb.lookup("memory"), SeverityCritical, nil, rb)
	require.NotEmpty(t, recs)
	assert.Equal(t, hotfixRecommendation, recs[0])

	// High severity in a high-impact category is not enough.
	recs = rankRecommendations("memory", rb.lookup("memory"), SeverityHigh, nil, rb)
	assert.NotEqual(t, PriorityImmediate, recs[0].Priority)

	// Critical severity in a lower-impact category is not enough either.
	recs = rankRecommendations("network", rb.lookup("network"), SeverityCritical, nil, rb)
	assert.NotEqual(t, PriorityImmediate, recs[0].Priority)
}

func TestRankRecommendationsDedupesByActionText(t *testing.T) {
	rb := mustRuleBase(t, []RuleDefinition{
		{
			Category: "dup",
			Actions: []Recommendation{
				{Priority: PriorityHigh, Action: "Update dependencies to latest stable versions", Type: "maintenance"},
			},
		},
	})

	recs := rankRecommendations("dup", rb.lookup("dup"), SeverityLow, nil, rb)

	var count int
	for _, rec := range recs {
		if rec.Action == "Update dependencies to latest stable versions" {
			count++
			// First occurrence wins, so the rule's high priority sticks.
			assert.Equal(t, PriorityHigh, rec.Priority)
		}
	}
	assert.Equal(t, 1, count)
}

func TestRankRecommendationsSupplementalByRootCause(t *testing.T) {
	rb := DefaultRuleBase()
	causes := []string{"Network timeout or connection issues during image download"}

	recs := rankRecommendations("image_loading", rb.lookup("image_loading"), SeverityMedium, causes, rb)

	actions := make([]string, 0, len(recs))
	for _, rec := range recs {
		actions = append(actions, rec.Action)
	}
	assert.Contains(t, actions, "Audit image cache size and eviction policy")
	assert.Contains(t, actions, "Review and tune timeout configuration")
	assert.NotContains(t, actions, "Schedule a heap profiling session on affected devices")
}

func TestRankRecommendationsBaselinesAlwaysPresent(t *testing.T) {
	rb := DefaultRuleBase()
	recs := rankRecommendations(CategoryUnknown, nil, SeverityLow, nil, rb)

	require.Len(t, recs, 2)
	assert.Equal(t, "Add comprehensive crash logging", recs[0].Action)
	assert.Equal(t, "Update dependencies to latest stable versions", recs[1].Action)
}

func TestRankRecommendationsStableWithinPriority(t *testing.T) {
	rb := DefaultRuleBase()
	recs := rankRecommendations("image_loading", rb.lookup("image_loading"), SeverityMedium, nil, rb)

	// The rule's two high-priority actions keep their declaration order.
	var highs []string
	for _, rec := range recs {
		if rec.Priority == PriorityHigh {
			highs = append(highs, rec.Action)
		}
	}
	require.GreaterOrEqual(t, len(highs), 2)
	assert.Equal(t, "Implement robust image error handling", highs[0])
	assert.Equal(t, "Validate image URLs and data", highs[1])
}
