package engine

import (
	"sort"
	"strings"
)

// hotfixRecommendation is prepended when aggregate business impact is
// critical: a critical-severity finding in a high-impact category.
var hotfixRecommendation = Recommendation{
	Priority: PriorityImmediate,
	Action:   "Deploy immediate hotfix",
	Detail:   "Critical business impact requires an expedited release",
	Type:     "deployment",
}

// rankRecommendations expands the resolved category into a deduplicated,
// priority-ordered action list. The two baseline actions always close the
// list, so it is never empty.
func rankRecommendations(category string, r *rule, severity Severity, rootCauses []string, rb *RuleBase) []Recommendation {
	var recs []Recommendation

	if severity == SeverityCritical && rb.HighImpact(category) {
		recs = append(recs, hotfixRecommendation)
	}

	if r != nil {
		recs = append(recs, r.def.Actions...)
	}

	causeText := strings.ToLower(strings.Join(rootCauses, " "))
	for _, keyword := range supplementalKeywords {
		if strings.Contains(causeText, keyword) {
			recs = append(recs, supplementalActions[keyword]...)
		}
	}

	recs = append(recs, baselineRecommendations()...)

	// Dedupe by exact action text, keeping the first occurrence.
	seen := make(map[string]bool, len(recs))
	deduped := recs[:0]
	for _, rec := range recs {
		if seen[rec.Action] {
			continue
		}
		seen[rec.Action] = true
		deduped = append(deduped, rec)
	}

	sort.SliceStable(deduped, func(i, j int) bool {
		return priorityRank(deduped[i].Priority) < priorityRank(deduped[j].Priority)
	})

	return deduped
}
