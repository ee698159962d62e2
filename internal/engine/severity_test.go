package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPopulationPoints(t *testing.T) {
	cases := []struct {
		users int
		want  int
	}{
		{0, 0},
		{1, 10},
		{9, 10},
		{10, 20},
		{99, 20},
		{100, 30},
		{999, 30},
		{1000, 40},
		{50000, 40},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, populationPoints(tc.users), "users=%d", tc.users)
	}
}

func TestSeverityPointsKeywordCap(t *testing.T) {
	rb := DefaultRuleBase()
	sig := signals{keywordHits: []KeywordHit{
		{Tier: "critical", Keyword: "crash"},
		{Tier: "critical", Keyword: "fatal"},
		{Tier: "critical", Keyword: "exception"},
		{Tier: "critical", Keyword: "error"},
		{Tier: "critical", Keyword: "crash"}, // duplicate does not count twice
		{Tier: "warning", Keyword: "timeout"},
	}}

	points := severityPoints(Event{}, sig, CategoryUnknown, metricBreach{}, nil, rb)
	assert.Equal(t, criticalKeywordCap, points)
}

func TestSeverityPointsCategoryWeight(t *testing.T) {
	rb := DefaultRuleBase()

	// High-impact category gets the flat bonus.
	points := severityPoints(Event{}, signals{}, "memory", metricBreach{}, nil, rb)
	assert.Equal(t, highImpactBonus, points)

	// Others get a quarter of their weight.
	points = severityPoints(Event{}, signals{}, "network", metricBreach{}, nil, rb)
	assert.Equal(t, 55/4, points)
}

func TestSeverityPointsEnvironment(t *testing.T) {
	rb := DefaultRuleBase()

	points := severityPoints(Event{}, signals{}, CategoryUnknown, metricBreach{},
		[]string{signalLowMemoryDevice, signalOldAndroidOS}, rb)
	assert.Equal(t, lowMemoryPoints+oldOSPoints, points)
}

func TestSeverityPointsMetricZone(t *testing.T) {
	rb := DefaultRuleBase()
	breach := metricBreach{category: "memory", metric: "memory_usage_mb", value: 250, zone: zoneCritical}

	points := severityPoints(Event{}, signals{}, "memory", breach, nil, rb)
	assert.Equal(t, highImpactBonus+60, points)

	// A breach for a different category adds nothing.
	points = severityPoints(Event{}, signals{}, "network", breach, nil, rb)
	assert.Equal(t, 55/4, points)
}

func TestSeverityTierBoundaries(t *testing.T) {
	assert.Equal(t, SeverityLow, severityTier(39))
	assert.Equal(t, SeverityMedium, severityTier(40))
	assert.Equal(t, SeverityMedium, severityTier(59))
	assert.Equal(t, SeverityHigh, severityTier(60))
	assert.Equal(t, SeverityHigh, severityTier(79))
	assert.Equal(t, SeverityCritical, severityTier(80))
	assert.Equal(t, SeverityCritical, severityTier(200))
}

func TestImpactScoreClamped(t *testing.T) {
	assert.InDelta(t, 1.0, impactScore(0), 1e-9)
	assert.InDelta(t, 0.25, impactScore(75), 1e-9)
	assert.InDelta(t, 0.0, impactScore(150), 1e-9)
}

func TestEnvironmentSignals(t *testing.T) {
	cases := []struct {
		name string
		env  map[string]string
		want []string
	}{
		{
			name: "old android on low memory device",
			env:  map[string]string{"platform": "Samsung Galaxy S5", "os_version": "Android 7.1", "memory": "1.5GB"},
			want: []string{signalOldAndroidOS, signalLowMemoryDevice},
		},
		{
			name: "old ios",
			env:  map[string]string{"platform": "iPhone 6", "os_version": "iOS 12.4"},
			want: []string{signalOldIOSVersion},
		},
		{
			name: "modern android",
			env:  map[string]string{"platform": "android", "os_version": "13"},
			want: nil,
		},
		{
			name: "memory without gb unit is ignored",
			env:  map[string]string{"memory": "512MB"},
			want: nil,
		},
		{
			name: "unparseable version is absent",
			env:  map[string]string{"platform": "android", "os_version": "unknown"},
			want: nil,
		},
		{
			name: "empty environment",
			env:  nil,
			want: nil,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, environmentSignals(tc.env))
		})
	}
}

func TestAssessImpact(t *testing.T) {
	rb := DefaultRuleBase()

	impact := assessImpact(Event{AffectedUsers: 1000}, "memory", SeverityCritical, rb)
	assert.Equal(t, "critical", impact.UserImpact)
	assert.Equal(t, "critical", impact.BusinessImpact)
	assert.Equal(t, "high", impact.TechnicalComplexity)
	assert.Equal(t, "2-4 days", impact.EstimatedFixTime)
	assert.Equal(t, 100, impact.PriorityScore)

	impact = assessImpact(Event{AffectedUsers: 5}, "data_parsing", SeverityMedium, rb)
	assert.Equal(t, "low", impact.UserImpact)
	assert.Equal(t, "medium", impact.BusinessImpact)
	assert.Equal(t, "low", impact.TechnicalComplexity)
	assert.Equal(t, "1-2 hours", impact.EstimatedFixTime)
	assert.Equal(t, 10+10+10, impact.PriorityScore)
}
