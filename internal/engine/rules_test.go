package engine

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadRuleBaseCompilesPatterns(t *testing.T) {
	rb, err := LoadRuleBase([]RuleDefinition{
		{
			Category:         "network",
			TextPatterns:     []string{`SocketException`, `Connection.*failed`},
			BaseImpactWeight: 55,
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, rb.Len())
	assert.Equal(t, []string{"network"}, rb.Categories())
}

func TestLoadRuleBaseRejectsBadPattern(t *testing.T) {
	_, err := LoadRuleBase([]RuleDefinition{
		{Category: "broken", TextPatterns: []string{`([`}},
	})
	require.Error(t, err)

	var rbErr *RuleBaseError
	require.ErrorAs(t, err, &rbErr)
	assert.Equal(t, "broken", rbErr.Category)
}

func TestLoadRuleBaseRejectsNonAscendingThresholds(t *testing.T) {
	_, err := LoadRuleBase([]RuleDefinition{
		{
			Category: "startup_time",
			MetricRule: &MetricRule{
				Metric:     "startup_time",
				Excellent:  3.0,
				Acceptable: 3.0,
				Critical:   5.0,
				Direction:  HigherIsWorse,
			},
		},
	})
	var rbErr *RuleBaseError
	require.ErrorAs(t, err, &rbErr)
	assert.Equal(t, "startup_time", rbErr.Category)
}

func TestLoadRuleBaseRejectsWrongOrderForLowerIsWorse(t *testing.T) {
	_, err := LoadRuleBase([]RuleDefinition{
		{
			Category: "ui_rendering",
			MetricRule: &MetricRule{
				Metric:     "ui_fps",
				Excellent:  30,
				Acceptable: 45,
				Critical:   60,
				Direction:  LowerIsWorse,
			},
		},
	})
	require.Error(t, err)
}

func TestLoadRuleBaseRejectsBadDirection(t *testing.T) {
	_, err := LoadRuleBase([]RuleDefinition{
		{
			Category: "startup_time",
			MetricRule: &MetricRule{
				Metric:     "startup_time",
				Excellent:  2,
				Acceptable: 3,
				Critical:   5,
				Direction:  Direction("sideways"),
			},
		},
	})
	require.Error(t, err)
}

func TestLoadRuleBaseRejectsDuplicateCategory(t *testing.T) {
	_, err := LoadRuleBase([]RuleDefinition{
		{Category: "network"},
		{Category: "network"},
	})
	require.Error(t, err)
}

func TestLoadRuleBaseRejectsEmptyCategory(t *testing.T) {
	_, err := LoadRuleBase([]RuleDefinition{{Category: ""}})
	require.Error(t, err)
}

func TestLoadRuleBaseRejectsWeightOutOfRange(t *testing.T) {
	_, err := LoadRuleBase([]RuleDefinition{{Category: "x", BaseImpactWeight: 101}})
	require.Error(t, err)
}

func TestDefaultRuleBase(t *testing.T) {
	rb := DefaultRuleBase()
	require.GreaterOrEqual(t, rb.Len(), 10)

	// The high blast-radius set drives the immediate-hotfix rule.
	for _, category := range []string{"image_loading", "memory", "native_plugin", "app_framework"} {
		assert.True(t, rb.HighImpact(category), category)
	}
	assert.False(t, rb.HighImpact("network"))
	assert.False(t, rb.HighImpact(CategoryUnknown))
}

func TestMetricRuleZones(t *testing.T) {
	higher := &MetricRule{Metric: "startup_time", Excellent: 2, Acceptable: 3, Critical: 5, Direction: HigherIsWorse}
	assert.Equal(t, zoneNone, higher.zone(1.5))
	assert.Equal(t, zoneNone, higher.zone(2.0)) // exactly on a threshold is the better zone
	assert.Equal(t, zoneModerate, higher.zone(2.5))
	assert.Equal(t, zoneDegraded, higher.zone(4.0))
	assert.Equal(t, zoneCritical, higher.zone(6.0))

	lower := &MetricRule{Metric: "ui_fps", Excellent: 60, Acceptable: 50, Critical: 30, Direction: LowerIsWorse}
	assert.Equal(t, zoneNone, lower.zone(60))
	assert.Equal(t, zoneModerate, lower.zone(55))
	assert.Equal(t, zoneDegraded, lower.zone(40))
	assert.Equal(t, zoneCritical, lower.zone(25))
}

func TestLoadRuleBaseFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rules.yaml")

	content := `
rules:
  - category: network
    text_patterns:
      - 'SocketException'
    metric_rule:
      metric: network_latency_ms
      excellent: 200
      acceptable: 500
      critical: 1000
      direction: higher_is_worse
    base_impact_weight: 55
    root_causes:
      - Poor network connectivity
    actions:
      - priority: high
        action: Add network connectivity checks
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	rb, err := LoadRuleBaseFile(path)
	require.NoError(t, err)
	require.Equal(t, 1, rb.Len())

	def := rb.Rules()[0]
	assert.Equal(t, "network", def.Category)
	require.NotNil(t, def.MetricRule)
	assert.Equal(t, HigherIsWorse, def.MetricRule.Direction)
	require.Len(t, def.Actions, 1)
	assert.Equal(t, PriorityHigh, def.Actions[0].Priority)
}

func TestLoadRuleBaseFileMissing(t *testing.T) {
	_, err := LoadRuleBaseFile(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestLoadRuleBaseFileEmpty(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rules.yaml")
	require.NoError(t, os.WriteFile(path, []byte("rules: []\n"), 0o600))

	_, err := LoadRuleBaseFile(path)
	require.Error(t, err)
}
