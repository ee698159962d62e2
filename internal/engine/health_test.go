package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScoreHealthNoFindings(t *testing.T) {
	assert.InDelta(t, 1.0, ScoreHealth(nil), 1e-9)
	assert.InDelta(t, 1.0, ScoreHealth([]Finding{}), 1e-9)
}

func TestScoreHealthSingleLowFinding(t *testing.T) {
	findings := []Finding{
		{Severity: SeverityLow, ImpactScore: 0.9},
	}
	assert.InDelta(t, 0.9, ScoreHealth(findings), 1e-9)
}

func TestScoreHealthAnyCriticalIsZero(t *testing.T) {
	findings := []Finding{
		{Severity: SeverityLow, ImpactScore: 0.9},
		{Severity: SeverityCritical, ImpactScore: 0.1},
		{Severity: SeverityMedium, ImpactScore: 0.5},
	}
	assert.Zero(t, ScoreHealth(findings))
}

func TestScoreHealthWeightedAverage(t *testing.T) {
	findings := []Finding{
		{Severity: SeverityHigh, ImpactScore: 0.4},
		{Severity: SeverityMedium, ImpactScore: 0.7},
	}
	// (0.3*0.4 + 0.6*0.7) / (0.3 + 0.6)
	assert.InDelta(t, 0.6, ScoreHealth(findings), 1e-9)
}

func TestScoreHealthWorseFindingsLowerTheScore(t *testing.T) {
	mild := []Finding{{Severity: SeverityLow, ImpactScore: 0.9}}
	worse := []Finding{
		{Severity: SeverityLow, ImpactScore: 0.9},
		{Severity: SeverityHigh, ImpactScore: 0.3},
	}
	assert.Less(t, ScoreHealth(worse), ScoreHealth(mild))
}

func TestScoreHealthBounded(t *testing.T) {
	findings := []Finding{
		{Severity: SeverityLow, ImpactScore: 1.0},
		{Severity: SeverityHigh, ImpactScore: 0.0},
	}
	score := ScoreHealth(findings)
	assert.GreaterOrEqual(t, score, 0.0)
	assert.LessOrEqual(t, score, 1.0)
}
