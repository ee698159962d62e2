package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfidenceUnknownBase(t *testing.T) {
	got := confidenceScore(CategoryUnknown, nil, signals{}, nil)
	assert.InDelta(t, 0.3, got, 1e-9)
}

func TestConfidenceUnknownWithDeepTrace(t *testing.T) {
	got := confidenceScore(CategoryUnknown, nil, signals{stackDepth: 6}, nil)
	assert.InDelta(t, 0.4, got, 1e-9)
}

func TestConfidenceKnownCategory(t *testing.T) {
	rb := DefaultRuleBase()
	r := rb.lookup("network")

	got := confidenceScore("network", r, signals{}, nil)
	assert.InDelta(t, 0.9, got, 1e-9)
}

func TestConfidenceWithoutSpecificCauses(t *testing.T) {
	rb := mustRuleBase(t, []RuleDefinition{
		{Category: "bare", TextPatterns: []string{`bare`}},
	})

	got := confidenceScore("bare", rb.lookup("bare"), signals{}, nil)
	assert.InDelta(t, 0.7, got, 1e-9)
}

func TestConfidenceMonotonicInCorroboration(t *testing.T) {
	rb := DefaultRuleBase()
	r := rb.lookup("memory")

	base := confidenceScore("memory", r, signals{}, nil)
	withDepth := confidenceScore("memory", r, signals{stackDepth: 10}, nil)
	withEnv := confidenceScore("memory", r, signals{stackDepth: 10}, []string{signalLowMemoryDevice})

	assert.GreaterOrEqual(t, withDepth, base)
	assert.GreaterOrEqual(t, withEnv, withDepth)
}

func TestConfidenceClampedAtOne(t *testing.T) {
	rb := DefaultRuleBase()
	r := rb.lookup("memory")

	got := confidenceScore("memory", r, signals{stackDepth: 20},
		[]string{signalLowMemoryDevice, signalOldAndroidOS})
	assert.InDelta(t, 1.0, got, 1e-9)
}
