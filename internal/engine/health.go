package engine

// severityWeights is the inverse-severity weighting for the aggregate health
// score. Critical carries zero weight, which would let critical-heavy inputs
// vanish from the average entirely, so ScoreHealth short-circuits on any
// critical finding instead.
var severityWeights = map[Severity]float64{
	SeverityCritical: 0.0,
	SeverityHigh:     0.3,
	SeverityMedium:   0.6,
	SeverityLow:      0.8,
}

// ScoreHealth reduces a collection of findings to one normalized health
// score in [0,1]. No findings means no signal, which scores as perfect
// health. Any critical finding forces the score to zero.
func ScoreHealth(findings []Finding) float64 {
	if len(findings) == 0 {
		return 1.0
	}

	for _, f := range findings {
		if f.Severity == SeverityCritical {
			return 0.0
		}
	}

	var totalWeight, weighted float64
	for _, f := range findings {
		weight := severityWeights[f.Severity]
		totalWeight += weight
		weighted += weight * f.ImpactScore
	}
	if totalWeight == 0 {
		return 1.0
	}

	return clamp01(weighted / totalWeight)
}
