package engine

// Confidence contributions. Confidence is informational only; it never gates
// whether a finding is produced.
const (
	confidenceBase        = 0.5
	confidenceUnknownBase = 0.3

	confidenceCategoryBonus  = 0.2
	confidenceSpecificBonus  = 0.2
	confidenceDeepTraceBonus = 0.1
	confidenceEnvBonus       = 0.05

	deepTraceLines = 5
)

// confidenceScore derives a 0-1 trust value from signal strength. More
// corroborating signals never lower the score; the result is clamped to
// [0,1]. An unresolved event bottoms out at the unknown base.
func confidenceScore(category string, r *rule, sig signals, envSignals []string) float64 {
	var confidence float64
	if category == CategoryUnknown {
		confidence = confidenceUnknownBase
	} else {
		confidence = confidenceBase + confidenceCategoryBonus
		if r != nil && len(r.def.RootCauses) > 0 {
			confidence += confidenceSpecificBonus
		}
	}

	if sig.stackDepth > deepTraceLines {
		confidence += confidenceDeepTraceBonus
	}
	for range envSignals {
		confidence += confidenceEnvBonus
	}

	return clamp01(confidence)
}
