package engine

import (
	"regexp"
	"strings"
)

// Severity point mapping. Population reach and category blast radius
// dominate; environment and keyword signals are secondary nudges.
const (
	severityCriticalFloor = 80
	severityHighFloor     = 60
	severityMediumFloor   = 40

	criticalKeywordPoints = 15
	criticalKeywordCap    = 45

	highImpactBonus = 25

	lowMemoryPoints = 10
	oldOSPoints     = 5
)

// Environment signal names.
const (
	signalLowMemoryDevice = "low_memory_device"
	signalOldAndroidOS    = "old_android_version"
	signalOldIOSVersion   = "old_ios_version"
)

var versionNumberRe = regexp.MustCompile(`(\d+(?:\.\d+)?)`)

var (
	androidMarkers = []string{"android", "samsung", "huawei", "xiaomi", "oneplus"}
	iosMarkers     = []string{"ios", "iphone", "ipad", "apple"}
)

// environmentSignals derives risk flags from free-form environment tags.
// Parse failures mean the signal is absent, never an error.
func environmentSignals(env map[string]string) []string {
	var signalsOut []string

	platform := strings.ToLower(env["platform"])
	osVersion, osOK := parseLeadingNumber(env["os_version"])
	switch {
	case osOK && matchesAny(platform, androidMarkers) && osVersion < androidVersionFloor:
		signalsOut = append(signalsOut, signalOldAndroidOS)
	case osOK && matchesAny(platform, iosMarkers) && osVersion < iosVersionFloor:
		signalsOut = append(signalsOut, signalOldIOSVersion)
	}

	if mem, ok := parseLeadingNumber(env["memory"]); ok {
		if strings.Contains(strings.ToLower(env["memory"]), "gb") && mem < lowMemoryFloorGB {
			signalsOut = append(signalsOut, signalLowMemoryDevice)
		}
	}

	return signalsOut
}

func matchesAny(s string, markers []string) bool {
	for _, m := range markers {
		if strings.Contains(s, m) {
			return true
		}
	}
	return false
}

// parseLeadingNumber extracts the first numeric token from a free-form
// string like "Android 12" or "1.5GB".
func parseLeadingNumber(s string) (float64, bool) {
	m := versionNumberRe.FindString(s)
	if m == "" {
		return 0, false
	}
	v, ok := parseFloat(m)
	return v, ok
}

func hasSignal(signalsOut []string, name string) bool {
	for _, s := range signalsOut {
		if s == name {
			return true
		}
	}
	return false
}

// populationPoints maps affected-user reach onto severity points.
func populationPoints(affectedUsers int) int {
	switch {
	case affectedUsers >= 1000:
		return 40
	case affectedUsers >= 100:
		return 30
	case affectedUsers >= 10:
		return 20
	case affectedUsers >= 1:
		return 10
	}
	return 0
}

// metricZonePoints converts the resolved category's metric breach into
// severity points.
func metricZonePoints(zone metricZone) int {
	switch zone {
	case zoneCritical:
		return 60
	case zoneDegraded:
		return 40
	case zoneModerate:
		return 20
	}
	return 0
}

// severityPoints computes the additive severity score. Stateless: identical
// inputs always produce identical points.
func severityPoints(event Event, sig signals, category string, breach metricBreach, envSignals []string, rb *RuleBase) int {
	points := populationPoints(event.AffectedUsers)

	keywordPoints := sig.criticalKeywordCount() * criticalKeywordPoints
	if keywordPoints > criticalKeywordCap {
		keywordPoints = criticalKeywordCap
	}
	points += keywordPoints

	if r := rb.lookup(category); r != nil {
		if r.def.BaseImpactWeight >= highImpactWeight {
			points += highImpactBonus
		} else {
			points += r.def.BaseImpactWeight / 4
		}
	}

	if hasSignal(envSignals, signalLowMemoryDevice) {
		points += lowMemoryPoints
	}
	if hasSignal(envSignals, signalOldAndroidOS) || hasSignal(envSignals, signalOldIOSVersion) {
		points += oldOSPoints
	}

	if breach.category == category {
		points += metricZonePoints(breach.zone)
	}

	return points
}

// severityTier maps the point total onto the four severity tiers.
func severityTier(points int) Severity {
	switch {
	case points >= severityCriticalFloor:
		return SeverityCritical
	case points >= severityHighFloor:
		return SeverityHigh
	case points >= severityMediumFloor:
		return SeverityMedium
	}
	return SeverityLow
}

// impactScore normalizes severity points into [0,1]; higher is healthier.
func impactScore(points int) float64 {
	return clamp01(1.0 - float64(points)/100.0)
}

// Categories whose fixes tend to cross into native or framework territory.
var complexCategories = map[string]bool{
	"native_plugin": true,
	"app_framework": true,
	"memory":        true,
}

var moderateCategories = map[string]bool{
	"image_loading": true,
	"ui_rendering":  true,
}

// fixTimeEstimates is severity x complexity.
var fixTimeEstimates = map[Severity]map[string]string{
	SeverityCritical: {"high": "2-4 days", "medium": "1-2 days", "low": "4-8 hours"},
	SeverityHigh:     {"high": "1-3 days", "medium": "4-8 hours", "low": "2-4 hours"},
	SeverityMedium:   {"high": "4-8 hours", "medium": "2-4 hours", "low": "1-2 hours"},
	SeverityLow:      {"high": "2-4 hours", "medium": "1-2 hours", "low": "30-60 minutes"},
}

// assessImpact derives the business-facing impact block for a finding.
func assessImpact(event Event, category string, severity Severity, rb *RuleBase) Impact {
	var userImpact string
	switch {
	case event.AffectedUsers >= 1000:
		userImpact = "critical"
	case event.AffectedUsers >= 100:
		userImpact = "high"
	case event.AffectedUsers >= 10:
		userImpact = "medium"
	default:
		userImpact = "low"
	}

	var businessImpact string
	switch {
	case rb.HighImpact(category) && (severity == SeverityCritical || severity == SeverityHigh):
		businessImpact = "critical"
	case severity == SeverityCritical || severity == SeverityHigh:
		businessImpact = "high"
	case severity == SeverityMedium:
		businessImpact = "medium"
	default:
		businessImpact = "low"
	}

	var complexity string
	switch {
	case complexCategories[category]:
		complexity = "high"
	case moderateCategories[category]:
		complexity = "medium"
	default:
		complexity = "low"
	}

	fixTime := fixTimeEstimates[severity][complexity]
	if fixTime == "" {
		fixTime = "unknown"
	}

	return Impact{
		UserImpact:          userImpact,
		BusinessImpact:      businessImpact,
		TechnicalComplexity: complexity,
		EstimatedFixTime:    fixTime,
		PriorityScore:       priorityScore(event.AffectedUsers, severity, businessImpact),
	}
}

// priorityScore is the 0-100 triage urgency combining reach, severity and
// business impact.
func priorityScore(affectedUsers int, severity Severity, businessImpact string) int {
	score := 10
	switch {
	case affectedUsers >= 1000:
		score = 40
	case affectedUsers >= 100:
		score = 30
	case affectedUsers >= 10:
		score = 20
	}

	severityScores := map[Severity]int{
		SeverityCritical: 30,
		SeverityHigh:     20,
		SeverityMedium:   10,
		SeverityLow:      5,
	}
	score += severityScores[severity]

	impactScores := map[string]int{"critical": 30, "high": 20, "medium": 10, "low": 5}
	score += impactScores[businessImpact]

	if score > 100 {
		score = 100
	}
	return score
}
