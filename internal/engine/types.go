package engine

// Severity is the primary triage signal for a finding.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityHigh     Severity = "high"
	SeverityMedium   Severity = "medium"
	SeverityLow      Severity = "low"
)

// Priority orders recommended actions within a finding.
type Priority string

const (
	PriorityImmediate Priority = "immediate"
	PriorityHigh      Priority = "high"
	PriorityMedium    Priority = "medium"
	PriorityLow       Priority = "low"
)

// priorityRank is the sort order for recommendations. Unknown priorities
// sort last.
func priorityRank(p Priority) int {
	switch p {
	case PriorityImmediate:
		return 0
	case PriorityHigh:
		return 1
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 3
	}
	return 4
}

// CategoryUnknown is the resolved category when no rule produced a hit.
const CategoryUnknown = "unknown"

// Event is one normalized occurrence (crash trace or metric snapshot)
// submitted for classification. Events are immutable inputs; the engine
// never retains them.
type Event struct {
	ID               string             `json:"id"`
	TextLines        []string           `json:"text_lines,omitempty"`
	Metrics          map[string]float64 `json:"metrics,omitempty"`
	AffectedUsers    int                `json:"affected_users"`
	AffectedSessions int                `json:"affected_sessions"`
	Environment      map[string]string  `json:"environment,omitempty"`
}

// PatternHit records one rule pattern matching the event text.
type PatternHit struct {
	Category string   `json:"category"`
	Pattern  string   `json:"pattern"`
	Matches  []string `json:"matches"`
}

// KeywordHit records an urgency keyword found in the event text, with a
// short excerpt of surrounding text for diagnostics.
type KeywordHit struct {
	Tier    string `json:"tier"` // critical, warning, info
	Keyword string `json:"keyword"`
	Context string `json:"context"`
}

// ErrorLocation points at the first stack line carrying an error keyword.
type ErrorLocation struct {
	LineNumber int    `json:"line_number"` // 1-based, 0 when not found
	Content    string `json:"content"`
	File       string `json:"file"`
	Function   string `json:"function"`
}

// Recommendation is one remediation entry in priority order.
type Recommendation struct {
	Priority Priority `json:"priority" yaml:"priority"`
	Action   string   `json:"action" yaml:"action"`
	Detail   string   `json:"detail,omitempty" yaml:"detail,omitempty"`
	Type     string   `json:"type,omitempty" yaml:"type,omitempty"`
}

// Impact assesses business reach and remediation cost for a finding.
type Impact struct {
	UserImpact          string `json:"user_impact"`
	BusinessImpact      string `json:"business_impact"`
	TechnicalComplexity string `json:"technical_complexity"`
	EstimatedFixTime    string `json:"estimated_fix_time"`
	PriorityScore       int    `json:"priority_score"` // 0-100 triage urgency
}

// Finding is the engine's structured verdict on an Event. It is a value
// object; once returned it is never mutated by the engine.
type Finding struct {
	EventID            string           `json:"event_id"`
	Category           string           `json:"category"`
	Severity           Severity         `json:"severity"`
	Confidence         float64          `json:"confidence"`
	RootCauses         []string         `json:"root_causes"`
	Recommendations    []Recommendation `json:"recommendations"`
	ImpactScore        float64          `json:"impact_score"` // 0-1, higher is healthier
	InvestigationSteps []string         `json:"investigation_steps,omitempty"`
	Impact             Impact           `json:"impact"`
	PatternHits        []PatternHit     `json:"pattern_hits,omitempty"`
	KeywordHits        []KeywordHit     `json:"keyword_hits,omitempty"`
	EnvSignals         []string         `json:"env_signals,omitempty"`
	TopFunctions       []string         `json:"top_functions,omitempty"`
	ErrorLocation      ErrorLocation    `json:"error_location"`
}
