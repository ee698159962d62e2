// Package engine classifies normalized failure signals (crash traces and
// performance metric snapshots) into structured findings: a category, a
// severity tier, a confidence value, ranked root causes and remediation
// actions. The engine is pure and stateless apart from the read-only rule
// base, so any number of events may be classified concurrently.
package engine

import (
	"sync"

	"go.uber.org/zap"
)

// Engine binds a rule base and a logger. The rule base is immutable after
// construction; Engine methods are safe for concurrent use.
type Engine struct {
	rules  *RuleBase
	logger *zap.Logger
}

// New creates an engine over the given rule base.
func New(rb *RuleBase, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{rules: rb, logger: logger}
}

// RuleBase exposes the engine's catalog for introspection endpoints.
func (e *Engine) RuleBase() *RuleBase { return e.rules }

// Classify evaluates one event and never fails: an event matching nothing
// degrades to the unknown category at low severity.
func (e *Engine) Classify(event Event) Finding {
	finding := Classify(event, e.rules)

	e.logger.Debug("event classified",
		zap.String("event_id", event.ID),
		zap.String("category", finding.Category),
		zap.String("severity", string(finding.Severity)),
		zap.Float64("confidence", finding.Confidence),
		zap.Int("priority_score", finding.Impact.PriorityScore),
	)

	return finding
}

// ClassifyAll evaluates a batch of events in order.
func (e *Engine) ClassifyAll(events []Event) []Finding {
	findings := make([]Finding, 0, len(events))
	for _, event := range events {
		findings = append(findings, e.Classify(event))
	}
	return findings
}

// ScoreHealth aggregates findings into one health score.
func (e *Engine) ScoreHealth(findings []Finding) float64 {
	score := ScoreHealth(findings)
	e.logger.Debug("health scored",
		zap.Int("findings", len(findings)),
		zap.Float64("score", score),
	)
	return score
}

// Classify is the core evaluation: extract signals, resolve the category,
// score severity and confidence, rank recommendations. Pure function of the
// event and rule base; identical inputs produce identical findings.
func Classify(event Event, rb *RuleBase) Finding {
	sig := extractSignals(event, rb)
	breaches := evaluateMetrics(event, rb)
	category := resolveCategory(sig, breaches, rb)
	envSignals := environmentSignals(event.Environment)

	r := rb.lookup(category)
	breach := breaches[category]

	// Severity and confidence share no mutable state and run in parallel.
	var (
		points     int
		confidence float64
		wg         sync.WaitGroup
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		points = severityPoints(event, sig, category, breach, envSignals, rb)
	}()
	go func() {
		defer wg.Done()
		confidence = confidenceScore(category, r, sig, envSignals)
	}()
	wg.Wait()

	severity := severityTier(points)

	rootCauses := genericRootCauses
	investigation := genericInvestigationSteps
	if r != nil {
		if len(r.def.RootCauses) > 0 {
			rootCauses = topCauses(r.def.RootCauses, 3)
		}
		if len(r.def.InvestigationSteps) > 0 {
			investigation = r.def.InvestigationSteps
		}
	}

	return Finding{
		EventID:            event.ID,
		Category:           category,
		Severity:           severity,
		Confidence:         round2(confidence),
		RootCauses:         rootCauses,
		Recommendations:    rankRecommendations(category, r, severity, rootCauses, rb),
		ImpactScore:        impactScore(points),
		InvestigationSteps: investigation,
		Impact:             assessImpact(event, category, severity, rb),
		PatternHits:        flattenPatternHits(sig, rb),
		KeywordHits:        sig.keywordHits,
		EnvSignals:         envSignals,
		TopFunctions:       sig.topFunctions,
		ErrorLocation:      sig.errorLocation,
	}
}

func topCauses(causes []string, limit int) []string {
	if len(causes) <= limit {
		return causes
	}
	return causes[:limit]
}

// flattenPatternHits orders hits by rule declaration so output is
// deterministic.
func flattenPatternHits(sig signals, rb *RuleBase) []PatternHit {
	var hits []PatternHit
	for _, r := range rb.rules {
		hits = append(hits, sig.patternHits[r.def.Category]...)
	}
	return hits
}
