package engine

import (
	"regexp"
	"strings"
)

// Urgency keyword sets scanned independently of category patterns. Tier
// order is fixed so keyword hits come out in a deterministic order.
var urgencyTiers = []struct {
	tier     string
	keywords []string
}{
	{"critical", []string{"crash", "fatal", "exception", "error", "failed"}},
	{"warning", []string{"warning", "deprecated", "timeout", "retry"}},
	{"info", []string{"info", "debug", "trace", "log"}},
}

const keywordContextSize = 50

var (
	functionRe   = regexp.MustCompile(`(\w+\.\w+|\w+)\s*\(`)
	sourceFileRe = regexp.MustCompile(`([^/\\]+\.(?:dart|java|swift|kt))`)
	funcNameRe   = regexp.MustCompile(`(\w+)\s*\(`)
)

var errorLineMarkers = []string{"error", "exception", "crash", "failed"}

// signals is everything the extractor pulls out of one event's text. It is
// an intermediate value; the engine folds it into the finding.
type signals struct {
	patternHits   map[string][]PatternHit
	keywordHits   []KeywordHit
	stackDepth    int
	topFunctions  []string
	errorLocation ErrorLocation
}

// criticalKeywordCount counts distinct critical-tier keywords found.
func (s *signals) criticalKeywordCount() int {
	seen := map[string]bool{}
	for _, hit := range s.keywordHits {
		if hit.Tier == "critical" {
			seen[hit.Keyword] = true
		}
	}
	return len(seen)
}

// extractSignals scans the event text against every rule's patterns and the
// fixed urgency keyword sets. A single line may contribute to multiple
// categories; there is no early exit. Pure function of its inputs.
func extractSignals(event Event, rb *RuleBase) signals {
	sig := signals{
		patternHits: make(map[string][]PatternHit),
		stackDepth:  len(event.TextLines),
	}
	if len(event.TextLines) == 0 {
		return sig
	}

	text := strings.Join(event.TextLines, "\n")

	for _, r := range rb.rules {
		for _, re := range r.patterns {
			matches := re.FindAllString(text, -1)
			if len(matches) == 0 {
				continue
			}
			sig.patternHits[r.def.Category] = append(sig.patternHits[r.def.Category], PatternHit{
				Category: r.def.Category,
				Pattern:  re.String(),
				Matches:  matches,
			})
		}
	}

	lower := strings.ToLower(text)
	for _, tier := range urgencyTiers {
		for _, keyword := range tier.keywords {
			if !strings.Contains(lower, keyword) {
				continue
			}
			sig.keywordHits = append(sig.keywordHits, KeywordHit{
				Tier:    tier.tier,
				Keyword: keyword,
				Context: keywordContext(text, keyword),
			})
		}
	}

	sig.topFunctions = topFunctions(event.TextLines, 5)
	sig.errorLocation = findErrorLocation(event.TextLines)

	return sig
}

// keywordContext returns up to ±keywordContextSize characters around the
// first occurrence of keyword, for diagnostics.
func keywordContext(text, keyword string) string {
	index := strings.Index(strings.ToLower(text), keyword)
	if index < 0 {
		return ""
	}
	start := index - keywordContextSize
	if start < 0 {
		start = 0
	}
	end := index + len(keyword) + keywordContextSize
	if end > len(text) {
		end = len(text)
	}
	return strings.TrimSpace(text[start:end])
}

// topFunctions pulls the first function-looking tokens from the trace.
func topFunctions(lines []string, limit int) []string {
	var functions []string
	for _, line := range lines {
		if m := functionRe.FindStringSubmatch(line); m != nil {
			functions = append(functions, m[1])
			if len(functions) == limit {
				break
			}
		}
	}
	return functions
}

// findErrorLocation returns the first trace line that carries an error
// marker, with file and function extracted when present.
func findErrorLocation(lines []string) ErrorLocation {
	for i, line := range lines {
		lower := strings.ToLower(line)
		for _, marker := range errorLineMarkers {
			if !strings.Contains(lower, marker) {
				continue
			}
			loc := ErrorLocation{LineNumber: i + 1, Content: line}
			if m := sourceFileRe.FindStringSubmatch(line); m != nil {
				loc.File = m[1]
			}
			if m := funcNameRe.FindStringSubmatch(line); m != nil {
				loc.Function = m[1]
			}
			return loc
		}
	}
	return ErrorLocation{}
}
