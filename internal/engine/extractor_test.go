package engine

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractSignalsCaseInsensitive(t *testing.T) {
	rb := DefaultRuleBase()
	sig := extractSignals(Event{TextLines: []string{"SOCKETEXCEPTION thrown during sync"}}, rb)

	require.Len(t, sig.patternHits["network"], 1)
	assert.Equal(t, []string{"SOCKETEXCEPTION"}, sig.patternHits["network"][0].Matches)
}

func TestExtractSignalsMultipleCategories(t *testing.T) {
	rb := DefaultRuleBase()
	sig := extractSignals(Event{TextLines: []string{
		"SocketException: connection reset",
		"OutOfMemoryError while buffering response",
	}}, rb)

	assert.NotEmpty(t, sig.patternHits["network"])
	assert.NotEmpty(t, sig.patternHits["memory"])
}

func TestExtractSignalsKeywordTiers(t *testing.T) {
	rb := DefaultRuleBase()
	sig := extractSignals(Event{TextLines: []string{
		"Fatal exception after request timeout",
	}}, rb)

	tiers := map[string]string{}
	for _, hit := range sig.keywordHits {
		tiers[hit.Keyword] = hit.Tier
	}
	assert.Equal(t, "critical", tiers["fatal"])
	assert.Equal(t, "critical", tiers["exception"])
	assert.Equal(t, "warning", tiers["timeout"])
	assert.Equal(t, 2, sig.criticalKeywordCount())
}

func TestKeywordContextBounded(t *testing.T) {
	prefix := strings.Repeat("a", 200)
	suffix := strings.Repeat("b", 200)
	text := prefix + " fatal " + suffix

	context := keywordContext(text, "fatal")
	assert.Contains(t, context, "fatal")
	assert.LessOrEqual(t, len(context), 2*keywordContextSize+len("fatal"))
}

func TestKeywordContextShortText(t *testing.T) {
	assert.Equal(t, "fatal: disk died", keywordContext("fatal: disk died", "fatal"))
}

func TestExtractSignalsEmptyEvent(t *testing.T) {
	rb := DefaultRuleBase()
	sig := extractSignals(Event{}, rb)

	assert.Empty(t, sig.patternHits)
	assert.Empty(t, sig.keywordHits)
	assert.Zero(t, sig.stackDepth)
}

func TestTopFunctions(t *testing.T) {
	lines := []string{
		"#0      ImageCache.putIfAbsent (package:flutter/src/painting/image_cache.dart:160)",
		"no function on this line",
		"#1      NetworkImage._loadAsync (package:flutter/src/painting/image_provider.dart:329)",
	}

	functions := topFunctions(lines, 5)
	require.Len(t, functions, 2)
	assert.Equal(t, "ImageCache.putIfAbsent", functions[0])
}

func TestTopFunctionsLimit(t *testing.T) {
	lines := []string{"a(", "b(", "c(", "d(", "e(", "f("}
	assert.Len(t, topFunctions(lines, 5), 5)
}

func TestFindErrorLocation(t *testing.T) {
	lines := []string{
		"#0      Widget.render (widget_tree.dart:10)",
		"Error: failed to build (main.dart:5)",
	}

	loc := findErrorLocation(lines)
	assert.Equal(t, 2, loc.LineNumber)
	assert.Equal(t, "main.dart", loc.File)
	assert.Equal(t, "build", loc.Function)
}

func TestFindErrorLocationAbsent(t *testing.T) {
	loc := findErrorLocation([]string{"all quiet", "nothing to see"})
	assert.Zero(t, loc.LineNumber)
	assert.Empty(t, loc.File)
}
