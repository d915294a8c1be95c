package framework

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scenarioID(path ...string) ScenarioID { return ScenarioID{Path: path} }

func TestRegexFiltersWithNoPatternsAllowEverything(t *testing.T) {
	var f RegexFilters
	assert.True(t, f.AsFilter(scenarioID("anything")))
}

func TestRegexFiltersMustMatch(t *testing.T) {
	var f RegexFilters
	require.NoError(t, f.MustMatch.Set("delivery"))
	assert.True(t, f.AsFilter(scenarioID("end-to-end delivery")))
	assert.False(t, f.AsFilter(scenarioID("something else")))
}

func TestRegexFiltersMustNotMatch(t *testing.T) {
	var f RegexFilters
	require.NoError(t, f.MustNotMatch.Set("slow"))
	assert.True(t, f.AsFilter(scenarioID("fast scenario")))
	assert.False(t, f.AsFilter(scenarioID("slow scenario")))
}

func TestRegexFiltersCombined(t *testing.T) {
	var f RegexFilters
	require.NoError(t, f.MustMatch.Set("^delivery/"))
	require.NoError(t, f.MustNotMatch.Set("large"))
	assert.True(t, f.AsFilter(scenarioID("delivery", "small")))
	assert.False(t, f.AsFilter(scenarioID("delivery", "large")))
	assert.False(t, f.AsFilter(scenarioID("other", "small")))
}

func TestRegexListRejectsInvalidPattern(t *testing.T) {
	var l RegexList
	assert.Error(t, l.Set("("))
}
