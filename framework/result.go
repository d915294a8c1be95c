package framework

import (
	"strings"
)

// ScenarioID identifies a scenario or sub-scenario by its path within the suite.
type ScenarioID struct {
	Path []string
}

func (s ScenarioID) String() string {
	return strings.Join(s.Path, "/")
}

type ScenarioResult struct {
	ID      ScenarioID
	Errors  []error
	Skipped bool
}

// Results is the aggregate outcome of a suite run. Failures is the subset of Scenarios
// that recorded at least one error.
type Results struct {
	Scenarios []ScenarioResult
	Failures  []ScenarioResult
}

func (r Results) OK() bool {
	return len(r.Failures) == 0
}
