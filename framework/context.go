package framework

import (
	"errors"
	"fmt"
	"runtime/debug"
	"strings"
)

type environment struct {
	results        Results
	scenarioLogger ScenarioLogger
	filter         Filter
}

// Context tracks the state of a single scenario while it runs: accumulated errors,
// skip state, and a capturing debug logger whose output is reported at the end.
type Context struct {
	env         *environment
	id          ScenarioID
	debugLogger CapturingLogger
	failed      bool
	skipped     bool
	skipReason  string
	errors      []error
}

// Run executes a suite of scenarios and collects their results. The action normally
// just calls Context.Run for each top-level scenario.
func Run(
	filter Filter,
	scenarioLogger ScenarioLogger,
	action func(*Context),
) Results {
	if scenarioLogger == nil {
		scenarioLogger = nullScenarioLogger{}
	}
	env := &environment{
		filter:         filter,
		scenarioLogger: scenarioLogger,
	}
	c := &Context{env: env}
	c.run(action)
	return env.results
}

func (c *Context) run(action func(*Context)) {
	defer func() {
		if r := recover(); r != nil {
			if c.skipped {
				return
			}
			c.failed = true
			var addError error
			if _, ok := r.(*Context); ok {
				// FailNow panics with the context itself; the errors are already recorded
				if len(c.errors) == 0 {
					addError = errors.New("scenario failed with no failure message")
				}
			} else {
				addError = fmt.Errorf("unexpected panic in scenario: %+v\n%s", r, string(debug.Stack()))
			}
			if addError != nil {
				c.errors = append(c.errors, addError)
				c.env.scenarioLogger.ScenarioError(c.id, addError)
			}
		}
		result := ScenarioResult{ID: c.id, Errors: c.errors}
		c.env.results.Scenarios = append(c.env.results.Scenarios, result)
		if c.failed {
			c.env.results.Failures = append(c.env.results.Failures, result)
		}
	}()

	action(c)
}

func (c *Context) ID() ScenarioID {
	return c.id
}

// Run runs a sub-scenario with its own Context, applying the suite filter.
func (c *Context) Run(name string, action func(*Context)) {
	id := ScenarioID{Path: append(append([]string(nil), c.id.Path...), name)}

	c.env.scenarioLogger.ScenarioStarted(id)
	if c.env.filter != nil && !c.env.filter(id) {
		c.env.scenarioLogger.ScenarioSkipped(id, "excluded by filter parameters")
		return
	}
	c1 := &Context{
		id:  id,
		env: c.env,
	}
	c1.run(action)
	if c1.skipped {
		c.env.scenarioLogger.ScenarioSkipped(id, c1.skipReason)
	} else {
		c.env.scenarioLogger.ScenarioFinished(id, c1.failed, c1.debugLogger.Output())
	}
}

// Errorf records a failure without stopping the scenario.
func (c *Context) Errorf(format string, args ...interface{}) {
	c.failed = true
	err := fmt.Errorf(format, args...)
	c.errors = append(c.errors, err)
	c.env.scenarioLogger.ScenarioError(c.id, reformatError(err))
}

// FailNow aborts the scenario immediately. Any errors should already have been
// recorded with Errorf; the require package calls Errorf before FailNow.
func (c *Context) FailNow() {
	panic(c)
}

func (c *Context) Skip() {
	c.skipped = true
	panic(c)
}

func (c *Context) SkipWithReason(reason string) {
	c.skipReason = reason
	c.Skip()
}

func (c *Context) Debug(message string, args ...interface{}) {
	c.debugLogger.Printf(message, args...)
}

func (c *Context) DebugLogger() Logger {
	return &c.debugLogger
}

// reformatError strips trailing blank lines that testify's formatting tends to leave,
// so that console output stays compact.
func reformatError(err error) error {
	lines := strings.Split(err.Error(), "\n")
	for len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "" {
		lines = lines[:len(lines)-1]
	}
	return errors.New(strings.Join(lines, "\n"))
}
