package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"

	"github.com/sensorstreamkit/pubsub-smoke-tests/framework"
)

var (
	failColor = color.New(color.FgRed, color.Bold)
	skipColor = color.New(color.FgYellow)
)

// ConsoleScenarioLogger reports scenario progress on stdout, optionally replaying
// the captured per-scenario debug output.
type ConsoleScenarioLogger struct {
	DebugOutputOnFailure bool
	DebugOutputOnSuccess bool
}

func (c *ConsoleScenarioLogger) ScenarioStarted(id framework.ScenarioID) {
	fmt.Printf("[%s]\n", id)
}

func (c *ConsoleScenarioLogger) ScenarioError(id framework.ScenarioID, err error) {
	for _, line := range strings.Split(err.Error(), "\n") {
		fmt.Printf("  %s\n", line)
	}
}

func (c *ConsoleScenarioLogger) ScenarioFinished(id framework.ScenarioID, failed bool, debugOutput framework.CapturedOutput) {
	if failed {
		failColor.Printf("  FAILED: %s\n", id)
	}
	if len(debugOutput) > 0 &&
		((failed && c.DebugOutputOnFailure) || (!failed && c.DebugOutputOnSuccess)) {
		debugOutput.Dump(os.Stdout, "    DEBUG ")
	}
}

func (c *ConsoleScenarioLogger) ScenarioSkipped(id framework.ScenarioID, reason string) {
	if reason == "" {
		skipColor.Printf("  SKIPPED: %s\n", id)
	} else {
		skipColor.Printf("  SKIPPED: %s (%s)\n", id, reason)
	}
}
