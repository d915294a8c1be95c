// Command pubsub-smoke-tests is a black-box end-to-end smoke test for the
// sensor-streaming pub/sub system. It launches the broker, subscriber, and publisher
// executables from the build output directory, lets them interact, and judges
// success by the subscriber's captured output, reporting the verdict via its exit
// status: 0 when the subscriber received messages, 1 otherwise.
package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"

	"github.com/sensorstreamkit/pubsub-smoke-tests/framework"
	"github.com/sensorstreamkit/pubsub-smoke-tests/smoketests"
)

func main() {
	var params commandParams
	if !params.Read(os.Args) {
		os.Exit(1)
	}

	topo := params.topology()

	fmt.Println("=== Starting Integration Test ===")
	fmt.Printf("Executables resolved in %s\n", params.binDir)
	fmt.Println()
	framework.PrintFilterDescription(os.Stdout, params.filters)

	scenarioLogger := &ConsoleScenarioLogger{
		DebugOutputOnFailure: params.debug || params.debugAll,
		DebugOutputOnSuccess: params.debugAll,
	}

	results := smoketests.RunTestSuite(
		smoketests.Environment{
			Topology: topo,
			Launcher: smoketests.NewProcessLauncher(),
		},
		params.filters.AsFilter,
		scenarioLogger,
	)

	fmt.Println()
	printResults(results)
	if !results.OK() {
		os.Exit(1)
	}
}

func printResults(results framework.Results) {
	if results.OK() {
		color.New(color.FgGreen, color.Bold).
			Println("SUCCESS: subscriber received messages from publisher via broker.")
		return
	}
	color.New(color.FgRed, color.Bold).
		Printf("FAILURE: %d scenario(s) failed:\n", len(results.Failures))
	for _, f := range results.Failures {
		fmt.Printf("  %s\n", f.ID)
	}
}
