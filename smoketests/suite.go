package smoketests

import (
	"github.com/sensorstreamkit/pubsub-smoke-tests/framework"
)

// RunTestSuite runs the smoke-test scenarios against the given environment and
// returns the aggregate results.
func RunTestSuite(
	env Environment,
	filter framework.Filter,
	scenarioLogger framework.ScenarioLogger,
) framework.Results {
	return framework.Run(filter, scenarioLogger, func(c *framework.Context) {
		t := newScenarioScope(c, env)
		t.Run("end-to-end delivery", DoDeliveryScenario)
	})
}
