package framework

// ScenarioLogger receives progress events as the suite runs. The console
// implementation lives in the main package; a null implementation is used when no
// reporting is wanted, such as in tests of the framework itself.
type ScenarioLogger interface {
	ScenarioStarted(id ScenarioID)
	ScenarioError(id ScenarioID, err error)
	ScenarioFinished(id ScenarioID, failed bool, debugOutput CapturedOutput)
	ScenarioSkipped(id ScenarioID, reason string)
}

type nullScenarioLogger struct{}

func (n nullScenarioLogger) ScenarioStarted(ScenarioID)                        {}
func (n nullScenarioLogger) ScenarioError(ScenarioID, error)                   {}
func (n nullScenarioLogger) ScenarioFinished(ScenarioID, bool, CapturedOutput) {}
func (n nullScenarioLogger) ScenarioSkipped(ScenarioID, string)                {}
