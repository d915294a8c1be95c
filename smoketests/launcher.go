package smoketests

import (
	"time"

	"github.com/sensorstreamkit/pubsub-smoke-tests/framework"
	"github.com/sensorstreamkit/pubsub-smoke-tests/procman"
)

// RunningProcess is the scenario-facing view of a launched program. procman.Process
// implements it; tests substitute fakes to verify ordering and cleanup without
// spawning real processes.
type RunningProcess interface {
	AwaitReady(timeout time.Duration) error
	Stop(grace time.Duration)
	Collect(timeout time.Duration) (procman.Output, error)
}

// Launcher starts external programs on behalf of scenarios.
type Launcher interface {
	Launch(program procman.Program, logger framework.Logger) (RunningProcess, error)
}

type processLauncher struct{}

// NewProcessLauncher returns the Launcher backed by real OS processes.
func NewProcessLauncher() Launcher { return processLauncher{} }

func (processLauncher) Launch(program procman.Program, logger framework.Logger) (RunningProcess, error) {
	return procman.Start(program, logger)
}
