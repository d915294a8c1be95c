// Package smoketests contains the end-to-end smoke-test scenarios for the pub/sub
// system: each scenario launches the external broker, subscriber, and publisher
// programs, observes them as black boxes, and derives a verdict from the subscriber's
// captured output.
package smoketests

import (
	"time"

	"github.com/sensorstreamkit/pubsub-smoke-tests/framework"
	"github.com/sensorstreamkit/pubsub-smoke-tests/procman"
)

// Environment is everything a scenario needs: the topology under test and the means
// of launching its programs.
type Environment struct {
	Topology Topology
	Launcher Launcher
}

// T represents a scenario or sub-scenario in the smoke-test suite.
//
// It implements the same basic functionality as Go's testing.T, but outside of the Go
// test runner, with per-scenario debug capture provided by the framework package. On
// top of that it tracks every process the scenario launched, guaranteeing that each
// one receives a termination request on every exit path, including failures partway
// through a launch sequence.
type T struct {
	context *framework.Context
	env     Environment
	procs   []RunningProcess
}

func newScenarioScope(context *framework.Context, env Environment) *T {
	return &T{context: context, env: env}
}

// close stops every launched process in reverse launch order. Processes a scenario
// already stopped are unaffected, since termination requests are idempotent.
func (t *T) close() {
	for i := len(t.procs) - 1; i >= 0; i-- {
		t.procs[i].Stop(t.env.Topology.Grace)
	}
}

// Run runs a sub-scenario with its own process scope.
func (t *T) Run(name string, action func(*T)) {
	t.context.Run(name, func(c *framework.Context) {
		t1 := newScenarioScope(c, t.env)
		defer t1.close()
		action(t1)
	})
}

// Errorf is called by assertions to record a failure. It does not cause an immediate exit.
func (t *T) Errorf(format string, args ...interface{}) {
	t.context.Errorf(format, args...)
}

// FailNow aborts the scenario immediately; launched processes are still stopped.
func (t *T) FailNow() {
	t.context.FailNow()
}

func (t *T) Debug(format string, args ...interface{}) {
	t.context.Debug(format, args...)
}

// launch starts one of the topology's programs and registers it for guaranteed
// termination. A launch failure (such as a missing executable) fails the scenario
// immediately rather than surfacing later as a missing-marker verdict.
func (t *T) launch(program procman.Program) RunningProcess {
	p, err := t.env.Launcher.Launch(program, t.context.DebugLogger())
	if err != nil {
		t.Errorf("failed to launch %s: %s", program.Name, err)
		t.FailNow()
	}
	t.procs = append(t.procs, p)
	return p
}

// awaitStartup gives a just-launched program time to finish its setup. With a ready
// pattern and a nonzero ready timeout this is an active bounded wait for the
// program's ready line; otherwise it is the fixed delay of the original design.
func (t *T) awaitStartup(p RunningProcess, program procman.Program) {
	if t.env.Topology.ReadyTimeout > 0 && program.ReadyPattern != nil {
		if err := p.AwaitReady(t.env.Topology.ReadyTimeout); err != nil {
			t.Errorf("%s", err)
			t.FailNow()
		}
		return
	}
	t.Debug("waiting %s for %s to start", t.env.Topology.StartupWait, program.Name)
	time.Sleep(t.env.Topology.StartupWait)
}
