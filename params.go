package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/sensorstreamkit/pubsub-smoke-tests/framework"
	"github.com/sensorstreamkit/pubsub-smoke-tests/smoketests"
)

type commandParams struct {
	binDir         string
	startupWait    time.Duration
	observe        time.Duration
	readyTimeout   time.Duration
	grace          time.Duration
	collectTimeout time.Duration
	filters        framework.RegexFilters
	debug          bool
	debugAll       bool
}

func (c *commandParams) Read(args []string) bool {
	fs := flag.NewFlagSet("", flag.ExitOnError)
	fs.StringVar(&c.binDir, "bin-dir", smoketests.DefaultBinDir,
		"directory containing the broker, subscriber, and publisher executables")
	fs.DurationVar(&c.startupWait, "startup-wait", time.Second,
		"fixed delay after launching each process when ready-line waiting is disabled")
	fs.DurationVar(&c.observe, "observe", 5*time.Second,
		"how long to let the processes interact")
	fs.DurationVar(&c.readyTimeout, "ready-timeout", 10*time.Second,
		"bound on waiting for a process's ready line (0 disables ready-line waiting)")
	fs.DurationVar(&c.grace, "grace", 2*time.Second,
		"time a process gets to exit after SIGTERM before being killed")
	fs.DurationVar(&c.collectTimeout, "collect-timeout", 5*time.Second,
		"bound on the final read of the subscriber's output")
	fs.Var(&c.filters.MustMatch, "run", "regex pattern(s) to select scenarios to run")
	fs.Var(&c.filters.MustNotMatch, "skip", "regex pattern(s) to select scenarios not to run")
	fs.BoolVar(&c.debug, "debug", false, "enable debug logging for failed scenarios")
	fs.BoolVar(&c.debugAll, "debug-all", false, "enable debug logging for all scenarios")

	if err := fs.Parse(args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		fs.Usage()
		return false
	}
	return true
}

func (c *commandParams) topology() smoketests.Topology {
	topo := smoketests.DefaultTopology(c.binDir)
	topo.StartupWait = c.startupWait
	topo.Observe = c.observe
	topo.ReadyTimeout = c.readyTimeout
	topo.Grace = c.grace
	topo.CollectTimeout = c.collectTimeout
	return topo
}
