package smoketests

import (
	"path/filepath"
	"regexp"
	"time"

	"github.com/sensorstreamkit/pubsub-smoke-tests/procman"
)

// DefaultBinDir is where the build places the fixture executables.
const DefaultBinDir = "./build/examples"

var (
	brokerReadyPattern     = regexp.MustCompile(`Broker listening on`)
	subscriberReadyPattern = regexp.MustCompile(`Subscription established`)
)

// Topology describes the three collaborator programs and the timing constants of a
// smoke-test run. The publisher has no ready pattern: it is expected to begin
// emitting immediately, so nothing waits on it.
type Topology struct {
	Broker     procman.Program
	Subscriber procman.Program
	Publisher  procman.Program

	// StartupWait is the fixed delay inserted after launching the broker and the
	// subscriber when ready-line waiting is disabled (or a program has no ready
	// pattern). Shortening it reproduces the false-failure timing sensitivity
	// inherent to fixed-delay synchronization.
	StartupWait time.Duration

	// Observe is how long the three processes are left to interact.
	Observe time.Duration

	// ReadyTimeout bounds the wait for a program's ready line; zero disables
	// ready-line waiting entirely, restoring pure fixed-delay synchronization.
	ReadyTimeout time.Duration

	// Grace is how long a process gets to exit after SIGTERM before it is killed.
	Grace time.Duration

	// CollectTimeout bounds the final blocking read of the subscriber's streams.
	CollectTimeout time.Duration
}

func DefaultTopology(binDir string) Topology {
	return Topology{
		Broker: procman.Program{
			Name:         "broker",
			Path:         filepath.Join(binDir, "broker"),
			ReadyPattern: brokerReadyPattern,
		},
		Subscriber: procman.Program{
			Name:         "subscriber",
			Path:         filepath.Join(binDir, "subscriber"),
			ReadyPattern: subscriberReadyPattern,
		},
		Publisher: procman.Program{
			Name: "publisher",
			Path: filepath.Join(binDir, "publisher"),
		},
		StartupWait:    time.Second,
		Observe:        5 * time.Second,
		ReadyTimeout:   10 * time.Second,
		Grace:          2 * time.Second,
		CollectTimeout: 5 * time.Second,
	}
}
