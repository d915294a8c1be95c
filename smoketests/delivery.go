package smoketests

import (
	"time"
)

// DoDeliveryScenario is the core smoke test: start broker, subscriber, and publisher
// in that order, let them interact for the observation window, terminate them in
// reverse-of-dependency order (producer first, so no new messages arrive after the
// subscriber is asked to stop), and check the subscriber's output for evidence that
// at least one message was delivered.
func DoDeliveryScenario(t *T) {
	topo := t.env.Topology

	broker := t.launch(topo.Broker)
	t.awaitStartup(broker, topo.Broker)

	subscriber := t.launch(topo.Subscriber)
	t.awaitStartup(subscriber, topo.Subscriber)

	t.launch(topo.Publisher)

	t.Debug("all processes running; observing for %s", topo.Observe)
	time.Sleep(topo.Observe)

	for i := len(t.procs) - 1; i >= 0; i-- {
		t.procs[i].Stop(topo.Grace)
	}

	out, err := subscriber.Collect(topo.CollectTimeout)
	if err != nil {
		t.Errorf("collecting subscriber output: %s", err)
	}

	verdict := EvaluateVerdict(out.Stdout)
	if !verdict.Delivered {
		t.Errorf("subscriber did not report receiving any messages (no %q in its output)\n"+
			"Subscriber STDOUT:\n%s\nSubscriber STDERR:\n%s",
			DeliveryMarker, out.Stdout, out.Stderr)
		return
	}

	if verdict.HasSummary {
		t.Debug("subscriber summary: %d frames, %d bytes",
			verdict.Summary.FramesReceived, verdict.Summary.BytesReceived)
	}
}
