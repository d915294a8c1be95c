package smoketests

import (
	"strings"

	"github.com/sensorstreamkit/pubsub-smoke-tests/internal/frames"
)

// DeliveryMarker is the literal substring whose presence in the subscriber's stdout
// is the success criterion: the subscriber prints one such line per received frame.
const DeliveryMarker = "Received frame"

// Verdict is the outcome derived from the subscriber's captured output. Delivered is
// the binary pass/fail; the summary, when the subscriber printed one, adds a
// machine-readable received count but never overrides the marker check.
type Verdict struct {
	Delivered  bool
	HasSummary bool
	Summary    frames.Summary
}

func EvaluateVerdict(subscriberStdout string) Verdict {
	v := Verdict{
		Delivered: strings.Contains(subscriberStdout, DeliveryMarker),
	}
	for _, line := range strings.Split(subscriberStdout, "\n") {
		if summary, ok := frames.ParseSummaryLine(line); ok {
			v.HasSummary = true
			v.Summary = summary
		}
	}
	return v
}
