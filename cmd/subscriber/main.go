// Command subscriber receives frames from the broker, printing one "Received frame"
// line per message and a machine-readable summary at shutdown. Its stdout is the
// evidence the smoke-test harness inspects.
package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sensorstreamkit/pubsub-smoke-tests/internal/frames"
	"github.com/sensorstreamkit/pubsub-smoke-tests/internal/wire"
)

const dialTimeout = 5 * time.Second

func main() {
	brokerAddr := flag.String("broker", "127.0.0.1:5555", "broker address")
	flag.Parse()

	fmt.Printf("Connecting to broker at %s...\n", *brokerAddr)
	sub, err := wire.DialSubscriber(*brokerAddr, dialTimeout)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to connect to broker: %s\n", err)
		os.Exit(1)
	}
	fmt.Printf("Subscription established to %s\n", *brokerAddr)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)

	var received int
	var totalBytes int64
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			data, err := sub.Receive()
			if err != nil {
				return
			}
			received++
			totalBytes += int64(len(data))
			fmt.Printf("Received frame #%d (%d bytes)\n", received, len(data))
		}
	}()

	select {
	case <-sig:
		// Closing the connection unblocks the receive loop.
		_ = sub.Close()
		<-done
	case <-done:
		// Broker went away first; report what was seen so far.
		_ = sub.Close()
	}

	fmt.Println(frames.Summary{FramesReceived: received, BytesReceived: totalBytes}.Line())
	fmt.Printf("Total frames received: %d\n", received)
}
