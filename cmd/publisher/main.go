// Command publisher emits simulated camera frames to the broker at a fixed rate
// until it receives SIGTERM or SIGINT.
package main

import (
	"context"
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
	sensorID := flag.String("sensor", "Camera_01", "sensor id to publish as")
	interval := flag.Duration("interval", 33*time.Millisecond, "time between frames")
	flag.Parse()

	pub, err := wire.DialPublisher(*brokerAddr, dialTimeout)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to connect to broker: %s\n", err)
		os.Exit(1)
	}
	defer pub.Close()
	fmt.Printf("Publisher connected to %s\n", *brokerAddr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	camera := frames.NewSimulatedCamera(*sensorID)
	ticker := time.NewTicker(*interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			fmt.Printf("Total messages sent: %d\n", pub.Sent())
			fmt.Println("Publisher shutting down.")
			return
		case <-ticker.C:
			frame := camera.Generate()
			if err := pub.Publish(frame); err != nil {
				fmt.Fprintf(os.Stderr, "Failed to publish frame %d: %s\n", frame.FrameID, err)
				os.Exit(1)
			}
			if frame.FrameID%30 == 0 {
				fmt.Printf("Published frame ID: %d sensor: %s | total sent: %d\n",
					frame.FrameID, frame.SensorID, pub.Sent())
			}
		}
	}
}
