// Command broker routes frames from publishers to subscribers. It prints a ready
// line once its listener is bound and runs until it receives SIGTERM or SIGINT.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sensorstreamkit/pubsub-smoke-tests/internal/wire"
)

const shutdownTimeout = 2 * time.Second

func main() {
	listenAddr := flag.String("listen", "127.0.0.1:5555", "address to listen on")
	flag.Parse()

	logger := log.New(os.Stderr, "", log.LstdFlags)

	broker, err := wire.NewBroker(logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create broker: %s\n", err)
		os.Exit(1)
	}
	if err := broker.Start(*listenAddr); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to start broker: %s\n", err)
		os.Exit(1)
	}
	fmt.Printf("Broker listening on %s (publish=%s subscribe=%s)\n",
		broker.Addr(), wire.PublishPath, wire.SubscribePath)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	fmt.Println("Broker shutting down.")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := broker.Shutdown(shutdownCtx); err != nil {
		fmt.Fprintf(os.Stderr, "Shutdown error: %s\n", err)
	}
}
