// Package wire implements the websocket pub/sub transport used by the fixture
// programs: a broker that forwards frames from publishers to subscribers, and the
// client ends that the publisher and subscriber programs dial it with.
package wire

import (
	"context"
	"fmt"
	"net"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/sensorstreamkit/pubsub-smoke-tests/framework"
	"github.com/sensorstreamkit/pubsub-smoke-tests/internal/frames"
)

const (
	PublishPath   = "/publish"
	SubscribePath = "/subscribe"
)

// Broker accepts publisher connections on /publish and subscriber connections on
// /subscribe, validating every inbound frame before fanning it out. It also serves
// /healthz and Prometheus metrics on /metrics.
type Broker struct {
	hub       *Hub
	validator *frames.Validator
	upgrader  websocket.Upgrader
	logger    framework.Logger

	registry        *prometheus.Registry
	framesForwarded prometheus.Counter
	framesRejected  prometheus.Counter

	listener net.Listener
	server   *http.Server
}

func NewBroker(logger framework.Logger) (*Broker, error) {
	if logger == nil {
		logger = framework.NullLogger()
	}
	validator, err := frames.NewValidator()
	if err != nil {
		return nil, err
	}

	registry := prometheus.NewRegistry()
	framesForwarded := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "broker_frames_forwarded_total",
		Help: "Number of frames accepted from publishers and fanned out to subscribers.",
	})
	framesRejected := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "broker_frames_rejected_total",
		Help: "Number of inbound messages rejected by schema validation.",
	})
	registry.MustRegister(framesForwarded, framesRejected)

	return &Broker{
		hub:             NewHub(logger),
		validator:       validator,
		logger:          logger,
		registry:        registry,
		framesForwarded: framesForwarded,
		framesRejected:  framesRejected,
	}, nil
}

// Start binds the listener and begins serving in the background. Use Addr to learn
// the bound address when addr requests an ephemeral port.
func (b *Broker) Start(addr string) error {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("binding broker listener: %w", err)
	}
	b.listener = listener

	mux := http.NewServeMux()
	mux.HandleFunc(PublishPath, b.servePublish)
	mux.HandleFunc(SubscribePath, b.serveSubscribe)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	mux.Handle("/metrics", promhttp.HandlerFor(b.registry, promhttp.HandlerOpts{}))

	b.server = &http.Server{Handler: mux}
	go func() {
		if err := b.server.Serve(listener); err != nil && err != http.ErrServerClosed {
			b.logger.Printf("broker server stopped: %s", err)
		}
	}()
	return nil
}

func (b *Broker) Addr() string {
	if b.listener == nil {
		return ""
	}
	return b.listener.Addr().String()
}

func (b *Broker) Shutdown(ctx context.Context) error {
	if b.server == nil {
		return nil
	}
	return b.server.Shutdown(ctx)
}

func (b *Broker) servePublish(w http.ResponseWriter, r *http.Request) {
	conn, err := b.upgrader.Upgrade(w, r, nil)
	if err != nil {
		b.logger.Printf("publisher upgrade failed: %s", err)
		return
	}
	b.logger.Printf("publisher connected from %s", conn.RemoteAddr())
	defer conn.Close()

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			b.logger.Printf("publisher %s closed: %s", conn.RemoteAddr(), err)
			return
		}
		if err := b.validator.Validate(message); err != nil {
			b.framesRejected.Inc()
			b.logger.Printf("rejected frame from %s: %s", conn.RemoteAddr(), err)
			continue
		}
		b.hub.Broadcast(message)
		b.framesForwarded.Inc()
	}
}

func (b *Broker) serveSubscribe(w http.ResponseWriter, r *http.Request) {
	conn, err := b.upgrader.Upgrade(w, r, nil)
	if err != nil {
		b.logger.Printf("subscriber upgrade failed: %s", err)
		return
	}
	b.hub.Add(conn)
	defer b.hub.Remove(conn)

	// Subscribers never send data; this read loop only watches for the close.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
