package wire

import (
	"context"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sensorstreamkit/pubsub-smoke-tests/internal/frames"
)

func startTestBroker(t *testing.T) *Broker {
	t.Helper()
	broker, err := NewBroker(nil)
	require.NoError(t, err)
	require.NoError(t, broker.Start("127.0.0.1:0"))
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = broker.Shutdown(ctx)
	})
	return broker
}

func TestBrokerForwardsFramesToSubscriber(t *testing.T) {
	broker := startTestBroker(t)

	sub, err := DialSubscriber(broker.Addr(), 5*time.Second)
	require.NoError(t, err)
	defer sub.Close()

	pub, err := DialPublisher(broker.Addr(), 5*time.Second)
	require.NoError(t, err)
	defer pub.Close()

	// The broker registers the subscriber asynchronously with its HTTP handler, so
	// wait for the hub to see it before publishing.
	require.Eventually(t, func() bool { return broker.hub.Subscribers() == 1 },
		5*time.Second, 10*time.Millisecond)

	frame := frames.NewSimulatedCamera("Camera_01").Generate()
	require.NoError(t, pub.Publish(frame))

	received := make(chan []byte, 1)
	go func() {
		data, err := sub.Receive()
		if err == nil {
			received <- data
		}
	}()

	select {
	case data := <-received:
		decoded, err := frames.UnmarshalCameraFrame(data)
		require.NoError(t, err)
		assert.Equal(t, frame, decoded)
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for forwarded frame")
	}

	assert.Equal(t, float64(1), testutil.ToFloat64(broker.framesForwarded))
}

func TestBrokerFansOutToAllSubscribers(t *testing.T) {
	broker := startTestBroker(t)

	var subs []*Subscriber
	for i := 0; i < 3; i++ {
		sub, err := DialSubscriber(broker.Addr(), 5*time.Second)
		require.NoError(t, err)
		defer sub.Close()
		subs = append(subs, sub)
	}
	require.Eventually(t, func() bool { return broker.hub.Subscribers() == 3 },
		5*time.Second, 10*time.Millisecond)

	pub, err := DialPublisher(broker.Addr(), 5*time.Second)
	require.NoError(t, err)
	defer pub.Close()
	require.NoError(t, pub.Publish(frames.NewSimulatedCamera("Camera_01").Generate()))

	for _, sub := range subs {
		data, err := sub.Receive()
		require.NoError(t, err)
		assert.NotEmpty(t, data)
	}
}

func TestBrokerRejectsInvalidFrames(t *testing.T) {
	broker := startTestBroker(t)

	sub, err := DialSubscriber(broker.Addr(), 5*time.Second)
	require.NoError(t, err)
	defer sub.Close()
	require.Eventually(t, func() bool { return broker.hub.Subscribers() == 1 },
		5*time.Second, 10*time.Millisecond)

	pub, err := DialPublisher(broker.Addr(), 5*time.Second)
	require.NoError(t, err)
	defer pub.Close()

	// Raw write bypassing Publish, so the payload never passes through the model type.
	require.NoError(t, pub.conn.WriteMessage(websocket.TextMessage, []byte(`{"garbage":true}`)))

	valid := frames.NewSimulatedCamera("Camera_01").Generate()
	require.NoError(t, pub.Publish(valid))

	data, err := sub.Receive()
	require.NoError(t, err)
	decoded, err := frames.UnmarshalCameraFrame(data)
	require.NoError(t, err)
	assert.Equal(t, valid.MessageID, decoded.MessageID, "invalid frame must not reach the subscriber")

	assert.Equal(t, float64(1), testutil.ToFloat64(broker.framesRejected))
}

func TestDialFailsAfterTimeoutWhenBrokerAbsent(t *testing.T) {
	_, err := DialSubscriber("127.0.0.1:1", 300*time.Millisecond)
	assert.Error(t, err)
}
