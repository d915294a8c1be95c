package wire

import (
	"fmt"
	"time"

	"github.com/gorilla/websocket"

	"github.com/sensorstreamkit/pubsub-smoke-tests/internal/frames"
)

// dialWithRetry dials a broker endpoint, retrying until the deadline. The fixture
// programs start concurrently with the broker, so the first attempts may race its
// listener coming up.
func dialWithRetry(url string, timeout time.Duration) (*websocket.Conn, error) {
	deadline := time.Now().Add(timeout)
	for {
		conn, _, err := websocket.DefaultDialer.Dial(url, nil)
		if err == nil {
			return conn, nil
		}
		if !time.Now().Before(deadline) {
			return nil, fmt.Errorf("dialing %s: %w", url, err)
		}
		time.Sleep(100 * time.Millisecond)
	}
}

// Publisher is the sending end of the transport.
type Publisher struct {
	conn *websocket.Conn
	sent int
}

func DialPublisher(brokerAddr string, timeout time.Duration) (*Publisher, error) {
	conn, err := dialWithRetry("ws://"+brokerAddr+PublishPath, timeout)
	if err != nil {
		return nil, err
	}
	return &Publisher{conn: conn}, nil
}

func (p *Publisher) Publish(frame frames.CameraFrame) error {
	data, err := frame.Marshal()
	if err != nil {
		return err
	}
	if err := p.conn.WriteMessage(websocket.TextMessage, data); err != nil {
		return fmt.Errorf("publishing frame %d: %w", frame.FrameID, err)
	}
	p.sent++
	return nil
}

func (p *Publisher) Sent() int { return p.sent }

func (p *Publisher) Close() error { return p.conn.Close() }

// Subscriber is the receiving end of the transport.
type Subscriber struct {
	conn *websocket.Conn
}

func DialSubscriber(brokerAddr string, timeout time.Duration) (*Subscriber, error) {
	conn, err := dialWithRetry("ws://"+brokerAddr+SubscribePath, timeout)
	if err != nil {
		return nil, err
	}
	return &Subscriber{conn: conn}, nil
}

// Receive blocks until the next frame document arrives or the connection ends.
func (s *Subscriber) Receive() ([]byte, error) {
	_, message, err := s.conn.ReadMessage()
	if err != nil {
		return nil, err
	}
	return message, nil
}

func (s *Subscriber) Close() error { return s.conn.Close() }
