// Package frames defines the sensor frame messages exchanged between the fixture
// programs, together with their JSON encoding and validation.
package frames

import (
	"encoding/json"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// CameraFrame is the payload published by the fixture publisher: metadata for one
// simulated camera frame.
type CameraFrame struct {
	MessageID   string `json:"message_id"`
	SensorID    string `json:"sensor_id"`
	TimestampNS int64  `json:"timestamp_ns"`
	FrameID     uint32 `json:"frame_id"`
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	Encoding    string `json:"encoding"`
}

func (f CameraFrame) Marshal() ([]byte, error) {
	return json.Marshal(f)
}

func UnmarshalCameraFrame(data []byte) (CameraFrame, error) {
	var f CameraFrame
	if err := json.Unmarshal(data, &f); err != nil {
		return CameraFrame{}, fmt.Errorf("malformed camera frame: %w", err)
	}
	return f, nil
}

// SimulatedCamera generates camera frames with a monotonically increasing frame id,
// standing in for real sensor hardware.
type SimulatedCamera struct {
	sensorID string
	counter  atomic.Uint32
}

func NewSimulatedCamera(sensorID string) *SimulatedCamera {
	return &SimulatedCamera{sensorID: sensorID}
}

func (c *SimulatedCamera) Generate() CameraFrame {
	return CameraFrame{
		MessageID:   uuid.NewString(),
		SensorID:    c.sensorID,
		TimestampNS: time.Now().UnixNano(),
		FrameID:     c.counter.Add(1) - 1,
		Width:       1920,
		Height:      1080,
		Encoding:    "RGB8",
	}
}

// SummaryPrefix precedes the machine-readable summary line the subscriber prints at
// shutdown, after its per-frame "Received frame" lines.
const SummaryPrefix = "SUBSCRIBER-SUMMARY "

// Summary is the subscriber's final self-report.
type Summary struct {
	FramesReceived int   `json:"frames_received"`
	BytesReceived  int64 `json:"bytes_received"`
}

func (s Summary) Line() string {
	data, _ := json.Marshal(s)
	return SummaryPrefix + string(data)
}

// ParseSummaryLine extracts a Summary from one output line, reporting whether the
// line was a summary line at all.
func ParseSummaryLine(line string) (Summary, bool) {
	if len(line) < len(SummaryPrefix) || line[:len(SummaryPrefix)] != SummaryPrefix {
		return Summary{}, false
	}
	var s Summary
	if err := json.Unmarshal([]byte(line[len(SummaryPrefix):]), &s); err != nil {
		return Summary{}, false
	}
	return s, true
}
