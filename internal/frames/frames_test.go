package frames

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSimulatedCameraGeneratesSequentialFrames(t *testing.T) {
	cam := NewSimulatedCamera("Camera_01")
	first := cam.Generate()
	second := cam.Generate()

	assert.Equal(t, "Camera_01", first.SensorID)
	assert.Equal(t, uint32(0), first.FrameID)
	assert.Equal(t, uint32(1), second.FrameID)
	assert.NotEqual(t, first.MessageID, second.MessageID)
	assert.NotZero(t, first.TimestampNS)
	assert.Equal(t, 1920, first.Width)
	assert.Equal(t, "RGB8", first.Encoding)
}

func TestCameraFrameRoundTripsThroughJSON(t *testing.T) {
	original := NewSimulatedCamera("Camera_02").Generate()
	data, err := original.Marshal()
	require.NoError(t, err)

	decoded, err := UnmarshalCameraFrame(data)
	require.NoError(t, err)
	assert.Equal(t, original, decoded)
}

func TestValidatorAcceptsGeneratedFrames(t *testing.T) {
	v, err := NewValidator()
	require.NoError(t, err)

	data, err := NewSimulatedCamera("Camera_03").Generate().Marshal()
	require.NoError(t, err)
	assert.NoError(t, v.Validate(data))
}

func TestValidatorRejectsMalformedDocuments(t *testing.T) {
	v, err := NewValidator()
	require.NoError(t, err)

	assert.Error(t, v.Validate([]byte(`not json`)))
	assert.Error(t, v.Validate([]byte(`{"sensor_id": "x"}`)), "missing required fields")
	assert.Error(t, v.Validate([]byte(`{"message_id":"m","sensor_id":"s","timestamp_ns":1,"frame_id":-1}`)),
		"negative frame id")
	assert.Error(t, v.Validate([]byte(`{"message_id":"m","sensor_id":"s","timestamp_ns":1,"frame_id":0,"extra":true}`)),
		"unknown fields are rejected")
}

func TestSummaryLineRoundTrip(t *testing.T) {
	line := Summary{FramesReceived: 12, BytesReceived: 3456}.Line()
	s, ok := ParseSummaryLine(line)
	require.True(t, ok)
	assert.Equal(t, 12, s.FramesReceived)
	assert.Equal(t, int64(3456), s.BytesReceived)
}

func TestParseSummaryLineIgnoresOtherLines(t *testing.T) {
	_, ok := ParseSummaryLine("Received frame #1 (42 bytes)")
	assert.False(t, ok)
	_, ok = ParseSummaryLine(SummaryPrefix + "{broken")
	assert.False(t, ok)
}
