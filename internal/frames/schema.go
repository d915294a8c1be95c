package frames

import (
	"fmt"

	"github.com/xeipuuv/gojsonschema"
)

const cameraFrameSchema = `{
	"$schema": "http://json-schema.org/draft-07/schema#",
	"type": "object",
	"required": ["message_id", "sensor_id", "timestamp_ns", "frame_id"],
	"properties": {
		"message_id": {"type": "string", "minLength": 1},
		"sensor_id": {"type": "string", "minLength": 1},
		"timestamp_ns": {"type": "integer"},
		"frame_id": {"type": "integer", "minimum": 0},
		"width": {"type": "integer", "minimum": 0},
		"height": {"type": "integer", "minimum": 0},
		"encoding": {"type": "string"}
	},
	"additionalProperties": false
}`

// Validator checks inbound frame documents against the camera frame schema. The
// broker uses it to reject junk before fanning a message out to subscribers.
type Validator struct {
	schema *gojsonschema.Schema
}

func NewValidator() (*Validator, error) {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(cameraFrameSchema))
	if err != nil {
		return nil, fmt.Errorf("compiling camera frame schema: %w", err)
	}
	return &Validator{schema: schema}, nil
}

func (v *Validator) Validate(document []byte) error {
	result, err := v.schema.Validate(gojsonschema.NewBytesLoader(document))
	if err != nil {
		return fmt.Errorf("frame is not valid JSON: %w", err)
	}
	if !result.Valid() {
		return fmt.Errorf("frame failed schema validation: %v", result.Errors())
	}
	return nil
}
