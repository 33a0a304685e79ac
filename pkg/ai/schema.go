package ai

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// ErrMalformedReply indicates the backend returned JSON that does not conform
// to the rubric shape.
var ErrMalformedReply = errors.New("malformed rubric reply")

const rubricSchemaJSON = `{
  "type": "object",
  "required": ["content", "language"],
  "properties": {
    "general_conclusion": {"type": "string"},
    "content": {
      "type": "object",
      "required": ["criterias"],
      "properties": {
        "content_conclusion": {"type": "string"},
        "criterias": {"$ref": "#/$defs/criterias"}
      }
    },
    "language": {
      "type": "object",
      "required": ["criterias"],
      "properties": {
        "language_conclusion": {"type": "string"},
        "criterias": {"$ref": "#/$defs/criterias"}
      }
    },
    "suggestions": {
      "type": "array",
      "items": {"type": "string"}
    }
  },
  "$defs": {
    "criterias": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["criterion", "score", "feedback"],
        "properties": {
          "criterion": {"type": "string"},
          "score": {"type": "number"},
          "feedback": {"type": "string"}
        }
      }
    }
  }
}`

var rubricSchema = jsonschema.MustCompileString("rubric.json", rubricSchemaJSON)

// ParseRubricReply validates the raw backend reply against the rubric schema
// and decodes it. Non-conforming replies are rejected rather than coerced.
func ParseRubricReply(content string) (RubricResult, error) {
	var value interface{}
	if err := json.Unmarshal([]byte(content), &value); err != nil {
		return RubricResult{}, fmt.Errorf("%w: %v", ErrMalformedReply, err)
	}

	if err := rubricSchema.Validate(value); err != nil {
		return RubricResult{}, fmt.Errorf("%w: %v", ErrMalformedReply, err)
	}

	var result RubricResult
	if err := json.Unmarshal([]byte(content), &result); err != nil {
		return RubricResult{}, fmt.Errorf("%w: %v", ErrMalformedReply, err)
	}

	return result, nil
}
