package quizapi

import (
	"bytes"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

const responseSchemaURL = "schema://generate-quiz-response.json"

const responseSchemaJSON = `{
  "type": "object",
  "required": ["quizzes"],
  "properties": {
    "quizzes": {
      "type": "array",
      "minItems": 1,
      "items": {"$ref": "#/$defs/version"}
    }
  },
  "$defs": {
    "version": {
      "type": "object",
      "required": ["version", "questions"],
      "properties": {
        "version": {"type": "integer", "minimum": 1},
        "questions": {"type": "array", "minItems": 1, "items": {"$ref": "#/$defs/question"}}
      }
    },
    "question": {
      "type": "object",
      "required": ["id", "type", "question_text", "correct_answer"],
      "properties": {
        "id": {"type": "string", "minLength": 1},
        "type": {"enum": ["mcq", "fill_in_the_blank"]},
        "question_text": {"type": "string"},
        "options": {
          "type": ["object", "null"],
          "additionalProperties": {"type": "string"}
        },
        "correct_answer": {"type": "string"}
      },
      "if": {"properties": {"type": {"const": "mcq"}}},
      "then": {
        "required": ["options"],
        "properties": {"options": {"type": "object", "minProperties": 1}}
      }
    }
  }
}`

var compiledResponseSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	doc, err := jsonschema.UnmarshalJSON(strings.NewReader(responseSchemaJSON))
	if err != nil {
		return nil, fmt.Errorf("parse schema: %w", err)
	}
	c := jsonschema.NewCompiler()
	if err := c.AddResource(responseSchemaURL, doc); err != nil {
		return nil, fmt.Errorf("add resource: %w", err)
	}
	return c.Compile(responseSchemaURL)
})

// validateResponse checks a generation response body against the schema.
func validateResponse(body []byte) error {
	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}
	sch, err := compiledResponseSchema()
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}
	if err := sch.Validate(inst); err != nil {
		return fmt.Errorf("schema validation failed: %w", err)
	}
	return nil
}
