package document

import (
	"encoding/json"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

const documentSchema = `{
  "type": "array",
  "minItems": 1,
  "items": {
    "type": "array",
    "items": {
      "type": "object",
      "required": ["tool", "points", "color", "size"],
      "properties": {
        "tool": {"enum": ["pen", "eraser"]},
        "points": {
          "type": "array",
          "minItems": 2,
          "items": {"type": "number"}
        },
        "color": {"type": "string", "minLength": 1},
        "size": {"type": "number", "exclusiveMinimum": 0}
      }
    }
  }
}`

var (
	schemaOnce     sync.Once
	schemaCompiled *jsonschema.Schema
	schemaErr      error
)

func validateSchema(data []byte) error {
	schemaOnce.Do(func() {
		schemaCompiled, schemaErr = jsonschema.CompileString("localnotes_document.json", documentSchema)
	})
	if schemaErr != nil {
		return schemaErr
	}

	var payload any
	if err := json.Unmarshal(data, &payload); err != nil {
		return err
	}
	return schemaCompiled.Validate(payload)
}
