package schema

import (
	_ "embed"
	"encoding/json"

	"github.com/xeipuuv/gojsonschema"
)

type Schema struct {
	schema *gojsonschema.Schema
}

// Validate validates the go value against the schema. The value is
// serialized to json before validation.
func (s *Schema) Validate(data any) (*gojsonschema.Result, error) {
	return s.schema.Validate(gojsonschema.NewGoLoader(data))
}

//go:embed request.json
var request json.RawMessage
var requestLoader = gojsonschema.NewBytesLoader(request)

func NewRequestSchema() (*Schema, error) {
	schema, err := gojsonschema.NewSchema(requestLoader)
	if err != nil {
		return nil, err
	}

	return &Schema{schema: schema}, nil
}
