// Package schema declares the shape of a supported date format record and
// validates candidate records against it. The declared shape is exposed as a
// JSON Schema document so consumers outside this module can run the same
// validation.
package schema

import (
	"bytes"
	_ "embed"
	"encoding/json"
)

//go:embed dateformat.schema.json
var document []byte

// Document returns the declared record shape as a JSON Schema document.
func Document() json.RawMessage {
	return json.RawMessage(bytes.Clone(document))
}
