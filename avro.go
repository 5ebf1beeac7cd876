package avro

import (
	"bytes"

	"github.com/kirovets/avro/pkg/datum"
	"github.com/kirovets/avro/pkg/schema"
)

// Schema is the parsed representation of an Avro schema.
type Schema = schema.Schema

// Parse decodes Avro schema JSON text into a Schema.
func Parse(text string) (Schema, error) {
	return schema.Parse(text)
}

// MustParse is Parse but panics on error, for schema literals known to be
// valid at compile time.
func MustParse(text string) Schema {
	return schema.MustParse(text)
}

// defaultModel is shared by the package-level Marshal/Unmarshal helpers.
// Callers who need a custom logical type registry or logger should build
// their own datum.Model and datum.Writer/Reader directly.
var defaultModel = datum.NewModel()

// Marshal encodes value as Avro binary against schema s.
func Marshal(value interface{}, s Schema) ([]byte, error) {
	var buf bytes.Buffer
	if err := datum.NewWriter(defaultModel).WriteBinary(&buf, value, s); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Unmarshal decodes Avro binary data against schema s.
func Unmarshal(data []byte, s Schema) (interface{}, error) {
	return datum.NewReader(defaultModel).ReadBinary(bytes.NewReader(data), s)
}

// MarshalJSON encodes value as Avro JSON text against schema s.
func MarshalJSON(value interface{}, s Schema) ([]byte, error) {
	return datum.NewWriter(defaultModel).WriteJSON(value, s)
}

// UnmarshalJSON decodes Avro JSON text against schema s.
func UnmarshalJSON(data []byte, s Schema) (interface{}, error) {
	return datum.NewReader(defaultModel).ReadJSON(data, s)
}
