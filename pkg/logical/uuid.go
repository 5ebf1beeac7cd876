package logical

import (
	"github.com/google/uuid"

	"github.com/kirovets/avro/pkg/schema"
)

// UUIDConversion implements the "uuid" logical type: a string base type
// carrying the canonical hyphenated textual form, exposed as uuid.UUID.
type UUIDConversion struct{}

func (UUIDConversion) LogicalTypeName() string { return "uuid" }

func (UUIDConversion) FromWire(base interface{}, _ *schema.Properties) (interface{}, error) {
	s, ok := base.(string)
	if !ok {
		return nil, &ConversionError{LogicalType: "uuid", Reason: "base value is not string"}
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return nil, &ConversionError{LogicalType: "uuid", Reason: err.Error()}
	}
	return id, nil
}

func (UUIDConversion) ToWire(value interface{}, _ *schema.Properties) (interface{}, error) {
	id, ok := value.(uuid.UUID)
	if !ok {
		return nil, &ConversionError{LogicalType: "uuid", Reason: "value is not uuid.UUID"}
	}
	return id.String(), nil
}
