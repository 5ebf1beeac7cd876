package logical

import (
	"math/big"

	"github.com/kirovets/avro/pkg/schema"
)

// BigIntegerConversion implements the "big-integer" logical type: an
// arbitrary-precision integer carried as two's-complement bytes with no
// scale, exposed as *big.Int.
type BigIntegerConversion struct{}

func (BigIntegerConversion) LogicalTypeName() string { return "big-integer" }

func (BigIntegerConversion) FromWire(base interface{}, _ *schema.Properties) (interface{}, error) {
	raw, ok := base.([]byte)
	if !ok {
		return nil, &ConversionError{LogicalType: "big-integer", Reason: "base value is not bytes/fixed"}
	}
	return decodeTwosComplement(raw), nil
}

func (BigIntegerConversion) ToWire(value interface{}, _ *schema.Properties) (interface{}, error) {
	n, ok := value.(*big.Int)
	if !ok {
		return nil, &ConversionError{LogicalType: "big-integer", Reason: "value is not *big.Int"}
	}
	return encodeTwosComplement(n), nil
}
