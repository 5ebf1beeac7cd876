package logical

import (
	"encoding/json"
	"math/big"

	"github.com/shopspring/decimal"

	"github.com/kirovets/avro/pkg/schema"
)

// DecimalConversion implements the "decimal" logical type: an unscaled
// two's-complement big integer (carried in bytes or fixed) plus a fixed
// "scale" property, exposed as decimal.Decimal.
type DecimalConversion struct{}

func (DecimalConversion) LogicalTypeName() string { return "decimal" }

func (DecimalConversion) FromWire(base interface{}, props *schema.Properties) (interface{}, error) {
	raw, ok := base.([]byte)
	if !ok {
		return nil, &ConversionError{LogicalType: "decimal", Reason: "base value is not bytes/fixed"}
	}
	scale := props.GetInt("scale")
	unscaled := decodeTwosComplement(raw)
	return decimal.NewFromBigInt(unscaled, -int32(scale)), nil
}

func (DecimalConversion) ToWire(value interface{}, props *schema.Properties) (interface{}, error) {
	d, ok := value.(decimal.Decimal)
	if !ok {
		return nil, &ConversionError{LogicalType: "decimal", Reason: "value is not decimal.Decimal"}
	}
	scale := props.GetInt("scale")
	rescaled := rescaleDecimal(d, -int32(scale))
	return encodeTwosComplement(rescaled.Coefficient()), nil
}

// rescaleDecimal changes d's exponent to exp, scaling its coefficient to
// compensate. decimal.Decimal does not export this operation, so it is
// reimplemented here from the public Coefficient/Exponent accessors,
// matching the library's internal rescale exactly (multiply when widening,
// truncating integer divide when narrowing).
func rescaleDecimal(d decimal.Decimal, exp int32) decimal.Decimal {
	if d.Exponent() == exp {
		return d
	}
	diff := d.Exponent() - exp
	if diff < 0 {
		diff = -diff
	}
	scale := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(diff)), nil)
	coeff := new(big.Int).Set(d.Coefficient())
	if exp > d.Exponent() {
		coeff.Quo(coeff, scale)
	} else {
		coeff.Mul(coeff, scale)
	}
	return decimal.NewFromBigInt(coeff, exp)
}

// DecodeJSON implements DirectJSONCodec: a decimal's JSON form is a bare
// number (123.45), not the Latin-1 string its bytes/fixed base type would
// otherwise render.
func (DecimalConversion) DecodeJSON(raw interface{}, _ *schema.Properties, _ JSONCodec) (interface{}, error) {
	switch v := raw.(type) {
	case float64:
		return decimal.NewFromFloat(v), nil
	case json.Number:
		d, err := decimal.NewFromString(v.String())
		if err != nil {
			return nil, &ConversionError{LogicalType: "decimal", Reason: "invalid decimal literal: " + err.Error()}
		}
		return d, nil
	default:
		return nil, &ConversionError{LogicalType: "decimal", Reason: "JSON form must be a number"}
	}
}

// EncodeJSON is DecodeJSON's inverse.
func (DecimalConversion) EncodeJSON(value interface{}, _ *schema.Properties, _ JSONCodec) (interface{}, error) {
	d, ok := value.(decimal.Decimal)
	if !ok {
		return nil, &ConversionError{LogicalType: "decimal", Reason: "value is not decimal.Decimal"}
	}
	return json.Number(d.String()), nil
}

// decodeTwosComplement interprets raw as a big-endian two's-complement
// signed integer, matching the wire format the decimal logical type uses
// for both its bytes and fixed base types.
func decodeTwosComplement(raw []byte) *big.Int {
	if len(raw) == 0 {
		return big.NewInt(0)
	}
	n := new(big.Int).SetBytes(raw)
	if raw[0]&0x80 != 0 {
		// Negative: subtract 2^(8*len(raw)).
		full := new(big.Int).Lsh(big.NewInt(1), uint(len(raw))*8)
		n.Sub(n, full)
	}
	return n
}

// encodeTwosComplement renders n as the minimal big-endian two's-complement
// byte slice, matching decodeTwosComplement's inverse.
func encodeTwosComplement(n *big.Int) []byte {
	if n.Sign() == 0 {
		return []byte{0}
	}
	if n.Sign() > 0 {
		b := n.Bytes()
		if b[0]&0x80 != 0 {
			b = append([]byte{0}, b...)
		}
		return b
	}
	// Negative: two's complement is 2^(8*byteLen) + n for the smallest
	// byteLen that keeps the sign bit set.
	byteLen := (new(big.Int).Not(n).BitLen() / 8) + 1
	full := new(big.Int).Lsh(big.NewInt(1), uint(byteLen)*8)
	full.Add(full, n)
	b := full.Bytes()
	for len(b) < byteLen {
		b = append([]byte{0xff}, b...)
	}
	return b
}
