// Package logical implements Avro logical type conversions: the
// translation between the primitive value a schema's base type puts on
// the wire and the richer Go value application code works with
// (time.Time, decimal.Decimal, uuid.UUID, and so on).
package logical

import "github.com/kirovets/avro/pkg/schema"

// Conversion translates one logical type between its wire representation
// (whatever native Go value the base primitive/fixed/bytes type decodes
// to: int32, int64, []byte, string) and the domain value applications
// see.
type Conversion interface {
	// LogicalTypeName is the schema "logicalType" property this
	// conversion handles, e.g. "date" or "decimal".
	LogicalTypeName() string

	// FromWire converts a natively-decoded base value into the domain
	// value. props carries the logical type's own schema properties
	// (e.g. "precision"/"scale" for decimal).
	FromWire(base interface{}, props *schema.Properties) (interface{}, error)

	// ToWire converts a domain value back into the base value the
	// underlying primitive/fixed/bytes codec can encode.
	ToWire(value interface{}, props *schema.Properties) (interface{}, error)
}

// JSONCodec is the handle a DirectJSONCodec gets back into the
// schema-directed encode/decode machinery, so a conversion can recurse
// into a schema it only discovers at runtime (an "any" value's embedded
// schema text) without pkg/logical importing pkg/datum and creating an
// import cycle. pkg/datum's Reader/Writer satisfy this.
type JSONCodec interface {
	DecodeBinary(data []byte, s schema.Schema) (interface{}, error)
	EncodeBinary(value interface{}, s schema.Schema) ([]byte, error)
	DecodeJSONValue(raw interface{}, s schema.Schema) (interface{}, error)
	EncodeJSONValue(value interface{}, s schema.Schema) (interface{}, error)
}

// DirectJSONCodec is implemented by a Conversion whose JSON wire shape
// bypasses its base type entirely: decimal renders as a bare JSON number
// rather than its bytes base type's Latin-1 string, and any inlines its
// nested value as JSON rather than a Latin-1-mapped byte string. When a
// looked-up Conversion implements this, pkg/datum's JSON read/write path
// calls it directly on the raw JSON value instead of decoding/encoding
// the schema's base type and running FromWire/ToWire.
type DirectJSONCodec interface {
	// DecodeJSON converts an already-unmarshaled JSON value (float64,
	// string, bool, nil, []interface{}, map[string]interface{}) directly
	// into the domain value.
	DecodeJSON(raw interface{}, props *schema.Properties, codec JSONCodec) (interface{}, error)

	// EncodeJSON is DecodeJSON's inverse: renders a domain value as the
	// tree jsoncodec.Marshal should emit for it.
	EncodeJSON(value interface{}, props *schema.Properties, codec JSONCodec) (interface{}, error)
}

// Registry holds the active set of logical type conversions a Model reads
// and writes through.
type Registry struct {
	byName map[string]Conversion
}

// NewRegistry builds a registry pre-populated with the built-in
// conversions.
func NewRegistry() *Registry {
	r := &Registry{byName: make(map[string]Conversion)}
	for _, c := range Defaults() {
		r.Add(c)
	}
	return r
}

// Add registers or replaces the conversion for its logical type name.
func (r *Registry) Add(c Conversion) {
	r.byName[c.LogicalTypeName()] = c
}

// Remove deregisters a logical type name, causing the datum layer to fall
// back to the base type's native representation for it.
func (r *Registry) Remove(name string) {
	delete(r.byName, name)
}

// Clear removes every registered conversion.
func (r *Registry) Clear() {
	r.byName = make(map[string]Conversion)
}

// Lookup returns the conversion registered for name, if any.
func (r *Registry) Lookup(name string) (Conversion, bool) {
	c, ok := r.byName[name]
	return c, ok
}

// Defaults returns fresh instances of every built-in conversion.
func Defaults() []Conversion {
	return []Conversion{
		&DateConversion{},
		&TimestampMillisConversion{},
		&TimestampMicrosConversion{},
		&DecimalConversion{},
		&BigIntegerConversion{},
		&UUIDConversion{},
		&InstantConversion{},
		&AnyTemporalConversion{},
		&AnyConversion{},
	}
}
