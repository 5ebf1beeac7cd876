// Package jsoncodec implements the Avro JSON encoding: a field-order-
// agnostic record codec, Avro's union tag convention, and default-value
// injection for reader-only fields, on top of json-iterator/go for
// tokenization.
package jsoncodec

import (
	jsoniter "github.com/json-iterator/go"

	"github.com/kirovets/avro/pkg/schema"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Marshal and Unmarshal expose the package's jsoniter configuration to
// callers (pkg/datum) that need raw JSON tokenization without the
// schema-directed Decode/Encode wrapping.
func Marshal(v interface{}) ([]byte, error)      { return json.Marshal(v) }
func Unmarshal(data []byte, v interface{}) error { return json.Unmarshal(data, v) }

// Decoder decodes Avro JSON-encoded values against a schema, producing a
// generic value tree (map[string]interface{} for records, []interface{}
// for arrays, and native Go primitives) that pkg/datum then walks
// alongside the schema to apply logical-type conversions.
type Decoder struct {
	// Lenient, when true, silently drops JSON object keys with no
	// matching record field instead of returning UnknownFieldError.
	Lenient bool
}

func NewDecoder(lenient bool) *Decoder {
	return &Decoder{Lenient: lenient}
}

// Decode parses data as Avro JSON against s.
func (d *Decoder) Decode(data []byte, s schema.Schema) (interface{}, error) {
	var raw interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, &TypeMismatchError{Expected: "valid JSON", Got: err.Error()}
	}
	return d.decodeValue(raw, s)
}

func (d *Decoder) decodeValue(raw interface{}, s schema.Schema) (interface{}, error) {
	switch st := s.(type) {
	case *schema.PrimitiveSchema:
		return d.decodePrimitive(raw, st.Type())
	case *schema.FixedSchema:
		return d.decodeFixed(raw, st)
	case *schema.EnumSchema:
		return d.decodeEnum(raw, st)
	case *schema.ArraySchema:
		return d.decodeArray(raw, st)
	case *schema.MapSchema:
		return d.decodeMap(raw, st)
	case *schema.UnionSchema:
		return d.decodeUnion(raw, st)
	case *schema.RecordSchema:
		return d.decodeRecord(raw, st)
	default:
		return nil, &TypeMismatchError{Expected: "known schema kind", Got: "unsupported"}
	}
}

func (d *Decoder) decodePrimitive(raw interface{}, t schema.Type) (interface{}, error) {
	switch t {
	case schema.Null:
		if raw != nil {
			return nil, &TypeMismatchError{Expected: "null", Got: goKind(raw)}
		}
		return nil, nil
	case schema.Boolean:
		b, ok := raw.(bool)
		if !ok {
			return nil, &TypeMismatchError{Expected: "boolean", Got: goKind(raw)}
		}
		return b, nil
	case schema.Int:
		n, ok := jsonNumber(raw)
		if !ok {
			return nil, &TypeMismatchError{Expected: "int", Got: goKind(raw)}
		}
		return int32(n), nil
	case schema.Long:
		n, ok := jsonNumber(raw)
		if !ok {
			return nil, &TypeMismatchError{Expected: "long", Got: goKind(raw)}
		}
		return int64(n), nil
	case schema.Float:
		n, ok := jsonNumber(raw)
		if !ok {
			return nil, &TypeMismatchError{Expected: "float", Got: goKind(raw)}
		}
		return float32(n), nil
	case schema.Double:
		n, ok := jsonNumber(raw)
		if !ok {
			return nil, &TypeMismatchError{Expected: "double", Got: goKind(raw)}
		}
		return n, nil
	case schema.Bytes:
		s, ok := raw.(string)
		if !ok {
			return nil, &TypeMismatchError{Expected: "bytes", Got: goKind(raw)}
		}
		return BytesFromJSONString(s)
	case schema.String:
		s, ok := raw.(string)
		if !ok {
			return nil, &TypeMismatchError{Expected: "string", Got: goKind(raw)}
		}
		return s, nil
	default:
		return nil, &TypeMismatchError{Expected: "primitive", Got: goKind(raw)}
	}
}

func (d *Decoder) decodeFixed(raw interface{}, st *schema.FixedSchema) (interface{}, error) {
	s, ok := raw.(string)
	if !ok {
		return nil, &TypeMismatchError{Expected: "fixed", Got: goKind(raw)}
	}
	b, err := BytesFromJSONString(s)
	if err != nil {
		return nil, err
	}
	if len(b) != st.Size() {
		return nil, &TypeMismatchError{Expected: "fixed of size N", Got: "wrong length"}
	}
	return b, nil
}

func (d *Decoder) decodeEnum(raw interface{}, st *schema.EnumSchema) (interface{}, error) {
	s, ok := raw.(string)
	if !ok {
		return nil, &TypeMismatchError{Expected: "enum symbol string", Got: goKind(raw)}
	}
	if st.IndexOf(s) < 0 {
		return nil, &UnionBranchError{Reason: "unknown enum symbol " + s}
	}
	return s, nil
}

func (d *Decoder) decodeArray(raw interface{}, st *schema.ArraySchema) (interface{}, error) {
	arr, ok := raw.([]interface{})
	if !ok {
		return nil, &TypeMismatchError{Expected: "array", Got: goKind(raw)}
	}
	out := make([]interface{}, len(arr))
	for i, item := range arr {
		v, err := d.decodeValue(item, st.Items())
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func (d *Decoder) decodeMap(raw interface{}, st *schema.MapSchema) (interface{}, error) {
	m, ok := raw.(map[string]interface{})
	if !ok {
		return nil, &TypeMismatchError{Expected: "map", Got: goKind(raw)}
	}
	out := make(map[string]interface{}, len(m))
	for k, v := range m {
		dv, err := d.decodeValue(v, st.Values())
		if err != nil {
			return nil, err
		}
		out[k] = dv
	}
	return out, nil
}

// decodeUnion applies Avro's JSON union tag convention: JSON null selects
// the union's null branch (if any), and any other value must be a
// single-key object {"branchLabel": value}.
func (d *Decoder) decodeUnion(raw interface{}, st *schema.UnionSchema) (interface{}, error) {
	if raw == nil {
		if st.NullIndex() < 0 {
			return nil, &UnionBranchError{Reason: "null is not a member of this union"}
		}
		return nil, nil
	}
	obj, ok := raw.(map[string]interface{})
	if !ok || len(obj) != 1 {
		return nil, &UnionBranchError{Reason: "non-null union value must be a single-key {label: value} object"}
	}
	var label string
	var value interface{}
	for k, v := range obj {
		label, value = k, v
	}
	for _, branch := range st.Types() {
		if branchLabel(branch) == label {
			return d.decodeValue(value, branch)
		}
	}
	return nil, &UnionBranchError{Reason: "no union branch named " + label}
}

func (d *Decoder) decodeRecord(raw interface{}, st *schema.RecordSchema) (interface{}, error) {
	obj, ok := raw.(map[string]interface{})
	if !ok {
		return nil, &TypeMismatchError{Expected: "record object", Got: goKind(raw)}
	}
	out := make(map[string]interface{}, len(st.Fields()))
	seen := make(map[string]bool, len(obj))

	for _, f := range st.Fields() {
		v, present := obj[f.Name]
		if !present {
			if !f.HasDefault {
				return nil, &MissingFieldError{Record: st.FullName(), Field: f.Name}
			}
			dv, err := d.decodeDefault(f.Default, f.Schema)
			if err != nil {
				return nil, err
			}
			out[f.Name] = dv
			continue
		}
		seen[f.Name] = true
		dv, err := d.decodeValue(v, f.Schema)
		if err != nil {
			return nil, err
		}
		out[f.Name] = dv
	}

	if !d.Lenient {
		for k := range obj {
			if !seen[k] {
				return nil, &UnknownFieldError{Record: st.FullName(), Field: k}
			}
		}
	}
	return out, nil
}

// decodeDefault decodes a schema-declared default value, which for a
// union-typed field is expressed as a bare value for the union's first
// branch rather than wrapped in the {label: value} tag convention.
func (d *Decoder) decodeDefault(raw interface{}, s schema.Schema) (interface{}, error) {
	if u, ok := s.(*schema.UnionSchema); ok {
		branches := u.Types()
		if len(branches) == 0 {
			return nil, &UnionBranchError{Reason: "empty union has no default branch"}
		}
		return d.decodeValue(raw, branches[0])
	}
	return d.decodeValue(raw, s)
}

func branchLabel(s schema.Schema) string {
	if named, ok := s.(schema.NamedSchema); ok {
		return named.Name()
	}
	return string(s.Type())
}

func jsonNumber(raw interface{}) (float64, bool) {
	n, ok := raw.(float64)
	return n, ok
}

func goKind(raw interface{}) string {
	switch raw.(type) {
	case nil:
		return "null"
	case bool:
		return "boolean"
	case float64:
		return "number"
	case string:
		return "string"
	case []interface{}:
		return "array"
	case map[string]interface{}:
		return "object"
	default:
		return "unknown"
	}
}
