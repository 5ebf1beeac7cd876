package jsoncodec

import (
	"github.com/kirovets/avro/pkg/schema"
)

// Encoder renders a generic value tree (the same shape Decoder produces:
// map[string]interface{} records, []interface{} arrays, native
// primitives) as Avro JSON text.
type Encoder struct{}

func NewEncoder() *Encoder { return &Encoder{} }

// Encode renders value against s.
func (e *Encoder) Encode(value interface{}, s schema.Schema) ([]byte, error) {
	tree, err := e.encodeValue(value, s)
	if err != nil {
		return nil, err
	}
	return json.Marshal(tree)
}

func (e *Encoder) encodeValue(value interface{}, s schema.Schema) (interface{}, error) {
	switch st := s.(type) {
	case *schema.PrimitiveSchema:
		return e.encodePrimitive(value, st.Type())
	case *schema.FixedSchema:
		b, ok := value.([]byte)
		if !ok {
			return nil, &TypeMismatchError{Expected: "[]byte for fixed", Got: goType(value)}
		}
		return BytesToJSONString(b), nil
	case *schema.EnumSchema:
		sym, ok := value.(string)
		if !ok {
			return nil, &TypeMismatchError{Expected: "string for enum", Got: goType(value)}
		}
		return sym, nil
	case *schema.ArraySchema:
		return e.encodeArray(value, st)
	case *schema.MapSchema:
		return e.encodeMap(value, st)
	case *schema.UnionSchema:
		return e.encodeUnion(value, st)
	case *schema.RecordSchema:
		return e.encodeRecord(value, st)
	default:
		return nil, &TypeMismatchError{Expected: "known schema kind", Got: "unsupported"}
	}
}

func (e *Encoder) encodePrimitive(value interface{}, t schema.Type) (interface{}, error) {
	switch t {
	case schema.Null:
		if value != nil {
			return nil, &TypeMismatchError{Expected: "nil for null", Got: goType(value)}
		}
		return nil, nil
	case schema.Boolean, schema.Int, schema.Long, schema.Float, schema.Double, schema.String:
		return value, nil
	case schema.Bytes:
		b, ok := value.([]byte)
		if !ok {
			return nil, &TypeMismatchError{Expected: "[]byte for bytes", Got: goType(value)}
		}
		return BytesToJSONString(b), nil
	default:
		return nil, &TypeMismatchError{Expected: "primitive", Got: goType(value)}
	}
}

func (e *Encoder) encodeArray(value interface{}, st *schema.ArraySchema) (interface{}, error) {
	arr, ok := value.([]interface{})
	if !ok {
		return nil, &TypeMismatchError{Expected: "[]interface{} for array", Got: goType(value)}
	}
	out := make([]interface{}, len(arr))
	for i, item := range arr {
		v, err := e.encodeValue(item, st.Items())
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func (e *Encoder) encodeMap(value interface{}, st *schema.MapSchema) (interface{}, error) {
	m, ok := value.(map[string]interface{})
	if !ok {
		return nil, &TypeMismatchError{Expected: "map[string]interface{} for map", Got: goType(value)}
	}
	out := make(map[string]interface{}, len(m))
	for k, v := range m {
		ev, err := e.encodeValue(v, st.Values())
		if err != nil {
			return nil, err
		}
		out[k] = ev
	}
	return out, nil
}

func (e *Encoder) encodeUnion(value interface{}, st *schema.UnionSchema) (interface{}, error) {
	if value == nil {
		if st.NullIndex() < 0 {
			return nil, &UnionBranchError{Reason: "null is not a member of this union"}
		}
		return nil, nil
	}
	branch, tagged, err := findBranch(value, st)
	if err != nil {
		return nil, err
	}
	ev, err := e.encodeValue(value, branch)
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{tagged: ev}, nil
}

func (e *Encoder) encodeRecord(value interface{}, st *schema.RecordSchema) (interface{}, error) {
	m, ok := value.(map[string]interface{})
	if !ok {
		return nil, &TypeMismatchError{Expected: "map[string]interface{} for record", Got: goType(value)}
	}
	out := make(map[string]interface{}, len(st.Fields()))
	for _, f := range st.Fields() {
		v, present := m[f.Name]
		if !present {
			if !f.HasDefault {
				return nil, &MissingFieldError{Record: st.FullName(), Field: f.Name}
			}
			domain, err := (&Decoder{}).decodeDefault(f.Default, f.Schema)
			if err != nil {
				return nil, err
			}
			ev, err := e.encodeValue(domain, f.Schema)
			if err != nil {
				return nil, err
			}
			out[f.Name] = ev
			continue
		}
		ev, err := e.encodeValue(v, f.Schema)
		if err != nil {
			return nil, err
		}
		out[f.Name] = ev
	}
	return out, nil
}

// findBranch picks the union branch value's Go shape matches, by
// primitive kind for primitives and by declared type for everything else.
// Ambiguity between multiple candidate branches of the same Go shape is
// resolved by picking the first declared match, mirroring how a caller
// building the value tree by hand would naturally reach for the branch
// they intend.
func findBranch(value interface{}, st *schema.UnionSchema) (schema.Schema, string, error) {
	for _, branch := range st.Types() {
		if branchShapeMatches(value, branch) {
			return branch, branchLabel(branch), nil
		}
	}
	return nil, "", &UnionBranchError{Reason: "no union branch matches the Go value's shape"}
}

func branchShapeMatches(value interface{}, branch schema.Schema) bool {
	switch branch.Type() {
	case schema.Boolean:
		_, ok := value.(bool)
		return ok
	case schema.Int, schema.Long, schema.Float, schema.Double:
		return isNumeric(value)
	case schema.String, schema.Enum:
		_, ok := value.(string)
		return ok
	case schema.Bytes, schema.Fixed:
		_, ok := value.([]byte)
		return ok
	case schema.Array:
		_, ok := value.([]interface{})
		return ok
	case schema.Map, schema.Record:
		_, ok := value.(map[string]interface{})
		return ok
	default:
		return false
	}
}

func isNumeric(value interface{}) bool {
	switch value.(type) {
	case int32, int64, float32, float64:
		return true
	default:
		return false
	}
}

func goType(value interface{}) string {
	if value == nil {
		return "nil"
	}
	switch value.(type) {
	case bool:
		return "bool"
	case string:
		return "string"
	case []byte:
		return "[]byte"
	case []interface{}:
		return "[]interface{}"
	case map[string]interface{}:
		return "map[string]interface{}"
	default:
		return "other"
	}
}
