package datum

import (
	"github.com/kirovets/avro/pkg/jsoncodec"
	"github.com/kirovets/avro/pkg/logical"
	"github.com/kirovets/avro/pkg/schema"
)

// buildJSONValue mirrors jsoncodec.Encoder's traversal but interleaves
// logical-type conversion at each schema node, using the same value-shape
// matching findWriteBranch uses for binary union writes to pick the
// branch before recursing into it. A conversion implementing
// logical.DirectJSONCodec renders its own JSON shape directly, ahead of
// and instead of the base-type switch below.
func (wr *Writer) buildJSONValue(value interface{}, s schema.Schema) (interface{}, error) {
	if lt := s.Logical(); lt != nil {
		if conv, ok := wr.model.logical.Lookup(lt.Name); ok {
			if direct, ok := conv.(logical.DirectJSONCodec); ok {
				return direct.EncodeJSON(value, lt.Props, &jsonCodecAdapter{rd: wr.reader, wr: wr})
			}
		}
	}

	switch st := s.(type) {
	case *schema.PrimitiveSchema:
		wire, err := wr.toWire(value, s)
		if err != nil {
			return nil, err
		}
		return encodeJSONPrimitive(wire, st.Type())

	case *schema.FixedSchema:
		wire, err := wr.toWire(value, s)
		if err != nil {
			return nil, err
		}
		buf, ok := wire.([]byte)
		if !ok {
			return nil, &jsoncodec.TypeMismatchError{Expected: "[]byte for fixed", Got: "other"}
		}
		if len(buf) != st.Size() {
			return nil, &jsoncodec.TypeMismatchError{Expected: "fixed of declared size", Got: "wrong length"}
		}
		return jsoncodec.BytesToJSONString(buf), nil

	case *schema.EnumSchema:
		wire, err := wr.toWire(value, s)
		if err != nil {
			return nil, err
		}
		sym, ok := wire.(string)
		if !ok {
			return nil, &jsoncodec.TypeMismatchError{Expected: "string for enum", Got: "other"}
		}
		if st.IndexOf(sym) < 0 {
			return nil, &jsoncodec.UnionBranchError{Reason: "unknown enum symbol " + sym}
		}
		return sym, nil

	case *schema.ArraySchema:
		wire, err := wr.toWire(value, s)
		if err != nil {
			return nil, err
		}
		arr, ok := wire.([]interface{})
		if !ok {
			return nil, &jsoncodec.TypeMismatchError{Expected: "[]interface{} for array", Got: "other"}
		}
		out := make([]interface{}, len(arr))
		for i, item := range arr {
			v, err := wr.buildJSONValue(item, st.Items())
			if err != nil {
				return nil, err
			}
			out[i] = v
		}
		return out, nil

	case *schema.MapSchema:
		wire, err := wr.toWire(value, s)
		if err != nil {
			return nil, err
		}
		m, ok := wire.(map[string]interface{})
		if !ok {
			return nil, &jsoncodec.TypeMismatchError{Expected: "map[string]interface{} for map", Got: "other"}
		}
		out := make(map[string]interface{}, len(m))
		for k, v := range m {
			ev, err := wr.buildJSONValue(v, st.Values())
			if err != nil {
				return nil, err
			}
			out[k] = ev
		}
		return out, nil

	case *schema.UnionSchema:
		if value == nil {
			if st.NullIndex() < 0 {
				return nil, &jsoncodec.UnionBranchError{Reason: "null is not a member of this union"}
			}
			return nil, nil
		}
		branch, ok := findWriteBranch(value, st)
		if !ok {
			return nil, &jsoncodec.UnionBranchError{Reason: "no union branch matches the Go value's shape"}
		}
		ev, err := wr.buildJSONValue(value, branch)
		if err != nil {
			return nil, err
		}
		return map[string]interface{}{unionBranchLabel(branch): ev}, nil

	case *schema.RecordSchema:
		wire, err := wr.toWire(value, s)
		if err != nil {
			return nil, err
		}
		m, ok := wire.(map[string]interface{})
		if !ok {
			return nil, &jsoncodec.TypeMismatchError{Expected: "map[string]interface{} for record", Got: "other"}
		}
		out := make(map[string]interface{}, len(st.Fields()))
		for _, f := range st.Fields() {
			v, present := m[f.Name]
			if !present {
				if !f.HasDefault {
					return nil, &jsoncodec.MissingFieldError{Record: st.FullName(), Field: f.Name}
				}
				dv, err := wr.buildJSONDefault(f.Default, f.Schema)
				if err != nil {
					return nil, err
				}
				out[f.Name] = dv
				continue
			}
			ev, err := wr.buildJSONValue(v, f.Schema)
			if err != nil {
				return nil, err
			}
			out[f.Name] = ev
		}
		return out, nil

	default:
		return nil, &jsoncodec.TypeMismatchError{Expected: "known schema kind", Got: "unsupported"}
	}
}

// buildJSONDefault re-serializes a field's schema-declared default so an
// absent field round-trips its actual default value rather than a bare
// null placeholder. The stored default is already in wire-JSON shape, so
// it is decoded once with readJSONValue and re-run through buildJSONValue
// against the same schema to pick up any union tagging.
func (wr *Writer) buildJSONDefault(raw interface{}, s schema.Schema) (interface{}, error) {
	fieldSchema := s
	if u, ok := s.(*schema.UnionSchema); ok {
		branches := u.Types()
		if len(branches) == 0 {
			return nil, &jsoncodec.UnionBranchError{Reason: "empty union has no default branch"}
		}
		fieldSchema = branches[0]
	}
	domain, err := wr.reader.readJSONValue(raw, fieldSchema)
	if err != nil {
		return nil, err
	}
	return wr.buildJSONValue(domain, s)
}

func encodeJSONPrimitive(value interface{}, t schema.Type) (interface{}, error) {
	switch t {
	case schema.Null:
		if value != nil {
			return nil, &jsoncodec.TypeMismatchError{Expected: "nil", Got: "other"}
		}
		return nil, nil
	case schema.Boolean:
		v, ok := value.(bool)
		if !ok {
			return nil, &jsoncodec.TypeMismatchError{Expected: "bool", Got: "other"}
		}
		return v, nil
	case schema.Int, schema.Long:
		v, ok := toInt64(value)
		if !ok {
			return nil, &jsoncodec.TypeMismatchError{Expected: "integer value", Got: "other"}
		}
		return v, nil
	case schema.Float, schema.Double:
		v, ok := toFloat64(value)
		if !ok {
			return nil, &jsoncodec.TypeMismatchError{Expected: "float value", Got: "other"}
		}
		return v, nil
	case schema.Bytes:
		v, ok := value.([]byte)
		if !ok {
			return nil, &jsoncodec.TypeMismatchError{Expected: "[]byte", Got: "other"}
		}
		return jsoncodec.BytesToJSONString(v), nil
	case schema.String:
		v, ok := value.(string)
		if !ok {
			return nil, &jsoncodec.TypeMismatchError{Expected: "string", Got: "other"}
		}
		return v, nil
	default:
		return nil, &jsoncodec.TypeMismatchError{Expected: "primitive", Got: string(t)}
	}
}
