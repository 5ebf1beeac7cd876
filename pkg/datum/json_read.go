package datum

import (
	"github.com/kirovets/avro/pkg/jsoncodec"
	"github.com/kirovets/avro/pkg/logical"
	"github.com/kirovets/avro/pkg/schema"
)

// readJSONValue mirrors jsoncodec.Decoder's traversal but interleaves
// logical-type conversion at each schema node, since which union branch
// was selected (and therefore which logical type, if any, applies) is
// only known while the schema and the decoded JSON value are walked
// together. A conversion implementing logical.DirectJSONCodec is handed
// the raw JSON value directly, ahead of and instead of the base-type
// switch below, since its JSON shape (a bare number for decimal, inline
// JSON for any) isn't the base type's own.
func (rd *Reader) readJSONValue(raw interface{}, s schema.Schema) (interface{}, error) {
	if lt := s.Logical(); lt != nil {
		if conv, ok := rd.model.logical.Lookup(lt.Name); ok {
			if direct, ok := conv.(logical.DirectJSONCodec); ok {
				return direct.DecodeJSON(raw, lt.Props, &jsonCodecAdapter{rd: rd, wr: NewWriter(rd.model)})
			}
		}
	}

	switch st := s.(type) {
	case *schema.PrimitiveSchema:
		base, err := decodeJSONPrimitive(raw, st.Type())
		if err != nil {
			return nil, err
		}
		return rd.applyLogical(base, s)

	case *schema.FixedSchema:
		str, ok := raw.(string)
		if !ok {
			return nil, &jsoncodec.TypeMismatchError{Expected: "fixed", Got: jsonKind(raw)}
		}
		b, err := jsoncodec.BytesFromJSONString(str)
		if err != nil {
			return nil, err
		}
		if len(b) != st.Size() {
			return nil, &jsoncodec.TypeMismatchError{Expected: "fixed of declared size", Got: "wrong length"}
		}
		return rd.applyLogical(b, s)

	case *schema.EnumSchema:
		sym, ok := raw.(string)
		if !ok {
			return nil, &jsoncodec.TypeMismatchError{Expected: "enum symbol string", Got: jsonKind(raw)}
		}
		if st.IndexOf(sym) < 0 {
			return nil, &jsoncodec.UnionBranchError{Reason: "unknown enum symbol " + sym}
		}
		return rd.applyLogical(sym, s)

	case *schema.ArraySchema:
		arr, ok := raw.([]interface{})
		if !ok {
			return nil, &jsoncodec.TypeMismatchError{Expected: "array", Got: jsonKind(raw)}
		}
		out := make([]interface{}, len(arr))
		for i, item := range arr {
			v, err := rd.readJSONValue(item, st.Items())
			if err != nil {
				return nil, err
			}
			out[i] = v
		}
		return rd.applyLogical(out, s)

	case *schema.MapSchema:
		m, ok := raw.(map[string]interface{})
		if !ok {
			return nil, &jsoncodec.TypeMismatchError{Expected: "map", Got: jsonKind(raw)}
		}
		out := make(map[string]interface{}, len(m))
		for k, v := range m {
			dv, err := rd.readJSONValue(v, st.Values())
			if err != nil {
				return nil, err
			}
			out[k] = dv
		}
		return rd.applyLogical(out, s)

	case *schema.UnionSchema:
		if raw == nil {
			if st.NullIndex() < 0 {
				return nil, &jsoncodec.UnionBranchError{Reason: "null is not a member of this union"}
			}
			return nil, nil
		}
		obj, ok := raw.(map[string]interface{})
		if !ok || len(obj) != 1 {
			return nil, &jsoncodec.UnionBranchError{Reason: "non-null union value must be a single-key {label: value} object"}
		}
		var label string
		var value interface{}
		for k, v := range obj {
			label, value = k, v
		}
		for _, branch := range st.Types() {
			if unionBranchLabel(branch) == label {
				return rd.readJSONValue(value, branch)
			}
		}
		return nil, &jsoncodec.UnionBranchError{Reason: "no union branch named " + label}

	case *schema.RecordSchema:
		obj, ok := raw.(map[string]interface{})
		if !ok {
			return nil, &jsoncodec.TypeMismatchError{Expected: "record object", Got: jsonKind(raw)}
		}
		out := make(map[string]interface{}, len(st.Fields()))
		seen := make(map[string]bool, len(obj))
		for _, f := range st.Fields() {
			v, present := obj[f.Name]
			if !present {
				if !f.HasDefault {
					return nil, &jsoncodec.MissingFieldError{Record: st.FullName(), Field: f.Name}
				}
				dv, err := rd.readJSONDefault(f.Default, f.Schema)
				if err != nil {
					return nil, err
				}
				out[f.Name] = dv
				continue
			}
			seen[f.Name] = true
			dv, err := rd.readJSONValue(v, f.Schema)
			if err != nil {
				return nil, err
			}
			out[f.Name] = dv
		}
		if !rd.model.lenient {
			for k := range obj {
				if !seen[k] {
					return nil, &jsoncodec.UnknownFieldError{Record: st.FullName(), Field: k}
				}
			}
		}
		return rd.applyLogical(out, s)

	default:
		return nil, &jsoncodec.TypeMismatchError{Expected: "known schema kind", Got: "unsupported"}
	}
}

func (rd *Reader) readJSONDefault(raw interface{}, s schema.Schema) (interface{}, error) {
	if u, ok := s.(*schema.UnionSchema); ok {
		branches := u.Types()
		if len(branches) == 0 {
			return nil, &jsoncodec.UnionBranchError{Reason: "empty union has no default branch"}
		}
		return rd.readJSONValue(raw, branches[0])
	}
	return rd.readJSONValue(raw, s)
}

func decodeJSONPrimitive(raw interface{}, t schema.Type) (interface{}, error) {
	switch t {
	case schema.Null:
		if raw != nil {
			return nil, &jsoncodec.TypeMismatchError{Expected: "null", Got: jsonKind(raw)}
		}
		return nil, nil
	case schema.Boolean:
		b, ok := raw.(bool)
		if !ok {
			return nil, &jsoncodec.TypeMismatchError{Expected: "boolean", Got: jsonKind(raw)}
		}
		return b, nil
	case schema.Int:
		n, ok := raw.(float64)
		if !ok {
			return nil, &jsoncodec.TypeMismatchError{Expected: "int", Got: jsonKind(raw)}
		}
		return int32(n), nil
	case schema.Long:
		n, ok := raw.(float64)
		if !ok {
			return nil, &jsoncodec.TypeMismatchError{Expected: "long", Got: jsonKind(raw)}
		}
		return int64(n), nil
	case schema.Float:
		n, ok := raw.(float64)
		if !ok {
			return nil, &jsoncodec.TypeMismatchError{Expected: "float", Got: jsonKind(raw)}
		}
		return float32(n), nil
	case schema.Double:
		n, ok := raw.(float64)
		if !ok {
			return nil, &jsoncodec.TypeMismatchError{Expected: "double", Got: jsonKind(raw)}
		}
		return n, nil
	case schema.Bytes:
		s, ok := raw.(string)
		if !ok {
			return nil, &jsoncodec.TypeMismatchError{Expected: "bytes", Got: jsonKind(raw)}
		}
		return jsoncodec.BytesFromJSONString(s)
	case schema.String:
		s, ok := raw.(string)
		if !ok {
			return nil, &jsoncodec.TypeMismatchError{Expected: "string", Got: jsonKind(raw)}
		}
		return s, nil
	default:
		return nil, &jsoncodec.TypeMismatchError{Expected: "primitive", Got: jsonKind(raw)}
	}
}

func unionBranchLabel(s schema.Schema) string {
	if named, ok := s.(schema.NamedSchema); ok {
		return named.Name()
	}
	return string(s.Type())
}

func jsonKind(raw interface{}) string {
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
