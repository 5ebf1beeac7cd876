package datum

import (
	"github.com/kirovets/avro/pkg/codec"
	"github.com/kirovets/avro/pkg/grammar"
	"github.com/kirovets/avro/pkg/jsoncodec"
	"github.com/kirovets/avro/pkg/parser"
	"github.com/kirovets/avro/pkg/schema"
)

// writeBinaryValue mirrors readBinaryValue's grammar-driven traversal on
// the write side: the schema tree picks the Go shape to expect and which
// union branch a value belongs in (findWriteBranch), while eng advances
// the same compiled identity grammar one terminal at a time.
func (wr *Writer) writeBinaryValue(bw *codec.BinaryWriter, eng *parser.Engine, value interface{}, s schema.Schema, sym *grammar.Symbol) error {
	switch st := s.(type) {
	case *schema.PrimitiveSchema:
		if _, err := eng.Advance(sym); err != nil {
			return err
		}
		wire, err := wr.toWire(value, s)
		if err != nil {
			return err
		}
		return writeBinaryPrimitive(bw, wire, st.Type())

	case *schema.FixedSchema:
		if _, err := eng.Advance(sym); err != nil {
			return err
		}
		wire, err := wr.toWire(value, s)
		if err != nil {
			return err
		}
		buf, ok := wire.([]byte)
		if !ok {
			return &jsoncodec.TypeMismatchError{Expected: "[]byte for fixed", Got: "other"}
		}
		if len(buf) != st.Size() {
			return &jsoncodec.TypeMismatchError{Expected: "fixed of declared size", Got: "wrong length"}
		}
		return bw.WriteFixed(buf)

	case *schema.EnumSchema:
		if _, err := eng.Advance(sym); err != nil {
			return err
		}
		wire, err := wr.toWire(value, s)
		if err != nil {
			return err
		}
		enumSym, ok := wire.(string)
		if !ok {
			return &jsoncodec.TypeMismatchError{Expected: "string for enum", Got: "other"}
		}
		idx := st.IndexOf(enumSym)
		if idx < 0 {
			return &jsoncodec.UnionBranchError{Reason: "unknown enum symbol " + enumSym}
		}
		return bw.WriteInt(int32(idx))

	case *schema.ArraySchema:
		if _, err := eng.Advance(sym.Production[0]); err != nil {
			return err
		}
		repeaterSym := sym.Production[1]
		itemSym := repeaterSym.Production[0]
		wire, err := wr.toWire(value, s)
		if err != nil {
			return err
		}
		arr, ok := wire.([]interface{})
		if !ok {
			return &jsoncodec.TypeMismatchError{Expected: "[]interface{} for array", Got: "other"}
		}
		if len(arr) > 0 {
			if err := bw.WriteBlockCount(int64(len(arr))); err != nil {
				return err
			}
			for _, item := range arr {
				if err := eng.PopRepeater(); err != nil {
					return err
				}
				if err := wr.writeBinaryValue(bw, eng, item, st.Items(), itemSym); err != nil {
					return err
				}
			}
		}
		if err := eng.EndRepeater(); err != nil {
			return err
		}
		if err := bw.WriteBlockEnd(); err != nil {
			return err
		}
		_, err = eng.Advance(sym.Production[2])
		return err

	case *schema.MapSchema:
		if _, err := eng.Advance(sym.Production[0]); err != nil {
			return err
		}
		repeaterSym := sym.Production[1]
		valueSym := repeaterSym.Production[0]
		wire, err := wr.toWire(value, s)
		if err != nil {
			return err
		}
		m, ok := wire.(map[string]interface{})
		if !ok {
			return &jsoncodec.TypeMismatchError{Expected: "map[string]interface{} for map", Got: "other"}
		}
		if len(m) > 0 {
			if err := bw.WriteBlockCount(int64(len(m))); err != nil {
				return err
			}
			for k, v := range m {
				if err := eng.PopRepeater(); err != nil {
					return err
				}
				if err := bw.WriteString(k); err != nil {
					return err
				}
				if err := wr.writeBinaryValue(bw, eng, v, st.Values(), valueSym); err != nil {
					return err
				}
			}
		}
		if err := eng.EndRepeater(); err != nil {
			return err
		}
		if err := bw.WriteBlockEnd(); err != nil {
			return err
		}
		_, err = eng.Advance(sym.Production[2])
		return err

	case *schema.UnionSchema:
		alt, err := eng.Union()
		if err != nil {
			return err
		}
		if value == nil {
			idx := st.NullIndex()
			if idx < 0 {
				return &jsoncodec.UnionBranchError{Reason: "null is not a member of this union"}
			}
			if err := bw.WriteInt(int32(idx)); err != nil {
				return err
			}
			eng.PushSymbol(alt.Symbols[idx])
			return wr.writeBinaryValue(bw, eng, value, st.Types()[idx], alt.Symbols[idx])
		}
		branch, ok := findWriteBranch(value, st)
		if !ok {
			return &jsoncodec.UnionBranchError{Reason: "no union branch matches the Go value's shape"}
		}
		idx := -1
		for i, t := range st.Types() {
			if t == branch {
				idx = i
				break
			}
		}
		if err := bw.WriteInt(int32(idx)); err != nil {
			return err
		}
		branchSym := alt.Symbols[idx]
		eng.PushSymbol(branchSym)
		return wr.writeBinaryValue(bw, eng, value, branch, branchSym)

	case *schema.RecordSchema:
		if _, err := eng.Advance(sym.Production[0]); err != nil {
			return err
		}
		wire, err := wr.toWire(value, s)
		if err != nil {
			return err
		}
		m, ok := wire.(map[string]interface{})
		if !ok {
			return &jsoncodec.TypeMismatchError{Expected: "map[string]interface{} for record", Got: "other"}
		}
		for i, f := range st.Fields() {
			fieldSym := sym.Production[1+i]
			v, present := m[f.Name]
			if !present {
				if !f.HasDefault {
					return &jsoncodec.MissingFieldError{Record: st.FullName(), Field: f.Name}
				}
				v = nil
			}
			if err := wr.writeBinaryValue(bw, eng, v, f.Schema, fieldSym); err != nil {
				return err
			}
		}
		_, err = eng.Advance(sym.Production[len(sym.Production)-1])
		return err

	default:
		return &jsoncodec.TypeMismatchError{Expected: "known schema kind", Got: "unsupported"}
	}
}

func writeBinaryPrimitive(bw *codec.BinaryWriter, value interface{}, t schema.Type) error {
	switch t {
	case schema.Null:
		return nil
	case schema.Boolean:
		v, ok := value.(bool)
		if !ok {
			return &jsoncodec.TypeMismatchError{Expected: "bool", Got: "other"}
		}
		return bw.WriteBoolean(v)
	case schema.Int:
		v, ok := toInt32(value)
		if !ok {
			return &jsoncodec.TypeMismatchError{Expected: "int-compatible value", Got: "other"}
		}
		return bw.WriteInt(v)
	case schema.Long:
		v, ok := toInt64(value)
		if !ok {
			return &jsoncodec.TypeMismatchError{Expected: "long-compatible value", Got: "other"}
		}
		return bw.WriteLong(v)
	case schema.Float:
		v, ok := toFloat32(value)
		if !ok {
			return &jsoncodec.TypeMismatchError{Expected: "float-compatible value", Got: "other"}
		}
		return bw.WriteFloat(v)
	case schema.Double:
		v, ok := toFloat64(value)
		if !ok {
			return &jsoncodec.TypeMismatchError{Expected: "double-compatible value", Got: "other"}
		}
		return bw.WriteDouble(v)
	case schema.Bytes:
		v, ok := value.([]byte)
		if !ok {
			if s, ok := value.(string); ok {
				v = []byte(s)
			} else {
				return &jsoncodec.TypeMismatchError{Expected: "[]byte", Got: "other"}
			}
		}
		return bw.WriteBytes(v)
	case schema.String:
		v, ok := value.(string)
		if !ok {
			return &jsoncodec.TypeMismatchError{Expected: "string", Got: "other"}
		}
		return bw.WriteString(v)
	default:
		return &jsoncodec.TypeMismatchError{Expected: "primitive", Got: string(t)}
	}
}

func toInt32(v interface{}) (int32, bool) {
	switch n := v.(type) {
	case int32:
		return n, true
	case int:
		return int32(n), true
	case int64:
		return int32(n), true
	default:
		return 0, false
	}
}

func toInt64(v interface{}) (int64, bool) {
	switch n := v.(type) {
	case int64:
		return n, true
	case int32:
		return int64(n), true
	case int:
		return int64(n), true
	default:
		return 0, false
	}
}

func toFloat32(v interface{}) (float32, bool) {
	switch n := v.(type) {
	case float32:
		return n, true
	case float64:
		return float32(n), true
	case int32:
		return float32(n), true
	case int64:
		return float32(n), true
	default:
		return 0, false
	}
}

func toFloat64(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}
