package datum

import (
	"github.com/kirovets/avro/pkg/codec"
	"github.com/kirovets/avro/pkg/grammar"
	"github.com/kirovets/avro/pkg/jsoncodec"
	"github.com/kirovets/avro/pkg/parser"
	"github.com/kirovets/avro/pkg/schema"
)

// identityCache holds the plain grammars apart from grammar.Default(), which
// holds ReadBinaryResolving's plans: both are keyed by the (writer, reader)
// fingerprint pair, and resolving s against a schema with the same
// canonical form uses the same (s, s) key as the identity path.
var identityCache = grammar.NewCache()

// identityGrammar returns the (cached) plain, non-resolving grammar for
// reading or writing s against itself.
func identityGrammar(s schema.Schema) (*grammar.Symbol, error) {
	return identityCache.GetOrCompile(s, s, func() (*grammar.Symbol, error) {
		return grammar.Compile(s), nil
	})
}

// readBinaryValue walks s and, in lockstep, the matching node of the
// compiled identity grammar (sym), advancing eng one terminal at a time.
// The schema tree still drives which Go shape to assemble (field names,
// logical type application); the engine's job is to check that traversal
// against the compiled grammar and to catch a schema/grammar mismatch as a
// parser error instead of a silent miscount.
func (rd *Reader) readBinaryValue(br *codec.BinaryReader, eng *parser.Engine, s schema.Schema, sym *grammar.Symbol) (interface{}, error) {
	switch st := s.(type) {
	case *schema.PrimitiveSchema:
		if _, err := eng.Advance(sym); err != nil {
			return nil, err
		}
		base, err := readBinaryPrimitive(br, st.Type())
		if err != nil {
			return nil, err
		}
		return rd.applyLogical(base, s)

	case *schema.FixedSchema:
		if _, err := eng.Advance(sym); err != nil {
			return nil, err
		}
		buf := make([]byte, st.Size())
		if err := br.ReadFixed(buf); err != nil {
			return nil, err
		}
		return rd.applyLogical(buf, s)

	case *schema.EnumSchema:
		if _, err := eng.Advance(sym); err != nil {
			return nil, err
		}
		idx, err := br.ReadInt()
		if err != nil {
			return nil, err
		}
		syms := st.Symbols()
		if int(idx) < 0 || int(idx) >= len(syms) {
			return nil, &jsoncodec.UnionBranchError{Reason: "enum index out of range"}
		}
		return rd.applyLogical(syms[idx], s)

	case *schema.ArraySchema:
		if _, err := eng.Advance(sym.Production[0]); err != nil {
			return nil, err
		}
		repeaterSym := sym.Production[1]
		itemSym := repeaterSym.Production[0]
		out := []interface{}{}
		for {
			count, _, err := br.ReadBlockCount()
			if err != nil {
				return nil, err
			}
			if count == 0 {
				if err := eng.EndRepeater(); err != nil {
					return nil, err
				}
				break
			}
			for i := int64(0); i < count; i++ {
				if err := eng.PopRepeater(); err != nil {
					return nil, err
				}
				v, err := rd.readBinaryValue(br, eng, st.Items(), itemSym)
				if err != nil {
					return nil, err
				}
				out = append(out, v)
			}
		}
		if _, err := eng.Advance(sym.Production[2]); err != nil {
			return nil, err
		}
		return rd.applyLogical(out, s)

	case *schema.MapSchema:
		if _, err := eng.Advance(sym.Production[0]); err != nil {
			return nil, err
		}
		repeaterSym := sym.Production[1]
		valueSym := repeaterSym.Production[0]
		out := map[string]interface{}{}
		for {
			count, _, err := br.ReadBlockCount()
			if err != nil {
				return nil, err
			}
			if count == 0 {
				if err := eng.EndRepeater(); err != nil {
					return nil, err
				}
				break
			}
			for i := int64(0); i < count; i++ {
				if err := eng.PopRepeater(); err != nil {
					return nil, err
				}
				key, err := br.ReadString()
				if err != nil {
					return nil, err
				}
				v, err := rd.readBinaryValue(br, eng, st.Values(), valueSym)
				if err != nil {
					return nil, err
				}
				out[key] = v
			}
		}
		if _, err := eng.Advance(sym.Production[2]); err != nil {
			return nil, err
		}
		return rd.applyLogical(out, s)

	case *schema.UnionSchema:
		idx, err := br.ReadInt()
		if err != nil {
			return nil, err
		}
		types := st.Types()
		if int(idx) < 0 || int(idx) >= len(types) {
			return nil, &jsoncodec.UnionBranchError{Reason: "union index out of range"}
		}
		alt, err := eng.Union()
		if err != nil {
			return nil, err
		}
		branchSym := alt.Symbols[idx]
		eng.PushSymbol(branchSym)
		return rd.readBinaryValue(br, eng, types[idx], branchSym)

	case *schema.RecordSchema:
		if _, err := eng.Advance(sym.Production[0]); err != nil {
			return nil, err
		}
		out := make(map[string]interface{}, len(st.Fields()))
		for i, f := range st.Fields() {
			fieldSym := sym.Production[1+i]
			v, err := rd.readBinaryValue(br, eng, f.Schema, fieldSym)
			if err != nil {
				return nil, err
			}
			out[f.Name] = v
		}
		if _, err := eng.Advance(sym.Production[len(sym.Production)-1]); err != nil {
			return nil, err
		}
		return rd.applyLogical(out, s)

	default:
		return nil, &jsoncodec.TypeMismatchError{Expected: "known schema kind", Got: "unsupported"}
	}
}

func readBinaryPrimitive(br *codec.BinaryReader, t schema.Type) (interface{}, error) {
	switch t {
	case schema.Null:
		return nil, nil
	case schema.Boolean:
		return br.ReadBoolean()
	case schema.Int:
		v, err := br.ReadLong()
		return int32(v), err
	case schema.Long:
		return br.ReadLong()
	case schema.Float:
		return br.ReadFloat()
	case schema.Double:
		return br.ReadDouble()
	case schema.Bytes:
		return br.ReadBytes()
	case schema.String:
		return br.ReadString()
	default:
		return nil, &jsoncodec.TypeMismatchError{Expected: "primitive", Got: string(t)}
	}
}
