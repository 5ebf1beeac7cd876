package datum

import (
	"encoding/json"

	"github.com/kirovets/avro/pkg/codec"
	"github.com/kirovets/avro/pkg/grammar"
	"github.com/kirovets/avro/pkg/jsoncodec"
	"github.com/kirovets/avro/pkg/resolution"
	"github.com/kirovets/avro/pkg/schema"
)

// readResolvingValue walks a resolution.Resolve grammar directly (no
// parser.Engine involved, per the resolving-path architecture: the tree
// already encodes every decision statically, so a plain recursive descent
// is sufficient and considerably simpler to get right than driving it
// through the generic stack machine). readerSchema supplies the logical
// type annotations that apply to the assembled value, since the plan's
// Symbol nodes only carry resolution bookkeeping.
func (rd *Reader) readResolvingValue(br *codec.BinaryReader, plan *grammar.Symbol, readerSchema schema.Schema) (interface{}, error) {
	switch data := plan.Data.(type) {
	case *resolution.PromotionData:
		base, err := readBinaryPrimitive(br, data.WriterType)
		if err != nil {
			return nil, err
		}
		promoted := promote(base, data.WriterType, data.ReaderType)
		return rd.applyLogical(promoted, readerSchema)

	case *resolution.FixedMatchData:
		buf := make([]byte, data.Size)
		if err := br.ReadFixed(buf); err != nil {
			return nil, err
		}
		return rd.applyLogical(buf, readerSchema)

	case *grammar.EnumAdjustActionData:
		idx, err := br.ReadInt()
		if err != nil {
			return nil, err
		}
		if int(idx) < 0 || int(idx) >= len(data.Mapping) {
			return nil, &jsoncodec.UnionBranchError{Reason: "writer enum ordinal out of range"}
		}
		readerOrdinal := data.Mapping[idx]
		if readerOrdinal < 0 {
			if !data.HasDefault {
				return nil, &jsoncodec.UnionBranchError{Reason: "writer enum symbol has no reader counterpart or default"}
			}
			readerOrdinal = data.DefaultOrdinal
		}
		re, ok := readerSchema.(*schema.EnumSchema)
		if !ok {
			return nil, &jsoncodec.TypeMismatchError{Expected: "enum reader schema", Got: string(readerSchema.Type())}
		}
		return rd.applyLogical(re.Symbols()[readerOrdinal], readerSchema)

	case *grammar.RepeaterData:
		itemPlan := plan.Production[0]
		var itemReaderSchema schema.Schema
		switch rs := readerSchema.(type) {
		case *schema.ArraySchema:
			itemReaderSchema = rs.Items()
		case *schema.MapSchema:
			itemReaderSchema = rs.Values()
		}
		if data.IsItem {
			out := []interface{}{}
			for {
				count, _, err := br.ReadBlockCount()
				if err != nil {
					return nil, err
				}
				if count == 0 {
					break
				}
				for i := int64(0); i < count; i++ {
					v, err := rd.readResolvingValue(br, itemPlan, itemReaderSchema)
					if err != nil {
						return nil, err
					}
					out = append(out, v)
				}
			}
			return rd.applyLogical(out, readerSchema)
		}
		out := map[string]interface{}{}
		for {
			count, _, err := br.ReadBlockCount()
			if err != nil {
				return nil, err
			}
			if count == 0 {
				break
			}
			for i := int64(0); i < count; i++ {
				key, err := br.ReadString()
				if err != nil {
					return nil, err
				}
				v, err := rd.readResolvingValue(br, itemPlan, itemReaderSchema)
				if err != nil {
					return nil, err
				}
				out[key] = v
			}
		}
		return rd.applyLogical(out, readerSchema)

	case *grammar.UnionAdjustActionData:
		idx, err := br.ReadInt()
		if err != nil {
			return nil, err
		}
		if int(idx) < 0 || int(idx) >= len(data.Mapping) {
			return nil, &jsoncodec.UnionBranchError{Reason: "writer union index out of range"}
		}
		return rd.readResolvingValue(br, data.Mapping[idx], readerSchema)

	default:
		// Record: plan.Production is [RecordStart, field actions..., RecordEnd].
		if plan.Kind == grammar.NonTerminal && len(plan.Production) >= 2 {
			return rd.readResolvingRecord(br, plan, readerSchema)
		}
		return nil, &jsoncodec.TypeMismatchError{Expected: "resolvable grammar node", Got: "unrecognized"}
	}
}

func (rd *Reader) readResolvingRecord(br *codec.BinaryReader, plan *grammar.Symbol, readerSchema schema.Schema) (interface{}, error) {
	rs, ok := readerSchema.(*schema.RecordSchema)
	if !ok {
		return nil, &jsoncodec.TypeMismatchError{Expected: "record reader schema", Got: string(readerSchema.Type())}
	}
	out := make(map[string]interface{}, len(rs.Fields()))

	for _, action := range plan.Production[1 : len(plan.Production)-1] {
		switch data := action.Data.(type) {
		case *grammar.SkipActionData:
			if err := skipResolvingValue(br, data.WriterSymbol); err != nil {
				return nil, err
			}
		case *grammar.FieldAdjustActionData:
			if data.HasDefault {
				fieldSchema := rs.Fields()[data.Position].Schema
				v, err := materializeDefault(data.Default, fieldSchema, rd)
				if err != nil {
					return nil, err
				}
				out[data.FieldName] = v
				continue
			}
			fieldSchema := rs.Fields()[data.Position].Schema
			sub := action.Production[0]
			v, err := rd.readResolvingValue(br, sub, fieldSchema)
			if err != nil {
				return nil, err
			}
			out[data.FieldName] = v
		}
	}
	return rd.applyLogical(out, readerSchema)
}

// skipResolvingValue discards a writer-only field's wire bytes without
// materializing a value, using the writer field's schema resolved against
// itself (the SkipActionData's WriterSymbol) as the shape guide.
func skipResolvingValue(br *codec.BinaryReader, writerSymbol *grammar.Symbol) error {
	switch data := writerSymbol.Data.(type) {
	case *resolution.PromotionData:
		_, err := readBinaryPrimitive(br, data.WriterType)
		return err
	case *resolution.FixedMatchData:
		return br.SkipBytes(int64(data.Size))
	case *grammar.EnumAdjustActionData:
		_, err := br.ReadInt()
		return err
	case *grammar.RepeaterData:
		for {
			count, byteSize, err := br.ReadBlockCount()
			if err != nil {
				return err
			}
			if count == 0 {
				return nil
			}
			if byteSize > 0 {
				if err := br.SkipBytes(byteSize); err != nil {
					return err
				}
				continue
			}
			itemPlan := writerSymbol.Production[0]
			for i := int64(0); i < count; i++ {
				if !data.IsItem {
					if _, err := br.ReadString(); err != nil {
						return err
					}
				}
				if err := skipResolvingValue(br, itemPlan); err != nil {
					return err
				}
			}
		}
	case *grammar.UnionAdjustActionData:
		idx, err := br.ReadInt()
		if err != nil {
			return err
		}
		if int(idx) < 0 || int(idx) >= len(data.Mapping) {
			return &jsoncodec.UnionBranchError{Reason: "writer union index out of range during skip"}
		}
		return skipResolvingValue(br, data.Mapping[idx])
	default:
		if writerSymbol.Kind == grammar.NonTerminal && len(writerSymbol.Production) >= 2 {
			for _, action := range writerSymbol.Production[1 : len(writerSymbol.Production)-1] {
				if _, ok := action.Data.(*grammar.FieldAdjustActionData); !ok {
					continue
				}
				if err := skipResolvingValue(br, action.Production[0]); err != nil {
					return err
				}
			}
			return nil
		}
		return &jsoncodec.TypeMismatchError{Expected: "resolvable grammar node", Got: "unrecognized during skip"}
	}
}

// materializeDefault decodes a field's schema-declared JSON default value
// (captured once at resolve time) the same way the JSON codec would.
func materializeDefault(raw json.RawMessage, fieldSchema schema.Schema, rd *Reader) (interface{}, error) {
	var v interface{}
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, err
	}
	if u, ok := fieldSchema.(*schema.UnionSchema); ok {
		branches := u.Types()
		if len(branches) == 0 {
			return nil, &jsoncodec.UnionBranchError{Reason: "empty union has no default branch"}
		}
		decoded, err := rd.readJSONValue(v, branches[0])
		return decoded, err
	}
	return rd.readJSONValue(v, fieldSchema)
}

// promote widens a decoded writer-typed primitive value to the reader's
// promoted type (int->long/float/double, long->float/double,
// float->double, string<->bytes).
func promote(base interface{}, from, to schema.Type) interface{} {
	if from == to {
		return base
	}
	switch v := base.(type) {
	case int32:
		switch to {
		case schema.Long:
			return int64(v)
		case schema.Float:
			return float32(v)
		case schema.Double:
			return float64(v)
		}
	case int64:
		switch to {
		case schema.Float:
			return float32(v)
		case schema.Double:
			return float64(v)
		}
	case float32:
		if to == schema.Double {
			return float64(v)
		}
	case string:
		if to == schema.Bytes {
			return []byte(v)
		}
	case []byte:
		if to == schema.String {
			return string(v)
		}
	}
	return base
}
