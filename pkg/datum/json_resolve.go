package datum

import (
	"github.com/kirovets/avro/pkg/jsoncodec"
	"github.com/kirovets/avro/pkg/logical"
	"github.com/kirovets/avro/pkg/resolution"
	"github.com/kirovets/avro/pkg/schema"
)

// readResolvingJSONValue walks a (writer, reader) schema pair against one
// parsed JSON value the way pkg/resolution's compiled Symbol plan walks a
// binary stream: reader-only fields materialize from their declared
// default, writer-only fields are dropped, and primitive/enum/fixed/union
// mismatches are checked against reader's declarations before the value is
// decoded. There is no wire-order sequence to compile a grammar against
// here — a JSON object already names every field by key — so this
// recurses directly over the schema pair instead of building a plan once
// and replaying it, unlike ReadBinaryResolving.
func (rd *Reader) readResolvingJSONValue(raw interface{}, writer, reader schema.Schema) (interface{}, error) {
	if ru, ok := reader.(*schema.UnionSchema); ok {
		if _, writerIsUnion := writer.(*schema.UnionSchema); !writerIsUnion {
			branch, ok := findJSONCompatibleBranch(writer, ru)
			if !ok {
				return nil, &resolution.MismatchError{WriterType: string(writer.Type()), ReaderType: "union", Reason: "no compatible reader branch"}
			}
			return rd.readResolvingJSONValue(raw, writer, branch)
		}
	}

	if lt := reader.Logical(); lt != nil {
		if conv, ok := rd.model.logical.Lookup(lt.Name); ok {
			if direct, ok := conv.(logical.DirectJSONCodec); ok {
				return direct.DecodeJSON(raw, lt.Props, &jsonCodecAdapter{rd: rd, wr: NewWriter(rd.model)})
			}
		}
	}

	switch wt := writer.(type) {
	case *schema.UnionSchema:
		return rd.readResolvingUnionJSON(raw, wt, reader)

	case *schema.RecordSchema:
		rr, ok := reader.(*schema.RecordSchema)
		if !ok {
			return nil, &resolution.MismatchError{WriterType: "record", ReaderType: string(reader.Type()), Reason: "reader is not a record"}
		}
		return rd.readResolvingRecordJSON(raw, wt, rr)

	case *schema.EnumSchema:
		re, ok := reader.(*schema.EnumSchema)
		if !ok {
			return nil, &resolution.MismatchError{WriterType: "enum", ReaderType: string(reader.Type()), Reason: "reader is not an enum"}
		}
		sym, ok := raw.(string)
		if !ok {
			return nil, &jsoncodec.TypeMismatchError{Expected: "enum symbol string", Got: jsonKind(raw)}
		}
		if wt.IndexOf(sym) < 0 {
			return nil, &jsoncodec.UnionBranchError{Reason: "unknown enum symbol " + sym}
		}
		if re.IndexOf(sym) < 0 {
			def, hasDefault := re.Default()
			if !hasDefault {
				return nil, &resolution.MismatchError{WriterType: "enum:" + wt.FullName(), ReaderType: "enum:" + re.FullName(), Reason: "symbol " + sym + " not in reader and reader has no default"}
			}
			sym = def
		}
		return rd.applyLogical(sym, reader)

	case *schema.FixedSchema:
		rf, ok := reader.(*schema.FixedSchema)
		if !ok {
			return nil, &resolution.MismatchError{WriterType: "fixed", ReaderType: string(reader.Type()), Reason: "reader is not fixed"}
		}
		if rf.FullName() != wt.FullName() || rf.Size() != wt.Size() {
			return nil, &resolution.MismatchError{WriterType: "fixed:" + wt.FullName(), ReaderType: "fixed:" + rf.FullName(), Reason: "name or size mismatch"}
		}
		str, ok := raw.(string)
		if !ok {
			return nil, &jsoncodec.TypeMismatchError{Expected: "fixed", Got: jsonKind(raw)}
		}
		b, err := jsoncodec.BytesFromJSONString(str)
		if err != nil {
			return nil, err
		}
		if len(b) != rf.Size() {
			return nil, &jsoncodec.TypeMismatchError{Expected: "fixed of declared size", Got: "wrong length"}
		}
		return rd.applyLogical(b, reader)

	case *schema.ArraySchema:
		ra, ok := reader.(*schema.ArraySchema)
		if !ok {
			return nil, &resolution.MismatchError{WriterType: "array", ReaderType: string(reader.Type()), Reason: "reader is not an array"}
		}
		arr, ok := raw.([]interface{})
		if !ok {
			return nil, &jsoncodec.TypeMismatchError{Expected: "array", Got: jsonKind(raw)}
		}
		out := make([]interface{}, len(arr))
		for i, item := range arr {
			v, err := rd.readResolvingJSONValue(item, wt.Items(), ra.Items())
			if err != nil {
				return nil, err
			}
			out[i] = v
		}
		return rd.applyLogical(out, reader)

	case *schema.MapSchema:
		rm, ok := reader.(*schema.MapSchema)
		if !ok {
			return nil, &resolution.MismatchError{WriterType: "map", ReaderType: string(reader.Type()), Reason: "reader is not a map"}
		}
		m, ok := raw.(map[string]interface{})
		if !ok {
			return nil, &jsoncodec.TypeMismatchError{Expected: "map", Got: jsonKind(raw)}
		}
		out := make(map[string]interface{}, len(m))
		for k, v := range m {
			dv, err := rd.readResolvingJSONValue(v, wt.Values(), rm.Values())
			if err != nil {
				return nil, err
			}
			out[k] = dv
		}
		return rd.applyLogical(out, reader)

	case *schema.PrimitiveSchema:
		rp, ok := reader.(*schema.PrimitiveSchema)
		if !ok {
			return nil, &resolution.MismatchError{WriterType: string(wt.Type()), ReaderType: string(reader.Type()), Reason: "reader is not primitive"}
		}
		if !resolution.CanPromote(wt.Type(), rp.Type()) {
			return nil, &resolution.MismatchError{WriterType: string(wt.Type()), ReaderType: string(rp.Type()), Reason: "no promotion path"}
		}
		base, err := decodeJSONPrimitive(raw, rp.Type())
		if err != nil {
			return nil, err
		}
		return rd.applyLogical(base, reader)

	default:
		return nil, &resolution.MismatchError{WriterType: string(writer.Type()), ReaderType: string(reader.Type()), Reason: "unsupported schema node"}
	}
}

func (rd *Reader) readResolvingUnionJSON(raw interface{}, wu *schema.UnionSchema, reader schema.Schema) (interface{}, error) {
	if raw == nil {
		if wu.NullIndex() < 0 {
			return nil, &jsoncodec.UnionBranchError{Reason: "null is not a member of the writer union"}
		}
		if ru, ok := reader.(*schema.UnionSchema); ok && ru.NullIndex() < 0 {
			return nil, &resolution.MismatchError{WriterType: "null", ReaderType: "union", Reason: "no compatible reader branch"}
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
	for _, wb := range wu.Types() {
		if unionBranchLabel(wb) != label {
			continue
		}
		target := reader
		if ru, ok := reader.(*schema.UnionSchema); ok {
			branch, ok := findJSONCompatibleBranch(wb, ru)
			if !ok {
				return nil, &resolution.MismatchError{WriterType: string(wb.Type()), ReaderType: "union", Reason: "no compatible reader branch for writer union member"}
			}
			target = branch
		}
		return rd.readResolvingJSONValue(value, wb, target)
	}
	return nil, &jsoncodec.UnionBranchError{Reason: "no writer union branch named " + label}
}

func (rd *Reader) readResolvingRecordJSON(raw interface{}, wt, rt *schema.RecordSchema) (interface{}, error) {
	obj, ok := raw.(map[string]interface{})
	if !ok {
		return nil, &jsoncodec.TypeMismatchError{Expected: "record object", Got: jsonKind(raw)}
	}

	out := make(map[string]interface{}, len(rt.Fields()))
	readerUsed := make([]bool, len(rt.Fields()))
	declared := make(map[string]bool, len(wt.Fields()))

	for _, wf := range wt.Fields() {
		declared[wf.Name] = true
		fieldRaw, present := obj[wf.Name]
		if !present {
			return nil, &jsoncodec.MissingFieldError{Record: wt.FullName(), Field: wf.Name}
		}
		idx, rf := findResolvingReaderField(rt, wf.Name)
		if rf == nil {
			// Writer-only field: legitimate under schema evolution, dropped.
			continue
		}
		readerUsed[idx] = true
		v, err := rd.readResolvingJSONValue(fieldRaw, wf.Schema, rf.Schema)
		if err != nil {
			return nil, err
		}
		out[rf.Name] = v
	}

	if !rd.model.lenient {
		for k := range obj {
			if !declared[k] {
				return nil, &jsoncodec.UnknownFieldError{Record: wt.FullName(), Field: k}
			}
		}
	}

	for i, rf := range rt.Fields() {
		if readerUsed[i] {
			continue
		}
		if !rf.HasDefault {
			return nil, &resolution.MissingFieldError{Record: rt.FullName(), Field: rf.Name}
		}
		dv, err := rd.readJSONDefault(rf.Default, rf.Schema)
		if err != nil {
			return nil, err
		}
		out[rf.Name] = dv
	}

	return rd.applyLogical(out, rt)
}

// findResolvingReaderField locates the reader field a writer field
// resolves into, matching by exact name first and then by any reader-side
// alias naming the writer's field name.
func findResolvingReaderField(r *schema.RecordSchema, writerFieldName string) (int, *schema.Field) {
	for i, rf := range r.Fields() {
		if rf.Name == writerFieldName {
			return i, rf
		}
	}
	for i, rf := range r.Fields() {
		if rf.HasAlias(writerFieldName) {
			return i, rf
		}
	}
	return -1, nil
}

// findJSONCompatibleBranch returns the first reader-union branch a writer
// value of schema w can be resolved against, mirroring pkg/resolution's
// unexported branchMatches shape check.
func findJSONCompatibleBranch(w schema.Schema, ru *schema.UnionSchema) (schema.Schema, bool) {
	for _, branch := range ru.Types() {
		switch wt := w.(type) {
		case *schema.PrimitiveSchema:
			if bp, ok := branch.(*schema.PrimitiveSchema); ok && resolution.CanPromote(wt.Type(), bp.Type()) {
				return branch, true
			}
		case schema.NamedSchema:
			if bn, ok := branch.(schema.NamedSchema); ok && bn.FullName() == wt.FullName() {
				return branch, true
			}
		default:
			if branch.Type() == w.Type() {
				return branch, true
			}
		}
	}
	return nil, false
}
