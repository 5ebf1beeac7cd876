package schema

import (
	"fmt"
	"strconv"
	"strings"
)

// emptyFingerprint is the Avro "Rabin fingerprint" seed constant, defined by
// the Avro specification's SchemaNormalization algorithm.
const emptyFingerprint uint64 = 0xc15d213aa4d7a795

var fingerprintTable = buildFingerprintTable()

func buildFingerprintTable() [256]uint64 {
	var table [256]uint64
	for i := 0; i < 256; i++ {
		fp := uint64(i)
		for j := 0; j < 8; j++ {
			mask := -(fp & 1) // all-ones if fp&1==1, else all-zeros
			fp = (fp >> 1) ^ (emptyFingerprint & mask)
		}
		table[i] = fp
	}
	return table
}

// Fingerprint64 computes the 64-bit Rabin fingerprint of s's parsing
// canonical form: the identical algorithm Apache Avro uses
// for SchemaNormalization: record fields in their declared order (not
// sorted), minimal JSON, with logical-type metadata stripped.
func Fingerprint64(s Schema) uint64 {
	data := []byte(CanonicalForm(s))
	fp := emptyFingerprint
	for _, b := range data {
		index := byte(fp^uint64(b)) & 0xff
		fp = (fp >> 8) ^ fingerprintTable[index]
	}
	return fp
}

// CanonicalForm renders s in the Avro "Parsing Canonical Form": minimal
// JSON, fields emitted as name/type only, symbols/aliases/order/default and
// all logical-type and free-form properties stripped, named types fully
// qualified and referenced by name after their first (defining) occurrence.
func CanonicalForm(s Schema) string {
	var b strings.Builder
	seen := map[string]bool{}
	writeCanonical(&b, s, "", seen)
	return b.String()
}

func writeCanonical(b *strings.Builder, s Schema, enclosingNamespace string, seen map[string]bool) {
	switch v := s.(type) {
	case *PrimitiveSchema:
		b.WriteString(`"` + string(v.Type()) + `"`)
	case *UnionSchema:
		b.WriteByte('[')
		for i, t := range v.Types() {
			if i > 0 {
				b.WriteByte(',')
			}
			writeCanonical(b, t, enclosingNamespace, seen)
		}
		b.WriteByte(']')
	case *ArraySchema:
		b.WriteString(`{"type":"array","items":`)
		writeCanonical(b, v.Items(), enclosingNamespace, seen)
		b.WriteByte('}')
	case *MapSchema:
		b.WriteString(`{"type":"map","values":`)
		writeCanonical(b, v.Values(), enclosingNamespace, seen)
		b.WriteByte('}')
	case *FixedSchema:
		if seen[v.FullName()] {
			b.WriteString(strconv.Quote(v.FullName()))
			return
		}
		seen[v.FullName()] = true
		fmt.Fprintf(b, `{"name":%s,"type":"fixed","size":%d}`, strconv.Quote(v.FullName()), v.Size())
	case *EnumSchema:
		if seen[v.FullName()] {
			b.WriteString(strconv.Quote(v.FullName()))
			return
		}
		seen[v.FullName()] = true
		b.WriteString(`{"name":` + strconv.Quote(v.FullName()) + `,"type":"enum","symbols":[`)
		for i, sym := range v.Symbols() {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString(strconv.Quote(sym))
		}
		b.WriteString("]}")
	case *RecordSchema:
		if seen[v.FullName()] {
			b.WriteString(strconv.Quote(v.FullName()))
			return
		}
		seen[v.FullName()] = true
		b.WriteString(`{"name":` + strconv.Quote(v.FullName()) + `,"type":"record","fields":[`)
		for i, f := range v.Fields() {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString(`{"name":` + strconv.Quote(f.Name) + `,"type":`)
			writeCanonical(b, f.Schema, v.Namespace(), seen)
			b.WriteByte('}')
		}
		b.WriteString("]}")
	}
}
