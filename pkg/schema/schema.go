// Package schema implements the typed AST of Avro schemas: named-type resolution within a parse scope, open property bags, and
// logical-type bindings. Schemas are immutable once constructed.
package schema

import (
	"fmt"
	"strings"
)

// Type is the tagged-variant discriminator over the Avro type system.
type Type string

const (
	Null    Type = "null"
	Boolean Type = "boolean"
	Int     Type = "int"
	Long    Type = "long"
	Float   Type = "float"
	Double  Type = "double"
	Bytes   Type = "bytes"
	String  Type = "string"
	Fixed   Type = "fixed"
	Enum    Type = "enum"
	Array   Type = "array"
	Map     Type = "map"
	Union   Type = "union"
	Record  Type = "record"
)

// Order is a record field's declared sort order.
type Order string

const (
	OrderAscending  Order = "ascending"
	OrderDescending Order = "descending"
	OrderIgnore     Order = "ignore"
)

// LogicalType is the optional typed-view binding carried by a schema node
//. The underlying wire representation stays the
// schema's own primitive Type; conversion behavior lives in pkg/logical.
type LogicalType struct {
	Name  string
	Props *Properties
}

// Schema is the common interface implemented by every node in the typed AST.
type Schema interface {
	Type() Type
	Properties() *Properties
	Logical() *LogicalType
	SetLogical(lt *LogicalType)
	String() string
}

// NamedSchema is implemented by the three schema kinds that carry a fully
// qualified name: record, enum, fixed.
type NamedSchema interface {
	Schema
	Name() string
	Namespace() string
	FullName() string
	Aliases() []string
}

// FullName joins namespace and name the way Avro does: "ns.name", or just
// "name" when namespace is empty.
func FullName(namespace, name string) string {
	if namespace == "" {
		return name
	}
	return namespace + "." + name
}

type base struct {
	props   *Properties
	logical *LogicalType
}

func (b *base) Properties() *Properties   { return b.props }
func (b *base) Logical() *LogicalType     { return b.logical }
func (b *base) SetLogical(lt *LogicalType) { b.logical = lt }

// PrimitiveSchema is a schema node for null, boolean, int, long, float,
// double, bytes, or string.
type PrimitiveSchema struct {
	base
	typ Type
}

func NewPrimitiveSchema(t Type, props *Properties) *PrimitiveSchema {
	return &PrimitiveSchema{base: base{props: props}, typ: t}
}

func (s *PrimitiveSchema) Type() Type { return s.typ }
func (s *PrimitiveSchema) String() string {
	return `"` + string(s.typ) + `"`
}

// FixedSchema is a fixed-size byte array named type.
type FixedSchema struct {
	base
	name      string
	namespace string
	aliases   []string
	size      int
}

func NewFixedSchema(name, namespace string, size int, aliases []string, props *Properties) *FixedSchema {
	return &FixedSchema{base: base{props: props}, name: name, namespace: namespace, size: size, aliases: aliases}
}

func (s *FixedSchema) Type() Type        { return Fixed }
func (s *FixedSchema) Name() string      { return s.name }
func (s *FixedSchema) Namespace() string { return s.namespace }
func (s *FixedSchema) FullName() string  { return FullName(s.namespace, s.name) }
func (s *FixedSchema) Aliases() []string { return s.aliases }
func (s *FixedSchema) Size() int         { return s.size }
func (s *FixedSchema) String() string {
	return fmt.Sprintf(`{"type":"fixed","name":%q,"size":%d}`, s.FullName(), s.size)
}

// EnumSchema is an enumerated named type with a fixed symbol table.
type EnumSchema struct {
	base
	name       string
	namespace  string
	aliases    []string
	symbols    []string
	enumDefault string
	hasDefault bool
}

func NewEnumSchema(name, namespace string, symbols []string, aliases []string, def string, hasDefault bool, props *Properties) *EnumSchema {
	return &EnumSchema{base: base{props: props}, name: name, namespace: namespace, symbols: symbols, aliases: aliases, enumDefault: def, hasDefault: hasDefault}
}

func (s *EnumSchema) Type() Type        { return Enum }
func (s *EnumSchema) Name() string      { return s.name }
func (s *EnumSchema) Namespace() string { return s.namespace }
func (s *EnumSchema) FullName() string  { return FullName(s.namespace, s.name) }
func (s *EnumSchema) Aliases() []string { return s.aliases }
func (s *EnumSchema) Symbols() []string { return s.symbols }
func (s *EnumSchema) Default() (string, bool) { return s.enumDefault, s.hasDefault }

// IndexOf returns the ordinal of symbol, or -1 if it is not a member.
func (s *EnumSchema) IndexOf(symbol string) int {
	for i, sym := range s.symbols {
		if sym == symbol {
			return i
		}
	}
	return -1
}

func (s *EnumSchema) String() string {
	quoted := make([]string, len(s.symbols))
	for i, sym := range s.symbols {
		quoted[i] = fmt.Sprintf("%q", sym)
	}
	return fmt.Sprintf(`{"type":"enum","name":%q,"symbols":[%s]}`, s.FullName(), strings.Join(quoted, ","))
}

// ArraySchema is a homogeneous variable-length array type.
type ArraySchema struct {
	base
	items Schema
}

func NewArraySchema(items Schema, props *Properties) *ArraySchema {
	return &ArraySchema{base: base{props: props}, items: items}
}

func (s *ArraySchema) Type() Type    { return Array }
func (s *ArraySchema) Items() Schema { return s.items }
func (s *ArraySchema) String() string {
	return fmt.Sprintf(`{"type":"array","items":%s}`, s.items.String())
}

// MapSchema is a string-keyed homogeneous map type.
type MapSchema struct {
	base
	values Schema
}

func NewMapSchema(values Schema, props *Properties) *MapSchema {
	return &MapSchema{base: base{props: props}, values: values}
}

func (s *MapSchema) Type() Type     { return Map }
func (s *MapSchema) Values() Schema { return s.values }
func (s *MapSchema) String() string {
	return fmt.Sprintf(`{"type":"map","values":%s}`, s.values.String())
}

// UnionSchema is a tagged union over its branch schemas. The rule that a
// union may hold at most one of each non-named type and never nests
// another union directly is enforced at parse time, not here.
type UnionSchema struct {
	types []Schema
}

func NewUnionSchema(types []Schema) *UnionSchema {
	return &UnionSchema{types: types}
}

func (s *UnionSchema) Type() Type              { return Union }
func (s *UnionSchema) Properties() *Properties { return nil }
func (s *UnionSchema) Logical() *LogicalType   { return nil }
func (s *UnionSchema) SetLogical(*LogicalType) {}
func (s *UnionSchema) Types() []Schema         { return s.types }

// NullIndex returns the index of the null branch, or -1 if there is none.
func (s *UnionSchema) NullIndex() int {
	for i, t := range s.types {
		if t.Type() == Null {
			return i
		}
	}
	return -1
}

func (s *UnionSchema) String() string {
	out := "["
	for i, t := range s.types {
		if i > 0 {
			out += ","
		}
		out += t.String()
	}
	return out + "]"
}

// Field is one declared slot of a record. Position is the
// 0-indexed declaration slot used throughout reorder logic.
type Field struct {
	Name       string
	Schema     Schema
	Default    interface{} // decoded JSON value; nil when HasDefault is false
	HasDefault bool
	Order      Order
	Aliases    []string
	Props      *Properties
	Position   int
}

// HasAlias reports whether name matches this field's declared name or any
// of its aliases, used when a reader field matches a writer field by alias
// during schema resolution.
func (f *Field) HasAlias(name string) bool {
	if f.Name == name {
		return true
	}
	for _, a := range f.Aliases {
		if a == name {
			return true
		}
	}
	return false
}

// RecordSchema is a named type with an ordered list of fields.
type RecordSchema struct {
	base
	name      string
	namespace string
	aliases   []string
	fields    []*Field
	isError   bool
}

// NewRecordSchema constructs a record with no fields yet. Fields must be
// installed via SetFields once parsed, so that a record can be registered
// under its full name before its own field types (which may reference the
// record itself) are parsed. This is the placeholder mechanism that lets
// cyclic schemas resolve without infinite recursion.
func NewRecordSchema(name, namespace string, aliases []string, isError bool, props *Properties) *RecordSchema {
	return &RecordSchema{base: base{props: props}, name: name, namespace: namespace, aliases: aliases, isError: isError}
}

func (s *RecordSchema) SetFields(fields []*Field) { s.fields = fields }

func (s *RecordSchema) Type() Type        { return Record }
func (s *RecordSchema) Name() string      { return s.name }
func (s *RecordSchema) Namespace() string { return s.namespace }
func (s *RecordSchema) FullName() string  { return FullName(s.namespace, s.name) }
func (s *RecordSchema) Aliases() []string { return s.aliases }
func (s *RecordSchema) Fields() []*Field  { return s.fields }
func (s *RecordSchema) IsError() bool     { return s.isError }

// FieldByName returns the field with the given declared name, or nil.
func (s *RecordSchema) FieldByName(name string) *Field {
	for _, f := range s.fields {
		if f.Name == name {
			return f
		}
	}
	return nil
}

func (s *RecordSchema) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, `{"type":"record","name":%q,"fields":[`, s.FullName())
	for i, f := range s.fields {
		if i > 0 {
			b.WriteByte(',')
		}
		fmt.Fprintf(&b, `{"name":%q,"type":%s}`, f.Name, f.Schema.String())
	}
	b.WriteString("]}")
	return b.String()
}
