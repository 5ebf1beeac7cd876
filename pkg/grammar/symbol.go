// Package grammar compiles Avro schemas into production-rule symbol graphs
// and defines the Symbol vocabulary shared by the
// parser engine (pkg/parser), the resolving grammar (pkg/resolution), and
// the datum layer (pkg/datum).
package grammar

import "encoding/json"

// Kind discriminates the symbol variants a compiled grammar is built from.
type Kind int

const (
	Terminal Kind = iota
	NonTerminal
	Repeater
	ImplicitAction
	ExplicitAction
	Root
)

// Terminal symbol labels. These are compared by pointer identity: symbols
// are immutable once interned, and every schema compiles down to a
// production built from these shared singletons plus per-schema
// NonTerminal/action nodes.
var (
	Null    = &Symbol{Kind: Terminal, Label: "null"}
	Boolean = &Symbol{Kind: Terminal, Label: "boolean"}
	Int     = &Symbol{Kind: Terminal, Label: "int"}
	LongSym = &Symbol{Kind: Terminal, Label: "long"}
	Float   = &Symbol{Kind: Terminal, Label: "float"}
	Double  = &Symbol{Kind: Terminal, Label: "double"}
	Bytes   = &Symbol{Kind: Terminal, Label: "bytes"}
	String  = &Symbol{Kind: Terminal, Label: "string"}
	Fixed   = &Symbol{Kind: Terminal, Label: "fixed"}
	Enum    = &Symbol{Kind: Terminal, Label: "enum"}
	Union   = &Symbol{Kind: Terminal, Label: "union"}

	ArrayStart = &Symbol{Kind: Terminal, Label: "array-start"}
	ArrayEnd   = &Symbol{Kind: Terminal, Label: "array-end"}
	MapStart   = &Symbol{Kind: Terminal, Label: "map-start"}
	MapEnd     = &Symbol{Kind: Terminal, Label: "map-end"}

	RecordStart = &Symbol{Kind: Terminal, Label: "record-start"}
	RecordEnd   = &Symbol{Kind: Terminal, Label: "record-end"}
	FieldEnd    = &Symbol{Kind: Terminal, Label: "field-end"}
	UnionEnd    = &Symbol{Kind: Terminal, Label: "union-end"}

	// DefaultEndTerminal is the terminal an ImplicitAction/DefaultEndAction pair
	// resolves to when reading a materialized default value.
	DefaultEndTerminal = &Symbol{Kind: Terminal, Label: "default-end"}
)

// Symbol is one node of a compiled grammar. Data holds the specialized
// payload for the action/repeater variants (FieldAdjustAction, Repeater,
// ReaderUnionAction, UnionAdjustAction, EnumAdjustAction,
// DefaultStartAction/DefaultEndAction, SkipAction) as one of the *Data
// structs below.
type Symbol struct {
	Kind       Kind
	Label      string
	Production []*Symbol
	Data       interface{}
}

// RepeaterData is the *Symbol.Data payload for an array/map block iteration
// symbol: Start/End name the block markers, Production is the item symbol,
// IsItem distinguishes an array element repeater from a map entry repeater.
type RepeaterData struct {
	Start  *Symbol
	End    *Symbol
	IsItem bool
}

// AlternativeData is the *Symbol.Data payload for a union symbol: one branch
// symbol per union type, with matching human-readable labels.
type AlternativeData struct {
	Labels  []string
	Symbols []*Symbol
}

// FieldAdjustAction repositions the reader at a named field before reading
// it. Default is the JSON-encoded default value to materialize when the
// writer omits the field entirely.
type FieldAdjustActionData struct {
	FieldName  string
	Position   int
	Default    json.RawMessage
	HasDefault bool
}

// SkipAction wraps the writer-side symbol for a field the reader schema
// does not have, so the datum layer can discard it without materializing a
// value.
type SkipActionData struct {
	WriterSymbol *Symbol
}

// EnumAdjustAction maps a writer enum ordinal to the corresponding reader
// ordinal. DefaultOrdinal/HasDefault back the reader
// enum default for otherwise-unmapped writer symbols.
type EnumAdjustActionData struct {
	Mapping        []int // indexed by writer ordinal; -1 if unmapped
	DefaultOrdinal int
	HasDefault     bool
}

// UnionAdjustAction maps a writer union branch index to the resolution
// symbol driving that branch on the reader side.
type UnionAdjustActionData struct {
	Mapping []*Symbol // indexed by writer branch index
}

// ReaderUnionAction marks a union node on the pure reader-side (unresolved)
// grammar, letting the datum layer know it must consult the writer's
// explicit branch index rather than any content sniffing.
type ReaderUnionActionData struct {
	Alternative *AlternativeData
}

// DefaultStartAction/DefaultEndAction bracket the read of a reader-only
// field's default value.
type DefaultStartActionData struct {
	Value json.RawMessage
}

// FixedData (and EnumData below) is attached to schema-derived terminals
// that need to carry back a detail of the originating schema node, the
// fixed size or the enum symbol table, without a second lookup table.
type FixedData struct {
	Size int
}

type EnumData struct {
	Symbols []string
}
