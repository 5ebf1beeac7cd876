package grammar

import "github.com/kirovets/avro/pkg/schema"

// arena memoizes one Symbol per named schema during a single compile,
// keyed by schema identity (a Go interface value pointing at the same
// underlying named-type pointer counts as one key). A record that
// references itself gets a forwarding Symbol before compilation recurses
// into its fields, and the Symbol's production is patched in place once
// the fields are compiled.
type arena struct {
	symbols map[schema.Schema]*Symbol
}

// Compile builds the plain (non-resolving) grammar for s: the grammar a
// reader would use when its schema is identical to the writer's, and the
// fast path pkg/datum takes for the identity (no-resolution) read/write.
func Compile(s schema.Schema) *Symbol {
	a := &arena{symbols: make(map[schema.Schema]*Symbol)}
	return a.compile(s)
}

func (a *arena) compile(s schema.Schema) *Symbol {
	if sym, ok := a.symbols[s]; ok {
		return sym
	}

	switch v := s.(type) {
	case *schema.PrimitiveSchema:
		return primitiveTerminal(v.Type())

	case *schema.FixedSchema:
		sym := &Symbol{Kind: Terminal, Label: "fixed:" + v.FullName(), Data: &FixedData{Size: v.Size()}}
		a.symbols[s] = sym
		return sym

	case *schema.EnumSchema:
		sym := &Symbol{Kind: Terminal, Label: "enum:" + v.FullName(), Data: &EnumData{Symbols: v.Symbols()}}
		a.symbols[s] = sym
		return sym

	case *schema.ArraySchema:
		return a.compileRepeater(s, ArrayStart, ArrayEnd, v.Items(), true)

	case *schema.MapSchema:
		return a.compileRepeater(s, MapStart, MapEnd, v.Values(), false)

	case *schema.UnionSchema:
		return a.compileUnion(v)

	case *schema.RecordSchema:
		// Register the forwarding placeholder before recursing into fields
		// so a self-referencing field resolves to this same Symbol.
		placeholder := &Symbol{Kind: NonTerminal, Label: "record:" + v.FullName()}
		a.symbols[s] = placeholder

		production := make([]*Symbol, 0, len(v.Fields())+2)
		production = append(production, RecordStart)
		for _, f := range v.Fields() {
			production = append(production, a.compile(f.Schema))
		}
		production = append(production, RecordEnd)
		placeholder.Production = production
		return placeholder

	default:
		panic("grammar: unknown schema node")
	}
}

func primitiveTerminal(t schema.Type) *Symbol {
	switch t {
	case schema.Null:
		return Null
	case schema.Boolean:
		return Boolean
	case schema.Int:
		return Int
	case schema.Long:
		return LongSym
	case schema.Float:
		return Float
	case schema.Double:
		return Double
	case schema.Bytes:
		return Bytes
	case schema.String:
		return String
	default:
		panic("grammar: not a primitive type: " + string(t))
	}
}

// compileRepeater builds the classic self-referencing Repeater production:
// [itemSymbol, repeaterSymbol] so that advancing past one item loops back
// to either produce another item or, once the caller expects `end`, stop.
func (a *arena) compileRepeater(s schema.Schema, start, end *Symbol, elem schema.Schema, isItem bool) *Symbol {
	repeater := &Symbol{Kind: Repeater}
	a.symbols[s] = repeater
	itemSym := a.compile(elem)
	repeater.Data = &RepeaterData{Start: start, End: end, IsItem: isItem}
	repeater.Production = []*Symbol{itemSym, repeater}

	return &Symbol{
		Kind:       NonTerminal,
		Label:      "block",
		Production: []*Symbol{start, repeater, end},
	}
}

func (a *arena) compileUnion(u *schema.UnionSchema) *Symbol {
	types := u.Types()
	labels := make([]string, len(types))
	symbols := make([]*Symbol, len(types))
	for i, t := range types {
		labels[i] = branchLabel(t)
		symbols[i] = a.compile(t)
	}
	alt := &AlternativeData{Labels: labels, Symbols: symbols}
	// A union has no fixed production: which branch symbol applies is a
	// data-dependent choice the datum layer makes by reading the union
	// index (binary) or inspecting the tag (JSON) and indexing into
	// Data.(*AlternativeData).Symbols directly.
	return &Symbol{Kind: NonTerminal, Label: "union", Data: alt}
}

// branchLabel names a union branch the way the JSON codec's tag object
// keys it: named types use their simple
// name, everything else uses its primitive type name.
func branchLabel(s schema.Schema) string {
	if named, ok := s.(schema.NamedSchema); ok {
		return named.Name()
	}
	return string(s.Type())
}
