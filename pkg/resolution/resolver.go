// Package resolution builds the resolving grammar that reconciles a
// writer schema with a different reader schema: field
// matching by name and alias, primitive promotion, enum and union
// remapping, and default materialization for reader-only fields.
package resolution

import (
	"encoding/json"

	"github.com/kirovets/avro/pkg/grammar"
	"github.com/kirovets/avro/pkg/schema"
)

type pairKey struct {
	writer schema.Schema
	reader schema.Schema
}

// arena memoizes one Symbol per (writer, reader) schema pair compiled
// during a single Resolve call, giving self-referencing writer/reader
// record pairs the same forwarding-placeholder treatment grammar.Compile
// uses for plain cyclic schemas.
type arena struct {
	symbols map[pairKey]*grammar.Symbol
}

// Resolve builds the resolving grammar for reading data written with
// writer and interpreted against reader. It fails fast, before any byte is
// read, for any leaf pair with no valid resolution.
func Resolve(writer, reader schema.Schema) (*grammar.Symbol, error) {
	a := &arena{symbols: make(map[pairKey]*grammar.Symbol)}
	return a.resolve(writer, reader)
}

func (a *arena) resolve(w, r schema.Schema) (*grammar.Symbol, error) {
	key := pairKey{writer: w, reader: r}
	if sym, ok := a.symbols[key]; ok {
		return sym, nil
	}

	// Reader union, writer not a union: writer's value must be readable as
	// exactly one branch; resolve directly against that branch (the union
	// wrapper carries no wire representation of its own).
	if ru, ok := r.(*schema.UnionSchema); ok {
		if _, writerIsUnion := w.(*schema.UnionSchema); !writerIsUnion {
			branch, ok := findCompatibleBranch(w, ru)
			if !ok {
				return nil, &MismatchError{WriterType: string(w.Type()), ReaderType: "union", Reason: "no compatible reader branch"}
			}
			return a.resolve(w, branch)
		}
	}

	switch wt := w.(type) {
	case *schema.UnionSchema:
		return a.resolveUnion(wt, r)
	case *schema.RecordSchema:
		rr, ok := r.(*schema.RecordSchema)
		if !ok {
			return nil, &MismatchError{WriterType: "record", ReaderType: string(r.Type()), Reason: "reader is not a record"}
		}
		return a.resolveRecord(wt, rr, key)
	case *schema.EnumSchema:
		re, ok := r.(*schema.EnumSchema)
		if !ok {
			return nil, &MismatchError{WriterType: "enum", ReaderType: string(r.Type()), Reason: "reader is not an enum"}
		}
		return a.resolveEnum(wt, re)
	case *schema.FixedSchema:
		rf, ok := r.(*schema.FixedSchema)
		if !ok {
			return nil, &MismatchError{WriterType: "fixed", ReaderType: string(r.Type()), Reason: "reader is not fixed"}
		}
		if rf.FullName() != wt.FullName() || rf.Size() != wt.Size() {
			return nil, &MismatchError{WriterType: "fixed:" + wt.FullName(), ReaderType: "fixed:" + rf.FullName(), Reason: "name or size mismatch"}
		}
		sym := &grammar.Symbol{Kind: grammar.Terminal, Label: "fixed:" + wt.FullName(), Data: &FixedMatchData{Size: wt.Size()}}
		a.symbols[key] = sym
		return sym, nil
	case *schema.ArraySchema:
		ra, ok := r.(*schema.ArraySchema)
		if !ok {
			return nil, &MismatchError{WriterType: "array", ReaderType: string(r.Type()), Reason: "reader is not an array"}
		}
		return a.resolveRepeater(key, wt.Items(), ra.Items(), true)
	case *schema.MapSchema:
		rm, ok := r.(*schema.MapSchema)
		if !ok {
			return nil, &MismatchError{WriterType: "map", ReaderType: string(r.Type()), Reason: "reader is not a map"}
		}
		return a.resolveRepeater(key, wt.Values(), rm.Values(), false)
	case *schema.PrimitiveSchema:
		rp, ok := r.(*schema.PrimitiveSchema)
		if !ok {
			return nil, &MismatchError{WriterType: string(wt.Type()), ReaderType: string(r.Type()), Reason: "reader is not primitive"}
		}
		if !canPromote(wt.Type(), rp.Type()) {
			return nil, &MismatchError{WriterType: string(wt.Type()), ReaderType: string(rp.Type()), Reason: "no promotion path"}
		}
		sym := &grammar.Symbol{Kind: grammar.Terminal, Label: "resolve:" + string(wt.Type()) + "->" + string(rp.Type()), Data: &PromotionData{WriterType: wt.Type(), ReaderType: rp.Type()}}
		a.symbols[key] = sym
		return sym, nil
	default:
		return nil, &MismatchError{WriterType: string(w.Type()), ReaderType: string(r.Type()), Reason: "unsupported schema node"}
	}
}

// findCompatibleBranch returns the first reader-union branch a writer
// value of type w can be resolved against.
func findCompatibleBranch(w schema.Schema, ru *schema.UnionSchema) (schema.Schema, bool) {
	for _, branch := range ru.Types() {
		if branchMatches(w, branch) {
			return branch, true
		}
	}
	return nil, false
}

// branchMatches performs a cheap shape check before a full recursive
// resolve is attempted, matching by named full-name for named types and by
// promotable primitive type otherwise.
func branchMatches(w, branch schema.Schema) bool {
	switch wt := w.(type) {
	case *schema.PrimitiveSchema:
		bp, ok := branch.(*schema.PrimitiveSchema)
		return ok && canPromote(wt.Type(), bp.Type())
	case schema.NamedSchema:
		bn, ok := branch.(schema.NamedSchema)
		return ok && bn.FullName() == wt.FullName()
	default:
		return branch.Type() == w.Type()
	}
}

func (a *arena) resolveUnion(wu *schema.UnionSchema, r schema.Schema) (*grammar.Symbol, error) {
	branches := wu.Types()
	mapping := make([]*grammar.Symbol, len(branches))
	for i, wb := range branches {
		target := r
		if ru, ok := r.(*schema.UnionSchema); ok {
			branch, ok := findCompatibleBranch(wb, ru)
			if !ok {
				return nil, &MismatchError{WriterType: string(wb.Type()), ReaderType: "union", Reason: "no compatible reader branch for writer union member"}
			}
			target = branch
		}
		sub, err := a.resolve(wb, target)
		if err != nil {
			return nil, err
		}
		mapping[i] = sub
	}
	return &grammar.Symbol{
		Kind:  grammar.NonTerminal,
		Label: "resolve-union",
		Data:  &grammar.UnionAdjustActionData{Mapping: mapping},
	}, nil
}

func (a *arena) resolveRepeater(key pairKey, writerElem, readerElem schema.Schema, isItem bool) (*grammar.Symbol, error) {
	placeholder := &grammar.Symbol{Kind: grammar.NonTerminal, Label: "resolve-block"}
	a.symbols[key] = placeholder

	itemSym, err := a.resolve(writerElem, readerElem)
	if err != nil {
		return nil, err
	}
	placeholder.Data = &grammar.RepeaterData{IsItem: isItem}
	placeholder.Production = []*grammar.Symbol{itemSym}
	return placeholder, nil
}

func (a *arena) resolveEnum(w, r *schema.EnumSchema) (*grammar.Symbol, error) {
	writerSymbols := w.Symbols()
	mapping := make([]int, len(writerSymbols))
	defaultOrdinal, hasDefault := -1, false
	if d, ok := r.Default(); ok {
		defaultOrdinal = r.IndexOf(d)
		hasDefault = defaultOrdinal >= 0
	}
	for i, sym := range writerSymbols {
		mapping[i] = r.IndexOf(sym)
	}
	return &grammar.Symbol{
		Kind:  grammar.Terminal,
		Label: "resolve-enum:" + w.FullName() + "->" + r.FullName(),
		Data: &grammar.EnumAdjustActionData{
			Mapping:        mapping,
			DefaultOrdinal: defaultOrdinal,
			HasDefault:     hasDefault,
		},
	}, nil
}

func (a *arena) resolveRecord(w, r *schema.RecordSchema, key pairKey) (*grammar.Symbol, error) {
	placeholder := &grammar.Symbol{Kind: grammar.NonTerminal, Label: "resolve-record:" + w.FullName() + "->" + r.FullName()}
	a.symbols[key] = placeholder

	readerUsed := make([]bool, len(r.Fields()))
	production := make([]*grammar.Symbol, 0, len(w.Fields())+len(r.Fields())+2)
	production = append(production, grammar.RecordStart)

	for _, wf := range w.Fields() {
		idx, rf := findReaderField(r, wf)
		if rf == nil {
			// Writer-only field: still must be read off the wire to keep
			// the stream aligned, then discarded.
			sub, err := a.resolve(wf.Schema, wf.Schema)
			if err != nil {
				return nil, err
			}
			production = append(production, &grammar.Symbol{
				Kind:  grammar.ImplicitAction,
				Label: "skip:" + wf.Name,
				Data:  &grammar.SkipActionData{WriterSymbol: sub},
			})
			continue
		}
		readerUsed[idx] = true
		sub, err := a.resolve(wf.Schema, rf.Schema)
		if err != nil {
			return nil, err
		}
		production = append(production, &grammar.Symbol{
			Kind:       grammar.ImplicitAction,
			Label:      "field:" + rf.Name,
			Data:       &grammar.FieldAdjustActionData{FieldName: rf.Name, Position: idx},
			Production: []*grammar.Symbol{sub},
		})
	}

	for i, rf := range r.Fields() {
		if readerUsed[i] {
			continue
		}
		if !rf.HasDefault {
			return nil, &MissingFieldError{Record: r.FullName(), Field: rf.Name}
		}
		defJSON, err := json.Marshal(rf.Default)
		if err != nil {
			return nil, err
		}
		production = append(production, &grammar.Symbol{
			Kind:  grammar.ImplicitAction,
			Label: "default:" + rf.Name,
			Data: &grammar.FieldAdjustActionData{
				FieldName:  rf.Name,
				Position:   i,
				Default:    defJSON,
				HasDefault: true,
			},
		})
	}

	production = append(production, grammar.RecordEnd)
	placeholder.Production = production
	return placeholder, nil
}

// findReaderField locates the reader field a writer field resolves into,
// matching by exact name first and then by any reader-side alias naming
// the writer's field.
func findReaderField(r *schema.RecordSchema, wf *schema.Field) (int, *schema.Field) {
	for i, rf := range r.Fields() {
		if rf.Name == wf.Name {
			return i, rf
		}
	}
	for i, rf := range r.Fields() {
		if rf.HasAlias(wf.Name) {
			return i, rf
		}
	}
	return -1, nil
}
