package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kirovets/avro/pkg/grammar"
	"github.com/kirovets/avro/pkg/schema"
)

func TestEngine_Advance_RecordFieldSequence(t *testing.T) {
	// Arrange
	s := schema.MustParse(`{
		"type": "record",
		"name": "Point",
		"fields": [
			{"name": "x", "type": "int"},
			{"name": "y", "type": "int"}
		]
	}`)
	root := grammar.Compile(s)
	e := NewEngine(root, nil)

	// Act + Assert: RecordStart, int, int, RecordEnd in order.
	sym, err := e.Advance(grammar.RecordStart)
	require.NoError(t, err)
	assert.Same(t, grammar.RecordStart, sym)

	sym, err = e.Advance(grammar.Int)
	require.NoError(t, err)
	assert.Same(t, grammar.Int, sym)

	sym, err = e.Advance(grammar.Int)
	require.NoError(t, err)
	assert.Same(t, grammar.Int, sym)

	sym, err = e.Advance(grammar.RecordEnd)
	require.NoError(t, err)
	assert.Same(t, grammar.RecordEnd, sym)
}

func TestEngine_Advance_MismatchIsError(t *testing.T) {
	s := schema.MustParse(`{"type": "record", "name": "R", "fields": [{"name": "a", "type": "int"}]}`)
	root := grammar.Compile(s)
	e := NewEngine(root, nil)

	_, err := e.Advance(grammar.RecordStart)
	require.NoError(t, err)

	_, err = e.Advance(grammar.LongSym) // schema says int, not long
	assert.Error(t, err)
}

func TestEngine_ArrayIteration_ViaRepeater(t *testing.T) {
	// Arrange
	s := schema.MustParse(`{"type": "array", "items": "long"}`)
	root := grammar.Compile(s)
	e := NewEngine(root, nil)

	_, err := e.Advance(grammar.ArrayStart)
	require.NoError(t, err)

	// Act: drive two items through the repeater, then stop.
	var items int
	for {
		isEnd, err := e.AdvanceRepeater()
		require.NoError(t, err)
		if isEnd {
			break
		}
		require.NoError(t, e.PopRepeater())
		_, err = e.Advance(grammar.LongSym)
		require.NoError(t, err)
		items++
		if items >= 2 {
			// Stop here, as a caller would on reading a zero-count
			// trailing block (this test does not end the block): the item
			// repeater keeps offering itself indefinitely since this
			// engine doesn't track wire block counts (that's the codec's
			// job) — a real caller stops based on ReadBlockCount, not by
			// asking the engine. Here we just assert the loop-back works.
			break
		}
	}

	// Assert
	assert.Equal(t, 2, items)
}

func TestEngine_Union_AlternativeReadFromSymbolData(t *testing.T) {
	// Arrange: unions carry no Production, so a caller reads the union
	// Symbol's Data directly rather than driving it through Advance. This
	// test documents that contract for the datum layer.
	s := schema.MustParse(`["null", "string"]`)
	root := grammar.Compile(s)

	alt, ok := root.Data.(*grammar.AlternativeData)
	require.True(t, ok)
	assert.Len(t, alt.Symbols, 2)
}

func TestEngine_ActionHandler_InvokedOnImplicitAction(t *testing.T) {
	// Arrange: synthesize a tiny grammar with one ImplicitAction wrapping a
	// terminal, verifying the handler fires before the terminal surfaces.
	action := &grammar.Symbol{Kind: grammar.ImplicitAction, Label: "test-action"}
	wrapper := &grammar.Symbol{Kind: grammar.NonTerminal, Production: []*grammar.Symbol{action, grammar.Int}}

	var fired bool
	handler := FuncHandler(func(sym *grammar.Symbol) error {
		if sym == action {
			fired = true
		}
		return nil
	})
	e := NewEngine(wrapper, handler)

	// Act
	sym, err := e.Advance(grammar.Int)

	// Assert
	require.NoError(t, err)
	assert.Same(t, grammar.Int, sym)
	assert.True(t, fired)
}
