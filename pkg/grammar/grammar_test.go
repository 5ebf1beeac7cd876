package grammar

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kirovets/avro/pkg/schema"
)

func TestCompile_Record_ProducesStartFieldsEnd(t *testing.T) {
	// Arrange
	s := schema.MustParse(`{
		"type": "record",
		"name": "Point",
		"fields": [
			{"name": "x", "type": "int"},
			{"name": "y", "type": "int"}
		]
	}`)

	// Act
	sym := Compile(s)

	// Assert
	require.Equal(t, NonTerminal, sym.Kind)
	require.Len(t, sym.Production, 4)
	assert.Same(t, RecordStart, sym.Production[0])
	assert.Same(t, Int, sym.Production[1])
	assert.Same(t, Int, sym.Production[2])
	assert.Same(t, RecordEnd, sym.Production[3])
}

func TestCompile_Array_SelfReferencingRepeater(t *testing.T) {
	// Arrange
	s := schema.MustParse(`{"type": "array", "items": "long"}`)

	// Act
	sym := Compile(s)

	// Assert
	require.Equal(t, NonTerminal, sym.Kind)
	require.Len(t, sym.Production, 3)
	assert.Same(t, ArrayStart, sym.Production[0])
	assert.Same(t, ArrayEnd, sym.Production[2])

	repeater := sym.Production[1]
	require.Equal(t, Repeater, repeater.Kind)
	require.Len(t, repeater.Production, 2)
	assert.Same(t, LongSym, repeater.Production[0])
	assert.Same(t, repeater, repeater.Production[1], "repeater must loop back to itself")

	data, ok := repeater.Data.(*RepeaterData)
	require.True(t, ok)
	assert.True(t, data.IsItem)
	assert.Same(t, ArrayStart, data.Start)
	assert.Same(t, ArrayEnd, data.End)
}

func TestCompile_Map_RepeaterIsNotItem(t *testing.T) {
	s := schema.MustParse(`{"type": "map", "values": "string"}`)

	sym := Compile(s)

	repeater := sym.Production[1]
	data, ok := repeater.Data.(*RepeaterData)
	require.True(t, ok)
	assert.False(t, data.IsItem)
}

func TestCompile_Union_CarriesAlternativeData(t *testing.T) {
	// Arrange
	s := schema.MustParse(`["null", "string", "long"]`)

	// Act
	sym := Compile(s)

	// Assert
	require.Equal(t, NonTerminal, sym.Kind)
	assert.Nil(t, sym.Production)

	alt, ok := sym.Data.(*AlternativeData)
	require.True(t, ok)
	require.Len(t, alt.Symbols, 3)
	assert.Equal(t, []string{"null", "string", "long"}, alt.Labels)
	assert.Same(t, Null, alt.Symbols[0])
	assert.Same(t, String, alt.Symbols[1])
	assert.Same(t, LongSym, alt.Symbols[2])
}

func TestCompile_Union_NamedBranchLabeledBySimpleName(t *testing.T) {
	s := schema.MustParse(`[
		"null",
		{"type": "record", "name": "ns.Foo", "fields": [{"name": "a", "type": "int"}]}
	]`)

	sym := Compile(s)

	alt := sym.Data.(*AlternativeData)
	assert.Equal(t, []string{"null", "Foo"}, alt.Labels)
}

func TestCompile_SelfReferencingRecord_ProducesForwardingSymbol(t *testing.T) {
	// Arrange: a linked-list style record referencing itself in an optional
	// union field, the classic cyclic-schema fixture.
	s := schema.MustParse(`{
		"type": "record",
		"name": "Node",
		"fields": [
			{"name": "value", "type": "long"},
			{"name": "next", "type": ["null", "Node"]}
		]
	}`)

	// Act
	sym := Compile(s)

	// Assert
	require.Equal(t, NonTerminal, sym.Kind)
	require.Len(t, sym.Production, 4) // RecordStart, value, next(union), RecordEnd

	unionSym := sym.Production[2]
	alt, ok := unionSym.Data.(*AlternativeData)
	require.True(t, ok)
	require.Len(t, alt.Symbols, 2)

	// The "Node" branch must be the very same Symbol as the outer record,
	// not a re-compiled copy, or the grammar would recurse forever.
	assert.Same(t, sym, alt.Symbols[1])
}

func TestCache_GetOrCompile_DeduplicatesByFingerprintPair(t *testing.T) {
	// Arrange
	s := schema.MustParse(`{"type": "record", "name": "R", "fields": [{"name": "a", "type": "int"}]}`)
	c := NewCache()
	calls := 0
	build := func() (*Symbol, error) {
		calls++
		return Compile(s), nil
	}

	// Act
	sym1, err1 := c.GetOrCompile(s, s, build)
	sym2, err2 := c.GetOrCompile(s, s, build)

	// Assert
	require.NoError(t, err1)
	require.NoError(t, err2)
	assert.Same(t, sym1, sym2)
	assert.Equal(t, 1, calls)
}

func TestCache_GetOrCompile_DistinctReaderProducesDistinctEntry(t *testing.T) {
	writer := schema.MustParse(`{"type": "record", "name": "R", "fields": [{"name": "a", "type": "int"}]}`)
	reader := schema.MustParse(`{"type": "record", "name": "R", "fields": [{"name": "a", "type": "long"}]}`)
	c := NewCache()
	calls := 0

	_, err := c.GetOrCompile(writer, writer, func() (*Symbol, error) {
		calls++
		return Compile(writer), nil
	})
	require.NoError(t, err)

	_, err = c.GetOrCompile(writer, reader, func() (*Symbol, error) {
		calls++
		return Compile(reader), nil
	})
	require.NoError(t, err)

	assert.Equal(t, 2, calls)
}
