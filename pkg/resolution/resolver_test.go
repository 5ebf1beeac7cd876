package resolution

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kirovets/avro/pkg/grammar"
	"github.com/kirovets/avro/pkg/schema"
)

func TestResolve_IntPromotedToLong(t *testing.T) {
	// Arrange
	w := schema.MustParse(`"int"`)
	r := schema.MustParse(`"long"`)

	// Act
	sym, err := Resolve(w, r)

	// Assert
	require.NoError(t, err)
	data, ok := sym.Data.(*PromotionData)
	require.True(t, ok)
	assert.Equal(t, schema.Int, data.WriterType)
	assert.Equal(t, schema.Long, data.ReaderType)
}

func TestResolve_IncompatiblePrimitivesFail(t *testing.T) {
	w := schema.MustParse(`"string"`)
	r := schema.MustParse(`"int"`)

	_, err := Resolve(w, r)

	assert.Error(t, err)
	var mismatch *MismatchError
	assert.ErrorAs(t, err, &mismatch)
}

func TestResolve_MissingFieldWithNoDefaultFails(t *testing.T) {
	w := schema.MustParse(`{"type":"record","name":"R","fields":[{"name":"a","type":"int"}]}`)
	r := schema.MustParse(`{"type":"record","name":"R","fields":[
		{"name":"a","type":"int"},
		{"name":"b","type":"string"}
	]}`)

	_, err := Resolve(w, r)

	assert.Error(t, err)
	var missing *MissingFieldError
	assert.ErrorAs(t, err, &missing)
}

func TestResolve_MissingFieldWithDefaultMaterializes(t *testing.T) {
	// Arrange: reader adds field "b" with a default.
	w := schema.MustParse(`{"type":"record","name":"R","fields":[{"name":"a","type":"int"}]}`)
	r := schema.MustParse(`{"type":"record","name":"R","fields":[
		{"name":"a","type":"int"},
		{"name":"b","type":"string","default":"unset"}
	]}`)

	// Act
	sym, err := Resolve(w, r)
	require.NoError(t, err)

	// Assert: production is [RecordStart, field:a, default:b, RecordEnd]
	require.Len(t, sym.Production, 4)
	assert.Same(t, grammar.RecordStart, sym.Production[0])
	assert.Same(t, grammar.RecordEnd, sym.Production[3])

	defaultAction := sym.Production[2]
	data, ok := defaultAction.Data.(*grammar.FieldAdjustActionData)
	require.True(t, ok)
	assert.Equal(t, "b", data.FieldName)
	assert.True(t, data.HasDefault)
	assert.JSONEq(t, `"unset"`, string(data.Default))
}

func TestResolve_WriterOnlyFieldIsSkipped(t *testing.T) {
	// Arrange: writer has an extra field the reader dropped.
	w := schema.MustParse(`{"type":"record","name":"R","fields":[
		{"name":"a","type":"int"},
		{"name":"legacy","type":"string"}
	]}`)
	r := schema.MustParse(`{"type":"record","name":"R","fields":[{"name":"a","type":"int"}]}`)

	// Act
	sym, err := Resolve(w, r)
	require.NoError(t, err)

	// Assert: production is [RecordStart, field:a, skip:legacy, RecordEnd]
	require.Len(t, sym.Production, 4)
	skipAction := sym.Production[2]
	data, ok := skipAction.Data.(*grammar.SkipActionData)
	require.True(t, ok)
	assert.NotNil(t, data.WriterSymbol)
}

func TestResolve_FieldRenamedViaReaderAlias(t *testing.T) {
	w := schema.MustParse(`{"type":"record","name":"R","fields":[{"name":"old_name","type":"int"}]}`)
	r := schema.MustParse(`{"type":"record","name":"R","fields":[{"name":"new_name","type":"int","aliases":["old_name"]}]}`)

	sym, err := Resolve(w, r)
	require.NoError(t, err)

	fieldAction := sym.Production[1]
	data, ok := fieldAction.Data.(*grammar.FieldAdjustActionData)
	require.True(t, ok)
	assert.Equal(t, "new_name", data.FieldName)
}

func TestResolve_EnumUnknownWriterSymbolFallsBackToDefault(t *testing.T) {
	// Arrange: reader dropped "GREEN" and declared "RED" as its default.
	w := schema.MustParse(`{"type":"enum","name":"Color","symbols":["RED","GREEN","BLUE"]}`)
	r := schema.MustParse(`{"type":"enum","name":"Color","symbols":["RED","BLUE"],"default":"RED"}`)

	sym, err := Resolve(w, r)
	require.NoError(t, err)

	data, ok := sym.Data.(*grammar.EnumAdjustActionData)
	require.True(t, ok)
	assert.True(t, data.HasDefault)
	assert.Equal(t, 0, data.DefaultOrdinal) // RED is reader ordinal 0
	assert.Equal(t, -1, data.Mapping[1])    // GREEN is unmapped on the reader side
}

func TestResolve_UnionWriterBranchMappedToReaderNonUnion(t *testing.T) {
	w := schema.MustParse(`["null", "string"]`)
	r := schema.MustParse(`"string"`)

	sym, err := Resolve(w, r)
	require.NoError(t, err)

	data, ok := sym.Data.(*grammar.UnionAdjustActionData)
	require.True(t, ok)
	require.Len(t, data.Mapping, 2)
}

func TestResolve_ArrayItemsPromoted(t *testing.T) {
	w := schema.MustParse(`{"type":"array","items":"int"}`)
	r := schema.MustParse(`{"type":"array","items":"double"}`)

	sym, err := Resolve(w, r)
	require.NoError(t, err)

	rep, ok := sym.Data.(*grammar.RepeaterData)
	require.True(t, ok)
	assert.True(t, rep.IsItem)
	require.Len(t, sym.Production, 1)

	promo, ok := sym.Production[0].Data.(*PromotionData)
	require.True(t, ok)
	assert.Equal(t, schema.Int, promo.WriterType)
	assert.Equal(t, schema.Double, promo.ReaderType)
}

func TestResolve_FixedSizeMismatchFails(t *testing.T) {
	w := schema.MustParse(`{"type":"fixed","name":"F","size":4}`)
	r := schema.MustParse(`{"type":"fixed","name":"F","size":8}`)

	_, err := Resolve(w, r)

	assert.Error(t, err)
}
