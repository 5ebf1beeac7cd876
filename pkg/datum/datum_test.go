package datum

import (
	"bytes"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kirovets/avro/pkg/schema"
)

func TestBinary_IdentityRoundTrip_Record(t *testing.T) {
	// Arrange
	s := schema.MustParse(`{"type":"record","name":"Point","fields":[
		{"name":"x","type":"int"},
		{"name":"y","type":"long"},
		{"name":"label","type":"string"}
	]}`)
	model := NewModel()
	wr := NewWriter(model)
	rd := NewReader(model)
	value := map[string]interface{}{
		"x":     int32(1),
		"y":     int64(2),
		"label": "origin",
	}
	var buf bytes.Buffer

	// Act
	require.NoError(t, wr.WriteBinary(&buf, value, s))
	out, err := rd.ReadBinary(&buf, s)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, value, out)
}

func TestBinary_IdentityRoundTrip_ArrayAndMap(t *testing.T) {
	s := schema.MustParse(`{"type":"record","name":"Bag","fields":[
		{"name":"items","type":{"type":"array","items":"int"}},
		{"name":"tags","type":{"type":"map","values":"string"}}
	]}`)
	model := NewModel()
	wr := NewWriter(model)
	rd := NewReader(model)
	value := map[string]interface{}{
		"items": []interface{}{int32(1), int32(2), int32(3)},
		"tags":  map[string]interface{}{"a": "x", "b": "y"},
	}
	var buf bytes.Buffer

	require.NoError(t, wr.WriteBinary(&buf, value, s))
	out, err := rd.ReadBinary(&buf, s)

	require.NoError(t, err)
	assert.Equal(t, value, out)
}

func TestBinary_IdentityRoundTrip_UnionWithNull(t *testing.T) {
	s := schema.MustParse(`{"type":"record","name":"Opt","fields":[
		{"name":"note","type":["null","string"],"default":null}
	]}`)
	model := NewModel()
	wr := NewWriter(model)
	rd := NewReader(model)

	var buf bytes.Buffer
	require.NoError(t, wr.WriteBinary(&buf, map[string]interface{}{"note": nil}, s))
	out, err := rd.ReadBinary(&buf, s)
	require.NoError(t, err)
	assert.Equal(t, map[string]interface{}{"note": nil}, out)

	buf.Reset()
	require.NoError(t, wr.WriteBinary(&buf, map[string]interface{}{"note": "hi"}, s))
	out, err = rd.ReadBinary(&buf, s)
	require.NoError(t, err)
	assert.Equal(t, map[string]interface{}{"note": "hi"}, out)
}

func TestBinary_Resolving_PromotesIntToLongAndAddsDefault(t *testing.T) {
	// Arrange: writer wrote an int; reader expects long, and adds a field
	// with a default the writer never produced.
	writerSchema := schema.MustParse(`{"type":"record","name":"R","fields":[
		{"name":"a","type":"int"}
	]}`)
	readerSchema := schema.MustParse(`{"type":"record","name":"R","fields":[
		{"name":"a","type":"long"},
		{"name":"b","type":"string","default":"unset"}
	]}`)
	model := NewModel()
	wr := NewWriter(model)
	rd := NewReader(model)
	var buf bytes.Buffer
	require.NoError(t, wr.WriteBinary(&buf, map[string]interface{}{"a": int32(7)}, writerSchema))

	// Act
	out, err := rd.ReadBinaryResolving(&buf, writerSchema, readerSchema)

	// Assert
	require.NoError(t, err)
	m := out.(map[string]interface{})
	assert.Equal(t, int64(7), m["a"])
	assert.Equal(t, "unset", m["b"])
}

func TestBinary_Resolving_SkipsWriterOnlyField(t *testing.T) {
	writerSchema := schema.MustParse(`{"type":"record","name":"R","fields":[
		{"name":"a","type":"int"},
		{"name":"gone","type":"string"}
	]}`)
	readerSchema := schema.MustParse(`{"type":"record","name":"R","fields":[
		{"name":"a","type":"int"}
	]}`)
	model := NewModel()
	wr := NewWriter(model)
	rd := NewReader(model)
	var buf bytes.Buffer
	require.NoError(t, wr.WriteBinary(&buf, map[string]interface{}{
		"a": int32(1), "gone": "discard me",
	}, writerSchema))

	out, err := rd.ReadBinaryResolving(&buf, writerSchema, readerSchema)

	require.NoError(t, err)
	assert.Equal(t, map[string]interface{}{"a": int32(1)}, out)
}

func TestBinary_Resolving_EnumUnmappedFallsBackToDefault(t *testing.T) {
	writerSchema := schema.MustParse(`{"type":"enum","name":"Color","symbols":["RED","GREEN","BLUE"]}`)
	readerSchema := schema.MustParse(`{"type":"enum","name":"Color","symbols":["RED","BLUE"],"default":"RED"}`)
	model := NewModel()
	wr := NewWriter(model)
	rd := NewReader(model)
	var buf bytes.Buffer
	require.NoError(t, wr.WriteBinary(&buf, "GREEN", writerSchema))

	out, err := rd.ReadBinaryResolving(&buf, writerSchema, readerSchema)

	require.NoError(t, err)
	assert.Equal(t, "RED", out)
}

func TestBinary_Resolving_ArrayItemsPromoted(t *testing.T) {
	writerSchema := schema.MustParse(`{"type":"array","items":"int"}`)
	readerSchema := schema.MustParse(`{"type":"array","items":"double"}`)
	model := NewModel()
	wr := NewWriter(model)
	rd := NewReader(model)
	var buf bytes.Buffer
	require.NoError(t, wr.WriteBinary(&buf, []interface{}{int32(1), int32(2)}, writerSchema))

	out, err := rd.ReadBinaryResolving(&buf, writerSchema, readerSchema)

	require.NoError(t, err)
	assert.Equal(t, []interface{}{1.0, 2.0}, out)
}

func TestJSON_RoundTrip_RecordWithUnion(t *testing.T) {
	s := schema.MustParse(`{"type":"record","name":"P","fields":[
		{"name":"x","type":"int"},
		{"name":"tag","type":["null","string"]}
	]}`)
	model := NewModel()
	wr := NewWriter(model)
	rd := NewReader(model)
	value := map[string]interface{}{"x": int32(7), "tag": "hi"}

	data, err := wr.WriteJSON(value, s)
	require.NoError(t, err)

	out, err := rd.ReadJSON(data, s)
	require.NoError(t, err)
	assert.Equal(t, value, out)
}

func TestJSON_MissingFieldGetsActualDefault_NotNull(t *testing.T) {
	s := schema.MustParse(`{"type":"record","name":"P","fields":[
		{"name":"x","type":"int"},
		{"name":"note","type":"string","default":"n/a"}
	]}`)
	model := NewModel()
	wr := NewWriter(model)
	rd := NewReader(model)

	data, err := wr.WriteJSON(map[string]interface{}{"x": int32(1)}, s)
	require.NoError(t, err)

	out, err := rd.ReadJSON(data, s)
	require.NoError(t, err)
	assert.Equal(t, "n/a", out.(map[string]interface{})["note"])
}

func TestLogical_DateRoundTrip_Binary(t *testing.T) {
	s := schema.MustParse(`{"type":"int","logicalType":"date"}`)
	model := NewModel()
	wr := NewWriter(model)
	rd := NewReader(model)
	day := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)

	var buf bytes.Buffer
	require.NoError(t, wr.WriteBinary(&buf, day, s))
	out, err := rd.ReadBinary(&buf, s)

	require.NoError(t, err)
	assert.True(t, day.Equal(out.(time.Time)))
}

func TestLogical_UUIDRoundTrip_JSON(t *testing.T) {
	s := schema.MustParse(`{"type":"string","logicalType":"uuid"}`)
	model := NewModel()
	wr := NewWriter(model)
	rd := NewReader(model)
	id := uuid.New()

	data, err := wr.WriteJSON(id, s)
	require.NoError(t, err)
	out, err := rd.ReadJSON(data, s)
	require.NoError(t, err)
	assert.Equal(t, id, out)
}

func TestLogical_DecimalInUnion_BinaryRoundTrip(t *testing.T) {
	// Arrange: union with a plain null branch and a decimal-logical bytes
	// branch; the domain value must select the decimal branch by its Go
	// type, not by wire shape.
	s := schema.MustParse(`["null", {"type":"bytes","logicalType":"decimal","precision":10,"scale":2}]`)
	model := NewModel()
	wr := NewWriter(model)
	rd := NewReader(model)
	amount := decimal.NewFromFloat(19.99)

	var buf bytes.Buffer
	require.NoError(t, wr.WriteBinary(&buf, amount, s))
	out, err := rd.ReadBinary(&buf, s)

	require.NoError(t, err)
	got := out.(decimal.Decimal)
	assert.True(t, amount.Equal(got), "expected %s, got %s", amount, got)
}

func TestBinary_MissingRequiredFieldFails(t *testing.T) {
	s := schema.MustParse(`{"type":"record","name":"R","fields":[{"name":"a","type":"int"}]}`)
	model := NewModel()
	wr := NewWriter(model)

	var buf bytes.Buffer
	err := wr.WriteBinary(&buf, map[string]interface{}{}, s)

	assert.Error(t, err)
}
