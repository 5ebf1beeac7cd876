package jsoncodec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kirovets/avro/pkg/schema"
)

func TestDecode_RecordFieldOrderAgnostic(t *testing.T) {
	// Arrange: JSON object keys arrive in the opposite order of the
	// schema's declared field order.
	s := schema.MustParse(`{"type":"record","name":"P","fields":[
		{"name":"x","type":"int"},
		{"name":"y","type":"int"}
	]}`)
	dec := NewDecoder(false)

	// Act
	v, err := dec.Decode([]byte(`{"y": 2, "x": 1}`), s)

	// Assert
	require.NoError(t, err)
	m := v.(map[string]interface{})
	assert.Equal(t, int32(1), m["x"])
	assert.Equal(t, int32(2), m["y"])
}

func TestDecode_MissingFieldWithDefaultInjected(t *testing.T) {
	s := schema.MustParse(`{"type":"record","name":"P","fields":[
		{"name":"x","type":"int"},
		{"name":"note","type":"string","default":"n/a"}
	]}`)
	dec := NewDecoder(false)

	v, err := dec.Decode([]byte(`{"x": 1}`), s)

	require.NoError(t, err)
	m := v.(map[string]interface{})
	assert.Equal(t, "n/a", m["note"])
}

func TestDecode_UnknownFieldStrictFails(t *testing.T) {
	s := schema.MustParse(`{"type":"record","name":"P","fields":[{"name":"x","type":"int"}]}`)
	dec := NewDecoder(false)

	_, err := dec.Decode([]byte(`{"x": 1, "extra": true}`), s)

	assert.Error(t, err)
	var unknown *UnknownFieldError
	assert.ErrorAs(t, err, &unknown)
}

func TestDecode_UnknownFieldLenientDropped(t *testing.T) {
	s := schema.MustParse(`{"type":"record","name":"P","fields":[{"name":"x","type":"int"}]}`)
	dec := NewDecoder(true)

	v, err := dec.Decode([]byte(`{"x": 1, "extra": true}`), s)

	require.NoError(t, err)
	m := v.(map[string]interface{})
	_, hasExtra := m["extra"]
	assert.False(t, hasExtra)
}

func TestDecode_UnionNullTag(t *testing.T) {
	s := schema.MustParse(`["null", "string"]`)
	dec := NewDecoder(false)

	v, err := dec.Decode([]byte(`null`), s)

	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestDecode_UnionLabeledTag(t *testing.T) {
	s := schema.MustParse(`["null", "string"]`)
	dec := NewDecoder(false)

	v, err := dec.Decode([]byte(`{"string": "hello"}`), s)

	require.NoError(t, err)
	assert.Equal(t, "hello", v)
}

func TestDecode_UnionUnknownLabelFails(t *testing.T) {
	s := schema.MustParse(`["null", "string"]`)
	dec := NewDecoder(false)

	_, err := dec.Decode([]byte(`{"int": 1}`), s)

	assert.Error(t, err)
	var branchErr *UnionBranchError
	assert.ErrorAs(t, err, &branchErr)
}

func TestDecode_BytesLatin1Convention(t *testing.T) {
	s := schema.MustParse(`"bytes"`)
	dec := NewDecoder(false)

	v, err := dec.Decode([]byte(`"ÿ hi"`), s)

	require.NoError(t, err)
	assert.Equal(t, []byte{0xff, 0x20, 'h', 'i'}, v)
}

func TestEncode_RoundTripsWithDecode(t *testing.T) {
	s := schema.MustParse(`{"type":"record","name":"P","fields":[
		{"name":"x","type":"int"},
		{"name":"tag","type":["null","string"]}
	]}`)
	dec := NewDecoder(false)
	enc := NewEncoder()

	v, err := dec.Decode([]byte(`{"x": 7, "tag": {"string": "hi"}}`), s)
	require.NoError(t, err)

	out, err := enc.Encode(v, s)
	require.NoError(t, err)

	back, err := dec.Decode(out, s)
	require.NoError(t, err)
	assert.Equal(t, v, back)
}

func TestEncode_MissingFieldWithoutDefaultFails(t *testing.T) {
	s := schema.MustParse(`{"type":"record","name":"P","fields":[{"name":"x","type":"int"}]}`)
	enc := NewEncoder()

	_, err := enc.Encode(map[string]interface{}{}, s)

	assert.Error(t, err)
	var missing *MissingFieldError
	assert.ErrorAs(t, err, &missing)
}
