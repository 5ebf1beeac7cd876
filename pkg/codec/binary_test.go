package codec

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLongRoundTrip(t *testing.T) {
	// Arrange
	values := []int64{0, -1, 1, 300, -300, math_MaxInt32, math_MinInt32}

	for _, v := range values {
		var buf bytes.Buffer
		w := NewBinaryWriter(&buf)

		// Act
		require.NoError(t, w.WriteLong(v))
		r := NewBinaryReader(&buf)
		got, err := r.ReadLong()

		// Assert
		require.NoError(t, err)
		assert.Equal(t, v, got)
	}
}

// S1 — Binary int promotion fixture: writer int 300 encodes to 0xD8 0x04.
func TestZigzagEncoding300(t *testing.T) {
	var buf bytes.Buffer
	w := NewBinaryWriter(&buf)

	require.NoError(t, w.WriteInt(300))
	assert.Equal(t, []byte{0xD8, 0x04}, buf.Bytes())
}

func TestReadLong_OverlongVarintIsMalformed(t *testing.T) {
	// 11 continuation bytes, none terminating: malformed.
	data := bytes.Repeat([]byte{0xFF}, 11)
	r := NewBinaryReader(bytes.NewReader(data))

	_, err := r.ReadLong()

	assert.Error(t, err)
	var malformedErr *MalformedError
	assert.ErrorAs(t, err, &malformedErr)
}

func TestReadBytes_TruncatedInput(t *testing.T) {
	var buf bytes.Buffer
	w := NewBinaryWriter(&buf)
	require.NoError(t, w.WriteLong(10))
	buf.Write([]byte{1, 2, 3}) // fewer than the declared 10 bytes

	r := NewBinaryReader(&buf)
	_, err := r.ReadBytes()

	assert.Error(t, err)
}

func TestFloatDoubleRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	w := NewBinaryWriter(&buf)
	require.NoError(t, w.WriteFloat(3.14))
	require.NoError(t, w.WriteDouble(2.71828))

	r := NewBinaryReader(&buf)
	f, err := r.ReadFloat()
	require.NoError(t, err)
	assert.InDelta(t, float32(3.14), f, 0.0001)

	d, err := r.ReadDouble()
	require.NoError(t, err)
	assert.InDelta(t, 2.71828, d, 0.00001)
}

func TestStringRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	w := NewBinaryWriter(&buf)
	require.NoError(t, w.WriteString("hello avro"))

	r := NewBinaryReader(&buf)
	s, err := r.ReadString()
	require.NoError(t, err)
	assert.Equal(t, "hello avro", s)
}

func TestBlockFraming_ArrayOfThree(t *testing.T) {
	var buf bytes.Buffer
	w := NewBinaryWriter(&buf)
	require.NoError(t, w.WriteBlockCount(3))
	for i := int64(1); i <= 3; i++ {
		require.NoError(t, w.WriteLong(i))
	}
	require.NoError(t, w.WriteBlockEnd())

	r := NewBinaryReader(&buf)
	count, byteSize, err := r.ReadBlockCount()
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)
	assert.Equal(t, int64(0), byteSize)

	var got []int64
	for i := int64(0); i < count; i++ {
		v, err := r.ReadLong()
		require.NoError(t, err)
		got = append(got, v)
	}
	end, _, err := r.ReadBlockCount()
	require.NoError(t, err)
	assert.Equal(t, int64(0), end)
	assert.Equal(t, []int64{1, 2, 3}, got)
}

func TestBlockFraming_NegativeCountCarriesByteSize(t *testing.T) {
	var buf bytes.Buffer
	w := NewBinaryWriter(&buf)
	require.NoError(t, w.WriteLong(-2))
	require.NoError(t, w.WriteLong(2)) // byte size of the 2 items that follow
	require.NoError(t, w.WriteLong(10))
	require.NoError(t, w.WriteLong(20))
	require.NoError(t, w.WriteBlockEnd())

	r := NewBinaryReader(&buf)
	count, byteSize, err := r.ReadBlockCount()
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
	assert.Equal(t, int64(2), byteSize)
}

const math_MaxInt32 = 1<<31 - 1
const math_MinInt32 = -1 << 31
