package codec

import (
	"io"
	"math"
)

// BinaryWriter encodes Avro binary primitives to an underlying byte stream.
type BinaryWriter struct {
	w   io.Writer
	buf [10]byte
}

func NewBinaryWriter(w io.Writer) *BinaryWriter {
	return &BinaryWriter{w: w}
}

func (w *BinaryWriter) WriteLong(v int64) error {
	zz := uint64((v << 1) ^ (v >> 63))
	n := 0
	for zz >= 0x80 {
		w.buf[n] = byte(zz) | 0x80
		zz >>= 7
		n++
	}
	w.buf[n] = byte(zz)
	n++
	_, err := w.w.Write(w.buf[:n])
	return err
}

func (w *BinaryWriter) WriteInt(v int32) error { return w.WriteLong(int64(v)) }

func (w *BinaryWriter) WriteBoolean(v bool) error {
	if v {
		_, err := w.w.Write([]byte{1})
		return err
	}
	_, err := w.w.Write([]byte{0})
	return err
}

func (w *BinaryWriter) WriteFloat(v float32) error {
	bits := math.Float32bits(v)
	buf := [4]byte{byte(bits), byte(bits >> 8), byte(bits >> 16), byte(bits >> 24)}
	_, err := w.w.Write(buf[:])
	return err
}

func (w *BinaryWriter) WriteDouble(v float64) error {
	bits := math.Float64bits(v)
	var buf [8]byte
	for i := 0; i < 8; i++ {
		buf[i] = byte(bits >> (8 * uint(i)))
	}
	_, err := w.w.Write(buf[:])
	return err
}

func (w *BinaryWriter) WriteBytes(b []byte) error {
	if err := w.WriteLong(int64(len(b))); err != nil {
		return err
	}
	_, err := w.w.Write(b)
	return err
}

func (w *BinaryWriter) WriteString(s string) error {
	return w.WriteBytes([]byte(s))
}

func (w *BinaryWriter) WriteFixed(b []byte) error {
	_, err := w.w.Write(b)
	return err
}

// WriteBlockCount writes a plain (non-negative, no byte-size) block count;
// the writer side never needs the negative/byte-size skip form, which is a
// reader-side space optimization.
func (w *BinaryWriter) WriteBlockCount(n int64) error {
	return w.WriteLong(n)
}

// WriteBlockEnd terminates an array/map block sequence.
func (w *BinaryWriter) WriteBlockEnd() error {
	return w.WriteLong(0)
}
