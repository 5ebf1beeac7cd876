// Package codec implements the Avro binary wire format:
// zigzag varint integers, little-endian IEEE-754 floats, length-prefixed
// bytes/strings, and blocked framing for arrays and maps.
package codec

import (
	"io"
	"math"
)

// maxVarintBytes bounds a varint at 10 bytes (70 payload bits), matching
// the widest possible zigzag-encoded 64-bit value; anything longer is
// malformed input rather than a valid, if unusual, integer.
const maxVarintBytes = 10

// DefaultMaxAllocation bounds any single length or block-count prefix read
// off the wire before it is trusted to size an allocation or a loop count.
// 64 MiB comfortably covers legitimate single-field payloads (a Kafka
// record itself is very rarely allowed past a few MiB by the broker) while
// still stopping a corrupt or hostile varint from driving an out-of-memory
// allocation on the strength of ten bytes of input.
const DefaultMaxAllocation int64 = 64 << 20

// BinaryReader decodes Avro binary primitives from an underlying byte
// stream. It is single-threaded and stateless beyond stream position.
type BinaryReader struct {
	r        io.Reader
	buf      [8]byte
	maxAlloc int64
}

// ReaderOption configures a BinaryReader at construction time.
type ReaderOption func(*BinaryReader)

// WithMaxAllocation overrides DefaultMaxAllocation, the ceiling a
// bytes/string length or an array/map block count must not exceed. Pass a
// larger value for workloads that legitimately move payloads bigger than
// the default, or a smaller one to fail fast on untrusted input.
func WithMaxAllocation(n int64) ReaderOption {
	return func(r *BinaryReader) { r.maxAlloc = n }
}

func NewBinaryReader(r io.Reader, opts ...ReaderOption) *BinaryReader {
	br := &BinaryReader{r: r, maxAlloc: DefaultMaxAllocation}
	for _, opt := range opts {
		opt(br)
	}
	return br
}

func (r *BinaryReader) readByte() (byte, error) {
	if _, err := io.ReadFull(r.r, r.buf[:1]); err != nil {
		return 0, malformed("unexpected end of input", err)
	}
	return r.buf[0], nil
}

// ReadLong reads a zigzag-encoded varint and returns it as int64; ReadInt is
// the same wire encoding truncated to int32 by the caller.
func (r *BinaryReader) ReadLong() (int64, error) {
	var value uint64
	var shift uint
	for i := 0; i < maxVarintBytes; i++ {
		b, err := r.readByte()
		if err != nil {
			return 0, err
		}
		value |= uint64(b&0x7f) << shift
		if b&0x80 == 0 {
			return int64(value>>1) ^ -int64(value&1), nil
		}
		shift += 7
	}
	return 0, malformed("varint exceeds 10 bytes", nil)
}

func (r *BinaryReader) ReadInt() (int32, error) {
	v, err := r.ReadLong()
	if err != nil {
		return 0, err
	}
	return int32(v), nil
}

func (r *BinaryReader) ReadBoolean() (bool, error) {
	b, err := r.readByte()
	if err != nil {
		return false, err
	}
	return b != 0, nil
}

func (r *BinaryReader) ReadFloat() (float32, error) {
	if _, err := io.ReadFull(r.r, r.buf[:4]); err != nil {
		return 0, malformed("unexpected end of input reading float", err)
	}
	bits := uint32(r.buf[0]) | uint32(r.buf[1])<<8 | uint32(r.buf[2])<<16 | uint32(r.buf[3])<<24
	return math.Float32frombits(bits), nil
}

func (r *BinaryReader) ReadDouble() (float64, error) {
	if _, err := io.ReadFull(r.r, r.buf[:8]); err != nil {
		return 0, malformed("unexpected end of input reading double", err)
	}
	var bits uint64
	for i := 0; i < 8; i++ {
		bits |= uint64(r.buf[i]) << (8 * uint(i))
	}
	return math.Float64frombits(bits), nil
}

func (r *BinaryReader) ReadBytes() ([]byte, error) {
	n, err := r.ReadLong()
	if err != nil {
		return nil, err
	}
	if n < 0 {
		return nil, malformed("negative byte length", nil)
	}
	if n > r.maxAlloc {
		return nil, capacityExceeded("bytes length", n, r.maxAlloc)
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(r.r, buf); err != nil {
		return nil, malformed("unexpected end of input reading bytes", err)
	}
	return buf, nil
}

func (r *BinaryReader) ReadString() (string, error) {
	b, err := r.ReadBytes()
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (r *BinaryReader) ReadFixed(buf []byte) error {
	if _, err := io.ReadFull(r.r, buf); err != nil {
		return malformed("unexpected end of input reading fixed", err)
	}
	return nil
}

// ReadBlockCount reads one block-count prefix of the array/map framing
// protocol: a positive count starts a block of that many
// items; count 0 ends the sequence; a negative count -n is followed by the
// block's byte size (which the caller may use to skip the block wholesale)
// and is followed by n items.
func (r *BinaryReader) ReadBlockCount() (count int64, byteSize int64, err error) {
	count, err = r.ReadLong()
	if err != nil {
		return 0, 0, err
	}
	if count < 0 {
		byteSize, err = r.ReadLong()
		if err != nil {
			return 0, 0, err
		}
		count = -count
	}
	if count > r.maxAlloc {
		return 0, 0, capacityExceeded("block item count", count, r.maxAlloc)
	}
	return count, byteSize, nil
}

// SkipBytes discards n raw bytes, used when a negative block count's byte
// size lets the caller skip an entire block without decoding its items.
func (r *BinaryReader) SkipBytes(n int64) error {
	if n == 0 {
		return nil
	}
	if seeker, ok := r.r.(io.Seeker); ok {
		_, err := seeker.Seek(n, io.SeekCurrent)
		if err != nil {
			return malformed("seek failed while skipping block", err)
		}
		return nil
	}
	if _, err := io.CopyN(io.Discard, r.r, n); err != nil {
		return malformed("unexpected end of input while skipping block", err)
	}
	return nil
}
