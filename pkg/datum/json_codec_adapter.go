package datum

import (
	"bytes"

	"github.com/kirovets/avro/pkg/schema"
)

// jsonCodecAdapter satisfies logical.JSONCodec, letting a DirectJSONCodec
// (any's) recurse back into this package's own binary/JSON encode/decode
// for a schema it only discovers at runtime.
type jsonCodecAdapter struct {
	rd *Reader
	wr *Writer
}

func (a *jsonCodecAdapter) DecodeBinary(data []byte, s schema.Schema) (interface{}, error) {
	return a.rd.ReadBinary(bytes.NewReader(data), s)
}

func (a *jsonCodecAdapter) EncodeBinary(value interface{}, s schema.Schema) ([]byte, error) {
	var buf bytes.Buffer
	if err := a.wr.WriteBinary(&buf, value, s); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (a *jsonCodecAdapter) DecodeJSONValue(raw interface{}, s schema.Schema) (interface{}, error) {
	return a.rd.readJSONValue(raw, s)
}

func (a *jsonCodecAdapter) EncodeJSONValue(value interface{}, s schema.Schema) (interface{}, error) {
	return a.wr.buildJSONValue(value, s)
}
