package datum

import (
	"io"

	"github.com/kirovets/avro/pkg/codec"
	"github.com/kirovets/avro/pkg/jsoncodec"
	"github.com/kirovets/avro/pkg/parser"
	"github.com/kirovets/avro/pkg/schema"
)

// Writer encodes values against a schema, applying whatever logical type
// conversions its Model has active before delegating to the binary or
// JSON leaf codecs.
type Writer struct {
	model  *Model
	reader *Reader
}

func NewWriter(model *Model) *Writer {
	return &Writer{model: model, reader: NewReader(model)}
}

// WriteBinary encodes value as Avro binary against schema s, driving the
// same compiled identity grammar ReadBinary uses through a fresh
// pkg/parser.Engine.
func (wr *Writer) WriteBinary(w io.Writer, value interface{}, s schema.Schema) error {
	root, err := identityGrammar(s)
	if err != nil {
		return err
	}
	bw := codec.NewBinaryWriter(w)
	eng := parser.NewEngine(root, nil)
	return wr.writeBinaryValue(bw, eng, value, s, root)
}

// WriteJSON encodes value as Avro JSON text against schema s.
func (wr *Writer) WriteJSON(value interface{}, s schema.Schema) ([]byte, error) {
	tree, err := wr.buildJSONValue(value, s)
	if err != nil {
		return nil, err
	}
	return jsoncodec.Marshal(tree)
}

func (wr *Writer) toWire(value interface{}, s schema.Schema) (interface{}, error) {
	lt := s.Logical()
	if lt == nil {
		return value, nil
	}
	conv, ok := wr.model.logical.Lookup(lt.Name)
	if !ok {
		return value, nil
	}
	return conv.ToWire(value, lt.Props)
}
