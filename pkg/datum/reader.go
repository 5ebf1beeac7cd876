package datum

import (
	"io"

	"go.uber.org/zap"

	"github.com/kirovets/avro/pkg/codec"
	"github.com/kirovets/avro/pkg/grammar"
	"github.com/kirovets/avro/pkg/jsoncodec"
	"github.com/kirovets/avro/pkg/parser"
	"github.com/kirovets/avro/pkg/resolution"
	"github.com/kirovets/avro/pkg/schema"
)

// Reader decodes values against a schema. Constructed from a Model so
// every read shares the same active logical type conversions.
type Reader struct {
	model *Model
}

func NewReader(model *Model) *Reader {
	return &Reader{model: model}
}

// ReadBinary decodes one Avro binary-encoded value of schema s from r.
// This is the identity path: writer and reader schema are the same, so
// pkg/grammar compiles (and caches) the plain non-resolving grammar for s
// and a pkg/parser.Engine drives the read one terminal at a time.
func (rd *Reader) ReadBinary(r io.Reader, s schema.Schema) (interface{}, error) {
	root, err := identityGrammar(s)
	if err != nil {
		return nil, err
	}
	br := codec.NewBinaryReader(r, codec.WithMaxAllocation(rd.model.maxAlloc))
	eng := parser.NewEngine(root, nil)
	return rd.readBinaryValue(br, eng, s, root)
}

// ReadBinaryResolving decodes a value written with writer's schema,
// materialized as if it had been written with reader's schema: reader
// fields absent from writer get their declared default, writer fields
// absent from reader are skipped, and primitive/enum/union differences
// are reconciled through the promotion and remapping rules pkg/resolution
// builds. It compiles a resolving grammar via pkg/resolution. The compiled
// plan is cached process-wide, keyed by the
// pair's Fingerprint64 values, so decoding many messages against the same
// writer/reader pair only pays for one resolution.Resolve call.
func (rd *Reader) ReadBinaryResolving(r io.Reader, writer, reader schema.Schema) (interface{}, error) {
	plan, err := grammar.Default().GetOrCompile(writer, reader, func() (*grammar.Symbol, error) {
		return resolution.Resolve(writer, reader)
	})
	if err != nil {
		return nil, err
	}
	br := codec.NewBinaryReader(r, codec.WithMaxAllocation(rd.model.maxAlloc))
	return rd.readResolvingValue(br, plan, reader)
}

// ReadJSON decodes one Avro JSON-encoded value of schema s from data.
func (rd *Reader) ReadJSON(data []byte, s schema.Schema) (interface{}, error) {
	var raw interface{}
	if err := jsoncodec.Unmarshal(data, &raw); err != nil {
		return nil, &jsoncodec.TypeMismatchError{Expected: "valid JSON", Got: err.Error()}
	}
	return rd.readJSONValue(raw, s)
}

// ReadJSONResolving decodes JSON-encoded data as if it declared writer as
// its schema, materialized against reader the same way ReadBinaryResolving
// does for binary input: reader fields absent from writer get their
// declared default, writer-only fields are dropped, and enum/union/fixed
// mismatches are checked against reader's declarations. Unlike the binary
// path, there is no wire-order sequence to compile a grammar plan against
// (a JSON object already names every field), so this walks the parsed
// (writer, reader) schema pair directly rather than going through
// pkg/resolution's compiled Symbol plan.
func (rd *Reader) ReadJSONResolving(data []byte, writer, reader schema.Schema) (interface{}, error) {
	var raw interface{}
	if err := jsoncodec.Unmarshal(data, &raw); err != nil {
		return nil, &jsoncodec.TypeMismatchError{Expected: "valid JSON", Got: err.Error()}
	}
	return rd.readResolvingJSONValue(raw, writer, reader)
}

func (rd *Reader) log() *zap.Logger { return rd.model.log }

func (rd *Reader) applyLogical(base interface{}, s schema.Schema) (interface{}, error) {
	lt := s.Logical()
	if lt == nil {
		return base, nil
	}
	conv, ok := rd.model.logical.Lookup(lt.Name)
	if !ok {
		rd.log().Debug("no conversion registered for logical type, passing through base value", zap.String("logicalType", lt.Name))
		return base, nil
	}
	return conv.FromWire(base, lt.Props)
}
