package registry

import (
	"bytes"
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/kirovets/avro/internal/avrolog"
	"github.com/kirovets/avro/pkg/datum"
)

// Deserializer decodes Confluent-framed Avro bytes, resolving the writer
// schema carried in the frame against whatever reader schema the caller has
// bound for that schema name when the two differ.
type Deserializer struct {
	client   *Client
	bindings *Bindings
	reader   *datum.Reader
}

func NewDeserializer(client *Client, bindings *Bindings, model *datum.Model) *Deserializer {
	return &Deserializer{
		client:   client,
		bindings: bindings,
		reader:   datum.NewReader(model),
	}
}

// Deserialize parses the Confluent wire frame, resolves the writer schema
// via the registry, and decodes the payload. If a TopicBinding is registered
// under the writer schema's name, decoding resolves against that reader
// schema; otherwise the payload is decoded as-is with the writer schema.
func (d *Deserializer) Deserialize(ctx context.Context, data []byte) (interface{}, error) {
	schemaID, payload, err := ParseWireFormat(data)
	if err != nil {
		return nil, fmt.Errorf("registry: deserialize: %w", err)
	}
	ctx = avrolog.WithLogger(ctx, avrolog.FromContext(ctx).With(zap.Int("schema_id", schemaID)))

	writerSchema, schemaName, err := d.client.ResolveWriterSchema(ctx, schemaID)
	if err != nil {
		return nil, fmt.Errorf("registry: deserialize: %w", err)
	}

	binding, err := d.bindings.ByName(schemaName)
	if err != nil {
		return d.reader.ReadBinary(bytes.NewReader(payload), writerSchema)
	}

	return d.reader.ReadBinaryResolving(bytes.NewReader(payload), writerSchema, binding.Schema)
}
