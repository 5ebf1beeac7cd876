package registry

import (
	"bytes"
	"context"
	"fmt"

	"github.com/kirovets/avro/pkg/datum"
)

// Serializer produces Confluent-framed Avro bytes for values matching a
// registered TopicBinding.
type Serializer struct {
	client   *Client
	bindings *Bindings
	writer   *datum.Writer
}

func NewSerializer(client *Client, bindings *Bindings, model *datum.Model) *Serializer {
	return &Serializer{
		client:   client,
		bindings: bindings,
		writer:   datum.NewWriter(model),
	}
}

// Serialize encodes value against the schema bound to schemaName and returns
// it framed as [0x00][schema_id][avro_data], registering the schema on
// first use.
func (s *Serializer) Serialize(ctx context.Context, schemaName string, value interface{}) ([]byte, error) {
	data, _, err := s.SerializeToTopic(ctx, schemaName, value)
	return data, err
}

// SerializeToTopic behaves like Serialize but also returns the Kafka topic
// the binding is associated with, saving the caller a second lookup.
func (s *Serializer) SerializeToTopic(ctx context.Context, schemaName string, value interface{}) ([]byte, string, error) {
	binding, err := s.bindings.ByName(schemaName)
	if err != nil {
		return nil, "", err
	}

	schemaID, err := s.client.Register(ctx, binding)
	if err != nil {
		return nil, "", fmt.Errorf("registry: serialize %q: %w", schemaName, err)
	}

	var buf bytes.Buffer
	if err := s.writer.WriteBinary(&buf, value, binding.Schema); err != nil {
		return nil, "", fmt.Errorf("registry: encode %q: %w", schemaName, err)
	}

	return BuildWireFormat(schemaID, buf.Bytes()), binding.Topic, nil
}
