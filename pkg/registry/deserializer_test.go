package registry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kirovets/avro/pkg/datum"
	"github.com/kirovets/avro/pkg/schema"
)

func TestDeserializer_RoundTripsWithSerializer(t *testing.T) {
	// Arrange
	raw := newMockRegistryClient(t)
	client := NewClient(raw)
	bindings := NewBindings()
	binding, err := bindings.Register(schema.MustParse(productCreatedSchema), "products")
	require.NoError(t, err)
	model := datum.NewModel()
	s := NewSerializer(client, bindings, model)
	d := NewDeserializer(client, bindings, model)
	value := map[string]interface{}{"id": "p1"}

	// Act
	data, err := s.Serialize(context.Background(), binding.SchemaName, value)
	require.NoError(t, err)
	out, err := d.Deserialize(context.Background(), data)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, value, out)
}

func TestDeserializer_MalformedFrameFails(t *testing.T) {
	raw := newMockRegistryClient(t)
	client := NewClient(raw)
	bindings := NewBindings()
	d := NewDeserializer(client, bindings, datum.NewModel())

	_, err := d.Deserialize(context.Background(), []byte{0x01, 0x02})

	assert.Error(t, err)
}

func TestDeserializer_UnboundSchemaFallsBackToWriterSchema(t *testing.T) {
	raw := newMockRegistryClient(t)
	client := NewClient(raw)
	producerBindings := NewBindings()
	binding, err := producerBindings.Register(schema.MustParse(productCreatedSchema), "products")
	require.NoError(t, err)
	model := datum.NewModel()
	s := NewSerializer(client, producerBindings, model)

	consumerBindings := NewBindings()
	d := NewDeserializer(client, consumerBindings, model)
	value := map[string]interface{}{"id": "p1"}

	data, err := s.Serialize(context.Background(), binding.SchemaName, value)
	require.NoError(t, err)

	out, err := d.Deserialize(context.Background(), data)

	require.NoError(t, err)
	assert.Equal(t, value, out)
}
