package registry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kirovets/avro/pkg/datum"
	"github.com/kirovets/avro/pkg/schema"
)

func TestSerializer_SerializeToTopicProducesWireFramedBytes(t *testing.T) {
	// Arrange
	raw := newMockRegistryClient(t)
	client := NewClient(raw)
	bindings := NewBindings()
	binding, err := bindings.Register(schema.MustParse(productCreatedSchema), "products")
	require.NoError(t, err)
	s := NewSerializer(client, bindings, datum.NewModel())

	// Act
	data, topic, err := s.SerializeToTopic(context.Background(), binding.SchemaName, map[string]interface{}{"id": "p1"})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "products", topic)
	schemaID, payload, err := ParseWireFormat(data)
	require.NoError(t, err)
	assert.NotZero(t, schemaID)
	assert.NotEmpty(t, payload)
}

func TestSerializer_SerializeUnknownSchemaFails(t *testing.T) {
	raw := newMockRegistryClient(t)
	client := NewClient(raw)
	bindings := NewBindings()
	s := NewSerializer(client, bindings, datum.NewModel())

	_, err := s.Serialize(context.Background(), "nothing.here", map[string]interface{}{})

	assert.Error(t, err)
}
