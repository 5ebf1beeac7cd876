package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kirovets/avro/pkg/schema"
)

const productCreatedSchema = `{
	"type": "record",
	"name": "ProductCreated",
	"namespace": "ecommerce.product",
	"fields": [
		{"name": "id", "type": "string"}
	]
}`

func TestBindings_RegisterAndLookupByName(t *testing.T) {
	// Arrange
	b := NewBindings()
	s := schema.MustParse(productCreatedSchema)

	// Act
	binding, err := b.Register(s, "products")

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "ecommerce.product.ProductCreated", binding.SchemaName)

	got, err := b.ByName("ecommerce.product.ProductCreated")
	require.NoError(t, err)
	assert.Same(t, binding, got)
}

func TestBindings_LookupByTopic(t *testing.T) {
	b := NewBindings()
	s := schema.MustParse(productCreatedSchema)
	binding, err := b.Register(s, "products")
	require.NoError(t, err)

	got, err := b.ByTopic("products")

	require.NoError(t, err)
	assert.Same(t, binding, got)
}

func TestBindings_RegisterRejectsNonNamedSchema(t *testing.T) {
	b := NewBindings()
	s := schema.MustParse(`"string"`)

	_, err := b.Register(s, "strings")

	assert.Error(t, err)
}

func TestBindings_RegisterRejectsDuplicateSchemaName(t *testing.T) {
	b := NewBindings()
	s := schema.MustParse(productCreatedSchema)
	_, err := b.Register(s, "products")
	require.NoError(t, err)

	_, err = b.Register(s, "products-v2")

	assert.Error(t, err)
}

func TestBindings_ByNameUnknownFails(t *testing.T) {
	b := NewBindings()

	_, err := b.ByName("nothing.here")

	assert.Error(t, err)
}

func TestBindings_All(t *testing.T) {
	b := NewBindings()
	_, err := b.Register(schema.MustParse(productCreatedSchema), "products")
	require.NoError(t, err)

	all := b.All()

	assert.Len(t, all, 1)
}
