package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseWireFormat_Success(t *testing.T) {
	// Arrange
	schemaID := 123
	data := []byte{
		0x00,
		0x00, 0x00, 0x00, byte(schemaID),
		0x01, 0x02, 0x03, 0x04,
	}

	// Act
	id, payload, err := ParseWireFormat(data)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, schemaID, id)
	assert.Equal(t, []byte{0x01, 0x02, 0x03, 0x04}, payload)
}

func TestParseWireFormat_TooShortFails(t *testing.T) {
	_, _, err := ParseWireFormat([]byte{0x00, 0x01})
	assert.Error(t, err)
}

func TestParseWireFormat_WrongMagicByteFails(t *testing.T) {
	data := []byte{0x01, 0x00, 0x00, 0x00, 0x01, 0xAA}
	_, _, err := ParseWireFormat(data)
	assert.Error(t, err)
}

func TestBuildWireFormat_RoundTripsWithParse(t *testing.T) {
	// Arrange
	schemaID := 16777215
	payload := []byte{0xAA, 0xBB, 0xCC}

	// Act
	data := BuildWireFormat(schemaID, payload)
	id, got, err := ParseWireFormat(data)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, schemaID, id)
	assert.Equal(t, payload, got)
}
