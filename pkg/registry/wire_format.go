package registry

import "fmt"

const magicByte = 0x00

// ParseWireFormat splits a Confluent-framed Kafka payload into its schema ID
// and Avro-encoded body: [0x00][schema_id (4 bytes, big-endian)][payload].
func ParseWireFormat(data []byte) (schemaID int, payload []byte, err error) {
	if len(data) < 5 {
		return 0, nil, fmt.Errorf("registry: wire format too short: expected at least 5 bytes, got %d", len(data))
	}
	if data[0] != magicByte {
		return 0, nil, fmt.Errorf("registry: invalid magic byte: expected 0x%02x, got 0x%02x", magicByte, data[0])
	}
	id := int(data[1])<<24 | int(data[2])<<16 | int(data[3])<<8 | int(data[4])
	return id, data[5:], nil
}

// BuildWireFormat frames payload with schemaID in Confluent wire format.
func BuildWireFormat(schemaID int, payload []byte) []byte {
	out := make([]byte, 5+len(payload))
	out[0] = magicByte
	out[1] = byte(schemaID >> 24)
	out[2] = byte(schemaID >> 16)
	out[3] = byte(schemaID >> 8)
	out[4] = byte(schemaID)
	copy(out[5:], payload)
	return out
}
